// README: Hire handlers: booking, listing, edits, field changes, invoice and export.
package handlers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hirebook/internal/modules/hire"
	"hirebook/internal/modules/invoice"
)

type HireService interface {
	Book(ctx context.Context, cmd hire.BookCommand) (hire.BookResult, error)
	Edit(ctx context.Context, cmd hire.EditCommand) (*hire.Hire, error)
	ApplyChange(ctx context.Context, id int64, f hire.Field, value string) (*hire.Hire, error)
	List(ctx context.Context) ([]hire.Hire, error)
	Search(ctx context.Context, q string) ([]hire.Hire, error)
	HireNumbers(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id int64) (*hire.Hire, error)
	Delete(ctx context.Context, id int64) error
	NextHireNo(ctx context.Context) (int64, error)
}

type HireHandler struct {
	hires HireService
	payee invoice.Payee
}

func NewHireHandler(svc HireService, payee invoice.Payee) *HireHandler {
	return &HireHandler{hires: svc, payee: payee}
}

type changeReq struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *HireHandler) Create(c *gin.Context) {
	var cmd hire.BookCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.hires.Book(c.Request.Context(), cmd)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, res)
}

// List returns every hire, or the matches of ?q= on vehicle number, NIC
// and hire number.
func (h *HireHandler) List(c *gin.Context) {
	var (
		hires []hire.Hire
		err   error
	)
	if q := c.Query("q"); q != "" {
		hires, err = h.hires.Search(c.Request.Context(), q)
	} else {
		hires, err = h.hires.List(c.Request.Context())
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if hires == nil {
		hires = []hire.Hire{}
	}
	writeJSON(c, http.StatusOK, hires)
}

func (h *HireHandler) Numbers(c *gin.Context) {
	nums, err := h.hires.HireNumbers(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if nums == nil {
		nums = []string{}
	}
	writeJSON(c, http.StatusOK, nums)
}

func (h *HireHandler) NextNumber(c *gin.Context) {
	n, err := h.hires.NextHireNo(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"next": n})
}

func (h *HireHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.hires.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rec)
}

func (h *HireHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var cmd hire.EditCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd.ID = id
	rec, err := h.hires.Edit(c.Request.Context(), cmd)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rec)
}

// Change applies a single field edit: {"field": "additionalKm", "value": "12"}.
func (h *HireHandler) Change(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req changeReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Field == "" {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	rec, err := h.hires.ApplyChange(c.Request.Context(), id, hire.Field(req.Field), req.Value)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rec)
}

func (h *HireHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.hires.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HireHandler) Invoice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.hires.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := invoice.RenderPDF(&buf, *rec, h.payee); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+invoice.FileName(*rec)+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *HireHandler) ExportCSV(c *gin.Context) {
	hires, err := h.hires.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := invoice.WriteHiresCSV(&buf, hires); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="hires.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
