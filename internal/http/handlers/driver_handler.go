// README: Driver roster handlers (CRUD and CSV export).
package handlers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hirebook/internal/modules/driver"
	"hirebook/internal/modules/invoice"
)

type DriverService interface {
	Create(ctx context.Context, d driver.Driver) (int64, error)
	Update(ctx context.Context, d driver.Driver) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]driver.Driver, error)
	Get(ctx context.Context, id int64) (*driver.Driver, error)
}

type DriverHandler struct {
	drivers DriverService
}

func NewDriverHandler(svc DriverService) *DriverHandler {
	return &DriverHandler{drivers: svc}
}

func (h *DriverHandler) Create(c *gin.Context) {
	var d driver.Driver
	if err := c.ShouldBindJSON(&d); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.drivers.Create(c.Request.Context(), d)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"id": id})
}

func (h *DriverHandler) List(c *gin.Context) {
	list, err := h.drivers.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if list == nil {
		list = []driver.Driver{}
	}
	writeJSON(c, http.StatusOK, list)
}

func (h *DriverHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	d, err := h.drivers.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

func (h *DriverHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var d driver.Driver
	if err := c.ShouldBindJSON(&d); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	d.ID = id
	if err := h.drivers.Update(c.Request.Context(), d); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

func (h *DriverHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.drivers.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DriverHandler) ExportCSV(c *gin.Context) {
	list, err := h.drivers.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := invoice.WriteDriversCSV(&buf, list); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="drivers.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
