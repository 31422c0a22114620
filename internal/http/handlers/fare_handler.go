// README: Fare quote handler.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hirebook/internal/modules/hire"
)

type Quoter interface {
	Quote(ctx context.Context, cmd hire.QuoteCommand) (hire.Quote, error)
}

type FareHandler struct {
	quoter Quoter
}

func NewFareHandler(q Quoter) *FareHandler {
	return &FareHandler{quoter: q}
}

func (h *FareHandler) Quote(c *gin.Context) {
	var cmd hire.QuoteCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	q, err := h.quoter.Quote(c.Request.Context(), cmd)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, q)
}
