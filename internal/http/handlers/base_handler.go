// README: Base handler utilities (JSON helpers, id parsing, error mapping).
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hirebook/internal/modules/driver"
	"hirebook/internal/modules/geocode"
	"hirebook/internal/modules/hire"
	"hirebook/internal/types"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// parseID reads the :id path parameter. Record ids are positive.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeServiceError(c *gin.Context, err error) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, hire.ErrUnknownField), errors.Is(err, hire.ErrReadOnlyField),
		errors.Is(err, geocode.ErrBadRequest), errors.Is(err, driver.ErrInvalidRate):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, hire.ErrNotFound), errors.Is(err, driver.ErrNotFound), errors.Is(err, geocode.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, driver.ErrDuplicateVehicle):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, hire.ErrDanglingVehicle):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, geocode.ErrDisabled):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("http: %s %s: %v", c.Request.Method, c.FullPath(), err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
