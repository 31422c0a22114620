// README: Geocoding handlers (address search and reverse lookup).
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hirebook/internal/modules/geocode"
	"hirebook/internal/types"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]geocode.Place, error)
	Reverse(ctx context.Context, p types.Point) (string, error)
}

type GeocodeHandler struct {
	geo Geocoder
}

func NewGeocodeHandler(g Geocoder) *GeocodeHandler {
	return &GeocodeHandler{geo: g}
}

func (h *GeocodeHandler) Search(c *gin.Context) {
	places, err := h.geo.Geocode(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if places == nil {
		places = []geocode.Place{}
	}
	writeJSON(c, http.StatusOK, gin.H{"results": places})
}

func (h *GeocodeHandler) Reverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}
	addr, err := h.geo.Reverse(c.Request.Context(), types.Point{Lat: lat, Lng: lng})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"address": addr})
}
