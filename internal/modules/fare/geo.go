// Package fare turns a route and a vehicle rate card into billable amounts.
// Everything here is a pure function of its inputs and safe for concurrent use.
package fare

import (
	"math"
	"strconv"

	"hirebook/internal/types"
)

const earthRadiusKm = 6371.0

// MaxStops is the number of intermediate stops a hire can carry.
const MaxStops = 4

// Route is the ordered trip: pickup, up to four stops, drop. A stop left at
// the (0,0) sentinel is skipped.
type Route struct {
	Pickup types.Point           `json:"pickup"`
	Stops  [MaxStops]types.Point `json:"stops"`
	Drop   types.Point           `json:"drop"`
}

// Ready reports whether both ends of the route are known.
func (r Route) Ready() bool {
	return r.Pickup.IsSet() && r.Drop.IsSet()
}

// Waypoints returns pickup, every set stop in order, then drop.
func (r Route) Waypoints() []types.Point {
	pts := make([]types.Point, 0, MaxStops+2)
	pts = append(pts, r.Pickup)
	for _, s := range r.Stops {
		if s.IsSet() {
			pts = append(pts, s)
		}
	}
	return append(pts, r.Drop)
}

// RouteDistanceKm sums the great-circle legs of the route. ok is false when
// pickup or drop is unset; callers keep whatever distance they had before.
func RouteDistanceKm(r Route) (km float64, ok bool) {
	if !r.Ready() {
		return 0, false
	}
	return DistanceKm(r.Waypoints()), true
}

// DistanceKm sums HaversineKm over consecutive points. Fewer than two points
// yield zero.
func DistanceKm(points []types.Point) float64 {
	var total float64
	for i := 0; i+1 < len(points); i++ {
		total += HaversineKm(points[i], points[i+1])
	}
	return total
}

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// FormatKm renders a distance the way it is stored on the hire ("93.41").
func FormatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', 2, 64)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
