// README: Geographic point value object.
package types

// Point is a latitude/longitude pair in decimal degrees. The zero value
// (0,0) is the sentinel for "not set yet".
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) IsSet() bool {
	return p.Lat != 0 || p.Lng != 0
}
