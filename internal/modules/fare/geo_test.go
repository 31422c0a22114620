package fare

import (
	"math"
	"testing"

	"hirebook/internal/types"
)

var (
	colombo = types.Point{Lat: 6.9271, Lng: 79.8612}
	kandy   = types.Point{Lat: 7.2906, Lng: 80.6337}
	galle   = types.Point{Lat: 6.0535, Lng: 80.2210}
	negombo = types.Point{Lat: 7.2008, Lng: 79.8737}
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{name: "same point", a: colombo, b: colombo, wantKm: 0, tolerance: 0.001},
		{name: "Colombo to Kandy (~94km)", a: colombo, b: kandy, wantKm: 94, tolerance: 1.0},
		{name: "Colombo to Galle (~105km)", a: colombo, b: galle, wantKm: 105, tolerance: 3.0},
		{
			name:      "New York to Los Angeles (~3944km)",
			a:         types.Point{Lat: 40.7128, Lng: -74.0060},
			b:         types.Point{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("HaversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	d1 := HaversineKm(colombo, kandy)
	d2 := HaversineKm(kandy, colombo)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestRouteDistanceKm_PickupAndDropOnly(t *testing.T) {
	got, ok := RouteDistanceKm(Route{Pickup: colombo, Drop: kandy})
	if !ok {
		t.Fatal("expected route to be ready")
	}
	if direct := HaversineKm(colombo, kandy); got != direct {
		t.Errorf("route distance %f != direct distance %f", got, direct)
	}
	if got < 93.0 || got > 95.0 {
		t.Errorf("Colombo→Kandy = %f, want 93–95 km", got)
	}
}

func TestRouteDistanceKm_SentinelStopIgnored(t *testing.T) {
	base, _ := RouteDistanceKm(Route{Pickup: colombo, Drop: kandy})

	withEmpty := Route{Pickup: colombo, Drop: kandy}
	withEmpty.Stops[1] = types.Point{}
	got, _ := RouteDistanceKm(withEmpty)
	if got != base {
		t.Errorf("sentinel stop changed distance: %f vs %f", got, base)
	}
}

func TestRouteDistanceKm_StopsInOrder(t *testing.T) {
	r := Route{Pickup: colombo, Drop: kandy}
	r.Stops[0] = negombo
	r.Stops[2] = galle

	got, ok := RouteDistanceKm(r)
	if !ok {
		t.Fatal("expected route to be ready")
	}
	want := HaversineKm(colombo, negombo) + HaversineKm(negombo, galle) + HaversineKm(galle, kandy)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("route distance = %f, want %f", got, want)
	}
}

func TestRouteDistanceKm_NotReady(t *testing.T) {
	tests := []struct {
		name  string
		route Route
	}{
		{name: "empty", route: Route{}},
		{name: "missing drop", route: Route{Pickup: colombo}},
		{name: "missing pickup", route: Route{Drop: kandy}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if km, ok := RouteDistanceKm(tt.route); ok || km != 0 {
				t.Errorf("RouteDistanceKm() = (%f, %v), want (0, false)", km, ok)
			}
		})
	}
}

func TestDistanceKm_DegenerateRoutes(t *testing.T) {
	if got := DistanceKm(nil); got != 0 {
		t.Errorf("empty route = %f", got)
	}
	if got := DistanceKm([]types.Point{colombo}); got != 0 {
		t.Errorf("single point = %f", got)
	}
}

func TestFormatKm(t *testing.T) {
	if got := FormatKm(94.3367); got != "94.34" {
		t.Errorf("FormatKm = %s", got)
	}
	if got := FormatKm(0); got != "0.00" {
		t.Errorf("FormatKm(0) = %s", got)
	}
}
