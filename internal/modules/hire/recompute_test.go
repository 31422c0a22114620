package hire

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"hirebook/internal/modules/fare"
	"hirebook/internal/types"
)

func testCard() *fare.RateCard {
	return &fare.RateCard{VehicleNo: "CAB-1234", OneWay: decimal.NewFromInt(50), Return: decimal.NewFromInt(40)}
}

func bookedHire() Hire {
	return Hire{
		ID:        7,
		TripType:  fare.TripOneWay,
		Km:        "100.00",
		VehicleNo: "CAB-1234",
		Amount:    "5000.00",
		NoOfDays:  "",
	}
}

func TestRecompute_Chains(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Hire)
		changed   []Field
		wantAmt   string
		wantExtra string
		wantTotal string
	}{
		{
			name:      "additional km feeds extra km and total",
			mutate:    func(h *Hire) { h.AdditionalKm = "12" },
			changed:   []Field{FieldAdditionalKm},
			wantAmt:   "5000.00",
			wantExtra: "600.00",
			wantTotal: "5600.00",
		},
		{
			name: "fuel feeds total only",
			mutate: func(h *Hire) {
				h.ExtraKm = "600.00"
				h.AdditionalDayAmount = "1500.00"
				h.FuelAmount = "250.50"
			},
			changed:   []Field{FieldFuelAmount},
			wantAmt:   "5000.00",
			wantExtra: "600.00",
			wantTotal: "6849.50",
		},
		{
			name: "trip type reprices everything",
			mutate: func(h *Hire) {
				h.TripType = fare.TripReturn
				h.AdditionalKm = "12"
			},
			changed:   []Field{FieldTripType},
			wantAmt:   "4000.00",
			wantExtra: "480.00",
			wantTotal: "4480.00",
		},
		{
			name:      "km feeds amount and total",
			mutate:    func(h *Hire) { h.Km = "20" },
			changed:   []Field{FieldKm},
			wantAmt:   "1000.00",
			wantExtra: "",
			wantTotal: "1000.00",
		},
		{
			name: "clearing additional km clears extra km",
			mutate: func(h *Hire) {
				h.ExtraKm = "600.00"
				h.AdditionalKm = ""
			},
			changed:   []Field{FieldAdditionalKm},
			wantAmt:   "5000.00",
			wantExtra: "",
			wantTotal: "5000.00",
		},
		{
			name:      "unrelated field derives nothing",
			mutate:    func(h *Hire) { h.Name = "Nimal" },
			changed:   []Field{FieldName},
			wantAmt:   "5000.00",
			wantExtra: "",
			wantTotal: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := bookedHire()
			tt.mutate(&h)
			got, err := Recompute(h, tt.changed, testCard())
			if err != nil {
				t.Fatalf("recompute: %v", err)
			}
			if got.Amount != tt.wantAmt || got.ExtraKm != tt.wantExtra || got.TotalAmount != tt.wantTotal {
				t.Fatalf("got amount=%q extra=%q total=%q, want %q %q %q",
					got.Amount, got.ExtraKm, got.TotalAmount, tt.wantAmt, tt.wantExtra, tt.wantTotal)
			}
		})
	}
}

func TestRecompute_TotalInvariant(t *testing.T) {
	h := bookedHire()
	h.AdditionalKm = "3.5"
	h.AdditionalDayAmount = "1200"
	h.FuelAmount = "99.99"
	got, err := Recompute(h, []Field{FieldAdditionalKm, FieldFuelAmount}, testCard())
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}

	parts := []string{got.Amount, got.ExtraKm, got.AdditionalDayAmount}
	sum := decimal.Zero
	for _, p := range parts {
		d, _ := types.ParseMoney(p)
		sum = sum.Add(d)
	}
	fuel, _ := types.ParseMoney(got.FuelAmount)
	if want := types.FormatMoney(sum.Sub(fuel)); got.TotalAmount != want {
		t.Fatalf("total %s != %s", got.TotalAmount, want)
	}
}

func TestRecompute_DanglingVehicle(t *testing.T) {
	h := bookedHire()
	h.VehicleNo = "GONE-0001"
	h.ExtraKm = "100.00"
	h.AdditionalKm = "12"

	got, err := Recompute(h, []Field{FieldAdditionalKm}, nil)
	var dangling *DanglingVehicleError
	if !errors.As(err, &dangling) {
		t.Fatalf("expected DanglingVehicleError, got %v", err)
	}
	if !errors.Is(err, ErrDanglingVehicle) {
		t.Fatal("DanglingVehicleError must wrap ErrDanglingVehicle")
	}
	if dangling.VehicleNo != "GONE-0001" || dangling.Field != FieldAdditionalKm {
		t.Fatalf("unexpected error detail: %+v", dangling)
	}
	if got.ExtraKm != "100.00" {
		t.Fatalf("rate-dependent field must be untouched, got %q", got.ExtraKm)
	}
	if got.TotalAmount != "5100.00" {
		t.Fatalf("total still follows stored inputs, got %q", got.TotalAmount)
	}
}

func TestRecompute_NonRateChangeOnOrphan(t *testing.T) {
	h := bookedHire()
	h.VehicleNo = "GONE-0001"
	h.FuelAmount = "500"
	got, err := Recompute(h, []Field{FieldFuelAmount}, nil)
	if err != nil {
		t.Fatalf("orphaned hire must accept non-rate changes: %v", err)
	}
	if got.TotalAmount != "4500.00" {
		t.Fatalf("total = %q", got.TotalAmount)
	}
}

func TestRecompute_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Hire)
		changed   []Field
		wantField string
	}{
		{
			name: "negative total",
			mutate: func(h *Hire) {
				h.Amount = "100.00"
				h.FuelAmount = "500"
			},
			changed:   []Field{FieldFuelAmount},
			wantField: string(FieldTotalAmount),
		},
		{
			name:      "non-numeric km",
			mutate:    func(h *Hire) { h.Km = "far" },
			changed:   []Field{FieldKm},
			wantField: string(FieldKm),
		},
		{
			name:      "non-numeric fuel",
			mutate:    func(h *Hire) { h.FuelAmount = "a lot" },
			changed:   []Field{FieldFuelAmount},
			wantField: string(FieldFuelAmount),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := bookedHire()
			tt.mutate(&h)
			_, err := Recompute(h, tt.changed, testCard())
			var ve *types.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tt.wantField]; !ok {
				t.Fatalf("expected field %s in %v", tt.wantField, ve.Fields)
			}
		})
	}
}

func TestRecompute_EmptyAmountLeavesTotalBlank(t *testing.T) {
	h := bookedHire()
	h.Amount = ""
	h.FuelAmount = "10"
	got, err := Recompute(h, []Field{FieldFuelAmount}, testCard())
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got.TotalAmount != "" {
		t.Fatalf("expected blank total, got %q", got.TotalAmount)
	}
}

func TestRecompute_OneWayClearsDays(t *testing.T) {
	h := bookedHire()
	h.NoOfDays = "3"
	got, _ := Recompute(h, nil, testCard())
	if got.NoOfDays != "" {
		t.Fatalf("oneWay hire kept noOfDays=%q", got.NoOfDays)
	}

	h.TripType = fare.TripReturn
	got, _ = Recompute(h, nil, testCard())
	if got.NoOfDays != "3" {
		t.Fatalf("return hire lost noOfDays")
	}
}

func TestSet(t *testing.T) {
	var h Hire
	if err := h.Set(FieldStop3, "Kegalle"); err != nil {
		t.Fatalf("set stop3: %v", err)
	}
	if h.Stops[2] != "Kegalle" {
		t.Fatalf("stop3 landed in %v", h.Stops)
	}
	if err := h.Set(FieldDrop, "Kandy"); err != nil || h.Drop != "Kandy" {
		t.Fatalf("set drop: %v %q", err, h.Drop)
	}
	if err := h.Set(FieldTotalAmount, "1"); !errors.Is(err, ErrReadOnlyField) {
		t.Fatalf("expected ErrReadOnlyField, got %v", err)
	}
	if err := h.Set("colour", "red"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestNeedsRateCard(t *testing.T) {
	if !NeedsRateCard(FieldVehicleNo) || !NeedsRateCard(FieldAdditionalKm) || !NeedsRateCard(FieldKm) {
		t.Fatal("vehicle, additional km and km need rates")
	}
	if NeedsRateCard(FieldFuelAmount, FieldName) {
		t.Fatal("fuel and name do not need rates")
	}
}
