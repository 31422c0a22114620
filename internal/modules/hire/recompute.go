// README: Derived-field pipeline: apply a change, then recompute what depends on it.
package hire

import (
	"fmt"

	"github.com/shopspring/decimal"

	"hirebook/internal/modules/fare"
	"hirebook/internal/types"
)

type derivation uint8

const (
	deriveAmount derivation = 1 << iota
	deriveExtraKm
	deriveTotal
)

// rateDependent derivations need the vehicle's rate card.
const rateDependent = deriveAmount | deriveExtraKm

func (d derivation) has(x derivation) bool { return d&x != 0 }

// dependents lists what must be recomputed after f changes.
func dependents(f Field) derivation {
	switch f {
	case FieldKm:
		return deriveAmount | deriveTotal
	case FieldTripType, FieldVehicleNo:
		return deriveAmount | deriveExtraKm | deriveTotal
	case FieldAdditionalKm:
		return deriveExtraKm | deriveTotal
	case FieldAmount, FieldExtraKm, FieldFuelAmount, FieldAdditionalDayAmount:
		return deriveTotal
	}
	return 0
}

func dependentsOf(changed []Field) derivation {
	var d derivation
	for _, f := range changed {
		d |= dependents(f)
	}
	return d
}

// NeedsRateCard reports whether recomputing after the given changes reads
// the vehicle's rates.
func NeedsRateCard(changed ...Field) bool {
	return dependentsOf(changed).has(rateDependent)
}

// Recompute derives amount, extraKm and totalAmount from the already
// changed record h. card may be nil when the vehicle is unknown; the
// rate-dependent fields are then left as they are and a
// *DanglingVehicleError is returned together with the otherwise updated
// record. A *types.ValidationError is returned for unparseable inputs or a
// negative total.
func Recompute(h Hire, changed []Field, card *fare.RateCard) (Hire, error) {
	need := dependentsOf(changed)
	var dangling error

	if h.TripType == fare.TripOneWay {
		h.NoOfDays = ""
	}

	if need.has(rateDependent) && card == nil {
		dangling = &DanglingVehicleError{HireID: h.ID, VehicleNo: h.VehicleNo, Field: firstRateField(changed)}
		need &^= rateDependent
	}

	if need.has(deriveAmount) && h.Km != "" {
		km, err := parseQuantity(FieldKm, h.Km)
		if err != nil {
			return h, err
		}
		amount, _ := fare.BaseAmount(km, h.TripType, card)
		h.Amount = types.FormatMoney(amount)
	}

	if need.has(deriveExtraKm) {
		if h.AdditionalKm == "" {
			h.ExtraKm = ""
		} else {
			km, err := parseQuantity(FieldAdditionalKm, h.AdditionalKm)
			if err != nil {
				return h, err
			}
			extra, _ := fare.ExtraKmCharge(km, h.TripType, card)
			h.ExtraKm = types.FormatMoney(extra)
		}
	}

	if need.has(deriveTotal) {
		total, err := totalOf(h)
		if err != nil {
			return h, err
		}
		h.TotalAmount = total
	}

	return h, dangling
}

// totalOf is empty until the base amount is known.
func totalOf(h Hire) (string, error) {
	if h.Amount == "" {
		return "", nil
	}
	var in fare.TotalInput
	var v types.ValidationError
	for _, p := range []struct {
		field Field
		raw   string
		dst   *decimal.Decimal
	}{
		{FieldAmount, h.Amount, &in.Amount},
		{FieldExtraKm, h.ExtraKm, &in.ExtraKm},
		{FieldAdditionalDayAmount, h.AdditionalDayAmount, &in.AdditionalDay},
		{FieldFuelAmount, h.FuelAmount, &in.Fuel},
	} {
		d, err := types.ParseMoney(p.raw)
		if err != nil {
			v.Add(string(p.field), "must be a number")
			continue
		}
		*p.dst = d
	}
	if err := v.Err(); err != nil {
		return "", err
	}

	total := fare.TotalAmount(in)
	if total.IsNegative() {
		v.Add(string(FieldTotalAmount), fmt.Sprintf("would be negative (%s); check the fuel amount", types.FormatMoney(total)))
		return "", v.Err()
	}
	return types.FormatMoney(total), nil
}

func parseQuantity(f Field, raw string) (float64, error) {
	d, err := types.ParseMoney(raw)
	if err != nil {
		var v types.ValidationError
		v.Add(string(f), "must be a number")
		return 0, v.Err()
	}
	km, _ := d.Float64()
	return km, nil
}

func firstRateField(changed []Field) Field {
	for _, f := range changed {
		if dependents(f).has(rateDependent) {
			return f
		}
	}
	return ""
}
