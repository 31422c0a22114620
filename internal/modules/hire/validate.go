// README: Input rules for the hire form.
package hire

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"hirebook/internal/modules/fare"
	"hirebook/internal/types"
)

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z\s]+$`)
	contactPattern = regexp.MustCompile(`^\d{10}$`)
	digitsPattern  = regexp.MustCompile(`^\d+$`)
)

// numericFields hold non-negative decimals.
var numericFields = []Field{
	FieldKm, FieldAmount, FieldExtraKm, FieldAdditionalKm,
	FieldAdditionalDayAmount, FieldFuelAmount,
}

// ValidateNew checks a hire about to be booked: required fields plus the
// format of every field.
func ValidateNew(h Hire) error {
	var v types.ValidationError
	required := []struct {
		field Field
		value string
	}{
		{FieldContactNo, h.ContactNo},
		{FieldName, h.Name},
		{FieldNIC, h.NIC},
		{FieldDate, h.Date},
		{FieldVehicleNo, h.VehicleNo},
		{FieldPickup, h.Pickup},
		{FieldDrop, h.Drop},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			v.Add(string(r.field), "is required")
		}
	}
	checkFormat(&v, h)
	return v.Err()
}

// ValidateFormat checks field formats only. Stored records that predate a
// required field stay editable.
func ValidateFormat(h Hire) error {
	var v types.ValidationError
	checkFormat(&v, h)
	return v.Err()
}

func checkFormat(v *types.ValidationError, h Hire) {
	checkField(v, FieldContactNo, h.ContactNo)
	checkField(v, FieldName, h.Name)
	checkField(v, FieldPassenger, h.Passenger)
	checkField(v, FieldTripType, string(h.TripType))
	checkField(v, FieldNoOfDays, h.NoOfDays)
	for _, f := range numericFields {
		checkField(v, f, fieldValue(h, f))
	}
}

// checkField validates a single value. Empty values always pass; required
// fields are checked separately.
func checkField(v *types.ValidationError, f Field, value string) {
	if value == "" {
		return
	}
	switch f {
	case FieldContactNo:
		if !contactPattern.MatchString(value) {
			v.Add(string(f), "must be exactly 10 digits")
		}
	case FieldName:
		if !namePattern.MatchString(value) {
			v.Add(string(f), "can contain letters and spaces only")
		}
	case FieldPassenger, FieldNoOfDays:
		if !digitsPattern.MatchString(value) {
			v.Add(string(f), "must contain numbers only")
		}
	case FieldTripType:
		if !fare.TripType(value).Canonical().Valid() {
			v.Add(string(f), "must be oneWay or return")
		}
	case FieldKm, FieldAmount, FieldExtraKm, FieldAdditionalKm, FieldAdditionalDayAmount, FieldFuelAmount:
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			v.Add(string(f), "must be a number")
		} else if d.IsNegative() {
			v.Add(string(f), "must not be negative")
		}
	}
}

func fieldValue(h Hire, f Field) string {
	switch f {
	case FieldKm:
		return h.Km
	case FieldAmount:
		return h.Amount
	case FieldExtraKm:
		return h.ExtraKm
	case FieldAdditionalKm:
		return h.AdditionalKm
	case FieldAdditionalDayAmount:
		return h.AdditionalDayAmount
	case FieldFuelAmount:
		return h.FuelAmount
	case FieldTripType:
		return string(h.TripType)
	case FieldVehicleNo:
		return h.VehicleNo
	}
	return ""
}
