// README: Rate selection and amount formulas.
package fare

import (
	"strings"

	"github.com/shopspring/decimal"

	"hirebook/internal/types"
)

type TripType string

const (
	TripOneWay TripType = "oneWay"
	TripReturn TripType = "return"

	// tripReturnLegacy is how the desktop form spells a return trip.
	tripReturnLegacy TripType = "returnTrip"
)

func (t TripType) Valid() bool {
	return t == TripOneWay || t == TripReturn
}

// Canonical maps accepted spellings onto TripOneWay or TripReturn. Blank
// stays blank; unknown values are returned unchanged so Valid rejects them.
func (t TripType) Canonical() TripType {
	switch trimmed := TripType(strings.TrimSpace(string(t))); trimmed {
	case TripOneWay, TripReturn, "":
		return trimmed
	case tripReturnLegacy:
		return TripReturn
	}
	return t
}

// RateCard is a vehicle's per-kilometre charge for each trip direction.
type RateCard struct {
	VehicleNo string
	OneWay    decimal.Decimal
	Return    decimal.Decimal
}

// PerKm picks the one-way rate for one-way trips and the return rate otherwise.
func (c RateCard) PerKm(t TripType) decimal.Decimal {
	if t == TripOneWay {
		return c.OneWay
	}
	return c.Return
}

// BaseAmount is distance × rate. ok is false when no vehicle has been
// matched yet, in which case the amount stays blank.
func BaseAmount(distanceKm float64, t TripType, card *RateCard) (decimal.Decimal, bool) {
	if card == nil {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(distanceKm).Mul(card.PerKm(t)), true
}

// ExtraKmCharge applies the same rate rule to kilometres added after booking.
func ExtraKmCharge(additionalKm float64, t TripType, card *RateCard) (decimal.Decimal, bool) {
	return BaseAmount(additionalKm, t, card)
}

// TotalInput holds the four inputs of the payable total. Zero values stand
// in for fields the user left empty.
type TotalInput struct {
	Amount        decimal.Decimal
	ExtraKm       decimal.Decimal
	AdditionalDay decimal.Decimal
	Fuel          decimal.Decimal
}

// TotalAmount = amount + extraKm + additionalDay − fuel.
func TotalAmount(in TotalInput) decimal.Decimal {
	return in.Amount.Add(in.ExtraKm).Add(in.AdditionalDay).Sub(in.Fuel)
}

// FormatAmount renders a money value with two fraction digits.
func FormatAmount(d decimal.Decimal) string {
	return types.FormatMoney(d)
}

// ParseAmount reads a stored amount; the empty string is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	return types.ParseMoney(s)
}
