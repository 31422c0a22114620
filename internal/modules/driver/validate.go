// README: Input rules for the driver form.
package driver

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"hirebook/internal/types"
)

const maxDriverNoLen = 15

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z\s]+$`)
	contactPattern = regexp.MustCompile(`^\d{1,10}$`)
	digitsPattern  = regexp.MustCompile(`^\d+$`)
)

// Validate checks a driver before it is written. It returns a
// *types.ValidationError listing every offending field, or nil.
func Validate(d Driver) error {
	var v types.ValidationError

	required := map[string]string{
		"name":        d.Name,
		"contactNo":   d.ContactNo,
		"vehicleNo":   d.VehicleNo,
		"vehicleType": d.VehicleType,
		"acType":      d.ACType,
		"driverNo":    d.DriverNo,
		"seatCount":   d.SeatCount,
		"rateOneWay":  d.RateOneWay,
		"rateReturn":  d.RateReturn,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			v.Add(field, "is required")
		}
	}

	if d.Name != "" && !namePattern.MatchString(d.Name) {
		v.Add("name", "can contain letters and spaces only")
	}
	if d.ContactNo != "" && !contactPattern.MatchString(d.ContactNo) {
		v.Add("contactNo", "must be digits only, at most 10")
	}
	if len(d.DriverNo) > maxDriverNoLen {
		v.Add("driverNo", "cannot exceed 15 characters")
	}
	if d.SeatCount != "" && !digitsPattern.MatchString(d.SeatCount) {
		v.Add("seatCount", "must contain numbers only")
	}
	checkRate(&v, "rateOneWay", d.RateOneWay)
	checkRate(&v, "rateReturn", d.RateReturn)

	return v.Err()
}

func checkRate(v *types.ValidationError, field, value string) {
	if value == "" {
		return
	}
	r, err := decimal.NewFromString(value)
	if err != nil {
		v.Add(field, "must be a number")
		return
	}
	if r.IsNegative() {
		v.Add(field, "must not be negative")
	}
}
