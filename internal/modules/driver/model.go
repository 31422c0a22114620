// README: Driver/vehicle roster record and its rate card.
package driver

import (
	"errors"
	"fmt"

	"hirebook/internal/modules/fare"
	"hirebook/internal/types"
)

var (
	ErrNotFound         = errors.New("driver not found")
	ErrDuplicateVehicle = errors.New("vehicle number already registered")
	ErrInvalidRate      = errors.New("invalid rate")
)

// Driver is one row of the roster. All attributes are stored as text; the
// two rates are decimal strings.
type Driver struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ContactNo   string `json:"contactNo"`
	VehicleNo   string `json:"vehicleNo"`
	VehicleType string `json:"vehicleType"`
	ACType      string `json:"acType"`
	DriverNo    string `json:"driverNo"`
	CabNo       string `json:"cabNo"`
	SeatCount   string `json:"seatCount"`
	RateOneWay  string `json:"rateOneWay"`
	RateReturn  string `json:"rateReturn"`
	NoOfHires   string `json:"noOfHires"`
}

// RateCard parses the stored rates. An empty rate reads as zero.
func (d Driver) RateCard() (*fare.RateCard, error) {
	oneWay, err := types.ParseMoney(d.RateOneWay)
	if err != nil {
		return nil, fmt.Errorf("%w: rateOneWay %q of vehicle %s", ErrInvalidRate, d.RateOneWay, d.VehicleNo)
	}
	ret, err := types.ParseMoney(d.RateReturn)
	if err != nil {
		return nil, fmt.Errorf("%w: rateReturn %q of vehicle %s", ErrInvalidRate, d.RateReturn, d.VehicleNo)
	}
	return &fare.RateCard{VehicleNo: d.VehicleNo, OneWay: oneWay, Return: ret}, nil
}
