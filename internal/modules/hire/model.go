// README: Hire record, its driver snapshot, and the editable field names.
package hire

import (
	"errors"
	"fmt"

	"hirebook/internal/modules/fare"
)

var (
	ErrNotFound        = errors.New("hire not found")
	ErrDanglingVehicle = errors.New("hire references a vehicle with no rate card")
	ErrUnknownField    = errors.New("unknown hire field")
	ErrReadOnlyField   = errors.New("hire field is derived and cannot be set")
)

// DanglingVehicleError reports a rate-dependent change on a hire whose
// vehicle number no longer resolves to a driver.
type DanglingVehicleError struct {
	HireID    int64
	VehicleNo string
	Field     Field
}

func (e *DanglingVehicleError) Error() string {
	return fmt.Sprintf("hire %d: vehicle %q has no rate card; cannot recompute after %s change", e.HireID, e.VehicleNo, e.Field)
}

func (e *DanglingVehicleError) Unwrap() error { return ErrDanglingVehicle }

// DriverSnapshot is the driver's contact number and licence id as they were
// when the hire was booked. It is never refreshed from the roster except
// when the hire's vehicle is changed.
type DriverSnapshot struct {
	ContactNo string `json:"driverContactNo"`
	DriverID  string `json:"driverID"`
}

// Hire is one customer trip. Amount fields are decimal strings with two
// fraction digits; an empty string means not computed yet.
type Hire struct {
	ID                  int64                 `json:"id"`
	HireNo              string                `json:"hireNo"`
	ContactNo           string                `json:"contactNo"`
	Name                string                `json:"name"`
	NIC                 string                `json:"nic"`
	TripType            fare.TripType         `json:"tripType"`
	Date                string                `json:"date"`
	Time                string                `json:"time"`
	Km                  string                `json:"km"`
	VehicleNo           string                `json:"vehicleNo"`
	Driver              DriverSnapshot        `json:"driver"`
	Amount              string                `json:"amount"`
	CabNo               string                `json:"cabNo"`
	Passenger           string                `json:"passenger"`
	ExtraKm             string                `json:"extraKm"`
	Waiting             string                `json:"waiting"`
	NoOfHires           string                `json:"noOfHires"`
	Pickup              string                `json:"pickup"`
	Drop                string                `json:"drop"`
	Stops               [fare.MaxStops]string `json:"stops"`
	AdditionalKm        string                `json:"additionalKm"`
	AdditionalDayAmount string                `json:"additionalDayAmount"`
	FuelAmount          string                `json:"fuelAmount"`
	TotalAmount         string                `json:"totalAmount"`
	InvoiceNumber       string                `json:"invoiceNumber"`
	NoOfDays            string                `json:"noOfDays"`
}

// Field names a single editable attribute, spelled as the column is.
type Field string

const (
	FieldHireNo              Field = "hireNo"
	FieldContactNo           Field = "contactNo"
	FieldName                Field = "name"
	FieldNIC                 Field = "nic"
	FieldTripType            Field = "tripType"
	FieldDate                Field = "date"
	FieldTime                Field = "time"
	FieldKm                  Field = "km"
	FieldVehicleNo           Field = "vehicleNo"
	FieldAmount              Field = "amount"
	FieldCabNo               Field = "cabNo"
	FieldPassenger           Field = "passenger"
	FieldExtraKm             Field = "extraKm"
	FieldWaiting             Field = "waiting"
	FieldPickup              Field = "pickup"
	FieldDrop                Field = "drop"
	FieldStop1               Field = "stop1"
	FieldStop2               Field = "stop2"
	FieldStop3               Field = "stop3"
	FieldStop4               Field = "stop4"
	FieldAdditionalKm        Field = "additionalKm"
	FieldAdditionalDayAmount Field = "additionalDayAmount"
	FieldFuelAmount          Field = "fuelAmount"
	FieldNoOfDays            Field = "noOfDays"
	FieldTotalAmount         Field = "totalAmount"
	FieldInvoiceNumber       Field = "invoiceNumber"
	FieldNoOfHires           Field = "noOfHires"
)

// Set assigns value to field f of h. Derived and store-assigned fields are
// rejected with ErrReadOnlyField.
func (h *Hire) Set(f Field, value string) error {
	switch f {
	case FieldHireNo:
		h.HireNo = value
	case FieldContactNo:
		h.ContactNo = value
	case FieldName:
		h.Name = value
	case FieldNIC:
		h.NIC = value
	case FieldTripType:
		h.TripType = fare.TripType(value).Canonical()
	case FieldDate:
		h.Date = value
	case FieldTime:
		h.Time = value
	case FieldKm:
		h.Km = value
	case FieldVehicleNo:
		h.VehicleNo = value
	case FieldAmount:
		h.Amount = value
	case FieldCabNo:
		h.CabNo = value
	case FieldPassenger:
		h.Passenger = value
	case FieldExtraKm:
		h.ExtraKm = value
	case FieldWaiting:
		h.Waiting = value
	case FieldPickup:
		h.Pickup = value
	case FieldDrop:
		h.Drop = value
	case FieldStop1, FieldStop2, FieldStop3, FieldStop4:
		h.Stops[stopIndex(f)] = value
	case FieldAdditionalKm:
		h.AdditionalKm = value
	case FieldAdditionalDayAmount:
		h.AdditionalDayAmount = value
	case FieldFuelAmount:
		h.FuelAmount = value
	case FieldNoOfDays:
		h.NoOfDays = value
	case FieldTotalAmount, FieldInvoiceNumber, FieldNoOfHires:
		return fmt.Errorf("%w: %s", ErrReadOnlyField, f)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return nil
}

func stopIndex(f Field) int {
	return int(f[len(f)-1] - '1')
}
