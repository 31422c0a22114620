// README: CSV export of hires and drivers.
package invoice

import (
	"encoding/csv"
	"io"
	"strconv"

	"hirebook/internal/modules/driver"
	"hirebook/internal/modules/hire"
)

var hireHeader = []string{
	"id", "hireNo", "invoiceNumber", "name", "contactNo", "nic", "tripType",
	"date", "time", "pickup", "stop1", "stop2", "stop3", "stop4", "drop",
	"km", "vehicleNo", "driverContactNo", "driverID", "cabNo", "passenger",
	"waiting", "noOfHires", "noOfDays", "amount", "additionalKm", "extraKm",
	"additionalDayAmount", "fuelAmount", "totalAmount",
}

var driverHeader = []string{
	"id", "name", "contactNo", "vehicleNo", "vehicleType", "acType", "driverNo",
	"cabNo", "seatCount", "rateOneWay", "rateReturn", "noOfHires",
}

// WriteHiresCSV writes one header row then one row per hire.
func WriteHiresCSV(w io.Writer, hires []hire.Hire) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(hireHeader); err != nil {
		return err
	}
	for _, h := range hires {
		row := []string{
			strconv.FormatInt(h.ID, 10), h.HireNo, h.InvoiceNumber, h.Name, h.ContactNo, h.NIC, string(h.TripType),
			h.Date, h.Time, h.Pickup, h.Stops[0], h.Stops[1], h.Stops[2], h.Stops[3], h.Drop,
			h.Km, h.VehicleNo, h.Driver.ContactNo, h.Driver.DriverID, h.CabNo, h.Passenger,
			h.Waiting, h.NoOfHires, h.NoOfDays, h.Amount, h.AdditionalKm, h.ExtraKm,
			h.AdditionalDayAmount, h.FuelAmount, h.TotalAmount,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDriversCSV writes one header row then one row per driver.
func WriteDriversCSV(w io.Writer, drivers []driver.Driver) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(driverHeader); err != nil {
		return err
	}
	for _, d := range drivers {
		row := []string{
			strconv.FormatInt(d.ID, 10), d.Name, d.ContactNo, d.VehicleNo, d.VehicleType, d.ACType, d.DriverNo,
			d.CabNo, d.SeatCount, d.RateOneWay, d.RateReturn, d.NoOfHires,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
