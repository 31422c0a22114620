// README: Hire store backed by PostgreSQL; owns invoice numbering.
package hire

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hirebook/internal/migrations"
	"hirebook/internal/modules/fare"
)

const hireColumns = `id, hireNo, contactNo, name, nic, tripType, date, time, km, vehicleNo,
               driverContactNo, driverID, amount, cabNo, passenger, extraKm, waiting,
               noOfHires, pickup, "drop", stop1, stop2, stop3, stop4,
               additionalKm, additionalDayAmount, fuelAmount, totalAmount,
               invoiceNumber, noOfDays`

// FormatInvoiceNumber zero-pads a sequence value to five digits.
func FormatInvoiceNumber(n int64) string {
	return fmt.Sprintf("%05d", n)
}

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Create assigns the next invoice number and inserts h in one transaction.
// The counter row stays locked until commit, so concurrent creators get
// distinct numbers, and a failed insert rolls the increment back.
func (s *Store) Create(ctx context.Context, h *Hire) (string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var seq int64
	err = tx.QueryRow(ctx, `
        INSERT INTO invoice_counter (name, value) VALUES ($1, 1)
        ON CONFLICT (name) DO UPDATE SET value = invoice_counter.value + 1
        RETURNING value`, migrations.HireCounter,
	).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	invoice := FormatInvoiceNumber(seq)

	var id int64
	err = tx.QueryRow(ctx, `
        INSERT INTO customers (
            hireNo, contactNo, name, nic, tripType, date, time, km, vehicleNo,
            driverContactNo, driverID, amount, cabNo, passenger, extraKm, waiting,
            noOfHires, pickup, "drop", stop1, stop2, stop3, stop4,
            additionalKm, additionalDayAmount, fuelAmount, totalAmount,
            invoiceNumber, noOfDays
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9,
            $10, $11, $12, $13, $14, $15, $16,
            $17, $18, $19, $20, $21, $22, $23,
            $24, $25, $26, $27,
            $28, $29
        )
        RETURNING id`,
		h.HireNo, h.ContactNo, h.Name, h.NIC, string(h.TripType), h.Date, h.Time, h.Km, h.VehicleNo,
		h.Driver.ContactNo, h.Driver.DriverID, h.Amount, h.CabNo, h.Passenger, h.ExtraKm, h.Waiting,
		h.NoOfHires, h.Pickup, h.Drop, h.Stops[0], h.Stops[1], h.Stops[2], h.Stops[3],
		h.AdditionalKm, h.AdditionalDayAmount, h.FuelAmount, h.TotalAmount,
		invoice, h.NoOfDays,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert hire: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	h.ID = id
	h.InvoiceNumber = invoice
	return invoice, nil
}

func (s *Store) List(ctx context.Context) ([]Hire, error) {
	return s.query(ctx, `SELECT `+hireColumns+` FROM customers ORDER BY id`)
}

// Search matches q case-insensitively as a substring of the vehicle number,
// NIC or hire number. An empty query lists everything.
func (s *Store) Search(ctx context.Context, q string) ([]Hire, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.List(ctx)
	}
	return s.query(ctx, `
        SELECT `+hireColumns+`
        FROM customers
        WHERE vehicleNo ILIKE $1 ESCAPE '\'
           OR nic ILIKE $1 ESCAPE '\'
           OR hireNo ILIKE $1 ESCAPE '\'
        ORDER BY id`, "%"+escapeLike(q)+"%")
}

func (s *Store) HireNumbers(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT hireNo FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*Hire, error) {
	row := s.db.QueryRow(ctx, `SELECT `+hireColumns+` FROM customers WHERE id = $1`, id)
	h, err := scanHire(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return h, err
}

// Update overwrites every column of the record with h.ID, invoice number
// included.
func (s *Store) Update(ctx context.Context, h *Hire) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE customers
        SET hireNo = $1, contactNo = $2, name = $3, nic = $4, tripType = $5, date = $6,
            time = $7, km = $8, vehicleNo = $9, driverContactNo = $10, driverID = $11,
            amount = $12, cabNo = $13, passenger = $14, extraKm = $15, waiting = $16,
            noOfHires = $17, pickup = $18, "drop" = $19, stop1 = $20, stop2 = $21,
            stop3 = $22, stop4 = $23, additionalKm = $24, additionalDayAmount = $25,
            fuelAmount = $26, totalAmount = $27, invoiceNumber = $28, noOfDays = $29
        WHERE id = $30`,
		h.HireNo, h.ContactNo, h.Name, h.NIC, string(h.TripType), h.Date,
		h.Time, h.Km, h.VehicleNo, h.Driver.ContactNo, h.Driver.DriverID,
		h.Amount, h.CabNo, h.Passenger, h.ExtraKm, h.Waiting,
		h.NoOfHires, h.Pickup, h.Drop, h.Stops[0], h.Stops[1],
		h.Stops[2], h.Stops[3], h.AdditionalKm, h.AdditionalDayAmount,
		h.FuelAmount, h.TotalAmount, h.InvoiceNumber, h.NoOfDays,
		h.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete is idempotent; removing a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return err
}

func (s *Store) CountByNIC(ctx context.Context, nic string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE nic = $1`, nic).Scan(&n)
	return n, err
}

func (s *Store) MaxID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM customers`).Scan(&id)
	return id, err
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]Hire, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Hire
	for rows.Next() {
		h, err := scanHire(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func scanHire(row pgx.Row) (*Hire, error) {
	var h Hire
	var trip string
	err := row.Scan(
		&h.ID, &h.HireNo, &h.ContactNo, &h.Name, &h.NIC, &trip, &h.Date, &h.Time, &h.Km, &h.VehicleNo,
		&h.Driver.ContactNo, &h.Driver.DriverID, &h.Amount, &h.CabNo, &h.Passenger, &h.ExtraKm, &h.Waiting,
		&h.NoOfHires, &h.Pickup, &h.Drop, &h.Stops[0], &h.Stops[1], &h.Stops[2], &h.Stops[3],
		&h.AdditionalKm, &h.AdditionalDayAmount, &h.FuelAmount, &h.TotalAmount,
		&h.InvoiceNumber, &h.NoOfDays,
	)
	if err != nil {
		return nil, err
	}
	h.TripType = fare.TripType(trip).Canonical()
	return &h, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
