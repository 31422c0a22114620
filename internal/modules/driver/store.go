// README: Driver store backed by PostgreSQL.
package driver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const driverColumns = `id, name, contactNo, vehicleNo, vehicleType, acType, driverNo,
               cabNo, seatCount, rateOneWay, rateReturn, noOfHires`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, d *Driver) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
        INSERT INTO drivers (
            name, contactNo, vehicleNo, vehicleType, acType, driverNo,
            cabNo, seatCount, rateOneWay, rateReturn, noOfHires
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id`,
		d.Name, d.ContactNo, d.VehicleNo, d.VehicleType, d.ACType, d.DriverNo,
		d.CabNo, d.SeatCount, d.RateOneWay, d.RateReturn, d.NoOfHires,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	d.ID = id
	return id, nil
}

func (s *Store) List(ctx context.Context) ([]Driver, error) {
	rows, err := s.db.Query(ctx, `SELECT `+driverColumns+` FROM drivers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*Driver, error) {
	row := s.db.QueryRow(ctx, `SELECT `+driverColumns+` FROM drivers WHERE id = $1`, id)
	return scanOne(row)
}

// FindByVehicleNo returns the lowest-id driver registered for the vehicle.
func (s *Store) FindByVehicleNo(ctx context.Context, vehicleNo string) (*Driver, error) {
	row := s.db.QueryRow(ctx, `
        SELECT `+driverColumns+`
        FROM drivers
        WHERE vehicleNo = $1
        ORDER BY id
        LIMIT 1`, vehicleNo)
	return scanOne(row)
}

func (s *Store) Update(ctx context.Context, d *Driver) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE drivers
        SET name = $1, contactNo = $2, vehicleNo = $3, vehicleType = $4, acType = $5,
            driverNo = $6, cabNo = $7, seatCount = $8, rateOneWay = $9, rateReturn = $10,
            noOfHires = $11
        WHERE id = $12`,
		d.Name, d.ContactNo, d.VehicleNo, d.VehicleType, d.ACType,
		d.DriverNo, d.CabNo, d.SeatCount, d.RateOneWay, d.RateReturn,
		d.NoOfHires, d.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the driver. Hires keep their vehicle number.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	return err
}

func (s *Store) ExistsVehicleNo(ctx context.Context, vehicleNo string, exceptID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM drivers WHERE vehicleNo = $1 AND id <> $2
        )`, vehicleNo, exceptID,
	).Scan(&exists)
	return exists, err
}

// IncrementHires bumps the running hire count of the vehicle's driver.
// A non-numeric legacy value restarts from zero.
func (s *Store) IncrementHires(ctx context.Context, vehicleNo string) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE drivers
        SET noOfHires = ((CASE WHEN noOfHires ~ '^[0-9]+$' THEN noOfHires::bigint ELSE 0 END) + 1)::text
        WHERE id = (SELECT id FROM drivers WHERE vehicleNo = $1 ORDER BY id LIMIT 1)`,
		vehicleNo,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOne(row pgx.Row) (*Driver, error) {
	d, err := scanDriver(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func scanDriver(row pgx.Row) (*Driver, error) {
	var d Driver
	err := row.Scan(
		&d.ID, &d.Name, &d.ContactNo, &d.VehicleNo, &d.VehicleType, &d.ACType, &d.DriverNo,
		&d.CabNo, &d.SeatCount, &d.RateOneWay, &d.RateReturn, &d.NoOfHires,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
