// README: Driver service: roster maintenance and rate card lookup.
package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hirebook/internal/modules/fare"
)

// Repository is the persistence the service needs; *Store implements it.
type Repository interface {
	Create(ctx context.Context, d *Driver) (int64, error)
	List(ctx context.Context) ([]Driver, error)
	Get(ctx context.Context, id int64) (*Driver, error)
	FindByVehicleNo(ctx context.Context, vehicleNo string) (*Driver, error)
	Update(ctx context.Context, d *Driver) error
	Delete(ctx context.Context, id int64) error
	ExistsVehicleNo(ctx context.Context, vehicleNo string, exceptID int64) (bool, error)
	IncrementHires(ctx context.Context, vehicleNo string) error
}

type Options struct {
	// UniqueVehicleNo rejects a second driver with the same vehicle number.
	UniqueVehicleNo bool
	// Timeout bounds each store call; zero means no extra bound.
	Timeout time.Duration
}

type Service struct {
	repo Repository
	opts Options
}

func NewService(repo Repository, opts Options) *Service {
	return &Service{repo: repo, opts: opts}
}

func (s *Service) Create(ctx context.Context, d Driver) (int64, error) {
	normalize(&d)
	if err := Validate(d); err != nil {
		return 0, err
	}
	if err := s.checkUnique(ctx, d.VehicleNo, 0); err != nil {
		return 0, err
	}
	if d.NoOfHires == "" {
		d.NoOfHires = "0"
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Create(ctx, &d)
}

// Update overwrites driver d.ID. An empty noOfHires keeps the stored count.
func (s *Service) Update(ctx context.Context, d Driver) error {
	normalize(&d)
	if err := Validate(d); err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	prev, err := s.repo.Get(ctx, d.ID)
	if err != nil {
		return err
	}
	if d.NoOfHires == "" {
		d.NoOfHires = prev.NoOfHires
	}
	if err := s.checkUnique(ctx, d.VehicleNo, d.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, &d)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Driver, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Driver, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Get(ctx, id)
}

func (s *Service) FindByVehicleNo(ctx context.Context, vehicleNo string) (*Driver, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.FindByVehicleNo(ctx, strings.TrimSpace(vehicleNo))
}

// RateCard resolves the rates of the driver registered for vehicleNo.
func (s *Service) RateCard(ctx context.Context, vehicleNo string) (*fare.RateCard, error) {
	d, err := s.FindByVehicleNo(ctx, vehicleNo)
	if err != nil {
		return nil, err
	}
	return d.RateCard()
}

func (s *Service) IncrementHires(ctx context.Context, vehicleNo string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.IncrementHires(ctx, strings.TrimSpace(vehicleNo))
}

func (s *Service) checkUnique(ctx context.Context, vehicleNo string, exceptID int64) error {
	if !s.opts.UniqueVehicleNo {
		return nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	exists, err := s.repo.ExistsVehicleNo(ctx, vehicleNo, exceptID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateVehicle, vehicleNo)
	}
	return nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.Timeout)
}

func normalize(d *Driver) {
	d.Name = strings.TrimSpace(d.Name)
	d.VehicleNo = strings.TrimSpace(d.VehicleNo)
	d.ContactNo = strings.TrimSpace(d.ContactNo)
	d.DriverNo = strings.TrimSpace(d.DriverNo)
}
