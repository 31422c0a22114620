// README: Hire service: booking, quoting and the edit/recompute orchestration.
package hire

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"hirebook/internal/modules/driver"
	"hirebook/internal/modules/fare"
	"hirebook/internal/types"
)

// Repository is the persistence the service needs; *Store implements it.
type Repository interface {
	Create(ctx context.Context, h *Hire) (string, error)
	List(ctx context.Context) ([]Hire, error)
	Search(ctx context.Context, q string) ([]Hire, error)
	HireNumbers(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id int64) (*Hire, error)
	Update(ctx context.Context, h *Hire) error
	Delete(ctx context.Context, id int64) error
	CountByNIC(ctx context.Context, nic string) (int, error)
	MaxID(ctx context.Context) (int64, error)
}

// Drivers resolves vehicle numbers against the roster; *driver.Service
// implements it.
type Drivers interface {
	FindByVehicleNo(ctx context.Context, vehicleNo string) (*driver.Driver, error)
	IncrementHires(ctx context.Context, vehicleNo string) error
}

type Service struct {
	repo    Repository
	drivers Drivers
	timeout time.Duration
}

func NewService(repo Repository, drivers Drivers, timeout time.Duration) *Service {
	return &Service{repo: repo, drivers: drivers, timeout: timeout}
}

// BookCommand carries the form fields plus the picked coordinates.
type BookCommand struct {
	Hire
	Route fare.Route `json:"route"`
}

type BookResult struct {
	ID            int64    `json:"id"`
	InvoiceNumber string   `json:"invoice_number"`
	Hire          Hire     `json:"hire"`
	Warnings      []string `json:"warnings,omitempty"`
}

type QuoteCommand struct {
	Route        fare.Route    `json:"route"`
	Km           string        `json:"km"`
	TripType     fare.TripType `json:"tripType"`
	VehicleNo    string        `json:"vehicleNo"`
	AdditionalKm string        `json:"additionalKm"`
}

type Quote struct {
	Km           string `json:"km"`
	Amount       string `json:"amount"`
	ExtraKm      string `json:"extraKm"`
	RatePerKm    string `json:"ratePerKm"`
	VehicleFound bool   `json:"vehicleFound"`
}

// Quote prices a trip without saving anything.
func (s *Service) Quote(ctx context.Context, cmd QuoteCommand) (Quote, error) {
	trip := cmd.TripType.Canonical()
	if trip == "" {
		trip = fare.TripOneWay
	}
	var v types.ValidationError
	checkField(&v, FieldTripType, string(trip))
	checkField(&v, FieldKm, cmd.Km)
	checkField(&v, FieldAdditionalKm, cmd.AdditionalKm)
	if err := v.Err(); err != nil {
		return Quote{}, err
	}

	km, ok := fare.RouteDistanceKm(cmd.Route)
	if !ok {
		km, _ = parseQuantity(FieldKm, cmd.Km)
	}
	q := Quote{Km: fare.FormatKm(km)}

	card, err := s.rateCard(ctx, cmd.VehicleNo)
	if err != nil {
		return Quote{}, err
	}
	if card == nil {
		return q, nil
	}

	q.VehicleFound = true
	q.RatePerKm = types.FormatMoney(card.PerKm(trip))
	amount, _ := fare.BaseAmount(km, trip, card)
	q.Amount = types.FormatMoney(amount)
	if cmd.AdditionalKm != "" {
		extra, _ := parseQuantity(FieldAdditionalKm, cmd.AdditionalKm)
		charge, _ := fare.ExtraKmCharge(extra, trip, card)
		q.ExtraKm = types.FormatMoney(charge)
	}
	return q, nil
}

// Book validates and prices a new hire, then stores it with the next
// invoice number. An unknown vehicle is not fatal: the amount stays blank
// and a warning is returned.
func (s *Service) Book(ctx context.Context, cmd BookCommand) (BookResult, error) {
	h := cmd.Hire
	h.ID = 0
	h.InvoiceNumber = ""
	normalize(&h)
	if h.TripType == "" {
		h.TripType = fare.TripOneWay
	}
	if err := ValidateNew(h); err != nil {
		return BookResult{}, err
	}

	var warnings []string
	card, snapshot, err := s.resolveVehicle(ctx, h.VehicleNo)
	if err != nil {
		return BookResult{}, err
	}
	if card == nil {
		log.Printf("hire: vehicle %s has no rate card; booking without amount", h.VehicleNo)
		warnings = append(warnings, fmt.Sprintf("vehicle %s has no rate card", h.VehicleNo))
	}
	h.Driver = snapshot

	changed := []Field{FieldExtraKm, FieldAdditionalKm}
	if km, ok := fare.RouteDistanceKm(cmd.Route); ok {
		// Amount uses the unrounded distance; only the stored km is rounded.
		h.Km = fare.FormatKm(km)
		h.Amount = ""
		if amount, ok := fare.BaseAmount(km, h.TripType, card); ok {
			h.Amount = types.FormatMoney(amount)
		}
		changed = append(changed, FieldAmount)
	} else {
		h.Amount = ""
		changed = append(changed, FieldKm)
	}

	h, err = Recompute(h, changed, card)
	if err != nil && !errors.Is(err, ErrDanglingVehicle) {
		return BookResult{}, err
	}

	if h.HireNo == "" {
		next, err := s.NextHireNo(ctx)
		if err != nil {
			return BookResult{}, err
		}
		h.HireNo = strconv.FormatInt(next, 10)
	}

	// noOfHires counts the customer's earlier hires, not this one.
	prior, err := s.countByNIC(ctx, h.NIC)
	if err != nil {
		return BookResult{}, err
	}
	h.NoOfHires = strconv.Itoa(prior)

	invoice, err := s.create(ctx, &h)
	if err != nil {
		log.Printf("hire: create failed: %v", err)
		return BookResult{}, err
	}

	if card != nil {
		if err := s.drivers.IncrementHires(ctx, h.VehicleNo); err != nil {
			log.Printf("hire: bump hire count of %s: %v", h.VehicleNo, err)
		}
	}

	log.Printf("hire: booked id=%d invoice=%s vehicle=%s", h.ID, invoice, h.VehicleNo)
	return BookResult{ID: h.ID, InvoiceNumber: invoice, Hire: h, Warnings: warnings}, nil
}

// EditCommand is a full replacement of a stored hire.
type EditCommand struct {
	Hire
}

// Edit overwrites the stored record with cmd, recomputing whatever the
// changed inputs feed. An empty invoice number, hire count, driver snapshot
// or trip type keeps the stored value.
func (s *Service) Edit(ctx context.Context, cmd EditCommand) (*Hire, error) {
	next := cmd.Hire
	normalize(&next)
	if err := ValidateFormat(next); err != nil {
		return nil, err
	}

	prev, err := s.Get(ctx, next.ID)
	if err != nil {
		return nil, err
	}
	if next.InvoiceNumber == "" {
		next.InvoiceNumber = prev.InvoiceNumber
	}
	if next.NoOfHires == "" {
		next.NoOfHires = prev.NoOfHires
	}
	if next.Driver == (DriverSnapshot{}) {
		next.Driver = prev.Driver
	}
	if next.TripType == "" {
		next.TripType = prev.TripType
	}

	changed := diff(*prev, next)
	// The total always follows its inputs, even if only the total was sent.
	changed = append(changed, FieldAmount)
	return s.recomputeAndSave(ctx, next, changed)
}

// ApplyChange sets one field of a stored hire, recomputes the fields that
// depend on it and saves the result.
func (s *Service) ApplyChange(ctx context.Context, id int64, f Field, value string) (*Hire, error) {
	value = strings.TrimSpace(value)
	var v types.ValidationError
	if f == FieldTripType && value == "" {
		v.Add(string(f), "is required")
	}
	checkField(&v, f, value)
	if err := v.Err(); err != nil {
		return nil, err
	}

	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := h.Set(f, value); err != nil {
		return nil, err
	}
	return s.recomputeAndSave(ctx, *h, []Field{f})
}

func (s *Service) recomputeAndSave(ctx context.Context, h Hire, changed []Field) (*Hire, error) {
	if h.TripType == "" {
		// Rows saved without a trip type take the booking default and are
		// repriced to match it.
		h.TripType = fare.TripOneWay
		changed = append(changed, FieldTripType)
	}
	var card *fare.RateCard
	if NeedsRateCard(changed...) {
		c, snapshot, err := s.resolveVehicle(ctx, h.VehicleNo)
		if err != nil {
			return nil, err
		}
		card = c
		if card != nil && containsField(changed, FieldVehicleNo) {
			h.Driver = snapshot
		}
	}

	out, err := Recompute(h, changed, card)
	var dangling *DanglingVehicleError
	if errors.As(err, &dangling) {
		log.Printf("hire: %v", dangling)
		return nil, dangling
	}
	if err != nil {
		return nil, err
	}

	if err := s.update(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recompute re-derives the hire's amounts after the given fields changed,
// resolving the rate card from the roster. The result is not saved.
func (s *Service) Recompute(ctx context.Context, h Hire, changed ...Field) (Hire, error) {
	card, _, err := s.resolveVehicle(ctx, h.VehicleNo)
	if err != nil {
		return h, err
	}
	return Recompute(h, changed, card)
}

func (s *Service) List(ctx context.Context) ([]Hire, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *Service) Search(ctx context.Context, q string) ([]Hire, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Search(ctx, q)
}

func (s *Service) HireNumbers(ctx context.Context) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.HireNumbers(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Hire, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Delete(ctx, id)
}

// NextHireNo suggests the hire number of the next booking (highest id + 1).
// It is informational; two open forms can show the same value.
func (s *Service) NextHireNo(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	highest, err := s.repo.MaxID(ctx)
	if err != nil {
		return 0, err
	}
	return highest + 1, nil
}

// resolveVehicle returns a nil card when the vehicle is not on the roster
// or its rates cannot be read.
func (s *Service) resolveVehicle(ctx context.Context, vehicleNo string) (*fare.RateCard, DriverSnapshot, error) {
	if strings.TrimSpace(vehicleNo) == "" {
		return nil, DriverSnapshot{}, nil
	}
	d, err := s.drivers.FindByVehicleNo(ctx, vehicleNo)
	if errors.Is(err, driver.ErrNotFound) {
		return nil, DriverSnapshot{}, nil
	}
	if err != nil {
		return nil, DriverSnapshot{}, err
	}
	card, err := d.RateCard()
	if err != nil {
		log.Printf("hire: %v", err)
		return nil, DriverSnapshot{}, nil
	}
	return card, DriverSnapshot{ContactNo: d.ContactNo, DriverID: d.DriverNo}, nil
}

func (s *Service) rateCard(ctx context.Context, vehicleNo string) (*fare.RateCard, error) {
	card, _, err := s.resolveVehicle(ctx, vehicleNo)
	return card, err
}

func (s *Service) create(ctx context.Context, h *Hire) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Create(ctx, h)
}

func (s *Service) update(ctx context.Context, h *Hire) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Update(ctx, h)
}

func (s *Service) countByNIC(ctx context.Context, nic string) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.CountByNIC(ctx, nic)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// diff lists the pricing inputs that differ between two versions of a hire.
func diff(prev, next Hire) []Field {
	var out []Field
	pairs := []struct {
		f    Field
		a, b string
	}{
		{FieldKm, prev.Km, next.Km},
		{FieldTripType, string(prev.TripType), string(next.TripType)},
		{FieldVehicleNo, prev.VehicleNo, next.VehicleNo},
		{FieldAdditionalKm, prev.AdditionalKm, next.AdditionalKm},
		{FieldAmount, prev.Amount, next.Amount},
		{FieldExtraKm, prev.ExtraKm, next.ExtraKm},
		{FieldFuelAmount, prev.FuelAmount, next.FuelAmount},
		{FieldAdditionalDayAmount, prev.AdditionalDayAmount, next.AdditionalDayAmount},
	}
	for _, p := range pairs {
		if p.a != p.b {
			out = append(out, p.f)
		}
	}
	return out
}

func containsField(fs []Field, f Field) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

func normalize(h *Hire) {
	h.Name = strings.TrimSpace(h.Name)
	h.ContactNo = strings.TrimSpace(h.ContactNo)
	h.NIC = strings.TrimSpace(h.NIC)
	h.VehicleNo = strings.TrimSpace(h.VehicleNo)
	h.HireNo = strings.TrimSpace(h.HireNo)
	h.TripType = h.TripType.Canonical()
}
