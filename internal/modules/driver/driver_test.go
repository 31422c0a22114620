package driver

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"hirebook/internal/types"
)

type fakeRepo struct {
	mu      sync.Mutex
	nextID  int64
	drivers map[int64]Driver
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{drivers: map[int64]Driver{}}
}

func (f *fakeRepo) Create(_ context.Context, d *Driver) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	d.ID = f.nextID
	f.drivers[d.ID] = *d
	return d.ID, nil
}

func (f *fakeRepo) List(_ context.Context) ([]Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Driver, 0, len(f.drivers))
	for _, d := range f.drivers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drivers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (f *fakeRepo) FindByVehicleNo(ctx context.Context, vehicleNo string) (*Driver, error) {
	all, _ := f.List(ctx)
	for _, d := range all {
		if d.VehicleNo == vehicleNo {
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) Update(_ context.Context, d *Driver) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.drivers[d.ID]; !ok {
		return ErrNotFound
	}
	f.drivers[d.ID] = *d
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drivers, id)
	return nil
}

func (f *fakeRepo) ExistsVehicleNo(_ context.Context, vehicleNo string, exceptID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, d := range f.drivers {
		if d.VehicleNo == vehicleNo && id != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) IncrementHires(ctx context.Context, vehicleNo string) error {
	d, err := f.FindByVehicleNo(ctx, vehicleNo)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n, _ := strconv.Atoi(d.NoOfHires)
	d.NoOfHires = strconv.Itoa(n + 1)
	f.drivers[d.ID] = *d
	return nil
}

func validDriver(vehicleNo string) Driver {
	return Driver{
		Name:        "Sunil Perera",
		ContactNo:   "0771234567",
		VehicleNo:   vehicleNo,
		VehicleType: "Van",
		ACType:      "AC",
		DriverNo:    "B1234567",
		SeatCount:   "9",
		RateOneWay:  "50",
		RateReturn:  "40",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Driver)
		wantField string
	}{
		{name: "valid", mutate: func(*Driver) {}},
		{name: "digits in name", mutate: func(d *Driver) { d.Name = "Sunil 2" }, wantField: "name"},
		{name: "contact too long", mutate: func(d *Driver) { d.ContactNo = "07712345678" }, wantField: "contactNo"},
		{name: "contact letters", mutate: func(d *Driver) { d.ContactNo = "077abc" }, wantField: "contactNo"},
		{name: "missing vehicle", mutate: func(d *Driver) { d.VehicleNo = "" }, wantField: "vehicleNo"},
		{name: "missing ac type", mutate: func(d *Driver) { d.ACType = " " }, wantField: "acType"},
		{name: "driver no too long", mutate: func(d *Driver) { d.DriverNo = "1234567890123456" }, wantField: "driverNo"},
		{name: "seat count text", mutate: func(d *Driver) { d.SeatCount = "nine" }, wantField: "seatCount"},
		{name: "rate text", mutate: func(d *Driver) { d.RateOneWay = "fifty" }, wantField: "rateOneWay"},
		{name: "negative rate", mutate: func(d *Driver) { d.RateReturn = "-1" }, wantField: "rateReturn"},
		{name: "decimal rate allowed", mutate: func(d *Driver) { d.RateReturn = "42.50" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDriver("CAB-1234")
			tt.mutate(&d)
			err := Validate(d)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *types.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tt.wantField]; !ok {
				t.Fatalf("expected field %s in %v", tt.wantField, ve.Fields)
			}
		})
	}
}

func TestRateCard(t *testing.T) {
	d := validDriver("CAB-1234")
	card, err := d.RateCard()
	if err != nil {
		t.Fatalf("rate card: %v", err)
	}
	if card.OneWay.String() != "50" || card.Return.String() != "40" || card.VehicleNo != "CAB-1234" {
		t.Fatalf("unexpected card: %+v", card)
	}

	d.RateOneWay = "n/a"
	if _, err := d.RateCard(); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}

func TestServiceCreate_DuplicateVehicle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), Options{UniqueVehicleNo: true})

	if _, err := svc.Create(ctx, validDriver("CAB-1234")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, validDriver(" CAB-1234 "))
	if !errors.Is(err, ErrDuplicateVehicle) {
		t.Fatalf("expected ErrDuplicateVehicle, got %v", err)
	}
}

func TestServiceCreate_DuplicateAllowedWhenDisabled(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), Options{})

	first, err := svc.Create(ctx, validDriver("CAB-1234"))
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, validDriver("CAB-1234")); err != nil {
		t.Fatalf("second create: %v", err)
	}

	d, err := svc.FindByVehicleNo(ctx, "CAB-1234")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if d.ID != first {
		t.Fatalf("expected lowest id %d, got %d", first, d.ID)
	}
}

func TestServiceUpdate_KeepsOwnVehicleNo(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), Options{UniqueVehicleNo: true})

	id, err := svc.Create(ctx, validDriver("CAB-1234"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	d := validDriver("CAB-1234")
	d.ID = id
	d.RateOneWay = "55"
	if err := svc.Update(ctx, d); err != nil {
		t.Fatalf("update: %v", err)
	}

	card, err := svc.RateCard(ctx, "CAB-1234")
	if err != nil {
		t.Fatalf("rate card: %v", err)
	}
	if card.OneWay.String() != "55" {
		t.Fatalf("expected new rate, got %s", card.OneWay)
	}
}

func TestServiceUpdate_Missing(t *testing.T) {
	svc := NewService(newFakeRepo(), Options{})
	d := validDriver("CAB-1234")
	d.ID = 42
	if err := svc.Update(context.Background(), d); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceRateCard_Unknown(t *testing.T) {
	svc := NewService(newFakeRepo(), Options{})
	if _, err := svc.RateCard(context.Background(), "NOPE-0000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceCreate_DefaultsHireCount(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), Options{})
	id, err := svc.Create(ctx, validDriver("CAB-1234"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.IncrementHires(ctx, "CAB-1234"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	d, _ := svc.Get(ctx, id)
	if d.NoOfHires != "1" {
		t.Fatalf("expected 1 hire, got %q", d.NoOfHires)
	}
}

func TestServiceUpdate_KeepsHireCountWhenBlank(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), Options{})
	id, err := svc.Create(ctx, validDriver("CAB-1234"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.IncrementHires(ctx, "CAB-1234"); err != nil {
		t.Fatalf("increment: %v", err)
	}

	d := validDriver("CAB-1234")
	d.ID = id
	d.ContactNo = "0719876543"
	if err := svc.Update(ctx, d); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := svc.Get(ctx, id)
	if got.NoOfHires != "1" {
		t.Fatalf("expected hire count kept at 1, got %q", got.NoOfHires)
	}
	if got.ContactNo != "0719876543" {
		t.Fatalf("expected new contact number, got %q", got.ContactNo)
	}

	d.NoOfHires = "5"
	if err := svc.Update(ctx, d); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = svc.Get(ctx, id)
	if got.NoOfHires != "5" {
		t.Fatalf("expected explicit hire count 5, got %q", got.NoOfHires)
	}
}
