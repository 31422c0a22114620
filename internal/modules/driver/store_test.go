package driver

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"hirebook/internal/migrations"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("HIREBOOK_TEST_DSN")
	if dsn == "" {
		t.Skip("HIREBOOK_TEST_DSN not set; skipping DB-backed store tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Provision(ctx, db); err != nil {
		t.Fatalf("provision: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE drivers RESTART IDENTITY"); err != nil {
		t.Fatalf("truncate drivers: %v", err)
	}
	return NewStore(db)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	d := validDriver("CAB-1234")
	d.NoOfHires = "7"
	id, err := store.Create(ctx, &d)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != d {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *got, d)
	}

	if err := store.IncrementHires(ctx, "CAB-1234"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	got, _ = store.FindByVehicleNo(ctx, "CAB-1234")
	if got.NoOfHires != "8" {
		t.Fatalf("expected 8 hires, got %q", got.NoOfHires)
	}

	exists, err := store.ExistsVehicleNo(ctx, "CAB-1234", id)
	if err != nil || exists {
		t.Fatalf("own vehicle must not count as duplicate: %v %v", exists, err)
	}
	exists, _ = store.ExistsVehicleNo(ctx, "CAB-1234", 0)
	if !exists {
		t.Fatal("expected vehicle to exist")
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	d.ID = id
	if err := store.Update(ctx, &d); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}
