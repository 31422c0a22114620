// README: Startup provisioning: bootstrap files, grown columns, counter seed.
package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HireCounter is the invoice_counter row used for hire invoice numbers.
const HireCounter = "hire"

// provisionLock serialises Provision across processes sharing a database.
const provisionLock int64 = 0x68697265626f6f6b

// Provision brings any database, fresh or created by an older build, to the
// current schema. It is safe to call on every start.
func Provision(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("migrations: acquire conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, provisionLock); err != nil {
		return fmt.Errorf("migrations: take provision lock: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, provisionLock)
	}()

	if err := Run(ctx, pool); err != nil {
		return err
	}
	if _, err := EnsureColumns(ctx, pool, "customers", HireColumns); err != nil {
		return err
	}
	return seedCounter(ctx, pool)
}

// seedCounter starts the sequence after whatever the legacy "count + 1"
// scheme already handed out. An existing counter row is left alone.
func seedCounter(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
        INSERT INTO invoice_counter (name, value)
        SELECT $1::text, GREATEST(
            COUNT(*),
            COALESCE(MAX(CASE WHEN invoiceNumber ~ '^[0-9]+$' THEN invoiceNumber::bigint END), 0)
        )
        FROM customers
        ON CONFLICT (name) DO NOTHING`, HireCounter)
	if err != nil {
		return fmt.Errorf("migrations: seed invoice counter: %w", err)
	}
	return nil
}
