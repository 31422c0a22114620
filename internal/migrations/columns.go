// README: Additive column provisioning ("add column if missing").
package migrations

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Column is a column that must exist on a table. Type defaults to TEXT.
type Column struct {
	Name string
	Type string
}

// HireColumns are the customers columns introduced after the first release.
var HireColumns = []Column{
	{Name: "additionalKm"},
	{Name: "additionalDayAmount"},
	{Name: "fuelAmount"},
	{Name: "totalAmount"},
	{Name: "invoiceNumber"},
	{Name: "noOfDays"},
	{Name: "stop1"},
	{Name: "stop2"},
	{Name: "stop3"},
	{Name: "stop4"},
	{Name: "nic"},
}

// EnsureColumns adds every column in want that table does not have yet and
// returns the names it added. Existing columns are never altered, renamed or
// dropped, so calling it again is a no-op.
func EnsureColumns(ctx context.Context, pool *pgxpool.Pool, table string, want []Column) ([]string, error) {
	existing, err := tableColumns(ctx, pool, table)
	if err != nil {
		return nil, fmt.Errorf("migrations: read columns of %s: %w", table, err)
	}

	missing := missingColumns(existing, want)
	added := make([]string, 0, len(missing))
	for _, c := range missing {
		// Unquoted identifiers fold to lower case; sanitize the folded form so
		// the column stays reachable by its camelCase spelling in queries.
		stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s NOT NULL DEFAULT ''`,
			pgx.Identifier{strings.ToLower(table)}.Sanitize(),
			pgx.Identifier{strings.ToLower(c.Name)}.Sanitize(),
			columnType(c),
		)
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return added, fmt.Errorf("migrations: add %s.%s: %w", table, c.Name, err)
		}
		log.Printf("migrations: added column %s.%s", table, c.Name)
		added = append(added, c.Name)
	}
	return added, nil
}

func tableColumns(ctx context.Context, pool *pgxpool.Pool, table string) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `
        SELECT column_name
        FROM information_schema.columns
        WHERE table_schema = current_schema()
          AND table_name = $1`, strings.ToLower(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q does not exist", table)
	}
	return cols, nil
}

// missingColumns keeps the order of want and compares names case-insensitively.
func missingColumns(existing map[string]bool, want []Column) []Column {
	var out []Column
	seen := make(map[string]bool, len(want))
	for _, c := range want {
		key := strings.ToLower(c.Name)
		if existing[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func columnType(c Column) string {
	if c.Type == "" {
		return "TEXT"
	}
	return c.Type
}
