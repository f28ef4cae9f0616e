package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrymomot/dbqueue/pkg/queue"
)

// driverName is registered by github.com/jackc/pgx/v5/stdlib.
const driverName = "pgx"

// Dialect implements queue.Dialect for PostgreSQL.
type Dialect struct {
	// Schema is where the table is looked up; empty means "public".
	Schema string
}

var _ queue.Dialect = Dialect{}

func (Dialect) Name() string                      { return "postgres" }
func (Dialect) DriverName() string                { return driverName }
func (Dialect) Placeholder() sq.PlaceholderFormat { return sq.Dollar }
func (Dialect) ReturningID() bool                 { return true }

func (d Dialect) schema() string {
	if d.Schema == "" {
		return "public"
	}
	return d.Schema
}

// TableExists queries information_schema for the table in the dialect's schema.
func (d Dialect) TableExists(ctx context.Context, conn queue.Conn, table string) (bool, error) {
	var exists bool
	err := conn.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2)",
		d.schema(), table,
	).Scan(&exists)
	return exists, err
}

// CreateTable creates the queue table and its status index.
func (Dialect) CreateTable(ctx context.Context, conn queue.Conn, table string) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			handler VARCHAR(255) NOT NULL,
			data JSON,
			status BOOLEAN NOT NULL DEFAULT FALSE
		)`, table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_status_idx ON %s (status)", table, table),
	}
	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
