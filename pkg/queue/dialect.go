package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"slices"

	sq "github.com/Masterminds/squirrel"
)

// Conn is the subset of *sql.DB and *sql.Tx used by dialects.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect captures everything that differs between relational backends.
type Dialect interface {
	// Name is a short backend name used in logs ("sqlite", "postgres", "mysql").
	Name() string
	// DriverName is the database/sql driver the dialect expects.
	DriverName() string
	// Placeholder is the bind parameter style of the backend.
	Placeholder() sq.PlaceholderFormat
	// ReturningID reports whether inserted ids are read with "RETURNING id"
	// instead of sql.Result.LastInsertId.
	ReturningID() bool
	// TableExists reports whether table is present.
	TableExists(ctx context.Context, conn Conn, table string) (bool, error)
	// CreateTable creates table and its status index. It must be idempotent.
	CreateTable(ctx context.Context, conn Conn, table string) error
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s can be used unquoted as (part of) a table
// or index name on every supported backend.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// CheckDriver returns ErrBackendUnavailable unless the dialect's driver is
// registered with database/sql.
func CheckDriver(d Dialect) error {
	if d == nil {
		return ErrNilDialect
	}
	if !slices.Contains(sql.Drivers(), d.DriverName()) {
		return fmt.Errorf("%w: %s driver %q is not registered", ErrBackendUnavailable, d.Name(), d.DriverName())
	}
	return nil
}

// OpenDB opens a database/sql handle for the dialect after checking the driver.
func OpenDB(d Dialect, dsn string) (*sql.DB, error) {
	if err := CheckDriver(d); err != nil {
		return nil, err
	}
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, errors.Join(ErrBackendUnavailable, err)
	}
	return db, nil
}
