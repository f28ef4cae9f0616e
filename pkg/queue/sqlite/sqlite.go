// Package sqlite stores the queue in an SQLite database file using the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/dmitrymomot/dbqueue/pkg/queue"
)

// Config holds the SQLite backend configuration.
type Config struct {
	Path        string        `env:"QUEUE_SQLITE_PATH,required"`                // Path is the database file. It must exist.
	Prefix      string        `env:"QUEUE_TABLE_PREFIX"`                        // Prefix is prepended to the queue table name.
	BusyTimeout time.Duration `env:"QUEUE_SQLITE_BUSY_TIMEOUT" envDefault:"5s"` // BusyTimeout is how long a statement waits on a locked database.
}

// DSN returns the driver data source name for cfg.
func (c Config) DSN() string {
	dsn := c.Path
	if c.BusyTimeout > 0 {
		dsn += fmt.Sprintf("?_pragma=busy_timeout(%d)", c.BusyTimeout.Milliseconds())
	}
	return dsn
}

// Dialect implements queue.Dialect for SQLite.
type Dialect struct{}

var _ queue.Dialect = Dialect{}

func (Dialect) Name() string                      { return "sqlite" }
func (Dialect) DriverName() string                { return "sqlite" }
func (Dialect) Placeholder() sq.PlaceholderFormat { return sq.Question }
func (Dialect) ReturningID() bool                 { return false }

// TableExists looks the table up in sqlite_master.
func (Dialect) TableExists(ctx context.Context, conn queue.Conn, table string) (bool, error) {
	var n int
	err := conn.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?", table,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTable creates the queue table and its status index.
func (Dialect) CreateTable(ctx context.Context, conn queue.Conn, table string) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			handler TEXT NOT NULL,
			data TEXT,
			status INTEGER NOT NULL DEFAULT 0
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

// Open connects to the database file at cfg.Path and prepares the queue table.
// The file is not created; a missing file yields queue.ErrStoreNotFound.
func Open(ctx context.Context, cfg Config, opts ...queue.Option) (*queue.DBProvider, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: sqlite path is empty", queue.ErrInvalidConfig)
	}

	info, err := os.Stat(cfg.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no sqlite database in %s", queue.ErrStoreNotFound, cfg.Path)
		}
		return nil, fmt.Errorf("stat sqlite database: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", queue.ErrStoreNotFound, cfg.Path)
	}

	db, err := queue.OpenDB(Dialect{}, cfg.DSN())
	if err != nil {
		return nil, err
	}

	opts = append([]queue.Option{queue.WithPrefix(cfg.Prefix)}, opts...)
	p, err := queue.NewDBProvider(ctx, db, Dialect{}, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return p, nil
}
