package queue_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dbqueue/pkg/queue"
	"github.com/dmitrymomot/dbqueue/pkg/queue/sqlite"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newDatabaseFile creates an empty SQLite database file.
func newDatabaseFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "queue.db")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	return path
}

func openProvider(t *testing.T, path string, opts ...queue.Option) *queue.DBProvider {
	t.Helper()

	opts = append([]queue.Option{queue.WithLogger(discardLogger())}, opts...)
	p, err := sqlite.Open(context.Background(), sqlite.Config{Path: path, BusyTimeout: 5 * time.Second}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	return p
}

type tableRow struct {
	ID      int64
	Handler string
	Data    sql.NullString
	Status  bool
}

// openRaw opens a second connection to the database, bypassing the provider.
func openRaw(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func readRows(t *testing.T, db *sql.DB, table string) []tableRow {
	t.Helper()

	rows, err := db.Query("SELECT id, handler, data, status FROM " + table + " ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var result []tableRow
	for rows.Next() {
		var r tableRow
		require.NoError(t, rows.Scan(&r.ID, &r.Handler, &r.Data, &r.Status))
		result = append(result, r)
	}
	require.NoError(t, rows.Err())

	return result
}
