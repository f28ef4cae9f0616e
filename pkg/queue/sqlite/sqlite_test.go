package sqlite_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dbqueue/pkg/queue"
	"github.com/dmitrymomot/dbqueue/pkg/queue/sqlite"
)

func quietLogger() queue.Option {
	return queue.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestConfig_DSN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/data/queue.db", sqlite.Config{Path: "/data/queue.db"}.DSN())
	assert.Equal(t, "/data/queue.db?_pragma=busy_timeout(1500)",
		sqlite.Config{Path: "/data/queue.db", BusyTimeout: 1500 * time.Millisecond}.DSN())
}

func TestDialect(t *testing.T) {
	t.Parallel()

	d := sqlite.Dialect{}
	assert.Equal(t, "sqlite", d.Name())
	assert.Equal(t, "sqlite", d.DriverName())
	assert.Equal(t, sq.Question, d.Placeholder())
	assert.False(t, d.ReturningID())
	assert.NoError(t, queue.CheckDriver(d))
}

func TestDialect_CreateTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	d := sqlite.Dialect{}

	exists, err := d.TableExists(ctx, db, "jobs_queues")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, d.CreateTable(ctx, db, "jobs_queues"))
	require.NoError(t, d.CreateTable(ctx, db, "jobs_queues"), "create must be idempotent")

	exists, err = d.TableExists(ctx, db, "jobs_queues")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = db.ExecContext(ctx, "INSERT INTO jobs_queues (handler, data) VALUES ('A::b', '[]')")
	require.NoError(t, err)

	var status bool
	require.NoError(t, db.QueryRowContext(ctx, "SELECT status FROM jobs_queues WHERE id = 1").Scan(&status))
	assert.False(t, status, "status defaults to pending")
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		p, err := sqlite.Open(context.Background(), sqlite.Config{
			Path: filepath.Join(t.TempDir(), "nope.db"),
		})
		assert.ErrorIs(t, err, queue.ErrStoreNotFound)
		assert.Nil(t, p)
	})

	t.Run("directory instead of file", func(t *testing.T) {
		t.Parallel()

		p, err := sqlite.Open(context.Background(), sqlite.Config{Path: t.TempDir()})
		assert.ErrorIs(t, err, queue.ErrStoreNotFound)
		assert.Nil(t, p)
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		_, err := sqlite.Open(context.Background(), sqlite.Config{})
		assert.ErrorIs(t, err, queue.ErrInvalidConfig)
	})

	t.Run("prefix from config", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "queue.db")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		p, err := sqlite.Open(context.Background(), sqlite.Config{Path: path, Prefix: "billing_"}, quietLogger())
		require.NoError(t, err)
		t.Cleanup(func() { _ = p.Close() })

		assert.Equal(t, "billing_queues", p.Table())
	})

	t.Run("option overrides config prefix", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "queue.db")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		p, err := sqlite.Open(context.Background(), sqlite.Config{Path: path, Prefix: "billing_"},
			quietLogger(), queue.WithPrefix("mail_"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = p.Close() })

		assert.Equal(t, "mail_queues", p.Table())
	})

	t.Run("invalid prefix", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "queue.db")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		_, err := sqlite.Open(context.Background(), sqlite.Config{Path: path, Prefix: "bad-prefix"}, quietLogger())
		assert.ErrorIs(t, err, queue.ErrInvalidConfig)
	})
}
