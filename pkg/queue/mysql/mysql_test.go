package mysql_test

import (
	"context"
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dbqueue/pkg/queue"
	"github.com/dmitrymomot/dbqueue/pkg/queue/mysql"
)

func baseConfig() mysql.Config {
	return mysql.Config{
		DatabaseName: "app",
		UserName:     "queue",
		Password:     "secret",
		Host:         "db.internal",
		Port:         3307,
		Charset:      "utf8mb4",
		Collation:    "utf8mb4_unicode_ci",
		StrictMode:   true,
	}
}

func TestConfig_DSN(t *testing.T) {
	t.Parallel()

	t.Run("tcp", func(t *testing.T) {
		t.Parallel()

		dsn := baseConfig().DSN()
		assert.True(t, strings.HasPrefix(dsn, "queue:secret@tcp(db.internal:3307)/app?"), dsn)

		parsed, err := mysqldriver.ParseDSN(dsn)
		require.NoError(t, err)
		assert.Equal(t, "tcp", parsed.Net)
		assert.Equal(t, "db.internal:3307", parsed.Addr)
		assert.Equal(t, "app", parsed.DBName)
		assert.Equal(t, "utf8mb4_unicode_ci", parsed.Collation)
		assert.Contains(t, parsed.Params["sql_mode"], "STRICT_TRANS_TABLES")
	})

	t.Run("unix socket wins", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig()
		cfg.UnixSocket = "/run/mysqld/mysqld.sock"

		parsed, err := mysqldriver.ParseDSN(cfg.DSN())
		require.NoError(t, err)
		assert.Equal(t, "unix", parsed.Net)
		assert.Equal(t, "/run/mysqld/mysqld.sock", parsed.Addr)
	})

	t.Run("non strict mode", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig()
		cfg.StrictMode = false

		parsed, err := mysqldriver.ParseDSN(cfg.DSN())
		require.NoError(t, err)
		assert.Equal(t, "'NO_ENGINE_SUBSTITUTION'", parsed.Params["sql_mode"])
	})

	t.Run("explicit sql modes", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig()
		cfg.SQLModes = []string{"ANSI_QUOTES", "NO_ZERO_DATE"}

		parsed, err := mysqldriver.ParseDSN(cfg.DSN())
		require.NoError(t, err)
		assert.Equal(t, "'ANSI_QUOTES,NO_ZERO_DATE'", parsed.Params["sql_mode"])
	})

	t.Run("tls", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig()
		cfg.TLS = "skip-verify"

		assert.Contains(t, cfg.DSN(), "tls=skip-verify")
	})
}

func TestDialect(t *testing.T) {
	t.Parallel()

	d := mysql.Dialect{Database: "app"}
	assert.Equal(t, "mysql", d.Name())
	assert.Equal(t, "mysql", d.DriverName())
	assert.Equal(t, sq.Question, d.Placeholder())
	assert.False(t, d.ReturningID())
	assert.NoError(t, queue.CheckDriver(d))
}

func TestOpen_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := mysql.Open(context.Background(), mysql.Config{})
	assert.ErrorIs(t, err, queue.ErrInvalidConfig)

	cfg := baseConfig()
	cfg.Collation = "utf8mb4; DROP TABLE x"
	_, err = mysql.Open(context.Background(), cfg)
	assert.ErrorIs(t, err, queue.ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("QUEUE_MYSQL_DATABASE", "app")
	t.Setenv("QUEUE_MYSQL_USER", "queue")
	t.Setenv("QUEUE_MYSQL_SQL_MODES", "ANSI_QUOTES,NO_ZERO_DATE")

	cfg, err := queue.LoadConfig[mysql.Config]()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, "utf8mb4", cfg.Charset)
	assert.True(t, cfg.StrictMode)
	assert.Equal(t, []string{"ANSI_QUOTES", "NO_ZERO_DATE"}, cfg.SQLModes)
}
