// Package mysql stores the queue in MySQL or MariaDB using go-sql-driver/mysql.
package mysql

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/dmitrymomot/dbqueue/pkg/queue"
)

// strictSQLModes is applied when StrictMode is on and no explicit modes are set.
var strictSQLModes = []string{
	"ONLY_FULL_GROUP_BY",
	"STRICT_TRANS_TABLES",
	"NO_ZERO_IN_DATE",
	"NO_ZERO_DATE",
	"ERROR_FOR_DIVISION_BY_ZERO",
	"NO_ENGINE_SUBSTITUTION",
}

// Config holds the MySQL backend configuration.
type Config struct {
	DatabaseName string   `env:"QUEUE_MYSQL_DATABASE,required"`
	UserName     string   `env:"QUEUE_MYSQL_USER,required"`
	Password     string   `env:"QUEUE_MYSQL_PASSWORD"`
	Host         string   `env:"QUEUE_MYSQL_HOST" envDefault:"localhost"`
	Port         int      `env:"QUEUE_MYSQL_PORT" envDefault:"3306"`
	UnixSocket   string   `env:"QUEUE_MYSQL_UNIX_SOCKET"` // UnixSocket takes precedence over Host and Port.
	Charset      string   `env:"QUEUE_MYSQL_CHARSET" envDefault:"utf8mb4"`
	Collation    string   `env:"QUEUE_MYSQL_COLLATION" envDefault:"utf8mb4_unicode_ci"`
	TLS          string   `env:"QUEUE_MYSQL_TLS"` // TLS is the driver tls value: "true", "false", "skip-verify", "preferred" or a registered name.
	StrictMode   bool     `env:"QUEUE_MYSQL_STRICT" envDefault:"true"`
	SQLModes     []string `env:"QUEUE_MYSQL_SQL_MODES" envSeparator:","` // SQLModes overrides the modes implied by StrictMode.
	Prefix       string   `env:"QUEUE_TABLE_PREFIX"`
}

// sqlMode returns the session sql_mode value.
func (c Config) sqlMode() string {
	switch {
	case len(c.SQLModes) > 0:
		return strings.Join(c.SQLModes, ",")
	case c.StrictMode:
		return strings.Join(strictSQLModes, ",")
	default:
		return "NO_ENGINE_SUBSTITUTION"
	}
}

// DSN returns the driver data source name for cfg.
func (c Config) DSN() string {
	mc := mysqldriver.NewConfig()
	mc.User = c.UserName
	mc.Passwd = c.Password
	mc.DBName = c.DatabaseName
	if c.UnixSocket != "" {
		mc.Net = "unix"
		mc.Addr = c.UnixSocket
	} else {
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	mc.Collation = c.Collation
	mc.TLSConfig = c.TLS
	mc.Params = map[string]string{
		"sql_mode": "'" + c.sqlMode() + "'",
	}
	if c.Charset != "" {
		mc.Params["charset"] = c.Charset
	}
	return mc.FormatDSN()
}

// Dialect implements queue.Dialect for MySQL.
type Dialect struct {
	Database  string
	Charset   string
	Collation string
}

var _ queue.Dialect = Dialect{}

func (Dialect) Name() string                      { return "mysql" }
func (Dialect) DriverName() string                { return "mysql" }
func (Dialect) Placeholder() sq.PlaceholderFormat { return sq.Question }
func (Dialect) ReturningID() bool                 { return false }

// TableExists queries information_schema for the table in the configured database.
func (d Dialect) TableExists(ctx context.Context, conn queue.Conn, table string) (bool, error) {
	var n int
	err := conn.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
		d.Database, table,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTable creates the queue table with an inline status index.
func (d Dialect) CreateTable(ctx context.Context, conn queue.Conn, table string) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		handler VARCHAR(255) NOT NULL,
		data JSON NULL,
		status TINYINT(1) NOT NULL DEFAULT 0,
		INDEX %s_status_idx (status)
	) ENGINE=InnoDB`, table, table)
	if d.Charset != "" {
		stmt += " DEFAULT CHARSET=" + d.Charset
	}
	if d.Collation != "" {
		stmt += " COLLATE=" + d.Collation
	}
	_, err := conn.ExecContext(ctx, stmt)
	return err
}

// Open connects to MySQL and prepares the queue table.
func Open(ctx context.Context, cfg Config, opts ...queue.Option) (*queue.DBProvider, error) {
	if cfg.DatabaseName == "" {
		return nil, fmt.Errorf("%w: mysql database name is empty", queue.ErrInvalidConfig)
	}
	for _, v := range []string{cfg.Charset, cfg.Collation} {
		if !queue.ValidIdentifier(v) {
			return nil, fmt.Errorf("%w: invalid charset or collation %q", queue.ErrInvalidConfig, v)
		}
	}

	dialect := Dialect{
		Database:  cfg.DatabaseName,
		Charset:   cfg.Charset,
		Collation: cfg.Collation,
	}

	db, err := queue.OpenDB(dialect, cfg.DSN())
	if err != nil {
		return nil, err
	}

	opts = append([]queue.Option{queue.WithPrefix(cfg.Prefix)}, opts...)
	p, err := queue.NewDBProvider(ctx, db, dialect, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return p, nil
}
