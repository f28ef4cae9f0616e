package postgres

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config holds the PostgreSQL backend configuration.
type Config struct {
	DatabaseName string `env:"QUEUE_PG_DATABASE,required"`            // DatabaseName is the database to connect to.
	UserName     string `env:"QUEUE_PG_USER,required"`                // UserName is the login role.
	Password     string `env:"QUEUE_PG_PASSWORD"`                     // Password is the role password.
	Host         string `env:"QUEUE_PG_HOST"`                         // Host is the server host; empty means the driver default.
	Port         int    `env:"QUEUE_PG_PORT"`                         // Port is the server port; zero means the driver default.
	Charset      string `env:"QUEUE_PG_CHARSET" envDefault:"utf8"`    // Charset is sent as client_encoding.
	Schema       string `env:"QUEUE_PG_SCHEMA" envDefault:"public"`   // Schema holds the queue table and is used as search_path.
	SSLMode      string `env:"QUEUE_PG_SSLMODE" envDefault:"prefer"`  // SSLMode is the libpq sslmode.
	SSLCert      string `env:"QUEUE_PG_SSLCERT"`                      // SSLCert is the client certificate file.
	SSLKey       string `env:"QUEUE_PG_SSLKEY"`                       // SSLKey is the client key file.
	SSLRootCert  string `env:"QUEUE_PG_SSLROOTCERT"`                  // SSLRootCert is the CA certificate file.
	Prefix       string `env:"QUEUE_TABLE_PREFIX"`                    // Prefix is prepended to the queue table name.
	MaxConns     int32  `env:"QUEUE_PG_MAX_CONNS" envDefault:"4"`     // MaxConns caps the pool size.

	RetryAttempts int           `env:"QUEUE_PG_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of connection attempts.
	RetryInterval time.Duration `env:"QUEUE_PG_RETRY_INTERVAL" envDefault:"2s"` // RetryInterval is the base wait between attempts.
}

// DSN returns a postgres:// connection URL for cfg.
func (c Config) DSN() string {
	host := c.Host
	if c.Port > 0 {
		if host == "" {
			host = "localhost"
		}
		host = net.JoinHostPort(host, strconv.Itoa(c.Port))
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   host,
		Path:   "/" + c.DatabaseName,
	}
	switch {
	case c.UserName != "" && c.Password != "":
		u.User = url.UserPassword(c.UserName, c.Password)
	case c.UserName != "":
		u.User = url.User(c.UserName)
	}

	q := url.Values{}
	params := map[string]string{
		"sslmode":         c.SSLMode,
		"sslcert":         c.SSLCert,
		"sslkey":          c.SSLKey,
		"sslrootcert":     c.SSLRootCert,
		"client_encoding": c.Charset,
		"search_path":     c.Schema,
	}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}
