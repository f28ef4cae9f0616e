package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrymomot/dbqueue/pkg/queue"
)

// Connect opens a pgx pool for cfg, retrying with a linearly growing pause.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Join(queue.ErrInvalidConfig, ErrFailedToParseDBConfig, err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	attempts := max(cfg.RetryAttempts, 1)

	var lastErr error
	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			// Ping catches authentication and permission problems that pool creation does not.
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToOpenDBConnection, lastErr)
}

// Open connects to PostgreSQL and prepares the queue table.
func Open(ctx context.Context, cfg Config, opts ...queue.Option) (*queue.DBProvider, error) {
	if cfg.DatabaseName == "" {
		return nil, fmt.Errorf("%w: postgres database name is empty", queue.ErrInvalidConfig)
	}
	if !queue.ValidIdentifier(cfg.Schema) {
		return nil, fmt.Errorf("%w: invalid schema %q", queue.ErrInvalidConfig, cfg.Schema)
	}

	dialect := Dialect{Schema: cfg.Schema}
	if err := queue.CheckDriver(dialect); err != nil {
		return nil, err
	}

	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// The *sql.DB shares the pool's connections; closing it leaves the pool open.
	db := stdlib.OpenDBFromPool(pool)

	opts = append([]queue.Option{
		queue.WithPrefix(cfg.Prefix),
		queue.WithOnClose(pool.Close),
	}, opts...)

	p, err := queue.NewDBProvider(ctx, db, dialect, opts...)
	if err != nil {
		_ = db.Close()
		pool.Close()
		return nil, err
	}

	return p, nil
}
