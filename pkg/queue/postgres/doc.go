// Package postgres stores the queue in PostgreSQL.
//
// Connections are made with a pgx/v5 pool which is bridged to database/sql via
// pgx's stdlib adapter, the same way goose migrations are run against a pgx pool.
//
//	cfg, err := queue.LoadConfig[postgres.Config]()
//	if err != nil {
//		return err
//	}
//	provider, err := postgres.Open(ctx, cfg, queue.WithResolver(registry))
//
// The queue table is created in cfg.Schema, which is also set as the
// connection search_path.
package postgres
