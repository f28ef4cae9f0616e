package queue

import (
	"context"
	"fmt"
	"log/slog"
)

// ensureSchema creates the queue table on first use.
//
// The existence check and the DDL are separate statements, so two processes
// bootstrapping the same database at once may both try to create the table.
// Dialects use IF NOT EXISTS, which turns the losing attempt into a no-op.
func (p *DBProvider) ensureSchema(ctx context.Context) error {
	exists, err := p.dialect.TableExists(ctx, p.db, p.table)
	if err != nil {
		return fmt.Errorf("check table %s: %w", p.table, err)
	}
	if exists {
		return nil
	}

	p.logger.InfoContext(ctx, "creating queue table",
		slog.String("dialect", p.dialect.Name()),
		slog.String("table", p.table))

	if err := p.dialect.CreateTable(ctx, p.db, p.table); err != nil {
		return fmt.Errorf("create table %s: %w", p.table, err)
	}

	return nil
}
