package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/dmitrymomot/dbqueue/pkg/handlerref"
)

// Provider is the capability set the Queue facade depends on.
type Provider interface {
	// Push stores a pending row and returns its id.
	Push(ctx context.Context, handler string, args ...any) (int64, error)
	// Execute dispatches every pending row in insertion order.
	Execute(ctx context.Context) error
}

var _ Provider = (*DBProvider)(nil)

// DBProvider stores rows in a relational table and dispatches them through a Resolver.
// It owns the *sql.DB it was created with.
type DBProvider struct {
	db        *sql.DB
	dialect   Dialect
	table     string
	sb        sq.StatementBuilderType
	resolver  Resolver
	logger    *slog.Logger
	onFailure FailureHandler
	onClose   []func()
}

// NewDBProvider wraps db and makes sure the queue table exists.
func NewDBProvider(ctx context.Context, db *sql.DB, dialect Dialect, opts ...Option) (*DBProvider, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	if dialect == nil {
		return nil, ErrNilDialect
	}

	options := &options{
		resolver: NewRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if !ValidIdentifier(options.prefix) {
		return nil, fmt.Errorf("%w: table prefix %q may only contain letters, digits and underscores",
			ErrInvalidConfig, options.prefix)
	}

	p := &DBProvider{
		db:        db,
		dialect:   dialect,
		table:     options.prefix + TableName,
		sb:        sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder()),
		resolver:  options.resolver,
		logger:    options.logger,
		onFailure: options.onFailure,
		onClose:   options.onClose,
	}

	if err := p.ensureSchema(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

// Table returns the prefixed queue table name.
func (p *DBProvider) Table() string {
	return p.table
}

// Close closes the database handle.
func (p *DBProvider) Close() error {
	err := p.db.Close()
	for _, fn := range p.onClose {
		fn()
	}
	return err
}

// Push validates handler, encodes args and inserts a pending row.
// The handler format is checked before any I/O.
func (p *DBProvider) Push(ctx context.Context, handler string, args ...any) (int64, error) {
	if !handlerref.Validate(handler) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHandlerFormat, handler)
	}

	data, err := EncodeArgs(args)
	if err != nil {
		return 0, err
	}

	insert := p.sb.Insert(p.table).
		Columns("handler", "data", "status").
		Values(handler, data, false)

	var id int64
	if p.dialect.ReturningID() {
		query, qargs, err := insert.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		if err := p.db.QueryRowContext(ctx, query, qargs...).Scan(&id); err != nil {
			return 0, fmt.Errorf("insert row for %q: %w", handler, err)
		}
	} else {
		query, qargs, err := insert.ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		res, err := p.db.ExecContext(ctx, query, qargs...)
		if err != nil {
			return 0, fmt.Errorf("insert row for %q: %w", handler, err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("read inserted id: %w", err)
		}
	}

	p.logger.DebugContext(ctx, "queue row pushed",
		slog.Int64("row_id", id),
		slog.String("handler", handler))

	return id, nil
}

// storedRow is a pending row as read from the table, before argument decoding.
type storedRow struct {
	id      int64
	handler string
	data    sql.NullString
}

func (p *DBProvider) selectPending(ctx context.Context) ([]storedRow, error) {
	query, args, err := p.sb.Select("id", "handler", "data").
		From(p.table).
		Where(sq.Eq{"status": false}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select pending rows: %w", err)
	}
	defer rows.Close()

	var result []storedRow
	for rows.Next() {
		var r storedRow
		if err := rows.Scan(&r.id, &r.handler, &r.data); err != nil {
			return nil, fmt.Errorf("scan pending row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending rows: %w", err)
	}

	return result, nil
}

// Pending returns the rows that have not been executed yet, ordered by id.
func (p *DBProvider) Pending(ctx context.Context) ([]Row, error) {
	stored, err := p.selectPending(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(stored))
	for _, s := range stored {
		args, err := decodeNullArgs(s.data)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", s.id, err)
		}
		rows = append(rows, Row{ID: s.id, Handler: s.handler, Data: args})
	}

	return rows, nil
}

// Execute dispatches the pending rows that exist when the call starts, in
// ascending id order, each inside its own transaction.
//
// A row whose handler fails (error or panic), whose reference is malformed or
// whose arguments cannot be decoded stays pending; the failure goes to the log
// and the failure handler and the batch continues. An unknown target or action
// aborts the batch and is returned, as are store errors and context cancellation.
func (p *DBProvider) Execute(ctx context.Context) error {
	runID := uuid.New()
	start := time.Now()

	rows, err := p.selectPending(ctx)
	if err != nil {
		return err
	}

	var executed, failed int
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, err := p.dispatch(ctx, runID, row)
		if err != nil {
			p.logger.ErrorContext(ctx, "queue batch aborted",
				slog.String("run_id", runID.String()),
				slog.Int64("row_id", row.id),
				slog.String("handler", row.handler),
				slog.String("error", err.Error()))
			return err
		}
		if ok {
			executed++
		} else {
			failed++
		}
	}

	p.logger.InfoContext(ctx, "queue batch executed",
		slog.String("run_id", runID.String()),
		slog.Int("total", len(rows)),
		slog.Int("executed", executed),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// dispatch runs a single row. It reports false for a per-row failure that
// leaves the row pending, and returns an error only when the batch must stop.
func (p *DBProvider) dispatch(ctx context.Context, runID uuid.UUID, row storedRow) (bool, error) {
	ref, err := handlerref.Parse(row.handler)
	if err != nil {
		p.fail(ctx, runID, Row{ID: row.id, Handler: row.handler}, err)
		return false, nil
	}

	inv, err := p.resolver.Resolve(ref.Target, ref.Action)
	if err != nil {
		return false, fmt.Errorf("row %d: %w", row.id, err)
	}

	args, err := decodeNullArgs(row.data)
	if err != nil {
		p.fail(ctx, runID, Row{ID: row.id, Handler: row.handler}, err)
		return false, nil
	}
	r := Row{ID: row.id, Handler: row.handler, Data: args}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction for row %d: %w", row.id, err)
	}

	start := time.Now()
	if err := invoke(withTx(ctx, tx), inv, args); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			p.logger.ErrorContext(ctx, "failed to roll back queue row",
				slog.String("run_id", runID.String()),
				slog.Int64("row_id", row.id),
				slog.String("error", rbErr.Error()))
		}
		p.fail(ctx, runID, r, errors.Join(ErrHandlerExecution, err))
		return false, nil
	}

	if err := p.markExecuted(ctx, tx, row.id); err != nil {
		_ = tx.Rollback()
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit row %d: %w", row.id, err)
	}

	p.logger.DebugContext(ctx, "queue row executed",
		slog.String("run_id", runID.String()),
		slog.Int64("row_id", row.id),
		slog.String("handler", row.handler),
		slog.Duration("duration", time.Since(start)))

	return true, nil
}

func (p *DBProvider) markExecuted(ctx context.Context, tx *sql.Tx, id int64) error {
	query, args, err := p.sb.Update(p.table).
		Set("status", true).
		Where(sq.Eq{"id": id, "status": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark row %d executed: %w", id, err)
	}

	// Another runner may have executed the same row concurrently; there is no
	// claim step, so the double dispatch already happened by now.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		p.logger.WarnContext(ctx, "queue row was already executed",
			slog.Int64("row_id", id))
	}

	return nil
}

func (p *DBProvider) fail(ctx context.Context, runID uuid.UUID, row Row, err error) {
	p.logger.ErrorContext(ctx, "queue row failed",
		slog.String("run_id", runID.String()),
		slog.Int64("row_id", row.ID),
		slog.String("handler", row.Handler),
		slog.String("error", err.Error()))

	if p.onFailure != nil {
		p.onFailure(ctx, row, err)
	}
}
