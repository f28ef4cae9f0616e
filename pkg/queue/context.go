package queue

import (
	"context"
	"database/sql"
)

type txContextKey struct{}

// TxFromContext returns the transaction a row is being dispatched in.
// Writes made through it commit together with the row's status change and are
// rolled back when the handler fails.
func TxFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}

func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}
