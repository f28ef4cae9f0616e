// Package queue provides a small persisted job queue on top of a relational table.
//
// Callers push a handler reference ("Target::action" or "Target@action") together
// with positional arguments. A later call to Execute scans the rows that have not
// run yet in insertion order, resolves each reference through a Resolver and
// invokes it with the stored arguments. Each row is dispatched in its own
// transaction and marked executed only when the handler succeeds.
//
// # Architecture
//
//  1. Queue is a thin facade over the Provider interface (Push, Execute).
//  2. DBProvider implements Provider on database/sql. Everything backend specific
//     lives behind the Dialect interface; see the sqlite, postgres and mysql
//     subpackages.
//  3. Registry is the default Resolver. Handlers are registered by the host
//     application before Execute is called.
//  4. Table layout: id (auto increment), handler, data (JSON array), status.
//     The table and its status index are created on first use.
//
// # Usage
//
//	registry := queue.NewRegistry()
//	registry.MustRegister("Mailer::send", queue.Bind(func(ctx context.Context, to string) error {
//		return mailer.Send(ctx, to)
//	}))
//
//	provider, err := sqlite.Open(ctx, sqlite.Config{Path: "queue.db"},
//		queue.WithResolver(registry),
//	)
//	if err != nil {
//		return err
//	}
//	defer provider.Close()
//
//	q, _ := queue.New(provider)
//	if _, err := q.Push(ctx, "Mailer::send", "user@example.com"); err != nil {
//		return err
//	}
//	return q.Execute(ctx)
//
// Handlers that write to the same database can join the dispatch transaction
// through TxFromContext.
//
// # Error Handling
//
// Push fails with ErrInvalidHandlerFormat before touching the database when the
// reference has no separator.
//
// Execute returns ErrTargetNotFound or ErrActionNotFound when a row references
// a handler that is not registered, and stops processing the remaining rows.
// A handler that returns an error or panics does not stop the batch: its
// transaction is rolled back, the row stays pending and the failure is logged
// and passed to the optional FailureHandler, but Execute does not return it.
//
// # Concurrency
//
// Execute runs synchronously on the calling goroutine. Rows are not claimed, so
// two processes executing the same table concurrently can dispatch a row twice.
package queue
