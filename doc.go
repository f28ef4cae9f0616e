// Package dbqueue is a minimal persisted job queue backed by a relational table.
//
// Jobs are stored as a handler reference ("Target::action" or "Target@action")
// plus a JSON array of positional arguments. The host application registers the
// handlers it knows about and calls Execute whenever it wants pending jobs to run;
// there is no background worker.
//
// Packages:
//
//   - pkg/handlerref: parsing and validation of handler references
//   - pkg/queue: the Queue facade, the database provider and the handler registry
//   - pkg/queue/sqlite, pkg/queue/postgres, pkg/queue/mysql: backend dialects
//
// Basic Usage:
//
//	registry := queue.NewRegistry()
//	registry.MustRegister("Mailer::send", queue.Bind(sendWelcomeEmail))
//
//	provider, err := postgres.Open(ctx, cfg, queue.WithResolver(registry))
//	if err != nil {
//		return err
//	}
//	defer provider.Close()
//
//	q, _ := queue.New(provider)
//	_, err = q.Push(ctx, "Mailer::send", "user@example.com")
//	...
//	err = q.Execute(ctx)
package dbqueue
