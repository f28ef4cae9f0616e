package queue

import "context"

// Queue is the application-facing entry point. It only forwards to a Provider,
// so calling code does not depend on a concrete backend.
type Queue struct {
	provider Provider
}

// New creates a Queue backed by provider.
func New(provider Provider) (*Queue, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	return &Queue{provider: provider}, nil
}

// Push adds a job. See Provider.Push.
func (q *Queue) Push(ctx context.Context, handler string, args ...any) (int64, error) {
	return q.provider.Push(ctx, handler, args...)
}

// Execute runs pending jobs. See Provider.Execute.
func (q *Queue) Execute(ctx context.Context) error {
	return q.provider.Execute(ctx)
}
