package queue

import (
	"context"
	"log/slog"
)

// FailureHandler observes rows that were left pending during Execute.
// err wraps ErrHandlerExecution, ErrInvalidHandlerFormat or ErrArgsDecode.
type FailureHandler func(ctx context.Context, row Row, err error)

// Option is a functional option for configuring a DBProvider
type Option func(*options)

type options struct {
	prefix    string
	resolver  Resolver
	logger    *slog.Logger
	onFailure FailureHandler
	onClose   []func()
}

// WithPrefix sets the table name prefix
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithResolver sets the resolver used to look up handlers during Execute
func WithResolver(r Resolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFailureHandler registers a hook for rows whose dispatch failed and that
// remain pending. Execute itself does not report these failures.
func WithFailureHandler(fn FailureHandler) Option {
	return func(o *options) {
		o.onFailure = fn
	}
}

// WithOnClose registers a function run after the database is closed.
// Backends use it to release resources the *sql.DB does not own.
func WithOnClose(fn func()) Option {
	return func(o *options) {
		if fn != nil {
			o.onClose = append(o.onClose, fn)
		}
	}
}
