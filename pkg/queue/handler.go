package queue

import (
	"context"
	"fmt"
)

type (
	// Invocable is the unit of work a handler reference resolves to.
	Invocable interface {
		Invoke(ctx context.Context, args Args) error
	}

	// InvocableFunc adapts a plain function to Invocable.
	InvocableFunc func(ctx context.Context, args Args) error
)

// Invoke calls f(ctx, args).
func (f InvocableFunc) Invoke(ctx context.Context, args Args) error {
	return f(ctx, args)
}

// Bind wraps a single-argument function. The first positional argument is
// decoded into T; a missing argument leaves T at its zero value.
func Bind[T any](fn func(ctx context.Context, arg T) error) Invocable {
	return InvocableFunc(func(ctx context.Context, args Args) error {
		var arg T
		if args.Len() > 0 {
			if err := args.Scan(0, &arg); err != nil {
				return err
			}
		}
		return fn(ctx, arg)
	})
}

// NoArgs wraps a function that ignores the stored arguments.
func NoArgs(fn func(ctx context.Context) error) Invocable {
	return InvocableFunc(func(ctx context.Context, _ Args) error {
		return fn(ctx)
	})
}

// invoke runs inv and converts a panic into an error.
func invoke(ctx context.Context, inv Invocable, args Args) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in handler: %v", r)
		}
	}()
	return inv.Invoke(ctx, args)
}
