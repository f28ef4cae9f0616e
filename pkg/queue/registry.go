package queue

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrymomot/dbqueue/pkg/handlerref"
)

// Resolver maps a parsed handler reference to something that can be invoked.
// Implementations return ErrTargetNotFound or ErrActionNotFound (possibly wrapped)
// when the reference cannot be resolved.
type Resolver interface {
	Resolve(target, action string) (Invocable, error)
}

// Registry is an in-memory Resolver populated by the host application before
// Execute is called. Static ("::") and instance ("@") references to the same
// target and action share one entry.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]map[string]Invocable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[string]map[string]Invocable),
	}
}

// Register binds handler ("Target::action" or "Target@action") to inv.
func (r *Registry) Register(handler string, inv Invocable) error {
	if inv == nil {
		return ErrNilInvocable
	}

	ref, err := handlerref.Parse(handler)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	actions, ok := r.targets[ref.Target]
	if !ok {
		actions = make(map[string]Invocable)
		r.targets[ref.Target] = actions
	}
	if _, exists := actions[ref.Action]; exists {
		return fmt.Errorf("%w: %s", ErrHandlerAlreadyRegistered, ref)
	}
	actions[ref.Action] = inv

	return nil
}

// RegisterFunc is a shorthand for Register(handler, InvocableFunc(fn)).
func (r *Registry) RegisterFunc(handler string, fn func(ctx context.Context, args Args) error) error {
	if fn == nil {
		return ErrNilInvocable
	}
	return r.Register(handler, InvocableFunc(fn))
}

// MustRegister works like Register but panics on error.
func (r *Registry) MustRegister(handler string, inv Invocable) {
	if err := r.Register(handler, inv); err != nil {
		panic(err)
	}
}

// Resolve implements Resolver.
func (r *Registry) Resolve(target, action string) (Invocable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions, ok := r.targets[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, target)
	}

	inv, ok := actions[action]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no action %s", ErrActionNotFound, target, action)
	}

	return inv, nil
}

// Targets lists registered target names in lexical order.
func (r *Registry) Targets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
