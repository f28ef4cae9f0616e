package handlerref

import (
	"fmt"
	"strings"
)

// Separators recognized in a handler reference, in precedence order.
const (
	InstanceSeparator = "@"
	StaticSeparator   = "::"
)

// Kind tells how the action is bound to its target.
type Kind uint8

const (
	// Static marks "Target::action" references.
	Static Kind = iota + 1
	// Instance marks "Target@action" references.
	Instance
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Instance:
		return "instance"
	default:
		return "unknown"
	}
}

// Separator returns the separator that produces this kind.
func (k Kind) Separator() string {
	if k == Instance {
		return InstanceSeparator
	}
	return StaticSeparator
}

// Ref is a parsed handler reference.
type Ref struct {
	Target string
	Action string
	Kind   Kind
}

// String renders the reference back to its canonical text form.
func (r Ref) String() string {
	return r.Target + r.Kind.Separator() + r.Action
}

// Validate reports whether handler contains at least one recognized separator.
// It does not check that both sides are non-empty; use Parse for that.
func Validate(handler string) bool {
	return strings.Contains(handler, InstanceSeparator) || strings.Contains(handler, StaticSeparator)
}

// Parse splits handler into its target and action.
func Parse(handler string) (Ref, error) {
	if handler == "" {
		return Ref{}, fmt.Errorf("%w: empty handler", ErrInvalidFormat)
	}

	kind := Static
	switch {
	case strings.Contains(handler, InstanceSeparator):
		kind = Instance
	case strings.Contains(handler, StaticSeparator):
		kind = Static
	default:
		return Ref{}, fmt.Errorf("%w: %q has no separator", ErrInvalidFormat, handler)
	}

	parts := strings.Split(handler, kind.Separator())
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidFormat, handler)
	}

	return Ref{
		Target: parts[0],
		Action: parts[1],
		Kind:   kind,
	}, nil
}

// MustParse is like Parse but panics on error. Intended for static registrations.
func MustParse(handler string) Ref {
	ref, err := Parse(handler)
	if err != nil {
		panic(err)
	}
	return ref
}
