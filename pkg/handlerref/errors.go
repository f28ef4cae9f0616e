package handlerref

import "errors"

// ErrInvalidFormat is returned when a handler reference is empty, lacks a
// separator, or does not split into exactly two non-empty parts.
var ErrInvalidFormat = errors.New("handler must look like Target::action or Target@action")
