package queue

import (
	"errors"

	"github.com/dmitrymomot/dbqueue/pkg/handlerref"
)

// Common errors
var (
	// ErrInvalidHandlerFormat is returned when a handler reference has no recognized separator
	ErrInvalidHandlerFormat = handlerref.ErrInvalidFormat

	// ErrTargetNotFound is returned when the handler target is not registered
	ErrTargetNotFound = errors.New("handler target not found")

	// ErrActionNotFound is returned when the target exists but has no such action
	ErrActionNotFound = errors.New("handler action not found")

	// ErrBackendUnavailable is returned when the database driver is not registered
	ErrBackendUnavailable = errors.New("database driver is not available")

	// ErrStoreNotFound is returned when an embedded database file does not exist
	ErrStoreNotFound = errors.New("database not found")

	// ErrHandlerExecution wraps errors returned (or panics raised) by an invoked handler.
	// It is only delivered to the failure handler; Execute never returns it.
	ErrHandlerExecution = errors.New("handler execution failed")

	// ErrInvalidConfig is returned when provider configuration is invalid
	ErrInvalidConfig = errors.New("invalid queue configuration")

	// ErrNilDB is returned when a nil database handle is provided
	ErrNilDB = errors.New("database cannot be nil")

	// ErrNilDialect is returned when a nil dialect is provided
	ErrNilDialect = errors.New("dialect cannot be nil")

	// ErrNilProvider is returned when the facade is built without a provider
	ErrNilProvider = errors.New("provider cannot be nil")

	// ErrNilInvocable is returned when registering a nil handler
	ErrNilInvocable = errors.New("handler cannot be nil")

	// ErrHandlerAlreadyRegistered is returned when a target/action pair is registered twice
	ErrHandlerAlreadyRegistered = errors.New("handler already registered")

	// ErrArgsMarshal is returned when handler arguments cannot be encoded to JSON
	ErrArgsMarshal = errors.New("failed to marshal handler arguments to JSON")

	// ErrArgsDecode is returned when stored arguments are not a JSON array
	ErrArgsDecode = errors.New("failed to decode handler arguments")

	// ErrArgIndexOutOfRange is returned when reading a missing positional argument
	ErrArgIndexOutOfRange = errors.New("argument index out of range")
)
