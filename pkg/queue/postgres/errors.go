package postgres

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("failed to parse postgres config")
	ErrFailedToOpenDBConnection = errors.New("failed to open postgres connection")
)
