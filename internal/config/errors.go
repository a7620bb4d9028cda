package config

import "errors"

// Errors returned by settings operations.
var (
	// ErrInvalidPath indicates a malformed dotted key.
	ErrInvalidPath = errors.New("invalid setting path")

	// ErrNoFile indicates the store has no settings file to read or write.
	ErrNoFile = errors.New("no settings file configured")
)
