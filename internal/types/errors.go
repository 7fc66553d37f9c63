package types

import "errors"

// Sentinel errors for gbapi operations.
var (
	// ErrInvalidInputKind indicates a value of the wrong kind was handed to a
	// transform, e.g. flattening a top-level sequence instead of a mapping.
	ErrInvalidInputKind = errors.New("invalid input kind")

	// ErrInvalidJSON indicates text that does not parse as JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrRunNotFound indicates an archived run ID does not exist.
	ErrRunNotFound = errors.New("run not found")
)
