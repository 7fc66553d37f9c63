package auth

import "errors"

// Credential errors. ErrInvalidCredentials means the API rejected the token;
// ErrAuthUnavailable means the check itself could not complete.
var (
	ErrMissingToken       = errors.New("API token required")
	ErrInvalidCredentials = errors.New("API token rejected")
	ErrAuthUnavailable    = errors.New("unable to validate credentials")

	// Server side
	ErrMissingBearer = errors.New("bearer token required in authorization metadata")
	ErrUnknownBearer = errors.New("unknown bearer token")
)
