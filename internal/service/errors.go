package service

import "errors"

var (
	// ErrInvalidCredentials is returned by login for an unknown user or a wrong password
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnsupportedKind is returned when an operation does not apply to an entity kind
	ErrUnsupportedKind = errors.New("operation not supported for entity kind")
)

// ErrInvalidPayload is returned when a draft body cannot be decoded
var ErrInvalidPayload = errors.New("invalid request payload")
