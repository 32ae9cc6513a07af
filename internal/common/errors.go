// Package common defines shared constants and sentinel errors used across
// the control panel server and client. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrorInvalidCredentials is returned by login for both an unknown email
	// and a wrong password.
	ErrorInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrorUnauthorized)

	// Token decoding errors.
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenAlgorithm        = errors.New("token signing algorithm mismatch")

	// Configuration errors.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	ErrEmptySecret          = errors.New("empty secret key")
)
