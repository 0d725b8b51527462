package authapi

import (
	"fmt"

	"github.com/jrsteele09/go-admin-session/internal/errors"
)

var (
	ErrInvalidArgument = errors.ErrInvalidArgument
	ErrRefreshRejected = errors.ErrRefreshRejected
	ErrLoginRejected   = errors.ErrLoginRejected
	ErrRequestFailed   = errors.ErrRequestFailed
)

const (
	defaultLoginMessage   = "login failed"
	defaultRefreshMessage = "token refresh failed"
)

// APIError is a non-2xx answer from the auth endpoints. It matches
// ErrLoginRejected or ErrRefreshRejected depending on the operation.
type APIError struct {
	Op      string // "login", "refresh" or "logout"
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.kind
}
