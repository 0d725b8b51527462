package apiclient

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-admin-session/internal/errors"
)

var (
	ErrRequestFailed = errors.ErrRequestFailed
	ErrUnauthorized  = errors.ErrUnauthorized
	ErrNotFound      = errors.ErrNotFound
)

// RequestError is a non-2xx answer from the API. It always matches
// ErrRequestFailed, and ErrUnauthorized or ErrNotFound for 401 and 404.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Path, e.Message, e.Status)
}

func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrRequestFailed:
		return true
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// StatusCode returns the HTTP status of err if it is a *RequestError, otherwise 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}
