package errors

import (
	"errors"
	"fmt"
)

// Common error types for the admin session manager
var (
	// Session errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRefreshRejected = errors.New("refresh rejected")
	ErrLoginRejected   = errors.New("login rejected")
	ErrUnauthorized    = errors.New("unauthorized")

	// Transport errors
	ErrRequestFailed = errors.New("request failed")

	// Storage errors
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return errors.Join(errs...)
}
