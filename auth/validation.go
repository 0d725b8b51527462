package auth

import (
	"fmt"
	"strings"
)

// ValidateUserCredentials checks the shape of a login request before any lookup.
func ValidateUserCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrMissingCredentials)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email format", ErrMissingCredentials)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrMissingCredentials)
	}
	return nil
}

// ValidateRefreshRequest checks both halves of a refresh request are present.
func ValidateRefreshRequest(userID, refreshToken string) error {
	if userID == "" {
		return fmt.Errorf("%w: userId is required", ErrMissingCredentials)
	}
	if refreshToken == "" {
		return fmt.Errorf("%w: refreshToken is required", ErrMissingCredentials)
	}
	return nil
}
