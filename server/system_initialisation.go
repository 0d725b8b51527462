package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/token/jwt"
	"github.com/jrsteele09/go-admin-session/users"
)

const DefaultAdminName = "Administrator"

// InitialiseSystem creates the admin account and, unless disabled, the demo data.
// It is safe to call against repositories that already hold the admin.
func (s *Server) InitialiseSystem(ctx context.Context) error {
	generatedPassword, err := s.createAdmin(ctx, s.config.GetAdminEmail(), s.config.GetAdminPassword())
	if err != nil {
		return fmt.Errorf("[server InitialiseSystem] failed to bootstrap admin: %w", err)
	}

	if s.seed {
		if err := s.seedDemoData(); err != nil {
			return fmt.Errorf("[server InitialiseSystem] failed to seed demo data: %w", err)
		}
	}

	if generatedPassword != "" {
		s.logger.Info().
			Str("email", s.config.GetAdminEmail()).
			Str("password", generatedPassword).
			Msg("admin account created with a generated password")
	}
	return nil
}

// createAdmin creates the admin user if it does not exist. The returned password
// is only set when one had to be generated.
func (s *Server) createAdmin(_ context.Context, email, defaultPassword string) (generatedPassword string, err error) {
	existing, err := s.repos.Users.GetByEmail(email)
	if err == nil {
		if !existing.IsAdmin() {
			return "", fmt.Errorf("[server createAdmin] %s exists without the admin role", email)
		}
		return "", nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return "", fmt.Errorf("[server createAdmin] failed to look up %s: %w", email, err)
	}

	password := defaultPassword
	if password != "" {
		if err := users.ValidatePasswordStrength(password); err != nil {
			return "", fmt.Errorf("[server createAdmin] ADMIN_PASSWORD: %w", err)
		}
	} else {
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("[server createAdmin] failed to generate password: %w", err)
		}
		password = base64.RawURLEncoding.EncodeToString(passwordBytes)
		generatedPassword = password
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("[server createAdmin] failed to hash password: %w", err)
	}
	admin := &users.User{
		Email:        email,
		Name:         DefaultAdminName,
		Role:         users.RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    jwt.NowTimeFunc(),
	}
	if err := s.repos.Users.Upsert(admin); err != nil {
		return "", fmt.Errorf("[server createAdmin] failed to create admin: %w", err)
	}
	return generatedPassword, nil
}
