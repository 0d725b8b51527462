// Package auth authenticates dashboard staff against the user repository and
// hands out token pairs.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/token"
	"github.com/jrsteele09/go-admin-session/token/jwt"
	"github.com/jrsteele09/go-admin-session/users"
)

// Service provides login, refresh and logout for the development backend.
type Service struct {
	users   users.UserRepo
	tokens  *token.Manager
	nowTime func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the clock used for LastLogin (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(userRepo users.UserRepo, tokens *token.Manager, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("[auth.NewService] users repo is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("[auth.NewService] token manager is required")
	}
	s := &Service{users: userRepo, tokens: tokens, nowTime: jwt.NowTimeFunc}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login checks email and password, records the login time and issues a new
// pair. An unknown email and a wrong password fail the same way.
func (s *Service) Login(email, password string) (*users.User, *token.Pair, error) {
	if err := ValidateUserCredentials(email, password); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, errors.Wrapf(err, "[auth.Login] GetByEmail")
	}
	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	user.LastLogin = s.nowTime()
	if err := s.users.Upsert(user); err != nil {
		return nil, nil, errors.Wrapf(err, "[auth.Login] Upsert")
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "[auth.Login] Issue")
	}
	return user, pair, nil
}

// Refresh rotates refreshToken for userID. The presented token is consumed even
// when the caller never sees the answer.
func (s *Service) Refresh(userID, refreshToken string) (*users.User, *token.Pair, error) {
	if err := ValidateRefreshRequest(userID, refreshToken); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil, ErrInvalidRefresh
		}
		return nil, nil, errors.Wrapf(err, "[auth.Refresh] GetByID")
	}

	pair, err := s.tokens.Refresh(user, refreshToken)
	if err != nil {
		if errors.Is(err, errors.ErrRefreshRejected) {
			return nil, nil, errors.Join(ErrInvalidRefresh, err)
		}
		return nil, nil, errors.Wrapf(err, "[auth.Refresh] Refresh")
	}
	return user, pair, nil
}

// Logout revokes the access token described by claims and the user's refresh token.
func (s *Service) Logout(claims *jwt.Claims) error {
	if err := s.tokens.Revoke(claims); err != nil {
		return errors.Wrapf(err, "[auth.Logout] Revoke")
	}
	return nil
}
