package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-admin-session/adminapi"
	"github.com/jrsteele09/go-admin-session/auth"
	"github.com/jrsteele09/go-admin-session/authapi"
	"github.com/jrsteele09/go-admin-session/internal/errors"
)

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, adminapi.MessageResponse{Message: "ok"})
	}
}

// LoginHandler checks email and password and answers with the user and a new
// token pair.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authapi.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		user, pair, err := s.auth.Login(req.Email, req.Password)
		switch {
		case errors.Is(err, auth.ErrMissingCredentials):
			writeError(w, http.StatusBadRequest, "Email and password are required")
			return
		case errors.Is(err, auth.ErrInvalidCredentials):
			s.logger.Info().Str("email", req.Email).Msg("login rejected")
			writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		case err != nil:
			s.internalError(w, r, err)
			return
		}

		s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
		writeJSON(w, http.StatusOK, authapi.LoginResponse{
			User:         user,
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}

// RefreshTokenHandler rotates a refresh token. The presented token is consumed
// whether or not the caller receives the answer.
func (s *Server) RefreshTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authapi.RefreshRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		user, pair, err := s.auth.Refresh(req.UserID, req.RefreshToken)
		switch {
		case errors.Is(err, auth.ErrMissingCredentials):
			writeError(w, http.StatusBadRequest, "userId and refreshToken are required")
			return
		case errors.Is(err, auth.ErrInvalidRefresh):
			s.logger.Info().Err(err).Str("user_id", req.UserID).Msg("refresh rejected")
			writeError(w, http.StatusUnauthorized, msgInvalidRefresh)
			return
		case err != nil:
			s.internalError(w, r, err)
			return
		}

		s.logger.Debug().Str("user_id", user.ID).Time("expires_at", pair.ExpiresAt).Msg("token refreshed")
		writeJSON(w, http.StatusOK, authapi.TokenPair{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}

// LogoutHandler revokes the presented access token and the caller's refresh token.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout(claimsFromContext(r.Context())); err != nil {
			s.internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, adminapi.MessageResponse{Message: "Logged out"})
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, userFromContext(r.Context()))
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody)).Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, adminapi.MessageResponse{Message: message})
}
