// Package server is a development backend for the admin dashboard. It serves the
// auth endpoints and the business API the dashboard consumes, backed by in-memory
// repositories.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-admin-session/auth"
	"github.com/jrsteele09/go-admin-session/internal/config"
	"github.com/jrsteele09/go-admin-session/orders"
	"github.com/jrsteele09/go-admin-session/products"
	"github.com/jrsteele09/go-admin-session/token"
	"github.com/jrsteele09/go-admin-session/token/refresh"
	"github.com/jrsteele09/go-admin-session/users"
	"github.com/rs/zerolog"
)

// Issuer is the iss claim of every access token the server signs.
const Issuer = "go-admin-session"

type Repos struct {
	Users         users.UserRepo
	Orders        orders.OrderRepo
	Products      products.ProductRepo
	RefreshTokens refresh.Repo
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	router chi.Router
	config config.Config
	repos  Repos
	tokens *token.Manager
	auth   *auth.Service
	logger zerolog.Logger
	seed   bool
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithoutSeedData skips the demo users, orders and products. The admin account
// is always created.
func WithoutSeedData() Option {
	return func(s *Server) {
		s.seed = false
	}
}

func New(config config.Config, repos Repos, options ...Option) (*Server, error) {
	s := &Server{
		env:    config.GetEnv(),
		config: config,
		repos:  repos,
		logger: zerolog.Nop(),
		seed:   true,
	}
	for _, opt := range options {
		opt(s)
	}

	tokens, err := token.New(config, Issuer, repos.RefreshTokens)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create token manager: %w", err)
	}
	s.tokens = tokens

	s.auth, err = auth.NewService(repos.Users, tokens)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create auth service: %w", err)
	}

	if err := s.InitialiseSystem(context.Background()); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Tokens exposes the token manager, mainly so tests can mint or revoke tokens.
func (s *Server) Tokens() *token.Manager {
	return s.tokens
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	_ = chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		s.logger.Info().Msg(routeLine(method, route))
		return nil
	})
}

func routeLine(method, path string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	return fmt.Sprintf("[%s] %s", color+paddedMethod+ResetColor, path)
}
