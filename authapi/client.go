// Package authapi talks to the login and token refresh endpoints. It is a pure
// exchange: nothing here stores tokens or touches session state, so callers
// decide what to persist.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	PathLogin        = "auth/login"
	PathRefreshToken = "auth/refresh-token"
	PathLogout       = "auth/logout"

	maxErrorBody = 64 << 10
)

// Client calls the auth endpoints of the dashboard API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client. It must not carry the session's
// intercepting transport, otherwise a 401 from the refresh endpoint would recurse.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New returns a client for the API rooted at baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a user and a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("authapi.Login: email and password are required: %w", ErrInvalidArgument)
	}

	var resp LoginResponse
	status, err := c.post(ctx, PathLogin, "", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		if apiErr, ok := asAPIError(err); ok {
			apiErr.Op, apiErr.kind = "login", ErrLoginRejected
			if apiErr.Message == "" {
				apiErr.Message = defaultLoginMessage
			}
			c.logger.Debug().Int("status", apiErr.Status).Str("email", email).Msg("login rejected")
			return nil, apiErr
		}
		return nil, err
	}
	if !resp.Pair().valid() || resp.User == nil || resp.User.ID == "" {
		return nil, fmt.Errorf("authapi.Login: incomplete response (status %d): %w", status, ErrRequestFailed)
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new token pair. Both arguments are
// required and are checked before any network access.
func (c *Client) Refresh(ctx context.Context, userID, refreshToken string) (*TokenPair, error) {
	if userID == "" || refreshToken == "" {
		return nil, fmt.Errorf("authapi.Refresh: user id and refresh token are required: %w", ErrInvalidArgument)
	}

	var pair TokenPair
	status, err := c.post(ctx, PathRefreshToken, "", RefreshRequest{UserID: userID, RefreshToken: refreshToken}, &pair)
	if err != nil {
		if apiErr, ok := asAPIError(err); ok {
			apiErr.Op, apiErr.kind = "refresh", ErrRefreshRejected
			if apiErr.Message == "" {
				apiErr.Message = defaultRefreshMessage
			}
			c.logger.Debug().Int("status", apiErr.Status).Str("user_id", userID).Msg("refresh rejected")
			return nil, apiErr
		}
		return nil, err
	}
	if !pair.valid() {
		return nil, fmt.Errorf("authapi.Refresh: incomplete response (status %d): %w", status, ErrRequestFailed)
	}
	return &pair, nil
}

// Logout asks the server to revoke accessToken and the refresh token of its
// user. Local credentials are not touched.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return fmt.Errorf("authapi.Logout: access token is required: %w", ErrInvalidArgument)
	}
	var ack struct {
		Message string `json:"message"`
	}
	if _, err := c.post(ctx, PathLogout, accessToken, struct{}{}, &ack); err != nil {
		if apiErr, ok := asAPIError(err); ok {
			apiErr.Op, apiErr.kind = "logout", ErrRequestFailed
			return apiErr
		}
		return err
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, bearer string, in, out any) (int, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return 0, fmt.Errorf("authapi: building url for %s: %w", path, err)
	}
	body, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("authapi: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("authapi: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("authapi: POST %s: %w: %w", path, ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&eb)
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Message: eb.text()}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("authapi: decoding %s response: %w: %w", path, ErrRequestFailed, err)
	}
	return resp.StatusCode, nil
}

func asAPIError(err error) (*APIError, bool) {
	apiErr, ok := err.(*APIError)
	return apiErr, ok
}
