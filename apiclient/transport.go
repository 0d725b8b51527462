// Package apiclient is the HTTP pipeline every dashboard API call goes through.
// Transport attaches the current access token to each request and, when the API
// answers 401, refreshes the session once and replays the request.
package apiclient

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/jrsteele09/go-admin-session/authapi"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Refresher refreshes the session after a request failed with staleToken.
// Concurrent callers share one exchange. *session.Manager implements it.
type Refresher interface {
	RefreshStale(ctx context.Context, staleToken string) (*authapi.TokenPair, error)
}

type retriedKey struct{}

// IsRetry reports whether ctx belongs to a request that is already a replay
// after a refresh.
func IsRetry(ctx context.Context) bool {
	retried, _ := ctx.Value(retriedKey{}).(bool)
	return retried
}

func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

var _ http.RoundTripper = (*Transport)(nil)

// Transport attaches the stored access token to every request and replays a
// request once after a 401 has been answered by a refresh.
type Transport struct {
	store     credentials.Store
	refresher Refresher
	base      http.RoundTripper
	logger    zerolog.Logger
}

type TransportOption func(*Transport)

// WithBase sets the round tripper that sends requests. Defaults to
// http.DefaultTransport.
func WithBase(base http.RoundTripper) TransportOption {
	return func(t *Transport) {
		t.base = base
	}
}

func WithTransportLogger(logger zerolog.Logger) TransportOption {
	return func(t *Transport) {
		t.logger = logger
	}
}

// NewTransport reads tokens from store and refreshes through refresher. The
// store is only read here; the session writes it.
func NewTransport(store credentials.Store, refresher Refresher, options ...TransportOption) *Transport {
	t := &Transport{
		store:     store,
		refresher: refresher,
		base:      http.DefaultTransport,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	token, _, err := t.store.Get(ctx, credentials.KeyAccessToken)
	if err != nil {
		closeBody(req)
		return nil, errors.Wrapf(err, "apiclient: reading access token")
	}

	getBody, err := replayableBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := t.base.RoundTrip(authorize(req, token, getBody))
	if err != nil || resp.StatusCode != http.StatusUnauthorized || IsRetry(ctx) {
		return resp, err
	}

	pair, err := t.refresher.RefreshStale(ctx, token)
	if err != nil {
		// The session has been ended by the refresher; the caller gets its own 401.
		t.logger.Debug().Err(err).Str("path", req.URL.Path).Msg("refresh after 401 failed")
		return resp, nil
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()

	retry := req.Clone(markRetried(ctx))
	retry.Body, retry.GetBody = nil, getBody
	if getBody != nil {
		if retry.Body, err = getBody(); err != nil {
			return nil, errors.Wrapf(err, "apiclient: replaying request body")
		}
	}
	t.logger.Debug().Str("method", req.Method).Str("path", req.URL.Path).Msg("replaying request after refresh")

	resp, err = t.base.RoundTrip(authorize(retry, pair.AccessToken, getBody))
	return resp, err
}

// authorize returns a copy of req carrying token. An empty token sends the
// request without an Authorization header.
func authorize(req *http.Request, token string, getBody func() (io.ReadCloser, error)) *http.Request {
	out := req.Clone(req.Context())
	out.Body = req.Body
	out.GetBody = getBody
	out.Header.Del("Authorization")
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(out)
	}
	return out
}

// replayableBody makes sure the request body can be sent twice. Bodies without
// GetBody are buffered and req.Body is replaced with the buffered copy.
func replayableBody(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		return req.GetBody, nil
	}

	buf, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "apiclient: buffering request body")
	}
	getBody := func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}
	req.Body, _ = getBody()
	return getBody, nil
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		req.Body.Close()
	}
}
