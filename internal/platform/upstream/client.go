// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package upstream is the console's REST client for the messaging backend.

Every call goes through [Client.Do], which:

  - waits on an outbound rate limiter,
  - attaches the bearer token from [Credentials] (refreshing it first when it is about to expire),
  - propagates the inbound request id,
  - checks both the transport status and the body's own failure markers.

A 401 on an authenticated call triggers one refresh and one retry.
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
	"github.com/fndrorato/webscrap-ia/internal/platform/ctxutil"
	"github.com/fndrorato/webscrap-ia/internal/platform/tokens"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Credentials supplies the bearer token and accepts renewed ones.
// The session store implements it.
type Credentials interface {
	Token() (*oauth2.Token, bool)
	SetToken(context context.Context, token *oauth2.Token) error
}

// Options configures [New].
type Options struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int

	// Transport overrides the HTTP transport. Nil uses [http.DefaultTransport].
	Transport http.RoundTripper
	// Now overrides the clock used for proactive refresh.
	Now func() time.Time
}

// Request describes one collaborator call.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// JSON is encoded as the request body when non-nil.
	JSON any
	// Form is sent as multipart/form-data when non-nil. It wins over JSON.
	Form *Form

	// Anonymous skips the bearer token (login, refresh).
	Anonymous bool
}

// Client talks to the REST collaborator.
type Client struct {
	base        *url.URL
	http        *http.Client
	limiter     *rate.Limiter
	credentials Credentials
	now         func() time.Time

	refreshMu sync.Mutex
}

// New builds a client. credentials may be nil for anonymous-only use.
func New(options Options, credentials Credentials) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(options.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream: invalid base URL %q", options.BaseURL)
	}

	limit := rate.Inf
	if options.RPS > 0 {
		limit = rate.Limit(options.RPS)
	}
	burst := options.Burst
	if burst <= 0 {
		burst = 1
	}

	now := options.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		base:        base,
		http:        &http.Client{Timeout: options.Timeout, Transport: options.Transport},
		limiter:     rate.NewLimiter(limit, burst),
		credentials: credentials,
		now:         now,
	}, nil
}

// BaseURL returns the collaborator base address.
func (client *Client) BaseURL() string { return client.base.String() }

// Ping reports whether the collaborator answers at all. Any HTTP status counts
// as reachable; only transport failures are returned.
func (client *Client) Ping(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, client.base.String()+"/", nil)
	if err != nil {
		return apperr.Internal(err)
	}

	response, err := client.http.Do(request)
	if err != nil {
		return apperr.Transport(err)
	}
	_ = response.Body.Close()
	return nil
}

// # Verbs

// Get performs an authenticated GET and decodes the body into out.
func (client *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return client.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post performs an authenticated JSON POST.
func (client *Client) Post(ctx context.Context, path string, body, out any) error {
	return client.Do(ctx, Request{Method: http.MethodPost, Path: path, JSON: body}, out)
}

// Put performs an authenticated JSON PUT.
func (client *Client) Put(ctx context.Context, path string, body, out any) error {
	return client.Do(ctx, Request{Method: http.MethodPut, Path: path, JSON: body}, out)
}

// Patch performs an authenticated JSON PATCH.
func (client *Client) Patch(ctx context.Context, path string, body, out any) error {
	return client.Do(ctx, Request{Method: http.MethodPatch, Path: path, JSON: body}, out)
}

// Delete performs an authenticated DELETE.
func (client *Client) Delete(ctx context.Context, path string, out any) error {
	return client.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// # Core

/*
Do sends request and decodes a successful body into out (which may be nil).

Returns:
  - error: *apperr.AppError: Transport when the call could not complete,
    ServerReported when the collaborator flagged failure, NoSession when an
    authenticated call is made without credentials.
*/
func (client *Client) Do(ctx context.Context, request Request, out any) error {
	payload, contentType, err := encodeBody(request)
	if err != nil {
		return apperr.Internal(err)
	}

	var token *oauth2.Token
	if !request.Anonymous {
		if token, err = client.bearer(ctx); err != nil {
			return err
		}
	}

	status, body, err := client.send(ctx, request, payload, contentType, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && token != nil && token.RefreshToken != "" {
		renewed, refreshErr := client.refresh(ctx, token)
		if refreshErr != nil {
			ctxutil.GetLogger(ctx).Warn("upstream_token_refresh_failed", slog.Any("error", refreshErr))
			return apperr.ServerReported(status, messageOf(body, "Session expired. Please sign in again."))
		}

		if status, body, err = client.send(ctx, request, payload, contentType, renewed); err != nil {
			return err
		}
	}

	if err := check(status, body); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Transport(fmt.Errorf("upstream_decode_failed: %w", err))
	}
	return nil
}

// send performs one HTTP exchange and returns the status and raw body.
func (client *Client) send(ctx context.Context, request Request, payload []byte, contentType string, token *oauth2.Token) (int, []byte, error) {
	logger := ctxutil.GetLogger(ctx)

	if err := client.limiter.Wait(ctx); err != nil {
		return 0, nil, apperr.Transport(fmt.Errorf("upstream_rate_wait_failed: %w", err))
	}

	target := client.resolve(request.Path, request.Query)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, request.Method, target, reader)
	if err != nil {
		return 0, nil, apperr.Internal(err)
	}

	if contentType != "" {
		httpRequest.Header.Set("Content-Type", contentType)
	}
	httpRequest.Header.Set("Accept", "application/json")
	httpRequest.Header.Set(constants.HeaderXRequestID, requestID(ctx))
	if token != nil {
		token.SetAuthHeader(httpRequest)
	}

	started := time.Now()
	response, err := client.http.Do(httpRequest)
	if err != nil {
		logger.Warn("upstream_request_failed",
			slog.String("method", request.Method),
			slog.String("path", request.Path),
			slog.Any("error", err),
		)
		return 0, nil, apperr.Transport(err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, apperr.Transport(fmt.Errorf("upstream_read_failed: %w", err))
	}

	logger.Debug("upstream_request_completed",
		slog.String("method", request.Method),
		slog.String("path", request.Path),
		slog.Int("status", response.StatusCode),
		slog.Duration("duration", time.Since(started)),
	)

	return response.StatusCode, body, nil
}

func (client *Client) resolve(path string, query url.Values) string {
	target := *client.base
	target.Path = client.base.Path + path
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	return target.String()
}

// # Credentials

// bearer returns the current token, refreshing it first when it is about to expire.
func (client *Client) bearer(ctx context.Context) (*oauth2.Token, error) {
	if client.credentials == nil {
		return nil, apperr.NoSession()
	}

	token, ok := client.credentials.Token()
	if !ok || token.AccessToken == "" {
		return nil, apperr.NoSession()
	}

	if token.RefreshToken != "" && tokens.NeedsRefresh(token, client.now(), constants.TokenRefreshLeeway) {
		renewed, err := client.refresh(ctx, token)
		if err != nil {
			// Let the collaborator decide; a real expiry surfaces as a 401.
			ctxutil.GetLogger(ctx).Warn("upstream_proactive_refresh_failed", slog.Any("error", err))
			return token, nil
		}
		return renewed, nil
	}

	return token, nil
}

// Refresh exchanges the current refresh token for a new access token.
func (client *Client) Refresh(ctx context.Context) (*oauth2.Token, error) {
	if client.credentials == nil {
		return nil, apperr.NoSession()
	}

	current, ok := client.credentials.Token()
	if !ok {
		return nil, apperr.NoSession()
	}
	return client.refresh(ctx, current)
}

// refreshResponse is the collaborator's refresh payload. Rotation is optional.
type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// refresh exchanges the refresh token once per stale access token. Concurrent
// callers holding the same stale token share the first caller's result.
func (client *Client) refresh(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error) {
	client.refreshMu.Lock()
	defer client.refreshMu.Unlock()

	current, ok := client.credentials.Token()
	if !ok {
		return nil, apperr.NoSession()
	}
	if current.AccessToken != stale.AccessToken {
		return current, nil
	}
	if current.RefreshToken == "" {
		return nil, apperr.Unauthorized("No refresh token available")
	}

	var response refreshResponse
	err := client.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      constants.PathTokenRefresh,
		JSON:      map[string]string{"refresh": current.RefreshToken},
		Anonymous: true,
	}, &response)
	if err != nil {
		return nil, err
	}
	if response.Access == "" {
		return nil, apperr.ServerReported(http.StatusOK, "Refresh response carried no access token")
	}

	refreshToken := response.Refresh
	if refreshToken == "" {
		refreshToken = current.RefreshToken
	}

	renewed := tokens.FromPair(response.Access, refreshToken)
	if err := client.credentials.SetToken(ctx, renewed); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("upstream_token_refreshed", slog.Time("expires_at", renewed.Expiry))
	return renewed, nil
}

// # Helpers

func requestID(ctx context.Context) string {
	if id := ctxutil.GetRequestID(ctx); id != "" {
		return id
	}
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func encodeBody(request Request) ([]byte, string, error) {
	switch {
	case request.Form != nil:
		return request.Form.encode()
	case request.JSON != nil:
		payload, err := json.Marshal(request.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("upstream_encode_failed: %w", err)
		}
		return payload, "application/json", nil
	default:
		return nil, "", nil
	}
}

// IsTransport reports whether err means the collaborator could not be reached.
func IsTransport(err error) bool {
	return apperr.HasCode(err, apperr.CodeUpstreamDown)
}

// RequireField returns a ServerReported error when value is empty.
func RequireField(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.ServerReported(http.StatusOK, fmt.Sprintf("Response is missing %s", name))
	}
	return nil
}
