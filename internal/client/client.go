package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-interview-client/internal/credentials"
	"go-interview-client/internal/model"
	"go-interview-client/pkg/apierror"
)

const requestIDHeader = "X-Request-ID"

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Mode       credentials.Mode
	// Store is used in token mode; a memory store is created when nil.
	Store     credentials.Store
	Refresher *Refresher
	Metrics   *Metrics
	Logger    *slog.Logger
}

// Client performs authenticated calls against the interview backend and
// recovers from access token expiry without involving the caller.
type Client struct {
	baseURL   string
	base      *url.URL
	http      *http.Client
	jar       *resettableJar
	mode      credentials.Mode
	store     credentials.Store
	refresher *Refresher
	metrics   *Metrics
	logger    *slog.Logger
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("API base URL is required")
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", opts.BaseURL)
	}

	mode := opts.Mode
	if mode == "" {
		mode = credentials.ModeToken
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		httpClient = &copied
	}

	c := &Client{
		baseURL:   baseURL,
		base:      base,
		mode:      mode,
		refresher: opts.Refresher,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}

	switch mode {
	case credentials.ModeToken:
		c.store = opts.Store
		if c.store == nil {
			c.store = credentials.NewMemoryStore(credentials.Pair{})
		}
	case credentials.ModeCookie:
		jar, err := newResettableJar()
		if err != nil {
			return nil, err
		}
		c.jar = jar
		httpClient.Jar = jar
	default:
		return nil, fmt.Errorf("unsupported credential mode %q", mode)
	}

	c.http = httpClient
	if c.refresher == nil {
		c.refresher = NewRefresher()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c, nil
}

func (c *Client) Mode() credentials.Mode {
	return c.mode
}

// Do sends req, attaching the current access token. A 401 triggers one
// shared refresh and exactly one retry. Non-2xx responses come back as
// *apierror.APIError; a 2xx body that is not JSON yields nil data.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	sent := c.accessToken()

	status, body, err := c.send(ctx, req, sent, false)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && !req.SkipAuth && c.canRefresh() {
		fresh, err := c.recoverToken(ctx, sent)
		switch {
		case err == nil:
			status, body, err = c.send(ctx, req, fresh, true)
			if err != nil {
				return nil, err
			}
		case ctx.Err() != nil && errors.Is(err, ctx.Err()):
			return nil, err
		case errors.Is(err, model.ErrSessionEnded):
			// The caller sees its own 401, marked as the end of the session.
			return nil, fmt.Errorf("%w: %w", model.ErrSessionEnded, apierror.FromResponse(req.Method, req.Path, status, body))
		}
	}

	if status < 200 || status > 299 {
		return nil, apierror.FromResponse(req.Method, req.Path, status, body)
	}

	if !json.Valid(body) {
		return nil, nil
	}

	return json.RawMessage(body), nil
}

// Refresh obtains a new access token now, sharing any refresh already in
// flight. On failure stored credentials are gone and model.ErrSessionEnded
// is returned.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	return c.refresher.Do(ctx, func(ctx context.Context) (string, error) {
		return c.refresh(ctx, "")
	})
}

// Authenticated reports whether credentials are present, not whether the
// backend still accepts them.
func (c *Client) Authenticated() bool {
	if c.mode == credentials.ModeCookie {
		return len(c.jar.Cookies(c.base)) > 0
	}

	pair, err := c.store.Load()
	return err == nil && pair.AccessToken != ""
}

// Credentials returns the stored pair (always empty in cookie mode).
func (c *Client) Credentials() (credentials.Pair, error) {
	if c.mode == credentials.ModeCookie {
		return credentials.Pair{}, nil
	}
	return c.store.Load()
}

func (c *Client) recoverToken(ctx context.Context, stale string) (string, error) {
	return c.refresher.Do(ctx, func(ctx context.Context) (string, error) {
		return c.refresh(ctx, stale)
	})
}

// refresh runs inside the single flight. A caller whose token is already
// stale because an earlier flight rotated it gets the current token without
// another network round trip.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	var body any
	pair := credentials.Pair{}

	if c.mode == credentials.ModeToken {
		loaded, err := c.store.Load()
		if err != nil {
			return "", c.refreshFailed(fmt.Errorf("load credentials: %w", err))
		}
		pair = loaded

		if stale != "" && pair.AccessToken != "" && pair.AccessToken != stale {
			return pair.AccessToken, nil
		}
		if pair.RefreshToken == "" {
			return "", model.ErrNotAuthenticated
		}
		body = model.RefreshRequest{RefreshToken: pair.RefreshToken}
	}

	req := Request{Method: http.MethodPost, Path: "/auth/refresh", Body: body, SkipAuth: true}
	status, raw, err := c.send(ctx, req, "", false)
	if err != nil {
		return "", c.refreshFailed(err)
	}
	if status < 200 || status > 299 {
		return "", c.refreshFailed(apierror.FromResponse(req.Method, req.Path, status, raw))
	}

	if c.mode == credentials.ModeCookie {
		c.metrics.observeRefresh(true)
		c.logger.Info("session refreshed", "mode", c.mode)
		return "", nil
	}

	var tokens model.TokenPair
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return "", c.refreshFailed(apierror.Malformed(req.Method, req.Path, fmt.Errorf("%w: %v", model.ErrMalformedResponse, err)))
	}
	if err := tokens.Validate(); err != nil {
		return "", c.refreshFailed(apierror.Malformed(req.Method, req.Path, err))
	}

	next := credentials.Pair{AccessToken: tokens.AccessToken, RefreshToken: pair.RefreshToken}
	if tokens.RefreshToken != "" {
		next.RefreshToken = tokens.RefreshToken
	}
	if err := c.store.Save(next); err != nil {
		return "", c.refreshFailed(fmt.Errorf("save credentials: %w", err))
	}

	c.metrics.observeRefresh(true)
	c.logger.Info("session refreshed", "mode", c.mode, "rotated_refresh_token", tokens.RefreshToken != "")
	return tokens.AccessToken, nil
}

func (c *Client) refreshFailed(cause error) error {
	c.metrics.observeRefresh(false)
	c.logger.Warn("session refresh failed, clearing credentials", "error", cause)

	if err := c.clearCredentials(); err != nil {
		c.logger.Error("failed to clear credentials", "error", err)
	}

	return fmt.Errorf("%w: %w", model.ErrSessionEnded, cause)
}

func (c *Client) clearCredentials() error {
	if c.mode == credentials.ModeCookie {
		return c.jar.Reset()
	}
	return c.store.Clear()
}

func (c *Client) saveTokens(tokens model.TokenPair) error {
	if c.mode == credentials.ModeCookie {
		return nil
	}

	pair, err := c.store.Load()
	if err != nil {
		pair = credentials.Pair{}
	}

	pair.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		pair.RefreshToken = tokens.RefreshToken
	}

	return c.store.Save(pair)
}

func (c *Client) canRefresh() bool {
	if c.mode == credentials.ModeCookie {
		return len(c.jar.Cookies(c.base)) > 0
	}

	pair, err := c.store.Load()
	return err == nil && pair.RefreshToken != ""
}

func (c *Client) accessToken() string {
	if c.mode != credentials.ModeToken {
		return ""
	}

	pair, err := c.store.Load()
	if err != nil {
		c.logger.Warn("failed to load credentials", "error", err)
		return ""
	}
	return pair.AccessToken
}

// send performs one HTTP round trip. force overrides an Authorization header
// the caller set, which is what a retry after refresh needs.
func (c *Client) send(ctx context.Context, req Request, token string, force bool) (int, []byte, error) {
	body, contentType, err := req.encode()
	if err != nil {
		return 0, nil, apierror.Validation(fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return 0, nil, apierror.Transport(req.Method, req.Path, err)
	}

	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	requestID := httpReq.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		httpReq.Header.Set(requestIDHeader, requestID)
	}

	if !req.SkipAuth && token != "" && (force || httpReq.Header.Get("Authorization") == "") {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(started)
	if err != nil {
		c.metrics.observeRequest(req.Method, 0, elapsed)
		c.logger.Debug("request failed", "request_id", requestID, "method", req.Method, "path", req.Path, "error", err)
		return 0, nil, apierror.Transport(req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		data = nil
	}

	c.metrics.observeRequest(req.Method, resp.StatusCode, elapsed)
	c.logger.Debug("request",
		"request_id", requestID,
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
	)

	return resp.StatusCode, data, nil
}

type validator interface {
	Validate() error
}

// call is Do plus decoding into the endpoint's canonical shape. Anything that
// does not fit the shape is a malformed response.
func (c *Client) call(ctx context.Context, req Request, out any) error {
	raw, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if raw == nil {
		return apierror.Malformed(req.Method, req.Path, fmt.Errorf("%w: empty or non-JSON body", model.ErrMalformedResponse))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apierror.Malformed(req.Method, req.Path, fmt.Errorf("%w: %v", model.ErrMalformedResponse, err))
	}

	if v, ok := out.(validator); ok {
		if err := v.Validate(); err != nil {
			return apierror.Malformed(req.Method, req.Path, err)
		}
	}

	return nil
}
