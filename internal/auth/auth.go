// ABOUTME: Authenticated HTTP client for the BookX backend
// ABOUTME: Attaches bearer tokens and refreshes credentials once on a 401, coordinated by singleflight

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/swapbook/bookx/cli/internal/tokenstore"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUnauthenticated is returned when a token refresh fails.
	// Credentials have already been cleared when callers see it.
	ErrUnauthenticated = errors.New("session expired, please log in again")

	// ErrLoginFailed is returned when the backend rejects a username/password
	ErrLoginFailed = errors.New("login failed")

	// ErrMalformedResponse is returned when a token endpoint answers 2xx with an unusable body
	ErrMalformedResponse = errors.New("malformed response from backend")
)

const (
	loginPath   = "/api/auth/token/"
	refreshPath = "/api/auth/token/refresh/"

	defaultContentType = "application/json"
)

// Request describes one outbound call. Body is held as bytes so the request can be replayed after a refresh.
type Request struct {
	Method      string
	URL         string
	Header      http.Header
	Body        []byte
	ContentType string
}

// Client performs authenticated requests against the backend
type Client struct {
	baseURL      string
	httpClient   *http.Client
	store        tokenstore.Store
	refreshGroup singleflight.Group
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (30s timeout)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates an authenticated client. A nil store behaves as an empty in-memory store.
func New(baseURL string, store tokenstore.Store, opts ...Option) *Client {
	if store == nil {
		store = tokenstore.NewMemoryStore()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		store: store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Store returns the token store backing this client
func (c *Client) Store() tokenstore.Store {
	return c.store
}

// HTTPClient returns the underlying HTTP client for unauthenticated calls
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// IsAuthenticated reports whether an access token is present
func (c *Client) IsAuthenticated() bool {
	return tokenstore.IsAuthenticated(c.store)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// Login exchanges credentials for a token pair. The pair is not persisted; callers store it.
func (c *Client) Login(ctx context.Context, username, password string) (tokenstore.Tokens, error) {
	var tokens tokenstore.Tokens

	resp, err := c.postJSON(ctx, loginPath, loginRequest{Username: username, Password: password})
	if err != nil {
		return tokens, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return tokens, fmt.Errorf("%w: backend returned status %d", ErrLoginFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return tokens, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if tokens.Access == "" || tokens.Refresh == "" {
		return tokenstore.Tokens{}, fmt.Errorf("%w: token pair missing access or refresh", ErrMalformedResponse)
	}

	return tokens, nil
}

// Refresh exchanges a refresh token for a new access token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	resp, err := c.postJSON(ctx, refreshPath, refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("token refresh failed: backend returned status %d", resp.StatusCode)
	}

	var body refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if body.Access == "" {
		return "", fmt.Errorf("%w: refresh response missing access token", ErrMalformedResponse)
	}

	return body.Access, nil
}

// Logout clears stored credentials
func (c *Client) Logout() error {
	return c.store.Clear()
}

// Do sends r with the current access token. On a 401 it refreshes once and retries once,
// returning the retried response whatever its status. With no refresh token the original
// 401 is returned. A failed refresh clears both tokens and returns ErrUnauthenticated.
// If another call already replaced the rejected token, the retry uses the stored one without refreshing.
func (c *Client) Do(ctx context.Context, r *Request) (*http.Response, error) {
	sent := c.store.AccessToken()
	resp, err := c.send(ctx, r, sent)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	if c.store.RefreshToken() == "" {
		return resp, nil
	}
	drainAndClose(resp)

	access := c.store.AccessToken()
	if access == "" || access == sent {
		access, err = c.refreshShared(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		slog.Debug("Access token already refreshed, skipping refresh")
	}

	slog.Debug("Retrying request with refreshed token", "method", r.Method, "url", r.URL)
	return c.send(ctx, r, access)
}

// refreshShared runs at most one refresh at a time; concurrent callers share its result.
// The refresh ignores ctx cancellation and is bounded by the HTTP client timeout.
func (c *Client) refreshShared(ctx context.Context) (string, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := c.refreshGroup.DoChan("refresh", func() (interface{}, error) {
		refreshToken := c.store.RefreshToken()
		if refreshToken == "" {
			return "", ErrUnauthenticated
		}

		slog.Debug("Refreshing access token")
		access, err := c.Refresh(flightCtx, refreshToken)
		if err != nil {
			slog.Warn("Token refresh failed, clearing credentials", "error", err)
			if clearErr := c.store.Clear(); clearErr != nil {
				slog.Warn("Failed to clear credentials", "error", clearErr)
			}
			return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}

		if err := c.store.SetAccessToken(access); err != nil {
			slog.Warn("Failed to persist refreshed access token", "error", err)
		}
		return access, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			slog.Debug("Shared in-flight token refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// send builds and issues one HTTP request. Caller headers are applied first;
// Authorization and Content-Type are set last so callers cannot override them.
func (c *Client) send(ctx context.Context, r *Request, token string) (*http.Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for name, values := range r.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	authorization := ""
	if token != "" {
		authorization = "Bearer " + token
	}
	req.Header.Set("Authorization", authorization)

	contentType := r.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", defaultContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	return resp, nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled: %w", ctx.Err())
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ctx.Err())
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

func drainAndClose(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
