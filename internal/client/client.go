// ABOUTME: HTTP client for the BookX books and AI advice API
// ABOUTME: Builds endpoint requests on the authenticated client and validates decoded responses

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/swapbook/bookx/cli/internal/auth"
)

var (
	// ErrMalformedResponse is wrapped by errors for 2xx responses whose body fails validation
	ErrMalformedResponse = errors.New("malformed response from backend")

	// ErrInvalidInput is wrapped by errors for requests rejected before being sent
	ErrInvalidInput = errors.New("invalid input")
)

// Error is returned for non-2xx responses. It names the failed operation.
type Error struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("failed to %s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("failed to %s", e.Op)
}

// ErrorResponse is the error body shape the backend uses
type ErrorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// Client is the API client for the BookX backend
type Client struct {
	baseURL string
	auth    *auth.Client
}

// New creates a domain client on top of an authenticated client
func New(a *auth.Client) *Client {
	return &Client{
		baseURL: a.BaseURL(),
		auth:    a,
	}
}

// Auth returns the underlying authenticated client
func (c *Client) Auth() *auth.Client {
	return c.auth
}

// ListBooks calls GET /api/books/
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.getJSON(ctx, "fetch books", "/api/books/", nil, &books); err != nil {
		return nil, err
	}
	if err := validateBooks(books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook calls GET /api/books/{id}/
func (c *Client) GetBook(ctx context.Context, id int) (*Book, error) {
	var book Book
	if err := c.getJSON(ctx, "fetch book", bookPath(id), nil, &book); err != nil {
		return nil, err
	}
	if err := book.validate(); err != nil {
		return nil, err
	}
	return &book, nil
}

// SearchBooks calls GET /api/books/search/ with repeated titles/authors keys
func (c *Client) SearchBooks(ctx context.Context, params SearchParams) ([]Book, error) {
	var books []Book
	if err := c.getJSON(ctx, "search books", "/api/books/search/", params.Values(), &books); err != nil {
		return nil, err
	}
	if err := validateBooks(books); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBook calls POST /api/books/ with a multipart form
func (c *Client) CreateBook(ctx context.Context, input CreateBookInput) (*Book, error) {
	input = input.normalized()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	body, contentType, err := input.encode()
	if err != nil {
		return nil, err
	}

	var book Book
	if err := c.send(ctx, "create book", http.MethodPost, "/api/books/", body, contentType, &book); err != nil {
		return nil, err
	}
	if err := book.validate(); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook calls PATCH /api/books/{id}/ sending only the fields set in input
func (c *Client) UpdateBook(ctx context.Context, id int, input UpdateBookInput) (*Book, error) {
	body, contentType, err := input.encode()
	if err != nil {
		return nil, err
	}

	var book Book
	if err := c.send(ctx, "update book", http.MethodPatch, bookPath(id), body, contentType, &book); err != nil {
		return nil, err
	}
	if err := book.validate(); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook calls DELETE /api/books/{id}/
func (c *Client) DeleteBook(ctx context.Context, id int) error {
	return c.send(ctx, "delete book", http.MethodDelete, bookPath(id), nil, "", nil)
}

// GetAdvice calls GET /api/ai/books/advice/?prompt=
func (c *Client) GetAdvice(ctx context.Context, prompt string) (*AdviceResponse, error) {
	var advice AdviceResponse
	query := url.Values{"prompt": []string{prompt}}
	if err := c.getJSON(ctx, "get AI advice", "/api/ai/books/advice/", query, &advice); err != nil {
		return nil, err
	}
	if err := advice.validate(); err != nil {
		return nil, err
	}
	return &advice, nil
}

// GetAdvicePost calls POST /api/ai/books/advice/ with a JSON prompt body
func (c *Client) GetAdvicePost(ctx context.Context, prompt string) (*AdviceResponse, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	var advice AdviceResponse
	if err := c.send(ctx, "get AI advice", http.MethodPost, "/api/ai/books/advice/", body, "", &advice); err != nil {
		return nil, err
	}
	if err := advice.validate(); err != nil {
		return nil, err
	}
	return &advice, nil
}

// HealthCheck calls GET /api/health/ without credentials. Every failure reads as unhealthy.
func (c *Client) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health/", nil)
	if err != nil {
		return false
	}

	resp, err := c.auth.HTTPClient().Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.do(ctx, op, &auth.Request{Method: http.MethodGet, URL: endpoint}, out)
}

func (c *Client) send(ctx context.Context, op, method, path string, body []byte, contentType string, out interface{}) error {
	return c.do(ctx, op, &auth.Request{
		Method:      method,
		URL:         c.baseURL + path,
		Body:        body,
		ContentType: contentType,
	}, out)
}

// do runs r through the authenticated client and decodes a 2xx body into out (if non-nil)
func (c *Client) do(ctx context.Context, op string, r *auth.Request, out interface{}) error {
	resp, err := c.auth.Do(ctx, r)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(op, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to %s: %w: %v", op, ErrMalformedResponse, err)
	}
	return nil
}

// handleErrorResponse parses API error responses; unparseable bodies give an empty detail
func handleErrorResponse(op string, resp *http.Response) error {
	apiErr := &Error{Op: op, StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var errResp ErrorResponse
	if err := json.Unmarshal(bytes.TrimSpace(data), &errResp); err == nil {
		apiErr.Detail = errResp.Detail
		if apiErr.Detail == "" {
			apiErr.Detail = errResp.Error
		}
	}
	return apiErr
}

func bookPath(id int) string {
	return "/api/books/" + strconv.Itoa(id) + "/"
}

func validateBooks(books []Book) error {
	for i := range books {
		if err := books[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthenticated reports whether err means the user must log in again:
// either the token refresh failed or the backend answered 401 with no refresh possible.
func IsUnauthenticated(err error) bool {
	if errors.Is(err, auth.ErrUnauthenticated) {
		return true
	}
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
