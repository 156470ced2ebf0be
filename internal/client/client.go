// Package client is the request layer for the merchant API: it builds
// authenticated JSON calls against a fixed base origin and normalizes
// failures into a single error shape.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quickbite/merchant/internal/session"
)

// defaultTimeout bounds every call. The protocol itself has no retry or
// backoff; one attempt per call, and the caller decides what to do next.
const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the server. Message carries the JSON
// body's message field when the server sent one, else a generic
// "API Error: <status>" string.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// Client issues merchant API calls. The zero value is not usable; build one
// with New.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

// New creates a Client against baseURL, reading and storing its bearer
// token through sess.
func New(baseURL string, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: sess,
	}
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session { return c.session }

// do performs one request. body is JSON-encoded when non-nil; the response
// body is decoded into out when non-nil. When includeAuth is set and a token
// is present, it is attached as a bearer Authorization header.
//
// Transport failures come back wrapped and are distinguishable from
// *APIError, which is reserved for responses the server actually sent.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}, includeAuth bool) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if includeAuth {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, endpoint, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, endpoint, err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}, includeAuth bool) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out, includeAuth)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}, includeAuth bool) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out, includeAuth)
}

// newAPIError extracts the message field from a JSON error body, falling
// back to the raw status when the body is missing or not parseable.
func newAPIError(status int, raw []byte) *APIError {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return &APIError{StatusCode: status, Message: body.Message}
	}
	return &APIError{StatusCode: status, Message: fmt.Sprintf("API Error: %d", status)}
}
