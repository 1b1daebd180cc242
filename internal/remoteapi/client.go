// Package remoteapi is the HTTP client for the remote marketplace API. It is
// the only place that knows request paths and response envelopes.
package remoteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ironbid/internal/session"
)

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote api: status %d", e.Status)
	}
	return fmt.Sprintf("remote api: status %d: %s", e.Status, e.Message)
}

// ServerMessage returns the remote server's message carried by err, or fallback.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

type Client struct {
	http    *http.Client
	baseURL string
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(&http.Client{Timeout: timeout}, baseURL)
}

// NewWithHTTPClient lets tests point the client at an httptest server.
func NewWithHTTPClient(c *http.Client, baseURL string) *Client {
	return &Client{http: c, baseURL: strings.TrimRight(baseURL, "/")}
}

type call struct {
	method string
	path   string
	query  url.Values
	sess   *session.Session
	body   any
}

type requestIDKey struct{}

// WithRequestID makes outgoing calls made with ctx reuse id as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	reqID, _ := ctx.Value(requestIDKey{}).(string)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.sess != nil && cl.sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.sess.Token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			zap.L().Warn("remoteapi.close_body", zap.Error(closeErr))
		}
	}()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", cl.method, cl.path, err)
	}
	zap.L().Debug("remoteapi.call",
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.Int("status", res.StatusCode),
		zap.String("request_id", reqID),
	)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &APIError{Status: res.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrap(raw), out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", cl.method, cl.path, err)
	}
	return nil
}

// unwrap strips a {"data": ...} envelope when the remote uses one.
func unwrap(raw []byte) []byte {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	if data, ok := env["data"]; ok {
		return data
	}
	return raw
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
