// Package remote persists collections through the authenticated JobTrack
// HTTP API. Every request carries the session's bearer token.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/validate"
)

// DefaultTimeout bounds a single API call.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4096

// Client talks to one JobTrack API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client authenticating with token.
// A non-positive timeout uses DefaultTimeout.
func NewClient(ctx context.Context, baseURL, token string, timeout time.Duration) (*Client, error) {
	if err := validate.ServerURL(baseURL); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errors.ErrUnauthorized
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	hc := oauth2.NewClient(ctx, src)
	hc.Timeout = timeout

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}, nil
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiError is the error body every endpoint returns.
type apiError struct {
	Error string `json:"error"`
}

// do sends one request. body, when not nil, is sent as JSON; out, when not
// nil, receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path
	start := time.Now()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.NewSystemErrorWithOp(op, "failed to encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.NewSystemErrorWithOp(op, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NewSystemErrorWithOp(op, "remote API unreachable",
			fmt.Errorf("%w: %w", errors.ErrTransientIO, err))
	}
	defer resp.Body.Close()

	logging.FromContext(ctx).Debug("api call",
		logging.KeyMethod, method,
		logging.KeyPath, path,
		logging.KeyStatus, resp.StatusCode,
		logging.KeyDuration, time.Since(start),
	)

	if resp.StatusCode >= 300 {
		return statusError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewSystemErrorWithOp(op, "unreadable response",
			fmt.Errorf("%w: %w", errors.ErrTransientIO, err))
	}
	return nil
}

// statusError maps an HTTP failure onto the error taxonomy.
func statusError(op string, resp *http.Response) error {
	var body apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", op, errors.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %s: %w", op, body.Error, errors.ErrNotFoundOrDenied)
	case resp.StatusCode == http.StatusBadRequest:
		return errors.NewValidationError("", body.Error)
	case resp.StatusCode >= 500:
		return errors.NewSystemErrorWithOp(op, body.Error,
			fmt.Errorf("%w: status %d", errors.ErrTransientIO, resp.StatusCode))
	default:
		return errors.NewSystemErrorWithOp(op, body.Error,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}
