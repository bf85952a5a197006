package backend

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/denoseu/dn-house/pkg/errors"
	"github.com/denoseu/dn-house/pkg/httputil"
	"github.com/denoseu/dn-house/pkg/observability"
)

// DefaultBaseURL is the hosted backend.
const DefaultBaseURL = "https://dn-house-backend.vercel.app"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Client holds the shared HTTP configuration for all endpoints.
type Client struct {
	http    *http.Client
	base    *url.URL
	headers map[string]string
	retry   httputil.Policy
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) {
		for k, v := range h {
			c.headers[k] = v
		}
	}
}

// WithRetry sets the retry policy for GET requests.
func WithRetry(p httputil.Policy) Option { return func(c *Client) { c.retry = p } }

// NewClient returns a client for the API at baseURL. An empty baseURL uses
// [DefaultBaseURL].
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid backend URL %q", baseURL)
	}

	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		base:    u,
		headers: map[string]string{"Accept": "application/json"},
		retry:   httputil.NoRetry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.base.String() }

// Guestbook returns the guestbook endpoints.
func (c *Client) Guestbook() *Guestbook { return &Guestbook{c: c} }

// Photos returns the photo endpoints.
func (c *Client) Photos() *Photos { return &Photos{c: c} }

// request describes one API call. body is replayable so GETs can be retried.
type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	progress    io.Writer

	// failure is the user-facing message returned on any error.
	failure string
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	policy := httputil.NoRetry
	if req.method == http.MethodGet {
		policy = c.retry
	}

	var data []byte
	err := httputil.Retry(ctx, policy, func() error {
		var err error
		data, err = c.roundTrip(ctx, req)
		return err
	})
	if err != nil {
		return nil, wrapFailure(err, req.failure)
	}
	return data, nil
}

// decodeFailure reports a 2xx body that could not be decoded.
func decodeFailure(err error, msg string) error {
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", msg)
}

func (c *Client) roundTrip(ctx context.Context, req request) ([]byte, error) {
	u := c.base.JoinPath(req.path)
	path := "/" + strings.TrimPrefix(u.Path, "/")

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
		if req.progress != nil {
			body = io.TeeReader(body, req.progress)
		}
	}
	hr, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		hr.Header.Set(k, v)
	}
	if req.contentType != "" {
		hr.Header.Set("Content-Type", req.contentType)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.method, u.Host, path)
	start := time.Now()

	resp, err := c.http.Do(hr)
	if err != nil {
		hooks.OnError(ctx, req.method, u.Host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%s %s: %w", req.method, path, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.method, u.Host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httputil.Retryable(err)
	}
	return data, nil
}

// StatusError is a non-2xx response.
type StatusError struct{ Code int }

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d %s", e.Code, http.StatusText(e.Code))
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 500:
		return httputil.Retryable(&StatusError{Code: code})
	default:
		return &StatusError{Code: code}
	}
}

// wrapFailure attaches the endpoint's fixed message to err.
func wrapFailure(err error, msg string) error {
	var se *StatusError
	switch {
	case stderrors.As(err, &se) && se.Code == http.StatusNotFound:
		return errors.Wrap(errors.ErrCodeNotFound, err, "%s", msg)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s", msg)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "%s", msg)
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return 0
}

// checkID rejects IDs that cannot be used as a path segment.
func checkID(id, msg string) error {
	if err := errors.ValidateID(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidID, err, "%s", msg)
	}
	return nil
}

// decodeList decodes a {key: [...]} envelope. A missing, null or non-array
// value yields an empty slice. A bare array is accepted too.
func decodeList[T any](data []byte, key string) ([]T, error) {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, err
		}
		raw = bytes.TrimSpace(env[key])
	}
	if len(raw) == 0 || raw[0] != '[' {
		return []T{}, nil
	}
	out := []T{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeRecord decodes a single record that may be bare or wrapped as
// {key: {...}}. An empty body yields the zero value.
func decodeRecord[T any](data []byte, key string) (T, error) {
	var zero T
	if len(bytes.TrimSpace(data)) == 0 {
		return zero, nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, err
	}
	if raw, ok := env[key]; ok && len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '{' {
		data = raw
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, err
	}
	return out, nil
}
