package backend

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

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const DefaultBaseURL = "http://127.0.0.1:8000"

// maxErrorBody caps how much of a failed response is read for its detail.
const maxErrorBody = 64 << 10

// Client is the typed wrapper around the local AI backend. It reuses the
// openai-go request machinery for custom endpoints, with retries disabled:
// every failure is terminal for the operation that triggered it.
type Client struct {
	baseURL string
	api     openai.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger, opts ...option.RequestOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Client{baseURL: baseURL, logger: logger}

	base := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		// The local backend has no auth; never forward an OPENAI_API_KEY from the env.
		option.WithHeaderDel("authorization"),
		option.WithMiddleware(c.classify),
	}
	c.api = openai.NewClient(append(base, opts...)...)
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Call issues a JSON request and decodes the JSON response into out (when
// non-nil). Failures are *NetworkError or *HTTPError.
func (c *Client) Call(ctx context.Context, method, endpoint string, body any, out any) error {
	if body == nil {
		return c.do(ctx, method, endpoint, nil, out)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}
	return c.do(ctx, method, endpoint, payload, out, option.WithHeader("Content-Type", "application/json"))
}

func (c *Client) do(ctx context.Context, method, endpoint string, params any, out any, opts ...option.RequestOption) error {
	path := strings.TrimLeft(endpoint, "/")
	start := time.Now()

	var raw []byte
	err := c.api.Execute(ctx, method, path, params, &raw, opts...)
	if err != nil {
		err = c.normalize(endpoint, err)
		c.logger.Warn("backend call failed",
			"method", method,
			"endpoint", endpoint,
			"duration_ms", time.Since(start).Milliseconds(),
			"err", err,
		)
		return err
	}
	c.logger.Debug("backend call",
		"method", method,
		"endpoint", endpoint,
		"bytes", len(raw),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if dst, ok := out.(*[]byte); ok {
		*dst = raw
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// classify runs around every HTTP round trip and turns transport failures and
// non-2xx statuses into the package's error types before the SDK sees them.
func (c *Client) classify(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	endpoint := req.URL.Path
	resp, err := next(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &NetworkError{Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		return nil, &HTTPError{Endpoint: endpoint, Status: resp.StatusCode, Detail: errorDetail(body)}
	}
	return resp, nil
}

func (c *Client) normalize(endpoint string, err error) error {
	var netErr *NetworkError
	var httpErr *HTTPError
	if errors.As(err, &netErr) || errors.As(err, &httpErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &HTTPError{Endpoint: endpoint, Status: apiErr.StatusCode, Detail: apiErr.Message}
	}
	return &NetworkError{Endpoint: endpoint, Err: err}
}
