package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/intellidoc/console-gateway/internal/observability/metrics"
	"github.com/intellidoc/console-gateway/internal/session"
	"github.com/intellidoc/console-gateway/pkg/config"
	"github.com/intellidoc/console-gateway/pkg/errors"
	"github.com/intellidoc/console-gateway/pkg/logger"
)

const maxErrorBodySize = 1 << 20

// Client is the single HTTP client every backend call funnels through.
// It is pre-configured with the backend base URL and attaches the caller's
// bearer token from the session context. No retries: a failed call
// surfaces immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
	metrics    *metrics.HTTPMetrics
}

// NewClient creates a backend client. metrics may be nil when the metrics
// endpoint is disabled.
func NewClient(cfg *config.BackendConfig, log *logger.Logger, m *metrics.HTTPMetrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log,
		metrics:    m,
	}
}

// newRequest builds a request against the backend, attaching the bearer
// token from the session in ctx when present.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if token := session.Token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do executes the request and maps transport failures. resource labels the
// call for logging and metrics.
func (c *Client) do(req *http.Request, resource string) (*http.Response, error) {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(resource, 0, time.Since(start))
		c.logger.Error().Err(err).Str("resource", resource).Msg("backend request failed")
		return nil, errors.BackendUnavailable(err)
	}

	c.record(resource, resp.StatusCode, time.Since(start))
	return resp, nil
}

func (c *Client) record(resource string, status int, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordUpstream("console-gateway", resource, status, duration)
	}
}

// doJSON executes a call with an optional JSON request body, decoding a
// JSON response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, requestBody, out interface{}, resource string) error {
	var body io.Reader
	if requestBody != nil {
		payload, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req, resource)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.apiError(resp, resource)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "BACKEND_DECODE", "failed to decode backend response", http.StatusBadGateway)
		}
	}

	return nil
}

// Blob is a binary backend response, typically a spreadsheet export.
type Blob struct {
	Data        []byte
	ContentType string
}

// doBlob executes a call expecting a binary response body.
func (c *Client) doBlob(ctx context.Context, method, path string, requestBody interface{}, resource string) (*Blob, error) {
	var body io.Reader
	if requestBody != nil {
		payload, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, nil, body)
	if err != nil {
		return nil, err
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req, resource)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.apiError(resp, resource)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "BACKEND_READ", "failed to read export data", http.StatusBadGateway)
	}

	return &Blob{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// decodeOptionalJSON decodes a JSON body into out, tolerating an entirely
// empty body (the upload endpoint sometimes returns one).
func decodeOptionalJSON(r io.Reader, out interface{}) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "BACKEND_READ", "failed to read backend response", http.StatusBadGateway)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "BACKEND_DECODE", "failed to decode backend response", http.StatusBadGateway)
	}
	return nil
}

// apiError maps a non-2xx backend response into an AppError, surfacing the
// body's message when it is a plain string or a {message} object and
// falling back to a generic message otherwise.
func (c *Client) apiError(resp *http.Response, resource string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	message := messageFromBody(body)

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("resource", resource).
		Str("message", message).
		Msg("backend rejected request")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if message == "" {
			message = "authentication required"
		}
		return errors.Unauthorized(message)
	case resp.StatusCode == http.StatusNotFound:
		return errors.NotFound(resource)
	default:
		if message == "" {
			message = "the document service rejected the request"
		}
		return errors.New("BACKEND_ERROR", message, resp.StatusCode)
	}
}

// messageFromBody extracts a human-readable message from an error body.
// Recognized shapes: a JSON {message} object, a JSON string, or a bare
// text body. Anything else yields "".
func messageFromBody(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var withMessage struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &withMessage); err == nil && withMessage.Message != "" {
		return withMessage.Message
	}

	var asString string
	if err := json.Unmarshal(trimmed, &asString); err == nil {
		return asString
	}

	if !json.Valid(trimmed) {
		return string(trimmed)
	}

	return ""
}
