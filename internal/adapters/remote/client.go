package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/sethvargo/go-retry"

	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/apperrors"
	"github.com/goliatone/go-site-configurator/internal/blocks"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/internal/validation"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

const (
	defaultBaseURL       = "http://localhost:8000"
	defaultTimeout       = 5 * time.Second
	defaultHealthTimeout = 2 * time.Second
	defaultAttempts      = 3
	defaultBaseDelay     = time.Second
	defaultMaxDelay      = 5 * time.Second
	maxResponseBytes     = 10 << 20
)

// ClientConfig configures the page builder client.
type ClientConfig struct {
	BaseURL       string
	Timeout       time.Duration
	HealthTimeout time.Duration
	RetryAttempts int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	HTTPClient    *http.Client
	Logger        interfaces.Logger
}

// ClientError is a non-2xx answer from the page builder.
type ClientError struct {
	Status  int
	Code    string
	Message string
}

func (e *ClientError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

func (e *ClientError) clientSide() bool {
	return e.Status >= 400 && e.Status < 500
}

// RenderRequest is the body of render and preview calls.
type RenderRequest struct {
	Blocks  []blocks.Block         `json:"blocks"`
	Options adapters.RenderOptions `json:"options"`
}

// RenderResponse is the page builder render answer.
type RenderResponse struct {
	HTML     string             `json:"html"`
	CSS      string             `json:"css,omitempty"`
	Metadata *adapters.Metadata `json:"metadata,omitempty"`
}

// ValidationRequest is the body of a validate call.
type ValidationRequest struct {
	Blocks []blocks.Block `json:"blocks"`
}

// HealthResponse is the health probe answer.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// Client talks to the page builder over HTTP.
type Client struct {
	baseURL       string
	timeout       time.Duration
	healthTimeout time.Duration
	attempts      int
	baseDelay     time.Duration
	maxDelay      time.Duration
	http          *http.Client
	logger        interfaces.Logger
}

// NewClient applies defaults to cfg and returns a client.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:       cfg.Timeout,
		healthTimeout: cfg.HealthTimeout,
		attempts:      cfg.RetryAttempts,
		baseDelay:     cfg.BaseDelay,
		maxDelay:      cfg.MaxDelay,
		http:          cfg.HTTPClient,
		logger:        cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.healthTimeout <= 0 {
		c.healthTimeout = defaultHealthTimeout
	}
	if c.attempts <= 0 {
		c.attempts = defaultAttempts
	}
	if c.baseDelay <= 0 {
		c.baseDelay = defaultBaseDelay
	}
	if c.maxDelay <= 0 {
		c.maxDelay = defaultMaxDelay
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.logger == nil {
		c.logger = logging.NoOp()
	}
	return c
}

// RenderPage calls POST /api/render-page.
func (c *Client) RenderPage(ctx context.Context, req RenderRequest) (*RenderResponse, error) {
	var out RenderResponse
	if err := c.request(ctx, http.MethodPost, "/api/render-page", req, validation.SchemaRenderResponse, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateBlocks calls POST /api/validate-blocks.
func (c *Client) ValidateBlocks(ctx context.Context, req ValidationRequest) (*adapters.ValidationResult, error) {
	var out adapters.ValidationResult
	if err := c.request(ctx, http.MethodPost, "/api/validate-blocks", req, validation.SchemaValidationResponse, &out); err != nil {
		return nil, err
	}
	if out.Errors == nil {
		out.Errors = []adapters.ValidationError{}
	}
	return &out, nil
}

// Templates calls GET /api/templates.
func (c *Client) Templates(ctx context.Context) ([]adapters.Template, error) {
	var out []adapters.Template
	if err := c.request(ctx, http.MethodGet, "/api/templates", nil, validation.SchemaTemplatesResponse, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Preview calls POST /api/preview.
func (c *Client) Preview(ctx context.Context, req RenderRequest) (*RenderResponse, error) {
	var out RenderResponse
	if err := c.request(ctx, http.MethodPost, "/api/preview", req, validation.SchemaRenderResponse, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes GET /api/health once with the fixed health timeout.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()
	var out HealthResponse
	if err := c.once(ctx, http.MethodGet, "/api/health", nil, validation.SchemaHealthResponse, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// request retries 5xx and transport failures with capped exponential
// backoff. 4xx answers and contract violations are returned at once.
func (c *Client) request(ctx context.Context, method, path string, body any, schema validation.Schema, out any) error {
	backoff := retry.WithMaxRetries(uint64(c.attempts-1), retry.WithCappedDuration(c.maxDelay, retry.NewExponential(c.baseDelay)))

	attempt := 0
	var lastErr error
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		err := c.once(callCtx, method, path, body, schema, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var clientErr *ClientError
		if errors.As(err, &clientErr) && clientErr.clientSide() {
			return err
		}
		if errors.Is(err, validation.ErrSchemaValidation) {
			return err
		}
		if attempt < c.attempts {
			c.logger.Warn("page builder request failed, retrying",
				"path", path, "attempt", attempt, "attempts", c.attempts, "error", err)
		}
		return retry.RetryableError(err)
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) && clientErr.clientSide() {
		return err
	}
	if errors.Is(err, validation.ErrSchemaValidation) {
		return err
	}
	if lastErr == nil {
		lastErr = err
	}
	return goerrors.Wrap(lastErr, goerrors.CategoryExternal,
		fmt.Sprintf("Request failed after %d attempts: %s", attempt, lastErr.Error())).
		WithTextCode(apperrors.CodeRetryExhausted)
}

func (c *Client) once(ctx context.Context, method, path string, body any, schema validation.Schema, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote: build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("remote: read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		clientErr := &ClientError{Status: resp.StatusCode, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
		var payload struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			if payload.Message != "" {
				clientErr.Message = payload.Message
			}
			clientErr.Code = payload.Code
		}
		return clientErr
	}

	if err := validation.ValidateJSON(schema, raw); err != nil {
		return fmt.Errorf("remote: %s response: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", path, err)
	}
	return nil
}
