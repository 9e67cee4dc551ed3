// Package api is a client for the automationexercise REST API. The API
// answers every request with HTTP 200 and reports the outcome in the
// responseCode field of a JSON body.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/time/rate"
)

// ErrUnexpectedResponse is returned by Response.Expect.
var ErrUnexpectedResponse = errors.New("unexpected API response")

// Client sends form-encoded requests to the API.
type Client interface {
	Get(ctx context.Context, endpoint string, params url.Values) (*Response, error)
	Post(ctx context.Context, endpoint string, form url.Values) (*Response, error)
	Put(ctx context.Context, endpoint string, form url.Values) (*Response, error)
	Delete(ctx context.Context, endpoint string, form url.Values) (*Response, error)
}

// Response is an API reply. ResponseCode and Message are zero when the body
// is not a JSON envelope.
type Response struct {
	StatusCode   int
	ResponseCode int
	Message      string
	Body         []byte
}

// HasResponseCode reports whether the body carried a responseCode.
func (r *Response) HasResponseCode() bool {
	return r.ResponseCode != 0
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Expect returns ErrUnexpectedResponse unless responseCode is one of codes.
func (r *Response) Expect(codes ...int) error {
	for _, c := range codes {
		if r.ResponseCode == c {
			return nil
		}
	}
	return fmt.Errorf("%w: responseCode %d (HTTP %d): %s", ErrUnexpectedResponse, r.ResponseCode, r.StatusCode, r.Message)
}

type envelope struct {
	ResponseCode int    `json:"responseCode"`
	Message      string `json:"message"`
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithRateLimit caps requests per second. Zero or less disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *HTTPClient) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger logs every request, response and transport error to logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *HTTPClient) { c.logger = logger }
}

// NewHTTPClient creates a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		logger:     &log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get implements Client
func (c *HTTPClient) Get(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, endpoint, params)
}

// Post implements Client
func (c *HTTPClient) Post(ctx context.Context, endpoint string, form url.Values) (*Response, error) {
	return c.do(ctx, http.MethodPost, endpoint, form)
}

// Put implements Client
func (c *HTTPClient) Put(ctx context.Context, endpoint string, form url.Values) (*Response, error) {
	return c.do(ctx, http.MethodPut, endpoint, form)
}

// Delete implements Client
func (c *HTTPClient) Delete(ctx context.Context, endpoint string, form url.Values) (*Response, error) {
	return c.do(ctx, http.MethodDelete, endpoint, form)
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, values url.Values) (*Response, error) {
	apiURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	var body io.Reader
	if method == http.MethodGet {
		if len(values) > 0 {
			apiURL += "?" + values.Encode()
		}
	} else if values != nil {
		body = strings.NewReader(values.Encode())
	}

	c.logger.Info().
		Str("method", method).
		Str("url", apiURL).
		Str("data", redact(values).Encode()).
		Msg("API request")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("url", apiURL).Msg("API error")
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("url", apiURL).Msg("API error")
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	result := &Response{StatusCode: resp.StatusCode, Body: raw}
	var env envelope
	if json.Unmarshal(raw, &env) == nil {
		result.ResponseCode = env.ResponseCode
		result.Message = env.Message
	}

	c.logger.Info().
		Str("url", apiURL).
		Int("status_code", resp.StatusCode).
		Int("response_code", result.ResponseCode).
		Str("api_message", result.Message).
		Dur("duration", time.Since(start)).
		Msg("API response")
	c.logger.Debug().Str("url", apiURL).Bytes("body", raw).Msg("API response body")

	return result, nil
}

// redact hides passwords from logged form data.
func redact(values url.Values) url.Values {
	if values.Get("password") == "" {
		return values
	}
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = v
	}
	out.Set("password", "********")
	return out
}
