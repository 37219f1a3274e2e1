package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/auth"
	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/prometheus/client_golang/prometheus"
)

// Request and Response are the logical request and buffered response types.
type (
	Request  = opsapi.Request
	Response = opsapi.Response
)

// Client sends logical requests to one API endpoint through a Pipeline.
type Client struct {
	baseURL        string
	userAgent      string
	requestTimeout time.Duration
	pipeline       *Pipeline
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	pipeline       PipelineConfig
	userAgent      string
	requestTimeout time.Duration
}

// WithLogger sets the logger used by the logging and retry stages.
func WithLogger(logger opsapi.Logger) Option {
	return func(o *clientOptions) {
		o.pipeline.Logger = logger
	}
}

// WithDebug enables request and response logging. Without WithLogger the
// lines go to opsapi.DefaultLogger.
func WithDebug(debug bool) Option {
	return func(o *clientOptions) {
		o.pipeline.RequestLogging = debug
		o.pipeline.ResponseLogging = debug
	}
}

// WithRequestLogging toggles the request log line.
func WithRequestLogging(enabled bool) Option {
	return func(o *clientOptions) {
		o.pipeline.RequestLogging = enabled
	}
}

// WithResponseLogging toggles the response log line.
func WithResponseLogging(enabled bool) Option {
	return func(o *clientOptions) {
		o.pipeline.ResponseLogging = enabled
	}
}

// WithRetryPolicy replaces the retry policy. MaxAttempts of zero removes the retry stage.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(o *clientOptions) {
		o.pipeline.Retry = policy
	}
}

// WithRetryConfig sets exponential retries between waitMin and waitMax.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return WithRetryPolicy(RetryPolicy{
		MaxAttempts:           maxRetries,
		BaseDelay:             waitMin,
		UseExponentialBackoff: true,
		MaxDelay:              waitMax,
	})
}

// WithExponentialBackoff toggles doubling of the retry delay.
func WithExponentialBackoff(enabled bool) Option {
	return func(o *clientOptions) {
		o.pipeline.Retry.UseExponentialBackoff = enabled
	}
}

// WithTransport replaces the pooled transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.pipeline.Transport = transport
	}
}

// WithMetrics registers transport metrics with registerer.
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(o *clientOptions) {
		o.pipeline.MetricsRegisterer = registerer
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithTimeout bounds each logical call, retries included.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.requestTimeout = timeout
	}
}

// NewClient creates a client for baseURL. tokenManager may be nil.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	options := &clientOptions{
		pipeline: PipelineConfig{
			TokenManager: tokenManager,
			Retry:        DefaultRetryPolicy(),
		},
		userAgent:      constants.DefaultUserAgent,
		requestTimeout: constants.DefaultRequestTimeout,
	}

	for _, opt := range opts {
		opt(options)
	}

	return &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		userAgent:      options.userAgent,
		requestTimeout: options.requestTimeout,
		pipeline:       NewPipeline(options.pipeline),
	}
}

// BaseURL returns the endpoint requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Stages lists the pipeline stages, innermost first.
func (c *Client) Stages() []string {
	return c.pipeline.Stages()
}

// Do sends req. On a non-2xx status the buffered response is returned together
// with an *opsapi.APIError. Transport failures are returned with a nil response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.pipeline.Send(httpReq)
	if httpResp == nil {
		return nil, err
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, readErr := io.ReadAll(httpResp.Body)
	if readErr != nil && err == nil {
		return nil, fmt.Errorf("reading response body: %w", readErr)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     reasonPhrase(httpResp.StatusCode, httpResp.Status),
		Headers:    httpResp.Header,
		Body:       body,
		Request:    req,
	}

	return resp, err
}

func (c *Client) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	if req == nil || req.Method == "" {
		return nil, constants.ErrInvalidMethod
	}

	target := c.baseURL + req.Path
	if query := req.Query.Encode(); query != "" {
		target += "?" + query
	}

	body, isJSON, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set(constants.HeaderAccept, constants.MediaTypeJSON)
	httpReq.Header.Set(constants.HeaderUserAgent, c.userAgent)

	if isJSON {
		httpReq.Header.Set(constants.HeaderContentType, constants.MediaTypeJSON)
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	return httpReq, nil
}

// encodeBody sends []byte and string verbatim and JSON-encodes anything else.
func encodeBody(payload interface{}) (io.Reader, bool, error) {
	switch body := payload.(type) {
	case nil:
		return nil, false, nil
	case []byte:
		return bytes.NewReader(body), true, nil
	case string:
		return strings.NewReader(body), true, nil
	case io.Reader:
		return body, true, nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, false, fmt.Errorf("marshaling request body: %w", err)
		}

		return bytes.NewReader(data), true, nil
	}
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query *opsapi.QueryParams) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post sends a POST request with body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put sends a PUT request with body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch sends a PATCH request with body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}
