package opsapi

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/prometheus/client_golang/prometheus"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired         = errors.New("config is required")
	ErrAPIEndpointRequired    = errors.New("API endpoint is required")
	ErrNegativeMaxAttempts    = errors.New("max attempts must not be negative")
	ErrNegativeBaseDelay      = errors.New("base delay must not be negative")
	ErrMaxDelayBelowBaseDelay = errors.New("max delay must not be lower than base delay")
	ErrInvalidRequestTimeout  = errors.New("request timeout must be positive")
	ErrMalformedBearerToken   = errors.New("bearer token is malformed")
)

// bearerTokenPattern is the b64token grammar of RFC 6750 section 2.1.
var bearerTokenPattern = regexp.MustCompile(`^[A-Za-z0-9\-._~+/]+=*$`)

// Config represents client configuration for building a monitoring or helpdesk client.
//
// # Authentication precedence
//
//  1. ClientID/ClientSecret/TokenURL: bearer tokens are obtained with the OAuth2
//     client_credentials grant and cached until shortly before they expire.
//  2. BearerToken: sent verbatim as "Authorization: Bearer <token>".
//  3. Neither: requests are sent without an Authorization header.
//
// # Retries
//
// MaxAttempts is the number of retries after the first attempt; zero disables the
// retry stage entirely. The delay before retry n (0-based) is BaseDelay, doubled n
// times when UseExponentialBackoff is set, and never more than MaxDelay.
//
// Start from DefaultConfig: a zero Config is rejected by Validate because its
// RequestTimeout is zero.
type Config struct {
	// APIEndpoint: base URL of the API (e.g., "https://api.example.com").
	// A trailing slash is trimmed and "https://" is added when no scheme is present.
	APIEndpoint string

	// BearerToken: static credential for the Authorization header.
	BearerToken string
	// ClientID: OAuth2 client ID for the client_credentials grant.
	ClientID string
	// ClientSecret: OAuth2 client secret used with ClientID.
	ClientSecret string
	// TokenURL: full OAuth2 token endpoint.
	TokenURL string
	// Scopes: optional OAuth2 scopes requested with the client_credentials grant.
	Scopes []string

	// MaxAttempts: retries after the first attempt for retryable failures.
	MaxAttempts int
	// BaseDelay: delay before the first retry.
	BaseDelay time.Duration
	// UseExponentialBackoff: double the delay on each retry up to MaxDelay.
	UseExponentialBackoff bool
	// MaxDelay: upper bound for a single retry delay.
	MaxDelay time.Duration

	// EnableRequestLogging: log each outgoing logical request.
	EnableRequestLogging bool
	// EnableResponseLogging: log each response with its status and elapsed time.
	EnableResponseLogging bool
	// Logger: structured logger; DefaultLogger() is used when logging is enabled and Logger is nil.
	Logger Logger

	// RequestTimeout: bound for one logical call including all retries and delays.
	RequestTimeout time.Duration
	// UserAgent: overrides the default User-Agent header.
	UserAgent string

	// MetricsRegisterer: when set, per-attempt transport metrics are registered here.
	MetricsRegisterer prometheus.Registerer
	// Transport: optional base transport; a pooled transport is used when nil.
	Transport http.RoundTripper
}

// DefaultConfig returns a configuration populated with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:           constants.DefaultMaxAttempts,
		BaseDelay:             constants.DefaultBaseDelay,
		UseExponentialBackoff: true,
		MaxDelay:              constants.DefaultMaxDelay,
		RequestTimeout:        constants.DefaultRequestTimeout,
	}
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	if c.APIEndpoint == "" {
		return ErrAPIEndpointRequired
	}

	if c.MaxAttempts < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeMaxAttempts, c.MaxAttempts)
	}

	if c.BaseDelay < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeBaseDelay, c.BaseDelay)
	}

	if c.MaxDelay < c.BaseDelay {
		return fmt.Errorf("%w: max %s, base %s", ErrMaxDelayBelowBaseDelay, c.MaxDelay, c.BaseDelay)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequestTimeout, c.RequestTimeout)
	}

	if c.BearerToken != "" && !IsValidBearerToken(c.BearerToken) {
		return ErrMalformedBearerToken
	}

	return nil
}

// IsValidBearerToken reports whether token matches the RFC 6750 b64token grammar.
func IsValidBearerToken(token string) bool {
	return bearerTokenPattern.MatchString(token)
}

// UsesOAuth2 reports whether the client_credentials grant is configured.
func (c *Config) UsesOAuth2() bool {
	return c.ClientID != "" || c.ClientSecret != "" || c.TokenURL != ""
}
