package constants

import "errors"

// Configuration errors.
var (
	ErrNoConfigFile       = errors.New("no configuration file in use")
	ErrUnknownAPI         = errors.New("unknown API, expected 'monitoring' or 'helpdesk'")
	ErrNoEndpointForAPI   = errors.New("no endpoint configured for API")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrInvalidOutput      = errors.New("invalid output format")
	ErrTokenRequired      = errors.New("a token is required")
	ErrInvalidBooleanFlag = errors.New("value must be 'true' or 'false'")
)

// Authentication errors.
var (
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrIncompleteOAuth2Config   = errors.New("client ID, client secret and token URL are all required")
	ErrTokenUnavailable         = errors.New("failed to get auth token")
)

// Request errors.
var (
	ErrInvalidMethod     = errors.New("invalid HTTP method")
	ErrResourceIDMissing = errors.New("resource ID is required")
	ErrNothingToCreate   = errors.New("at least one item is required")
	ErrEmptyResult       = errors.New("API returned no items")
)

// Command line errors.
var (
	ErrInvalidQueryParam  = errors.New("query parameter must be key=value")
	ErrInvalidHeader      = errors.New("header must be 'Name: value'")
	ErrInvalidRequestBody = errors.New("invalid request body")
)
