package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultRequestTimeout bounds a single logical call, retries included.
	DefaultRequestTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as token fetches.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry defaults.
const (
	// DefaultMaxAttempts is the default number of retries after the first attempt.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the delay before the first retry.
	DefaultBaseDelay = 1 * time.Second

	// DefaultMaxDelay caps the backoff between retries.
	DefaultMaxDelay = 30 * time.Second

	// MaxBackoffExponent bounds the doubling so the delay arithmetic cannot overflow.
	MaxBackoffExponent = 62
)

// HTTP header names and values.
const (
	HeaderAuthorization = "Authorization"
	HeaderAccept        = "Accept"
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"
	HeaderRetryAfter    = "Retry-After"

	// BearerPrefix precedes the credential in the Authorization header.
	BearerPrefix = "Bearer "

	// MediaTypeJSON is the content type sent and accepted by both APIs.
	MediaTypeJSON = "application/json"

	// DefaultUserAgent is sent when the caller does not override it.
	DefaultUserAgent = "opsapi-go"
)

// Logging.
const (
	// CorrelationIDLength is the number of characters kept from a generated UUID.
	CorrelationIDLength = 8

	// EnvLogLevel selects the default logger level.
	EnvLogLevel = "OPSAPI_LOG_LEVEL"
)

// Metrics.
const (
	// MetricsNamespace prefixes every exported metric.
	MetricsNamespace = "opsapi"
)

// Error detail keys.
const (
	// DetailRawContent holds the response body when it is not a JSON object.
	DetailRawContent = "rawContent"
)

// API path roots.
const (
	// MonitoringAPIRoot is the versioned root of the monitoring API.
	MonitoringAPIRoot = "/v7"

	// HelpdeskAPIRoot is the root of the helpdesk API.
	HelpdeskAPIRoot = "/api"
)

// Pagination and display limits.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 50

	// DefaultJSONIndent is used for pretty-printed CLI output.
	DefaultJSONIndent = 2
)

// Format constants.
const (
	// FormatJSON is the JSON output format.
	FormatJSON = "json"

	// FormatYAML is the YAML output format.
	FormatYAML = "yaml"

	// FormatTable is the default tabular output format.
	FormatTable = "table"
)

// Log format constants.
const (
	// LogFormatConsole renders colourised human-readable log lines.
	LogFormatConsole = "console"

	// LogFormatJSON renders one JSON object per log line.
	LogFormatJSON = "json"
)

// API names used by the CLI and configuration.
const (
	APIMonitoring = "monitoring"
	APIHelpdesk   = "helpdesk"
)

// Display constants.
const (
	// NotAvailable is printed for empty values.
	NotAvailable = "N/A"

	// MaskedSecret replaces credentials in displayed configuration.
	MaskedSecret = "***"
)
