package opsapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/opsapi/internal/constants"
)

// ErrorKind identifies which class of API failure an APIError represents.
type ErrorKind int

// Error kinds. Exactly one is chosen for every classified response.
const (
	KindGeneric ErrorKind = iota
	KindBadRequest
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindRateLimited
	KindServerError
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	case KindAuthentication:
		return "Authentication"
	case KindAuthorization:
		return "Authorization"
	case KindNotFound:
		return "NotFound"
	case KindRateLimited:
		return "RateLimited"
	case KindServerError:
		return "ServerError"
	default:
		return "Generic"
	}
}

// Sentinels matched by errors.Is against an *APIError of the corresponding kind.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("authentication failed")
	ErrForbidden     = errors.New("access denied")
	ErrNotFound      = errors.New("resource not found")
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrServerError   = errors.New("server error")
	ErrRequestFailed = errors.New("request failed")
)

var kindSentinels = map[ErrorKind]error{
	KindGeneric:        ErrRequestFailed,
	KindBadRequest:     ErrBadRequest,
	KindAuthentication: ErrUnauthorized,
	KindAuthorization:  ErrForbidden,
	KindNotFound:       ErrNotFound,
	KindRateLimited:    ErrRateLimited,
	KindServerError:    ErrServerError,
}

var kindPrefixes = map[ErrorKind]string{
	KindBadRequest:     "Bad request: ",
	KindAuthentication: "Authentication failed: ",
	KindAuthorization:  "Access denied: ",
	KindNotFound:       "Resource not found: ",
	KindRateLimited:    "Rate limit exceeded: ",
	KindServerError:    "Server error: ",
}

// APIError is the typed error returned for every non-2xx response.
type APIError struct {
	Kind          ErrorKind              `json:"kind"`
	StatusCode    int                    `json:"status_code"`
	ErrorCode     string                 `json:"error_code,omitempty"`
	Message       string                 `json:"message"`
	Details       map[string]interface{} `json:"details,omitempty"`
	RequestURL    string                 `json:"request_url,omitempty"`
	RequestMethod string                 `json:"request_method,omitempty"`

	// ValidationErrors is populated for KindBadRequest.
	ValidationErrors []string `json:"validation_errors,omitempty"`
	// ResourceType and ResourceID are populated for KindNotFound when the URL allows it.
	ResourceType string `json:"resource_type,omitempty"`
	ResourceID   string `json:"resource_id,omitempty"`
	// RetryAfterSeconds is populated for KindRateLimited when the server sent Retry-After.
	RetryAfterSeconds *int `json:"retry_after_seconds,omitempty"`

	// Cause is the lower-level error the classification was derived from, if any.
	Cause error `json:"-"`
}

// NewAPIError creates an APIError of the given kind. The message is prefixed with
// a short description of the kind.
func NewAPIError(kind ErrorKind, statusCode int, message string) *APIError {
	return &APIError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    kindPrefixes[kind] + message,
		Details:    map[string]interface{}{},
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("%s (status: %d, code: %s)", e.Message, e.StatusCode, e.ErrorCode)
	}

	return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
}

// Unwrap returns the recorded cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel of the error's kind.
func (e *APIError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]

	return ok && target == sentinel
}

// AsAPIError returns the *APIError in err's chain, or nil.
func AsAPIError(err error) *APIError {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return nil
}

// IsBadRequest checks if the error is a bad request error.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited checks if the error is a rate limit error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsServerError checks if the error is a 5xx error.
func IsServerError(err error) bool {
	return errors.Is(err, ErrServerError)
}

// ErrorBody holds what could be extracted from an error response body.
type ErrorBody struct {
	// Message is the body's "message" field.
	Message string
	// ErrorCode is the body's "error" field.
	ErrorCode string
	// ValidationErrors are the string entries of the body's "errors" array.
	ValidationErrors []string
	// Details holds every top-level property, or only "rawContent" when the body
	// is not a JSON object.
	Details map[string]interface{}
	// Parsed reports whether the body was a JSON object.
	Parsed bool
}

// ParseErrorBody extracts message, error code, validation errors and a flat
// details map from a response body. It never fails: a body that is not a JSON
// object yields a single "rawContent" detail holding the body text.
func ParseErrorBody(data []byte) ErrorBody {
	var properties map[string]json.RawMessage

	err := json.Unmarshal(data, &properties)
	if err != nil || properties == nil {
		return ErrorBody{
			Details: map[string]interface{}{constants.DetailRawContent: string(data)},
		}
	}

	body := ErrorBody{
		Details: make(map[string]interface{}, len(properties)),
		Parsed:  true,
	}

	for key, raw := range properties {
		body.Details[key] = flattenJSONValue(raw)
	}

	if message, ok := body.Details["message"].(string); ok {
		body.Message = message
	}

	if code, ok := body.Details["error"].(string); ok {
		body.ErrorCode = code
	}

	if raw, ok := properties["errors"]; ok {
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) == nil {
			for _, item := range items {
				var text string
				if json.Unmarshal(item, &text) == nil {
					body.ValidationErrors = append(body.ValidationErrors, text)
				}
			}
		}
	}

	return body
}

// flattenJSONValue turns a raw JSON value into a Go scalar. Integers become
// int64 when exact, other numbers float64; objects and arrays stay raw text.
func flattenJSONValue(raw json.RawMessage) interface{} {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var text string
		if json.Unmarshal(trimmed, &text) == nil {
			return text
		}
	case 't', 'f':
		var flag bool
		if json.Unmarshal(trimmed, &flag) == nil {
			return flag
		}
	case 'n':
		return nil
	case '{', '[':
		return string(trimmed)
	default:
		if n, err := strconv.ParseInt(string(trimmed), 10, 64); err == nil {
			return n
		}

		if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil {
			return f
		}
	}

	return string(trimmed)
}
