package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
)

// Classify turns a non-2xx response into an *opsapi.APIError and returns nil
// for a 2xx response. The body is read and put back so it stays readable.
func Classify(resp *http.Response) *opsapi.APIError {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var (
		data    []byte
		readErr error
	)

	if resp.Body != nil {
		data, readErr = io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(data))
	}

	var requestURL, requestMethod, path string
	if resp.Request != nil {
		requestMethod = resp.Request.Method

		if resp.Request.URL != nil {
			requestURL = resp.Request.URL.Redacted()
			path = resp.Request.URL.Path
		}
	}

	return ClassifyResponse(resp.StatusCode, resp.Status, resp.Header, data, requestMethod, requestURL, path, readErr)
}

// ClassifyResponse builds the APIError for a completed exchange. It is
// deterministic: identical inputs yield identical errors.
func ClassifyResponse(statusCode int, status string, header http.Header, body []byte, requestMethod, requestURL, path string, cause error) *opsapi.APIError {
	parsed := opsapi.ParseErrorBody(body)
	kind := kindForStatus(statusCode)

	message := parsed.Message
	if message == "" {
		message = reasonPhrase(statusCode, status)
	}

	if message == "" {
		message = fmt.Sprintf("request failed with status %d", statusCode)
	}

	apiErr := opsapi.NewAPIError(kind, statusCode, message)
	apiErr.ErrorCode = parsed.ErrorCode
	apiErr.Details = parsed.Details
	apiErr.RequestURL = requestURL
	apiErr.RequestMethod = requestMethod
	apiErr.Cause = cause

	switch kind {
	case opsapi.KindBadRequest:
		apiErr.ValidationErrors = parsed.ValidationErrors
	case opsapi.KindNotFound:
		apiErr.ResourceType, apiErr.ResourceID = resourceFromPath(path)
	case opsapi.KindRateLimited:
		apiErr.RetryAfterSeconds = parseRetryAfter(header.Get(constants.HeaderRetryAfter))
	default:
	}

	return apiErr
}

func kindForStatus(statusCode int) opsapi.ErrorKind {
	switch {
	case statusCode == http.StatusBadRequest:
		return opsapi.KindBadRequest
	case statusCode == http.StatusUnauthorized:
		return opsapi.KindAuthentication
	case statusCode == http.StatusForbidden:
		return opsapi.KindAuthorization
	case statusCode == http.StatusNotFound:
		return opsapi.KindNotFound
	case statusCode == http.StatusTooManyRequests:
		return opsapi.KindRateLimited
	case statusCode >= 500 && statusCode <= 599:
		return opsapi.KindServerError
	default:
		return opsapi.KindGeneric
	}
}

// reasonPhrase strips the code from a "404 Not Found" style status line.
func reasonPhrase(statusCode int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(statusCode)))
	if reason != "" {
		return reason
	}

	return http.StatusText(statusCode)
}

// resourceFromPath reads "{apiRoot}/{resourceType}/{resourceId}" from the end
// of path.
func resourceFromPath(path string) (string, string) {
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segments) < 3 {
		return "", ""
	}

	return segments[len(segments)-2], segments[len(segments)-1]
}

// parseRetryAfter accepts delta-seconds or an HTTP-date. A date is turned into
// the seconds left until it, rounded up; a date already past gives zero.
func parseRetryAfter(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	seconds, err := strconv.Atoi(value)
	if err == nil {
		if seconds < 0 {
			return nil
		}

		return &seconds
	}

	date, err := http.ParseTime(value)
	if err != nil {
		return nil
	}

	seconds = 0
	if wait := time.Until(date); wait > 0 {
		seconds = int((wait + time.Second - 1) / time.Second)
	}

	return &seconds
}
