package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/hashicorp/go-retryablehttp"
)

// RetryPolicy bounds the number of retries and the wait between them.
type RetryPolicy struct {
	// MaxAttempts is the number of retries after the first send. Zero disables retrying.
	MaxAttempts           int
	BaseDelay             time.Duration
	UseExponentialBackoff bool
	MaxDelay              time.Duration
}

// DefaultRetryPolicy returns three exponential retries starting at one second
// and capped at thirty.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:           constants.DefaultMaxAttempts,
		BaseDelay:             constants.DefaultBaseDelay,
		UseExponentialBackoff: true,
		MaxDelay:              constants.DefaultMaxDelay,
	}
}

// Delay returns the wait before retry number attempt (0-based). The result
// never exceeds MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if !p.UseExponentialBackoff || attempt <= 0 {
		return min(p.BaseDelay, p.MaxDelay)
	}

	// Clamp before shifting so large attempts cannot overflow.
	if attempt >= constants.MaxBackoffExponent || p.BaseDelay > p.MaxDelay>>attempt {
		return p.MaxDelay
	}

	return min(p.BaseDelay<<attempt, p.MaxDelay)
}

var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// IsRetryableStatus reports whether a response with this status is worth another attempt.
func IsRetryableStatus(statusCode int) bool {
	return retryableStatuses[statusCode]
}

// IsRetryableError reports whether a transport failure is a connection-level
// problem. Cancellation, token failures, classified API errors and certificate
// failures are not.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, constants.ErrTokenUnavailable) {
		return false
	}

	var apiErr *opsapi.APIError
	if errors.As(err, &apiErr) {
		return false
	}

	if isCertificateError(err) {
		return false
	}

	// url.Error satisfies net.Error itself, so judge what it wraps.
	var urlErr *url.Error
	for errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}

func isCertificateError(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		unknownErr   x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
		recordHdrErr tls.RecordHeaderError
	)

	return errors.As(err, &verifyErr) ||
		errors.As(err, &unknownErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr) ||
		errors.As(err, &recordHdrErr)
}

// checkRetry is the retryablehttp.CheckRetry for policy.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	// A final response stands even if the caller gave up after it arrived.
	if err == nil && !IsRetryableStatus(resp.StatusCode) {
		return false, nil
	}

	ctxErr := ctx.Err()
	if ctxErr != nil {
		return false, ctxErr
	}

	if err != nil {
		return IsRetryableError(err), nil
	}

	return IsRetryableStatus(resp.StatusCode), nil
}

// RetryStage resends the request while the outcome is retryable and retries
// remain. When retries run out the last response is returned untouched and the
// last transport error is returned unwrapped. The wait between attempts is
// abandoned as soon as the request context is done.
func RetryStage(policy RetryPolicy, logger opsapi.Logger) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		client := &retryablehttp.Client{
			HTTPClient: &http.Client{
				Transport: next,
				CheckRedirect: func(*http.Request, []*http.Request) error {
					return http.ErrUseLastResponse
				},
			},
			RetryMax:     policy.MaxAttempts,
			RetryWaitMin: policy.BaseDelay,
			RetryWaitMax: policy.MaxDelay,
			CheckRetry:   checkRetry,
			Backoff: func(_, _ time.Duration, attempt int, _ *http.Response) time.Duration {
				return policy.Delay(attempt)
			},
			ErrorHandler: retryablehttp.PassthroughErrorHandler,
		}

		if logger != nil {
			client.Logger = &leveledLogger{logger: logger}
		}

		return &retryablehttp.RoundTripper{Client: client}
	}
}

// leveledLogger forwards retryablehttp's key/value logging to a Logger.
type leveledLogger struct {
	logger opsapi.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keyValueFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keyValueFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keyValueFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keyValueFields(keysAndValues))
}

func keyValueFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}

		value := keysAndValues[i+1]
		if req, isReq := value.(*http.Request); isReq && req != nil {
			value = req.Method + " " + req.URL.Redacted()
		}

		fields[key] = value
	}

	return fields
}
