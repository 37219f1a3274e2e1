package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/google/uuid"
)

// LoggingStage records each call without changing its outcome. Every call gets
// its own correlation id.
func LoggingStage(logger opsapi.Logger, logRequests, logResponses bool) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			correlationID := uuid.NewString()[:constants.CorrelationIDLength]
			target := req.URL.Redacted()

			if logRequests {
				logger.Info("HTTP Request", map[string]interface{}{
					"correlation_id": correlationID,
					"method":         req.Method,
					"url":            target,
				})
				logger.Debug("HTTP Request Headers", map[string]interface{}{
					"correlation_id": correlationID,
					"headers":        redactHeaders(req.Header),
				})
			}

			start := time.Now()
			resp, err := next.RoundTrip(req)
			elapsed := time.Since(start)

			if err != nil {
				logger.Error("HTTP Request Failed", map[string]interface{}{
					"correlation_id": correlationID,
					"method":         req.Method,
					"url":            target,
					"error":          err.Error(),
					"elapsed_ms":     elapsed.Milliseconds(),
				})

				return resp, err
			}

			if !logResponses {
				return resp, nil
			}

			fields := map[string]interface{}{
				"correlation_id": correlationID,
				"status":         resp.StatusCode,
				"reason":         reasonPhrase(resp.StatusCode, resp.Status),
				"elapsed_ms":     elapsed.Milliseconds(),
			}

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				logger.Info("HTTP Response", fields)
			} else {
				logger.Warn("HTTP Response", fields)
				logger.Debug("HTTP Response Headers", map[string]interface{}{
					"correlation_id": correlationID,
					"headers":        redactHeaders(resp.Header),
				})
			}

			return resp, nil
		})
	}
}

func redactHeaders(header http.Header) map[string]string {
	redacted := make(map[string]string, len(header))

	for name, values := range header {
		if strings.EqualFold(name, constants.HeaderAuthorization) {
			redacted[name] = constants.MaskedSecret

			continue
		}

		redacted[name] = strings.Join(values, ", ")
	}

	return redacted
}
