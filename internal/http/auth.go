package http

import (
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/opsapi/internal/auth"
	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
)

// AuthStage sets "Authorization: Bearer <token>" on a copy of each request.
// Requests pass through unchanged when there is no token manager or the token
// is empty. A token failure stops the request and is reported as
// constants.ErrTokenUnavailable.
func AuthStage(tokenManager auth.TokenManager, logger opsapi.Logger) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if tokenManager == nil {
				return next.RoundTrip(req)
			}

			token, err := tokenManager.GetToken(req.Context())
			if err != nil {
				return nil, fmt.Errorf("%w: %w", constants.ErrTokenUnavailable, err)
			}

			if token == "" {
				return next.RoundTrip(req)
			}

			authed := req.Clone(req.Context())
			authed.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)

			logger.Debug("Attaching bearer token", map[string]interface{}{
				"method": req.Method,
				"url":    req.URL.Redacted(),
			})

			return next.RoundTrip(authed)
		})
	}
}
