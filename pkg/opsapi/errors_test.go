package opsapi_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	err := opsapi.NewAPIError(opsapi.KindNotFound, 404, "ticket not found")
	assert.Equal(t, "Resource not found: ticket not found (status: 404)", err.Error())

	err.ErrorCode = "not_found"
	assert.Equal(t, "Resource not found: ticket not found (status: 404, code: not_found)", err.Error())

	generic := opsapi.NewAPIError(opsapi.KindGeneric, 409, "conflict")
	assert.Equal(t, "conflict (status: 409)", generic.Error())
	assert.NotNil(t, generic.Details)
}

func TestAPIError_Is(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     opsapi.ErrorKind
		sentinel error
		check    func(error) bool
	}{
		{opsapi.KindBadRequest, opsapi.ErrBadRequest, opsapi.IsBadRequest},
		{opsapi.KindAuthentication, opsapi.ErrUnauthorized, opsapi.IsUnauthorized},
		{opsapi.KindAuthorization, opsapi.ErrForbidden, opsapi.IsForbidden},
		{opsapi.KindNotFound, opsapi.ErrNotFound, opsapi.IsNotFound},
		{opsapi.KindRateLimited, opsapi.ErrRateLimited, opsapi.IsRateLimited},
		{opsapi.KindServerError, opsapi.ErrServerError, opsapi.IsServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("listing tickets: %w", opsapi.NewAPIError(tt.kind, 0, "x"))
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.True(t, tt.check(wrapped))
			assert.NotErrorIs(t, wrapped, opsapi.ErrRequestFailed)

			for _, other := range tests {
				if other.kind != tt.kind {
					assert.False(t, other.check(wrapped), other.kind.String())
				}
			}
		})
	}

	generic := opsapi.NewAPIError(opsapi.KindGeneric, 418, "teapot")
	assert.ErrorIs(t, generic, opsapi.ErrRequestFailed)
}

func TestAPIError_UnwrapCause(t *testing.T) {
	t.Parallel()

	apiErr := opsapi.NewAPIError(opsapi.KindServerError, 502, "bad gateway")
	apiErr.Cause = io.ErrUnexpectedEOF

	assert.ErrorIs(t, apiErr, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, apiErr, opsapi.ErrServerError)
}

func TestAsAPIError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, opsapi.AsAPIError(errors.New("plain")))
	assert.Nil(t, opsapi.AsAPIError(nil))

	apiErr := opsapi.NewAPIError(opsapi.KindRateLimited, 429, "slow down")
	found := opsapi.AsAPIError(fmt.Errorf("wrapped: %w", apiErr))
	require.NotNil(t, found)
	assert.Same(t, apiErr, found)
}

func TestErrorKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Generic", opsapi.KindGeneric.String())
	assert.Equal(t, "NotFound", opsapi.KindNotFound.String())
	assert.Equal(t, "Generic", opsapi.ErrorKind(99).String())
}

func TestParseErrorBody(t *testing.T) {
	t.Parallel()

	t.Run("object", func(t *testing.T) {
		t.Parallel()

		body := opsapi.ParseErrorBody([]byte(`{"message":"m","error":"e","errors":["a","b"],"n":12345678901,"f":1.25,"big":1e400,"ok":true,"meta":{"field":"name","limits":[1,2]},"none":null}`))
		assert.True(t, body.Parsed)
		assert.Equal(t, "m", body.Message)
		assert.Equal(t, "e", body.ErrorCode)
		assert.Equal(t, []string{"a", "b"}, body.ValidationErrors)
		assert.Equal(t, int64(12345678901), body.Details["n"])
		assert.InDelta(t, 1.25, body.Details["f"], 0)
		assert.Equal(t, true, body.Details["ok"])
		assert.Equal(t, `["a","b"]`, body.Details["errors"])
		assert.Equal(t, `{"field":"name","limits":[1,2]}`, body.Details["meta"])
		assert.Contains(t, body.Details, "none")
		assert.Nil(t, body.Details["none"])
		assert.Len(t, body.Details, 9)
	})

	t.Run("non-string message is ignored", func(t *testing.T) {
		t.Parallel()

		body := opsapi.ParseErrorBody([]byte(`{"message":42,"errors":"not an array"}`))
		assert.Empty(t, body.Message)
		assert.Empty(t, body.ValidationErrors)
		assert.Equal(t, int64(42), body.Details["message"])
	})

	for _, raw := range []string{"", "plain text", "[1,2,3]", "null", `"just a string"`, "{broken"} {
		t.Run("raw "+raw, func(t *testing.T) {
			t.Parallel()

			body := opsapi.ParseErrorBody([]byte(raw))
			assert.False(t, body.Parsed)
			assert.Equal(t, map[string]interface{}{"rawContent": raw}, body.Details)
			assert.Empty(t, body.Message)
		})
	}
}
