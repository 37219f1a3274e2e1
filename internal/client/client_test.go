package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/opsapi/internal/auth"
	. "github.com/fivetwenty-io/opsapi/internal/client"
	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/fivetwenty-io/opsapi/pkg/psa"
)

var (
	_ netmon.Client = (*MonitoringClient)(nil)
	_ psa.Client    = (*HelpdeskClient)(nil)
)

func testConfig(endpoint string) *opsapi.Config {
	config := opsapi.DefaultConfig()
	config.APIEndpoint = endpoint
	config.MaxAttempts = 0

	return config
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNewMonitoring(t *testing.T) {
	t.Parallel()

	t.Run("requires API endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := NewMonitoring(testConfig(""), nil)
		require.ErrorIs(t, err, opsapi.ErrAPIEndpointRequired)
	})

	t.Run("rejects nil config", func(t *testing.T) {
		t.Parallel()

		_, err := NewHelpdesk(nil, nil)
		require.ErrorIs(t, err, opsapi.ErrConfigRequired)
	})

	t.Run("rejects incomplete client credentials", func(t *testing.T) {
		t.Parallel()

		config := testConfig("https://api.example.com")
		config.ClientID = "client-id"

		_, err := NewHelpdesk(config, nil)
		require.ErrorIs(t, err, constants.ErrIncompleteOAuth2Config)
	})

	t.Run("sends the static bearer token", func(t *testing.T) {
		t.Parallel()

		var authorization atomic.Value

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authorization.Store(request.Header.Get("Authorization"))
			_, _ = writer.Write([]byte(`{"tests":[]}`))
		}))
		defer server.Close()

		config := testConfig(server.URL)
		config.BearerToken = "abc.def-123"

		client, err := NewMonitoring(config, nil)
		require.NoError(t, err)

		_, err = client.Tests().List(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc.def-123", authorization.Load())

		token, err := client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "abc.def-123", token)
	})

	t.Run("anonymous without credentials", func(t *testing.T) {
		t.Parallel()

		client, err := NewMonitoring(testConfig("https://api.example.com"), nil)
		require.NoError(t, err)

		_, err = client.GetToken(context.Background())
		require.ErrorIs(t, err, constants.ErrNoTokenManagerConfigured)
	})

	t.Run("custom token manager wins", func(t *testing.T) {
		t.Parallel()

		config := testConfig("https://api.example.com")
		config.BearerToken = "ignored"

		client, err := NewMonitoring(config, auth.NewStaticTokenManager("chosen"))
		require.NoError(t, err)

		token, err := client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "chosen", token)
	})

	t.Run("stages follow the configuration", func(t *testing.T) {
		t.Parallel()

		quiet, err := NewMonitoring(testConfig("https://api.example.com"), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"transport", "auth", "classify"}, quiet.Stages())

		config := opsapi.DefaultConfig()
		config.APIEndpoint = "https://api.example.com"
		config.EnableResponseLogging = true

		loud, err := NewHelpdesk(config, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"transport", "auth", "retry", "logging", "classify"}, loud.Stages())
	})
}

func TestNewHelpdesk_OAuth2(t *testing.T) {
	t.Parallel()

	var tokenRequests atomic.Int32

	tokenServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		tokenRequests.Add(1)

		user, pass, ok := request.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"access_token": "issued-token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	}))
	defer tokenServer.Close()

	var authorization atomic.Value

	apiServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		authorization.Store(request.Header.Get("Authorization"))
		assert.Equal(t, "/api/Tickets/42", request.URL.Path)
		_, _ = writer.Write([]byte(`{"id":42,"summary":"Printer offline"}`))
	}))
	defer apiServer.Close()

	config := testConfig(apiServer.URL)
	config.ClientID = "client-id"
	config.ClientSecret = "client-secret"
	config.TokenURL = tokenServer.URL
	config.RequestTimeout = 5 * time.Second

	client, err := NewHelpdesk(config, nil)
	require.NoError(t, err)

	for range 3 {
		ticket, err := client.Tickets().Get(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, "Printer offline", ticket.Summary)
	}

	assert.Equal(t, "Bearer issued-token", authorization.Load())
	assert.Equal(t, int32(1), tokenRequests.Load(), "token is cached")
}

func TestMonitoringClient_Do(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v7/tests/281/results", request.URL.Path)
		assert.Equal(t, "from=2024-01-01", request.URL.RawQuery)
		writer.Header().Set("Retry-After", "9")
		writer.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewMonitoring(testConfig(server.URL+"/"), nil)
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &opsapi.Request{
		Method: http.MethodGet,
		Path:   "/v7/tests/281/results",
		Query:  opsapi.NewQueryParams().Add("from", "2024-01-01"),
	})
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.True(t, opsapi.IsRateLimited(err))

	apiErr := opsapi.AsAPIError(err)
	require.NotNil(t, apiErr)
	require.NotNil(t, apiErr.RetryAfterSeconds)
	assert.Equal(t, 9, *apiErr.RetryAfterSeconds)
}

func TestAccessors(t *testing.T) {
	t.Parallel()

	monitoring, err := NewMonitoring(testConfig("https://api.example.com"), nil)
	require.NoError(t, err)

	assert.NotNil(t, monitoring.Tests())
	assert.NotNil(t, monitoring.Alerts())
	assert.NotNil(t, monitoring.Dashboards())
	assert.NotNil(t, monitoring.Tags())
	assert.NotNil(t, monitoring.Agents())
	assert.NotNil(t, monitoring.Templates())

	helpdesk, err := NewHelpdesk(testConfig("https://helpdesk.example.com"), nil)
	require.NoError(t, err)

	assert.NotNil(t, helpdesk.Tickets())
	assert.NotNil(t, helpdesk.Actions())
	assert.NotNil(t, helpdesk.Customers())
	assert.NotNil(t, helpdesk.Agents())
}
