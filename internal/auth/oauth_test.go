package auth_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/auth"
	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, expiresIn int) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/token", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		err := r.ParseForm()
		assert.NoError(t, err)
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))

		n := calls.Add(1)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": fmt.Sprintf("token-%d", n),
			"token_type":   "bearer",
			"expires_in":   expiresIn,
		})
	}))
	t.Cleanup(server.Close)

	return server, &calls
}

func TestNewOAuth2TokenManager_Incomplete(t *testing.T) {
	t.Parallel()

	_, err := auth.NewOAuth2TokenManager(nil)
	require.ErrorIs(t, err, constants.ErrIncompleteOAuth2Config)

	_, err = auth.NewOAuth2TokenManager(&auth.OAuth2Config{TokenURL: "https://id.example.com/token", ClientID: "id"})
	require.ErrorIs(t, err, constants.ErrIncompleteOAuth2Config)
}

func TestOAuth2TokenManager_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("fetches and caches token", func(t *testing.T) {
		t.Parallel()

		server, calls := newTokenServer(t, 3600)

		manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL:     server.URL + "/oauth/token",
			ClientID:     "client",
			ClientSecret: "secret",
			Scopes:       []string{"all"},
		})
		require.NoError(t, err)

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-1", token)

		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-1", token)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("uses seeded token until expiry", func(t *testing.T) {
		t.Parallel()

		server, calls := newTokenServer(t, 3600)

		manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL:     server.URL + "/oauth/token",
			ClientID:     "client",
			ClientSecret: "secret",
		})
		require.NoError(t, err)

		manager.SetToken("seeded", time.Now().Add(time.Hour))

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "seeded", token)
		assert.Equal(t, int32(0), calls.Load())

		manager.SetToken("stale", time.Now().Add(-time.Hour))

		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-1", token)
	})

	t.Run("refresh replaces cached token", func(t *testing.T) {
		t.Parallel()

		server, _ := newTokenServer(t, 3600)

		manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL:     server.URL + "/oauth/token",
			ClientID:     "client",
			ClientSecret: "secret",
		})
		require.NoError(t, err)

		_, err = manager.GetToken(context.Background())
		require.NoError(t, err)

		require.NoError(t, manager.RefreshToken(context.Background()))

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-2", token)
	})

	t.Run("token endpoint failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
		}))
		defer server.Close()

		manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL:     server.URL,
			ClientID:     "client",
			ClientSecret: "wrong",
		})
		require.NoError(t, err)

		_, err = manager.GetToken(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting OAuth2 token")
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL:     "http://127.0.0.1:1/token",
			ClientID:     "client",
			ClientSecret: "secret",
		})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = manager.GetToken(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

type recordingPersister struct {
	api       string
	token     string
	expiresAt time.Time
	calls     int
}

func (p *recordingPersister) UpdateAPIToken(api, token string, expiresAt time.Time) error {
	p.api = api
	p.token = token
	p.expiresAt = expiresAt
	p.calls++

	return nil
}

func TestConfigTokenManager(t *testing.T) {
	t.Parallel()

	server, _ := newTokenServer(t, 3600)

	manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		TokenURL:     server.URL + "/oauth/token",
		ClientID:     "client",
		ClientSecret: "secret",
	})
	require.NoError(t, err)

	persister := &recordingPersister{}
	configManager := auth.NewConfigTokenManager(manager, persister, constants.APIHelpdesk, "", time.Time{})

	token, err := configManager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, 1, persister.calls)
	assert.Equal(t, constants.APIHelpdesk, persister.api)
	assert.Equal(t, "token-1", persister.token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), persister.expiresAt, time.Minute)

	_, err = configManager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, persister.calls, "unchanged token is not persisted again")

	require.NoError(t, configManager.RefreshToken(context.Background()))
	assert.Equal(t, 2, persister.calls)
	assert.Equal(t, "token-2", persister.token)
	assert.Equal(t, persister.expiresAt, configManager.GetTokenExpiry())
}

func TestConfigTokenManager_SeededTokenNotPersisted(t *testing.T) {
	t.Parallel()

	server, calls := newTokenServer(t, 3600)

	manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		TokenURL:     server.URL + "/oauth/token",
		ClientID:     "client",
		ClientSecret: "secret",
	})
	require.NoError(t, err)

	persister := &recordingPersister{}
	expiry := time.Now().Add(time.Hour)
	configManager := auth.NewConfigTokenManager(manager, persister, constants.APIHelpdesk, "saved", expiry)

	token, err := configManager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "saved", token)
	assert.Equal(t, 0, persister.calls)
	assert.Equal(t, int32(0), calls.Load())
}
