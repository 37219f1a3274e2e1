package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
)

// ConfigPersister stores a freshly obtained token so later runs can reuse it.
type ConfigPersister interface {
	UpdateAPIToken(api, token string, expiresAt time.Time) error
}

// ConfigTokenManager wraps OAuth2TokenManager and persists every new token.
type ConfigTokenManager struct {
	oauth2Manager   *OAuth2TokenManager
	configPersister ConfigPersister
	api             string

	mutex         sync.Mutex
	lastToken     string
	lastExpiresAt time.Time
}

// NewConfigTokenManager creates a persisting token manager. A non-empty
// initialToken seeds the cache so no token request is made until it expires.
func NewConfigTokenManager(oauth2Manager *OAuth2TokenManager, configPersister ConfigPersister, api string, initialToken string, initialExpiry time.Time) *ConfigTokenManager {
	if initialToken != "" {
		oauth2Manager.SetToken(initialToken, initialExpiry)
	}

	return &ConfigTokenManager{
		oauth2Manager:   oauth2Manager,
		configPersister: configPersister,
		api:             api,
		lastToken:       initialToken,
		lastExpiresAt:   initialExpiry,
	}
}

// GetToken returns a valid access token and persists it when it changed.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.oauth2Manager.Token(ctx)
	if err != nil {
		return "", err
	}

	m.persistIfChanged(token.AccessToken, token.Expiry)

	return token.AccessToken, nil
}

// RefreshToken forces a new token and persists it.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	err := m.oauth2Manager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	token, err := m.oauth2Manager.Token(ctx)
	if err != nil {
		return err
	}

	m.persistIfChanged(token.AccessToken, token.Expiry)

	return nil
}

// SetToken seeds the token without persisting it.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.oauth2Manager.SetToken(token, expiresAt)
	m.lastToken = token
	m.lastExpiresAt = expiresAt
}

// GetTokenExpiry returns the expiry of the last token seen.
func (m *ConfigTokenManager) GetTokenExpiry() time.Time {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.lastExpiresAt
}

func (m *ConfigTokenManager) persistIfChanged(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if token == m.lastToken && expiresAt.Equal(m.lastExpiresAt) {
		return
	}

	m.lastToken = token
	m.lastExpiresAt = expiresAt

	err := m.persistToken(token, expiresAt)
	if err != nil {
		// The request still goes ahead with the new token.
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", err)
	}
}

func (m *ConfigTokenManager) persistToken(token string, expiresAt time.Time) error {
	if m.configPersister == nil {
		return ErrNoConfigPersister
	}

	err := m.configPersister.UpdateAPIToken(m.api, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to update API token: %w", err)
	}

	return nil
}
