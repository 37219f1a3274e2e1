package auth

import (
	"context"
	"sync"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/constants"
)

// TokenManager supplies bearer credentials to the authentication stage.
type TokenManager interface {
	// GetToken returns the current credential. An empty string means the request
	// is sent without an Authorization header.
	GetToken(ctx context.Context) (string, error)
	// RefreshToken forces a new credential to be obtained.
	RefreshToken(ctx context.Context) error
	// SetToken replaces the current credential.
	SetToken(token string, expiresAt time.Time)
}

// StaticTokenManager serves a fixed bearer token.
type StaticTokenManager struct {
	mutex sync.RWMutex
	token string
}

// NewStaticTokenManager creates a manager for token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the configured token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.token, nil
}

// RefreshToken always fails: there is nothing to refresh a static token from.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return constants.ErrStaticTokenCannotRefresh
}

// SetToken replaces the token. The expiry is ignored.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.token = token
}
