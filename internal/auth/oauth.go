package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OAuth2Config holds the client_credentials grant parameters.
type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	// HTTPClient is used for token requests; a pooled client with a short timeout
	// is used when nil.
	HTTPClient *http.Client
}

// OAuth2TokenManager obtains bearer tokens with the OAuth2 client_credentials
// grant and reuses them until they are about to expire.
type OAuth2TokenManager struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	ctx        context.Context

	mutex  sync.RWMutex
	source oauth2.TokenSource
}

// NewOAuth2TokenManager creates a token manager for config.
func NewOAuth2TokenManager(config *OAuth2Config) (*OAuth2TokenManager, error) {
	if config == nil || config.TokenURL == "" || config.ClientID == "" || config.ClientSecret == "" {
		return nil, constants.ErrIncompleteOAuth2Config
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
		httpClient.Timeout = constants.ShortHTTPTimeout
	}

	manager := &OAuth2TokenManager{
		config: &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     config.TokenURL,
			Scopes:       config.Scopes,
		},
		httpClient: httpClient,
		ctx:        context.WithValue(context.Background(), oauth2.HTTPClient, httpClient),
	}

	manager.source = manager.config.TokenSource(manager.ctx)

	return manager, nil
}

// GetToken returns a valid access token, fetching a new one when needed.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// Token returns the full cached token, fetching a new one when needed.
func (m *OAuth2TokenManager) Token(ctx context.Context) (*oauth2.Token, error) {
	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("getting OAuth2 token: %w", err)
	}

	m.mutex.RLock()
	source := m.source
	m.mutex.RUnlock()

	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("getting OAuth2 token: %w", err)
	}

	return token, nil
}

// RefreshToken discards the cached token and fetches a new one.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	token, err := m.config.Token(context.WithValue(ctx, oauth2.HTTPClient, m.httpClient))
	if err != nil {
		return fmt.Errorf("refreshing OAuth2 token: %w", err)
	}

	m.mutex.Lock()
	m.source = oauth2.ReuseTokenSource(token, m.config.TokenSource(m.ctx))
	m.mutex.Unlock()

	return nil
}

// SetToken seeds the cache with a known token; a new one is fetched after expiresAt.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	seed := &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
		Expiry:      expiresAt,
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.source = oauth2.ReuseTokenSource(seed, m.config.TokenSource(m.ctx))
}
