package opsclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/auth"
	"github.com/fivetwenty-io/opsapi/internal/client"
	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/fivetwenty-io/opsapi/pkg/psa"
)

// API names passed to a TokenStore.
const (
	APIMonitoring = constants.APIMonitoring
	APIHelpdesk   = constants.APIHelpdesk
)

// Static errors for err113 compliance.
var (
	ErrTokenStoreWithoutOAuth2 = errors.New("a token store requires OAuth2 client credentials")
)

// TokenStore persists OAuth2 tokens between runs.
type TokenStore interface {
	UpdateAPIToken(api, token string, expiresAt time.Time) error
}

// Option customises client construction.
type Option func(*options)

type options struct {
	store         TokenStore
	cachedToken   string
	cachedExpiry  time.Time
	prefetchToken bool
}

// WithTokenStore persists every newly issued OAuth2 token to store.
func WithTokenStore(store TokenStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithCachedToken seeds the OAuth2 token cache with a previously issued token.
func WithCachedToken(token string, expiresAt time.Time) Option {
	return func(o *options) {
		o.cachedToken = token
		o.cachedExpiry = expiresAt
	}
}

// WithTokenPrefetch obtains a token during construction so bad credentials
// fail early.
func WithTokenPrefetch() Option {
	return func(o *options) {
		o.prefetchToken = true
	}
}

// NewMonitoring creates a monitoring API client.
func NewMonitoring(ctx context.Context, config *opsapi.Config, opts ...Option) (netmon.Client, error) {
	normalized, tokenManager, err := prepare(ctx, config, APIMonitoring, opts)
	if err != nil {
		return nil, err
	}

	monitoring, err := client.NewMonitoring(normalized, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create monitoring client: %w", err)
	}

	return monitoring, nil
}

// NewHelpdesk creates a helpdesk API client.
func NewHelpdesk(ctx context.Context, config *opsapi.Config, opts ...Option) (psa.Client, error) {
	normalized, tokenManager, err := prepare(ctx, config, APIHelpdesk, opts)
	if err != nil {
		return nil, err
	}

	helpdesk, err := client.NewHelpdesk(normalized, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create helpdesk client: %w", err)
	}

	return helpdesk, nil
}

// NewMonitoringWithToken creates a monitoring client authenticated with a static bearer token.
func NewMonitoringWithToken(ctx context.Context, endpoint, token string) (netmon.Client, error) {
	config := opsapi.DefaultConfig()
	config.APIEndpoint = endpoint
	config.BearerToken = token

	return NewMonitoring(ctx, config)
}

// NewHelpdeskWithClientCredentials creates a helpdesk client using the OAuth2
// client_credentials grant.
func NewHelpdeskWithClientCredentials(ctx context.Context, endpoint, tokenURL, clientID, clientSecret string) (psa.Client, error) {
	config := opsapi.DefaultConfig()
	config.APIEndpoint = endpoint
	config.TokenURL = tokenURL
	config.ClientID = clientID
	config.ClientSecret = clientSecret

	return NewHelpdesk(ctx, config)
}

// NormalizeEndpoint trims a trailing slash and adds "https://" when no scheme is present.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return ""
	}

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// prepare validates a normalised copy of config and builds the token manager
// the options ask for. A nil manager lets the client derive one from config.
func prepare(ctx context.Context, config *opsapi.Config, api string, opts []Option) (*opsapi.Config, auth.TokenManager, error) {
	if config == nil {
		return nil, nil, opsapi.ErrConfigRequired
	}

	options := &options{}
	for _, opt := range opts {
		opt(options)
	}

	normalized := *config
	normalized.APIEndpoint = NormalizeEndpoint(config.APIEndpoint)

	err := normalized.Validate()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if options.store == nil && options.cachedToken == "" && !options.prefetchToken {
		return &normalized, nil, nil
	}

	if !normalized.UsesOAuth2() {
		if options.store != nil {
			return nil, nil, ErrTokenStoreWithoutOAuth2
		}

		return &normalized, nil, nil
	}

	oauth2Manager, err := client.CreateOAuth2TokenManager(&normalized)
	if err != nil {
		return nil, nil, err
	}

	var tokenManager auth.TokenManager = oauth2Manager

	switch {
	case options.store != nil:
		tokenManager = auth.NewConfigTokenManager(oauth2Manager, options.store, api, options.cachedToken, options.cachedExpiry)
	case options.cachedToken != "":
		oauth2Manager.SetToken(options.cachedToken, options.cachedExpiry)
	}

	if options.prefetchToken {
		_, err = tokenManager.GetToken(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("obtaining initial token: %w", err)
		}
	}

	return &normalized, tokenManager, nil
}
