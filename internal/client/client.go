package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/opsapi/internal/auth"
	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/fivetwenty-io/opsapi/pkg/psa"
)

// MonitoringClient implements the netmon.Client interface.
type MonitoringClient struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager

	// Resource clients
	tests      netmon.TestsClient
	alerts     netmon.AlertsClient
	dashboards netmon.DashboardsClient
	tags       netmon.TagsClient
	agents     netmon.AgentsClient
	templates  netmon.TemplatesClient
}

// HelpdeskClient implements the psa.Client interface.
type HelpdeskClient struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager

	// Resource clients
	tickets   psa.TicketsClient
	actions   psa.ActionsClient
	customers psa.CustomersClient
	agents    psa.AgentsClient
}

// createTokenManager creates the token manager implied by config. OAuth2 client
// credentials take precedence over a static bearer token. Nil means anonymous.
func createTokenManager(config *opsapi.Config) (auth.TokenManager, error) {
	if config.UsesOAuth2() {
		return CreateOAuth2TokenManager(config)
	}

	if config.BearerToken != "" {
		return auth.NewStaticTokenManager(config.BearerToken), nil
	}

	return nil, nil //nolint:nilnil // No authentication
}

// CreateOAuth2TokenManager creates a client_credentials token manager from config.
func CreateOAuth2TokenManager(config *opsapi.Config) (*auth.OAuth2TokenManager, error) {
	manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		TokenURL:     config.TokenURL,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       config.Scopes,
	})
	if err != nil {
		return nil, fmt.Errorf("creating OAuth2 token manager: %w", err)
	}

	return manager, nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *opsapi.Config) []http.Option {
	httpOpts := []http.Option{
		http.WithRetryPolicy(http.RetryPolicy{
			MaxAttempts:           config.MaxAttempts,
			BaseDelay:             config.BaseDelay,
			UseExponentialBackoff: config.UseExponentialBackoff,
			MaxDelay:              config.MaxDelay,
		}),
		http.WithRequestLogging(config.EnableRequestLogging),
		http.WithResponseLogging(config.EnableResponseLogging),
		http.WithTimeout(config.RequestTimeout),
	}

	logger := config.Logger
	if logger == nil && (config.EnableRequestLogging || config.EnableResponseLogging) {
		logger = opsapi.DefaultLogger()
	}

	if logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(logger))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.MetricsRegisterer != nil {
		httpOpts = append(httpOpts, http.WithMetrics(config.MetricsRegisterer))
	}

	if config.Transport != nil {
		httpOpts = append(httpOpts, http.WithTransport(config.Transport))
	}

	return httpOpts
}

// newHTTPClient validates config and builds the pipeline-backed HTTP client. A
// nil tokenManager is derived from config.
func newHTTPClient(config *opsapi.Config, tokenManager auth.TokenManager) (*http.Client, auth.TokenManager, error) {
	err := config.Validate()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if tokenManager == nil {
		tokenManager, err = createTokenManager(config)
		if err != nil {
			return nil, nil, err
		}
	}

	return http.NewClient(config.APIEndpoint, tokenManager, createHTTPClientOptions(config)...), tokenManager, nil
}

// NewMonitoring creates a monitoring API client. tokenManager may be nil.
func NewMonitoring(config *opsapi.Config, tokenManager auth.TokenManager) (*MonitoringClient, error) {
	httpClient, tokenManager, err := newHTTPClient(config, tokenManager)
	if err != nil {
		return nil, err
	}

	return &MonitoringClient{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		tests:        NewTestsClient(httpClient),
		alerts:       NewAlertsClient(httpClient),
		dashboards:   NewDashboardsClient(httpClient),
		tags:         NewTagsClient(httpClient),
		agents:       NewMonitoringAgentsClient(httpClient),
		templates:    NewTemplatesClient(httpClient),
	}, nil
}

// NewHelpdesk creates a helpdesk API client. tokenManager may be nil.
func NewHelpdesk(config *opsapi.Config, tokenManager auth.TokenManager) (*HelpdeskClient, error) {
	httpClient, tokenManager, err := newHTTPClient(config, tokenManager)
	if err != nil {
		return nil, err
	}

	return &HelpdeskClient{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		tickets:      NewTicketsClient(httpClient),
		actions:      NewActionsClient(httpClient),
		customers:    NewCustomersClient(httpClient),
		agents:       NewHelpdeskAgentsClient(httpClient),
	}, nil
}

// Tests implements netmon.Client.Tests.
func (c *MonitoringClient) Tests() netmon.TestsClient {
	return c.tests
}

// Alerts implements netmon.Client.Alerts.
func (c *MonitoringClient) Alerts() netmon.AlertsClient {
	return c.alerts
}

// Dashboards implements netmon.Client.Dashboards.
func (c *MonitoringClient) Dashboards() netmon.DashboardsClient {
	return c.dashboards
}

// Tags implements netmon.Client.Tags.
func (c *MonitoringClient) Tags() netmon.TagsClient {
	return c.tags
}

// Agents implements netmon.Client.Agents.
func (c *MonitoringClient) Agents() netmon.AgentsClient {
	return c.agents
}

// Templates implements netmon.Client.Templates.
func (c *MonitoringClient) Templates() netmon.TemplatesClient {
	return c.templates
}

// Do implements netmon.Client.Do.
func (c *MonitoringClient) Do(ctx context.Context, req *opsapi.Request) (*opsapi.Response, error) {
	return c.httpClient.Do(ctx, req)
}

// Stages lists the pipeline stages, innermost first.
func (c *MonitoringClient) Stages() []string {
	return c.httpClient.Stages()
}

// GetToken returns the current access token from the token manager.
func (c *MonitoringClient) GetToken(ctx context.Context) (string, error) {
	return getToken(ctx, c.tokenManager)
}

// Tickets implements psa.Client.Tickets.
func (c *HelpdeskClient) Tickets() psa.TicketsClient {
	return c.tickets
}

// Actions implements psa.Client.Actions.
func (c *HelpdeskClient) Actions() psa.ActionsClient {
	return c.actions
}

// Customers implements psa.Client.Customers.
func (c *HelpdeskClient) Customers() psa.CustomersClient {
	return c.customers
}

// Agents implements psa.Client.Agents.
func (c *HelpdeskClient) Agents() psa.AgentsClient {
	return c.agents
}

// Do implements psa.Client.Do.
func (c *HelpdeskClient) Do(ctx context.Context, req *opsapi.Request) (*opsapi.Response, error) {
	return c.httpClient.Do(ctx, req)
}

// Stages lists the pipeline stages, innermost first.
func (c *HelpdeskClient) Stages() []string {
	return c.httpClient.Stages()
}

// GetToken returns the current access token from the token manager.
func (c *HelpdeskClient) GetToken(ctx context.Context) (string, error) {
	return getToken(ctx, c.tokenManager)
}

func getToken(ctx context.Context, tokenManager auth.TokenManager) (string, error) {
	if tokenManager == nil {
		return "", constants.ErrNoTokenManagerConfigured
	}

	token, err := tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}
