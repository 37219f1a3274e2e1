package client

import (
	"context"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/fivetwenty-io/opsapi/pkg/psa"
)

const (
	monitoringAgentsPath = constants.MonitoringAPIRoot + "/agents"
	helpdeskAgentsPath   = constants.HelpdeskAPIRoot + "/Agent"
)

// MonitoringAgentsClient implements netmon.AgentsClient.
type MonitoringAgentsClient struct {
	httpClient *http.Client
}

// NewMonitoringAgentsClient creates a new monitoring agents client.
func NewMonitoringAgentsClient(httpClient *http.Client) *MonitoringAgentsClient {
	return &MonitoringAgentsClient{httpClient: httpClient}
}

// List implements netmon.AgentsClient.List.
func (c *MonitoringAgentsClient) List(ctx context.Context, params *opsapi.QueryParams) (*netmon.AgentList, error) {
	return getResource[netmon.AgentList](ctx, c.httpClient, monitoringAgentsPath, params, "agents")
}

// Get implements netmon.AgentsClient.Get.
func (c *MonitoringAgentsClient) Get(ctx context.Context, agentID string) (*netmon.Agent, error) {
	err := requireID(agentID)
	if err != nil {
		return nil, err
	}

	return getResource[netmon.Agent](ctx, c.httpClient, resourcePath(monitoringAgentsPath, agentID), nil, "agent")
}

// HelpdeskAgentsClient implements psa.AgentsClient.
type HelpdeskAgentsClient struct {
	httpClient *http.Client
}

// NewHelpdeskAgentsClient creates a new helpdesk agents client.
func NewHelpdeskAgentsClient(httpClient *http.Client) *HelpdeskAgentsClient {
	return &HelpdeskAgentsClient{httpClient: httpClient}
}

// List implements psa.AgentsClient.List. The API returns a bare array.
func (c *HelpdeskAgentsClient) List(ctx context.Context, params *opsapi.QueryParams) ([]psa.Agent, error) {
	agents, err := getResource[[]psa.Agent](ctx, c.httpClient, helpdeskAgentsPath, params, "agents")
	if err != nil {
		return nil, err
	}

	return *agents, nil
}

// Get implements psa.AgentsClient.Get.
func (c *HelpdeskAgentsClient) Get(ctx context.Context, agentID int) (*psa.Agent, error) {
	err := requireIntID(agentID)
	if err != nil {
		return nil, err
	}

	return getResource[psa.Agent](ctx, c.httpClient, intResourcePath(helpdeskAgentsPath, agentID), nil, "agent")
}
