package netmon

import (
	"context"

	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
)

// Client is the monitoring API client.
type Client interface {
	Tests() TestsClient
	Alerts() AlertsClient
	Dashboards() DashboardsClient
	Tags() TagsClient
	Agents() AgentsClient
	Templates() TemplatesClient

	// Do sends a raw request through the same pipeline as the resource clients.
	Do(ctx context.Context, req *opsapi.Request) (*opsapi.Response, error)
}

// TestsClient manages tests.
type TestsClient interface {
	List(ctx context.Context, params *opsapi.QueryParams) (*TestList, error)
	Get(ctx context.Context, testID string) (*Test, error)
	Create(ctx context.Context, request *TestCreateRequest) (*Test, error)
	Update(ctx context.Context, testID string, request *TestUpdateRequest) (*Test, error)
	Delete(ctx context.Context, testID string) error
}

// AlertsClient reads alerts.
type AlertsClient interface {
	List(ctx context.Context, params *opsapi.QueryParams) (*AlertList, error)
	Get(ctx context.Context, alertID string) (*Alert, error)
}

// DashboardsClient manages dashboards.
type DashboardsClient interface {
	List(ctx context.Context, params *opsapi.QueryParams) ([]Dashboard, error)
	Get(ctx context.Context, dashboardID string) (*Dashboard, error)
	Create(ctx context.Context, request *DashboardCreateRequest) (*Dashboard, error)
	Delete(ctx context.Context, dashboardID string) error
}

// TagsClient manages tags and their assignments.
type TagsClient interface {
	List(ctx context.Context, params *opsapi.QueryParams) (*TagList, error)
	Get(ctx context.Context, tagID string) (*Tag, error)
	Create(ctx context.Context, request *TagCreateRequest) (*Tag, error)
	Delete(ctx context.Context, tagID string) error
	Assign(ctx context.Context, tagID string, request *TagAssignRequest) (*Tag, error)
}

// AgentsClient reads agents.
type AgentsClient interface {
	List(ctx context.Context, params *opsapi.QueryParams) (*AgentList, error)
	Get(ctx context.Context, agentID string) (*Agent, error)
}

// TemplatesClient reads templates.
type TemplatesClient interface {
	List(ctx context.Context, params *opsapi.QueryParams) (*TemplateList, error)
	Get(ctx context.Context, templateID string) (*Template, error)
}
