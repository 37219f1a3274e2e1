package client

import (
	"context"
	nethttp "net/http"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
)

const dashboardsPath = constants.MonitoringAPIRoot + "/dashboards"

// DashboardsClient implements netmon.DashboardsClient.
type DashboardsClient struct {
	httpClient *http.Client
}

// NewDashboardsClient creates a new dashboards client.
func NewDashboardsClient(httpClient *http.Client) *DashboardsClient {
	return &DashboardsClient{httpClient: httpClient}
}

// List implements netmon.DashboardsClient.List. The API returns a bare array.
func (c *DashboardsClient) List(ctx context.Context, params *opsapi.QueryParams) ([]netmon.Dashboard, error) {
	dashboards, err := getResource[[]netmon.Dashboard](ctx, c.httpClient, dashboardsPath, params, "dashboards")
	if err != nil {
		return nil, err
	}

	return *dashboards, nil
}

// Get implements netmon.DashboardsClient.Get.
func (c *DashboardsClient) Get(ctx context.Context, dashboardID string) (*netmon.Dashboard, error) {
	err := requireID(dashboardID)
	if err != nil {
		return nil, err
	}

	return getResource[netmon.Dashboard](ctx, c.httpClient, resourcePath(dashboardsPath, dashboardID), nil, "dashboard")
}

// Create implements netmon.DashboardsClient.Create.
func (c *DashboardsClient) Create(ctx context.Context, request *netmon.DashboardCreateRequest) (*netmon.Dashboard, error) {
	return sendResource[netmon.Dashboard](ctx, c.httpClient, nethttp.MethodPost, dashboardsPath, request, "creating dashboard")
}

// Delete implements netmon.DashboardsClient.Delete.
func (c *DashboardsClient) Delete(ctx context.Context, dashboardID string) error {
	err := requireID(dashboardID)
	if err != nil {
		return err
	}

	return deleteResource(ctx, c.httpClient, resourcePath(dashboardsPath, dashboardID), "dashboard")
}
