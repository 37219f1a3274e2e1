package client

import (
	"context"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
)

const alertsPath = constants.MonitoringAPIRoot + "/alerts"

// AlertsClient implements netmon.AlertsClient.
type AlertsClient struct {
	httpClient *http.Client
}

// NewAlertsClient creates a new alerts client.
func NewAlertsClient(httpClient *http.Client) *AlertsClient {
	return &AlertsClient{httpClient: httpClient}
}

// List implements netmon.AlertsClient.List.
func (c *AlertsClient) List(ctx context.Context, params *opsapi.QueryParams) (*netmon.AlertList, error) {
	return getResource[netmon.AlertList](ctx, c.httpClient, alertsPath, params, "alerts")
}

// Get implements netmon.AlertsClient.Get.
func (c *AlertsClient) Get(ctx context.Context, alertID string) (*netmon.Alert, error) {
	err := requireID(alertID)
	if err != nil {
		return nil, err
	}

	return getResource[netmon.Alert](ctx, c.httpClient, resourcePath(alertsPath, alertID), nil, "alert")
}
