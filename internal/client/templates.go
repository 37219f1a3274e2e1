package client

import (
	"context"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
)

const templatesPath = constants.MonitoringAPIRoot + "/templates"

// TemplatesClient implements netmon.TemplatesClient.
type TemplatesClient struct {
	httpClient *http.Client
}

// NewTemplatesClient creates a new templates client.
func NewTemplatesClient(httpClient *http.Client) *TemplatesClient {
	return &TemplatesClient{httpClient: httpClient}
}

// List implements netmon.TemplatesClient.List.
func (c *TemplatesClient) List(ctx context.Context, params *opsapi.QueryParams) (*netmon.TemplateList, error) {
	return getResource[netmon.TemplateList](ctx, c.httpClient, templatesPath, params, "templates")
}

// Get implements netmon.TemplatesClient.Get.
func (c *TemplatesClient) Get(ctx context.Context, templateID string) (*netmon.Template, error) {
	err := requireID(templateID)
	if err != nil {
		return nil, err
	}

	return getResource[netmon.Template](ctx, c.httpClient, resourcePath(templatesPath, templateID), nil, "template")
}
