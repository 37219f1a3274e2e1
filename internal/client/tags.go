package client

import (
	"context"
	nethttp "net/http"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
)

const tagsPath = constants.MonitoringAPIRoot + "/tags"

// TagsClient implements netmon.TagsClient.
type TagsClient struct {
	httpClient *http.Client
}

// NewTagsClient creates a new tags client.
func NewTagsClient(httpClient *http.Client) *TagsClient {
	return &TagsClient{httpClient: httpClient}
}

// List implements netmon.TagsClient.List.
func (c *TagsClient) List(ctx context.Context, params *opsapi.QueryParams) (*netmon.TagList, error) {
	return getResource[netmon.TagList](ctx, c.httpClient, tagsPath, params, "tags")
}

// Get implements netmon.TagsClient.Get.
func (c *TagsClient) Get(ctx context.Context, tagID string) (*netmon.Tag, error) {
	err := requireID(tagID)
	if err != nil {
		return nil, err
	}

	return getResource[netmon.Tag](ctx, c.httpClient, resourcePath(tagsPath, tagID), nil, "tag")
}

// Create implements netmon.TagsClient.Create.
func (c *TagsClient) Create(ctx context.Context, request *netmon.TagCreateRequest) (*netmon.Tag, error) {
	return sendResource[netmon.Tag](ctx, c.httpClient, nethttp.MethodPost, tagsPath, request, "creating tag")
}

// Delete implements netmon.TagsClient.Delete.
func (c *TagsClient) Delete(ctx context.Context, tagID string) error {
	err := requireID(tagID)
	if err != nil {
		return err
	}

	return deleteResource(ctx, c.httpClient, resourcePath(tagsPath, tagID), "tag")
}

// Assign implements netmon.TagsClient.Assign.
func (c *TagsClient) Assign(ctx context.Context, tagID string, request *netmon.TagAssignRequest) (*netmon.Tag, error) {
	err := requireID(tagID)
	if err != nil {
		return nil, err
	}

	path := resourcePath(tagsPath, tagID) + "/assign"

	return sendResource[netmon.Tag](ctx, c.httpClient, nethttp.MethodPost, path, request, "assigning tag")
}
