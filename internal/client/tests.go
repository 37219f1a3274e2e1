package client

import (
	"context"
	nethttp "net/http"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
)

const testsPath = constants.MonitoringAPIRoot + "/tests"

// TestsClient implements netmon.TestsClient.
type TestsClient struct {
	httpClient *http.Client
}

// NewTestsClient creates a new tests client.
func NewTestsClient(httpClient *http.Client) *TestsClient {
	return &TestsClient{
		httpClient: httpClient,
	}
}

// List implements netmon.TestsClient.List.
func (c *TestsClient) List(ctx context.Context, params *opsapi.QueryParams) (*netmon.TestList, error) {
	return getResource[netmon.TestList](ctx, c.httpClient, testsPath, params, "tests")
}

// Get implements netmon.TestsClient.Get.
func (c *TestsClient) Get(ctx context.Context, testID string) (*netmon.Test, error) {
	err := requireID(testID)
	if err != nil {
		return nil, err
	}

	return getResource[netmon.Test](ctx, c.httpClient, resourcePath(testsPath, testID), nil, "test")
}

// Create implements netmon.TestsClient.Create.
func (c *TestsClient) Create(ctx context.Context, request *netmon.TestCreateRequest) (*netmon.Test, error) {
	return sendResource[netmon.Test](ctx, c.httpClient, nethttp.MethodPost, testsPath, request, "creating test")
}

// Update implements netmon.TestsClient.Update.
func (c *TestsClient) Update(ctx context.Context, testID string, request *netmon.TestUpdateRequest) (*netmon.Test, error) {
	err := requireID(testID)
	if err != nil {
		return nil, err
	}

	return sendResource[netmon.Test](ctx, c.httpClient, nethttp.MethodPatch, resourcePath(testsPath, testID), request, "updating test")
}

// Delete implements netmon.TestsClient.Delete.
func (c *TestsClient) Delete(ctx context.Context, testID string) error {
	err := requireID(testID)
	if err != nil {
		return err
	}

	return deleteResource(ctx, c.httpClient, resourcePath(testsPath, testID), "test")
}
