package client

import (
	"context"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/fivetwenty-io/opsapi/pkg/psa"
)

// The helpdesk API calls customers clients.
const customersPath = constants.HelpdeskAPIRoot + "/Client"

// CustomersClient implements psa.CustomersClient.
type CustomersClient struct {
	httpClient *http.Client
}

// NewCustomersClient creates a new customers client.
func NewCustomersClient(httpClient *http.Client) *CustomersClient {
	return &CustomersClient{httpClient: httpClient}
}

// List implements psa.CustomersClient.List.
func (c *CustomersClient) List(ctx context.Context, params *opsapi.QueryParams) (*psa.CustomerList, error) {
	return getResource[psa.CustomerList](ctx, c.httpClient, customersPath, params, "customers")
}

// Get implements psa.CustomersClient.Get.
func (c *CustomersClient) Get(ctx context.Context, customerID int) (*psa.Customer, error) {
	err := requireIntID(customerID)
	if err != nil {
		return nil, err
	}

	return getResource[psa.Customer](ctx, c.httpClient, intResourcePath(customersPath, customerID), nil, "customer")
}
