package client

import (
	"context"
	nethttp "net/http"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/fivetwenty-io/opsapi/pkg/psa"
)

const actionsPath = constants.HelpdeskAPIRoot + "/Actions"

// ActionsClient implements psa.ActionsClient.
type ActionsClient struct {
	httpClient *http.Client
}

// NewActionsClient creates a new actions client.
func NewActionsClient(httpClient *http.Client) *ActionsClient {
	return &ActionsClient{httpClient: httpClient}
}

// List implements psa.ActionsClient.List.
func (c *ActionsClient) List(ctx context.Context, ticketID int) (*psa.ActionList, error) {
	err := requireIntID(ticketID)
	if err != nil {
		return nil, err
	}

	params := opsapi.NewQueryParams().AddInt("ticket_id", ticketID)

	return getResource[psa.ActionList](ctx, c.httpClient, actionsPath, params, "actions")
}

// Create implements psa.ActionsClient.Create.
func (c *ActionsClient) Create(ctx context.Context, actions ...*psa.Action) (*psa.Action, error) {
	if len(actions) == 0 {
		return nil, constants.ErrNothingToCreate
	}

	return sendResource[psa.Action](ctx, c.httpClient, nethttp.MethodPost, actionsPath, actions, "creating action")
}
