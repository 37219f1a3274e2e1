package client

import (
	"context"
	nethttp "net/http"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/psa"
)

const ticketsPath = constants.HelpdeskAPIRoot + "/Tickets"

// TicketsClient implements psa.TicketsClient.
type TicketsClient struct {
	httpClient *http.Client
}

// NewTicketsClient creates a new tickets client.
func NewTicketsClient(httpClient *http.Client) *TicketsClient {
	return &TicketsClient{
		httpClient: httpClient,
	}
}

// List implements psa.TicketsClient.List.
func (c *TicketsClient) List(ctx context.Context, options *psa.TicketListOptions) (*psa.TicketList, error) {
	return getResource[psa.TicketList](ctx, c.httpClient, ticketsPath, options.Query(), "tickets")
}

// Get implements psa.TicketsClient.Get.
func (c *TicketsClient) Get(ctx context.Context, ticketID int) (*psa.Ticket, error) {
	err := requireIntID(ticketID)
	if err != nil {
		return nil, err
	}

	return getResource[psa.Ticket](ctx, c.httpClient, intResourcePath(ticketsPath, ticketID), nil, "ticket")
}

// Create implements psa.TicketsClient.Create. The helpdesk API creates and
// updates through the same endpoint; a ticket with an ID is updated.
func (c *TicketsClient) Create(ctx context.Context, tickets ...*psa.Ticket) (*psa.Ticket, error) {
	if len(tickets) == 0 {
		return nil, constants.ErrNothingToCreate
	}

	return sendResource[psa.Ticket](ctx, c.httpClient, nethttp.MethodPost, ticketsPath, tickets, "creating ticket")
}

// Delete implements psa.TicketsClient.Delete.
func (c *TicketsClient) Delete(ctx context.Context, ticketID int) error {
	err := requireIntID(ticketID)
	if err != nil {
		return err
	}

	return deleteResource(ctx, c.httpClient, intResourcePath(ticketsPath, ticketID), "ticket")
}
