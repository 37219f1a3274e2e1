package psa

import (
	"context"

	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
)

// Client is the helpdesk API client.
type Client interface {
	Tickets() TicketsClient
	Actions() ActionsClient
	Customers() CustomersClient
	Agents() AgentsClient

	// Do sends a raw request through the same pipeline as the resource clients.
	Do(ctx context.Context, req *opsapi.Request) (*opsapi.Response, error)
}

// TicketsClient manages tickets.
type TicketsClient interface {
	List(ctx context.Context, options *TicketListOptions) (*TicketList, error)
	Get(ctx context.Context, ticketID int) (*Ticket, error)
	// Create posts the tickets in one request and returns what the API returned.
	Create(ctx context.Context, tickets ...*Ticket) (*Ticket, error)
	Delete(ctx context.Context, ticketID int) error
}

// ActionsClient manages ticket actions.
type ActionsClient interface {
	List(ctx context.Context, ticketID int) (*ActionList, error)
	Create(ctx context.Context, actions ...*Action) (*Action, error)
}

// CustomersClient reads customers.
type CustomersClient interface {
	List(ctx context.Context, params *opsapi.QueryParams) (*CustomerList, error)
	Get(ctx context.Context, customerID int) (*Customer, error)
}

// AgentsClient reads agents.
type AgentsClient interface {
	List(ctx context.Context, params *opsapi.QueryParams) ([]Agent, error)
	Get(ctx context.Context, agentID int) (*Agent, error)
}
