package psa

import (
	"strconv"
	"time"

	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
)

// Ticket represents a helpdesk ticket.
type Ticket struct {
	ID           int        `json:"id,omitempty"            yaml:"id,omitempty"`
	Summary      string     `json:"summary"                 yaml:"summary"`
	Details      string     `json:"details,omitempty"       yaml:"details,omitempty"`
	ClientID     int        `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientName   string     `json:"client_name,omitempty"   yaml:"client_name,omitempty"`
	SiteID       int        `json:"site_id,omitempty"       yaml:"site_id,omitempty"`
	UserName     string     `json:"user_name,omitempty"     yaml:"user_name,omitempty"`
	TicketTypeID int        `json:"tickettype_id,omitempty" yaml:"tickettype_id,omitempty"`
	StatusID     int        `json:"status_id,omitempty"     yaml:"status_id,omitempty"`
	PriorityID   int        `json:"priority_id,omitempty"   yaml:"priority_id,omitempty"`
	AgentID      int        `json:"agent_id,omitempty"      yaml:"agent_id,omitempty"`
	Team         string     `json:"team,omitempty"          yaml:"team,omitempty"`
	DateOccurred *time.Time `json:"dateoccurred,omitempty"  yaml:"dateoccurred,omitempty"`
}

// TicketList is a page of tickets.
type TicketList struct {
	RecordCount int      `json:"record_count" yaml:"record_count"`
	PageNo      int      `json:"page_no"      yaml:"page_no"`
	PageSize    int      `json:"page_size"    yaml:"page_size"`
	Tickets     []Ticket `json:"tickets"      yaml:"tickets"`
}

// TicketListOptions filters and pages the ticket listing. Zero values are omitted.
type TicketListOptions struct {
	PageNo   int
	PageSize int
	Search   string
	ClientID int
	AgentID  int
	OpenOnly bool
}

// Query renders the options as query parameters.
func (o *TicketListOptions) Query() *opsapi.QueryParams {
	query := opsapi.NewQueryParams()
	if o == nil {
		return query
	}

	if o.PageNo > 0 || o.PageSize > 0 {
		query.Add("pageinate", "true")
	}

	if o.PageNo > 0 {
		query.AddInt("page_no", o.PageNo)
	}

	if o.PageSize > 0 {
		query.AddInt("page_size", o.PageSize)
	}

	if o.Search != "" {
		query.Add("search", o.Search)
	}

	if o.ClientID > 0 {
		query.AddInt("client_id", o.ClientID)
	}

	if o.AgentID > 0 {
		query.AddInt("agent_id", o.AgentID)
	}

	if o.OpenOnly {
		query.Add("open_only", strconv.FormatBool(o.OpenOnly))
	}

	return query
}

// Action is an entry in a ticket's history: a note, email or status change.
type Action struct {
	ID             int        `json:"id,omitempty"       yaml:"id,omitempty"`
	TicketID       int        `json:"ticket_id"          yaml:"ticket_id"`
	Outcome        string     `json:"outcome,omitempty"  yaml:"outcome,omitempty"`
	Note           string     `json:"note,omitempty"     yaml:"note,omitempty"`
	Who            string     `json:"who,omitempty"      yaml:"who,omitempty"`
	ActionDate     *time.Time `json:"datetime,omitempty" yaml:"datetime,omitempty"`
	HiddenFromUser bool       `json:"hiddenfromuser"     yaml:"hiddenfromuser"`
}

// ActionList is the list of actions on a ticket.
type ActionList struct {
	RecordCount int      `json:"record_count" yaml:"record_count"`
	Actions     []Action `json:"actions"      yaml:"actions"`
}

// Customer is an organisation served by the helpdesk.
type Customer struct {
	ID         int    `json:"id"                     yaml:"id"`
	Name       string `json:"name"                   yaml:"name"`
	Inactive   bool   `json:"inactive"               yaml:"inactive"`
	Website    string `json:"website,omitempty"      yaml:"website,omitempty"`
	ColourCode string `json:"colour_code,omitempty"  yaml:"colour_code,omitempty"`
	MainSiteID int    `json:"main_site_id,omitempty" yaml:"main_site_id,omitempty"`
}

// CustomerList is a page of customers.
type CustomerList struct {
	RecordCount int        `json:"record_count" yaml:"record_count"`
	Customers   []Customer `json:"clients"      yaml:"clients"`
}

// Agent is a helpdesk technician.
type Agent struct {
	ID         int    `json:"id"              yaml:"id"`
	Name       string `json:"name"            yaml:"name"`
	Email      string `json:"email,omitempty" yaml:"email,omitempty"`
	Team       string `json:"team,omitempty"  yaml:"team,omitempty"`
	IsDisabled bool   `json:"isdisabled"      yaml:"isdisabled"`
}
