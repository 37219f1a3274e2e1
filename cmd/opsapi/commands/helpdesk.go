package commands

import (
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/fivetwenty-io/opsapi/pkg/psa"
	"github.com/spf13/cobra"
)

// NewTicketsCommand creates the tickets command group.
func NewTicketsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Manage helpdesk tickets",
		Long:  "List, inspect, create and delete tickets on the helpdesk API",
	}

	cmd.AddCommand(newTicketsListCommand())
	cmd.AddCommand(newTicketsGetCommand())
	cmd.AddCommand(newTicketsCreateCommand())
	cmd.AddCommand(newTicketsDeleteCommand())
	cmd.AddCommand(newTicketsActionsCommand())
	cmd.AddCommand(newTicketsNoteCommand())

	return cmd
}

func newTicketsListCommand() *cobra.Command {
	opts := &psa.TicketListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createHelpdeskClient(cmd.Context())
			if err != nil {
				return err
			}

			tickets, err := client.Tickets().List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list tickets: %w", err)
			}

			rows := make([][]string, 0, len(tickets.Tickets))
			for _, ticket := range tickets.Tickets {
				rows = append(rows, []string{
					strconv.Itoa(ticket.ID),
					ticket.Summary,
					firstNonEmpty(ticket.ClientName),
					formatInt(ticket.StatusID),
					formatInt(ticket.AgentID),
					formatTime(ticket.DateOccurred),
				})
			}

			return renderList(cmd, tickets, []string{"ID", "Summary", "Customer", "Status", "Agent", "Occurred"}, rows)
		},
	}

	cmd.Flags().IntVar(&opts.PageNo, "page", 0, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "results per page")
	cmd.Flags().StringVar(&opts.Search, "search", "", "free text search")
	cmd.Flags().IntVar(&opts.ClientID, "customer-id", 0, "only tickets of this customer")
	cmd.Flags().IntVar(&opts.AgentID, "agent-id", 0, "only tickets assigned to this agent")
	cmd.Flags().BoolVar(&opts.OpenOnly, "open", false, "only open tickets")

	return cmd
}

func newTicketsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TICKET_ID",
		Short: "Show a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticketID, err := parseIntID(args[0], "ticket ID")
			if err != nil {
				return err
			}

			client, err := createHelpdeskClient(cmd.Context())
			if err != nil {
				return err
			}

			ticket, err := client.Tickets().Get(cmd.Context(), ticketID)
			if err != nil {
				return fmt.Errorf("failed to get ticket: %w", err)
			}

			return renderDetails(cmd, ticket, [][]string{
				{"ID", strconv.Itoa(ticket.ID)},
				{"Summary", ticket.Summary},
				{"Details", firstNonEmpty(ticket.Details)},
				{"Customer", firstNonEmpty(ticket.ClientName, formatInt(ticket.ClientID))},
				{"User", firstNonEmpty(ticket.UserName)},
				{"Type", formatInt(ticket.TicketTypeID)},
				{"Status", formatInt(ticket.StatusID)},
				{"Priority", formatInt(ticket.PriorityID)},
				{"Agent", formatInt(ticket.AgentID)},
				{"Team", firstNonEmpty(ticket.Team)},
				{"Occurred", formatTime(ticket.DateOccurred)},
			})
		},
	}
}

func newTicketsCreateCommand() *cobra.Command {
	ticket := &psa.Ticket{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createHelpdeskClient(cmd.Context())
			if err != nil {
				return err
			}

			created, err := client.Tickets().Create(cmd.Context(), ticket)
			if err != nil {
				return fmt.Errorf("failed to create ticket: %w", err)
			}

			return renderDetails(cmd, created, [][]string{
				{"ID", strconv.Itoa(created.ID)},
				{"Summary", created.Summary},
			})
		},
	}

	cmd.Flags().StringVar(&ticket.Summary, "summary", "", "ticket summary")
	cmd.Flags().StringVar(&ticket.Details, "details", "", "ticket details")
	cmd.Flags().IntVar(&ticket.ClientID, "customer-id", 0, "customer the ticket belongs to")
	cmd.Flags().IntVar(&ticket.TicketTypeID, "type-id", 0, "ticket type")
	cmd.Flags().IntVar(&ticket.PriorityID, "priority-id", 0, "ticket priority")
	cmd.Flags().IntVar(&ticket.AgentID, "agent-id", 0, "assigned agent")
	_ = cmd.MarkFlagRequired("summary")

	return cmd
}

func newTicketsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TICKET_ID",
		Short: "Delete a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticketID, err := parseIntID(args[0], "ticket ID")
			if err != nil {
				return err
			}

			client, err := createHelpdeskClient(cmd.Context())
			if err != nil {
				return err
			}

			err = client.Tickets().Delete(cmd.Context(), ticketID)
			if err != nil {
				return fmt.Errorf("failed to delete ticket: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted ticket %d\n", ticketID)

			return nil
		},
	}
}

func newTicketsActionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actions TICKET_ID",
		Short: "List the actions recorded on a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticketID, err := parseIntID(args[0], "ticket ID")
			if err != nil {
				return err
			}

			client, err := createHelpdeskClient(cmd.Context())
			if err != nil {
				return err
			}

			actions, err := client.Actions().List(cmd.Context(), ticketID)
			if err != nil {
				return fmt.Errorf("failed to list actions: %w", err)
			}

			rows := make([][]string, 0, len(actions.Actions))
			for _, action := range actions.Actions {
				rows = append(rows, []string{
					strconv.Itoa(action.ID),
					firstNonEmpty(action.Outcome),
					firstNonEmpty(action.Who),
					formatTime(action.ActionDate),
					action.Note,
				})
			}

			return renderList(cmd, actions, []string{"ID", "Outcome", "Who", "When", "Note"}, rows)
		},
	}
}

func newTicketsNoteCommand() *cobra.Command {
	action := &psa.Action{}

	cmd := &cobra.Command{
		Use:   "note TICKET_ID",
		Short: "Add a note to a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticketID, err := parseIntID(args[0], "ticket ID")
			if err != nil {
				return err
			}

			client, err := createHelpdeskClient(cmd.Context())
			if err != nil {
				return err
			}

			action.TicketID = ticketID

			created, err := client.Actions().Create(cmd.Context(), action)
			if err != nil {
				return fmt.Errorf("failed to add note: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added action %d to ticket %d\n", created.ID, ticketID)

			return nil
		},
	}

	cmd.Flags().StringVar(&action.Note, "note", "", "note text")
	cmd.Flags().StringVar(&action.Outcome, "outcome", "Note", "action outcome")
	cmd.Flags().BoolVar(&action.HiddenFromUser, "private", false, "hide the note from the end user")
	_ = cmd.MarkFlagRequired("note")

	return cmd
}

// NewCustomersCommand creates the customers command group.
func NewCustomersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Inspect helpdesk customers",
	}

	var (
		search          string
		includeInactive bool
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := opsapi.NewQueryParams()
			if search != "" {
				params.Set("search", search)
			}

			if includeInactive {
				params.Set("includeinactive", "true")
			}

			client, err := createHelpdeskClient(cmd.Context())
			if err != nil {
				return err
			}

			customers, err := client.Customers().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list customers: %w", err)
			}

			rows := make([][]string, 0, len(customers.Customers))
			for _, customer := range customers.Customers {
				rows = append(rows, []string{
					strconv.Itoa(customer.ID),
					customer.Name,
					strconv.FormatBool(!customer.Inactive),
					firstNonEmpty(customer.Website),
				})
			}

			return renderList(cmd, customers, []string{"ID", "Name", "Active", "Website"}, rows)
		},
	}

	listCmd.Flags().StringVar(&search, "search", "", "free text search")
	listCmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "include inactive customers")
	cmd.AddCommand(listCmd)

	return cmd
}
