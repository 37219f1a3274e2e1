package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/spf13/cobra"
)

type monitoringListOptions struct {
	page     int
	pageSize int
	filters  []string
}

func (o *monitoringListOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.page, "page", 0, "page number")
	cmd.Flags().IntVar(&o.pageSize, "page-size", constants.DefaultPageSize, "results per page")
	cmd.Flags().StringArrayVarP(&o.filters, "filter", "f", nil, "filter key=value (repeatable)")
}

func (o *monitoringListOptions) params() (*opsapi.QueryParams, error) {
	params := opsapi.NewQueryParams()

	if o.page > 0 {
		params.WithPage(o.page)
	}

	if o.pageSize > 0 {
		params.WithPageSize(o.pageSize)
	}

	for _, filter := range o.filters {
		key, value, found := strings.Cut(filter, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidQueryParam, filter)
		}

		params.WithFilter(key, value)
	}

	return params, nil
}

// NewTestsCommand creates the tests command group.
func NewTestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tests",
		Short: "Manage monitoring tests",
		Long:  "List, inspect and delete tests on the monitoring API",
	}

	cmd.AddCommand(newTestsListCommand())
	cmd.AddCommand(newTestsGetCommand())
	cmd.AddCommand(newTestsDeleteCommand())

	return cmd
}

func newTestsListCommand() *cobra.Command {
	opts := &monitoringListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := opts.params()
			if err != nil {
				return err
			}

			client, err := createMonitoringClient(cmd.Context())
			if err != nil {
				return err
			}

			tests, err := client.Tests().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list tests: %w", err)
			}

			rows := make([][]string, 0, len(tests.Tests))
			for _, test := range tests.Tests {
				rows = append(rows, []string{
					test.TestID,
					test.TestName,
					test.Type,
					strconv.Itoa(test.Interval),
					strconv.FormatBool(test.Enabled),
				})
			}

			return renderList(cmd, tests, []string{"ID", "Name", "Type", "Interval", "Enabled"}, rows)
		},
	}

	opts.register(cmd)

	return cmd
}

func newTestsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TEST_ID",
		Short: "Show a test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createMonitoringClient(cmd.Context())
			if err != nil {
				return err
			}

			test, err := client.Tests().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get test: %w", err)
			}

			return renderDetails(cmd, test, [][]string{
				{"ID", test.TestID},
				{"Name", test.TestName},
				{"Type", test.Type},
				{"Interval", strconv.Itoa(test.Interval)},
				{"Enabled", strconv.FormatBool(test.Enabled)},
				{"Alerts Enabled", strconv.FormatBool(test.AlertsEnabled)},
				{"Target", firstNonEmpty(test.URL, test.Server)},
				{"Created", formatTime(test.CreatedDate)},
				{"Modified", formatTime(test.ModifiedDate)},
			})
		},
	}
}

func newTestsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TEST_ID",
		Short: "Delete a test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createMonitoringClient(cmd.Context())
			if err != nil {
				return err
			}

			err = client.Tests().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete test: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted test %s\n", args[0])

			return nil
		},
	}
}

// NewAlertsCommand creates the alerts command group.
func NewAlertsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Inspect monitoring alerts",
	}

	cmd.AddCommand(newAlertsListCommand())
	cmd.AddCommand(newAlertsGetCommand())

	return cmd
}

func newAlertsListCommand() *cobra.Command {
	opts := &monitoringListOptions{}

	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := opts.params()
			if err != nil {
				return err
			}

			if state != "" {
				params.Set("state", state)
			}

			client, err := createMonitoringClient(cmd.Context())
			if err != nil {
				return err
			}

			alerts, err := client.Alerts().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			rows := make([][]string, 0, len(alerts.Alerts))
			for _, alert := range alerts.Alerts {
				rows = append(rows, alertRow(alert))
			}

			return renderList(cmd, alerts, []string{"ID", "Type", "State", "Severity", "Test", "Started"}, rows)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&state, "state", "", "alert state (active or cleared)")

	return cmd
}

func newAlertsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ALERT_ID",
		Short: "Show an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createMonitoringClient(cmd.Context())
			if err != nil {
				return err
			}

			alert, err := client.Alerts().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get alert: %w", err)
			}

			return renderDetails(cmd, alert, [][]string{
				{"ID", alert.AlertID},
				{"Type", alert.AlertType},
				{"State", alert.State},
				{"Severity", alert.Severity},
				{"Test", firstNonEmpty(alert.TestName, alert.TestID)},
				{"Violations", strconv.Itoa(alert.ViolationCount)},
				{"Started", formatTime(alert.StartDate)},
				{"Ended", formatTime(alert.EndDate)},
			})
		},
	}
}

func alertRow(alert netmon.Alert) []string {
	return []string{
		alert.AlertID,
		alert.AlertType,
		alert.State,
		alert.Severity,
		firstNonEmpty(alert.TestName, alert.TestID),
		formatTime(alert.StartDate),
	}
}

// NewAgentsCommand creates the agents command group for the monitoring API.
func NewAgentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Inspect monitoring agents",
	}

	opts := &monitoringListOptions{}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := opts.params()
			if err != nil {
				return err
			}

			client, err := createMonitoringClient(cmd.Context())
			if err != nil {
				return err
			}

			agents, err := client.Agents().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list agents: %w", err)
			}

			rows := make([][]string, 0, len(agents.Agents))
			for _, agent := range agents.Agents {
				rows = append(rows, []string{
					agent.AgentID,
					agent.AgentName,
					agent.AgentType,
					firstNonEmpty(agent.Location),
					firstNonEmpty(agent.AgentState),
				})
			}

			return renderList(cmd, agents, []string{"ID", "Name", "Type", "Location", "State"}, rows)
		},
	}

	opts.register(listCmd)
	cmd.AddCommand(listCmd)

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return constants.NotAvailable
}
