package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/fivetwenty-io/opsapi/pkg/opsclient"
	"github.com/fivetwenty-io/opsapi/pkg/psa"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// outputFormat returns the validated --output value.
func outputFormat() (string, error) {
	output := viper.GetString("output")

	switch output {
	case "":
		return constants.FormatTable, nil
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return output, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidOutput, output)
	}
}

// render writes data as JSON or YAML to the command output.
func render(cmd *cobra.Command, format string, data interface{}) error {
	switch format {
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(cmd.OutOrStdout())

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return encoder.Close()
	default:
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	}
}

// renderList writes data in the selected format, using header and rows for tables.
func renderList(cmd *cobra.Command, data interface{}, header []string, rows [][]string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	if format != constants.FormatTable {
		return render(cmd, format, data)
	}

	if len(rows) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No results found")

		return nil
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header(header)

	for _, row := range rows {
		_ = table.Append(row)
	}

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderDetails writes a two-column property table, or data as JSON/YAML.
func renderDetails(cmd *cobra.Command, data interface{}, rows [][]string) error {
	return renderList(cmd, data, []string{"Property", "Value"}, rows)
}

func formatTime(value *time.Time) string {
	if value == nil || value.IsZero() {
		return constants.NotAvailable
	}

	return value.Format(time.RFC3339)
}

func formatInt(value int) string {
	if value == 0 {
		return constants.NotAvailable
	}

	return strconv.Itoa(value)
}

// parseIntID parses a positive numeric identifier argument.
func parseIntID(value, what string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", constants.ErrResourceIDMissing, what, value)
	}

	return id, nil
}

// clientOptions returns the settings and token options shared by both APIs.
func clientOptions(api string) (*opsapi.Config, []opsclient.Option, error) {
	apiConfig, err := requireAPIConfig(loadConfig(), api)
	if err != nil {
		return nil, nil, err
	}

	config, err := apiConfig.ClientConfig()
	if err != nil {
		return nil, nil, err
	}

	config.Logger = opsapi.NewSlogLogger(slog.Default())

	if viper.GetBool("debug") {
		config.EnableRequestLogging = true
		config.EnableResponseLogging = true
	}

	var opts []opsclient.Option

	if apiConfig.UsesOAuth2() {
		opts = append(opts, opsclient.WithTokenStore(NewConfigPersister()))

		if apiConfig.Token != "" && apiConfig.TokenExpiresAt != nil {
			opts = append(opts, opsclient.WithCachedToken(apiConfig.Token, *apiConfig.TokenExpiresAt))
		}
	}

	return config, opts, nil
}

func createMonitoringClient(ctx context.Context) (netmon.Client, error) {
	config, opts, err := clientOptions(constants.APIMonitoring)
	if err != nil {
		return nil, err
	}

	return opsclient.NewMonitoring(ctx, config, opts...)
}

func createHelpdeskClient(ctx context.Context) (psa.Client, error) {
	config, opts, err := clientOptions(constants.APIHelpdesk)
	if err != nil {
		return nil, err
	}

	return opsclient.NewHelpdesk(ctx, config, opts...)
}
