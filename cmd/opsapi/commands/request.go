package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type requestOptions struct {
	data    string
	query   []string
	headers []string
}

// NewRequestCommand creates the raw request command.
func NewRequestCommand() *cobra.Command {
	opts := &requestOptions{}

	cmd := &cobra.Command{
		Use:   "request API METHOD PATH",
		Short: "Send a raw request through the client pipeline",
		Long: `Send a request to the monitoring or helpdesk API with authentication,
retries, logging and error classification applied.

PATH is relative to the endpoint and includes the API root, e.g. /v7/tests
or /api/Tickets. --data accepts a JSON document, or @file to read one.`,
		Example: `  opsapi request monitoring GET /v7/alerts --query state=active
  opsapi request helpdesk POST /api/Actions --data '[{"ticket_id":42,"note":"done"}]'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestCommand(cmd, opts, args[0], args[1], args[2])
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "request body (JSON, or @file)")
	cmd.Flags().StringArrayVarP(&opts.query, "query", "q", nil, "query parameter key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.headers, "header", "H", nil, "extra header Name: value (repeatable)")

	return cmd
}

func runRequestCommand(cmd *cobra.Command, opts *requestOptions, api, method, path string) error {
	req, err := buildRawRequest(opts, method, path)
	if err != nil {
		return err
	}

	doer, err := createDoer(cmd.Context(), api)
	if err != nil {
		return err
	}

	resp, err := doer.Do(cmd.Context(), req)

	apiErr := opsapi.AsAPIError(err)
	if apiErr != nil {
		renderErr := renderAPIError(cmd, apiErr)
		if renderErr != nil {
			return renderErr
		}

		return err
	}

	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	return writeBody(cmd.OutOrStdout(), resp.Body)
}

func createDoer(ctx context.Context, api string) (opsapi.Doer, error) {
	switch api {
	case constants.APIMonitoring:
		return createMonitoringClient(ctx)
	case constants.APIHelpdesk:
		return createHelpdeskClient(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", constants.ErrUnknownAPI, api)
	}
}

func buildRawRequest(opts *requestOptions, method, path string) (*opsapi.Request, error) {
	req := &opsapi.Request{
		Method: strings.ToUpper(method),
		Path:   "/" + strings.TrimPrefix(path, "/"),
		Query:  opsapi.NewQueryParams(),
	}

	for _, pair := range opts.query {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidQueryParam, pair)
		}

		req.Query.Add(key, value)
	}

	for _, header := range opts.headers {
		name, value, found := strings.Cut(header, ":")
		if !found {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidHeader, header)
		}

		if req.Headers == nil {
			req.Headers = map[string]string{}
		}

		req.Headers[http.CanonicalHeaderKey(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}

	if opts.data == "" {
		return req, nil
	}

	data := []byte(opts.data)

	if fileName, ok := strings.CutPrefix(opts.data, "@"); ok {
		fileData, err := os.ReadFile(fileName) //nolint:gosec // Path supplied by the user
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}

		data = fileData
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: not valid JSON", constants.ErrInvalidRequestBody)
	}

	req.Body = data

	return req, nil
}

// writeBody pretty-prints JSON bodies and copies anything else verbatim.
func writeBody(out io.Writer, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var pretty bytes.Buffer

	err := json.Indent(&pretty, body, "", "  ")
	if err != nil {
		_, err = out.Write(body)

		return err
	}

	pretty.WriteByte('\n')

	_, err = pretty.WriteTo(out)

	return err
}

func renderAPIError(cmd *cobra.Command, apiErr *opsapi.APIError) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	if format != constants.FormatTable {
		return render(cmd, format, apiErr)
	}

	rows := [][]string{
		{"Kind", apiErr.Kind.String()},
		{"Status", strconv.Itoa(apiErr.StatusCode)},
		{"Message", apiErr.Message},
	}

	if apiErr.ErrorCode != "" {
		rows = append(rows, []string{"Code", apiErr.ErrorCode})
	}

	if apiErr.ResourceType != "" {
		rows = append(rows, []string{"Resource", apiErr.ResourceType + "/" + apiErr.ResourceID})
	}

	if apiErr.RetryAfterSeconds != nil {
		rows = append(rows, []string{"Retry After", strconv.Itoa(*apiErr.RetryAfterSeconds) + "s"})
	}

	for _, validationErr := range apiErr.ValidationErrors {
		rows = append(rows, []string{"Validation", validationErr})
	}

	table := tablewriter.NewWriter(cmd.ErrOrStderr())
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row)
	}

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
