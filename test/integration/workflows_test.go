//go:build integration

package integration

import (
	"strconv"
	"testing"

	"github.com/fivetwenty-io/opsapi/pkg/netmon"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/fivetwenty-io/opsapi/pkg/psa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitoringWorkflow(t *testing.T) {
	config := LoadTestConfig()
	config.SkipWithoutMonitoring(t)

	runner := NewCommandRunner(config, t)
	require.NoError(t, runner.LoginMonitoring())

	stdout, stderr, err := runner.Run("tests", "list", "--page-size", "5", "--output", "json")
	require.NoError(t, err, "Failed to list tests: %s", stderr)

	var tests netmon.TestList
	DecodeJSONOutput(t, stdout, &tests)
	assert.LessOrEqual(t, len(tests.Tests), 5)

	if len(tests.Tests) > 0 {
		stdout, stderr, err = runner.Run("tests", "get", tests.Tests[0].TestID, "--output", "json")
		require.NoError(t, err, "Failed to get test: %s", stderr)

		var test netmon.Test
		DecodeJSONOutput(t, stdout, &test)
		assert.Equal(t, tests.Tests[0].TestID, test.TestID)
	}

	stdout, stderr, err = runner.Run("alerts", "list", "--state", "active", "--output", "yaml")
	require.NoError(t, err, "Failed to list alerts: %s", stderr)
	assert.Contains(t, stdout, "alerts:")
}

func TestMonitoringWorkflow_NotFoundIsClassified(t *testing.T) {
	config := LoadTestConfig()
	config.SkipWithoutMonitoring(t)

	runner := NewCommandRunner(config, t)
	require.NoError(t, runner.LoginMonitoring())

	stdout, _, err := runner.Run("request", "monitoring", "GET", "/v7/tests/0", "--output", "json")
	require.Error(t, err)

	var apiErr opsapi.APIError
	DecodeJSONOutput(t, stdout, &apiErr)
	assert.Equal(t, opsapi.KindNotFound, apiErr.Kind)
	assert.Equal(t, "tests", apiErr.ResourceType)
	assert.Equal(t, "0", apiErr.ResourceID)
}

func TestHelpdeskWorkflow_TicketLifecycle(t *testing.T) {
	config := LoadTestConfig()
	config.SkipWithoutHelpdesk(t)

	runner := NewCommandRunner(config, t)
	require.NoError(t, runner.LoginHelpdesk())

	summary := GenerateTestName("opsapi-it")

	// 1. Create
	stdout, stderr, err := runner.Run("tickets", "create", "--summary", summary, "--output", "json")
	require.NoError(t, err, "Failed to create ticket: %s", stderr)

	var created psa.Ticket
	DecodeJSONOutput(t, stdout, &created)
	require.Positive(t, created.ID)

	ticketID := strconv.Itoa(created.ID)

	defer func() {
		_, _, _ = runner.Run("tickets", "delete", ticketID)
	}()

	// 2. Read back
	stdout, stderr, err = runner.Run("tickets", "get", ticketID, "--output", "json")
	require.NoError(t, err, "Failed to get ticket: %s", stderr)

	var fetched psa.Ticket
	DecodeJSONOutput(t, stdout, &fetched)
	assert.Equal(t, summary, fetched.Summary)

	// 3. Add a note and list it
	_, stderr, err = runner.Run("tickets", "note", ticketID, "--note", "integration note", "--private")
	require.NoError(t, err, "Failed to add note: %s", stderr)

	stdout, stderr, err = runner.Run("tickets", "actions", ticketID, "--output", "json")
	require.NoError(t, err, "Failed to list actions: %s", stderr)

	var actions psa.ActionList
	DecodeJSONOutput(t, stdout, &actions)
	assert.NotEmpty(t, actions.Actions)

	// 4. The token obtained by login is persisted and reused
	stdout, stderr, err = runner.Run("config", "show", "--api", "helpdesk", "--output", "json")
	require.NoError(t, err, "Failed to show config: %s", stderr)
	assert.Contains(t, stdout, `"token": "***"`)
}
