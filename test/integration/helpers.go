//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	MonitoringEndpoint string
	MonitoringToken    string
	HelpdeskEndpoint   string
	HelpdeskTokenURL   string
	HelpdeskClientID   string
	HelpdeskSecret     string
	BinaryPath         string
	Verbose            bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		MonitoringEndpoint: os.Getenv("OPSAPI_IT_MONITORING_ENDPOINT"),
		MonitoringToken:    os.Getenv("OPSAPI_IT_MONITORING_TOKEN"),
		HelpdeskEndpoint:   os.Getenv("OPSAPI_IT_HELPDESK_ENDPOINT"),
		HelpdeskTokenURL:   os.Getenv("OPSAPI_IT_HELPDESK_TOKEN_URL"),
		HelpdeskClientID:   os.Getenv("OPSAPI_IT_HELPDESK_CLIENT_ID"),
		HelpdeskSecret:     os.Getenv("OPSAPI_IT_HELPDESK_CLIENT_SECRET"),
		BinaryPath:         getBinaryPath(),
		Verbose:            os.Getenv("OPSAPI_IT_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the opsapi binary.
func getBinaryPath() string {
	if path := os.Getenv("OPSAPI_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../opsapi", "./opsapi", "../opsapi"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "opsapi"
}

// SkipWithoutMonitoring skips t unless a monitoring endpoint and token are set.
func (config *TestConfig) SkipWithoutMonitoring(t *testing.T) {
	t.Helper()

	if config.MonitoringEndpoint == "" || config.MonitoringToken == "" {
		t.Skip("OPSAPI_IT_MONITORING_ENDPOINT/TOKEN not set, skipping integration test")
	}

	config.skipWithoutBinary(t)
}

// SkipWithoutHelpdesk skips t unless helpdesk client credentials are set.
func (config *TestConfig) SkipWithoutHelpdesk(t *testing.T) {
	t.Helper()

	if config.HelpdeskEndpoint == "" || config.HelpdeskClientID == "" || config.HelpdeskSecret == "" {
		t.Skip("OPSAPI_IT_HELPDESK_* not set, skipping integration test")
	}

	config.skipWithoutBinary(t)
}

func (config *TestConfig) skipWithoutBinary(t *testing.T) {
	t.Helper()

	_, err := exec.LookPath(config.BinaryPath)
	if err != nil {
		t.Skipf("opsapi binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the opsapi binary against a private config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a runner whose config file lives in t's temp dir.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes an opsapi command and returns its output.
func (runner *CommandRunner) Run(args ...string) (string, string, error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.BinaryPath, args...) //nolint:gosec // Test binary path

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err := cmd.Run()
	stdout := stdoutBuf.String()
	stderr := stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// LoginMonitoring stores the monitoring endpoint and static token.
func (runner *CommandRunner) LoginMonitoring() error {
	_, stderr, err := runner.Run("login", "--api", "monitoring",
		"--endpoint", runner.config.MonitoringEndpoint,
		"--token", runner.config.MonitoringToken)
	if err != nil {
		return fmt.Errorf("failed to log in to monitoring API: %s", stderr)
	}

	return nil
}

// LoginHelpdesk stores the helpdesk endpoint and OAuth2 client credentials.
func (runner *CommandRunner) LoginHelpdesk() error {
	tokenURL := runner.config.HelpdeskTokenURL
	if tokenURL == "" {
		tokenURL = strings.TrimSuffix(runner.config.HelpdeskEndpoint, "/") + "/auth/token"
	}

	_, stderr, err := runner.Run("login", "--api", "helpdesk",
		"--endpoint", runner.config.HelpdeskEndpoint,
		"--client-id", runner.config.HelpdeskClientID,
		"--client-secret", runner.config.HelpdeskSecret,
		"--token-url", tokenURL,
		"--scope", "all")
	if err != nil {
		return fmt.Errorf("failed to log in to helpdesk API: %s", stderr)
	}

	return nil
}

// GenerateTestName creates a unique test resource name.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// DecodeJSONOutput decodes command output into target, failing t otherwise.
func DecodeJSONOutput(t *testing.T, output string, target interface{}) {
	t.Helper()

	err := json.Unmarshal([]byte(strings.TrimSpace(output)), target)
	if err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, output)
	}
}
