package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ConfigDirName is the directory under the user's home holding config.yml.
const ConfigDirName = ".opsapi"

// Config represents the CLI configuration.
type Config struct {
	Output     string     `json:"output,omitempty"     yaml:"output,omitempty"`
	LogLevel   string     `json:"log_level,omitempty"  yaml:"log_level,omitempty"`
	LogFormat  string     `json:"log_format,omitempty" yaml:"log_format,omitempty"`
	Monitoring *APIConfig `json:"monitoring,omitempty" yaml:"monitoring,omitempty"`
	Helpdesk   *APIConfig `json:"helpdesk,omitempty"   yaml:"helpdesk,omitempty"`
}

// APIConfig represents the connection settings for one API.
type APIConfig struct {
	Endpoint       string     `json:"endpoint"                   yaml:"endpoint"`
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	ClientID       string     `json:"client_id,omitempty"        yaml:"client_id,omitempty"`
	ClientSecret   string     `json:"client_secret,omitempty"    yaml:"client_secret,omitempty"`
	TokenURL       string     `json:"token_url,omitempty"        yaml:"token_url,omitempty"`
	Scopes         []string   `json:"scopes,omitempty"           yaml:"scopes,omitempty"`
	MaxAttempts    *int       `json:"max_attempts,omitempty"     yaml:"max_attempts,omitempty"`
	BaseDelay      string     `json:"base_delay,omitempty"       yaml:"base_delay,omitempty"`
	MaxDelay       string     `json:"max_delay,omitempty"        yaml:"max_delay,omitempty"`
	Timeout        string     `json:"timeout,omitempty"          yaml:"timeout,omitempty"`
	LogRequests    bool       `json:"log_requests,omitempty"     yaml:"log_requests,omitempty"`
	LogResponses   bool       `json:"log_responses,omitempty"    yaml:"log_responses,omitempty"`
}

// API returns the settings for api, or nil when none are configured.
func (c *Config) API(api string) *APIConfig {
	switch api {
	case constants.APIMonitoring:
		return c.Monitoring
	case constants.APIHelpdesk:
		return c.Helpdesk
	default:
		return nil
	}
}

// SetAPI replaces the settings for api.
func (c *Config) SetAPI(api string, apiConfig *APIConfig) error {
	switch api {
	case constants.APIMonitoring:
		c.Monitoring = apiConfig
	case constants.APIHelpdesk:
		c.Helpdesk = apiConfig
	default:
		return fmt.Errorf("%w: %q", constants.ErrUnknownAPI, api)
	}

	return nil
}

// UsesOAuth2 reports whether client credentials are configured.
func (a *APIConfig) UsesOAuth2() bool {
	return a.ClientID != "" || a.ClientSecret != "" || a.TokenURL != ""
}

// ClientConfig converts the settings into a library configuration.
func (a *APIConfig) ClientConfig() (*opsapi.Config, error) {
	config := opsapi.DefaultConfig()
	config.APIEndpoint = a.Endpoint
	config.ClientID = a.ClientID
	config.ClientSecret = a.ClientSecret
	config.TokenURL = a.TokenURL
	config.Scopes = a.Scopes
	config.EnableRequestLogging = a.LogRequests
	config.EnableResponseLogging = a.LogResponses

	if !a.UsesOAuth2() {
		config.BearerToken = a.Token
	}

	if a.MaxAttempts != nil {
		config.MaxAttempts = *a.MaxAttempts
	}

	for _, setting := range []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{"base_delay", a.BaseDelay, &config.BaseDelay},
		{"max_delay", a.MaxDelay, &config.MaxDelay},
		{"timeout", a.Timeout, &config.RequestTimeout},
	} {
		if setting.value == "" {
			continue
		}

		duration, err := time.ParseDuration(setting.value)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", setting.name, err)
		}

		*setting.dest = duration
	}

	return config, nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Display and change the endpoints, credentials and pipeline settings of both APIs",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with credentials masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskSecrets(loadConfig())

			format, err := outputFormat()
			if err != nil {
				return err
			}

			var data interface{} = config

			if apiFlag != "" {
				apiConfig, err := requireAPIConfig(config, apiFlag)
				if err != nil {
					return err
				}

				data = apiConfig
			}

			switch format {
			case constants.FormatJSON, constants.FormatYAML:
				return render(cmd, format, data)
			default:
				return displayConfigTable(cmd, config, apiFlag)
			}
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "show configuration for one API (monitoring or helpdesk)")

	return cmd
}

func newConfigSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set API KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value for one API.

Keys: endpoint, token, client_id, client_secret, token_url, scopes,
max_attempts, base_delay, max_delay, timeout, log_requests, log_responses`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			apiConfig := config.API(args[0])
			if apiConfig == nil {
				apiConfig = &APIConfig{}
			}

			err := setAPIConfigValue(apiConfig, args[1], args[2])
			if err != nil {
				return err
			}

			err = config.SetAPI(args[0], apiConfig)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s.%s\n", args[0], args[1])

			return nil
		},
	}

	return cmd
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset API KEY",
		Short: "Unset a configuration value",
		Long:  "Reset a configuration value of one API to its default",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			apiConfig, err := requireAPIConfig(config, args[0])
			if err != nil {
				return err
			}

			err = setAPIConfigValue(apiConfig, args[1], "")
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s.%s\n", args[0], args[1])

			return nil
		},
	}
}

// setAPIConfigValue sets key to value; an empty value resets the key.
func setAPIConfigValue(apiConfig *APIConfig, key, value string) error {
	switch key {
	case "endpoint":
		apiConfig.Endpoint = value
	case "token":
		apiConfig.Token = value
		apiConfig.TokenExpiresAt = nil
	case "client_id":
		apiConfig.ClientID = value
	case "client_secret":
		apiConfig.ClientSecret = value
	case "token_url":
		apiConfig.TokenURL = value
	case "scopes":
		apiConfig.Scopes = nil
		if value != "" {
			apiConfig.Scopes = strings.Split(value, ",")
		}
	case "max_attempts":
		return setOptionalInt(&apiConfig.MaxAttempts, value)
	case "base_delay":
		return setDuration(&apiConfig.BaseDelay, value)
	case "max_delay":
		return setDuration(&apiConfig.MaxDelay, value)
	case "timeout":
		return setDuration(&apiConfig.Timeout, value)
	case "log_requests":
		return setBool(&apiConfig.LogRequests, value)
	case "log_responses":
		return setBool(&apiConfig.LogResponses, value)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func setOptionalInt(dest **int, value string) error {
	if value == "" {
		*dest = nil

		return nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", value, err)
	}

	*dest = &parsed

	return nil
}

func setDuration(dest *string, value string) error {
	if value != "" {
		_, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
	}

	*dest = value

	return nil
}

func setBool(dest *bool, value string) error {
	switch value {
	case "true":
		*dest = true
	case "false", "":
		*dest = false
	default:
		return constants.ErrInvalidBooleanFlag
	}

	return nil
}

func requireAPIConfig(config *Config, api string) (*APIConfig, error) {
	if api != constants.APIMonitoring && api != constants.APIHelpdesk {
		return nil, fmt.Errorf("%w: %q", constants.ErrUnknownAPI, api)
	}

	apiConfig := config.API(api)
	if apiConfig == nil || apiConfig.Endpoint == "" {
		return nil, fmt.Errorf("%w: %s (use 'opsapi login --api %s')", constants.ErrNoEndpointForAPI, api, api)
	}

	return apiConfig, nil
}

func loadConfig() *Config {
	return &Config{
		Output:     viper.GetString("output"),
		LogLevel:   viper.GetString("log_level"),
		LogFormat:  viper.GetString("log_format"),
		Monitoring: loadAPIConfig(constants.APIMonitoring),
		Helpdesk:   loadAPIConfig(constants.APIHelpdesk),
	}
}

// loadAPIConfig reads the api section, environment overrides included
// (for example OPSAPI_HELPDESK_CLIENT_SECRET).
func loadAPIConfig(api string) *APIConfig {
	key := func(name string) string { return api + "." + name }

	apiConfig := &APIConfig{
		Endpoint:     viper.GetString(key("endpoint")),
		Token:        viper.GetString(key("token")),
		ClientID:     viper.GetString(key("client_id")),
		ClientSecret: viper.GetString(key("client_secret")),
		TokenURL:     viper.GetString(key("token_url")),
		Scopes:       viper.GetStringSlice(key("scopes")),
		BaseDelay:    viper.GetString(key("base_delay")),
		MaxDelay:     viper.GetString(key("max_delay")),
		Timeout:      viper.GetString(key("timeout")),
		LogRequests:  viper.GetBool(key("log_requests")),
		LogResponses: viper.GetBool(key("log_responses")),
	}

	if viper.IsSet(key("max_attempts")) {
		maxAttempts := viper.GetInt(key("max_attempts"))
		apiConfig.MaxAttempts = &maxAttempts
	}

	if expiresAt := viper.GetTime(key("token_expires_at")); !expiresAt.IsZero() {
		apiConfig.TokenExpiresAt = &expiresAt
	}

	if apiConfig.Endpoint == "" && apiConfig.Token == "" && !apiConfig.UsesOAuth2() {
		return nil
	}

	return apiConfig
}

// configFilePath returns the file in use, or ~/.opsapi/config.yml.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ConfigDirName, "config.yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Keep the in-process view consistent with the file.
	viper.SetConfigFile(configFile)

	err = viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("failed to reload config file: %w", err)
	}

	return nil
}

// maskSecrets returns a copy of config safe for display.
func maskSecrets(config *Config) *Config {
	masked := *config

	for _, api := range []string{constants.APIMonitoring, constants.APIHelpdesk} {
		apiConfig := config.API(api)
		if apiConfig == nil {
			continue
		}

		copied := *apiConfig
		if copied.Token != "" {
			copied.Token = constants.MaskedSecret
		}

		if copied.ClientSecret != "" {
			copied.ClientSecret = constants.MaskedSecret
		}

		_ = masked.SetAPI(api, &copied)
	}

	return &masked
}

func displayConfigTable(cmd *cobra.Command, config *Config, apiFlag string) error {
	out := cmd.OutOrStdout()

	if apiFlag == "" {
		_, _ = fmt.Fprintf(out, "Output: %s\n", formatConfigValue(config.Output))
	}

	for _, api := range []string{constants.APIMonitoring, constants.APIHelpdesk} {
		if apiFlag != "" && apiFlag != api {
			continue
		}

		apiConfig := config.API(api)
		if apiConfig == nil {
			_, _ = fmt.Fprintf(out, "\n%s: not configured\n", api)

			continue
		}

		_, _ = fmt.Fprintf(out, "\n%s:\n", api)

		table := tablewriter.NewWriter(out)
		table.Header("Property", "Value")

		for _, row := range apiConfigRows(apiConfig) {
			_ = table.Append(row)
		}

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}

	return nil
}

func apiConfigRows(apiConfig *APIConfig) [][]string {
	maxAttempts := ""
	if apiConfig.MaxAttempts != nil {
		maxAttempts = strconv.Itoa(*apiConfig.MaxAttempts)
	}

	expiresAt := ""
	if apiConfig.TokenExpiresAt != nil {
		expiresAt = apiConfig.TokenExpiresAt.Format(time.RFC3339)
	}

	return [][]string{
		{"Endpoint", formatConfigValue(apiConfig.Endpoint)},
		{"Token", formatConfigValue(apiConfig.Token)},
		{"Token Expires", formatConfigValue(expiresAt)},
		{"Client ID", formatConfigValue(apiConfig.ClientID)},
		{"Client Secret", formatConfigValue(apiConfig.ClientSecret)},
		{"Token URL", formatConfigValue(apiConfig.TokenURL)},
		{"Scopes", formatConfigValue(strings.Join(apiConfig.Scopes, ","))},
		{"Max Attempts", formatConfigValue(maxAttempts)},
		{"Base Delay", formatConfigValue(apiConfig.BaseDelay)},
		{"Max Delay", formatConfigValue(apiConfig.MaxDelay)},
		{"Timeout", formatConfigValue(apiConfig.Timeout)},
		{"Log Requests", strconv.FormatBool(apiConfig.LogRequests)},
		{"Log Responses", strconv.FormatBool(apiConfig.LogResponses)},
	}
}

func formatConfigValue(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
