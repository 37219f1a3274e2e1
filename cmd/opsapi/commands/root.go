package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewRootCommand creates the opsapi command tree.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "opsapi",
		Short: "Network monitoring and helpdesk API CLI",
		Long: `A command-line interface for the network monitoring API (/v7) and the
helpdesk API (/api).

Every command goes through the same request pipeline as the library:
authentication, retries with backoff, request logging and typed errors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.opsapi/config.yml)")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.Bool("debug", false, "log every request and response")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", constants.LogFormatConsole, "log format (console, json)")
	flags.Bool("no-color", false, "disable colored log output")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("no_color", flags.Lookup("no-color"))

	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewLogoutCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewRequestCommand())
	rootCmd.AddCommand(NewTestsCommand())
	rootCmd.AddCommand(NewAlertsCommand())
	rootCmd.AddCommand(NewAgentsCommand())
	rootCmd.AddCommand(NewTicketsCommand())
	rootCmd.AddCommand(NewCustomersCommand())

	return rootCmd
}

// InitConfig loads .env, then the config file, then OPSAPI_* environment overrides.
func InitConfig() {
	_ = godotenv.Load()

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ConfigDirName))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("OPSAPI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// A missing file is fine; login creates it.
	_ = viper.ReadInConfig()
}

// setupLogging installs the process-wide slog handler used by the client logger.
func setupLogging(out io.Writer) error {
	level, err := parseLogLevel(viper.GetString("log_level"))
	if err != nil {
		return err
	}

	if viper.GetBool("debug") && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	var handler slog.Handler

	switch viper.GetString("log_format") {
	case constants.LogFormatJSON:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
			NoColor:    viper.GetBool("no_color") || !isTerminal(out),
		})
	}

	slog.SetDefault(slog.New(handler))

	return nil
}

func parseLogLevel(value string) (slog.Level, error) {
	if value == "" {
		value = os.Getenv(constants.EnvLogLevel)
	}

	if value == "" {
		return slog.LevelWarn, nil
	}

	var level slog.Level

	err := level.UnmarshalText([]byte(value))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", value, err)
	}

	return level, nil
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)

	return ok && term.IsTerminal(int(file.Fd()))
}
