package commands

import (
	"context"
	"fmt"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
	"github.com/fivetwenty-io/opsapi/pkg/opsclient"
	"github.com/fivetwenty-io/opsapi/pkg/psa"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type loginOptions struct {
	api          string
	endpoint     string
	token        string
	clientID     string
	clientSecret string
	tokenURL     string
	scopes       []string
	skipVerify   bool
}

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials for an API",
		Long: `Store the endpoint and credentials of the monitoring or helpdesk API.

Use --token for a static bearer token, or --client-id, --client-secret and
--token-url for OAuth2 client credentials. The token is prompted for when
neither is given.`,
		Example: `  opsapi login --api monitoring --endpoint api.example.com --token abc123
  opsapi login --api helpdesk --endpoint https://support.example.com \
    --client-id cli --client-secret s3cret --token-url https://support.example.com/auth/token`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoginCommand(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.api, "api", "a", "", "API to log in to (monitoring or helpdesk)")
	cmd.Flags().StringVarP(&opts.endpoint, "endpoint", "e", "", "API endpoint URL")
	cmd.Flags().StringVarP(&opts.token, "token", "t", "", "static bearer token")
	cmd.Flags().StringVar(&opts.clientID, "client-id", "", "OAuth2 client ID")
	cmd.Flags().StringVar(&opts.clientSecret, "client-secret", "", "OAuth2 client secret")
	cmd.Flags().StringVar(&opts.tokenURL, "token-url", "", "OAuth2 token endpoint")
	cmd.Flags().StringSliceVar(&opts.scopes, "scope", nil, "OAuth2 scope (repeatable)")
	cmd.Flags().BoolVar(&opts.skipVerify, "skip-verify", false, "save without contacting the API")
	_ = cmd.MarkFlagRequired("api")
	_ = cmd.MarkFlagRequired("endpoint")

	return cmd
}

func runLoginCommand(cmd *cobra.Command, opts *loginOptions) error {
	if opts.api != constants.APIMonitoring && opts.api != constants.APIHelpdesk {
		return fmt.Errorf("%w: %q", constants.ErrUnknownAPI, opts.api)
	}

	apiConfig := &APIConfig{
		Endpoint:     opsclient.NormalizeEndpoint(opts.endpoint),
		ClientID:     opts.clientID,
		ClientSecret: opts.clientSecret,
		TokenURL:     opts.tokenURL,
		Scopes:       opts.scopes,
	}

	if !apiConfig.UsesOAuth2() {
		token, err := readToken(cmd, opts.token)
		if err != nil {
			return err
		}

		apiConfig.Token = token
	}

	if !opts.skipVerify {
		err := verifyLogin(cmd.Context(), opts.api, apiConfig)
		if err != nil {
			return fmt.Errorf("failed to verify credentials: %w", err)
		}
	}

	config := loadConfig()

	existing := config.API(opts.api)
	if existing != nil {
		// Keep pipeline tuning across logins.
		apiConfig.MaxAttempts = existing.MaxAttempts
		apiConfig.BaseDelay = existing.BaseDelay
		apiConfig.MaxDelay = existing.MaxDelay
		apiConfig.Timeout = existing.Timeout
		apiConfig.LogRequests = existing.LogRequests
		apiConfig.LogResponses = existing.LogResponses
	}

	err := config.SetAPI(opts.api, apiConfig)
	if err != nil {
		return err
	}

	err = saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully logged in to %s (%s)\n", apiConfig.Endpoint, opts.api)

	return nil
}

// readToken returns token, prompting for it without echo when empty.
func readToken(cmd *cobra.Command, token string) (string, error) {
	if token != "" {
		return token, nil
	}

	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", constants.ErrTokenRequired
	}

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Token: ")

	byteToken, err := term.ReadPassword(int(syscall.Stdin))

	_, _ = fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token = strings.TrimSpace(string(byteToken))
	if token == "" {
		return "", constants.ErrTokenRequired
	}

	return token, nil
}

// verifyLogin obtains a token for OAuth2 credentials, or reads one item with a
// static token.
func verifyLogin(ctx context.Context, api string, apiConfig *APIConfig) error {
	config, err := apiConfig.ClientConfig()
	if err != nil {
		return err
	}

	var opts []opsclient.Option
	if apiConfig.UsesOAuth2() {
		opts = append(opts, opsclient.WithTokenPrefetch())
	}

	if api == constants.APIMonitoring {
		client, err := opsclient.NewMonitoring(ctx, config, opts...)
		if err != nil {
			return err
		}

		_, err = client.Tests().List(ctx, opsapi.NewQueryParams().WithPageSize(1))

		return err
	}

	client, err := opsclient.NewHelpdesk(ctx, config, opts...)
	if err != nil {
		return err
	}

	_, err = client.Tickets().List(ctx, &psa.TicketListOptions{PageNo: 1, PageSize: 1})

	return err
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	var api string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long:  "Clear stored tokens and client secrets for one API, or for both when --api is omitted",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			apis := []string{constants.APIMonitoring, constants.APIHelpdesk}
			if api != "" {
				apis = []string{api}
			}

			for _, name := range apis {
				apiConfig := config.API(name)
				if apiConfig == nil {
					if api != "" {
						return fmt.Errorf("%w: %s", constants.ErrNoEndpointForAPI, name)
					}

					continue
				}

				apiConfig.Token = ""
				apiConfig.TokenExpiresAt = nil
				apiConfig.ClientSecret = ""
			}

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Successfully logged out")

			return nil
		},
	}

	cmd.Flags().StringVarP(&api, "api", "a", "", "API to log out of (monitoring or helpdesk)")

	return cmd
}
