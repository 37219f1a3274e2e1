// Package opsclient provides the entry points for constructing monitoring
// (netmon.Client) and helpdesk (psa.Client) API clients.
//
// Both constructors validate an opsapi.Config, normalise its endpoint and build
// the request pipeline: pooled transport, bearer authentication, retries with
// backoff, optional request/response logging and error classification.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/opsapi/pkg/opsapi"
//	  "github.com/fivetwenty-io/opsapi/pkg/opsclient"
//	  "github.com/fivetwenty-io/opsapi/pkg/psa"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Monitoring API with a static bearer token.
//	  monitoring, err := opsclient.NewMonitoringWithToken(ctx, "api.example.com", "token")
//	  if err != nil { log.Fatal(err) }
//
//	  tests, err := monitoring.Tests().List(ctx, opsapi.NewQueryParams().WithPageSize(20))
//	  if err != nil { log.Fatal(err) }
//	  _ = tests
//
//	  // Helpdesk API with OAuth2 client credentials and request logging.
//	  config := opsapi.DefaultConfig()
//	  config.APIEndpoint = "https://helpdesk.example.com"
//	  config.TokenURL = "https://helpdesk.example.com/auth/token"
//	  config.ClientID = "client-id"
//	  config.ClientSecret = "client-secret"
//	  config.EnableRequestLogging = true
//
//	  helpdesk, err := opsclient.NewHelpdesk(ctx, config)
//	  if err != nil { log.Fatal(err) }
//
//	  tickets, err := helpdesk.Tickets().List(ctx, &psa.TicketListOptions{OpenOnly: true})
//	  if opsapi.IsRateLimited(err) { ... }
//	  _ = tickets
//	}
//
// # Token persistence
//
// WithTokenStore and WithCachedToken let a long-lived tool keep OAuth2 tokens
// across runs: the cached token is used until it expires and every new token is
// handed to the store.
package opsclient
