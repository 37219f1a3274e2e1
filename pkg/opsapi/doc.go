// Package opsapi provides the configuration, error taxonomy, logging and request
// types shared by the monitoring (netmon) and helpdesk (psa) clients.
//
// # Overview
//
// Every call made by a resource client travels through the same pipeline:
//
//	error classifier → logging observer → retry engine → bearer authentication → transport
//
// The retry engine is present only when Config.MaxAttempts is positive and the
// logging observer only when request or response logging is enabled. The
// classifier is always present and turns every non-2xx response into exactly
// one *APIError.
//
// Getting a client
//
//	cfg := opsapi.DefaultConfig()
//	cfg.APIEndpoint = "https://api.example.com"
//	cfg.BearerToken = os.Getenv("MONITORING_TOKEN")
//
//	mon, err := opsclient.NewMonitoring(ctx, cfg)
//	if err != nil { log.Fatal(err) }
//
//	tests, err := mon.Tests().List(ctx, nil)
//
// # Errors
//
// Classified failures are *APIError values. Use errors.As to read the status,
// error code, details, validation errors, resource identifiers or Retry-After,
// or the helpers IsNotFound, IsUnauthorized, IsForbidden, IsRateLimited,
// IsBadRequest and IsServerError. Transport failures (timeouts, refused
// connections, cancellation) are returned unclassified after retries.
package opsapi
