// Package netmon defines the resources and client interfaces of the network
// monitoring API (version 7): tests, alerts, dashboards, tags, agents and
// templates.
//
// Obtain a Client with opsclient.NewMonitoring. Every method returns an
// *opsapi.APIError for non-2xx responses.
package netmon
