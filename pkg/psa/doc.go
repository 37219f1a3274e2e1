// Package psa defines the resources and client interfaces of the helpdesk
// (PSA) API: tickets, ticket actions, customers and agents.
package psa
