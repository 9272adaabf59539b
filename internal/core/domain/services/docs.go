// Package services provides domain services that combine the order and session
// models: which orders a role's board shows, and which actions it offers on each.
package services
