// Package integration contains the domain model for outbound ERP
// synchronization: integration configuration, entity snapshots, field
// mapping, auth header resolution, and the per-attempt sync audit log.
//
// The package defines port interfaces (repositories, dispatcher) that are
// implemented in the infrastructure layer. All types here are free of
// transport and persistence concerns.
package integration
