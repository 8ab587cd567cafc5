// Package services contains the core application services: the sync
// orchestrator driving replication and the search service exposing the
// local replica. Services depend only on ports, never on adapters.
package services
