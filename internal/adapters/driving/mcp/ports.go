package mcp

import (
	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search queries the local replica.
	Search driving.SearchService

	// Sync triggers runs and exposes the checkpoint.
	Sync driving.SyncService

	// Freshness classifies documents as new or updated. The zero value
	// falls back to the default window.
	Freshness domain.FreshnessPolicy
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Sync == nil {
		return ErrMissingSyncService
	}
	return nil
}
