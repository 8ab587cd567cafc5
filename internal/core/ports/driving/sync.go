package driving

import (
	"context"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
)

// RunOptions configures one sync run. The zero value is a normal
// incremental run.
type RunOptions struct {
	// Force bypasses the minimum-interval gate and the repository- and
	// file-level diff gates, re-fetching every candidate.
	Force bool

	// Credential overrides the configured remote credential for this run
	// only. Empty means the configured one is used.
	Credential string
}

// SyncService coordinates sync runs and exposes the checkpoint.
type SyncService interface {
	// Run executes one sync run. Per-document failures are reported in
	// the summary, not as an error; only structural failures return an
	// error. Returns domain.ErrSyncNotDue when skipped by the interval
	// policy and domain.ErrSyncInProgress when a run is already active.
	Run(ctx context.Context, opts RunOptions) (*domain.SyncSummary, error)

	// Checkpoint returns the current sync checkpoint.
	Checkpoint(ctx context.Context) (*domain.SyncCheckpoint, error)
}
