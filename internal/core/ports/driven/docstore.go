package driven

import (
	"context"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
)

// DocumentStore persists document records keyed by path.
type DocumentStore interface {
	// UpsertDocument inserts or updates a record by path. On update all
	// fields are overwritten except FirstSeen, which is kept when the
	// incoming value is nil (earliest wins, never erase). The call is
	// idempotent: replaying the same record is a no-op change.
	UpsertDocument(ctx context.Context, doc *domain.DocumentRecord) error

	// GetDocument retrieves a record by path.
	// Returns domain.ErrNotFound when no record exists.
	GetDocument(ctx context.Context, path string) (*domain.DocumentRecord, error)

	// Search evaluates a filter against the store. The free-text predicate
	// uses the full-text index when available and substring matching
	// otherwise; results are ordered by effective date descending with
	// nulls last.
	Search(ctx context.Context, filter domain.SearchFilter) (*domain.SearchResults, error)

	// ListProducts returns the distinct product labels present.
	ListProducts(ctx context.Context) ([]string, error)
}

// CommitStore persists commit audit records keyed by revision SHA.
type CommitStore interface {
	// UpsertCommit inserts or fully overwrites a record by SHA.
	UpsertCommit(ctx context.Context, commit *domain.CommitRecord) error

	// RecentCommits returns the newest commits across all sources.
	RecentCommits(ctx context.Context, limit int) ([]domain.CommitRecord, error)
}

// RevisionStateStore persists the per-source tip-revision mapping used for
// repository-granularity change gating.
type RevisionStateStore interface {
	// GetRevisions returns the full stored mapping. A missing table entry
	// simply means the source has never been scanned.
	GetRevisions(ctx context.Context) (domain.RevisionState, error)

	// SaveRevision overwrites the stored tip for one source atomically.
	SaveRevision(ctx context.Context, sourceKey, tipSHA string) error
}

// CheckpointStore persists the singleton sync checkpoint row.
type CheckpointStore interface {
	// GetCheckpoint returns the checkpoint; a store that has never synced
	// returns an idle checkpoint, not an error.
	GetCheckpoint(ctx context.Context) (*domain.SyncCheckpoint, error)

	// SaveCheckpoint overwrites the checkpoint.
	SaveCheckpoint(ctx context.Context, cp *domain.SyncCheckpoint) error
}

// StatsProvider reports row counts and storage size for observability.
type StatsProvider interface {
	Stats(ctx context.Context) (*domain.StoreStats, error)
}
