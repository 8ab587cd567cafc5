package driven

import (
	"context"
	"time"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
)

// RevisionProber performs the cheap repository-granularity change check:
// one tip-revision probe per source, in bounded parallel.
type RevisionProber interface {
	// ProbeTips returns the current tip SHA per source key. Any probe
	// failure is structural and fails the whole call.
	ProbeTips(ctx context.Context, sources []domain.SourceRepository) (domain.RevisionState, error)
}

// TreeScanner lists a changed source's file tree and filters it down to
// release-notes candidates.
type TreeScanner interface {
	ScanTree(ctx context.Context, source domain.SourceRepository) (*domain.TreeScan, error)
}

// DocumentFetcher retrieves and parses one candidate into a full record.
// Freshness dates are left nil; the history tracker fills them in.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, candidate domain.CandidateDocument) (*domain.DocumentRecord, error)
}

// HistoryTracker derives freshness information from remote revision history.
// All methods are best-effort: a failure yields nil, never aborts a run.
type HistoryTracker interface {
	// LastChanged returns the date of the most recent revision touching
	// the path, or nil when it cannot be determined.
	LastChanged(ctx context.Context, source domain.SourceRepository, path string) *time.Time

	// FirstObserved walks the revision history for the path to its last
	// page and returns the earliest known date, or nil.
	FirstObserved(ctx context.Context, source domain.SourceRepository, path string) *time.Time

	// RecentCommits lists commits on the source branch since the given
	// time (zero time means unbounded), with size-of-change counters.
	RecentCommits(ctx context.Context, source domain.SourceRepository, since time.Time) ([]domain.CommitRecord, error)
}
