package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driven"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driving"
	"github.com/relnotes-labs/relnotes-cli/internal/logger"
	"github.com/relnotes-labs/relnotes-cli/internal/pool"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncService = (*SyncOrchestrator)(nil)

// Orchestrator tuning defaults.
const (
	// DefaultMinInterval is the minimum gap between unforced runs.
	DefaultMinInterval = time.Hour

	// DefaultBackfillCap bounds first-observed history lookups per run.
	DefaultBackfillCap = 25

	// DefaultFetchLimit bounds parallel document fetches.
	DefaultFetchLimit = 5
)

// OrchestratorConfig tunes a sync run. The zero value is usable; missing
// fields fall back to the defaults above.
type OrchestratorConfig struct {
	MinInterval time.Duration
	BackfillCap int
	FetchLimit  int
}

func (c OrchestratorConfig) minInterval() time.Duration {
	if c.MinInterval > 0 {
		return c.MinInterval
	}
	return DefaultMinInterval
}

func (c OrchestratorConfig) backfillCap() int {
	if c.BackfillCap > 0 {
		return c.BackfillCap
	}
	return DefaultBackfillCap
}

func (c OrchestratorConfig) fetchLimit() int {
	if c.FetchLimit > 0 {
		return c.FetchLimit
	}
	return DefaultFetchLimit
}

// SyncOrchestrator coordinates one replication run: repository-level diff
// gating, tree scans, file-level diff gating, bounded fetches, commit
// history and freshness backfill.
type SyncOrchestrator struct {
	sources []domain.SourceRepository

	prober  driven.RevisionProber
	scanner driven.TreeScanner
	fetcher driven.DocumentFetcher
	history driven.HistoryTracker

	docs        driven.DocumentStore
	commits     driven.CommitStore
	revisions   driven.RevisionStateStore
	checkpoints driven.CheckpointStore

	cfg OrchestratorConfig
	now func() time.Time

	mu      sync.Mutex
	running bool
}

// NewSyncOrchestrator creates a sync orchestrator over the given sources.
func NewSyncOrchestrator(
	sources []domain.SourceRepository,
	prober driven.RevisionProber,
	scanner driven.TreeScanner,
	fetcher driven.DocumentFetcher,
	history driven.HistoryTracker,
	docs driven.DocumentStore,
	commits driven.CommitStore,
	revisions driven.RevisionStateStore,
	checkpoints driven.CheckpointStore,
	cfg OrchestratorConfig,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		sources:     sources,
		prober:      prober,
		scanner:     scanner,
		fetcher:     fetcher,
		history:     history,
		docs:        docs,
		commits:     commits,
		revisions:   revisions,
		checkpoints: checkpoints,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Checkpoint returns the current sync checkpoint.
func (o *SyncOrchestrator) Checkpoint(ctx context.Context) (*domain.SyncCheckpoint, error) {
	return o.checkpoints.GetCheckpoint(ctx)
}

// Run executes one sync run. Per-document failures are reported in the
// summary; only structural failures (the diff check itself, storage)
// abort the run and flip the checkpoint to error.
func (o *SyncOrchestrator) Run(
	ctx context.Context, opts driving.RunOptions,
) (*domain.SyncSummary, error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil, domain.ErrSyncInProgress
	}
	o.running = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	// A per-run credential rides the context so the connectors can honour
	// it without the orchestrator knowing about transports.
	if opts.Credential != "" {
		ctx = driven.WithCredential(ctx, opts.Credential)
	}

	cp, err := o.checkpoints.GetCheckpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}

	start := o.now()
	if !cp.Due(o.cfg.minInterval(), opts.Force, start) {
		return nil, domain.ErrSyncNotDue
	}

	summary := &domain.SyncSummary{RunID: uuid.NewString()}
	logger.Info("sync %s: starting (%d sources, force=%t)",
		summary.RunID, len(o.sources), opts.Force)

	if err := o.checkpoints.SaveCheckpoint(ctx, &domain.SyncCheckpoint{
		Status:       domain.SyncRunning,
		LastSyncTime: cp.LastSyncTime,
		LastDuration: cp.LastDuration,
		RecordCount:  cp.RecordCount,
	}); err != nil {
		return nil, fmt.Errorf("save checkpoint: %w", err)
	}

	runErr := o.execute(ctx, opts, cp.LastSyncTime, summary)
	summary.Duration = o.now().Sub(start)

	if runErr != nil {
		summary.Error = runErr.Error()
		logger.Warn("sync %s: aborted after %s: %v", summary.RunID, summary.Duration, runErr)

		if saveErr := o.checkpoints.SaveCheckpoint(ctx, &domain.SyncCheckpoint{
			Status:       domain.SyncError,
			LastSyncTime: cp.LastSyncTime,
			LastDuration: summary.Duration,
			RecordCount:  cp.RecordCount,
			LastError:    runErr.Error(),
		}); saveErr != nil {
			logger.Warn("sync %s: saving error checkpoint failed: %v", summary.RunID, saveErr)
		}
		return summary, runErr
	}

	summary.Success = true
	if len(summary.SkippedPaths) > 0 {
		summary.Error = fmt.Sprintf("%d document(s) skipped", len(summary.SkippedPaths))
	}

	finished := o.now()
	if err := o.checkpoints.SaveCheckpoint(ctx, &domain.SyncCheckpoint{
		Status:       domain.SyncIdle,
		LastSyncTime: &finished,
		LastDuration: summary.Duration,
		RecordCount:  summary.DocumentCount,
		LastError:    summary.Error,
	}); err != nil {
		return summary, fmt.Errorf("save checkpoint: %w", err)
	}

	logger.Info("sync %s: done in %s (%d documents, %d commits, %d skipped)",
		summary.RunID, summary.Duration, summary.DocumentCount,
		summary.CommitCount, len(summary.SkippedPaths))
	return summary, nil
}

// execute performs the body of a run against an already-claimed checkpoint.
func (o *SyncOrchestrator) execute(
	ctx context.Context,
	opts driving.RunOptions,
	lastSync *time.Time,
	summary *domain.SyncSummary,
) error {
	tips, err := o.prober.ProbeTips(ctx, o.sources)
	if err != nil {
		return fmt.Errorf("diff check: %w", err)
	}

	stored, err := o.revisions.GetRevisions(ctx)
	if err != nil {
		return fmt.Errorf("load revision state: %w", err)
	}

	var changed []domain.SourceRepository
	for _, src := range o.sources {
		if opts.Force || stored.Changed(src.Key(), tips[src.Key()]) {
			changed = append(changed, src)
		} else {
			logger.Debug("sync: %s unchanged at %s, skipping", src.Key(), tips[src.Key()])
		}
	}

	if len(changed) == 0 {
		logger.Info("sync: no sources changed, nothing to do")
		return nil
	}

	backfillBudget := o.cfg.backfillCap()
	for _, src := range changed {
		if err := o.syncSource(ctx, src, opts, tips[src.Key()], summary, &backfillBudget); err != nil {
			return err
		}
	}

	o.syncCommits(ctx, lastSync, summary)
	return nil
}

// syncSource scans one changed source, fetches new or changed documents in
// bounded parallel and persists the new tip revision.
func (o *SyncOrchestrator) syncSource(
	ctx context.Context,
	src domain.SourceRepository,
	opts driving.RunOptions,
	tip string,
	summary *domain.SyncSummary,
	backfillBudget *int,
) error {
	scan, err := o.scanner.ScanTree(ctx, src)
	if err != nil {
		return fmt.Errorf("scan %s: %w", src.Key(), err)
	}
	if scan.Truncated {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("tree listing for %s truncated, results may be partial", src.Key()))
	}

	// File-level gating: fetch only candidates whose content changed.
	existing := make(map[string]*domain.DocumentRecord, len(scan.Candidates))
	var toFetch []domain.CandidateDocument
	for _, cand := range scan.Candidates {
		doc, err := o.docs.GetDocument(ctx, cand.Path)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			toFetch = append(toFetch, cand)
		case err != nil:
			return fmt.Errorf("load document %s: %w", cand.Path, err)
		case opts.Force || doc.BlobSHA != cand.BlobSHA:
			existing[cand.Path] = doc
			toFetch = append(toFetch, cand)
		default:
			logger.Debug("sync: %s content unchanged, skipping fetch", cand.Path)
		}
	}

	logger.Info("sync: %s has %d candidates, fetching %d",
		src.Key(), len(scan.Candidates), len(toFetch))

	results := pool.Map(ctx, o.cfg.fetchLimit(), toFetch,
		func(ctx context.Context, cand domain.CandidateDocument) (*domain.DocumentRecord, error) {
			doc, err := o.fetcher.FetchDocument(ctx, cand)
			if err != nil {
				return nil, err
			}
			doc.LastModified = o.history.LastChanged(ctx, cand.Source, cand.Path)
			return doc, nil
		})

	for i, r := range results {
		if r.Err != nil {
			summary.SkippedPaths = append(summary.SkippedPaths, toFetch[i].Path)
			logger.Warn("sync: skipping %s: %v", toFetch[i].Path, r.Err)
			continue
		}

		doc := r.Value
		prev := existing[doc.Path]
		if (prev == nil || prev.FirstSeen == nil) && *backfillBudget > 0 {
			*backfillBudget--
			doc.FirstSeen = o.history.FirstObserved(ctx, src, doc.Path)
		}

		if err := o.docs.UpsertDocument(ctx, doc); err != nil {
			return fmt.Errorf("save document %s: %w", doc.Path, err)
		}
		summary.DocumentCount++
	}

	// The tip is recorded only after the source was fully processed, so a
	// failed run re-scans the source next time.
	if err := o.revisions.SaveRevision(ctx, src.Key(), tip); err != nil {
		return fmt.Errorf("save revision %s: %w", src.Key(), err)
	}
	return nil
}

// syncCommits records recent change events across all sources. The window
// is bounded by the previous successful run; the first run is unbounded.
// Failures degrade to warnings, commits are audit data.
func (o *SyncOrchestrator) syncCommits(
	ctx context.Context, lastSync *time.Time, summary *domain.SyncSummary,
) {
	var since time.Time
	if lastSync != nil {
		since = *lastSync
	}

	for _, src := range o.sources {
		records, err := o.history.RecentCommits(ctx, src, since)
		if err != nil {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("commit history for %s unavailable: %v", src.Key(), err))
			logger.Warn("sync: commit history for %s unavailable: %v", src.Key(), err)
			continue
		}

		for i := range records {
			if err := o.commits.UpsertCommit(ctx, &records[i]); err != nil {
				logger.Warn("sync: saving commit %s failed: %v", records[i].SHA, err)
				continue
			}
			summary.CommitCount++
		}
	}
}
