package domain

import "time"

// SyncStatus is the lifecycle state of the synchroniser.
type SyncStatus string

// Sync lifecycle states: idle -> syncing -> {idle, error}.
const (
	SyncIdle    SyncStatus = "idle"
	SyncRunning SyncStatus = "syncing"
	SyncError   SyncStatus = "error"
)

// SyncCheckpoint is the process-wide singleton record of the synchroniser's
// last run outcome and current status. It is set to SyncRunning at run start
// and updated to SyncIdle or SyncError at run end. The status is advisory;
// it is not itself a lock.
type SyncCheckpoint struct {
	// Status is the current lifecycle state.
	Status SyncStatus

	// LastSyncTime is when the last successful run completed.
	LastSyncTime *time.Time

	// LastDuration is how long the last run took.
	LastDuration time.Duration

	// RecordCount is the number of documents written by the last run.
	RecordCount int

	// LastError is the message of the last structural failure, or a
	// summary of per-document failures from the last run. Empty when clean.
	LastError string
}

// Due reports whether a new run should start given the minimum interval
// between runs. A forced run is always due; a run is also due when no
// successful run has ever completed.
func (c *SyncCheckpoint) Due(minInterval time.Duration, force bool, now time.Time) bool {
	if force {
		return true
	}
	if c == nil || c.LastSyncTime == nil {
		return true
	}
	return now.Sub(*c.LastSyncTime) >= minInterval
}

// SyncSummary is the structured result of one sync run, returned to callers
// and surfaced through the protocol adapter.
type SyncSummary struct {
	// RunID uniquely identifies the run in logs.
	RunID string

	// Success is true when the run completed structurally, even if
	// individual documents were skipped.
	Success bool

	// DocumentCount is the number of documents upserted.
	DocumentCount int

	// CommitCount is the number of commit records upserted.
	CommitCount int

	// Duration is the wall-clock time of the run.
	Duration time.Duration

	// SkippedPaths lists documents that failed to fetch or parse.
	SkippedPaths []string

	// Warnings lists non-fatal anomalies (truncated trees, missing dates).
	Warnings []string

	// Error is the structural failure message when Success is false, or a
	// summary of per-document failures when some paths were skipped.
	Error string
}

// StoreStats reports row counts per table and the serialised storage size,
// for observability.
type StoreStats struct {
	DocumentCount int
	CommitCount   int
	RevisionCount int
	SizeBytes     int64
}
