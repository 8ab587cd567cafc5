package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync run is already active.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrSyncNotDue indicates the minimum interval since the last
	// successful run has not elapsed and the run was not forced.
	ErrSyncNotDue = errors.New("sync not due")

	// ErrRateLimited indicates the remote API quota was exhausted.
	ErrRateLimited = errors.New("rate limited")
)
