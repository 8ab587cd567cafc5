package domain

import "time"

// CommitRecord is an audit record of a remote change event.
// Identity is the revision SHA; upserts are idempotent.
type CommitRecord struct {
	// SHA is the revision identifier.
	SHA string

	// SourceKey is the "owner/repo" the commit belongs to.
	SourceKey string

	// Message is the commit message.
	Message string

	// Author is the commit author's display name.
	Author string

	// Date is the author date of the commit.
	Date time.Time

	// Additions, Deletions and TotalChanges are size-of-change counters.
	// Zero when the detail fetch was skipped or failed.
	Additions    int
	Deletions    int
	TotalChanges int
}
