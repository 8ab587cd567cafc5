package domain

import "time"

// Freshness labels for documents, derived from first-seen and last-change
// dates. The upstream rule is heuristic, so the threshold is configurable
// rather than hard-coded.
const (
	FreshnessNew     = "new"
	FreshnessUpdated = "updated"
	FreshnessUnknown = "unknown"
)

// FreshnessPolicy decides whether a document counts as newly published or
// merely updated.
type FreshnessPolicy struct {
	// NewWithinDays is the window after first observation during which a
	// change still counts as part of the initial publication.
	NewWithinDays int
}

// DefaultFreshnessPolicy treats a document as new for 30 days after it was
// first observed.
var DefaultFreshnessPolicy = FreshnessPolicy{NewWithinDays: 30}

// Classify returns the freshness label for a document. A document with no
// known first-seen date is unknown; one whose last change falls within the
// window of its first observation is new; anything else is updated.
func (p FreshnessPolicy) Classify(doc *DocumentRecord) string {
	if doc == nil || doc.FirstSeen == nil {
		return FreshnessUnknown
	}
	last := doc.LastModified
	if last == nil {
		last = doc.FirstSeen
	}
	window := time.Duration(p.NewWithinDays) * 24 * time.Hour
	if last.Sub(*doc.FirstSeen) <= window {
		return FreshnessNew
	}
	return FreshnessUpdated
}
