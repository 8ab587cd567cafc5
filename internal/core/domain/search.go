package domain

import "time"

// SearchFilter describes a document query. Zero values mean "no constraint".
// All supplied predicates are combined with AND.
type SearchFilter struct {
	// Query is matched against title and description via the full-text
	// index, falling back to substring matching.
	Query string

	// Product is an exact-match filter on the inferred product label.
	Product string

	// Version is a substring filter on the inferred version string.
	Version string

	// DateFrom and DateTo bound the effective date, inclusive.
	DateFrom *time.Time
	DateTo   *time.Time

	// Limit caps the number of results; zero means unbounded.
	Limit int

	// Offset skips results for pagination.
	Offset int
}

// SearchResults is the answer to a search: the page of matching documents,
// the total match count ignoring pagination, and the product labels
// available for narrowing.
type SearchResults struct {
	Documents         []DocumentRecord
	TotalCount        int
	AvailableProducts []string
}
