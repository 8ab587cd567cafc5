package domain

import "time"

// DocumentRecord represents a tracked release-notes page.
// It is the unit of searchable content in the store.
type DocumentRecord struct {
	// Path is the repository-relative file path. It is the unique,
	// stable identity of the document across syncs.
	Path string

	// SourceKey is the "owner/repo" of the source that produced this record.
	SourceKey string

	// Title is the human-readable title, from front matter or the first heading.
	Title string

	// Description is the optional free-text summary from front matter.
	Description string

	// Product is the inferred product label derived from the path.
	Product string

	// Version is the inferred version string derived from the path, if any.
	Version string

	// ReleaseDate is the human-declared date from front matter, if any.
	ReleaseDate *time.Time

	// PreviewDate is when the release entered preview, if declared.
	PreviewDate *time.Time

	// GADate is when the release reached general availability, if declared.
	GADate *time.Time

	// BlobSHA identifies the exact content of the file at the last fetch.
	// It is replaced wholesale on every successful re-fetch.
	BlobSHA string

	// LastModified is the date of the most recent revision touching the path.
	LastModified *time.Time

	// FirstSeen is the earliest known revision date for the path.
	// Once set it is never overwritten by a later, possibly-missing value.
	FirstSeen *time.Time

	// WebURL is the human-browsable source link.
	WebURL string

	// RawURL is the raw content link.
	RawURL string

	// CreatedAt is when the record was first stored locally.
	CreatedAt time.Time

	// UpdatedAt is when the record was last written locally.
	UpdatedAt time.Time
}

// EffectiveDate returns the date used for ordering and range filters:
// the declared release date when present, otherwise the last-modified date.
func (d *DocumentRecord) EffectiveDate() *time.Time {
	if d.ReleaseDate != nil {
		return d.ReleaseDate
	}
	return d.LastModified
}
