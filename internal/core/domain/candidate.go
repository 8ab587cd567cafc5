package domain

// CandidateDocument is a transient descriptor produced by the tree scan:
// a file that looks like a release-notes page, not yet fetched. The blob
// SHA lets the orchestrator skip fetching unchanged content.
type CandidateDocument struct {
	// Source is the repository the candidate was found in.
	Source SourceRepository

	// Path is the repository-relative file path.
	Path string

	// BlobSHA identifies the exact file content at scan time.
	BlobSHA string

	// Product is the inferred product label.
	Product string

	// Version is the inferred version string, empty when none matched.
	Version string

	// WebURL and RawURL are the outbound reference links for the file.
	WebURL string
	RawURL string
}

// TreeScan is the outcome of listing one changed source: the retained
// candidates plus whether the remote truncated the listing. A truncated
// scan is processed as-is, not treated as an error.
type TreeScan struct {
	Candidates []CandidateDocument
	Truncated  bool
}
