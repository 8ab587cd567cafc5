package domain

import (
	"fmt"
	"strings"
)

// SourceRepository identifies a remote location scanned for release-notes
// documents. The set of sources is static configuration and immutable for
// the lifetime of the process.
type SourceRepository struct {
	// Owner is the repository owner (user or organisation).
	Owner string

	// Repo is the repository name.
	Repo string

	// Branch is the branch whose tip is probed for changes.
	Branch string

	// PathPrefix restricts which files in the tree are considered.
	// Empty means the whole tree.
	PathPrefix string
}

// Key returns the stable identity of the source, "owner/repo".
func (s SourceRepository) Key() string {
	return s.Owner + "/" + s.Repo
}

// Validate checks that the source has the minimum required fields.
func (s SourceRepository) Validate() error {
	if s.Owner == "" || s.Repo == "" {
		return fmt.Errorf("%w: source requires owner and repo", ErrInvalidInput)
	}
	if strings.ContainsAny(s.Owner+s.Repo, " \t/") {
		return fmt.Errorf("%w: owner and repo must be single path segments", ErrInvalidInput)
	}
	if s.Branch == "" {
		return fmt.Errorf("%w: source %s requires a branch", ErrInvalidInput, s.Key())
	}
	return nil
}

// RevisionState maps a source key to the last observed tip revision of its
// branch. It is overwritten per source, atomically, after a successful scan
// of that source - never partially.
type RevisionState map[string]string

// Changed reports whether the source needs a scan given the newly probed
// tip SHA. A source with no previous value is always considered changed.
func (r RevisionState) Changed(sourceKey, tipSHA string) bool {
	prev, ok := r[sourceKey]
	return !ok || prev != tipSHA
}
