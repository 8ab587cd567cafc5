package github

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driven"
	"github.com/relnotes-labs/relnotes-cli/internal/logger"
)

// Ensure Scanner implements the interface.
var _ driven.TreeScanner = (*Scanner)(nil)

// releaseNoteMarkers are the path substrings that identify a release-notes
// page. Matching is case-insensitive. This is an intentionally approximate
// naming heuristic, kept small and testable.
var releaseNoteMarkers = []string{
	"whats-new",
	"whats_new",
	"whatsnew",
	"what-s-new",
	"release-note",
	"release_note",
}

// productsByKeyword maps path keywords to product labels. The longest
// matching keyword wins, so "windows-server" beats "windows".
var productsByKeyword = map[string]string{
	"windows-11":            "Windows 11",
	"windows-10":            "Windows 10",
	"windows-server":        "Windows Server",
	"windows":               "Windows",
	"intune":                "Microsoft Intune",
	"configmgr":             "Configuration Manager",
	"azure-virtual-desktop": "Azure Virtual Desktop",
	"defender":              "Microsoft Defender",
	"edge":                  "Microsoft Edge",
	"autopilot":             "Windows Autopilot",
}

// DefaultProduct is used when no keyword matches.
const DefaultProduct = "General"

// versionPattern extracts build-style version fragments from a path, e.g.
// "10-0-26100" or "11.0.22631".
var versionPattern = regexp.MustCompile(`(\d+)[.-]0[.-](\d+)`)

// Scanner lists a source's file tree and filters it down to release-notes
// candidates with derived product, version and reference links.
type Scanner struct {
	client *Client
}

// NewScanner creates a tree scanner.
func NewScanner(client *Client) *Scanner {
	return &Scanner{client: client}
}

// ScanTree lists the source's tree recursively (one request) and retains
// Markdown files under the configured prefix whose path matches the
// release-notes heuristic. A truncated listing is logged as a warning and
// processed as-is.
func (s *Scanner) ScanTree(
	ctx context.Context, source domain.SourceRepository,
) (*domain.TreeScan, error) {
	tree, err := s.client.GetTree(ctx, source.Owner, source.Repo, source.Branch)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", source.Key(), err)
	}

	scan := &domain.TreeScan{Truncated: tree.GetTruncated()}
	if scan.Truncated {
		logger.Warn("github: tree listing for %s was truncated, proceeding with partial results",
			source.Key())
	}

	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		path := entry.GetPath()
		if !IsReleaseNotePath(path, source.PathPrefix) {
			continue
		}

		scan.Candidates = append(scan.Candidates, domain.CandidateDocument{
			Source:  source,
			Path:    path,
			BlobSHA: entry.GetSHA(),
			Product: InferProduct(path),
			Version: InferVersion(path),
			WebURL:  WebURL(source, path),
			RawURL:  RawURL(source, path),
		})
	}

	logger.Debug("github: %s tree has %d entries, %d candidates",
		source.Key(), len(tree.Entries), len(scan.Candidates))
	return scan, nil
}

// IsReleaseNotePath reports whether a path looks like a release-notes page:
// a Markdown file under the prefix whose path contains a marker substring.
func IsReleaseNotePath(path, prefix string) bool {
	if !strings.HasSuffix(strings.ToLower(path), ".md") {
		return false
	}
	if prefix != "" && !strings.HasPrefix(path, prefix) {
		return false
	}

	lower := strings.ToLower(path)
	for _, marker := range releaseNoteMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// InferProduct derives a product label from the path. The longest matching
// keyword wins; DefaultProduct is returned when nothing matches.
func InferProduct(path string) string {
	lower := strings.ToLower(path)

	best := ""
	label := DefaultProduct
	for keyword, l := range productsByKeyword {
		if strings.Contains(lower, keyword) && len(keyword) > len(best) {
			best = keyword
			label = l
		}
	}
	return label
}

// InferVersion extracts a version string from the path and normalises it
// to the "10.0.N" build form. Empty when the path carries no version.
func InferVersion(path string) string {
	m := versionPattern.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	return "10.0." + m[2]
}

// WebURL builds the human-browsable link for a file.
func WebURL(source domain.SourceRepository, path string) string {
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s",
		source.Owner, source.Repo, source.Branch, path)
}

// RawURL builds the raw content link for a file.
func RawURL(source domain.SourceRepository, path string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s",
		source.Owner, source.Repo, source.Branch, path)
}
