package github

// Per-call-site concurrency ceilings. The remote cost profiles differ:
// tip probes are one cheap request each, commit detail fetches are heavier.
const (
	// DefaultProbeLimit bounds parallel tip-revision probes.
	DefaultProbeLimit = 5

	// DefaultDetailLimit bounds parallel commit-detail fetches.
	DefaultDetailLimit = 4

	// DefaultHistoryPageSize is the page size for commit-history walks.
	DefaultHistoryPageSize = 100
)

// Config tunes the connector's call sites. The zero value is usable;
// missing fields fall back to the defaults above.
type Config struct {
	// ProbeLimit is the ceiling for parallel branch-tip probes.
	ProbeLimit int

	// DetailLimit is the ceiling for parallel commit-detail fetches.
	DetailLimit int

	// HistoryPageSize is the commit-list page size.
	HistoryPageSize int
}

func (c Config) probeLimit() int {
	if c.ProbeLimit > 0 {
		return c.ProbeLimit
	}
	return DefaultProbeLimit
}

func (c Config) detailLimit() int {
	if c.DetailLimit > 0 {
		return c.DetailLimit
	}
	return DefaultDetailLimit
}

func (c Config) historyPageSize() int {
	if c.HistoryPageSize > 0 {
		return c.HistoryPageSize
	}
	return DefaultHistoryPageSize
}
