package github

import (
	"context"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driven"
	"github.com/relnotes-labs/relnotes-cli/internal/logger"
	"github.com/relnotes-labs/relnotes-cli/internal/pool"
)

// Ensure Tracker implements the interface.
var _ driven.HistoryTracker = (*Tracker)(nil)

// Tracker derives document freshness from commit history. Per-path lookups
// are best-effort: missing history degrades the record, never the run.
type Tracker struct {
	client *Client
	cfg    Config
}

// NewTracker creates a history tracker.
func NewTracker(client *Client, cfg Config) *Tracker {
	return &Tracker{client: client, cfg: cfg}
}

// LastChanged returns the date of the most recent commit touching the path,
// or nil when history is unavailable.
func (t *Tracker) LastChanged(
	ctx context.Context, source domain.SourceRepository, path string,
) *time.Time {
	opts := &gh.CommitsListOptions{
		Path:        path,
		SHA:         source.Branch,
		ListOptions: gh.ListOptions{PerPage: 1},
	}
	commits, _, err := t.client.ListCommits(ctx, source.Owner, source.Repo, opts)
	if err != nil || len(commits) == 0 {
		logger.Debug("github: no recent history for %s in %s: %v", path, source.Key(), err)
		return nil
	}
	return commitDate(commits[0])
}

// FirstObserved walks the path's history to its last page and returns the
// earliest known commit date, or nil. Costs at most two list requests.
func (t *Tracker) FirstObserved(
	ctx context.Context, source domain.SourceRepository, path string,
) *time.Time {
	opts := &gh.CommitsListOptions{
		Path:        path,
		SHA:         source.Branch,
		ListOptions: gh.ListOptions{PerPage: t.cfg.historyPageSize()},
	}
	commits, resp, err := t.client.ListCommits(ctx, source.Owner, source.Repo, opts)
	if err != nil || len(commits) == 0 {
		logger.Debug("github: no history for %s in %s: %v", path, source.Key(), err)
		return nil
	}

	// The first response tells us where the history ends; jump straight
	// to the last page instead of walking every one in between.
	if resp != nil && resp.LastPage > 0 {
		opts.Page = resp.LastPage
		lastPage, _, err := t.client.ListCommits(ctx, source.Owner, source.Repo, opts)
		if err == nil && len(lastPage) > 0 {
			commits = lastPage
		}
	}

	return commitDate(commits[len(commits)-1])
}

// RecentCommits lists the branch's commits since the given time, newest
// first, with size-of-change counters fetched in bounded parallel. A zero
// since means unbounded. Failed detail fetches leave zero counters.
func (t *Tracker) RecentCommits(
	ctx context.Context, source domain.SourceRepository, since time.Time,
) ([]domain.CommitRecord, error) {
	opts := &gh.CommitsListOptions{
		SHA:         source.Branch,
		Since:       since,
		ListOptions: gh.ListOptions{PerPage: t.cfg.historyPageSize()},
	}

	var all []*gh.RepositoryCommit
	for {
		commits, resp, err := t.client.ListCommits(ctx, source.Owner, source.Repo, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, commits...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	if len(all) == 0 {
		return nil, nil
	}

	results := pool.Map(ctx, t.cfg.detailLimit(), all,
		func(ctx context.Context, rc *gh.RepositoryCommit) (domain.CommitRecord, error) {
			record := domain.CommitRecord{
				SHA:       rc.GetSHA(),
				SourceKey: source.Key(),
				Message:   rc.GetCommit().GetMessage(),
				Author:    commitAuthor(rc),
			}
			if d := commitDate(rc); d != nil {
				record.Date = *d
			}

			detail, err := t.client.GetCommit(ctx, source.Owner, source.Repo, rc.GetSHA())
			if err != nil {
				logger.Debug("github: commit detail for %s unavailable: %v", rc.GetSHA(), err)
				return record, nil
			}
			if stats := detail.GetStats(); stats != nil {
				record.Additions = stats.GetAdditions()
				record.Deletions = stats.GetDeletions()
				record.TotalChanges = stats.GetTotal()
			}
			return record, nil
		})

	// Only context cancellation produces worker errors here; detail
	// failures already degraded to zero counters above.
	if errs := pool.Errors(results); len(errs) > 0 {
		return nil, errs[0]
	}

	records := make([]domain.CommitRecord, 0, len(results))
	for _, r := range results {
		records = append(records, r.Value)
	}
	return records, nil
}

func commitDate(rc *gh.RepositoryCommit) *time.Time {
	commit := rc.GetCommit()
	if commit == nil {
		return nil
	}
	if author := commit.GetAuthor(); author != nil && !author.GetDate().IsZero() {
		d := author.GetDate().Time
		return &d
	}
	if committer := commit.GetCommitter(); committer != nil && !committer.GetDate().IsZero() {
		d := committer.GetDate().Time
		return &d
	}
	return nil
}

func commitAuthor(rc *gh.RepositoryCommit) string {
	if commit := rc.GetCommit(); commit != nil {
		if author := commit.GetAuthor(); author != nil && author.GetName() != "" {
			return author.GetName()
		}
	}
	return rc.GetAuthor().GetLogin()
}
