package cli

import (
	"context"
	"errors"
	"time"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driving"
)

// mockSearchService returns canned results for command tests.
type mockSearchService struct {
	results    *domain.SearchResults
	doc        *domain.DocumentRecord
	commits    []domain.CommitRecord
	stats      *domain.StoreStats
	err        error
	lastFilter domain.SearchFilter
}

func (m *mockSearchService) Search(
	_ context.Context, filter domain.SearchFilter,
) (*domain.SearchResults, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	if m.results == nil {
		return &domain.SearchResults{}, nil
	}
	return m.results, nil
}

func (m *mockSearchService) Get(_ context.Context, _ string) (*domain.DocumentRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.doc == nil {
		return nil, domain.ErrNotFound
	}
	return m.doc, nil
}

func (m *mockSearchService) Products(_ context.Context) ([]string, error) {
	return nil, m.err
}

func (m *mockSearchService) RecentCommits(_ context.Context, _ int) ([]domain.CommitRecord, error) {
	return m.commits, m.err
}

func (m *mockSearchService) Stats(_ context.Context) (*domain.StoreStats, error) {
	if m.stats == nil {
		return &domain.StoreStats{}, m.err
	}
	return m.stats, m.err
}

// mockSyncService returns canned sync outcomes for command tests.
type mockSyncService struct {
	summary    *domain.SyncSummary
	runErr     error
	checkpoint *domain.SyncCheckpoint
	lastOpts   driving.RunOptions
}

func (m *mockSyncService) Run(
	_ context.Context, opts driving.RunOptions,
) (*domain.SyncSummary, error) {
	m.lastOpts = opts
	return m.summary, m.runErr
}

func (m *mockSyncService) Checkpoint(_ context.Context) (*domain.SyncCheckpoint, error) {
	if m.checkpoint == nil {
		return &domain.SyncCheckpoint{Status: domain.SyncIdle}, nil
	}
	return m.checkpoint, nil
}

var (
	_ driving.SearchService = (*mockSearchService)(nil)
	_ driving.SyncService   = (*mockSyncService)(nil)
)

// setupTestServices installs default mocks and returns a cleanup that
// restores the previous services.
func setupTestServices() func() {
	release := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	firstSeen := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	oldSearch := searchService
	oldSync := syncService

	searchService = &mockSearchService{
		results: &domain.SearchResults{
			Documents: []domain.DocumentRecord{{
				Path:        "windows/whats-new/24h2.md",
				Title:       "What's new in 24H2",
				Product:     "Windows 11",
				Version:     "10.0.26100",
				ReleaseDate: &release,
				FirstSeen:   &firstSeen,
			}},
			TotalCount: 1,
		},
		doc: &domain.DocumentRecord{
			Path:      "windows/whats-new/24h2.md",
			SourceKey: "ms/windows-docs",
			Title:     "What's new in 24H2",
		},
	}
	syncService = &mockSyncService{
		summary: &domain.SyncSummary{
			Success:       true,
			DocumentCount: 2,
			CommitCount:   3,
			Duration:      1200 * time.Millisecond,
		},
	}

	return func() {
		searchService = oldSearch
		syncService = oldSync
	}
}

// errService is a sentinel error used by failure-path tests.
var errService = errors.New("backend unavailable")
