package mcp

import (
	"context"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driving"
)

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results *domain.SearchResults
	doc     *domain.DocumentRecord
	err     error

	lastFilter domain.SearchFilter
	lastPath   string
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

func (m *mockSearchService) Get(_ context.Context, path string) (*domain.DocumentRecord, error) {
	m.lastPath = path
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
	return nil, m.err
}

func (m *mockSearchService) Stats(_ context.Context) (*domain.StoreStats, error) {
	return &domain.StoreStats{}, m.err
}

// mockSyncService implements driving.SyncService for testing.
type mockSyncService struct {
	summary    *domain.SyncSummary
	runErr     error
	checkpoint *domain.SyncCheckpoint

	lastOpts driving.RunOptions
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

// Ensure mocks implement interfaces
var (
	_ driving.SearchService = (*mockSearchService)(nil)
	_ driving.SyncService   = (*mockSyncService)(nil)
)
