package services

import (
	"context"
	"sync"
	"time"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driven"
)

// --- Mock implementations for orchestrator testing ---

// mockDocumentStore implements driven.DocumentStore in memory.
type mockDocumentStore struct {
	mu   sync.Mutex
	docs map[string]*domain.DocumentRecord

	upsertErr error
}

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{docs: make(map[string]*domain.DocumentRecord)}
}

func (m *mockDocumentStore) UpsertDocument(_ context.Context, doc *domain.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}

	stored := *doc
	if prev, ok := m.docs[doc.Path]; ok && prev.FirstSeen != nil {
		stored.FirstSeen = prev.FirstSeen
	}
	m.docs[doc.Path] = &stored
	return nil
}

func (m *mockDocumentStore) GetDocument(_ context.Context, path string) (*domain.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	docCopy := *doc
	return &docCopy, nil
}

func (m *mockDocumentStore) Search(_ context.Context, _ domain.SearchFilter) (*domain.SearchResults, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := &domain.SearchResults{TotalCount: len(m.docs)}
	for _, doc := range m.docs {
		results.Documents = append(results.Documents, *doc)
	}
	return results, nil
}

func (m *mockDocumentStore) ListProducts(_ context.Context) ([]string, error) {
	return nil, nil
}

// mockCommitStore implements driven.CommitStore in memory.
type mockCommitStore struct {
	mu      sync.Mutex
	commits map[string]domain.CommitRecord
}

func newMockCommitStore() *mockCommitStore {
	return &mockCommitStore{commits: make(map[string]domain.CommitRecord)}
}

func (m *mockCommitStore) UpsertCommit(_ context.Context, commit *domain.CommitRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits[commit.SHA] = *commit
	return nil
}

func (m *mockCommitStore) RecentCommits(_ context.Context, _ int) ([]domain.CommitRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CommitRecord, 0, len(m.commits))
	for _, c := range m.commits {
		out = append(out, c)
	}
	return out, nil
}

// mockRevisionStore implements driven.RevisionStateStore in memory.
type mockRevisionStore struct {
	mu    sync.Mutex
	state domain.RevisionState

	getErr error
}

func newMockRevisionStore() *mockRevisionStore {
	return &mockRevisionStore{state: make(domain.RevisionState)}
}

func (m *mockRevisionStore) GetRevisions(_ context.Context) (domain.RevisionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	state := make(domain.RevisionState, len(m.state))
	for k, v := range m.state {
		state[k] = v
	}
	return state, nil
}

func (m *mockRevisionStore) SaveRevision(_ context.Context, sourceKey, tipSHA string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state[sourceKey] = tipSHA
	return nil
}

// mockCheckpointStore implements driven.CheckpointStore in memory.
type mockCheckpointStore struct {
	mu sync.Mutex
	cp *domain.SyncCheckpoint

	saved []domain.SyncCheckpoint
}

func newMockCheckpointStore() *mockCheckpointStore {
	return &mockCheckpointStore{}
}

func (m *mockCheckpointStore) GetCheckpoint(_ context.Context) (*domain.SyncCheckpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cp == nil {
		return &domain.SyncCheckpoint{Status: domain.SyncIdle}, nil
	}
	cp := *m.cp
	return &cp, nil
}

func (m *mockCheckpointStore) SaveCheckpoint(_ context.Context, cp *domain.SyncCheckpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *cp
	m.cp = &stored
	m.saved = append(m.saved, stored)
	return nil
}

// mockProber implements driven.RevisionProber.
type mockProber struct {
	tips domain.RevisionState
	err  error

	mu         sync.Mutex
	probed     [][]string
	credential string
}

func (m *mockProber) ProbeTips(
	ctx context.Context, sources []domain.SourceRepository,
) (domain.RevisionState, error) {
	m.mu.Lock()
	keys := make([]string, 0, len(sources))
	for _, s := range sources {
		keys = append(keys, s.Key())
	}
	m.probed = append(m.probed, keys)
	if credential, ok := driven.CredentialFromContext(ctx); ok {
		m.credential = credential
	}
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return m.tips, nil
}

// mockScanner implements driven.TreeScanner.
type mockScanner struct {
	scans map[string]*domain.TreeScan
	errs  map[string]error

	mu      sync.Mutex
	scanned []string
}

func (m *mockScanner) ScanTree(
	_ context.Context, source domain.SourceRepository,
) (*domain.TreeScan, error) {
	m.mu.Lock()
	m.scanned = append(m.scanned, source.Key())
	m.mu.Unlock()

	if err := m.errs[source.Key()]; err != nil {
		return nil, err
	}
	if scan, ok := m.scans[source.Key()]; ok {
		return scan, nil
	}
	return &domain.TreeScan{}, nil
}

// mockFetcher implements driven.DocumentFetcher.
type mockFetcher struct {
	errs map[string]error

	mu      sync.Mutex
	fetched []string
}

func (m *mockFetcher) FetchDocument(
	_ context.Context, cand domain.CandidateDocument,
) (*domain.DocumentRecord, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, cand.Path)
	m.mu.Unlock()

	if err := m.errs[cand.Path]; err != nil {
		return nil, err
	}
	return &domain.DocumentRecord{
		Path:      cand.Path,
		SourceKey: cand.Source.Key(),
		Title:     "Title of " + cand.Path,
		Product:   cand.Product,
		Version:   cand.Version,
		BlobSHA:   cand.BlobSHA,
		WebURL:    cand.WebURL,
		RawURL:    cand.RawURL,
	}, nil
}

// mockHistory implements driven.HistoryTracker.
type mockHistory struct {
	lastChanged   map[string]*time.Time
	firstObserved map[string]*time.Time
	commits       map[string][]domain.CommitRecord
	commitsErr    map[string]error

	mu              sync.Mutex
	backfillLookups []string
	sinceBySource   map[string]time.Time
}

func newMockHistory() *mockHistory {
	return &mockHistory{sinceBySource: make(map[string]time.Time)}
}

func (m *mockHistory) LastChanged(
	_ context.Context, _ domain.SourceRepository, path string,
) *time.Time {
	return m.lastChanged[path]
}

func (m *mockHistory) FirstObserved(
	_ context.Context, _ domain.SourceRepository, path string,
) *time.Time {
	m.mu.Lock()
	m.backfillLookups = append(m.backfillLookups, path)
	m.mu.Unlock()
	return m.firstObserved[path]
}

func (m *mockHistory) RecentCommits(
	_ context.Context, source domain.SourceRepository, since time.Time,
) ([]domain.CommitRecord, error) {
	m.mu.Lock()
	m.sinceBySource[source.Key()] = since
	m.mu.Unlock()

	if err := m.commitsErr[source.Key()]; err != nil {
		return nil, err
	}
	return m.commits[source.Key()], nil
}

// Ensure mocks implement interfaces
var (
	_ driven.DocumentStore      = (*mockDocumentStore)(nil)
	_ driven.CommitStore        = (*mockCommitStore)(nil)
	_ driven.RevisionStateStore = (*mockRevisionStore)(nil)
	_ driven.CheckpointStore    = (*mockCheckpointStore)(nil)
	_ driven.RevisionProber     = (*mockProber)(nil)
	_ driven.TreeScanner        = (*mockScanner)(nil)
	_ driven.DocumentFetcher    = (*mockFetcher)(nil)
	_ driven.HistoryTracker     = (*mockHistory)(nil)
)
