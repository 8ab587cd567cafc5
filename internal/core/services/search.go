package services

import (
	"context"
	"strings"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driven"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driving"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService exposes the local replica: filtered search, single-record
// lookup, product listing, commit history and store statistics.
type SearchService struct {
	docs    driven.DocumentStore
	commits driven.CommitStore
	stats   driven.StatsProvider
}

// NewSearchService creates a search service over the given stores.
func NewSearchService(
	docs driven.DocumentStore,
	commits driven.CommitStore,
	stats driven.StatsProvider,
) *SearchService {
	return &SearchService{
		docs:    docs,
		commits: commits,
		stats:   stats,
	}
}

// Search evaluates the filter after normalising it.
func (s *SearchService) Search(
	ctx context.Context, filter domain.SearchFilter,
) (*domain.SearchResults, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, domain.ErrInvalidInput
	}

	return s.docs.Search(ctx, filter)
}

// Get returns one document by path.
func (s *SearchService) Get(ctx context.Context, path string) (*domain.DocumentRecord, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.docs.GetDocument(ctx, path)
}

// Products lists the distinct product labels present in the store.
func (s *SearchService) Products(ctx context.Context) ([]string, error) {
	return s.docs.ListProducts(ctx)
}

// RecentCommits returns the newest change events across all sources.
func (s *SearchService) RecentCommits(ctx context.Context, limit int) ([]domain.CommitRecord, error) {
	return s.commits.RecentCommits(ctx, limit)
}

// Stats reports store row counts and size.
func (s *SearchService) Stats(ctx context.Context) (*domain.StoreStats, error) {
	return s.stats.Stats(ctx)
}
