package driving

import (
	"context"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
)

// SearchService exposes the queryable replica to collaborators.
type SearchService interface {
	// Search evaluates the filter and returns the matching page together
	// with the total count and available product labels.
	Search(ctx context.Context, filter domain.SearchFilter) (*domain.SearchResults, error)

	// Get returns one document by path, or domain.ErrNotFound.
	Get(ctx context.Context, path string) (*domain.DocumentRecord, error)

	// Products lists the distinct product labels present in the store.
	Products(ctx context.Context) ([]string, error)

	// RecentCommits returns the newest change events across all sources.
	RecentCommits(ctx context.Context, limit int) ([]domain.CommitRecord, error)

	// Stats reports store row counts and size.
	Stats(ctx context.Context) (*domain.StoreStats, error)
}
