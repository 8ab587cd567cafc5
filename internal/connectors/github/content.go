package github

import (
	"context"
	"fmt"
	"time"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driven"
	"github.com/relnotes-labs/relnotes-cli/internal/normalisers/markdown"
)

// Ensure Fetcher implements the interface.
var _ driven.DocumentFetcher = (*Fetcher)(nil)

// Fetcher downloads a candidate's content and parses it into a full
// document record. Freshness dates are left nil for the history tracker.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a document fetcher.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// FetchDocument retrieves and parses one candidate. A parse that yields no
// title still produces a record; the path is always a usable identity.
func (f *Fetcher) FetchDocument(
	ctx context.Context, candidate domain.CandidateDocument,
) (*domain.DocumentRecord, error) {
	src := candidate.Source
	content, err := f.client.GetFileContent(ctx, src.Owner, src.Repo, candidate.Path, src.Branch)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", candidate.Path, err)
	}

	meta := markdown.Parse(content)

	now := time.Now().UTC()
	return &domain.DocumentRecord{
		Path:        candidate.Path,
		SourceKey:   src.Key(),
		Title:       meta.Title,
		Description: meta.Description,
		Product:     candidate.Product,
		Version:     candidate.Version,
		ReleaseDate: meta.ReleaseDate,
		PreviewDate: meta.PreviewDate,
		GADate:      meta.GADate,
		BlobSHA:     candidate.BlobSHA,
		WebURL:      candidate.WebURL,
		RawURL:      candidate.RawURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
