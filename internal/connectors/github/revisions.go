package github

import (
	"context"
	"fmt"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driven"
	"github.com/relnotes-labs/relnotes-cli/internal/logger"
	"github.com/relnotes-labs/relnotes-cli/internal/pool"
)

// Ensure Prober implements the interface.
var _ driven.RevisionProber = (*Prober)(nil)

// Prober performs the cheap repository-granularity change check: one
// branch-tip request per source, fanned out under the probe ceiling.
type Prober struct {
	client *Client
	cfg    Config
}

// NewProber creates a revision prober.
func NewProber(client *Client, cfg Config) *Prober {
	return &Prober{client: client, cfg: cfg}
}

// ProbeTips fetches the current tip SHA of every source branch. Any single
// probe failure is structural: the caller cannot tell changed from
// unchanged without the full mapping, so the whole call fails.
func (p *Prober) ProbeTips(
	ctx context.Context, sources []domain.SourceRepository,
) (domain.RevisionState, error) {
	results := pool.Map(ctx, p.cfg.probeLimit(), sources,
		func(ctx context.Context, src domain.SourceRepository) (string, error) {
			return p.client.GetBranchTip(ctx, src.Owner, src.Repo, src.Branch)
		})

	state := make(domain.RevisionState, len(sources))
	for i, r := range results {
		if r.Err != nil {
			return nil, fmt.Errorf("probe %s: %w", sources[i].Key(), r.Err)
		}
		state[sources[i].Key()] = r.Value
		logger.Debug("github: %s tip is %s", sources[i].Key(), r.Value)
	}
	return state, nil
}
