package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driving"
)

// dateLayout is the wire format for tool date parameters.
const dateLayout = "2006-01-02"

// defaultSearchLimit caps search results when the caller does not.
const defaultSearchLimit = 10

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string `json:"query,omitempty" jsonschema:"free-text query matched against title and description"`
	Product  string `json:"product,omitempty" jsonschema:"exact product label filter"`
	Version  string `json:"version,omitempty" jsonschema:"version substring filter"`
	DateFrom string `json:"date_from,omitempty" jsonschema:"inclusive lower bound on the release date (YYYY-MM-DD)"`
	DateTo   string `json:"date_to,omitempty" jsonschema:"inclusive upper bound on the release date (YYYY-MM-DD)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"number of results to skip for pagination"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Documents         []DocumentOutput `json:"documents"`
	TotalCount        int              `json:"total_count"`
	AvailableProducts []string         `json:"available_products,omitempty"`
}

// DocumentOutput represents a single document in tool output.
type DocumentOutput struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Product     string `json:"product,omitempty"`
	Version     string `json:"version,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	FirstSeen   string `json:"first_seen,omitempty"`
	Freshness   string `json:"freshness"`
	WebURL      string `json:"web_url,omitempty"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	Path string `json:"path" jsonschema:"the repository-relative document path"`
}

// RunSyncInput is the input schema for the run_sync tool.
type RunSyncInput struct {
	Force      bool   `json:"force,omitempty" jsonschema:"bypass the interval and change gates, re-fetching everything"`
	Credential string `json:"credential,omitempty" jsonschema:"credential overriding the configured token for this run only"`
}

// RunSyncOutput is the output schema for the run_sync tool.
type RunSyncOutput struct {
	Success       bool     `json:"success"`
	DocumentCount int      `json:"document_count"`
	CommitCount   int      `json:"commit_count"`
	DurationMS    int64    `json:"duration_ms"`
	SkippedPaths  []string `json:"skipped_paths,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// CheckpointOutput is the output schema for the get_checkpoint tool.
type CheckpointOutput struct {
	Status       string `json:"status"`
	LastSyncTime string `json:"last_sync_time,omitempty"`
	DurationMS   int64  `json:"duration_ms"`
	RecordCount  int    `json:"record_count"`
	LastError    string `json:"last_error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the local replica of release-notes documents",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Fetch one release-notes document by its repository path",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "run_sync",
		Description: "Run an incremental synchronisation against the tracked repositories",
	}, s.handleRunSync)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_checkpoint",
		Description: "Report the status and outcome of the last synchronisation run",
	}, s.handleGetCheckpoint)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	filter := domain.SearchFilter{
		Query:   input.Query,
		Product: input.Product,
		Version: input.Version,
		Limit:   limit,
		Offset:  input.Offset,
	}

	var err error
	if filter.DateFrom, err = parseDate(input.DateFrom); err != nil {
		return nil, SearchOutput{}, fmt.Errorf("date_from: %w", err)
	}
	if filter.DateTo, err = parseDate(input.DateTo); err != nil {
		return nil, SearchOutput{}, fmt.Errorf("date_to: %w", err)
	}

	results, err := s.ports.Search.Search(ctx, filter)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Documents:         make([]DocumentOutput, len(results.Documents)),
		TotalCount:        results.TotalCount,
		AvailableProducts: results.AvailableProducts,
	}
	for i := range results.Documents {
		output.Documents[i] = s.toDocumentOutput(&results.Documents[i])
	}

	return nil, output, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Search.Get(ctx, input.Path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, DocumentOutput{}, fmt.Errorf("no document at path %q", input.Path)
		}
		return nil, DocumentOutput{}, err
	}

	return nil, s.toDocumentOutput(doc), nil
}

// handleRunSync handles the run_sync tool invocation. Expected outcomes
// such as "not due" and "already running" are reported in the output, not
// as protocol errors.
func (s *Server) handleRunSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunSyncInput,
) (*mcp.CallToolResult, RunSyncOutput, error) {
	summary, err := s.ports.Sync.Run(ctx, driving.RunOptions{
		Force:      input.Force,
		Credential: input.Credential,
	})
	if err != nil {
		if summary == nil {
			return nil, RunSyncOutput{Error: err.Error()}, nil
		}
		// Structural failure: the summary still carries partial counts.
	}
	if summary == nil {
		return nil, RunSyncOutput{Error: "sync produced no summary"}, nil
	}

	return nil, RunSyncOutput{
		Success:       summary.Success,
		DocumentCount: summary.DocumentCount,
		CommitCount:   summary.CommitCount,
		DurationMS:    summary.Duration.Milliseconds(),
		SkippedPaths:  summary.SkippedPaths,
		Warnings:      summary.Warnings,
		Error:         summary.Error,
	}, nil
}

// handleGetCheckpoint handles the get_checkpoint tool invocation.
func (s *Server) handleGetCheckpoint(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, CheckpointOutput, error) {
	cp, err := s.ports.Sync.Checkpoint(ctx)
	if err != nil {
		return nil, CheckpointOutput{}, err
	}

	output := CheckpointOutput{
		Status:      string(cp.Status),
		DurationMS:  cp.LastDuration.Milliseconds(),
		RecordCount: cp.RecordCount,
		LastError:   cp.LastError,
	}
	if cp.LastSyncTime != nil {
		output.LastSyncTime = cp.LastSyncTime.UTC().Format(time.RFC3339)
	}

	return nil, output, nil
}

func (s *Server) toDocumentOutput(doc *domain.DocumentRecord) DocumentOutput {
	out := DocumentOutput{
		Path:        doc.Path,
		Title:       doc.Title,
		Description: doc.Description,
		Product:     doc.Product,
		Version:     doc.Version,
		Freshness:   s.freshness.Classify(doc),
		WebURL:      doc.WebURL,
	}
	if d := doc.EffectiveDate(); d != nil {
		out.ReleaseDate = d.Format(dateLayout)
	}
	if doc.FirstSeen != nil {
		out.FirstSeen = doc.FirstSeen.Format(dateLayout)
	}
	return out
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD, got %q", value)
	}
	return &t, nil
}
