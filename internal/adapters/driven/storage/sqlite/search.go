package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
)

// Search evaluates a filter against the documents table. All supplied
// predicates are ANDed; results are ordered by effective date descending
// with undated records last.
func (s *documentStore) Search(
	ctx context.Context, filter domain.SearchFilter,
) (*domain.SearchResults, error) {
	where, args := s.buildPredicates(filter)

	countQuery := "SELECT COUNT(*) FROM documents" + where
	var total int
	if err := s.store.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting matches: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1 // SQLite treats a negative limit as unbounded
	}

	query := documentColumns + " FROM documents" + where + `
		ORDER BY (COALESCE(release_date, last_modified) IS NULL),
			COALESCE(release_date, last_modified) DESC,
			path
		LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), limit, filter.Offset)

	rows, err := s.store.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResults{
		Documents:         docs,
		TotalCount:        total,
		AvailableProducts: products,
	}, nil
}

// buildPredicates turns the filter into a WHERE clause and its arguments.
func (s *documentStore) buildPredicates(filter domain.SearchFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Query != "" {
		if s.store.ftsEnabled {
			conds = append(conds,
				"rowid IN (SELECT rowid FROM documents_fts WHERE documents_fts MATCH ?)")
			args = append(args, ftsQuery(filter.Query))
		} else {
			conds = append(conds, "(title LIKE ? OR description LIKE ?)")
			pattern := "%" + filter.Query + "%"
			args = append(args, pattern, pattern)
		}
	}

	if filter.Product != "" {
		conds = append(conds, "product = ?")
		args = append(args, filter.Product)
	}

	if filter.Version != "" {
		conds = append(conds, "version LIKE ?")
		args = append(args, "%"+filter.Version+"%")
	}

	if filter.DateFrom != nil {
		conds = append(conds, "COALESCE(release_date, last_modified) >= ?")
		args = append(args, filter.DateFrom.UTC())
	}

	if filter.DateTo != nil {
		conds = append(conds, "COALESCE(release_date, last_modified) <= ?")
		args = append(args, filter.DateTo.UTC())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ftsQuery quotes every token of a user query so punctuation cannot be
// mistaken for FTS5 operators. Tokens are ANDed implicitly.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}
