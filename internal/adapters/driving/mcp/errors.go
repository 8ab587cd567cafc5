// Package mcp provides an MCP (Model Context Protocol) server adapter for
// the release-notes replica. It lets AI assistants search the local store
// and trigger synchronisation runs.
package mcp

import "errors"

// Required-port errors.
var (
	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrMissingSyncService is returned when the sync service is not provided.
	ErrMissingSyncService = errors.New("mcp: sync service is required")
)
