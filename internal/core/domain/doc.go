// Package domain defines the core business entities for relnotes.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRecord: A tracked release-notes page with its freshness dates
//   - SourceRepository: A statically configured remote location to scan
//   - CommitRecord: An audit record of a remote change event
//   - SyncCheckpoint: The singleton record of the last sync run outcome
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
