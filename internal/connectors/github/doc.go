// Package github implements the remote side of synchronisation against the
// GitHub REST API: branch-tip probes, recursive tree scans, content fetches
// and commit-history lookups, all behind shared quota tracking and retry.
package github
