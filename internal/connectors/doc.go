// Package connectors groups the remote-API adapters that feed the sync
// engine. Only GitHub is implemented: the system tracks a fixed set of
// statically configured GitHub repositories.
package connectors
