// Package driven defines the outbound port interfaces of the hexagon:
// the contracts that storage and remote-API adapters must satisfy.
//
// Services in internal/core/services depend on these interfaces, never on
// concrete adapters. The SQLite store and the GitHub connector implement
// them; tests substitute mocks.
package driven
