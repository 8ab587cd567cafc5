// Package driving defines the inbound port interfaces of the hexagon:
// the operations the CLI and MCP adapters invoke on the core.
package driving
