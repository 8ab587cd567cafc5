package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
)

// Version is reported to MCP clients in the handshake.
const Version = "0.1.0"

// Server exposes the replica's search and sync operations as MCP tools.
// It carries no state of its own beyond the injected ports; every tool
// call goes straight through to a driving service.
type Server struct {
	ports     *Ports
	freshness domain.FreshnessPolicy
	server    *mcp.Server
}

// NewServer validates the ports and registers the tool handlers.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	freshness := ports.Freshness
	if freshness.NewWithinDays <= 0 {
		freshness = domain.DefaultFreshnessPolicy
	}

	s := &Server{
		ports:     ports,
		freshness: freshness,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "relnotes",
			Version: Version,
		}, nil),
	}
	s.registerTools()

	return s, nil
}

// Run serves over stdio until the context is cancelled. Stdout belongs to
// the transport; anything the process wants to log goes to stderr.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves over the streamable HTTP transport on addr, shutting the
// listener down when the context is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr: addr,
		Handler: mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return s.server
		}, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
