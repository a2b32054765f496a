// Package mcp exposes the scan pipeline over the Model Context
// Protocol on stdio, so agent clients can request symbol tables and
// tree dumps without shelling out to the CLI.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/semanta/internal/config"
)

// Server manages the MCP server lifecycle.
type Server struct {
	root string
	cfg  *config.Config
	mcp  *server.MCPServer
}

// NewServer creates an MCP server rooted at the given project
// directory.
func NewServer(root string, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	mcpServer := server.NewMCPServer(
		"semanta-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &Server{root: root, cfg: cfg, mcp: mcpServer}
	AddSymbolsTool(mcpServer, s)
	AddTreeTool(mcpServer, s)
	return s
}

// Serve runs the server on stdio until the context is cancelled or an
// interrupt arrives.
func (s *Server) Serve(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		if err := server.ServeStdio(s.mcp); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-sigChan:
		log.Printf("Received %v, shutting down", sig)
		return nil
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("mcp server failed: %w", err)
		}
		return nil
	}
}
