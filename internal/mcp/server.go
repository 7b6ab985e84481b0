// Package mcp exposes the command executor as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/vibe-coder/vibe/internal/executor"
)

const serverName = "vibe-mcp"

// Server manages the MCP server lifecycle.
type Server struct {
	exec   *executor.Executor
	logger *zap.Logger
	mcp    *server.MCPServer
}

// NewServer creates an MCP server with the vibe tools registered.
func NewServer(exec *executor.Executor, version string, logger *zap.Logger) (*Server, error) {
	if exec == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
	)

	AddCommandTool(mcpServer, exec)
	AddOutlineTool(mcpServer, exec)
	AddTreeTool(mcpServer, exec)

	return &Server{
		exec:   exec,
		logger: logger,
		mcp:    mcpServer,
	}, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		s.logger.Info("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
