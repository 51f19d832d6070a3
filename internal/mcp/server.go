package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/scriptlens/internal/workspace"
)

// ServerName and ServerVersion identify the server during MCP initialization.
const (
	ServerName    = "scriptlens-mcp"
	ServerVersion = "1.0.0"
)

// MCPServerConfig contains configuration for the MCP server.
type MCPServerConfig struct {
	ProjectPath  string   // Base for relative file_path arguments
	DefaultRoots []string // Roots used when a references call names none
}

// MCPServer manages the MCP server lifecycle.
type MCPServer struct {
	config *MCPServerConfig
	svc    *workspace.Service
	logger *slog.Logger
	mcp    *server.MCPServer
}

// NewMCPServer creates an MCP server exposing the script analyses of svc.
func NewMCPServer(config *MCPServerConfig, svc *workspace.Service, logger *slog.Logger) (*MCPServer, error) {
	if svc == nil {
		return nil, fmt.Errorf("analysis service is required")
	}
	if config == nil {
		config = &MCPServerConfig{ProjectPath: "."}
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)

	AddScriptOutlineTool(mcpServer, svc, config.ProjectPath)
	AddScriptReferencesTool(mcpServer, svc, config.ProjectPath, config.DefaultRoots)

	return &MCPServer{
		config: config,
		svc:    svc,
		logger: logger,
		mcp:    mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio", "project", s.config.ProjectPath)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		s.logger.Info("received shutdown signal, stopping gracefully")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the analysis cache.
func (s *MCPServer) Close() error {
	s.svc.Close()
	return nil
}
