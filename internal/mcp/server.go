package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/finxan/ai-service/internal/chat"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the inventory assistant as tools.
type Server struct {
	svc *chat.Service
	mcp *server.MCPServer
}

// NewServer creates a new MCP server around the chat service.
func NewServer(svc *chat.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"finxan-ai",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(askAssistantTool, s.handleAskAssistant)
	s.mcp.AddTool(composePromptTool, s.handleComposePrompt)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
