package mcpserver

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"inkpad/internal/service"
)

// Server is the MCP server for inkpad. It drives editing sessions
// headlessly so agents and scripts can inspect fit and centering.
type Server struct {
	mcp      *server.MCPServer
	sessions *service.SessionService

	// Session used when a tool call omits sessionId (set by open_session)
	mu              sync.Mutex
	activeSessionID string
}

// New creates and configures a new MCP server with all tools.
func New(sessions *service.SessionService) *Server {
	s := &Server{sessions: sessions}

	s.mcp = server.NewMCPServer(
		"inkpad-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerSessionTools()
	s.registerGestureTools()
	s.registerToolTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// resolveSessionID returns the sessionId argument or falls back to the
// most recently opened session.
func (s *Server) resolveSessionID(req mcp.CallToolRequest) (string, error) {
	if id := req.GetString("sessionId", ""); id != "" {
		return id, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeSessionID != "" {
		return s.activeSessionID, nil
	}
	return "", fmt.Errorf("no sessionId provided and no session open (use open_session first)")
}

func (s *Server) setActive(id string) {
	s.mu.Lock()
	s.activeSessionID = id
	s.mu.Unlock()
}

// clearActive forgets id if it is the active session.
func (s *Server) clearActive(id string) {
	s.mu.Lock()
	if s.activeSessionID == id {
		s.activeSessionID = ""
	}
	s.mu.Unlock()
}
