package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"inkpad/internal/domain"
)

func (s *Server) registerToolTools() {
	s.mcp.AddTool(mcp.NewTool("select_tool",
		mcp.WithDescription("Select the drawing tool and optionally its color and width"),
		sessionIDParam(),
		mcp.WithString("kind", mcp.Description("pen or eraser"),
			mcp.Enum(string(domain.ToolPen), string(domain.ToolEraser)), mcp.Required()),
		mcp.WithString("color", mcp.Description("Stroke color #rrggbb (optional)")),
		mcp.WithNumber("width", mcp.Description("Stroke width (optional)")),
	), s.handleSelectTool)

	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last stroke"),
		sessionIDParam(),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone stroke"),
		sessionIDParam(),
	), s.handleRedo)

	s.mcp.AddTool(mcp.NewTool("clear",
		mcp.WithDescription("Erase every stroke on the page"),
		sessionIDParam(),
	), s.handleClear)
}

func (s *Server) handleSelectTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req)
	if err != nil {
		return nil, err
	}
	tool, err := s.sessions.SelectTool(ctx, id, domain.ToolKind(req.GetString("kind", "")))
	if err != nil {
		return nil, err
	}
	if color := req.GetString("color", ""); color != "" {
		if tool, err = s.sessions.SetColor(ctx, id, color); err != nil {
			return nil, err
		}
	}
	if width := req.GetFloat("width", 0); width != 0 {
		if tool, err = s.sessions.SetWidth(ctx, id, width); err != nil {
			return nil, err
		}
	}
	return jsonResult(tool)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Undo(ctx, id); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Undo sent to session %s", id)), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Redo(ctx, id); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Redo sent to session %s", id)), nil
}

func (s *Server) handleClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Clear(ctx, id); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Page cleared in session %s", id)), nil
}
