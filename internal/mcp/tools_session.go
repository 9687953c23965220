package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"inkpad/internal/domain"
	"inkpad/internal/service"
)

func sessionIDParam() mcp.ToolOption {
	return mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to the last opened session)"))
}

func (s *Server) registerSessionTools() {
	// ── open_session ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_session",
		mcp.WithDescription("Open an editing session. With a viewport size the page is fitted and centered; without one the fit waits for resize_viewport."),
		mcp.WithNumber("viewportWidth", mcp.Description("Visible width in layout units")),
		mcp.WithNumber("viewportHeight", mcp.Description("Visible height in layout units")),
		mcp.WithNumber("pageWidth", mcp.Description("Page width (optional, defaults to config)")),
		mcp.WithNumber("pageHeight", mcp.Description("Page height (optional, defaults to config)")),
	), s.handleOpenSession)

	// ── close_session ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("close_session",
		mcp.WithDescription("Close an editing session"),
		sessionIDParam(),
	), s.handleCloseSession)

	// ── get_viewport_state ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_viewport_state",
		mcp.WithDescription("Return zoom, zoom bounds, scroll offset and centering inset of a session"),
		sessionIDParam(),
	), s.handleGetViewportState)

	// ── resize_viewport ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_viewport",
		mcp.WithDescription("Change the visible size (rotation, window resize)"),
		sessionIDParam(),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizeViewport)

	// ── set_page_size ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_page_size",
		mcp.WithDescription("Resize the page and keep it fitted"),
		sessionIDParam(),
		mcp.WithNumber("width", mcp.Description("New page width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New page height"), mcp.Required()),
	), s.handleSetPageSize)
}

func (s *Server) handleOpenSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.sessions.Open(ctx, service.OpenSessionInput{
		ViewportWidth:  req.GetFloat("viewportWidth", 0),
		ViewportHeight: req.GetFloat("viewportHeight", 0),
		PageWidth:      req.GetFloat("pageWidth", 0),
		PageHeight:     req.GetFloat("pageHeight", 0),
	})
	if err != nil {
		return nil, err
	}
	s.setActive(id)
	st, err := s.sessions.State(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonResult(st)
}

func (s *Server) handleCloseSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Close(ctx, id); err != nil {
		return nil, err
	}
	s.clearActive(id)
	return textResult(fmt.Sprintf("Session %s closed", id)), nil
}

func (s *Server) handleGetViewportState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req)
	if err != nil {
		return nil, err
	}
	return s.stateResult(ctx, id)
}

func (s *Server) handleResizeViewport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Resize(ctx, id, req.GetFloat("width", 0), req.GetFloat("height", 0)); err != nil {
		return nil, err
	}
	return s.stateResult(ctx, id)
}

func (s *Server) handleSetPageSize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req)
	if err != nil {
		return nil, err
	}
	w, h := req.GetFloat("width", 0), req.GetFloat("height", 0)
	if !(domain.Size{Width: w, Height: h}).Valid() {
		return nil, fmt.Errorf("page size must be positive, got %vx%v", w, h)
	}
	if err := s.sessions.SetPageSize(ctx, id, w, h); err != nil {
		return nil, err
	}
	return s.stateResult(ctx, id)
}

func (s *Server) stateResult(ctx context.Context, id string) (*mcp.CallToolResult, error) {
	st, err := s.sessions.State(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonResult(st)
}
