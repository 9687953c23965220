package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"inkpad/internal/domain"
)

// gestureResult reports whether the gesture was consumed plus the new state.
type gestureResult struct {
	Handled bool                 `json:"handled"`
	State   domain.ViewportState `json:"state"`
}

func pointerParam() mcp.ToolOption {
	return mcp.WithString("pointer",
		mcp.Description("Input source: touch, pen or mouse. Only touch pans or zooms."),
		mcp.Enum(string(domain.PointerTouch), string(domain.PointerPen), string(domain.PointerMouse)),
		mcp.Required(),
	)
}

func (s *Server) registerGestureTools() {
	s.mcp.AddTool(mcp.NewTool("pan",
		mcp.WithDescription("Simulate a pan gesture"),
		sessionIDParam(),
		pointerParam(),
		mcp.WithNumber("dx", mcp.Description("Horizontal delta"), mcp.Required()),
		mcp.WithNumber("dy", mcp.Description("Vertical delta"), mcp.Required()),
	), s.handlePan)

	s.mcp.AddTool(mcp.NewTool("pinch",
		mcp.WithDescription("Simulate a pinch-zoom gesture around an anchor point in viewport coordinates"),
		sessionIDParam(),
		pointerParam(),
		mcp.WithNumber("factor", mcp.Description("Zoom multiplier, e.g. 1.5 or 0.5"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("Anchor X (default 0)")),
		mcp.WithNumber("y", mcp.Description("Anchor Y (default 0)")),
	), s.handlePinch)

	s.mcp.AddTool(mcp.NewTool("scroll_to",
		mcp.WithDescription("Scroll the content offset to an absolute position"),
		sessionIDParam(),
		mcp.WithNumber("x", mcp.Description("Offset X"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Offset Y"), mcp.Required()),
	), s.handleScrollTo)
}

func (s *Server) handlePan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req)
	if err != nil {
		return nil, err
	}
	kind := domain.PointerKind(req.GetString("pointer", ""))
	handled, err := s.sessions.Pan(ctx, id, kind, req.GetFloat("dx", 0), req.GetFloat("dy", 0))
	if err != nil {
		return nil, err
	}
	return s.gestureResult(ctx, id, handled)
}

func (s *Server) handlePinch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req)
	if err != nil {
		return nil, err
	}
	kind := domain.PointerKind(req.GetString("pointer", ""))
	handled, err := s.sessions.Pinch(ctx, id, kind,
		req.GetFloat("factor", 1), req.GetFloat("x", 0), req.GetFloat("y", 0))
	if err != nil {
		return nil, err
	}
	return s.gestureResult(ctx, id, handled)
}

func (s *Server) handleScrollTo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.ScrollTo(ctx, id, req.GetFloat("x", 0), req.GetFloat("y", 0)); err != nil {
		return nil, err
	}
	return s.stateResult(ctx, id)
}

func (s *Server) gestureResult(ctx context.Context, id string, handled bool) (*mcp.CallToolResult, error) {
	st, err := s.sessions.State(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonResult(gestureResult{Handled: handled, State: st})
}
