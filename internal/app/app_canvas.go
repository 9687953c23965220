package app

// ─────────────────────────────────────────────────────────────
// Canvas Handlers: thin delegates to SessionService
// ─────────────────────────────────────────────────────────────

import (
	"inkpad/internal/domain"
	"inkpad/internal/service"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// ── Sessions ───────────────────────────────────────────────

// OpenSession starts an editing session. Pass 0×0 when the canvas has not
// been laid out yet; the page is fitted on the first ResizeViewport.
func (a *App) OpenSession(viewportWidth, viewportHeight float64) (string, error) {
	id, err := a.sessions.Open(a.ctx, service.OpenSessionInput{
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
	})
	if err != nil {
		return "", err
	}
	wailsRuntime.LogInfof(a.ctx, "[OpenSession] %s (%.0fx%.0f)", id, viewportWidth, viewportHeight)
	return id, nil
}

func (a *App) CloseSession(id string) error {
	wailsRuntime.LogInfof(a.ctx, "[CloseSession] %s", id)
	return a.sessions.Close(a.ctx, id)
}

func (a *App) GetViewportState(id string) (domain.ViewportState, error) {
	return a.sessions.State(a.ctx, id)
}

// ── Geometry ───────────────────────────────────────────────

func (a *App) ResizeViewport(id string, width, height float64) error {
	return a.sessions.Resize(a.ctx, id, width, height)
}

// Pan applies a pan gesture. pointer is "touch", "pen" or "mouse"; only
// touch moves the page.
func (a *App) Pan(id, pointer string, dx, dy float64) (bool, error) {
	return a.sessions.Pan(a.ctx, id, domain.PointerKind(pointer), dx, dy)
}

// Pinch applies a pinch gesture anchored at (x, y) in viewport coordinates.
func (a *App) Pinch(id, pointer string, factor, x, y float64) (bool, error) {
	return a.sessions.Pinch(a.ctx, id, domain.PointerKind(pointer), factor, x, y)
}

func (a *App) ScrollTo(id string, x, y float64) error {
	return a.sessions.ScrollTo(a.ctx, id, x, y)
}

func (a *App) SetPageSize(id string, width, height float64) error {
	return a.sessions.SetPageSize(a.ctx, id, width, height)
}

// ── Tools ──────────────────────────────────────────────────

func (a *App) SelectTool(id, kind string) (domain.ToolState, error) {
	return a.rememberTool(a.sessions.SelectTool(a.ctx, id, domain.ToolKind(kind)))
}

func (a *App) SetToolColor(id, color string) (domain.ToolState, error) {
	return a.rememberTool(a.sessions.SetColor(a.ctx, id, color))
}

func (a *App) SetToolWidth(id string, width float64) (domain.ToolState, error) {
	return a.rememberTool(a.sessions.SetWidth(a.ctx, id, width))
}

// rememberTool makes a successful selection the default for new sessions
// and for the next launch.
func (a *App) rememberTool(t domain.ToolState, err error) (domain.ToolState, error) {
	if err != nil {
		return t, err
	}
	if err := a.sessions.SetDefaultTool(t); err != nil {
		wailsRuntime.LogDebugf(a.ctx, "Default tool not updated: %v", err)
	}
	if err := a.settings.SaveTool(t); err != nil {
		wailsRuntime.LogDebugf(a.ctx, "Tool not saved: %v", err)
	}
	return t, nil
}

// ── Undo ───────────────────────────────────────────────────

func (a *App) Undo(id string) error {
	return a.sessions.Undo(a.ctx, id)
}

func (a *App) Redo(id string) error {
	return a.sessions.Redo(a.ctx, id)
}

func (a *App) Clear(id string) error {
	return a.sessions.Clear(a.ctx, id)
}
