package service

import (
	"context"

	"inkpad/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples services from wailsRuntime
// ─────────────────────────────────────────────────────────────

// Event names sent to the frontend.
const (
	EventViewportChanged = "viewport:changed"
	EventCanvasBounds    = "canvas:bounds"
	EventCanvasTool      = "canvas:tool"
	EventCanvasUndo      = "canvas:undo"
	EventCanvasRedo      = "canvas:redo"
	EventCanvasClear     = "canvas:clear"
	EventSessionClosed   = "session:closed"
)

// EventEmitter is an interface for emitting events to the frontend.
// The App struct implements this by delegating to wailsRuntime.EventsEmit.
// Services receive this interface instead of a wailsRuntime context,
// which makes them independently testable with a mock emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Named returns the recorded events called name, in order.
func (m *MockEmitter) Named(name string) []EmittedEvent {
	var out []EmittedEvent
	for _, e := range m.Events {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

// ── Collaborators backed by the emitter ────────────────────

// emitterSurface forwards drawing-surface updates to the frontend ink layer.
type emitterSurface struct {
	ctx       context.Context
	emitter   EventEmitter
	sessionID string
}

func (s emitterSurface) SetBounds(r domain.Rect) {
	s.emitter.Emit(s.ctx, EventCanvasBounds, map[string]any{"sessionId": s.sessionID, "bounds": r})
}

func (s emitterSurface) SetTool(t domain.ToolState) {
	s.emitter.Emit(s.ctx, EventCanvasTool, map[string]any{"sessionId": s.sessionID, "tool": t})
}

func (s emitterSurface) Clear() {
	s.emitter.Emit(s.ctx, EventCanvasClear, map[string]string{"sessionId": s.sessionID})
}

// emitterUndo forwards undo/redo to the frontend, which owns stroke history.
type emitterUndo struct {
	ctx       context.Context
	emitter   EventEmitter
	sessionID string
}

func (u emitterUndo) Undo() {
	u.emitter.Emit(u.ctx, EventCanvasUndo, map[string]string{"sessionId": u.sessionID})
}

func (u emitterUndo) Redo() {
	u.emitter.Emit(u.ctx, EventCanvasRedo, map[string]string{"sessionId": u.sessionID})
}
