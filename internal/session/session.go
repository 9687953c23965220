// Package session ties one page, its viewport and the drawing tool state
// into a single note-editing session.
//
// A Session is owned by a UI loop: every method must be called from the
// loop goroutine, and the deferred initial fit is posted back to it.
package session

import (
	"errors"

	"inkpad/internal/domain"
	"inkpad/internal/viewport"
)

// ErrClosed is returned by every operation on a closed session.
var ErrClosed = errors.New("session closed")

// Surface is the inking layer the page is drawn on.
type Surface interface {
	SetBounds(r domain.Rect)
	SetTool(t domain.ToolState)
	Clear()
}

// UndoManager owns the stroke history. The session only forwards triggers.
type UndoManager interface {
	Undo()
	Redo()
}

// Poster schedules a task on the UI loop without blocking it.
// *uiloop.Loop satisfies it.
type Poster interface {
	TryPost(fn func()) bool
}

// Observer receives a snapshot after every change to the viewport.
type Observer func(state domain.ViewportState)

// Options configures a new session. Zero values pick the defaults.
type Options struct {
	ID       string
	PageSize domain.Size
	MinZoom  float64
	MaxZoom  float64
	Tool     domain.ToolState
	Surface  Surface
	Undo     UndoManager
	Observer Observer
}

type Session struct {
	id        string
	page      domain.Page
	container *viewport.Container
	fitter    *viewport.Fitter
	router    *viewport.Router
	tool      domain.ToolState
	surface   Surface
	undo      UndoManager
	observer  Observer
	detach    func()

	alive      bool
	closed     bool
	fitted     bool
	fitPending bool
}

type nopSurface struct{}

func (nopSurface) SetBounds(domain.Rect)    {}
func (nopSurface) SetTool(domain.ToolState) {}
func (nopSurface) Clear()                   {}

type nopUndo struct{}

func (nopUndo) Undo() {}
func (nopUndo) Redo() {}

// New builds a session. It does nothing visible until Open.
func New(opts Options) *Session {
	if !opts.PageSize.Valid() {
		opts.PageSize = domain.DefaultPageSize
	}
	if opts.Tool.Validate() != nil {
		opts.Tool = domain.DefaultToolState()
	}
	if opts.Surface == nil {
		opts.Surface = nopSurface{}
	}
	if opts.Undo == nil {
		opts.Undo = nopUndo{}
	}

	s := &Session{
		id:        opts.ID,
		page:      domain.Page{Size: opts.PageSize},
		container: viewport.NewContainer(opts.MinZoom, opts.MaxZoom),
		tool:      opts.Tool,
		surface:   opts.Surface,
		undo:      opts.Undo,
		observer:  opts.Observer,
	}
	s.fitter = viewport.NewFitter(s.surface)
	s.router = viewport.NewRouter(s.container)
	s.container.SetContentSize(s.page.Size)
	return s
}

func (s *Session) ID() string { return s.id }

// Open pushes the page bounds and tool to the surface and schedules the
// initial fit to run after the current layout pass. If the container has
// no usable size by then, the fit waits for the first valid Resize.
// A closed session cannot be reopened.
func (s *Session) Open(loop Poster) error {
	if s.closed {
		return ErrClosed
	}
	if s.alive {
		return nil
	}
	s.alive = true
	s.detach = s.fitter.Attach(s.container, func() domain.Page { return s.page })
	s.surface.SetBounds(s.page.Bounds())
	s.surface.SetTool(s.tool)

	if !loop.TryPost(func() {
		if !s.alive || s.fitted {
			return
		}
		s.tryInitialFit()
		s.publish()
	}) {
		// Loop stopped or queue full; the next valid Resize takes over.
		s.fitPending = true
	}
	return nil
}

// Close ends the session. A deferred fit that fires afterwards does nothing.
func (s *Session) Close() {
	if !s.alive {
		return
	}
	s.alive = false
	s.closed = true
	if s.detach != nil {
		s.detach()
		s.detach = nil
	}
}

func (s *Session) Alive() bool { return s.alive }

func (s *Session) tryInitialFit() {
	if s.fitter.ApplyInitialFit(s.container, s.page) {
		s.fitted = true
		s.fitPending = false
		return
	}
	s.fitPending = true
}

// Resize records a new container size, completing a pending initial fit
// if this is the first valid size.
func (s *Session) Resize(size domain.Size) error {
	if !s.alive {
		return ErrClosed
	}
	s.container.SetSize(size)
	if s.fitPending {
		s.tryInitialFit()
	}
	s.publish()
	return nil
}

// Pan applies a pan gesture. handled is false for non-touch input.
func (s *Session) Pan(kind domain.PointerKind, dx, dy float64) (handled bool, err error) {
	if !s.alive {
		return false, ErrClosed
	}
	if handled = s.router.Pan(kind, dx, dy); handled {
		s.publish()
	}
	return handled, nil
}

// Pinch applies a pinch gesture around anchor. handled is false for
// non-touch input.
func (s *Session) Pinch(kind domain.PointerKind, factor float64, anchor domain.Point) (handled bool, err error) {
	if !s.alive {
		return false, ErrClosed
	}
	if handled = s.router.Pinch(kind, factor, anchor); handled {
		s.publish()
	}
	return handled, nil
}

// ScrollTo moves the content offset programmatically.
func (s *Session) ScrollTo(p domain.Point) error {
	if !s.alive {
		return ErrClosed
	}
	if s.container.SetOffset(p) {
		s.publish()
	}
	return nil
}

// SetPageSize resizes the page and keeps it fitted.
func (s *Session) SetPageSize(size domain.Size) error {
	if !s.alive {
		return ErrClosed
	}
	if s.fitter.OnPageSizeChanged(s.container, &s.page, size) {
		s.publish()
	}
	return nil
}

// ── Tools ──────────────────────────────────────────────────

func (s *Session) Tool() domain.ToolState { return s.tool }

func (s *Session) SelectTool(k domain.ToolKind) error {
	return s.updateTool(func(t *domain.ToolState) error { return t.SetKind(k) })
}

func (s *Session) SetColor(c string) error {
	return s.updateTool(func(t *domain.ToolState) error { return t.SetColor(c) })
}

func (s *Session) SetWidth(w float64) error {
	return s.updateTool(func(t *domain.ToolState) error { return t.SetWidth(w) })
}

func (s *Session) updateTool(apply func(*domain.ToolState) error) error {
	if !s.alive {
		return ErrClosed
	}
	next := s.tool
	if err := apply(&next); err != nil {
		return err
	}
	if next == s.tool {
		return nil
	}
	s.tool = next
	s.surface.SetTool(next)
	return nil
}

// ── Undo ───────────────────────────────────────────────────

func (s *Session) Undo() error {
	if !s.alive {
		return ErrClosed
	}
	s.undo.Undo()
	return nil
}

func (s *Session) Redo() error {
	if !s.alive {
		return ErrClosed
	}
	s.undo.Redo()
	return nil
}

// Clear wipes every stroke on the page. Clearing is not undoable.
func (s *Session) Clear() error {
	if !s.alive {
		return ErrClosed
	}
	s.surface.Clear()
	return nil
}

// ── State ──────────────────────────────────────────────────

// State snapshots the viewport for the rendering layer.
func (s *Session) State() domain.ViewportState {
	c := s.container
	return domain.ViewportState{
		SessionID:    s.id,
		ViewportSize: c.Size(),
		PageSize:     s.page.Size,
		Zoom:         c.Zoom(),
		MinZoom:      c.MinZoom(),
		MaxZoom:      c.MaxZoom(),
		Offset:       c.Offset(),
		Inset:        c.Inset(),
		Fitted:       s.fitted,
	}
}

func (s *Session) publish() {
	if s.observer != nil {
		s.observer(s.State())
	}
}
