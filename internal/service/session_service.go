package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"inkpad/internal/config"
	"inkpad/internal/domain"
	"inkpad/internal/session"
	"inkpad/internal/uiloop"
)

// ─────────────────────────────────────────────────────────────
// Session Service: registry of editing sessions
// ─────────────────────────────────────────────────────────────
//
// Callers hold opaque session IDs; the sessions themselves live in a map
// that is only touched from the UI loop. Every exported method hops onto
// the loop with Loop.Call, so they are safe to call from any goroutine.

// ErrSessionNotFound is returned for unknown or closed session IDs.
var ErrSessionNotFound = errors.New("session not found")

// OpenSessionInput describes a new editing session. Zero sizes fall back
// to the configured page and defer the initial fit until the first resize.
type OpenSessionInput struct {
	ViewportWidth  float64 `json:"viewportWidth"`
	ViewportHeight float64 `json:"viewportHeight"`
	PageWidth      float64 `json:"pageWidth"`
	PageHeight     float64 `json:"pageHeight"`
}

// SessionService manages every open editing session.
type SessionService struct {
	loop    *uiloop.Loop
	emitter EventEmitter

	mu          sync.Mutex
	cfg         config.Config
	defaultTool domain.ToolState

	sessions map[string]*session.Session // loop-owned
}

// NewSessionService creates a SessionService. The loop must be running.
func NewSessionService(loop *uiloop.Loop, emitter EventEmitter, cfg config.Config) *SessionService {
	return &SessionService{
		loop:        loop,
		emitter:     emitter,
		cfg:         cfg,
		defaultTool: cfg.ToolState(),
		sessions:    make(map[string]*session.Session),
	}
}

// SetDefaultTool sets the tool new sessions start with.
func (s *SessionService) SetDefaultTool(t domain.ToolState) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.defaultTool = t
	s.mu.Unlock()
	return nil
}

func (s *SessionService) defaults() (config.Config, domain.ToolState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.defaultTool
}

// Open starts a session and returns its handle.
func (s *SessionService) Open(ctx context.Context, in OpenSessionInput) (string, error) {
	cfg, tool := s.defaults()
	pageSize := domain.Size{Width: in.PageWidth, Height: in.PageHeight}
	if !pageSize.Valid() {
		pageSize = cfg.PageSize()
	}

	id := uuid.New().String()
	sess := session.New(session.Options{
		ID:       id,
		PageSize: pageSize,
		MinZoom:  cfg.Zoom.Min,
		MaxZoom:  cfg.Zoom.Max,
		Tool:     tool,
		Surface:  emitterSurface{ctx: ctx, emitter: s.emitter, sessionID: id},
		Undo:     emitterUndo{ctx: ctx, emitter: s.emitter, sessionID: id},
		Observer: func(st domain.ViewportState) {
			s.emitter.Emit(ctx, EventViewportChanged, st)
		},
	})

	var openErr error
	err := s.loop.Call(ctx, func() {
		// The caller has already given up; nobody would learn the handle.
		if openErr = ctx.Err(); openErr != nil {
			return
		}
		if openErr = sess.Open(s.loop); openErr != nil {
			return
		}
		s.sessions[id] = sess
		vp := domain.Size{Width: in.ViewportWidth, Height: in.ViewportHeight}
		if vp.Valid() {
			openErr = sess.Resize(vp)
		}
	})
	if err != nil {
		// The task may have registered the session just before ctx expired.
		go s.loop.Post(func() { s.discard(id) })
		return "", fmt.Errorf("open session: %w", err)
	}
	if openErr != nil {
		return "", fmt.Errorf("open session: %w", openErr)
	}
	return id, nil
}

func (s *SessionService) discard(id string) {
	if sess, ok := s.sessions[id]; ok {
		sess.Close()
		delete(s.sessions, id)
	}
}

// Close ends a session. The handle is invalid afterwards.
func (s *SessionService) Close(ctx context.Context, id string) error {
	err := s.with(ctx, id, func(sess *session.Session) error {
		sess.Close()
		delete(s.sessions, id)
		return nil
	})
	if err != nil {
		return err
	}
	s.emitter.Emit(ctx, EventSessionClosed, map[string]string{"sessionId": id})
	return nil
}

// CloseAll ends every open session.
func (s *SessionService) CloseAll(ctx context.Context) error {
	return s.loop.Call(ctx, func() {
		for id, sess := range s.sessions {
			sess.Close()
			delete(s.sessions, id)
		}
	})
}

// List returns the open session IDs, sorted.
func (s *SessionService) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.loop.Call(ctx, func() {
		for id := range s.sessions {
			ids = append(ids, id)
		}
	})
	sort.Strings(ids)
	return ids, err
}

// ── Geometry ───────────────────────────────────────────────

func (s *SessionService) Resize(ctx context.Context, id string, width, height float64) error {
	return s.with(ctx, id, func(sess *session.Session) error {
		return sess.Resize(domain.Size{Width: width, Height: height})
	})
}

// Pan reports whether the gesture moved the viewport. Pen input never does.
func (s *SessionService) Pan(ctx context.Context, id string, kind domain.PointerKind, dx, dy float64) (bool, error) {
	var handled bool
	err := s.with(ctx, id, func(sess *session.Session) (err error) {
		handled, err = sess.Pan(kind, dx, dy)
		return err
	})
	return handled, err
}

// Pinch reports whether the gesture changed the zoom. Pen input never does.
func (s *SessionService) Pinch(ctx context.Context, id string, kind domain.PointerKind, factor, anchorX, anchorY float64) (bool, error) {
	var handled bool
	err := s.with(ctx, id, func(sess *session.Session) (err error) {
		handled, err = sess.Pinch(kind, factor, domain.Point{X: anchorX, Y: anchorY})
		return err
	})
	return handled, err
}

func (s *SessionService) ScrollTo(ctx context.Context, id string, x, y float64) error {
	return s.with(ctx, id, func(sess *session.Session) error {
		return sess.ScrollTo(domain.Point{X: x, Y: y})
	})
}

func (s *SessionService) SetPageSize(ctx context.Context, id string, width, height float64) error {
	return s.with(ctx, id, func(sess *session.Session) error {
		return sess.SetPageSize(domain.Size{Width: width, Height: height})
	})
}

// State returns the current viewport snapshot.
func (s *SessionService) State(ctx context.Context, id string) (domain.ViewportState, error) {
	var st domain.ViewportState
	err := s.with(ctx, id, func(sess *session.Session) error {
		st = sess.State()
		return nil
	})
	return st, err
}

// ApplyConfig makes cfg the default for new sessions and pushes a
// changed page size into every open session.
func (s *SessionService) ApplyConfig(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	var errs []error
	err := s.loop.Call(ctx, func() {
		for id, sess := range s.sessions {
			if err := sess.SetPageSize(cfg.PageSize()); err != nil {
				errs = append(errs, fmt.Errorf("session %s: %w", id, err))
			}
		}
	})
	if err != nil {
		return err
	}
	return errors.Join(errs...)
}

// ── Tools ──────────────────────────────────────────────────

func (s *SessionService) SelectTool(ctx context.Context, id string, kind domain.ToolKind) (domain.ToolState, error) {
	return s.tool(ctx, id, func(sess *session.Session) error { return sess.SelectTool(kind) })
}

func (s *SessionService) SetColor(ctx context.Context, id, color string) (domain.ToolState, error) {
	return s.tool(ctx, id, func(sess *session.Session) error { return sess.SetColor(color) })
}

func (s *SessionService) SetWidth(ctx context.Context, id string, width float64) (domain.ToolState, error) {
	return s.tool(ctx, id, func(sess *session.Session) error { return sess.SetWidth(width) })
}

func (s *SessionService) tool(ctx context.Context, id string, apply func(*session.Session) error) (domain.ToolState, error) {
	var t domain.ToolState
	err := s.with(ctx, id, func(sess *session.Session) error {
		if err := apply(sess); err != nil {
			return err
		}
		t = sess.Tool()
		return nil
	})
	return t, err
}

// ── Undo ───────────────────────────────────────────────────

func (s *SessionService) Undo(ctx context.Context, id string) error {
	return s.with(ctx, id, func(sess *session.Session) error { return sess.Undo() })
}

func (s *SessionService) Redo(ctx context.Context, id string) error {
	return s.with(ctx, id, func(sess *session.Session) error { return sess.Redo() })
}

// Clear wipes the session's drawing.
func (s *SessionService) Clear(ctx context.Context, id string) error {
	return s.with(ctx, id, func(sess *session.Session) error { return sess.Clear() })
}

// with runs fn on the loop against session id.
func (s *SessionService) with(ctx context.Context, id string, fn func(*session.Session) error) error {
	var fnErr error
	err := s.loop.Call(ctx, func() {
		sess, ok := s.sessions[id]
		if !ok {
			fnErr = ErrSessionNotFound
			return
		}
		fnErr = fn(sess)
	})
	if err != nil {
		return err
	}
	if fnErr != nil {
		return fmt.Errorf("session %s: %w", id, fnErr)
	}
	return nil
}
