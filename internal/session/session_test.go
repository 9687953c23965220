package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpad/internal/domain"
	"inkpad/internal/session"
	"inkpad/internal/uiloop"
)

// ─────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────

// queue is a manual Poster: tasks run only when drain is called.
type queue struct {
	tasks  []func()
	closed bool
	full   bool
}

func (q *queue) TryPost(fn func()) bool {
	if q.closed || q.full {
		return false
	}
	q.tasks = append(q.tasks, fn)
	return true
}

func (q *queue) drain() {
	for len(q.tasks) > 0 {
		fn := q.tasks[0]
		q.tasks = q.tasks[1:]
		fn()
	}
}

type fakeSurface struct {
	bounds []domain.Rect
	tools  []domain.ToolState
	clears int
}

func (f *fakeSurface) SetBounds(r domain.Rect)    { f.bounds = append(f.bounds, r) }
func (f *fakeSurface) SetTool(t domain.ToolState) { f.tools = append(f.tools, t) }
func (f *fakeSurface) Clear()                     { f.clears++ }

type fakeUndo struct{ undos, redos int }

func (f *fakeUndo) Undo() { f.undos++ }
func (f *fakeUndo) Redo() { f.redos++ }

type harness struct {
	s       *session.Session
	q       *queue
	surface *fakeSurface
	undo    *fakeUndo
	states  []domain.ViewportState
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{q: &queue{}, surface: &fakeSurface{}, undo: &fakeUndo{}}
	h.s = session.New(session.Options{
		ID:       "s1",
		Surface:  h.surface,
		Undo:     h.undo,
		Observer: func(st domain.ViewportState) { h.states = append(h.states, st) },
	})
	require.NoError(t, h.s.Open(h.q))
	return h
}

// ─────────────────────────────────────────────────────────────
// Deferred initial fit
// ─────────────────────────────────────────────────────────────

func TestOpen_PushesBoundsAndTool(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []domain.Rect{{Width: 1200, Height: 1600}}, h.surface.bounds)
	assert.Equal(t, []domain.ToolState{domain.DefaultToolState()}, h.surface.tools)
	assert.Len(t, h.q.tasks, 1, "initial fit is deferred")
}

func TestInitialFit_RunsAfterLayout(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Resize(domain.Size{Width: 800, Height: 1000}))
	assert.False(t, h.s.State().Fitted, "fit must not run synchronously")

	h.q.drain()

	st := h.s.State()
	assert.True(t, st.Fitted)
	assert.InDelta(t, 0.625, st.Zoom, 1e-9)
	assert.InDelta(t, 25, st.Inset.Left, 1e-9)
}

func TestInitialFit_WaitsForValidSize(t *testing.T) {
	h := newHarness(t)
	h.q.drain() // layout has not produced a size yet

	st := h.s.State()
	assert.False(t, st.Fitted)
	assert.Equal(t, 1.0, st.Zoom)

	require.NoError(t, h.s.Resize(domain.Size{Width: 0, Height: 500}))
	assert.False(t, h.s.State().Fitted)

	require.NoError(t, h.s.Resize(domain.Size{Width: 1000, Height: 1000}))
	st = h.s.State()
	assert.True(t, st.Fitted)
	assert.InDelta(t, 0.625, st.Zoom, 1e-9)
	assert.InDelta(t, 125, st.Inset.Left, 1e-9)
}

func TestInitialFit_OnlyOnce(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Resize(domain.Size{Width: 800, Height: 1000}))
	h.q.drain()

	_, err := h.s.Pinch(domain.PointerTouch, 2, domain.Point{})
	require.NoError(t, err)
	require.NoError(t, h.s.Resize(domain.Size{Width: 1000, Height: 800}))

	assert.InDelta(t, 1.25, h.s.State().Zoom, 1e-9, "resize after the fit keeps the user's zoom")
}

func TestInitialFit_NoopAfterClose(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Resize(domain.Size{Width: 800, Height: 1000}))
	published := len(h.states)

	h.s.Close()
	h.q.drain()

	assert.False(t, h.s.State().Fitted)
	assert.Equal(t, 1.0, h.s.State().Zoom)
	assert.Len(t, h.states, published, "nothing published after close")
}

func TestOpen_LoopGoneFallsBackToResize(t *testing.T) {
	q := &queue{closed: true}
	s := session.New(session.Options{})
	require.NoError(t, s.Open(q))

	require.NoError(t, s.Resize(domain.Size{Width: 800, Height: 1000}))
	assert.True(t, s.State().Fitted)
}

func TestOpen_FullQueueFallsBackToResize(t *testing.T) {
	q := &queue{full: true}
	s := session.New(session.Options{})
	require.NoError(t, s.Open(q))
	assert.Empty(t, q.tasks)

	require.NoError(t, s.Resize(domain.Size{Width: 800, Height: 1000}))
	st := s.State()
	assert.True(t, st.Fitted)
	assert.InDelta(t, 0.625, st.Zoom, 1e-9)
}

func TestOpen_OnFullLoopDoesNotStall(t *testing.T) {
	loop := uiloop.New(1)
	loopCtx, stop := context.WithCancel(context.Background())
	defer stop()
	loop.Start(loopCtx)

	s := session.New(session.Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var filled bool
	var openErr, resizeErr error
	err := loop.Call(ctx, func() {
		// Take the only free slot so Open finds the queue full.
		filled = loop.TryPost(func() {})
		openErr = s.Open(loop)
		resizeErr = s.Resize(domain.Size{Width: 800, Height: 1000})
	})
	require.NoError(t, err)
	require.True(t, filled)
	require.NoError(t, openErr)
	require.NoError(t, resizeErr)

	var st domain.ViewportState
	require.NoError(t, loop.Call(ctx, func() { st = s.State() }))
	assert.True(t, st.Fitted)
	assert.InDelta(t, 0.625, st.Zoom, 1e-9)
}

func TestOpen_AfterCloseRejected(t *testing.T) {
	h := newHarness(t)
	h.q.drain()
	h.s.Close()

	assert.ErrorIs(t, h.s.Open(h.q), session.ErrClosed)
	assert.Empty(t, h.q.tasks, "no fit scheduled for a closed session")
	assert.False(t, h.s.Alive())
	assert.Len(t, h.surface.bounds, 1)
}

// ─────────────────────────────────────────────────────────────
// Gestures, page size, tools, undo
// ─────────────────────────────────────────────────────────────

func TestGestures_StylusIgnored(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Resize(domain.Size{Width: 800, Height: 1000}))
	h.q.drain()
	before := h.s.State()
	published := len(h.states)

	handled, err := h.s.Pan(domain.PointerPen, 40, 40)
	require.NoError(t, err)
	assert.False(t, handled)
	handled, err = h.s.Pinch(domain.PointerPen, 3, domain.Point{X: 10, Y: 10})
	require.NoError(t, err)
	assert.False(t, handled)

	assert.Equal(t, before, h.s.State())
	assert.Len(t, h.states, published)
}

func TestGestures_TouchMoves(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Resize(domain.Size{Width: 800, Height: 1000}))
	h.q.drain()

	handled, err := h.s.Pinch(domain.PointerTouch, 1.6, domain.Point{})
	require.NoError(t, err)
	require.True(t, handled)
	assert.InDelta(t, 1.0, h.s.State().Zoom, 1e-9)

	handled, err = h.s.Pan(domain.PointerTouch, 30, 60)
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, domain.Point{X: 30, Y: 60}, h.s.State().Offset)
}

func TestSetPageSize_Idempotent(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Resize(domain.Size{Width: 800, Height: 1000}))
	h.q.drain()

	require.NoError(t, h.s.SetPageSize(domain.Size{Width: 400, Height: 500}))
	once := h.s.State()
	published := len(h.states)
	require.NoError(t, h.s.SetPageSize(domain.Size{Width: 400, Height: 500}))

	assert.Equal(t, once, h.s.State())
	assert.Len(t, h.states, published)
	assert.Equal(t, domain.Rect{Width: 400, Height: 500}, h.surface.bounds[len(h.surface.bounds)-1])
	assert.InDelta(t, 2.0, once.Zoom, 1e-9)
}

func TestTools(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.s.SelectTool(domain.ToolEraser))
	require.NoError(t, h.s.SetColor("#ff0000"))
	require.NoError(t, h.s.SetWidth(6))
	require.NoError(t, h.s.SetWidth(6)) // unchanged, not pushed again

	assert.Error(t, h.s.SelectTool("lasso"))
	assert.Error(t, h.s.SetColor("red"))
	assert.Error(t, h.s.SetWidth(0))

	want := domain.ToolState{Kind: domain.ToolEraser, Color: "#ff0000", Width: 6}
	assert.Equal(t, want, h.s.Tool())
	assert.Len(t, h.surface.tools, 4)
	assert.Equal(t, want, h.surface.tools[3])
}

func TestUndoRedoForwarded(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Undo())
	require.NoError(t, h.s.Undo())
	require.NoError(t, h.s.Redo())
	assert.Equal(t, 2, h.undo.undos)
	assert.Equal(t, 1, h.undo.redos)
}

func TestClearForwarded(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Clear())
	assert.Equal(t, 1, h.surface.clears)
	assert.Zero(t, h.undo.undos, "clear is not an undo")
}

func TestClosedSessionRejectsOperations(t *testing.T) {
	h := newHarness(t)
	h.s.Close()
	h.s.Close()

	checks := []error{
		h.s.Resize(domain.Size{Width: 1, Height: 1}),
		h.s.ScrollTo(domain.Point{}),
		h.s.SetPageSize(domain.Size{Width: 1, Height: 1}),
		h.s.SelectTool(domain.ToolPen),
		h.s.Undo(),
		h.s.Redo(),
		h.s.Clear(),
	}
	_, err := h.s.Pan(domain.PointerTouch, 1, 1)
	checks = append(checks, err)
	for i, err := range checks {
		assert.True(t, errors.Is(err, session.ErrClosed), "check %d: %v", i, err)
	}
	assert.Zero(t, h.undo.undos)
	assert.Zero(t, h.surface.clears)
}
