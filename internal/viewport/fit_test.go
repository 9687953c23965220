package viewport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpad/internal/domain"
	"inkpad/internal/viewport"
)

const eps = 1e-9

type recordingSurface struct {
	bounds []domain.Rect
}

func (s *recordingSurface) SetBounds(r domain.Rect) { s.bounds = append(s.bounds, r) }

type snapshot struct {
	size    domain.Size
	zoom    float64
	minZoom float64
	maxZoom float64
	offset  domain.Point
	inset   domain.Insets
	page    domain.Size
}

func snap(c *viewport.Container, p domain.Page) snapshot {
	return snapshot{c.Size(), c.Zoom(), c.MinZoom(), c.MaxZoom(), c.Offset(), c.Inset(), p.Size}
}

func newFitted(t *testing.T, vp domain.Size) (*viewport.Container, *viewport.Fitter, *domain.Page, *recordingSurface) {
	t.Helper()
	surface := &recordingSurface{}
	page := &domain.Page{Size: domain.DefaultPageSize}
	c := viewport.NewContainer(domain.DefaultMinZoom, domain.DefaultMaxZoom)
	f := viewport.NewFitter(surface)
	f.Attach(c, func() domain.Page { return *page })
	c.SetSize(vp)
	require.True(t, f.ApplyInitialFit(c, *page))
	return c, f, page, surface
}

// ─────────────────────────────────────────────────────────────
// ComputeFit / CenterInsets
// ─────────────────────────────────────────────────────────────

func TestComputeFit_SmallerRatio(t *testing.T) {
	fit, ok := viewport.ComputeFit(domain.Size{Width: 800, Height: 1000}, domain.DefaultPageSize)
	require.True(t, ok)
	assert.InDelta(t, 0.625, fit, eps)
}

func TestComputeFit_PositiveForPositiveSizes(t *testing.T) {
	sizes := []domain.Size{{Width: 1, Height: 1}, {Width: 320, Height: 480}, {Width: 2732, Height: 2048}, {Width: 1200, Height: 1600}, {Width: 0.5, Height: 9000}}
	for _, vp := range sizes {
		for _, pg := range sizes {
			fit, ok := viewport.ComputeFit(vp, pg)
			require.True(t, ok)
			assert.Greater(t, fit, 0.0)
			want := vp.Width / pg.Width
			if h := vp.Height / pg.Height; h < want {
				want = h
			}
			assert.InDelta(t, want, fit, eps, "viewport %v page %v", vp, pg)
		}
	}
}

func TestComputeFit_DegenerateSizes(t *testing.T) {
	cases := []struct {
		vp, page domain.Size
	}{
		{domain.Size{}, domain.DefaultPageSize},
		{domain.Size{Width: 800}, domain.DefaultPageSize},
		{domain.Size{Width: 800, Height: -1}, domain.DefaultPageSize},
		{domain.Size{Width: 800, Height: 1000}, domain.Size{}},
	}
	for _, tc := range cases {
		_, ok := viewport.ComputeFit(tc.vp, tc.page)
		assert.False(t, ok, "viewport %v page %v", tc.vp, tc.page)
	}
}

func TestCenterInsets_Example(t *testing.T) {
	in := viewport.CenterInsets(domain.Size{Width: 1000, Height: 1000}, domain.DefaultPageSize, 0.625)
	assert.InDelta(t, 125, in.Left, eps)
	assert.InDelta(t, 125, in.Right, eps)
	assert.InDelta(t, 0, in.Top, eps)
	assert.InDelta(t, 0, in.Bottom, eps)
}

func TestCenterInsets_NonNegativeAcrossZoomRange(t *testing.T) {
	vp := domain.Size{Width: 1000, Height: 700}
	for z := domain.DefaultMinZoom; z <= domain.DefaultMaxZoom; z += 0.05 {
		in := viewport.CenterInsets(vp, domain.DefaultPageSize, z)
		assert.GreaterOrEqual(t, in.Left, 0.0)
		assert.GreaterOrEqual(t, in.Top, 0.0)
		assert.Equal(t, in.Left, in.Right)
		assert.Equal(t, in.Top, in.Bottom)
	}
}

func TestCenterInsets_ZeroOnceCovered(t *testing.T) {
	vp := domain.Size{Width: 1000, Height: 1000}
	// 1200×1600 at 1.0 covers both axes.
	in := viewport.CenterInsets(vp, domain.DefaultPageSize, 1.0)
	assert.Equal(t, domain.Insets{}, in)

	// At 0.7 only the height (1120) covers; width 840 leaves 80 per side.
	in = viewport.CenterInsets(vp, domain.DefaultPageSize, 0.7)
	assert.InDelta(t, 80, in.Left, eps)
	assert.Equal(t, 0.0, in.Top)
}

// ─────────────────────────────────────────────────────────────
// ApplyInitialFit
// ─────────────────────────────────────────────────────────────

func TestApplyInitialFit_ZoomsToFitAndCenters(t *testing.T) {
	c, _, _, _ := newFitted(t, domain.Size{Width: 800, Height: 1000})

	assert.InDelta(t, 0.625, c.Zoom(), eps)
	assert.InDelta(t, domain.DefaultMinZoom, c.MinZoom(), eps)
	// scaled page is 750×1000
	assert.InDelta(t, 25, c.Inset().Left, eps)
	assert.InDelta(t, 0, c.Inset().Top, eps)
}

func TestApplyInitialFit_LowersMinZoom(t *testing.T) {
	c, _, _, _ := newFitted(t, domain.Size{Width: 100, Height: 100})

	assert.InDelta(t, 0.0625, c.MinZoom(), eps)
	assert.InDelta(t, 0.0625, c.Zoom(), eps)
}

func TestApplyInitialFit_MinZoomNeverAboveFit(t *testing.T) {
	for _, vp := range []domain.Size{{Width: 50, Height: 50}, {Width: 300, Height: 2000}, {Width: 800, Height: 1000}, {Width: 2732, Height: 2048}, {Width: 4000, Height: 4000}} {
		c, _, page, _ := newFitted(t, vp)
		fit, _ := viewport.ComputeFit(vp, page.Size)
		assert.LessOrEqual(t, c.MinZoom(), fit, "viewport %v", vp)
	}
}

func TestApplyInitialFit_DefersOnDegenerateContainer(t *testing.T) {
	c := viewport.NewContainer(domain.DefaultMinZoom, domain.DefaultMaxZoom)
	f := viewport.NewFitter(nil)
	before := snap(c, domain.Page{Size: domain.DefaultPageSize})

	assert.False(t, f.ApplyInitialFit(c, domain.Page{Size: domain.DefaultPageSize}))
	assert.Equal(t, before, snap(c, domain.Page{Size: domain.DefaultPageSize}))
}

// ─────────────────────────────────────────────────────────────
// Re-centering through listeners
// ─────────────────────────────────────────────────────────────

func TestAttach_RecentersOnResize(t *testing.T) {
	c, _, _, _ := newFitted(t, domain.Size{Width: 800, Height: 1000})

	c.SetSize(domain.Size{Width: 1000, Height: 1000})

	assert.InDelta(t, 0.625, c.Zoom(), eps)
	assert.InDelta(t, 125, c.Inset().Left, eps)
	assert.InDelta(t, -125, c.Offset().X, eps)
}

func TestAttach_RecentersOnZoom(t *testing.T) {
	c, _, _, _ := newFitted(t, domain.Size{Width: 800, Height: 1000})

	c.SetZoom(0.5)
	// 600×800 inside 800×1000
	assert.InDelta(t, 100, c.Inset().Left, eps)
	assert.InDelta(t, 100, c.Inset().Top, eps)

	c.SetZoom(2)
	assert.Equal(t, domain.Insets{}, c.Inset())
}

// ─────────────────────────────────────────────────────────────
// OnPageSizeChanged
// ─────────────────────────────────────────────────────────────

func TestOnPageSizeChanged_PropagatesBounds(t *testing.T) {
	c, f, page, surface := newFitted(t, domain.Size{Width: 800, Height: 1000})

	changed := f.OnPageSizeChanged(c, page, domain.Size{Width: 1600, Height: 1600})
	require.True(t, changed)
	require.Len(t, surface.bounds, 1)
	assert.Equal(t, domain.Rect{Width: 1600, Height: 1600}, surface.bounds[0])
	assert.Equal(t, domain.Size{Width: 1600, Height: 1600}, c.ContentSize())
}

func TestOnPageSizeChanged_LowersMinAndRaisesZoom(t *testing.T) {
	c, f, page, _ := newFitted(t, domain.Size{Width: 800, Height: 1000})

	// Larger page: fit drops to 0.025, below the 0.25 minimum.
	f.OnPageSizeChanged(c, page, domain.Size{Width: 32000, Height: 40000})
	assert.InDelta(t, 0.025, c.MinZoom(), eps)
	assert.InDelta(t, 0.625, c.Zoom(), eps, "zoom above the new fit is kept")

	// Smaller page: fit rises to 2.0, current zoom is raised to it.
	f.OnPageSizeChanged(c, page, domain.Size{Width: 400, Height: 500})
	assert.InDelta(t, 2.0, c.Zoom(), eps)
	assert.InDelta(t, 0.025, c.MinZoom(), eps)
	assert.Equal(t, domain.Insets{}, c.Inset())
}

func TestOnPageSizeChanged_Idempotent(t *testing.T) {
	newSize := domain.Size{Width: 600, Height: 900}

	c1, f1, p1, s1 := newFitted(t, domain.Size{Width: 800, Height: 1000})
	f1.OnPageSizeChanged(c1, p1, newSize)

	c2, f2, p2, s2 := newFitted(t, domain.Size{Width: 800, Height: 1000})
	f2.OnPageSizeChanged(c2, p2, newSize)
	assert.False(t, f2.OnPageSizeChanged(c2, p2, newSize))

	assert.Equal(t, snap(c1, *p1), snap(c2, *p2))
	assert.Equal(t, s1.bounds, s2.bounds)
}

func TestOnPageSizeChanged_IgnoresDegenerateSize(t *testing.T) {
	c, f, page, surface := newFitted(t, domain.Size{Width: 800, Height: 1000})
	before := snap(c, *page)

	assert.False(t, f.OnPageSizeChanged(c, page, domain.Size{Width: 0, Height: 100}))
	assert.Equal(t, before, snap(c, *page))
	assert.Empty(t, surface.bounds)
}

func TestOnPageSizeChanged_BeforeLayoutOnlyResizes(t *testing.T) {
	c := viewport.NewContainer(domain.DefaultMinZoom, domain.DefaultMaxZoom)
	f := viewport.NewFitter(nil)
	page := &domain.Page{Size: domain.DefaultPageSize}

	require.True(t, f.OnPageSizeChanged(c, page, domain.Size{Width: 800, Height: 600}))
	assert.Equal(t, domain.Size{Width: 800, Height: 600}, page.Size)
	assert.Equal(t, 1.0, c.Zoom())
	assert.Equal(t, domain.Insets{}, c.Inset())
}
