package viewport

import (
	"math"

	"inkpad/internal/domain"
)

// BoundsSetter receives the page rectangle whenever the page is resized.
// The drawing surface implements it.
type BoundsSetter interface {
	SetBounds(r domain.Rect)
}

// ComputeFit returns the zoom at which page fits inside viewport along
// its most constrained axis. ok is false when either size is degenerate;
// callers must wait for a real layout in that case.
func ComputeFit(viewport, page domain.Size) (scale float64, ok bool) {
	if !viewport.Valid() || !page.Valid() {
		return 0, false
	}
	return math.Min(viewport.Width/page.Width, viewport.Height/page.Height), true
}

// CenterInsets is the symmetric padding that centers a page of the given
// size at zoom inside viewport. Axes where the scaled page already covers
// the viewport get zero padding.
func CenterInsets(viewport, page domain.Size, zoom float64) domain.Insets {
	scaled := page.Scale(zoom)
	dx := math.Max((viewport.Width-scaled.Width)/2, 0)
	dy := math.Max((viewport.Height-scaled.Height)/2, 0)
	return domain.Uniform(dx, dy)
}

// Fitter keeps a page fitted and centered inside a container. It holds
// no reference to either; both are passed in on every call.
type Fitter struct {
	surface BoundsSetter
}

// NewFitter creates a Fitter. surface may be nil.
func NewFitter(surface BoundsSetter) *Fitter {
	return &Fitter{surface: surface}
}

// Attach subscribes the fitter to c so the page is re-centered on every
// resize, zoom and scroll. page is read at event time, not captured.
func (f *Fitter) Attach(c *Container, page func() domain.Page) (detach func()) {
	recenter := func(c *Container) { f.Center(c, page()) }
	return c.Subscribe(Listener{
		OnResize:        recenter,
		OnZoomChanged:   recenter,
		OnScrollChanged: recenter,
	})
}

// ApplyInitialFit lowers the minimum zoom to the fit scale if needed,
// zooms to it and centers. Returns false without touching c when the
// geometry is not known yet.
func (f *Fitter) ApplyInitialFit(c *Container, page domain.Page) bool {
	fit, ok := ComputeFit(c.Size(), page.Size)
	if !ok {
		return false
	}
	c.SetContentSize(page.Size)
	if fit < c.MinZoom() {
		c.SetMinZoom(fit)
	}
	c.SetZoom(fit)
	f.Center(c, page)
	return true
}

// Center pads the content so the page sits in the middle of c on every
// axis where it is smaller than the viewport.
func (f *Fitter) Center(c *Container, page domain.Page) {
	c.SetInset(CenterInsets(c.Size(), page.Size, c.Zoom()))
}

// OnPageSizeChanged resizes page to newSize and keeps it fitted. It
// reports whether anything changed; repeating a call with the same size
// is a no-op.
func (f *Fitter) OnPageSizeChanged(c *Container, page *domain.Page, newSize domain.Size) bool {
	if !newSize.Valid() || page.Size == newSize {
		return false
	}
	page.Size = newSize
	c.SetContentSize(newSize)
	if f.surface != nil {
		f.surface.SetBounds(page.Bounds())
	}
	if fit, ok := ComputeFit(c.Size(), newSize); ok {
		if fit < c.MinZoom() {
			c.SetMinZoom(fit)
		}
		if c.Zoom() < fit {
			c.SetZoom(fit)
		}
	}
	f.Center(c, *page)
	return true
}
