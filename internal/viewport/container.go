package viewport

import (
	"math"

	"inkpad/internal/domain"
)

// Listener callbacks fired synchronously after the container changes.
// Any of them may be nil.
type Listener struct {
	OnResize        func(c *Container)
	OnZoomChanged   func(c *Container)
	OnScrollChanged func(c *Container)
}

// Container is the zoomable, pannable area that shows the page.
// It is not safe for concurrent use; the owning session mutates it
// from the UI loop only.
type Container struct {
	size    domain.Size
	zoom    float64
	minZoom float64
	maxZoom float64
	offset  domain.Point
	inset   domain.Insets
	content domain.Size // unscaled content size

	listeners map[int]Listener
	nextID    int
}

// NewContainer creates an empty container with the given zoom bounds.
// Bounds are swapped if given in the wrong order and fall back to the
// defaults when non-positive.
func NewContainer(minZoom, maxZoom float64) *Container {
	c := &Container{zoom: 1, listeners: make(map[int]Listener)}
	c.minZoom, c.maxZoom = normalizeBounds(minZoom, maxZoom)
	c.zoom = clamp(c.zoom, c.minZoom, c.maxZoom)
	return c
}

func normalizeBounds(minZoom, maxZoom float64) (float64, float64) {
	if minZoom <= 0 {
		minZoom = domain.DefaultMinZoom
	}
	if maxZoom <= 0 {
		maxZoom = domain.DefaultMaxZoom
	}
	if minZoom > maxZoom {
		minZoom, maxZoom = maxZoom, minZoom
	}
	return minZoom, maxZoom
}

// Subscribe registers l and returns a func that removes it.
func (c *Container) Subscribe(l Listener) (unsubscribe func()) {
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	return func() { delete(c.listeners, id) }
}

func (c *Container) Size() domain.Size        { return c.size }
func (c *Container) Zoom() float64            { return c.zoom }
func (c *Container) MinZoom() float64         { return c.minZoom }
func (c *Container) MaxZoom() float64         { return c.maxZoom }
func (c *Container) Offset() domain.Point     { return c.offset }
func (c *Container) Inset() domain.Insets     { return c.inset }
func (c *Container) ContentSize() domain.Size { return c.content }

// SetSize records a new visible size (rotation, window resize).
func (c *Container) SetSize(s domain.Size) {
	if s == c.size {
		return
	}
	c.size = s
	c.clampOffset()
	c.notify(func(l Listener) func(*Container) { return l.OnResize })
}

// SetContentSize sets the unscaled size of the scrolled content.
func (c *Container) SetContentSize(s domain.Size) {
	c.content = s
	c.clampOffset()
}

// SetZoomBounds replaces both bounds and re-clamps the current zoom.
func (c *Container) SetZoomBounds(minZoom, maxZoom float64) {
	c.minZoom, c.maxZoom = normalizeBounds(minZoom, maxZoom)
	c.SetZoom(c.zoom)
}

// SetMinZoom lowers or raises the minimum. A minimum above the maximum
// drags the maximum along.
func (c *Container) SetMinZoom(z float64) {
	if z <= 0 {
		return
	}
	c.minZoom = z
	if c.maxZoom < z {
		c.maxZoom = z
	}
	c.SetZoom(c.zoom)
}

// SetZoom clamps z into [MinZoom, MaxZoom]. Returns true if the zoom changed.
func (c *Container) SetZoom(z float64) bool {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return false
	}
	z = clamp(z, c.minZoom, c.maxZoom)
	if z == c.zoom {
		return false
	}
	c.zoom = z
	c.clampOffset()
	c.notify(func(l Listener) func(*Container) { return l.OnZoomChanged })
	return true
}

// SetOffset scrolls to p, clamped to the scrollable range.
// Returns true if the offset changed.
func (c *Container) SetOffset(p domain.Point) bool {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return false
	}
	prev := c.offset
	c.offset = p
	c.clampOffset()
	if c.offset == prev {
		return false
	}
	c.notify(func(l Listener) func(*Container) { return l.OnScrollChanged })
	return true
}

// SetInset applies content padding. Listeners are not notified so that
// a centering pass triggered by a listener cannot recurse.
func (c *Container) SetInset(in domain.Insets) {
	c.inset = in
	c.clampOffset()
}

// scrollRange is the legal offset range on each axis. The inset widens it
// the way a scroll view's content inset does.
func (c *Container) scrollRange() (minP, maxP domain.Point) {
	scaled := c.content.Scale(c.zoom)
	minP = domain.Point{X: -c.inset.Left, Y: -c.inset.Top}
	maxP = domain.Point{
		X: math.Max(scaled.Width+c.inset.Right-c.size.Width, minP.X),
		Y: math.Max(scaled.Height+c.inset.Bottom-c.size.Height, minP.Y),
	}
	return minP, maxP
}

func (c *Container) clampOffset() {
	minP, maxP := c.scrollRange()
	c.offset.X = clamp(c.offset.X, minP.X, maxP.X)
	c.offset.Y = clamp(c.offset.Y, minP.Y, maxP.Y)
}

func (c *Container) notify(pick func(Listener) func(*Container)) {
	for _, id := range c.listenerIDs() {
		l, ok := c.listeners[id]
		if !ok {
			continue
		}
		if fn := pick(l); fn != nil {
			fn(c)
		}
	}
}

// listenerIDs returns ids in registration order.
func (c *Container) listenerIDs() []int {
	ids := make([]int, 0, len(c.listeners))
	for id := 0; id < c.nextID; id++ {
		if _, ok := c.listeners[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
