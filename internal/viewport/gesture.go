package viewport

import (
	"math"

	"inkpad/internal/domain"
)

// Router applies pan and pinch gestures to a container. Only direct
// touch moves the viewport; pen input belongs to the drawing surface.
type Router struct {
	c *Container
}

func NewRouter(c *Container) *Router {
	return &Router{c: c}
}

// Accepts reports whether pointer kind k drives pan/zoom.
func Accepts(k domain.PointerKind) bool {
	return k == domain.PointerTouch
}

// Pan scrolls by (dx, dy) in screen units. The return value is false when
// the event was not consumed (wrong pointer kind or nothing moved).
func (r *Router) Pan(kind domain.PointerKind, dx, dy float64) bool {
	if !Accepts(kind) {
		return false
	}
	off := r.c.Offset()
	return r.c.SetOffset(domain.Point{X: off.X + dx, Y: off.Y + dy})
}

// Pinch multiplies the zoom by factor while keeping the content point
// under anchor (viewport coordinates) in place.
func (r *Router) Pinch(kind domain.PointerKind, factor float64, anchor domain.Point) bool {
	if !Accepts(kind) || factor <= 0 || math.IsInf(factor, 0) || math.IsNaN(factor) {
		return false
	}
	old := r.c.Zoom()
	off := r.c.Offset()
	contentX := (off.X + anchor.X) / old
	contentY := (off.Y + anchor.Y) / old

	if !r.c.SetZoom(old * factor) {
		return false
	}
	z := r.c.Zoom()
	r.c.SetOffset(domain.Point{X: contentX*z - anchor.X, Y: contentY*z - anchor.Y})
	return true
}
