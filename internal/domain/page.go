package domain

const (
	DefaultPageWidth  = 1200.0
	DefaultPageHeight = 1600.0
	DefaultMinZoom    = 0.25
	DefaultMaxZoom    = 4.0
)

// DefaultPageSize is one portrait sheet.
var DefaultPageSize = Size{Width: DefaultPageWidth, Height: DefaultPageHeight}

// Page is the fixed-size drawable sheet shown inside the viewport.
// Its size only changes through the viewport fitter.
type Page struct {
	Size Size `json:"size"`
}

// Bounds is the page rectangle in its own coordinate space.
func (p Page) Bounds() Rect {
	return Rect{Width: p.Size.Width, Height: p.Size.Height}
}

// ViewportState is the snapshot handed to the rendering layer after every change.
type ViewportState struct {
	SessionID    string  `json:"sessionId"`
	ViewportSize Size    `json:"viewportSize"`
	PageSize     Size    `json:"pageSize"`
	Zoom         float64 `json:"zoom"`
	MinZoom      float64 `json:"minZoom"`
	MaxZoom      float64 `json:"maxZoom"`
	Offset       Point   `json:"offset"`
	Inset        Insets  `json:"inset"`
	Fitted       bool    `json:"fitted"`
}
