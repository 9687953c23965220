package domain

// Size is a width × height pair in layout units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are strictly positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Scale returns s multiplied by f on both axes.
func (s Size) Scale(f float64) Size {
	return Size{Width: s.Width * f, Height: s.Height * f}
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Insets is padding applied around scrollable content.
type Insets struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}

// Uniform returns insets with dx on the horizontal sides and dy on the vertical ones.
func Uniform(dx, dy float64) Insets {
	return Insets{Top: dy, Left: dx, Bottom: dy, Right: dx}
}
