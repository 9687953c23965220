package domain

import (
	"fmt"
	"regexp"
)

type ToolKind string

const (
	ToolPen    ToolKind = "pen"
	ToolEraser ToolKind = "eraser"
)

// PointerKind identifies what produced an input event.
type PointerKind string

const (
	PointerTouch PointerKind = "touch"
	PointerPen   PointerKind = "pen"
	PointerMouse PointerKind = "mouse"
)

const (
	DefaultToolColor = "#0000ff"
	DefaultToolWidth = 20.0
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ToolState is the current drawing tool selection pushed to the drawing surface.
type ToolState struct {
	Kind  ToolKind `json:"kind"`
	Color string   `json:"color"`
	Width float64  `json:"width"`
}

// DefaultToolState returns a blue 20-unit pen.
func DefaultToolState() ToolState {
	return ToolState{Kind: ToolPen, Color: DefaultToolColor, Width: DefaultToolWidth}
}

func (t *ToolState) SetKind(k ToolKind) error {
	switch k {
	case ToolPen, ToolEraser:
		t.Kind = k
		return nil
	}
	return fmt.Errorf("unknown tool %q", k)
}

// SetColor accepts #rrggbb colors only.
func (t *ToolState) SetColor(c string) error {
	if !hexColor.MatchString(c) {
		return fmt.Errorf("invalid color %q: want #rrggbb", c)
	}
	t.Color = c
	return nil
}

func (t *ToolState) SetWidth(w float64) error {
	if w <= 0 {
		return fmt.Errorf("invalid tool width %v: must be positive", w)
	}
	t.Width = w
	return nil
}

// Validate checks every field, so a state loaded from disk can be trusted.
func (t ToolState) Validate() error {
	var check ToolState
	if err := check.SetKind(t.Kind); err != nil {
		return err
	}
	if err := check.SetColor(t.Color); err != nil {
		return err
	}
	return check.SetWidth(t.Width)
}
