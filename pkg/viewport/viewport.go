// Package viewport is the pan/zoom transform between scene coordinates
// (the radar's center-relative plane) and screen coordinates.
//
// State is immutable; every operation returns a new value so a render always
// reads one coherent transform.
package viewport

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Zoom bounds.
const (
	MinZoom     = 0.25
	MaxZoom     = 8.0
	DefaultZoom = 1.0
)

// State maps scene point p to screen as p*Zoom + Pan.
type State struct {
	Zoom float64
	Pan  r2.Vec
}

// New returns the identity transform.
func New() State {
	return State{Zoom: DefaultZoom}
}

// Reset returns the identity transform.
func (s State) Reset() State {
	return New()
}

func (s State) zoom() float64 {
	if s.Zoom <= 0 {
		return DefaultZoom
	}
	return s.Zoom
}

// ZoomBy multiplies the zoom by factor, clamped to [MinZoom, MaxZoom], while
// keeping the screen point anchor fixed. Non-positive factors are ignored.
func (s State) ZoomBy(factor float64, anchor r2.Vec) State {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return s
	}
	old := s.zoom()
	z := math.Max(MinZoom, math.Min(MaxZoom, old*factor))
	scene := s.Invert(anchor)
	return State{
		Zoom: z,
		Pan:  r2.Sub(anchor, r2.Scale(z, scene)),
	}
}

// PanBy shifts the view by delta screen units.
func (s State) PanBy(delta r2.Vec) State {
	return State{Zoom: s.zoom(), Pan: r2.Add(s.Pan, delta)}
}

// Apply maps a scene point to the screen.
func (s State) Apply(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(s.zoom(), p), s.Pan)
}

// Invert maps a screen point back to the scene.
func (s State) Invert(p r2.Vec) r2.Vec {
	return r2.Scale(1/s.zoom(), r2.Sub(p, s.Pan))
}

// IsIdentity reports whether s is the untransformed view.
func (s State) IsIdentity() bool {
	return s.zoom() == DefaultZoom && s.Pan == (r2.Vec{})
}

func (s State) String() string {
	return fmt.Sprintf("zoom=%.2f pan=(%.0f,%.0f)", s.zoom(), s.Pan.X, s.Pan.Y)
}
