package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
	"pgregory.net/rapid"
)

func assertVec(t assert.TestingT, want, got r2.Vec) {
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}

func TestIdentity(t *testing.T) {
	s := New()
	p := r2.Vec{X: 3, Y: -4}
	assert.Equal(t, p, s.Apply(p))
	assert.True(t, s.IsIdentity())
	assert.True(t, State{}.IsIdentity(), "zero zoom behaves as 1")
}

func TestZoomKeepsAnchorFixed(t *testing.T) {
	anchor := r2.Vec{X: 100, Y: 50}
	s := New().PanBy(r2.Vec{X: 10, Y: 10})
	before := s.Invert(anchor)

	z := s.ZoomBy(2, anchor)
	assert.Equal(t, 2.0, z.Zoom)
	assertVec(t, anchor, z.Apply(before))
}

func TestZoomClamped(t *testing.T) {
	s := New().ZoomBy(1000, r2.Vec{})
	assert.Equal(t, MaxZoom, s.Zoom)
	s = New().ZoomBy(0.0001, r2.Vec{})
	assert.Equal(t, MinZoom, s.Zoom)
	assert.Equal(t, New(), New().ZoomBy(-1, r2.Vec{}))
}

func TestPanAndReset(t *testing.T) {
	s := New().PanBy(r2.Vec{X: 5}).PanBy(r2.Vec{Y: -2})
	assert.Equal(t, r2.Vec{X: 5, Y: -2}, s.Pan)
	assert.Equal(t, r2.Vec{X: 6, Y: -1}, s.Apply(r2.Vec{X: 1, Y: 1}))
	assert.True(t, s.Reset().IsIdentity())
	assert.Equal(t, "zoom=1.00 pan=(5,-2)", s.String())
}

func TestPropertyInvertRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New()
		for i := rapid.IntRange(0, 6).Draw(t, "ops"); i > 0; i-- {
			if rapid.Bool().Draw(t, "zoom") {
				s = s.ZoomBy(rapid.Float64Range(0.5, 2).Draw(t, "f"), r2.Vec{
					X: rapid.Float64Range(-500, 500).Draw(t, "ax"),
					Y: rapid.Float64Range(-500, 500).Draw(t, "ay"),
				})
			} else {
				s = s.PanBy(r2.Vec{
					X: rapid.Float64Range(-100, 100).Draw(t, "dx"),
					Y: rapid.Float64Range(-100, 100).Draw(t, "dy"),
				})
			}
		}
		if s.Zoom < MinZoom || s.Zoom > MaxZoom {
			t.Fatalf("zoom %v out of bounds", s.Zoom)
		}
		p := r2.Vec{X: rapid.Float64Range(-1000, 1000).Draw(t, "px"), Y: rapid.Float64Range(-1000, 1000).Draw(t, "py")}
		back := s.Invert(s.Apply(p))
		if r2.Norm(r2.Sub(back, p)) > 1e-6 {
			t.Fatalf("round trip drifted: %v -> %v", p, back)
		}
	})
}
