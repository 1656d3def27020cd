package radar

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/trendradar/pkg/model"
)

// Geometry fixes the radar's center and its three radii, in scene units.
type Geometry struct {
	Center      r2.Vec
	MinRadius   float64 // ring of the most mature ordinal (9)
	MaxRadius   float64 // ring of the least mature ordinal (1)
	LabelRadius float64 // outer ring every label sits on
}

// DefaultGeometry matches the dashboard's 1400x1400 canvas.
func DefaultGeometry() Geometry {
	return Geometry{
		Center:      r2.Vec{X: 700, Y: 700},
		MinRadius:   100,
		MaxRadius:   500,
		LabelRadius: 600,
	}
}

// PointRadius maps an ordinal onto [MinRadius, MaxRadius], inverted: 9 sits
// on the innermost ring and 1 on the outermost.
func PointRadius(v int, g Geometry) float64 {
	if v < model.MinOrdinal {
		v = model.MinOrdinal
	}
	if v > model.MaxOrdinal {
		v = model.MaxOrdinal
	}
	span := float64(model.MaxOrdinal - model.MinOrdinal)
	return g.MinRadius + (g.MaxRadius-g.MinRadius)*(1-float64(v-model.MinOrdinal)/span)
}

// PolarPoint converts (radius, angle in degrees) around center into scene
// coordinates. 0° points right; angles grow clockwise in screen space
// because y grows downward.
func PolarPoint(center r2.Vec, radius, angleDeg float64) r2.Vec {
	rad := angleDeg * math.Pi / 180
	return r2.Add(center, r2.Scale(radius, r2.Vec{X: math.Cos(rad), Y: math.Sin(rad)}))
}

// NormalizeAngle folds an angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// IsLeftSide reports whether a slot at angle sits on the left half of the
// circle, i.e. 90° < θ < 270°.
func IsLeftSide(angleDeg float64) bool {
	a := NormalizeAngle(angleDeg)
	return a > 90 && a < 270
}

// TextAnchor is the SVG text-anchor a label should use.
type TextAnchor string

const (
	AnchorStart TextAnchor = "start"
	AnchorEnd   TextAnchor = "end"
)

// LabelPlacement is where and how a label is drawn on the outer ring.
type LabelPlacement struct {
	Pos      r2.Vec
	Anchor   TextAnchor
	Rotation float64 // degrees, already flipped for left-side labels
}

// PlaceLabel puts a label on the label ring at angle. Left-side labels are
// anchored at their end and turned a further 180° so they read upright.
func PlaceLabel(angleDeg float64, g Geometry) LabelPlacement {
	lp := LabelPlacement{
		Pos:      PolarPoint(g.Center, g.LabelRadius, angleDeg),
		Anchor:   AnchorStart,
		Rotation: angleDeg,
	}
	if IsLeftSide(angleDeg) {
		lp.Anchor = AnchorEnd
		lp.Rotation = NormalizeAngle(angleDeg + 180)
	}
	return lp
}
