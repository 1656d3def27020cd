package radar

import (
	"fmt"

	"github.com/vanderheijden86/trendradar/pkg/model"
)

// RingOrdinals are the ordinals that get a reference ring, inner to outer.
var RingOrdinals = []int{9, 7, 5, 3, 1}

// Ring is one concentric reference circle.
type Ring struct {
	Ordinal int
	Radius  float64
	Label   string
}

// Rings returns the five reference rings labelled for axis. Callers
// recompute them whenever the axis changes.
func Rings(axis model.Axis, g Geometry) []Ring {
	rings := make([]Ring, len(RingOrdinals))
	for i, v := range RingOrdinals {
		rings[i] = Ring{
			Ordinal: v,
			Radius:  PointRadius(v, g),
			Label:   RingLabel(axis, v),
		}
	}
	return rings
}

// RingLabel is the human-readable value of ordinal v on axis, e.g. "TRL 9",
// "BRL 5" or a horizon bucket name.
func RingLabel(axis model.Axis, v int) string {
	switch axis {
	case model.AxisHorizon:
		return model.HorizonForOrdinal(v).Label()
	case model.AxisBRL:
		return fmt.Sprintf("BRL %d", v)
	default:
		return fmt.Sprintf("TRL %d", v)
	}
}
