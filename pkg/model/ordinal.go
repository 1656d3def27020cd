package model

// Ordinal bounds shared by every axis.
const (
	MinOrdinal = 1
	MaxOrdinal = 9
	MidOrdinal = 5
)

var horizonOrdinals = map[Horizon]int{
	HorizonNow:     9,
	HorizonShort:   7,
	HorizonMedium:  5,
	HorizonLong:    3,
	HorizonDistant: 1,
}

// HorizonOrdinal maps a bucket to {9,7,5,3,1}; unknown is mid-scale.
func HorizonOrdinal(h Horizon) int {
	if v, ok := horizonOrdinals[h]; ok {
		return v
	}
	return MidOrdinal
}

// HorizonForOrdinal is the inverse of HorizonOrdinal for the five ring values.
func HorizonForOrdinal(v int) Horizon {
	for h, o := range horizonOrdinals {
		if o == v {
			return h
		}
	}
	return HorizonUnknown
}

// OrdinalValue is the normalized 1-9 maturity of t on axis. It never fails:
// a missing (zero) readiness level or unknown horizon is mid-scale, other
// out-of-range readiness levels are clamped.
func OrdinalValue(t Technology, axis Axis) int {
	switch axis {
	case AxisBRL:
		return clampOrdinal(t.BRL)
	case AxisHorizon:
		return HorizonOrdinal(t.Horizon)
	default:
		return clampOrdinal(t.TRL)
	}
}

func clampOrdinal(v int) int {
	if v == 0 {
		return MidOrdinal
	}
	if v < MinOrdinal {
		return MinOrdinal
	}
	if v > MaxOrdinal {
		return MaxOrdinal
	}
	return v
}
