// Package matrix lays technologies out on a two-axis grid as percentages of
// the plot area. Unlike the radar, axes are not inverted: ordinal 1 sits at
// the left/bottom edge and ordinal 9 at the right/top edge.
package matrix

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/trendradar/pkg/metrics"
	"github.com/vanderheijden86/trendradar/pkg/model"
)

// DefaultJitterRange is the maximum offset per axis, in percent.
const DefaultJitterRange = 3.0

// Point is one technology positioned on the plot, 0..100 on both axes.
type Point struct {
	Tech     model.Technology
	XPercent float64
	YPercent float64
}

// Percent maps ordinal v linearly onto [0,100]. v is clamped to 1..9.
func Percent(v int) float64 {
	v = max(model.MinOrdinal, min(model.MaxOrdinal, v))
	return float64(v-model.MinOrdinal) / float64(model.MaxOrdinal-model.MinOrdinal) * 100
}

// JitterCache memoizes one random offset per technology id. Offsets are
// generated lazily on first request and never regenerated for the lifetime
// of the cache. It is safe for concurrent use.
type JitterCache struct {
	mu      sync.Mutex
	rng     *rand.Rand
	rangePc float64
	offsets map[string]r2.Vec
}

// NewJitterCache returns a cache producing offsets in [-rangePc, +rangePc].
// A non-positive rangePc uses DefaultJitterRange.
func NewJitterCache(seed int64, rangePc float64) *JitterCache {
	if rangePc <= 0 {
		rangePc = DefaultJitterRange
	}
	return &JitterCache{
		rng:     rand.New(rand.NewSource(seed)),
		rangePc: rangePc,
		offsets: make(map[string]r2.Vec),
	}
}

// NewSessionJitterCache seeds from the clock; offsets are stable for the
// session only.
func NewSessionJitterCache(rangePc float64) *JitterCache {
	return NewJitterCache(time.Now().UnixNano(), rangePc)
}

// Range returns the configured per-axis jitter bound.
func (c *JitterCache) Range() float64 {
	return c.rangePc
}

// Offset returns the memoized offset for id, generating it on first use.
func (c *JitterCache) Offset(id string) r2.Vec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if off, ok := c.offsets[id]; ok {
		metrics.JitterCache.Hit()
		return off
	}
	metrics.JitterCache.Miss()
	off := r2.Vec{
		X: (c.rng.Float64()*2 - 1) * c.rangePc,
		Y: (c.rng.Float64()*2 - 1) * c.rangePc,
	}
	c.offsets[id] = off
	return off
}

// Len returns the number of memoized offsets.
func (c *JitterCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.offsets)
}

// ComputeLayout positions technologies on xAxis × yAxis. Unknown axes fall
// back to TRL. A nil cache disables jitter. Output order follows input.
func ComputeLayout(technologies []model.Technology, xAxis, yAxis model.Axis, cache *JitterCache) []Point {
	defer metrics.Timer(metrics.MatrixLayout)()

	xAxis = model.ParseAxis(string(xAxis))
	yAxis = model.ParseAxis(string(yAxis))

	points := make([]Point, len(technologies))
	for i, t := range technologies {
		p := r2.Vec{
			X: Percent(model.OrdinalValue(t, xAxis)),
			Y: Percent(model.OrdinalValue(t, yAxis)),
		}
		if cache != nil {
			p = r2.Add(p, cache.Offset(t.ID))
		}
		points[i] = Point{Tech: t, XPercent: clampPercent(p.X), YPercent: clampPercent(p.Y)}
	}
	return points
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// Cells buckets technologies by their un-jittered grid cell, keyed by the x
// and y ordinals. Useful for spotting overlaps jitter has to separate.
func Cells(technologies []model.Technology, xAxis, yAxis model.Axis) map[[2]int][]model.Technology {
	xAxis = model.ParseAxis(string(xAxis))
	yAxis = model.ParseAxis(string(yAxis))
	cells := make(map[[2]int][]model.Technology)
	for _, t := range technologies {
		k := [2]int{model.OrdinalValue(t, xAxis), model.OrdinalValue(t, yAxis)}
		cells[k] = append(cells[k], t)
	}
	return cells
}
