package matrix

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vanderheijden86/trendradar/pkg/model"
)

func TestPercentLinearNotInverted(t *testing.T) {
	assert.Equal(t, 0.0, Percent(1))
	assert.Equal(t, 50.0, Percent(5))
	assert.Equal(t, 100.0, Percent(9))
	assert.InDelta(t, 25.0, Percent(3), 1e-9)
	assert.Equal(t, 0.0, Percent(-4))
	assert.Equal(t, 100.0, Percent(12))
}

func TestComputeLayoutWithoutJitter(t *testing.T) {
	techs := []model.Technology{
		{ID: "a", TRL: 1, BRL: 9},
		{ID: "b", TRL: 5, Horizon: model.HorizonNow},
	}
	pts := ComputeLayout(techs, model.AxisTRL, model.AxisBRL, nil)
	require.Len(t, pts, 2)
	assert.Equal(t, 0.0, pts[0].XPercent)
	assert.Equal(t, 100.0, pts[0].YPercent)
	assert.Equal(t, 50.0, pts[1].XPercent)
	assert.Equal(t, 50.0, pts[1].YPercent, "missing BRL is mid-scale")

	pts = ComputeLayout(techs, "bogus", model.AxisHorizon, nil)
	assert.Equal(t, 0.0, pts[0].XPercent, "unknown axis falls back to TRL")
	assert.Equal(t, 100.0, pts[1].YPercent)
}

func TestJitterStableWithinSession(t *testing.T) {
	cache := NewJitterCache(7, 3)
	techs := []model.Technology{{ID: "a", TRL: 5, BRL: 5}, {ID: "b", TRL: 5, BRL: 5}}

	first := ComputeLayout(techs, model.AxisTRL, model.AxisBRL, cache)
	second := ComputeLayout(techs, model.AxisTRL, model.AxisBRL, cache)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, cache.Len())

	assert.NotEqual(t, first[0], first[1], "jitter separates identical cells")
	for _, p := range first {
		assert.InDelta(t, 50, p.XPercent, 3)
		assert.InDelta(t, 50, p.YPercent, 3)
	}
}

func TestJitterOffsetMemoized(t *testing.T) {
	cache := NewSessionJitterCache(0)
	assert.Equal(t, DefaultJitterRange, cache.Range())
	a := cache.Offset("x")
	b := cache.Offset("x")
	assert.Equal(t, a, b)
}

func TestJitterClampedAtEdges(t *testing.T) {
	cache := NewJitterCache(1, 10)
	var techs []model.Technology
	for i := 0; i < 50; i++ {
		techs = append(techs, model.Technology{ID: fmt.Sprint(i), TRL: 1, BRL: 9})
	}
	for _, p := range ComputeLayout(techs, model.AxisTRL, model.AxisBRL, cache) {
		assert.GreaterOrEqual(t, p.XPercent, 0.0)
		assert.LessOrEqual(t, p.YPercent, 100.0)
	}
}

func TestJitterCacheConcurrent(t *testing.T) {
	cache := NewJitterCache(3, 2)
	var wg sync.WaitGroup
	results := make([]map[string]float64, 8)
	for w := range results {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			out := map[string]float64{}
			for i := 0; i < 20; i++ {
				id := fmt.Sprint(i)
				out[id] = cache.Offset(id).X
			}
			results[w] = out
		}(w)
	}
	wg.Wait()
	for _, r := range results[1:] {
		assert.Equal(t, results[0], r)
	}
}

func TestCells(t *testing.T) {
	techs := []model.Technology{{ID: "a", TRL: 3, BRL: 3}, {ID: "b", TRL: 3, BRL: 3}, {ID: "c", TRL: 9, BRL: 1}}
	cells := Cells(techs, model.AxisTRL, model.AxisBRL)
	assert.Len(t, cells[[2]int{3, 3}], 2)
	assert.Len(t, cells[[2]int{9, 1}], 1)
}

func TestPropertyWithinBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cache := NewJitterCache(rapid.Int64().Draw(t, "seed"), rapid.Float64Range(0.1, 20).Draw(t, "range"))
		n := rapid.IntRange(0, 30).Draw(t, "n")
		techs := make([]model.Technology, n)
		for i := range techs {
			techs[i] = model.Technology{
				ID:  fmt.Sprint(i),
				TRL: rapid.IntRange(-2, 12).Draw(t, "trl"),
				BRL: rapid.IntRange(-2, 12).Draw(t, "brl"),
			}
		}
		for _, p := range ComputeLayout(techs, model.AxisTRL, model.AxisBRL, cache) {
			if p.XPercent < 0 || p.XPercent > 100 || p.YPercent < 0 || p.YPercent > 100 {
				t.Fatalf("point out of bounds: %+v", p)
			}
		}
	})
}
