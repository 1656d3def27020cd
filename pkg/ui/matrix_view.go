package ui

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/trendradar/pkg/matrix"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/radar"
	"github.com/vanderheijden86/trendradar/pkg/viewport"
)

const (
	matrixLeftMargin   = 12 // y tick labels
	matrixBottomMargin = 2  // x tick labels
	matrixLabelWidth   = 14
)

type matrixScene struct {
	Points     []matrix.Point
	XAxis      model.Axis
	YAxis      model.Axis
	Viewport   viewport.State
	SelectedID string
	ColorOf    func(model.Technology) string
	Bookmarked func(id string) bool
	Theme      Theme
}

// matrixProjection maps plot percentages onto canvas cells, zooming and
// panning around the plot center.
type matrixProjection struct {
	left, top float64
	w, h      float64
	vp        viewport.State
}

func newMatrixProjection(cw, ch int, vp viewport.State) matrixProjection {
	return matrixProjection{
		left: matrixLeftMargin,
		top:  0,
		w:    float64(max(cw-matrixLeftMargin-1, 1)),
		h:    float64(max(ch-matrixBottomMargin-1, 1)),
		vp:   vp,
	}
}

func (p matrixProjection) project(xPct, yPct float64) (int, int) {
	rel := r2.Vec{X: (xPct/100 - 0.5) * p.w, Y: (0.5 - yPct/100) * p.h}
	v := p.vp.Apply(rel)
	return round(p.left + p.w/2 + v.X), round(p.top + p.h/2 + v.Y)
}

func (p matrixProjection) inPlot(x, y int) bool {
	return float64(x) >= p.left && float64(x) <= p.left+p.w && float64(y) >= p.top && float64(y) <= p.top+p.h
}

func renderMatrix(c *Canvas, sc matrixScene) {
	t := sc.Theme
	proj := newMatrixProjection(c.Width(), c.Height(), sc.Viewport)
	mutedStyle := c.Style("muted", t.MutedText)
	ringStyle := c.Style("ring", t.Ring)
	selStyle := c.Style("selected", t.Selected)
	markStyle := c.Style("bookmark", t.Bookmark)

	pointStyle := func(tech model.Technology) int {
		css := ""
		if sc.ColorOf != nil {
			css = sc.ColorOf(tech)
		}
		return c.Style("point:"+css, t.ColorStyle(css))
	}

	for _, p := range sc.Points {
		if p.Tech.ID != sc.SelectedID {
			continue
		}
		x, y := proj.project(p.XPercent, p.YPercent)
		c.Set(x, y, '◉', selStyle)
		c.Text(x+2, y, truncate(p.Tech.Name, matrixLabelWidth), selStyle, false)
	}
	for _, p := range sc.Points {
		if p.Tech.ID == sc.SelectedID {
			continue
		}
		x, y := proj.project(p.XPercent, p.YPercent)
		if !proj.inPlot(x, y) {
			continue
		}
		st := pointStyle(p.Tech)
		if sc.Bookmarked != nil && sc.Bookmarked(p.Tech.ID) {
			c.setIfEmpty(x, y, '★', markStyle)
		} else {
			c.setIfEmpty(x, y, '●', st)
		}
		textIfRoom(c, x+2, y, truncate(p.Tech.Name, matrixLabelWidth), st, false)
	}

	// Axes stay fixed; ticks follow the viewport.
	bottom := round(proj.top + proj.h)
	left := round(proj.left)
	for x := left; x < c.Width(); x++ {
		c.setIfEmpty(x, bottom, '─', ringStyle)
	}
	for y := 0; y < bottom; y++ {
		c.setIfEmpty(left, y, '│', ringStyle)
	}
	c.Set(left, bottom, '└', ringStyle)

	for _, v := range []int{1, 3, 5, 7, 9} {
		pct := matrix.Percent(v)
		x, _ := proj.project(pct, 0)
		if x >= left && x < c.Width() {
			if x > left {
				c.Set(x, bottom, '┴', ringStyle)
			}
			textIfRoom(c, x, bottom+1, radar.RingLabel(sc.XAxis, v), mutedStyle, false)
		}
		_, y := proj.project(0, pct)
		if y >= 0 && y < bottom {
			c.Set(left, y, '┤', ringStyle)
			textIfRoom(c, left-1, y, truncate(radar.RingLabel(sc.YAxis, v), matrixLeftMargin-1), mutedStyle, true)
		}
	}
}
