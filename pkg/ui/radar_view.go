package ui

import (
	"math"

	"github.com/mattn/go-runewidth"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/radar"
	"github.com/vanderheijden86/trendradar/pkg/viewport"
)

// cellAspect is how much taller a terminal cell is than it is wide.
const cellAspect = 2.0

const radarLabelWidth = 16

// radarProjection maps radar scene coordinates onto canvas cells: the scene
// is scaled to fit, squashed vertically for the cell aspect, then passed
// through the viewport around the canvas center.
type radarProjection struct {
	center r2.Vec // scene center
	mid    r2.Vec // canvas center, in cells
	scale  float64
	vp     viewport.State
}

func newRadarProjection(g radar.Geometry, w, h int, vp viewport.State) radarProjection {
	extent := math.Max(g.LabelRadius, g.MaxRadius)
	if extent <= 0 {
		extent = 1
	}
	// Leave room for labels outside the label ring.
	usableW := math.Max(float64(w)/2-radarLabelWidth, float64(w)/4)
	usableH := math.Max(float64(h)/2-1, 1)
	scale := math.Min(usableW/extent, usableH*cellAspect/extent)
	return radarProjection{
		center: g.Center,
		mid:    r2.Vec{X: float64(w) / 2, Y: float64(h) / 2},
		scale:  scale,
		vp:     vp,
	}
}

// sceneToView converts a scene point to center-relative cell units before
// the viewport is applied.
func (p radarProjection) sceneToView(s r2.Vec) r2.Vec {
	rel := r2.Sub(s, p.center)
	return r2.Vec{X: rel.X * p.scale, Y: rel.Y * p.scale / cellAspect}
}

func (p radarProjection) project(s r2.Vec) (int, int) {
	v := r2.Add(p.vp.Apply(p.sceneToView(s)), p.mid)
	return round(v.X), round(v.Y)
}

// radii returns the on-screen radii of a scene circle.
func (p radarProjection) radii(r float64) (float64, float64) {
	z := p.vp.Zoom
	if z <= 0 {
		z = viewport.DefaultZoom
	}
	return r * p.scale * z, r * p.scale * z / cellAspect
}

// radarScene is everything renderRadar needs besides the layout.
type radarScene struct {
	Layout     radar.Layout
	Viewport   viewport.State
	SelectedID string
	Bookmarked func(id string) bool
	Theme      Theme
}

// renderRadar draws the radar onto c. Draw order is labels and points first,
// then decoration over whatever is still blank.
func renderRadar(c *Canvas, sc radarScene) {
	l := sc.Layout
	t := sc.Theme
	proj := newRadarProjection(l.Geometry, c.Width(), c.Height(), sc.Viewport)

	ringStyle := c.Style("ring", t.Ring)
	mutedStyle := c.Style("muted", t.MutedText)
	selStyle := c.Style("selected", t.Selected)
	markStyle := c.Style("bookmark", t.Bookmark)

	clusterStyle := func(cl model.Cluster) int {
		return c.Style("cluster:"+cl.ID+cl.Color, t.ColorStyle(cl.Color).Bold(true))
	}
	techStyle := func(cl model.Cluster) int {
		return c.Style("tech:"+cl.ID+cl.Color, t.ColorStyle(cl.Color))
	}

	cx, cy := proj.project(l.Geometry.Center)

	// Selected technology first so nothing can overwrite it.
	var sel *radar.TechLayout
	for gi := range l.Groups {
		for ti := range l.Groups[gi].Technologies {
			if l.Groups[gi].Technologies[ti].Tech.ID == sc.SelectedID {
				sel = &l.Groups[gi].Technologies[ti]
			}
		}
	}
	if sel != nil {
		x, y := proj.project(sel.Point)
		c.Set(x, y, '◉', selStyle)
		lx, ly := proj.project(sel.Label.Pos)
		c.Text(lx, ly, tuiTechLabel(*sel), selStyle, sel.Label.Anchor == radar.AnchorEnd)
	}

	for _, g := range l.Groups {
		ts := techStyle(g.Cluster)
		for _, tl := range g.Technologies {
			if tl.Tech.ID == sc.SelectedID {
				continue
			}
			x, y := proj.project(tl.Point)
			if sc.Bookmarked != nil && sc.Bookmarked(tl.Tech.ID) {
				c.setIfEmpty(x, y, '★', markStyle)
			} else {
				c.setIfEmpty(x, y, '●', ts)
			}
			lx, ly := proj.project(tl.Label.Pos)
			textIfRoom(c, lx, ly, tuiTechLabel(tl), ts, tl.Label.Anchor == radar.AnchorEnd)
		}
		lx, ly := proj.project(g.Label.Pos)
		textIfRoom(c, lx, ly, truncate(g.Cluster.Name, radarLabelWidth), clusterStyle(g.Cluster), g.Label.Anchor == radar.AnchorEnd)
	}

	if sel != nil {
		x, y := proj.project(sel.Point)
		lx, ly := proj.project(sel.Label.Pos)
		c.Line(x, y, lx, ly, '·', selStyle)
	}
	for _, ring := range l.Rings {
		rx, ry := proj.radii(ring.Radius)
		textIfRoom(c, cx+1, cy-round(ry), ring.Label, mutedStyle, false)
		c.Ellipse(float64(cx), float64(cy), rx, ry, '·', ringStyle)
	}
	c.setIfEmpty(cx, cy, '+', mutedStyle)
	for _, g := range l.Groups {
		ex, ey := proj.project(radar.PolarPoint(l.Geometry.Center, l.Geometry.MaxRadius, g.Angle))
		c.Line(cx, cy, ex, ey, '·', ringStyle)
	}
}

// textIfRoom writes text only when every target cell is blank, so dense
// label rings degrade to dropped labels instead of overprinted ones.
func textIfRoom(c *Canvas, x, y int, s string, style int, alignEnd bool) {
	w := runewidth.StringWidth(s)
	start := x
	if alignEnd {
		start = x - w + 1
	}
	for i := 0; i < w; i++ {
		if r := c.At(start+i, y); r != ' ' && r != 0 {
			return
		}
	}
	c.Text(x, y, s, style, alignEnd)
}

func tuiTechLabel(t radar.TechLayout) string {
	name := truncate(t.Tech.Name, radarLabelWidth)
	if t.Rank == "" {
		return name
	}
	return t.Rank + " " + name
}
