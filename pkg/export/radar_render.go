package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"slices"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/radar"
)

const (
	pointRadius   = 6.0
	labelMaxRunes = 28
)

type legendEntry struct {
	Label string
	Color color.RGBA
}

type radarFrame struct {
	Layout  radar.Layout
	Width   int
	Height  int
	Title   string
	Summary string
	Legend  []legendEntry
	Colors  []color.RGBA // per group
}

func newRadarFrame(layout radar.Layout, opts SnapshotOptions) radarFrame {
	g := layout.Geometry
	f := radarFrame{
		Layout: layout,
		Width:  int(math.Ceil(2 * g.Center.X)),
		Height: int(math.Ceil(2 * g.Center.Y)),
		Title:  titleOr(opts.Title, "Trend Radar"),
		Summary: fmt.Sprintf("axis: %s  mode: %s  technologies: %d",
			layout.Axis.Title(), layout.Mode, layout.TechnologyCount()),
		Colors: make([]color.RGBA, len(layout.Groups)),
	}
	// Tiny geometries still need room for the header and legend.
	f.Width = max(f.Width, 640)
	f.Height = max(f.Height, 480)

	var domains []model.Domain
	for i, grp := range layout.Groups {
		f.Colors[i] = clusterColor(grp.Cluster, opts.DomainColors)
		if !slices.Contains(domains, grp.Cluster.Domain) {
			domains = append(domains, grp.Cluster.Domain)
		}
	}
	f.Legend = domainLegend(domains, opts.DomainColors)
	return f
}

// domainLegend lists the domains present, in domain priority order.
func domainLegend(domains []model.Domain, colors map[model.Domain]string) []legendEntry {
	slices.SortFunc(domains, func(a, b model.Domain) int { return a.Order() - b.Order() })
	out := make([]legendEntry, 0, len(domains))
	for _, d := range domains {
		if !d.IsValid() {
			continue
		}
		out = append(out, legendEntry{Label: string(d), Color: parseColor(model.DomainCluster(d, colors).Color)})
	}
	return out
}

func techLabel(t radar.TechLayout) string {
	name := truncate(t.Tech.Name, labelMaxRunes)
	if t.Rank == "" {
		return name
	}
	return t.Rank + " " + name
}

func px(v float64) int {
	return int(math.Round(v))
}

// --- SVG -------------------------------------------------------------------

func renderRadarSVG(w io.Writer, f radarFrame) error {
	l := f.Layout
	g := l.Geometry
	cx, cy := px(g.Center.X), px(g.Center.Y)

	canvas := svg.New(w)
	canvas.Start(f.Width, f.Height)
	canvas.Rect(0, 0, f.Width, f.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	for _, ring := range l.Rings {
		r := px(ring.Radius)
		canvas.Circle(cx, cy, r, fmt.Sprintf("fill:none;stroke:%s;stroke-width:1;stroke-dasharray:4,4", css(colorRing)))
		canvas.Text(cx+4, cy-r-4, ring.Label, fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle)))
	}

	for gi, grp := range l.Groups {
		c := f.Colors[gi]
		end := radar.PolarPoint(g.Center, g.MaxRadius, grp.Angle)
		canvas.Line(cx, cy, px(end.X), px(end.Y), fmt.Sprintf("stroke:%s;stroke-width:1", css(lighten(c, 0.3))))
		svgLabel(canvas, grp.Label, truncate(grp.Cluster.Name, labelMaxRunes),
			fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;font-weight:bold", css(c)))

		for _, t := range grp.Technologies {
			canvas.Line(px(t.Point.X), px(t.Point.Y), px(t.Label.Pos.X), px(t.Label.Pos.Y),
				fmt.Sprintf("stroke:%s;stroke-width:0.8", css(lighten(c, 0.2))))
		}
		for _, t := range grp.Technologies {
			canvas.Circle(px(t.Point.X), px(t.Point.Y), px(pointRadius),
				fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(c), css(colorStroke)))
			svgLabel(canvas, t.Label, techLabel(t),
				fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorText)))
		}
	}

	canvas.Text(32, 40, f.Title, fmt.Sprintf("fill:%s;font-size:18px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 62, f.Summary, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	drawLegendSVG(canvas, f.Width, f.Legend)

	canvas.End()
	return nil
}

func svgLabel(canvas *svg.SVG, lp radar.LabelPlacement, text, style string) {
	x, y := px(lp.Pos.X), px(lp.Pos.Y)
	canvas.Text(x, y, text, style,
		fmt.Sprintf(`text-anchor="%s"`, lp.Anchor),
		`dominant-baseline="middle"`,
		fmt.Sprintf(`transform="rotate(%.2f %d %d)"`, lp.Rotation, x, y))
}

func drawLegendSVG(canvas *svg.SVG, width int, entries []legendEntry) {
	if len(entries) == 0 {
		return
	}
	boxW := 160
	boxH := 30 + 18*len(entries)
	x := width - boxW - 20
	y := 20
	canvas.Roundrect(x, y, boxW, boxH, 10, 10, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorLegendBG), css(colorStroke)))
	canvas.Text(x+12, y+18, "Domains", fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	for i, e := range entries {
		ry := y + 36 + 18*i
		canvas.Roundrect(x+12, ry-8, 14, 14, 3, 3, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(e.Color), css(colorStroke)))
		canvas.Text(x+32, ry+4, e.Label, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}
}

// --- PNG -------------------------------------------------------------------

func renderRadarPNG(f radarFrame) *gg.Context {
	l := f.Layout
	g := l.Geometry

	dc := gg.NewContext(f.Width, f.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetLineWidth(1)
	for _, ring := range l.Rings {
		dc.SetColor(colorRing)
		dc.SetDash(4, 4)
		dc.DrawCircle(g.Center.X, g.Center.Y, ring.Radius)
		dc.Stroke()
		dc.SetDash()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(ring.Label, g.Center.X+4, g.Center.Y-ring.Radius-6, 0, 0.5)
	}

	for gi, grp := range l.Groups {
		c := f.Colors[gi]
		end := radar.PolarPoint(g.Center, g.MaxRadius, grp.Angle)
		dc.SetColor(lighten(c, 0.3))
		dc.SetLineWidth(1)
		dc.DrawLine(g.Center.X, g.Center.Y, end.X, end.Y)
		dc.Stroke()
		pngLabel(dc, grp.Label, truncate(grp.Cluster.Name, labelMaxRunes), c)

		dc.SetColor(lighten(c, 0.2))
		dc.SetLineWidth(0.8)
		for _, t := range grp.Technologies {
			dc.DrawLine(t.Point.X, t.Point.Y, t.Label.Pos.X, t.Label.Pos.Y)
			dc.Stroke()
		}
		for _, t := range grp.Technologies {
			dc.SetColor(c)
			dc.DrawCircle(t.Point.X, t.Point.Y, pointRadius)
			dc.Fill()
			dc.SetColor(colorStroke)
			dc.SetLineWidth(1)
			dc.DrawCircle(t.Point.X, t.Point.Y, pointRadius)
			dc.Stroke()
			pngLabel(dc, t.Label, techLabel(t), colorText)
		}
	}

	dc.SetColor(colorText)
	dc.DrawStringAnchored(f.Title, 32, 36, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(f.Summary, 32, 56, 0, 0.5)
	drawLegendPNG(dc, f.Width, f.Legend)
	return dc
}

func pngLabel(dc *gg.Context, lp radar.LabelPlacement, text string, c color.RGBA) {
	ax := 0.0
	if lp.Anchor == radar.AnchorEnd {
		ax = 1
	}
	dc.Push()
	dc.RotateAbout(gg.Radians(lp.Rotation), lp.Pos.X, lp.Pos.Y)
	dc.SetColor(c)
	dc.DrawStringAnchored(text, lp.Pos.X, lp.Pos.Y, ax, 0.5)
	dc.Pop()
}

func drawLegendPNG(dc *gg.Context, width int, entries []legendEntry) {
	if len(entries) == 0 {
		return
	}
	boxW := 160.0
	boxH := 30 + 18*float64(len(entries))
	x := float64(width) - boxW - 20
	y := 20.0
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored("Domains", x+12, y+18, 0, 0.5)
	for i, e := range entries {
		ry := y + 36 + 18*float64(i)
		dc.SetColor(e.Color)
		dc.DrawRoundedRectangle(x+12, ry-7, 14, 14, 3)
		dc.Fill()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(e.Label, x+32, ry, 0, 0.5)
	}
}
