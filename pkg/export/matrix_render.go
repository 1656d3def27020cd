package export

import (
	"fmt"
	"image/color"
	"io"
	"slices"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/trendradar/pkg/matrix"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/radar"
)

const (
	matrixWidth  = 1000
	matrixHeight = 800
	plotLeft     = 110.0
	plotTop      = 100.0
	plotRight    = 40.0
	plotBottom   = 80.0
)

type matrixFrame struct {
	Snapshot MatrixSnapshot
	Width    int
	Height   int
	Title    string
	Summary  string
	Legend   []legendEntry
	Colors   []color.RGBA // per point
}

func newMatrixFrame(m MatrixSnapshot, opts SnapshotOptions) matrixFrame {
	m.XAxis = model.ParseAxis(string(m.XAxis))
	m.YAxis = model.ParseAxis(string(m.YAxis))
	f := matrixFrame{
		Snapshot: m,
		Width:    matrixWidth,
		Height:   matrixHeight,
		Title:    titleOr(opts.Title, "Trend Matrix"),
		Summary: fmt.Sprintf("x: %s  y: %s  technologies: %d",
			m.XAxis.Title(), m.YAxis.Title(), len(m.Points)),
		Colors: make([]color.RGBA, len(m.Points)),
	}

	byID := make(map[string]model.Cluster, len(m.Clusters))
	for _, c := range m.Clusters {
		byID[c.ID] = c
	}
	var domains []model.Domain
	for i, p := range m.Points {
		if c, ok := byID[p.Tech.ParentID]; ok && c.Color != "" {
			f.Colors[i] = parseColor(c.Color)
		} else {
			f.Colors[i] = parseColor(model.DomainCluster(p.Tech.Domain, opts.DomainColors).Color)
		}
		if !slices.Contains(domains, p.Tech.Domain) {
			domains = append(domains, p.Tech.Domain)
		}
	}
	f.Legend = domainLegend(domains, opts.DomainColors)
	return f
}

func (f matrixFrame) plotSize() (w, h float64) {
	return float64(f.Width) - plotLeft - plotRight, float64(f.Height) - plotTop - plotBottom
}

// screen maps plot percentages to canvas coordinates; y grows upward on
// the plot.
func (f matrixFrame) screen(xPct, yPct float64) (float64, float64) {
	w, h := f.plotSize()
	return plotLeft + xPct/100*w, plotTop + (1-yPct/100)*h
}

// --- SVG -------------------------------------------------------------------

func renderMatrixSVG(w io.Writer, f matrixFrame) error {
	m := f.Snapshot
	pw, ph := f.plotSize()

	canvas := svg.New(w)
	canvas.Start(f.Width, f.Height)
	canvas.Rect(0, 0, f.Width, f.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Rect(px(plotLeft), px(plotTop), px(pw), px(ph), fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", css(colorStroke)))

	grid := fmt.Sprintf("stroke:%s;stroke-width:1;stroke-dasharray:4,4", css(colorRing))
	tick := fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle))
	for v := model.MinOrdinal; v <= model.MaxOrdinal; v++ {
		x, y := f.screen(matrix.Percent(v), matrix.Percent(v))
		canvas.Line(px(x), px(plotTop), px(x), px(plotTop+ph), grid)
		canvas.Line(px(plotLeft), px(y), px(plotLeft+pw), px(y), grid)
		canvas.Text(px(x), px(plotTop+ph)+18, radar.RingLabel(m.XAxis, v), tick, `text-anchor="middle"`)
		canvas.Text(px(plotLeft)-8, px(y)+4, radar.RingLabel(m.YAxis, v), tick, `text-anchor="end"`)
	}

	axisStyle := fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText))
	canvas.Text(px(plotLeft+pw/2), f.Height-24, m.XAxis.Title(), axisStyle, `text-anchor="middle"`)
	yx, yy := 24, px(plotTop+ph/2)
	canvas.Text(yx, yy, m.YAxis.Title(), axisStyle, `text-anchor="middle"`,
		fmt.Sprintf(`transform="rotate(-90 %d %d)"`, yx, yy))

	for i, p := range m.Points {
		x, y := f.screen(p.XPercent, p.YPercent)
		canvas.Circle(px(x), px(y), px(pointRadius),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(f.Colors[i]), css(colorStroke)))
		canvas.Text(px(x+pointRadius+4), px(y)+4, truncate(p.Tech.Name, labelMaxRunes),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorText)))
	}

	canvas.Text(32, 40, f.Title, fmt.Sprintf("fill:%s;font-size:18px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 62, f.Summary, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	drawLegendSVG(canvas, f.Width, f.Legend)

	canvas.End()
	return nil
}

// --- PNG -------------------------------------------------------------------

func renderMatrixPNG(f matrixFrame) *gg.Context {
	m := f.Snapshot
	pw, ph := f.plotSize()

	dc := gg.NewContext(f.Width, f.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorStroke)
	dc.SetLineWidth(1)
	dc.DrawRectangle(plotLeft, plotTop, pw, ph)
	dc.Stroke()

	for v := model.MinOrdinal; v <= model.MaxOrdinal; v++ {
		x, y := f.screen(matrix.Percent(v), matrix.Percent(v))
		dc.SetColor(colorRing)
		dc.SetDash(4, 4)
		dc.DrawLine(x, plotTop, x, plotTop+ph)
		dc.DrawLine(plotLeft, y, plotLeft+pw, y)
		dc.Stroke()
		dc.SetDash()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(radar.RingLabel(m.XAxis, v), x, plotTop+ph+16, 0.5, 0.5)
		dc.DrawStringAnchored(radar.RingLabel(m.YAxis, v), plotLeft-8, y, 1, 0.5)
	}

	dc.SetColor(colorText)
	dc.DrawStringAnchored(m.XAxis.Title(), plotLeft+pw/2, float64(f.Height)-24, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), 24, plotTop+ph/2)
	dc.DrawStringAnchored(m.YAxis.Title(), 24, plotTop+ph/2, 0.5, 0.5)
	dc.Pop()

	for i, p := range m.Points {
		x, y := f.screen(p.XPercent, p.YPercent)
		dc.SetColor(f.Colors[i])
		dc.DrawCircle(x, y, pointRadius)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.DrawCircle(x, y, pointRadius)
		dc.Stroke()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(truncate(p.Tech.Name, labelMaxRunes), x+pointRadius+4, y, 0, 0.5)
	}

	dc.SetColor(colorText)
	dc.DrawStringAnchored(f.Title, 32, 36, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(f.Summary, 32, 56, 0, 0.5)
	drawLegendPNG(dc, f.Width, f.Legend)
	return dc
}
