package export

import (
	"math"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/trendradar/pkg/matrix"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/radar"
)

// LayoutExport is the scripting form of one radar or matrix frame.
type LayoutExport struct {
	View         string            `json:"view"` // "radar" or "matrix"
	Axis         string            `json:"axis,omitempty"`
	XAxis        string            `json:"x_axis,omitempty"`
	YAxis        string            `json:"y_axis,omitempty"`
	Mode         string            `json:"mode,omitempty"`
	TotalSlots   int               `json:"total_slots,omitempty"`
	AnglePerSlot float64           `json:"angle_per_slot,omitempty"`
	Rings        []ExportRing      `json:"rings,omitempty"`
	Clusters     []ExportCluster   `json:"clusters,omitempty"`
	Points       []ExportMatrixPos `json:"points,omitempty"`
	Explanation  string            `json:"explanation"`
}

// ExportRing is one reference ring.
type ExportRing struct {
	Ordinal int     `json:"ordinal"`
	Radius  float64 `json:"radius"`
	Label   string  `json:"label"`
}

// ExportPos is a 2D coordinate.
type ExportPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ExportLabel is a positioned label.
type ExportLabel struct {
	Pos      ExportPos `json:"pos"`
	Anchor   string    `json:"anchor"`
	Rotation float64   `json:"rotation"`
}

// ExportCluster is a cluster spoke and its technologies.
type ExportCluster struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Domain       string       `json:"domain"`
	Color        string       `json:"color,omitempty"`
	Angle        float64      `json:"angle"`
	IsLeftSide   bool         `json:"is_left_side"`
	Label        ExportLabel  `json:"label"`
	Technologies []ExportTech `json:"technologies"`
}

// ExportTech is a positioned technology.
type ExportTech struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Rank       string      `json:"rank,omitempty"`
	Seq        int         `json:"seq"`
	Ordinal    int         `json:"ordinal"`
	Angle      float64     `json:"angle"`
	Radius     float64     `json:"radius"`
	IsLeftSide bool        `json:"is_left_side"`
	Point      ExportPos   `json:"point"`
	Label      ExportLabel `json:"label"`
}

// ExportMatrixPos is a technology on the matrix.
type ExportMatrixPos struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Domain   string  `json:"domain"`
	XPercent float64 `json:"x_percent"`
	YPercent float64 `json:"y_percent"`
}

// round3 keeps exported coordinates readable and stable across platforms.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func exportLabel(lp radar.LabelPlacement) ExportLabel {
	return ExportLabel{
		Pos:      ExportPos{X: round3(lp.Pos.X), Y: round3(lp.Pos.Y)},
		Anchor:   string(lp.Anchor),
		Rotation: round3(lp.Rotation),
	}
}

// ExportRadarLayout converts a radar frame for JSON output.
func ExportRadarLayout(l radar.Layout) *LayoutExport {
	out := &LayoutExport{
		View:         "radar",
		Axis:         string(l.Axis),
		Mode:         string(l.Mode),
		TotalSlots:   l.TotalSlots,
		AnglePerSlot: round3(l.AnglePerSlot),
		Clusters:     make([]ExportCluster, 0, len(l.Groups)),
		Explanation:  "Polar layout: angle in degrees (0 = right, clockwise), radius in scene units from the center",
	}
	if l.Empty() {
		out.Explanation = "Empty layout - no technologies match the active filters"
	}
	for _, r := range l.Rings {
		out.Rings = append(out.Rings, ExportRing{Ordinal: r.Ordinal, Radius: round3(r.Radius), Label: r.Label})
	}
	for _, g := range l.Groups {
		ec := ExportCluster{
			ID:           g.Cluster.ID,
			Name:         g.Cluster.Name,
			Domain:       string(g.Cluster.Domain),
			Color:        g.Cluster.Color,
			Angle:        round3(g.Angle),
			IsLeftSide:   g.IsLeftSide,
			Label:        exportLabel(g.Label),
			Technologies: make([]ExportTech, 0, len(g.Technologies)),
		}
		for _, t := range g.Technologies {
			ec.Technologies = append(ec.Technologies, ExportTech{
				ID:         t.Tech.ID,
				Name:       t.Tech.Name,
				Rank:       t.Rank,
				Seq:        t.Seq,
				Ordinal:    t.Ordinal,
				Angle:      round3(t.Angle),
				Radius:     round3(t.Radius),
				IsLeftSide: t.IsLeftSide,
				Point:      ExportPos{X: round3(t.Point.X), Y: round3(t.Point.Y)},
				Label:      exportLabel(t.Label),
			})
		}
		out.Clusters = append(out.Clusters, ec)
	}
	return out
}

// ExportMatrixLayout converts a matrix frame for JSON output.
func ExportMatrixLayout(points []matrix.Point, xAxis, yAxis model.Axis) *LayoutExport {
	out := &LayoutExport{
		View:        "matrix",
		XAxis:       string(model.ParseAxis(string(xAxis))),
		YAxis:       string(model.ParseAxis(string(yAxis))),
		Points:      make([]ExportMatrixPos, 0, len(points)),
		Explanation: "Cartesian layout: percentages of the plot area, origin bottom-left",
	}
	for _, p := range points {
		out.Points = append(out.Points, ExportMatrixPos{
			ID:       p.Tech.ID,
			Name:     p.Tech.Name,
			Domain:   string(p.Tech.Domain),
			XPercent: round3(p.XPercent),
			YPercent: round3(p.YPercent),
		})
	}
	return out
}

// JSON returns the export as indented JSON bytes.
func (e *LayoutExport) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}
