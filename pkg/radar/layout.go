// Package radar turns clustered technologies into polar coordinates for the
// trend radar: one angular slot per cluster label and per technology, a
// radius from the selected maturity axis, and a label on a fixed outer ring.
//
// Everything here is a pure function of its arguments. Callers own all state
// (filters, focus, viewport) and pass it in.
package radar

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/trendradar/pkg/debug"
	"github.com/vanderheijden86/trendradar/pkg/metrics"
	"github.com/vanderheijden86/trendradar/pkg/model"
)

// TechLayout is a positioned technology.
type TechLayout struct {
	Tech       model.Technology
	Ordinal    int
	Radius     float64
	Angle      float64
	IsLeftSide bool
	Point      r2.Vec // on-circle point
	Label      LabelPlacement
	Rank       string // global, filter independent
	Seq        int    // visible-set counter
}

// GroupLayout is a positioned cluster spoke. Clusters only get a label on
// the outer ring, never a point.
type GroupLayout struct {
	Cluster      model.Cluster
	Angle        float64
	IsLeftSide   bool
	Label        LabelPlacement
	Technologies []TechLayout
}

// Layout is a complete radar frame.
type Layout struct {
	Axis         model.Axis
	Mode         model.ClusteringMode
	Geometry     Geometry
	TotalSlots   int
	AnglePerSlot float64
	Groups       []GroupLayout
	Rings        []Ring
}

// Empty reports whether there is nothing to draw. Callers render an
// empty-state message instead.
func (l Layout) Empty() bool {
	return len(l.Groups) == 0
}

// TechnologyCount returns the number of positioned technologies.
func (l Layout) TechnologyCount() int {
	n := 0
	for _, g := range l.Groups {
		n += len(g.Technologies)
	}
	return n
}

// Find returns the positioned technology with id.
func (l Layout) Find(id string) (TechLayout, bool) {
	for _, g := range l.Groups {
		for _, t := range g.Technologies {
			if t.Tech.ID == id {
				return t, true
			}
		}
	}
	return TechLayout{}, false
}

// Options tunes ComputeLayout.
type Options struct {
	// Rank labels each technology with its global rank. When nil the Rank
	// field is left empty.
	Rank func(model.Technology) string
	// DomainColors colors synthetic clusters in domain mode.
	DomainColors map[model.Domain]string
	// Parallel fans the per-slot radius pass out per cluster. The angular
	// cursor is always computed first, sequentially.
	Parallel bool
}

// ComputeLayout lays out the given (already filtered) clusters and
// technologies. An unknown axis is treated as TRL and an unknown clustering
// mode as parent. Zero slots yield an empty layout.
func ComputeLayout(clusters []model.Cluster, technologies []model.Technology, axis model.Axis, mode model.ClusteringMode, g Geometry, opts Options) Layout {
	defer metrics.Timer(metrics.RadarLayout)()

	axis = model.ParseAxis(string(axis))
	mode = model.ParseClusteringMode(string(mode))

	groups := GroupTechnologies(clusters, technologies, mode, opts.DomainColors)
	alloc := AllocateSlots(groups, mode == model.ModeDomain)

	layout := Layout{
		Axis:         axis,
		Mode:         mode,
		Geometry:     g,
		TotalSlots:   alloc.TotalSlots,
		AnglePerSlot: alloc.AnglePerSlot,
		Rings:        Rings(axis, g),
	}
	if alloc.Empty() {
		debug.Log("radar: empty layout (%d clusters, %d technologies in)", len(clusters), len(technologies))
		return layout
	}

	layout.Groups = make([]GroupLayout, len(alloc.Groups))
	for gi, grp := range alloc.Groups {
		layout.Groups[gi] = GroupLayout{
			Cluster:      grp.Cluster,
			Technologies: make([]TechLayout, len(grp.Technologies)),
		}
	}

	// Cluster slots are cheap; place them inline and collect technology
	// slots per group for the radius pass.
	techSlots := make([][]Slot, len(alloc.Groups))
	for _, s := range alloc.Slots {
		if s.Kind == SlotCluster {
			gl := &layout.Groups[s.Group]
			gl.Angle = s.Angle
			gl.IsLeftSide = IsLeftSide(s.Angle)
			gl.Label = PlaceLabel(s.Angle, g)
			continue
		}
		techSlots[s.Group] = append(techSlots[s.Group], s)
	}

	place := func(gi int) {
		grp := alloc.Groups[gi]
		out := layout.Groups[gi].Technologies
		for _, s := range techSlots[gi] {
			out[s.Tech] = placeTechnology(grp.Technologies[s.Tech], s, axis, g, opts.Rank)
		}
	}

	if opts.Parallel && len(alloc.Groups) > 1 {
		var eg errgroup.Group
		for gi := range alloc.Groups {
			eg.Go(func() error {
				place(gi)
				return nil
			})
		}
		_ = eg.Wait()
	} else {
		for gi := range alloc.Groups {
			place(gi)
		}
	}

	return layout
}

func placeTechnology(t model.Technology, s Slot, axis model.Axis, g Geometry, rank func(model.Technology) string) TechLayout {
	v := model.OrdinalValue(t, axis)
	r := PointRadius(v, g)
	tl := TechLayout{
		Tech:       t,
		Ordinal:    v,
		Radius:     r,
		Angle:      s.Angle,
		IsLeftSide: IsLeftSide(s.Angle),
		Point:      PolarPoint(g.Center, r, s.Angle),
		Label:      PlaceLabel(s.Angle, g),
		Seq:        s.Seq,
	}
	if rank != nil {
		tl.Rank = rank(t)
	}
	return tl
}

// Callbacks are the selection hooks the surrounding UI provides. The layout
// never navigates on its own.
type Callbacks struct {
	OnTechnologySelect func(model.Technology)
	OnClusterSelect    func(*model.Cluster) // nil clears the selection
}

// SelectTechnology invokes OnTechnologySelect if set.
func (c Callbacks) SelectTechnology(t model.Technology) {
	if c.OnTechnologySelect != nil {
		c.OnTechnologySelect(t)
	}
}

// SelectCluster invokes OnClusterSelect if set.
func (c Callbacks) SelectCluster(cl *model.Cluster) {
	if c.OnClusterSelect != nil {
		c.OnClusterSelect(cl)
	}
}
