package radar

import (
	"sort"
	"strings"

	"github.com/vanderheijden86/trendradar/pkg/debug"
	"github.com/vanderheijden86/trendradar/pkg/model"
)

// Group is one active cluster with the technologies resolved to it.
type Group struct {
	Cluster      model.Cluster
	Technologies []model.Technology
}

// SlotKind distinguishes cluster-label slots from technology slots.
type SlotKind int

const (
	SlotCluster SlotKind = iota
	SlotTechnology
)

// Slot is one angular unit, held by exactly one cluster label or technology.
type Slot struct {
	Kind  SlotKind
	Group int // index into Allocation.Groups
	Tech  int // index into Groups[Group].Technologies; -1 for cluster slots
	Angle float64
	// Seq numbers technology slots 1..n in traversal order. It only counts
	// what is currently visible and is unrelated to the global rank.
	Seq int
}

// Allocation is the result of partitioning the circle.
type Allocation struct {
	Groups       []Group
	Slots        []Slot
	TotalSlots   int
	AnglePerSlot float64
}

// Empty reports whether nothing was allocated.
func (a Allocation) Empty() bool {
	return a.TotalSlots == 0
}

// GroupTechnologies resolves technologies onto clusters under mode.
//
// In parent and taxonomy mode every cluster in clusters becomes a group and
// technologies whose cluster id is empty or unknown are dropped. In domain
// mode clusters is ignored: one synthetic cluster is made per distinct
// domain, in the order domains are first seen among technologies.
func GroupTechnologies(clusters []model.Cluster, technologies []model.Technology, mode model.ClusteringMode, domainColors map[model.Domain]string) []Group {
	if mode == model.ModeDomain {
		return groupByDomain(technologies, domainColors)
	}

	groups := make([]Group, len(clusters))
	index := make(map[string]int, len(clusters))
	for i, c := range clusters {
		groups[i] = Group{Cluster: c}
		index[c.ID] = i
	}

	dropped := 0
	for _, t := range technologies {
		cid := t.ClusterID(mode)
		gi, ok := index[cid]
		if cid == "" || !ok {
			dropped++
			debug.Logw("technology has no cluster", debug.FieldID, t.ID, "mode", string(mode), "cluster", cid)
			continue
		}
		groups[gi].Technologies = append(groups[gi].Technologies, t)
	}
	debug.LogIf(dropped > 0, "excluded %d technologies without a resolvable cluster", dropped)
	return groups
}

func groupByDomain(technologies []model.Technology, domainColors map[model.Domain]string) []Group {
	var groups []Group
	index := make(map[model.Domain]int)
	for _, t := range technologies {
		if !t.Domain.IsValid() {
			debug.Logw("technology has no domain", debug.FieldID, t.ID)
			continue
		}
		gi, ok := index[t.Domain]
		if !ok {
			gi = len(groups)
			index[t.Domain] = gi
			groups = append(groups, Group{Cluster: model.DomainCluster(t.Domain, domainColors)})
		}
		groups[gi].Technologies = append(groups[gi].Technologies, t)
	}
	return groups
}

// AllocateSlots partitions 360° evenly over every cluster label and every
// technology. Clusters are walked by name unless preserveOrder is set (domain
// mode keeps discovery order); technologies are always walked by name.
//
// The input slices are not modified.
func AllocateSlots(groups []Group, preserveOrder bool) Allocation {
	sorted := make([]Group, len(groups))
	total := 0
	for i, g := range groups {
		techs := append([]model.Technology(nil), g.Technologies...)
		sort.SliceStable(techs, func(a, b int) bool {
			return lessName(techs[a].Name, techs[b].Name, techs[a].ID, techs[b].ID)
		})
		sorted[i] = Group{Cluster: g.Cluster, Technologies: techs}
		total += 1 + len(techs)
	}
	if !preserveOrder {
		sort.SliceStable(sorted, func(a, b int) bool {
			return lessName(sorted[a].Cluster.Name, sorted[b].Cluster.Name, sorted[a].Cluster.ID, sorted[b].Cluster.ID)
		})
	}

	if total == 0 {
		return Allocation{Groups: sorted}
	}

	perSlot := 360 / float64(total)
	slots := make([]Slot, 0, total)
	seq := 0
	cursor := 0.0
	for gi, g := range sorted {
		slots = append(slots, Slot{Kind: SlotCluster, Group: gi, Tech: -1, Angle: cursor})
		cursor = float64(len(slots)) * perSlot
		for ti := range g.Technologies {
			seq++
			slots = append(slots, Slot{Kind: SlotTechnology, Group: gi, Tech: ti, Angle: cursor, Seq: seq})
			cursor = float64(len(slots)) * perSlot
		}
	}

	return Allocation{
		Groups:       sorted,
		Slots:        slots,
		TotalSlots:   total,
		AnglePerSlot: perSlot,
	}
}

// lessName orders by name, then id so equal names stay deterministic.
func lessName(a, b, idA, idB string) bool {
	if a != b {
		return a < b
	}
	return strings.Compare(idA, idB) < 0
}
