// Package rank assigns every technology a stable display number ("01",
// "02", ...) from one global ordering: domain priority, then the name of the
// technology's cluster, then the technology's own name.
//
// The ordering is always built from the full, unfiltered snapshot so numbers
// do not move when filters or focus change.
package rank

import (
	"fmt"
	"sort"

	"github.com/vanderheijden86/trendradar/pkg/metrics"
	"github.com/vanderheijden86/trendradar/pkg/model"
)

// Unranked is returned for technologies missing from the ordering.
const Unranked = "00"

// Index is a precomputed id → position table. It is read-only after Build
// and safe for concurrent use.
type Index struct {
	pos   map[string]int
	order []string
}

// Build orders allTechnologies and records each one's 1-based position.
// Cluster names are resolved under mode; in domain mode the cluster name is
// the domain itself. Unresolvable clusters sort as "".
func Build(allClusters []model.Cluster, allTechnologies []model.Technology, mode model.ClusteringMode) *Index {
	defer metrics.Timer(metrics.RankIndex)()

	names := make(map[string]string, len(allClusters))
	for _, c := range allClusters {
		names[c.ID] = c.Name
	}
	clusterName := func(t model.Technology) string {
		if mode == model.ModeDomain {
			return t.ClusterID(mode)
		}
		return names[t.ClusterID(mode)]
	}

	type entry struct {
		id, cluster, name string
		domain            int
	}
	entries := make([]entry, len(allTechnologies))
	for i, t := range allTechnologies {
		entries[i] = entry{
			id:      t.ID,
			domain:  t.Domain.Order(),
			cluster: clusterName(t),
			name:    t.Name,
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.domain != b.domain {
			return a.domain < b.domain
		}
		if a.cluster != b.cluster {
			return a.cluster < b.cluster
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.id < b.id
	})

	idx := &Index{
		pos:   make(map[string]int, len(entries)),
		order: make([]string, len(entries)),
	}
	for i, e := range entries {
		if _, dup := idx.pos[e.id]; !dup {
			idx.pos[e.id] = i + 1
		}
		idx.order[i] = e.id
	}
	return idx
}

// Position returns the 1-based position of id, or 0 when absent.
func (x *Index) Position(id string) int {
	if x == nil {
		return 0
	}
	return x.pos[id]
}

// Rank returns the zero-padded display number of t, or Unranked.
func (x *Index) Rank(t model.Technology) string {
	return Format(x.Position(t.ID))
}

// Len returns the number of ranked technologies.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.order)
}

// Order returns technology ids in rank order.
func (x *Index) Order() []string {
	if x == nil {
		return nil
	}
	return append([]string(nil), x.order...)
}

// Format pads a 1-based position to at least two digits. Zero or negative
// positions format as Unranked.
func Format(pos int) string {
	if pos <= 0 {
		return Unranked
	}
	return fmt.Sprintf("%02d", pos)
}

// GlobalRank is the one-shot form of Build(...).Rank(tech). Prefer an Index
// when ranking many technologies.
func GlobalRank(tech model.Technology, allClusters []model.Cluster, allTechnologies []model.Technology, mode model.ClusteringMode) string {
	return Build(allClusters, allTechnologies, mode).Rank(tech)
}
