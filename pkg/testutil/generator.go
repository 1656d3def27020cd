// Package testutil provides deterministic snapshot fixtures and assertion
// helpers for trendradar tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/trendradar/pkg/model"
)

// GeneratorConfig controls snapshot generation.
type GeneratorConfig struct {
	Seed            int64  // Random seed for determinism (0 = use current time)
	IDPrefix        string // Prefix for ids (default: "T")
	Clusters        int    // Clusters per domain (default: 2)
	PerCluster      int    // Max technologies per cluster (default: 4)
	OrphanRatio     float64
	IncludeTaxonomy bool // Also fill TaxonomyID
	IncludeHorizon  bool // Fill Horizon
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:           42,
		IDPrefix:       "T",
		Clusters:       2,
		PerCluster:     4,
		IncludeHorizon: true,
	}
}

// Generator creates snapshot fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "T"
	}
	if cfg.Clusters <= 0 {
		cfg.Clusters = 2
	}
	if cfg.PerCluster <= 0 {
		cfg.PerCluster = 4
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

var sampleWords = []string{
	"Quantum", "Neural", "Edge", "Solar", "Gene", "Robot", "Carbon", "Civic",
	"Fusion", "Urban", "Spatial", "Synthetic", "Open", "Circular", "Digital",
}

var sampleColors = []string{"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4", "#46f0f0"}

// Snapshot generates Clusters×len(Domains) clusters, each with 1..PerCluster
// technologies. With OrphanRatio > 0 some technologies point at a missing
// parent.
func (g *Generator) Snapshot() model.Snapshot {
	var snap model.Snapshot
	n := 0
	for _, d := range model.Domains {
		for c := 0; c < g.cfg.Clusters; c++ {
			cid := fmt.Sprintf("%s-c%d", g.cfg.IDPrefix, len(snap.Clusters)+1)
			snap.Clusters = append(snap.Clusters, model.Cluster{
				ID:     cid,
				Name:   fmt.Sprintf("%s %s", d, g.word()),
				Domain: d,
				Color:  sampleColors[len(snap.Clusters)%len(sampleColors)],
			})
			count := g.rng.Intn(g.cfg.PerCluster) + 1
			for i := 0; i < count; i++ {
				n++
				t := model.Technology{
					ID:       fmt.Sprintf("%s-%d", g.cfg.IDPrefix, n),
					Name:     fmt.Sprintf("%s %s %d", g.word(), g.word(), n),
					Domain:   d,
					ParentID: cid,
					TRL:      g.rng.Intn(model.MaxOrdinal) + 1,
					BRL:      g.rng.Intn(model.MaxOrdinal) + 1,
				}
				if g.cfg.IncludeHorizon {
					t.Horizon = model.Horizons[g.rng.Intn(len(model.Horizons))]
				}
				if g.cfg.IncludeTaxonomy {
					t.TaxonomyID = cid
				}
				if g.cfg.OrphanRatio > 0 && g.rng.Float64() < g.cfg.OrphanRatio {
					t.ParentID = "missing-" + cid
				}
				snap.Technologies = append(snap.Technologies, t)
			}
		}
	}
	return snap
}

func (g *Generator) word() string {
	return sampleWords[g.rng.Intn(len(sampleWords))]
}

// QuickSnapshot creates a snapshot with default settings.
func QuickSnapshot() model.Snapshot {
	return NewDefault().Snapshot()
}

// Scenario is the two-cluster reference snapshot: "AI" (Technology) with
// LLMs (TRL 9) and Robotics (TRL 3), and "Bio" (Industry) with Gene Editing
// (TRL 5).
func Scenario() model.Snapshot {
	return model.Snapshot{
		Clusters: []model.Cluster{
			{ID: "ai", Name: "AI", Domain: model.DomainTechnology, Color: "#111"},
			{ID: "bio", Name: "Bio", Domain: model.DomainIndustry, Color: "#222"},
		},
		Technologies: []model.Technology{
			{ID: "llm", Name: "LLMs", Domain: model.DomainTechnology, ParentID: "ai", TRL: 9, BRL: 6, Horizon: model.HorizonNow},
			{ID: "rob", Name: "Robotics", Domain: model.DomainTechnology, ParentID: "ai", TRL: 3, BRL: 2, Horizon: model.HorizonMedium},
			{ID: "gene", Name: "Gene Editing", Domain: model.DomainIndustry, ParentID: "bio", TRL: 5, BRL: 4, Horizon: model.HorizonLong},
		},
	}
}

// Empty returns an empty snapshot for edge case testing.
func Empty() model.Snapshot {
	return model.Snapshot{}
}

// ToJSONL renders snap in the loader's record format.
func ToJSONL(snap model.Snapshot) string {
	var sb strings.Builder
	write := func(kind string, v any) {
		data, err := json.Marshal(v)
		if err != nil {
			return
		}
		// Splice the kind tag into the object.
		sb.WriteString(`{"kind":"` + kind + `",`)
		sb.Write(data[1:])
		sb.WriteByte('\n')
	}
	for _, c := range snap.Clusters {
		write("cluster", c)
	}
	for _, t := range snap.Technologies {
		write("technology", t)
	}
	return sb.String()
}
