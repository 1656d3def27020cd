package model

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdinalValue(t *testing.T) {
	tech := Technology{ID: "t", Name: "T", TRL: 7, BRL: 2, Horizon: HorizonLong}

	tests := []struct {
		axis Axis
		want int
	}{
		{AxisTRL, 7},
		{AxisBRL, 2},
		{AxisHorizon, 3},
		{Axis("bogus"), 7}, // unknown axis behaves like TRL
	}
	for _, tt := range tests {
		t.Run(string(tt.axis), func(t *testing.T) {
			assert.Equal(t, tt.want, OrdinalValue(tech, tt.axis))
		})
	}
}

func TestHorizonOrdinals(t *testing.T) {
	want := []int{9, 7, 5, 3, 1}
	for i, h := range Horizons {
		assert.Equal(t, want[i], HorizonOrdinal(h), "bucket %s", h)
		assert.Equal(t, h, HorizonForOrdinal(want[i]))
	}
	assert.Equal(t, MidOrdinal, HorizonOrdinal(HorizonUnknown))
	assert.Equal(t, MidOrdinal, HorizonOrdinal(Horizon("someday")))
}

func TestOrdinalValueMissingAndOutOfRange(t *testing.T) {
	assert.Equal(t, MidOrdinal, OrdinalValue(Technology{}, AxisTRL))
	assert.Equal(t, MaxOrdinal, OrdinalValue(Technology{TRL: 12}, AxisTRL))
	assert.Equal(t, MinOrdinal, OrdinalValue(Technology{BRL: -3}, AxisBRL))
}

func TestParseEnumsFallBack(t *testing.T) {
	assert.Equal(t, AxisTRL, ParseAxis("nope"))
	assert.Equal(t, AxisBRL, ParseAxis(" BRL "))
	assert.Equal(t, AxisHorizon, ParseAxis("horizon"))

	assert.Equal(t, ModeParent, ParseClusteringMode(""))
	assert.Equal(t, ModeTaxonomy, ParseClusteringMode("Taxonomy"))
	assert.Equal(t, ModeDomain, ParseClusteringMode("domain"))

	assert.Equal(t, DomainIndustry, ParseDomain("industry"))
	assert.Equal(t, DomainUnknown, ParseDomain("Finance"))

	assert.Equal(t, HorizonShort, ParseHorizon("2-5 years"))
	assert.Equal(t, HorizonDistant, ParseHorizon("DISTANT"))
	assert.Equal(t, HorizonUnknown, ParseHorizon("later"))
}

func TestCycling(t *testing.T) {
	assert.Equal(t, AxisBRL, AxisTRL.Next())
	assert.Equal(t, AxisTRL, AxisHorizon.Next())
	assert.Equal(t, ModeTaxonomy, ModeParent.Next())
	assert.Equal(t, ModeParent, ModeDomain.Next())
}

func TestDomainOrder(t *testing.T) {
	assert.Less(t, DomainTechnology.Order(), DomainIndustry.Order())
	assert.Less(t, DomainIndustry.Order(), DomainSociety.Order())
	assert.Equal(t, len(Domains), DomainUnknown.Order())
	assert.False(t, DomainUnknown.IsValid())
}

func TestClusterIDPerMode(t *testing.T) {
	tech := Technology{ID: "t", ParentID: "p1", TaxonomyID: "x1", Domain: DomainSociety}
	assert.Equal(t, "p1", tech.ClusterID(ModeParent))
	assert.Equal(t, "x1", tech.ClusterID(ModeTaxonomy))
	assert.Equal(t, "Society", tech.ClusterID(ModeDomain))

	tech.Domain = DomainUnknown
	assert.Empty(t, tech.ClusterID(ModeDomain))
}

func TestDomainClusterColor(t *testing.T) {
	c := DomainCluster(DomainIndustry, nil)
	assert.Equal(t, "Industry", c.ID)
	assert.Equal(t, DefaultDomainColors[DomainIndustry], c.Color)

	c = DomainCluster(DomainIndustry, map[Domain]string{DomainIndustry: "#abcdef"})
	assert.Equal(t, "#abcdef", c.Color)
}

func TestJSONDecodeValidatesEnums(t *testing.T) {
	raw := `{"id":"t1","name":"LLMs","domain":"technology","trl":9,"brl":4,"horizon":"2-5 years"}`
	var tech Technology
	require.NoError(t, json.Unmarshal([]byte(raw), &tech))
	assert.Equal(t, DomainTechnology, tech.Domain)
	assert.Equal(t, HorizonShort, tech.Horizon)
	require.NoError(t, tech.Validate())

	raw = `{"id":"t2","name":"X","domain":"Finance"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &tech))
	assert.Error(t, tech.Validate())
}

func TestSnapshotHelpers(t *testing.T) {
	s := Snapshot{
		Clusters:     []Cluster{{ID: "c1", Name: "AI"}},
		Technologies: []Technology{{ID: "t1", Name: "LLMs", Domain: DomainTechnology}},
	}
	require.NoError(t, s.Validate())
	assert.Equal(t, "AI", s.ClusterByID()["c1"].Name)
	got, ok := s.TechnologyByID("t1")
	assert.True(t, ok)
	assert.Equal(t, "LLMs", got.Name)
	_, ok = s.TechnologyByID("missing")
	assert.False(t, ok)

	s.Clusters = append(s.Clusters, Cluster{ID: "c2"})
	assert.Error(t, s.Validate())
}
