package rank

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/trendradar/pkg/model"
)

func fixture() ([]model.Cluster, []model.Technology) {
	clusters := []model.Cluster{
		{ID: "ai", Name: "AI", Domain: model.DomainTechnology},
		{ID: "bio", Name: "Bio", Domain: model.DomainIndustry},
		{ID: "cloud", Name: "Cloud", Domain: model.DomainTechnology},
	}
	techs := []model.Technology{
		{ID: "gene", Name: "Gene Editing", Domain: model.DomainIndustry, ParentID: "bio"},
		{ID: "rob", Name: "Robotics", Domain: model.DomainTechnology, ParentID: "ai"},
		{ID: "k8s", Name: "Kubernetes", Domain: model.DomainTechnology, ParentID: "cloud"},
		{ID: "llm", Name: "LLMs", Domain: model.DomainTechnology, ParentID: "ai"},
		{ID: "ubi", Name: "Basic Income", Domain: model.DomainSociety},
		{ID: "edge", Name: "Edge", Domain: model.DomainTechnology, ParentID: "gone"},
	}
	return clusters, techs
}

func TestBuildOrdering(t *testing.T) {
	clusters, techs := fixture()
	idx := Build(clusters, techs, model.ModeParent)

	// Technology domain first; within it the unresolvable "" cluster sorts
	// before AI, then Cloud. Industry next, Society last.
	assert.Equal(t, []string{"edge", "llm", "rob", "k8s", "gene", "ubi"}, idx.Order())
	assert.Equal(t, 6, idx.Len())

	byID := map[string]string{}
	for _, tech := range techs {
		byID[tech.ID] = idx.Rank(tech)
	}
	assert.Equal(t, "01", byID["edge"])
	assert.Equal(t, "02", byID["llm"])
	assert.Equal(t, "03", byID["rob"])
	assert.Equal(t, "06", byID["ubi"])
}

func TestGlobalRankMissing(t *testing.T) {
	clusters, techs := fixture()
	got := GlobalRank(model.Technology{ID: "nope"}, clusters, techs, model.ModeParent)
	assert.Equal(t, Unranked, got)

	var nilIdx *Index
	assert.Equal(t, Unranked, nilIdx.Rank(model.Technology{ID: "x"}))
	assert.Zero(t, nilIdx.Len())
}

func TestFormatPadsToTwoDigits(t *testing.T) {
	assert.Equal(t, "01", Format(1))
	assert.Equal(t, "42", Format(42))
	assert.Equal(t, "100", Format(100))
	assert.Equal(t, Unranked, Format(0))
}

func TestRankModeDomainUsesDomainAsClusterName(t *testing.T) {
	clusters, techs := fixture()
	idx := Build(clusters, techs, model.ModeDomain)
	// All Technology-domain entries share the cluster name, so names decide.
	assert.Equal(t, []string{"edge", "k8s", "llm", "rob", "gene", "ubi"}, idx.Order())
}

func TestRankStableUnderFilteringInputOrder(t *testing.T) {
	clusters, techs := fixture()
	want := Build(clusters, techs, model.ModeParent)

	reversed := make([]model.Technology, len(techs))
	for i, tech := range techs {
		reversed[len(techs)-1-i] = tech
	}
	got := Build(clusters, reversed, model.ModeParent)
	for _, tech := range techs {
		assert.Equal(t, want.Rank(tech), got.Rank(tech), tech.ID)
	}
}

func TestRankManyEntries(t *testing.T) {
	var techs []model.Technology
	for i := 0; i < 120; i++ {
		techs = append(techs, model.Technology{ID: fmt.Sprintf("t%03d", i), Name: fmt.Sprintf("Tech %03d", i), Domain: model.DomainTechnology})
	}
	idx := Build(nil, techs, model.ModeParent)
	require.Equal(t, 120, idx.Len())
	assert.Equal(t, "01", idx.Rank(techs[0]))
	assert.Equal(t, "120", idx.Rank(techs[119]))
}
