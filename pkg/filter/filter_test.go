package filter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/rank"
)

var (
	ai  = model.Cluster{ID: "ai", Name: "AI", Domain: model.DomainTechnology}
	bio = model.Cluster{ID: "bio", Name: "Bio", Domain: model.DomainIndustry}

	clusters = []model.Cluster{ai, bio}
	techs    = []model.Technology{
		{ID: "llm", Name: "LLMs", Domain: model.DomainTechnology, ParentID: "ai"},
		{ID: "rob", Name: "Robotics", Domain: model.DomainTechnology, ParentID: "ai"},
		{ID: "gene", Name: "Gene Editing", Domain: model.DomainIndustry, ParentID: "bio"},
		{ID: "ubi", Name: "Basic Income", Domain: model.DomainSociety},
	}
)

func ids(ts []model.Technology) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestNewEnablesEverything(t *testing.T) {
	s := New()
	assert.Equal(t, model.Domains, s.EnabledDomains())
	_, focused := s.FocusedCluster()
	assert.False(t, focused)
}

func TestToggleDomain(t *testing.T) {
	s := New().ToggleDomain(model.DomainIndustry)
	assert.False(t, s.Enabled(model.DomainIndustry))
	assert.True(t, s.Enabled(model.DomainTechnology))

	s = s.ToggleDomain(model.DomainIndustry)
	assert.True(t, s.Enabled(model.DomainIndustry))
}

func TestToggleDoesNotMutateReceiver(t *testing.T) {
	s := New()
	_ = s.ToggleDomain(model.DomainSociety)
	assert.True(t, s.Enabled(model.DomainSociety))
}

func TestLastDomainGuard(t *testing.T) {
	s := New().
		ToggleDomain(model.DomainIndustry).
		ToggleDomain(model.DomainSociety)
	require.Equal(t, []model.Domain{model.DomainTechnology}, s.EnabledDomains())

	again := s.ToggleDomain(model.DomainTechnology)
	assert.Equal(t, []model.Domain{model.DomainTechnology}, again.EnabledDomains())
}

func TestToggleUnknownDomainIgnored(t *testing.T) {
	s := New().ToggleDomain(model.DomainUnknown)
	assert.True(t, s.Equal(New()))
}

func TestTogglingFocusedDomainClearsFocus(t *testing.T) {
	s := New().Focus(bio).ToggleDomain(model.DomainIndustry)
	_, focused := s.FocusedCluster()
	assert.False(t, focused)

	s = New().Focus(bio).ToggleDomain(model.DomainSociety)
	id, focused := s.FocusedCluster()
	assert.True(t, focused)
	assert.Equal(t, "bio", id)
}

func TestSetDomains(t *testing.T) {
	s := New().Focus(ai).SetDomains(model.DomainSociety)
	assert.Equal(t, []model.Domain{model.DomainSociety}, s.EnabledDomains())
	_, focused := s.FocusedCluster()
	assert.False(t, focused)

	unchanged := s.SetDomains()
	assert.True(t, unchanged.Equal(s))
}

func TestReset(t *testing.T) {
	s := New().ToggleDomain(model.DomainSociety).Focus(ai).Reset()
	assert.True(t, s.Equal(New()))
}

func TestApply(t *testing.T) {
	got := Apply(New(), clusters, techs, model.ModeParent)
	assert.Len(t, got.Clusters, 2)
	assert.Equal(t, []string{"llm", "rob", "gene", "ubi"}, ids(got.Technologies))

	got = Apply(New().ToggleDomain(model.DomainTechnology), clusters, techs, model.ModeParent)
	assert.Equal(t, []model.Cluster{bio}, got.Clusters)
	assert.Equal(t, []string{"gene", "ubi"}, ids(got.Technologies))

	got = Apply(New().Focus(ai), clusters, techs, model.ModeParent)
	assert.Equal(t, []model.Cluster{ai}, got.Clusters)
	assert.Equal(t, []string{"llm", "rob"}, ids(got.Technologies))
}

func TestApplyDomainModeFocus(t *testing.T) {
	society := model.DomainCluster(model.DomainSociety, nil)
	got := Apply(New().Focus(society), nil, techs, model.ModeDomain)
	assert.Equal(t, []string{"ubi"}, ids(got.Technologies))
	assert.False(t, got.Empty())
}

func TestRankStableUnderFilters(t *testing.T) {
	idx := rank.Build(clusters, techs, model.ModeParent)
	want := map[string]string{}
	for _, tech := range techs {
		want[tech.ID] = idx.Rank(tech)
	}

	for _, s := range []State{New(), New().ToggleDomain(model.DomainTechnology), New().Focus(bio)} {
		active := Apply(s, clusters, techs, model.ModeParent)
		for _, tech := range active.Technologies {
			assert.Equal(t, want[tech.ID], idx.Rank(tech), "%s under %s", tech.ID, s)
		}
	}
}

func TestStoreDispatchNotifies(t *testing.T) {
	store := NewStore()
	var seen []State
	unsubscribe := store.Subscribe(func(s State) { seen = append(seen, s) })

	assert.True(t, store.Dispatch(ToggleDomainAction(model.DomainSociety)))
	assert.True(t, store.Dispatch(FocusAction(ai)))
	assert.True(t, store.Dispatch(ClearFocusAction()))
	require.Len(t, seen, 3)
	assert.False(t, seen[0].Enabled(model.DomainSociety))

	unsubscribe()
	assert.True(t, store.Dispatch(ResetAction()))
	assert.Len(t, seen, 3)
	assert.True(t, store.State().Equal(New()))
}

func TestStoreNoopDispatchDoesNotNotify(t *testing.T) {
	store := NewStore()
	calls := 0
	store.Subscribe(func(State) { calls++ })

	assert.False(t, store.Dispatch(ClearFocusAction()))
	assert.Zero(t, calls)
}

func TestStoreConcurrentDispatch(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Dispatch(ToggleDomainAction(model.Domains[i%len(model.Domains)]))
		}(i)
	}
	wg.Wait()
	assert.NotEmpty(t, store.State().EnabledDomains())
}

func TestPropertyAtLeastOneDomainEnabled(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New()
		steps := rapid.IntRange(0, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				d := rapid.SampledFrom(model.Domains).Draw(t, "domain")
				before := s.EnabledDomains()
				s = s.ToggleDomain(d)
				if len(before) == 1 && before[0] == d {
					if !s.Enabled(d) {
						t.Fatalf("last domain %s was disabled", d)
					}
				}
			case 1:
				s = s.Focus(rapid.SampledFrom(clusters).Draw(t, "cluster"))
			case 2:
				s = s.ClearFocus()
			case 3:
				s = s.Reset()
			}
			if len(s.EnabledDomains()) == 0 {
				t.Fatalf("no domain enabled after step %d", i)
			}
			if id, ok := s.FocusedCluster(); ok {
				for _, c := range clusters {
					if c.ID == id && !s.Enabled(c.Domain) {
						t.Fatalf("focused cluster %s in disabled domain", id)
					}
				}
			}
		}
	})
}
