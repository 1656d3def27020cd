package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/trendradar/pkg/config"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/radar"
	"github.com/vanderheijden86/trendradar/pkg/testutil"
	"github.com/vanderheijden86/trendradar/pkg/viewport"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Config.Export.Dir == "" {
		opts.Config = config.DefaultConfig()
		opts.Config.Export.Dir = t.TempDir()
		opts.Config.Matrix.JitterSeed = 7
	}
	m := NewModel(testutil.Scenario(), opts)
	return press(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
}

func layoutIDs(l radar.Layout) []string {
	var ids []string
	for _, g := range l.Groups {
		for _, tl := range g.Technologies {
			ids = append(ids, tl.Tech.ID)
		}
	}
	return ids
}

func TestNewModelSelectsFirstSlot(t *testing.T) {
	m := newTestModel(t, Options{})

	assert.Equal(t, []string{"llm", "rob", "gene"}, layoutIDs(m.Layout()))
	assert.Equal(t, "llm", m.SelectedID())
	assert.Equal(t, ViewRadar, m.CurrentView())
	assert.Equal(t, model.AxisTRL, m.Axis())
	assert.Equal(t, model.ModeParent, m.Mode())
	assert.Len(t, m.Points(), 3)
}

func TestDomainToggleKeepsGlobalRank(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(t, m, runes("1"))
	assert.False(t, m.FilterState().Enabled(model.DomainTechnology))
	require.Equal(t, []string{"gene"}, layoutIDs(m.Layout()))

	gene, ok := m.Layout().Find("gene")
	require.True(t, ok)
	assert.Equal(t, "03", gene.Rank, "rank is computed over the unfiltered set")
	assert.Equal(t, "gene", m.SelectedID(), "selection moves to a visible technology")
	assert.Len(t, m.Points(), 1)
}

func TestLastDomainCannotBeDisabled(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(t, m, runes("1"), runes("3"), runes("2"))
	assert.True(t, m.FilterState().Enabled(model.DomainIndustry))
	msg, isErr := m.Status()
	assert.True(t, isErr)
	assert.Contains(t, msg, "At least one domain")
}

func TestFocusAndClearFireCallbacks(t *testing.T) {
	var clusters []*model.Cluster
	var techs []string
	m := newTestModel(t, Options{Callbacks: radar.Callbacks{
		OnClusterSelect:    func(c *model.Cluster) { clusters = append(clusters, c) },
		OnTechnologySelect: func(tech model.Technology) { techs = append(techs, tech.ID) },
	}})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	id, ok := m.FilterState().FocusedCluster()
	require.True(t, ok)
	assert.Equal(t, "ai", id)
	assert.Equal(t, []string{"llm", "rob"}, layoutIDs(m.Layout()))
	require.Len(t, clusters, 1)
	require.NotNil(t, clusters[0])
	assert.Equal(t, "AI", clusters[0].Name)
	assert.Equal(t, []string{"llm"}, techs)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, ok = m.FilterState().FocusedCluster()
	assert.False(t, ok)
	require.Len(t, clusters, 2)
	assert.Nil(t, clusters[1])
	assert.Len(t, layoutIDs(m.Layout()), 3)
}

func TestDisablingFocusedDomainClearsFocus(t *testing.T) {
	var cleared bool
	m := newTestModel(t, Options{Callbacks: radar.Callbacks{
		OnClusterSelect: func(c *model.Cluster) { cleared = c == nil },
	}})

	m = press(t, m, runes("f"), runes("1"))
	_, ok := m.FilterState().FocusedCluster()
	assert.False(t, ok)
	assert.True(t, cleared)
}

func TestNextPrevWrap(t *testing.T) {
	var seen []string
	m := newTestModel(t, Options{Callbacks: radar.Callbacks{
		OnTechnologySelect: func(tech model.Technology) { seen = append(seen, tech.ID) },
	}})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "rob", m.SelectedID())
	m = press(t, m, runes("n"), runes("n"))
	assert.Equal(t, "llm", m.SelectedID())
	m = press(t, m, runes("N"))
	assert.Equal(t, "gene", m.SelectedID())
	assert.Equal(t, []string{"rob", "gene", "llm", "gene"}, seen)
}

func TestAxisModeAndViewKeys(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(t, m, runes("a"))
	assert.Equal(t, model.AxisBRL, m.Axis())
	assert.Equal(t, model.AxisBRL, m.Layout().Axis)

	m = press(t, m, runes("v"))
	assert.Equal(t, ViewMatrix, m.CurrentView())
	m = press(t, m, runes("a"), runes("A"))
	x, y := m.MatrixAxes()
	assert.Equal(t, model.AxisBRL, x)
	assert.Equal(t, model.AxisHorizon, y)
	assert.Equal(t, model.AxisBRL, m.Axis(), "radar axis untouched in matrix view")

	m = press(t, m, runes("f"), runes("m"))
	assert.Equal(t, model.ModeTaxonomy, m.Mode())
	_, focused := m.FilterState().FocusedCluster()
	assert.False(t, focused, "mode change drops the focus")
}

func TestZoomPanReset(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(t, m, runes("+"), runes("l"))
	vp := m.Viewport()
	assert.InDelta(t, 1.25, vp.Zoom, 1e-9)
	assert.Less(t, vp.Pan.X, 0.0)

	m = press(t, m, runes("1"), runes("r"))
	assert.Equal(t, viewport.New(), m.Viewport())
	assert.True(t, m.FilterState().Enabled(model.DomainTechnology))
}

func TestBookmarkToggleSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	bm, err := config.LoadBookmarks(path)
	require.NoError(t, err)

	m := newTestModel(t, Options{Bookmarks: bm})
	m = press(t, m, runes("b"))
	assert.True(t, bm.Has("llm"))
	_, err = os.Stat(path)
	assert.NoError(t, err)

	reloaded, err := config.LoadBookmarks(path)
	require.NoError(t, err)
	assert.True(t, reloaded.Has("llm"))

	press(t, m, runes("b"))
	assert.False(t, bm.Has("llm"))
}

func TestSnapshotReloadKeepsSelection(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(t, m, runes("n"))
	require.Equal(t, "rob", m.SelectedID())

	next := testutil.Scenario()
	next.Technologies = append(next.Technologies, model.Technology{
		ID: "crispr", Name: "CRISPR", Domain: model.DomainIndustry, ParentID: "bio", TRL: 7, BRL: 5,
	})
	m = press(t, m, SnapshotLoadedMsg{Snapshot: next})

	assert.Equal(t, "rob", m.SelectedID())
	assert.Len(t, layoutIDs(m.Layout()), 4)
	msg, isErr := m.Status()
	assert.False(t, isErr)
	assert.True(t, strings.HasPrefix(msg, "Reloaded"), msg)
}

func TestSnapshotReloadError(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(t, m, SnapshotLoadedMsg{Err: errors.New("boom")})

	msg, isErr := m.Status()
	assert.True(t, isErr)
	assert.Contains(t, msg, "boom")
	assert.Len(t, m.Snapshot().Technologies, 3, "failed reload keeps the old snapshot")
}

func TestFileChangedTriggersReload(t *testing.T) {
	called := false
	m := newTestModel(t, Options{Loader: func(context.Context) (model.Snapshot, error) {
		called = true
		return testutil.Scenario(), nil
	}})

	_, cmd := m.Update(FileChangedMsg{})
	require.NotNil(t, cmd)
	msg := cmd()
	// A single command comes back unwrapped.
	loaded, ok := msg.(SnapshotLoadedMsg)
	require.True(t, ok, "got %T", msg)
	assert.True(t, called)
	assert.NoError(t, loaded.Err)
}

func TestExportKeyWritesFile(t *testing.T) {
	m := newTestModel(t, Options{})

	_, cmd := m.Update(runes("e"))
	require.NotNil(t, cmd)
	done, ok := cmd().(ExportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.True(t, strings.HasSuffix(done.Path, ".svg"))
	data, err := os.ReadFile(done.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "LLMs")

	m = press(t, m, done)
	msg, _ := m.Status()
	assert.Contains(t, msg, "Exported")
}

func TestViewRendersRadarAndDetail(t *testing.T) {
	m := newTestModel(t, Options{Source: "scenario.jsonl"})

	out := m.View()
	assert.Contains(t, out, "Trend Radar")
	assert.Contains(t, out, "LLMs")
	assert.Contains(t, out, "3/3 technologies")

	m = press(t, m, runes("v"))
	assert.Contains(t, m.View(), "Gene Editing")
}

func TestViewEmptyState(t *testing.T) {
	m := NewModel(testutil.Empty(), Options{})
	m = press(t, m, tea.WindowSizeMsg{Width: 90, Height: 20})

	assert.Equal(t, "", m.SelectedID())
	assert.Contains(t, m.View(), "Nothing to show")
	// Navigation on an empty frame is a no-op.
	m = press(t, m, runes("n"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "", m.SelectedID())
}

func TestQuitUnsubscribes(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
