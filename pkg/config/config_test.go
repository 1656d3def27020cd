package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/radar"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.View.DefaultView != "radar" {
		t.Errorf("expected default view 'radar', got %q", cfg.View.DefaultView)
	}
	if cfg.View.Axis != model.AxisTRL || cfg.View.Mode != model.ModeParent {
		t.Errorf("unexpected default axis/mode: %s/%s", cfg.View.Axis, cfg.View.Mode)
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, radar.DefaultGeometry(), cfg.RadarGeometry())
	assert.True(t, cfg.WatchEnabled())
}

func TestLoadFrom_NonExistent(t *testing.T) {
	t.Setenv(DataEnvVar, "")
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	t.Setenv(DataEnvVar, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
sources:
  - name: work
    path: ~/radars/work
data:
  path: /srv/radar
  watch: false
view:
  default_view: matrix
  axis: Horizon
  mode: taxonomy
  matrix_x: brl
  matrix_y: horizon
geometry:
  width: 1000
  height: 800
  min_radius: 50
  max_radius: 300
  label_radius: 340
matrix:
  jitter_range: 5
  jitter_seed: 99
export:
  format: png
domain_colors:
  society: "rgb(10, 200, 30)"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/radar", cfg.Data.Path)
	assert.False(t, cfg.WatchEnabled())
	assert.Equal(t, model.AxisHorizon, cfg.View.Axis)
	assert.Equal(t, model.ModeTaxonomy, cfg.View.Mode)
	assert.Equal(t, model.AxisBRL, cfg.View.MatrixX)
	assert.Equal(t, int64(99), cfg.Matrix.JitterSeed)

	g := cfg.RadarGeometry()
	assert.Equal(t, 500.0, g.Center.X)
	assert.Equal(t, 400.0, g.Center.Y)
	assert.Equal(t, 50.0, g.MinRadius)
	assert.Equal(t, 340.0, g.LabelRadius)

	colors := cfg.DomainColorMap()
	assert.Equal(t, "rgb(10, 200, 30)", colors[model.DomainSociety])
	assert.Equal(t, model.DefaultDomainColors[model.DomainIndustry], colors[model.DomainIndustry])

	src := cfg.FindSource("WORK")
	require.NotNil(t, src)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "radars/work"), src.Path)
	assert.Nil(t, cfg.FindSource("missing"))
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv(DataEnvVar, "/from/env")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Data.Path)
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("view: [unclosed"), 0o644))
	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.NotEmpty(t, xerrors.GetAllHints(err))
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"radii inverted":  func(c *Config) { c.Geometry.MinRadius, c.Geometry.MaxRadius = 500, 100 },
		"label inside":    func(c *Config) { c.Geometry.LabelRadius = 10 },
		"zero canvas":     func(c *Config) { c.Geometry.Width = 0 },
		"jitter too big":  func(c *Config) { c.Matrix.JitterRange = 50 },
		"bad format":      func(c *Config) { c.Export.Format = "gif" },
		"bad view":        func(c *Config) { c.View.DefaultView = "table" },
		"unknown domain":  func(c *Config) { c.DomainColors = map[string]string{"finance": "#fff"} },
		"unparsed colour": func(c *Config) { c.DomainColors = map[string]string{"society": "not-a-color"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Export.Format = "gif"
	assert.True(t, xerrors.Is(cfg.Validate(), xerrors.ErrUnsupportedFormat))
}

func TestSaveTo_RoundTrip(t *testing.T) {
	t.Setenv(DataEnvVar, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.View.Axis = model.AxisBRL
	cfg.DomainColors = map[string]string{"Technology": "#123456"}

	require.NoError(t, SaveTo(cfg, path))
	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestXDGDirs(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "cfg"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))

	assert.Equal(t, filepath.Join(base, "cfg", "trendradar", "config.yaml"), ConfigPath())
	assert.Equal(t, filepath.Join(base, "state", "trendradar", "bookmarks.yaml"), BookmarksPath())
	assert.Equal(t, filepath.Join(base, "data", "trendradar"), DataDir())
}

func TestBookmarks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "bookmarks.yaml")
	b, err := LoadBookmarks(path)
	require.NoError(t, err)
	assert.Zero(t, b.Len())

	assert.True(t, b.Toggle("llm"))
	assert.True(t, b.Toggle("gene"))
	assert.False(t, b.Toggle("llm"))
	assert.True(t, b.Has("gene"))
	assert.False(t, b.Has("llm"))
	require.NoError(t, b.Save())

	again, err := LoadBookmarks(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"gene"}, again.List())
}

func TestBookmarksInMemory(t *testing.T) {
	b, err := LoadBookmarks("")
	require.NoError(t, err)
	b.Toggle("x")
	assert.NoError(t, b.Save())
}
