// Package config handles loading and saving trendradar configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/trendradar/config.yaml
//   - Data:    ~/.local/share/trendradar/ (exports)
//   - State:   ~/.local/state/trendradar/ (bookmarks)
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/radar"
)

const appName = "trendradar"

// DataEnvVar overrides Data.Path.
const DataEnvVar = "TRENDRADAR_DATA"

// Source is a named snapshot directory or file.
type Source struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// DataConfig says where snapshots come from.
type DataConfig struct {
	Path  string `yaml:"path,omitempty"`  // Snapshot dir or file; empty = ./.trendradar
	Watch *bool  `yaml:"watch,omitempty"` // Reload on change (default true)
}

// ViewConfig holds the initial explorer state.
type ViewConfig struct {
	DefaultView string               `yaml:"default_view,omitempty"` // radar or matrix
	Axis        model.Axis           `yaml:"axis,omitempty"`
	Mode        model.ClusteringMode `yaml:"mode,omitempty"`
	MatrixX     model.Axis           `yaml:"matrix_x,omitempty"`
	MatrixY     model.Axis           `yaml:"matrix_y,omitempty"`
}

// GeometryConfig sizes the radar canvas.
type GeometryConfig struct {
	Width       int     `yaml:"width,omitempty"`
	Height      int     `yaml:"height,omitempty"`
	MinRadius   float64 `yaml:"min_radius,omitempty"`
	MaxRadius   float64 `yaml:"max_radius,omitempty"`
	LabelRadius float64 `yaml:"label_radius,omitempty"`
}

// MatrixConfig tunes the matrix view.
type MatrixConfig struct {
	JitterRange float64 `yaml:"jitter_range,omitempty"` // percent per axis
	JitterSeed  int64   `yaml:"jitter_seed,omitempty"`  // 0 = new seed per session
}

// ExportConfig is the default for `trendradar render` and the TUI export key.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // svg or png
	Dir    string `yaml:"dir,omitempty"`
	Title  string `yaml:"title,omitempty"`
}

// Config is the top-level configuration for trendradar.
type Config struct {
	Sources      []Source          `yaml:"sources,omitempty"`
	Data         DataConfig        `yaml:"data,omitempty"`
	View         ViewConfig        `yaml:"view,omitempty"`
	Geometry     GeometryConfig    `yaml:"geometry,omitempty"`
	Matrix       MatrixConfig      `yaml:"matrix,omitempty"`
	Export       ExportConfig      `yaml:"export,omitempty"`
	DomainColors map[string]string `yaml:"domain_colors,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	g := radar.DefaultGeometry()
	return Config{
		View: ViewConfig{
			DefaultView: "radar",
			Axis:        model.AxisTRL,
			Mode:        model.ModeParent,
			MatrixX:     model.AxisTRL,
			MatrixY:     model.AxisBRL,
		},
		Geometry: GeometryConfig{
			Width:       int(g.Center.X * 2),
			Height:      int(g.Center.Y * 2),
			MinRadius:   g.MinRadius,
			MaxRadius:   g.MaxRadius,
			LabelRadius: g.LabelRadius,
		},
		Matrix: MatrixConfig{JitterRange: 3},
		Export: ExportConfig{Format: "svg", Title: "Trend Radar"},
	}
}

// ConfigDir returns the XDG config directory for trendradar.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for trendradar.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns the XDG state directory for trendradar.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return applyEnv(DefaultConfig()), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path, then applies TRENDRADAR_DATA.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg), nil
		}
		return cfg, xerrors.Wrap(err, "reading config")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, xerrors.WithHintf(xerrors.Wrap(err, "parsing config"), "check the YAML syntax of %s", path)
	}

	cfg.Data.Path = expandHome(cfg.Data.Path)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	for i := range cfg.Sources {
		cfg.Sources[i].Path = expandHome(cfg.Sources[i].Path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, xerrors.Wrapf(err, "invalid config %s", path)
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if p := os.Getenv(DataEnvVar); p != "" {
		cfg.Data.Path = expandHome(p)
	}
	return cfg
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return xerrors.New("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Wrap(err, "creating config directory")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return xerrors.Wrap(err, "marshaling config")
	}
	return xerrors.Wrap(os.WriteFile(path, data, 0o644), "writing config")
}

// Validate checks geometry ordering, jitter range, export format and colors.
func (c Config) Validate() error {
	g := c.Geometry
	if g.Width <= 0 || g.Height <= 0 {
		return xerrors.Newf("geometry: width and height must be positive (got %dx%d)", g.Width, g.Height)
	}
	if g.MinRadius < 0 || g.MaxRadius <= g.MinRadius {
		return xerrors.WithHint(
			xerrors.Newf("geometry: need 0 <= min_radius < max_radius (got %v, %v)", g.MinRadius, g.MaxRadius),
			"min_radius is where ordinal 9 sits, max_radius where ordinal 1 sits")
	}
	if g.LabelRadius < g.MaxRadius {
		return xerrors.Newf("geometry: label_radius %v must be at least max_radius %v", g.LabelRadius, g.MaxRadius)
	}
	if c.Matrix.JitterRange < 0 || c.Matrix.JitterRange > 20 {
		return xerrors.Newf("matrix: jitter_range %v outside 0..20", c.Matrix.JitterRange)
	}
	switch strings.ToLower(c.Export.Format) {
	case "", "svg", "png":
	default:
		return xerrors.Wrapf(xerrors.ErrUnsupportedFormat, "export: format %q", c.Export.Format)
	}
	switch c.View.DefaultView {
	case "", "radar", "matrix":
	default:
		return xerrors.Newf("view: default_view %q must be radar or matrix", c.View.DefaultView)
	}
	for name, color := range c.DomainColors {
		if !model.ParseDomain(name).IsValid() {
			return xerrors.Newf("domain_colors: unknown domain %q", name)
		}
		if _, err := csscolorparser.Parse(color); err != nil {
			return xerrors.Wrapf(err, "domain_colors: %s", name)
		}
	}
	return nil
}

// RadarGeometry converts the geometry section for pkg/radar.
func (c Config) RadarGeometry() radar.Geometry {
	g := radar.DefaultGeometry()
	if c.Geometry.Width > 0 && c.Geometry.Height > 0 {
		g.Center.X = float64(c.Geometry.Width) / 2
		g.Center.Y = float64(c.Geometry.Height) / 2
	}
	if c.Geometry.MaxRadius > c.Geometry.MinRadius {
		g.MinRadius = c.Geometry.MinRadius
		g.MaxRadius = c.Geometry.MaxRadius
	}
	if c.Geometry.LabelRadius > 0 {
		g.LabelRadius = c.Geometry.LabelRadius
	}
	return g
}

// DomainColorMap resolves the domain color overrides over the defaults.
func (c Config) DomainColorMap() map[model.Domain]string {
	out := make(map[model.Domain]string, len(model.DefaultDomainColors))
	for d, color := range model.DefaultDomainColors {
		out[d] = color
	}
	for name, color := range c.DomainColors {
		if d := model.ParseDomain(name); d.IsValid() && color != "" {
			out[d] = color
		}
	}
	return out
}

// WatchEnabled reports whether live reload is on (default true).
func (c Config) WatchEnabled() bool {
	return c.Data.Watch == nil || *c.Data.Watch
}

// FindSource returns the source with the given name, or nil.
func (c Config) FindSource(name string) *Source {
	for i := range c.Sources {
		if strings.EqualFold(c.Sources[i].Name, name) {
			return &c.Sources[i]
		}
	}
	return nil
}

// ResolvedPath returns the source path with ~ expanded.
func (s Source) ResolvedPath() string {
	return expandHome(s.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
