package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/trendradar/internal/datasource"
	"github.com/vanderheijden86/trendradar/pkg/export"
	"github.com/vanderheijden86/trendradar/pkg/hooks"
	"github.com/vanderheijden86/trendradar/pkg/loader"
	"github.com/vanderheijden86/trendradar/pkg/matrix"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/radar"
	"github.com/vanderheijden86/trendradar/pkg/rank"
)

type renderOptions struct {
	view    viewOptions
	output  string
	format  string
	title   string
	noHooks bool
}

func (r *renderOptions) register(cmd *cobra.Command, defaultName string) {
	r.view.register(cmd)
	f := cmd.Flags()
	f.StringVarP(&r.output, "output", "o", "", "output file; .svg or .png (default "+defaultName+" in the export dir)")
	f.StringVar(&r.format, "format", "", "svg or png when the output has no extension")
	f.StringVar(&r.title, "title", "", "title drawn on the image")
	f.BoolVar(&r.noHooks, "no-hooks", false, "skip hooks.yaml pre/post-export hooks")
}

// hooksDir is where hooks.yaml is looked up: next to the loaded snapshot,
// else the default data directory.
func hooksDir(src datasource.DataSource) string {
	if src.Path != "" {
		return filepath.Dir(src.Path)
	}
	dir, err := loader.GetDataDir("")
	if err != nil {
		return loader.DefaultDataDir
	}
	return dir
}

// exportWithHooks runs pre-export hooks, save, then post-export hooks. A
// failing pre-export hook cancels the export.
func (r *renderOptions) exportWithHooks(cmd *cobra.Command, src datasource.DataSource, so export.SnapshotOptions, view string, count int, save func() error) (string, error) {
	format, path, err := export.ResolveFormat(so)
	if err != nil {
		return "", err
	}
	ectx := hooks.ExportContext{
		ExportPath:      path,
		ExportFormat:    format,
		View:            view,
		TechnologyCount: count,
		Timestamp:       time.Now(),
	}
	exec, err := hooks.RunHooks(hooksDir(src), ectx, r.noHooks)
	if err != nil {
		return "", err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report := func() {
		if summary := exec.Summary(); summary != "" {
			fmt.Fprint(cmd.ErrOrStderr(), strings.TrimRight(summary, "\n")+"\n")
		}
	}
	if exec != nil {
		if err := exec.RunPreExport(ctx); err != nil {
			report()
			return "", err
		}
	}
	if err := save(); err != nil {
		return "", err
	}
	if exec != nil {
		err = exec.RunPostExport(ctx)
		report()
	}
	return path, err
}

func (r *renderOptions) snapshotOptions(opts *rootOptions, defaultName string) export.SnapshotOptions {
	cfg := opts.cfg
	path := r.output
	if path == "" {
		path = filepath.Join(cfg.Export.Dir, defaultName)
	}
	format := r.format
	if format == "" && filepath.Ext(path) == "" {
		format = cfg.Export.Format
	}
	title := r.title
	if title == "" {
		title = cfg.Export.Title
	}
	return export.SnapshotOptions{
		Path:         path,
		Format:       format,
		Title:        title,
		DomainColors: cfg.DomainColorMap(),
	}
}

// radarLayout runs the full pipeline: filter, global rank, layout.
func radarLayout(opts *rootOptions, snap model.Snapshot, v *viewOptions) (radar.Layout, error) {
	axis, mode := v.resolve(opts.cfg)
	colors := opts.cfg.DomainColorMap()
	_, active, err := v.apply(snap, mode, colors)
	if err != nil {
		return radar.Layout{}, err
	}
	idx := rank.Build(snap.Clusters, snap.Technologies, mode)
	return radar.ComputeLayout(active.Clusters, active.Technologies, axis, mode, opts.cfg.RadarGeometry(), radar.Options{
		Rank:         idx.Rank,
		DomainColors: colors,
		Parallel:     true,
	}), nil
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	r := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the trend radar to SVG or PNG",
		Example: `  trendradar render -o radar.svg
  trendradar render --axis brl --domains Technology,Industry -o radar.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, src, err := opts.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			layout, err := radarLayout(opts, snap, &r.view)
			if err != nil {
				return err
			}
			so := r.snapshotOptions(opts, "radar")
			path, err := r.exportWithHooks(cmd, src, so, "radar", layout.TechnologyCount(), func() error {
				return export.SaveRadarSnapshot(layout, so)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d technologies in %d clusters)\n",
				path, layout.TechnologyCount(), len(layout.Groups))
			return err
		},
	}
	r.register(cmd, "radar")
	return cmd
}

type matrixOptions struct {
	renderOptions
	x, y string
	seed int64
}

func (m *matrixOptions) axes(opts *rootOptions) (model.Axis, model.Axis) {
	x, y := opts.cfg.View.MatrixX, opts.cfg.View.MatrixY
	if m.x != "" {
		x = model.Axis(m.x)
	}
	if m.y != "" {
		y = model.Axis(m.y)
	}
	if y == "" {
		y = model.AxisBRL
	}
	return model.ParseAxis(string(x)), model.ParseAxis(string(y))
}

// matrixPoints filters snap and places it on the matrix with a seeded
// jitter so repeated renders match.
func matrixPoints(opts *rootOptions, snap model.Snapshot, m *matrixOptions) (export.MatrixSnapshot, error) {
	_, mode := m.view.resolve(opts.cfg)
	_, active, err := m.view.apply(snap, mode, opts.cfg.DomainColorMap())
	if err != nil {
		return export.MatrixSnapshot{}, err
	}
	seed := m.seed
	if seed == 0 {
		seed = opts.cfg.Matrix.JitterSeed
	}
	if seed == 0 {
		seed = 1
	}
	x, y := m.axes(opts)
	cache := matrix.NewJitterCache(seed, opts.cfg.Matrix.JitterRange)
	return export.MatrixSnapshot{
		Points:   matrix.ComputeLayout(active.Technologies, x, y, cache),
		Clusters: snap.Clusters,
		XAxis:    x,
		YAxis:    y,
	}, nil
}

func newMatrixCmd(opts *rootOptions) *cobra.Command {
	m := &matrixOptions{}
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Render the maturity matrix to SVG or PNG",
		Example: `  trendradar matrix -o matrix.svg
  trendradar matrix --x trl --y horizon -o matrix.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, src, err := opts.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			ms, err := matrixPoints(opts, snap, m)
			if err != nil {
				return err
			}
			so := m.snapshotOptions(opts, "matrix")
			path, err := m.exportWithHooks(cmd, src, so, "matrix", len(ms.Points), func() error {
				return export.SaveMatrixSnapshot(ms, so)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d technologies, %s × %s)\n",
				path, len(ms.Points), ms.XAxis.Title(), ms.YAxis.Title())
			return err
		},
	}
	m.register(cmd, "matrix")
	f := cmd.Flags()
	f.StringVar(&m.x, "x", "", "x axis: trl, brl or horizon (default from config)")
	f.StringVar(&m.y, "y", "", "y axis: trl, brl or horizon (default from config)")
	f.Int64Var(&m.seed, "seed", 0, "jitter seed (default from config, else 1)")
	return cmd
}
