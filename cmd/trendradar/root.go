package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/trendradar/internal/datasource"
	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/config"
	"github.com/vanderheijden86/trendradar/pkg/debug"
	"github.com/vanderheijden86/trendradar/pkg/filter"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/version"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	dataPath   string
	sourceName string
	verbose    bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "trendradar",
		Short: "Lay out technology trends on a radar or maturity matrix",
		Long: `trendradar reads a snapshot of clusters and technologies and places them
on a radial trend radar (or a 2D maturity matrix). Run without a subcommand
to open the interactive explorer.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				debug.SetEnabled(true)
			}
			return opts.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/trendradar/config.yaml)")
	pf.StringVarP(&opts.dataPath, "data", "d", "", "snapshot file or directory (overrides config)")
	pf.StringVarP(&opts.sourceName, "source", "s", "", "named source from the config file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(
		newTUICmd(opts),
		newRenderCmd(opts),
		newMatrixCmd(opts),
		newRankCmd(opts),
		newLayoutCmd(opts),
		newSourcesCmd(opts),
		newConvertCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "trendradar %s\n", version.Version)
			return err
		},
	}
}

func (o *rootOptions) loadConfig() error {
	var err error
	if o.configPath != "" {
		o.cfg, err = config.LoadFrom(o.configPath)
	} else {
		o.cfg, err = config.Load()
	}
	return err
}

// dataTarget resolves where the snapshot comes from: --data, then --source,
// then the config file. Empty means discover under the working directory.
func (o *rootOptions) dataTarget() (string, error) {
	if o.dataPath != "" {
		return o.dataPath, nil
	}
	if o.sourceName != "" {
		src := o.cfg.FindSource(o.sourceName)
		if src == nil {
			return "", xerrors.WithHintf(xerrors.Newf("unknown source %q", o.sourceName),
				"define it under sources: in %s", config.ConfigPath())
		}
		return src.ResolvedPath(), nil
	}
	return o.cfg.Data.Path, nil
}

// loadSnapshot loads the snapshot the flags and config point at.
func (o *rootOptions) loadSnapshot(ctx context.Context) (model.Snapshot, datasource.DataSource, error) {
	target, err := o.dataTarget()
	if err != nil {
		return model.Snapshot{}, datasource.DataSource{}, err
	}
	if target == "" {
		snap, src, err := datasource.LoadSnapshot(ctx, "")
		return snap, src, withSourceHint(err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return model.Snapshot{}, datasource.DataSource{}, xerrors.Wrapf(err, "snapshot %s", target)
	}
	if info.IsDir() {
		snap, src, err := datasource.LoadSnapshotFromDir(ctx, target)
		return snap, src, withSourceHint(err)
	}

	src := sourceForFile(target)
	snap, err := datasource.LoadFromSourceContext(ctx, src)
	return snap, src, err
}

func sourceForFile(path string) datasource.DataSource {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return datasource.DataSource{Type: datasource.SourceTypeSQLite, Path: abs, Priority: datasource.PrioritySQLite}
	default:
		return datasource.DataSource{Type: datasource.SourceTypeJSONL, Path: abs, Priority: datasource.PriorityJSONL}
	}
}

func withSourceHint(err error) error {
	if err == nil || !xerrors.Is(err, xerrors.ErrNoSource) {
		return err
	}
	return xerrors.WithHint(err, "pass --data <file|dir> or create .trendradar/radar.jsonl")
}

// viewOptions are the filter and projection flags shared by render, matrix
// and layout.
type viewOptions struct {
	axis    string
	mode    string
	domains []string
	focus   string
}

func (v *viewOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&v.axis, "axis", "", "ordinal axis: trl, brl or horizon (default from config)")
	f.StringVar(&v.mode, "mode", "", "clustering mode: parent, taxonomy or domain (default from config)")
	f.StringSliceVar(&v.domains, "domains", nil, "enabled domains, e.g. Technology,Society (default all)")
	f.StringVar(&v.focus, "focus", "", "only show this cluster id")
}

func (v *viewOptions) resolve(cfg config.Config) (model.Axis, model.ClusteringMode) {
	axis, mode := cfg.View.Axis, cfg.View.Mode
	if v.axis != "" {
		axis = model.ParseAxis(v.axis)
	}
	if v.mode != "" {
		mode = model.ParseClusteringMode(v.mode)
	}
	return model.ParseAxis(string(axis)), model.ParseClusteringMode(string(mode))
}

// apply builds the filter state from the flags and runs it over snap.
func (v *viewOptions) apply(snap model.Snapshot, mode model.ClusteringMode, colors map[model.Domain]string) (filter.State, filter.ActiveSet, error) {
	st := filter.New()
	if len(v.domains) > 0 {
		var domains []model.Domain
		for _, raw := range v.domains {
			d := model.ParseDomain(raw)
			if !d.IsValid() {
				return st, filter.ActiveSet{}, xerrors.WithHintf(xerrors.Newf("unknown domain %q", raw),
					"valid domains: %s", joinDomains())
			}
			domains = append(domains, d)
		}
		st = st.SetDomains(domains...)
	}
	if v.focus != "" {
		c, ok := clusterByID(snap, mode, v.focus, colors)
		if !ok {
			return st, filter.ActiveSet{}, xerrors.Newf("unknown cluster %q in %s mode", v.focus, mode)
		}
		st = st.Focus(c)
	}
	return st, filter.Apply(st, snap.Clusters, snap.Technologies, mode), nil
}

func clusterByID(snap model.Snapshot, mode model.ClusteringMode, id string, colors map[model.Domain]string) (model.Cluster, bool) {
	if mode == model.ModeDomain {
		d := model.ParseDomain(id)
		if !d.IsValid() {
			return model.Cluster{}, false
		}
		return model.DomainCluster(d, colors), true
	}
	c, ok := snap.ClusterByID()[id]
	return c, ok
}

func joinDomains() string {
	names := make([]string, len(model.Domains))
	for i, d := range model.Domains {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}
