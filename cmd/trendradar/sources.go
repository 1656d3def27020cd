package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/trendradar/internal/datasource"
	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/loader"
)

func newSourcesCmd(opts *rootOptions) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List snapshot sources in the data directory",
		Long: `Lists every JSONL snapshot and SQLite export found in the data directory,
newest first, with validation results. The first valid entry is the one
the other commands load. With --check every pair of valid sources is
compared and differences are reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := opts.dataTarget()
			if err != nil {
				return err
			}
			dopts := datasource.DiscoveryOptions{Validate: true, IncludeInvalid: true}
			if target != "" {
				dopts.DataDir = target
				if filepath.Ext(target) != "" {
					dopts.DataDir = filepath.Dir(target)
				}
			}
			sources, err := datasource.DiscoverSources(dopts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sources) == 0 {
				_, err := fmt.Fprintln(out, "No sources found.")
				return err
			}
			best, bestErr := datasource.SelectBestSource(sources)
			for _, s := range sources {
				marker := " "
				if bestErr == nil && s.Path == best.Path {
					marker = "*"
				}
				if _, err := fmt.Fprintf(out, "%s %s\n", marker, s); err != nil {
					return err
				}
			}

			if !check {
				return nil
			}
			diffs := datasource.CheckAllSourcesConsistent(cmd.Context(), sources, datasource.DefaultDiffOptions())
			if len(diffs) == 0 {
				_, err := fmt.Fprintln(out, "\nAll valid sources agree.")
				return err
			}
			for _, d := range diffs {
				if _, err := fmt.Fprintf(out, "\n%s\n", strings.TrimRight(d.Summary(), "\n")); err != nil {
					return err
				}
			}
			return xerrors.Newf("%d source pair(s) disagree", len(diffs))
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "compare valid sources against each other")
	return cmd
}

func newConvertCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <output>",
		Short: "Write the loaded snapshot as JSONL or SQLite",
		Long: `Writes the snapshot selected by --data/--source to <output>. A .db,
.sqlite or .sqlite3 extension produces an SQLite export; anything else
is written as JSONL.`,
		Example: "  trendradar convert --data radar.jsonl radar.db",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, src, err := opts.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			dst := args[0]
			if sourceForFile(dst).Type == datasource.SourceTypeSQLite {
				err = datasource.WriteSQLite(cmd.Context(), dst, snap)
			} else {
				err = loader.SaveSnapshot(dst, snap)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Converted %s → %s (%d clusters, %d technologies)\n",
				src.Path, dst, len(snap.Clusters), len(snap.Technologies))
			return err
		},
	}
}
