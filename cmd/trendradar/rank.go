package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/export"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/rank"
)

// rankRow is one line of `trendradar rank --json`.
type rankRow struct {
	Rank    string       `json:"rank"`
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Cluster string       `json:"cluster"`
	Domain  model.Domain `json:"domain"`
}

func rankRows(snap model.Snapshot, mode model.ClusteringMode) []rankRow {
	idx := rank.Build(snap.Clusters, snap.Technologies, mode)
	clusters := snap.ClusterByID()
	rows := make([]rankRow, 0, idx.Len())
	for i, id := range idx.Order() {
		t, _ := snap.TechnologyByID(id)
		cluster := t.ClusterID(mode)
		if c, ok := clusters[cluster]; ok && mode != model.ModeDomain {
			cluster = c.Name
		}
		rows = append(rows, rankRow{
			Rank:    rank.Format(i + 1),
			ID:      t.ID,
			Name:    t.Name,
			Cluster: cluster,
			Domain:  t.Domain,
		})
	}
	return rows
}

func writeRankTable(w io.Writer, rows []rankRow) error {
	nameW, clusterW := len("TECHNOLOGY"), len("CLUSTER")
	for _, r := range rows {
		nameW = max(nameW, runewidth.StringWidth(r.Name))
		clusterW = max(clusterW, runewidth.StringWidth(r.Cluster))
	}
	line := func(rk, name, cluster string, d string) error {
		_, err := fmt.Fprintf(w, "%-4s  %s  %s  %s\n", rk,
			runewidth.FillRight(name, nameW), runewidth.FillRight(cluster, clusterW), d)
		return err
	}
	if err := line("RANK", "TECHNOLOGY", "CLUSTER", "DOMAIN"); err != nil {
		return err
	}
	for _, r := range rows {
		if err := line(r.Rank, r.Name, r.Cluster, string(r.Domain)); err != nil {
			return err
		}
	}
	return nil
}

func newRankCmd(opts *rootOptions) *cobra.Command {
	var (
		mode     string
		id       string
		markdown bool
		asJSON   bool
		output   string
		title    string
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print the global technology ranking",
		Long: `Ranks every technology in the snapshot by domain, cluster name and
technology name. Ranks ignore domain and cluster filters, so the number
printed here is the one shown on every radar view.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, _, err := opts.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			m := opts.cfg.View.Mode
			if mode != "" {
				m = model.ClusteringMode(mode)
			}
			cm := model.ParseClusteringMode(string(m))
			out := cmd.OutOrStdout()

			switch {
			case id != "":
				t, ok := snap.TechnologyByID(id)
				if !ok {
					return xerrors.Newf("unknown technology %q", id)
				}
				_, err = fmt.Fprintf(out, "%s %s\n", rank.GlobalRank(t, snap.Clusters, snap.Technologies, cm), t.Name)
				return err
			case markdown && output != "":
				if err := export.SaveRankReport(snap, cm, output); err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "Wrote %s\n", output)
				return err
			case markdown:
				_, err = io.WriteString(out, export.GenerateRankReport(snap, cm, title))
				return err
			case asJSON:
				data, err := json.MarshalIndent(rankRows(snap, cm), "", "  ")
				if err != nil {
					return xerrors.Wrap(err, "encoding ranking")
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			default:
				return writeRankTable(out, rankRows(snap, cm))
			}
		},
	}
	f := cmd.Flags()
	f.StringVar(&mode, "mode", "", "clustering mode: parent, taxonomy or domain (default from config)")
	f.StringVar(&id, "id", "", "print only the rank of this technology")
	f.BoolVar(&markdown, "markdown", false, "markdown report with domain counts")
	f.BoolVar(&asJSON, "json", false, "JSON output")
	f.StringVarP(&output, "output", "o", "", "write the markdown report to this file")
	f.StringVar(&title, "title", "", "markdown report title")
	cmd.MarkFlagsMutuallyExclusive("markdown", "json")
	return cmd
}
