package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/export"
	"github.com/vanderheijden86/trendradar/pkg/radar"
)

func writeLayoutText(w io.Writer, l radar.Layout) error {
	if _, err := fmt.Fprintf(w, "axis=%s mode=%s slots=%d angle/slot=%.3f°\n",
		l.Axis, l.Mode, l.TotalSlots, l.AnglePerSlot); err != nil {
		return err
	}
	for _, g := range l.Groups {
		if _, err := fmt.Fprintf(w, "%-24s %7.2f°\n", g.Cluster.Name, g.Angle); err != nil {
			return err
		}
		for _, t := range g.Technologies {
			side := "right"
			if t.IsLeftSide {
				side = "left"
			}
			if _, err := fmt.Fprintf(w, "  %s %-20s %d r=%6.1f %7.2f° %s\n",
				t.Rank, t.Tech.Name, t.Ordinal, t.Radius, t.Angle, side); err != nil {
				return err
			}
		}
	}
	return nil
}

func newLayoutCmd(opts *rootOptions) *cobra.Command {
	m := &matrixOptions{}
	var (
		view   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Dump computed positions",
		Example: `  trendradar layout --json > layout.json
  trendradar layout --view matrix --x trl --y brl --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, _, err := opts.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var le *export.LayoutExport
			switch view {
			case "matrix":
				ms, err := matrixPoints(opts, snap, m)
				if err != nil {
					return err
				}
				le = export.ExportMatrixLayout(ms.Points, ms.XAxis, ms.YAxis)
			case "radar", "":
				layout, err := radarLayout(opts, snap, &m.view)
				if err != nil {
					return err
				}
				if !asJSON {
					return writeLayoutText(out, layout)
				}
				le = export.ExportRadarLayout(layout)
			default:
				return xerrors.WithHint(xerrors.Newf("unknown view %q", view), "use radar or matrix")
			}

			data, err := le.JSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		},
	}
	m.view.register(cmd)
	f := cmd.Flags()
	f.StringVar(&view, "view", "radar", "radar or matrix")
	f.BoolVar(&asJSON, "json", false, "JSON output (always on for the matrix view)")
	f.StringVar(&m.x, "x", "", "matrix x axis")
	f.StringVar(&m.y, "y", "", "matrix y axis")
	f.Int64Var(&m.seed, "seed", 0, "matrix jitter seed")
	return cmd
}
