package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/rank"
)

// escapeCell makes s safe inside a markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

func ordinalCell(v int) string {
	if v < model.MinOrdinal || v > model.MaxOrdinal {
		return "-"
	}
	return fmt.Sprintf("%d", v)
}

func horizonCell(h model.Horizon) string {
	if h == model.HorizonUnknown {
		return "-"
	}
	return h.Label()
}

// GenerateRankReport renders the global ranking of snap as a markdown table,
// one row per technology in rank order.
func GenerateRankReport(snap model.Snapshot, mode model.ClusteringMode, title string) string {
	idx := rank.Build(snap.Clusters, snap.Technologies, mode)
	clusters := snap.ClusterByID()
	techs := make(map[string]model.Technology, len(snap.Technologies))
	for _, t := range snap.Technologies {
		techs[t.ID] = t
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", titleOr(title, "Trend Ranking")))

	counts := make(map[model.Domain]int)
	for _, t := range snap.Technologies {
		counts[t.Domain]++
	}
	sb.WriteString("| Domain | Technologies |\n|--------|--------------|\n")
	for _, d := range model.Domains {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", d, counts[d]))
	}
	sb.WriteString(fmt.Sprintf("| **Total** | %d |\n\n", len(snap.Technologies)))

	sb.WriteString("| # | Technology | Cluster | Domain | TRL | BRL | Horizon |\n")
	sb.WriteString("|---|------------|---------|--------|-----|-----|---------|\n")
	for i, id := range idx.Order() {
		t := techs[id]
		cluster := t.ClusterID(mode)
		if c, ok := clusters[cluster]; ok && mode != model.ModeDomain {
			cluster = c.Name
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			rank.Format(i+1), escapeCell(t.Name), escapeCell(cluster), t.Domain,
			ordinalCell(t.TRL), ordinalCell(t.BRL), horizonCell(t.Horizon)))
	}
	return sb.String()
}

// SaveRankReport writes GenerateRankReport output to path.
func SaveRankReport(snap model.Snapshot, mode model.ClusteringMode, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	content := GenerateRankReport(snap, mode, "")
	return xerrors.Wrap(os.WriteFile(path, []byte(content), 0o644), "write rank report")
}

// TechnologyMarkdown renders one technology's detail card. cluster may be
// the zero value when the technology has none.
func TechnologyMarkdown(t model.Technology, cluster model.Cluster, rankLabel string) string {
	var sb strings.Builder
	heading := t.Name
	if rankLabel != "" {
		heading = rankLabel + " " + heading
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", heading))
	sb.WriteString("| Property | Value |\n|----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| **ID** | `%s` |\n", escapeCell(t.ID)))
	sb.WriteString(fmt.Sprintf("| **Domain** | %s |\n", t.Domain))
	if cluster.Name != "" {
		sb.WriteString(fmt.Sprintf("| **Cluster** | %s |\n", escapeCell(cluster.Name)))
	}
	sb.WriteString(fmt.Sprintf("| **TRL** | %s |\n", ordinalCell(t.TRL)))
	sb.WriteString(fmt.Sprintf("| **BRL** | %s |\n", ordinalCell(t.BRL)))
	sb.WriteString(fmt.Sprintf("| **Horizon** | %s |\n\n", horizonCell(t.Horizon)))
	if t.Description != "" {
		sb.WriteString(t.Description + "\n")
	}
	return sb.String()
}
