package datasource

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/model"
)

// SnapshotDiff represents differences between two snapshots
type SnapshotDiff struct {
	// SourceA and SourceB name the compared snapshots
	SourceA string
	SourceB string
	// MissingInA contains technology IDs present in B but not in A
	MissingInA []string
	// MissingInB contains technology IDs present in A but not in B
	MissingInB []string
	// Changed lists per-field differences for technologies in both
	Changed []FieldDifference
	// CountA and CountB are the technology counts
	CountA int
	CountB int
}

// FieldDifference is one field that differs for a single technology
type FieldDifference struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	A     string `json:"a"`
	B     string `json:"b"`
}

// HasChanges returns true if the snapshots differ
func (d SnapshotDiff) HasChanges() bool {
	return len(d.MissingInA) > 0 || len(d.MissingInB) > 0 || len(d.Changed) > 0
}

// Short is a one-line "+added −removed ~changed" summary, with B as the newer
// snapshot.
func (d SnapshotDiff) Short() string {
	return fmt.Sprintf("+%d -%d ~%d", len(d.MissingInA), len(d.MissingInB), len(d.Changed))
}

// Summary returns a human-readable summary of the differences
func (d SnapshotDiff) Summary() string {
	if !d.HasChanges() {
		return fmt.Sprintf("Snapshots match (%d technologies each)", d.CountA)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Differences between %s and %s:\n", d.SourceA, d.SourceB)
	if d.CountA != d.CountB {
		fmt.Fprintf(&sb, "  - Count mismatch: %d vs %d\n", d.CountA, d.CountB)
	}
	list := func(ids []string) {
		if len(ids) <= 5 {
			for _, id := range ids {
				fmt.Fprintf(&sb, "    - %s\n", id)
			}
		}
	}
	if len(d.MissingInA) > 0 {
		fmt.Fprintf(&sb, "  - %d technologies in %s but not %s\n", len(d.MissingInA), d.SourceB, d.SourceA)
		list(d.MissingInA)
	}
	if len(d.MissingInB) > 0 {
		fmt.Fprintf(&sb, "  - %d technologies in %s but not %s\n", len(d.MissingInB), d.SourceA, d.SourceB)
		list(d.MissingInB)
	}
	if len(d.Changed) > 0 {
		fmt.Fprintf(&sb, "  - %d field changes\n", len(d.Changed))
		if len(d.Changed) <= 5 {
			for _, c := range d.Changed {
				fmt.Fprintf(&sb, "    - %s.%s: %s vs %s\n", c.ID, c.Field, c.A, c.B)
			}
		}
	}
	return sb.String()
}

// DiffOptions configures the diff operation
type DiffOptions struct {
	// CompareFields names the fields to compare (empty = maturity fields)
	CompareFields []string
	// MaxDifferences limits the number of differences tracked (0 = unlimited)
	MaxDifferences int
}

// DefaultDiffOptions compares the fields that move a technology on the radar.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		CompareFields:  []string{"trl", "brl", "horizon", "parent_id", "domain"},
		MaxDifferences: 100,
	}
}

var fieldGetters = map[string]func(model.Technology) string{
	"name":        func(t model.Technology) string { return t.Name },
	"domain":      func(t model.Technology) string { return string(t.Domain) },
	"parent_id":   func(t model.Technology) string { return t.ParentID },
	"taxonomy_id": func(t model.Technology) string { return t.TaxonomyID },
	"trl":         func(t model.Technology) string { return strconv.Itoa(t.TRL) },
	"brl":         func(t model.Technology) string { return strconv.Itoa(t.BRL) },
	"horizon":     func(t model.Technology) string { return string(t.Horizon) },
}

// DetectChanges compares the technologies of two snapshots. Result slices
// are sorted by id.
func DetectChanges(a, b model.Snapshot, sourceA, sourceB string, opts DiffOptions) SnapshotDiff {
	fields := opts.CompareFields
	if len(fields) == 0 {
		fields = DefaultDiffOptions().CompareFields
	}
	under := func(n int) bool { return opts.MaxDifferences == 0 || n < opts.MaxDifferences }

	mapA := make(map[string]model.Technology, len(a.Technologies))
	for _, t := range a.Technologies {
		mapA[t.ID] = t
	}
	mapB := make(map[string]model.Technology, len(b.Technologies))
	for _, t := range b.Technologies {
		mapB[t.ID] = t
	}

	diff := SnapshotDiff{SourceA: sourceA, SourceB: sourceB, CountA: len(mapA), CountB: len(mapB)}

	for _, id := range sortedKeys(mapA) {
		if _, ok := mapB[id]; !ok && under(len(diff.MissingInB)) {
			diff.MissingInB = append(diff.MissingInB, id)
		}
	}
	for _, id := range sortedKeys(mapB) {
		ta, ok := mapA[id]
		if !ok {
			if under(len(diff.MissingInA)) {
				diff.MissingInA = append(diff.MissingInA, id)
			}
			continue
		}
		tb := mapB[id]
		for _, f := range fields {
			get, known := fieldGetters[f]
			if !known {
				continue
			}
			if va, vb := get(ta), get(tb); va != vb && under(len(diff.Changed)) {
				diff.Changed = append(diff.Changed, FieldDifference{ID: id, Field: f, A: va, B: vb})
			}
		}
	}
	return diff
}

func sortedKeys(m map[string]model.Technology) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CompareSources loads and compares two data sources
func CompareSources(ctx context.Context, sourceA, sourceB DataSource, opts DiffOptions) (*SnapshotDiff, error) {
	snapA, err := LoadFromSourceContext(ctx, sourceA)
	if err != nil {
		return nil, xerrors.Wrapf(err, "failed to load source A (%s)", sourceA.Path)
	}
	snapB, err := LoadFromSourceContext(ctx, sourceB)
	if err != nil {
		return nil, xerrors.Wrapf(err, "failed to load source B (%s)", sourceB.Path)
	}
	diff := DetectChanges(snapA, snapB, sourceA.Path, sourceB.Path, opts)
	return &diff, nil
}

// CheckAllSourcesConsistent compares every pair of valid sources and returns
// the diffs that found changes. Pairs that fail to load are skipped.
func CheckAllSourcesConsistent(ctx context.Context, sources []DataSource, opts DiffOptions) []SnapshotDiff {
	var diffs []SnapshotDiff
	for i := 0; i < len(sources); i++ {
		if !sources[i].Valid {
			continue
		}
		for j := i + 1; j < len(sources); j++ {
			if !sources[j].Valid {
				continue
			}
			diff, err := CompareSources(ctx, sources[i], sources[j], opts)
			if err != nil {
				continue
			}
			if diff.HasChanges() {
				diffs = append(diffs, *diff)
			}
		}
	}
	return diffs
}
