//go:build ignore

// generate_testdata.go creates sample radar snapshots for benchmarking and
// manual TUI testing.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/benchmark/small.jsonl   (2 clusters per domain)
//	testdata/benchmark/medium.jsonl  (8 clusters per domain)
//	testdata/benchmark/large.jsonl   (32 clusters per domain)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/trendradar/pkg/testutil"
)

type datasetSpec struct {
	name       string
	clusters   int
	perCluster int
}

var datasets = []datasetSpec{
	{"small", 2, 4},
	{"medium", 8, 6},
	{"large", 32, 8},
}

func main() {
	outputDir := filepath.Join("testdata", "benchmark")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for i, ds := range datasets {
		gen := testutil.New(testutil.GeneratorConfig{
			Seed:            int64(1000 + i), // reproducible per dataset
			IDPrefix:        "BENCH",
			Clusters:        ds.clusters,
			PerCluster:      ds.perCluster,
			OrphanRatio:     0.05,
			IncludeTaxonomy: true,
			IncludeHorizon:  true,
		})
		snap := gen.Snapshot()

		path := filepath.Join(outputDir, ds.name+".jsonl")
		if err := os.WriteFile(path, []byte(testutil.ToJSONL(snap)), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d clusters, %d technologies)\n", path, len(snap.Clusters), len(snap.Technologies))
	}
}
