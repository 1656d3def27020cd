// Package loader reads trend snapshots stored as JSONL: one record per line,
// each tagged with a "kind" of either "cluster" or "technology".
//
//	{"kind":"cluster","id":"ai","name":"AI","domain":"Technology","color":"#111"}
//	{"kind":"technology","id":"llm","name":"LLMs","domain":"Technology","parent_id":"ai","trl":9}
package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/debug"
	"github.com/vanderheijden86/trendradar/pkg/metrics"
	"github.com/vanderheijden86/trendradar/pkg/model"
)

// DataDirEnvVar overrides the snapshot directory.
const DataDirEnvVar = "TRENDRADAR_DIR"

// DefaultDataDir is the snapshot directory relative to the working tree.
const DefaultDataDir = ".trendradar"

// PreferredSnapshotNames defines the lookup priority for snapshot files.
var PreferredSnapshotNames = []string{"radar.jsonl", "snapshot.jsonl", "trends.jsonl"}

// Record kinds.
const (
	KindCluster    = "cluster"
	KindTechnology = "technology"
)

// GetDataDir returns the snapshot directory, respecting TRENDRADAR_DIR.
// Otherwise it falls back to .trendradar in root (or cwd if empty).
func GetDataDir(root string) (string, error) {
	if envDir := os.Getenv(DataDirEnvVar); envDir != "" {
		return envDir, nil
	}
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return "", xerrors.Wrap(err, "failed to get current working directory")
		}
	}
	return filepath.Join(root, DefaultDataDir), nil
}

// FindSnapshotPath locates the snapshot JSONL file in dir. Preferred names
// win over other .jsonl files; empty files are skipped when a non-empty one
// exists. Backups and editor artifacts are ignored.
func FindSnapshotPath(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", xerrors.Wrap(err, "failed to read snapshot directory")
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		if strings.Contains(name, ".backup") || strings.Contains(name, ".orig") || strings.HasPrefix(name, ".") {
			continue
		}
		candidates = append(candidates, name)
	}

	if len(candidates) == 0 {
		return "", xerrors.WithHintf(
			xerrors.Newf("no snapshot JSONL file found in %s", dir),
			"expected one of %s", strings.Join(PreferredSnapshotNames, ", "))
	}

	nonEmpty := func(name string) (string, bool) {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		return path, err == nil && info.Size() > 0
	}

	for _, preferred := range PreferredSnapshotNames {
		for _, name := range candidates {
			if name == preferred {
				if path, ok := nonEmpty(name); ok {
					return path, nil
				}
			}
		}
	}
	for _, name := range candidates {
		if path, ok := nonEmpty(name); ok {
			return path, nil
		}
	}
	return filepath.Join(dir, candidates[0]), nil
}

// LoadSnapshot reads the snapshot from the data directory under root.
func LoadSnapshot(root string) (model.Snapshot, error) {
	dir, err := GetDataDir(root)
	if err != nil {
		return model.Snapshot{}, err
	}
	path, err := FindSnapshotPath(dir)
	if err != nil {
		return model.Snapshot{}, err
	}
	return LoadSnapshotFromFile(path)
}

// DefaultMaxBufferSize is the default maximum line size (10MB).
const DefaultMaxBufferSize = 1024 * 1024 * 10

// ParseOptions configures ParseSnapshotWithOptions.
type ParseOptions struct {
	// WarningHandler receives warnings about skipped lines. If nil, warnings
	// are printed to os.Stderr.
	WarningHandler func(string)

	// BufferSize is the maximum line length. Longer lines are skipped with a
	// warning. If 0, DefaultMaxBufferSize is used.
	BufferSize int

	// TechnologyFilter optionally filters parsed technologies. Return true
	// to keep.
	TechnologyFilter func(*model.Technology) bool
}

// LoadSnapshotFromFile reads a snapshot from a specific JSONL file.
func LoadSnapshotFromFile(path string) (model.Snapshot, error) {
	return LoadSnapshotFromFileWithOptions(path, ParseOptions{})
}

// LoadSnapshotFromFileWithOptions reads a snapshot with custom options.
func LoadSnapshotFromFileWithOptions(path string, opts ParseOptions) (model.Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Snapshot{}, xerrors.Wrapf(xerrors.ErrNoSource, "no snapshot at %s", path)
		}
		return model.Snapshot{}, xerrors.Wrap(err, "failed to open snapshot file")
	}
	defer file.Close()
	return ParseSnapshotWithOptions(file, opts)
}

// ParseSnapshot parses JSONL content from r.
func ParseSnapshot(r io.Reader) (model.Snapshot, error) {
	return ParseSnapshotWithOptions(r, ParseOptions{})
}

// ParseSnapshotWithOptions parses JSONL content. Malformed, unknown-kind and
// invalid records are skipped with a warning; only read errors fail.
func ParseSnapshotWithOptions(r io.Reader, opts ParseOptions) (model.Snapshot, error) {
	defer metrics.Timer(metrics.SnapshotLoad)()

	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}
	reader := bufio.NewReaderSize(r, maxCapacity)

	warn := opts.WarningHandler
	if warn == nil {
		warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
	}

	var snap model.Snapshot
	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return model.Snapshot{}, xerrors.Wrapf(err, "error reading snapshot stream at line %d", lineNum)
		}

		if isPrefix {
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxCapacity))
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err == io.EOF {
					break
				}
				if err != nil {
					return model.Snapshot{}, xerrors.Wrapf(err, "error skipping long line at line %d", lineNum)
				}
			}
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var head struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(line, &head); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}

		switch strings.ToLower(strings.TrimSpace(head.Kind)) {
		case KindCluster:
			var c model.Cluster
			if err := json.Unmarshal(line, &c); err != nil {
				warn(fmt.Sprintf("skipping malformed cluster on line %d: %v", lineNum, err))
				continue
			}
			if err := c.Validate(); err != nil {
				warn(fmt.Sprintf("skipping invalid cluster on line %d: %v", lineNum, err))
				continue
			}
			snap.Clusters = append(snap.Clusters, c)
		case KindTechnology:
			var t model.Technology
			if err := json.Unmarshal(line, &t); err != nil {
				warn(fmt.Sprintf("skipping malformed technology on line %d: %v", lineNum, err))
				continue
			}
			if err := t.Validate(); err != nil {
				warn(fmt.Sprintf("skipping invalid technology on line %d: %v", lineNum, err))
				continue
			}
			if opts.TechnologyFilter != nil && !opts.TechnologyFilter(&t) {
				continue
			}
			snap.Technologies = append(snap.Technologies, t)
		default:
			warn(fmt.Sprintf("skipping line %d: unknown record kind %q", lineNum, head.Kind))
		}
	}

	debug.Logw("snapshot parsed", debug.FieldComponent, "loader",
		"clusters", len(snap.Clusters), "technologies", len(snap.Technologies))
	return snap, nil
}

type clusterRecord struct {
	Kind string `json:"kind"`
	model.Cluster
}

type technologyRecord struct {
	Kind string `json:"kind"`
	model.Technology
}

// WriteSnapshot writes snap as JSONL, clusters first.
func WriteSnapshot(w io.Writer, snap model.Snapshot) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, c := range snap.Clusters {
		if err := enc.Encode(clusterRecord{Kind: KindCluster, Cluster: c}); err != nil {
			return xerrors.Wrapf(err, "encode cluster %s", c.ID)
		}
	}
	for _, t := range snap.Technologies {
		if err := enc.Encode(technologyRecord{Kind: KindTechnology, Technology: t}); err != nil {
			return xerrors.Wrapf(err, "encode technology %s", t.ID)
		}
	}
	return xerrors.Wrap(bw.Flush(), "flush snapshot")
}

// SaveSnapshot writes snap to path atomically.
func SaveSnapshot(path string, snap model.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Wrap(err, "create snapshot directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.jsonl")
	if err != nil {
		return xerrors.Wrap(err, "create temp snapshot")
	}
	defer os.Remove(tmp.Name())

	if err := WriteSnapshot(tmp, snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return xerrors.Wrap(err, "close temp snapshot")
	}
	return xerrors.Wrap(os.Rename(tmp.Name(), path), "replace snapshot")
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
