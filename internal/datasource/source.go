// Package datasource discovers, validates and selects the freshest snapshot
// source for trendradar. Snapshots come either as SQLite exports (tables
// clusters and technologies) or as JSONL files read by pkg/loader.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/loader"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeSQLite is a SQLite export (*.db, *.sqlite)
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSONL is a JSONL snapshot
	SourceTypeJSONL SourceType = "jsonl"
)

// Priority values for source types (higher = more authoritative)
const (
	PrioritySQLite = 100
	PriorityJSONL  = 50
)

// DataSource represents a potential source of snapshot data
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// Priority breaks ties when timestamps are equal (higher = preferred)
	Priority int `json:"priority"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// TechnologyCount is set during validation
	TechnologyCount int `json:"technology_count"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, technologies=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.TechnologyCount, status)
}

// DiscoveryOptions configures source discovery behavior
type DiscoveryOptions struct {
	// DataDir is the snapshot directory (optional, resolved via loader.GetDataDir)
	DataDir string
	// Root is the project root used when DataDir is empty (cwd if empty)
	Root string
	// Validate runs validation on each discovered source
	Validate bool
	// IncludeInvalid keeps sources that failed validation
	IncludeInvalid bool
	// Logger receives progress messages (optional)
	Logger func(msg string)
}

var sqliteExts = []string{".db", ".sqlite", ".sqlite3"}

// DiscoverSources finds all potential sources in the data directory, newest
// first. Ties go to the higher priority type.
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	logf := func(format string, args ...any) {
		if opts.Logger != nil {
			opts.Logger(fmt.Sprintf(format, args...))
		}
	}

	dir := opts.DataDir
	if dir == "" {
		var err error
		dir, err = loader.GetDataDir(opts.Root)
		if err != nil {
			return nil, err
		}
	}
	logf("Discovering sources in: %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, xerrors.Wrap(err, "failed to read data directory")
	}

	var sources []DataSource
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || strings.Contains(name, ".backup") || strings.Contains(name, ".orig") {
			continue
		}
		src := DataSource{Path: filepath.Join(dir, name)}
		ext := strings.ToLower(filepath.Ext(name))
		switch {
		case ext == ".jsonl":
			src.Type, src.Priority = SourceTypeJSONL, PriorityJSONL
		case slices.Contains(sqliteExts, ext):
			src.Type, src.Priority = SourceTypeSQLite, PrioritySQLite
		default:
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		src.ModTime = info.ModTime()
		src.Size = info.Size()
		sources = append(sources, src)
		logf("Found %s: %s (mod=%s)", src.Type, src.Path, src.ModTime.Format(time.RFC3339))
	}

	if opts.Validate {
		for i := range sources {
			if err := ValidateSource(&sources[i]); err != nil {
				logf("Validation failed for %s: %v", sources[i].Path, err)
			}
		}
		if !opts.IncludeInvalid {
			valid := sources[:0]
			for _, s := range sources {
				if s.Valid {
					valid = append(valid, s)
				}
			}
			sources = valid
		}
	}

	sortSources(sources)
	logf("Discovered %d sources", len(sources))
	return sources, nil
}

func sortSources(sources []DataSource) {
	sort.SliceStable(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})
}

// ValidateSource loads the source and records whether it holds at least one
// valid record. The source is updated in place.
func ValidateSource(s *DataSource) error {
	s.Valid = false
	s.ValidationError = ""
	s.TechnologyCount = 0

	if s.Size == 0 {
		s.ValidationError = "empty file"
		return xerrors.Newf("source %s is empty", s.Path)
	}
	snap, err := LoadFromSource(*s)
	if err != nil {
		s.ValidationError = err.Error()
		return err
	}
	if len(snap.Clusters) == 0 && len(snap.Technologies) == 0 {
		s.ValidationError = "no records"
		return xerrors.Newf("source %s has no records", s.Path)
	}
	s.Valid = true
	s.TechnologyCount = len(snap.Technologies)
	return nil
}

// SelectBestSource returns the freshest valid source.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	sorted := append([]DataSource(nil), sources...)
	sortSources(sorted)
	for _, s := range sorted {
		if s.Valid {
			return s, nil
		}
	}
	return DataSource{}, xerrors.WithHint(xerrors.ErrNoSource,
		"put a radar.jsonl or an SQLite export into the data directory")
}
