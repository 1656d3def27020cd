package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/trendradar/pkg/model"
)

// AssertNoDuplicateIDs verifies cluster and technology ids are unique.
func AssertNoDuplicateIDs(t *testing.T, snap model.Snapshot) {
	t.Helper()
	seen := make(map[string]bool)
	for _, c := range snap.Clusters {
		if seen["c:"+c.ID] {
			t.Errorf("duplicate cluster ID: %s", c.ID)
		}
		seen["c:"+c.ID] = true
	}
	for _, tech := range snap.Technologies {
		if seen["t:"+tech.ID] {
			t.Errorf("duplicate technology ID: %s", tech.ID)
		}
		seen["t:"+tech.ID] = true
	}
}

// AssertAllValid verifies every record passes validation.
func AssertAllValid(t *testing.T, snap model.Snapshot) {
	t.Helper()
	for i, c := range snap.Clusters {
		if err := c.Validate(); err != nil {
			t.Errorf("cluster %d (%s) invalid: %v", i, c.ID, err)
		}
	}
	for i, tech := range snap.Technologies {
		if err := tech.Validate(); err != nil {
			t.Errorf("technology %d (%s) invalid: %v", i, tech.ID, err)
		}
	}
}

// AssertJSONEqual compares two values after JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Skipf("golden file does not exist: %s (run with GENERATE_GOLDEN=1 to create it)", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) == actual {
		return
	}
	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
			return
		}
	}
	g.t.Errorf("golden file mismatch (length differs)")
}

// TempDataDir creates a temporary root with a .trendradar subdirectory and
// returns the root.
func TempDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".trendradar"), 0o755); err != nil {
		t.Fatalf("failed to create .trendradar dir: %v", err)
	}
	return dir
}

// WriteSnapshotFile writes snap as JSONL to path, creating parent dirs.
func WriteSnapshotFile(t *testing.T, path string, snap model.Snapshot) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(ToJSONL(snap)), 0o644); err != nil {
		t.Fatalf("failed to write snapshot file: %v", err)
	}
	return path
}

// TechnologyIDs extracts technology ids in order.
func TechnologyIDs(techs []model.Technology) []string {
	ids := make([]string, len(techs))
	for i, tech := range techs {
		ids[i] = tech.ID
	}
	return ids
}
