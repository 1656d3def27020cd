package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/testutil"
)

func collect(warnings *[]string) ParseOptions {
	return ParseOptions{WarningHandler: func(msg string) { *warnings = append(*warnings, msg) }}
}

func TestParseSnapshotScenario(t *testing.T) {
	want := testutil.Scenario()
	got, err := ParseSnapshot(strings.NewReader(testutil.ToJSONL(want)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseSnapshotSkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		`{"kind":"cluster","id":"ai","name":"AI","domain":"Technology"}`,
		`{"kind":"technology","id":"x","name":"X","domain":"Finance"}`,
		`not json`,
		``,
		`{"kind":"widget","id":"w"}`,
		`{"kind":"cluster","id":"","name":"nameless"}`,
		`{"kind":"Technology","id":"llm","name":"LLMs","domain":"technology","parent_id":"ai","trl":9,"horizon":"0-2 years"}`,
	}, "\n")

	var warnings []string
	snap, err := ParseSnapshotWithOptions(strings.NewReader(input), collect(&warnings))
	require.NoError(t, err)
	require.Len(t, snap.Clusters, 1)
	require.Len(t, snap.Technologies, 1)
	assert.Equal(t, model.HorizonNow, snap.Technologies[0].Horizon)
	assert.Len(t, warnings, 4)
	assert.Contains(t, warnings[0], "line 2")
}

func TestParseSnapshotBOMAndLongLines(t *testing.T) {
	input := "\xEF\xBB\xBF" + `{"kind":"cluster","id":"ai","name":"AI","domain":"Technology"}` + "\n" +
		`{"kind":"cluster","id":"big","name":"` + strings.Repeat("x", 200) + `"}` + "\n" +
		`{"kind":"cluster","id":"bio","name":"Bio","domain":"Industry"}` + "\n"

	var warnings []string
	opts := collect(&warnings)
	opts.BufferSize = 100
	snap, err := ParseSnapshotWithOptions(strings.NewReader(input), opts)
	require.NoError(t, err)
	assert.Len(t, snap.Clusters, 2)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "too long")
}

func TestTechnologyFilter(t *testing.T) {
	opts := ParseOptions{
		WarningHandler:   func(string) {},
		TechnologyFilter: func(t *model.Technology) bool { return t.Domain == model.DomainIndustry },
	}
	snap, err := ParseSnapshotWithOptions(strings.NewReader(testutil.ToJSONL(testutil.Scenario())), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"gene"}, testutil.TechnologyIDs(snap.Technologies))
}

func TestWriteSnapshotRoundTrip(t *testing.T) {
	snap := testutil.QuickSnapshot()
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, snap))
	got, err := ParseSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestSaveSnapshotAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "radar.jsonl")
	require.NoError(t, SaveSnapshot(path, testutil.Scenario()))
	got, err := LoadSnapshotFromFile(path)
	require.NoError(t, err)
	assert.Len(t, got.Technologies, 3)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestLoadSnapshotFromFileMissing(t *testing.T) {
	_, err := LoadSnapshotFromFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrNoSource))
}

func TestFindSnapshotPathPriority(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("other.jsonl", "{}\n")
	write("snapshot.jsonl", "{}\n")
	write("radar.jsonl", "")
	write("radar.backup.jsonl", "{}\n")

	path, err := FindSnapshotPath(dir)
	require.NoError(t, err)
	assert.Equal(t, "snapshot.jsonl", filepath.Base(path), "empty preferred file is skipped")

	write("radar.jsonl", "{}\n")
	path, err = FindSnapshotPath(dir)
	require.NoError(t, err)
	assert.Equal(t, "radar.jsonl", filepath.Base(path))
}

func TestFindSnapshotPathNoCandidates(t *testing.T) {
	_, err := FindSnapshotPath(t.TempDir())
	require.Error(t, err)
	assert.NotEmpty(t, xerrors.GetAllHints(err))
}

func TestLoadSnapshotUsesEnvDir(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, filepath.Join(dir, "radar.jsonl"), testutil.Scenario())
	t.Setenv(DataDirEnvVar, dir)

	snap, err := LoadSnapshot("/does/not/matter")
	require.NoError(t, err)
	assert.Len(t, snap.Clusters, 2)
}

func TestLoadSnapshotDefaultDir(t *testing.T) {
	t.Setenv(DataDirEnvVar, "")
	root := testutil.TempDataDir(t)
	testutil.WriteSnapshotFile(t, filepath.Join(root, DefaultDataDir, "trends.jsonl"), testutil.Scenario())

	snap, err := LoadSnapshot(root)
	require.NoError(t, err)
	assert.Len(t, snap.Technologies, 3)
}
