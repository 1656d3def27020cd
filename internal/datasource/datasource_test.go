package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/testutil"
)

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "radar.db")
	want := testutil.Scenario()
	want.Technologies[0].Description = "Large language **models**"
	require.NoError(t, WriteSQLite(ctx, path, want))

	reader, err := NewSQLiteReader(DataSource{Type: SourceTypeSQLite, Path: path})
	require.NoError(t, err)
	defer reader.Close()

	got, err := reader.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want.Clusters, got.Clusters)
	assert.ElementsMatch(t, want.Technologies, got.Technologies)

	n, err := reader.CountTechnologies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNewSQLiteReaderRejectsWrongType(t *testing.T) {
	_, err := NewSQLiteReader(DataSource{Type: SourceTypeJSONL, Path: "x"})
	assert.Error(t, err)
	_, err = NewSQLiteReader(DataSource{Type: SourceTypeSQLite, Path: filepath.Join(t.TempDir(), "missing.db")})
	assert.Error(t, err)
}

func TestDiscoverSourcesOrdering(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)

	jsonl := testutil.WriteSnapshotFile(t, filepath.Join(dir, "radar.jsonl"), testutil.Scenario())
	db := filepath.Join(dir, "radar.db")
	require.NoError(t, WriteSQLite(ctx, db, testutil.QuickSnapshot()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.jsonl"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	touch(t, db, old)
	sources, err := DiscoverSources(DiscoveryOptions{DataDir: dir, Validate: true})
	require.NoError(t, err)
	require.Len(t, sources, 2, "empty file is invalid and dropped")
	assert.Equal(t, jsonl, sources[0].Path, "fresher source first")
	assert.Equal(t, 3, sources[0].TechnologyCount)

	// Equal timestamps favour SQLite.
	touch(t, jsonl, old)
	sources, err = DiscoverSources(DiscoveryOptions{DataDir: dir, Validate: true})
	require.NoError(t, err)
	best, err := SelectBestSource(sources)
	require.NoError(t, err)
	assert.Equal(t, SourceTypeSQLite, best.Type)
}

func TestDiscoverSourcesIncludeInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.db"), []byte("not sqlite"), 0o644))

	var logs []string
	sources, err := DiscoverSources(DiscoveryOptions{
		DataDir:        dir,
		Validate:       true,
		IncludeInvalid: true,
		Logger:         func(msg string) { logs = append(logs, msg) },
	})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.False(t, sources[0].Valid)
	assert.NotEmpty(t, sources[0].ValidationError)
	assert.Contains(t, sources[0].String(), "invalid")
	assert.NotEmpty(t, logs)
}

func TestSelectBestSourceNone(t *testing.T) {
	_, err := SelectBestSource([]DataSource{{Path: "a"}})
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrNoSource))
}

func TestLoadSnapshotFromDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, filepath.Join(dir, "radar.jsonl"), testutil.Scenario())

	snap, src, err := LoadSnapshotFromDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, SourceTypeJSONL, src.Type)
	assert.Len(t, snap.Technologies, 3)

	_, _, err = LoadSnapshotFromDir(ctx, t.TempDir())
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrNoSource))
}

func TestDetectChanges(t *testing.T) {
	a := testutil.Scenario()
	b := testutil.Scenario()
	b.Technologies[0].TRL = 8
	b.Technologies = b.Technologies[:2]
	b.Technologies = append(b.Technologies, model.Technology{ID: "new", Name: "New", Domain: model.DomainSociety})

	diff := DetectChanges(a, b, "a", "b", DefaultDiffOptions())
	assert.True(t, diff.HasChanges())
	assert.Equal(t, []string{"new"}, diff.MissingInA)
	assert.Equal(t, []string{"gene"}, diff.MissingInB)
	require.Len(t, diff.Changed, 1)
	assert.Equal(t, FieldDifference{ID: "llm", Field: "trl", A: "9", B: "8"}, diff.Changed[0])
	assert.Equal(t, "+1 -1 ~1", diff.Short())
	assert.Contains(t, diff.Summary(), "llm.trl: 9 vs 8")

	same := DetectChanges(a, a, "a", "a", DiffOptions{})
	assert.False(t, same.HasChanges())
	assert.Contains(t, same.Summary(), "match")
}

func TestCheckAllSourcesConsistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, filepath.Join(dir, "radar.jsonl"), testutil.Scenario())
	changed := testutil.Scenario()
	changed.Technologies[1].BRL = 9
	require.NoError(t, WriteSQLite(ctx, filepath.Join(dir, "radar.db"), changed))

	sources, err := DiscoverSources(DiscoveryOptions{DataDir: dir, Validate: true})
	require.NoError(t, err)
	diffs := CheckAllSourcesConsistent(ctx, sources, DefaultDiffOptions())
	require.Len(t, diffs, 1)
	assert.Len(t, diffs[0].Changed, 1)
}
