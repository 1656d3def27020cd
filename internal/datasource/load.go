package datasource

import (
	"context"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/debug"
	"github.com/vanderheijden86/trendradar/pkg/loader"
	"github.com/vanderheijden86/trendradar/pkg/model"
)

// LoadSnapshot discovers sources under root, picks the freshest valid one and
// loads it. When discovery finds nothing it falls back to loader.LoadSnapshot.
func LoadSnapshot(ctx context.Context, root string) (model.Snapshot, DataSource, error) {
	dir, err := loader.GetDataDir(root)
	if err != nil {
		return model.Snapshot{}, DataSource{}, err
	}
	return LoadSnapshotFromDir(ctx, dir)
}

// LoadSnapshotFromDir is LoadSnapshot for a known data directory.
func LoadSnapshotFromDir(ctx context.Context, dir string) (model.Snapshot, DataSource, error) {
	sources, err := DiscoverSources(DiscoveryOptions{DataDir: dir, Validate: true})
	if err == nil {
		if best, selErr := SelectBestSource(sources); selErr == nil {
			snap, loadErr := LoadFromSourceContext(ctx, best)
			return snap, best, loadErr
		}
	}

	path, err := loader.FindSnapshotPath(dir)
	if err != nil {
		return model.Snapshot{}, DataSource{}, xerrors.Wrap(xerrors.ErrNoSource, err.Error())
	}
	snap, err := loader.LoadSnapshotFromFile(path)
	return snap, DataSource{Type: SourceTypeJSONL, Path: path, Priority: PriorityJSONL}, err
}

// LoadFromSource loads a snapshot from a specific DataSource.
func LoadFromSource(source DataSource) (model.Snapshot, error) {
	return LoadFromSourceContext(context.Background(), source)
}

// LoadFromSourceContext dispatches to the reader for source's type.
func LoadFromSourceContext(ctx context.Context, source DataSource) (model.Snapshot, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return model.Snapshot{}, xerrors.Wrapf(err, "failed to open SQLite source %s", source.Path)
		}
		defer reader.Close()
		return reader.LoadSnapshot(ctx)
	case SourceTypeJSONL:
		return loader.LoadSnapshotFromFileWithOptions(source.Path, loader.ParseOptions{
			WarningHandler: func(msg string) { debug.Logw(msg, debug.FieldPath, source.Path) },
		})
	default:
		return model.Snapshot{}, xerrors.Newf("unknown source type: %s", source.Type)
	}
}
