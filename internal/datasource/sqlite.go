package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/debug"
	"github.com/vanderheijden86/trendradar/pkg/model"
)

// Schema is the table layout of an SQLite snapshot export.
const Schema = `
CREATE TABLE IF NOT EXISTS clusters (
	id     TEXT PRIMARY KEY,
	name   TEXT NOT NULL,
	domain TEXT NOT NULL,
	color  TEXT
);
CREATE TABLE IF NOT EXISTS technologies (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	domain      TEXT NOT NULL,
	parent_id   TEXT,
	taxonomy_id TEXT,
	trl         INTEGER,
	brl         INTEGER,
	horizon     TEXT,
	description TEXT
);
`

// SQLiteReader provides read access to an SQLite snapshot
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens an SQLite snapshot for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, xerrors.Newf("source is not SQLite: %s", source.Type)
	}
	if _, err := os.Stat(source.Path); err != nil {
		return nil, xerrors.Wrapf(err, "cannot open database %s", source.Path)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, xerrors.Wrap(err, "cannot open database")
	}
	for _, pragma := range []string{
		"PRAGMA cache_size = -16000",
		"PRAGMA temp_store = MEMORY",
	} {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("sqlite pragma %q failed: %v", pragma, err)
		}
	}
	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadSnapshot reads both tables concurrently. Rows that fail to scan or
// validate are skipped.
func (r *SQLiteReader) LoadSnapshot(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		clusters, err := r.loadClusters(ctx)
		snap.Clusters = clusters
		return err
	})
	g.Go(func() error {
		techs, err := r.loadTechnologies(ctx)
		snap.Technologies = techs
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Snapshot{}, err
	}
	debug.Logw("sqlite snapshot loaded", debug.FieldPath, r.path,
		"clusters", len(snap.Clusters), "technologies", len(snap.Technologies))
	return snap, nil
}

func (r *SQLiteReader) loadClusters(ctx context.Context) ([]model.Cluster, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, domain, color FROM clusters ORDER BY id`)
	if err != nil {
		return nil, xerrors.Wrap(err, "query clusters")
	}
	defer rows.Close()

	var out []model.Cluster
	for rows.Next() {
		var c model.Cluster
		var domain string
		var color sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &domain, &color); err != nil {
			debug.Log("skipping cluster row: %v", err)
			continue
		}
		c.Domain = model.ParseDomain(domain)
		c.Color = color.String
		if err := c.Validate(); err != nil {
			debug.Log("skipping cluster row: %v", err)
			continue
		}
		out = append(out, c)
	}
	return out, xerrors.Wrap(rows.Err(), "iterate clusters")
}

func (r *SQLiteReader) loadTechnologies(ctx context.Context) ([]model.Technology, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, domain, parent_id, taxonomy_id, trl, brl, horizon, description
		FROM technologies ORDER BY id`)
	if err != nil {
		return nil, xerrors.Wrap(err, "query technologies")
	}
	defer rows.Close()

	var out []model.Technology
	for rows.Next() {
		var t model.Technology
		var domain string
		var parent, taxonomy, horizon, description sql.NullString
		var trl, brl sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &domain, &parent, &taxonomy, &trl, &brl, &horizon, &description); err != nil {
			debug.Log("skipping technology row: %v", err)
			continue
		}
		t.Domain = model.ParseDomain(domain)
		t.ParentID = parent.String
		t.TaxonomyID = taxonomy.String
		t.TRL = int(trl.Int64)
		t.BRL = int(brl.Int64)
		t.Horizon = model.ParseHorizon(horizon.String)
		t.Description = description.String
		if err := t.Validate(); err != nil {
			debug.Log("skipping technology row: %v", err)
			continue
		}
		out = append(out, t)
	}
	return out, xerrors.Wrap(rows.Err(), "iterate technologies")
}

// CountTechnologies returns the number of technology rows.
func (r *SQLiteReader) CountTechnologies(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM technologies`).Scan(&n)
	return n, xerrors.Wrap(err, "count technologies")
}

// WriteSQLite exports snap to a fresh SQLite file at path, replacing any
// existing file.
func WriteSQLite(ctx context.Context, path string, snap model.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Wrap(err, "create export directory")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return xerrors.Wrap(err, "remove existing export")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return xerrors.Wrap(err, "open export database")
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return xerrors.Wrap(err, "create schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return xerrors.Wrap(err, "begin export")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, c := range snap.Clusters {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clusters (id, name, domain, color) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, string(c.Domain), c.Color); err != nil {
			return xerrors.Wrapf(err, "insert cluster %s", c.ID)
		}
	}
	for _, t := range snap.Technologies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO technologies (id, name, domain, parent_id, taxonomy_id, trl, brl, horizon, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Name, string(t.Domain), t.ParentID, t.TaxonomyID, t.TRL, t.BRL, string(t.Horizon), t.Description); err != nil {
			return xerrors.Wrapf(err, "insert technology %s", t.ID)
		}
	}
	return xerrors.Wrap(tx.Commit(), "commit export")
}
