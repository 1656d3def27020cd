package config

import (
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
)

// Bookmarks is the personal list of technology ids, persisted as YAML in the
// state directory. It is safe for concurrent use.
type Bookmarks struct {
	mu   sync.Mutex
	path string
	ids  []string
}

type bookmarksFile struct {
	Technologies []string `yaml:"technologies"`
}

// BookmarksPath returns the default bookmarks file location.
func BookmarksPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "bookmarks.yaml")
}

// LoadBookmarks reads bookmarks from path. A missing file yields an empty
// list bound to path.
func LoadBookmarks(path string) (*Bookmarks, error) {
	b := &Bookmarks{path: path}
	if path == "" {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return b, xerrors.Wrap(err, "reading bookmarks")
	}
	var f bookmarksFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return b, xerrors.Wrap(err, "parsing bookmarks")
	}
	for _, id := range f.Technologies {
		if id != "" && !slices.Contains(b.ids, id) {
			b.ids = append(b.ids, id)
		}
	}
	return b, nil
}

// Has reports whether id is bookmarked.
func (b *Bookmarks) Has(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Contains(b.ids, id)
}

// Toggle adds or removes id and reports whether it is now bookmarked.
func (b *Bookmarks) Toggle(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := slices.Index(b.ids, id); i >= 0 {
		b.ids = slices.Delete(b.ids, i, i+1)
		return false
	}
	b.ids = append(b.ids, id)
	return true
}

// List returns the bookmarked ids in insertion order.
func (b *Bookmarks) List() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.ids)
}

// Len returns the number of bookmarks.
func (b *Bookmarks) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ids)
}

// Save writes the bookmarks back to their file. In-memory bookmarks (no
// path) are a no-op.
func (b *Bookmarks) Save() error {
	b.mu.Lock()
	f := bookmarksFile{Technologies: slices.Clone(b.ids)}
	path := b.path
	b.mu.Unlock()

	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Wrap(err, "creating state directory")
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return xerrors.Wrap(err, "marshaling bookmarks")
	}
	return xerrors.Wrap(os.WriteFile(path, data, 0o644), "writing bookmarks")
}
