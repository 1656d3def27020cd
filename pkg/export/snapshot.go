// Package export renders radar and matrix frames to static SVG or PNG
// snapshots, and serializes layouts and rank tables for scripting.
package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/debug"
	"github.com/vanderheijden86/trendradar/pkg/matrix"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/radar"
)

// Snapshot formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// SnapshotOptions controls snapshot export behaviour.
type SnapshotOptions struct {
	Path         string // Output path; format inferred from extension when Format empty
	Format       string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title        string // Optional title rendered in the summary block
	DomainColors map[model.Domain]string
}

// ResolveFormat returns the snapshot format for opts and the possibly
// extended output path. A path without extension defaults to SVG.
func ResolveFormat(opts SnapshotOptions) (format, path string, err error) {
	path = opts.Path
	format = strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".svg":
			format = FormatSVG
		case ".png":
			format = FormatPNG
		case "":
			format = FormatSVG
			if path != "" {
				path += ".svg"
			}
		default:
			return "", "", xerrors.Wrapf(xerrors.ErrUnsupportedFormat, "extension %q (want .svg or .png)", ext)
		}
	}
	if format != FormatSVG && format != FormatPNG {
		return "", "", xerrors.Wrapf(xerrors.ErrUnsupportedFormat, "format %q (want svg or png)", format)
	}
	if path == "" {
		return "", "", xerrors.New("output path is required")
	}
	return format, path, nil
}

// SaveRadarSnapshot renders layout to opts.Path.
func SaveRadarSnapshot(layout radar.Layout, opts SnapshotOptions) error {
	if layout.Empty() {
		return xerrors.WithHint(xerrors.Wrap(xerrors.ErrEmptyLayout, "radar"),
			"enable at least one domain with technologies")
	}
	format, path, err := ResolveFormat(opts)
	if err != nil {
		return err
	}
	frame := newRadarFrame(layout, opts)
	debug.Logw("export radar", debug.FieldPath, path, debug.FieldCount, layout.TechnologyCount(), "format", format)

	if format == FormatPNG {
		if err := ensureDir(path); err != nil {
			return err
		}
		return xerrors.Wrap(renderRadarPNG(frame).SavePNG(path), "save png")
	}
	return writeFile(path, func(w io.Writer) error { return renderRadarSVG(w, frame) })
}

// WriteRadarSVG renders layout as SVG to w.
func WriteRadarSVG(w io.Writer, layout radar.Layout, opts SnapshotOptions) error {
	if layout.Empty() {
		return xerrors.Wrap(xerrors.ErrEmptyLayout, "radar")
	}
	return renderRadarSVG(w, newRadarFrame(layout, opts))
}

// MatrixSnapshot is one matrix frame to export.
type MatrixSnapshot struct {
	Points   []matrix.Point
	Clusters []model.Cluster // colors points by parent; may be nil
	XAxis    model.Axis
	YAxis    model.Axis
}

// SaveMatrixSnapshot renders the matrix frame to opts.Path.
func SaveMatrixSnapshot(m MatrixSnapshot, opts SnapshotOptions) error {
	if len(m.Points) == 0 {
		return xerrors.WithHint(xerrors.Wrap(xerrors.ErrEmptyLayout, "matrix"),
			"enable at least one domain with technologies")
	}
	format, path, err := ResolveFormat(opts)
	if err != nil {
		return err
	}
	frame := newMatrixFrame(m, opts)
	debug.Logw("export matrix", debug.FieldPath, path, debug.FieldCount, len(m.Points), "format", format)

	if format == FormatPNG {
		if err := ensureDir(path); err != nil {
			return err
		}
		return xerrors.Wrap(renderMatrixPNG(frame).SavePNG(path), "save png")
	}
	return writeFile(path, func(w io.Writer) error { return renderMatrixSVG(w, frame) })
}

// WriteMatrixSVG renders the matrix frame as SVG to w.
func WriteMatrixSVG(w io.Writer, m MatrixSnapshot, opts SnapshotOptions) error {
	if len(m.Points) == 0 {
		return xerrors.Wrap(xerrors.ErrEmptyLayout, "matrix")
	}
	return renderMatrixSVG(w, newMatrixFrame(m, opts))
}

func ensureDir(path string) error {
	return xerrors.Wrap(os.MkdirAll(filepath.Dir(path), 0o755), "create parent dir")
}

func writeFile(path string, render func(io.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return xerrors.Wrap(err, "create snapshot file")
	}
	if err := render(file); err != nil {
		file.Close()
		return err
	}
	return xerrors.Wrap(file.Close(), "close snapshot file")
}

func titleOr(title, fallback string) string {
	if strings.TrimSpace(title) == "" {
		return fallback
	}
	return title
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
