// Package render draws a laid-out schema graph to a file or a viewer window.
package render

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"masterclass/schemagraph/internal/errs"
	"masterclass/schemagraph/internal/graph"
	"masterclass/schemagraph/internal/layout"
	"masterclass/schemagraph/internal/logging"
)

// Output formats
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatDB   = "db"
)

// FallbackPath receives the diagram when a display was requested on a
// headless machine.
const FallbackPath = "schema.png"

// ErrNoDisplay is wrapped in the RenderError returned when a display is
// requested, none is available and fallback is disabled.
var ErrNoDisplay = errors.New("no display available")

// Target says where the diagram goes.
type Target struct {
	Path     string // output file; empty with Display shows a temporary PNG
	Format   string // empty infers from the Path extension
	Display  bool   // open the diagram in the platform viewer
	Fallback bool   // on a headless machine write FallbackPath instead of failing
}

// Result describes what was written.
type Result struct {
	Path      string `json:"path"`
	Format    string `json:"format"`
	Nodes     int    `json:"nodes"`
	Edges     int    `json:"edges"`
	Displayed bool   `json:"displayed"`
	RenderID  string `json:"render_id,omitempty"` // db format only
}

var extensions = map[string]string{
	".png":     FormatPNG,
	".svg":     FormatSVG,
	".dot":     FormatDOT,
	".gv":      FormatDOT,
	".json":    FormatJSON,
	".db":      FormatDB,
	".sqlite":  FormatDB,
	".sqlite3": FormatDB,
}

var streamWriters = map[string]func(*diagram, io.Writer) error{
	FormatPNG:  writePNG,
	FormatSVG:  writeSVG,
	FormatDOT:  writeDOT,
	FormatJSON: writeJSON,
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatPNG, FormatSVG, FormatDOT, FormatJSON, FormatDB}
}

// Render draws g at the positions in l. Invalid style values are reported
// as *errs.ConfigError, output failures as *errs.RenderError. Nothing is left
// at the target path when rendering fails.
func Render(ctx context.Context, g *graph.Graph, l layout.Layout, style Style, target Target) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)

	if err := style.Validate(); err != nil {
		return nil, err
	}
	d, err := newDiagram(g, l, style)
	if err != nil {
		return nil, err
	}

	path, requested, display := target.Path, target.Format, target.Display
	if display && !displayAvailable() {
		display = false
		switch {
		case path != "":
			logger.Warn("no display available, writing file only", "path", path)
		case target.Fallback:
			path, requested = FallbackPath, FormatPNG
			logger.Warn("no display available, writing diagram to file instead", "path", path)
		default:
			return nil, &errs.RenderError{Op: "display", Err: ErrNoDisplay}
		}
	}
	if path == "" && !display {
		return nil, &errs.RenderError{Op: "resolve target", Err: errors.New("no output path and no display requested")}
	}

	format, err := resolveFormat(requested, path)
	if err != nil {
		return nil, err
	}
	if display && !viewable(format) {
		if path != "" {
			display = false
			logger.Warn("format cannot be displayed, writing file only", "path", path, "format", format)
		} else {
			logger.Warn("format cannot be displayed, showing png instead", "format", format)
			format = FormatPNG
		}
	}
	if path == "" {
		path, err = tempPath(format)
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("rendering diagram", "format", format, "path", path,
		"width", d.Width, "height", d.Height)

	result := &Result{Path: path, Format: format, Nodes: len(d.Nodes), Edges: len(d.Arrows)}
	err = writeAtomic(path, func(tmp string) error {
		if format == FormatDB {
			id, err := writeDB(ctx, d, tmp)
			result.RenderID = id
			return err
		}
		return writeStream(tmp, d, streamWriters[format])
	})
	if err != nil {
		return nil, err
	}
	logger.Info("diagram written", "path", path, "format", format,
		"tables", result.Nodes, "relationships", result.Edges)

	if display {
		if err := openViewer(ctx, path); err != nil {
			return nil, &errs.RenderError{Op: "display", Path: path, Err: err}
		}
		result.Displayed = true
	}
	return result, nil
}

// viewable reports whether the platform viewer can open format.
func viewable(format string) bool {
	return format == FormatPNG || format == FormatSVG
}

func resolveFormat(format, path string) (string, error) {
	if format == "" {
		if path == "" {
			return FormatPNG, nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		f, ok := extensions[ext]
		if !ok {
			return "", &errs.RenderError{Op: "resolve format", Path: path, Err: fmt.Errorf("cannot infer format from extension %q", ext)}
		}
		return f, nil
	}
	f := strings.ToLower(format)
	if _, ok := streamWriters[f]; ok || f == FormatDB {
		return f, nil
	}
	return "", &errs.RenderError{Op: "resolve format", Path: path, Err: fmt.Errorf("unsupported format %q", format)}
}

func tempPath(format string) (string, error) {
	f, err := os.CreateTemp("", "schemagraph-*."+format)
	if err != nil {
		return "", &errs.RenderError{Op: "create temp", Err: err}
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", &errs.RenderError{Op: "create temp", Path: name, Err: err}
	}
	return name, nil
}

// writeAtomic lets write fill a temporary file next to path and moves it
// into place only on success.
func writeAtomic(path string, write func(tmp string) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &errs.RenderError{Op: "create", Path: path, Err: err}
	}
	tmp := f.Name()
	cleanup := func() {
		for _, p := range []string{tmp, tmp + "-wal", tmp + "-shm"} {
			_ = os.Remove(p)
		}
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		cleanup()
		return &errs.RenderError{Op: "create", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		cleanup()
		return &errs.RenderError{Op: "create", Path: path, Err: err}
	}

	if err := write(tmp); err != nil {
		cleanup()
		return &errs.RenderError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		cleanup()
		return &errs.RenderError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

func writeStream(path string, d *diagram, write func(*diagram, io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := write(d, bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
