package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masterclass/schemagraph/internal/errs"
	"masterclass/schemagraph/internal/graph"
)

// run executes the root command with args from a clean working directory.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if errOut.Len() > 0 {
		t.Log(errOut.String())
	}
	return out.String(), err
}

func TestRoot_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "--output", "schema.svg", "--seed", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Wrote schema.svg (7 tables, 7 relationships)")
	assert.FileExists(t, filepath.Join(dir, "schema.svg"))
}

func TestRoot_FullCatalogAndStyleFlags(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir,
		"--schema", "nginx-full", "-o", "full.json", "--seed", "3",
		"--node-color", "#ff0000", "--title", "Everything", "--dpi", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "18 tables, 19 relationships")

	raw, err := os.ReadFile(filepath.Join(dir, "full.json"))
	require.NoError(t, err)
	var doc struct {
		Title string `json:"title"`
		Width int    `json:"width"`
		Style struct {
			NodeColor string `json:"node_color"`
		} `json:"style"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Everything", doc.Title)
	assert.Equal(t, 600, doc.Width)
	assert.Equal(t, "#ff0000", doc.Style.NodeColor)
}

func TestRoot_SeedIsReproducible(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "-o", "a.json", "--seed", "99")
	require.NoError(t, err)
	_, err = run(t, dir, "-o", "b.json", "--seed", "99")
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "b.json"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRoot_ConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schemagraph.yaml"),
		[]byte("schema: nginx-full\noutput: from-file.dot\nseed: 5\n"), 0o644))

	out, err := run(t, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "from-file.dot")
	assert.FileExists(t, filepath.Join(dir, "from-file.dot"))

	t.Setenv("SCHEMAGRAPH_OUTPUT", "from-env.db")
	out, err = run(t, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "from-env.db")
	assert.FileExists(t, filepath.Join(dir, "from-env.db"))
}

func TestRoot_HeadlessFallback(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("headless detection is only controllable on linux")
	}
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	dir := t.TempDir()
	out, err := run(t, dir, "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote schema.png")
	assert.FileExists(t, filepath.Join(dir, "schema.png"))

	_, err = run(t, t.TempDir(), "--fallback=false")
	var renderErr *errs.RenderError
	require.True(t, errors.As(err, &renderErr), "expected RenderError, got %v", err)
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want any
	}{
		{"unknown catalog", []string{"--schema", "mysql", "-o", "x.svg"}, &errs.ConfigError{}},
		{"negative iterations", []string{"--iterations", "-1", "-o", "x.svg"}, &errs.ConfigError{}},
		{"bad colour", []string{"--edge-color", "blurple", "-o", "x.svg"}, &errs.ConfigError{}},
		{"unknown extension", []string{"-o", "x.bmp"}, &errs.RenderError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := run(t, dir, tt.args...)
			require.Error(t, err)
			switch tt.want.(type) {
			case *errs.ConfigError:
				var target *errs.ConfigError
				assert.True(t, errors.As(err, &target), "expected ConfigError, got %v", err)
			case *errs.RenderError:
				var target *errs.RenderError
				assert.True(t, errors.As(err, &target), "expected RenderError, got %v", err)
			}
			entries, _ := os.ReadDir(dir)
			assert.Empty(t, entries, "no partial output on failure")
		})
	}
}

func TestAnalyze_JSON(t *testing.T) {
	out, err := run(t, t.TempDir(), "analyze", "--json", "--schema", "nginx-full")
	require.NoError(t, err)

	var report graph.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 18, report.Topology.TotalTables)
	assert.Equal(t, 19, report.Topology.TotalRelationships)
	assert.Equal(t, 4, report.Topology.NumComponents)
	assert.Equal(t, 3, report.Bridges.APCount)
	assert.Len(t, report.Levels, 4)
}

func TestAnalyze_HumanReadable(t *testing.T) {
	out, err := run(t, t.TempDir(), "analyze")
	require.NoError(t, err)

	for _, want := range []string{"Schema Health", "TOPOLOGY", "CREATION ORDER", "STRUCTURAL FRAGILITY", "reverse_proxy -> certificates"} {
		assert.Contains(t, out, want)
	}
	assert.False(t, strings.Contains(out, "\x1b["), "no ANSI styling outside a terminal")
}

func TestAnalyze_FromArtifact(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "--schema", "nginx-full", "-o", "diagram.db", "--seed", "1")
	require.NoError(t, err)

	out, err := run(t, dir, "analyze", "--json", "--from", "diagram.db")
	require.NoError(t, err)

	var report graph.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 18, report.Topology.TotalTables)

	_, err = run(t, dir, "analyze", "--from", "missing.db")
	assert.Error(t, err)
}

func TestSchemas(t *testing.T) {
	out, err := run(t, t.TempDir(), "schemas")
	require.NoError(t, err)
	assert.Contains(t, out, "nginx-full")
	assert.Contains(t, out, "NGINX Reverse Proxy DB Schema")
	assert.Contains(t, out, "18")
}

func TestAnalyze_InvalidFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{"negative top-n", []string{"--top-n", "-1"}, "top_n"},
		{"negative hub threshold", []string{"--hub-threshold", "-2"}, "hub_threshold"},
		{"unknown table", []string{"--tables", "reverse_proxy,nope"}, "tables"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"analyze", "--schema", "nginx-full"}, tt.args...)
			_, err := run(t, t.TempDir(), args...)
			var cfgErr *errs.ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestAnalyze_Tables(t *testing.T) {
	out, err := run(t, t.TempDir(), "analyze", "--json", "--tables", "reverse_proxy,certificates,server_params")
	require.NoError(t, err)

	var report graph.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.Topology.TotalTables)
	assert.Equal(t, 2, report.Topology.TotalRelationships)
	assert.Equal(t, 1, report.Topology.NumComponents)
}
