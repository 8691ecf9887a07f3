package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masterclass/schemagraph/internal/errs"
)

// inEmptyDir runs the test from a fresh working directory so no stray
// schemagraph.yaml or .env is picked up.
func inEmptyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("schema", DefaultSchema, "catalog")
	flags.String("output", "", "output path")
	flags.Bool("display", true, "display")
	flags.Uint64("seed", 0, "seed")
	flags.Int("iterations", DefaultIterations, "iterations")
	flags.String("node-color", "", "node colour")
	flags.Float64("dpi", 0, "dpi")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	inEmptyDir(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSchema, cfg.Schema)
	assert.Equal(t, DefaultIterations, cfg.Iterations)
	assert.InDelta(t, DefaultSpacing, cfg.Spacing, 1e-12)
	assert.Nil(t, cfg.Seed)
	assert.True(t, cfg.Display, "no output file means show the diagram")
	assert.True(t, cfg.Fallback)
	assert.Equal(t, DefaultStyle(), cfg.Style)
}

func TestLoad_OutputDisablesDisplay(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("SCHEMAGRAPH_OUTPUT", "schema.svg")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "schema.svg", cfg.Output)
	assert.False(t, cfg.Display)
}

func TestLoad_ExplicitDisplayWins(t *testing.T) {
	dir := inEmptyDir(t)
	writeFile(t, filepath.Join(dir, "schemagraph.yaml"), "output: out.png\ndisplay: true\n")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.Display)
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	dir := inEmptyDir(t)
	writeFile(t, filepath.Join(dir, "schemagraph.yml"), `
schema: nginx-full
iterations: 50
style:
  node_color: "#ff0000"
  dpi: 72
`)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "nginx-full", cfg.Schema)
	assert.Equal(t, 50, cfg.Iterations)
	assert.Equal(t, "#ff0000", cfg.Style.NodeColor)
	assert.InDelta(t, 72, cfg.Style.DPI, 1e-12)
	assert.Equal(t, "gray", cfg.Style.EdgeColor, "unset keys keep defaults")

	t.Setenv("SCHEMAGRAPH_ITERATIONS", "25")
	t.Setenv("SCHEMAGRAPH_STYLE__NODE_COLOR", "navy")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Iterations)
	assert.Equal(t, "navy", cfg.Style.NodeColor)

	flags := testFlags()
	require.NoError(t, flags.Set("iterations", "10"))
	require.NoError(t, flags.Set("node-color", "white"))
	require.NoError(t, flags.Set("seed", "42"))
	cfg, err = Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Iterations)
	assert.Equal(t, "white", cfg.Style.NodeColor)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(42), *cfg.Seed)
	assert.Equal(t, "nginx-full", cfg.Schema, "unchanged flags must not override the file")
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	dir := inEmptyDir(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "log_format: json\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)

	_, err = Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
		field string
	}{
		{"log level", "SCHEMAGRAPH_LOG_LEVEL", "loud", "log_level"},
		{"log format", "SCHEMAGRAPH_LOG_FORMAT", "xml", "log_format"},
		{"iterations", "SCHEMAGRAPH_ITERATIONS", "-3", "iterations"},
		{"spacing", "SCHEMAGRAPH_SPACING", "-1", "spacing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inEmptyDir(t)
			t.Setenv(tt.env, tt.value)

			_, err := Load("", nil)
			var cfgErr *errs.ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := inEmptyDir(t)
	require.NoError(t, LoadDotEnv(dir), "missing .env is not an error")

	writeFile(t, filepath.Join(dir, ".env"), "SCHEMAGRAPH_SCHEMA_DOTENV_PROBE=nginx-full\n")
	t.Cleanup(func() { _ = os.Unsetenv("SCHEMAGRAPH_SCHEMA_DOTENV_PROBE") })

	require.NoError(t, LoadDotEnv(dir))
	assert.Equal(t, "nginx-full", os.Getenv("SCHEMAGRAPH_SCHEMA_DOTENV_PROBE"))
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", FindConfigFile("", dir))
	assert.Equal(t, "explicit.yaml", FindConfigFile("explicit.yaml", dir))

	writeFile(t, filepath.Join(dir, "schemagraph.yml"), "schema: nginx\n")
	assert.Equal(t, filepath.Join(dir, "schemagraph.yml"), FindConfigFile("", dir))

	writeFile(t, filepath.Join(dir, "schemagraph.yaml"), "schema: nginx\n")
	assert.Equal(t, filepath.Join(dir, "schemagraph.yaml"), FindConfigFile("", dir))
}
