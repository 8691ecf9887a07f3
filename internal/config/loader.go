package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read as configuration.
// A double underscore separates nested keys: SCHEMAGRAPH_STYLE__DPI.
const EnvPrefix = "SCHEMAGRAPH_"

// styleFlags are flags stored under the style section.
var styleFlags = map[string]bool{
	"node_color": true, "node_size": true, "font_size": true, "font_weight": true,
	"edge_color": true, "arrow_size": true, "title": true,
	"width": true, "height": true, "dpi": true,
}

// FindConfigFile finds the config file to use.
// Priority: explicit path > schemagraph.yaml > schemagraph.yml in dir
func FindConfigFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"schemagraph.yaml", "schemagraph.yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// LoadDotEnv loads dir/.env into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Load builds the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	style := DefaultStyle()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"schema":            DefaultSchema,
		"fallback":          true,
		"iterations":        DefaultIterations,
		"spacing":           DefaultSpacing,
		"log_level":         DefaultLogLevel,
		"log_format":        DefaultLogFormat,
		"style.node_color":  style.NodeColor,
		"style.node_size":   style.NodeSize,
		"style.font_size":   style.FontSize,
		"style.font_weight": style.FontWeight,
		"style.edge_color":  style.EdgeColor,
		"style.arrow_size":  style.ArrowSize,
		"style.width":       style.Width,
		"style.height":      style.Height,
		"style.dpi":         style.DPI,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	if path := FindConfigFile(cfgFile, cwd); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// SCHEMAGRAPH_STYLE__NODE_COLOR -> style.node_color
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if styleFlags[key] {
				key = "style." + key
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Without an explicit choice, show the diagram only when no output file is named.
	if !k.Exists("display") {
		cfg.Display = cfg.Output == ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
