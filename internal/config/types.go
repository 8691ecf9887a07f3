// Package config loads schemagraph settings from defaults, a YAML file,
// SCHEMAGRAPH_ environment variables and command-line flags.
package config

import (
	"slices"
	"strings"

	"masterclass/schemagraph/internal/errs"
	"masterclass/schemagraph/internal/logging"
)

// StyleConfig holds the drawing options for the diagram.
type StyleConfig struct {
	NodeColor  string  `koanf:"node_color"`
	NodeSize   float64 `koanf:"node_size"`
	FontSize   float64 `koanf:"font_size"`
	FontWeight string  `koanf:"font_weight"`
	EdgeColor  string  `koanf:"edge_color"`
	ArrowSize  float64 `koanf:"arrow_size"`
	Title      string  `koanf:"title"` // empty uses the catalog title
	Width      float64 `koanf:"width"` // inches
	Height     float64 `koanf:"height"`
	DPI        float64 `koanf:"dpi"`
}

// Config holds everything a render run needs.
type Config struct {
	Schema     string      `koanf:"schema"`
	Output     string      `koanf:"output"`
	Format     string      `koanf:"format"`
	Display    bool        `koanf:"display"`
	Fallback   bool        `koanf:"fallback"`
	Seed       *uint64     `koanf:"seed"`
	Iterations int         `koanf:"iterations"`
	Spacing    float64     `koanf:"spacing"`
	LogLevel   string      `koanf:"log_level"`
	LogFormat  string      `koanf:"log_format"`
	Style      StyleConfig `koanf:"style"`
}

// Default values
const (
	DefaultSchema     = "nginx"
	DefaultIterations = 100
	DefaultSpacing    = 1.2
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// DefaultStyle is the look of the stock nginx diagrams.
func DefaultStyle() StyleConfig {
	return StyleConfig{
		NodeColor:  "lightblue",
		NodeSize:   2500,
		FontSize:   10,
		FontWeight: "bold",
		EdgeColor:  "gray",
		ArrowSize:  10,
		Width:      12,
		Height:     8,
		DPI:        100,
	}
}

// Validate checks the settings that are not owned by the layout or render
// stages.
func (c *Config) Validate() error {
	if c.Schema == "" {
		return &errs.ConfigError{Field: "schema", Value: c.Schema, Reason: "must not be empty"}
	}
	if !slices.Contains(logging.Levels, strings.ToLower(c.LogLevel)) {
		return &errs.ConfigError{Field: "log_level", Value: c.LogLevel, Reason: "must be one of " + strings.Join(logging.Levels, ", ")}
	}
	if !slices.Contains(logging.Formats, strings.ToLower(c.LogFormat)) {
		return &errs.ConfigError{Field: "log_format", Value: c.LogFormat, Reason: "must be one of " + strings.Join(logging.Formats, ", ")}
	}
	if c.Iterations < 0 {
		return &errs.ConfigError{Field: "iterations", Value: c.Iterations, Reason: "must not be negative"}
	}
	if c.Spacing < 0 {
		return &errs.ConfigError{Field: "spacing", Value: c.Spacing, Reason: "must not be negative"}
	}
	return nil
}
