package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"masterclass/schemagraph/internal/errs"
)

// FigureSize is the canvas size in inches.
type FigureSize struct {
	Width  float64
	Height float64
}

// Style controls how the diagram is drawn.
type Style struct {
	NodeColor  string
	NodeSize   float64 // marker area in points²
	FontSize   float64 // points
	FontWeight string  // "normal" or "bold"
	EdgeColor  string
	ArrowSize  float64 // points
	Title      string
	FigureSize FigureSize
	DPI        float64
}

// Font weights
const (
	WeightNormal = "normal"
	WeightBold   = "bold"
)

// maxPixels bounds each canvas side.
const maxPixels = 16384

// DefaultStyle returns light blue nodes with bold labels and gray arrows on
// a 12x8 inch canvas.
func DefaultStyle(title string) Style {
	return Style{
		NodeColor:  "lightblue",
		NodeSize:   2500,
		FontSize:   10,
		FontWeight: WeightBold,
		EdgeColor:  "gray",
		ArrowSize:  10,
		Title:      title,
		FigureSize: FigureSize{Width: 12, Height: 8},
		DPI:        100,
	}
}

// Validate reports the first invalid option as a *errs.ConfigError.
func (s Style) Validate() error {
	if _, err := ParseColor(s.NodeColor); err != nil {
		return &errs.ConfigError{Field: "node_color", Value: s.NodeColor, Reason: err.Error()}
	}
	if _, err := ParseColor(s.EdgeColor); err != nil {
		return &errs.ConfigError{Field: "edge_color", Value: s.EdgeColor, Reason: err.Error()}
	}
	positive := []struct {
		field string
		value float64
	}{
		{"node_size", s.NodeSize},
		{"font_size", s.FontSize},
		{"width", s.FigureSize.Width},
		{"height", s.FigureSize.Height},
		{"dpi", s.DPI},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return &errs.ConfigError{Field: p.field, Value: p.value, Reason: "must be a positive number"}
		}
	}
	if s.ArrowSize < 0 || math.IsNaN(s.ArrowSize) || math.IsInf(s.ArrowSize, 0) {
		return &errs.ConfigError{Field: "arrow_size", Value: s.ArrowSize, Reason: "must not be negative"}
	}
	switch s.FontWeight {
	case WeightNormal, WeightBold:
	default:
		return &errs.ConfigError{Field: "font_weight", Value: s.FontWeight, Reason: "must be normal or bold"}
	}
	if w, h := s.FigureSize.Width*s.DPI, s.FigureSize.Height*s.DPI; w < 1 || h < 1 || w > maxPixels || h > maxPixels {
		return &errs.ConfigError{
			Field:  "figure_size",
			Value:  fmt.Sprintf("%gx%g@%g", s.FigureSize.Width, s.FigureSize.Height, s.DPI),
			Reason: fmt.Sprintf("canvas must be between 1 and %d pixels per side", maxPixels),
		}
	}
	return nil
}

// ParseColor accepts SVG colour names ("lightblue", "gray") and hex
// notation ("#add8e6", "#abc").
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if !strings.HasPrefix(name, "#") {
		return color.RGBA{}, fmt.Errorf("unknown colour %q", s)
	}

	hex := name[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("malformed hex colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("malformed hex colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
