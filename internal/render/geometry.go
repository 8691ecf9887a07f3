package render

import (
	"fmt"
	"image/color"
	"math"

	"masterclass/schemagraph/internal/errs"
	"masterclass/schemagraph/internal/graph"
	"masterclass/schemagraph/internal/layout"
)

// pointsPerInch converts point sizes to pixels at a given DPI.
const pointsPerInch = 72

// placedNode is a table at its canvas position.
type placedNode struct {
	ID   string
	X, Y float64 // pixels, origin top-left
	LX   float64 // layout coordinates
	LY   float64
}

// arrow is a reference drawn from the rim of the source node to the tip of
// the arrowhead at the rim of the target node.
type arrow struct {
	Source, Target string
	Self           bool

	// Straight references: shaft, then arrowhead tip, left and right corner
	X1, Y1, X2, Y2 float64
	Head           [3]fpoint

	// Self references: a loop circle above the node
	LoopX, LoopY, LoopR float64
}

type fpoint struct{ X, Y float64 }

// diagram is the resolved, format independent drawing.
type diagram struct {
	Title         string
	Width, Height int
	Radius        float64
	FontPx        float64
	TitlePx       float64
	ArrowPx       float64
	LineWidth     float64
	Bold          bool
	NodeColor     color.RGBA
	EdgeColor     color.RGBA
	Style         Style
	Nodes         []placedNode
	Arrows        []arrow
}

// newDiagram maps layout coordinates onto the canvas. Every table of g must
// have a position in l.
func newDiagram(g *graph.Graph, l layout.Layout, style Style) (*diagram, error) {
	if len(l) != g.NodeCount() {
		return nil, &errs.ConfigError{Field: "layout", Value: len(l), Reason: fmt.Sprintf("expected positions for %d tables", g.NodeCount())}
	}
	for _, id := range g.Nodes() {
		if _, ok := l[id]; !ok {
			return nil, &errs.ConfigError{Field: "layout", Value: id, Reason: "table has no position"}
		}
	}

	nodeColor, _ := ParseColor(style.NodeColor) // validated by Style.Validate
	edgeColor, _ := ParseColor(style.EdgeColor)
	px := style.DPI / pointsPerInch

	d := &diagram{
		Title:     style.Title,
		Width:     int(math.Round(style.FigureSize.Width * style.DPI)),
		Height:    int(math.Round(style.FigureSize.Height * style.DPI)),
		Radius:    math.Sqrt(style.NodeSize/math.Pi) * px,
		FontPx:    style.FontSize * px,
		TitlePx:   style.FontSize * 1.2 * px,
		ArrowPx:   style.ArrowSize * px,
		LineWidth: px,
		Bold:      style.FontWeight == WeightBold,
		NodeColor: nodeColor,
		EdgeColor: edgeColor,
		Style:     style,
	}

	top := d.Radius + 8
	if d.Title != "" {
		top += 2 * d.TitlePx
	}
	side := d.Radius + 8
	plotW := math.Max(float64(d.Width)-2*side, 1)
	plotH := math.Max(float64(d.Height)-top-side, 1)

	lo, hi := l.Bounds()
	spanX, spanY := hi.X-lo.X, hi.Y-lo.Y
	index := make(map[string]int, g.NodeCount())
	for i, id := range g.Nodes() {
		p := l[id]
		x, y := side+plotW/2, top+plotH/2
		if spanX > 0 {
			x = side + (p.X-lo.X)/spanX*plotW
		}
		if spanY > 0 {
			y = top + (hi.Y-p.Y)/spanY*plotH
		}
		d.Nodes = append(d.Nodes, placedNode{ID: id, X: x, Y: y, LX: p.X, LY: p.Y})
		index[id] = i
	}

	for _, e := range g.Edges() {
		s, t := d.Nodes[index[e.Source]], d.Nodes[index[e.Target]]
		d.Arrows = append(d.Arrows, d.arrowBetween(e, s, t))
	}
	return d, nil
}

func (d *diagram) arrowBetween(e graph.Edge, s, t placedNode) arrow {
	a := arrow{Source: e.Source, Target: e.Target}
	if e.Source == e.Target {
		a.Self = true
		a.LoopR = d.Radius * 0.6
		a.LoopX = s.X
		a.LoopY = s.Y - d.Radius - a.LoopR*0.5
		return a
	}

	dx, dy := t.X-s.X, t.Y-s.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		// Overlapping tables: draw a zero length reference
		a.X1, a.Y1, a.X2, a.Y2 = s.X, s.Y, t.X, t.Y
		a.Head = [3]fpoint{{t.X, t.Y}, {t.X, t.Y}, {t.X, t.Y}}
		return a
	}
	ux, uy := dx/dist, dy/dist

	inset := math.Min(d.Radius, dist/2)
	tip := fpoint{t.X - ux*inset, t.Y - uy*inset}
	head := math.Min(d.ArrowPx, math.Max(dist-2*inset, 0))
	base := fpoint{tip.X - ux*head, tip.Y - uy*head}
	half := head / 2

	a.X1, a.Y1 = s.X+ux*inset, s.Y+uy*inset
	a.X2, a.Y2 = base.X, base.Y
	a.Head = [3]fpoint{
		tip,
		{base.X - uy*half, base.Y + ux*half},
		{base.X + uy*half, base.Y - ux*half},
	}
	return a
}
