package render

import (
	"fmt"
	"io"
	"math"

	"github.com/emicklei/dot"
)

// writeDOT emits a Graphviz digraph with pinned positions, so
// `neato -n2 -Tpng` reproduces the computed layout.
func writeDOT(d *diagram, w io.Writer) error {
	g := dot.NewGraph(dot.Directed)
	if d.Title != "" {
		g.Attr("label", d.Title)
		g.Attr("labelloc", "t")
	}
	g.Attr("bb", fmt.Sprintf("0,0,%d,%d", d.Width, d.Height))
	g.Attr("dpi", fmt.Sprintf("%g", d.Style.DPI))

	fontname := "Helvetica"
	if d.Bold {
		fontname = "Helvetica-Bold"
	}
	diameter := fmt.Sprintf("%.4f", 2*d.Radius/d.Style.DPI)

	nodes := make(map[string]dot.Node, len(d.Nodes))
	for _, n := range d.Nodes {
		// Graphviz points, origin bottom-left
		x := n.X / d.Style.DPI * pointsPerInch
		y := (float64(d.Height) - n.Y) / d.Style.DPI * pointsPerInch
		nodes[n.ID] = g.Node(n.ID).
			Attr("pos", fmt.Sprintf("%.2f,%.2f!", x, y)).
			Attr("shape", "circle").
			Attr("fixedsize", "true").
			Attr("width", diameter).
			Attr("style", "filled").
			Attr("color", hexColor(d.NodeColor)).
			Attr("fillcolor", hexColor(d.NodeColor)).
			Attr("fontname", fontname).
			Attr("fontsize", fmt.Sprintf("%g", d.Style.FontSize))
	}

	arrowsize := fmt.Sprintf("%.2f", math.Max(d.Style.ArrowSize/10, 0))
	for _, a := range d.Arrows {
		g.Edge(nodes[a.Source], nodes[a.Target]).
			Attr("color", hexColor(d.EdgeColor)).
			Attr("arrowsize", arrowsize)
	}

	_, err := io.WriteString(w, g.String())
	return err
}
