package render

import (
	"encoding/json"
	"io"

	"masterclass/schemagraph/internal/graph"
)

type jsonNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	PX float64 `json:"px"`
	PY float64 `json:"py"`
}

type jsonStyle struct {
	NodeColor  string  `json:"node_color"`
	NodeSize   float64 `json:"node_size"`
	FontSize   float64 `json:"font_size"`
	FontWeight string  `json:"font_weight"`
	EdgeColor  string  `json:"edge_color"`
	ArrowSize  float64 `json:"arrow_size"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	DPI        float64 `json:"dpi"`
}

type jsonDocument struct {
	Title  string       `json:"title"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Style  jsonStyle    `json:"style"`
	Nodes  []jsonNode   `json:"nodes"`
	Edges  []graph.Edge `json:"edges"`
}

func writeJSON(d *diagram, w io.Writer) error {
	doc := jsonDocument{
		Title:  d.Title,
		Width:  d.Width,
		Height: d.Height,
		Style: jsonStyle{
			NodeColor:  hexColor(d.NodeColor),
			NodeSize:   d.Style.NodeSize,
			FontSize:   d.Style.FontSize,
			FontWeight: d.Style.FontWeight,
			EdgeColor:  hexColor(d.EdgeColor),
			ArrowSize:  d.Style.ArrowSize,
			Width:      d.Style.FigureSize.Width,
			Height:     d.Style.FigureSize.Height,
			DPI:        d.Style.DPI,
		},
		Nodes: make([]jsonNode, 0, len(d.Nodes)),
		Edges: make([]graph.Edge, 0, len(d.Arrows)),
	}
	for _, n := range d.Nodes {
		doc.Nodes = append(doc.Nodes, jsonNode{ID: n.ID, X: n.LX, Y: n.LY, PX: n.X, PY: n.Y})
	}
	for _, a := range d.Arrows {
		doc.Edges = append(doc.Edges, graph.Edge{Source: a.Source, Target: a.Target})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
