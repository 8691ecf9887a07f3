package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

func writeSVG(d *diagram, w io.Writer) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(d.Width, d.Height)
	if d.Title != "" {
		canvas.Title(d.Title)
	}
	canvas.Rect(0, 0, d.Width, d.Height, "fill:white")

	weight := "normal"
	if d.Bold {
		weight = "bold"
	}
	if d.Title != "" {
		canvas.Text(d.Width/2, px(d.TitlePx*1.5), d.Title,
			fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-family:sans-serif;font-weight:bold;font-size:%dpx", px(d.TitlePx)))
	}

	edge := hexColor(d.EdgeColor)
	canvas.Gid("edges")
	for _, a := range d.Arrows {
		if a.Self {
			canvas.Circle(px(a.LoopX), px(a.LoopY), px(a.LoopR),
				fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", edge, max(px(d.LineWidth), 1)))
			continue
		}
		canvas.Line(px(a.X1), px(a.Y1), px(a.X2), px(a.Y2),
			fmt.Sprintf("stroke:%s;stroke-width:%d", edge, max(px(d.LineWidth), 1)))
		canvas.Polygon(
			[]int{px(a.Head[0].X), px(a.Head[1].X), px(a.Head[2].X)},
			[]int{px(a.Head[0].Y), px(a.Head[1].Y), px(a.Head[2].Y)},
			"fill:"+edge)
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range d.Nodes {
		canvas.Circle(px(n.X), px(n.Y), px(d.Radius), "fill:"+hexColor(d.NodeColor))
	}
	for _, n := range d.Nodes {
		canvas.Text(px(n.X), px(n.Y), n.ID,
			fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-family:sans-serif;font-weight:%s;font-size:%dpx", weight, px(d.FontPx)))
	}
	canvas.Gend()
	canvas.End()

	return ew.err
}

func px(v float64) int {
	return int(math.Round(v))
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
