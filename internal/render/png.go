package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func writePNG(d *diagram, w io.Writer) error {
	dc := gg.NewContext(d.Width, d.Height)
	dc.SetColor(color.White)
	dc.Clear()

	if d.Title != "" {
		face, err := loadFace(true, d.TitlePx)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(d.Title, float64(d.Width)/2, d.TitlePx*1.5, 0.5, 0.5)
	}

	dc.SetColor(d.EdgeColor)
	dc.SetLineWidth(d.LineWidth)
	for _, a := range d.Arrows {
		if a.Self {
			dc.DrawCircle(a.LoopX, a.LoopY, a.LoopR)
			dc.Stroke()
			continue
		}
		dc.DrawLine(a.X1, a.Y1, a.X2, a.Y2)
		dc.Stroke()
		dc.MoveTo(a.Head[0].X, a.Head[0].Y)
		dc.LineTo(a.Head[1].X, a.Head[1].Y)
		dc.LineTo(a.Head[2].X, a.Head[2].Y)
		dc.ClosePath()
		dc.Fill()
	}

	dc.SetColor(d.NodeColor)
	for _, n := range d.Nodes {
		dc.DrawCircle(n.X, n.Y, d.Radius)
		dc.Fill()
	}

	face, err := loadFace(d.Bold, d.FontPx)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	for _, n := range d.Nodes {
		dc.DrawStringAnchored(n.ID, n.X, n.Y, 0.5, 0.35)
	}

	return dc.EncodePNG(w)
}

// loadFace returns a Go font face of the given pixel size.
func loadFace(bold bool, sizePx float64) (font.Face, error) {
	src := goregular.TTF
	if bold {
		src = gobold.TTF
	}
	f, err := opentype.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     pointsPerInch,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	return face, nil
}
