package render

import (
	"bufio"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/inodb/motif-mark/internal/layout"
)

// svgScale is the number of SVG user units per pixel. svgo takes integer
// coordinates, so the viewBox is drawn in thousandths of a pixel.
const svgScale = 1000

// SVG renders primitives as an SVG document.
type SVG struct {
	Canvas Canvas
}

// Render writes the SVG document.
func (s *SVG) Render(w io.Writer, prims []layout.Primitive) error {
	bw := bufio.NewWriter(w)
	c := s.Canvas
	doc := svg.New(bw)

	doc.Startview(c.Width, c.Height, 0, 0, c.Width*svgScale, c.Height*svgScale)
	doc.Rect(0, 0, c.Width*svgScale, c.Height*svgScale, "fill:#ffffff")

	for _, p := range prims {
		switch p.Kind {
		case layout.KindLine:
			doc.Line(s.coord(p.X0), s.coord(p.Y0), s.coord(p.X1), s.coord(p.Y1),
				fmt.Sprintf("stroke:%s;stroke-width:%d", p.Color.Hex(), s.coord(LineWidth)))
		case layout.KindRect:
			doc.Rect(s.coord(p.X0), s.coord(p.Y0), s.coord(p.Width), s.coord(p.Height),
				"fill:"+p.Color.Hex())
		case layout.KindText:
			doc.Text(s.coord(p.X0), s.coord(p.Y0), p.Content,
				fmt.Sprintf("font-family:sans-serif;font-size:%d;fill:%s", s.coord(p.FontSize), p.Color.Hex()))
		}
	}

	doc.End()
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// coord converts layout units to SVG user units, rounded so output is
// byte-stable.
func (s *SVG) coord(v float64) int {
	return int(math.Round(v * s.Canvas.Unit * svgScale))
}
