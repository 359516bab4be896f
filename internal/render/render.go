// Package render draws layout primitives as SVG or PNG images.
package render

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/inodb/motif-mark/internal/layout"
)

// Renderer writes a diagram to w.
type Renderer interface {
	Render(w io.Writer, prims []layout.Primitive) error
}

// Canvas sets the image size in pixels and the number of pixels per
// layout unit.
type Canvas struct {
	Width  int
	Height int
	Unit   float64
}

// DefaultCanvas is a 900x900 image at 450 pixels per unit.
var DefaultCanvas = Canvas{Width: 900, Height: 900, Unit: 450}

// LineWidth is the stroke width of backbones, in layout units.
const LineWidth = 0.001

// Fits reports whether a diagram reaching (maxX, maxY) fits on the canvas.
func (c Canvas) Fits(maxX, maxY float64) bool {
	return maxX*c.Unit <= float64(c.Width) && maxY*c.Unit <= float64(c.Height)
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{"svg", "png"}
}

// New returns the renderer for format ("svg" or "png").
func New(format string, c Canvas) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVG{Canvas: c}, nil
	case "png":
		return &PNG{Canvas: c}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (supported: %s)", format, strings.Join(Formats(), ", "))
}

// FormatFromPath guesses the output format from a file extension,
// defaulting to svg.
func FormatFromPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		return "png"
	}
	return "svg"
}

func rgba(c layout.Color) color.RGBA {
	r, g, b := c.RGB8()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
