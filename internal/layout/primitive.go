// Package layout turns scan results into backend-independent draw
// primitives in a normalized coordinate space.
package layout

import "fmt"

// Kind identifies the shape of a primitive.
type Kind int

const (
	KindLine Kind = iota
	KindRect
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindRect:
		return "rect"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// LegendRow is the Row value of primitives in the legend band.
const LegendRow = -1

// Color is an RGB colour with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Black is used for labels, backbones and exon blocks.
var Black = Color{}

// RGB8 returns the colour as 8-bit channels.
func (c Color) RGB8() (r, g, b uint8) {
	return channel(c.R), channel(c.G), channel(c.B)
}

// Hex returns the colour as #rrggbb.
func (c Color) Hex() string {
	r, g, b := c.RGB8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Primitive is a single draw instruction. Line uses X0,Y0,X1,Y1; Rect uses
// X0,Y0 as the top-left corner with Width and Height; Text uses X0,Y0 as
// the baseline origin with Content and FontSize.
type Primitive struct {
	Kind     Kind
	Row      int // record index, or LegendRow
	Color    Color
	X0, Y0   float64
	X1, Y1   float64
	Width    float64
	Height   float64
	Content  string
	FontSize float64
}

// Line creates a line primitive.
func Line(row int, c Color, x0, y0, x1, y1 float64) Primitive {
	return Primitive{Kind: KindLine, Row: row, Color: c, X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Rect creates a filled rectangle primitive.
func Rect(row int, c Color, x, y, w, h float64) Primitive {
	return Primitive{Kind: KindRect, Row: row, Color: c, X0: x, Y0: y, Width: w, Height: h}
}

// Text creates a text primitive.
func Text(row int, c Color, x, y float64, content string, size float64) Primitive {
	return Primitive{Kind: KindText, Row: row, Color: c, X0: x, Y0: y, Content: content, FontSize: size}
}

// MinY returns the smallest vertical coordinate the primitive covers.
// Text extends FontSize above its baseline.
func (p Primitive) MinY() float64 {
	switch p.Kind {
	case KindLine:
		return min(p.Y0, p.Y1)
	case KindText:
		return p.Y0 - p.FontSize
	}
	return p.Y0
}

// MaxY returns the largest vertical coordinate the primitive covers.
func (p Primitive) MaxY() float64 {
	switch p.Kind {
	case KindLine:
		return max(p.Y0, p.Y1)
	case KindRect:
		return p.Y0 + p.Height
	}
	return p.Y0
}

// MaxX returns the rightmost coordinate the primitive reaches.
func (p Primitive) MaxX() float64 {
	switch p.Kind {
	case KindLine:
		return max(p.X0, p.X1)
	case KindRect:
		return p.X0 + p.Width
	}
	return p.X0 + TextWidth(p.Content, p.FontSize)
}

// TextWidth estimates the width of s at the given font size, at 0.6 em
// per character.
func TextWidth(s string, size float64) float64 {
	return 0.6 * size * float64(len(s))
}

// Bounds returns the furthest x and y reached by any primitive.
func Bounds(prims []Primitive) (maxX, maxY float64) {
	for _, p := range prims {
		maxX = max(maxX, p.MaxX())
		maxY = max(maxY, p.MaxY())
	}
	return maxX, maxY
}
