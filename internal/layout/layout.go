package layout

import (
	"github.com/inodb/motif-mark/internal/motif"
	"github.com/inodb/motif-mark/internal/scan"
)

// Palette is an ordered list of motif colours.
type Palette []Color

// DefaultPalette holds one colour per legend slot.
var DefaultPalette = Palette{
	{0.9, 0.45, 0.1},
	{0.2, 0.6, 0.7},
	{0.9, 0.9, 0.0},
	{0.3, 0.7, 0.2},
	{0.8, 0.2, 0.7},
}

// At returns the colour for the motif declared at index i, cycling
// through the palette.
func (p Palette) At(i int) Color {
	if len(p) == 0 {
		return DefaultPalette.At(i)
	}
	return p[i%len(p)]
}

// Geometry holds the fixed layout constants. All horizontal sequence
// positions and lengths are divided by Scale.
type Geometry struct {
	Scale      float64 // sequence positions per unit
	Margin     float64 // x where backbones start
	LabelX     float64
	FontSize   float64
	TopY       float64 // baseline of row 0 is TopY + RowPitch
	RowPitch   float64
	BandHalf   float64 // exon band extends BandHalf above and below the baseline
	MarkWidth  float64
	LegendX    float64 // legend entry i sits at LegendX + LegendPitch*(i+1)
	LegendY    float64
	LegendStep float64 // minimum pitch between legend entries
}

// DefaultGeometry is the standard diagram geometry.
var DefaultGeometry = Geometry{
	Scale:      1000,
	Margin:     0.1,
	LabelX:     0.01,
	FontSize:   0.02,
	TopY:       0.1,
	RowPitch:   0.1,
	BandHalf:   0.02,
	MarkWidth:  0.002,
	LegendX:    0.05,
	LegendY:    0.05,
	LegendStep: 0.1,
}

// RowY returns the baseline of the record at index row.
func (g Geometry) RowY(row int) float64 {
	return g.TopY + g.RowPitch*float64(row+1)
}

// X converts a sequence offset into a horizontal coordinate.
func (g Geometry) X(offset int) float64 {
	return g.Margin + float64(offset)/g.Scale
}

// Span converts a sequence length into a horizontal length.
func (g Geometry) Span(length int) float64 {
	return float64(length) / g.Scale
}

// LegendPitch returns the horizontal distance between legend entries:
// LegendStep, widened when the longest label plus one em would not fit.
func LegendPitch(motifs []motif.Motif, g Geometry) float64 {
	pitch := g.LegendStep
	for _, m := range motifs {
		pitch = max(pitch, TextWidth(string(m), g.FontSize)+g.FontSize)
	}
	return pitch
}

// Legend returns one text entry per motif, side by side in the top band,
// coloured by declaration index. All entries share one pitch.
func Legend(motifs []motif.Motif, palette Palette, g Geometry) []Primitive {
	pitch := LegendPitch(motifs, g)
	prims := make([]Primitive, 0, len(motifs))
	for i, m := range motifs {
		x := g.LegendX + pitch*float64(i+1)
		prims = append(prims, Text(LegendRow, palette.At(i), x, g.LegendY, string(m), g.FontSize))
	}
	return prims
}

// Row returns the primitives of one record: identifier label, backbone,
// exon block and one mark per motif occurrence.
func Row(row int, res scan.Result, palette Palette, g Geometry) []Primitive {
	rec := res.Record
	y := g.RowY(row)
	top := y - g.BandHalf
	height := 2 * g.BandHalf

	prims := make([]Primitive, 0, 3+res.HitCount())
	prims = append(prims,
		Text(row, Black, g.LabelX, y, rec.ID, g.FontSize),
		Line(row, Black, g.Margin, y, g.X(rec.Len()), y),
		Rect(row, Black, g.X(rec.ExonStart), top, g.Span(rec.ExonLength), height),
	)
	for _, h := range res.Hits {
		c := palette.At(h.Index)
		for _, off := range h.Offsets {
			prims = append(prims, Rect(row, c, g.X(off), top, g.MarkWidth, height))
		}
	}
	return prims
}

// Layout builds the full diagram: the legend followed by one row per result
// in input order. The motif count must already be validated.
func Layout(results []scan.Result, motifs []motif.Motif, palette Palette, g Geometry) []Primitive {
	prims := Legend(motifs, palette, g)
	for i, res := range results {
		prims = append(prims, Row(i, res, palette, g)...)
	}
	return prims
}
