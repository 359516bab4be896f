package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/inodb/motif-mark/internal/layout"
)

// PNG rasterizes primitives into a PNG image. Text is set in Go Regular
// at FontSize*Unit pixels.
type PNG struct {
	Canvas Canvas
}

var regular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// Render writes the PNG image.
func (p *PNG) Render(w io.Writer, prims []layout.Primitive) error {
	img, err := p.Draw(prims)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Draw rasterizes primitives onto a new RGBA image with a white background.
func (p *PNG) Draw(prims []layout.Primitive) (*image.RGBA, error) {
	c := p.Canvas
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	faces := newFaceCache()
	defer faces.Close()

	z := vector.NewRasterizer(c.Width, c.Height)
	for _, prim := range prims {
		src := image.NewUniform(rgba(prim.Color))
		switch prim.Kind {
		case layout.KindLine:
			half := max(LineWidth*c.Unit, 1) / 2
			x0, y0 := prim.X0*c.Unit, prim.Y0*c.Unit
			x1, y1 := prim.X1*c.Unit, prim.Y1*c.Unit
			p.fill(z, img, src, math.Min(x0, x1)-half, math.Min(y0, y1)-half,
				math.Max(x0, x1)+half, math.Max(y0, y1)+half)
		case layout.KindRect:
			x0, y0 := prim.X0*c.Unit, prim.Y0*c.Unit
			// keep sub-pixel marks visible
			width := max(prim.Width*c.Unit, 1)
			height := max(prim.Height*c.Unit, 1)
			p.fill(z, img, src, x0, y0, x0+width, y0+height)
		case layout.KindText:
			face, err := faces.Get(prim.FontSize * c.Unit)
			if err != nil {
				return nil, err
			}
			d := &font.Drawer{
				Dst:  img,
				Src:  src,
				Face: face,
				Dot:  fixed.P(int(math.Round(prim.X0*c.Unit)), int(math.Round(prim.Y0*c.Unit))),
			}
			d.DrawString(prim.Content)
		}
	}
	return img, nil
}

// faceCache holds one Go Regular face per pixel size for a single Draw.
type faceCache map[float64]font.Face

func newFaceCache() faceCache {
	return faceCache{}
}

// Get returns the face for size pixels. Sizes below one pixel are raised
// to one.
func (fc faceCache) Get(size float64) (font.Face, error) {
	size = max(size, 1)
	if face, ok := fc[size]; ok {
		return face, nil
	}
	f, err := regular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %.1fpx: %w", size, err)
	}
	fc[size] = face
	return face, nil
}

func (fc faceCache) Close() {
	for _, face := range fc {
		face.Close()
	}
}

func (p *PNG) fill(z *vector.Rasterizer, dst draw.Image, src image.Image, x0, y0, x1, y1 float64) {
	c := p.Canvas
	w, h := float64(c.Width), float64(c.Height)
	x0, x1 = clamp(x0, 0, w), clamp(x1, 0, w)
	y0, y1 = clamp(y0, 0, h), clamp(y1, 0, h)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	z.Reset(c.Width, c.Height)
	z.MoveTo(float32(x0), float32(y0))
	z.LineTo(float32(x1), float32(y0))
	z.LineTo(float32(x1), float32(y1))
	z.LineTo(float32(x0), float32(y1))
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), src, image.Point{})
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
