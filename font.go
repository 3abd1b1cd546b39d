package holo

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font selects how a Text node is rasterized. Size is in pixels; Bold is
// synthesized by the rasterizer when the underlying face has no bold variant.
type Font struct {
	Size float64
	Bold bool
}

// Rasterizer turns a string into a white-on-transparent RGBA bitmap. The
// renderer tints the result with the node color at draw time, so rasterized
// pixels must be white with coverage in the alpha channel.
type Rasterizer interface {
	Rasterize(text string, size float64, bold bool) (w, h int, pix []byte, err error)
}

// basicRasterizer renders with the fixed 7x13 face. It ignores size and has
// no bold variant beyond the synthetic double strike; it exists so text works
// out of the box before a TTF is loaded.
type basicRasterizer struct{}

func (basicRasterizer) Rasterize(text string, _ float64, bold bool) (int, int, []byte, error) {
	face := basicfont.Face7x13
	return drawString(face, text, bold)
}

// TTFRasterizer rasterizes through an OpenType font. Faces are cached per
// size.
type TTFRasterizer struct {
	fnt   *opentype.Font
	faces map[float64]font.Face
}

// NewTTFRasterizer parses TTF or OTF data.
func NewTTFRasterizer(data []byte) (*TTFRasterizer, error) {
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("holo: parse font: %w", err)
	}
	return &TTFRasterizer{fnt: fnt, faces: make(map[float64]font.Face)}, nil
}

func (r *TTFRasterizer) face(size float64) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("holo: font face at %g: %w", size, err)
	}
	r.faces[size] = f
	return f, nil
}

func (r *TTFRasterizer) Rasterize(text string, size float64, bold bool) (int, int, []byte, error) {
	face, err := r.face(size)
	if err != nil {
		return 0, 0, nil, err
	}
	return drawString(face, text, bold)
}

// drawString measures and renders text with a face. Bold is faked with a
// second strike offset one pixel right.
func drawString(face font.Face, text string, bold bool) (int, int, []byte, error) {
	metrics := face.Metrics()
	adv := font.MeasureString(face, text)
	w := adv.Ceil()
	if bold {
		w++
	}
	h := (metrics.Ascent + metrics.Descent).Ceil()
	if w <= 0 || h <= 0 {
		return 0, 0, nil, fmt.Errorf("holo: zero-extent rasterization of %q", text)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(text)
	if bold {
		d.Dot = fixed.Point26_6{X: fixed.I(1), Y: metrics.Ascent}
		d.DrawString(text)
	}
	return w, h, dst.Pix, nil
}
