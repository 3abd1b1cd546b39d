package holo

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
)

// Image is decoded pixel data shared by any number of Rect nodes. The cache
// keys device textures by Image pointer identity, so reusing one Image across
// nodes uploads its pixels once.
type Image struct {
	W, H     int
	Channels int // 3 (RGB) or 4 (RGBA)
	Pix      []byte
}

// DecodeImage decodes PNG or JPEG data into an RGBA Image.
func DecodeImage(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("holo: decode image: %w", err)
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return &Image{
		W:        b.Dx(),
		H:        b.Dy(),
		Channels: 4,
		Pix:      rgba.Pix,
	}, nil
}

// LoadImage decodes an image file from disk.
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("holo: open image: %w", err)
	}
	defer f.Close()
	return DecodeImage(f)
}

// NewImageFromPixels wraps raw pixel data. Channels must be 3 or 4 and
// len(pix) must be w*h*channels.
func NewImageFromPixels(w, h, channels int, pix []byte) (*Image, error) {
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("holo: unsupported channel count %d", channels)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("holo: invalid image size %dx%d", w, h)
	}
	if want := w * h * channels; len(pix) != want {
		return nil, fmt.Errorf("holo: pixel data length %d, need %d", len(pix), want)
	}
	return &Image{W: w, H: h, Channels: channels, Pix: pix}, nil
}

// rgba returns the pixel data as RGBA, expanding three-channel data with an
// opaque alpha.
func (img *Image) rgba() []byte {
	if img.Channels == 4 {
		return img.Pix
	}
	out := make([]byte, img.W*img.H*4)
	for i, j := 0, 0; i < len(img.Pix); i, j = i+3, j+4 {
		out[j] = img.Pix[i]
		out[j+1] = img.Pix[i+1]
		out[j+2] = img.Pix[i+2]
		out[j+3] = 0xff
	}
	return out
}
