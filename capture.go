package holo

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"
)

// CaptureFrame reads back the currently bound target as flat RGBA bytes,
// rows top to bottom. The device returns premultiplied alpha; use SavePNG
// for a straight-alpha file.
func (r *Renderer) CaptureFrame() (pix []byte, w, h int, err error) {
	return r.dev.ReadPixels()
}

// SavePNG captures the current target and writes it as a PNG with straight
// alpha.
func (r *Renderer) SavePNG(path string) error {
	pix, w, h, err := r.CaptureFrame()
	if err != nil {
		return fmt.Errorf("holo: capture: %w", err)
	}
	return writePNG(path, unpremultiply(pix, w, h))
}

// Screenshot queues a labeled capture for the end of the current frame. The
// PNG lands in the configured screenshot directory with a timestamped
// filename. Safe to call at any point between BeginFrame and EndFrame.
func (r *Renderer) Screenshot(label string) {
	r.pendingShots = append(r.pendingShots, label)
}

// flushScreenshots captures the frame once and writes a PNG per queued label.
// Runs before Present so the default target still holds the frame.
func (r *Renderer) flushScreenshots() {
	if len(r.pendingShots) == 0 {
		return
	}
	dir := r.opts.ScreenshotDir
	if dir == "" {
		dir = DefaultOptions().ScreenshotDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		Logger().Error("screenshot dir", "dir", dir, "err", err)
		r.pendingShots = r.pendingShots[:0]
		return
	}

	pix, w, h, err := r.CaptureFrame()
	if err != nil {
		Logger().Error("screenshot capture", "err", err)
		r.pendingShots = r.pendingShots[:0]
		return
	}
	img := unpremultiply(pix, w, h)

	stamp := time.Now().Format("20060102_150405")
	for _, label := range r.pendingShots {
		path := fmt.Sprintf("%s/%s_%s.png", dir, stamp, sanitizeLabel(label))
		if err := writePNG(path, img); err != nil {
			Logger().Error("screenshot write", "path", path, "err", err)
		}
	}
	r.pendingShots = r.pendingShots[:0]
}

// unpremultiply converts premultiplied RGBA bytes to a straight-alpha NRGBA
// image.
func unpremultiply(pix []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pix) && i+3 < len(img.Pix); i += 4 {
		cr, cg, cb, ca := pix[i], pix[i+1], pix[i+2], pix[i+3]
		if ca > 0 && ca < 255 {
			cr = uint8(min(int(cr)*255/int(ca), 255))
			cg = uint8(min(int(cg)*255/int(ca), 255))
			cb = uint8(min(int(cb)*255/int(ca), 255))
		}
		img.Pix[i] = cr
		img.Pix[i+1] = cg
		img.Pix[i+2] = cb
		img.Pix[i+3] = ca
	}
	return img
}

func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("holo: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("holo: encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters unsafe in file names with underscores and
// falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
