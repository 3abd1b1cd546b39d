package holo

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenDevice implements Device on Ebitengine. The host game loop owns the
// window; it hands the frame's screen image to the device via SetScreen at
// the top of every Draw call.
//
// Ebitengine has no programmable vertex stage, so the MVP transform and the
// perspective divide run on the CPU here, producing screen-space vertices for
// DrawTriangles. Scissoring uses SubImage, the engine's native rectangular
// clip.
type EbitenDevice struct {
	textures map[TextureID]*ebiten.Image
	nextID   TextureID

	screen   *ebiten.Image
	target   *ebiten.Image
	targetID TextureID

	viewport ClipRect
	scissor  ClipRect

	// scratch buffers reused across draw calls
	verts   []ebiten.Vertex
	indices []uint32
}

// NewEbitenDevice returns a device with no screen attached. Call SetScreen
// before rendering each frame.
func NewEbitenDevice() *EbitenDevice {
	return &EbitenDevice{
		textures: make(map[TextureID]*ebiten.Image),
		nextID:   1,
	}
}

// SetScreen attaches the frame's screen image and rebinds the default target.
func (d *EbitenDevice) SetScreen(screen *ebiten.Image) {
	d.screen = screen
	d.target = screen
	d.targetID = 0
	w, h := d.TargetSize()
	d.viewport = ClipRect{W: w, H: h}
	d.scissor = d.viewport
}

func (d *EbitenDevice) CreateTexture(w, h int) (TextureID, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("holo: invalid texture size %dx%d", w, h)
	}
	id := d.nextID
	d.nextID++
	d.textures[id] = ebiten.NewImage(w, h)
	return id, nil
}

func (d *EbitenDevice) UploadPixels(id TextureID, pix []byte) error {
	img, ok := d.textures[id]
	if !ok {
		return fmt.Errorf("holo: upload to unknown texture %d", id)
	}
	b := img.Bounds()
	if want := b.Dx() * b.Dy() * 4; len(pix) != want {
		return fmt.Errorf("holo: pixel upload size %d, texture needs %d", len(pix), want)
	}
	// Ebitengine stores premultiplied alpha.
	pm := make([]byte, len(pix))
	for i := 0; i < len(pix); i += 4 {
		a := uint32(pix[i+3])
		pm[i] = byte(uint32(pix[i]) * a / 255)
		pm[i+1] = byte(uint32(pix[i+1]) * a / 255)
		pm[i+2] = byte(uint32(pix[i+2]) * a / 255)
		pm[i+3] = byte(a)
	}
	img.WritePixels(pm)
	return nil
}

func (d *EbitenDevice) DestroyTexture(id TextureID) {
	if img, ok := d.textures[id]; ok {
		img.Deallocate()
		delete(d.textures, id)
	}
}

func (d *EbitenDevice) BindRenderTarget(id TextureID) error {
	if id == 0 {
		if d.screen == nil {
			return fmt.Errorf("holo: no screen attached")
		}
		d.target = d.screen
	} else {
		img, ok := d.textures[id]
		if !ok {
			return fmt.Errorf("holo: bind to unknown texture %d", id)
		}
		d.target = img
	}
	d.targetID = id
	w, h := d.TargetSize()
	d.viewport = ClipRect{W: w, H: h}
	d.scissor = d.viewport
	return nil
}

func (d *EbitenDevice) SetViewport(x, y, w, h int) {
	d.viewport = ClipRect{X: x, Y: y, W: w, H: h}
}

func (d *EbitenDevice) SetScissor(x, y, w, h int) {
	d.scissor = ClipRect{X: x, Y: y, W: w, H: h}
}

// dst returns the draw destination with the current scissor applied.
// SubImage coordinates are absolute in the base image, same as the scissor.
func (d *EbitenDevice) dst() *ebiten.Image {
	if d.target == nil {
		return nil
	}
	full := d.target.Bounds()
	r := image.Rect(d.scissor.X, d.scissor.Y, d.scissor.X+d.scissor.W, d.scissor.Y+d.scissor.H)
	r = r.Intersect(full)
	if r == full {
		return d.target
	}
	return d.target.SubImage(r).(*ebiten.Image)
}

func (d *EbitenDevice) Clear(r, g, b, a float32) {
	dst := d.dst()
	if dst == nil {
		return
	}
	dst.Fill(premultiplied(r, g, b, a))
}

func (d *EbitenDevice) DrawTexturedTriangles(verts []Vertex, mvp Mat4, tex TextureID) {
	dst := d.dst()
	if dst == nil || d.scissor.Empty() {
		return
	}
	src, ok := d.textures[tex]
	if !ok {
		return
	}
	sw, sh := float32(src.Bounds().Dx()), float32(src.Bounds().Dy())

	d.verts = d.verts[:0]
	d.indices = d.indices[:0]
	for i, v := range verts {
		cx, cy, cw := transformPoint(mvp, v.X, v.Y)
		if cw == 0 {
			return
		}
		ndcX := cx / cw
		ndcY := cy / cw
		px := float32(d.viewport.X) + (ndcX+1)*0.5*float32(d.viewport.W)
		py := float32(d.viewport.Y) + (1-ndcY)*0.5*float32(d.viewport.H)
		d.verts = append(d.verts, ebiten.Vertex{
			DstX:   px,
			DstY:   py,
			SrcX:   v.U * sw,
			SrcY:   v.V * sh,
			ColorR: v.R * v.A,
			ColorG: v.G * v.A,
			ColorB: v.B * v.A,
			ColorA: v.A,
		})
		d.indices = append(d.indices, uint32(i))
	}
	dst.DrawTriangles32(d.verts, d.indices, src, nil)
}

// Present is a no-op: Ebitengine presents when the host's Draw returns.
func (d *EbitenDevice) Present() {}

// WaitIdle is a no-op: Ebitengine serializes GPU work per frame and
// WritePixels copies its input buffer, so uploads never race with sampling.
func (d *EbitenDevice) WaitIdle() {}

func (d *EbitenDevice) ReadPixels() (pix []byte, w, h int, err error) {
	if d.target == nil {
		return nil, 0, 0, fmt.Errorf("holo: no render target bound")
	}
	b := d.target.Bounds()
	w, h = b.Dx(), b.Dy()
	pix = make([]byte, w*h*4)
	d.target.ReadPixels(pix)
	return pix, w, h, nil
}

func (d *EbitenDevice) TargetSize() (w, h int) {
	if d.target == nil {
		return 0, 0
	}
	b := d.target.Bounds()
	return b.Dx(), b.Dy()
}

func premultiplied(r, g, b, a float32) color.Color {
	return color.RGBA{
		R: uint8(clamp01(r*a) * 255),
		G: uint8(clamp01(g*a) * 255),
		B: uint8(clamp01(b*a) * 255),
		A: uint8(clamp01(a) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
