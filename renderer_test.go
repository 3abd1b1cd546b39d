package holo

import (
	"testing"

	"github.com/chewxy/math32"
)

// fakeDevice records every call so tests can assert on the submitted command
// stream without a GPU.
type fakeTexture struct {
	w, h int
}

type drawRec struct {
	verts   []Vertex
	mvp     Mat4
	tex     TextureID
	target  TextureID
	scissor ClipRect
}

type fakeDevice struct {
	textures map[TextureID]*fakeTexture
	nextID   TextureID

	bound            TextureID
	screenW, screenH int
	viewport         ClipRect
	scissor          ClipRect

	draws      []drawRec
	scissorLog []ClipRect
	destroyed  []TextureID
	uploads    int
	presents   int
	waits      int

	failCreate bool
	failBind   map[TextureID]bool
}

func newFakeDevice(w, h int) *fakeDevice {
	return &fakeDevice{
		textures: make(map[TextureID]*fakeTexture),
		nextID:   1,
		screenW:  w,
		screenH:  h,
		viewport: ClipRect{W: w, H: h},
		scissor:  ClipRect{W: w, H: h},
		failBind: make(map[TextureID]bool),
	}
}

func (d *fakeDevice) CreateTexture(w, h int) (TextureID, error) {
	if d.failCreate {
		return 0, errFakeCreate
	}
	id := d.nextID
	d.nextID++
	d.textures[id] = &fakeTexture{w: w, h: h}
	return id, nil
}

func (d *fakeDevice) UploadPixels(id TextureID, pix []byte) error {
	tex, ok := d.textures[id]
	if !ok {
		return errFakeUnknown
	}
	if len(pix) != tex.w*tex.h*4 {
		return errFakeSize
	}
	d.uploads++
	return nil
}

func (d *fakeDevice) DestroyTexture(id TextureID) {
	if _, ok := d.textures[id]; ok {
		delete(d.textures, id)
		d.destroyed = append(d.destroyed, id)
	}
}

func (d *fakeDevice) BindRenderTarget(id TextureID) error {
	if d.failBind[id] {
		return errFakeBind
	}
	if id != 0 {
		if _, ok := d.textures[id]; !ok {
			return errFakeUnknown
		}
	}
	d.bound = id
	return nil
}

func (d *fakeDevice) SetViewport(x, y, w, h int) {
	d.viewport = ClipRect{X: x, Y: y, W: w, H: h}
}

func (d *fakeDevice) SetScissor(x, y, w, h int) {
	d.scissor = ClipRect{X: x, Y: y, W: w, H: h}
	d.scissorLog = append(d.scissorLog, d.scissor)
}

func (d *fakeDevice) Clear(r, g, b, a float32) {}

func (d *fakeDevice) DrawTexturedTriangles(verts []Vertex, mvp Mat4, tex TextureID) {
	d.draws = append(d.draws, drawRec{
		verts:   append([]Vertex(nil), verts...),
		mvp:     mvp,
		tex:     tex,
		target:  d.bound,
		scissor: d.scissor,
	})
}

func (d *fakeDevice) Present()  { d.presents++ }
func (d *fakeDevice) WaitIdle() { d.waits++ }

func (d *fakeDevice) ReadPixels() ([]byte, int, int, error) {
	w, h := d.TargetSize()
	return make([]byte, w*h*4), w, h, nil
}

func (d *fakeDevice) TargetSize() (int, int) {
	if d.bound == 0 {
		return d.screenW, d.screenH
	}
	tex := d.textures[d.bound]
	return tex.w, tex.h
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

const (
	errFakeCreate  = fakeErr("fake: create refused")
	errFakeUnknown = fakeErr("fake: unknown texture")
	errFakeSize    = fakeErr("fake: bad pixel length")
	errFakeBind    = fakeErr("fake: bind refused")
)

func newTestRenderer(t *testing.T, w, h int) (*Renderer, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice(w, h)
	r, err := NewRenderer(dev, DefaultOptions())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r, dev
}

// drawBounds returns the pixel-space AABB of a recorded draw, projected with
// the extent the draw targeted.
func drawBounds(d drawRec, extentW, extentH int) (minX, minY, maxX, maxY float32) {
	minX, minY = math32.MaxFloat32, math32.MaxFloat32
	maxX, maxY = -math32.MaxFloat32, -math32.MaxFloat32
	for _, v := range d.verts {
		px, py := projectToTarget(d.mvp, v.X, v.Y, extentW, extentH)
		minX = min(minX, px)
		minY = min(minY, py)
		maxX = max(maxX, px)
		maxY = max(maxY, py)
	}
	return minX, minY, maxX, maxY
}

func TestRenderWithoutCameraIsNoop(t *testing.T) {
	r, dev := newTestRenderer(t, 100, 100)
	scene := NewScene()
	v := NewVolume(50, 50)
	v.AddChild(NewRectangle(10, 10))
	scene.AddVolume(v)

	r.BeginFrame()
	r.Render(scene)
	if len(dev.draws) != 0 {
		t.Fatalf("draws = %d, want 0", len(dev.draws))
	}
}

func TestRenderNilSceneIsNoop(t *testing.T) {
	r, dev := newTestRenderer(t, 100, 100)
	r.BeginFrame()
	r.Render(nil)
	r.EndFrame()
	if len(dev.draws) != 0 {
		t.Fatalf("draws = %d, want 0", len(dev.draws))
	}
}

func TestRectRendersTopLeftBlock(t *testing.T) {
	r, dev := newTestRenderer(t, 100, 100)

	root := NewContainer("root")
	root.AddChild(NewRectangle(10, 10))

	r.BeginFrame()
	r.RenderNode(root)

	if len(dev.draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(dev.draws))
	}
	minX, minY, maxX, maxY := drawBounds(dev.draws[0], 100, 100)
	assertNear(t, "minX", minX, 0)
	assertNear(t, "minY", minY, 0)
	assertNear(t, "maxX", maxX, 10)
	assertNear(t, "maxY", maxY, 10)
}

func TestChildOffsetAccumulates(t *testing.T) {
	r, dev := newTestRenderer(t, 200, 200)

	outer := NewContainer("outer")
	outer.X, outer.Y = 20, 30
	inner := NewRectangle(10, 10)
	inner.X, inner.Y = 5, 5
	outer.AddChild(inner)

	r.BeginFrame()
	r.RenderNode(outer)

	minX, minY, _, _ := drawBounds(dev.draws[0], 200, 200)
	assertNear(t, "minX", minX, 25)
	assertNear(t, "minY", minY, 35)
}

func TestVolumePassRendersOffscreenThenComposites(t *testing.T) {
	r, dev := newTestRenderer(t, 640, 480)

	scene := NewScene()
	scene.SetCamera(NewCamera())
	v := NewVolume(200, 100)
	v.AddChild(NewRectangle(50, 50))
	scene.AddVolume(v)

	r.BeginFrame()
	r.Render(scene)
	r.EndFrame()

	if len(dev.draws) != 2 {
		t.Fatalf("draws = %d, want 2 (offscreen + composite)", len(dev.draws))
	}
	off, comp := dev.draws[0], dev.draws[1]
	if off.target == 0 {
		t.Error("first draw went to the default target, want offscreen")
	}
	if comp.target != 0 {
		t.Errorf("composite target = %d, want default", comp.target)
	}
	if comp.tex != off.target {
		t.Errorf("composite samples texture %d, offscreen pass drew into %d", comp.tex, off.target)
	}
	if dev.presents != 1 {
		t.Errorf("presents = %d, want 1", dev.presents)
	}
	// Window state restored after the offscreen pass.
	if dev.viewport != (ClipRect{W: 640, H: 480}) {
		t.Errorf("viewport = %+v, want full window", dev.viewport)
	}
	if dev.scissor != (ClipRect{W: 640, H: 480}) {
		t.Errorf("scissor = %+v, want full window", dev.scissor)
	}
}

func TestInvisibleVolumeAndSubtreeElided(t *testing.T) {
	r, dev := newTestRenderer(t, 100, 100)

	scene := NewScene()
	scene.SetCamera(NewCamera())
	hidden := NewVolume(50, 50)
	hidden.Visible = false
	hidden.AddChild(NewRectangle(10, 10))
	scene.AddVolume(hidden)

	shown := NewVolume(50, 50)
	ghost := NewContainer("ghost")
	ghost.Visible = false
	ghost.AddChild(NewRectangle(10, 10))
	shown.AddChild(ghost)
	scene.AddVolume(shown)

	r.BeginFrame()
	r.Render(scene)

	// Only the visible volume's composite quad; nothing from the hidden
	// volume or the invisible subtree.
	if len(dev.draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(dev.draws))
	}
	if dev.draws[0].target != 0 {
		t.Error("lone draw should be the composite on the default target")
	}
}

func TestBindFailureAbortsVolumeOnly(t *testing.T) {
	r, dev := newTestRenderer(t, 100, 100)

	scene := NewScene()
	scene.SetCamera(NewCamera())
	bad := NewVolume(64, 64)
	bad.Name = "bad"
	bad.AddChild(NewRectangle(10, 10))
	scene.AddVolume(bad)
	good := NewVolume(32, 32)
	good.AddChild(NewRectangle(10, 10))
	scene.AddVolume(good)

	r.BeginFrame()
	// Targets are created per volume in render order, so id 1 belongs to
	// the first volume.
	dev.failBind[1] = true
	r.Render(scene)

	for _, d := range dev.draws {
		if d.tex == 1 || d.target == 1 {
			t.Fatal("aborted volume still produced draws")
		}
	}
	// The good volume still rendered: offscreen + composite.
	if len(dev.draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(dev.draws))
	}
}

func TestSecondFrameWithCachedResourcesSkipsWait(t *testing.T) {
	r, dev := newTestRenderer(t, 100, 100)

	scene := NewScene()
	scene.SetCamera(NewCamera())
	v := NewVolume(50, 50)
	v.AddChild(NewRectangle(10, 10))
	v.AddChild(NewText("cached"))
	scene.AddVolume(v)

	r.BeginFrame()
	r.Render(scene)
	r.EndFrame()
	if dev.waits != 1 {
		t.Fatalf("first frame waits = %d, want 1 (new textures uploaded)", dev.waits)
	}

	r.BeginFrame()
	r.Render(scene)
	r.EndFrame()
	if dev.waits != 1 {
		t.Errorf("second frame waits = %d, want 1 (everything cached)", dev.waits)
	}
}

func TestClipScenarioPartialOverlap(t *testing.T) {
	// A clipping container inside an 800x700 volume, with a rectangle
	// hanging off its top-left corner: only the 50x50 overlap survives the
	// scissor, regardless of the volume's 3D orientation.
	run := func(rotation Vec3) []ClipRect {
		r, dev := newTestRenderer(t, 1024, 768)
		scene := NewScene()
		scene.SetCamera(NewCamera())
		v := NewVolume(800, 700)
		v.Rotation = rotation

		panel := NewContainer("panel")
		panel.X, panel.Y = 150, 50
		panel.W, panel.H = 500, 600
		panel.ClipEnabled = true
		rect := NewRectangle(100, 100)
		rect.X, rect.Y = -50, -50
		panel.AddChild(rect)
		v.AddChild(panel)
		scene.AddVolume(v)

		r.BeginFrame()
		r.Render(scene)
		r.EndFrame()

		if len(dev.draws) != 2 {
			t.Fatalf("draws = %d, want 2", len(dev.draws))
		}
		off := dev.draws[0]
		if off.scissor != (ClipRect{X: 150, Y: 50, W: 500, H: 600}) {
			t.Errorf("scissor = %+v, want the panel bounds", off.scissor)
		}
		minX, minY, maxX, maxY := drawBounds(off, 800, 700)
		assertNear(t, "minX", minX, 100)
		assertNear(t, "minY", minY, 0)
		assertNear(t, "maxX", maxX, 200)
		assertNear(t, "maxY", maxY, 100)
		// Visible region = draw AABB ∩ scissor.
		vis := off.scissor.Intersect(ClipRect{X: int(minX), Y: int(minY), W: int(maxX - minX), H: int(maxY - minY)})
		if vis != (ClipRect{X: 150, Y: 50, W: 50, H: 50}) {
			t.Errorf("visible region = %+v, want 50x50 at the panel origin", vis)
		}

		return append([]ClipRect(nil), dev.scissorLog...)
	}

	flat := run(Vec3{})
	tilted := run(Vec3{X: 0.4, Y: 1.1, Z: 0.2})
	if len(flat) != len(tilted) {
		t.Fatalf("scissor sequences differ in length: %d vs %d", len(flat), len(tilted))
	}
	for i := range flat {
		if flat[i] != tilted[i] {
			t.Errorf("scissor %d differs under rotation: %+v vs %+v", i, flat[i], tilted[i])
		}
	}
}

func TestEmptyTextDrawsNothing(t *testing.T) {
	r, dev := newTestRenderer(t, 100, 100)
	root := NewContainer("root")
	root.AddChild(NewText(""))
	r.BeginFrame()
	r.RenderNode(root)
	if len(dev.draws) != 0 {
		t.Fatalf("draws = %d, want 0", len(dev.draws))
	}
}

func TestTextAlignmentOffsets(t *testing.T) {
	r, dev := newTestRenderer(t, 400, 100)
	root := NewContainer("root")

	left := NewText("align")
	left.X = 200
	root.AddChild(left)

	center := NewText("align")
	center.X = 200
	center.Align = TextAlignCenter
	root.AddChild(center)

	right := NewText("align")
	right.X = 200
	right.Align = TextAlignRight
	root.AddChild(right)

	r.BeginFrame()
	r.RenderNode(root)

	if len(dev.draws) != 3 {
		t.Fatalf("draws = %d, want 3", len(dev.draws))
	}
	lMin, _, lMax, _ := drawBounds(dev.draws[0], 400, 100)
	cMin, _, _, _ := drawBounds(dev.draws[1], 400, 100)
	rMin, _, rMax, _ := drawBounds(dev.draws[2], 400, 100)
	w := lMax - lMin
	assertNear(t, "left min", lMin, 200)
	assertNear(t, "center min", cMin, 200-w/2)
	assertNear(t, "right min", rMin, 200-w)
	assertNear(t, "right max", rMax, 200)
}

func TestImageFallsBackToPlaceholder(t *testing.T) {
	r, dev := newTestRenderer(t, 100, 100)
	root := NewContainer("root")
	plain := NewRectangle(10, 10)
	root.AddChild(plain)

	r.BeginFrame()
	r.RenderNode(root)
	if len(dev.draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(dev.draws))
	}
	white := dev.draws[0].tex

	// Texture creation now fails, so the textured rectangle degrades to the
	// placeholder instead of disappearing.
	dev.failCreate = true
	img, err := NewImageFromPixels(2, 2, 4, make([]byte, 16))
	if err != nil {
		t.Fatal(err)
	}
	textured := NewRectangle(10, 10)
	textured.Image = img
	root.AddChild(textured)

	r.RenderNode(root)
	last := dev.draws[len(dev.draws)-1]
	if last.tex != white {
		t.Errorf("fallback texture = %d, want placeholder %d", last.tex, white)
	}
}

func TestStatsCounters(t *testing.T) {
	r, _ := newTestRenderer(t, 100, 100)
	scene := NewScene()
	scene.SetCamera(NewCamera())
	v := NewVolume(50, 50)
	panel := NewContainer("panel")
	panel.W, panel.H = 40, 40
	panel.ClipEnabled = true
	panel.AddChild(NewRectangle(10, 10))
	v.AddChild(panel)
	scene.AddVolume(v)

	r.BeginFrame()
	r.Render(scene)
	r.EndFrame()

	st := r.Stats()
	if st.Volumes != 1 {
		t.Errorf("volumes = %d, want 1", st.Volumes)
	}
	if st.DrawCalls != 2 {
		t.Errorf("draw calls = %d, want 2", st.DrawCalls)
	}
	if st.ClipPushes != 1 {
		t.Errorf("clip pushes = %d, want 1", st.ClipPushes)
	}
	if st.TextureUploads == 0 {
		t.Error("texture uploads = 0, want the placeholder upload counted")
	}
}

func TestCloseDestroysTextures(t *testing.T) {
	r, dev := newTestRenderer(t, 100, 100)
	scene := NewScene()
	scene.SetCamera(NewCamera())
	v := NewVolume(50, 50)
	v.AddChild(NewRectangle(10, 10))
	scene.AddVolume(v)

	r.BeginFrame()
	r.Render(scene)
	r.EndFrame()
	r.Close()

	if len(dev.textures) != 0 {
		t.Errorf("%d textures still alive after Close", len(dev.textures))
	}
}
