package holo

import "fmt"

// Renderer draws scenes through a Device. One frame is bracketed by
// BeginFrame and EndFrame; Render may be called any number of times in
// between. All methods must be called from the render thread.
type Renderer struct {
	dev   Device
	cache *resourceCache
	clip  *clipStack
	ras   Rasterizer
	opts  Options

	stats     statsTracker
	lastStats FrameStats

	whiteTex TextureID

	// boundTarget mirrors the device's current render-target binding; only
	// the renderer rebinds, so tracking it here avoids a device query.
	boundTarget TextureID

	pendingShots []string
}

// NewRenderer wraps a device. The default rasterizer is the built-in bitmap
// face; install a TTF rasterizer with SetRasterizer for scalable text.
func NewRenderer(dev Device, opts Options) (*Renderer, error) {
	bound := opts.GlyphCacheSize
	if bound <= 0 {
		bound = DefaultOptions().GlyphCacheSize
	}
	cache, err := newResourceCache(dev, bound)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		dev:   dev,
		cache: cache,
		clip:  &clipStack{dev: dev},
		ras:   basicRasterizer{},
		opts:  opts,
	}, nil
}

// SetRasterizer replaces the text rasterizer. Glyph textures already cached
// under the old rasterizer remain valid until evicted.
func (r *Renderer) SetRasterizer(ras Rasterizer) {
	if ras == nil {
		ras = basicRasterizer{}
	}
	r.ras = ras
}

// BeginFrame opens a frame on the default target: resets per-frame state,
// opens the scissor to the full window, and clears to the configured color.
func (r *Renderer) BeginFrame() {
	r.cache.beginFrame()
	r.stats.begin()
	if err := r.dev.BindRenderTarget(0); err != nil {
		Logger().Error("bind default target", "err", err)
		return
	}
	r.boundTarget = 0
	w, h := r.dev.TargetSize()
	r.dev.SetViewport(0, 0, w, h)
	r.clip.reset(w, h)
	c := r.opts.ClearColor
	r.dev.Clear(c.R, c.G, c.B, c.A)
}

// Render draws every visible volume of the scene. A nil scene or a scene
// without a camera renders nothing.
func (r *Renderer) Render(scene *Scene) {
	if scene == nil {
		return
	}
	cam := scene.Camera()
	if cam == nil {
		return
	}
	viewProj := cam.ProjectionMatrix().Mul(cam.ViewMatrix())
	for _, v := range scene.Volumes() {
		if !v.Visible {
			continue
		}
		r.stats.current.Volumes++
		model := ComposeTRS(v.Position, v.Rotation, v.Scale)
		r.renderVolume(v, viewProj.Mul(model))
	}
}

// renderVolume renders v's 2D tree into its off-screen target, then
// composites the target into the 3D scene as a textured quad under mvp.
func (r *Renderer) renderVolume(v *Volume, mvp Mat4) {
	tex, err := r.cache.renderTarget(v)
	if err != nil {
		Logger().Warn("volume target unavailable", "volume", v.Name, "err", err)
		return
	}
	if err := r.renderToTarget(v, tex); err != nil {
		Logger().Error("volume pass aborted", "volume", v.Name, "err", err)
		return
	}
	w, h := v.Size()
	r.compositeQuad(tex, float32(w), float32(h), mvp)
}

// renderToTarget runs the 2D pass for v into tex. The previously bound
// target, its viewport, and the clip state are restored exactly before
// returning, error or not.
func (r *Renderer) renderToTarget(v *Volume, tex TextureID) error {
	prevTarget := r.boundTarget
	prevW, prevH := r.clip.extentW, r.clip.extentH
	prevStack := append([]ClipRect(nil), r.clip.stack...)

	if err := r.dev.BindRenderTarget(tex); err != nil {
		return fmt.Errorf("bind render target: %w", err)
	}
	r.boundTarget = tex
	w, h := v.Size()
	r.dev.SetViewport(0, 0, w, h)
	r.clip.reset(w, h)
	r.dev.Clear(0, 0, 0, 0)

	// The pass root maps the volume's top-left, Y-down pixel space to clip
	// space. The vertical flip lives here, once, not per container.
	root := Ortho2D(float32(w), float32(h)).Mul(AxisFlip(float32(h)))
	for _, child := range v.Children() {
		r.renderNode(child, root)
	}

	if err := r.dev.BindRenderTarget(prevTarget); err != nil {
		return fmt.Errorf("restore render target: %w", err)
	}
	r.boundTarget = prevTarget
	r.dev.SetViewport(0, 0, prevW, prevH)
	r.clip.extentW, r.clip.extentH = prevW, prevH
	r.clip.stack = prevStack
	r.clip.apply(r.clip.enclosing())
	return nil
}

// compositeQuad draws a volume's finished target as a centered quad of w x h
// world units. The quad's top edge samples texture row zero, so the 2D
// content appears upright in the Y-up 3D space.
func (r *Renderer) compositeQuad(tex TextureID, w, h float32, mvp Mat4) {
	hw, hh := w/2, h/2
	verts := []Vertex{
		{X: -hw, Y: hh, U: 0, V: 0, R: 1, G: 1, B: 1, A: 1},
		{X: hw, Y: hh, U: 1, V: 0, R: 1, G: 1, B: 1, A: 1},
		{X: -hw, Y: -hh, U: 0, V: 1, R: 1, G: 1, B: 1, A: 1},
		{X: hw, Y: hh, U: 1, V: 0, R: 1, G: 1, B: 1, A: 1},
		{X: hw, Y: -hh, U: 1, V: 1, R: 1, G: 1, B: 1, A: 1},
		{X: -hw, Y: -hh, U: 0, V: 1, R: 1, G: 1, B: 1, A: 1},
	}
	r.dev.DrawTexturedTriangles(verts, mvp, tex)
	r.stats.current.DrawCalls++
}

// renderNode draws n and its subtree under parentMVP.
func (r *Renderer) renderNode(n *Node, parentMVP Mat4) {
	if !n.Visible {
		return
	}
	nodeMVP := parentMVP.Mul(Translate2D(n.X, n.Y))

	if n.Type == NodeTypeContainer {
		if n.ClipEnabled {
			r.clip.push(0, 0, n.W, n.H, nodeMVP)
			r.stats.current.ClipPushes++
		}
		for _, child := range n.Children() {
			r.renderNode(child, nodeMVP)
		}
		if n.ClipEnabled {
			r.clip.pop()
		}
		return
	}

	switch n.Type {
	case NodeTypeRect:
		r.drawRect(n, nodeMVP)
	case NodeTypeText:
		r.drawText(n, nodeMVP)
	}
	for _, child := range n.Children() {
		r.renderNode(child, nodeMVP)
	}
}

func (r *Renderer) drawRect(n *Node, mvp Mat4) {
	tex := r.whiteTexture()
	if n.Image != nil {
		id, err := r.cache.imageTexture(n.Image)
		if err != nil {
			Logger().Warn("image texture unavailable, using placeholder",
				"node", n.Name, "err", err)
		} else {
			tex = id
		}
	}
	if tex == 0 {
		return
	}
	r.drawQuad(0, 0, n.W, n.H, n.Color, tex, mvp)
}

func (r *Renderer) drawText(n *Node, mvp Mat4) {
	if n.Text == "" {
		return
	}
	e, err := r.cache.glyphTexture(n.Text, n.Font.Size, n.Font.Bold, r.ras)
	if err != nil {
		Logger().Warn("text rasterization failed, skipping",
			"node", n.Name, "err", err)
		return
	}
	w, h := float32(e.w), float32(e.h)
	var offset float32
	switch n.Align {
	case TextAlignCenter:
		offset = -w / 2
	case TextAlignRight:
		offset = -w
	}
	r.drawQuad(offset, 0, w, h, n.Color, e.tex, mvp)
}

// drawQuad submits a textured axis-aligned quad in local 2D space.
func (r *Renderer) drawQuad(x, y, w, h float32, c Color, tex TextureID, mvp Mat4) {
	verts := []Vertex{
		{X: x, Y: y, U: 0, V: 0, R: c.R, G: c.G, B: c.B, A: c.A},
		{X: x + w, Y: y, U: 1, V: 0, R: c.R, G: c.G, B: c.B, A: c.A},
		{X: x, Y: y + h, U: 0, V: 1, R: c.R, G: c.G, B: c.B, A: c.A},
		{X: x + w, Y: y, U: 1, V: 0, R: c.R, G: c.G, B: c.B, A: c.A},
		{X: x + w, Y: y + h, U: 1, V: 1, R: c.R, G: c.G, B: c.B, A: c.A},
		{X: x, Y: y + h, U: 0, V: 1, R: c.R, G: c.G, B: c.B, A: c.A},
	}
	r.dev.DrawTexturedTriangles(verts, mvp, tex)
	r.stats.current.DrawCalls++
}

// whiteTexture lazily creates the 1x1 placeholder used for untextured
// rectangles and image fallbacks. Returns zero if creation fails.
func (r *Renderer) whiteTexture() TextureID {
	if r.whiteTex != 0 {
		return r.whiteTex
	}
	id, err := r.dev.CreateTexture(1, 1)
	if err != nil {
		Logger().Error("placeholder texture", "err", err)
		return 0
	}
	if err := r.dev.UploadPixels(id, []byte{0xff, 0xff, 0xff, 0xff}); err != nil {
		Logger().Error("placeholder texture", "err", err)
		r.dev.DestroyTexture(id)
		return 0
	}
	r.whiteTex = id
	r.cache.createdThisFrame = true
	r.cache.uploads++
	return id
}

// RenderNode draws a 2D tree directly onto the current default target with a
// window-sized orthographic projection, bypassing volumes. Clips pushed under
// this path operate in window coordinates.
func (r *Renderer) RenderNode(node *Node) {
	w, h := r.clip.extentW, r.clip.extentH
	if w <= 0 || h <= 0 {
		return
	}
	root := Ortho2D(float32(w), float32(h)).Mul(AxisFlip(float32(h)))
	r.renderNode(node, root)
}

// EndFrame flushes pending screenshots and presents. Only when a new texture
// was uploaded this frame does it wait for the device to go idle before the
// frame's resources can be touched again.
func (r *Renderer) EndFrame() {
	r.flushScreenshots()
	r.dev.Present()
	if r.cache.createdThisFrame {
		r.dev.WaitIdle()
	}
	r.stats.current.TextureUploads = r.cache.uploads
	r.lastStats = r.stats.end()
	Logger().Debug("frame",
		"volumes", r.lastStats.Volumes,
		"draw_calls", r.lastStats.DrawCalls,
		"uploads", r.lastStats.TextureUploads,
		"clip_pushes", r.lastStats.ClipPushes,
		"frame_time", r.lastStats.FrameTime,
	)
}

// Stats returns the counters of the most recently ended frame.
func (r *Renderer) Stats() FrameStats {
	return r.lastStats
}

// ReleaseVolume frees the render target cached for a volume that has left the
// scene for good.
func (r *Renderer) ReleaseVolume(v *Volume) {
	r.cache.releaseTarget(v)
}

// Close destroys every texture the renderer created.
func (r *Renderer) Close() {
	r.cache.close()
	if r.whiteTex != 0 {
		r.dev.DestroyTexture(r.whiteTex)
		r.whiteTex = 0
	}
}
