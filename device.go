package holo

// TextureID identifies a device texture. The zero value is reserved: passed
// to BindRenderTarget it selects the default (window) framebuffer, and it is
// never returned by CreateTexture.
type TextureID uint32

// Vertex is a single triangle-list vertex: position in the 2D space the
// accompanying matrix maps to clip space, texture coordinates in [0, 1], and
// a straight-alpha color multiplied with the sampled texel.
type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

// Device is the GPU backend: texture storage, render-target binding, scissored
// triangle drawing, and frame synchronization. All calls happen on the render
// thread; implementations need no internal locking.
//
// Pixel data crossing this boundary is 8-bit RGBA, rows top to bottom.
type Device interface {
	// CreateTexture allocates a w x h RGBA texture usable both as a sampling
	// source and as a render target.
	CreateTexture(w, h int) (TextureID, error)

	// UploadPixels replaces the full contents of a texture. len(pix) must be
	// w*h*4 for the texture's size.
	UploadPixels(id TextureID, pix []byte) error

	// DestroyTexture releases a texture. Destroying an unknown id is a no-op.
	DestroyTexture(id TextureID)

	// BindRenderTarget directs subsequent Clear and draw calls at the given
	// texture, or at the default framebuffer when id is zero.
	BindRenderTarget(id TextureID) error

	// SetViewport sets the NDC-to-pixel mapping region of the bound target.
	SetViewport(x, y, w, h int)

	// SetScissor restricts rendering to a pixel rectangle of the bound
	// target. A zero-area rectangle discards everything.
	SetScissor(x, y, w, h int)

	// Clear fills the scissored region of the bound target.
	Clear(r, g, b, a float32)

	// DrawTexturedTriangles submits a triangle list. Vertices are transformed
	// by mvp and textured with tex.
	DrawTexturedTriangles(verts []Vertex, mvp Mat4, tex TextureID)

	// Present finishes the frame on the default framebuffer.
	Present()

	// WaitIdle blocks until all submitted GPU work has completed.
	WaitIdle()

	// ReadPixels returns the contents of the currently bound target.
	ReadPixels() (pix []byte, w, h int, err error)

	// TargetSize returns the pixel extent of the currently bound target.
	TargetSize() (w, h int)
}
