package holo

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// glyphKey identifies a rasterized text texture. Keyed by full content rather
// than per-character glyphs: the original text path re-rasterizes whole
// strings, and the LRU bound keeps churn from dynamic text in check.
type glyphKey struct {
	text string
	size float64
	bold bool
}

type glyphEntry struct {
	tex  TextureID
	w, h int
}

type targetEntry struct {
	tex  TextureID
	w, h int
}

// resourceCache owns all device textures derived from scene resources: image
// textures keyed by *Image identity, glyph textures keyed by (content, size,
// bold), and per-volume render targets keyed by *Volume identity.
//
// createdThisFrame is set whenever pixel data is uploaded to a new texture
// within the current frame; the renderer uses it to decide whether the frame
// needs an end-of-frame device sync. Render-target creation does not set it:
// targets are drawn into through the command stream, never uploaded from the
// CPU, so they need no upload/sample fence.
type resourceCache struct {
	dev     Device
	images  map[*Image]TextureID
	glyphs  *lru.Cache[glyphKey, glyphEntry]
	targets map[*Volume]targetEntry

	createdThisFrame bool
	uploads          int
}

func newResourceCache(dev Device, glyphBound int) (*resourceCache, error) {
	c := &resourceCache{
		dev:     dev,
		images:  make(map[*Image]TextureID),
		targets: make(map[*Volume]targetEntry),
	}
	glyphs, err := lru.NewWithEvict(glyphBound, func(_ glyphKey, e glyphEntry) {
		c.dev.DestroyTexture(e.tex)
	})
	if err != nil {
		return nil, fmt.Errorf("holo: glyph cache: %w", err)
	}
	c.glyphs = glyphs
	return c, nil
}

// beginFrame resets the per-frame upload flag and counter.
func (c *resourceCache) beginFrame() {
	c.createdThisFrame = false
	c.uploads = 0
}

// imageTexture returns the device texture for img, creating and uploading it
// on first use. Three-channel images are expanded to RGBA on upload.
func (c *resourceCache) imageTexture(img *Image) (TextureID, error) {
	if id, ok := c.images[img]; ok {
		return id, nil
	}
	id, err := c.dev.CreateTexture(img.W, img.H)
	if err != nil {
		return 0, fmt.Errorf("holo: image texture: %w", err)
	}
	if err := c.dev.UploadPixels(id, img.rgba()); err != nil {
		c.dev.DestroyTexture(id)
		return 0, fmt.Errorf("holo: image texture: %w", err)
	}
	c.images[img] = id
	c.createdThisFrame = true
	c.uploads++
	return id, nil
}

// glyphTexture returns the texture for a rasterized string, rasterizing via
// ras and uploading on a cache miss.
func (c *resourceCache) glyphTexture(text string, size float64, bold bool, ras Rasterizer) (glyphEntry, error) {
	key := glyphKey{text: text, size: size, bold: bold}
	if e, ok := c.glyphs.Get(key); ok {
		return e, nil
	}
	w, h, pix, err := ras.Rasterize(text, size, bold)
	if err != nil {
		return glyphEntry{}, fmt.Errorf("holo: rasterize %q: %w", text, err)
	}
	id, err := c.dev.CreateTexture(w, h)
	if err != nil {
		return glyphEntry{}, fmt.Errorf("holo: glyph texture: %w", err)
	}
	if err := c.dev.UploadPixels(id, pix); err != nil {
		c.dev.DestroyTexture(id)
		return glyphEntry{}, fmt.Errorf("holo: glyph texture: %w", err)
	}
	e := glyphEntry{tex: id, w: w, h: h}
	c.glyphs.Add(key, e)
	c.createdThisFrame = true
	c.uploads++
	return e, nil
}

// renderTarget returns the off-screen target texture for v, creating it on
// first use. A size mismatch (the volume was resized since the target was
// created) destroys and recreates the texture at the new size.
func (c *resourceCache) renderTarget(v *Volume) (TextureID, error) {
	w, h := v.Size()
	if e, ok := c.targets[v]; ok {
		if e.w == w && e.h == h {
			return e.tex, nil
		}
		Logger().Debug("recreating resized render target",
			"volume", v.Name, "from_w", e.w, "from_h", e.h, "to_w", w, "to_h", h)
		c.dev.DestroyTexture(e.tex)
		delete(c.targets, v)
	}
	id, err := c.dev.CreateTexture(w, h)
	if err != nil {
		return 0, fmt.Errorf("holo: render target: %w", err)
	}
	c.targets[v] = targetEntry{tex: id, w: w, h: h}
	return id, nil
}

// releaseTarget drops the render target for a volume, if any. Called when a
// volume leaves the scene for good.
func (c *resourceCache) releaseTarget(v *Volume) {
	if e, ok := c.targets[v]; ok {
		c.dev.DestroyTexture(e.tex)
		delete(c.targets, v)
	}
}

// close destroys every cached texture.
func (c *resourceCache) close() {
	for img, id := range c.images {
		c.dev.DestroyTexture(id)
		delete(c.images, img)
	}
	c.glyphs.Purge()
	for v, e := range c.targets {
		c.dev.DestroyTexture(e.tex)
		delete(c.targets, v)
	}
}
