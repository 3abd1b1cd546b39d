package holo

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec3 is a 3D vector used for volume positions, Euler rotations, and scales.
type Vec3 struct {
	X, Y, Z float32
}

// Vec3One is the identity scale.
var Vec3One = Vec3{1, 1, 1}

// ClipRect is an axis-aligned integer rectangle in target-pixel space,
// top-left origin, Y down.
type ClipRect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle has zero area.
func (r ClipRect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the intersection of r and other, clamped to
// non-negative dimensions.
func (r ClipRect) Intersect(other ClipRect) ClipRect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.W, other.X+other.W)
	y1 := min(r.Y+r.H, other.Y+other.H)
	out := ClipRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Contains reports whether other lies entirely within r.
// An empty other is contained in anything.
func (r ClipRect) Contains(other ClipRect) bool {
	if other.Empty() {
		return true
	}
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.W <= r.X+r.W &&
		other.Y+other.H <= r.Y+r.H
}

// NodeType distinguishes rendering behavior for a Node. The variant set is
// closed: every node is a container, a rectangle, or a text node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // groups children, may clip them to its rectangle
	NodeTypeRect                      // draws a tinted rectangle, optionally textured
	NodeTypeText                      // draws a rasterized text string
)

// TextAlign controls horizontal text alignment relative to a text node's
// position.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // the node position is the text's left edge (default)
	TextAlignCenter                  // the node position is the text's horizontal center
	TextAlignRight                   // the node position is the text's right edge
)
