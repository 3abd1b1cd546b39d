// Package holo renders a mixed 3D/2D scene graph: 3D-positioned volumes that
// each host a 2D UI subtree of containers, rectangles, and text.
//
// Each volume's 2D subtree is rendered into a private off-screen target using
// an orthographic projection, then composited into the 3D scene as a textured
// quad under the volume's model-view-projection transform. Rendering the 2D
// content before any 3D transform is applied keeps rectangular clipping
// correct regardless of how the volume is rotated or scaled.
//
// The two coordinate conventions are:
//
//   - 3D: a volume's position is its center, Y increases upward.
//   - 2D: a node's position is its top-left corner, Y increases downward.
//
// GPU access goes through the Device interface; an Ebitengine-backed
// implementation is provided. All rendering is single-threaded and
// frame-synchronous.
package holo
