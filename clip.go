package holo

import "github.com/chewxy/math32"

// clipStack maintains nested scissor rectangles for a render pass. Clip
// rectangles are authored in a node's local 2D space; push transforms them
// through the node's MVP into pixel coordinates of the current target, so
// clips stay aligned with the content no matter how the volume is rotated or
// scaled.
//
// The target extent is threaded explicitly: the pass owner resets it whenever
// the bound target changes, so the NDC-to-pixel mapping never depends on
// device state queried after the fact.
type clipStack struct {
	dev     Device
	stack   []ClipRect
	extentW int
	extentH int
}

// reset clears the stack and opens the scissor to the full extent of the
// newly bound target.
func (cs *clipStack) reset(w, h int) {
	cs.stack = cs.stack[:0]
	cs.extentW = w
	cs.extentH = h
	cs.dev.SetScissor(0, 0, w, h)
}

// push projects the local-space rectangle (x, y, w, h) through mvp, takes the
// axis-aligned bounds of its four corners, intersects with the enclosing clip,
// and applies the result as the scissor. The result may be empty; that is a
// valid state and the zero-area scissor discards everything drawn under it.
func (cs *clipStack) push(x, y, w, h float32, mvp Mat4) {
	x0, y0 := projectToTarget(mvp, x, y, cs.extentW, cs.extentH)
	x1, y1 := projectToTarget(mvp, x+w, y, cs.extentW, cs.extentH)
	x2, y2 := projectToTarget(mvp, x, y+h, cs.extentW, cs.extentH)
	x3, y3 := projectToTarget(mvp, x+w, y+h, cs.extentW, cs.extentH)

	minX := math32.Floor(min(min(x0, x1), min(x2, x3)))
	minY := math32.Floor(min(min(y0, y1), min(y2, y3)))
	maxX := math32.Ceil(max(max(x0, x1), max(x2, x3)))
	maxY := math32.Ceil(max(max(y0, y1), max(y2, y3)))

	rect := ClipRect{
		X: int(minX),
		Y: int(minY),
		W: int(maxX - minX),
		H: int(maxY - minY),
	}
	rect = rect.Intersect(cs.enclosing())
	cs.stack = append(cs.stack, rect)
	cs.apply(rect)
}

// pop restores the enclosing clip. Popping an empty stack is a no-op.
func (cs *clipStack) pop() {
	if len(cs.stack) == 0 {
		return
	}
	cs.stack = cs.stack[:len(cs.stack)-1]
	cs.apply(cs.enclosing())
}

// current returns the active clip rectangle.
func (cs *clipStack) current() ClipRect {
	return cs.enclosing()
}

func (cs *clipStack) depth() int { return len(cs.stack) }

// enclosing is the stack top, or the full target bounds when the stack is
// empty.
func (cs *clipStack) enclosing() ClipRect {
	if len(cs.stack) == 0 {
		return ClipRect{W: cs.extentW, H: cs.extentH}
	}
	return cs.stack[len(cs.stack)-1]
}

func (cs *clipStack) apply(r ClipRect) {
	cs.dev.SetScissor(r.X, r.Y, r.W, r.H)
}
