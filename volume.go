package holo

// Volume is a 3D-positioned host for a 2D node tree. Its position is the
// center of its quad in world space, Y increasing upward; the 2D children are
// laid out in the volume's private pixel space, top-left origin, Y down,
// sized by the volume's render-target extent.
type Volume struct {
	Name     string
	Position Vec3
	Rotation Vec3
	Scale    Vec3
	Visible  bool

	targetW, targetH int
	roots            []*Node
}

// NewVolume returns a visible volume at the origin with a render target of
// the given pixel size.
func NewVolume(w, h int) *Volume {
	return &Volume{
		Scale:   Vec3One,
		Visible: true,
		targetW: w,
		targetH: h,
	}
}

// Size returns the volume's render-target extent in pixels.
func (v *Volume) Size() (w, h int) { return v.targetW, v.targetH }

// SetSize changes the render-target extent. The backing texture is recreated
// on the next frame that renders this volume.
func (v *Volume) SetSize(w, h int) {
	v.targetW = w
	v.targetH = h
}

// Children returns the volume's root 2D nodes in draw order. The returned
// slice is the volume's own; callers must not mutate it.
func (v *Volume) Children() []*Node { return v.roots }

// AddChild attaches node as a root of the volume's 2D tree, detaching it from
// any previous parent or volume. Panics if node is nil.
func (v *Volume) AddChild(node *Node) {
	if node == nil {
		panic("holo: AddChild called with nil node")
	}
	node.detach()
	node.owner = v
	v.roots = append(v.roots, node)
}

// RemoveChild detaches node from the volume. A node not rooted here is a
// no-op.
func (v *Volume) RemoveChild(node *Node) {
	if node == nil || node.owner != v {
		return
	}
	node.detach()
}

func (v *Volume) removeRoot(node *Node) {
	for i, r := range v.roots {
		if r == node {
			v.roots = append(v.roots[:i], v.roots[i+1:]...)
			return
		}
	}
}
