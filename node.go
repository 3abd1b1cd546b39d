package holo

// Node is a 2D scene-graph element hosted inside a Volume. Every node is one
// of a closed set of variants (see NodeType); the variant determines which
// fields are meaningful. Positions are the top-left corner of the node in its
// parent's coordinate space, Y increasing downward.
//
// A node has at most one parent. AddChild detaches a node from its previous
// parent or volume before attaching it.
type Node struct {
	Name    string
	Type    NodeType
	X, Y    float32
	Visible bool

	// W, H are the rectangle size for Rect nodes and the clip bounds for
	// Containers with clipping enabled.
	W, H float32

	// ClipEnabled restricts a Container's children to its rectangle.
	// Ignored on other variants.
	ClipEnabled bool

	// Color tints Rect and Text nodes. Defaults to white.
	Color Color

	// Image textures a Rect node. A nil Image draws a solid fill.
	Image *Image

	// Text fields. An empty Text string draws nothing.
	Text  string
	Font  Font
	Align TextAlign

	parent   *Node
	children []*Node
	owner    *Volume
}

// NewContainer returns an invisible-geometry grouping node. Containers draw
// nothing themselves; with ClipEnabled they scissor their children to their
// rectangle.
func NewContainer(name string) *Node {
	return &Node{
		Name:    name,
		Type:    NodeTypeContainer,
		Visible: true,
		Color:   ColorWhite,
	}
}

// NewRectangle returns a rectangle node of the given size, tinted white.
func NewRectangle(w, h float32) *Node {
	return &Node{
		Type:    NodeTypeRect,
		W:       w,
		H:       h,
		Visible: true,
		Color:   ColorWhite,
	}
}

// NewText returns a text node with the default font settings.
func NewText(content string) *Node {
	return &Node{
		Type:    NodeTypeText,
		Text:    content,
		Font:    Font{Size: 16},
		Visible: true,
		Color:   ColorWhite,
	}
}

// Parent returns the node's parent, or nil for a root node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in draw order. The returned slice is
// the node's own; callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// AddChild appends child to n's children, detaching it from any previous
// parent or volume first. Panics if child is nil, or if child is n or an
// ancestor of n.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("holo: AddChild called with nil child")
	}
	if n.isOrDescendsFrom(child) {
		panic("holo: adding child would create a cycle")
	}
	child.detach()
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from n. Removing a node that is not a child of n
// is a no-op.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.parent != n {
		return
	}
	child.detach()
}

// isOrDescendsFrom reports whether n is other or lies in other's subtree.
func (n *Node) isOrDescendsFrom(other *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

func (n *Node) detach() {
	if n.parent != nil {
		p := n.parent
		for i, c := range p.children {
			if c == n {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
		n.parent = nil
	}
	if n.owner != nil {
		n.owner.removeRoot(n)
		n.owner = nil
	}
}
