// Package scenegraph is the viewer's in-memory scene: a tree of nodes that
// may own triangle geometry and materials, with an open attribute bag on
// every object so untrusted content can be inspected and stripped by name.
package scenegraph

import (
	"cogentcore.org/core/math32"

	"model-viewer/internal/geom"
)

// Common node type tags.
const (
	TypeObject3D = "Object3D"
	TypeGroup    = "Group"
	TypeMesh     = "Mesh"
	TypeScene    = "Scene"
)

// Node is one element of the scene tree.
type Node struct {
	AttrBag
	Name string
	Type string

	Position math32.Vector3
	Rotation math32.Vector3 // Euler XYZ radians; Y is yaw
	Scale    math32.Vector3

	Visible       bool
	CastShadow    bool
	ReceiveShadow bool

	Geometry  *Geometry
	Materials []*Material
	UserData  map[string]any

	parent   *Node
	children []*Node
}

// NewNode returns a visible node with unit scale.
func NewNode(name, typ string) *Node {
	if typ == "" {
		typ = TypeObject3D
	}
	return &Node{
		Name:    name,
		Type:    typ,
		Scale:   math32.Vec3(1, 1, 1),
		Visible: true,
	}
}

// NewMesh returns a mesh node with the given geometry and materials.
func NewMesh(name string, g *Geometry, mats ...*Material) *Node {
	n := NewNode(name, TypeMesh)
	n.Geometry = g
	n.Materials = mats
	return n
}

// Parent returns the parent node or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child slice. Callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// Add appends child, removing it from any previous parent first.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child and reports whether it was a child of n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			child.parent = nil
			return true
		}
	}
	return false
}

// IsMesh reports whether the node owns renderable geometry.
func (n *Node) IsMesh() bool { return n.Geometry != nil }

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// Meshes appends every mesh in the subtree of n to dst.
func (n *Node) Meshes(dst []*Node) []*Node {
	n.Walk(func(c *Node, _ int) bool {
		if c.IsMesh() {
			dst = append(dst, c)
		}
		return true
	})
	return dst
}

// Root returns the topmost ancestor of n.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// IsDescendantOf reports whether ancestor is n itself or one of its parents.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// LocalMatrix returns the node transform relative to its parent.
func (n *Node) LocalMatrix() math32.Matrix4 {
	return geom.Compose(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the transform from node space to world space.
func (n *Node) WorldMatrix() math32.Matrix4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		pm := p.LocalMatrix()
		var w math32.Matrix4
		w.MulMatrices(&pm, &m)
		m = w
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() math32.Vector3 {
	m := n.WorldMatrix()
	return geom.Translation(&m)
}

// VisibleInWorld reports whether n and all its ancestors are visible.
func (n *Node) VisibleInWorld() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.Visible {
			return false
		}
	}
	return true
}

var _ Attributed = (*Node)(nil)
