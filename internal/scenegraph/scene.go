package scenegraph

// Scene is the live scene the renderer draws. Content attached here is
// visible and pickable, so only sanitized subtrees may be attached.
type Scene struct {
	root *Node
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{root: NewNode("", TypeScene)}
}

// Root returns the scene root.
func (s *Scene) Root() *Node { return s.root }

// Attach adds n as a top-level object.
func (s *Scene) Attach(n *Node) { s.root.Add(n) }

// Detach removes a top-level object. It reports false if n was not attached.
func (s *Scene) Detach(n *Node) bool { return s.root.Remove(n) }

// Contains reports whether n is a top-level object of the scene.
func (s *Scene) Contains(n *Node) bool { return n != nil && n.parent == s.root }

// Objects returns the top-level objects.
func (s *Scene) Objects() []*Node { return s.root.children }
