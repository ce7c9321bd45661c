package scenegraph

import "cogentcore.org/core/math32"

// Geometry is an indexed triangle list in the owning node's local space.
// A nil Indices slice means Positions are consumed three at a time.
type Geometry struct {
	AttrBag
	Positions []math32.Vector3
	Indices   []uint32
}

// TriangleCount returns the number of complete triangles.
func (g *Geometry) TriangleCount() int {
	if g.Indices != nil {
		return len(g.Indices) / 3
	}
	return len(g.Positions) / 3
}

// Triangle returns the vertices of triangle i. Out of range indices yield ok=false.
func (g *Geometry) Triangle(i int) (a, b, c math32.Vector3, ok bool) {
	if i < 0 || i >= g.TriangleCount() {
		return a, b, c, false
	}
	if g.Indices == nil {
		return g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2], true
	}
	ia, ib, ic := int(g.Indices[i*3]), int(g.Indices[i*3+1]), int(g.Indices[i*3+2])
	n := len(g.Positions)
	if ia >= n || ib >= n || ic >= n {
		return a, b, c, false
	}
	return g.Positions[ia], g.Positions[ib], g.Positions[ic], true
}

// BoundingBox returns the local-space bounds of all positions.
func (g *Geometry) BoundingBox() math32.Box3 {
	box := math32.B3Empty()
	for _, p := range g.Positions {
		box.ExpandByPoint(p)
	}
	return box
}

var _ Attributed = (*Geometry)(nil)
