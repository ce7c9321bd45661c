package pointer

import (
	"cogentcore.org/core/math32"

	"model-viewer/internal/geom"
	"model-viewer/internal/registry"
	"model-viewer/internal/scenegraph"
)

// Hit is the nearest surface intersection of a ray.
type Hit struct {
	Distance float32
	Point    math32.Vector3
	Node     *scenegraph.Node
	Index    int
	Entry    *registry.ModelEntry
}

// HitTest intersects ray with the meshes of every visible entry and returns
// the nearest hit resolved to its owning entry.
func HitTest(reg *registry.Registry, ray math32.Ray) (Hit, bool) {
	var best Hit
	found := false
	for _, entry := range reg.Entries() {
		if !entry.Visible {
			continue
		}
		entry.Root.Walk(func(n *scenegraph.Node, _ int) bool {
			if !n.Visible {
				return false
			}
			if !n.IsMesh() {
				return true
			}
			if p, ok := intersectMesh(&ray, n); ok {
				if d := p.DistanceTo(ray.Origin); !found || d < best.Distance {
					best = Hit{Distance: d, Point: p, Node: n}
					found = true
				}
			}
			return true
		})
	}
	if !found {
		return Hit{}, false
	}
	best.Index, best.Entry = reg.OwnerOf(best.Node)
	if best.Entry == nil {
		return Hit{}, false
	}
	return best, true
}

// intersectMesh returns the nearest world-space point where ray meets one of
// n's triangles, from either side.
func intersectMesh(ray *math32.Ray, n *scenegraph.Node) (math32.Vector3, bool) {
	world := n.WorldMatrix()
	if _, ok := ray.IntersectBox(geom.WorldBox(n.Geometry.BoundingBox(), &world)); !ok {
		return math32.Vector3{}, false
	}
	var best math32.Vector3
	bestDist := float32(0)
	found := false
	for i := range n.Geometry.TriangleCount() {
		a, b, c, ok := n.Geometry.Triangle(i)
		if !ok {
			continue
		}
		p, ok := ray.IntersectTriangle(
			a.MulMatrix4AsVector4(&world, 1),
			b.MulMatrix4AsVector4(&world, 1),
			c.MulMatrix4AsVector4(&world, 1),
			false,
		)
		if !ok {
			continue
		}
		if d := p.DistanceTo(ray.Origin); !found || d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, found
}
