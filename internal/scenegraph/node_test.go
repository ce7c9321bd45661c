package scenegraph

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tree() (root, arm, bucket *Node) {
	root = NewNode("dozer", TypeGroup)
	arm = NewNode("arm", TypeGroup)
	bucket = NewMesh("bucket", &Geometry{Positions: []math32.Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}, NewMaterial(MaterialStandard))
	root.Add(arm)
	arm.Add(bucket)
	return root, arm, bucket
}

func TestWalkPreOrder(t *testing.T) {
	root, _, _ := tree()
	root.Add(NewNode("cab", ""))
	var names []string
	var depths []int
	root.Walk(func(n *Node, depth int) bool {
		names = append(names, n.Name)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []string{"dozer", "arm", "bucket", "cab"}, names)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

func TestAddReparents(t *testing.T) {
	root, arm, bucket := tree()
	root.Add(bucket)
	assert.Empty(t, arm.Children())
	assert.Same(t, root, bucket.Parent())
	assert.True(t, bucket.IsDescendantOf(root))
	assert.False(t, arm.IsDescendantOf(bucket))
}

func TestWorldMatrixAndVisibility(t *testing.T) {
	root, arm, bucket := tree()
	root.Position = math32.Vec3(10, 0, 0)
	arm.Position = math32.Vec3(0, 2, 0)
	assert.Equal(t, math32.Vec3(10, 2, 0), bucket.WorldPosition())

	require.True(t, bucket.VisibleInWorld())
	root.Visible = false
	assert.False(t, bucket.VisibleInWorld())
}

func TestAttrBag(t *testing.T) {
	n := NewNode("x", "")
	n.SetAttr("onBeforeRender", "fn")
	n.SetAttr("a", 1)
	assert.Equal(t, []string{"a", "onBeforeRender"}, n.AttrNames())
	assert.True(t, n.DeleteAttr("onBeforeRender"))
	assert.False(t, n.DeleteAttr("onBeforeRender"))
	_, ok := n.Attr("onBeforeRender")
	assert.False(t, ok)
}

func TestSceneAttachDetach(t *testing.T) {
	s := NewScene()
	root, _, bucket := tree()
	s.Attach(root)
	assert.True(t, s.Contains(root))
	assert.False(t, s.Contains(bucket))
	assert.Len(t, root.Meshes(nil), 1)
	assert.True(t, s.Detach(root))
	assert.False(t, s.Detach(root))
	assert.Nil(t, root.Parent())
}

func TestMaterialLambertKeepsAppearance(t *testing.T) {
	m := NewMaterial(MaterialBasic)
	m.Color = ColorHex(0x336699)
	m.Map = &Texture{Name: "albedo"}
	m.Transparent = true
	m.Opacity = 0.5
	require.False(t, m.ShadowCapable())

	l := m.Lambert()
	assert.True(t, l.ShadowCapable())
	assert.Equal(t, m.Color, l.Color)
	assert.Same(t, m.Map, l.Map)
	assert.True(t, l.Transparent)
	assert.Equal(t, float32(0.5), l.Opacity)
	assert.Equal(t, uint32(0x336699), l.Color.Hex())
}

func TestGeometryIndexedTriangles(t *testing.T) {
	g := &Geometry{
		Positions: []math32.Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		Indices:   []uint32{0, 1, 2, 2, 1, 9},
	}
	require.Equal(t, 2, g.TriangleCount())
	_, _, c, ok := g.Triangle(0)
	require.True(t, ok)
	assert.Equal(t, math32.Vec3(0, 1, 0), c)
	_, _, _, ok = g.Triangle(1)
	assert.False(t, ok, "index beyond positions")
	box := g.BoundingBox()
	assert.Equal(t, math32.Vec3(1, 1, 0), box.Max)
}
