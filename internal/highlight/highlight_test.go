package highlight

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-viewer/internal/bus"
	"model-viewer/internal/registry"
	"model-viewer/internal/scenegraph"
)

func dozer() *scenegraph.Node {
	root := scenegraph.NewNode("Dozer", scenegraph.TypeGroup)
	body := scenegraph.NewMesh("Body", &scenegraph.Geometry{},
		scenegraph.NewMaterial(scenegraph.MaterialStandard),
		scenegraph.NewMaterial(scenegraph.MaterialBasic))
	body.Materials[0].Color = scenegraph.ColorHex(0xffcc00)
	*body.Materials[0].Emissive = scenegraph.ColorHex(0x010203)
	body.Materials[1].Color = scenegraph.ColorHex(0x222222)
	arm := scenegraph.NewNode("Arm", scenegraph.TypeGroup)
	bucket := scenegraph.NewMesh("Bucket", &scenegraph.Geometry{}, scenegraph.NewMaterial(scenegraph.MaterialLambert))
	bucket.Materials[0].Color = scenegraph.ColorHex(0x808080)
	root.Add(body)
	root.Add(scenegraph.NewNode("  ", ""))
	root.Add(arm)
	arm.Add(bucket)
	return root
}

func TestDiscoverPreOrder(t *testing.T) {
	got := Discover(dozer())
	want := []NodeDescriptor{
		{Name: "Dozer", Type: "Group", Depth: 0, Children: 3},
		{Name: "Body", Type: "Mesh", Depth: 1, HasGeometry: true, HasMaterial: true},
		{Name: "Arm", Type: "Group", Depth: 1, Children: 1},
		{Name: "Bucket", Type: "Mesh", Depth: 2, HasGeometry: true, HasMaterial: true},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(NodeDescriptor{}, "Node")); diff != "" {
		t.Fatalf("Discover() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "    Bucket (Mesh) [geo, mat]", got[3].String())
	assert.Equal(t, "Dozer (Group) [3 children]", got[0].String())
	assert.Nil(t, Discover(nil))
}

func TestHighlightRoundTrip(t *testing.T) {
	root := dozer()
	nodes := Discover(root)
	body, bucket := nodes[1].Node, nodes[3].Node

	before := func(n *scenegraph.Node) []Appearance {
		var out []Appearance
		for _, m := range n.Materials {
			out = append(out, capture(m))
		}
		return out
	}
	bodyBefore, bucketBefore := before(body), before(bucket)

	h := New()
	h.Highlight(body)
	assert.Equal(t, uint32(DefaultColor), body.Materials[0].Color.Hex())
	assert.Equal(t, uint32(DefaultEmissive), body.Materials[0].Emissive.Hex())
	assert.Equal(t, uint32(DefaultColor), body.Materials[1].Color.Hex())
	assert.Nil(t, body.Materials[1].Emissive)

	h.Highlight(bucket)
	assert.Same(t, bucket, h.Current())
	assert.Equal(t, bodyBefore, before(body))
	assert.Equal(t, uint32(DefaultColor), bucket.Materials[0].Color.Hex())

	h.Restore()
	assert.Nil(t, h.Current())
	assert.Equal(t, bodyBefore, before(body))
	assert.Equal(t, bucketBefore, before(bucket))
	h.Restore()
}

func TestHighlightSharedSurfaceRestores(t *testing.T) {
	m := scenegraph.NewMaterial(scenegraph.MaterialStandard)
	m.Color = scenegraph.ColorHex(0x123456)
	*m.Emissive = scenegraph.ColorHex(0x000011)
	n := scenegraph.NewMesh("Track", &scenegraph.Geometry{}, m, m)

	h := New()
	h.Highlight(n)
	assert.Equal(t, uint32(DefaultColor), m.Color.Hex())

	h.Restore()
	assert.Equal(t, uint32(0x123456), m.Color.Hex())
	assert.Equal(t, uint32(0x000011), m.Emissive.Hex())
}

func TestHighlightWithoutSurfaces(t *testing.T) {
	root := dozer()
	h := New(WithColors(0x00ff00, 0x001100))
	arm := Discover(root)[2].Node

	h.Highlight(arm)
	assert.Same(t, arm, h.Current())
	h.Restore()
	assert.Nil(t, h.Current())
}

func TestCustomColors(t *testing.T) {
	root := dozer()
	bucket := Discover(root)[3].Node
	h := New(WithColors(0x00ff00, 0x001100))
	h.Highlight(bucket)
	assert.Equal(t, uint32(0x00ff00), bucket.Materials[0].Color.Hex())
	assert.Equal(t, uint32(0x001100), bucket.Materials[0].Emissive.Hex())
}

func TestAttachFollowsRegistry(t *testing.T) {
	b := bus.New()
	reg := registry.New(scenegraph.NewScene(), registry.WithBus(b))
	h := New()
	h.Attach(b, reg)

	first := reg.Ingest(dozer(), "Dozer", "", false)
	require.Len(t, h.Nodes(), 4)
	assert.Equal(t, "Dozer", h.Nodes()[0].Name)

	d, err := h.HighlightByIndex(3)
	require.NoError(t, err)
	assert.Equal(t, "Bucket", d.Name)
	bucket := first.Root.Children()[2].Children()[0]
	assert.Same(t, bucket, h.Current())

	_, err = h.HighlightByIndex(9)
	assert.ErrorIs(t, err, registry.ErrInvalidIndex)

	tree := scenegraph.NewNode("Tree", scenegraph.TypeGroup)
	reg.Ingest(tree, "Tree", "", true)
	require.Len(t, h.Nodes(), 1)
	assert.Same(t, bucket, h.Current())

	reg.Select(0)
	require.True(t, reg.Remove(0))
	assert.Nil(t, h.Current())
	assert.Equal(t, "Tree", h.Nodes()[0].Name)
}
