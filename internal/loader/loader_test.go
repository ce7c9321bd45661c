package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-viewer/internal/sanitize"
	"model-viewer/internal/scenegraph"
)

const dozerDoc = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"name": "Dozer", "nodes": [0], "extras": {"author": "ops"}}],
  "nodes": [
    {"name": "Chassis", "children": [1, 2], "translation": [1, 0.5, -2],
     "onBeforeRender": "function(){ steal() }",
     "extras": {"label": "<script>x()</script>Chassis", "tags": ["a", 1, {"deep": true}]}},
    {"name": "Body", "mesh": 0, "scale": [2, 2, 2], "rotation": [0, 0.7071068, 0, 0.7071068]},
    {"name": "Tracks", "mesh": 1, "innerHTML": "<img onerror=x>"}
  ],
  "meshes": [
    {"name": "body", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1, "material": 0, "onDispose": "x"}]},
    {"name": "tracks", "primitives": [
      {"attributes": {"POSITION": 0}, "material": 1},
      {"attributes": {"POSITION": 0}, "material": 1}
    ]}
  ],
  "materials": [
    {"name": "paint", "pbrMetallicRoughness": {"baseColorFactor": [1, 0.8, 0, 0.5], "baseColorTexture": {"index": 0}},
     "emissiveFactor": [0.1, 0, 0], "alphaMode": "BLEND", "onBeforeCompile": "hook"},
    {"name": "rubber", "extensions": {"KHR_materials_unlit": {}},
     "uniforms": {"time": {"value": 1.5}, "tint": {"value": [1, 0, 0]}, "skin": {"value": {"texture": 0}}, "evil": {"value": "eval(1)"}}}
  ],
  "textures": [{"source": 0}],
  "images": [{"uri": "paint.png", "name": "paint"}],
  "accessors": [
    {"type": "VEC3", "data": [0, 0, 0, 1, 0, 0, 0, 0, 1]},
    {"type": "SCALAR", "data": [0, 1, 2]}
  ]
}`

func TestParseDocument(t *testing.T) {
	root, err := Parse([]byte(dozerDoc))
	require.NoError(t, err)

	assert.Equal(t, "Dozer", root.Name)
	assert.Equal(t, scenegraph.TypeGroup, root.Type)
	assert.Equal(t, "ops", root.UserData["author"])
	require.Len(t, root.Children(), 1)

	chassis := root.Children()[0]
	assert.Equal(t, scenegraph.TypeGroup, chassis.Type)
	assert.Equal(t, math32.Vec3(1, 0.5, -2), chassis.Position)
	hook, ok := chassis.Attr("onBeforeRender")
	require.True(t, ok)
	assert.Equal(t, "function(){ steal() }", hook)
	assert.Equal(t, "<script>x()</script>Chassis", chassis.UserData["label"])

	body := chassis.Children()[0]
	assert.Equal(t, scenegraph.TypeMesh, body.Type)
	assert.Equal(t, math32.Vec3(2, 2, 2), body.Scale)
	assert.InDelta(t, 1.5707964, body.Rotation.Y, 1e-4)
	assert.InDelta(t, 0, body.Rotation.X, 1e-5)
	require.NotNil(t, body.Geometry)
	assert.Len(t, body.Geometry.Positions, 3)
	assert.Equal(t, []uint32{0, 1, 2}, body.Geometry.Indices)
	_, ok = body.Geometry.Attr("onDispose")
	assert.True(t, ok)

	paint := body.Materials[0]
	assert.Equal(t, scenegraph.MaterialStandard, paint.Kind)
	assert.InDelta(t, 0.8, paint.Color.G, 1e-6)
	assert.InDelta(t, 0.5, paint.Opacity, 1e-6)
	assert.True(t, paint.Transparent)
	require.NotNil(t, paint.Map)
	assert.Equal(t, "paint.png", paint.Map.URI)
	assert.Equal(t, "paint", paint.Map.Name)
	assert.InDelta(t, 0.1, paint.Emissive.R, 1e-6)

	tracks := chassis.Children()[1]
	assert.Equal(t, scenegraph.TypeGroup, tracks.Type)
	require.Len(t, tracks.Children(), 2)
	assert.Equal(t, "Tracks_1", tracks.Children()[1].Name)
	rubber := tracks.Children()[0].Materials[0]
	assert.Same(t, rubber, tracks.Children()[1].Materials[0])
	assert.Equal(t, scenegraph.MaterialShader, rubber.Kind)
	assert.Equal(t, 1.5, rubber.Uniforms["time"].Value)
	assert.Equal(t, math32.Vec3(1, 0, 0), rubber.Uniforms["tint"].Value)
	assert.IsType(t, &scenegraph.Texture{}, rubber.Uniforms["skin"].Value)
	assert.Equal(t, "eval(1)", rubber.Uniforms["evil"].Value)
}

func TestParsedDocumentSanitizes(t *testing.T) {
	root, err := Parse([]byte(dozerDoc))
	require.NoError(t, err)

	rep := sanitize.New(nil).Run(root)
	assert.Equal(t, 2, rep.Count(sanitize.ScopeNode))
	assert.Equal(t, 1, rep.Count(sanitize.ScopeMaterial))
	assert.Equal(t, 1, rep.Count(sanitize.ScopeGeometry))
	assert.Equal(t, 1, rep.Count(sanitize.ScopeUniform))

	chassis := root.Children()[0]
	assert.Equal(t, "Chassis", chassis.UserData["label"])
	assert.Equal(t, []any{"a", float64(1)}, chassis.UserData["tags"])
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name, doc string
	}{
		{"not json", `{"nodes": [`},
		{"not an object", `[1, 2]`},
		{"empty", `{}`},
		{"scene out of range", `{"scene": 3, "scenes": [{"nodes": []}]}`},
		{"node out of range", `{"scenes": [{"nodes": [4]}], "nodes": []}`},
		{"node cycle", `{"scenes": [{"nodes": [0]}], "nodes": [{"children": [1]}, {"children": [0]}]}`},
		{"mesh out of range", `{"scenes": [{"nodes": [0]}], "nodes": [{"mesh": 2}]}`},
		{"no positions", `{"scenes": [{"nodes": [0]}], "nodes": [{"mesh": 0}], "meshes": [{"primitives": [{"attributes": {}}]}]}`},
		{"ragged positions", `{"scenes": [{"nodes": [0]}], "nodes": [{"mesh": 0}], "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}], "accessors": [{"data": [1, 2]}]}`},
		{"bad index", `{"scenes": [{"nodes": [0]}], "nodes": [{"mesh": 0}], "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}], "accessors": [{"data": [0, 0, 0]}, {"data": [5]}]}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.ErrorIs(t, err, ErrLoadFailure)
		})
	}
}

func TestParseWithoutScenes(t *testing.T) {
	root, err := Parse([]byte(`{"nodes": [{"name": "a", "children": [1]}, {"name": "b"}, {"name": "c"}]}`))
	require.NoError(t, err)
	require.Len(t, root.Children(), 2)
	assert.Equal(t, "a", root.Children()[0].Name)
	assert.Equal(t, "c", root.Children()[1].Name)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "dozer.gltf")
	require.NoError(t, os.WriteFile(p, []byte(dozerDoc), 0o644))

	res, err := New().LoadFile(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "dozer.gltf", res.FileName)
	assert.Equal(t, "Dozer", res.Root.Name)

	_, err = New().LoadFile(context.Background(), filepath.Join(dir, "missing.gltf"))
	assert.ErrorIs(t, err, ErrLoadFailure)

	_, err = New(WithMaxBytes(10)).Load(context.Background(), p)
	assert.ErrorIs(t, err, ErrLoadFailure)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New().LoadFile(ctx, p)
	assert.ErrorIs(t, err, ErrLoadFailure)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models/tree.gltf":
			_, _ = w.Write([]byte(dozerDoc))
		case "/download":
			w.Header().Set("Content-Disposition", `attachment; filename="excavator.gltf"`)
			_, _ = w.Write([]byte(dozerDoc))
		case "/broken.gltf":
			_, _ = w.Write([]byte("<html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := New(WithHTTPClient(srv.Client()))
	ctx := context.Background()

	res, err := l.Load(ctx, srv.URL+"/models/tree.gltf?v=2")
	require.NoError(t, err)
	assert.Equal(t, "tree.gltf", res.FileName)
	assert.Equal(t, "tree", DisplayName(res.Source, res.FileName, 0))

	res, err = l.Fetch(ctx, srv.URL+"/download")
	require.NoError(t, err)
	assert.Equal(t, "excavator.gltf", res.FileName)

	_, err = l.Fetch(ctx, srv.URL+"/missing.gltf")
	assert.ErrorIs(t, err, ErrLoadFailure)
	assert.ErrorContains(t, err, "HTTP 404")

	_, err = l.Fetch(ctx, srv.URL+"/broken.gltf")
	assert.ErrorIs(t, err, ErrLoadFailure)
}

func TestDisplayName(t *testing.T) {
	for _, tc := range []struct {
		source, file string
		n            int
		want         string
	}{
		{"models/dozer.gltf", "", 0, "dozer"},
		{"anything", "Excavator.v2.glb", 3, "Excavator.v2"},
		{"dozer.gltf", "", 1, "Model 2"},
		{"https://host/a/tree.gltf?x=1", "", 0, "tree"},
		{"https://host/a/", "", 4, "Model 5"},
		{"", "noext", 0, "noext"},
	} {
		assert.Equal(t, tc.want, DisplayName(tc.source, tc.file, tc.n), "%q %q", tc.source, tc.file)
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("HTTPS://example.com/a.gltf"))
	assert.False(t, IsURL("models/a.gltf"))
}
