// Package loader turns untrusted glTF-style JSON scene documents into
// scenegraph trees. Properties the viewer does not understand are kept in
// the attribute bags untouched, so the sanitizer sees the content as it was
// delivered.
package loader

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/tidwall/gjson"

	"model-viewer/internal/scenegraph"
)

// ErrLoadFailure wraps every fetch and parse failure.
var ErrLoadFailure = errors.New("load failure")

func failf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrLoadFailure}, args...)...)
}

var (
	sceneKeys     = keySet("name", "nodes", "extras")
	nodeKeys      = keySet("name", "mesh", "children", "translation", "rotation", "scale", "extras")
	meshKeys      = keySet("name", "primitives", "extras")
	primitiveKeys = keySet("attributes", "indices", "material", "mode", "extras")
	materialKeys  = keySet("name", "pbrMetallicRoughness", "emissiveFactor", "alphaMode", "uniforms", "extensions", "extras")
)

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

type parser struct {
	doc       gjson.Result
	nodes     []gjson.Result
	meshes    []gjson.Result
	materials []gjson.Result
	accessors []gjson.Result

	built  map[int]bool
	shared map[int]*scenegraph.Material
}

// Parse builds the default scene of a document. The returned root is a
// Group named after the scene.
func Parse(data []byte) (*scenegraph.Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, failf("document is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, failf("document is not a JSON object")
	}
	p := &parser{
		doc:       doc,
		nodes:     doc.Get("nodes").Array(),
		meshes:    doc.Get("meshes").Array(),
		materials: doc.Get("materials").Array(),
		accessors: doc.Get("accessors").Array(),
		built:     make(map[int]bool),
		shared:    make(map[int]*scenegraph.Material),
	}
	return p.scene()
}

func (p *parser) scene() (*scenegraph.Node, error) {
	scenes := p.doc.Get("scenes").Array()
	if len(scenes) == 0 {
		if len(p.nodes) == 0 {
			return nil, failf("document has no scenes and no nodes")
		}
		return p.orphanScene()
	}
	idx := int(p.doc.Get("scene").Int())
	if idx < 0 || idx >= len(scenes) {
		return nil, failf("scene %d out of range", idx)
	}
	s := scenes[idx]
	name := s.Get("name").String()
	if name == "" {
		name = "Scene"
	}
	root := scenegraph.NewNode(name, scenegraph.TypeGroup)
	copyUnknown(root, s, sceneKeys)
	root.UserData = extras(s)
	for _, ref := range s.Get("nodes").Array() {
		child, err := p.node(int(ref.Int()))
		if err != nil {
			return nil, err
		}
		root.Add(child)
	}
	return root, nil
}

// orphanScene roots every node that is nobody's child.
func (p *parser) orphanScene() (*scenegraph.Node, error) {
	isChild := make(map[int]bool)
	for _, n := range p.nodes {
		for _, c := range n.Get("children").Array() {
			isChild[int(c.Int())] = true
		}
	}
	root := scenegraph.NewNode("Scene", scenegraph.TypeGroup)
	for i := range p.nodes {
		if isChild[i] {
			continue
		}
		child, err := p.node(i)
		if err != nil {
			return nil, err
		}
		root.Add(child)
	}
	return root, nil
}

func (p *parser) node(i int) (*scenegraph.Node, error) {
	if i < 0 || i >= len(p.nodes) {
		return nil, failf("node %d out of range", i)
	}
	if p.built[i] {
		return nil, failf("node %d is referenced more than once", i)
	}
	p.built[i] = true
	src := p.nodes[i]

	n := scenegraph.NewNode(src.Get("name").String(), scenegraph.TypeObject3D)
	if v, ok := vec3(src.Get("translation")); ok {
		n.Position = v
	}
	if v, ok := vec3(src.Get("scale")); ok {
		n.Scale = v
	}
	if q := floats(src.Get("rotation")); len(q) == 4 {
		quat := math32.NewQuat(q[0], q[1], q[2], q[3])
		n.Rotation = quat.ToEuler()
	}
	copyUnknown(n, src, nodeKeys)
	n.UserData = extras(src)

	if m := src.Get("mesh"); m.Exists() {
		if err := p.mesh(n, int(m.Int())); err != nil {
			return nil, err
		}
	}
	if n.Type == scenegraph.TypeObject3D && len(src.Get("children").Array()) > 0 {
		n.Type = scenegraph.TypeGroup
	}
	for _, ref := range src.Get("children").Array() {
		child, err := p.node(int(ref.Int()))
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// mesh attaches mesh i to n. A single primitive turns n itself into a mesh;
// several primitives become child meshes.
func (p *parser) mesh(n *scenegraph.Node, i int) error {
	if i < 0 || i >= len(p.meshes) {
		return failf("mesh %d out of range", i)
	}
	src := p.meshes[i]
	copyUnknown(n, src, meshKeys)
	prims := src.Get("primitives").Array()
	if len(prims) == 0 {
		return failf("mesh %d has no primitives", i)
	}
	if len(prims) == 1 {
		g, mat, err := p.primitive(prims[0])
		if err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
		n.Type = scenegraph.TypeMesh
		n.Geometry = g
		n.Materials = []*scenegraph.Material{mat}
		return nil
	}
	n.Type = scenegraph.TypeGroup
	for j, prim := range prims {
		g, mat, err := p.primitive(prim)
		if err != nil {
			return fmt.Errorf("mesh %d primitive %d: %w", i, j, err)
		}
		n.Add(scenegraph.NewMesh(fmt.Sprintf("%s_%d", n.Name, j), g, mat))
	}
	return nil
}

func (p *parser) primitive(src gjson.Result) (*scenegraph.Geometry, *scenegraph.Material, error) {
	pos := src.Get("attributes.POSITION")
	if !pos.Exists() {
		return nil, nil, failf("primitive has no POSITION attribute")
	}
	data, err := p.accessor(int(pos.Int()))
	if err != nil {
		return nil, nil, err
	}
	if len(data)%3 != 0 {
		return nil, nil, failf("POSITION accessor length %d is not a multiple of 3", len(data))
	}
	g := &scenegraph.Geometry{Positions: make([]math32.Vector3, 0, len(data)/3)}
	for k := 0; k < len(data); k += 3 {
		g.Positions = append(g.Positions, math32.Vec3(data[k], data[k+1], data[k+2]))
	}
	if idx := src.Get("indices"); idx.Exists() {
		raw, err := p.accessor(int(idx.Int()))
		if err != nil {
			return nil, nil, err
		}
		g.Indices = make([]uint32, 0, len(raw))
		for _, v := range raw {
			if v < 0 || int(v) >= len(g.Positions) {
				return nil, nil, failf("index %g out of range", v)
			}
			g.Indices = append(g.Indices, uint32(v))
		}
	}
	copyUnknown(g, src, primitiveKeys)

	var mat *scenegraph.Material
	if m := src.Get("material"); m.Exists() {
		if mat, err = p.material(int(m.Int())); err != nil {
			return nil, nil, err
		}
	} else {
		mat = scenegraph.NewMaterial(scenegraph.MaterialStandard)
	}
	return g, mat, nil
}

func (p *parser) accessor(i int) ([]float32, error) {
	if i < 0 || i >= len(p.accessors) {
		return nil, failf("accessor %d out of range", i)
	}
	data := p.accessors[i].Get("data")
	if !data.IsArray() {
		return nil, failf("accessor %d has no inline data", i)
	}
	out := make([]float32, 0, len(data.Array()))
	for _, v := range data.Array() {
		if v.Type != gjson.Number {
			return nil, failf("accessor %d holds a non-numeric value", i)
		}
		out = append(out, float32(v.Float()))
	}
	return out, nil
}

// material returns material i, shared between every primitive using it.
func (p *parser) material(i int) (*scenegraph.Material, error) {
	if m, ok := p.shared[i]; ok {
		return m, nil
	}
	if i < 0 || i >= len(p.materials) {
		return nil, failf("material %d out of range", i)
	}
	src := p.materials[i]
	kind := scenegraph.MaterialStandard
	uniforms := src.Get("uniforms")
	switch {
	case uniforms.IsObject():
		kind = scenegraph.MaterialShader
	case src.Get("extensions.KHR_materials_unlit").Exists():
		kind = scenegraph.MaterialBasic
	}
	m := scenegraph.NewMaterial(kind)
	m.Name = src.Get("name").String()

	pbr := src.Get("pbrMetallicRoughness")
	if c := floats(pbr.Get("baseColorFactor")); len(c) >= 3 {
		m.Color = scenegraph.Color{R: c[0], G: c[1], B: c[2]}
		if len(c) == 4 {
			m.Opacity = c[3]
		}
	}
	if t := pbr.Get("baseColorTexture.index"); t.Exists() {
		m.Map = p.texture(int(t.Int()))
	}
	if e := floats(src.Get("emissiveFactor")); len(e) == 3 && m.Emissive != nil {
		*m.Emissive = scenegraph.Color{R: e[0], G: e[1], B: e[2]}
	}
	m.Transparent = src.Get("alphaMode").String() == "BLEND"
	if uniforms.IsObject() {
		m.Uniforms = make(map[string]scenegraph.Uniform)
		uniforms.ForEach(func(key, value gjson.Result) bool {
			if w := value.Get("value"); value.IsObject() && w.Exists() {
				value = w
			}
			m.Uniforms[key.String()] = scenegraph.Uniform{Value: p.uniformValue(value)}
			return true
		})
	}
	copyUnknown(m, src, materialKeys)
	if ex := src.Get("extras"); ex.Exists() {
		m.SetAttr("extras", ex.Value())
	}
	p.shared[i] = m
	return m, nil
}

// uniformValue maps JSON shapes to the uniform value types the renderer
// understands. Anything else is kept raw for the sanitizer to judge.
func (p *parser) uniformValue(v gjson.Result) any {
	switch {
	case v.Type == gjson.Number:
		return v.Float()
	case v.IsArray():
		f := floats(v)
		if len(f) != len(v.Array()) {
			return v.Value()
		}
		switch len(f) {
		case 2:
			return math32.Vec2(f[0], f[1])
		case 3:
			return math32.Vec3(f[0], f[1], f[2])
		case 4:
			return math32.Vec4(f[0], f[1], f[2], f[3])
		case 9:
			return math32.Matrix3(f)
		case 16:
			return math32.Matrix4(f)
		}
		return v.Value()
	case v.IsObject() && v.Get("texture").Type == gjson.Number:
		return p.texture(int(v.Get("texture").Int()))
	}
	return v.Value()
}

func (p *parser) texture(i int) *scenegraph.Texture {
	tex := p.doc.Get("textures").Array()
	if i < 0 || i >= len(tex) {
		return nil
	}
	t := &scenegraph.Texture{Name: tex[i].Get("name").String()}
	images := p.doc.Get("images").Array()
	if src := int(tex[i].Get("source").Int()); src >= 0 && src < len(images) {
		t.URI = images[src].Get("uri").String()
		if t.Name == "" {
			t.Name = images[src].Get("name").String()
		}
	}
	return t
}

func copyUnknown(dst scenegraph.Attributed, src gjson.Result, known map[string]bool) {
	src.ForEach(func(key, value gjson.Result) bool {
		if !known[key.String()] {
			dst.SetAttr(key.String(), value.Value())
		}
		return true
	})
}

func extras(src gjson.Result) map[string]any {
	ex := src.Get("extras")
	if !ex.IsObject() {
		return nil
	}
	m, _ := ex.Value().(map[string]any)
	return m
}

func floats(v gjson.Result) []float32 {
	if !v.IsArray() {
		return nil
	}
	var out []float32
	for _, e := range v.Array() {
		if e.Type != gjson.Number {
			return nil
		}
		out = append(out, float32(e.Float()))
	}
	return out
}

func vec3(v gjson.Result) (math32.Vector3, bool) {
	f := floats(v)
	if len(f) != 3 {
		return math32.Vector3{}, false
	}
	return math32.Vec3(f[0], f[1], f[2]), true
}
