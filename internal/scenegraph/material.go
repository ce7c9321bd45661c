package scenegraph

// MaterialKind is the shading model of a surface.
type MaterialKind string

const (
	// MaterialBasic is unlit and cannot receive shadows.
	MaterialBasic    MaterialKind = "basic"
	MaterialLambert  MaterialKind = "lambert"
	MaterialStandard MaterialKind = "standard"
	// MaterialShader carries custom uniforms.
	MaterialShader MaterialKind = "shader"
)

// Color is linear RGB in 0..1.
type Color struct {
	R, G, B float32
}

// ColorHex returns the color for a 0xRRGGBB value.
func ColorHex(hex uint32) Color {
	return Color{
		R: float32((hex>>16)&0xff) / 255,
		G: float32((hex>>8)&0xff) / 255,
		B: float32(hex&0xff) / 255,
	}
}

// Hex returns the color as 0xRRGGBB, rounding each channel.
func (c Color) Hex() uint32 {
	ch := func(v float32) uint32 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 0xff
		}
		return uint32(v*255 + 0.5)
	}
	return ch(c.R)<<16 | ch(c.G)<<8 | ch(c.B)
}

// Texture is a handle to image data; the viewer never decodes it.
type Texture struct {
	Name string
	URI  string
}

// Uniform is one shader uniform binding.
type Uniform struct {
	Value any
}

// Material describes how a surface is shaded.
type Material struct {
	AttrBag
	Name        string
	Kind        MaterialKind
	Color       Color
	Emissive    *Color
	Map         *Texture
	Transparent bool
	Opacity     float32
	Uniforms    map[string]Uniform
}

// NewMaterial returns an opaque white material of the given kind.
func NewMaterial(kind MaterialKind) *Material {
	m := &Material{Kind: kind, Color: Color{1, 1, 1}, Opacity: 1}
	if kind != MaterialBasic {
		m.Emissive = &Color{}
	}
	return m
}

// ShadowCapable reports whether the shading model takes part in shadowing.
func (m *Material) ShadowCapable() bool {
	return m.Kind != MaterialBasic
}

// Lambert returns a shadow-capable copy of m keeping its name, color,
// texture and opacity.
func (m *Material) Lambert() *Material {
	out := NewMaterial(MaterialLambert)
	out.Name = m.Name
	out.Color = m.Color
	out.Map = m.Map
	out.Transparent = m.Transparent
	out.Opacity = m.Opacity
	return out
}

var _ Attributed = (*Material)(nil)
