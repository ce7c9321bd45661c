package primitives

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"model-viewer/internal/scenegraph"
)

// Shapes that Build understands.
const (
	Cube     = "cube"
	Sphere   = "sphere"
	Cylinder = "cylinder"
	Plane    = "plane"
	Terrain  = "terrain"
)

// Kinds lists the built-in shapes.
var Kinds = []string{Cube, Sphere, Cylinder, Plane, Terrain}

// defaultColor is the albedo of primitives without a color.
const defaultColor = 0x808080

// PrimitiveDef is the YAML definition of a procedural model (e.g. assets/primitives/crate.yaml).
type PrimitiveDef struct {
	Type  string     `yaml:"type"`
	Name  string     `yaml:"name,omitempty"`
	Size  [3]float32 `yaml:"size,omitempty"`
	Color string     `yaml:"color,omitempty"`
	// Seed and Resolution only apply to terrain.
	Seed       int64 `yaml:"seed,omitempty"`
	Resolution int   `yaml:"resolution,omitempty"`
}

// ParseDef decodes a YAML primitive definition.
func ParseDef(data []byte) (PrimitiveDef, error) {
	var d PrimitiveDef
	if err := yaml.Unmarshal(data, &d); err != nil {
		return PrimitiveDef{}, fmt.Errorf("primitive definition: %w", err)
	}
	d.Type = strings.ToLower(strings.TrimSpace(d.Type))
	return d, nil
}

// size returns the definition's size with unset axes defaulted to 1.
func (d PrimitiveDef) size() [3]float32 {
	s := d.Size
	for i := range s {
		if s[i] <= 0 {
			s[i] = 1
		}
	}
	return s
}

// color parses "#rgb" or "#rrggbb", falling back to mid gray.
func (d PrimitiveDef) color() scenegraph.Color {
	h := strings.TrimPrefix(strings.TrimSpace(d.Color), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return scenegraph.ColorHex(defaultColor)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return scenegraph.ColorHex(defaultColor)
	}
	return scenegraph.ColorHex(uint32(v))
}
