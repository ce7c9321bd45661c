// Package primitives builds procedural models (cube, sphere, cylinder,
// plane, terrain) as scene graphs, so the viewer has content without any
// model file.
package primitives

import (
	"errors"
	"fmt"
	"math"

	"cogentcore.org/core/math32"

	"model-viewer/internal/scenegraph"
)

const (
	sphereRings     = 16
	sphereSlices    = 16
	cylinderSlices  = 16
	defaultTerrainN = 32
)

// ErrUnknownPrimitive reports a definition with an unsupported type.
var ErrUnknownPrimitive = errors.New("unknown primitive")

// Build returns a model for d: a group named after the definition holding a
// single mesh. Every shape rests on Y=0 and is centered on X/Z.
func Build(d PrimitiveDef) (*scenegraph.Node, error) {
	s := d.size()
	var g *scenegraph.Geometry
	switch d.Type {
	case Cube:
		g = box(s)
	case Sphere:
		g = sphere(s)
	case Cylinder:
		g = cylinder(s)
	case Plane:
		g = plane(s)
	case Terrain:
		opts := DefaultTerrainOptions()
		opts.Seed = d.Seed
		if d.Resolution > 0 {
			opts.Width, opts.Depth = d.Resolution, d.Resolution
		}
		for i, v := range d.Size {
			if v > 0 {
				opts.Size[i] = v
			}
		}
		g = heightfield(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrimitive, d.Type)
	}
	name := d.Name
	if name == "" {
		name = d.Type
	}
	mat := scenegraph.NewMaterial(scenegraph.MaterialStandard)
	mat.Name = name
	mat.Color = d.color()
	root := scenegraph.NewNode(name, scenegraph.TypeGroup)
	root.Add(scenegraph.NewMesh(d.Type, g, mat))
	return root, nil
}

func box(s [3]float32) *scenegraph.Geometry {
	hx, hz := s[0]/2, s[2]/2
	y := s[1]
	p := []math32.Vector3{
		{X: -hx, Y: 0, Z: -hz}, {X: hx, Y: 0, Z: -hz}, {X: hx, Y: 0, Z: hz}, {X: -hx, Y: 0, Z: hz},
		{X: -hx, Y: y, Z: -hz}, {X: hx, Y: y, Z: -hz}, {X: hx, Y: y, Z: hz}, {X: -hx, Y: y, Z: hz},
	}
	idx := []uint32{
		0, 2, 1, 0, 3, 2, // bottom
		4, 5, 6, 4, 6, 7, // top
		0, 1, 5, 0, 5, 4, // back
		3, 7, 6, 3, 6, 2, // front
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	return &scenegraph.Geometry{Positions: p, Indices: idx}
}

func sphere(s [3]float32) *scenegraph.Geometry {
	g := &scenegraph.Geometry{}
	for r := 0; r <= sphereRings; r++ {
		phi := float32(r) / sphereRings * math.Pi
		for sl := 0; sl <= sphereSlices; sl++ {
			theta := float32(sl) / sphereSlices * 2 * math.Pi
			g.Positions = append(g.Positions, math32.Vector3{
				X: 0.5 * s[0] * math32.Sin(phi) * math32.Cos(theta),
				Y: 0.5 * s[1] * (1 + math32.Cos(phi)),
				Z: 0.5 * s[2] * math32.Sin(phi) * math32.Sin(theta),
			})
		}
	}
	g.Indices = gridIndices(sphereRings, sphereSlices)
	return g
}

func cylinder(s [3]float32) *scenegraph.Geometry {
	g := &scenegraph.Geometry{}
	for ring := 0; ring <= 1; ring++ {
		y := float32(1-ring) * s[1]
		for sl := 0; sl <= cylinderSlices; sl++ {
			theta := float32(sl) / cylinderSlices * 2 * math.Pi
			g.Positions = append(g.Positions, math32.Vector3{
				X: 0.5 * s[0] * math32.Cos(theta),
				Y: y,
				Z: 0.5 * s[2] * math32.Sin(theta),
			})
		}
	}
	g.Indices = gridIndices(1, cylinderSlices)
	// Caps: fans around a center vertex at each end.
	for ring := 0; ring <= 1; ring++ {
		center := uint32(len(g.Positions))
		g.Positions = append(g.Positions, math32.Vector3{Y: float32(1-ring) * s[1]})
		base := uint32(ring * (cylinderSlices + 1))
		for sl := uint32(0); sl < cylinderSlices; sl++ {
			g.Indices = append(g.Indices, center, base+sl, base+sl+1)
		}
	}
	return g
}

func plane(s [3]float32) *scenegraph.Geometry {
	hx, hz := s[0]/2, s[2]/2
	return &scenegraph.Geometry{
		Positions: []math32.Vector3{{X: -hx, Z: -hz}, {X: hx, Z: -hz}, {X: hx, Z: hz}, {X: -hx, Z: hz}},
		Indices:   []uint32{0, 2, 1, 0, 3, 2},
	}
}

// gridIndices triangulates a (rows+1)×(cols+1) vertex lattice stored row by row.
func gridIndices(rows, cols int) []uint32 {
	idx := make([]uint32, 0, rows*cols*6)
	stride := uint32(cols + 1)
	for r := uint32(0); r < uint32(rows); r++ {
		for c := uint32(0); c < uint32(cols); c++ {
			a := r*stride + c
			b := a + stride
			idx = append(idx, a, b, a+1, a+1, b, b+1)
		}
	}
	return idx
}
