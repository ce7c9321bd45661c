package primitives

import (
	"math"
	"time"

	"cogentcore.org/core/math32"

	"model-viewer/internal/scenegraph"
)

// TerrainOptions controls procedural height field generation.
// Width/Depth are lattice cells; Size is the world extent (X, max height, Z).
// Seed controls randomness; Seed == 0 uses a time-based seed.
// Octaves, Frequency, Lacunarity, and Gain control the fractal noise shape.
type TerrainOptions struct {
	Width int
	Depth int
	Size  [3]float32

	Seed       int64
	Octaves    int
	Frequency  float32
	Lacunarity float32
	Gain       float32
}

// DefaultTerrainOptions returns a 32×32 field over a 10×10 area, up to 3 units high.
func DefaultTerrainOptions() TerrainOptions {
	return TerrainOptions{
		Width:      defaultTerrainN,
		Depth:      defaultTerrainN,
		Size:       [3]float32{10, 3, 10},
		Octaves:    4,
		Frequency:  0.08,
		Lacunarity: 2.0,
		Gain:       0.5,
	}
}

// heightfield builds a deformed grid centered on X/Z whose heights come from fractal
// value noise in [0, Size[1]].
func heightfield(opts TerrainOptions) *scenegraph.Geometry {
	d := DefaultTerrainOptions()
	if opts.Width < 1 {
		opts.Width = d.Width
	}
	if opts.Depth < 1 {
		opts.Depth = d.Depth
	}
	if opts.Octaves <= 0 {
		opts.Octaves = d.Octaves
	}
	if opts.Frequency <= 0 {
		opts.Frequency = d.Frequency
	}
	if opts.Lacunarity <= 0 {
		opts.Lacunarity = d.Lacunarity
	}
	if opts.Gain <= 0 {
		opts.Gain = d.Gain
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &scenegraph.Geometry{Positions: make([]math32.Vector3, 0, (opts.Width+1)*(opts.Depth+1))}
	stepX := opts.Size[0] / float32(opts.Width)
	stepZ := opts.Size[2] / float32(opts.Depth)
	for z := 0; z <= opts.Depth; z++ {
		for x := 0; x <= opts.Width; x++ {
			h := fractalValueNoise2D(float32(x)*opts.Frequency, float32(z)*opts.Frequency, seed, opts.Octaves, opts.Lacunarity, opts.Gain)
			if !isFinite(h) {
				h = 0
			}
			h = max(0, min(1, h))
			g.Positions = append(g.Positions, math32.Vector3{
				X: -opts.Size[0]/2 + float32(x)*stepX,
				Y: h * opts.Size[1],
				Z: -opts.Size[2]/2 + float32(z)*stepZ,
			})
		}
	}
	g.Indices = gridIndices(opts.Depth, opts.Width)
	return g
}

// fractalValueNoise2D is simple fractal value noise: layered smooth value noise with
// configurable octaves, lacunarity, and gain. Output is in [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum, maxAmp float32
	amplitude := float32(1)
	freq := float32(1)
	for i := 0; i < octaves; i++ {
		sum += valueNoise2D(x*freq, y*freq, int32(seed)+int32(i)) * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth value noise in [0,1] over a hashed lattice.
func valueNoise2D(x, y float32, seed int32) float32 {
	x0 := int32(math.Floor(float64(x)))
	y0 := int32(math.Floor(float64(y)))
	tx := x - float32(x0)
	ty := y - float32(y0)

	v00 := hash2D(x0, y0, seed)
	v10 := hash2D(x0+1, y0, seed)
	v01 := hash2D(x0, y0+1, seed)
	v11 := hash2D(x0+1, y0+1, seed)

	sx := smoothStep(tx)
	sy := smoothStep(ty)
	return lerp(lerp(v00, v10, sx), lerp(v01, v11, sx), sy)
}

// hash2D maps integer lattice coordinates to a deterministic pseudo-random float in [0,1].
func hash2D(x, y, seed int32) float32 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	const invMaxInt = 1.0 / 2147483647.0
	return float32(n&0x7fffffff) * float32(invMaxInt)
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

// smoothStep is cubic easing: 3t^2 - 2t^3.
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
