// Package viewport draws registry entries with raylib and keeps the raylib camera in step
// with the geometric camera used for picking.
package viewport

import (
	"log/slog"

	"cogentcore.org/core/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"model-viewer/internal/bus"
	"model-viewer/internal/geom"
	"model-viewer/internal/registry"
	"model-viewer/internal/scenegraph"
)

const (
	lightSphereRadius = 0.2
	zoomStep          = 0.5
	minZoomDistance   = 0.5
	ambient           = 0.35
)

var (
	// DefaultLightPosition is the directional light's position.
	DefaultLightPosition = math32.Vec3(5, 10, 5)
	lightSphereColor     = rl.NewColor(0xff, 0xff, 0x00, 0xff)
)

// Viewport renders the loaded models over an optional skybox and ground grid.
// It implements pointer.RayProvider and pointer.OrbitLock.
type Viewport struct {
	Camera      *geom.PerspectiveCamera
	GridVisible bool

	cam    rl.Camera3D
	models *registry.Registry
	log    *slog.Logger
	sky    *skybox

	orbit       bool
	light       math32.Vector3
	lightSphere bool
}

// New returns a viewport drawing models from reg, looking through the default camera.
func New(reg *registry.Registry, log *slog.Logger) *Viewport {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	v := &Viewport{
		Camera:      geom.NewPerspectiveCamera(1),
		GridVisible: true,
		models:      reg,
		log:         log,
		sky:         findSkybox(),
		orbit:       true,
		light:       DefaultLightPosition,
	}
	v.cam.Projection = rl.CameraPerspective
	v.syncToRaylib()
	return v
}

// Attach subscribes the light sphere toggle to b.
func (v *Viewport) Attach(b *bus.Bus) bus.Subscription {
	return bus.Subscribe(b, func(bus.LightToggleRequested) { v.ToggleLightSphere() })
}

// RayAt returns the picking ray through ndc.
func (v *Viewport) RayAt(ndc math32.Vector2) math32.Ray { return v.Camera.RayAt(ndc) }

// SetOrbitEnabled allows or suspends camera control by mouse.
func (v *Viewport) SetOrbitEnabled(enabled bool) { v.orbit = enabled }

// SetGridVisible sets whether the ground grid is drawn.
func (v *Viewport) SetGridVisible(visible bool) { v.GridVisible = visible }

// SetLightPosition moves the light.
func (v *Viewport) SetLightPosition(x, y, z float32) { v.light = math32.Vec3(x, y, z) }

// ResetLight moves the light back to DefaultLightPosition.
func (v *Viewport) ResetLight() { v.light = DefaultLightPosition }

// ToggleLightSphere shows or hides the marker at the light position and returns the new state.
func (v *Viewport) ToggleLightSphere() bool {
	v.lightSphere = !v.lightSphere
	v.log.Info("light sphere toggled", "visible", v.lightSphere)
	return v.lightSphere
}

// Update resizes the camera to the window and applies camera input: free-fly while the right
// mouse button is held, zoom with the wheel. Both are suspended while orbit is disabled.
func (v *Viewport) Update() {
	if h := rl.GetScreenHeight(); h > 0 {
		v.Camera.Aspect = float32(rl.GetScreenWidth()) / float32(h)
	}
	if !v.orbit {
		return
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		v.syncToRaylib()
		rl.UpdateCamera(&v.cam, rl.CameraFree)
		v.syncFromRaylib()
		return
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c := v.Camera
		offset := c.Position.Sub(c.Target)
		dist := max(minZoomDistance, offset.Length()-wheel*zoomStep)
		c.Position = c.Target.Add(offset.Normal().MulScalar(dist))
	}
}

func (v *Viewport) syncToRaylib() {
	c := v.Camera
	v.cam.Position = rl.NewVector3(c.Position.X, c.Position.Y, c.Position.Z)
	v.cam.Target = rl.NewVector3(c.Target.X, c.Target.Y, c.Target.Z)
	v.cam.Up = rl.NewVector3(c.Up.X, c.Up.Y, c.Up.Z)
	v.cam.Fovy = c.FovY
}

func (v *Viewport) syncFromRaylib() {
	c := v.Camera
	c.Position = math32.Vec3(v.cam.Position.X, v.cam.Position.Y, v.cam.Position.Z)
	c.Target = math32.Vec3(v.cam.Target.X, v.cam.Target.Y, v.cam.Target.Z)
}

// Draw renders the 3D scene. Call after ClearBackground and before 2D overlays.
func (v *Viewport) Draw() {
	v.syncToRaylib()
	rl.BeginMode3D(v.cam)
	if v.sky != nil {
		v.sky.draw(v.cam.Position)
	}
	if v.GridVisible {
		drawGrid()
	}
	lightDir := v.light.Normal()
	for _, e := range v.models.Entries() {
		if e.Visible {
			drawModel(e.Root, lightDir)
		}
	}
	if v.lightSphere {
		rl.DrawSphere(rl.NewVector3(v.light.X, v.light.Y, v.light.Z), lightSphereRadius, lightSphereColor)
	}
	rl.EndMode3D()
}

// drawModel draws every visible mesh under root as flat-shaded, two-sided triangles.
func drawModel(root *scenegraph.Node, lightDir math32.Vector3) {
	root.Walk(func(n *scenegraph.Node, _ int) bool {
		if !n.Visible {
			return false
		}
		if n.Geometry == nil {
			return true
		}
		world := n.WorldMatrix()
		var mat *scenegraph.Material
		if len(n.Materials) > 0 {
			mat = n.Materials[0]
		}
		for i := range n.Geometry.TriangleCount() {
			a, b, c, ok := n.Geometry.Triangle(i)
			if !ok {
				continue
			}
			a, b, c = a.MulMatrix4AsVector4(&world, 1), b.MulMatrix4AsVector4(&world, 1), c.MulMatrix4AsVector4(&world, 1)
			col := shade(mat, b.Sub(a).Cross(c.Sub(a)).Normal(), lightDir)
			va, vb, vc := toRL(a), toRL(b), toRL(c)
			rl.DrawTriangle3D(va, vb, vc, col)
			rl.DrawTriangle3D(va, vc, vb, col)
		}
		return true
	})
}

// shade returns the display color of a face: unlit surfaces keep their color, lit ones get a
// Lambert term plus their emissive color.
func shade(m *scenegraph.Material, normal, lightDir math32.Vector3) rl.Color {
	if m == nil {
		return rl.LightGray
	}
	r, g, b := m.Color.R, m.Color.G, m.Color.B
	if m.Kind != scenegraph.MaterialBasic {
		d := normal.Dot(lightDir)
		if d < 0 {
			d = -d
		}
		k := ambient + (1-ambient)*d
		r, g, b = r*k, g*k, b*k
	}
	if m.Emissive != nil {
		r, g, b = r+m.Emissive.R, g+m.Emissive.G, b+m.Emissive.B
	}
	alpha := float32(1)
	if m.Transparent {
		alpha = m.Opacity
	}
	return rl.NewColor(channel(r), channel(g), channel(b), channel(alpha))
}

func channel(v float32) uint8 {
	return uint8(max(0, min(1, v))*255 + 0.5)
}

func toRL(p math32.Vector3) rl.Vector3 { return rl.NewVector3(p.X, p.Y, p.Z) }
