package geom

import "cogentcore.org/core/math32"

// PerspectiveCamera converts pointer positions into world rays. The viewport
// mirrors these fields into the renderer's camera every frame so picking and
// drawing agree.
type PerspectiveCamera struct {
	Position math32.Vector3
	Target   math32.Vector3
	Up       math32.Vector3
	FovY     float32 // vertical field of view in degrees
	Aspect   float32 // width / height
}

// NewPerspectiveCamera returns the viewer's default camera: position
// (0, 1, 3) looking at (0, 1, 0), 75° vertical field of view.
func NewPerspectiveCamera(aspect float32) *PerspectiveCamera {
	if aspect <= 0 {
		aspect = 1
	}
	return &PerspectiveCamera{
		Position: math32.Vec3(0, 1, 3),
		Target:   math32.Vec3(0, 1, 0),
		Up:       Up,
		FovY:     75,
		Aspect:   aspect,
	}
}

// RayAt returns the world ray through ndc (x right, y up, both in -1..1).
// Dir is normalized, so distances along the ray are world units.
func (c *PerspectiveCamera) RayAt(ndc math32.Vector2) math32.Ray {
	forward := c.Target.Sub(c.Position).Normal()
	right := forward.Cross(c.Up).Normal()
	up := right.Cross(forward)
	h := math32.Tan(math32.DegToRad(c.FovY / 2))
	dir := forward.
		Add(right.MulScalar(ndc.X * h * c.Aspect)).
		Add(up.MulScalar(ndc.Y * h)).
		Normal()
	return math32.Ray{Origin: c.Position, Dir: dir}
}

// NDC converts a pixel position inside a w×h viewport to normalized device
// coordinates.
func NDC(x, y, w, h float32) math32.Vector2 {
	if w <= 0 || h <= 0 {
		return math32.Vector2{}
	}
	return math32.Vec2(x/w*2-1, -(y/h)*2+1)
}
