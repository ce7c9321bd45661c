// Package geom holds the viewer's conventions on top of math32: a Y-up
// world, Euler XYZ transforms with yaw on Y, horizontal drag planes and a
// perspective camera that turns pointer positions into rays. It has no
// dependency on the renderer so the interaction core can be tested without
// a window.
package geom

import "cogentcore.org/core/math32"

// Up is the world up axis.
var Up = math32.Vec3(0, 1, 0)

// Compose builds translate * rotate * scale. rot holds Euler angles in
// radians applied in XYZ order; rot.Y is the yaw used by the viewer.
func Compose(pos, rot, scale math32.Vector3) math32.Matrix4 {
	var m math32.Matrix4
	m.SetTransform(pos, math32.NewQuatEuler(rot), scale)
	return m
}

// Translation returns the translation column of m.
func Translation(m *math32.Matrix4) math32.Vector3 {
	return math32.Vec3(m[12], m[13], m[14])
}

// HorizontalPlane returns the plane y = p.Y.
func HorizontalPlane(p math32.Vector3) math32.Plane {
	return math32.Plane{Norm: Up, Off: -p.Y}
}

// WorldBox maps b through m. An empty box stays empty.
func WorldBox(b math32.Box3, m *math32.Matrix4) math32.Box3 {
	if b.IsEmpty() {
		return b
	}
	return b.MulMatrix4(m)
}
