package holo

import "github.com/chewxy/math32"

// Camera is a perspective camera. Position is in world units; Rotation holds
// Euler angles in radians (X pitch, Y yaw, Z roll). Matrices are derived from
// the current field values on every call, so fields can be mutated freely
// between frames.
type Camera struct {
	Position Vec3
	Rotation Vec3

	// FOV is the vertical field of view in radians.
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
}

// NewCamera returns a camera at (0, 0, 5) looking down -Z with a 60 degree
// vertical field of view.
func NewCamera() *Camera {
	return &Camera{
		Position: Vec3{Z: 5},
		FOV:      math32.Pi / 3,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      100,
	}
}

// ViewMatrix returns the world-to-camera transform: the inverse rotation
// applied after the inverse translation. The rotation inverse is the
// transpose of the camera's pitch-yaw-roll rotation.
func (c *Camera) ViewMatrix() Mat4 {
	rot := ComposeTRS(Vec3{}, c.Rotation, Vec3One)
	inv := Mat4{
		rot[0], rot[4], rot[8], 0,
		rot[1], rot[5], rot[9], 0,
		rot[2], rot[6], rot[10], 0,
		0, 0, 0, 1,
	}
	trans := Mat4Identity()
	trans[12] = -c.Position.X
	trans[13] = -c.Position.Y
	trans[14] = -c.Position.Z
	return inv.Mul(trans)
}

// ProjectionMatrix returns the perspective projection for the camera's
// current FOV, aspect ratio, and clip planes.
func (c *Camera) ProjectionMatrix() Mat4 {
	return Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}
