package holo

import "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix in column-major order: element (row, col) is at
// index col*4 + row, matching the layout GPU APIs consume directly.
type Mat4 [16]float32

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a * b. Applied to a point, b's transform acts first.
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Translate2D returns a pure 2D translation embedded in a 4x4 matrix.
// Used to chain node positions down the 2D tree.
func Translate2D(x, y float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, 0, 1,
	}
}

// ComposeTRS builds a model matrix from position, Euler rotation, and scale.
// Rotation is applied pitch, then yaw, then roll; scale is applied before the
// rotation and the translation last.
func ComposeTRS(pos, rot, scale Vec3) Mat4 {
	cosPitch := math32.Cos(rot.X)
	sinPitch := math32.Sin(rot.X)
	cosYaw := math32.Cos(rot.Y)
	sinYaw := math32.Sin(rot.Y)
	cosRoll := math32.Cos(rot.Z)
	sinRoll := math32.Sin(rot.Z)

	var m Mat4
	m[0] = scale.X * (cosYaw * cosRoll)
	m[1] = scale.X * (cosYaw * sinRoll)
	m[2] = scale.X * (-sinYaw)

	m[4] = scale.Y * (sinPitch*sinYaw*cosRoll - cosPitch*sinRoll)
	m[5] = scale.Y * (sinPitch*sinYaw*sinRoll + cosPitch*cosRoll)
	m[6] = scale.Y * (sinPitch * cosYaw)

	m[8] = scale.Z * (cosPitch*sinYaw*cosRoll + sinPitch*sinRoll)
	m[9] = scale.Z * (cosPitch*sinYaw*sinRoll - sinPitch*cosRoll)
	m[10] = scale.Z * (cosPitch * cosYaw)

	m[12] = pos.X
	m[13] = pos.Y
	m[14] = pos.Z
	m[15] = 1
	return m
}

// Ortho2D returns an orthographic projection mapping [0, w] x [0, h] to clip
// space with the conventional Y-up orientation: (0, 0) lands at clip (-1, -1).
// Combine with AxisFlip to obtain the top-left-origin, Y-down pixel space the
// 2D tree is authored in.
func Ortho2D(w, h float32) Mat4 {
	return Mat4{
		2 / w, 0, 0, 0,
		0, 2 / h, 0, 0,
		0, 0, 1, 0,
		-1, -1, 0, 1,
	}
}

// AxisFlip is the axis-adjustment matrix bridging the two 2D conventions: it
// flips the vertical axis and re-origins so that (0, 0) in a top-left, Y-down
// space of height h maps to (0, h) in the Y-up space a projection consumes.
// It is applied exactly once, at the root of a 2D pass. Applying it per
// container would flip orientation back and forth with nesting depth.
func AxisFlip(h float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, -1, 0, 0,
		0, 0, 1, 0,
		0, h, 0, 1,
	}
}

// Perspective returns a perspective projection. fov is the vertical field of
// view in radians; near and far are the clip plane distances.
func Perspective(fov, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fov/2)
	rangeInv := 1 / (near - far)

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (near + far) * rangeInv
	m[11] = -1
	m[14] = 2 * near * far * rangeInv
	return m
}

// transformPoint runs a 2D point (z = 0, w = 1) through m and returns the
// clip-space x, y, and w components.
func transformPoint(m Mat4, x, y float32) (cx, cy, cw float32) {
	cx = m[0]*x + m[4]*y + m[12]
	cy = m[1]*x + m[5]*y + m[13]
	cw = m[3]*x + m[7]*y + m[15]
	return cx, cy, cw
}

// projectToTarget maps a 2D point through mvp into pixel coordinates of a
// target with the given extent. The perspective divide is performed here;
// the resulting space is top-left origin, Y down.
func projectToTarget(mvp Mat4, x, y float32, extentW, extentH int) (px, py float32) {
	cx, cy, cw := transformPoint(mvp, x, y)
	if cw != 0 {
		cx /= cw
		cy /= cw
	}
	px = (cx + 1) * 0.5 * float32(extentW)
	py = (1 - cy) * 0.5 * float32(extentH)
	return px, py
}
