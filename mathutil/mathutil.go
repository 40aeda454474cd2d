// Package mathutil holds the flat column-major 4x4 matrix helpers the
// frame composer uses to build per-viewport view and projection
// matrices. Matrices are plain [16]float32 so they can be uploaded to
// a uniform buffer with SliceToBytes without any intermediate struct.
package mathutil

import "math"

// Mat4 is a column-major 4x4 matrix stored as a flat array, matching
// the layout WGSL's mat4x4<f32> expects in a uniform buffer.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Mul returns a*b.
func Mul(a, b Mat4) Mat4 {
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

// PerspectiveLH builds a left-handed perspective projection matrix for
// WebGPU/Vulkan clip space (depth range [0, 1]).
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport width/height
//   - near, far: clip plane distances, 0 < near < far
func PerspectiveLH(fovY, aspect, near, far float32) Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	m := Identity()
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (far - near)
	m[11] = 1.0
	m[14] = -(far * near) / (far - near)
	m[15] = 0.0
	return m
}

// LookToLH builds a left-handed view matrix from an eye position and a
// forward direction (rather than a look-at target), with the supplied
// up vector. The spec calls for up = (0, 0, -1), matching a map format
// where +Z is "up" in world space but the renderer's view convention
// keeps Y as the vertical screen axis.
func LookToLH(eyeX, eyeY, eyeZ, fwdX, fwdY, fwdZ, upX, upY, upZ float32) Mat4 {
	fx, fy, fz := normalize(fwdX, fwdY, fwdZ)

	// Left-handed: right = up × forward.
	rx, ry, rz := cross(upX, upY, upZ, fx, fy, fz)
	rx, ry, rz = normalize(rx, ry, rz)

	// Recompute up to guarantee orthogonality.
	ux, uy, uz := cross(fx, fy, fz, rx, ry, rz)

	var m Mat4
	m[0], m[4], m[8] = rx, ry, rz
	m[1], m[5], m[9] = ux, uy, uz
	m[2], m[6], m[10] = fx, fy, fz
	m[3], m[7], m[11] = 0, 0, 0
	m[12] = -(rx*eyeX + ry*eyeY + rz*eyeZ)
	m[13] = -(ux*eyeX + uy*eyeY + uz*eyeZ)
	m[14] = -(fx*eyeX + fy*eyeY + fz*eyeZ)
	m[15] = 1
	return m
}

func normalize(x, y, z float32) (float32, float32, float32) {
	lenSq := float64(x*x + y*y + z*z)
	if lenSq == 0 {
		return 0, 0, 0
	}
	invLen := 1.0 / float32(math.Sqrt(lenSq))
	return x * invLen, y * invLen, z * invLen
}

func cross(ax, ay, az, bx, by, bz float32) (float32, float32, float32) {
	return ay*bz - az*by, az*bx - ax*bz, ax*by - ay*bx
}
