package stage

import "github.com/Fogrexon/WebPathtracer/pkg/vmath"

// Mat4 is a 4x4 transform stored column-major, matching the host API's
// wire format (two stacked 4x4 column-major matrices per mesh instance:
// forward then inverse). The core never inverts a Mat4 itself — both the
// forward and inverse are supplied by the host.
type Mat4 [16]float64

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// TransformPoint applies the affine transform (linear part plus translation)
// to a point.
func (m Mat4) TransformPoint(p vmath.Vec3) vmath.Vec3 {
	return vmath.Vec3{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// TransformDirection applies only the linear (3x3) part of the transform,
// with no translation.
func (m Mat4) TransformDirection(d vmath.Vec3) vmath.Vec3 {
	return vmath.Vec3{
		X: m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		Y: m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		Z: m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}
