package loaders

import "math"

// InvertAffine inverts the column-major affine 4x4 transform used by the
// renderer's wire format (rotation/scale in the upper-left 3x3, translation
// in the fourth column, bottom row implicitly (0,0,0,1)): ok is false when
// the 3x3 part is singular.
//
// This lives in loaders, not in the core: CreateBounding requires the host
// to supply both the forward transform and its inverse — the core never
// inverts one itself. A scene authored via LoadScene names only a forward
// Transform per mesh, so something on the host side has to do this
// arithmetic, and the loader is the natural place.
func InvertAffine(m [16]float64) (inv [16]float64, ok bool) {
	a, b, c := m[0], m[4], m[8]
	d, e, f := m[1], m[5], m[9]
	g, h, i := m[2], m[6], m[10]
	tx, ty, tz := m[12], m[13], m[14]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if math.Abs(det) < 1e-12 {
		return inv, false
	}
	invDet := 1 / det

	r00 := (e*i - f*h) * invDet
	r01 := (c*h - b*i) * invDet
	r02 := (b*f - c*e) * invDet
	r10 := (f*g - d*i) * invDet
	r11 := (a*i - c*g) * invDet
	r12 := (c*d - a*f) * invDet
	r20 := (d*h - e*g) * invDet
	r21 := (b*g - a*h) * invDet
	r22 := (a*e - b*d) * invDet

	itx := -(r00*tx + r01*ty + r02*tz)
	ity := -(r10*tx + r11*ty + r12*tz)
	itz := -(r20*tx + r21*ty + r22*tz)

	inv[0], inv[4], inv[8], inv[12] = r00, r01, r02, itx
	inv[1], inv[5], inv[9], inv[13] = r10, r11, r12, ity
	inv[2], inv[6], inv[10], inv[14] = r20, r21, r22, itz
	inv[3], inv[7], inv[11], inv[15] = 0, 0, 0, 1
	return inv, true
}
