package geom

import (
	"math"

	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

// TriEpsilon is the determinant threshold below which a ray is treated as
// lying in the triangle's plane (a miss, not a division-by-near-zero).
const TriEpsilon = 1e-20

// TriHit is the result of a ray-triangle intersection test.
type TriHit struct {
	T      float64
	U, V   float64 // barycentric coordinates; W = 1-U-V
	Normal vmath.Vec3
}

// det3 computes det([a b c]) (columns) via the Sarrus expansion; the
// intersection test below is phrased as three such determinants rather
// than the textbook cross-product formulation.
func det3(a, b, c vmath.Vec3) float64 {
	return a.X*b.Y*c.Z + a.Y*b.Z*c.X + a.Z*b.X*c.Y -
		a.Z*b.Y*c.X - a.Y*b.X*c.Z - a.X*b.Z*c.Y
}

// IntersectTriangle implements Möller-Trumbore via three 3x3 determinants:
// e1 = v1-v0, e2 = v2-v0, r = o-v0, det = det(d, e2, e1). A |det| below
// TriEpsilon is a miss (the ray lies in the triangle's plane). Hit requires
// t, u, v >= 0 and u+v <= 1.
func IntersectTriangle(o, d, v0, v1, v2 vmath.Vec3) (TriHit, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	r := o.Sub(v0)

	det := det3(d, e2, e1)
	if math.Abs(det) < TriEpsilon {
		return TriHit{}, false
	}
	f := 1.0 / det

	t := f * det3(r, e1, e2)
	u := f * det3(d, e2, r)
	v := f * det3(r, e1, d)

	if t < 0 || u < 0 || v < 0 || u+v > 1 {
		return TriHit{}, false
	}

	return TriHit{
		T:      t,
		U:      u,
		V:      v,
		Normal: e1.Cross(e2).Normalize(),
	}, true
}

// TriangleAABB returns the tight bounding box of a single triangle.
func TriangleAABB(v0, v1, v2 vmath.Vec3) AABB {
	return FromPoints(v0, v1, v2)
}
