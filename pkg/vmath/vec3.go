// Package vmath provides the 3-vector algebra shared by every core package:
// addition/scaling, the orthonormal basis used to move between world and
// local shading frames, and the reflect helper the material variants build
// on (refraction is computed in pkg/material).
package vmath

import "math"

// Vec3 is a 3D vector or point, always stored as finite float64 components.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 is a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float64
}

func New(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }
func New2(x, y float64) Vec2   { return Vec2{X: x, Y: y} }

var Zero = Vec3{}
var One = Vec3{X: 1, Y: 1, Z: 1}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(o Vec3) Vec3      { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Neg() Vec3            { return Vec3{-v.X, -v.Y, -v.Z} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v Vec3) Length() float64        { return math.Sqrt(v.LengthSquared()) }

// Normalize returns a unit vector, or the zero vector for a zero-length
// input. Callers that feed a degenerate direction into traversal must not
// rely on the result being unit length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) Clamp(lo, hi float64) Vec3 {
	c := func(x float64) float64 {
		if x < lo {
			return lo
		}
		if x > hi {
			return hi
		}
		return x
	}
	return Vec3{c(v.X), c(v.Y), c(v.Z)}
}

func (v Vec3) Luminance() float64 { return 0.2126*v.X + 0.7152*v.Y + 0.0722*v.Z }

// Lerp returns the linear interpolation between a and b at t in [0,1].
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Scale(1 - t).Add(b.Scale(t))
}

func Lerp2(a, b Vec2, t float64) Vec2 {
	return Vec2{a.X*(1-t) + b.X*t, a.Y*(1-t) + b.Y*t}
}

// Reflect mirrors iv about the surface with normal n: r = -iv + 2*(iv.n)*n.
func Reflect(iv, n Vec3) Vec3 {
	return iv.Neg().Add(n.Scale(2 * iv.Dot(n)))
}

// OrthonormalBasis builds an orthonormal (s, n, t) frame around the unit
// normal n: the seed axis is X unless n is nearly parallel to X, in which
// case Y is used, then Gram-Schmidt orthogonalized against n to give s,
// and t = n x s (so (s, t, n) is right-handed).
func OrthonormalBasis(n Vec3) (s, t Vec3) {
	var seed Vec3
	if math.Abs(n.X) <= 0.99 {
		seed = Vec3{X: 1}
	} else {
		seed = Vec3{Y: 1}
	}
	s = seed.Sub(n.Scale(n.Dot(seed))).Normalize()
	t = n.Cross(s)
	return s, t
}

// WorldToLocal expresses world-space v in the (s, n, t) frame.
func WorldToLocal(v, s, n, t Vec3) Vec3 {
	return Vec3{X: v.Dot(s), Y: v.Dot(n), Z: v.Dot(t)}
}

// LocalToWorld expresses local-space v (columns s, n, t) back in world space.
func LocalToWorld(v, s, n, t Vec3) Vec3 {
	return s.Scale(v.X).Add(n.Scale(v.Y)).Add(t.Scale(v.Z))
}

// CosTheta returns the cosine of the angle to the local-frame normal, i.e.
// the local Y component.
func CosTheta(localV Vec3) float64 { return localV.Y }

func AbsCosTheta(localV Vec3) float64 { return math.Abs(localV.Y) }

// Ray is an origin and a direction; core entry points expect Direction to
// already be normalized.
type Ray struct {
	Origin, Direction Vec3
}

func NewRay(origin, dir Vec3) Ray { return Ray{Origin: origin, Direction: dir} }

func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Direction.Scale(t)) }
