// Package geom implements the ray-primitive tests the BVH builds on:
// the slab-method AABB test and Möller-Trumbore ray-triangle intersection.
package geom

import (
	"math"

	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

// AABB is an axis-aligned bounding box with Min.k <= Max.k for every axis.
type AABB struct {
	Min, Max vmath.Vec3
}

func FromPoints(pts ...vmath.Vec3) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	min, max := pts[0], pts[0]
	for _, p := range pts[1:] {
		min = vmath.Vec3{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = vmath.Vec3{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	return AABB{Min: min, Max: max}
}

func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: vmath.Vec3{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y), Z: math.Min(b.Min.Z, o.Min.Z)},
		Max: vmath.Vec3{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y), Z: math.Max(b.Max.Z, o.Max.Z)},
	}
}

func (b AABB) Center() vmath.Vec3 { return b.Min.Add(b.Max).Scale(0.5) }
func (b AABB) Size() vmath.Vec3   { return b.Max.Sub(b.Min) }

// SurfaceArea returns 2*(xy+yz+zx) for the box's extent.
func (b AABB) SurfaceArea() float64 {
	s := b.Size()
	return 2.0 * (s.X*s.Y + s.Y*s.Z + s.Z*s.X)
}

func (b AABB) Contains(p vmath.Vec3) bool {
	const eps = 1e-9
	return p.X >= b.Min.X-eps && p.X <= b.Max.X+eps &&
		p.Y >= b.Min.Y-eps && p.Y <= b.Max.Y+eps &&
		p.Z >= b.Min.Z-eps && p.Z <= b.Max.Z+eps
}

// Hit implements the slab method: fold per-axis slab intervals into a
// running (tmin, tmax), and reject axes where the ray is parallel and the
// origin falls outside the slab. It returns whether the ray hits and, if
// so, the nearer of the two non-negative parameters (or tmax, when the
// origin is inside the box).
func (b AABB) Hit(r vmath.Ray) (t float64, ok bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)

	axes := [3][3]float64{
		{b.Min.X, b.Max.X, r.Origin.X},
		{b.Min.Y, b.Max.Y, r.Origin.Y},
		{b.Min.Z, b.Max.Z, r.Origin.Z},
	}
	dirs := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}

	for i := 0; i < 3; i++ {
		lo, hi, origin := axes[i][0], axes[i][1], axes[i][2]
		d := dirs[i]
		if d == 0 {
			if origin < lo || origin > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - origin) / d
		t2 := (hi - origin) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}

	if tmin > tmax || tmax < 0 {
		return 0, false
	}
	if tmin >= 0 {
		return tmin, true
	}
	return tmax, true
}
