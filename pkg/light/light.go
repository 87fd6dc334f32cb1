// Package light implements the area light used for next-event estimation:
// a square patch in the XZ-plane facing -Y, sampled uniformly. NEE bundles
// the sampled point, the shadow-ray direction, and the emitted radiance
// scaled by the geometric term into one call.
package light

import "github.com/Fogrexon/WebPathtracer/pkg/vmath"

// Area is an axis-aligned square patch centered at Center with the given
// Side length, normal fixed at (0,-1,0), emitting Emission radiance.
type Area struct {
	Center   vmath.Vec3
	Side     float64
	Emission vmath.Vec3
}

// Normal is always -Y for an area light.
func (a Area) Normal() vmath.Vec3 { return vmath.Vec3{Y: -1} }

// Sample draws a uniform point on the patch given two independent uniform
// draws in [0,1).
func (a Area) Sample(xi1, xi2 float64) vmath.Vec3 {
	return vmath.Vec3{
		X: a.Center.X + (xi1-0.5)*a.Side,
		Y: a.Center.Y,
		Z: a.Center.Z + (xi2-0.5)*a.Side,
	}
}

// NEE draws one light sample for next-event estimation from a shading
// point hitPos with surface normal hitNorm. It returns the sampled point,
// the unit direction from hitPos toward it (for the shadow ray), and the
// light's contribution Le*G — the geometric term gating both the hit
// surface's and the light's cosine factors by the inverse-square falloff.
//
// The direction used for the surface-side cosine term is
// normalize(Center - hitPos), not normalize(sampledPos - hitPos): the
// cosine is evaluated against the patch center even though the falloff
// uses the sampled point's distance.
func (a Area) NEE(hitPos, hitNorm vmath.Vec3, xi1, xi2 float64) (sampledPos, toLightDir vmath.Vec3, contribution vmath.Vec3) {
	sampledPos = a.Sample(xi1, xi2)
	toLightDir = sampledPos.Sub(hitPos).Normalize()

	omega := a.Center.Sub(hitPos).Normalize()
	nl := a.Normal()

	diff := sampledPos.Sub(hitPos)
	distSq := diff.LengthSquared()
	if distSq == 0 {
		return sampledPos, toLightDir, vmath.Vec3{}
	}

	g := absf(omega.Dot(hitNorm)) * absf(omega.Neg().Dot(nl)) / distSq
	return sampledPos, toLightDir, a.Emission.Scale(g)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
