// Package material implements the two BSDF variants the renderer supports,
// Diffuse and Glass, as a closed tagged union rather than an interface with
// per-type implementations: the set is closed, so a Kind switch beats a
// vtable, and a new material is a new variant case. Both variants share a
// single Sample(woLocal, uv, textures) -> (brdf, wiLocal, pdf) entry point
// operating in the local shading frame.
package material

import (
	"fmt"
	"math"

	"github.com/Fogrexon/WebPathtracer/pkg/texture"
	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

// Kind discriminates the two material variants.
type Kind int

const (
	Diffuse Kind = iota
	Glass
)

// Material is a tagged-variant BSDF. Albedo and TexID apply only to
// Diffuse; IOR applies only to Glass. NoTexture (-1) means "no texture".
type Material struct {
	Kind   Kind
	Albedo vmath.Vec3
	TexID  int
	IOR    float64
}

const NoTexture = -1

// IsNEE reports whether this material permits next-event estimation.
// Diffuse does; Glass's near-delta BSDF makes direct-light sampling
// degenerate, so it does not.
func (m Material) IsNEE() bool {
	return m.Kind == Diffuse
}

// Sample draws one scattering direction from the material's BSDF in the
// local (s, n, t) shading frame, where local Y is the surface normal.
// Textures is consulted for Diffuse's albedo modulation; rnd must return
// two independent uniform draws in [0,1).
func (m Material) Sample(woLocal vmath.Vec3, uv vmath.Vec2, textures *texture.Store, rnd func() (float64, float64)) (brdf vmath.Vec3, wiLocal vmath.Vec3, pdf float64) {
	switch m.Kind {
	case Diffuse:
		return m.sampleDiffuse(uv, textures, rnd)
	case Glass:
		return m.sampleGlass(woLocal, rnd)
	default:
		panic(fmt.Sprintf("material: unknown variant kind %d", m.Kind))
	}
}

func (m Material) sampleDiffuse(uv vmath.Vec2, textures *texture.Store, rnd func() (float64, float64)) (vmath.Vec3, vmath.Vec3, float64) {
	xi1, xi2 := rnd()
	theta := 0.5 * math.Acos(1-2*xi1)
	phi := 2 * math.Pi * xi2

	sinTheta := math.Sin(theta)
	wi := vmath.Vec3{
		X: math.Cos(phi) * sinTheta,
		Y: math.Cos(theta),
		Z: math.Sin(phi) * sinTheta,
	}
	pdf := math.Cos(theta) / math.Pi

	tex := vmath.One
	if textures != nil {
		tex = textures.Sample(m.TexID, uv)
	}
	brdf := m.Albedo.Mul(tex).Scale(1 / math.Pi)
	return brdf, wi, pdf
}

func (m Material) sampleGlass(woLocal vmath.Vec3, rnd func() (float64, float64)) (vmath.Vec3, vmath.Vec3, float64) {
	cos := math.Abs(woLocal.Y)
	isEntering := woLocal.Y > 0

	var n1, n2 float64
	var normal vmath.Vec3
	if isEntering {
		n1, n2 = 1.0, m.IOR
		normal = vmath.Vec3{Y: -1}
	} else {
		n1, n2 = m.IOR, 1.0
		normal = vmath.Vec3{Y: 1}
	}

	f0 := (n1 - n2) / (n1 + n2)
	f0 *= f0
	fr := f0 + (1-f0)*math.Pow(1-cos, 5)

	xi, _ := rnd()

	if xi < fr {
		wi := vmath.Reflect(woLocal, normal)
		return vmath.One.Scale(fr / vmath.AbsCosTheta(wi)), wi, fr
	}

	wi, ok := refract(woLocal, normal, n1, n2)
	if !ok {
		// Total internal reflection: fall back to reflection but keep the
		// (1-F) branch's pdf.
		wi = vmath.Reflect(woLocal, normal)
		return vmath.One.Scale((1 - fr) / vmath.AbsCosTheta(wi)), wi, 1 - fr
	}

	ratio := n1 / n2
	contrib := ratio * ratio * (1 - fr) / vmath.AbsCosTheta(wi)
	return vmath.One.Scale(contrib), wi, 1 - fr
}

// refract applies Snell's law to v about normal n going from index n1 to
// n2, returning false on total internal reflection. The Snell-law algebra
// requires n to face the same side as v; n is flipped first if it doesn't,
// so the result is correct regardless of which of the two (physically
// equivalent) facing conventions the caller's normal uses.
func refract(v, n vmath.Vec3, n1, n2 float64) (vmath.Vec3, bool) {
	if v.Dot(n) < 0 {
		n = n.Neg()
	}
	cos := vmath.AbsCosTheta(v)
	sin := math.Sqrt(math.Max(1-cos*cos, 0))
	ratio := n1 / n2
	alpha := ratio * sin
	if alpha*alpha > 1 {
		return vmath.Vec3{}, false
	}
	r := v.Neg().Add(n.Scale(v.Dot(n))).Scale(ratio).Sub(n.Scale(math.Sqrt(1 - alpha*alpha)))
	return r, true
}
