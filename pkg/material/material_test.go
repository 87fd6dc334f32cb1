package material

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fogrexon/WebPathtracer/pkg/texture"
	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

func fixedRnd(a, b float64) func() (float64, float64) {
	return func() (float64, float64) { return a, b }
}

func TestDiffuseIsNEE(t *testing.T) {
	m := Material{Kind: Diffuse, Albedo: vmath.One, TexID: NoTexture}
	assert.True(t, m.IsNEE())
}

func TestGlassIsNotNEE(t *testing.T) {
	m := Material{Kind: Glass, IOR: 1.5}
	assert.False(t, m.IsNEE())
}

func TestDiffuseSamplePDFMatchesCosine(t *testing.T) {
	m := Material{Kind: Diffuse, Albedo: vmath.One, TexID: NoTexture}
	store := texture.NewStore()

	brdf, wi, pdf := m.Sample(vmath.Vec3{Y: 1}, vmath.Vec2{}, store, fixedRnd(0.3, 0.7))

	wantTheta := 0.5 * math.Acos(1-2*0.3)
	assert.InDelta(t, math.Cos(wantTheta)/math.Pi, pdf, 1e-9)
	assert.InDelta(t, 1/math.Pi, brdf.X, 1e-9)
	assert.InDelta(t, 1, wi.LengthSquared(), 1e-6)
}

func TestDiffuseSampleAppliesTexture(t *testing.T) {
	store := texture.NewStore()
	id := store.Add(texture.Image{Width: 1, Height: 1, Pixels: []vmath.Vec3{{X: 0.5, Y: 0.5, Z: 0.5}}})
	m := Material{Kind: Diffuse, Albedo: vmath.One, TexID: id}

	brdf, _, _ := m.Sample(vmath.Vec3{Y: 1}, vmath.Vec2{}, store, fixedRnd(0.5, 0.5))
	assert.InDelta(t, 0.5/math.Pi, brdf.X, 1e-9)
}

func TestGlassEnteringReflectionBranch(t *testing.T) {
	m := Material{Kind: Glass, IOR: 1.5}
	// xi below the Fresnel reflectance at normal incidence forces reflection.
	brdf, wi, pdf := m.Sample(vmath.Vec3{Y: 1}, vmath.Vec2{}, nil, fixedRnd(0, 0))

	assert.InDelta(t, 1, wi.Y, 1e-9) // reflecting straight back along the normal
	assert.Greater(t, pdf, 0.0)
	assert.Greater(t, brdf.X, 0.0)
}

func TestGlassRefractionMatchesSnellAtNormalIncidence(t *testing.T) {
	m := Material{Kind: Glass, IOR: 1.5}
	// xi above any plausible Fresnel value forces the refraction branch.
	_, wi, pdf := m.Sample(vmath.Vec3{Y: 1}, vmath.Vec2{}, nil, fixedRnd(0.999, 0))

	// At normal incidence refraction continues straight through.
	assert.InDelta(t, -1, wi.Y, 1e-6)
	assert.Greater(t, pdf, 0.0)
}

func TestGlassRefractionMatchesSnellAt30Degrees(t *testing.T) {
	m := Material{Kind: Glass, IOR: 1.5}
	// Incoming 30 degrees off the normal, entering: sin(theta_t) = sin(30)/1.5,
	// so the transmitted direction's y-component is -cos(theta_t).
	woLocal := vmath.Vec3{X: math.Sin(math.Pi / 6), Y: math.Cos(math.Pi / 6), Z: 0}
	_, wi, pdf := m.Sample(woLocal, vmath.Vec2{}, nil, fixedRnd(0.999, 0))

	sinT := math.Sin(math.Pi/6) / 1.5
	wantY := -math.Sqrt(1 - sinT*sinT)
	assert.InDelta(t, wantY, wi.Y, 1e-6)
	assert.InDelta(t, sinT, math.Hypot(wi.X, wi.Z), 1e-6)
	assert.Greater(t, pdf, 0.0)
}

func TestGlassTotalInternalReflectionFallsBackToReflect(t *testing.T) {
	m := Material{Kind: Glass, IOR: 1.5}
	// A grazing exit angle (wo.y small, non-entering) exceeds the critical
	// angle for ior=1.5 and must fall back to reflection.
	woLocal := vmath.Vec3{X: 0.99, Y: -0.01, Z: 0}.Normalize()
	_, wi, pdf := m.Sample(woLocal, vmath.Vec2{}, nil, fixedRnd(0.999, 0))

	require.Greater(t, pdf, 0.0)
	assert.InDelta(t, 1, wi.LengthSquared(), 1e-6)
}

func TestMaterialSamplePanicsOnUnknownKind(t *testing.T) {
	m := Material{Kind: Kind(99)}
	assert.Panics(t, func() {
		m.Sample(vmath.Vec3{Y: 1}, vmath.Vec2{}, nil, fixedRnd(0, 0))
	})
}
