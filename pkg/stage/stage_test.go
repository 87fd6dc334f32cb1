package stage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fogrexon/WebPathtracer/pkg/bvh"
	"github.com/Fogrexon/WebPathtracer/pkg/material"
	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

func unitQuad() ([]bvh.Vertex, []bvh.Triangle) {
	n := vmath.Vec3{Y: 1}
	verts := []bvh.Vertex{
		{Position: vmath.New(-1, 0, -1), Normal: n, UV: vmath.New2(0, 0)},
		{Position: vmath.New(1, 0, -1), Normal: n, UV: vmath.New2(1, 0)},
		{Position: vmath.New(1, 0, 1), Normal: n, UV: vmath.New2(1, 1)},
		{Position: vmath.New(-1, 0, 1), Normal: n, UV: vmath.New2(0, 1)},
	}
	tris := []bvh.Triangle{{0, 1, 2}, {0, 2, 3}}
	return verts, tris
}

func translateY(ty float64) (Mat4, Mat4) {
	fwd := Identity()
	fwd[13] = ty
	inv := Identity()
	inv[13] = -ty
	return fwd, inv
}

func TestStageEmptyMisses(t *testing.T) {
	s := New()
	hit := s.Intersect(vmath.New(0, 10, 0), vmath.Vec3{Y: -1})
	assert.False(t, hit.IsHit)
}

func TestStageHitsTranslatedInstance(t *testing.T) {
	s := New()
	verts, tris := unitQuad()
	fwd, inv := translateY(5)
	mat := material.Material{Kind: material.Diffuse, Albedo: vmath.One, TexID: material.NoTexture}
	s.Add(verts, tris, fwd, inv, mat)

	hit := s.Intersect(vmath.New(0, 10, 0), vmath.Vec3{Y: -1})
	require.True(t, hit.IsHit)
	assert.InDelta(t, 5, hit.Point.Y, 1e-6)
	assert.InDelta(t, 1, hit.Normal.Y, 1e-6)
}

func TestStageDeactivateRemovesFromIntersection(t *testing.T) {
	s := New()
	verts, tris := unitQuad()
	fwd, inv := translateY(5)
	mat := material.Material{Kind: material.Diffuse, Albedo: vmath.One, TexID: material.NoTexture}
	id := s.Add(verts, tris, fwd, inv, mat)
	s.Deactivate(id)

	hit := s.Intersect(vmath.New(0, 10, 0), vmath.Vec3{Y: -1})
	assert.False(t, hit.IsHit)

	s.Activate(id)
	hit = s.Intersect(vmath.New(0, 10, 0), vmath.Vec3{Y: -1})
	assert.True(t, hit.IsHit)
}

func TestStagePicksNearerOfTwoInstances(t *testing.T) {
	s := New()
	verts, tris := unitQuad()
	mat := material.Material{Kind: material.Diffuse, Albedo: vmath.One, TexID: material.NoTexture}

	fwdNear, invNear := translateY(8)
	fwdFar, invFar := translateY(3)
	s.Add(verts, tris, fwdFar, invFar, mat)
	s.Add(verts, tris, fwdNear, invNear, mat)

	hit := s.Intersect(vmath.New(0, 10, 0), vmath.Vec3{Y: -1})
	require.True(t, hit.IsHit)
	assert.InDelta(t, 8, hit.Point.Y, 1e-6)
}

func TestTransformRoundTrip(t *testing.T) {
	fwd, inv := translateY(7)
	p := vmath.New(1.5, -2.5, 3.5)
	back := fwd.TransformPoint(inv.TransformPoint(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.InDelta(t, p.Z, back.Z, 1e-9)
}

func TestIdentityTransformIsNoOp(t *testing.T) {
	m := Identity()
	p := vmath.New(1, 2, 3)
	got := m.TransformPoint(p)
	assert.InDelta(t, p.X, got.X, 1e-12)
	assert.InDelta(t, p.Y, got.Y, 1e-12)
	assert.InDelta(t, p.Z, got.Z, 1e-12)
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Identity()
	m[12], m[13], m[14] = 100, 200, 300
	d := vmath.New(1, 0, 0)
	got := m.TransformDirection(d)
	assert.True(t, math.Abs(got.X-1) < 1e-12 && got.Y == 0 && got.Z == 0)
}
