// Package stage implements the scene composer: an ordered collection of
// independently transformed, BVH-wrapped mesh instances, each carrying a
// material, with per-instance activation toggling. Rays are transformed
// into each instance's local frame, tested against its BVH, and the
// nearest world-space hit wins.
package stage

import (
	"math"

	"github.com/Fogrexon/WebPathtracer/pkg/bvh"
	"github.com/Fogrexon/WebPathtracer/pkg/material"
	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

// Instance is one mesh placed in the world: a BVH in local space, the
// host-supplied forward and inverse transforms, a material, and whether it
// currently participates in intersection tests.
type Instance struct {
	BVH      *bvh.Tree
	Forward  Mat4
	Inverse  Mat4
	Material material.Material
	Active   bool
}

// Hit is the result of intersecting the whole stage: world-space position
// and normal, barycentrics, texture coordinate, the winning instance's
// material, and the instance index (for diagnostics).
type Hit struct {
	IsHit      bool
	Point      vmath.Vec3
	Normal     vmath.Vec3
	U, V       float64
	UV         vmath.Vec2
	Material   material.Material
	InstanceID int
}

// Stage holds the scene's mesh instances. Instance indices are stable once
// assigned; deactivation is non-destructive.
type Stage struct {
	instances []Instance
}

func New() *Stage { return &Stage{} }

// Add builds a BVH over vertices/tris and appends a new active instance,
// returning its stable id.
func (s *Stage) Add(vertices []bvh.Vertex, tris []bvh.Triangle, forward, inverse Mat4, mat material.Material) int {
	tree := bvh.Build(vertices, tris)
	s.instances = append(s.instances, Instance{
		BVH:      tree,
		Forward:  forward,
		Inverse:  inverse,
		Material: mat,
		Active:   true,
	})
	return len(s.instances) - 1
}

func (s *Stage) Activate(id int)   { s.instances[id].Active = true }
func (s *Stage) Deactivate(id int) { s.instances[id].Active = false }

// Instance returns the instance at id for callers that need direct access
// (e.g. re-registration).
func (s *Stage) Instance(id int) *Instance { return &s.instances[id] }

// Intersect transforms the ray into each active instance's local frame,
// tests it against that instance's BVH, and returns the nearest world-space
// hit, measured as the minimum distance from each instance's transformed
// origin to its local hit point (per-instance scales differ, so a single
// global t does not compare meaningfully across instances).
func (s *Stage) Intersect(o, d vmath.Vec3) Hit {
	best := Hit{}
	bestDistSq := math.Inf(1)

	for i := range s.instances {
		inst := &s.instances[i]
		if !inst.Active {
			continue
		}

		localOrigin := inst.Inverse.TransformPoint(o)
		localDir := inst.Inverse.TransformDirection(d).Normalize()

		h := inst.BVH.Intersect(vmath.NewRay(localOrigin, localDir))
		if !h.IsHit {
			continue
		}

		distSq := localOrigin.Sub(h.Point).LengthSquared()
		if distSq >= bestDistSq {
			continue
		}
		bestDistSq = distSq

		worldPoint := inst.Forward.TransformPoint(h.Point)
		worldNormal := inst.Forward.TransformDirection(h.Normal).Normalize()

		best = Hit{
			IsHit:      true,
			Point:      worldPoint,
			Normal:     worldNormal,
			U:          h.U,
			V:          h.V,
			UV:         h.UV,
			Material:   inst.Material,
			InstanceID: i,
		}
	}

	return best
}
