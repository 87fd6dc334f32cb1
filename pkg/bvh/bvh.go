// Package bvh implements the surface-area-aware binary BVH over a mesh's
// triangles: a flat, contiguous node array built by median split with a
// lexicographic (balance, surface-area) axis choice, and a recursive
// traverser that descends every child whose box the ray hits and returns
// the nearest hit with interpolated shading attributes.
//
// Nodes reference children by integer index, never by pointer, so the tree
// has no back-pointer cycles and the whole array is destroyed with the
// owning mesh in one step.
package bvh

import (
	"fmt"
	"math"
	"sort"

	"github.com/Fogrexon/WebPathtracer/pkg/geom"
	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

// Vertex is a mesh vertex: position, unit normal, and texture coordinate.
type Vertex struct {
	Position vmath.Vec3
	Normal   vmath.Vec3
	UV       vmath.Vec2
}

// Triangle holds three indices into a mesh's vertex table.
type Triangle [3]int32

// Node is either an inner node (Left/Right set, Leaf false) or a leaf
// (Tri set, Leaf true). Box is the tight AABB in both cases.
type Node struct {
	Box         geom.AABB
	Leaf        bool
	Left, Right int32 // child node indices; valid only when !Leaf
	Tri         int32 // index into the owning mesh's triangle table; valid only when Leaf
}

// Tree is the flat node array for one mesh. Node 0 is the root.
type Tree struct {
	Nodes    []Node
	Vertices []Vertex
	Tris     []Triangle
}

// Hit is the result of a local-frame traversal: barycentrics, the
// quadratic-reweighted interpolated normal, the linearly interpolated
// texture coordinate, and the owning node index.
type Hit struct {
	IsHit     bool
	Point     vmath.Vec3
	NodeIndex int
	Normal    vmath.Vec3
	U, V      float64
	UV        vmath.Vec2
}

// Build constructs a BVH over the given vertex/triangle tables. Building is
// single-threaded and deterministic given deterministic input. It is an
// invariant (documented in the data model) that no two triangles share an
// identical centroid; Build panics if the median-split search ever finds
// all three axis candidates degenerate. Because the partition puts only
// centroids strictly below the median on the left, that happens whenever
// the median equals the smallest centroid coordinate on every axis —
// always when all triangles share a centroid, and also for some sets of
// distinct centroids (e.g. three triangles with centroids (0,0,5), (0,5,0)
// and (5,0,0)).
func Build(vertices []Vertex, tris []Triangle) *Tree {
	t := &Tree{Vertices: vertices, Tris: tris}
	if len(tris) == 0 {
		return t
	}
	idx := make([]int32, len(tris))
	for i := range idx {
		idx[i] = int32(i)
	}
	t.Nodes = make([]Node, 0, 2*len(tris))
	t.Nodes = append(t.Nodes, Node{}) // reserve root slot
	t.build(idx, 0)
	return t
}

func (t *Tree) triAABB(ti int32) geom.AABB {
	tr := t.Tris[ti]
	return geom.TriangleAABB(t.Vertices[tr[0]].Position, t.Vertices[tr[1]].Position, t.Vertices[tr[2]].Position)
}

func (t *Tree) centroid(ti int32) vmath.Vec3 {
	tr := t.Tris[ti]
	return t.Vertices[tr[0]].Position.Add(t.Vertices[tr[1]].Position).Add(t.Vertices[tr[2]].Position).Scale(1.0 / 3.0)
}

// axisOf returns the coordinate of v along axis a (0=x,1=y,2=z).
func axisOf(v vmath.Vec3, a int) float64 {
	switch a {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// axisSplit is one of the three candidate median splits considered when
// building an inner node, keyed by (imbalance, combined surface area) for
// the lexicographic axis choice.
type axisSplit struct {
	axis      int
	left      []int32
	right     []int32
	imbalance int
	sa        float64
}

// build writes node k (appending child slots as needed) for the triangle
// index set S, splitting at the median centroid of the chosen axis.
func (t *Tree) build(s []int32, k int32) {
	if len(s) == 0 {
		return
	}
	if len(s) == 1 {
		box := t.triAABB(s[0])
		t.Nodes[k] = Node{Box: box, Leaf: true, Tri: s[0]}
		return
	}

	candidates := make([]axisSplit, 3)
	for a := 0; a < 3; a++ {
		coords := make([]float64, len(s))
		for i, ti := range s {
			coords[i] = axisOf(t.centroid(ti), a)
		}
		sorted := append([]float64(nil), coords...)
		sort.Float64s(sorted)
		n := len(sorted)
		var median float64
		if n%2 == 0 {
			median = (sorted[n/2-1] + sorted[n/2]) / 2
		} else {
			median = sorted[n/2]
		}

		var left, right []int32
		for i, ti := range s {
			if coords[i] < median {
				left = append(left, ti)
			} else {
				right = append(right, ti)
			}
		}

		sa := splitSurfaceArea(t, left, right)
		candidates[a] = axisSplit{axis: a, left: left, right: right, imbalance: abs(len(left) - len(right)), sa: sa}
	}

	// Lexicographic key (|left|-|right|, SA): most balanced first, smaller
	// combined surface area breaks ties.
	best := 0
	for i := 1; i < 3; i++ {
		if betterSplit(candidates[i], candidates[best]) {
			best = i
		}
	}

	if math.IsInf(candidates[best].sa, 1) {
		panic(fmt.Sprintf("bvh: all three axis splits are degenerate for %d triangles", len(s)))
	}

	chosen := candidates[best]
	box := t.triAABB(s[0])
	for _, ti := range s[1:] {
		box = box.Union(t.triAABB(ti))
	}

	n := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{}, Node{})
	t.Nodes[k] = Node{Box: box, Left: n, Right: n + 1}

	t.build(chosen.left, n)
	t.build(chosen.right, n+1)
}

func betterSplit(a, b axisSplit) bool {
	if a.imbalance != b.imbalance {
		return a.imbalance < b.imbalance
	}
	return a.sa < b.sa
}

func splitSurfaceArea(t *Tree, left, right []int32) float64 {
	if len(left) == 0 || len(right) == 0 {
		return math.Inf(1)
	}
	lBox := t.triAABB(left[0])
	for _, ti := range left[1:] {
		lBox = lBox.Union(t.triAABB(ti))
	}
	rBox := t.triAABB(right[0])
	for _, ti := range right[1:] {
		rBox = rBox.Union(t.triAABB(ti))
	}
	return lBox.SurfaceArea() + rBox.SurfaceArea()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
