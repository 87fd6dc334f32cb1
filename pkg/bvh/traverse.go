package bvh

import (
	"github.com/Fogrexon/WebPathtracer/pkg/geom"
	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

// Intersect walks the tree from the root and returns the nearest triangle
// hit along the ray, if any. The caller's ray direction should already be
// normalized; the returned Point is in the same local frame as the ray.
//
// Traversal pre-tests the root box, then at each inner node descends into
// whichever children the ray's AABB test passes, preferring the result
// nearer to the ray origin by Euclidean distance when both children report
// a hit — not by the AABB slab parameter, which only approximates distance
// for a non-unit or off-axis direction.
func (t *Tree) Intersect(r vmath.Ray) Hit {
	if len(t.Nodes) == 0 {
		return Hit{}
	}
	if _, ok := t.Nodes[0].Box.Hit(r); !ok {
		return Hit{}
	}
	return t.intersectNode(0, r)
}

func (t *Tree) intersectNode(i int32, r vmath.Ray) Hit {
	n := t.Nodes[i]
	if n.Leaf {
		return t.intersectLeaf(i, n, r)
	}

	var leftHit, rightHit Hit
	_, leftOK := t.Nodes[n.Left].Box.Hit(r)
	if leftOK {
		leftHit = t.intersectNode(n.Left, r)
	}
	_, rightOK := t.Nodes[n.Right].Box.Hit(r)
	if rightOK {
		rightHit = t.intersectNode(n.Right, r)
	}

	switch {
	case leftHit.IsHit && rightHit.IsHit:
		if r.Origin.Sub(leftHit.Point).LengthSquared() <= r.Origin.Sub(rightHit.Point).LengthSquared() {
			return leftHit
		}
		return rightHit
	case leftHit.IsHit:
		return leftHit
	case rightHit.IsHit:
		return rightHit
	default:
		return Hit{}
	}
}

func (t *Tree) intersectLeaf(i int32, n Node, r vmath.Ray) Hit {
	tr := t.Tris[n.Tri]
	v0, v1, v2 := t.Vertices[tr[0]], t.Vertices[tr[1]], t.Vertices[tr[2]]

	th, ok := geom.IntersectTriangle(r.Origin, r.Direction, v0.Position, v1.Position, v2.Position)
	if !ok {
		return Hit{}
	}

	w := 1 - th.U - th.V

	// Shading normal uses the quadratic reweighting Z=(w^2,u^2,v^2),
	// renormalized, which biases smooth shading toward the nearest
	// vertex; texture coordinates stay linear in the barycentrics.
	w2, u2, v2w := w*w, th.U*th.U, th.V*th.V
	normal := v0.Normal.Scale(w2).Add(v1.Normal.Scale(u2)).Add(v2.Normal.Scale(v2w))
	sum := w2 + u2 + v2w
	if sum > 0 {
		normal = normal.Scale(1 / sum)
	}
	normal = normal.Normalize()

	uv := vmath.Vec2{
		X: w*v0.UV.X + th.U*v1.UV.X + th.V*v2.UV.X,
		Y: w*v0.UV.Y + th.U*v1.UV.Y + th.V*v2.UV.Y,
	}

	return Hit{
		IsHit:     true,
		Point:     r.At(th.T),
		NodeIndex: int(i),
		Normal:    normal,
		U:         th.U,
		V:         th.V,
		UV:        uv,
	}
}
