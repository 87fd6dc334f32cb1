// Package loaders provides the host-side convenience readers that sit in
// front of the renderer's flat-array entry points: glTF mesh import,
// YAML scene descriptors, and common image formats for textures. None of
// this is part of the core (§1's "external collaborators"), but a real
// deployment needs it to turn asset files into the renderer's wire arrays.
package loaders

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Fogrexon/WebPathtracer/pkg/renderer"
)

// GLTFMesh is one primitive's worth of flat attribute arrays, ready to pass
// into renderer.MeshData once a transform and material descriptor are
// attached.
type GLTFMesh struct {
	Positions []float64
	Indices   []int32
	Normals   []float64
	Texcoords []float64
}

// LoadGLTFMeshes reads every mesh primitive from a glTF/GLB file and
// returns one GLTFMesh per primitive, in document order. Primitives
// lacking a NORMAL or TEXCOORD_0 attribute are rejected — the renderer's
// mesh contract requires both per vertex.
func LoadGLTFMeshes(path string) ([]GLTFMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loaders: opening %s: %w", path, err)
	}

	var out []GLTFMesh
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			m, err := meshFromPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("loaders: mesh %d primitive %d: %w", mi, pi, err)
			}
			out = append(out, m)
		}
	}
	return out, nil
}

func meshFromPrimitive(doc *gltf.Document, prim *gltf.Primitive) (GLTFMesh, error) {
	posAccessor, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return GLTFMesh{}, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], nil)
	if err != nil {
		return GLTFMesh{}, err
	}

	normAccessor, ok := prim.Attributes[gltf.NORMAL]
	if !ok {
		return GLTFMesh{}, fmt.Errorf("primitive has no NORMAL attribute")
	}
	normals, err := modeler.ReadNormal(doc, doc.Accessors[normAccessor], nil)
	if err != nil {
		return GLTFMesh{}, err
	}

	uvAccessor, ok := prim.Attributes[gltf.TEXCOORD_0]
	if !ok {
		return GLTFMesh{}, fmt.Errorf("primitive has no TEXCOORD_0 attribute")
	}
	uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[uvAccessor], nil)
	if err != nil {
		return GLTFMesh{}, err
	}

	if prim.Indices == nil {
		return GLTFMesh{}, fmt.Errorf("primitive has no index accessor")
	}
	indicesU32, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return GLTFMesh{}, err
	}

	p := len(positions)
	gm := GLTFMesh{
		Positions: make([]float64, p*3),
		Normals:   make([]float64, p*3),
		Texcoords: make([]float64, p*2),
		Indices:   make([]int32, len(indicesU32)),
	}
	for i, v := range positions {
		gm.Positions[i*3+0] = float64(v[0])
		gm.Positions[i*3+1] = float64(v[1])
		gm.Positions[i*3+2] = float64(v[2])
	}
	for i, v := range normals {
		gm.Normals[i*3+0] = float64(v[0])
		gm.Normals[i*3+1] = float64(v[1])
		gm.Normals[i*3+2] = float64(v[2])
	}
	for i, v := range uvs {
		gm.Texcoords[i*2+0] = float64(v[0])
		gm.Texcoords[i*2+1] = float64(v[1])
	}
	for i, idx := range indicesU32 {
		gm.Indices[i] = int32(idx)
	}

	return gm, nil
}

// ToMeshData attaches a transform and material descriptor, completing the
// renderer.MeshData the glTF primitive's arrays need.
func (g GLTFMesh) ToMeshData(matrix [32]float64, mat [5]float64) renderer.MeshData {
	return renderer.MeshData{
		Positions: g.Positions,
		Indices:   g.Indices,
		Normals:   g.Normals,
		Texcoords: g.Texcoords,
		Matrix:    matrix,
		Material:  mat,
	}
}
