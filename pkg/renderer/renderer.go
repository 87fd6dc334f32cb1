// Package renderer is the top-level facade the host embeds: it owns the
// texture store, the scene composer, the camera, and the incremental
// driver behind the four host-callable entry points (CreateTexture,
// CreateBounding, SetCamera, PathTracer/ReadStream). Everything that
// could have been package-level state — RNG, stage, camera, textures —
// lives on the Renderer value instead, so two renderers never share state.
package renderer

import (
	"fmt"

	"github.com/Fogrexon/WebPathtracer/pkg/bvh"
	"github.com/Fogrexon/WebPathtracer/pkg/camera"
	"github.com/Fogrexon/WebPathtracer/pkg/driver"
	"github.com/Fogrexon/WebPathtracer/pkg/integrator"
	"github.com/Fogrexon/WebPathtracer/pkg/light"
	"github.com/Fogrexon/WebPathtracer/pkg/material"
	"github.com/Fogrexon/WebPathtracer/pkg/stage"
	"github.com/Fogrexon/WebPathtracer/pkg/texture"
	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

// StatusComplete, StatusPartial and StatusBusy are the three host-facing
// status codes pathTracer/readStream may return.
const (
	StatusComplete = 0
	StatusPartial  = 1
	StatusBusy     = -1
)

// Renderer is the ephemeral, explicit replacement for the source's global
// RNG/stage/camera/texture-store state. No state is persisted across
// process restarts.
type Renderer struct {
	Textures *texture.Store
	Stage    *stage.Stage
	Light    light.Area
	Camera   camera.Camera
	Config   integrator.Config

	// NumWorkers, when > 1, renders PathTracer's full-frame path across a
	// scanline-band worker pool (pkg/driver's RunParallel) instead of a
	// single stream. It has no effect on ReadStream, which always drives
	// scanline-granularity progress from a single stream. 0 or 1 means
	// single-threaded.
	NumWorkers int

	seed    int64
	driver  *driver.Driver
	streamW int
	streamH int
}

// New creates an empty renderer. Seed seeds the deterministic RNG stream
// used by every subsequent render.
func New(seed int64) *Renderer {
	return &Renderer{
		Textures: texture.NewStore(),
		Stage:    stage.New(),
		Config:   integrator.DefaultConfig(),
		seed:     seed,
	}
}

// CreateTexture decodes and appends an RGBA8 image of side n (n*n*4 bytes,
// row-major, alpha ignored) and returns its id.
func (r *Renderer) CreateTexture(rgba []byte, n int) (int, error) {
	if len(rgba) != n*n*4 {
		return 0, fmt.Errorf("renderer: texture buffer length %d does not match %d x %d x 4", len(rgba), n, n)
	}
	pixels := make([]vmath.Vec3, n*n)
	for i := 0; i < n*n; i++ {
		pixels[i] = vmath.Vec3{
			X: float64(rgba[i*4+0]) / 255,
			Y: float64(rgba[i*4+1]) / 255,
			Z: float64(rgba[i*4+2]) / 255,
		}
	}
	id := r.Textures.Add(texture.Image{Width: n, Height: n, Pixels: pixels})
	return id, nil
}

// MeshData is the host's flat-array mesh description, mirroring the wire
// layout of createBounding: separate position/index/normal/texcoord
// arrays plus the two stacked 4x4 forward/inverse matrices and the
// 5-float material descriptor (material[0] selects the variant; Diffuse
// reads [1]=texId,[2..4]=albedo; Glass reads [1]=ior).
type MeshData struct {
	Positions []float64 // 3*P
	Indices   []int32   // 3*T
	Normals   []float64 // 3*P
	Texcoords []float64 // 2*P
	Matrix    [32]float64
	Material  [5]float64
}

// CreateBounding builds a mesh instance from MeshData, building its BVH and
// appending it to the scene composer. Returns the instance id.
func (r *Renderer) CreateBounding(m MeshData) (int, error) {
	p := len(m.Positions) / 3
	if p*3 != len(m.Positions) || len(m.Normals) != p*3 || len(m.Texcoords) != p*2 {
		return 0, fmt.Errorf("renderer: mesh attribute arrays are inconsistent (P=%d)", p)
	}
	if len(m.Indices)%3 != 0 {
		return 0, fmt.Errorf("renderer: index count %d is not a multiple of 3", len(m.Indices))
	}

	vertices := make([]bvh.Vertex, p)
	for i := 0; i < p; i++ {
		vertices[i] = bvh.Vertex{
			Position: vmath.New(m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]),
			Normal:   vmath.New(m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]),
			UV:       vmath.New2(m.Texcoords[i*2], m.Texcoords[i*2+1]),
		}
	}

	tris := make([]bvh.Triangle, len(m.Indices)/3)
	for i := range tris {
		tris[i] = bvh.Triangle{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
	}

	var forward, inverse stage.Mat4
	copy(forward[:], m.Matrix[:16])
	copy(inverse[:], m.Matrix[16:])

	mat, err := decodeMaterial(m.Material)
	if err != nil {
		return 0, err
	}

	id := r.Stage.Add(vertices, tris, forward, inverse, mat)
	return id, nil
}

func decodeMaterial(desc [5]float64) (material.Material, error) {
	switch int(desc[0]) {
	case 0:
		return material.Material{
			Kind:   material.Diffuse,
			TexID:  int(desc[1]),
			Albedo: vmath.New(desc[2], desc[3], desc[4]),
		}, nil
	case 1:
		return material.Material{Kind: material.Glass, IOR: desc[1]}, nil
	default:
		return material.Material{}, fmt.Errorf("renderer: unknown material variant id %v", desc[0])
	}
}

// SetCamera installs the host-supplied pinhole camera frame.
func (r *Renderer) SetCamera(cam [13]float64) {
	r.Camera = camera.New(cam)
}

// PathTracer builds a path tracer for the current scene and runs a fresh
// driver to completion in one call, writing the RGBA8 result into buf and
// returning StatusComplete. While a ReadStream render is in progress it
// renders nothing and returns StatusBusy.
func (r *Renderer) PathTracer(buf []byte, w, h int) (int, error) {
	if r.driver != nil {
		return StatusBusy, nil
	}
	if len(buf) != w*h*4 {
		return 0, fmt.Errorf("renderer: output buffer length %d does not match %d x %d x 4", len(buf), w, h)
	}
	d := driver.New(r.newPathTracer(), r.Camera, w, h, r.seed)
	var out []byte
	if r.NumWorkers > 1 {
		out = d.RunParallel(r.NumWorkers)
	} else {
		out = d.RunToCompletion()
	}
	copy(buf, out)
	return StatusComplete, nil
}

// ReadStream advances one scanline-band slice of an in-progress streamed
// render (starting one lazily on first call for the given buffer's
// dimensions), writing the current partial RGBA8 framebuffer into buf.
// Returns StatusPartial on every call before the one that finishes
// resolving the frame (including the call that renders the last band),
// and StatusComplete on that final call.
func (r *Renderer) ReadStream(buf []byte, w, h int) (int, error) {
	if len(buf) != w*h*4 {
		return 0, fmt.Errorf("renderer: output buffer length %d does not match %d x %d x 4", len(buf), w, h)
	}
	if r.driver != nil && (r.streamW != w || r.streamH != h) {
		return 0, fmt.Errorf("renderer: a stream for a different resolution is already in progress")
	}
	if r.driver == nil {
		r.driver = driver.New(r.newPathTracer(), r.Camera, w, h, r.seed)
		r.streamW, r.streamH = w, h
	}

	state := r.driver.Step()
	copy(buf, r.driver.Buffer())

	if state == driver.Idle {
		r.driver = nil
		return StatusComplete, nil
	}
	return StatusPartial, nil
}

func (r *Renderer) newPathTracer() *integrator.PathTracer {
	return integrator.New(r.Stage, r.Textures, r.Light, r.Config)
}
