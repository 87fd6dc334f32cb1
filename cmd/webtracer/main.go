// Command webtracer is the CLI entry point around the renderer: it either
// renders a YAML-described scene to a PNG file or serves it over a
// WebSocket for incremental browser delivery.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/Fogrexon/WebPathtracer/pkg/light"
	"github.com/Fogrexon/WebPathtracer/pkg/loaders"
	"github.com/Fogrexon/WebPathtracer/pkg/renderer"
	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
	"github.com/Fogrexon/WebPathtracer/pkg/wsserver"
)

func main() {
	var (
		scenePath = flag.String("scene", "", "path to a YAML scene descriptor")
		out       = flag.String("out", "render.png", "output PNG path (render-to-completion mode)")
		width     = flag.Int("width", 640, "output image width")
		height    = flag.Int("height", 480, "output image height")
		workers   = flag.Int("workers", 0, "parallel scanline-band workers (0 = single-threaded)")
		serve     = flag.String("serve", "", "address to serve a streaming WebSocket renderer on, e.g. :8080, instead of rendering to a file")
		seed      = flag.Int64("seed", 1, "base RNG seed")
	)
	flag.Parse()

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "webtracer: -scene is required")
		flag.Usage()
		os.Exit(2)
	}

	r, err := buildRenderer(*scenePath, *seed)
	if err != nil {
		log.Fatalf("webtracer: %v", err)
	}
	r.NumWorkers = *workers

	if *serve != "" {
		srv := wsserver.NewServer(parsePort(*serve), r)
		log.Fatal(srv.Start())
		return
	}

	buf := make([]byte, *width**height*4)
	if _, err := r.PathTracer(buf, *width, *height); err != nil {
		log.Fatalf("webtracer: rendering: %v", err)
	}
	if err := writePNG(*out, buf, *width, *height); err != nil {
		log.Fatalf("webtracer: writing %s: %v", *out, err)
	}
	fmt.Printf("webtracer: wrote %s (%dx%d)\n", *out, *width, *height)
}

// buildRenderer loads a YAML scene descriptor and its referenced glTF
// meshes and textures into a fresh renderer.Renderer.
func buildRenderer(scenePath string, seed int64) (*renderer.Renderer, error) {
	sd, err := loaders.LoadScene(scenePath)
	if err != nil {
		return nil, err
	}

	r := renderer.New(seed)
	r.SetCamera(sd.Camera.CameraWire())
	r.Light = light.Area{
		Center:   vec3(sd.Light.Center),
		Side:     sd.Light.Side,
		Emission: vec3(sd.Light.Emission),
	}

	for _, texPath := range sd.Textures {
		rgba, side, err := loaders.LoadTextureImage(texPath)
		if err != nil {
			return nil, fmt.Errorf("loading texture %s: %w", texPath, err)
		}
		if _, err := r.CreateTexture(rgba, side); err != nil {
			return nil, fmt.Errorf("registering texture %s: %w", texPath, err)
		}
	}

	for _, md := range sd.Meshes {
		meshes, err := loaders.LoadGLTFMeshes(md.Source)
		if err != nil {
			return nil, fmt.Errorf("loading mesh %s: %w", md.Source, err)
		}
		if len(meshes) == 0 {
			return nil, fmt.Errorf("mesh %s has no primitives", md.Source)
		}
		// A MeshDescriptor names one transform/material pair; a glTF file
		// with multiple primitives would need one descriptor per
		// primitive. Using the first primitive is a deliberate scope limit
		// for this CLI, not a core renderer constraint.
		inverse, ok := loaders.InvertAffine(md.Transform)
		if !ok {
			return nil, fmt.Errorf("mesh %s: transform is not invertible", md.Source)
		}
		var matrix [32]float64
		copy(matrix[:16], md.Transform[:])
		copy(matrix[16:], inverse[:])

		meshData := meshes[0].ToMeshData(matrix, md.Material.MaterialWire())
		if _, err := r.CreateBounding(meshData); err != nil {
			return nil, fmt.Errorf("registering mesh %s: %w", md.Source, err)
		}
	}

	return r, nil
}

func vec3(a [3]float64) vmath.Vec3 { return vmath.New(a[0], a[1], a[2]) }

func parsePort(addr string) int {
	var port int
	fmt.Sscanf(addr, ":%d", &port)
	return port
}

func writePNG(path string, rgba []byte, w, h int) error {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, rgba)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
