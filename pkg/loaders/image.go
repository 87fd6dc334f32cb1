package loaders

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// LoadTextureImage decodes a PNG, BMP, or WebP file into a square RGBA8
// buffer ready for renderer.CreateTexture. The source image's width and
// height must match (the texture store's fixed-side-length contract).
func LoadTextureImage(path string) (rgba []byte, side int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("loaders: opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := decodeByExt(path, f)
	if err != nil {
		return nil, 0, fmt.Errorf("loaders: decoding %s: %w", path, err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w != h {
		return nil, 0, fmt.Errorf("loaders: texture %s is %dx%d, textures must be square", path, w, h)
	}

	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bch, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*w + x) * 4
			out[i+0] = byte(r >> 8)
			out[i+1] = byte(g >> 8)
			out[i+2] = byte(bch >> 8)
			out[i+3] = byte(a >> 8)
		}
	}
	return out, w, nil
}

func decodeByExt(path string, f *os.File) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(f)
	case ".bmp":
		return bmp.Decode(f)
	case ".webp":
		return webp.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported texture extension %q", filepath.Ext(path))
	}
}
