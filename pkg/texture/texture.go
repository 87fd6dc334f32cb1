// Package texture implements the indexed RGBA8 texture store: a flat table
// of decoded images addressed by integer id, sampled with bilinear
// filtering (four clamped neighbor taps and a double lerp).
package texture

import (
	"fmt"
	"math"

	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

// Image is one decoded texture: width/height in texels and RGB color stored
// as unit-range floats, row-major with row 0 at the top of the source image.
type Image struct {
	Width, Height int
	Pixels        []vmath.Vec3
}

// Store is the indexed texture table a renderer resolves material UV lookups
// against. A negative id resolves to opaque white, the convention for an
// unset texture reference; a positive id past the table's end is a bug in
// the caller and panics.
type Store struct {
	images []Image
}

func NewStore() *Store { return &Store{} }

// Add appends img to the store and returns its id.
func (s *Store) Add(img Image) int {
	s.images = append(s.images, img)
	return len(s.images) - 1
}

// Sample bilinearly fetches the color at uv from texture id, clamping the
// four neighbor texel indices to the image bounds (clamp addressing, not
// tiling: coordinates past [0,1] keep sampling the edge texels). The
// sentinel id < 0 ("no texture") returns white; any other id must be in [0, len) —
// a positive id at or beyond the table's size is a programmer invariant
// violation (a material referencing a texture that was never registered),
// not a recoverable condition, and Sample panics rather than masking it.
func (s *Store) Sample(id int, uv vmath.Vec2) vmath.Vec3 {
	if id < 0 {
		return vmath.One
	}
	if id >= len(s.images) {
		panic(fmt.Sprintf("texture: id %d out of range for store of size %d", id, len(s.images)))
	}
	img := s.images[id]
	if img.Width <= 0 || img.Height <= 0 {
		return vmath.One
	}

	// Texel k's center sits at (k+0.5)/N, so a texture-space coordinate is
	// shifted back by half a texel before flooring — otherwise a sample
	// exactly at the texture's center (u=v=0.5) would land on a texel
	// boundary instead of blending the four surrounding texels. V follows
	// the image's row order: v=0 samples row 0 (the top), matching the
	// unflipped TEXCOORD_0 data the glTF loader passes through.
	fx := uv.X*float64(img.Width) - 0.5
	fy := uv.Y*float64(img.Height) - 0.5

	ix0 := int(math.Floor(fx))
	iy0 := int(math.Floor(fy))
	dx := fx - float64(ix0)
	dy := fy - float64(iy0)

	x0 := clampInt(ix0, 0, img.Width-1)
	y0 := clampInt(iy0, 0, img.Height-1)
	x1 := clampInt(ix0+1, 0, img.Width-1)
	y1 := clampInt(iy0+1, 0, img.Height-1)

	tl := img.Pixels[y0*img.Width+x0]
	tr := img.Pixels[y0*img.Width+x1]
	bl := img.Pixels[y1*img.Width+x0]
	br := img.Pixels[y1*img.Width+x1]

	top := vmath.Lerp(tl, tr, dx)
	bottom := vmath.Lerp(bl, br, dx)
	return vmath.Lerp(top, bottom, dy)
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
