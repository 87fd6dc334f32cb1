// Package film accumulates per-pixel radiance samples and resolves them to
// an RGBA8 framebuffer: arithmetic-mean accumulation, gamma 1/2.2, and an
// optional 3x3 box filter. Accumulation and resolution are separate so an
// in-progress frame can be resolved at any point for partial display.
package film

import "math"

const defaultGamma = 1.0 / 2.2

// Film accumulates radiance samples per pixel and exposes the resolved,
// gamma-corrected RGBA8 buffer.
type Film struct {
	Width, Height int
	sum           []float64 // 3 floats per pixel, linear radiance
	count         []int
	BoxFilter     bool
}

func New(width, height int) *Film {
	return &Film{
		Width:  width,
		Height: height,
		sum:    make([]float64, width*height*3),
		count:  make([]int, width*height),
	}
}

// AddSample accumulates one (r,g,b) radiance sample at pixel (x, y).
func (f *Film) AddSample(x, y int, r, g, b float64) {
	i := y*f.Width + x
	f.sum[i*3+0] += r
	f.sum[i*3+1] += g
	f.sum[i*3+2] += b
	f.count[i]++
}

// Mean returns the arithmetic-mean linear radiance at pixel (x, y).
func (f *Film) Mean(x, y int) (r, g, b float64) {
	i := y*f.Width + x
	n := f.count[i]
	if n == 0 {
		return 0, 0, 0
	}
	return f.sum[i*3+0] / float64(n), f.sum[i*3+1] / float64(n), f.sum[i*3+2] / float64(n)
}

// Resolve applies gamma correction (and, if BoxFilter is set, a 3x3 box
// blur over the gamma-corrected means) and packs the result into a
// row-major top-left-origin RGBA8 buffer.
func (f *Film) Resolve() []byte {
	gammaed := make([]float64, f.Width*f.Height*3)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.Mean(x, y)
			i := (y*f.Width + x) * 3
			gammaed[i+0] = gammaCorrect(r)
			gammaed[i+1] = gammaCorrect(g)
			gammaed[i+2] = gammaCorrect(b)
		}
	}

	if f.BoxFilter {
		gammaed = boxFilter3x3(gammaed, f.Width, f.Height)
	}

	out := make([]byte, f.Width*f.Height*4)
	for p := 0; p < f.Width*f.Height; p++ {
		out[p*4+0] = toByte(gammaed[p*3+0])
		out[p*4+1] = toByte(gammaed[p*3+1])
		out[p*4+2] = toByte(gammaed[p*3+2])
		out[p*4+3] = 255
	}
	return out
}

func gammaCorrect(x float64) float64 {
	if x < 0 {
		x = 0
	}
	return math.Pow(x, defaultGamma)
}

func toByte(x float64) byte {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	return byte(x*255 + 0.5)
}

// boxFilter3x3 averages each channel over a 3x3 neighborhood; at the image
// border, taps outside the image are skipped and the mean is taken over the
// in-image taps only (no wrapping).
func boxFilter3x3(src []float64, w, h int) []float64 {
	out := make([]float64, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var rs, gs, bs float64
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					i := (ny*w + nx) * 3
					rs += src[i+0]
					gs += src[i+1]
					bs += src[i+2]
					n++
				}
			}
			i := (y*w + x) * 3
			out[i+0] = rs / float64(n)
			out[i+1] = gs / float64(n)
			out[i+2] = bs / float64(n)
		}
	}
	return out
}
