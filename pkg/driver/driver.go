// Package driver implements the host-facing incremental rendering state
// machine: Idle -> Streaming(j) -> PostProcessing -> Idle, slicing work
// into scanline bands so a UI can display partial results between calls.
// Inside a band the driver runs to completion without yielding; the band
// size caps perceived latency.
package driver

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/Fogrexon/WebPathtracer/pkg/camera"
	"github.com/Fogrexon/WebPathtracer/pkg/film"
	"github.com/Fogrexon/WebPathtracer/pkg/integrator"
)

// State is one of the driver's coroutine-style resume states.
type State int

const (
	Idle State = iota
	Streaming
	PostProcessing
)

// DefaultSliceScanlines is the number of rows rendered per Step call.
const DefaultSliceScanlines = 10

// DefaultSamplesPerPixel is the per-pixel sample count a new Driver uses.
const DefaultSamplesPerPixel = 10

// Driver holds the resumable state for one in-progress render: the current
// scanline, the accumulating film, and the seeded RNG stream. It is not
// safe for concurrent use by more than one caller.
type Driver struct {
	PathTracer *integrator.PathTracer
	Camera     camera.Camera
	Film       *film.Film
	Samples    int
	Slice      int

	state    State
	scanline int
	rng      *rand.Rand
	baseSeed int64
}

// New creates a driver for a width x height render with the given base
// seed, with Samples set to DefaultSamplesPerPixel and Slice to
// DefaultSliceScanlines; callers may change either before rendering.
func New(pt *integrator.PathTracer, cam camera.Camera, width, height int, seed int64) *Driver {
	return &Driver{
		PathTracer: pt,
		Camera:     cam,
		Film:       film.New(width, height),
		Samples:    DefaultSamplesPerPixel,
		Slice:      DefaultSliceScanlines,
		state:      Idle,
		rng:        rand.New(rand.NewSource(seed)),
		baseSeed:   seed,
	}
}

type goRand struct{ r *rand.Rand }

func (g goRand) Float64() float64 { return g.r.Float64() }

// Step runs one scanline-band slice to completion (no yielding inside the
// slice) and returns the driver's state after the step: Streaming while
// more scanlines remain, PostProcessing once every scanline has been
// rendered (the caller should call Step once more to finish resolving the
// framebuffer), and Idle once the frame is fully resolved.
func (d *Driver) Step() State {
	switch d.state {
	case Idle:
		d.scanline = 0
		d.state = Streaming
		fallthrough
	case Streaming:
		end := d.scanline + d.Slice
		if end > d.Film.Height {
			end = d.Film.Height
		}
		for y := d.scanline; y < end; y++ {
			d.renderScanline(y)
		}
		d.scanline = end
		if d.scanline >= d.Film.Height {
			d.state = PostProcessing
		}
		return d.state
	case PostProcessing:
		d.state = Idle
		return d.state
	default:
		panic(fmt.Sprintf("driver: unknown state %d", d.state))
	}
}

func (d *Driver) renderScanline(y int) {
	d.renderScanlineWith(y, d.rng)
}

// renderScanlineWith renders scanline y drawing every sample from rng,
// letting RunParallel reuse the same per-pixel loop with a band-local
// stream instead of the driver's shared one.
func (d *Driver) renderScanlineWith(y int, rng *rand.Rand) {
	w := d.Film.Width
	rnd := goRand{rng}
	for x := 0; x < w; x++ {
		for s := 0; s < d.Samples; s++ {
			xiU, xiV := rng.Float64(), rng.Float64()
			ray := d.Camera.Ray(x, y, w, d.Film.Height, xiU, xiV)
			c := d.PathTracer.Trace(ray.Origin, ray.Direction, rnd)
			d.Film.AddSample(x, y, c.X, c.Y, c.Z)
		}
	}
}

// Buffer resolves the film to an RGBA8 buffer at the driver's current
// progress; valid to call at any point, not only once Idle.
func (d *Driver) Buffer() []byte { return d.Film.Resolve() }

// RunToCompletion steps the driver until it returns to Idle, running the
// whole frame without yielding partial results — the non-incremental path
// for callers that do not need scanline-granularity progress.
func (d *Driver) RunToCompletion() []byte {
	for {
		if d.Step() == Idle {
			return d.Buffer()
		}
	}
}

// RunParallel renders the whole frame across numWorkers goroutines (0 or
// negative means runtime.NumCPU), partitioning scanlines into the same
// Slice-row bands Step uses. Every band draws from its own *rand.Rand
// seeded from the driver's base seed and the band's first scanline — a
// fixed per-tile RNG partition — so the result is byte-identical across
// any two calls with the same seed and Slice regardless of numWorkers or
// goroutine scheduling order. It does not match RunToCompletion's output
// for the same seed: that method advances one continuous RNG stream
// scanline by scanline, a different (and non-parallelizable) partition.
// Bands write disjoint Film rows, so no locking is needed across workers.
func (d *Driver) RunParallel(numWorkers int) []byte {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	height := d.Film.Height
	nBands := (height + d.Slice - 1) / d.Slice
	bands := make(chan int, nBands)
	for y := 0; y < height; y += d.Slice {
		bands <- y
	}
	close(bands)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for start := range bands {
				end := start + d.Slice
				if end > height {
					end = height
				}
				rng := rand.New(rand.NewSource(bandSeed(d.baseSeed, start)))
				for y := start; y < end; y++ {
					d.renderScanlineWith(y, rng)
				}
			}
		}()
	}
	wg.Wait()

	d.scanline = height
	d.state = Idle
	return d.Buffer()
}

// bandSeed derives a deterministic per-band seed from the driver's base
// seed and the band's starting scanline, so the same (seed, Slice) pair
// always partitions the RNG stream identically regardless of worker count.
func bandSeed(base int64, startScanline int) int64 {
	h := uint64(base) ^ uint64(startScanline)*0x9E3779B97F4A7C15
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return int64(h)
}
