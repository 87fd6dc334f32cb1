// Package integrator implements the multi-bounce path tracer: iterative
// ray bouncing with next-event estimation against an area light, a fixed
// Russian-roulette survival probability, and orthonormal-basis BRDF
// sampling. Direct light and BRDF sampling are combined additively, with
// no multiple-importance-sampling weighting between the two strategies.
package integrator

import (
	"github.com/Fogrexon/WebPathtracer/pkg/light"
	"github.com/Fogrexon/WebPathtracer/pkg/stage"
	"github.com/Fogrexon/WebPathtracer/pkg/texture"
	"github.com/Fogrexon/WebPathtracer/pkg/vmath"
)

const (
	// MaxReflect bounds the number of bounces a path may take before it is
	// forcibly terminated, independent of Russian roulette.
	MaxReflect = 10
	// Roulette is the survival probability applied after every bounce.
	Roulette = 0.99
	// SelfIntersectEpsilon offsets the next ray's origin along the
	// shading normal to avoid immediately re-hitting the same surface.
	SelfIntersectEpsilon = 1e-4
)

// Logger is the logging seam used for optional verbose tracing.
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards everything; the zero value of Config uses it.
type NopLogger struct{}

func (NopLogger) Printf(string, ...interface{}) {}

// Rand is the random source the integrator draws from: each Float64 call
// returns one uniform [0,1) float. Implementations may use a single global
// stream or a per-pixel seeded stream.
type Rand interface {
	Float64() float64
}

// Config bundles the integrator's tunables. Background is the radiance
// contributed on a primary/bounce ray miss: (1,1,1) acts as an infinite
// white environment, (0,0,0) suits closed scenes.
type Config struct {
	Background vmath.Vec3
	Verbose    bool
	Logger     Logger
}

func DefaultConfig() Config {
	return Config{Background: vmath.One, Logger: NopLogger{}}
}

// PathTracer holds the scene, textures, and light a ray is traced against.
type PathTracer struct {
	Stage    *stage.Stage
	Textures *texture.Store
	Light    light.Area
	Config   Config
}

func New(s *stage.Stage, textures *texture.Store, l light.Area, cfg Config) *PathTracer {
	if cfg.Logger == nil {
		cfg.Logger = NopLogger{}
	}
	return &PathTracer{Stage: s, Textures: textures, Light: l, Config: cfg}
}

// Trace estimates the radiance arriving along the given primary ray,
// bouncing up to MaxReflect times, with fixed-probability Russian roulette
// after every bounce.
func (pt *PathTracer) Trace(origin, direction vmath.Vec3, rnd Rand) vmath.Vec3 {
	throughput := vmath.One
	radiance := vmath.Vec3{}

	o, d := origin, direction.Normalize()

	for i := 0; i < MaxReflect; i++ {
		hit := pt.Stage.Intersect(o, d)
		if !hit.IsHit {
			radiance = radiance.Add(throughput.Mul(pt.Config.Background))
			if pt.Config.Verbose {
				pt.Config.Logger.Printf("bounce %d: miss, background contributed", i)
			}
			break
		}

		s, t := vmath.OrthonormalBasis(hit.Normal)
		woLocal := vmath.WorldToLocal(d.Neg(), s, hit.Normal, t)

		brdf, wiLocal, pdf := hit.Material.Sample(woLocal, hit.UV, pt.Textures, func() (float64, float64) {
			return rnd.Float64(), rnd.Float64()
		})
		if pdf <= 0 {
			break
		}

		cos := vmath.AbsCosTheta(wiLocal)
		throughput = throughput.Mul(brdf).Scale(cos / pdf)

		if hit.Material.IsNEE() {
			radiance = radiance.Add(throughput.Mul(pt.sampleDirectLight(hit.Point, hit.Normal, rnd)))
		}

		wiWorld := vmath.LocalToWorld(wiLocal, s, hit.Normal, t).Normalize()
		o = hit.Point.Add(hit.Normal.Scale(sign(wiWorld.Dot(hit.Normal)) * SelfIntersectEpsilon))
		d = wiWorld

		if rnd.Float64() >= Roulette {
			break
		}
		throughput = throughput.Scale(1 / Roulette)
	}

	return radiance
}

// sampleDirectLight performs one shadow-tested next-event-estimation draw
// from hitPos/hitNorm against the scene's area light.
func (pt *PathTracer) sampleDirectLight(hitPos, hitNorm vmath.Vec3, rnd Rand) vmath.Vec3 {
	sampledPos, toLightDir, contribution := pt.Light.NEE(hitPos, hitNorm, rnd.Float64(), rnd.Float64())
	if contribution == (vmath.Vec3{}) {
		return vmath.Vec3{}
	}

	shadowOrigin := hitPos.Add(hitNorm.Scale(sign(toLightDir.Dot(hitNorm)) * SelfIntersectEpsilon))
	lightDistSq := sampledPos.Sub(hitPos).LengthSquared()

	occluder := pt.Stage.Intersect(shadowOrigin, toLightDir)
	if occluder.IsHit {
		occluderDistSq := occluder.Point.Sub(shadowOrigin).LengthSquared()
		if occluderDistSq < lightDistSq {
			return vmath.Vec3{}
		}
	}

	return contribution
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
