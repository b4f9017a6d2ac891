package placement

import (
	"log/slog"
	"math/rand/v2"

	"github.com/OCharnyshevich/wildwalk/pkg/terrain"
)

// DefaultAttempts is the rejection-sampling cap used when Sampler.Attempts is unset.
const DefaultAttempts = 20

// Result is the outcome of one placement search. When Found is false the
// coordinates are the last candidate drawn, which callers still use.
type Result struct {
	X        float64
	Z        float64
	Found    bool
	Attempts int
}

// Sampler finds positions that satisfy a Constraint by bounded rejection
// sampling over a height field. It never blocks and never fails.
type Sampler struct {
	Field    terrain.HeightField
	Attempts int
	Log      *slog.Logger
}

// NewSampler returns a sampler with the default attempt cap.
func NewSampler(field terrain.HeightField, log *slog.Logger) *Sampler {
	return &Sampler{Field: field, Attempts: DefaultAttempts, Log: log}
}

// Sample draws candidates from the square of half-extent c.SpawnRange
// centered at the origin.
func (s *Sampler) Sample(c Constraint, existing []Entity, rng *rand.Rand) Result {
	return s.SampleIn(c, Square(c.SpawnRange), existing, rng)
}

// SampleIn draws candidates uniformly from bounds.
func (s *Sampler) SampleIn(c Constraint, bounds Bounds, existing []Entity, rng *rand.Rand) Result {
	attempts := s.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var res Result
	for res.Attempts < attempts {
		res.Attempts++
		res.X = lerp(bounds.XMin, bounds.XMax, rng.Float64())
		res.Z = lerp(bounds.ZMin, bounds.ZMax, rng.Float64())

		if !s.flatEnough(c, res.X, res.Z) {
			continue
		}
		if !separated(c, existing, res.X, res.Z) {
			continue
		}
		res.Found = true
		return res
	}

	if s.Log != nil {
		s.Log.Warn("placement attempts exhausted, using last candidate",
			"kind", c.Kind.String(),
			"attempts", res.Attempts,
			"x", res.X,
			"z", res.Z,
		)
	}
	return res
}

// flatEnough applies the flatness and slope tests. Missing elevation data
// skips a test instead of failing it.
func (s *Sampler) flatEnough(c Constraint, x, z float64) bool {
	d := c.FlatnessCheckDistance
	if d <= 0 {
		return true
	}
	if c.MaxElevationDifference > 0 {
		if dev, ok := terrain.MaxDeviation(s.Field, x, z, d); ok && dev > c.MaxElevationDifference {
			return false
		}
	}
	if c.MaxSlope > 0 {
		if slope, ok := terrain.Slope(s.Field, x, z, d); ok && slope > c.MaxSlope {
			return false
		}
	}
	return true
}

// separated reports whether (x, z) is at least c.MinSeparation away from
// every existing entity of the same kind.
func separated(c Constraint, existing []Entity, x, z float64) bool {
	if c.MinSeparation <= 0 {
		return true
	}
	minSq := c.MinSeparation * c.MinSeparation
	for _, e := range existing {
		if e.Kind != c.Kind {
			continue
		}
		dx := e.Position.X() - x
		dz := e.Position.Z() - z
		if dx*dx+dz*dz < minSq {
			return false
		}
	}
	return true
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
