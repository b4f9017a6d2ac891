package terrain

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceConfig() ElevationConfig {
	return ElevationConfig{
		Seed:              42,
		BaseFrequency:     0.01,
		BaseAmplitude:     50,
		Persistence:       0.5,
		Lacunarity:        2,
		Power:             1,
		ElevationOffset:   0,
		IterationsOffsets: [][2]float64{{0, 0}},
		MaxIterations:     4,
	}
}

func TestElevationGoldenValue(t *testing.T) {
	f := NewField(referenceConfig())

	// Every octave samples the simplex origin, where all corner
	// contributions vanish.
	assert.InDelta(t, 0.0, f.Elevation(0, 0, 4), 1e-9)
}

func TestElevationRecordedValues(t *testing.T) {
	f := NewField(referenceConfig())

	// Recorded from seed 42; any change to the shuffle, the gradient table
	// or the octave loop moves these.
	assert.InDelta(t, -1.4282269985831268, f.Elevation(123.4, -56.7, 4), 1e-9)
	assert.InDelta(t, -0.4989429043663877, f.Noise().Noise2D(1.3, -0.7), 1e-12)
	assert.InDelta(t, -0.2338986958165377, f.Noise().Noise2D(12.25, 7.5), 1e-12)
}

func TestElevationMatchesOctaveSum(t *testing.T) {
	cfg := referenceConfig()
	cfg.IterationsOffsets = [][2]float64{{0, 0}, {17.5, -3.25}, {-8, 41}}
	cfg.Power = 1.7
	cfg.ElevationOffset = 3
	f := NewField(cfg)
	n := NewNoise(int64(cfg.Seed))

	x, z := 123.4, -56.7
	var sum, norm float64
	freq, amp := cfg.BaseFrequency, 1.0
	for i := 0; i < 5; i++ {
		off := cfg.IterationsOffsets[i%3]
		sum += n.Noise2D(x*freq+off[0], z*freq+off[1]) * amp
		norm += amp
		amp *= cfg.Persistence
		freq *= cfg.Lacunarity
	}
	e := sum / norm
	want := math.Copysign(math.Pow(math.Abs(e), cfg.Power), e)*cfg.BaseAmplitude + cfg.ElevationOffset

	assert.InDelta(t, want, f.Elevation(x, z, 5), 1e-9)
}

func TestElevationDeterministicAcrossFields(t *testing.T) {
	a := NewField(DefaultElevationConfig())
	b := NewField(DefaultElevationConfig())
	rng := rand.New(rand.NewPCG(1337, 1))

	for i := 0; i < 1000; i++ {
		x := rng.Float64()*2_000_000 - 1_000_000
		z := rng.Float64()*2_000_000 - 1_000_000
		require.Equal(t, a.Height(x, z), b.Height(x, z), "location %d (%f,%f)", i, x, z)
	}
}

func TestElevationZeroIterationsReturnsOffset(t *testing.T) {
	cfg := referenceConfig()
	cfg.ElevationOffset = 7.5
	f := NewField(cfg)

	got := f.Elevation(12, -4, 0)
	assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
	assert.Equal(t, 7.5, got)

	cfg.Power = 0
	assert.Equal(t, 7.5, NewField(cfg).Elevation(12, -4, 0), "sign(0) keeps zero under power 0")
}

func TestElevationZeroPersistenceSingleOctave(t *testing.T) {
	cfg := referenceConfig()
	cfg.Persistence = 0
	f := NewField(cfg)

	got := f.Elevation(31.3, 7.9, 3)
	assert.False(t, math.IsNaN(got))
	want := f.Noise().Noise2D(31.3*cfg.BaseFrequency, 7.9*cfg.BaseFrequency) * cfg.BaseAmplitude
	assert.InDelta(t, want, got, 1e-9)
}

func TestElevationBoundedByAmplitude(t *testing.T) {
	cfg := referenceConfig()
	cfg.ElevationOffset = 10
	f := NewField(cfg)
	rng := rand.New(rand.NewPCG(3, 4))

	lo := cfg.ElevationOffset - cfg.BaseAmplitude
	hi := cfg.ElevationOffset + cfg.BaseAmplitude
	for it := 1; it <= 8; it++ {
		for i := 0; i < 500; i++ {
			x := rng.Float64()*10000 - 5000
			z := rng.Float64()*10000 - 5000
			e := f.Elevation(x, z, it)
			require.GreaterOrEqual(t, e, lo, "iterations=%d", it)
			require.LessOrEqual(t, e, hi, "iterations=%d", it)
		}
	}
}

func TestElevationContinuity(t *testing.T) {
	cfg := referenceConfig()
	cfg.BaseFrequency = 1 // integer coordinates sit on the noise lattice
	f := NewField(cfg)
	const eps = 1e-9

	for x := -30; x <= 30; x++ {
		for z := -30; z <= 30; z += 6 {
			fx, fz := float64(x), float64(z)
			diff := math.Abs(f.Elevation(fx+eps, fz, 4) - f.Elevation(fx, fz, 4))
			if diff > 2e4*eps {
				t.Fatalf("elevation jumps at (%d,%d): diff=%g", x, z, diff)
			}
		}
	}
}

func TestOffsetsCycleModuloLength(t *testing.T) {
	cfg := referenceConfig()
	cfg.IterationsOffsets = [][2]float64{{5, 5}}
	one := NewField(cfg)
	cfg.IterationsOffsets = [][2]float64{{5, 5}, {5, 5}, {5, 5}, {5, 5}}
	four := NewField(cfg)

	assert.Equal(t, four.Elevation(3, 9, 4), one.Elevation(3, 9, 4))
}

func TestEmptyOffsetsDefaultToOrigin(t *testing.T) {
	cfg := referenceConfig()
	cfg.IterationsOffsets = nil
	f := NewField(cfg)

	assert.Len(t, f.Config().IterationsOffsets, 1)
	assert.NotPanics(t, func() { f.Elevation(1, 2, 3) })
}

func TestIterationsForPrecision(t *testing.T) {
	f := NewField(DefaultElevationConfig())
	assert.Equal(t, 6, f.IterationsForPrecision(1))
	assert.Equal(t, 3, f.IterationsForPrecision(0.5))
	assert.Equal(t, 0, f.IterationsForPrecision(-1))
	assert.Equal(t, 6, f.IterationsForPrecision(4))
}

func TestSlopeAndDeviation(t *testing.T) {
	plane := HeightFunc(func(x, z float64) (float64, bool) { return 3*x + 4*z, true })

	s, ok := Slope(plane, 10, 10, 1)
	require.True(t, ok)
	assert.InDelta(t, 5.0, s, 1e-9)

	d, ok := MaxDeviation(plane, 0, 0, 2)
	require.True(t, ok)
	assert.InDelta(t, 8.0, d, 1e-9)

	holey := HeightFunc(func(x, z float64) (float64, bool) { return 0, x < 1 })
	_, ok = Slope(holey, 0.5, 0, 1)
	assert.False(t, ok)
	_, ok = MaxDeviation(holey, 0.5, 0, 1)
	assert.False(t, ok)
}
