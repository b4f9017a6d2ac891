package terrain

import "math"

// ElevationConfig holds the world-generation parameters of the height field.
type ElevationConfig struct {
	Seed              Seed         `json:"seed" yaml:"seed" toml:"seed"`
	Lacunarity        float64      `json:"lacunarity" yaml:"lacunarity" toml:"lacunarity"`
	Persistence       float64      `json:"persistence" yaml:"persistence" toml:"persistence"`
	MaxIterations     int          `json:"max_iterations" yaml:"max_iterations" toml:"max_iterations"`
	BaseFrequency     float64      `json:"base_frequency" yaml:"base_frequency" toml:"base_frequency"`
	BaseAmplitude     float64      `json:"base_amplitude" yaml:"base_amplitude" toml:"base_amplitude"`
	Power             float64      `json:"power" yaml:"power" toml:"power"`
	ElevationOffset   float64      `json:"elevation_offset" yaml:"elevation_offset" toml:"elevation_offset"`
	IterationsOffsets [][2]float64 `json:"iterations_offsets" yaml:"iterations_offsets" toml:"iterations_offsets"`
}

// DefaultElevationConfig returns the parameters the game ships with.
func DefaultElevationConfig() ElevationConfig {
	return ElevationConfig{
		Seed:            1337,
		Lacunarity:      2.05,
		Persistence:     0.45,
		MaxIterations:   6,
		BaseFrequency:   0.003,
		BaseAmplitude:   180,
		Power:           2,
		ElevationOffset: 1,
		IterationsOffsets: [][2]float64{
			{0, 0},
			{112.5, 43.25},
			{-67.125, 201.5},
			{301.75, -19.5},
			{-145.25, -88.75},
			{58.5, 377.125},
		},
	}
}

// HeightField answers terrain height queries. The boolean is false when no
// elevation data exists at (x, z); that is distinct from a valid height of 0.
type HeightField interface {
	HeightAt(x, z float64) (float64, bool)
}

// Field is a multi-octave elevation function over a single noise source.
// It holds no mutable state and every call site sees the same terrain.
type Field struct {
	cfg   ElevationConfig
	noise *Noise
}

// NewField builds the field and its noise source from cfg.Seed.
func NewField(cfg ElevationConfig) *Field {
	if len(cfg.IterationsOffsets) == 0 {
		cfg.IterationsOffsets = [][2]float64{{0, 0}}
	} else {
		offsets := make([][2]float64, len(cfg.IterationsOffsets))
		copy(offsets, cfg.IterationsOffsets)
		cfg.IterationsOffsets = offsets
	}
	return &Field{cfg: cfg, noise: NewNoise(int64(cfg.Seed))}
}

// Config returns a copy of the field's configuration.
func (f *Field) Config() ElevationConfig {
	cfg := f.cfg
	cfg.IterationsOffsets = append([][2]float64(nil), f.cfg.IterationsOffsets...)
	return cfg
}

// Noise exposes the underlying noise source.
func (f *Field) Noise() *Noise { return f.noise }

// Elevation sums iterations octaves of noise at (x, z) and shapes the result.
// A negative iterations count is treated as zero.
func (f *Field) Elevation(x, z float64, iterations int) float64 {
	var elevation, normalisation float64
	frequency := f.cfg.BaseFrequency
	amplitude := 1.0
	offsets := f.cfg.IterationsOffsets

	for i := 0; i < iterations; i++ {
		off := offsets[i%len(offsets)]
		n := f.noise.Noise2D(x*frequency+off[0], z*frequency+off[1])
		elevation += n * amplitude

		normalisation += amplitude
		amplitude *= f.cfg.Persistence
		frequency *= f.cfg.Lacunarity
	}

	if normalisation == 0 {
		normalisation = 1
	}
	elevation /= normalisation
	elevation = signedPow(elevation, f.cfg.Power)
	elevation *= f.cfg.BaseAmplitude
	elevation += f.cfg.ElevationOffset

	return elevation
}

// Height evaluates the field at full precision.
func (f *Field) Height(x, z float64) float64 {
	return f.Elevation(x, z, f.cfg.MaxIterations)
}

// HeightAt implements HeightField. The analytic field always has data.
func (f *Field) HeightAt(x, z float64) (float64, bool) {
	return f.Height(x, z), true
}

// IterationsForPrecision maps a precision in [0, 1] to an octave count.
func (f *Field) IterationsForPrecision(precision float64) int {
	it := int(math.Round(float64(f.cfg.MaxIterations) * precision))
	if it < 0 {
		return 0
	}
	if it > f.cfg.MaxIterations {
		return f.cfg.MaxIterations
	}
	return it
}

// signedPow raises |v| to p and restores the sign; zero stays zero.
func signedPow(v, p float64) float64 {
	switch {
	case v > 0:
		return math.Pow(v, p)
	case v < 0:
		return -math.Pow(-v, p)
	default:
		return 0
	}
}
