package terrain

import "hash/fnv"

// grad2 are the gradient directions used by 2D simplex noise.
var grad2 = [12][2]float64{
	{1, 1},
	{-1, 1},
	{1, -1},
	{-1, -1},
	{1, 0},
	{-1, 0},
	{1, 0},
	{-1, 0},
	{0, 1},
	{0, -1},
	{0, 1},
	{0, -1},
}

// Noise is a seeded 2D simplex noise source. It is immutable after
// construction and safe for concurrent use.
type Noise struct {
	seed int64
	perm [512]uint8
}

// NewNoise builds a noise source whose permutation table is derived from seed.
func NewNoise(seed int64) *Noise {
	n := &Noise{seed: seed}

	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}

	// Fisher-Yates driven by a 64-bit LCG.
	s := uint64(seed)
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int((s >> 33) % uint64(i+1))
		p[i], p[j] = p[j], p[i]
	}

	for i := range n.perm {
		n.perm[i] = p[i&255]
	}
	return n
}

// NewNoiseFromString builds a noise source from a textual seed, read the
// same way as Seed values in config files.
func NewNoiseFromString(seed string) *Noise {
	return NewNoise(int64(ParseSeed(seed)))
}

// HashSeed maps a textual world seed onto an integer seed.
func HashSeed(seed string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return int64(h.Sum64())
}

// Seed returns the seed the permutation table was built from.
func (n *Noise) Seed() int64 { return n.seed }

// Noise2D returns simplex noise at (x, z), roughly in [-1, 1].
func (n *Noise) Noise2D(x, z float64) float64 {
	const (
		f2 = 0.36602540378443864676 // (sqrt(3) - 1) / 2
		g2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
	)

	s := (x + z) * f2
	i := fastFloor(x + s)
	j := fastFloor(z + s)

	t := float64(i+j) * g2
	x0 := x - (float64(i) - t)
	z0 := z - (float64(j) - t)

	var i1, j1 int
	if x0 > z0 {
		i1 = 1
	} else {
		j1 = 1
	}

	x1 := x0 - float64(i1) + g2
	z1 := z0 - float64(j1) + g2
	x2 := x0 - 1.0 + 2.0*g2
	z2 := z0 - 1.0 + 2.0*g2

	ii := i & 255
	jj := j & 255
	gi0 := int(n.perm[ii+int(n.perm[jj])]) % 12
	gi1 := int(n.perm[ii+i1+int(n.perm[jj+j1])]) % 12
	gi2 := int(n.perm[ii+1+int(n.perm[jj+1])]) % 12

	return 70.0 * (corner(gi0, x0, z0) + corner(gi1, x1, z1) + corner(gi2, x2, z2))
}

// corner is the radial falloff contribution of one simplex vertex.
func corner(gi int, x, z float64) float64 {
	t := 0.5 - x*x - z*z
	if t < 0 {
		return 0
	}
	t *= t
	g := grad2[gi]
	return t * t * (g[0]*x + g[1]*z)
}

func fastFloor(x float64) int {
	xi := int(x)
	if x < float64(xi) {
		return xi - 1
	}
	return xi
}
