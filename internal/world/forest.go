package world

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/wildwalk/internal/placement"
	"github.com/OCharnyshevich/wildwalk/pkg/terrain"
)

// ForestConfig controls tree decoration of final tiles.
type ForestConfig struct {
	TreesPerTile     int     `json:"trees_per_tile" yaml:"trees_per_tile" toml:"trees_per_tile"`
	SpawnProbability float64 `json:"spawn_probability" yaml:"spawn_probability" toml:"spawn_probability"`
	MaxSlope         float64 `json:"max_slope" yaml:"max_slope" toml:"max_slope"`
	SlopeDistance    float64 `json:"slope_distance" yaml:"slope_distance" toml:"slope_distance"`
	MaxHeightRatio   float64 `json:"max_height_ratio" yaml:"max_height_ratio" toml:"max_height_ratio"` // of BaseAmplitude
}

// DefaultForestConfig returns the stock decoration density.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		TreesPerTile:     5,
		SpawnProbability: 0.3,
		MaxSlope:         0.5,
		SlopeDistance:    1,
		MaxHeightRatio:   0.3,
	}
}

// Forest places trees on tiles the first time they become final.
type Forest struct {
	cfg       ForestConfig
	tiles     *Tiles
	sampler   *placement.Sampler
	tree      placement.Constraint
	maxHeight float64
	rng       *rand.Rand
	log       *slog.Logger

	processed map[TileID]struct{}
	trees     map[TileID][]placement.Entity
	total     int
}

// NewForest subscribes a Forest to tiles. tree supplies the flatness and
// separation rules; cfg.MaxSlope overrides its slope limit.
func NewForest(tiles *Tiles, cfg ForestConfig, tree placement.Constraint, rng *rand.Rand, log *slog.Logger) *Forest {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	tree.Kind = placement.Tree
	tree.MaxSlope = cfg.MaxSlope
	if cfg.SlopeDistance > 0 {
		tree.FlatnessCheckDistance = cfg.SlopeDistance
	}

	f := &Forest{
		cfg:       cfg,
		tiles:     tiles,
		sampler:   &placement.Sampler{Field: tiles, Attempts: 1},
		tree:      tree,
		maxHeight: tiles.field.Config().BaseAmplitude * cfg.MaxHeightRatio,
		rng:       rng,
		log:       log,
		processed: make(map[TileID]struct{}),
		trees:     make(map[TileID][]placement.Entity),
	}
	tiles.OnTileReady(f.decorate)
	return f
}

// decorate places the tile's trees once it is final. Each slot gets one
// candidate; a rejected slot stays empty.
func (f *Forest) decorate(t *Tile) {
	if !t.Final {
		return
	}
	if _, done := f.processed[t.ID]; done {
		return
	}
	f.processed[t.ID] = struct{}{}

	var placed []placement.Entity
	for range f.cfg.TreesPerTile {
		if f.rng.Float64() > f.cfg.SpawnProbability {
			continue
		}
		res := f.sampler.SampleIn(f.tree, t.Bounds, placed, f.rng)
		if !res.Found {
			continue
		}
		y, ok := t.HeightAt(res.X, res.Z)
		if !ok {
			y = 0
		}
		if y < 0 || y > f.maxHeight {
			continue
		}
		placed = append(placed, placement.Entity{
			Kind:     placement.Tree,
			Position: mgl64.Vec3{res.X, y, res.Z},
			Yaw:      f.rng.Float64() * 2 * math.Pi,
		})
	}

	f.trees[t.ID] = placed
	f.total += len(placed)
	if f.log != nil {
		f.log.Debug("tile decorated", "tile", t.ID.String(), "trees", len(placed))
	}
}

// Processed reports whether tile id has been decorated.
func (f *Forest) Processed(id TileID) bool {
	_, ok := f.processed[id]
	return ok
}

// Trees returns the trees placed on tile id.
func (f *Forest) Trees(id TileID) []placement.Entity {
	return append([]placement.Entity(nil), f.trees[id]...)
}

// Count returns the number of trees placed so far.
func (f *Forest) Count() int { return f.total }

var _ terrain.HeightField = (*Tiles)(nil)
