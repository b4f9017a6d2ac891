package world

import (
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/OCharnyshevich/wildwalk/pkg/terrain"
)

// TileConfig controls the streaming grid around the camera. Radius is the
// number of tiles kept on each side of the camera tile; tiles within
// FinalRadius are generated at full precision and become final.
type TileConfig struct {
	Size            float64 `json:"size" yaml:"size" toml:"size"`
	Subdivisions    int     `json:"subdivisions" yaml:"subdivisions" toml:"subdivisions"`
	Radius          int     `json:"radius" yaml:"radius" toml:"radius"`
	FinalRadius     int     `json:"final_radius" yaml:"final_radius" toml:"final_radius"`
	FarPrecision    float64 `json:"far_precision" yaml:"far_precision" toml:"far_precision"`
	GeneratePerTick int     `json:"generate_per_tick" yaml:"generate_per_tick" toml:"generate_per_tick"`
}

// DefaultTileConfig returns sensible streaming defaults.
func DefaultTileConfig() TileConfig {
	return TileConfig{
		Size:            64,
		Subdivisions:    32,
		Radius:          3,
		FinalRadius:     1,
		FarPrecision:    0.5,
		GeneratePerTick: 4,
	}
}

// Tiles tracks the terrain tiles relevant to the camera. Update is driven by
// a single tick loop; height queries may come from anywhere.
type Tiles struct {
	mu      sync.RWMutex
	field   *terrain.Field
	cfg     TileConfig
	log     *slog.Logger
	tiles   map[TileID]*Tile
	pending map[TileID]int // tile → iterations wanted
	camera  TileID

	subscribers []func(*Tile)
}

// NewTiles creates an empty tracker over field.
func NewTiles(field *terrain.Field, cfg TileConfig, log *slog.Logger) *Tiles {
	if cfg.Size <= 0 {
		cfg.Size = DefaultTileConfig().Size
	}
	if cfg.Subdivisions <= 0 {
		cfg.Subdivisions = 1
	}
	if cfg.GeneratePerTick <= 0 {
		cfg.GeneratePerTick = 1
	}
	return &Tiles{
		field:   field,
		cfg:     cfg,
		log:     log,
		tiles:   make(map[TileID]*Tile),
		pending: make(map[TileID]int),
	}
}

// OnTileReady subscribes fn to tile readiness. Tiles that are already ready
// are replayed to fn immediately.
func (ts *Tiles) OnTileReady(fn func(*Tile)) {
	ts.mu.Lock()
	ts.subscribers = append(ts.subscribers, fn)
	var ready []*Tile
	for _, t := range ts.tiles {
		if t.Ready {
			ready = append(ready, t)
		}
	}
	ts.mu.Unlock()

	slices.SortFunc(ready, func(a, b *Tile) int { return compareIDs(a.ID, b.ID) })
	for _, t := range ready {
		fn(t)
	}
}

// TileAt returns the tile id covering (x, z).
func (ts *Tiles) TileAt(x, z float64) TileID {
	return TileID{X: int(math.Floor(x / ts.cfg.Size)), Z: int(math.Floor(z / ts.cfg.Size))}
}

// Update runs one streaming tick for a camera at (x, z). It returns the
// number of tiles that became ready during the tick.
func (ts *Tiles) Update(x, z float64) int {
	ts.mu.Lock()
	ts.camera = ts.TileAt(x, z)
	ts.retireFar()
	ts.requestNear()
	ready := ts.generatePending()
	subs := slices.Clone(ts.subscribers)
	ts.mu.Unlock()

	for _, t := range ready {
		for _, fn := range subs {
			fn(t)
		}
	}
	return len(ready)
}

func (ts *Tiles) retireFar() {
	for id := range ts.tiles {
		if chebyshev(id, ts.camera) > ts.cfg.Radius+1 {
			delete(ts.tiles, id)
			delete(ts.pending, id)
			if ts.log != nil {
				ts.log.Debug("tile retired", "tile", id.String())
			}
		}
	}
}

func (ts *Tiles) requestNear() {
	r := ts.cfg.Radius
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			id := TileID{X: ts.camera.X + dx, Z: ts.camera.Z + dz}
			want := ts.iterationsFor(id)

			t, ok := ts.tiles[id]
			if !ok {
				t = newTile(id, ts.cfg.Size, ts.cfg.Subdivisions)
				ts.tiles[id] = t
			}
			if !t.Ready || t.Iterations < want {
				ts.pending[id] = want
			}
		}
	}
}

func (ts *Tiles) iterationsFor(id TileID) int {
	if chebyshev(id, ts.camera) <= ts.cfg.FinalRadius {
		return ts.field.IterationsForPrecision(1)
	}
	return ts.field.IterationsForPrecision(ts.cfg.FarPrecision)
}

// generatePending builds up to GeneratePerTick tiles, nearest first.
func (ts *Tiles) generatePending() []*Tile {
	ids := make([]TileID, 0, len(ts.pending))
	for id := range ts.pending {
		ids = append(ids, id)
	}
	ts.sortByDistance(ids)

	var ready []*Tile
	for _, id := range ids {
		if len(ready) >= ts.cfg.GeneratePerTick {
			break
		}
		t := ts.tiles[id]
		t.generate(ts.field, ts.pending[id])
		delete(ts.pending, id)
		ready = append(ready, t)

		if ts.log != nil {
			ts.log.Debug("tile ready", "tile", id.String(), "iterations", t.Iterations, "final", t.Final)
		}
	}
	return ready
}

// HeightAt implements terrain.HeightField over ready tiles.
func (ts *Tiles) HeightAt(x, z float64) (float64, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	t, ok := ts.tiles[ts.TileAt(x, z)]
	if !ok {
		return 0, false
	}
	return t.HeightAt(x, z)
}

// Tile returns the live tile with id.
func (ts *Tiles) Tile(id TileID) (*Tile, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	t, ok := ts.tiles[id]
	return t, ok
}

// Relevant returns the live tile ids, nearest to the camera first.
func (ts *Tiles) Relevant() []TileID {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	ids := make([]TileID, 0, len(ts.tiles))
	for id := range ts.tiles {
		ids = append(ids, id)
	}
	ts.sortByDistance(ids)
	return ids
}

// Pending returns how many tiles still wait for generation.
func (ts *Tiles) Pending() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.pending)
}

func (ts *Tiles) sortByDistance(ids []TileID) {
	slices.SortFunc(ids, func(a, b TileID) int {
		da, db := chebyshev(a, ts.camera), chebyshev(b, ts.camera)
		if da != db {
			return da - db
		}
		return compareIDs(a, b)
	})
}

func compareIDs(a, b TileID) int {
	if a.X != b.X {
		return a.X - b.X
	}
	return a.Z - b.Z
}

func chebyshev(a, b TileID) int {
	return max(abs(a.X-b.X), abs(a.Z-b.Z))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
