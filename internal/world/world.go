package world

import (
	"log/slog"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/wildwalk/internal/placement"
	"github.com/OCharnyshevich/wildwalk/pkg/terrain"
)

// Options carries everything needed to build a World.
type Options struct {
	Elevation   terrain.ElevationConfig
	Tiles       TileConfig
	Forest      ForestConfig
	Constraints []placement.Constraint
	// PlacementSeed seeds the placement RNG; 0 means unseeded.
	PlacementSeed uint64
}

// World composes the height field, tile streaming, decoration, animal
// population and the player. All collaborators are owned, not global.
type World struct {
	log     *slog.Logger
	field   *terrain.Field
	tiles   *Tiles
	forest  *Forest
	spawner *placement.Spawner
	player  *Player

	cameraTheta float64
	tick        int64
}

// NewWorld builds a world, populates the animals and spawns the player.
func NewWorld(opts Options, log *slog.Logger) *World {
	rng := placementRNG(opts.PlacementSeed)
	field := terrain.NewField(opts.Elevation)
	tiles := NewTiles(field, opts.Tiles, log)
	spawner := placement.NewSpawner(field, opts.Constraints, rng, log)

	treeRule, ok := spawner.Constraint(placement.Tree)
	if !ok {
		treeRule = placement.Constraint{Kind: placement.Tree}
	}
	forest := NewForest(tiles, opts.Forest, treeRule, rng, log)

	spawner.PopulateAll()
	spawn, _ := spawner.SpawnPoint(placement.Player)

	w := &World{
		log:     log,
		field:   field,
		tiles:   tiles,
		forest:  forest,
		spawner: spawner,
		player:  NewPlayer(tiles, spawn.Position.X(), spawn.Position.Z()),
	}
	if log != nil {
		log.Info("world created",
			"seed", opts.Elevation.Seed,
			"spawnX", spawn.Position.X(),
			"spawnZ", spawn.Position.Z(),
		)
	}
	return w
}

func placementRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// PreGenerate streams tiles around the player until none are pending and
// returns how many tiles became ready.
func (w *World) PreGenerate() int {
	pos := w.player.Position
	count := w.tiles.Update(pos.X(), pos.Z())
	for w.tiles.Pending() > 0 {
		count += w.tiles.Update(pos.X(), pos.Z())
	}
	w.player.Update(0, Input{}, w.cameraTheta)
	return count
}

// Tick advances the world by dt seconds: the player moves, then the tiles
// around the player stream in.
func (w *World) Tick(dt float64, in Input) {
	w.tick++
	w.player.Update(dt, in, w.cameraTheta)
	pos := w.player.Position
	w.tiles.Update(pos.X(), pos.Z())
}

// SetCameraTheta sets the camera yaw that movement input is relative to.
func (w *World) SetCameraTheta(theta float64) { w.cameraTheta = theta }

// StandingHeight returns the streamed terrain height at (x, z). ok is false
// where no ready tile covers the point.
func (w *World) StandingHeight(x, z float64) (float64, bool) {
	return w.tiles.HeightAt(x, z)
}

// Elevation evaluates the analytic field at full precision.
func (w *World) Elevation(x, z float64) float64 {
	return w.field.Height(x, z)
}

// Reconfigure replaces the placement rules and repopulates every kind.
func (w *World) Reconfigure(constraints []placement.Constraint) int {
	exhausted := w.spawner.Reconfigure(constraints)
	if w.log != nil {
		w.log.Info("population reconfigured", "exhausted", exhausted)
	}
	return exhausted
}

func (w *World) Field() *terrain.Field       { return w.field }
func (w *World) Tiles() *Tiles               { return w.tiles }
func (w *World) Forest() *Forest             { return w.forest }
func (w *World) Spawner() *placement.Spawner { return w.spawner }
func (w *World) Player() *Player             { return w.player }

// Snapshot summarizes the world state.
type Snapshot struct {
	Tick     int64                         `json:"tick"`
	Player   mgl64.Vec3                    `json:"player"`
	Tiles    int                           `json:"tiles"`
	Trees    int                           `json:"trees"`
	Entities map[string][]placement.Entity `json:"entities"`
}

// Snapshot returns the current state with copies of every population.
func (w *World) Snapshot() Snapshot {
	ents := make(map[string][]placement.Entity)
	for _, k := range placement.Kinds {
		if list := w.spawner.Entities(k); len(list) > 0 {
			ents[k.String()] = list
		}
	}
	return Snapshot{
		Tick:     w.tick,
		Player:   w.player.Position,
		Tiles:    len(w.tiles.Relevant()),
		Trees:    w.forest.Count(),
		Entities: ents,
	}
}
