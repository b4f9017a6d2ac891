package placement

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/wildwalk/pkg/terrain"
)

// Spawner owns the placed population, one list per kind. Lists are rebuilt
// wholesale whenever a kind is (re)populated. A Spawner has a single writer.
type Spawner struct {
	field       *terrain.Field
	sampler     *Sampler
	rng         *rand.Rand
	log         *slog.Logger
	constraints map[Kind]Constraint
	entities    map[Kind][]Entity
}

// NewSpawner creates a Spawner that samples against field and computes final
// heights from it. rng may be nil, in which case an unseeded source is used.
func NewSpawner(field *terrain.Field, constraints []Constraint, rng *rand.Rand, log *slog.Logger) *Spawner {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	sp := &Spawner{
		field:    field,
		sampler:  NewSampler(field, log),
		rng:      rng,
		log:      log,
		entities: make(map[Kind][]Entity),
	}
	sp.setConstraints(constraints)
	return sp
}

func (sp *Spawner) setConstraints(constraints []Constraint) {
	sp.constraints = make(map[Kind]Constraint, len(constraints))
	for _, c := range constraints {
		sp.constraints[c.Kind] = c
	}
}

// Constraint returns the rule set for kind.
func (sp *Spawner) Constraint(kind Kind) (Constraint, bool) {
	c, ok := sp.constraints[kind]
	return c, ok
}

// Populate discards the current entities of kind and places Count new ones.
// It returns how many placements hit the attempt cap. Trees are never placed
// here; tile decoration owns them and only reads the tree rule.
func (sp *Spawner) Populate(kind Kind) (exhausted int) {
	c, ok := sp.constraints[kind]
	if !ok || c.Count <= 0 || kind == Tree {
		delete(sp.entities, kind)
		return 0
	}

	placed := make([]Entity, 0, c.Count)
	for range c.Count {
		res := sp.sampler.Sample(c, placed, sp.rng)
		if !res.Found {
			exhausted++
		}
		placed = append(placed, sp.entityAt(c, res.X, res.Z))
	}
	sp.entities[kind] = placed

	if sp.log != nil {
		sp.log.Info("population placed", "kind", kind.String(), "count", len(placed), "exhausted", exhausted)
	}
	return exhausted
}

// PopulateAll populates every configured kind.
func (sp *Spawner) PopulateAll() (exhausted int) {
	for _, kind := range Kinds {
		exhausted += sp.Populate(kind)
	}
	return exhausted
}

// Reconfigure replaces the rule table and rebuilds every population.
func (sp *Spawner) Reconfigure(constraints []Constraint) (exhausted int) {
	sp.setConstraints(constraints)
	sp.entities = make(map[Kind][]Entity)
	return sp.PopulateAll()
}

// Entities returns a copy of the placed entities of kind.
func (sp *Spawner) Entities(kind Kind) []Entity {
	return append([]Entity(nil), sp.entities[kind]...)
}

// Count returns the number of placed entities of kind.
func (sp *Spawner) Count(kind Kind) int {
	return len(sp.entities[kind])
}

// SpawnPoint finds a standing position for kind near the origin without
// recording it.
func (sp *Spawner) SpawnPoint(kind Kind) (Entity, Result) {
	c, ok := sp.constraints[kind]
	if !ok {
		c = Constraint{Kind: kind}
	}
	res := sp.sampler.Sample(c, nil, sp.rng)
	return sp.entityAt(c, res.X, res.Z), res
}

func (sp *Spawner) entityAt(c Constraint, x, z float64) Entity {
	y := sp.field.Height(x, z) + c.VerticalOffset
	return Entity{
		Kind:     c.Kind,
		Position: mgl64.Vec3{x, y, z},
		Yaw:      sp.rng.Float64() * 2 * math.Pi,
	}
}
