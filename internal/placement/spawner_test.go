package placement

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/wildwalk/pkg/terrain"
)

func testField() *terrain.Field {
	cfg := terrain.DefaultElevationConfig()
	cfg.BaseAmplitude = 4
	cfg.Power = 1
	return terrain.NewField(cfg)
}

func TestPopulatePlacesCountWithFieldHeight(t *testing.T) {
	field := testField()
	sp := NewSpawner(field, DefaultConstraints(), rand.New(rand.NewPCG(1, 1)), discardLogger())

	sp.PopulateAll()
	for _, c := range DefaultConstraints() {
		ents := sp.Entities(c.Kind)
		require.Len(t, ents, c.Count, "kind %s", c.Kind)
		for _, e := range ents {
			assert.Equal(t, c.Kind, e.Kind)
			assert.True(t, Square(c.SpawnRange).Contains(e.Position.X(), e.Position.Z()))
			want := field.Height(e.Position.X(), e.Position.Z()) + c.VerticalOffset
			assert.InDelta(t, want, e.Position.Y(), 1e-9)
		}
	}
}

func TestPopulateReplacesWholesale(t *testing.T) {
	sp := NewSpawner(testField(), DefaultConstraints(), rand.New(rand.NewPCG(2, 2)), discardLogger())
	sp.Populate(Cow)
	first := sp.Entities(Cow)

	sp.Populate(Cow)
	second := sp.Entities(Cow)

	require.Len(t, second, len(first))
	assert.NotEqual(t, first, second)
}

func TestReconfigureRebuildsEveryKind(t *testing.T) {
	sp := NewSpawner(testField(), DefaultConstraints(), rand.New(rand.NewPCG(3, 3)), discardLogger())
	sp.PopulateAll()
	require.Equal(t, 8, sp.Count(Cow))

	constraints := DefaultConstraints()
	for i := range constraints {
		if constraints[i].Kind == Cow {
			constraints[i].Count = 2
		}
		if constraints[i].Kind == Wolf {
			constraints[i].Count = 0
		}
	}
	sp.Reconfigure(constraints)

	assert.Equal(t, 2, sp.Count(Cow))
	assert.Equal(t, 0, sp.Count(Wolf))
	assert.Equal(t, 6, sp.Count(Bird))
}

func TestEntitiesReturnsCopy(t *testing.T) {
	sp := NewSpawner(testField(), DefaultConstraints(), rand.New(rand.NewPCG(4, 4)), discardLogger())
	sp.Populate(Horse)
	ents := sp.Entities(Horse)
	ents[0].Kind = Bird
	assert.Equal(t, Horse, sp.Entities(Horse)[0].Kind)
}

func TestSpawnPointDoesNotRecord(t *testing.T) {
	sp := NewSpawner(testField(), DefaultConstraints(), rand.New(rand.NewPCG(5, 5)), discardLogger())
	e, res := sp.SpawnPoint(Player)
	assert.Equal(t, Player, e.Kind)
	assert.Equal(t, res.X, e.Position.X())
	assert.Equal(t, 0, sp.Count(Player))
}

func TestPopulateNeverPlacesTrees(t *testing.T) {
	constraints := DefaultConstraints()
	for i := range constraints {
		if constraints[i].Kind == Tree {
			constraints[i].Count = 3
			constraints[i].SpawnRange = 10
		}
	}
	sp := NewSpawner(testField(), constraints, rand.New(rand.NewPCG(6, 6)), discardLogger())

	sp.PopulateAll()
	assert.Zero(t, sp.Count(Tree))
	sp.Populate(Tree)
	assert.Zero(t, sp.Count(Tree))

	c, ok := sp.Constraint(Tree)
	require.True(t, ok)
	assert.Equal(t, 3, c.Count)
}
