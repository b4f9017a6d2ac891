package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/wildwalk/internal/placement"
	"github.com/OCharnyshevich/wildwalk/pkg/terrain"
)

func testOptions() Options {
	return Options{
		Elevation:     terrain.DefaultElevationConfig(),
		Tiles:         smallTileConfig(),
		Forest:        DefaultForestConfig(),
		Constraints:   placement.DefaultConstraints(),
		PlacementSeed: 42,
	}
}

func TestNewWorldPopulatesAnimals(t *testing.T) {
	w := NewWorld(testOptions(), discardLogger())

	snap := w.Snapshot()
	assert.Len(t, snap.Entities["cow"], 8)
	assert.Len(t, snap.Entities["bird"], 6)
	assert.NotContains(t, snap.Entities, "player")
}

func TestPreGenerateGroundsPlayer(t *testing.T) {
	w := NewWorld(testOptions(), discardLogger())
	count := w.PreGenerate()
	assert.Equal(t, 9, count)

	pos := w.Player().Position
	h, ok := w.StandingHeight(pos.X(), pos.Z())
	require.True(t, ok)
	assert.InDelta(t, h, pos.Y(), 1e-9)
}

func TestTickStreamsAroundPlayer(t *testing.T) {
	w := NewWorld(testOptions(), discardLogger())
	w.PreGenerate()
	start := w.Tiles().TileAt(w.Player().Position.X(), w.Player().Position.Z())

	for range 200 {
		w.Tick(0.05, Input{Forward: true, Boost: true})
	}

	pos := w.Player().Position
	now := w.Tiles().TileAt(pos.X(), pos.Z())
	assert.NotEqual(t, start, now)
	assert.Equal(t, now, w.Tiles().Relevant()[0])
	assert.Equal(t, int64(200), w.Snapshot().Tick)
}

func TestStandingHeightAgreesWithField(t *testing.T) {
	w := NewWorld(testOptions(), discardLogger())
	w.PreGenerate()

	tile, ok := w.Tiles().Tile(w.Tiles().Relevant()[0])
	require.True(t, ok)
	x, z := tile.Bounds.XMin, tile.Bounds.ZMin
	h, ok := w.StandingHeight(x, z)
	require.True(t, ok)
	assert.InDelta(t, w.Elevation(x, z), h, 1e-9)
}

func TestReconfigureRepopulates(t *testing.T) {
	w := NewWorld(testOptions(), discardLogger())
	constraints := placement.DefaultConstraints()
	for i := range constraints {
		constraints[i].Count = 1
	}
	w.Reconfigure(constraints)

	for _, k := range placement.Kinds {
		want := 1
		if k == placement.Tree {
			want = 0
		}
		assert.Equal(t, want, w.Spawner().Count(k), "kind %s", k)
	}
}
