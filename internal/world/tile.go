package world

import (
	"fmt"
	"math"

	"github.com/OCharnyshevich/wildwalk/internal/placement"
	"github.com/OCharnyshevich/wildwalk/pkg/terrain"
)

// TileID identifies a tile on the streaming grid.
type TileID struct{ X, Z int }

func (id TileID) String() string { return fmt.Sprintf("%d:%d", id.X, id.Z) }

// Tile is a square terrain region. Its height grid is filled once, when the
// tile is generated; until then HeightAt reports no data.
type Tile struct {
	ID         TileID
	Bounds     placement.Bounds
	Iterations int
	Final      bool
	Ready      bool

	subdivisions int
	heights      []float64 // (subdivisions+1)^2, row-major by z
}

func newTile(id TileID, size float64, subdivisions int) *Tile {
	x0 := float64(id.X) * size
	z0 := float64(id.Z) * size
	return &Tile{
		ID:           id,
		Bounds:       placement.Bounds{XMin: x0, XMax: x0 + size, ZMin: z0, ZMax: z0 + size},
		subdivisions: subdivisions,
	}
}

// generate samples the field over the tile's grid at the given precision.
func (t *Tile) generate(field *terrain.Field, iterations int) {
	n := t.subdivisions + 1
	heights := make([]float64, n*n)
	stepX := (t.Bounds.XMax - t.Bounds.XMin) / float64(t.subdivisions)
	stepZ := (t.Bounds.ZMax - t.Bounds.ZMin) / float64(t.subdivisions)
	for iz := 0; iz < n; iz++ {
		z := t.Bounds.ZMin + float64(iz)*stepZ
		for ix := 0; ix < n; ix++ {
			x := t.Bounds.XMin + float64(ix)*stepX
			heights[iz*n+ix] = field.Elevation(x, z, iterations)
		}
	}
	t.heights = heights
	t.Iterations = iterations
	t.Final = iterations >= field.Config().MaxIterations
	t.Ready = true
}

// HeightAt bilinearly interpolates the sampled grid. It reports false outside
// the tile or before the tile is ready.
func (t *Tile) HeightAt(x, z float64) (float64, bool) {
	if !t.Ready || !t.Bounds.Contains(x, z) {
		return 0, false
	}
	n := t.subdivisions + 1
	fx := (x - t.Bounds.XMin) / (t.Bounds.XMax - t.Bounds.XMin) * float64(t.subdivisions)
	fz := (z - t.Bounds.ZMin) / (t.Bounds.ZMax - t.Bounds.ZMin) * float64(t.subdivisions)

	ix := min(int(math.Floor(fx)), t.subdivisions-1)
	iz := min(int(math.Floor(fz)), t.subdivisions-1)
	tx := fx - float64(ix)
	tz := fz - float64(iz)

	h00 := t.heights[iz*n+ix]
	h10 := t.heights[iz*n+ix+1]
	h01 := t.heights[(iz+1)*n+ix]
	h11 := t.heights[(iz+1)*n+ix+1]

	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return top + (bottom-top)*tz, true
}
