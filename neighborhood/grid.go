package neighborhood

import (
	"math"
	"slices"

	"github.com/katalvlaran/dbscan/points"
)

// maxCellCoord bounds cell coordinates so that floor(x/cell) stays exact
// enough for the 3×3 probe to cover every pair within eps.
const maxCellCoord = 1 << 50

// cellOffsets is the 8-connected neighborhood plus the center cell.
var cellOffsets = [9][2]int64{
	{0, 0}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

type cellKey struct {
	x, y int64
}

// gridIndex buckets point IDs into square cells of side 2·eps. Two points
// within eps of each other always land in the same or adjacent cells.
// Read-only after construction, so rows can be evaluated concurrently.
type gridIndex struct {
	store *points.Store
	eps   float64
	cells map[cellKey][]int
	keys  []cellKey // indexed by point ID
}

// newGridIndex returns nil when the coordinates cannot be bucketed exactly.
func newGridIndex(store *points.Store, eps float64) *gridIndex {
	side := 2 * eps
	if math.IsInf(side, 0) {
		return nil
	}
	n := store.Len()
	g := &gridIndex{
		store: store,
		eps:   eps,
		cells: make(map[cellKey][]int),
		keys:  make([]cellKey, n+1),
	}
	for id := 1; id <= n; id++ {
		p := store.At(id)
		cx, cy := math.Floor(p.X/side), math.Floor(p.Y/side)
		if math.Abs(cx) > maxCellCoord || math.Abs(cy) > maxCellCoord {
			return nil
		}
		k := cellKey{x: int64(cx), y: int64(cy)}
		g.keys[id] = k
		g.cells[k] = append(g.cells[k], id)
	}
	return g
}

// row probes the 3×3 block around p and returns matches in ascending order.
func (g *gridIndex) row(p int) []int {
	k := g.keys[p]
	pp := g.store.At(p)
	var out []int
	for _, d := range cellOffsets {
		for _, q := range g.cells[cellKey{x: k.x + d[0], y: k.y + d[1]}] {
			if q == p {
				continue
			}
			if pp.DistanceTo(g.store.At(q)) <= g.eps {
				out = append(out, q)
			}
		}
	}
	slices.Sort(out)
	return out
}
