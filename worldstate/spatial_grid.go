package worldstate

import (
	"sort"

	"github.com/voidmarch/simcore/core"
)

// Each bucket covers cellSize x cellSize cells; spec.md §4.4 targets an
// average bucket occupancy of 1-4 entities, tuned via NewSpatialGrid's
// cellSize parameter rather than a fixed per-cell cap — a query here must
// never miss an entity (spec.md §8 invariant 8), so buckets grow
// unbounded rather than soft-clipping and silently dropping occupants.
type gridCell struct {
	entities []core.Entity
}

// SpatialGrid is a uniform grid over the map used by building placement,
// combat target acquisition, and AI threat assessment (spec.md §4.4).
// Insert/remove are O(1) amortized; Move is one remove plus one insert.
type SpatialGrid struct {
	width, height int
	cellSize      int
	cells         []gridCell
}

// NewSpatialGrid creates a grid covering a mapWidth x mapHeight cell area,
// bucketed at cellSize cells per bucket edge.
func NewSpatialGrid(mapWidth, mapHeight, cellSize int) *SpatialGrid {
	if cellSize < 1 {
		cellSize = 1
	}
	w := (mapWidth + cellSize - 1) / cellSize
	h := (mapHeight + cellSize - 1) / cellSize
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &SpatialGrid{
		width:    w,
		height:   h,
		cellSize: cellSize,
		cells:    make([]gridCell, w*h),
	}
}

func (g *SpatialGrid) bucket(x, y int) (int, int) {
	return x / g.cellSize, y / g.cellSize
}

func (g *SpatialGrid) index(bx, by int) (int, bool) {
	if bx < 0 || bx >= g.width || by < 0 || by >= g.height {
		return 0, false
	}
	return by*g.width + bx, true
}

// Add inserts an entity at cell (x, y). No-op if out of bounds.
func (g *SpatialGrid) Add(e core.Entity, x, y int) {
	bx, by := g.bucket(x, y)
	idx, ok := g.index(bx, by)
	if !ok {
		return
	}
	g.cells[idx].entities = append(g.cells[idx].entities, e)
}

// Remove deletes an entity previously added at (x, y). O(k) in bucket size.
func (g *SpatialGrid) Remove(e core.Entity, x, y int) {
	bx, by := g.bucket(x, y)
	idx, ok := g.index(bx, by)
	if !ok {
		return
	}
	cell := &g.cells[idx]
	for i, id := range cell.entities {
		if id == e {
			cell.entities[i] = cell.entities[len(cell.entities)-1]
			cell.entities = cell.entities[:len(cell.entities)-1]
			return
		}
	}
}

// Move relocates an entity from (oldX, oldY) to (newX, newY).
func (g *SpatialGrid) Move(e core.Entity, oldX, oldY, newX, newY int) {
	obx, oby := g.bucket(oldX, oldY)
	nbx, nby := g.bucket(newX, newY)
	if obx == nbx && oby == nby {
		return
	}
	g.Remove(e, oldX, oldY)
	g.Add(e, newX, newY)
}

// QueryRect returns, in ascending entity-id order, every entity whose
// inserted cell lies within the rectangle [x0,x1) x [y0,y1) (cell
// coordinates, not bucket coordinates). Determinism per spec.md §4.4: "Grid
// queries return candidate ids likewise sorted."
func (g *SpatialGrid) QueryRect(x0, y0, x1, y1 int) []core.Entity {
	bx0, by0 := g.bucket(x0, y0)
	bx1, by1 := g.bucket(x1-1, y1-1)

	seen := make(map[core.Entity]struct{})
	for by := by0; by <= by1; by++ {
		for bx := bx0; bx <= bx1; bx++ {
			idx, ok := g.index(bx, by)
			if !ok {
				continue
			}
			for _, e := range g.cells[idx].entities {
				seen[e] = struct{}{}
			}
		}
	}
	return sortedEntities(seen)
}

// QueryRadius returns, in ascending entity-id order, every entity in a cell
// within radius (inclusive) of (cx, cy). Callers needing an exact circular
// cut filter the result further using fixedpoint distance on the Transform
// component — this only prunes by bucket, returning candidate ids rather
// than an exact result set.
func (g *SpatialGrid) QueryRadius(cx, cy, radius int) []core.Entity {
	return g.QueryRect(cx-radius, cy-radius, cx+radius+1, cy+radius+1)
}

func sortedEntities(set map[core.Entity]struct{}) []core.Entity {
	result := make([]core.Entity, 0, len(set))
	for e := range set {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Clear empties every bucket, preserving allocated capacity.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].entities = g.cells[i].entities[:0]
	}
}
