// Package nav is the Pathfinding & Navmesh responsibility from spec.md
// §4.6: a grid-based flow field for steering crowds toward a shared goal,
// a footprint-aware passability grid for multi-cell units/buildings, and a
// fallback point-to-point pathfinder (weighted A*, Bresenham-smoothed) for
// single-unit queries where a full field recompute isn't worth it.
//
// There is no triangulated navmesh here: spec.md §4.6 itself notes the
// navmesh and the fallback grid pathfinder coexist with no fully specified
// governance rule, so this package treats the grid (flow field + A*) as
// authoritative for every unit rather than splitting behavior across two
// unreconciled path sources.
package nav

// Direction constants for flow field. Index into dirVectors: N=0, NE=1,
// E=2, SE=3, S=4, SW=5, W=6, NW=7.
const (
	DirNone   int8 = -1 // Blocked or unreachable
	DirTarget int8 = -2 // At target cell
	DirN      int8 = 0
	DirNE     int8 = 1
	DirE      int8 = 2
	DirSE     int8 = 3
	DirS      int8 = 4
	DirSW     int8 = 5
	DirW      int8 = 6
	DirNW     int8 = 7
	dirCount  int8 = 8
)

// dirVectors is ordered N, NE, E, SE, S, SW, W, NW.
var dirVectors = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Weighted edge costs: cardinal = 10, diagonal = 14 (≈10√2), approximating
// Euclidean distance so a diagonal-heavy path doesn't look artificially
// short next to a cardinal-heavy one of the same Chebyshev length.
const (
	costCardinal    = 10
	costDiagonal    = 14
	costUnreachable = 1<<30 - 1
)

var dirCosts = [8]int{
	costCardinal, costDiagonal, costCardinal, costDiagonal,
	costCardinal, costDiagonal, costCardinal, costDiagonal,
}

type heapEntry struct {
	idx  int
	dist int
}

type minHeap []heapEntry

func (h *minHeap) push(e heapEntry) {
	*h = append(*h, e)
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if (*h)[parent].dist <= (*h)[i].dist {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *minHeap) pop() heapEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && (*h)[right].dist < (*h)[left].dist {
			smallest = right
		}
		if (*h)[i].dist <= (*h)[smallest].dist {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}

// WallChecker reports whether a cell blocks navigation.
type WallChecker func(x, y int) bool

// FlowField stores precomputed navigation directions toward a single
// shared target, recomputed whenever the target or terrain changes — the
// efficient structure for steering many units at the same rally point
// (spec.md §4.6 "steer crowds of units").
type FlowField struct {
	Width, Height int
	Directions    []int8
	Distances     []int

	TargetX, TargetY int
	Valid            bool

	heap minHeap
}

func NewFlowField(width, height int) *FlowField {
	size := width * height
	return &FlowField{
		Width:      width,
		Height:     height,
		Directions: make([]int8, size),
		Distances:  make([]int, size),
		TargetX:    -1,
		TargetY:    -1,
		heap:       make(minHeap, 0, size/4),
	}
}

func (f *FlowField) Resize(width, height int) {
	size := width * height
	if cap(f.Directions) < size {
		f.Directions = make([]int8, size)
		f.Distances = make([]int, size)
	} else {
		f.Directions = f.Directions[:size]
		f.Distances = f.Distances[:size]
	}
	f.Width, f.Height = width, height
	f.Valid = false
}

func (f *FlowField) Invalidate() { f.Valid = false }

func (f *FlowField) GetDirection(x, y int) int8 {
	if !f.Valid || x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return DirNone
	}
	return f.Directions[y*f.Width+x]
}

func (f *FlowField) GetDistance(x, y int) int {
	if !f.Valid || x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return -1
	}
	d := f.Distances[y*f.Width+x]
	if d >= costUnreachable {
		return -1
	}
	return d
}

// Compute runs weighted Dijkstra from (targetX, targetY) outward, then
// derives per-cell flow directions by steepest descent on the resulting
// distance field. Deterministic: iteration order and tie-breaking never
// depend on map or pointer iteration, only on (x, y) and direction index,
// so every peer computes an identical field from identical terrain.
func (f *FlowField) Compute(targetX, targetY int, isBlocked WallChecker) {
	if targetX < 0 || targetY < 0 || targetX >= f.Width || targetY >= f.Height {
		f.Valid = false
		return
	}

	size := f.Width * f.Height
	w := f.Width

	for i := 0; i < size; i++ {
		f.Directions[i] = DirNone
		f.Distances[i] = costUnreachable
	}

	targetIdx := targetY*w + targetX
	f.Distances[targetIdx] = 0

	f.heap = f.heap[:0]
	f.heap.push(heapEntry{idx: targetIdx, dist: 0})

	for len(f.heap) > 0 {
		entry := f.heap.pop()
		if entry.dist > f.Distances[entry.idx] {
			continue
		}

		cx := entry.idx % w
		cy := entry.idx / w

		for dirIdx := int8(0); dirIdx < dirCount; dirIdx++ {
			nx := cx + dirVectors[dirIdx][0]
			ny := cy + dirVectors[dirIdx][1]
			if nx < 0 || ny < 0 || nx >= f.Width || ny >= f.Height {
				continue
			}
			if isBlocked(nx, ny) {
				continue
			}
			if dirVectors[dirIdx][0] != 0 && dirVectors[dirIdx][1] != 0 {
				if isBlocked(cx+dirVectors[dirIdx][0], cy) || isBlocked(cx, cy+dirVectors[dirIdx][1]) {
					continue // prevent cutting across a blocked corner
				}
			}

			nIdx := ny*w + nx
			newDist := entry.dist + dirCosts[dirIdx]
			if newDist < f.Distances[nIdx] {
				f.Distances[nIdx] = newDist
				f.heap.push(heapEntry{idx: nIdx, dist: newDist})
			}
		}
	}

	f.Directions[targetIdx] = DirTarget
	for y := 0; y < f.Height; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			dist := f.Distances[idx]
			if dist >= costUnreachable || dist == 0 {
				continue
			}

			bestDir := DirNone
			bestDist := dist
			for dirIdx := int8(0); dirIdx < dirCount; dirIdx++ {
				nx := x + dirVectors[dirIdx][0]
				ny := y + dirVectors[dirIdx][1]
				if nx < 0 || ny < 0 || nx >= f.Width || ny >= f.Height {
					continue
				}
				nDist := f.Distances[ny*w+nx]
				if nDist >= bestDist {
					continue
				}
				if dirVectors[dirIdx][0] != 0 && dirVectors[dirIdx][1] != 0 {
					if isBlocked(x+dirVectors[dirIdx][0], y) || isBlocked(x, y+dirVectors[dirIdx][1]) {
						continue
					}
				}
				bestDist = nDist
				bestDir = dirIdx
			}
			f.Directions[idx] = bestDir
		}
	}

	f.TargetX, f.TargetY = targetX, targetY
	f.Valid = true
}
