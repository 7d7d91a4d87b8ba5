package nav

import "container/heap"

// Point is a grid cell coordinate, kept distinct from fixedpoint.Point
// since path planning operates purely in integer cell space.
type Point struct{ X, Y int }

// FindPath runs weighted A* from start to goal over a uniform grid, using
// octile distance as the admissible heuristic (matches the flow field's
// cardinal=10/diagonal=14 edge weights), then Bresenham-smooths the raw
// path with diagonal corner-cut prevention (spec.md §4.6 "Paths are
// smoothed by Bresenham line-of-sight with diagonal corner-cut
// prevention"). Returns nil if no path exists.
func FindPath(width, height int, start, goal Point, isBlocked WallChecker) []Point {
	if isBlocked(goal.X, goal.Y) {
		return nil
	}
	raw := astar(width, height, start, goal, isBlocked)
	if raw == nil {
		return nil
	}
	return smooth(raw, isBlocked)
}

type openEntry struct {
	pt Point
	f  int // g + h
	g  int
}

type openHeap []*openEntry

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	// Deterministic tie-break: higher g first (prefer the longer-confirmed
	// path, matching a consistent heuristic's usual tie convention), then
	// lexicographic by coordinate so two peers never diverge on a tie.
	if h[i].g != h[j].g {
		return h[i].g > h[j].g
	}
	if h[i].pt.Y != h[j].pt.Y {
		return h[i].pt.Y < h[j].pt.Y
	}
	return h[i].pt.X < h[j].pt.X
}
func (h openHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any) {
	*h = append(*h, x.(*openEntry))
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

func octile(a, b Point) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return costCardinal*(dx-dy) + costDiagonal*dy
	}
	return costCardinal*(dy-dx) + costDiagonal*dx
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func astar(width, height int, start, goal Point, isBlocked WallChecker) []Point {
	cameFrom := make(map[Point]Point)
	gScore := map[Point]int{start: 0}
	closed := make(map[Point]bool)

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, &openEntry{pt: start, f: octile(start, goal), g: 0})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*openEntry)
		if closed[cur.pt] {
			continue
		}
		if cur.pt == goal {
			return reconstruct(cameFrom, start, goal)
		}
		closed[cur.pt] = true

		cx, cy := cur.pt.X, cur.pt.Y
		for dirIdx := 0; dirIdx < int(dirCount); dirIdx++ {
			nx, ny := cx+dirVectors[dirIdx][0], cy+dirVectors[dirIdx][1]
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			if isBlocked(nx, ny) {
				continue
			}
			if dirVectors[dirIdx][0] != 0 && dirVectors[dirIdx][1] != 0 {
				if isBlocked(cx+dirVectors[dirIdx][0], cy) || isBlocked(cx, cy+dirVectors[dirIdx][1]) {
					continue
				}
			}

			next := Point{nx, ny}
			if closed[next] {
				continue
			}
			tentativeG := cur.g + dirCosts[dirIdx]
			if existing, ok := gScore[next]; ok && tentativeG >= existing {
				continue
			}
			cameFrom[next] = cur.pt
			gScore[next] = tentativeG
			heap.Push(open, &openEntry{pt: next, g: tentativeG, f: tentativeG + octile(next, goal)})
		}
	}
	return nil
}

func reconstruct(cameFrom map[Point]Point, start, goal Point) []Point {
	path := []Point{goal}
	cur := goal
	for cur != start {
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		path = append(path, prev)
		cur = prev
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// smooth collapses a raw cell-by-cell path into waypoints using Bresenham
// line-of-sight: the farthest point visible from the current waypoint
// becomes the next one, skipping any diagonal cut across a blocked corner.
func smooth(path []Point, isBlocked WallChecker) []Point {
	if len(path) <= 2 {
		return path
	}
	result := []Point{path[0]}
	anchor := 0
	for anchor < len(path)-1 {
		next := anchor + 1
		for probe := len(path) - 1; probe > anchor+1; probe-- {
			if lineOfSight(path[anchor], path[probe], isBlocked) {
				next = probe
				break
			}
		}
		result = append(result, path[next])
		anchor = next
	}
	return result
}

// lineOfSight walks a Bresenham line between a and b, rejecting it if any
// cell is blocked or if the line cuts diagonally across a blocked corner.
func lineOfSight(a, b Point, isBlocked WallChecker) bool {
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if isBlocked(x, y) {
			return false
		}
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		movedX, movedY := false, false
		if e2 >= dy {
			err += dy
			x += sx
			movedX = true
		}
		if e2 <= dx {
			err += dx
			y += sy
			movedY = true
		}
		if movedX && movedY {
			if isBlocked(x-sx, y) || isBlocked(x, y-sy) {
				return false
			}
		}
	}
}
