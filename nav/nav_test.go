package nav

import "testing"

func blockedColumn(col int) WallChecker {
	return func(x, y int) bool { return x == col && y != 0 }
}

func TestFlowField_PointsTowardTarget(t *testing.T) {
	ff := NewFlowField(8, 8)
	ff.Compute(4, 4, func(int, int) bool { return false })

	if !ff.Valid {
		t.Fatal("expected field to be valid after compute")
	}
	if ff.GetDirection(4, 4) != DirTarget {
		t.Fatalf("expected DirTarget at target cell, got %d", ff.GetDirection(4, 4))
	}
	if ff.GetDirection(0, 0) == DirNone {
		t.Fatal("expected an open field to reach every cell")
	}
}

func TestFlowField_RespectsWalls(t *testing.T) {
	ff := NewFlowField(8, 8)
	blocked := blockedColumn(4)
	ff.Compute(7, 0, blocked)

	// (0,7) must route around the wall rather than straight through it,
	// since x=4 is blocked for every y != 0.
	if ff.GetDistance(0, 7) < 0 {
		t.Fatal("expected (0,7) to still be reachable by routing around the wall")
	}
}

func TestFootprintGrid_RejectsFootprintOverlappingWall(t *testing.T) {
	grid := NewFootprintGrid(10, 10, 2, 2)
	wall := func(x, y int) bool { return x == 5 && y == 5 }
	grid.Compute(wall)

	if grid.IsValid(4, 4) {
		t.Fatal("expected footprint covering (5,5) to be invalid")
	}
	if !grid.IsValid(0, 0) {
		t.Fatal("expected footprint at (0,0) to be valid on an empty grid")
	}
}

func TestFindPath_StraightLineWhenUnobstructed(t *testing.T) {
	path := FindPath(16, 16, Point{0, 0}, Point{10, 0}, func(int, int) bool { return false })
	if len(path) != 2 {
		t.Fatalf("expected a smoothed 2-point path on an open grid, got %v", path)
	}
	if path[0] != (Point{0, 0}) || path[len(path)-1] != (Point{10, 0}) {
		t.Fatalf("unexpected path endpoints: %v", path)
	}
}

func TestFindPath_ReturnsNilWhenGoalBlocked(t *testing.T) {
	path := FindPath(8, 8, Point{0, 0}, Point{4, 4}, func(x, y int) bool { return x == 4 && y == 4 })
	if path != nil {
		t.Fatalf("expected nil path for a blocked goal, got %v", path)
	}
}

func TestFindPath_RoutesAroundWall(t *testing.T) {
	wall := blockedColumn(4)
	path := FindPath(8, 8, Point{0, 0}, Point{7, 0}, wall)
	if path == nil {
		t.Fatal("expected a path routing around the wall")
	}
	for _, p := range path {
		if wall(p.X, p.Y) {
			t.Fatalf("path crosses a blocked cell: %v in %v", p, path)
		}
	}
}
