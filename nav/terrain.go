package nav

import "github.com/voidmarch/simcore/worldstate"

// TerrainWallChecker returns a WallChecker backed by w's terrain grid: a
// cell blocks navigation if it's out of bounds or painted with a terrain
// class ground units can't cross (spec.md §6 "unwalkable"; water also
// blocks ground pathing since no amphibious unit exists yet in this
// core).
func TerrainWallChecker(w *worldstate.World) WallChecker {
	return func(x, y int) bool {
		if x < 0 || y < 0 || x >= w.MapWidth || y >= w.MapHeight {
			return true
		}
		cell := w.Terrain[y*w.MapWidth+x]
		switch cell.Class {
		case worldstate.TerrainUnwalkable, worldstate.TerrainVoid, worldstate.TerrainWater:
			return true
		default:
			return false
		}
	}
}
