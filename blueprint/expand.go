package blueprint

import (
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/worldstate"
)

// Kind ids for the small set of entities the generator itself spawns.
// Concrete gameplay content (the full unit/building kind table) lives
// outside this package; these five are the ones every race's opening
// state needs regardless of content pack.
const (
	KindCommandCenter uint32 = 1
	KindWorker        uint32 = 2
	KindMineralField  uint32 = 3
	KindWatchTower    uint32 = 4
	KindDestructible  uint32 = 5
)

const startingWorkers = 4
const mineralFieldsPerBase = 8
const mineralFieldRadius = 4

// Expand deterministically builds a worldstate.World from a validated
// blueprint: the same blueprint byte-for-byte must produce the same
// terrain and initial entities on every peer (spec.md §6 "the same
// blueprint must produce the same terrain and initial state on every
// peer") — so this function must never read wall-clock time or any
// non-seeded RNG.
func Expand(bp *Blueprint) (*worldstate.World, error) {
	w := worldstate.NewWorld(bp.Canvas.Width, bp.Canvas.Height)

	for _, cmd := range bp.Paint {
		applyPaint(w, cmd)
	}

	for i, base := range bp.Bases {
		spawnBase(w, base, i)
	}

	for _, t := range bp.WatchTowers {
		spawnNeutralBuilding(w, t.X, t.Y, KindWatchTower)
	}
	for _, d := range bp.Destructibles {
		kind := d.KindID
		if kind == 0 {
			kind = KindDestructible
		}
		spawnNeutralBuilding(w, d.X, d.Y, kind)
	}
	for _, d := range bp.ExplicitDecorations {
		spawnNeutralBuilding(w, d.X, d.Y, d.KindID)
	}

	return w, nil
}

func terrainFor(op PaintOp) (worldstate.TerrainClass, bool) {
	switch op {
	case PaintFill, PaintRect:
		return worldstate.TerrainPlain, true
	case PaintPlateau:
		return worldstate.TerrainPlateau, true
	case PaintRamp:
		return worldstate.TerrainRamp, true
	case PaintWater:
		return worldstate.TerrainWater, true
	case PaintForest:
		return worldstate.TerrainForest, true
	case PaintVoid:
		return worldstate.TerrainVoid, true
	case PaintRoad:
		return worldstate.TerrainRoad, true
	case PaintUnwalkable:
		return worldstate.TerrainUnwalkable, true
	case PaintBorder:
		return worldstate.TerrainUnwalkable, true
	case PaintMud:
		return worldstate.TerrainMud, true
	default:
		return 0, false
	}
}

// applyPaint writes one command's region into the terrain grid; later
// calls for overlapping regions must win, which falls out naturally from
// processing bp.Paint in declared order (spec.md §6 "later commands
// overwrite earlier ones").
func applyPaint(w *worldstate.World, cmd PaintCommand) {
	class, ok := terrainFor(cmd.Op)
	if !ok {
		return
	}

	x0, y0, x1, y1 := region(w, cmd)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if cmd.Op == PaintBorder && !onBorder(w, x, y) {
				continue
			}
			idx := y*w.MapWidth + x
			elevation := w.Terrain[idx].Elevation
			if cmd.HasElevation {
				elevation = uint8(clamp(cmd.Elevation, 0, 255))
			}
			w.Terrain[idx] = worldstate.TerrainCell{Class: class, Elevation: elevation}
		}
	}
}

func region(w *worldstate.World, cmd PaintCommand) (x0, y0, x1, y1 int) {
	switch cmd.Op {
	case PaintFill, PaintBorder:
		return 0, 0, w.MapWidth, w.MapHeight
	default:
		x0 = clamp(cmd.X, 0, w.MapWidth)
		y0 = clamp(cmd.Y, 0, w.MapHeight)
		x1 = clamp(cmd.X+cmd.Width, 0, w.MapWidth)
		y1 = clamp(cmd.Y+cmd.Height, 0, w.MapHeight)
		return
	}
}

func onBorder(w *worldstate.World, x, y int) bool {
	return x == 0 || y == 0 || x == w.MapWidth-1 || y == w.MapHeight-1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// spawnBase creates the command center, its starting workers, and its ring
// of mineral fields. Entity creation order is fixed (bases in blueprint
// order, then within a base: command center, workers, mineral fields) so
// entity ids are identical across peers — a different order would still
// produce a correct-looking world but a different checksum.
func spawnBase(w *worldstate.World, base Base, baseIndex int) {
	center := w.CreateEntity()
	pos := fixedpoint.Point{X: fixedpoint.FromInt(base.X), Y: fixedpoint.FromInt(base.Y)}
	w.Components.Buildings.Add(center, worldstate.Building{
		KindID: KindCommandCenter,
		Width:  4, Height: 4,
		State: worldstate.BuildingComplete,
	})
	w.SetTransform(center, worldstate.Transform{Pos: pos})
	w.Components.Healths.Add(center, worldstate.Health{Current: 1500, Max: 1500})
	w.Components.Selectables.Add(center, worldstate.Selectable{PlayerID: uint8(base.PlayerSlot)})

	for i := 0; i < startingWorkers; i++ {
		e := w.CreateEntity()
		offset := fixedpoint.FromFloat(float64(i) - float64(startingWorkers)/2)
		workerPos := fixedpoint.Point{X: pos.X + offset, Y: pos.Y + fixedpoint.FromInt(2)}
		w.Components.Units.Add(e, worldstate.Unit{KindID: KindWorker, IsWorker: true})
		w.SetTransform(e, worldstate.Transform{Pos: workerPos})
		w.Components.Healths.Add(e, worldstate.Health{Current: 40, Max: 40})
		w.Components.Selectables.Add(e, worldstate.Selectable{PlayerID: uint8(base.PlayerSlot)})
	}

	for i := 0; i < mineralFieldsPerBase; i++ {
		degrees := (base.MineralOrientation + i*(360/mineralFieldsPerBase)) % 360
		angle := fixedpoint.Fixed(degrees * fixedpoint.Scale / 360)
		dx := fixedpoint.Mul(fixedpoint.Cos(angle), fixedpoint.FromInt(mineralFieldRadius))
		dy := fixedpoint.Mul(fixedpoint.Sin(angle), fixedpoint.FromInt(mineralFieldRadius))

		e := w.CreateEntity()
		fieldPos := fixedpoint.Point{X: pos.X + dx, Y: pos.Y + dy}
		w.SetTransform(e, worldstate.Transform{Pos: fieldPos})
		w.Components.Resources.Add(e, worldstate.Resource{Kind: worldstate.ResourceMinerals, Amount: 1500})
	}
}

func spawnNeutralBuilding(w *worldstate.World, x, y int, kind uint32) {
	e := w.CreateEntity()
	pos := fixedpoint.Point{X: fixedpoint.FromInt(x), Y: fixedpoint.FromInt(y)}
	w.Components.Buildings.Add(e, worldstate.Building{KindID: kind, Width: 2, Height: 2, State: worldstate.BuildingComplete})
	w.SetTransform(e, worldstate.Transform{Pos: pos})
	w.Components.Healths.Add(e, worldstate.Health{Current: 500, Max: 500})
}
