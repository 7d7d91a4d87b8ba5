// Package worldstate is the World Store: exclusive owner of every entity and
// component, with deterministic iteration and cell-indexed spatial queries
// (spec.md §3 "Ownership", §4.4).
package worldstate

import (
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
)

// TerrainClass enumerates the walkable/unwalkable terrain categories a map
// blueprint paints onto the grid (spec.md §6 "paint" commands).
type TerrainClass uint8

const (
	TerrainPlain TerrainClass = iota
	TerrainPlateau
	TerrainRamp
	TerrainWater
	TerrainForest
	TerrainVoid
	TerrainRoad
	TerrainUnwalkable
	TerrainMud
)

// TerrainCell is one cell of the world's terrain grid.
type TerrainCell struct {
	Class     TerrainClass
	Elevation uint8 // 0-255, canonical milestones 60/140/220
	HasFeature bool
	Feature   string
}

// Economy is one player's resource and supply state.
type Economy struct {
	Minerals, Vespene int32
	SupplyUsed        int32
	SupplyCap         int32
}

// Stores groups the canonical per-component-type stores so systems can
// request exactly the ones they need via SystemBase-style embedding.
type Stores struct {
	Transforms  *Store[Transform]
	Units       *Store[Unit]
	Buildings   *Store[Building]
	Healths     *Store[Health]
	Selectables *Store[Selectable]
	Resources   *Store[Resource]
	Abilities   *Store[Ability]
	Projectiles *Store[Projectile]
}

func newStores() Stores {
	return Stores{
		Transforms:  NewStore[Transform](),
		Units:       NewStore[Unit](),
		Buildings:   NewStore[Building](),
		Healths:     NewStore[Health](),
		Selectables: NewStore[Selectable](),
		Resources:   NewStore[Resource](),
		Abilities:   NewStore[Ability](),
		Projectiles: NewStore[Projectile](),
	}
}

// World is the single owner of all simulation state. Per spec.md §5 it is
// mutated exclusively by the single simulation thread — no field here is
// ever touched by the transport or overlay auxiliary threads directly.
type World struct {
	tick uint64

	MapWidth, MapHeight int
	Terrain             []TerrainCell // row-major, len == MapWidth*MapHeight

	Components Stores
	UnitGrid   *SpatialGrid
	BuildGrid  *SpatialGrid

	Economy map[uint8]*Economy // player id -> economy

	queryCache queryCache

	nextEntity core.Entity
	retired    map[core.Entity]struct{}
	pendingDestroy []core.Entity
}

const defaultCellSize = 4

// NewWorld creates an empty world sized to mapWidth x mapHeight cells.
func NewWorld(mapWidth, mapHeight int) *World {
	w := &World{
		MapWidth:   mapWidth,
		MapHeight:  mapHeight,
		Terrain:    make([]TerrainCell, mapWidth*mapHeight),
		Components: newStores(),
		UnitGrid:   NewSpatialGrid(mapWidth, mapHeight, defaultCellSize),
		BuildGrid:  NewSpatialGrid(mapWidth, mapHeight, defaultCellSize),
		Economy:    make(map[uint8]*Economy),
		nextEntity: 1,
		retired:    make(map[core.Entity]struct{}),
	}
	return w
}

// Tick returns the current simulation tick.
func (w *World) Tick() uint64 { return w.tick }

// AdvanceTick increments the tick counter. Per spec.md §8 invariant 9,
// exactly one call per simulation step.
func (w *World) AdvanceTick() {
	w.tick++
	w.queryCache.tick = w.tick
	w.queryCache.entries = w.queryCache.entries[:0]
}

// SetTick forces the tick counter, used only by snapshot restore.
func (w *World) SetTick(t uint64) { w.tick = t }

// CreateEntity reserves and returns a new, never-before-used id.
func (w *World) CreateEntity() core.Entity {
	id := w.nextEntity
	w.nextEntity++
	return id
}

// IsRetired reports whether an entity has been destroyed. Retired ids are
// never reassigned (spec.md §3 "Entity").
func (w *World) IsRetired(e core.Entity) bool {
	_, ok := w.retired[e]
	return ok
}

// QueueDestroy defers destruction of e until EndPass, avoiding iterator
// invalidation mid-system (spec.md §3 "Lifecycle").
func (w *World) QueueDestroy(e core.Entity) {
	w.pendingDestroy = append(w.pendingDestroy, e)
}

// EndPass applies deferred destructions. sysreg's Pipeline.RunOnce does not
// call it: the tick loop calls it once after the whole pipeline has run, so
// an entity queued for destruction stays visible to the systems that run
// after the queuing one in the same tick.
func (w *World) EndPass() {
	if len(w.pendingDestroy) == 0 {
		return
	}
	for _, e := range w.pendingDestroy {
		w.destroyNow(e)
	}
	w.pendingDestroy = w.pendingDestroy[:0]
}

func (w *World) destroyNow(e core.Entity) {
	if w.IsRetired(e) {
		return
	}
	if t, ok := w.Components.Transforms.Get(e); ok {
		cx, cy := fixedpoint.ToInt(t.Pos.X), fixedpoint.ToInt(t.Pos.Y)
		if _, isUnit := w.Components.Units.Get(e); isUnit {
			w.UnitGrid.Remove(e, cx, cy)
		}
		if _, isBuilding := w.Components.Buildings.Get(e); isBuilding {
			w.BuildGrid.Remove(e, cx, cy)
		}
	}
	w.Components.Transforms.Remove(e)
	w.Components.Units.Remove(e)
	w.Components.Buildings.Remove(e)
	w.Components.Healths.Remove(e)
	w.Components.Selectables.Remove(e)
	w.Components.Resources.Remove(e)
	w.Components.Abilities.Remove(e)
	w.Components.Projectiles.Remove(e)
	w.retired[e] = struct{}{}
}

// Clear resets the world to empty, used between matches so two consecutive
// matches never inherit prior entities (spec.md §9 "Global singletons").
func (w *World) Clear() {
	w.tick = 0
	w.nextEntity = 1
	w.retired = make(map[core.Entity]struct{})
	w.pendingDestroy = nil
	w.Components = newStores()
	w.UnitGrid.Clear()
	w.BuildGrid.Clear()
	w.Economy = make(map[uint8]*Economy)
	w.queryCache = queryCache{}
}

// EconomyFor returns (creating if absent) the Economy for a player.
func (w *World) EconomyFor(player uint8) *Economy {
	e, ok := w.Economy[player]
	if !ok {
		e = &Economy{}
		w.Economy[player] = e
	}
	return e
}

// SetTransform writes a new Transform for e, moving its spatial grid entry
// (unit or building footprint) with an O(1) remove+insert. Systems must
// call this instead of writing Components.Transforms directly whenever
// position changes, or the grid silently desyncs from the component store.
func (w *World) SetTransform(e core.Entity, t Transform) {
	old, had := w.Components.Transforms.Get(e)
	w.Components.Transforms.Add(e, t)

	ocx, ocy := fixedpoint.ToInt(old.Pos.X), fixedpoint.ToInt(old.Pos.Y)
	ncx, ncy := fixedpoint.ToInt(t.Pos.X), fixedpoint.ToInt(t.Pos.Y)

	if _, isUnit := w.Components.Units.Get(e); isUnit {
		if had {
			w.UnitGrid.Move(e, ocx, ocy, ncx, ncy)
		} else {
			w.UnitGrid.Add(e, ncx, ncy)
		}
	}
	if _, isBuilding := w.Components.Buildings.Get(e); isBuilding {
		if had {
			w.BuildGrid.Move(e, ocx, ocy, ncx, ncy)
		} else {
			w.BuildGrid.Add(e, ncx, ncy)
		}
	}
}
