package system

import (
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/event"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/worldstate"
)

// unitTemplate is the minimal per-kind stat block the Spawn phase needs to
// materialize a completed production order into a live unit entity.
type unitTemplate struct {
	Health      int32
	AttackRange fixedpoint.Fixed
	SightRange  fixedpoint.Fixed
	IsWorker    bool
	IsFlying    bool
}

// defaultTemplates is a placeholder catalog; a real content pack supplies
// this via config, but the simulation core needs some deterministic stat
// table to spawn against even with nothing wired in yet.
var defaultTemplates = map[uint32]unitTemplate{}

func templateFor(kindID uint32) unitTemplate {
	if t, ok := defaultTemplates[kindID]; ok {
		return t
	}
	return unitTemplate{Health: 40, AttackRange: fixedpoint.FromInt(1), SightRange: fixedpoint.FromInt(7)}
}

// SpawnSystem is the Spawn phase (spec.md §4.5): it ticks down every
// building's production queue and materializes completed orders into new
// unit entities, positioned just outside the producing building's
// footprint (spec.md §3 "rally point" default when no rally was set).
type SpawnSystem struct {
	world *worldstate.World
	deps  Deps
}

func NewSpawnSystem(world *worldstate.World, deps Deps) *SpawnSystem {
	return &SpawnSystem{world: world, deps: deps}
}

func (s *SpawnSystem) Update(tick uint64) {
	for _, producer := range s.world.Components.Buildings.All() {
		b, ok := s.world.Components.Buildings.Get(producer)
		if !ok || len(b.ProductionQueue) == 0 || b.State != worldstate.BuildingComplete {
			continue
		}

		order := &b.ProductionQueue[0]
		if !order.IsUnit {
			continue
		}
		if order.RemainingTick > 0 {
			order.RemainingTick--
			s.world.Components.Buildings.Add(producer, b)
			continue
		}

		s.spawnUnit(producer, order.ItemID)
		b.ProductionQueue = b.ProductionQueue[1:]
		s.world.Components.Buildings.Add(producer, b)
	}
}

func (s *SpawnSystem) spawnUnit(producer core.Entity, kindID uint32) {
	sel, hasSel := s.world.Components.Selectables.Get(producer)
	pt, hasPos := s.world.Components.Transforms.Get(producer)
	if !hasSel || !hasPos {
		return
	}
	tmpl := templateFor(kindID)

	e := s.world.CreateEntity()
	s.world.Components.Units.Add(e, worldstate.Unit{
		KindID:      kindID,
		State:       worldstate.UnitIdle,
		AttackRange: tmpl.AttackRange,
		SightRange:  tmpl.SightRange,
		IsWorker:    tmpl.IsWorker,
		IsFlying:    tmpl.IsFlying,
	})
	spawnPos := fixedpoint.Point{
		X: pt.Pos.X + fixedpoint.FromInt(2),
		Y: pt.Pos.Y + fixedpoint.FromInt(2),
	}
	s.world.SetTransform(e, worldstate.Transform{Pos: spawnPos})
	s.world.Components.Healths.Add(e, worldstate.Health{Current: tmpl.Health, Max: tmpl.Health})
	s.world.Components.Selectables.Add(e, worldstate.Selectable{PlayerID: sel.PlayerID})
	if s.deps.Bus != nil {
		s.deps.Bus.Emit(event.UnitSpawned, e)
	}
}
