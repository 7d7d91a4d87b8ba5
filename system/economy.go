package system

import (
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/worldstate"
)

// gatherRange is how close a worker must be to a resource entity before it
// can mine it this tick.
const gatherRange = fixedpoint.Scale * 3 / 2

// mineralsPerTrip is the amount credited to a player's Economy each time a
// worker completes one gather tick — simplified from a real back-and-forth
// trip since no separate depot-return state exists in this core.
const mineralsPerTrip = 1

// EconomySystem is the Economy phase (spec.md §4.5): it credits resources
// to each player from workers currently in the Gathering state, and ticks
// down every building's non-unit (upgrade/tech) production orders —
// units are handled earlier by Spawn since they need a live entity id.
type EconomySystem struct {
	world *worldstate.World
	deps  Deps
}

func NewEconomySystem(world *worldstate.World, deps Deps) *EconomySystem {
	return &EconomySystem{world: world, deps: deps}
}

func (s *EconomySystem) Update(tick uint64) {
	s.gather()
	s.advanceUpgrades()
}

func (s *EconomySystem) gather() {
	for _, e := range s.world.Components.Units.All() {
		u, ok := s.world.Components.Units.Get(e)
		if !ok || !u.IsWorker || u.State != worldstate.UnitGathering || u.TargetEntity == core.NoEntity {
			continue
		}
		res, ok := s.world.Components.Resources.Get(u.TargetEntity)
		if !ok || res.Amount <= 0 {
			u.State = worldstate.UnitIdle
			u.TargetEntity = core.NoEntity
			s.world.Components.Units.Add(e, u)
			continue
		}

		pos, ok := s.world.Components.Transforms.Get(e)
		resPos, okRes := s.world.Components.Transforms.Get(u.TargetEntity)
		if !ok || !okRes || pos.Pos.Distance(resPos.Pos) > gatherRange {
			continue
		}

		sel, ok := s.world.Components.Selectables.Get(e)
		if !ok {
			continue
		}

		res.Amount -= mineralsPerTrip
		s.world.Components.Resources.Add(u.TargetEntity, res)

		econ := s.world.EconomyFor(sel.PlayerID)
		switch res.Kind {
		case worldstate.ResourceVespene:
			econ.Vespene += mineralsPerTrip
		default:
			econ.Minerals += mineralsPerTrip
		}
	}
}

func (s *EconomySystem) advanceUpgrades() {
	for _, e := range s.world.Components.Buildings.All() {
		b, ok := s.world.Components.Buildings.Get(e)
		if !ok || len(b.ProductionQueue) == 0 {
			continue
		}
		order := &b.ProductionQueue[0]
		if order.IsUnit {
			continue
		}
		if order.RemainingTick > 0 {
			order.RemainingTick--
		} else {
			b.ProductionQueue = b.ProductionQueue[1:]
		}
		s.world.Components.Buildings.Add(e, b)
	}
}
