package system

import (
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/worldstate"
)

// constructionTicks is how long a building takes to finish from 0 progress,
// expressed in ticks rather than wall-clock so it scales with tickRate.
const constructionTicks = 200

// MechanicsSystem is the Mechanics phase (spec.md §4.5): it advances
// building construction and lift-off/landing transitions. Everything here
// reads and writes only Building state — no cross-entity interaction, so
// it can run as a flat pass over the Buildings store.
type MechanicsSystem struct {
	world *worldstate.World
	deps  Deps
}

func NewMechanicsSystem(world *worldstate.World, deps Deps) *MechanicsSystem {
	return &MechanicsSystem{world: world, deps: deps}
}

func (s *MechanicsSystem) Update(tick uint64) {
	for _, e := range s.world.Components.Buildings.All() {
		b, ok := s.world.Components.Buildings.Get(e)
		if !ok {
			continue
		}
		switch b.State {
		case worldstate.BuildingConstructing:
			b.BuildProgress += (fixedpoint.Scale + constructionTicks - 1) / constructionTicks
			if b.BuildProgress >= fixedpoint.Scale {
				b.BuildProgress = fixedpoint.Scale
				b.State = worldstate.BuildingComplete
			}
			s.world.Components.Buildings.Add(e, b)
		case worldstate.BuildingLifting:
			b.State = worldstate.BuildingFlying
			s.world.Components.Buildings.Add(e, b)
		case worldstate.BuildingLanding:
			b.State = worldstate.BuildingComplete
			s.world.Components.Buildings.Add(e, b)
		}
	}
}
