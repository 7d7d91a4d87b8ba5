package system

import (
	"github.com/voidmarch/simcore/ai"
	"github.com/voidmarch/simcore/worldstate"
)

// defaultOpening is the opening build order every AI-controlled player runs
// before falling back to counter-composition-driven production (spec.md
// §4.7 "Build order"). A real content pack would supply per-faction
// openings; this is the deterministic placeholder the simulation core
// needs to exercise the executor end to end.
var defaultOpening = ai.Order{
	{IsUnit: true, ItemID: 1},
	{IsUnit: true, ItemID: 1},
	{IsUnit: false, ItemID: 10, SupplyGate: 6},
	{IsUnit: true, ItemID: 2},
}

// AISystem is the AI phase (spec.md §4.5), gated entirely off by
// deps.Config.AIEnabled. It owns one ai.Controller per player other than
// deps.Config.PlayerID, lazily created the first time that player is
// observed, and runs each controller's think pass on its own
// difficulty-scaled cadence.
type AISystem struct {
	world       *worldstate.World
	deps        Deps
	controllers map[uint8]*ai.Controller
}

func NewAISystem(world *worldstate.World, deps Deps) *AISystem {
	return &AISystem{world: world, deps: deps, controllers: make(map[uint8]*ai.Controller)}
}

func (s *AISystem) Update(tick uint64) {
	for _, e := range s.world.Components.Selectables.All() {
		sel, ok := s.world.Components.Selectables.Get(e)
		if !ok || sel.PlayerID == s.deps.Config.PlayerID {
			continue
		}
		c, ok := s.controllers[sel.PlayerID]
		if !ok {
			c = ai.NewController(sel.PlayerID, s.deps.Config.AIDifficulty, defaultOpening)
			s.controllers[sel.PlayerID] = c
		}
	}

	for _, c := range s.controllers {
		if c.ShouldThink(tick) {
			c.Think(tick, s.world, s.deps.Queue)
		}
	}
}
