// Package system implements the concrete simulation systems spec.md §4.5
// names (Input, Spawn, Placement, Mechanics, Movement, Vision, Combat,
// Economy, AI, Meta) and wires them into a sysreg.Pipeline in the
// canonical phase order.
package system

import (
	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/config"
	"github.com/voidmarch/simcore/desync"
	"github.com/voidmarch/simcore/event"
	"github.com/voidmarch/simcore/status"
	"github.com/voidmarch/simcore/sysreg"
	"github.com/voidmarch/simcore/worldstate"
)

// Deps bundles everything a system may need that isn't itself a component
// store: the shared event bus, the command queue, match configuration, the
// desync detector, and the telemetry registry systems publish tick/desync
// counters into. Concrete systems close over the subset they need.
type Deps struct {
	Bus        *event.Bus
	Queue      *command.Queue
	Config     config.Match
	Detector   *desync.Detector
	Owners     command.EntityOwner
	Placements *PlacementQueue
	Metrics    *status.Registry
	Audio      Player
}

// Register declares every concrete system in the order spec.md §4.5 fixes:
// input, spawn, placement, mechanics, movement, vision, combat, economy,
// ai, audio, meta. Each depends on the one before it, so Build's
// topological sort has exactly one valid linearization regardless of
// declaration order. AI is gated by deps.Config.AIEnabled; audio is always
// declared but is a no-op unless deps.Audio is set (spec.md §4.5 layer 10).
func Register(r *sysreg.Registry, deps Deps) {
	if deps.Placements == nil {
		deps.Placements = NewPlacementQueue()
	}
	if deps.Metrics == nil {
		deps.Metrics = status.NewRegistry()
	}
	r.Declare(sysreg.Declaration{
		Name:    "input",
		Factory: func(w any) sysreg.System { return NewInputSystem(w.(*worldstate.World), deps) },
	})
	r.Declare(sysreg.Declaration{
		Name:      "spawn",
		DependsOn: []string{"input"},
		Factory:   func(w any) sysreg.System { return NewSpawnSystem(w.(*worldstate.World), deps) },
	})
	r.Declare(sysreg.Declaration{
		Name:      "placement",
		DependsOn: []string{"spawn"},
		Factory:   func(w any) sysreg.System { return NewPlacementSystem(w.(*worldstate.World), deps) },
	})
	r.Declare(sysreg.Declaration{
		Name:      "mechanics",
		DependsOn: []string{"placement"},
		Factory:   func(w any) sysreg.System { return NewMechanicsSystem(w.(*worldstate.World), deps) },
	})
	r.Declare(sysreg.Declaration{
		Name:      "movement",
		DependsOn: []string{"mechanics"},
		Factory:   func(w any) sysreg.System { return NewMovementSystem(w.(*worldstate.World), deps) },
	})
	r.Declare(sysreg.Declaration{
		Name:      "vision",
		DependsOn: []string{"movement"},
		Factory:   func(w any) sysreg.System { return NewVisionSystem(w.(*worldstate.World), deps) },
	})
	r.Declare(sysreg.Declaration{
		Name:      "combat",
		DependsOn: []string{"vision"},
		Factory:   func(w any) sysreg.System { return NewCombatSystem(w.(*worldstate.World), deps) },
	})
	r.Declare(sysreg.Declaration{
		Name:      "economy",
		DependsOn: []string{"combat"},
		Factory:   func(w any) sysreg.System { return NewEconomySystem(w.(*worldstate.World), deps) },
	})
	r.Declare(sysreg.Declaration{
		Name:      "ai",
		DependsOn: []string{"economy"},
		Enabled:   func() bool { return deps.Config.AIEnabled },
		Factory:   func(w any) sysreg.System { return NewAISystem(w.(*worldstate.World), deps) },
	})
	r.Declare(sysreg.Declaration{
		Name:      "audio",
		DependsOn: []string{"ai"},
		Factory:   func(w any) sysreg.System { return NewAudioSystem(w.(*worldstate.World), deps) },
	})
	r.Declare(sysreg.Declaration{
		Name:      "meta",
		DependsOn: []string{"audio"},
		Factory:   func(w any) sysreg.System { return NewMetaSystem(w.(*worldstate.World), deps) },
	})
}
