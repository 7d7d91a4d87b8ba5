package system

import (
	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/worldstate"
)

// worldOwner adapts worldstate's Selectable store to command.EntityOwner so
// the queue's authorizer never needs to know about worldstate directly.
type worldOwner struct{ world *worldstate.World }

func (o worldOwner) OwnerOf(entityID uint64) (uint8, bool) {
	s, ok := o.world.Components.Selectables.Get(core.Entity(entityID))
	if !ok {
		return 0, false
	}
	return s.PlayerID, true
}

// InputSystem is the Input phase (spec.md §4.5): it drains the command
// queue for the current tick, authorizes each command against live
// ownership, and applies accepted unit/building orders to the world.
type InputSystem struct {
	world *worldstate.World
	deps  Deps
}

func NewInputSystem(world *worldstate.World, deps Deps) *InputSystem {
	if deps.Owners == nil {
		deps.Owners = worldOwner{world: world}
	}
	return &InputSystem{world: world, deps: deps}
}

func (s *InputSystem) Update(tick uint64) {
	if s.deps.Queue == nil {
		return
	}
	cmds := s.deps.Queue.Drain(tick)
	if len(cmds) == 0 {
		return
	}

	// CorroboratedPlayerID should come from the transport connection a
	// command arrived on, not the command's own (spoofable) PlayerID
	// field — Queue.Receive doesn't yet thread sender identity through to
	// here, so the spoofed-id check is a no-op until that's wired up.
	// Ownership/tick-range checks below are unaffected.
	params := func(cmd command.Command) command.AuthParams {
		return command.AuthParams{
			CorroboratedPlayerID: cmd.PlayerID,
			CurrentTick:          tick,
			DelayTicks:           s.deps.Config.CommandDelayTicks,
			FarFutureWindow:      100,
			Owner:                s.deps.Owners,
		}
	}

	accepted := cmds
	if s.deps.Config.IsMultiplayer {
		accepted = s.deps.Queue.AuthorizeAndFilter(cmds, params)
	}

	for _, cmd := range accepted {
		s.apply(cmd)
	}
}

func (s *InputSystem) apply(cmd command.Command) {
	switch cmd.Type {
	case command.TypeMove:
		s.applyToUnits(cmd, func(u *worldstate.Unit) {
			u.State = worldstate.UnitMoving
			u.HasTargetPos = cmd.HasTargetPos
			u.TargetPos = cmd.TargetPos
			u.TargetEntity = core.NoEntity
		})
	case command.TypeAttack:
		s.applyToUnits(cmd, func(u *worldstate.Unit) {
			u.State = worldstate.UnitAttackMoving
			if cmd.HasTargetEntity {
				u.TargetEntity = cmd.TargetEntity
			}
			if cmd.HasTargetPos {
				u.HasTargetPos = true
				u.TargetPos = cmd.TargetPos
			}
		})
	case command.TypeStop:
		s.applyToUnits(cmd, func(u *worldstate.Unit) {
			u.State = worldstate.UnitIdle
			u.HasTargetPos = false
			u.TargetEntity = core.NoEntity
		})
	case command.TypePatrol:
		s.applyToUnits(cmd, func(u *worldstate.Unit) {
			u.State = worldstate.UnitMoving
			u.HasTargetPos = cmd.HasTargetPos
			u.TargetPos = cmd.TargetPos
		})
	case command.TypeBuild:
		s.applyBuild(cmd)
	case command.TypeLiftOff:
		s.applyToBuildings(cmd, func(b *worldstate.Building) { b.State = worldstate.BuildingLifting })
	case command.TypeLand:
		s.applyToBuildings(cmd, func(b *worldstate.Building) { b.State = worldstate.BuildingLanding })
	case command.TypeCancelProduction:
		s.applyToBuildings(cmd, func(b *worldstate.Building) {
			if len(b.ProductionQueue) > 0 {
				b.ProductionQueue = b.ProductionQueue[1:]
			}
		})
	}
}

func (s *InputSystem) applyToUnits(cmd command.Command, fn func(*worldstate.Unit)) {
	for _, e := range cmd.EntityRefs {
		u, ok := s.world.Components.Units.Get(e)
		if !ok {
			continue
		}
		fn(&u)
		s.world.Components.Units.Add(e, u)
	}
}

func (s *InputSystem) applyToBuildings(cmd command.Command, fn func(*worldstate.Building)) {
	for _, e := range cmd.EntityRefs {
		b, ok := s.world.Components.Buildings.Get(e)
		if !ok {
			continue
		}
		fn(&b)
		s.world.Components.Buildings.Add(e, b)
	}
}

func (s *InputSystem) applyBuild(cmd command.Command) {
	order, ok := cmd.Payload.(command.BuildOrder)
	if !ok || len(cmd.EntityRefs) == 0 {
		return
	}
	builder := cmd.EntityRefs[0]

	if order.HasPlacement {
		if s.deps.Placements != nil {
			s.deps.Placements.push(pendingPlacement{Builder: builder, Order: order})
		}
		return
	}

	b, ok := s.world.Components.Buildings.Get(builder)
	if !ok {
		return
	}
	b.ProductionQueue = append(b.ProductionQueue, worldstate.ProductionOrder{
		ItemID:        order.ItemID,
		RemainingTick: order.Ticks,
		IsUnit:        order.IsUnit,
	})
	s.world.Components.Buildings.Add(builder, b)
}
