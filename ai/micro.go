package ai

import (
	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/worldstate"
)

// retreatHealthPercent is the current/max health fraction (times 100)
// below which a unit abandons its target and retreats rather than trading.
const retreatHealthPercent = 25

// kiteStepFraction sets how far one kite step retreats: the unit backs off
// from its target by AttackRange divided by this value.
const kiteStepFraction = 2 // retreat by AttackRange / kiteStepFraction

// kiteRetargetDelay is how many ticks after a kite step the unit
// re-evaluates its target — not `setTimeout`, a tick-stamped command
// replayed through the same lockstep path on every peer (spec.md §9).
const kiteRetargetDelay = 3

// micro runs kiting, focus-fire, and retreat over every own combat unit
// currently engaged or in range of an enemy, queuing the resulting orders
// for the next tick (or, for a kite's follow-up retarget, a few ticks out)
// rather than mutating unit state directly — keeping every micro decision
// on the same command path a human player's orders take.
func (c *Controller) micro(tick uint64, w *worldstate.World, queue *command.Queue, obs Observation) {
	for _, e := range obs.OwnCombatUnits {
		u, ok := w.Components.Units.Get(e)
		if !ok {
			continue
		}
		health, ok := w.Components.Healths.Get(e)
		if !ok {
			continue
		}
		if health.Max > 0 && int32(100)*health.Current/health.Max < retreatHealthPercent {
			c.retreat(tick, queue, e, w)
			continue
		}

		target := c.focusFireTarget(obs, w, e, u)
		if target == core.NoEntity {
			continue
		}

		pos, ok := w.Components.Transforms.Get(e)
		targetPos, okT := w.Components.Transforms.Get(target)
		if !ok || !okT {
			continue
		}

		if u.AttackRange > 0 && pos.Pos.Distance(targetPos.Pos) <= u.AttackRange {
			c.kite(tick, queue, e, pos.Pos, targetPos.Pos, u.AttackRange, target)
			continue
		}

		c.focusFire(tick, queue, e, target)
	}
}

// focusFireTarget prefers the lowest-health enemy within sight range over
// whatever the unit is already engaging, so a controller's army
// concentrates damage instead of spreading it (spec.md §4.7 "focus fire").
func (c *Controller) focusFireTarget(obs Observation, w *worldstate.World, e core.Entity, u worldstate.Unit) core.Entity {
	pos, ok := w.Components.Transforms.Get(e)
	if !ok {
		return core.NoEntity
	}

	best := core.NoEntity
	var bestHealth int32 = -1
	var bestDist fixedpoint.Fixed
	for _, enemy := range obs.EnemyUnits {
		ep, ok := w.Components.Transforms.Get(enemy)
		if !ok {
			continue
		}
		dist := pos.Pos.Distance(ep.Pos)
		if u.SightRange > 0 && dist > u.SightRange {
			continue
		}
		h, ok := w.Components.Healths.Get(enemy)
		if !ok || h.Dead() {
			continue
		}
		if best == core.NoEntity || h.Current < bestHealth || (h.Current == bestHealth && dist < bestDist) {
			best, bestHealth, bestDist = enemy, h.Current, dist
		}
	}
	return best
}

func (c *Controller) focusFire(tick uint64, queue *command.Queue, e, target core.Entity) {
	queue.Receive(command.Command{
		Tick:            tick + 1,
		PlayerID:        c.PlayerID,
		Type:            command.TypeAttack,
		EntityRefs:      []core.Entity{e},
		HasTargetEntity: true,
		TargetEntity:    target,
	}, tick)
}

// kite steps the unit away from its target by a fraction of its own attack
// range, then schedules a re-target a few ticks later — the delayed action
// spec.md §9 requires go through the command queue, not a timer.
func (c *Controller) kite(tick uint64, queue *command.Queue, e core.Entity, from, to fixedpoint.Point, attackRange fixedpoint.Fixed, target core.Entity) {
	delta := from.Sub(to)
	dist := from.Distance(to)
	if dist == 0 {
		return
	}
	step := attackRange / kiteStepFraction
	away := fixedpoint.Point{
		X: from.X + fixedpoint.Mul(fixedpoint.Div(delta.X, dist), step),
		Y: from.Y + fixedpoint.Mul(fixedpoint.Div(delta.Y, dist), step),
	}

	queue.Receive(command.Command{
		Tick:         tick + 1,
		PlayerID:     c.PlayerID,
		Type:         command.TypeMove,
		EntityRefs:   []core.Entity{e},
		HasTargetPos: true,
		TargetPos:    away,
	}, tick)

	queue.Receive(command.Command{
		Tick:            tick + kiteRetargetDelay,
		PlayerID:        c.PlayerID,
		Type:            command.TypeAttack,
		EntityRefs:      []core.Entity{e},
		HasTargetEntity: true,
		TargetEntity:    target,
	}, tick)
}

func (c *Controller) retreat(tick uint64, queue *command.Queue, e core.Entity, w *worldstate.World) {
	if _, ok := w.Components.Transforms.Get(e); !ok {
		return
	}
	home := c.rallyPoint(w)
	queue.Receive(command.Command{
		Tick:         tick + 1,
		PlayerID:     c.PlayerID,
		Type:         command.TypeMove,
		EntityRefs:   []core.Entity{e},
		HasTargetPos: true,
		TargetPos:    home,
	}, tick)
}

// rallyPoint returns the controller's first owned building's position as a
// retreat destination, or the origin if it owns none yet.
func (c *Controller) rallyPoint(w *worldstate.World) fixedpoint.Point {
	for _, e := range w.Components.Buildings.All() {
		sel, ok := w.Components.Selectables.Get(e)
		if !ok || sel.PlayerID != c.PlayerID {
			continue
		}
		if t, ok := w.Components.Transforms.Get(e); ok {
			return t.Pos
		}
	}
	return fixedpoint.Point{}
}
