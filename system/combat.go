package system

import (
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/event"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/worldstate"
)

// meleeRangeSlop is the extra leeway (fixed-point cells) a unit gets beyond its
// AttackRange before a melee swing is allowed, to absorb Movement's one
// arrival-epsilon overshoot.
const meleeRangeSlop = fixedpoint.Scale / 4

// projectileSpeed is the per-tick travel distance for every spawned
// Projectile; a real content pack would vary this per weapon kind.
const projectileSpeed = fixedpoint.Scale

const defaultAttackDamage = 6

// CombatSystem is the Combat phase (spec.md §4.5). It resolves melee
// attacks instantly, spawns a Projectile entity for a ranged attack
// (resolved on a later tick when it arrives), advances in-flight
// projectiles, and applies damage/death on impact.
type CombatSystem struct {
	world *worldstate.World
	deps  Deps
}

func NewCombatSystem(world *worldstate.World, deps Deps) *CombatSystem {
	return &CombatSystem{world: world, deps: deps}
}

func (s *CombatSystem) Update(tick uint64) {
	s.resolveAttacks(tick)
	s.advanceProjectiles()
}

func (s *CombatSystem) resolveAttacks(tick uint64) {
	for _, e := range s.world.Components.Units.All() {
		u, ok := s.world.Components.Units.Get(e)
		if !ok || u.TargetEntity == core.NoEntity {
			continue
		}
		targetHealth, ok := s.world.Components.Healths.Get(u.TargetEntity)
		if !ok || targetHealth.Dead() {
			u.TargetEntity = core.NoEntity
			u.State = worldstate.UnitIdle
			s.world.Components.Units.Add(e, u)
			continue
		}

		pos, ok := s.world.Components.Transforms.Get(e)
		if !ok {
			continue
		}
		targetPos, ok := s.world.Components.Transforms.Get(u.TargetEntity)
		if !ok {
			continue
		}

		dist := pos.Pos.Distance(targetPos.Pos)
		if dist > u.AttackRange+meleeRangeSlop {
			u.State = worldstate.UnitAttackMoving
			u.HasTargetPos = true
			u.TargetPos = targetPos.Pos
			s.world.Components.Units.Add(e, u)
			continue
		}

		u.State = worldstate.UnitAttacking
		u.HasTargetPos = false
		s.world.Components.Units.Add(e, u)

		if u.AttackRange > fixedpoint.FromInt(1) {
			s.spawnProjectile(e, u, pos.Pos, targetPos.Pos)
		} else {
			s.applyDamage(u.TargetEntity, defaultAttackDamage)
		}
	}
}

func (s *CombatSystem) spawnProjectile(owner core.Entity, u worldstate.Unit, from, to fixedpoint.Point) {
	sel, ok := s.world.Components.Selectables.Get(owner)
	if !ok {
		return
	}
	p := s.world.CreateEntity()
	s.world.Components.Projectiles.Add(p, worldstate.Projectile{
		OwnerPlayerID: sel.PlayerID,
		SourceEntity:  owner,
		TargetEntity:  u.TargetEntity,
		TargetPos:     to,
		Speed:         projectileSpeed,
		Damage:        defaultAttackDamage,
	})
	s.world.SetTransform(p, worldstate.Transform{Pos: from})
}

func (s *CombatSystem) advanceProjectiles() {
	for _, p := range s.world.Components.Projectiles.All() {
		proj, ok := s.world.Components.Projectiles.Get(p)
		if !ok {
			continue
		}
		pos, ok := s.world.Components.Transforms.Get(p)
		if !ok {
			s.world.QueueDestroy(p)
			continue
		}

		target := proj.TargetPos
		if proj.TargetEntity != core.NoEntity {
			if tp, ok := s.world.Components.Transforms.Get(proj.TargetEntity); ok {
				target = tp.Pos
			}
		}

		delta := target.Sub(pos.Pos)
		dist := pos.Pos.Distance(target)
		if dist <= proj.Speed {
			if proj.TargetEntity != core.NoEntity {
				s.applyDamage(proj.TargetEntity, proj.Damage)
			}
			s.world.QueueDestroy(p)
			continue
		}

		step := fixedpoint.Div(delta.X, dist)
		stepY := fixedpoint.Div(delta.Y, dist)
		next := fixedpoint.Point{
			X: pos.Pos.X + fixedpoint.Mul(step, proj.Speed),
			Y: pos.Pos.Y + fixedpoint.Mul(stepY, proj.Speed),
		}
		s.world.SetTransform(p, worldstate.Transform{Pos: next})
	}
}

func (s *CombatSystem) applyDamage(target core.Entity, amount int32) {
	h, ok := s.world.Components.Healths.Get(target)
	if !ok {
		return
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	s.world.Components.Healths.Add(target, h)
	if s.deps.Bus != nil {
		s.deps.Bus.Emit(event.CombatDamageApplied, target)
	}
	if h.Dead() {
		s.world.QueueDestroy(target)
	}
}
