package system

import (
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/worldstate"
)

// VisionSystem is the Vision phase (spec.md §4.5). It has no fog-of-war or
// rendering concern in this core — sight range exists purely to gate
// combat target acquisition, so this system's only job is to assign an
// idle/attack-moving unit a TargetEntity when an enemy enters its
// SightRange, leaving engagement itself to Combat.
type VisionSystem struct {
	world *worldstate.World
	deps  Deps
}

func NewVisionSystem(world *worldstate.World, deps Deps) *VisionSystem {
	return &VisionSystem{world: world, deps: deps}
}

func (s *VisionSystem) Update(tick uint64) {
	for _, e := range s.world.Components.Units.All() {
		u, ok := s.world.Components.Units.Get(e)
		if !ok || (u.State != worldstate.UnitIdle && u.State != worldstate.UnitAttackMoving) || u.TargetEntity != core.NoEntity {
			continue
		}
		pos, ok := s.world.Components.Transforms.Get(e)
		if !ok {
			continue
		}
		sel, ok := s.world.Components.Selectables.Get(e)
		if !ok {
			continue
		}

		sightCells := fixedpoint.ToInt(u.SightRange) + 1
		cx, cy := fixedpoint.ToInt(pos.Pos.X), fixedpoint.ToInt(pos.Pos.Y)
		candidates := s.world.UnitGrid.QueryRadius(cx, cy, sightCells)

		var best core.Entity
		bestDist := fixedpoint.Fixed(0)
		for _, other := range candidates {
			if other == e {
				continue
			}
			otherSel, ok := s.world.Components.Selectables.Get(other)
			if !ok || otherSel.PlayerID == sel.PlayerID {
				continue
			}
			otherPos, ok := s.world.Components.Transforms.Get(other)
			if !ok {
				continue
			}
			d := pos.Pos.Distance(otherPos.Pos)
			if d > u.SightRange {
				continue
			}
			if best == core.NoEntity || d < bestDist {
				best, bestDist = other, d
			}
		}

		if best != core.NoEntity {
			u.TargetEntity = best
			u.State = worldstate.UnitAttackMoving
			s.world.Components.Units.Add(e, u)
		}
	}
}
