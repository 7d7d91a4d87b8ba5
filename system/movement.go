package system

import (
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/nav"
	"github.com/voidmarch/simcore/worldstate"
)

// defaultUnitSpeed is the per-tick step distance in fixed-point map units
// for any unit whose kind isn't in a (not-yet-wired) stat table.
const defaultUnitSpeed = fixedpoint.Scale * 3 / 10 // 0.3 cells/tick

// arriveEpsilon is how close a unit must get to its target before it's
// considered arrived and snapped exactly onto it (avoids infinite
// oscillation from fixed-point rounding).
const arriveEpsilon = fixedpoint.Scale / 4

// MovementSystem is the Movement phase (spec.md §4.5): it advances every
// moving/attack-moving unit toward its TargetPos by one tick's worth of
// travel, blocked by impassable terrain. Units with no TargetPos are left
// untouched — Combat and AI are responsible for setting one.
type MovementSystem struct {
	world  *worldstate.World
	deps   Deps
	isWall nav.WallChecker
}

func NewMovementSystem(world *worldstate.World, deps Deps) *MovementSystem {
	return &MovementSystem{world: world, deps: deps, isWall: nav.TerrainWallChecker(world)}
}

func (s *MovementSystem) Update(tick uint64) {
	for _, e := range s.world.Components.Units.All() {
		u, ok := s.world.Components.Units.Get(e)
		if !ok || !u.HasTargetPos {
			continue
		}
		if u.State != worldstate.UnitMoving && u.State != worldstate.UnitAttackMoving {
			continue
		}

		pos, ok := s.world.Components.Transforms.Get(e)
		if !ok {
			continue
		}

		delta := u.TargetPos.Sub(pos.Pos)
		dist := fixedpoint.Sqrt(fixedpoint.Mul(delta.X, delta.X) + fixedpoint.Mul(delta.Y, delta.Y))
		if dist <= arriveEpsilon {
			s.world.SetTransform(e, worldstate.Transform{Pos: u.TargetPos, Z: pos.Z, Orientation: pos.Orientation})
			u.HasTargetPos = false
			if u.State == worldstate.UnitMoving {
				u.State = worldstate.UnitIdle
			}
			s.world.Components.Units.Add(e, u)
			continue
		}

		step := defaultUnitSpeed
		if step > dist {
			step = dist
		}
		nx := pos.Pos.X + fixedpoint.Mul(fixedpoint.Div(delta.X, dist), step)
		ny := pos.Pos.Y + fixedpoint.Mul(fixedpoint.Div(delta.Y, dist), step)

		cx, cy := fixedpoint.ToInt(nx), fixedpoint.ToInt(ny)
		if !u.IsFlying && s.isWall(cx, cy) {
			continue
		}

		angle := fixedpoint.Atan2(delta.Y, delta.X)
		s.world.SetTransform(e, worldstate.Transform{
			Pos:         fixedpoint.Point{X: nx, Y: ny},
			Z:           pos.Z,
			Orientation: angle,
		})
	}
}
