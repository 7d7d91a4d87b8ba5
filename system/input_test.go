package system

import (
	"testing"

	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/worldstate"
)

func TestInputSystem_MoveCommandSetsTargetPos(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	deps := newTestDeps(w)
	e := spawnTestUnit(w, 0, 0, 0)

	deps.Queue.Receive(command.Command{
		Tick:         0,
		PlayerID:     0,
		Type:         command.TypeMove,
		EntityRefs:   []core.Entity{e},
		HasTargetPos: true,
		TargetPos:    fixedpoint.Point{X: fixedpoint.FromInt(5), Y: fixedpoint.FromInt(5)},
	}, 0)

	in := NewInputSystem(w, deps)
	in.Update(0)

	u, _ := w.Components.Units.Get(e)
	if !u.HasTargetPos || u.State != worldstate.UnitMoving {
		t.Fatalf("expected move command to set target pos and moving state, got %+v", u)
	}
}

func TestInputSystem_RejectsOwnershipMismatchInMultiplayer(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	deps := newTestDeps(w)
	deps.Config.IsMultiplayer = true
	e := spawnTestUnit(w, 1, 0, 0) // owned by player 1

	deps.Queue.Receive(command.Command{
		Tick:       10,
		PlayerID:   0, // claims to be player 0, but owns nothing
		Type:       command.TypeMove,
		EntityRefs: []core.Entity{e},
	}, 10)

	in := NewInputSystem(w, deps)
	in.Update(10)

	u, _ := w.Components.Units.Get(e)
	if u.State != worldstate.UnitIdle {
		t.Fatalf("expected ownership-mismatched command to be rejected, unit state changed to %v", u.State)
	}
}

func TestInputSystem_BuildWithPlacementRoutesToPlacementQueue(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	deps := newTestDeps(w)
	builder := spawnTestUnit(w, 0, 3, 3)

	deps.Queue.Receive(command.Command{
		Tick:       0,
		PlayerID:   0,
		Type:       command.TypeBuild,
		EntityRefs: []core.Entity{builder},
		Payload: command.BuildOrder{
			ItemID:       7,
			HasPlacement: true,
			Pos:          fixedpoint.Point{X: fixedpoint.FromInt(10), Y: fixedpoint.FromInt(10)},
		},
	}, 0)

	in := NewInputSystem(w, deps)
	in.Update(0)

	pending := deps.Placements.drain()
	if len(pending) != 1 || pending[0].Builder != builder {
		t.Fatalf("expected build-with-placement order to reach the placement queue, got %v", pending)
	}
}
