package system

import (
	"testing"

	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/config"
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/desync"
	"github.com/voidmarch/simcore/event"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/sysreg"
	"github.com/voidmarch/simcore/worldstate"
)

func newTestDeps(w *worldstate.World) Deps {
	bus := event.NewBus()
	return Deps{
		Bus:        bus,
		Queue:      command.NewQueue(bus, 4, 100),
		Config:     config.Match{MapWidth: w.MapWidth, MapHeight: w.MapHeight, TickRate: 20, CommandDelayTicks: 4, ChecksumInterval: 5},
		Detector:   desync.NewDetector(bus),
		Owners:     worldOwner{world: w},
		Placements: NewPlacementQueue(),
	}
}

func TestRegister_ProducesValidAcyclicPipeline(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	r := sysreg.NewRegistry()
	Register(r, newTestDeps(w))

	pipeline, err := sysreg.Build(r, w)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	names := pipeline.Names()
	want := []string{"input", "spawn", "placement", "mechanics", "movement", "vision", "combat", "economy", "audio", "meta"}
	if len(names) != len(want) {
		t.Fatalf("expected %d systems (ai disabled by default), got %v", len(want), names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("expected order %v, got %v", want, names)
		}
	}
}

func TestRegister_IncludesAIWhenEnabled(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	deps := newTestDeps(w)
	deps.Config.AIEnabled = true
	r := sysreg.NewRegistry()
	Register(r, deps)

	pipeline, err := sysreg.Build(r, w)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	found := false
	for _, n := range pipeline.Names() {
		if n == "ai" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected ai system in pipeline when AIEnabled is true")
	}
}

func TestPipeline_RunOnceDoesNotPanicOnEmptyWorld(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	r := sysreg.NewRegistry()
	Register(r, newTestDeps(w))
	pipeline, err := sysreg.Build(r, w)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for tick := uint64(0); tick < 5; tick++ {
		pipeline.RunOnce(tick)
		w.EndPass()
		w.AdvanceTick()
	}
}

func spawnTestUnit(w *worldstate.World, player uint8, x, y int) core.Entity {
	e := w.CreateEntity()
	w.Components.Units.Add(e, worldstate.Unit{
		KindID:      1,
		AttackRange: fixedpoint.FromInt(1),
		SightRange:  fixedpoint.FromInt(6),
	})
	w.SetTransform(e, worldstate.Transform{Pos: fixedpoint.Point{X: fixedpoint.FromInt(x), Y: fixedpoint.FromInt(y)}})
	w.Components.Healths.Add(e, worldstate.Health{Current: 40, Max: 40})
	w.Components.Selectables.Add(e, worldstate.Selectable{PlayerID: player})
	return e
}

func TestMovementSystem_StepsUnitTowardTarget(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	deps := newTestDeps(w)
	e := spawnTestUnit(w, 0, 0, 0)
	u, _ := w.Components.Units.Get(e)
	u.State = worldstate.UnitMoving
	u.HasTargetPos = true
	u.TargetPos = fixedpoint.Point{X: fixedpoint.FromInt(10), Y: 0}
	w.Components.Units.Add(e, u)

	mv := NewMovementSystem(w, deps)
	mv.Update(0)

	pos, _ := w.Components.Transforms.Get(e)
	if pos.Pos.X <= 0 {
		t.Fatalf("expected unit to move toward target, got X=%v", pos.Pos.X)
	}
}

func TestVisionSystem_AcquiresEnemyInRange(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	deps := newTestDeps(w)
	mine := spawnTestUnit(w, 0, 5, 5)
	enemy := spawnTestUnit(w, 1, 6, 5)

	vis := NewVisionSystem(w, deps)
	vis.Update(0)

	u, _ := w.Components.Units.Get(mine)
	if u.TargetEntity != enemy {
		t.Fatalf("expected vision to acquire nearby enemy, got target %v", u.TargetEntity)
	}
}

func TestCombatSystem_MeleeKillsLowHealthTarget(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	deps := newTestDeps(w)
	attacker := spawnTestUnit(w, 0, 5, 5)
	target := spawnTestUnit(w, 1, 5, 5)
	w.Components.Healths.Add(target, worldstate.Health{Current: 1, Max: 40})

	u, _ := w.Components.Units.Get(attacker)
	u.TargetEntity = target
	w.Components.Units.Add(attacker, u)

	combat := NewCombatSystem(w, deps)
	combat.Update(0)
	w.EndPass()

	if !w.IsRetired(target) {
		t.Fatal("expected low-health target to die from melee damage")
	}
}
