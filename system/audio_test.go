package system

import (
	"testing"

	"github.com/voidmarch/simcore/worldstate"
)

type recordingPlayer struct {
	played []Cue
}

func (p *recordingPlayer) Play(c Cue) { p.played = append(p.played, c) }

func TestAudioSystem_NoopWithoutPlayer(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	deps := newTestDeps(w)
	a := NewAudioSystem(w, deps)
	a.Update(0) // must not panic with deps.Audio == nil
}

func TestAudioSystem_QueuesDamageCueFromCombat(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	deps := newTestDeps(w)
	player := &recordingPlayer{}
	deps.Audio = player

	attacker := spawnTestUnit(w, 0, 5, 5)
	target := spawnTestUnit(w, 1, 5, 5)
	w.Components.Healths.Add(target, worldstate.Health{Current: 1, Max: 40})
	u, _ := w.Components.Units.Get(attacker)
	u.TargetEntity = target
	w.Components.Units.Add(attacker, u)

	audio := NewAudioSystem(w, deps)
	combat := NewCombatSystem(w, deps)
	combat.Update(0)
	audio.Update(0)

	if len(player.played) != 1 || player.played[0] != CueDamage {
		t.Fatalf("expected one CueDamage, got %v", player.played)
	}
}
