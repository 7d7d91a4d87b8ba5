package system

import (
	"github.com/voidmarch/simcore/event"
	"github.com/voidmarch/simcore/worldstate"
)

// Cue names a gameplay moment the Output phase can react to (spec.md §4.5
// layer 10). Cue selection is driven off hashed gameplay events emitted
// earlier in the same tick's pipeline, but playback itself is never hashed
// — it is a local spectator concern, not simulation state (spec.md §9).
type Cue int

const (
	CueDamage Cue = iota
	CueUnitSpawned
)

// Player plays a cue. A nil Player (the default for a headless/dedicated
// match) makes AudioSystem a no-op rather than requiring every caller to
// special-case "no sound device".
type Player interface {
	Play(Cue)
}

// AudioSystem is the Output phase: it subscribes to gameplay events once,
// at construction, and each tick flushes whatever cues those handlers
// queued into Player. It never reads or writes world state itself.
type AudioSystem struct {
	world   *worldstate.World
	deps    Deps
	player  Player
	pending []Cue
	enabled bool
}

func NewAudioSystem(world *worldstate.World, deps Deps) *AudioSystem {
	s := &AudioSystem{world: world, deps: deps, player: deps.Audio, enabled: deps.Audio != nil}
	if !s.enabled || deps.Bus == nil {
		return s
	}
	deps.Bus.On(event.CombatDamageApplied, func(any) { s.pending = append(s.pending, CueDamage) })
	deps.Bus.On(event.UnitSpawned, func(any) { s.pending = append(s.pending, CueUnitSpawned) })
	return s
}

func (s *AudioSystem) Update(tick uint64) {
	if !s.enabled || len(s.pending) == 0 {
		return
	}
	for _, c := range s.pending {
		s.player.Play(c)
	}
	s.pending = s.pending[:0]
}
