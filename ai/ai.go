// Package ai drives non-human players deterministically: a priority-ordered
// strategic state machine, a declarative build order executor, and per-unit
// micro (kiting, focus fire, retreat), all computed purely from world state
// and a tick-reseeded RNG so every peer's simulated opponent behaves
// identically without exchanging anything beyond the commands it issues.
package ai

import "github.com/voidmarch/simcore/config"

// State is one of the six strategic postures a controlled player occupies.
type State uint8

const (
	StateBuilding State = iota
	StateExpanding
	StateAttacking
	StateDefending
	StateScouting
	StateHarassing
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateExpanding:
		return "expanding"
	case StateAttacking:
		return "attacking"
	case StateDefending:
		return "defending"
	case StateScouting:
		return "scouting"
	case StateHarassing:
		return "harassing"
	default:
		return "unknown"
	}
}

// thinkInterval gates how often a controller re-evaluates its state and
// build order; micro runs inside the same think pass, so it follows this
// difficulty-scaled cadence too.
var thinkInterval = map[config.Difficulty]uint64{
	config.DifficultyEasy:     40,
	config.DifficultyMedium:   20,
	config.DifficultyHard:     10,
	config.DifficultyVeryHard: 5,
	config.DifficultyInsane:   2,
}

func intervalFor(d config.Difficulty) uint64 {
	if v, ok := thinkInterval[d]; ok {
		return v
	}
	return 20
}

// combatStickyTicks is how long StateAttacking holds once entered, even if
// the triggering engagement momentarily drops out of sight, so the
// controller doesn't flicker between attacking and its next-highest
// priority state every think tick.
const combatStickyTicks = 100
