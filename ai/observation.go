package ai

import (
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/worldstate"
)

// recentDamageWindow is how many ticks back LastDamageTick counts as "under
// attack" for the purpose of the defending transition.
const recentDamageWindow = 30

// Observation is the summarized view of the world a controller's think pass
// reads. It is rebuilt fresh every think tick rather than cached, so two
// peers computing it from bit-identical world state always agree.
type Observation struct {
	Tick     uint64
	PlayerID uint8
	Economy  worldstate.Economy

	IdleWorkers     []core.Entity
	IdleCombatUnits []core.Entity
	OwnCombatUnits  []core.Entity
	OwnBuildings    []core.Entity

	EnemyUnits      []core.Entity
	EnemyKindCounts map[uint32]int

	UnderAttack bool
}

// Observe walks the world's stores once and buckets every entity relevant
// to a controller's decisions. Enemy visibility is simplified to "every
// enemy unit currently alive" — the simulation core has no fog-of-war
// occlusion of its own yet, so full visibility is the honest baseline
// rather than a fabricated sight check.
func Observe(w *worldstate.World, playerID uint8, tick uint64) Observation {
	obs := Observation{
		Tick:            tick,
		PlayerID:        playerID,
		EnemyKindCounts: make(map[uint32]int),
	}
	obs.Economy = *w.EconomyFor(playerID)

	for _, e := range w.Components.Units.All() {
		u, ok := w.Components.Units.Get(e)
		if !ok {
			continue
		}
		sel, ok := w.Components.Selectables.Get(e)
		if !ok {
			continue
		}
		if sel.PlayerID != playerID {
			obs.EnemyUnits = append(obs.EnemyUnits, e)
			obs.EnemyKindCounts[u.KindID]++
			continue
		}
		if u.IsWorker {
			if u.State == worldstate.UnitIdle {
				obs.IdleWorkers = append(obs.IdleWorkers, e)
			}
			continue
		}
		obs.OwnCombatUnits = append(obs.OwnCombatUnits, e)
		if u.State == worldstate.UnitIdle {
			obs.IdleCombatUnits = append(obs.IdleCombatUnits, e)
		}
		if h, ok := w.Components.Healths.Get(e); ok && tick >= h.LastDamageTick && tick-h.LastDamageTick <= recentDamageWindow && h.LastDamageTick > 0 {
			obs.UnderAttack = true
		}
	}

	for _, e := range w.Components.Buildings.All() {
		sel, ok := w.Components.Selectables.Get(e)
		if !ok || sel.PlayerID != playerID {
			continue
		}
		obs.OwnBuildings = append(obs.OwnBuildings, e)
		if h, ok := w.Components.Healths.Get(e); ok && tick >= h.LastDamageTick && tick-h.LastDamageTick <= recentDamageWindow && h.LastDamageTick > 0 {
			obs.UnderAttack = true
		}
	}

	return obs
}

// ArmySupply is a cheap proxy for army size: the count of own non-idle or
// idle combat units (everything gathered by Observe into OwnCombatUnits).
func (o Observation) ArmySupply() int { return len(o.OwnCombatUnits) }
