package ai

import (
	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/config"
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/worldstate"
)

// rngOffset spaces each player's reseed stream apart so two AI-controlled
// players on the same tick don't draw identical random sequences.
func rngOffset(playerID uint8) uint32 { return uint32(playerID)*104729 + 17 }

// Controller drives one non-human player. Every field it carries is
// recomputed or advanced purely from (tick, world) — there is no
// wall-clock or network input anywhere in its decision path, so two
// controllers built with the same order and difficulty, fed the same
// world, make the same decisions.
type Controller struct {
	PlayerID   uint8
	Difficulty config.Difficulty
	order      Order

	state             State
	combatStickyUntil uint64
	build             buildOrderState
	scoutedAt         uint64
}

// NewController creates a controller for playerID following order, an
// opening build order it runs until exhausted before falling back to
// counter-composition-driven production on hard and above difficulties.
func NewController(playerID uint8, difficulty config.Difficulty, order Order) *Controller {
	return &Controller{PlayerID: playerID, Difficulty: difficulty, order: order, state: StateBuilding}
}

// ShouldThink reports whether tick is one of this controller's
// difficulty-scaled think ticks.
func (c *Controller) ShouldThink(tick uint64) bool {
	return tick%intervalFor(c.Difficulty) == 0
}

// Think runs one full decision pass: re-evaluate state by priority, then
// act on it. Called only on ShouldThink ticks. Micro runs only in the
// defending, attacking and harassing states, and only on these same
// difficulty-scaled ticks (spec.md §4.7 "easier AI should react slower").
func (c *Controller) Think(tick uint64, w *worldstate.World, queue *command.Queue) {
	obs := Observe(w, c.PlayerID, tick)
	rng := fixedpoint.Reseed(tick, rngOffset(c.PlayerID))

	c.state = c.evaluateState(tick, obs, rng)

	c.assignIdleWorkers(w, obs)

	switch c.state {
	case StateDefending, StateAttacking, StateHarassing:
		c.micro(tick, w, queue, obs)
		if c.state != StateHarassing {
			c.assignIdleCombatUnits(w, obs)
		}
	case StateScouting:
		c.scout(tick, queue, obs)
		c.runBuildOrder(tick, w, obs, queue)
	case StateExpanding, StateBuilding:
		c.runBuildOrder(tick, w, obs, queue)
		c.assignIdleCombatUnits(w, obs)
	}
}

// evaluateState applies the fixed priority order: defending beats attacking
// (sticky while the engagement is ongoing) beats harassing beats expanding
// beats scouting beats building (spec.md §4.7).
func (c *Controller) evaluateState(tick uint64, obs Observation, rng *fixedpoint.RNG) State {
	if obs.UnderAttack {
		c.combatStickyUntil = tick + combatStickyTicks
		return StateDefending
	}
	if c.state == StateAttacking && tick < c.combatStickyUntil && len(obs.EnemyUnits) > 0 {
		return StateAttacking
	}
	if len(obs.EnemyUnits) > 0 && obs.ArmySupply() >= harassArmyThreshold(c.Difficulty) && rng.Chance(1, 4) {
		return StateHarassing
	}
	if obs.ArmySupply() >= attackArmyThreshold(c.Difficulty) && len(obs.EnemyUnits) > 0 {
		c.combatStickyUntil = tick + combatStickyTicks
		return StateAttacking
	}
	if obs.Economy.SupplyUsed >= expandSupplyGate && c.build.index >= len(c.order) {
		return StateExpanding
	}
	if scoutEnabled(c.Difficulty) && tick-c.scoutedAt > scoutCooldown && len(obs.IdleCombatUnits) > 0 {
		return StateScouting
	}
	return StateBuilding
}

// Difficulty-scaled thresholds: easier tiers commit to an attack only with
// a larger army and never harass or scout at all.
const expandSupplyGate = 16
const scoutCooldown = 600

func attackArmyThreshold(d config.Difficulty) int {
	switch d {
	case config.DifficultyEasy:
		return 12
	case config.DifficultyMedium:
		return 8
	case config.DifficultyHard:
		return 6
	default:
		return 4
	}
}

func harassArmyThreshold(d config.Difficulty) int {
	switch d {
	case config.DifficultyVeryHard, config.DifficultyInsane:
		return 2
	case config.DifficultyHard:
		return 3
	default:
		return 1 << 30 // effectively disabled below hard
	}
}

func scoutEnabled(d config.Difficulty) bool {
	return d == config.DifficultyHard || d == config.DifficultyVeryHard || d == config.DifficultyInsane
}

func countersEnabled(d config.Difficulty) bool {
	return d == config.DifficultyHard || d == config.DifficultyVeryHard || d == config.DifficultyInsane
}

// runBuildOrder advances the declarative opening; once exhausted, harder
// difficulties fall back to training whatever counterMatrix recommends
// against the most common enemy unit kind observed (spec.md §4.7
// "Counter-composition").
func (c *Controller) runBuildOrder(tick uint64, w *worldstate.World, obs Observation, queue *command.Queue) {
	if c.build.index < len(c.order) {
		producer, step, ok := c.build.advance(c.order, obs, w)
		if !ok {
			return
		}
		c.issueBuild(tick, queue, producer, step.ItemID, step.IsUnit)
		return
	}

	if len(obs.IdleWorkers) == 0 && len(obs.OwnBuildings) == 0 {
		return
	}
	producer, ok := findProducer(obs, w, Step{IsUnit: true})
	if !ok {
		return
	}
	kindID := consultCounters(countersEnabled(c.Difficulty), obs.EnemyKindCounts, 1)
	c.issueBuild(tick, queue, producer, kindID, true)
}

func (c *Controller) issueBuild(tick uint64, queue *command.Queue, producer core.Entity, itemID uint32, isUnit bool) {
	queue.Receive(command.Command{
		Tick:       tick + 1,
		PlayerID:   c.PlayerID,
		Type:       command.TypeBuild,
		EntityRefs: []core.Entity{producer},
		Payload:    command.BuildOrder{ItemID: itemID, IsUnit: isUnit, Ticks: 20},
	}, tick)
}

// assignIdleWorkers keeps every idle worker gathering from the first
// resource entity in the world — a stand-in for real expansion-aware
// worker distribution, grounded in the same assignment the simulation
// core's minimal AI used before this package existed.
func (c *Controller) assignIdleWorkers(w *worldstate.World, obs Observation) {
	resources := w.Components.Resources.All()
	if len(resources) == 0 {
		return
	}
	for _, e := range obs.IdleWorkers {
		u, ok := w.Components.Units.Get(e)
		if !ok {
			continue
		}
		u.TargetEntity = resources[0]
		u.State = worldstate.UnitGathering
		w.Components.Units.Add(e, u)
	}
}

// assignIdleCombatUnits attack-moves every idle combat unit toward the
// nearest visible enemy, so an army doesn't sit still between think ticks
// waiting on the next state transition.
func (c *Controller) assignIdleCombatUnits(w *worldstate.World, obs Observation) {
	if len(obs.EnemyUnits) == 0 {
		return
	}
	for _, e := range obs.IdleCombatUnits {
		pos, ok := w.Components.Transforms.Get(e)
		if !ok {
			continue
		}
		best := obs.EnemyUnits[0]
		bestDist := pos.Pos.Distance(mustPos(w, best))
		for _, enemy := range obs.EnemyUnits[1:] {
			d := pos.Pos.Distance(mustPos(w, enemy))
			if d < bestDist {
				best, bestDist = enemy, d
			}
		}
		u, ok := w.Components.Units.Get(e)
		if !ok {
			continue
		}
		u.TargetEntity = best
		u.State = worldstate.UnitAttackMoving
		w.Components.Units.Add(e, u)
	}
}

func mustPos(w *worldstate.World, e core.Entity) fixedpoint.Point {
	t, _ := w.Components.Transforms.Get(e)
	return t.Pos
}

// scout sends one idle combat unit toward the fixed cell (1,1), a cheap
// deterministic stand-in for real frontier exploration. The unit's own
// position and the map size are not consulted.
func (c *Controller) scout(tick uint64, queue *command.Queue, obs Observation) {
	if len(obs.IdleCombatUnits) == 0 {
		return
	}
	c.scoutedAt = tick
	e := obs.IdleCombatUnits[0]
	queue.Receive(command.Command{
		Tick:         tick + 1,
		PlayerID:     c.PlayerID,
		Type:         command.TypeMove,
		EntityRefs:   []core.Entity{e},
		HasTargetPos: true,
		TargetPos:    fixedpoint.Point{X: fixedpoint.FromInt(1), Y: fixedpoint.FromInt(1)},
	}, tick)
}
