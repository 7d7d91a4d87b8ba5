package ai

import (
	"log"

	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/worldstate"
)

// Step is one declarative build-order entry: train a unit or construct a
// building, optionally gated on supply and an arbitrary predicate over the
// current observation (spec.md §4.7 "Build order").
type Step struct {
	IsUnit     bool
	ItemID     uint32
	SupplyGate int32                   // 0 means ungated
	Predicate  func(Observation) bool  // nil means always eligible
}

// Order is an ordered build-order program, executed strictly in sequence.
type Order []Step

// maxConsecutiveFailures bounds how many think ticks a stuck step is
// retried before it is skipped and logged (spec.md §4.7).
const maxConsecutiveFailures = 8

// stepCost is a placeholder resource table, the same shape as spawn.go's
// templateFor: a real content pack supplies per-kind costs, but the
// executor needs some deterministic number to gate production against.
type stepCost struct {
	Minerals, Vespene int32
}

func costFor(itemID uint32) stepCost {
	return stepCost{Minerals: 50, Vespene: 0}
}

// buildOrderState is one controller's progress through its Order, kept
// separate from Order itself so the same declarative program can in
// principle be shared by multiple controllers.
type buildOrderState struct {
	index     int
	failCount int
}

// advance evaluates the current step against obs and, if runnable, returns
// the producing entity and item to queue. It never blocks forever: a step
// whose predicate or resources are unmet is retried next call; one that
// fails past maxConsecutiveFailures is skipped.
func (s *buildOrderState) advance(order Order, obs Observation, w *worldstate.World) (producer core.Entity, step Step, ok bool) {
	for s.index < len(order) {
		step = order[s.index]

		if step.SupplyGate > 0 && obs.Economy.SupplyUsed < step.SupplyGate {
			s.fail(order)
			return core.NoEntity, Step{}, false
		}
		if step.Predicate != nil && !step.Predicate(obs) {
			s.fail(order)
			return core.NoEntity, Step{}, false
		}

		cost := costFor(step.ItemID)
		if obs.Economy.Minerals < cost.Minerals || obs.Economy.Vespene < cost.Vespene {
			s.fail(order)
			return core.NoEntity, Step{}, false
		}

		producer, found := findProducer(obs, w, step)
		if !found {
			s.fail(order)
			return core.NoEntity, Step{}, false
		}

		s.index++
		s.failCount = 0
		return producer, step, true
	}
	return core.NoEntity, Step{}, false
}

func (s *buildOrderState) fail(order Order) {
	s.failCount++
	if s.failCount > maxConsecutiveFailures {
		log.Printf("ai: build-order step %d (item %d) skipped after %d consecutive failures", s.index, order[s.index].ItemID, s.failCount)
		s.index++
		s.failCount = 0
	}
}

// findProducer picks the first idle-enough owned building (for structures
// and units alike, since the simulation core doesn't yet model per-kind
// tech trees) that isn't already mid-construction.
func findProducer(obs Observation, w *worldstate.World, step Step) (core.Entity, bool) {
	for _, e := range obs.OwnBuildings {
		b, ok := w.Components.Buildings.Get(e)
		if !ok || b.State != worldstate.BuildingComplete {
			continue
		}
		return e, true
	}
	if step.IsUnit && len(obs.IdleWorkers) > 0 {
		return obs.IdleWorkers[0], true
	}
	return core.NoEntity, false
}
