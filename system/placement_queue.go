package system

import (
	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/core"
)

// pendingPlacement is a structure build order awaiting footprint
// validation: it has a map position rather than an existing producer, so
// it can't be queued onto a Building's ProductionQueue the way a
// trained-unit order is.
type pendingPlacement struct {
	Builder core.Entity
	Order   command.BuildOrder
}

// PlacementQueue hands build-at-position orders from Input to Placement
// within the same tick — the two phases run back to back, so a one-tick
// handoff buffer (rather than a full event round-trip) is enough to keep
// them decoupled.
type PlacementQueue struct {
	pending []pendingPlacement
}

func NewPlacementQueue() *PlacementQueue {
	return &PlacementQueue{}
}

func (q *PlacementQueue) push(p pendingPlacement) {
	q.pending = append(q.pending, p)
}

func (q *PlacementQueue) drain() []pendingPlacement {
	out := q.pending
	q.pending = nil
	return out
}
