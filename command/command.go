// Package command is the Command Queue — the lockstep core. It schedules
// every player command for execution at a specific future tick, guarantees
// all peers execute the same command at the same tick in the same order,
// and authorizes each command against the world before dispatch (spec.md
// §4.3).
package command

import (
	"sort"

	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
)

// Type enumerates the command vocabulary from spec.md §4.3: unit orders,
// construction, production control, and the no-op heartbeat.
type Type uint16

const (
	TypeHeartbeat Type = iota // no-op, registers a peer's presence on a tick

	// Unit orders
	TypeMove
	TypeAttack
	TypeStop
	TypePatrol

	// Construction
	TypeBuild
	TypeRally
	TypeLiftOff
	TypeLand

	// Production control
	TypeCancelProduction
	TypeQueueReorder
	TypeAutocastToggle
)

// Command is a single scheduled order. EntityRefs holds every
// ownership-sensitive entity id referenced by the command (unit list,
// transport id, bunker id, building id) — commands that reference no
// entity (e.g. place-building-at-position) leave it empty and are exempt
// from ownership checks per spec.md §4.3.
type Command struct {
	Tick       uint64
	PlayerID   uint8
	Type       Type
	EntityRefs []core.Entity

	HasTargetEntity bool
	TargetEntity    core.Entity

	HasTargetPos bool
	TargetPos    fixedpoint.Point

	// Payload carries type-specific fields (build kind id, patrol waypoints,
	// queue reorder index, autocast on/off, ...). Concrete gameplay systems
	// own the shape; the queue never inspects it.
	Payload any
}

// BuildOrder is the TypeBuild payload (spec.md §4.3): the item to queue
// (unit or structure) plus, for structures, the map position a placement
// must be validated against rather than an existing producer.
type BuildOrder struct {
	ItemID       uint32
	IsUnit       bool
	Ticks        uint64
	HasPlacement bool
	Pos          fixedpoint.Point
}

// FirstEntityID returns the first entity reference, or core.NoEntity if the
// command references none — used as the sort tertiary key.
func (c Command) FirstEntityID() core.Entity {
	if len(c.EntityRefs) == 0 {
		return core.NoEntity
	}
	return c.EntityRefs[0]
}

// Less implements the deterministic dispatch order from spec.md §4.3 and §8
// invariant 3: primary by issuing player id, secondary by type tag, tertiary
// by first entity id.
func Less(a, b Command) bool {
	if a.PlayerID != b.PlayerID {
		return a.PlayerID < b.PlayerID
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return a.FirstEntityID() < b.FirstEntityID()
}

// SortDeterministic sorts commands in place using Less. The sort is
// necessarily stable-irrelevant: Less already totally orders any two
// commands with distinct (player, type, firstEntity) tuples, and commands
// that compare equal have no observable difference in dispatch order.
func SortDeterministic(cmds []Command) {
	sort.Slice(cmds, func(i, j int) bool { return Less(cmds[i], cmds[j]) })
}
