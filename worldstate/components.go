package worldstate

import (
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
)

// UnitState enumerates spec.md §3 Unit.state.
type UnitState uint8

const (
	UnitIdle UnitState = iota
	UnitMoving
	UnitAttackMoving
	UnitAttacking
	UnitGathering
	UnitBuilding
)

// BuildingState enumerates spec.md §3 Building.state.
type BuildingState uint8

const (
	BuildingConstructing BuildingState = iota
	BuildingComplete
	BuildingLifting
	BuildingFlying
	BuildingLanding
)

// ResourceKind enumerates spec.md §3 Resource.kind.
type ResourceKind uint8

const (
	ResourceMinerals ResourceKind = iota
	ResourceVespene
)

// Transform is position + orientation, quantized before it ever reaches the
// checksum system (spec.md §3 "position quantized to fixed-point before
// hashing").
type Transform struct {
	Pos         fixedpoint.Point
	Z           fixedpoint.Fixed // elevation/height layer, quantized like X/Y
	Orientation fixedpoint.Fixed // angle, 0..Scale convention (fixedpoint.Sin/Cos)
}

// Unit is spec.md §3 Unit.
type Unit struct {
	KindID        uint32
	State         UnitState
	TargetEntity  core.Entity // core.NoEntity if unset
	HasTargetPos  bool
	TargetPos     fixedpoint.Point
	AttackRange   fixedpoint.Fixed
	SightRange    fixedpoint.Fixed
	IsWorker      bool
	IsFlying      bool
}

// Building is spec.md §3 Building.
type Building struct {
	KindID          uint32
	Width, Height   int
	State           BuildingState
	BuildProgress   fixedpoint.Fixed // quantized to [0, Scale]
	ProductionQueue []ProductionOrder
	AddonEntity     core.Entity // core.NoEntity if no addon
	CanAttack       bool
}

// ProductionOrder is one entry in a Building.ProductionQueue.
type ProductionOrder struct {
	ItemID        uint32
	RemainingTick uint64
	IsUnit        bool
}

// Health is spec.md §3 Health. Dead iff Current <= 0; current must never
// exceed Max (enforced by the combat system, not by the store).
type Health struct {
	Current, Max  int32
	Shield        int32
	LastDamageTick uint64
}

func (h Health) Dead() bool { return h.Current <= 0 }

// Selectable is spec.md §3 Selectable — immutable after creation.
type Selectable struct {
	PlayerID uint8
}

// Resource is spec.md §3 Resource.
type Resource struct {
	Kind         ResourceKind
	Amount       int32
	Gatherers    int32
	ExtractorRef core.Entity // core.NoEntity if none
}

// Ability is spec.md §3 Ability.
type Ability struct {
	Cooldowns map[uint32]uint32 // ability id -> remaining ticks
	Energy    int32
}

// Projectile is a checksummed category in its own right (spec.md §4.8
// "categories {units, buildings, resources, projectiles}"), tracking an
// in-flight ranged attack from source to target so the combat system can
// resolve impact deterministically on the tick it arrives rather than
// instantaneously on the tick it was fired.
type Projectile struct {
	OwnerPlayerID uint8
	SourceEntity  core.Entity
	TargetEntity  core.Entity // core.NoEntity if targeting a fixed point
	TargetPos     fixedpoint.Point
	Speed         fixedpoint.Fixed
	Damage        int32
	KindID        uint32
}
