// Package snapshot implements the Snapshot format (spec.md §6): a
// versioned, entity-by-entity quantized record of world state, persisted
// on request and automatically on desync, and restorable bit-for-bit.
package snapshot

import (
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/transport"
	"github.com/voidmarch/simcore/worldstate"
)

// Version is bumped whenever the record layout changes incompatibly.
// Load rejects any snapshot whose Version differs from this build's.
const Version = 1

// Snapshot is the persisted/exported record (spec.md §6 "Snapshot format").
type Snapshot struct {
	Version   uint32
	Tick      uint64
	Timestamp int64 // Unix seconds; callers stamp this, never time.Now() inside the package
	Checksum  uint32

	Entities []EntityRecord

	// CommandHistory is the tail of recently-dispatched commands (spec.md
	// §6 "tail of the command history, ≈ last 10 ticks"), kept for
	// after-the-fact desync analysis: replaying them against the prior
	// snapshot's Entities should reproduce this one's Checksum.
	CommandHistory []transport.CommandPayload
}

// EntityRecord is one entity's quantized component set. A zero-value
// pointer field means that component was absent on the entity; every
// numeric field that contributes to the checksum is already quantized
// fixed-point, never a raw float.
type EntityRecord struct {
	Entity core.Entity

	Transform  *worldstate.Transform
	Unit       *worldstate.Unit
	Building   *worldstate.Building
	Health     *worldstate.Health
	Selectable *worldstate.Selectable
	Resource   *worldstate.Resource
	Ability    *worldstate.Ability
	Projectile *worldstate.Projectile
}

// HistoryDepth is the default tail length kept in a captured snapshot.
const HistoryDepth = 10

// Capture walks every store in ascending entity-id order (the same
// canonical order checksum.Walk uses) and builds one EntityRecord per
// entity that owns at least one component, so restoring never fabricates
// bare entities with no data.
func Capture(w *worldstate.World, checksumValue uint32, timestampUnix int64, history []transport.CommandPayload) Snapshot {
	byEntity := map[core.Entity]*EntityRecord{}
	record := func(e core.Entity) *EntityRecord {
		r, ok := byEntity[e]
		if !ok {
			r = &EntityRecord{Entity: e}
			byEntity[e] = r
		}
		return r
	}

	for _, e := range w.Components.Transforms.All() {
		t, _ := w.Components.Transforms.Get(e)
		record(e).Transform = &t
	}
	for _, e := range w.Components.Units.All() {
		u, _ := w.Components.Units.Get(e)
		record(e).Unit = &u
	}
	for _, e := range w.Components.Buildings.All() {
		b, _ := w.Components.Buildings.Get(e)
		record(e).Building = &b
	}
	for _, e := range w.Components.Healths.All() {
		h, _ := w.Components.Healths.Get(e)
		record(e).Health = &h
	}
	for _, e := range w.Components.Selectables.All() {
		s, _ := w.Components.Selectables.Get(e)
		record(e).Selectable = &s
	}
	for _, e := range w.Components.Resources.All() {
		r, _ := w.Components.Resources.Get(e)
		record(e).Resource = &r
	}
	for _, e := range w.Components.Abilities.All() {
		a, _ := w.Components.Abilities.Get(e)
		record(e).Ability = &a
	}
	for _, e := range w.Components.Projectiles.All() {
		p, _ := w.Components.Projectiles.Get(e)
		record(e).Projectile = &p
	}

	entities := make([]EntityRecord, 0, len(byEntity))
	for _, r := range byEntity {
		entities = append(entities, *r)
	}
	sortRecords(entities)

	tail := history
	if len(tail) > HistoryDepth {
		tail = tail[len(tail)-HistoryDepth:]
	}

	return Snapshot{
		Version:        Version,
		Tick:           w.Tick(),
		Timestamp:      timestampUnix,
		Checksum:       checksumValue,
		Entities:       entities,
		CommandHistory: append([]transport.CommandPayload(nil), tail...),
	}
}

func sortRecords(r []EntityRecord) {
	// Entities already arrive in ascending order per store, but records are
	// merged across eight stores via a map, so the final pass must re-sort
	// to restore the canonical ascending-id order (spec.md §4.4).
	for i := 1; i < len(r); i++ {
		for j := i; j > 0 && r[j].Entity < r[j-1].Entity; j-- {
			r[j], r[j-1] = r[j-1], r[j]
		}
	}
}

// NewWorldFromSnapshot builds a fresh world of the given map size and
// restores every entity/component the snapshot recorded. Terrain itself
// isn't part of the snapshot (spec.md §6 scopes the record to entity
// state); a caller restoring a full match also re-expands the original
// blueprint into the returned world's Terrain.
func NewWorldFromSnapshot(mapWidth, mapHeight int, snap Snapshot) *worldstate.World {
	w := worldstate.NewWorld(mapWidth, mapHeight)
	RestoreInto(w, snap)
	return w
}

// RestoreInto restores a snapshot into a freshly Clear'd world, preserving
// whatever terrain and map dimensions that world already had.
func RestoreInto(w *worldstate.World, snap Snapshot) {
	w.Clear()
	w.SetTick(snap.Tick)
	for _, r := range snap.Entities {
		// Burn entity ids up to r.Entity so the reservation counter lands
		// exactly there; components are then attached under that same id.
		for w.CreateEntity() < r.Entity {
		}
		applyRecord(w, r)
	}
}

func applyRecord(w *worldstate.World, r EntityRecord) {
	if r.Unit != nil {
		w.Components.Units.Add(r.Entity, *r.Unit)
	}
	if r.Building != nil {
		w.Components.Buildings.Add(r.Entity, *r.Building)
	}
	if r.Transform != nil {
		w.SetTransform(r.Entity, *r.Transform)
	}
	if r.Health != nil {
		w.Components.Healths.Add(r.Entity, *r.Health)
	}
	if r.Selectable != nil {
		w.Components.Selectables.Add(r.Entity, *r.Selectable)
	}
	if r.Resource != nil {
		w.Components.Resources.Add(r.Entity, *r.Resource)
	}
	if r.Ability != nil {
		w.Components.Abilities.Add(r.Entity, *r.Ability)
	}
	if r.Projectile != nil {
		w.Components.Projectiles.Add(r.Entity, *r.Projectile)
	}
}
