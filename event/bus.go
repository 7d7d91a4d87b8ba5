// Package event is the Event Bus: synchronous, single-threaded, in-order
// fan-out of named events to registered handlers within a tick (spec.md
// §4.2). There is no queue and no async dispatch — Emit runs every
// registered handler before returning, matching "when emit returns, every
// handler has run."
package event

import "sort"

// Name identifies an event kind. Using a string (rather than a dense
// uint16 enum) keeps this package decoupled from any specific gameplay
// vocabulary — systems define their own constants.
type Name string

// Handler receives an event's payload. The concrete payload type is
// established by convention between emitter and handler for a given Name.
type Handler func(payload any)

type subscription struct {
	id      uint64
	handler Handler
	once    bool
}

// Bus is the event bus. Zero value is not usable; use NewBus.
type Bus struct {
	handlers map[Name][]subscription
	nextID   uint64
	emitting map[Name]bool // allocated by NewBus but never read; Emit's handler-slice copy keeps mid-emit registrations out of the current round
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Name][]subscription), emitting: make(map[Name]bool)}
}

// Subscription is an opaque handle returned by On/Once, usable with Off.
type Subscription struct {
	name Name
	id   uint64
}

// On registers a handler that runs on every future Emit of name.
func (b *Bus) On(name Name, h Handler) Subscription {
	b.nextID++
	sub := subscription{id: b.nextID, handler: h}
	b.handlers[name] = append(b.handlers[name], sub)
	return Subscription{name: name, id: sub.id}
}

// Once registers a handler that self-removes after its first invocation.
func (b *Bus) Once(name Name, h Handler) Subscription {
	b.nextID++
	sub := subscription{id: b.nextID, handler: h, once: true}
	b.handlers[name] = append(b.handlers[name], sub)
	return Subscription{name: name, id: sub.id}
}

// Off removes a specific subscription.
func (b *Bus) Off(s Subscription) {
	list := b.handlers[s.name]
	for i, sub := range list {
		if sub.id == s.id {
			b.handlers[s.name] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Emit runs every handler currently registered for name, in registration
// order, synchronously. Handlers registered by another handler during this
// same Emit do not observe the event that triggered them (spec.md §4.2) —
// achieved by snapshotting the handler slice before dispatch.
func (b *Bus) Emit(name Name, payload any) {
	list := b.handlers[name]
	if len(list) == 0 {
		return
	}
	snapshot := make([]subscription, len(list))
	copy(snapshot, list)

	var onceIDs []uint64
	for _, sub := range snapshot {
		sub.handler(payload)
		if sub.once {
			onceIDs = append(onceIDs, sub.id)
		}
	}
	if len(onceIDs) > 0 {
		b.removeIDs(name, onceIDs)
	}
}

func (b *Bus) removeIDs(name Name, ids []uint64) {
	remove := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	list := b.handlers[name]
	filtered := list[:0]
	for _, sub := range list {
		if !remove[sub.id] {
			filtered = append(filtered, sub)
		}
	}
	b.handlers[name] = filtered
}

// Clear removes every handler for every event name. Called when a game ends
// so a subsequent match does not inherit stale subscriptions (spec.md §4.2,
// §9 "Global singletons").
func (b *Bus) Clear() {
	b.handlers = make(map[Name][]subscription)
}

// HandlerCount returns the number of handlers currently registered for name,
// used by tests and diagnostics.
func (b *Bus) HandlerCount(name Name) int {
	return len(b.handlers[name])
}

// RegisteredNames returns every event name with at least one handler, sorted
// — useful for deterministic diagnostic dumps.
func (b *Bus) RegisteredNames() []Name {
	names := make([]Name, 0, len(b.handlers))
	for n, list := range b.handlers {
		if len(list) > 0 {
			names = append(names, n)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
