// Package core holds identifiers and primitives shared by every other
// package in the simulation: the Entity id, panic-safe goroutine launch,
// and the rectangular Area type used by spatial queries and map blueprints.
package core

// Entity is a stable, monotonically assigned id. Entities are never reused
// within a match — once retired an id stays retired, keeping the hash space
// stable across the whole match (spec.md §3 "Entity").
type Entity uint64

// NoEntity is the zero value, used as a "no target" sentinel in component
// fields such as Unit.TargetEntity.
const NoEntity Entity = 0
