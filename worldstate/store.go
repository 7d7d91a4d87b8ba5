package worldstate

import (
	"sort"

	"github.com/voidmarch/simcore/core"
)

// Store is a generic container for a single component type, implemented as a
// sparse set: a map for O(1) lookup and a dense slice for deterministic,
// allocation-light iteration. No component store anywhere in this package
// iterates a Go map directly — map iteration order is unspecified by the
// language and would silently desync peers.
type Store[T any] struct {
	components map[core.Entity]T
	entities   []core.Entity
	sorted     bool
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[core.Entity]T),
		entities:   make([]core.Entity, 0, 64),
	}
}

func (s *Store[T]) Add(e core.Entity, val T) {
	if _, exists := s.components[e]; !exists {
		s.entities = append(s.entities, e)
		s.sorted = false
	}
	s.components[e] = val
}

func (s *Store[T]) Get(e core.Entity) (T, bool) {
	val, ok := s.components[e]
	return val, ok
}

// MustGet panics if the entity lacks the component. Systems use this after
// a query they built themselves already proved membership.
func (s *Store[T]) MustGet(e core.Entity) T {
	val, ok := s.components[e]
	if !ok {
		panic("worldstate: MustGet on an entity without this component")
	}
	return val
}

func (s *Store[T]) Remove(e core.Entity) {
	if _, exists := s.components[e]; !exists {
		return
	}
	delete(s.components, e)
	for i, entity := range s.entities {
		if entity == e {
			s.entities[i] = s.entities[len(s.entities)-1]
			s.entities = s.entities[:len(s.entities)-1]
			s.sorted = false
			break
		}
	}
}

func (s *Store[T]) Has(e core.Entity) bool {
	_, ok := s.components[e]
	return ok
}

// All returns every entity holding this component, in ascending id order.
// Spec.md §4.4: "get-entities-with(...) returns entities in ascending id
// order" — this is the single choke point that guarantees it.
func (s *Store[T]) All() []core.Entity {
	if !s.sorted {
		sort.Slice(s.entities, func(i, j int) bool { return s.entities[i] < s.entities[j] })
		s.sorted = true
	}
	result := make([]core.Entity, len(s.entities))
	copy(result, s.entities)
	return result
}

func (s *Store[T]) Count() int { return len(s.entities) }

func (s *Store[T]) Clear() {
	s.components = make(map[core.Entity]T)
	s.entities = s.entities[:0]
	s.sorted = true
}

// QueryableStore is the minimal interface Query needs from a Store[T] without
// knowing T, so QueryBuilder can intersect stores of different component
// types.
type QueryableStore interface {
	All() []core.Entity
	Has(core.Entity) bool
	Count() int
}
