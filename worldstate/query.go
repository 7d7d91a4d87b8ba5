package worldstate

import (
	"sort"

	"github.com/voidmarch/simcore/core"
)

// QueryBuilder finds entities present in the intersection of several
// component stores, starting from the smallest store to minimize Has()
// checks. Results are cached
// per (tick, store-set) so repeated identical queries within one system's
// update pass are free; the cache is invalidated the moment the tick
// advances (spec.md §4.4 "Query caching").
type QueryBuilder struct {
	world    *World
	stores   []QueryableStore
	key      string
	executed bool
	results  []core.Entity
}

// Query starts a new query against the world's current tick.
func (w *World) Query() *QueryBuilder {
	return &QueryBuilder{world: w, stores: make([]QueryableStore, 0, 4)}
}

// With adds a component store to the filter. Panics if called after
// Execute — the builder is fluent but single-shot.
func (qb *QueryBuilder) With(store QueryableStore) *QueryBuilder {
	if qb.executed {
		panic("worldstate: query already executed")
	}
	qb.stores = append(qb.stores, store)
	return qb
}

// Execute returns the intersection, entities in ascending id order.
func (qb *QueryBuilder) Execute() []core.Entity {
	if qb.executed {
		return qb.results
	}
	qb.executed = true

	if len(qb.stores) == 0 {
		qb.results = nil
		return nil
	}

	if cached, ok := qb.world.queryCache.lookup(qb.stores); ok {
		qb.results = cached
		return cached
	}

	sort.Slice(qb.stores, func(i, j int) bool {
		return qb.stores[i].Count() < qb.stores[j].Count()
	})

	candidates := qb.stores[0].All()
	for i := 1; i < len(qb.stores) && len(candidates) > 0; i++ {
		store := qb.stores[i]
		filtered := candidates[:0]
		for _, e := range candidates {
			if store.Has(e) {
				filtered = append(filtered, e)
			}
		}
		candidates = filtered
	}

	qb.results = candidates
	qb.world.queryCache.store(qb.world.Tick(), qb.stores, candidates)
	return candidates
}

// queryCache holds at most one cached result per distinct store-set,
// invalidated wholesale when the tick advances. Keys are the store pointer
// identities rather than a string, avoiding any allocation on the hot path.
type queryCache struct {
	tick    uint64
	entries []cacheEntry
}

type cacheEntry struct {
	stores []QueryableStore
	result []core.Entity
}

func (c *queryCache) lookup(stores []QueryableStore) ([]core.Entity, bool) {
	for _, e := range c.entries {
		if sameStoreSet(e.stores, stores) {
			return e.result, true
		}
	}
	return nil, false
}

func (c *queryCache) store(tick uint64, stores []QueryableStore, result []core.Entity) {
	if tick != c.tick {
		c.tick = tick
		c.entries = c.entries[:0]
	}
	cp := make([]QueryableStore, len(stores))
	copy(cp, stores)
	c.entries = append(c.entries, cacheEntry{stores: cp, result: result})
}

func sameStoreSet(a, b []QueryableStore) bool {
	if len(a) != len(b) {
		return false
	}
	// Order may differ (Execute sorts by size); compare as sets of pointers.
	for _, sa := range a {
		found := false
		for _, sb := range b {
			if sa == sb {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
