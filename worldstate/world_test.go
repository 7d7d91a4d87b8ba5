package worldstate

import (
	"testing"

	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
	"pgregory.net/rapid"
)

func TestQueryBuilder_Intersection(t *testing.T) {
	w := NewWorld(64, 64)

	e1 := w.CreateEntity()
	w.SetTransform(e1, Transform{Pos: fixedpoint.Point{X: fixedpoint.FromInt(1), Y: fixedpoint.FromInt(1)}})
	w.Components.Units.Add(e1, Unit{KindID: 1})

	e2 := w.CreateEntity()
	w.SetTransform(e2, Transform{Pos: fixedpoint.Point{X: fixedpoint.FromInt(2), Y: fixedpoint.FromInt(2)}})

	e3 := w.CreateEntity()
	w.Components.Units.Add(e3, Unit{KindID: 2})

	both := w.Query().With(w.Components.Transforms).With(w.Components.Units).Execute()
	if len(both) != 1 || both[0] != e1 {
		t.Fatalf("expected [%d], got %v", e1, both)
	}

	positions := w.Query().With(w.Components.Transforms).Execute()
	if len(positions) != 2 {
		t.Fatalf("expected 2 transforms, got %d", len(positions))
	}

	empty := w.Query().Execute()
	if len(empty) != 0 {
		t.Fatalf("expected empty query to return nothing, got %v", empty)
	}
}

func TestQueryBuilder_PanicsAfterExecute(t *testing.T) {
	w := NewWorld(8, 8)
	q := w.Query().With(w.Components.Units)
	q.Execute()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when calling With after Execute")
		}
	}()
	q.With(w.Components.Transforms)
}

// TestAllIsSortedByID is the ascending-id-order invariant from spec.md §4.4.
func TestAllIsSortedByID(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := NewWorld(128, 128)
		n := rapid.IntRange(0, 200).Draw(t, "n")
		ids := make(map[int]bool)
		for i := 0; i < n; i++ {
			e := w.CreateEntity()
			w.Components.Units.Add(e, Unit{KindID: uint32(i)})
			ids[int(e)] = true
		}

		all := w.Components.Units.All()
		if len(all) != n {
			t.Fatalf("expected %d entities, got %d", n, len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i] <= all[i-1] {
				t.Fatalf("All() not strictly ascending at index %d: %v", i, all)
			}
		}
	})
}

// TestSpatialGridQueryCorrectness is spec.md §8 invariant 8: every entity in
// the query rectangle appears, no entity outside it does.
func TestSpatialGridQueryCorrectness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		const mapSize = 64
		grid := NewSpatialGrid(mapSize, mapSize, 4)

		type placed struct {
			e    uint64
			x, y int
		}
		n := rapid.IntRange(0, 80).Draw(t, "n")
		var placements []placed
		for i := 0; i < n; i++ {
			x := rapid.IntRange(0, mapSize-1).Draw(t, "x")
			y := rapid.IntRange(0, mapSize-1).Draw(t, "y")
			e := uint64(i + 1)
			grid.Add(core.Entity(e), x, y)
			placements = append(placements, placed{e, x, y})
		}

		x0 := rapid.IntRange(0, mapSize/2).Draw(t, "x0")
		y0 := rapid.IntRange(0, mapSize/2).Draw(t, "y0")
		x1 := x0 + rapid.IntRange(1, mapSize/2).Draw(t, "w")
		y1 := y0 + rapid.IntRange(1, mapSize/2).Draw(t, "h")

		got := grid.QueryRect(x0, y0, x1, y1)
		gotSet := make(map[uint64]bool)
		for _, e := range got {
			gotSet[uint64(e)] = true
		}

		for _, p := range placements {
			inRect := p.x >= x0 && p.x < x1 && p.y >= y0 && p.y < y1
			if inRect && !gotSet[p.e] {
				t.Fatalf("entity %d at (%d,%d) in rect [%d,%d)x[%d,%d) missing from query result", p.e, p.x, p.y, x0, x1, y0, y1)
			}
			if !inRect && gotSet[p.e] {
				t.Fatalf("entity %d at (%d,%d) outside rect [%d,%d)x[%d,%d) present in query result", p.e, p.x, p.y, x0, x1, y0, y1)
			}
		}
	})
}
