package checksum

import (
	"testing"

	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/worldstate"
	"pgregory.net/rapid"
)

func buildWorld(t *rapid.T) *worldstate.World {
	w := worldstate.NewWorld(64, 64)
	n := rapid.IntRange(0, 12).Draw(t, "n")
	for i := 0; i < n; i++ {
		e := w.CreateEntity()
		x := fixedpoint.FromInt(rapid.IntRange(0, 60).Draw(t, "x"))
		y := fixedpoint.FromInt(rapid.IntRange(0, 60).Draw(t, "y"))
		w.Components.Transforms.Add(e, worldstate.Transform{Pos: fixedpoint.Point{X: x, Y: y}})
		w.Components.Units.Add(e, worldstate.Unit{KindID: uint32(rapid.IntRange(0, 5).Draw(t, "kind"))})
		w.Components.Healths.Add(e, worldstate.Health{Current: 100, Max: 100})
		w.Components.Selectables.Add(e, worldstate.Selectable{PlayerID: uint8(rapid.IntRange(0, 3).Draw(t, "player"))})
	}
	return w
}

// TestRootIsDeterministic is spec.md §8's determinism property applied to
// the checksum system itself: hashing the same world twice in a row must
// yield the same root, independent of any map/iteration order.
func TestRootIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := buildWorld(t)
		r1 := Root(w)
		r2 := Root(w)
		if r1 != r2 {
			t.Fatalf("root hash not stable across repeated calls: %d != %d", r1, r2)
		}
	})
}

func TestRoot_ChangesOnStateMutation(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	e := w.CreateEntity()
	w.Components.Transforms.Add(e, worldstate.Transform{Pos: fixedpoint.Point{X: fixedpoint.FromInt(1), Y: fixedpoint.FromInt(1)}})
	w.Components.Units.Add(e, worldstate.Unit{KindID: 1})
	w.Components.Healths.Add(e, worldstate.Health{Current: 100, Max: 100})

	before := Root(w)

	h, _ := w.Components.Healths.Get(e)
	h.Current = 50
	w.Components.Healths.Add(e, h)

	after := Root(w)
	if before == after {
		t.Fatal("expected root hash to change after a health mutation")
	}
}

func TestTree_RootIsFoldOfCategoryHashes(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	e := w.CreateEntity()
	w.Components.Transforms.Add(e, worldstate.Transform{})
	w.Components.Units.Add(e, worldstate.Unit{})
	w.Components.Selectables.Add(e, worldstate.Selectable{PlayerID: 2})

	tree := Walk(w)
	hashes := make([]uint32, len(tree.Categories))
	for i, c := range tree.Categories {
		hashes[i] = c.Hash
	}
	want := foldAll(0, hashes...)
	if tree.Root != want {
		t.Fatalf("root %d != recomputed fold %d", tree.Root, want)
	}
}

func TestCompact_OmitsLeavesButPreservesHashes(t *testing.T) {
	w := worldstate.NewWorld(32, 32)
	e := w.CreateEntity()
	w.Components.Transforms.Add(e, worldstate.Transform{})
	w.Components.Units.Add(e, worldstate.Unit{})
	w.Components.Selectables.Add(e, worldstate.Selectable{PlayerID: 1})

	tree := Walk(w)
	compact := tree.Compact()

	if compact.Root != tree.Root {
		t.Fatal("compact root diverges from tree root")
	}
	for _, cat := range tree.Categories {
		if compact.Categories[cat.Category] != cat.Hash {
			t.Fatalf("compact category hash mismatch for %s", cat.Category)
		}
		for _, g := range cat.Groups {
			if compact.Groups[cat.Category][g.Label] != g.Hash {
				t.Fatalf("compact group hash mismatch for %s/%s", cat.Category, g.Label)
			}
		}
	}
}
