package checksum

import (
	"strconv"

	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/worldstate"
)

func u32(f fixedpoint.Fixed) uint32 { return uint32(int32(f)) }

func unitLeaves(w *worldstate.World) []Leaf {
	entities := w.Components.Units.All()
	leaves := make([]Leaf, 0, len(entities))
	for _, e := range entities {
		u := w.Components.Units.MustGet(e)
		t, _ := w.Components.Transforms.Get(e)
		h, _ := w.Components.Healths.Get(e)

		var targetPos uint32
		if u.HasTargetPos {
			targetPos = foldAll(0, u32(u.TargetPos.X), u32(u.TargetPos.Y))
		}

		hash := foldAll(uint32(e),
			u.KindID,
			uint32(u.State),
			uint32(u.TargetEntity),
			targetPos,
			u32(t.Pos.X), u32(t.Pos.Y), u32(t.Z), u32(t.Orientation),
			uint32(h.Current), uint32(h.Shield),
		)
		leaves = append(leaves, Leaf{Entity: e, Hash: hash})
	}
	return leaves
}

func buildingLeaves(w *worldstate.World) []Leaf {
	entities := w.Components.Buildings.All()
	leaves := make([]Leaf, 0, len(entities))
	for _, e := range entities {
		b := w.Components.Buildings.MustGet(e)
		t, _ := w.Components.Transforms.Get(e)
		h, _ := w.Components.Healths.Get(e)

		hash := foldAll(uint32(e),
			b.KindID,
			uint32(b.State),
			u32(b.BuildProgress),
			uint32(len(b.ProductionQueue)),
			uint32(b.AddonEntity),
			u32(t.Pos.X), u32(t.Pos.Y),
			uint32(h.Current), uint32(h.Shield),
		)
		leaves = append(leaves, Leaf{Entity: e, Hash: hash})
	}
	return leaves
}

func resourceLeaves(w *worldstate.World) []Leaf {
	entities := w.Components.Resources.All()
	leaves := make([]Leaf, 0, len(entities))
	for _, e := range entities {
		r := w.Components.Resources.MustGet(e)
		hash := foldAll(uint32(e), uint32(r.Kind), uint32(r.Amount), uint32(r.Gatherers))
		leaves = append(leaves, Leaf{Entity: e, Hash: hash})
	}
	return leaves
}

func projectileLeaves(w *worldstate.World) []Leaf {
	entities := w.Components.Projectiles.All()
	leaves := make([]Leaf, 0, len(entities))
	for _, e := range entities {
		p := w.Components.Projectiles.MustGet(e)
		hash := foldAll(uint32(e),
			uint32(p.KindID),
			uint32(p.TargetEntity),
			u32(p.TargetPos.X), u32(p.TargetPos.Y),
			uint32(p.Damage),
		)
		leaves = append(leaves, Leaf{Entity: e, Hash: hash})
	}
	return leaves
}

// unitOwnerLabel resolves a unit's owning player from its Selectable
// component for Merkle grouping (spec.md §4.8 "groups (by owning player,
// sorted by label)"). A unit with no Selectable groups under "unowned" —
// this should not occur in a well-formed world but must not panic the
// checksum system (spec.md §7 "system-update failures ... logged and
// swallowed").
func unitOwnerLabel(w *worldstate.World) func(core.Entity) string {
	return func(e core.Entity) string {
		s, ok := w.Components.Selectables.Get(e)
		if !ok {
			return "unowned"
		}
		return strconv.Itoa(int(s.PlayerID))
	}
}

func buildingOwnerLabel(w *worldstate.World) func(core.Entity) string {
	return unitOwnerLabel(w)
}

func projectileOwnerLabel(w *worldstate.World) func(core.Entity) string {
	return func(e core.Entity) string {
		p := w.Components.Projectiles.MustGet(e)
		return strconv.Itoa(int(p.OwnerPlayerID))
	}
}
