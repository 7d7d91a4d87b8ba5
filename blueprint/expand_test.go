package blueprint

import (
	"testing"

	"github.com/voidmarch/simcore/worldstate"
)

const twoPlayerYAML = `
meta:
  id: "test-map"
  name: "Test Map"
  players: 2
canvas:
  width: 32
  height: 32
  biome: temperate
paint:
  - op: fill
    elevation: 60
  - op: water
    x: 10
    y: 10
    width: 4
    height: 4
  - op: border
bases:
  - type: main
    playerSlot: 0
    x: 4
    y: 4
    mineralOrientation: 0
  - type: main
    playerSlot: 1
    x: 28
    y: 28
    mineralOrientation: 180
watchTowers:
  - x: 16
    y: 16
destructibles:
  - x: 20
    y: 5
    kindId: 9
`

func mustDecode(t *testing.T, doc string) *Blueprint {
	t.Helper()
	bp, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return bp
}

func TestDecode_ValidMapParsesCleanly(t *testing.T) {
	bp := mustDecode(t, twoPlayerYAML)
	if bp.Meta.Players != 2 {
		t.Fatalf("expected 2 players, got %d", bp.Meta.Players)
	}
	if len(bp.Paint) != 3 {
		t.Fatalf("expected 3 paint commands, got %d", len(bp.Paint))
	}
	if !bp.Paint[0].HasElevation || bp.Paint[0].Elevation != 60 {
		t.Fatalf("expected first paint command to carry elevation 60, got %+v", bp.Paint[0])
	}
	if bp.Paint[1].HasElevation {
		t.Fatalf("water paint command should not declare elevation: %+v", bp.Paint[1])
	}
}

func TestValidate_RejectsBadPlayerCount(t *testing.T) {
	_, err := Decode([]byte(`
meta: {id: x, name: x, players: 3}
canvas: {width: 8, height: 8}
paint: []
bases: []
`))
	if err == nil {
		t.Fatal("expected error for invalid player count")
	}
}

func TestValidate_RejectsUnknownPaintOp(t *testing.T) {
	_, err := Decode([]byte(`
meta: {id: x, name: x, players: 2}
canvas: {width: 8, height: 8}
paint:
  - op: lava
bases: []
`))
	if err == nil {
		t.Fatal("expected error for unknown paint op")
	}
}

func TestValidate_RejectsOutOfBoundsBase(t *testing.T) {
	_, err := Decode([]byte(`
meta: {id: x, name: x, players: 2}
canvas: {width: 8, height: 8}
paint: []
bases:
  - {type: main, playerSlot: 0, x: 99, y: 0, mineralOrientation: 0}
`))
	if err == nil {
		t.Fatal("expected error for out-of-bounds base")
	}
}

func TestExpand_PaintAppliesInOrderLaterWins(t *testing.T) {
	bp := mustDecode(t, twoPlayerYAML)
	w, err := Expand(bp)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	// (1,1) is outside the water rect and not on the border, so it keeps
	// the fill command's terrain class and elevation.
	corner := w.Terrain[1*w.MapWidth+1]
	if corner.Class != worldstate.TerrainPlain || corner.Elevation != 60 {
		t.Fatalf("expected plain/60 at (1,1), got %+v", corner)
	}

	// A cell inside the water rect must show water, overwriting the fill.
	waterIdx := 11*w.MapWidth + 11
	if w.Terrain[waterIdx].Class != worldstate.TerrainWater {
		t.Fatalf("expected water at (11,11), got %+v", w.Terrain[waterIdx])
	}

	// A border cell must be unwalkable even though it lies outside the
	// water rect and would otherwise still read as the fill command.
	borderIdx := 0*w.MapWidth + 5
	if w.Terrain[borderIdx].Class != worldstate.TerrainUnwalkable {
		t.Fatalf("expected unwalkable border at (5,0), got %+v", w.Terrain[borderIdx])
	}
}

func TestExpand_SpawnsExpectedEntityCounts(t *testing.T) {
	bp := mustDecode(t, twoPlayerYAML)
	w, err := Expand(bp)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	units := w.Components.Units.All()
	if len(units) != 2*startingWorkers {
		t.Fatalf("expected %d workers, got %d", 2*startingWorkers, len(units))
	}

	buildings := w.Components.Buildings.All()
	// 2 command centers + 1 watch tower + 1 destructible.
	if len(buildings) != 4 {
		t.Fatalf("expected 4 buildings, got %d", len(buildings))
	}

	resources := w.Components.Resources.All()
	if len(resources) != 2*mineralFieldsPerBase {
		t.Fatalf("expected %d mineral fields, got %d", 2*mineralFieldsPerBase, len(resources))
	}
}

func TestExpand_RegistersSpawnsInSpatialGrids(t *testing.T) {
	bp := mustDecode(t, twoPlayerYAML)
	w, err := Expand(bp)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	hits := w.UnitGrid.QueryRadius(4, 4, 3)
	if len(hits) == 0 {
		t.Fatal("expected starting workers to be registered in the unit grid")
	}

	buildingHits := w.BuildGrid.QueryRadius(4, 4, 3)
	if len(buildingHits) == 0 {
		t.Fatal("expected the command center to be registered in the building grid")
	}
}

func TestExpand_IsDeterministicAcrossRuns(t *testing.T) {
	bp1 := mustDecode(t, twoPlayerYAML)
	bp2 := mustDecode(t, twoPlayerYAML)

	w1, err := Expand(bp1)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	w2, err := Expand(bp2)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	u1, u2 := w1.Components.Units.All(), w2.Components.Units.All()
	if len(u1) != len(u2) {
		t.Fatalf("entity counts diverged: %d vs %d", len(u1), len(u2))
	}
	for i := range u1 {
		if u1[i] != u2[i] {
			t.Fatalf("entity id at index %d diverged: %d vs %d", i, u1[i], u2[i])
		}
	}
}
