package snapshot

import (
	"os"
	"testing"

	"github.com/voidmarch/simcore/checksum"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/transport"
	"github.com/voidmarch/simcore/worldstate"
)

func buildTestWorld() *worldstate.World {
	w := worldstate.NewWorld(64, 64)

	unit := w.CreateEntity()
	w.Components.Units.Add(unit, worldstate.Unit{KindID: 7})
	w.SetTransform(unit, worldstate.Transform{Pos: fixedpoint.Point{X: fixedpoint.FromInt(3), Y: fixedpoint.FromInt(4)}})
	w.Components.Healths.Add(unit, worldstate.Health{Current: 40, Max: 40})
	w.Components.Selectables.Add(unit, worldstate.Selectable{PlayerID: 1})

	building := w.CreateEntity()
	w.Components.Buildings.Add(building, worldstate.Building{KindID: 1, Width: 4, Height: 4})
	w.SetTransform(building, worldstate.Transform{Pos: fixedpoint.Point{X: fixedpoint.FromInt(10), Y: fixedpoint.FromInt(10)}})

	w.AdvanceTick()
	return w
}

func TestCapture_RoundTripsPreservesChecksum(t *testing.T) {
	w := buildTestWorld()
	root := checksum.Root(w)

	history := []transport.CommandPayload{{Tick: 1, PlayerID: 1, Type: 1}}
	snap := Capture(w, root, 1234, history)

	if snap.Tick != w.Tick() {
		t.Fatalf("expected tick %d, got %d", w.Tick(), snap.Tick)
	}
	if len(snap.Entities) != 2 {
		t.Fatalf("expected 2 entity records, got %d", len(snap.Entities))
	}

	restored := worldstate.NewWorld(64, 64)
	RestoreInto(restored, snap)

	if checksum.Root(restored) != root {
		t.Fatalf("restored world checksum diverged: want %d got %d", root, checksum.Root(restored))
	}
	if restored.Tick() != snap.Tick {
		t.Fatalf("restored tick mismatch: want %d got %d", snap.Tick, restored.Tick())
	}
}

func TestCapture_TruncatesCommandHistoryToDepth(t *testing.T) {
	w := buildTestWorld()
	history := make([]transport.CommandPayload, HistoryDepth+5)
	for i := range history {
		history[i] = transport.CommandPayload{Tick: uint64(i)}
	}

	snap := Capture(w, 0, 0, history)
	if len(snap.CommandHistory) != HistoryDepth {
		t.Fatalf("expected history truncated to %d, got %d", HistoryDepth, len(snap.CommandHistory))
	}
	if snap.CommandHistory[0].Tick != uint64(5) {
		t.Fatalf("expected history to keep the tail, got first tick %d", snap.CommandHistory[0].Tick)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	w := buildTestWorld()
	snap := Capture(w, checksum.Root(w), 999, nil)

	if err := store.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !store.Exists(snap.Tick) {
		t.Fatal("expected Exists to report the saved snapshot")
	}

	loaded, err := store.Load(snap.Tick)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Checksum != snap.Checksum || len(loaded.Entities) != len(snap.Entities) {
		t.Fatalf("round-trip mismatch: %+v vs %+v", loaded, snap)
	}
}

func TestStore_LoadRejectsCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	w := buildTestWorld()
	snap := Capture(w, checksum.Root(w), 1, nil)
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := store.FilePath(snap.Tick)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	data[0] ^= 0xFF
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("corrupt write: %v", err)
	}

	if _, err := store.Load(snap.Tick); err == nil {
		t.Fatal("expected corrupted file to fail integrity check")
	}
}
