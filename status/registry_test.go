package status

import "testing"

func TestMetricMap_GetCreatesOnFirstUse(t *testing.T) {
	m := NewMetricMap[AtomicString]()
	if m.Count() != 0 {
		t.Fatalf("expected empty map, got count %d", m.Count())
	}
	m.Get("tick").Store("1")
	if m.Count() != 1 {
		t.Fatalf("expected count 1 after first Get, got %d", m.Count())
	}
	if got := m.Get("tick").Load(); got != "1" {
		t.Fatalf("expected %q, got %q", "1", got)
	}
}

func TestMetricMap_NamesSorted(t *testing.T) {
	m := NewMetricMap[AtomicString]()
	m.Get("zeta")
	m.Get("alpha")
	m.Get("mid")
	names := m.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("expected sorted names %v, got %v", want, names)
		}
	}
}

func TestAtomicString_TruncatesOverflow(t *testing.T) {
	var s AtomicString
	long := make([]byte, MaxStringLen+10)
	for i := range long {
		long[i] = 'x'
	}
	s.Store(string(long))
	if got := len(s.Load()); got != MaxStringLen {
		t.Fatalf("expected truncation to %d, got %d", MaxStringLen, got)
	}
}

func TestRegistry_SnapshotReflectsAllMetricKinds(t *testing.T) {
	r := NewRegistry()
	r.Bools.Get("desynced").Store(true)
	r.Ints.Get("tick").Store(42)
	r.Strings.Get("matchId").Store("abc-123")

	snap := r.Snapshot()
	if !snap.Bools["desynced"] {
		t.Fatal("expected desynced=true in snapshot")
	}
	if snap.Ints["tick"] != 42 {
		t.Fatalf("expected tick=42, got %d", snap.Ints["tick"])
	}
	if snap.Strings["matchId"] != "abc-123" {
		t.Fatalf("expected matchId=abc-123, got %q", snap.Strings["matchId"])
	}
}
