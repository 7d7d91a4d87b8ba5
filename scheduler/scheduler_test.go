package scheduler

import (
	"testing"
	"time"
)

func TestAdvance_DrainsWholeTickPeriods(t *testing.T) {
	rt := NewMockTimeProvider(time.Unix(0, 0))
	clock := NewPausableClock(rt)
	s := New(clock, rt)
	start := time.Unix(0, 0)
	s.Start(start)

	var ticks []uint64
	// 20 TPS -> 50ms period; 230ms elapsed should drain 4 ticks, leaving 30ms
	// in the accumulator.
	ran := s.Advance(start.Add(230*time.Millisecond), func(tick uint64) {
		ticks = append(ticks, tick)
	})
	if ran != 4 {
		t.Fatalf("expected 4 ticks, got %d (%v)", ran, ticks)
	}

	ran = s.Advance(start.Add(230*time.Millisecond+20*time.Millisecond), func(tick uint64) {
		ticks = append(ticks, tick)
	})
	if ran != 1 {
		t.Fatalf("expected the carried 30ms + next 20ms to drain exactly 1 more tick, got %d", ran)
	}
}

func TestAdvance_CapsElapsedAtMaxFrameTime(t *testing.T) {
	rt := NewMockTimeProvider(time.Unix(0, 0))
	clock := NewPausableClock(rt)
	s := New(clock, rt)
	start := time.Unix(0, 0)
	s.Start(start)

	// A full second of elapsed wall time (e.g. after a debugger pause) must
	// not produce 20 ticks in one Advance — it is capped at 250ms (5 ticks).
	ran := s.Advance(start.Add(time.Second), func(uint64) {})
	if ran > 5 {
		t.Fatalf("expected at most 5 ticks after a 250ms cap, got %d", ran)
	}
}

func TestAdvance_RespectsMaxIterations(t *testing.T) {
	rt := NewMockTimeProvider(time.Unix(0, 0))
	clock := NewPausableClock(rt)
	s := New(clock, rt)
	s.maxIterations = 3
	start := time.Unix(0, 0)
	s.Start(start)

	ran := s.Advance(start.Add(250*time.Millisecond), func(uint64) {})
	if ran != 3 {
		t.Fatalf("expected maxIterations to cap ticks at 3, got %d", ran)
	}
}

func TestAdvance_PausedSchedulerDoesNotFire(t *testing.T) {
	rt := NewMockTimeProvider(time.Unix(0, 0))
	clock := NewPausableClock(rt)
	s := New(clock, rt)
	start := time.Unix(0, 0)
	s.Start(start)
	s.Pause()

	fired := false
	s.Advance(start.Add(time.Second), func(uint64) { fired = true })
	if fired {
		t.Fatal("paused scheduler must not invoke update")
	}
}

func TestStart_IsIdempotent(t *testing.T) {
	rt := NewMockTimeProvider(time.Unix(0, 0))
	clock := NewPausableClock(rt)
	s := New(clock, rt)
	start := time.Unix(0, 0)
	s.Start(start)
	s.tick = 7 // simulate progress
	s.Start(start.Add(time.Minute))
	if s.tick != 7 {
		t.Fatal("second Start call must not reset an already-running scheduler")
	}
}

func TestMatch_LifecycleTransitions(t *testing.T) {
	rt := NewMockTimeProvider(time.Unix(0, 0))
	clock := NewPausableClock(rt)
	s := New(clock, rt)
	m := NewMatch(s)

	if m.State() != StateLobby {
		t.Fatalf("expected initial state lobby, got %s", m.State())
	}
	if !m.Begin(time.Unix(0, 0)) {
		t.Fatal("expected Begin to succeed from lobby")
	}
	if m.State() != StateRunning {
		t.Fatalf("expected running, got %s", m.State())
	}
	if !m.Pause() {
		t.Fatal("expected Pause to succeed from running")
	}
	if !clock.IsPaused() {
		t.Fatal("expected scheduler's clock to be paused")
	}
	if !m.Resume() {
		t.Fatal("expected Resume to succeed from paused")
	}
	if clock.IsPaused() {
		t.Fatal("expected scheduler's clock to be unpaused")
	}
	if !m.End("victory") {
		t.Fatal("expected End to succeed from running")
	}
	if m.EndReason() != "victory" {
		t.Fatalf("expected end reason victory, got %q", m.EndReason())
	}
	if m.Pause() {
		t.Fatal("ended match must not accept further transitions")
	}
}
