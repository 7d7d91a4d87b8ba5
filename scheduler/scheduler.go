// Package scheduler is the Tick Scheduler (spec.md §4.1): it advances
// simulation time at a fixed rate via an accumulator loop, independent of
// caller wakeup jitter, bounded by a max-iteration count and a real-time
// budget per wakeup so a slow host never spirals into an ever-growing
// backlog of unprocessed ticks.
package scheduler

import (
	"time"
)

// Default tuning from spec.md §4.1.
const (
	DefaultTickRate        = 20 // ticks/second
	MaxFrameTime           = 250 * time.Millisecond
	DefaultMaxIterations   = 10
	DefaultWakeupTimeBudget = 50 * time.Millisecond
)

// UpdateFunc advances the simulation by exactly one tick.
type UpdateFunc func(tick uint64)

// Scheduler runs the fixed-timestep accumulator loop. It does not own a
// goroutine: the caller drives it by invoking Advance on every wakeup
// (a real timer in cmd/voidmarchd, a MockTimeProvider-driven clock in
// tests), matching spec.md §4.1's "independent timing worker, or the
// host's highest-priority timer with equivalent semantics" — the scheduler
// itself is agnostic to which.
type Scheduler struct {
	clock *PausableClock

	tickPeriod      time.Duration
	maxIterations   int
	wakeupBudget    time.Duration
	realTime        TimeProvider

	accumulator  time.Duration
	lastWakeup   time.Time
	startAt      time.Time
	hasStartAt   bool
	running      bool
	tick         uint64
}

// New creates a scheduler at the default 20 TPS tick rate.
func New(clock *PausableClock, realTime TimeProvider) *Scheduler {
	return &Scheduler{
		clock:         clock,
		tickPeriod:    time.Second / DefaultTickRate,
		maxIterations: DefaultMaxIterations,
		wakeupBudget:  DefaultWakeupTimeBudget,
		realTime:      realTime,
	}
}

// SetRate changes the tick period. Safe to call while running; takes
// effect on the next accumulator comparison.
func (s *Scheduler) SetRate(ticksPerSecond int) {
	s.tickPeriod = time.Second / time.Duration(ticksPerSecond)
}

// ScheduleStart arranges a wall-clock instant for the first tick (spec.md
// §4.1 "Wall-clock start coordination"): every peer computes the same
// instant out-of-band (e.g. from a lobby-ready handshake) and passes it
// here, so per-peer timer drift before the match starts cannot itself
// cause a desync.
func (s *Scheduler) ScheduleStart(at time.Time) {
	s.startAt = at
	s.hasStartAt = true
}

// Start begins the loop. Idempotent: calling Start on an already-running
// scheduler is a no-op (spec.md §4.1 "calling start on an already-running
// scheduler is idempotent").
func (s *Scheduler) Start(now time.Time) {
	if s.running {
		return
	}
	s.running = true
	s.lastWakeup = now
	if s.hasStartAt && s.startAt.After(now) {
		s.lastWakeup = s.startAt
	}
	s.accumulator = 0
}

func (s *Scheduler) Stop() {
	s.running = false
}

func (s *Scheduler) Pause()  { s.clock.Pause() }
func (s *Scheduler) Resume() { s.clock.Resume() }
func (s *Scheduler) Tick() uint64 { return s.tick }

// Advance is one wakeup: compute elapsed game time since the last wakeup,
// cap it at MaxFrameTime, add it to the accumulator, and drain whole tick
// periods from the accumulator by invoking update — up to maxIterations
// times or until wakeupBudget of real wall-clock time has been spent
// inside this call, whichever comes first. Any leftover accumulator is
// carried into the next Advance. Returns the number of ticks executed.
//
// A paused or stopped scheduler does not invoke update at all (spec.md
// §4.1 "Failure semantics").
func (s *Scheduler) Advance(now time.Time, update UpdateFunc) int {
	if !s.running || s.clock.IsPaused() {
		return 0
	}
	if s.hasStartAt && now.Before(s.startAt) {
		return 0
	}

	elapsed := now.Sub(s.lastWakeup)
	s.lastWakeup = now
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > MaxFrameTime {
		elapsed = MaxFrameTime
	}
	s.accumulator += elapsed

	budgetStart := s.realTime.Now()
	ran := 0
	for s.accumulator >= s.tickPeriod && ran < s.maxIterations {
		if ran > 0 && s.realTime.Now().Sub(budgetStart) > s.wakeupBudget {
			break
		}
		s.tick++
		update(s.tick)
		s.accumulator -= s.tickPeriod
		ran++
	}
	return ran
}
