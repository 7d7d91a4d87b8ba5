package scheduler

import (
	"sync"
	"time"
)

// ResumeCallback is invoked when the clock resumes from pause, with the
// duration of the pause that just ended.
type ResumeCallback func(pauseDuration time.Duration)

// PausableClock is game time, as distinct from wall-clock time: it stops
// advancing while paused and every peer in a match pauses/resumes on the
// same tick, so PausableClock.Now never diverges between peers as long as
// Pause/Resume are themselves driven by lockstep commands rather than local
// input (spec.md §4.1 "a paused or ended scheduler does not fire the
// update callback").
type PausableClock struct {
	mu sync.RWMutex

	realTime TimeProvider

	realStart time.Time
	gameStart time.Time

	paused          bool
	pauseStart      time.Time
	totalPaused     time.Duration
	resumeCallbacks []ResumeCallback
}

func NewPausableClock(realTime TimeProvider) *PausableClock {
	now := realTime.Now()
	return &PausableClock{
		realTime:  realTime,
		realStart: now,
		gameStart: now,
	}
}

// Now returns current game time.
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.paused {
		return pc.gameStart.Add(pc.pauseStart.Sub(pc.realStart) - pc.totalPaused)
	}
	elapsed := pc.realTime.Now().Sub(pc.realStart) - pc.totalPaused
	return pc.gameStart.Add(elapsed)
}

func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pauseStart = pc.realTime.Now()
}

func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	if !pc.paused {
		pc.mu.Unlock()
		return
	}
	pc.paused = false
	duration := pc.realTime.Now().Sub(pc.pauseStart)
	pc.totalPaused += duration
	pc.pauseStart = time.Time{}
	callbacks := append([]ResumeCallback(nil), pc.resumeCallbacks...)
	pc.mu.Unlock()

	for _, cb := range callbacks {
		cb(duration)
	}
}

func (pc *PausableClock) OnResume(cb ResumeCallback) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.resumeCallbacks = append(pc.resumeCallbacks, cb)
}

func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

func (pc *PausableClock) TotalPaused() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	total := pc.totalPaused
	if pc.paused {
		total += pc.realTime.Now().Sub(pc.pauseStart)
	}
	return total
}
