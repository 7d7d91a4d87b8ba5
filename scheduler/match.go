package scheduler

import "time"

// Match couples a Scheduler to the lobby→running→paused→ended lifecycle
// FSM, so pause/resume/end transitions and tick advancement stay
// consistent: Advance is only ever called while in StateRunning.
type Match struct {
	Scheduler *Scheduler
	fsm       *Machine[*Match]
	endReason string
}

// NewMatch wires a Scheduler to a fresh four-state machine.
func NewMatch(sched *Scheduler) *Match {
	m := &Match{Scheduler: sched}
	fm := NewMachine[*Match]()

	fm.AddTransition(StateLobby, StateRunning, nil)
	fm.AddTransition(StateRunning, StatePaused, nil)
	fm.AddTransition(StatePaused, StateRunning, nil)
	fm.AddTransition(StateRunning, StateEnded, nil)
	fm.AddTransition(StatePaused, StateEnded, nil)

	fm.OnEnter(StateRunning, func(match *Match) { match.Scheduler.Resume() })
	fm.OnEnter(StatePaused, func(match *Match) { match.Scheduler.Pause() })
	fm.OnEnter(StateEnded, func(match *Match) { match.Scheduler.Stop() })

	fm.Init(m, StateLobby)
	m.fsm = fm
	return m
}

func (m *Match) State() StateID { return m.fsm.Current() }

// Begin transitions lobby -> running, starting the scheduler.
func (m *Match) Begin(now time.Time) bool {
	if !m.fsm.TryTransition(m, StateRunning) {
		return false
	}
	m.Scheduler.Start(now)
	return true
}

func (m *Match) Pause() bool  { return m.fsm.TryTransition(m, StatePaused) }
func (m *Match) Resume() bool { return m.fsm.TryTransition(m, StateRunning) }

// End transitions to StateEnded from either running or paused, recording
// reason for diagnostics (e.g. "victory", "desync", "peer_disconnected").
func (m *Match) End(reason string) bool {
	if !m.fsm.TryTransition(m, StateEnded) {
		return false
	}
	m.endReason = reason
	return true
}

func (m *Match) EndReason() string { return m.endReason }
