package command

import (
	"github.com/voidmarch/simcore/event"
)

// Sender abstracts the transport so the queue can both enqueue locally and
// transmit to remote peers without importing the transport package.
type Sender interface {
	SendCommand(cmd Command)
}

// StaleCommandEvent is the payload for event names that report a
// synchronization failure triggered by a command bucketed in the past
// (spec.md §4.3 "Stale-command policy"). The desync detector listens for
// event.DesyncDetected and, for this payload type, ends the match with a
// stale_commands report.
type StaleCommandEvent struct {
	CurrentTick uint64
	Command     Command
}

// RejectedEvent is emitted whenever Authorize rejects a command (spec.md
// §4.3 "Rejected commands are dropped and an audit event is emitted").
type RejectedEvent struct {
	Command Command
	Reason  RejectReason
}

// Queue holds per-tick buckets of commands awaiting dispatch. It is not
// safe for concurrent use — per spec.md §5 all gameplay state, including
// the command queue, is owned by the single simulation thread.
type Queue struct {
	buckets map[uint64][]Command
	bus     *event.Bus

	DelayTicks      uint64
	FarFutureWindow uint64

	hasTransport bool
	sender       Sender
}

// NewQueue creates an empty queue. delayTicks is the lockstep command delay
// D (spec.md default 4); farFutureWindow is the anti-far-future bound
// (spec.md default 100).
func NewQueue(bus *event.Bus, delayTicks, farFutureWindow uint64) *Queue {
	return &Queue{
		buckets:         make(map[uint64][]Command),
		bus:             bus,
		DelayTicks:      delayTicks,
		FarFutureWindow: farFutureWindow,
	}
}

// AttachTransport switches the queue into multiplayer mode: IssueLocal now
// stamps currentTick+D, transmits via sender, and enqueues locally instead
// of dispatching immediately (spec.md §4.3 "Single-player path").
func (q *Queue) AttachTransport(sender Sender) {
	q.hasTransport = true
	q.sender = sender
}

// IssueLocal is how the local peer issues a command. With no transport
// attached, it dispatches immediately on currentTick with no delay and no
// authorization — determinism is trivially preserved because there is only
// one peer (spec.md §4.3 "Single-player path"). With a transport attached,
// it stamps currentTick+D, enqueues locally at that tick, and transmits to
// remote peers.
//
// dispatch is called synchronously for the single-player immediate path;
// it must perform exactly the same event-bus dispatch the tick loop would
// perform for a delayed command.
func (q *Queue) IssueLocal(cmd Command, currentTick uint64, dispatch func(Command)) {
	if !q.hasTransport {
		cmd.Tick = currentTick
		dispatch(cmd)
		return
	}

	cmd.Tick = currentTick + q.DelayTicks
	q.enqueueAt(cmd, cmd.Tick)
	if q.sender != nil {
		q.sender.SendCommand(cmd)
	}
}

// Receive enqueues a command arriving from a remote peer (or the local
// transport echo). currentTick is the receiver's tick at the moment of
// receipt, used to detect the stale-command failure (spec.md §4.3
// "Stale-command policy").
func (q *Queue) Receive(cmd Command, currentTick uint64) {
	if cmd.Tick < currentTick {
		q.bus.Emit(event.DesyncDetected, StaleCommandEvent{CurrentTick: currentTick, Command: cmd})
		return
	}
	q.enqueueAt(cmd, cmd.Tick)
}

func (q *Queue) enqueueAt(cmd Command, tick uint64) {
	q.buckets[tick] = append(q.buckets[tick], cmd)
}

// Drain removes and returns every command scheduled for exactly `tick`, in
// the deterministic dispatch order from spec.md §4.3/§8 invariant 3. The
// bucket is deleted so a later stale arrival for the same tick is detected
// by Receive rather than silently appended.
func (q *Queue) Drain(tick uint64) []Command {
	cmds, ok := q.buckets[tick]
	if !ok {
		return nil
	}
	delete(q.buckets, tick)
	SortDeterministic(cmds)
	return cmds
}

// AuthorizeAndFilter runs Authorize over cmds, emitting RejectedEvent for
// each rejection and returning only the accepted commands in their original
// (already-deterministic) order.
func (q *Queue) AuthorizeAndFilter(cmds []Command, params func(Command) AuthParams) []Command {
	accepted := cmds[:0]
	for _, cmd := range cmds {
		reason, ok := Authorize(cmd, params(cmd))
		if !ok {
			q.emitRejection(cmd, reason)
			continue
		}
		accepted = append(accepted, cmd)
	}
	return accepted
}

func (q *Queue) emitRejection(cmd Command, reason RejectReason) {
	var name event.Name
	switch reason {
	case RejectSpoofedPlayerID:
		name = event.SecuritySpoofedPlayerID
	case RejectBadTickRange:
		name = event.SecurityBadTickRange
	case RejectOwnershipMismatch:
		name = event.SecurityOwnershipMismatch
	case RejectInvalidSignature:
		name = event.SecurityInvalidSignature
	default:
		name = event.CommandRejected
	}
	q.bus.Emit(name, RejectedEvent{Command: cmd, Reason: reason})
	q.bus.Emit(event.CommandRejected, RejectedEvent{Command: cmd, Reason: reason})
}

// PendingCount returns the number of distinct future ticks with at least
// one queued command — used by diagnostics and tests only.
func (q *Queue) PendingCount() int { return len(q.buckets) }
