package command

import (
	"reflect"
	"testing"

	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/event"
	"pgregory.net/rapid"
)

type fakeOwner map[uint64]uint8

func (f fakeOwner) OwnerOf(id uint64) (uint8, bool) {
	p, ok := f[id]
	return p, ok
}

func TestIssueLocal_NoTransport_DispatchesImmediatelyAtCurrentTick(t *testing.T) {
	bus := event.NewBus()
	q := NewQueue(bus, 4, 100)

	var dispatched Command
	q.IssueLocal(Command{Type: TypeMove, PlayerID: 1}, 42, func(c Command) {
		dispatched = c
	})

	if dispatched.Tick != 42 {
		t.Fatalf("expected immediate dispatch at tick 42, got %d", dispatched.Tick)
	}
}

func TestIssueLocal_WithTransport_StampsCurrentTickPlusDelay(t *testing.T) {
	bus := event.NewBus()
	q := NewQueue(bus, 4, 100)
	var sent Command
	q.AttachTransport(sentFunc(func(c Command) { sent = c }))

	q.IssueLocal(Command{Type: TypeMove, PlayerID: 1}, 10, nil)

	if sent.Tick != 14 {
		t.Fatalf("expected stamped tick 14, got %d", sent.Tick)
	}
	drained := q.Drain(14)
	if len(drained) != 1 {
		t.Fatalf("expected 1 command in bucket 14, got %d", len(drained))
	}
}

type sentFunc func(Command)

func (f sentFunc) SendCommand(c Command) { f(c) }

func TestReceive_StaleCommandEmitsDesync(t *testing.T) {
	bus := event.NewBus()
	q := NewQueue(bus, 4, 100)

	var gotDesync bool
	bus.On(event.DesyncDetected, func(payload any) {
		ev, ok := payload.(StaleCommandEvent)
		if ok && ev.CurrentTick == 20 {
			gotDesync = true
		}
	})

	q.Receive(Command{Tick: 5, PlayerID: 1}, 20)

	if !gotDesync {
		t.Fatal("expected stale command to emit DesyncDetected")
	}
	if q.PendingCount() != 0 {
		t.Fatal("stale command must not be enqueued")
	}
}

// TestDeterministicOrdering is spec.md §8 invariant 3.
func TestDeterministicOrdering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		cmds := make([]Command, n)
		for i := range cmds {
			cmds[i] = Command{
				PlayerID: uint8(rapid.IntRange(0, 4).Draw(t, "player")),
				Type:     Type(rapid.IntRange(0, 10).Draw(t, "type")),
				EntityRefs: []core.Entity{
					core.Entity(rapid.IntRange(0, 50).Draw(t, "entity")),
				},
			}
		}
		SortDeterministic(cmds)
		for i := 1; i < len(cmds); i++ {
			if Less(cmds[i], cmds[i-1]) {
				t.Fatalf("sort violated determinism at %d: %+v before %+v", i, cmds[i-1], cmds[i])
			}
		}

		// Re-sorting a copy of the already sorted slice must yield an
		// identical order (idempotent, reproducible total order).
		cp := make([]Command, len(cmds))
		copy(cp, cmds)
		SortDeterministic(cp)
		for i := range cmds {
			if !reflect.DeepEqual(cmds[i], cp[i]) {
				t.Fatalf("sort not stable/reproducible at %d", i)
			}
		}
	})
}

// TestAuthorizationSoundness is spec.md §8 invariants 4 and 5.
func TestAuthorizationSoundness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		corroborated := uint8(rapid.IntRange(0, 4).Draw(t, "corroborated"))
		claimed := uint8(rapid.IntRange(0, 4).Draw(t, "claimed"))
		entityOwner := uint8(rapid.IntRange(0, 4).Draw(t, "entityOwner"))
		hasEntity := rapid.Bool().Draw(t, "hasEntity")

		cmd := Command{PlayerID: claimed, Tick: 10}
		if hasEntity {
			cmd.EntityRefs = []core.Entity{1}
		}

		owner := fakeOwner{1: entityOwner}
		params := AuthParams{
			CorroboratedPlayerID: corroborated,
			CurrentTick:          10,
			DelayTicks:           4,
			FarFutureWindow:      100,
			Owner:                owner,
		}

		reason, ok := Authorize(cmd, params)

		if claimed != corroborated {
			if ok {
				t.Fatalf("spoofed playerId must never be authorized: claimed=%d corroborated=%d", claimed, corroborated)
			}
			if reason != RejectSpoofedPlayerID {
				t.Fatalf("expected spoofed reason, got %s", reason)
			}
			return
		}

		if hasEntity && entityOwner != claimed {
			if ok {
				t.Fatalf("ownership mismatch must never be authorized: entityOwner=%d claimed=%d", entityOwner, claimed)
			}
			return
		}

		if !ok {
			t.Fatalf("expected authorization to pass, got reject reason %s", reason)
		}
	})
}
