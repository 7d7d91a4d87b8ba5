package desync

import (
	"testing"

	"github.com/voidmarch/simcore/checksum"
	"github.com/voidmarch/simcore/event"
)

func makeTree(root uint32, catHash uint32) checksum.Tree {
	return checksum.Tree{
		Root: root,
		Categories: []checksum.CategoryNode{
			{
				Category: checksum.CategoryUnits,
				Hash:     catHash,
				Groups: []checksum.Group{
					{Label: "1", Hash: catHash, Leaves: []checksum.Leaf{{Entity: 42, Hash: catHash}}},
				},
			},
		},
	}
}

func TestDetector_AgreementDoesNotEnd(t *testing.T) {
	bus := event.NewBus()
	d := NewDetector(bus)

	tree := makeTree(100, 50)
	d.RecordLocal(5, tree)
	d.RecordRemote(PeerChecksum{PeerID: 1, Tick: 5, Root: 100})

	if d.Ended() {
		t.Fatal("matching checksums must not end the match")
	}
}

func TestDetector_DisagreementEndsAndReports(t *testing.T) {
	bus := event.NewBus()
	d := NewDetector(bus)

	var captured Report
	bus.On(event.DesyncDetected, func(payload any) {
		if r, ok := payload.(Report); ok {
			captured = r
		}
	})

	tree := makeTree(100, 50)
	remoteCompact := checksum.Compact{
		Root:       999,
		Categories: map[checksum.Category]uint32{checksum.CategoryUnits: 777},
		Groups:     map[checksum.Category]map[string]uint32{checksum.CategoryUnits: {"1": 777}},
	}

	d.RecordLocal(5, tree)
	d.RecordRemote(PeerChecksum{PeerID: 1, Tick: 5, Root: 999, Compact: remoteCompact, HasCompact: true})

	if !d.Ended() {
		t.Fatal("mismatched checksums must end the match")
	}
	if captured.Reason != ReasonChecksumMismatch {
		t.Fatalf("expected checksum_mismatch reason, got %s", captured.Reason)
	}
	if captured.LocalChecksum != 100 || captured.RemoteChecksum != 999 {
		t.Fatalf("report checksums wrong: %+v", captured)
	}
	if len(captured.DivergentEntities) != 1 || captured.DivergentEntities[0] != 42 {
		t.Fatalf("expected divergent entity 42, got %v", captured.DivergentEntities)
	}

	// Policy: unrecoverable — further records must not un-end it.
	d.RecordLocal(6, tree)
	d.RecordRemote(PeerChecksum{PeerID: 1, Tick: 6, Root: 100})
	if !d.Ended() {
		t.Fatal("desync must remain ended")
	}
}

func TestDetector_StaleCommandsEndsImmediately(t *testing.T) {
	bus := event.NewBus()
	d := NewDetector(bus)

	var captured Report
	bus.On(event.DesyncDetected, func(payload any) {
		if r, ok := payload.(Report); ok {
			captured = r
		}
	})

	d.ReportStaleCommands(10)

	if !d.Ended() {
		t.Fatal("stale commands must end the match")
	}
	if captured.Reason != ReasonStaleCommands {
		t.Fatalf("expected stale_commands reason, got %s", captured.Reason)
	}
}
