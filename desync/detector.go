// Package desync is the Desync Detector (spec.md §4.9): it reconciles each
// peer's per-tick checksum against the local one and, on disagreement,
// descends the Merkle tree to localize the smallest divergent subtree.
// Disagreement is unrecoverable — the policy is to stop, not to retry.
package desync

import (
	"sort"

	"github.com/voidmarch/simcore/checksum"
	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/event"
)

// Reason enumerates why the detector judged a desync.
type Reason string

const (
	ReasonChecksumMismatch Reason = "checksum_mismatch"
	ReasonStaleCommands    Reason = "stale_commands"
)

// Report is the structured payload from spec.md §4.9 "Emit a structured
// desync report containing the tick, both checksums, divergent path, and
// (if available) divergent entity ids."
type Report struct {
	Tick              uint64
	Reason            Reason
	LocalChecksum     uint32
	RemoteChecksum    uint32
	DivergentPath     []string
	DivergentEntities []core.Entity
}

// PeerChecksum is what arrives over the transport for one peer's tick
// (spec.md §6 "checksum — { tick, checksum, ... }"), optionally carrying
// the network-compact Merkle form for localization without a full
// entity-leaf exchange.
type PeerChecksum struct {
	PeerID     uint8
	Tick       uint64
	Root       uint32
	Compact    checksum.Compact
	HasCompact bool
}

// Detector accumulates local trees and remote digests per tick and
// reconciles them as both become available. It never allocates unbounded
// history: retire drops entries for ticks no longer needed once agreement
// is confirmed.
type Detector struct {
	bus *event.Bus

	local  map[uint64]checksum.Tree
	remote map[uint64][]PeerChecksum

	ended     bool
	endReport *Report
}

func NewDetector(bus *event.Bus) *Detector {
	d := &Detector{
		bus:    bus,
		local:  make(map[uint64]checksum.Tree),
		remote: make(map[uint64][]PeerChecksum),
	}
	if bus != nil {
		bus.On(event.DesyncDetected, func(payload any) {
			if ev, ok := payload.(command.StaleCommandEvent); ok {
				d.ReportStaleCommands(ev.CurrentTick)
			}
		})
	}
	return d
}

// Ended reports whether this detector has already judged an unrecoverable
// desync (spec.md §4.9 "Policy ... the game transitions to the ended
// state"). Once true it remains true: there is no re-sync handshake.
func (d *Detector) Ended() bool { return d.ended }

// Report returns the report that ended the match, if any.
func (d *Detector) Report() (Report, bool) {
	if d.endReport == nil {
		return Report{}, false
	}
	return *d.endReport, true
}

// RecordLocal stores this peer's own checksum tree for tick and attempts
// reconciliation against any remote checksums already received for it.
func (d *Detector) RecordLocal(tick uint64, tree checksum.Tree) {
	if d.ended {
		return
	}
	d.local[tick] = tree
	d.reconcile(tick)
}

// RecordRemote stores an incoming peer checksum and attempts reconciliation.
func (d *Detector) RecordRemote(pc PeerChecksum) {
	if d.ended {
		return
	}
	d.remote[pc.Tick] = append(d.remote[pc.Tick], pc)
	d.reconcile(pc.Tick)
}

// ReportStaleCommands short-circuits straight to the unrecoverable-desync
// policy (spec.md §4.3 "Stale-command policy... reports a desync with
// reason stale_commands and the game ends") without needing a checksum
// mismatch at all.
func (d *Detector) ReportStaleCommands(tick uint64) {
	if d.ended {
		return
	}
	d.end(Report{Tick: tick, Reason: ReasonStaleCommands})
}

func (d *Detector) reconcile(tick uint64) {
	local, haveLocal := d.local[tick]
	peers, havePeers := d.remote[tick]
	if !haveLocal || !havePeers {
		return
	}

	for _, p := range peers {
		if p.Root == local.Root {
			continue
		}
		path, entities := localize(local, p)
		d.end(Report{
			Tick:              tick,
			Reason:            ReasonChecksumMismatch,
			LocalChecksum:     local.Root,
			RemoteChecksum:    p.Root,
			DivergentPath:     path,
			DivergentEntities: entities,
		})
		return
	}

	d.retire(tick)
}

// retire drops per-tick bookkeeping once every known peer has agreed,
// bounding memory to the in-flight window rather than the whole match.
func (d *Detector) retire(tick uint64) {
	delete(d.local, tick)
	delete(d.remote, tick)
}

func (d *Detector) end(report Report) {
	d.ended = true
	d.endReport = &report
	d.bus.Emit(event.DesyncDetected, report)
}

// localize descends the local tree to find the smallest divergent
// category/group (spec.md §4.9 "Descend the Merkle tree locally to
// identify divergent categories and groups"). When the peer sent a full
// tree's worth of compact data this finds the first mismatched group; the
// O(log n) guarantee comes from comparing only the category then group
// level (two levels), never each leaf, unless a full-tree exchange is
// available — which this core does not require on the wire, matching
// spec.md §6's transport message shapes.
func localize(local checksum.Tree, remote PeerChecksum) ([]string, []core.Entity) {
	if !remote.HasCompact {
		return []string{"root"}, nil
	}

	sortedCategories := make([]checksum.CategoryNode, len(local.Categories))
	copy(sortedCategories, local.Categories)
	sort.Slice(sortedCategories, func(i, j int) bool {
		return sortedCategories[i].Category < sortedCategories[j].Category
	})

	for _, cat := range sortedCategories {
		remoteCatHash, ok := remote.Compact.Categories[cat.Category]
		if !ok || remoteCatHash != cat.Hash {
			groupLabel, entities := localizeGroup(cat, remote)
			path := []string{string(cat.Category)}
			if groupLabel != "" {
				path = append(path, groupLabel)
			}
			return path, entities
		}
	}
	return []string{"root"}, nil
}

func localizeGroup(cat checksum.CategoryNode, remote PeerChecksum) (string, []core.Entity) {
	remoteGroups, ok := remote.Compact.Groups[cat.Category]
	if !ok {
		return "", leafIDs(cat)
	}

	groups := make([]checksum.Group, len(cat.Groups))
	copy(groups, cat.Groups)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Label < groups[j].Label })

	for _, g := range groups {
		remoteHash, ok := remoteGroups[g.Label]
		if !ok || remoteHash != g.Hash {
			entities := make([]core.Entity, len(g.Leaves))
			for i, l := range g.Leaves {
				entities[i] = l.Entity
			}
			return g.Label, entities
		}
	}
	return "", nil
}

func leafIDs(cat checksum.CategoryNode) []core.Entity {
	var ids []core.Entity
	for _, g := range cat.Groups {
		for _, l := range g.Leaves {
			ids = append(ids, l.Entity)
		}
	}
	return ids
}
