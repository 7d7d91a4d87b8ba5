package main

import (
	"log"

	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/desync"
	"github.com/voidmarch/simcore/transport"
)

// netSender adapts a transport.Port into command.Sender so command.Queue
// never imports transport directly.
type netSender struct {
	port transport.Port
}

func (s netSender) SendCommand(cmd command.Command) {
	if err := s.port.Broadcast(transport.Envelope{Type: transport.MessageCommand, Command: toPayload(cmd)}); err != nil {
		log.Printf("voidmarchd: broadcast command tick=%d: %v", cmd.Tick, err)
	}
}

// wireInbound registers the single handler a multiplayer match needs: remote
// commands feed the local queue at the receiver's current tick (spec.md §4.3
// "Stale-command policy"), and remote checksums feed the desync detector
// (spec.md §4.9). currentTick is read fresh on every call since the match's
// tick counter advances between messages.
func wireInbound(port transport.Port, queue *command.Queue, det *desync.Detector, currentTick func() uint64) {
	port.RegisterHandler(func(env transport.Envelope) {
		switch env.Type {
		case transport.MessageCommand:
			if env.Command != nil {
				queue.Receive(fromPayload(env.Command), currentTick())
			}
		case transport.MessageChecksum:
			if env.Checksum != nil {
				det.RecordRemote(desync.PeerChecksum{
					PeerID: env.Checksum.PeerID,
					Tick:   env.Checksum.Tick,
					Root:   env.Checksum.Checksum,
				})
			}
		}
	})
}

// broadcastChecksum sends this peer's checksum for tick to every other peer
// (spec.md §6 "checksum — { tick, checksum, ... }"). peerID identifies the
// sender so reconciliation on the remote end can attribute the digest.
func broadcastChecksum(port transport.Port, peerID uint8, tick uint64, root uint32) {
	if err := port.Broadcast(transport.Envelope{
		Type:     transport.MessageChecksum,
		Checksum: &transport.ChecksumPayload{Tick: tick, Checksum: root, PeerID: peerID},
	}); err != nil {
		log.Printf("voidmarchd: broadcast checksum tick=%d: %v", tick, err)
	}
}
