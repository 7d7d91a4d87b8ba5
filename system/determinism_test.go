package system

import (
	"testing"

	"github.com/voidmarch/simcore/checksum"
	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/config"
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/desync"
	"github.com/voidmarch/simcore/event"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/sysreg"
	"github.com/voidmarch/simcore/transport"
	"github.com/voidmarch/simcore/worldstate"
)

// peerRig is one peer's entire lockstep stack: its own World, Pipeline,
// Queue, and Detector, wired to a transport.InProcPort so two rigs
// exercise the full spec.md §4.3 command round trip — not just a shared
// command slice fed to two worlds by hand.
type peerRig struct {
	world    *worldstate.World
	pipeline *sysreg.Pipeline
	queue    *command.Queue
	det      *desync.Detector
	port     transport.Port
}

func newPeerRig(playerID uint8, port transport.Port) *peerRig {
	w := worldstate.NewWorld(32, 32)
	bus := event.NewBus()
	det := desync.NewDetector(bus)
	queue := command.NewQueue(bus, 2, 100)
	queue.AttachTransport(inprocSender{port: port})

	rig := &peerRig{world: w, queue: queue, det: det, port: port}
	port.RegisterHandler(func(env transport.Envelope) {
		switch env.Type {
		case transport.MessageCommand:
			if env.Command != nil {
				queue.Receive(commandFromPayload(env.Command), w.Tick())
			}
		case transport.MessageChecksum:
			if env.Checksum != nil {
				det.RecordRemote(desync.PeerChecksum{PeerID: env.Checksum.PeerID, Tick: env.Checksum.Tick, Root: env.Checksum.Checksum})
			}
		}
	})

	deps := Deps{
		Bus:    bus,
		Queue:  queue,
		Config: config.Match{MapWidth: 32, MapHeight: 32, TickRate: 20, IsMultiplayer: true, PlayerID: playerID, CommandDelayTicks: 2, ChecksumInterval: 3},
		Detector: det,
		Owners:   worldOwner{world: w},
	}
	r := sysreg.NewRegistry()
	Register(r, deps)
	pipeline, err := sysreg.Build(r, w)
	if err != nil {
		panic(err)
	}
	rig.pipeline = pipeline
	return rig
}

func (r *peerRig) runTick(tick uint64) {
	r.pipeline.RunOnce(tick)
	r.world.EndPass()
	r.world.AdvanceTick()
}

func (r *peerRig) broadcastChecksum(playerID uint8, tick uint64) uint32 {
	root := checksum.Root(r.world)
	r.det.RecordLocal(tick, checksum.Walk(r.world))
	r.port.Broadcast(transport.Envelope{
		Type:     transport.MessageChecksum,
		Checksum: &transport.ChecksumPayload{Tick: tick, Checksum: root, PeerID: playerID},
	})
	return root
}

// inprocSender adapts a transport.Port to command.Sender the same way
// cmd/voidmarchd's netSender does for a real TCP/WS port.
type inprocSender struct {
	port transport.Port
}

func (s inprocSender) SendCommand(cmd command.Command) {
	s.port.Broadcast(transport.Envelope{Type: transport.MessageCommand, Command: commandToPayload(cmd)})
}

func commandToPayload(cmd command.Command) *transport.CommandPayload {
	refs := make([]uint64, len(cmd.EntityRefs))
	for i, e := range cmd.EntityRefs {
		refs[i] = uint64(e)
	}
	return &transport.CommandPayload{
		Tick: cmd.Tick, PlayerID: cmd.PlayerID, Type: uint16(cmd.Type), EntityRefs: refs,
		HasTarget: cmd.HasTargetEntity, TargetID: uint64(cmd.TargetEntity),
		HasPos: cmd.HasTargetPos, PosX: int32(cmd.TargetPos.X), PosY: int32(cmd.TargetPos.Y),
	}
}

func commandFromPayload(p *transport.CommandPayload) command.Command {
	refs := make([]core.Entity, len(p.EntityRefs))
	for i, id := range p.EntityRefs {
		refs[i] = core.Entity(id)
	}
	return command.Command{
		Tick: p.Tick, PlayerID: p.PlayerID, Type: command.Type(p.Type), EntityRefs: refs,
		HasTargetEntity: p.HasTarget, TargetEntity: core.Entity(p.TargetID),
		HasTargetPos: p.HasPos, TargetPos: fixedpoint.Point{X: fixedpoint.Fixed(p.PosX), Y: fixedpoint.Fixed(p.PosY)},
	}
}

// TestTwoPeerMatch_ChecksumsAgree drives two fully independent simulation
// stacks through an identical command stream over a real transport.Port
// (spec.md §8 invariant 1: "given the same inputs, every peer reaches the
// same state"). Both peers spawn the same units locally (the way
// blueprint.Expand would from an identical blueprint) then issue the same
// orders through their own Queue.IssueLocal — exercising the real
// AttachTransport delay-stamp-and-broadcast path, not a shortcut that
// mutates both worlds directly.
func TestTwoPeerMatch_ChecksumsAgree(t *testing.T) {
	bus := transport.NewInProcBus()
	portA := bus.NewPort(1)
	portB := bus.NewPort(2)

	a := newPeerRig(1, portA)
	b := newPeerRig(2, portB)

	unitA := spawnTestUnit(a.world, 1, 2, 2)
	spawnTestUnit(b.world, 1, 2, 2)
	spawnTestUnit(a.world, 2, 20, 20)
	spawnTestUnit(b.world, 2, 20, 20)

	moveCmd := command.Command{
		PlayerID:        1,
		Type:            command.TypeMove,
		EntityRefs:      []core.Entity{unitA},
		HasTargetPos:    true,
		TargetPos:       fixedpoint.Point{X: fixedpoint.FromInt(15), Y: fixedpoint.FromInt(15)},
	}

	const ticks = 30
	const checksumInterval = 3
	for tick := uint64(0); tick < ticks; tick++ {
		if tick == 0 {
			a.queue.IssueLocal(moveCmd, tick, func(command.Command) {})
		}
		a.runTick(tick)
		b.runTick(tick)

		if tick%checksumInterval == 0 {
			rootA := a.broadcastChecksum(1, tick)
			rootB := b.broadcastChecksum(2, tick)
			if rootA != rootB {
				t.Fatalf("tick %d: checksum mismatch, peer A=%x peer B=%x", tick, rootA, rootB)
			}
		}
	}

	if a.det.Ended() {
		t.Fatalf("peer A detector ended unexpectedly: %+v", mustReport(t, a.det))
	}
	if b.det.Ended() {
		t.Fatalf("peer B detector ended unexpectedly: %+v", mustReport(t, b.det))
	}
}

func mustReport(t *testing.T, d *desync.Detector) desync.Report {
	t.Helper()
	r, _ := d.Report()
	return r
}
