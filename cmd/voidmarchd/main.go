// Command voidmarchd is the headless match runner: it loads a map
// blueprint and match configuration, wires the simulation pipeline, and
// drives it tick by tick off a real-time scheduler — singleplayer over an
// in-process transport, or a two-peer match over TCP, optionally rendering
// a spectator TUI with audio cues. Startup order is flags, then logging,
// then device/screen setup, then a ticker-driven loop.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/voidmarch/simcore/blueprint"
	"github.com/voidmarch/simcore/checksum"
	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/debugsrv"
	"github.com/voidmarch/simcore/desync"
	"github.com/voidmarch/simcore/event"
	"github.com/voidmarch/simcore/scheduler"
	"github.com/voidmarch/simcore/snapshot"
	"github.com/voidmarch/simcore/status"
	"github.com/voidmarch/simcore/sysreg"
	"github.com/voidmarch/simcore/system"
	"github.com/voidmarch/simcore/transport"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging to file")
	blueprintPath := flag.String("blueprint", "", "path to a map blueprint YAML file")
	configPath := flag.String("config", "", "path to a match configuration file")
	listenAddr := flag.String("listen", "", "host a TCP match on this address, accepting one remote peer")
	dialAddr := flag.String("dial", "", "join a TCP match by dialing this address")
	playerID := flag.Uint("player", 0, "this process's player id")
	spectate := flag.Bool("spectate", false, "render a spectator TUI with audio cues")
	debugAddr := flag.String("debugaddr", "", "serve a post-mortem debug HTTP surface on this address (empty disables it)")
	snapshotDir := flag.String("snapshotdir", "snapshots", "directory snapshots are written to")
	flag.Parse()

	logFile := setupLogging(*debug)
	if logFile != nil {
		defer logFile.Close()
	}

	bp, err := loadBlueprint(*blueprintPath)
	if err != nil {
		fatal(err)
	}
	world, err := blueprint.Expand(bp)
	if err != nil {
		fatal(fmt.Errorf("expand blueprint: %w", err))
	}

	cfg, err := loadConfig(*configPath, world.MapWidth, world.MapHeight)
	if err != nil {
		fatal(err)
	}
	cfg.PlayerID = uint8(*playerID)
	cfg.IsMultiplayer = *listenAddr != "" || *dialAddr != ""
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	bus := event.NewBus()
	reg := status.NewRegistry()
	matchID, peerUUID := stampSession(reg, cfg.PlayerID)
	log.Printf("match %s peer %s player %d multiplayer=%t", matchID, peerUUID, cfg.PlayerID, cfg.IsMultiplayer)

	det := desync.NewDetector(bus)
	queue := command.NewQueue(bus, cfg.CommandDelayTicks, 100)
	store := snapshot.NewStore(*snapshotDir)
	bus.On(event.DesyncDetected, func(a any) {
		reg.Bools.Get("desynced").Store(true)
		if r, ok := a.(desync.Report); ok {
			log.Printf("desync at tick %d reason=%s local=%d remote=%d", r.Tick, r.Reason, r.LocalChecksum, r.RemoteChecksum)
			snap := snapshot.Capture(world, r.LocalChecksum, time.Now().Unix(), nil)
			if err := store.Save(snap); err != nil {
				log.Printf("voidmarchd: save desync snapshot tick=%d: %v", r.Tick, err)
			} else {
				reg.Ints.Get("lastSnapshotTick").Store(int64(snap.Tick))
			}
		}
	})

	var port transport.Port
	if cfg.IsMultiplayer {
		port, err = dialOrListen(*listenAddr, *dialAddr)
		if err != nil {
			fatal(fmt.Errorf("transport: %w", err))
		}
		queue.AttachTransport(netSender{port: port})
		wireInbound(port, queue, det, world.Tick)
	} else {
		inproc := transport.NewInProcBus()
		port = inproc.NewPort(transport.PeerID(cfg.PlayerID + 1))
	}
	defer port.Close()

	var player system.Player
	var tui *spectatorTUI
	if *spectate {
		if ap, err := newBeepPlayer(); err != nil {
			log.Printf("voidmarchd: audio disabled: %v", err)
		} else {
			player = ap
			defer ap.Close()
		}
		tui, err = newSpectatorTUI()
		if err != nil {
			fatal(err)
		}
		defer tui.Close()
	}

	deps := system.Deps{
		Bus:      bus,
		Queue:    queue,
		Config:   cfg,
		Detector: det,
		Metrics:  reg,
		Audio:    player,
	}

	registry := sysreg.NewRegistry()
	system.Register(registry, deps)
	pipeline, err := sysreg.Build(registry, world)
	if err != nil {
		fatal(fmt.Errorf("build pipeline: %w", err))
	}

	if *debugAddr != "" {
		dbg := debugsrv.New(reg, store, det, world)
		go func() {
			if err := dbg.ListenAndServe(*debugAddr); err != nil {
				log.Printf("voidmarchd: debug server on %s: %v", *debugAddr, err)
			}
		}()
	}

	clock := scheduler.NewPausableClock(scheduler.MonotonicTimeProvider{})
	sched := scheduler.New(clock, scheduler.MonotonicTimeProvider{})
	sched.SetRate(cfg.TickRate)
	match := scheduler.NewMatch(sched)
	match.Begin(time.Now())

	runTick := func(tick uint64) {
		if err := core.Recoverf(func() { pipeline.RunOnce(tick) }); err != nil {
			bus.Emit(event.SystemUpdateFailed, err.Error())
			log.Printf("voidmarchd: system update failed at tick %d: %v", tick, err)
		}
		world.EndPass()
		world.AdvanceTick()
		reg.Ints.Get("tick").Store(int64(tick))

		if cfg.ChecksumInterval > 0 && tick%cfg.ChecksumInterval == 0 {
			tree := checksum.Walk(world)
			det.RecordLocal(tick, tree)
			reg.Ints.Get("checksum").Store(int64(tree.Root))
			if cfg.IsMultiplayer {
				broadcastChecksum(port, cfg.PlayerID, tick, tree.Root)
			}
			if *debugAddr != "" {
				snap := snapshot.Capture(world, tree.Root, time.Now().Unix(), nil)
				if err := store.Save(snap); err != nil {
					log.Printf("voidmarchd: save snapshot tick=%d: %v", tick, err)
				} else {
					reg.Ints.Get("lastSnapshotTick").Store(int64(tick))
				}
			}
		}
		if det.Ended() {
			match.End("desync")
		}
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.TickRate))
	defer ticker.Stop()
	renderTicker := time.NewTicker(33 * time.Millisecond)
	defer renderTicker.Stop()

	for match.State() == scheduler.StateRunning {
		select {
		case now := <-ticker.C:
			sched.Advance(now, runTick)
		case <-renderTicker.C:
			if tui == nil {
				continue
			}
			tui.Render(reg.Snapshot())
			if tui.PollQuit() {
				match.End("operator_quit")
			}
		}
	}

	log.Printf("match %s ended: %s", matchID, match.EndReason())
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "voidmarchd: %v\n", err)
	os.Exit(1)
}
