package system

import (
	"github.com/voidmarch/simcore/checksum"
	"github.com/voidmarch/simcore/event"
	"github.com/voidmarch/simcore/worldstate"
)

// MetaSystem is the Meta phase (spec.md §4.5), the last link in the
// pipeline: it computes this tick's checksum tree on the configured
// interval, hands it to the desync detector, and raises DesyncDetected the
// moment the detector judges an unrecoverable desync.
type MetaSystem struct {
	world *worldstate.World
	deps  Deps
}

func NewMetaSystem(world *worldstate.World, deps Deps) *MetaSystem {
	return &MetaSystem{world: world, deps: deps}
}

func (s *MetaSystem) Update(tick uint64) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.Ints.Get("tick").Store(int64(tick))
		s.deps.Metrics.Ints.Get("unitCount").Store(int64(len(s.world.Components.Units.All())))
		s.deps.Metrics.Ints.Get("buildingCount").Store(int64(len(s.world.Components.Buildings.All())))
	}

	interval := s.deps.Config.ChecksumInterval
	if interval == 0 {
		interval = 1
	}
	if tick%interval != 0 {
		return
	}

	tree := checksum.Walk(s.world)
	if s.deps.Metrics != nil {
		s.deps.Metrics.Ints.Get("lastChecksum").Store(int64(tree.Root))
	}
	if s.deps.Detector == nil {
		return
	}
	s.deps.Detector.RecordLocal(tick, tree)
	if s.deps.Detector.Ended() {
		if s.deps.Metrics != nil {
			s.deps.Metrics.Bools.Get("desynced").Store(true)
		}
		if s.deps.Bus != nil {
			report, _ := s.deps.Detector.Report()
			s.deps.Bus.Emit(event.DesyncDetected, report)
		}
	}
}
