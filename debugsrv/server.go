// Package debugsrv is the post-mortem HTTP surface (spec.md §6 "Snapshot
// format" exported for offline tooling): a gorilla/mux router serving
// live status telemetry, persisted snapshots, the last desync report, and
// an SVG terrain/divergence rendering. It never touches the simulation's
// own goroutine or lock — every handler reads a snapshot or an
// already-published atomic value, kept entirely separate from the match
// loop it observes.
package debugsrv

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/debugsrv/svgexport"
	"github.com/voidmarch/simcore/desync"
	"github.com/voidmarch/simcore/snapshot"
	"github.com/voidmarch/simcore/status"
	"github.com/voidmarch/simcore/worldstate"
)

// Server exposes read-only debug endpoints over a running or ended match.
type Server struct {
	reg      *status.Registry
	store    *snapshot.Store
	detector *desync.Detector
	world    *worldstate.World
	router   *mux.Router
}

func New(reg *status.Registry, store *snapshot.Store, detector *desync.Detector, world *worldstate.World) *Server {
	s := &Server{reg: reg, store: store, detector: detector, world: world, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/snapshot/{tick:[0-9]+}", s.handleSnapshot).Methods(http.MethodGet)
	s.router.HandleFunc("/desync", s.handleDesync).Methods(http.MethodGet)
	s.router.HandleFunc("/svg/terrain", s.handleTerrainSVG).Methods(http.MethodGet)
}

// ListenAndServe blocks serving the debug surface on addr. Run it in its
// own goroutine; it shares no mutable state with the simulation loop
// beyond the read-only handles passed to New.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reg.Snapshot())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	tick, err := strconv.ParseUint(mux.Vars(r)["tick"], 10, 64)
	if err != nil {
		http.Error(w, "invalid tick", http.StatusBadRequest)
		return
	}
	snap, err := s.store.Load(tick)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDesync(w http.ResponseWriter, r *http.Request) {
	report, ok := s.detector.Report()
	if !ok {
		http.Error(w, "no desync recorded", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleTerrainSVG renders the most recently saved snapshot's units and
// buildings over the (static, so safely read live) terrain grid, ringed
// in red where a recorded desync report named the entity as divergent —
// the post-mortem view spec.md §4.9's "divergent entity ids" exists to
// support. It never reads world.Components directly: those are still
// being mutated by the simulation's own goroutine while this handler
// runs, so only the last Capture'd, already-serialized snapshot is safe
// to draw from.
func (s *Server) handleTerrainSVG(w http.ResponseWriter, r *http.Request) {
	tick := uint64(s.reg.Ints.Get("lastSnapshotTick").Load())
	snap, err := s.store.Load(tick)
	if err != nil {
		http.Error(w, "no snapshot available yet", http.StatusNotFound)
		return
	}

	opts := svgexport.DefaultOptions()
	if report, ok := s.detector.Report(); ok {
		divergent := make(map[core.Entity]bool, len(report.DivergentEntities))
		for _, e := range report.DivergentEntities {
			divergent[e] = true
		}
		opts.Divergent = divergent
		opts.Title = "voidmarchd terrain — desync at tick " + strconv.FormatUint(report.Tick, 10)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svgexport.RenderTerrain(s.world, snap, opts))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
