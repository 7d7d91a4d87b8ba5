package system

import (
	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/event"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/nav"
	"github.com/voidmarch/simcore/worldstate"
)

// PlacementSystem is the Placement phase (spec.md §4.5): it validates
// pending building placements (build orders whose payload carries a
// position rather than targeting an existing producer) against the
// footprint-aware passability grid before materializing the building
// entity, so an invalid placement never reaches Mechanics.
type PlacementSystem struct {
	world *worldstate.World
	deps  Deps
	grid  *nav.FootprintGrid
}

func NewPlacementSystem(world *worldstate.World, deps Deps) *PlacementSystem {
	grid := nav.NewFootprintGrid(world.MapWidth, world.MapHeight, 1, 1)
	grid.Compute(nav.TerrainWallChecker(world))
	return &PlacementSystem{world: world, deps: deps, grid: grid}
}

// buildingTemplate is the minimal stat block Placement needs to
// materialize a structure placement into a constructing building entity.
type buildingTemplate struct {
	Width, Height int
	Health        int32
}

var defaultBuildingTemplates = map[uint32]buildingTemplate{}

func buildingTemplateFor(kindID uint32) buildingTemplate {
	if t, ok := defaultBuildingTemplates[kindID]; ok {
		return t
	}
	return buildingTemplate{Width: 2, Height: 2, Health: 400}
}

// Place validates order against the current passability grid and, if
// valid, creates a new constructing building entity owned by builder. It
// returns false (emitting CommandRejected) if the footprint can't fit.
func (s *PlacementSystem) Place(builder core.Entity, order command.BuildOrder) bool {
	if !order.HasPlacement {
		return false
	}
	tmpl := buildingTemplateFor(order.ItemID)
	grid := s.grid
	if tmpl.Width != grid.FootprintW || tmpl.Height != grid.FootprintH {
		grid = nav.NewFootprintGrid(s.world.MapWidth, s.world.MapHeight, tmpl.Width, tmpl.Height)
		grid.Compute(nav.TerrainWallChecker(s.world))
	}

	cx, cy := fixedpoint.ToInt(order.Pos.X), fixedpoint.ToInt(order.Pos.Y)
	if !grid.IsValid(cx, cy) {
		if s.deps.Bus != nil {
			s.deps.Bus.Emit(event.CommandRejected, struct {
				Builder core.Entity
				KindID  uint32
			}{Builder: builder, KindID: order.ItemID})
		}
		return false
	}

	sel, ok := s.world.Components.Selectables.Get(builder)
	if !ok {
		return false
	}

	e := s.world.CreateEntity()
	s.world.Components.Buildings.Add(e, worldstate.Building{
		KindID: order.ItemID,
		Width:  tmpl.Width, Height: tmpl.Height,
		State: worldstate.BuildingConstructing,
	})
	s.world.SetTransform(e, worldstate.Transform{Pos: order.Pos})
	s.world.Components.Healths.Add(e, worldstate.Health{Current: tmpl.Health, Max: tmpl.Health})
	s.world.Components.Selectables.Add(e, worldstate.Selectable{PlayerID: sel.PlayerID})
	return true
}

// Update re-derives the passability grid from current terrain, then drains
// every build-at-position order Input queued this tick and resolves each
// through Place.
func (s *PlacementSystem) Update(tick uint64) {
	s.grid.Compute(nav.TerrainWallChecker(s.world))
	if s.deps.Placements == nil {
		return
	}
	for _, p := range s.deps.Placements.drain() {
		s.Place(p.Builder, p.Order)
	}
}
