// Package svgexport renders a match's terrain grid and Merkle divergence
// overlay to SVG for desync post-mortems (spec.md §4.9 "divergent path and
// ... divergent entity ids"), the way dungo's pkg/export/svg.go renders a
// dungeon graph: a bytes.Buffer canvas, deterministic draw order, styling
// driven by an Options struct rather than hardcoded constants.
package svgexport

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/snapshot"
	"github.com/voidmarch/simcore/worldstate"
)

// Options configures terrain export; DefaultOptions returns the usual
// settings. In a zero-value Options only CellSize falls back to a default
// (10); the grid is not drawn and no title is written.
type Options struct {
	CellSize  int // pixels per terrain cell
	ShowGrid  bool
	Title     string
	Divergent map[core.Entity]bool // entities to highlight per a desync report
}

func DefaultOptions() Options {
	return Options{CellSize: 10, ShowGrid: true, Title: "voidmarchd terrain"}
}

var terrainColor = map[worldstate.TerrainClass]string{
	worldstate.TerrainPlain:      "#2d3748",
	worldstate.TerrainPlateau:    "#4a5568",
	worldstate.TerrainRamp:       "#718096",
	worldstate.TerrainWater:      "#2b6cb0",
	worldstate.TerrainForest:     "#276749",
	worldstate.TerrainVoid:       "#000000",
	worldstate.TerrainRoad:       "#975a16",
	worldstate.TerrainUnwalkable: "#1a202c",
	worldstate.TerrainMud:        "#6b4226",
}

var ownerColor = []string{"#ecc94b", "#f56565", "#4299e1", "#48bb78", "#9f7aea", "#ed8936", "#38b2ac", "#ed64a6"}

func colorForOwner(playerID uint8) string {
	return ownerColor[int(playerID)%len(ownerColor)]
}

// RenderTerrain draws the terrain grid plus every unit/building recorded in
// snap, colored by owner, ringed in red where opts.Divergent names an
// entity. It takes terrain (static once a blueprint has expanded, never
// mutated again by the simulation) directly from world, but entity
// positions only from an already-captured Snapshot rather than world's
// live component stores — the debug server runs on its own goroutine and
// must never read state the simulation thread is still mutating.
func RenderTerrain(w *worldstate.World, snap snapshot.Snapshot, opts Options) []byte {
	if opts.CellSize <= 0 {
		opts.CellSize = 10
	}

	width := w.MapWidth * opts.CellSize
	height := w.MapHeight*opts.CellSize + 40

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#171923")

	drawTerrain(canvas, w, opts)
	if opts.ShowGrid {
		drawGrid(canvas, w, opts)
	}
	drawEntities(canvas, snap, opts)

	if opts.Title != "" {
		canvas.Text(10, height-15, opts.Title, "fill:#e2e8f0;font-size:14px")
	}

	canvas.End()
	return buf.Bytes()
}

func drawTerrain(canvas *svg.SVG, w *worldstate.World, opts Options) {
	for y := 0; y < w.MapHeight; y++ {
		for x := 0; x < w.MapWidth; x++ {
			cell := w.Terrain[y*w.MapWidth+x]
			color, ok := terrainColor[cell.Class]
			if !ok {
				color = "#2d3748"
			}
			canvas.Rect(x*opts.CellSize, y*opts.CellSize, opts.CellSize, opts.CellSize, fmt.Sprintf("fill:%s", color))
		}
	}
}

func drawGrid(canvas *svg.SVG, w *worldstate.World, opts Options) {
	style := "stroke:#000000;stroke-opacity:0.15;stroke-width:1"
	for x := 0; x <= w.MapWidth; x++ {
		canvas.Line(x*opts.CellSize, 0, x*opts.CellSize, w.MapHeight*opts.CellSize, style)
	}
	for y := 0; y <= w.MapHeight; y++ {
		canvas.Line(0, y*opts.CellSize, w.MapWidth*opts.CellSize, y*opts.CellSize, style)
	}
}

func drawEntities(canvas *svg.SVG, snap snapshot.Snapshot, opts Options) {
	radius := opts.CellSize / 2
	if radius < 2 {
		radius = 2
	}

	for _, rec := range snap.Entities {
		if rec.Transform == nil || rec.Selectable == nil {
			continue
		}
		if rec.Unit == nil && rec.Building == nil {
			continue
		}
		cx := int(fixedpoint.ToFloat(rec.Transform.Pos.X)) * opts.CellSize
		cy := int(fixedpoint.ToFloat(rec.Transform.Pos.Y)) * opts.CellSize
		canvas.Circle(cx, cy, radius, fmt.Sprintf("fill:%s", colorForOwner(rec.Selectable.PlayerID)))
		if opts.Divergent[rec.Entity] {
			canvas.Circle(cx, cy, radius+3, "fill:none;stroke:#f56565;stroke-width:2")
		}
	}
}
