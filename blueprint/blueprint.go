// Package blueprint decodes and deterministically expands the map
// blueprint record from spec.md §6: a YAML document describing canvas
// size, an ordered paint program, and base placements, which every peer
// expands into identical terrain and initial entities.
package blueprint

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PaintOp enumerates spec.md §6's paint command vocabulary.
type PaintOp string

const (
	PaintFill       PaintOp = "fill"
	PaintPlateau    PaintOp = "plateau"
	PaintRect       PaintOp = "rect"
	PaintRamp       PaintOp = "ramp"
	PaintWater      PaintOp = "water"
	PaintForest     PaintOp = "forest"
	PaintVoid       PaintOp = "void"
	PaintRoad       PaintOp = "road"
	PaintUnwalkable PaintOp = "unwalkable"
	PaintBorder     PaintOp = "border"
	PaintMud        PaintOp = "mud"
)

// Canonical elevation milestones (spec.md §6).
const (
	ElevationLow  = 60
	ElevationMid  = 140
	ElevationHigh = 220
)

type Meta struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Players int    `yaml:"players"`
}

type Canvas struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Biome  string `yaml:"biome"`
}

// PaintCommand is one entry in the ordered paint program; later commands
// overwrite earlier ones in their region (spec.md §6 "paint").
type PaintCommand struct {
	Op           PaintOp
	X, Y         int
	Width, Height int
	Elevation    int
	HasElevation bool
}

func (p *PaintCommand) UnmarshalYAML(node *yaml.Node) error {
	type raw struct {
		Op        PaintOp `yaml:"op"`
		X         int     `yaml:"x"`
		Y         int     `yaml:"y"`
		Width     int     `yaml:"width"`
		Height    int     `yaml:"height"`
		Elevation *int    `yaml:"elevation"`
	}
	var r raw
	if err := node.Decode(&r); err != nil {
		return err
	}
	p.Op, p.X, p.Y, p.Width, p.Height = r.Op, r.X, r.Y, r.Width, r.Height
	if r.Elevation != nil {
		p.Elevation = *r.Elevation
		p.HasElevation = true
	}
	return nil
}

// BaseType distinguishes a player's starting base from a later expansion.
type BaseType string

const (
	BaseMain      BaseType = "main"
	BaseExpansion BaseType = "expansion"
)

type Base struct {
	Type               BaseType `yaml:"type"`
	PlayerSlot         int      `yaml:"playerSlot"`
	X                  int      `yaml:"x"`
	Y                  int      `yaml:"y"`
	MineralOrientation int      `yaml:"mineralOrientation"` // degrees, 0-359
}

type WatchTower struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type Destructible struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	KindID uint32 `yaml:"kindId"`
}

type DecorationRule struct {
	TerrainClass string  `yaml:"terrainClass"`
	Density      float64 `yaml:"density"` // quantized to fixedpoint by the generator's RNG draw, never hashed raw
}

type ExplicitDecoration struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	KindID uint32 `yaml:"kindId"`
}

// Blueprint is the canonical input record (spec.md §6 "Map blueprint").
type Blueprint struct {
	Meta   Meta   `yaml:"meta"`
	Canvas Canvas `yaml:"canvas"`
	Paint  []PaintCommand `yaml:"paint"`
	Bases  []Base `yaml:"bases"`

	WatchTowers         []WatchTower         `yaml:"watchTowers,omitempty"`
	Destructibles       []Destructible       `yaml:"destructibles,omitempty"`
	DecorationRules     []DecorationRule     `yaml:"decorationRules,omitempty"`
	ExplicitDecorations []ExplicitDecoration `yaml:"explicitDecorations,omitempty"`
}

// Decode parses a blueprint document and validates it.
func Decode(data []byte) (*Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("blueprint: decode: %w", err)
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return &bp, nil
}

var validPlayerCounts = map[int]bool{2: true, 4: true, 6: true, 8: true}

var validPaintOps = map[PaintOp]bool{
	PaintFill: true, PaintPlateau: true, PaintRect: true, PaintRamp: true,
	PaintWater: true, PaintForest: true, PaintVoid: true, PaintRoad: true,
	PaintUnwalkable: true, PaintBorder: true, PaintMud: true,
}

// Validate checks spec.md §6's stated constraints: player count enum,
// positive canvas dimensions, and known paint ops — anything else is a
// malformed blueprint and must be rejected before expansion, not silently
// coerced (silent coercion on two peers with slightly different blueprint
// loaders is exactly how terrain-level desyncs happen).
func (b *Blueprint) Validate() error {
	if !validPlayerCounts[b.Meta.Players] {
		return fmt.Errorf("blueprint: players must be one of {2,4,6,8}, got %d", b.Meta.Players)
	}
	if b.Canvas.Width <= 0 || b.Canvas.Height <= 0 {
		return fmt.Errorf("blueprint: canvas dimensions must be positive, got %dx%d", b.Canvas.Width, b.Canvas.Height)
	}
	for i, p := range b.Paint {
		if !validPaintOps[p.Op] {
			return fmt.Errorf("blueprint: paint[%d]: unknown op %q", i, p.Op)
		}
	}
	for i, base := range b.Bases {
		if base.X < 0 || base.X >= b.Canvas.Width || base.Y < 0 || base.Y >= b.Canvas.Height {
			return fmt.Errorf("blueprint: bases[%d]: position (%d,%d) outside canvas", i, base.X, base.Y)
		}
	}
	return nil
}
