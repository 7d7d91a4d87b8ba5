package main

import (
	"fmt"
	"os"

	"github.com/voidmarch/simcore/blueprint"
)

// defaultBlueprintYAML is a minimal two-player map used when no --blueprint
// flag is given, so voidmarchd is runnable out of the box for local
// smoke-testing (spec.md §6's blueprint schema, same shape a real map author
// would hand-write).
const defaultBlueprintYAML = `
meta:
  id: builtin-duel
  name: Builtin Duel
  players: 2
canvas:
  width: 64
  height: 64
paint:
  - op: fill
  - op: border
bases:
  - type: main
    playerSlot: 0
    x: 8
    y: 8
    mineralOrientation: 45
  - type: main
    playerSlot: 1
    x: 56
    y: 56
    mineralOrientation: 225
`

func loadBlueprint(path string) (*blueprint.Blueprint, error) {
	if path == "" {
		return blueprint.Decode([]byte(defaultBlueprintYAML))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blueprint %s: %w", path, err)
	}
	return blueprint.Decode(data)
}
