package main

import (
	"github.com/voidmarch/simcore/command"
	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/fixedpoint"
	"github.com/voidmarch/simcore/transport"
)

// toPayload converts a scheduled command into the wire shape transport.Port
// actually moves (spec.md §6 "payload: GameCommand"). EntityRefs/TargetEntity
// are plain core.Entity ids on the wire — ownership is re-validated against
// live world state on arrival by command.Authorize, never trusted from the
// payload itself.
func toPayload(cmd command.Command) *transport.CommandPayload {
	refs := make([]uint64, len(cmd.EntityRefs))
	for i, e := range cmd.EntityRefs {
		refs[i] = uint64(e)
	}
	return &transport.CommandPayload{
		Tick:       cmd.Tick,
		PlayerID:   cmd.PlayerID,
		Type:       uint16(cmd.Type),
		EntityRefs: refs,
		HasTarget:  cmd.HasTargetEntity,
		TargetID:   uint64(cmd.TargetEntity),
		HasPos:     cmd.HasTargetPos,
		PosX:       int32(cmd.TargetPos.X),
		PosY:       int32(cmd.TargetPos.Y),
	}
}

// fromPayload is toPayload's inverse. Payload (the type-specific build/patrol
// fields) never crosses the wire in this codec; build orders are issued and
// applied locally before a command reaches IssueLocal, matching how
// spec.md §4.3 scopes EntityRefs/target fields as the only ownership-checked
// surface.
func fromPayload(p *transport.CommandPayload) command.Command {
	refs := make([]core.Entity, len(p.EntityRefs))
	for i, id := range p.EntityRefs {
		refs[i] = core.Entity(id)
	}
	return command.Command{
		Tick:            p.Tick,
		PlayerID:        p.PlayerID,
		Type:            command.Type(p.Type),
		EntityRefs:      refs,
		HasTargetEntity: p.HasTarget,
		TargetEntity:    core.Entity(p.TargetID),
		HasTargetPos:    p.HasPos,
		TargetPos:       fixedpoint.Point{X: fixedpoint.Fixed(p.PosX), Y: fixedpoint.Fixed(p.PosY)},
	}
}
