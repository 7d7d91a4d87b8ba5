package main

import (
	"github.com/google/uuid"
	"github.com/voidmarch/simcore/status"
)

// stampSession generates a match session id and records it, and this peer's
// id, into the registry for the spectator TUI/debug surface to display.
// Neither value ever enters a hashed path (SPEC_FULL.md's Domain Stack:
// "handshake-only — never enters quantized state") — they exist purely so a
// human watching a match, or a debug dashboard, can tell matches apart.
func stampSession(reg *status.Registry, peerID uint8) (matchID string, peerUUID string) {
	matchID = uuid.NewString()
	peerUUID = uuid.NewString()
	reg.Strings.Get("matchId").Store(matchID)
	reg.Strings.Get("peerId").Store(peerUUID)
	reg.Ints.Get("localPlayerId").Store(int64(peerID))
	return matchID, peerUUID
}
