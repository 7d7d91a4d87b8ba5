package command

// RejectReason enumerates why a command failed authorization (spec.md
// §4.3). Each maps to a specific security audit event.
type RejectReason string

const (
	RejectSpoofedPlayerID   RejectReason = "spoofed_player_id"
	RejectBadTickRange      RejectReason = "bad_tick_range"
	RejectOwnershipMismatch RejectReason = "ownership_mismatch"
	RejectInvalidSignature  RejectReason = "invalid_signature"
)

// EntityOwner is the minimal capability the authorizer needs: given an
// entity id (as core.Entity, boxed to avoid an import cycle with
// worldstate), report its owning player.
type EntityOwner interface {
	OwnerOf(entityID uint64) (player uint8, ok bool)
}

// AuthParams bundles everything Authorize needs beyond the command itself.
type AuthParams struct {
	CorroboratedPlayerID uint8 // transport-known identity of the sender
	CurrentTick          uint64
	DelayTicks           uint64 // command-delay constant D
	FarFutureWindow      uint64 // spec.md default 100
	Owner                EntityOwner
	SignatureValid       func(Command) bool // nil in unsigned-mode matches
}

// Authorize validates a command against the world per spec.md §4.3. It
// returns ("", true) on acceptance, or (reason, false) on rejection.
func Authorize(cmd Command, p AuthParams) (RejectReason, bool) {
	if cmd.PlayerID != p.CorroboratedPlayerID {
		return RejectSpoofedPlayerID, false
	}

	lowerBound := int64(p.CurrentTick) - int64(p.DelayTicks)
	upperBound := p.CurrentTick + p.FarFutureWindow
	if int64(cmd.Tick) < lowerBound || cmd.Tick > upperBound {
		return RejectBadTickRange, false
	}

	for _, e := range cmd.EntityRefs {
		owner, ok := p.Owner.OwnerOf(uint64(e))
		if !ok || owner != cmd.PlayerID {
			return RejectOwnershipMismatch, false
		}
	}

	if p.SignatureValid != nil && !p.SignatureValid(cmd) {
		return RejectInvalidSignature, false
	}

	return "", true
}
