package event

// Well-known event names emitted by the simulation core. Gameplay systems
// may define additional names locally; these are the ones other core
// subsystems (command queue, desync detector, system registry) depend on.
const (
	// Security / authorization (spec.md §4.3 "Authorization")
	SecuritySpoofedPlayerID    Name = "security:spoofedPlayerId"
	SecurityBadTickRange       Name = "security:badTickRange"
	SecurityOwnershipMismatch  Name = "security:ownershipMismatch"
	SecurityInvalidSignature   Name = "security:invalidSignature"
	CommandRejected            Name = "command:rejected"

	// Synchronization failures (spec.md §4.9, §7)
	DesyncDetected Name = "desync:detected"

	// System pipeline failures (spec.md §4.5 "Failure semantics")
	SystemUpdateFailed Name = "system:updateFailed"

	// Transport (spec.md §6)
	TransportPeerConnected    Name = "transport:peerConnected"
	TransportPeerDisconnected Name = "transport:peerDisconnected"
	TransportSendFailed       Name = "transport:sendFailed"

	// Gameplay moments the Output phase reacts to (spec.md §4.5 layer 10).
	// These never carry quantized state into a hashed path themselves —
	// they are cues for local spectation only.
	CombatDamageApplied Name = "combat:damageApplied"
	UnitSpawned         Name = "spawn:unitSpawned"

	// Lifecycle
	GameEnded Name = "game:ended"
)
