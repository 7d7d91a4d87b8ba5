// Package transport is the Transport Port (spec.md §6): an abstract
// send/register/unregister surface the simulation core depends on without
// caring whether messages travel over an in-process bus, a TCP stream, or a
// WebSocket connection, as long as delivery is reliable, ordered, and
// exactly-once per peer.
package transport

// MessageType enumerates spec.md §6's three wire shapes.
type MessageType uint8

const (
	MessageCommand  MessageType = 1
	MessageChecksum MessageType = 2
	MessageQuit     MessageType = 3
)

// PeerID identifies one remote participant; 0 is reserved for "unknown/not
// yet corroborated".
type PeerID uint8

// CommandPayload is the `{ payload: GameCommand }` wire shape. codec.go's
// decoder reads only this shape; the legacy `{ commandType, data }` form
// from spec.md §6 is not decoded.
type CommandPayload struct {
	Tick       uint64
	PlayerID   uint8
	Type       uint16
	EntityRefs []uint64
	HasTarget  bool
	TargetID   uint64
	HasPos     bool
	PosX, PosY int32
	Signature  string // base64, empty in unsigned-mode matches
	Payload    []byte // type-specific fields, caller-defined encoding
}

// ChecksumPayload is spec.md §6's `checksum` message shape.
type ChecksumPayload struct {
	Tick          uint64
	Checksum      uint32
	UnitCount     int32
	BuildingCount int32
	ResourceSum   int32
	PeerID        uint8
	CompactJSON   []byte // optional checksum.Compact, JSON-encoded; empty if omitted
}

// QuitPayload is spec.md §6's `quit` message shape.
type QuitPayload struct {
	PlayerID uint8
}

// Envelope is one message as delivered to a Handler, with the sender's
// corroborated identity attached by the transport (never by the payload
// itself — spec.md §4.3 "anti-spoof").
type Envelope struct {
	From PeerID
	Type MessageType

	Command  *CommandPayload
	Checksum *ChecksumPayload
	Quit     *QuitPayload
}

// Handler processes one inbound envelope. Per spec.md §5, handlers run on
// the simulation thread — a Port implementation must never call a Handler
// concurrently with itself or with another Handler call.
type Handler func(Envelope)

// Port is the abstract transport contract every simulation core depends on.
type Port interface {
	// Send transmits an envelope to one peer (PeerID 0 is invalid for Send
	// — use Broadcast for "every peer").
	Send(to PeerID, env Envelope) error
	// Broadcast transmits to every currently connected peer.
	Broadcast(env Envelope) error
	// RegisterHandler adds a handler invoked for every inbound envelope,
	// returning a token Unregister can later remove.
	RegisterHandler(h Handler) int
	// UnregisterHandler removes a previously registered handler.
	UnregisterHandler(token int)
	// Close releases transport resources and disconnects all peers.
	Close() error
}
