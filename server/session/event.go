package session

import (
	"github.com/google/uuid"

	"github.com/birchwood-mc/birchwood/server/net/packet"
	"github.com/birchwood-mc/birchwood/server/world"
)

// Event is one request a Session hands to the world engine's ingest phase,
// the only place connection goroutines may cause a world mutation: Slab is
// not safe for concurrent access outside the tick engine's own goroutine,
// so every inbound effect of a connection — joining, leaving, a moved
// packet — is funnelled through here instead of touching the Store
// directly.
//
// Exactly one of Join, Leave or Packet is set.
type Event struct {
	Join   *JoinRequest
	Leave  *LeaveRequest
	Packet *PacketEvent
}

// JoinRequest asks the ingest phase to materialise a newly authenticated
// connection as a Client/Entity row pair and reports the result back on
// Respond.
type JoinRequest struct {
	Name string
	UUID uuid.UUID

	Respond chan JoinResult
}

// JoinResult is handed back to the Session once its rows exist. Outbound is
// the Client row's direct-send channel, read once here since a Session must
// never call Store methods itself afterwards.
type JoinResult struct {
	Client world.Key
	Entity world.Key

	Outbound <-chan []byte

	Err error
}

// LeaveRequest asks the ingest phase to remove a disconnecting client's rows.
type LeaveRequest struct {
	Client world.Key
}

// PacketEvent carries one decoded Play-state serverbound packet for the
// ingest phase to apply against the sender's rows.
type PacketEvent struct {
	Client world.Key
	Entity world.Key
	Packet packet.Decoder
}
