// Package synth turns the world store's per-tick row changes into the
// minimal, correctly ordered stream of outbound packets each client
// receives. It never mutates the world's rows: it reads row state and
// deltas and emits encoded packets, either appended to a ChunkLayer's
// message buffer or queued directly on a Client (join, chunk view, boss
// bars, tab list, inventories), and FlushLayer delivers a layer's buffered
// messages to its viewers.
package synth

import (
	"bytes"
	"math"

	"github.com/birchwood-mc/birchwood/server/net/packet"
	"github.com/birchwood-mc/birchwood/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// teleportThreshold is the |Δ|∞ distance past which a relative move packet
// can no longer represent the delta and an absolute teleport is required.
const teleportThreshold = 8.0

// relativeMoveScale converts a per-axis delta in blocks to the fixed-point
// units MoveRelative/RotateAndMoveRelative carry (Δ * 4096, clamped to
// int16 range by the teleport threshold above).
const relativeMoveScale = 4096.0

// angleByte packs a degrees value into the single-byte angle encoding used
// by every entity rotation field.
func angleByte(degrees float32) int8 {
	return int8(int32(degrees*256.0/360.0) & 0xff)
}

// NetworkEntityID derives the wire entity id for a world Entity row. Slab
// index 0 is reserved (many clients treat entity id 0 as "no entity"), so
// ids are offset by one.
func NetworkEntityID(key world.Key) int32 {
	return int32(key.Index()) + 1
}

// chunkPos returns the chunk column containing pos.
func chunkPos(pos mgl64.Vec3) [2]int32 {
	return [2]int32{int32(math.Floor(pos.X() / 16)), int32(math.Floor(pos.Z() / 16))}
}

// MovementPacket implements the position/look delta decision table: a
// teleport if the delta exceeds the relative-move range, otherwise the
// narrowest of RotateAndMoveRelative / MoveRelative / Rotate that still
// carries every change, or nil if neither position nor look changed.
func MovementPacket(e *world.Entity) packet.Encoder {
	delta := e.PositionDelta()
	lookChanged := e.LookChanged()
	moved := delta != (mgl64.Vec3{})

	maxAbs := math.Max(math.Abs(delta.X()), math.Max(math.Abs(delta.Y()), math.Abs(delta.Z())))
	id := NetworkEntityID(e.Key)

	switch {
	case maxAbs >= teleportThreshold:
		return &packet.EntityPosition{
			EntityID: id,
			X:        e.Position.X(), Y: e.Position.Y(), Z: e.Position.Z(),
			Yaw: angleByte(e.Look.Yaw), Pitch: angleByte(e.Look.Pitch),
			OnGround: true,
		}
	case moved && lookChanged:
		return &packet.RotateAndMoveRelative{
			EntityID: id,
			DX:       int16(delta.X() * relativeMoveScale),
			DY:       int16(delta.Y() * relativeMoveScale),
			DZ:       int16(delta.Z() * relativeMoveScale),
			Yaw:      angleByte(e.Look.Yaw), Pitch: angleByte(e.Look.Pitch),
			OnGround: true,
		}
	case moved:
		return &packet.MoveRelative{
			EntityID: id,
			DX:       int16(delta.X() * relativeMoveScale),
			DY:       int16(delta.Y() * relativeMoveScale),
			DZ:       int16(delta.Z() * relativeMoveScale),
			OnGround: true,
		}
	case lookChanged:
		return &packet.Rotate{EntityID: id, Yaw: angleByte(e.Look.Yaw), Pitch: angleByte(e.Look.Pitch), OnGround: true}
	default:
		return nil
	}
}

// HeadYawPacket returns EntitySetHeadYaw whenever the entity's head yaw
// changed independent of body yaw (BroadcastMovement also sends one after
// every teleport, and BroadcastSpawnOrDespawn after a PlayerSpawn).
func HeadYawPacket(e *world.Entity) packet.Encoder {
	if !e.HeadYawChanged() {
		return nil
	}
	return &packet.EntitySetHeadYaw{EntityID: NetworkEntityID(e.Key), HeadYaw: angleByte(e.Look.HeadYaw)}
}

// encode runs p's wire encoding (id + body, unframed) into a fresh buffer,
// the form a ChunkLayer's message buffer stores.
func encode(p packet.Encoder) []byte {
	var buf bytes.Buffer
	if err := packet.EncodeTo(&buf, p); err != nil {
		// Every packet type defined in this tree encodes without error for
		// any value the row layer can construct; a failure here means a
		// field was left in an invalid state upstream.
		panic(err)
	}
	return buf.Bytes()
}

// BroadcastMovement encodes and appends e's movement packet (if any) to
// layer's message buffer, visible to every viewer of e's chunk, followed by
// a head-yaw packet if the head yaw changed or the movement was a teleport.
func BroadcastMovement(layer *world.ChunkLayer, e *world.Entity) {
	mp := MovementPacket(e)
	if mp != nil {
		layer.Broadcast(world.View(chunkPos(e.Position)), encode(mp))
	}
	_, teleported := mp.(*packet.EntityPosition)
	if p := HeadYawPacket(e); p != nil {
		layer.Broadcast(world.View(chunkPos(e.Position)), encode(p))
	} else if teleported {
		layer.Broadcast(world.View(chunkPos(e.Position)), encode(&packet.EntitySetHeadYaw{EntityID: NetworkEntityID(e.Key), HeadYaw: angleByte(e.Look.HeadYaw)}))
	}
}

// BroadcastVelocity appends an EntityVelocityUpdate for e, used after
// explosion knockback and similar server-authoritative velocity changes.
func BroadcastVelocity(layer *world.ChunkLayer, e *world.Entity) {
	scale := 8000.0
	layer.Broadcast(world.View(chunkPos(e.Position)), encode(&packet.EntityVelocityUpdate{
		EntityID: NetworkEntityID(e.Key),
		VX:       int16(e.Velocity.X() * scale),
		VY:       int16(e.Velocity.Y() * scale),
		VZ:       int16(e.Velocity.Z() * scale),
	}))
}
