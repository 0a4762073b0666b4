package synth

import (
	"sort"

	"github.com/birchwood-mc/birchwood/server/net/packet"
	"github.com/birchwood-mc/birchwood/server/world"
)

// trackerTerminator ends an EntityTrackerUpdate's changed-entries list.
const trackerTerminator = 0xff

// TrackedDataPacket builds the changed-entries blob for e's tracked data,
// or nil if nothing changed this tick.
func TrackedDataPacket(e *world.Entity) packet.Encoder {
	if len(e.ChangedTracked) == 0 {
		return nil
	}
	indexes := make([]int, 0, len(e.ChangedTracked))
	for i := range e.ChangedTracked {
		indexes = append(indexes, int(i))
	}
	sort.Ints(indexes)

	var data []byte
	for _, i := range indexes {
		data = append(data, byte(i))
		data = append(data, e.TrackedData[uint8(i)]...)
	}
	data = append(data, trackerTerminator)
	return &packet.EntityTrackerUpdate{EntityID: NetworkEntityID(e.Key), Data: data}
}

// StatusPackets returns one EntityStatus per status bit set this tick, in
// ascending bit order; bits cleared this tick produce no packet.
func StatusPackets(e *world.Entity) []packet.Encoder {
	return bitPackets(e.ChangedStatusBits()&e.StatusBits, func(bit uint8) packet.Encoder {
		return &packet.EntityStatus{EntityID: NetworkEntityID(e.Key), Status: bit}
	})
}

// AnimationPackets returns one EntityAnimation per animation bit set this
// tick, in ascending bit order; bits cleared this tick produce no packet.
func AnimationPackets(e *world.Entity) []packet.Encoder {
	return bitPackets(e.ChangedAnimationBits()&e.AnimationBits, func(bit uint8) packet.Encoder {
		return &packet.EntityAnimation{EntityID: NetworkEntityID(e.Key), Kind: bit}
	})
}

func bitPackets(mask uint64, build func(bit uint8) packet.Encoder) []packet.Encoder {
	var out []packet.Encoder
	for bit := uint8(0); bit < 64 && mask != 0; bit++ {
		if mask&(1<<bit) != 0 {
			out = append(out, build(bit))
			mask &^= 1 << bit
		}
	}
	return out
}

// BroadcastEntityChanges appends e's movement, head-yaw, tracked-data,
// status and animation packets (whichever fired this tick) to layer, in
// the order outbound synthesis must preserve: movement before tracked
// data, tracked data before status/animation effects.
func BroadcastEntityChanges(layer *world.ChunkLayer, e *world.Entity) {
	cond := world.View(chunkPos(e.Position))
	BroadcastMovement(layer, e)
	if p := TrackedDataPacket(e); p != nil {
		layer.Broadcast(cond, encode(p))
	}
	for _, p := range StatusPackets(e) {
		layer.Broadcast(cond, encode(p))
	}
	for _, p := range AnimationPackets(e) {
		layer.Broadcast(cond, encode(p))
	}
}
