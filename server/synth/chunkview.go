package synth

import (
	"github.com/birchwood-mc/birchwood/server/net/packet"
	"github.com/birchwood-mc/birchwood/server/world"
)

// ViewDelta returns the chunk positions client gained and lost view of this
// tick, derived from ClientView's current/previous-tick position sets.
func ViewDelta(client *world.Client) (added, removed [][2]int32) {
	old := client.OldViewPositions()
	for pos := range client.View.Positions {
		if !old[pos] {
			added = append(added, pos)
		}
	}
	for pos := range old {
		if !client.View.Positions[pos] {
			removed = append(removed, pos)
		}
	}
	return added, removed
}

// ChunkSource supplies the encoded chunk packets for a position newly
// entering a client's view; terrain generation/storage is outside this
// package's concern.
type ChunkSource func(pos [2]int32) (data *packet.ChunkDataAndUpdateLight, biome *packet.ChunkBiomeData)

// SynthesizeChunkView sends an UnloadChunk for every chunk that fell out of
// view, then SetChunkCacheCenter (if the view center moved), then a load
// packet pair for every newly viewed chunk.
func SynthesizeChunkView(client *world.Client, source ChunkSource) {
	added, removed := ViewDelta(client)
	for _, pos := range removed {
		client.Send(encode(&packet.UnloadChunk{ChunkX: pos[0], ChunkZ: pos[1]}))
	}
	if client.View.Center != client.OldViewCenter() {
		client.Send(encode(&packet.SetChunkCacheCenter{ChunkX: client.View.Center[0], ChunkZ: client.View.Center[1]}))
	}
	for _, pos := range added {
		data, biome := source(pos)
		if data != nil {
			client.Send(encode(data))
		}
		if biome != nil {
			client.Send(encode(biome))
		}
	}
}

// BroadcastSpawnOrDespawn appends an entity's spawn packet to every viewer
// newly able to see it and a despawn to every viewer who lost view of it,
// using TransitionView so an entity visible through two adjoining chunks at
// once is never spawned or despawned twice in the same tick.
func BroadcastSpawnOrDespawn(layer *world.ChunkLayer, e *world.Entity, spawn packet.Encoder) {
	pos := chunkPos(e.Position)
	oldPos := chunkPos(e.OldPosition())
	if pos == oldPos {
		return
	}
	spawnCond := world.TransitionView(pos, oldPos)
	layer.Broadcast(spawnCond, encode(spawn))
	if _, ok := spawn.(*packet.PlayerSpawn); ok {
		layer.Broadcast(spawnCond, encode(&packet.EntitySetHeadYaw{EntityID: NetworkEntityID(e.Key), HeadYaw: angleByte(e.Look.HeadYaw)}))
	}
	layer.Broadcast(world.TransitionView(oldPos, pos), encode(&packet.EntityDespawn{EntityIDs: []int32{NetworkEntityID(e.Key)}}))
}
