package synth

import (
	pnet "github.com/birchwood-mc/birchwood/server/net"
	"github.com/birchwood-mc/birchwood/server/net/packet"
	"github.com/birchwood-mc/birchwood/server/world"
)

// JoinConfig carries the per-world constants GameJoin needs that aren't
// derived from row state (dimension identity, registry data, view
// distance).
type JoinConfig struct {
	DimensionType, DimensionName string
	RegistryCodec                []byte
	HashedSeed                   int64
	MaxPlayers                   int32
	ViewDistance, SimDistance    int32
	Hardcore, ReducedDebugInfo   bool
}

// SynthesizeJoin sends the fixed-order packet sequence a freshly connected
// Play-state client must receive before anything else: GameJoin, spawn
// position, the initial teleport, the tab list it should already see, and
// its starting chunk view.
func SynthesizeJoin(store *world.Store, client *world.Client, entity *world.Entity, list *world.PlayerList, cfg JoinConfig, source ChunkSource) {
	client.Send(encode(&packet.GameJoin{
		EntityID:         NetworkEntityID(entity.Key),
		Hardcore:         cfg.Hardcore,
		GameMode:         client.GameMode,
		PreviousGameMode: int8(client.PreviousGameMode),
		RegistryCodec:    cfg.RegistryCodec,
		DimensionType:    mustIdentifier(cfg.DimensionType),
		DimensionName:    mustIdentifier(cfg.DimensionName),
		HashedSeed:       cfg.HashedSeed,
		MaxPlayers:       cfg.MaxPlayers,
		ViewDistance:     cfg.ViewDistance,
		SimDistance:      cfg.SimDistance,
		ReducedDebugInfo: cfg.ReducedDebugInfo,
	}))

	client.Send(encode(&packet.PlayerSpawnPosition{Location: packBlockPos(entity.Position)}))
	client.Send(encode(&packet.PlayerPositionLook{
		X: entity.Position.X(), Y: entity.Position.Y(), Z: entity.Position.Z(),
		Yaw: entity.Look.Yaw, Pitch: entity.Look.Pitch,
	}))

	for _, entry := range list.Entries {
		client.Send(encode(&packet.PlayerList{Action: packet.PlayerListAddPlayer, Entries: playerListEntryBytes(entry)}))
	}

	SynthesizeChunkView(client, source)
}

func mustIdentifier(s string) pnet.Identifier {
	ns, path := splitIdentifier(s)
	return pnet.Identifier{Namespace: ns, Path: path}
}

func splitIdentifier(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return s[:i], s[i+1:]
		}
	}
	return "minecraft", s
}

// packBlockPos packs a block position the way the protocol's position
// fields do: x (26 bits) | z (26 bits) | y (12 bits), sign-extended.
func packBlockPos(pos interface {
	X() float64
	Y() float64
	Z() float64
}) int64 {
	x := int64(pos.X()) & 0x3FFFFFF
	y := int64(pos.Y()) & 0xFFF
	z := int64(pos.Z()) & 0x3FFFFFF
	return (x << 38) | (z << 12) | y
}
