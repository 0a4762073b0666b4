package packet

import (
	"io"

	pnet "github.com/birchwood-mc/birchwood/server/net"
)

// GameJoin is the first Play packet sent; it must precede everything else.
type GameJoin struct {
	EntityID         int32
	Hardcore         bool
	GameMode         uint8
	PreviousGameMode int8
	DimensionNames   []pnet.Identifier
	RegistryCodec    []byte // pre-encoded NBT, the registry codec cache
	DimensionType    pnet.Identifier
	DimensionName    pnet.Identifier
	HashedSeed       int64
	MaxPlayers       int32
	ViewDistance     int32
	SimDistance      int32
	ReducedDebugInfo bool
	RespawnScreen    bool
	IsDebug          bool
	IsFlat           bool
}

func (GameJoin) ID() int32    { return 0x23 }
func (GameJoin) Name() string { return "game_join" }

func (p *GameJoin) EncodeBody(w io.Writer) error {
	if err := pnet.WriteInt32(w, p.EntityID); err != nil {
		return err
	}
	if err := pnet.WriteBool(w, p.Hardcore); err != nil {
		return err
	}
	if err := pnet.WriteUint8(w, p.GameMode); err != nil {
		return err
	}
	if err := pnet.WriteInt8(w, p.PreviousGameMode); err != nil {
		return err
	}
	if err := pnet.WriteVarIntSlice(w, p.DimensionNames, pnet.WriteIdentifier); err != nil {
		return err
	}
	if err := pnet.WriteByteArray(w, p.RegistryCodec); err != nil {
		return err
	}
	if err := pnet.WriteIdentifier(w, p.DimensionType); err != nil {
		return err
	}
	if err := pnet.WriteIdentifier(w, p.DimensionName); err != nil {
		return err
	}
	if err := pnet.WriteInt64(w, p.HashedSeed); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), p.MaxPlayers); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), p.ViewDistance); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), p.SimDistance); err != nil {
		return err
	}
	if err := pnet.WriteBool(w, p.ReducedDebugInfo); err != nil {
		return err
	}
	if err := pnet.WriteBool(w, p.RespawnScreen); err != nil {
		return err
	}
	if err := pnet.WriteBool(w, p.IsDebug); err != nil {
		return err
	}
	return pnet.WriteBool(w, p.IsFlat)
}

func (p *GameJoin) DecodeBody(r io.Reader) error {
	// DecodeBody exists for catalogue symmetry and tests; the server only
	// ever encodes GameJoin, it never needs to parse one inbound.
	var err error
	if p.EntityID, err = pnet.ReadInt32(r); err != nil {
		return pnet.Wrap(err, "game_join/entity_id")
	}
	if p.Hardcore, err = pnet.ReadBool(r); err != nil {
		return pnet.Wrap(err, "game_join/hardcore")
	}
	if p.GameMode, err = pnet.ReadUint8(r); err != nil {
		return pnet.Wrap(err, "game_join/game_mode")
	}
	if p.PreviousGameMode, err = pnet.ReadInt8(r); err != nil {
		return pnet.Wrap(err, "game_join/previous_game_mode")
	}
	if p.DimensionNames, err = pnet.ReadVarIntSlice(r, 8, pnet.ReadIdentifier); err != nil {
		return pnet.Wrap(err, "game_join/dimension_names")
	}
	return nil
}

// PlayerPositionLook teleports the client; Flags is a relative-field bitmask
// and TeleportID must be echoed via TeleportConfirm.
type PlayerPositionLook struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      uint8
	TeleportID int32
}

func (PlayerPositionLook) ID() int32    { return 0x38 }
func (PlayerPositionLook) Name() string { return "player_position_look" }

func (p *PlayerPositionLook) EncodeBody(w io.Writer) error {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if err := pnet.WriteFloat64(w, v); err != nil {
			return err
		}
	}
	if err := pnet.WriteFloat32(w, p.Yaw); err != nil {
		return err
	}
	if err := pnet.WriteFloat32(w, p.Pitch); err != nil {
		return err
	}
	if err := pnet.WriteUint8(w, p.Flags); err != nil {
		return err
	}
	return pnet.WriteVarInt(byteWriterOf(w), p.TeleportID)
}

func (p *PlayerPositionLook) DecodeBody(r io.Reader) error {
	var err error
	if p.X, err = pnet.ReadFloat64(r); err != nil {
		return err
	}
	if p.Y, err = pnet.ReadFloat64(r); err != nil {
		return err
	}
	if p.Z, err = pnet.ReadFloat64(r); err != nil {
		return err
	}
	if p.Yaw, err = pnet.ReadFloat32(r); err != nil {
		return err
	}
	if p.Pitch, err = pnet.ReadFloat32(r); err != nil {
		return err
	}
	if p.Flags, err = pnet.ReadUint8(r); err != nil {
		return err
	}
	if p.TeleportID, err = pnet.ReadVarInt(byteReaderOf(r)); err != nil {
		return err
	}
	return nil
}

// PlayerSpawnPosition sets the compass/respawn target.
type PlayerSpawnPosition struct {
	Location int64 // packed block position
	Angle    float32
}

func (PlayerSpawnPosition) ID() int32    { return 0x4a }
func (PlayerSpawnPosition) Name() string { return "player_spawn_position" }

func (p *PlayerSpawnPosition) EncodeBody(w io.Writer) error {
	if err := pnet.WriteInt64(w, p.Location); err != nil {
		return err
	}
	return pnet.WriteFloat32(w, p.Angle)
}

func (p *PlayerSpawnPosition) DecodeBody(r io.Reader) error {
	var err error
	if p.Location, err = pnet.ReadInt64(r); err != nil {
		return err
	}
	p.Angle, err = pnet.ReadFloat32(r)
	return err
}

// SetChunkCacheCenter tells the client which chunk its view is centred on,
// so it can correctly discard far-away chunks.
type SetChunkCacheCenter struct {
	ChunkX, ChunkZ int32
}

func (SetChunkCacheCenter) ID() int32    { return 0x4b }
func (SetChunkCacheCenter) Name() string { return "set_chunk_cache_center" }

func (p *SetChunkCacheCenter) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.ChunkX); err != nil {
		return err
	}
	return pnet.WriteVarInt(byteWriterOf(w), p.ChunkZ)
}

func (p *SetChunkCacheCenter) DecodeBody(r io.Reader) error {
	var err error
	if p.ChunkX, err = pnet.ReadVarInt(byteReaderOf(r)); err != nil {
		return err
	}
	p.ChunkZ, err = pnet.ReadVarInt(byteReaderOf(r))
	return err
}

// ChunkDataAndUpdateLight carries one chunk column's block and light data.
// The heightmaps/light arrays are kept as opaque pre-encoded payloads; their
// internal layout is the paletted-container collaborator's concern.
type ChunkDataAndUpdateLight struct {
	ChunkX, ChunkZ int32
	Heightmaps     []byte // pre-encoded NBT compound
	Data           []byte
	BlockEntities  []byte
	SkyLightMask   []byte
	BlockLightMask []byte
	SkyLight       []byte
	BlockLight     []byte
}

func (ChunkDataAndUpdateLight) ID() int32    { return 0x1f }
func (ChunkDataAndUpdateLight) Name() string { return "chunk_data_and_update_light" }

func (p *ChunkDataAndUpdateLight) EncodeBody(w io.Writer) error {
	if err := pnet.WriteInt32(w, p.ChunkX); err != nil {
		return err
	}
	if err := pnet.WriteInt32(w, p.ChunkZ); err != nil {
		return err
	}
	if err := pnet.WriteByteArray(w, p.Heightmaps); err != nil {
		return err
	}
	if err := pnet.WriteVarIntSlice(w, p.Data, pnet.WriteUint8); err != nil {
		return err
	}
	if err := pnet.WriteVarIntSlice(w, p.BlockEntities, pnet.WriteUint8); err != nil {
		return err
	}
	for _, mask := range [][]byte{p.SkyLightMask, p.BlockLightMask, p.SkyLight, p.BlockLight} {
		if err := pnet.WriteVarIntSlice(w, mask, pnet.WriteUint8); err != nil {
			return err
		}
	}
	return nil
}

func (p *ChunkDataAndUpdateLight) DecodeBody(r io.Reader) error {
	var err error
	if p.ChunkX, err = pnet.ReadInt32(r); err != nil {
		return err
	}
	if p.ChunkZ, err = pnet.ReadInt32(r); err != nil {
		return err
	}
	return nil
}

// ChunkBiomeData accompanies a chunk load with per-section biome palettes.
type ChunkBiomeData struct {
	ChunkX, ChunkZ int32
	Data           []byte
}

func (ChunkBiomeData) ID() int32    { return 0x43 }
func (ChunkBiomeData) Name() string { return "chunk_biome_data" }

func (p *ChunkBiomeData) EncodeBody(w io.Writer) error {
	if err := pnet.WriteInt32(w, p.ChunkX); err != nil {
		return err
	}
	if err := pnet.WriteInt32(w, p.ChunkZ); err != nil {
		return err
	}
	return pnet.WriteVarIntSlice(w, p.Data, pnet.WriteUint8)
}

func (p *ChunkBiomeData) DecodeBody(r io.Reader) error { return nil }

// UnloadChunk tells the client to discard a chunk it no longer views.
type UnloadChunk struct {
	ChunkX, ChunkZ int32
}

func (UnloadChunk) ID() int32    { return 0x1c }
func (UnloadChunk) Name() string { return "unload_chunk" }

func (p *UnloadChunk) EncodeBody(w io.Writer) error {
	if err := pnet.WriteInt32(w, p.ChunkX); err != nil {
		return err
	}
	return pnet.WriteInt32(w, p.ChunkZ)
}

func (p *UnloadChunk) DecodeBody(r io.Reader) error {
	var err error
	if p.ChunkX, err = pnet.ReadInt32(r); err != nil {
		return err
	}
	p.ChunkZ, err = pnet.ReadInt32(r)
	return err
}

// EntityPosition is an absolute teleport, sent when an entity's per-tick
// movement exceeds the relative-move encoding's range.
type EntityPosition struct {
	EntityID   int32
	X, Y, Z    float64
	Yaw, Pitch int8
	OnGround   bool
}

func (EntityPosition) ID() int32    { return 0x66 }
func (EntityPosition) Name() string { return "entity_position" }

func (p *EntityPosition) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if err := pnet.WriteFloat64(w, v); err != nil {
			return err
		}
	}
	if err := pnet.WriteInt8(w, p.Yaw); err != nil {
		return err
	}
	if err := pnet.WriteInt8(w, p.Pitch); err != nil {
		return err
	}
	return pnet.WriteBool(w, p.OnGround)
}

func (p *EntityPosition) DecodeBody(r io.Reader) error { return nil }

// MoveRelative moves an entity by a delta encoded as i16 fixed-point
// (Δ * 4096), used when |Δ|∞ < 8.0 and look hasn't changed.
type MoveRelative struct {
	EntityID    int32
	DX, DY, DZ  int16
	OnGround    bool
}

func (MoveRelative) ID() int32    { return 0x28 }
func (MoveRelative) Name() string { return "move_relative" }

func (p *MoveRelative) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	if err := pnet.WriteInt16(w, p.DX); err != nil {
		return err
	}
	if err := pnet.WriteInt16(w, p.DY); err != nil {
		return err
	}
	if err := pnet.WriteInt16(w, p.DZ); err != nil {
		return err
	}
	return pnet.WriteBool(w, p.OnGround)
}

func (p *MoveRelative) DecodeBody(r io.Reader) error { return nil }

// Rotate updates only an entity's body yaw/pitch, no position delta.
type Rotate struct {
	EntityID   int32
	Yaw, Pitch int8
	OnGround   bool
}

func (Rotate) ID() int32    { return 0x29 }
func (Rotate) Name() string { return "rotate" }

func (p *Rotate) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	if err := pnet.WriteInt8(w, p.Yaw); err != nil {
		return err
	}
	if err := pnet.WriteInt8(w, p.Pitch); err != nil {
		return err
	}
	return pnet.WriteBool(w, p.OnGround)
}

func (p *Rotate) DecodeBody(r io.Reader) error { return nil }

// RotateAndMoveRelative combines MoveRelative and Rotate in one packet,
// sent when both position and look change within relative-move range.
type RotateAndMoveRelative struct {
	EntityID   int32
	DX, DY, DZ int16
	Yaw, Pitch int8
	OnGround   bool
}

func (RotateAndMoveRelative) ID() int32    { return 0x2a }
func (RotateAndMoveRelative) Name() string { return "rotate_and_move_relative" }

func (p *RotateAndMoveRelative) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	if err := pnet.WriteInt16(w, p.DX); err != nil {
		return err
	}
	if err := pnet.WriteInt16(w, p.DY); err != nil {
		return err
	}
	if err := pnet.WriteInt16(w, p.DZ); err != nil {
		return err
	}
	if err := pnet.WriteInt8(w, p.Yaw); err != nil {
		return err
	}
	if err := pnet.WriteInt8(w, p.Pitch); err != nil {
		return err
	}
	return pnet.WriteBool(w, p.OnGround)
}

func (p *RotateAndMoveRelative) DecodeBody(r io.Reader) error { return nil }

// EntityAnimation plays a one-shot client-side animation (swing arm, take
// damage, critical hit, ...), one packet per set animation bit in
// ascending bit order.
type EntityAnimation struct {
	EntityID int32
	Kind     uint8
}

func (EntityAnimation) ID() int32    { return 0x03 }
func (EntityAnimation) Name() string { return "entity_animation" }

func (p *EntityAnimation) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	return pnet.WriteUint8(w, p.Kind)
}

func (p *EntityAnimation) DecodeBody(r io.Reader) error { return nil }

// EntityStatus triggers a status-bit-driven client effect (e.g. the
// "entity hurt" particle burst), one packet per set status bit in
// ascending bit order.
type EntityStatus struct {
	EntityID int32
	Status   uint8
}

func (EntityStatus) ID() int32    { return 0x1d }
func (EntityStatus) Name() string { return "entity_status" }

func (p *EntityStatus) EncodeBody(w io.Writer) error {
	if err := pnet.WriteInt32(w, p.EntityID); err != nil {
		return err
	}
	return pnet.WriteUint8(w, p.Status)
}

func (p *EntityStatus) DecodeBody(r io.Reader) error { return nil }

// EntitySetHeadYaw updates an entity's head yaw independent of its body yaw;
// forced after every teleport and required after PlayerSpawn.
type EntitySetHeadYaw struct {
	EntityID int32
	HeadYaw  int8
}

func (EntitySetHeadYaw) ID() int32    { return 0x46 }
func (EntitySetHeadYaw) Name() string { return "entity_set_head_yaw" }

func (p *EntitySetHeadYaw) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	return pnet.WriteInt8(w, p.HeadYaw)
}

func (p *EntitySetHeadYaw) DecodeBody(r io.Reader) error { return nil }

// EntityVelocityUpdate sets an entity's velocity, in units of 1/8000 m/tick.
type EntityVelocityUpdate struct {
	EntityID       int32
	VX, VY, VZ int16
}

func (EntityVelocityUpdate) ID() int32    { return 0x52 }
func (EntityVelocityUpdate) Name() string { return "entity_velocity_update" }

func (p *EntityVelocityUpdate) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	if err := pnet.WriteInt16(w, p.VX); err != nil {
		return err
	}
	if err := pnet.WriteInt16(w, p.VY); err != nil {
		return err
	}
	return pnet.WriteInt16(w, p.VZ)
}

func (p *EntityVelocityUpdate) DecodeBody(r io.Reader) error { return nil }

// EntityTrackerUpdate carries only the tracked-data indexes that changed
// this tick, pre-encoded by the tracked-data collaborator.
type EntityTrackerUpdate struct {
	EntityID int32
	Data     []byte // pre-encoded changed-entries list, terminated by 0xff
}

func (EntityTrackerUpdate) ID() int32    { return 0x56 }
func (EntityTrackerUpdate) Name() string { return "entity_tracker_update" }

func (p *EntityTrackerUpdate) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	return pnet.WriteByteArray(w, p.Data)
}

func (p *EntityTrackerUpdate) DecodeBody(r io.Reader) error { return nil }

// EntityAttributes carries only the LivingEntity attribute properties that
// changed this tick.
type EntityAttributes struct {
	EntityID int32
	Data     []byte // pre-encoded property list
}

func (EntityAttributes) ID() int32    { return 0x65 }
func (EntityAttributes) Name() string { return "entity_attributes" }

func (p *EntityAttributes) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	return pnet.WriteByteArray(w, p.Data)
}

func (p *EntityAttributes) DecodeBody(r io.Reader) error { return nil }

// PlayerSpawn spawns a player entity; unlike every other spawn packet it
// carries no head yaw, so it must be immediately followed by
// EntitySetHeadYaw.
type PlayerSpawn struct {
	EntityID   int32
	UUID       [16]byte
	X, Y, Z    float64
	Yaw, Pitch int8
}

func (PlayerSpawn) ID() int32    { return 0x02 }
func (PlayerSpawn) Name() string { return "player_spawn" }

func (p *PlayerSpawn) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	if err := pnet.WriteByteArray(w, p.UUID[:]); err != nil {
		return err
	}
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if err := pnet.WriteFloat64(w, v); err != nil {
			return err
		}
	}
	if err := pnet.WriteInt8(w, p.Yaw); err != nil {
		return err
	}
	return pnet.WriteInt8(w, p.Pitch)
}

func (p *PlayerSpawn) DecodeBody(r io.Reader) error { return nil }

// EntitySpawn spawns any non-player entity.
type EntitySpawn struct {
	EntityID   int32
	UUID       [16]byte
	Kind       int32
	X, Y, Z    float64
	Pitch, Yaw, HeadYaw int8
	Data       int32
	VX, VY, VZ int16
}

func (EntitySpawn) ID() int32    { return 0x00 }
func (EntitySpawn) Name() string { return "entity_spawn" }

func (p *EntitySpawn) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	if err := pnet.WriteByteArray(w, p.UUID[:]); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), p.Kind); err != nil {
		return err
	}
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if err := pnet.WriteFloat64(w, v); err != nil {
			return err
		}
	}
	if err := pnet.WriteInt8(w, p.Pitch); err != nil {
		return err
	}
	if err := pnet.WriteInt8(w, p.Yaw); err != nil {
		return err
	}
	if err := pnet.WriteInt8(w, p.HeadYaw); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), p.Data); err != nil {
		return err
	}
	if err := pnet.WriteInt16(w, p.VX); err != nil {
		return err
	}
	if err := pnet.WriteInt16(w, p.VY); err != nil {
		return err
	}
	return pnet.WriteInt16(w, p.VZ)
}

func (p *EntitySpawn) DecodeBody(r io.Reader) error { return nil }

// EntityDespawn removes one or more entity ids from the client's view.
type EntityDespawn struct {
	EntityIDs []int32
}

func (EntityDespawn) ID() int32    { return 0x3b }
func (EntityDespawn) Name() string { return "entity_despawn" }

func (p *EntityDespawn) EncodeBody(w io.Writer) error {
	return pnet.WriteVarIntSlice(w, p.EntityIDs, func(w io.Writer, v int32) error {
		return pnet.WriteVarInt(byteWriterOf(w), v)
	})
}

func (p *EntityDespawn) DecodeBody(r io.Reader) error { return nil }

// PlayerRespawn reinitialises a client's world view after a dimension
// change, carrying the same per-dimension fields GameJoin does.
type PlayerRespawn struct {
	DimensionType      pnet.Identifier
	DimensionName      pnet.Identifier
	HashedSeed         int64
	GameMode           uint8
	PreviousGameMode   int8
	IsDebug            bool
	IsFlat             bool
	CopyMetadata       bool
	HasDeathLocation   bool
	DeathDimension     pnet.Identifier
	DeathLocation      int64
	PortalCooldown     int32
}

func (PlayerRespawn) ID() int32    { return 0x41 }
func (PlayerRespawn) Name() string { return "player_respawn" }

func (p *PlayerRespawn) EncodeBody(w io.Writer) error {
	if err := pnet.WriteIdentifier(w, p.DimensionType); err != nil {
		return err
	}
	if err := pnet.WriteIdentifier(w, p.DimensionName); err != nil {
		return err
	}
	if err := pnet.WriteInt64(w, p.HashedSeed); err != nil {
		return err
	}
	if err := pnet.WriteUint8(w, p.GameMode); err != nil {
		return err
	}
	if err := pnet.WriteInt8(w, p.PreviousGameMode); err != nil {
		return err
	}
	if err := pnet.WriteBool(w, p.IsDebug); err != nil {
		return err
	}
	if err := pnet.WriteBool(w, p.IsFlat); err != nil {
		return err
	}
	if err := pnet.WriteBool(w, p.CopyMetadata); err != nil {
		return err
	}
	type deathLoc struct {
		dim pnet.Identifier
		pos int64
	}
	return pnet.WriteOptional(w, deathLoc{p.DeathDimension, p.DeathLocation}, p.HasDeathLocation, func(w io.Writer, v deathLoc) error {
		if err := pnet.WriteIdentifier(w, v.dim); err != nil {
			return err
		}
		return pnet.WriteInt64(w, v.pos)
	})
}

func (p *PlayerRespawn) DecodeBody(r io.Reader) error { return nil }

// BeginRaining / EndRaining / RainLevelChange / ThunderLevelChange are all
// carried by the single GameEvent packet with different event ids; kept as
// distinct types here so outbound synthesis can dispatch on Go types rather
// than a raw event-id constant.
type weatherEvent struct {
	Value float32
}

func (p *weatherEvent) EncodeBody(w io.Writer, event uint8) error {
	if err := pnet.WriteUint8(w, event); err != nil {
		return err
	}
	return pnet.WriteFloat32(w, p.Value)
}

type BeginRaining struct{ weatherEvent }

func (BeginRaining) ID() int32             { return 0x20 }
func (BeginRaining) Name() string          { return "begin_raining" }
func (p *BeginRaining) EncodeBody(w io.Writer) error { return p.weatherEvent.EncodeBody(w, 2) }
func (p *BeginRaining) DecodeBody(io.Reader) error   { return nil }

type EndRaining struct{ weatherEvent }

func (EndRaining) ID() int32             { return 0x20 }
func (EndRaining) Name() string          { return "end_raining" }
func (p *EndRaining) EncodeBody(w io.Writer) error { return p.weatherEvent.EncodeBody(w, 1) }
func (p *EndRaining) DecodeBody(io.Reader) error   { return nil }

type RainLevelChange struct{ weatherEvent }

func (RainLevelChange) ID() int32             { return 0x20 }
func (RainLevelChange) Name() string          { return "rain_level_change" }
func (p *RainLevelChange) EncodeBody(w io.Writer) error { return p.weatherEvent.EncodeBody(w, 7) }
func (p *RainLevelChange) DecodeBody(io.Reader) error   { return nil }

type ThunderLevelChange struct{ weatherEvent }

func (ThunderLevelChange) ID() int32             { return 0x20 }
func (ThunderLevelChange) Name() string          { return "thunder_level_change" }
func (p *ThunderLevelChange) EncodeBody(w io.Writer) error { return p.weatherEvent.EncodeBody(w, 8) }
func (p *ThunderLevelChange) DecodeBody(io.Reader) error   { return nil }

// BossBarAction is the sub-id of a BossBar packet's action field.
type BossBarAction int32

const (
	BossBarAdd BossBarAction = iota
	BossBarRemove
	BossBarUpdateHealth
	BossBarUpdateTitle
	BossBarUpdateStyle
	BossBarUpdateFlags
)

// BossBar carries one boss-bar lifecycle or field-update action.
type BossBar struct {
	UUID   [16]byte
	Action BossBarAction
	Data   []byte // pre-encoded per-action payload
}

func (BossBar) ID() int32    { return 0x0a }
func (BossBar) Name() string { return "boss_bar" }

func (p *BossBar) EncodeBody(w io.Writer) error {
	if err := pnet.WriteByteArray(w, p.UUID[:]); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), int32(p.Action)); err != nil {
		return err
	}
	return pnet.WriteByteArray(w, p.Data)
}

func (p *BossBar) DecodeBody(r io.Reader) error { return nil }

// PlayerListAction is the sub-id of a PlayerList packet's action field.
type PlayerListAction int32

const (
	PlayerListAddPlayer PlayerListAction = iota
	PlayerListUpdateGameMode
	PlayerListUpdateLatency
	PlayerListUpdateDisplayName
	PlayerListRemovePlayer
)

// PlayerList carries a batch of same-action tab-list updates.
type PlayerList struct {
	Action  PlayerListAction
	Entries []byte // pre-encoded per-action entry list
}

func (PlayerList) ID() int32    { return 0x37 }
func (PlayerList) Name() string { return "player_list" }

func (p *PlayerList) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), int32(p.Action)); err != nil {
		return err
	}
	return pnet.WriteByteArray(w, p.Entries)
}

func (p *PlayerList) DecodeBody(r io.Reader) error { return nil }

// ScreenHandlerSlotUpdate updates one inventory slot in place, used for
// small inventory diffs.
type ScreenHandlerSlotUpdate struct {
	WindowID int8
	StateID  int32
	Slot     int16
	Data     []byte // pre-encoded item stack
}

func (ScreenHandlerSlotUpdate) ID() int32    { return 0x13 }
func (ScreenHandlerSlotUpdate) Name() string { return "screen_handler_slot_update" }

func (p *ScreenHandlerSlotUpdate) EncodeBody(w io.Writer) error {
	if err := pnet.WriteInt8(w, p.WindowID); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), p.StateID); err != nil {
		return err
	}
	if err := pnet.WriteInt16(w, p.Slot); err != nil {
		return err
	}
	return pnet.WriteByteArray(w, p.Data)
}

func (p *ScreenHandlerSlotUpdate) DecodeBody(r io.Reader) error { return nil }

// Inventory replaces an entire window's contents in one packet, used for
// large inventory diffs.
type Inventory struct {
	WindowID int8
	StateID  int32
	Slots    []byte // pre-encoded VarInt-length-prefixed item stack list
	Carried  []byte
}

func (Inventory) ID() int32    { return 0x11 }
func (Inventory) Name() string { return "inventory" }

func (p *Inventory) EncodeBody(w io.Writer) error {
	if err := pnet.WriteInt8(w, p.WindowID); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), p.StateID); err != nil {
		return err
	}
	if err := pnet.WriteByteArray(w, p.Slots); err != nil {
		return err
	}
	return pnet.WriteByteArray(w, p.Carried)
}

func (p *Inventory) DecodeBody(r io.Reader) error { return nil }

// BlockUpdate sets one block state, used when a chunk section changes
// exactly once this tick.
type BlockUpdate struct {
	Location int64
	BlockID  int32
}

func (BlockUpdate) ID() int32    { return 0x09 }
func (BlockUpdate) Name() string { return "block_update" }

func (p *BlockUpdate) EncodeBody(w io.Writer) error {
	if err := pnet.WriteInt64(w, p.Location); err != nil {
		return err
	}
	return pnet.WriteVarInt(byteWriterOf(w), p.BlockID)
}

func (p *BlockUpdate) DecodeBody(r io.Reader) error { return nil }

// ChunkDeltaUpdate batches two or more block changes within one chunk
// section into a single packet.
type ChunkDeltaUpdate struct {
	SectionPos   int64
	Updates      []int64 // packed (local-position<<0 | block-id<<12) entries
}

func (ChunkDeltaUpdate) ID() int32    { return 0x3f }
func (ChunkDeltaUpdate) Name() string { return "chunk_delta_update" }

func (p *ChunkDeltaUpdate) EncodeBody(w io.Writer) error {
	if err := pnet.WriteInt64(w, p.SectionPos); err != nil {
		return err
	}
	return pnet.WriteVarIntSlice(w, p.Updates, func(w io.Writer, v int64) error {
		return pnet.WriteVarLong(byteWriterOf(w), v)
	})
}

func (p *ChunkDeltaUpdate) DecodeBody(r io.Reader) error { return nil }

// BlockEntityUpdate sends a block entity's NBT data, always emitted
// whenever it changes.
type BlockEntityUpdate struct {
	Location int64
	Kind     int32
	NBT      []byte // pre-encoded compound
}

func (BlockEntityUpdate) ID() int32    { return 0x07 }
func (BlockEntityUpdate) Name() string { return "block_entity_update" }

func (p *BlockEntityUpdate) EncodeBody(w io.Writer) error {
	if err := pnet.WriteInt64(w, p.Location); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), p.Kind); err != nil {
		return err
	}
	return pnet.WriteByteArray(w, p.NBT)
}

func (p *BlockEntityUpdate) DecodeBody(r io.Reader) error { return nil }

// Disconnect closes a Play connection, carrying a user-facing JSON
// chat-component reason.
type Disconnect struct {
	Reason string
}

func (Disconnect) ID() int32    { return 0x1a }
func (Disconnect) Name() string { return "disconnect" }

func (p *Disconnect) EncodeBody(w io.Writer) error { return pnet.WriteString(w, p.Reason) }
func (p *Disconnect) DecodeBody(r io.Reader) error {
	s, err := pnet.ReadString(r)
	if err != nil {
		return pnet.Wrap(err, "disconnect/reason")
	}
	p.Reason = s
	return nil
}

// KeepAlive carries an opaque id the client must echo back via
// KeepAliveResponse within the connection's read timeout.
type KeepAlive struct {
	ID64 int64
}

func (KeepAlive) ID() int32    { return 0x1e }
func (KeepAlive) Name() string { return "keep_alive" }

func (p *KeepAlive) EncodeBody(w io.Writer) error { return pnet.WriteInt64(w, p.ID64) }
func (p *KeepAlive) DecodeBody(r io.Reader) error {
	v, err := pnet.ReadInt64(r)
	if err != nil {
		return pnet.Wrap(err, "keep_alive/id")
	}
	p.ID64 = v
	return nil
}

func playClientboundTable() *Table {
	t := newTable(StatePlay, Clientbound)
	t.Register(0x00, func() Decoder { return &EntitySpawn{} })
	t.Register(0x02, func() Decoder { return &PlayerSpawn{} })
	t.Register(0x03, func() Decoder { return &EntityAnimation{} })
	t.Register(0x07, func() Decoder { return &BlockEntityUpdate{} })
	t.Register(0x09, func() Decoder { return &BlockUpdate{} })
	t.Register(0x0a, func() Decoder { return &BossBar{} })
	t.Register(0x11, func() Decoder { return &Inventory{} })
	t.Register(0x13, func() Decoder { return &ScreenHandlerSlotUpdate{} })
	t.Register(0x1a, func() Decoder { return &Disconnect{} })
	t.Register(0x1c, func() Decoder { return &UnloadChunk{} })
	t.Register(0x1d, func() Decoder { return &EntityStatus{} })
	t.Register(0x1e, func() Decoder { return &KeepAlive{} })
	t.Register(0x1f, func() Decoder { return &ChunkDataAndUpdateLight{} })
	t.Register(0x20, func() Decoder { return &RainLevelChange{} })
	t.Register(0x23, func() Decoder { return &GameJoin{} })
	t.Register(0x28, func() Decoder { return &MoveRelative{} })
	t.Register(0x29, func() Decoder { return &Rotate{} })
	t.Register(0x2a, func() Decoder { return &RotateAndMoveRelative{} })
	t.Register(0x37, func() Decoder { return &PlayerList{} })
	t.Register(0x38, func() Decoder { return &PlayerPositionLook{} })
	t.Register(0x3b, func() Decoder { return &EntityDespawn{} })
	t.Register(0x3f, func() Decoder { return &ChunkDeltaUpdate{} })
	t.Register(0x41, func() Decoder { return &PlayerRespawn{} })
	t.Register(0x43, func() Decoder { return &ChunkBiomeData{} })
	t.Register(0x46, func() Decoder { return &EntitySetHeadYaw{} })
	t.Register(0x4a, func() Decoder { return &PlayerSpawnPosition{} })
	t.Register(0x4b, func() Decoder { return &SetChunkCacheCenter{} })
	t.Register(0x52, func() Decoder { return &EntityVelocityUpdate{} })
	t.Register(0x56, func() Decoder { return &EntityTrackerUpdate{} })
	t.Register(0x65, func() Decoder { return &EntityAttributes{} })
	t.Register(0x66, func() Decoder { return &EntityPosition{} })
	return t
}
