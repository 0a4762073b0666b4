package packet

import (
	"io"

	pnet "github.com/birchwood-mc/birchwood/server/net"
)

// TeleportConfirm acknowledges a PlayerPositionLook teleport by echoing its
// TeleportID. The server does not track confirms: position packets are
// applied whether or not one has arrived.
type TeleportConfirm struct {
	TeleportID int32
}

func (TeleportConfirm) ID() int32    { return 0x00 }
func (TeleportConfirm) Name() string { return "teleport_confirm" }

func (p *TeleportConfirm) EncodeBody(w io.Writer) error {
	return pnet.WriteVarInt(byteWriterOf(w), p.TeleportID)
}

func (p *TeleportConfirm) DecodeBody(r io.Reader) error {
	v, err := pnet.ReadVarInt(byteReaderOf(r))
	if err != nil {
		return pnet.Wrap(err, "teleport_confirm/teleport_id")
	}
	p.TeleportID = v
	return nil
}

// PlayerPosition is sent every tick the client moves without rotating.
type PlayerPosition struct {
	X, Y, Z  float64
	OnGround bool
}

func (PlayerPosition) ID() int32    { return 0x14 }
func (PlayerPosition) Name() string { return "player_position" }

func (p *PlayerPosition) EncodeBody(w io.Writer) error {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if err := pnet.WriteFloat64(w, v); err != nil {
			return err
		}
	}
	return pnet.WriteBool(w, p.OnGround)
}

func (p *PlayerPosition) DecodeBody(r io.Reader) error {
	var err error
	if p.X, err = pnet.ReadFloat64(r); err != nil {
		return pnet.Wrap(err, "player_position/x")
	}
	if p.Y, err = pnet.ReadFloat64(r); err != nil {
		return pnet.Wrap(err, "player_position/y")
	}
	if p.Z, err = pnet.ReadFloat64(r); err != nil {
		return pnet.Wrap(err, "player_position/z")
	}
	if p.OnGround, err = pnet.ReadBool(r); err != nil {
		return pnet.Wrap(err, "player_position/on_ground")
	}
	return nil
}

// PlayerPositionAndRotation is sent every tick the client both moves and
// rotates.
type PlayerPositionAndRotation struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func (PlayerPositionAndRotation) ID() int32    { return 0x15 }
func (PlayerPositionAndRotation) Name() string { return "player_position_and_rotation" }

func (p *PlayerPositionAndRotation) EncodeBody(w io.Writer) error {
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
	return pnet.WriteBool(w, p.OnGround)
}

func (p *PlayerPositionAndRotation) DecodeBody(r io.Reader) error {
	var err error
	if p.X, err = pnet.ReadFloat64(r); err != nil {
		return pnet.Wrap(err, "player_position_and_rotation/x")
	}
	if p.Y, err = pnet.ReadFloat64(r); err != nil {
		return pnet.Wrap(err, "player_position_and_rotation/y")
	}
	if p.Z, err = pnet.ReadFloat64(r); err != nil {
		return pnet.Wrap(err, "player_position_and_rotation/z")
	}
	if p.Yaw, err = pnet.ReadFloat32(r); err != nil {
		return pnet.Wrap(err, "player_position_and_rotation/yaw")
	}
	if p.Pitch, err = pnet.ReadFloat32(r); err != nil {
		return pnet.Wrap(err, "player_position_and_rotation/pitch")
	}
	if p.OnGround, err = pnet.ReadBool(r); err != nil {
		return pnet.Wrap(err, "player_position_and_rotation/on_ground")
	}
	return nil
}

// PlayerRotation is sent every tick the client rotates without moving.
type PlayerRotation struct {
	Yaw, Pitch float32
	OnGround   bool
}

func (PlayerRotation) ID() int32    { return 0x16 }
func (PlayerRotation) Name() string { return "player_rotation" }

func (p *PlayerRotation) EncodeBody(w io.Writer) error {
	if err := pnet.WriteFloat32(w, p.Yaw); err != nil {
		return err
	}
	if err := pnet.WriteFloat32(w, p.Pitch); err != nil {
		return err
	}
	return pnet.WriteBool(w, p.OnGround)
}

func (p *PlayerRotation) DecodeBody(r io.Reader) error {
	var err error
	if p.Yaw, err = pnet.ReadFloat32(r); err != nil {
		return pnet.Wrap(err, "player_rotation/yaw")
	}
	if p.Pitch, err = pnet.ReadFloat32(r); err != nil {
		return pnet.Wrap(err, "player_rotation/pitch")
	}
	if p.OnGround, err = pnet.ReadBool(r); err != nil {
		return pnet.Wrap(err, "player_rotation/on_ground")
	}
	return nil
}

// PlayerMovement carries only the on-ground flag, sent when neither
// position nor look changed.
type PlayerMovement struct {
	OnGround bool
}

func (PlayerMovement) ID() int32    { return 0x17 }
func (PlayerMovement) Name() string { return "player_movement" }

func (p *PlayerMovement) EncodeBody(w io.Writer) error { return pnet.WriteBool(w, p.OnGround) }
func (p *PlayerMovement) DecodeBody(r io.Reader) error {
	v, err := pnet.ReadBool(r)
	if err != nil {
		return pnet.Wrap(err, "player_movement/on_ground")
	}
	p.OnGround = v
	return nil
}

// InteractKind is the sub-action of a PlayerInteract packet.
type InteractKind int32

const (
	InteractInteract InteractKind = iota
	InteractAttack
	InteractInteractAt
)

// PlayerInteract reports an entity interaction (attack, use, use-at-offset).
type PlayerInteract struct {
	EntityID int32
	Kind     InteractKind
	TargetX, TargetY, TargetZ float32
	Hand     int32
	Sneaking bool
}

func (PlayerInteract) ID() int32    { return 0x10 }
func (PlayerInteract) Name() string { return "player_interact" }

func (p *PlayerInteract) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.EntityID); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), int32(p.Kind)); err != nil {
		return err
	}
	if p.Kind == InteractInteractAt {
		for _, v := range []float32{p.TargetX, p.TargetY, p.TargetZ} {
			if err := pnet.WriteFloat32(w, v); err != nil {
				return err
			}
		}
	}
	if p.Kind != InteractAttack {
		if err := pnet.WriteVarInt(byteWriterOf(w), p.Hand); err != nil {
			return err
		}
	}
	return pnet.WriteBool(w, p.Sneaking)
}

func (p *PlayerInteract) DecodeBody(r io.Reader) error {
	var err error
	if p.EntityID, err = pnet.ReadVarInt(byteReaderOf(r)); err != nil {
		return pnet.Wrap(err, "player_interact/entity_id")
	}
	kind, err := pnet.ReadVarInt(byteReaderOf(r))
	if err != nil {
		return pnet.Wrap(err, "player_interact/kind")
	}
	p.Kind = InteractKind(kind)
	if p.Kind == InteractInteractAt {
		if p.TargetX, err = pnet.ReadFloat32(r); err != nil {
			return pnet.Wrap(err, "player_interact/target_x")
		}
		if p.TargetY, err = pnet.ReadFloat32(r); err != nil {
			return pnet.Wrap(err, "player_interact/target_y")
		}
		if p.TargetZ, err = pnet.ReadFloat32(r); err != nil {
			return pnet.Wrap(err, "player_interact/target_z")
		}
	}
	if p.Kind != InteractAttack {
		if p.Hand, err = pnet.ReadVarInt(byteReaderOf(r)); err != nil {
			return pnet.Wrap(err, "player_interact/hand")
		}
	}
	if p.Sneaking, err = pnet.ReadBool(r); err != nil {
		return pnet.Wrap(err, "player_interact/sneaking")
	}
	return nil
}

// ClientSettings reports locale, view distance and other client-chosen
// display options.
type ClientSettings struct {
	Locale             string
	ViewDistance       int8
	ChatMode           int32
	ChatColors         bool
	DisplayedSkinParts uint8
	MainHand           int32
	TextFiltering      bool
	AllowListing       bool
}

func (ClientSettings) ID() int32    { return 0x08 }
func (ClientSettings) Name() string { return "client_settings" }

func (p *ClientSettings) EncodeBody(w io.Writer) error {
	if err := pnet.WriteString(w, p.Locale); err != nil {
		return err
	}
	if err := pnet.WriteInt8(w, p.ViewDistance); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), p.ChatMode); err != nil {
		return err
	}
	if err := pnet.WriteBool(w, p.ChatColors); err != nil {
		return err
	}
	if err := pnet.WriteUint8(w, p.DisplayedSkinParts); err != nil {
		return err
	}
	if err := pnet.WriteVarInt(byteWriterOf(w), p.MainHand); err != nil {
		return err
	}
	if err := pnet.WriteBool(w, p.TextFiltering); err != nil {
		return err
	}
	return pnet.WriteBool(w, p.AllowListing)
}

func (p *ClientSettings) DecodeBody(r io.Reader) error {
	var err error
	if p.Locale, err = pnet.ReadBoundedString(r, 16); err != nil {
		return pnet.Wrap(err, "client_settings/locale")
	}
	if p.ViewDistance, err = pnet.ReadInt8(r); err != nil {
		return pnet.Wrap(err, "client_settings/view_distance")
	}
	if p.ChatMode, err = pnet.ReadVarInt(byteReaderOf(r)); err != nil {
		return pnet.Wrap(err, "client_settings/chat_mode")
	}
	if p.ChatColors, err = pnet.ReadBool(r); err != nil {
		return pnet.Wrap(err, "client_settings/chat_colors")
	}
	if p.DisplayedSkinParts, err = pnet.ReadUint8(r); err != nil {
		return pnet.Wrap(err, "client_settings/displayed_skin_parts")
	}
	if p.MainHand, err = pnet.ReadVarInt(byteReaderOf(r)); err != nil {
		return pnet.Wrap(err, "client_settings/main_hand")
	}
	if p.TextFiltering, err = pnet.ReadBool(r); err != nil {
		return pnet.Wrap(err, "client_settings/text_filtering")
	}
	if p.AllowListing, err = pnet.ReadBool(r); err != nil {
		return pnet.Wrap(err, "client_settings/allow_listing")
	}
	return nil
}

// ChatMessage is a plain player chat message.
type ChatMessage struct {
	Message   string
	Timestamp int64
	Salt      int64
}

func (ChatMessage) ID() int32    { return 0x04 }
func (ChatMessage) Name() string { return "chat_message" }

func (p *ChatMessage) EncodeBody(w io.Writer) error {
	if err := pnet.WriteString(w, p.Message); err != nil {
		return err
	}
	if err := pnet.WriteInt64(w, p.Timestamp); err != nil {
		return err
	}
	return pnet.WriteInt64(w, p.Salt)
}

func (p *ChatMessage) DecodeBody(r io.Reader) error {
	var err error
	if p.Message, err = pnet.ReadBoundedString(r, 256); err != nil {
		return pnet.Wrap(err, "chat_message/message")
	}
	if p.Timestamp, err = pnet.ReadInt64(r); err != nil {
		return pnet.Wrap(err, "chat_message/timestamp")
	}
	if p.Salt, err = pnet.ReadInt64(r); err != nil {
		return pnet.Wrap(err, "chat_message/salt")
	}
	return nil
}

// KeepAliveResponse echoes a KeepAlive's id within the read timeout.
type KeepAliveResponse struct {
	ID64 int64
}

func (KeepAliveResponse) ID() int32    { return 0x11 }
func (KeepAliveResponse) Name() string { return "keep_alive_response" }

func (p *KeepAliveResponse) EncodeBody(w io.Writer) error { return pnet.WriteInt64(w, p.ID64) }
func (p *KeepAliveResponse) DecodeBody(r io.Reader) error {
	v, err := pnet.ReadInt64(r)
	if err != nil {
		return pnet.Wrap(err, "keep_alive_response/id")
	}
	p.ID64 = v
	return nil
}

func playServerboundTable() *Table {
	t := newTable(StatePlay, Serverbound)
	t.Register(0x00, func() Decoder { return &TeleportConfirm{} })
	t.Register(0x04, func() Decoder { return &ChatMessage{} })
	t.Register(0x08, func() Decoder { return &ClientSettings{} })
	t.Register(0x10, func() Decoder { return &PlayerInteract{} })
	t.Register(0x11, func() Decoder { return &KeepAliveResponse{} })
	t.Register(0x14, func() Decoder { return &PlayerPosition{} })
	t.Register(0x15, func() Decoder { return &PlayerPositionAndRotation{} })
	t.Register(0x16, func() Decoder { return &PlayerRotation{} })
	t.Register(0x17, func() Decoder { return &PlayerMovement{} })
	return t
}
