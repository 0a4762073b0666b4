package packet

import (
	"io"

	"github.com/google/uuid"

	pnet "github.com/birchwood-mc/birchwood/server/net"
)

// LoginHello is the first Login-state packet, carrying the player's chosen
// name and, on modern clients, a client-supplied UUID.
type LoginHello struct {
	Name string
	UUID uuid.UUID
	HasUUID bool
}

func (LoginHello) ID() int32    { return 0x00 }
func (LoginHello) Name() string { return "login_hello" }

func (p *LoginHello) EncodeBody(w io.Writer) error {
	if err := pnet.WriteString(w, p.Name); err != nil {
		return err
	}
	return pnet.WriteOptional(w, p.UUID, p.HasUUID, writeUUID)
}

func (p *LoginHello) DecodeBody(r io.Reader) error {
	name, err := pnet.ReadBoundedString(r, 16)
	if err != nil {
		return pnet.Wrap(err, "login_hello/name")
	}
	p.Name = name
	id, ok, err := pnet.ReadOptional(r, readUUID)
	if err != nil {
		return pnet.Wrap(err, "login_hello/uuid")
	}
	p.UUID, p.HasUUID = id, ok
	return nil
}

func writeUUID(w io.Writer, id uuid.UUID) error {
	b := id
	return pnet.WriteByteArray(w, b[:])
}

func readUUID(r io.Reader) (uuid.UUID, error) {
	b, err := pnet.ReadByteArray(r, 16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var id uuid.UUID
	copy(id[:], b)
	return id, nil
}

// EncryptionRequest asks the client to generate and encrypt a shared secret
// with the given RSA public key, proving (via the Mojang session server)
// that it owns its claimed account.
type EncryptionRequest struct {
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

func (EncryptionRequest) ID() int32    { return 0x01 }
func (EncryptionRequest) Name() string { return "encryption_request" }

func (p *EncryptionRequest) EncodeBody(w io.Writer) error {
	if err := pnet.WriteString(w, p.ServerID); err != nil {
		return err
	}
	if err := pnet.WriteVarIntSlice(w, p.PublicKey, pnet.WriteUint8); err != nil {
		return err
	}
	return pnet.WriteVarIntSlice(w, p.VerifyToken, pnet.WriteUint8)
}

func (p *EncryptionRequest) DecodeBody(r io.Reader) error {
	var err error
	if p.ServerID, err = pnet.ReadBoundedString(r, 20); err != nil {
		return pnet.Wrap(err, "encryption_request/server_id")
	}
	if p.PublicKey, err = pnet.ReadBoundedSlice(r, 512, 1, pnet.ReadUint8); err != nil {
		return pnet.Wrap(err, "encryption_request/public_key")
	}
	if p.VerifyToken, err = pnet.ReadBoundedSlice(r, 128, 1, pnet.ReadUint8); err != nil {
		return pnet.Wrap(err, "encryption_request/verify_token")
	}
	return nil
}

// EncryptionResponse carries the client's AES shared secret and the
// verify token, both encrypted under the server's RSA public key.
type EncryptionResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
}

func (EncryptionResponse) ID() int32    { return 0x01 }
func (EncryptionResponse) Name() string { return "encryption_response" }

func (p *EncryptionResponse) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarIntSlice(w, p.SharedSecret, pnet.WriteUint8); err != nil {
		return err
	}
	return pnet.WriteVarIntSlice(w, p.VerifyToken, pnet.WriteUint8)
}

func (p *EncryptionResponse) DecodeBody(r io.Reader) error {
	var err error
	if p.SharedSecret, err = pnet.ReadBoundedSlice(r, 512, 1, pnet.ReadUint8); err != nil {
		return pnet.Wrap(err, "encryption_response/shared_secret")
	}
	if p.VerifyToken, err = pnet.ReadBoundedSlice(r, 128, 1, pnet.ReadUint8); err != nil {
		return pnet.Wrap(err, "encryption_response/verify_token")
	}
	return nil
}

// SetCompression tells both ends to begin framing packets through zlib once
// their length exceeds Threshold bytes.
type SetCompression struct {
	Threshold int32
}

func (SetCompression) ID() int32    { return 0x03 }
func (SetCompression) Name() string { return "set_compression" }

func (p *SetCompression) EncodeBody(w io.Writer) error {
	return pnet.WriteVarInt(byteWriterOf(w), p.Threshold)
}

func (p *SetCompression) DecodeBody(r io.Reader) error {
	v, err := pnet.ReadVarInt(byteReaderOf(r))
	if err != nil {
		return pnet.Wrap(err, "set_compression/threshold")
	}
	p.Threshold = v
	return nil
}

// LoginSuccess completes the Login state; the FSM transitions to Play
// immediately after sending it.
type LoginSuccess struct {
	UUID uuid.UUID
	Name string
}

func (LoginSuccess) ID() int32    { return 0x02 }
func (LoginSuccess) Name() string { return "login_success" }

func (p *LoginSuccess) EncodeBody(w io.Writer) error {
	if err := writeUUID(w, p.UUID); err != nil {
		return err
	}
	return pnet.WriteString(w, p.Name)
}

func (p *LoginSuccess) DecodeBody(r io.Reader) error {
	id, err := readUUID(r)
	if err != nil {
		return pnet.Wrap(err, "login_success/uuid")
	}
	name, err := pnet.ReadBoundedString(r, 16)
	if err != nil {
		return pnet.Wrap(err, "login_success/name")
	}
	p.UUID, p.Name = id, name
	return nil
}

// LoginDisconnect closes a connection still in the Login state, carrying a
// user-facing JSON chat-component reason.
type LoginDisconnect struct {
	Reason string
}

func (LoginDisconnect) ID() int32    { return 0x00 }
func (LoginDisconnect) Name() string { return "login_disconnect" }

func (p *LoginDisconnect) EncodeBody(w io.Writer) error { return pnet.WriteString(w, p.Reason) }
func (p *LoginDisconnect) DecodeBody(r io.Reader) error {
	s, err := pnet.ReadString(r)
	if err != nil {
		return pnet.Wrap(err, "login_disconnect/reason")
	}
	p.Reason = s
	return nil
}

func loginServerboundTable() *Table {
	t := newTable(StateLogin, Serverbound)
	t.Register(0x00, func() Decoder { return &LoginHello{} })
	t.Register(0x01, func() Decoder { return &EncryptionResponse{} })
	return t
}

func loginClientboundTable() *Table {
	t := newTable(StateLogin, Clientbound)
	t.Register(0x00, func() Decoder { return &LoginDisconnect{} })
	t.Register(0x01, func() Decoder { return &EncryptionRequest{} })
	t.Register(0x02, func() Decoder { return &LoginSuccess{} })
	t.Register(0x03, func() Decoder { return &SetCompression{} })
	return t
}
