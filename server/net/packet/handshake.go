package packet

import (
	"io"

	pnet "github.com/birchwood-mc/birchwood/server/net"
)

// NextState is the state a Handshake packet asks the connection to switch
// into; only Status and Login are legal.
type NextState int32

const (
	NextStateStatus NextState = 1
	NextStateLogin  NextState = 2
)

// Handshake is the single packet the Handshaking state ever receives. It
// must be the first inbound frame on a new connection.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	Next            NextState
}

func (Handshake) ID() int32    { return 0x00 }
func (Handshake) Name() string { return "handshake" }

func (p *Handshake) EncodeBody(w io.Writer) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.ProtocolVersion); err != nil {
		return err
	}
	if err := pnet.WriteString(w, p.ServerAddress); err != nil {
		return err
	}
	if err := pnet.WriteUint16(w, p.ServerPort); err != nil {
		return err
	}
	return pnet.WriteVarInt(byteWriterOf(w), int32(p.Next))
}

func (p *Handshake) DecodeBody(r io.Reader) error {
	var err error
	if p.ProtocolVersion, err = pnet.ReadVarInt(byteReaderOf(r)); err != nil {
		return pnet.Wrap(err, "handshake/protocol_version")
	}
	if p.ServerAddress, err = pnet.ReadBoundedString(r, 255); err != nil {
		return pnet.Wrap(err, "handshake/server_address")
	}
	if p.ServerPort, err = pnet.ReadUint16(r); err != nil {
		return pnet.Wrap(err, "handshake/server_port")
	}
	next, err := pnet.ReadVarInt(byteReaderOf(r))
	if err != nil {
		return pnet.Wrap(err, "handshake/next_state")
	}
	p.Next = NextState(next)
	return nil
}

func handshakeServerboundTable() *Table {
	t := newTable(StateHandshake, Serverbound)
	t.Register(0x00, func() Decoder { return &Handshake{} })
	return t
}
