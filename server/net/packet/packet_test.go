package packet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestHandshakeRoundTrip(t *testing.T) {
	p := &Handshake{ProtocolVersion: 760, ServerAddress: "play.example.com", ServerPort: 25565, Next: NextStateLogin}
	var buf bytes.Buffer
	if err := EncodeTo(&buf, p); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	tbl := reg.Table(StateHandshake, Serverbound)

	id, _, ok, err := peekIDForTest(buf.Bytes())
	if err != nil || !ok {
		t.Fatalf("peek id: %v %v", ok, err)
	}
	var body bytes.Buffer
	body.Write(buf.Bytes()[1:]) // skip the 1-byte VarInt id

	got := &Handshake{}
	if err := tbl.Decode(id, &body, got); err != nil {
		t.Fatal(err)
	}
	if *got != *p {
		t.Fatalf("want %+v got %+v", p, got)
	}
}

func TestIdMismatchRejected(t *testing.T) {
	reg := NewRegistry()
	tbl := reg.Table(StateLogin, Serverbound)

	var body bytes.Buffer
	if err := tbl.Decode(0x01, &body, &LoginHello{}); !errors.As(err, new(*IdMismatchError)) {
		t.Fatalf("expected IdMismatchError, got %v", err)
	}
}

func TestLoginHelloRoundTripWithUUID(t *testing.T) {
	id := uuid.New()
	p := &LoginHello{Name: "Notch", UUID: id, HasUUID: true}
	var buf bytes.Buffer
	if err := p.EncodeBody(&buf); err != nil {
		t.Fatal(err)
	}
	got := &LoginHello{}
	if err := got.DecodeBody(&buf); err != nil {
		t.Fatal(err)
	}
	if got.Name != p.Name || got.UUID != p.UUID || !got.HasUUID {
		t.Fatalf("want %+v got %+v", p, got)
	}
}

func TestRegistryDispatchByID(t *testing.T) {
	reg := NewRegistry()
	tbl := reg.Table(StatePlay, Serverbound)
	if _, ok := tbl.New(0x14); !ok {
		t.Fatal("expected PlayerPosition to be registered at 0x14")
	}
	if _, ok := tbl.New(0x7f); ok {
		t.Fatal("expected no packet registered at an unused id")
	}
}

func peekIDForTest(buf []byte) (int32, int, bool, error) {
	// Mirrors server/net.PeekVarInt's single-byte case; packet ids used in
	// these tests all fit in one byte.
	if len(buf) == 0 {
		return 0, 0, false, nil
	}
	if buf[0]&0x80 != 0 {
		return 0, 0, false, errors.New("multi-byte id not supported in this helper")
	}
	return int32(buf[0]), 1, true, nil
}
