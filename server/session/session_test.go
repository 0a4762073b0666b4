package session

import (
	"bytes"
	"crypto/sha1"
	"testing"

	"github.com/google/uuid"

	pnet "github.com/birchwood-mc/birchwood/server/net"
	"github.com/birchwood-mc/birchwood/server/net/packet"
)

// These are the reference digests published alongside the protocol's
// session-hash algorithm; any implementation of the two's-complement hex
// encoding must reproduce them exactly.
func TestServerIDHashKnownVectors(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Notch", "4ed1f46bbe04bc756bcb17c0c7ce3e4632f06a48"},
		{"jeb_", "-7c9d5b0044c130109a5d7b5fb5c317c02b4e28c1"},
		{"simon", "88e16a1019277b15d58faf0541e11910eb756f6"},
	}
	for _, c := range cases {
		sum := sha1.Sum([]byte(c.name))
		got := twosComplementHex(sum[:])
		if got != c.want {
			t.Errorf("twosComplementHex(sha1(%q)) = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestOfflineUUIDIsDeterministic(t *testing.T) {
	a, err := NoAuthenticator{}.Authenticate(nil, "Notch", "", "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NoAuthenticator{}.Authenticate(nil, "Notch", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("offline uuid not deterministic: %s != %s", a, b)
	}
	if a == (uuid.UUID{}) {
		t.Fatal("offline uuid must not be the nil uuid")
	}
	other, err := NoAuthenticator{}.Authenticate(nil, "jeb_", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if a == other {
		t.Fatal("offline uuids for different names must differ")
	}
}

func TestHandshakeEncodeDecodeRoundTrip(t *testing.T) {
	want := &packet.Handshake{
		ProtocolVersion: 760,
		ServerAddress:   "play.example.com",
		ServerPort:      25565,
		Next:            packet.NextStateLogin,
	}
	var buf bytes.Buffer
	if err := packet.EncodeTo(&buf, want); err != nil {
		t.Fatal(err)
	}

	id, n, ok, err := pnet.PeekVarInt(buf.Bytes())
	if err != nil || !ok {
		t.Fatalf("peek id: ok=%v err=%v", ok, err)
	}
	if id != want.ID() {
		t.Fatalf("id = %#x, want %#x", id, want.ID())
	}

	got := &packet.Handshake{}
	if err := got.DecodeBody(bytes.NewReader(buf.Bytes()[n:])); err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestParseUndashedUUID(t *testing.T) {
	dashed := "069a79f4-44e9-4726-a5be-fca90e38aaf5"
	want, err := uuid.Parse(dashed)
	if err != nil {
		t.Fatal(err)
	}
	undashed := want.String()
	undashed = undashed[0:8] + undashed[9:13] + undashed[14:18] + undashed[19:23] + undashed[24:]
	got, err := parseUndashedUUID(undashed)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("parseUndashedUUID(%q) = %s, want %s", undashed, got, want)
	}
}
