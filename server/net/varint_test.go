package net

import (
	"bytes"
	"errors"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 127, 128, 255, 2097151, 2147483647, -2147483648, 25565}
	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}
		if buf.Len() != SizeVarInt(v) {
			t.Fatalf("size mismatch for %d: wrote %d, SizeVarInt says %d", v, buf.Len(), SizeVarInt(v))
		}
		got, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: want %d got %d", v, got)
		}
	}
}

func TestVarIntKnownEncodings(t *testing.T) {
	// Values lifted from the protocol's published VarInt examples.
	cases := map[int32][]byte{
		0:          {0x00},
		1:          {0x01},
		2:          {0x02},
		127:        {0x7f},
		128:        {0x80, 0x01},
		255:        {0xff, 0x01},
		2147483647: {0xff, 0xff, 0xff, 0xff, 0x07},
		-1:         {0xff, 0xff, 0xff, 0xff, 0x0f},
	}
	for v, want := range cases {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, v); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(buf.Bytes(), want) {
			t.Fatalf("encode(%d) = % x, want % x", v, buf.Bytes(), want)
		}
	}
}

func TestVarIntTooLarge(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	_, err := ReadVarInt(buf)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestVarIntIncomplete(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x80, 0x80})
	_, err := ReadVarInt(buf)
	if !errors.Is(err, ErrEOF) {
		t.Fatalf("expected ErrEOF, got %v", err)
	}
}

func TestPeekVarIntIncompleteIsNotAnError(t *testing.T) {
	_, _, ok, err := PeekVarInt([]byte{0x80})
	if err != nil {
		t.Fatalf("expected no error for a merely-incomplete buffer, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for an incomplete varint")
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 9223372036854775807, -9223372036854775808}
	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteVarLong(&buf, v); err != nil {
			t.Fatal(err)
		}
		got, err := ReadVarLong(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("want %d got %d", v, got)
		}
	}
}
