package net

import (
	"bytes"
	"testing"
)

// feedAll pushes src into a Decoder one byte at a time to exercise the
// partial-buffer ("need more data") path alongside the all-at-once path.
func feedAll(d *Decoder, src []byte, oneByteAtATime bool) {
	if !oneByteAtATime {
		d.Feed(src)
		return
	}
	for _, b := range src {
		d.Feed([]byte{b})
	}
}

func TestFramePipelineIdentityNoCompression(t *testing.T) {
	enc := NewEncoder()
	var out bytes.Buffer
	packets := [][2]any{}
	bodies := [][]byte{
		{},
		{1, 2, 3},
		bytes.Repeat([]byte{0xAB}, 300),
	}
	for i, body := range bodies {
		if err := enc.AppendPacket(&out, int32(i), body); err != nil {
			t.Fatal(err)
		}
		packets = append(packets, [2]any{int32(i), body})
	}

	dec := NewDecoder()
	dec.Feed(out.Bytes())
	for _, want := range packets {
		f, err := dec.TryNextFrame()
		if err != nil {
			t.Fatal(err)
		}
		if f == nil {
			t.Fatal("expected a frame, got none")
		}
		if f.ID != want[0].(int32) {
			t.Fatalf("id mismatch: want %d got %d", want[0], f.ID)
		}
		if !bytes.Equal(f.Body, want[1].([]byte)) {
			t.Fatalf("body mismatch: want % x got % x", want[1], f.Body)
		}
	}
	if f, err := dec.TryNextFrame(); err != nil || f != nil {
		t.Fatalf("expected no more frames, got %v %v", f, err)
	}
}

func TestFramePipelinePartialFeed(t *testing.T) {
	enc := NewEncoder()
	var out bytes.Buffer
	body := bytes.Repeat([]byte{0x42}, 50)
	if err := enc.AppendPacket(&out, 7, body); err != nil {
		t.Fatal(err)
	}

	dec := NewDecoder()
	feedAll(dec, out.Bytes(), true)
	f, err := dec.TryNextFrame()
	if err != nil {
		t.Fatal(err)
	}
	if f == nil || f.ID != 7 || !bytes.Equal(f.Body, body) {
		t.Fatalf("unexpected frame: %+v", f)
	}
}

func TestCompressionBoundary(t *testing.T) {
	const threshold = 16

	mk := func(n int) []byte { return bytes.Repeat([]byte{0x55}, n) }

	encAt := func(t *testing.T, n int) *Frame {
		enc := NewEncoder()
		var out bytes.Buffer
		// SetCompression itself must be sent uncompressed, then compression
		// is armed for the packet(s) that follow.
		if err := enc.AppendPacket(&out, 0 /* SetCompression */, nil); err != nil {
			t.Fatal(err)
		}
		enc.EnableCompression(threshold)
		if err := enc.AppendPacket(&out, 1, mk(n)); err != nil {
			t.Fatal(err)
		}

		dec := NewDecoder()
		dec.Feed(out.Bytes())
		f0, err := dec.TryNextFrame()
		if err != nil || f0 == nil || f0.ID != 0 {
			t.Fatalf("SetCompression frame: %v %v", f0, err)
		}
		dec.EnableCompression(threshold)
		f1, err := dec.TryNextFrame()
		if err != nil {
			t.Fatal(err)
		}
		return f1
	}

	t.Run("exactly at threshold is uncompressed", func(t *testing.T) {
		// The encoded payload (VarInt id + body) at exactly the threshold
		// must round-trip with data_len == 0, i.e. no zlib framing.
		f := encAt(t, threshold-1) // id(1 byte) + body(threshold-1) == threshold
		if f == nil || len(f.Body) != threshold-1 {
			t.Fatalf("unexpected frame: %+v", f)
		}
	})

	t.Run("one byte over threshold is compressed", func(t *testing.T) {
		f := encAt(t, threshold)
		if f == nil || len(f.Body) != threshold {
			t.Fatalf("unexpected frame: %+v", f)
		}
	})

	t.Run("data_len between 0 and threshold is rejected", func(t *testing.T) {
		dec := NewDecoder()
		dec.EnableCompression(threshold)
		var frame bytes.Buffer
		WriteVarInt(&frame, 5) // data_len = 5, which is > 0 and <= threshold(16)
		frame.Write(mk(5))
		var wire bytes.Buffer
		WriteVarInt(&wire, int32(frame.Len()))
		wire.Write(frame.Bytes())
		dec.Feed(wire.Bytes())
		if _, err := dec.TryNextFrame(); err == nil {
			t.Fatal("expected a protocol violation error")
		}
	})
}

func TestEncryptionSymmetry(t *testing.T) {
	key := bytes.Repeat([]byte{0x09}, 16)

	enc := NewEncoder()
	var out bytes.Buffer
	if err := enc.AppendPacket(&out, 2, []byte("plaintext-before-encryption")); err != nil {
		t.Fatal(err)
	}
	if err := enc.EnableEncryption(key); err != nil {
		t.Fatal(err)
	}
	if err := enc.AppendPacket(&out, 3, []byte("plaintext-after-encryption, somewhat longer body")); err != nil {
		t.Fatal(err)
	}

	dec := NewDecoder()
	// Feed the whole stream at once: decoder only learns the key after
	// parsing the first frame, so the second frame's bytes arrive already
	// sitting in the buffer, undecrypted.
	dec.Feed(out.Bytes())
	f0, err := dec.TryNextFrame()
	if err != nil || f0 == nil || f0.ID != 2 {
		t.Fatalf("frame 0: %v %v", f0, err)
	}
	if err := dec.EnableDecryption(key); err != nil {
		t.Fatal(err)
	}
	f1, err := dec.TryNextFrame()
	if err != nil {
		t.Fatal(err)
	}
	if f1 == nil || f1.ID != 3 || string(f1.Body) != "plaintext-after-encryption, somewhat longer body" {
		t.Fatalf("unexpected decrypted frame: %+v", f1)
	}
}

func TestOversizedPacketRejected(t *testing.T) {
	enc := NewEncoder()
	var out bytes.Buffer
	if err := enc.AppendPacket(&out, 0, make([]byte, MaxPacketSize+1)); err == nil {
		t.Fatal("expected an error for a body exceeding MaxPacketSize")
	}
}
