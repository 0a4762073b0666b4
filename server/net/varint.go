// Package net implements the wire codec and frame pipeline described for the
// Java Edition protocol: VarInt/VarLong primitives, strings, identifiers,
// bounded and optional wrappers, and the length-prefixed, optionally
// compressed and encrypted frame stream built on top of them.
package net

import "io"

const (
	// varIntMaxBytes is the maximum number of bytes a VarInt may occupy on
	// the wire. A continuation bit still set after this many bytes is a
	// protocol violation, not a larger integer.
	varIntMaxBytes = 5
	// varLongMaxBytes is the VarLong equivalent of varIntMaxBytes.
	varLongMaxBytes = 10

	segmentBits = 0x7f
	continueBit = 0x80
)

// WriteVarInt writes v to w using Minecraft's 7-bit-group, MSB-continuation
// encoding. The number of bytes written is a pure function of v.
func WriteVarInt(w io.ByteWriter, v int32) error {
	uv := uint32(v)
	for {
		if uv&^segmentBits == 0 {
			return w.WriteByte(byte(uv))
		}
		if err := w.WriteByte(byte(uv&segmentBits) | continueBit); err != nil {
			return err
		}
		uv >>= 7
	}
}

// SizeVarInt returns the number of bytes WriteVarInt would write for v.
func SizeVarInt(v int32) int {
	uv := uint32(v)
	n := 1
	for uv&^segmentBits != 0 {
		uv >>= 7
		n++
	}
	return n
}

// ReadVarInt reads a VarInt from r. It returns an *DecodeError wrapping
// ErrEOF if the reader runs out of bytes mid-value, or ErrTooLarge if a 5th
// byte still has its continuation bit set.
func ReadVarInt(r io.ByteReader) (int32, error) {
	var result uint32
	for i := 0; i < varIntMaxBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, Wrap(ErrEOF, "varint")
		}
		result |= uint32(b&segmentBits) << (7 * i)
		if b&continueBit == 0 {
			return int32(result), nil
		}
	}
	return 0, Wrap(ErrTooLarge, "varint")
}

// WriteVarLong is the 64-bit equivalent of WriteVarInt.
func WriteVarLong(w io.ByteWriter, v int64) error {
	uv := uint64(v)
	for {
		if uv&^uint64(segmentBits) == 0 {
			return w.WriteByte(byte(uv))
		}
		if err := w.WriteByte(byte(uv&segmentBits) | continueBit); err != nil {
			return err
		}
		uv >>= 7
	}
}

// SizeVarLong returns the number of bytes WriteVarLong would write for v.
func SizeVarLong(v int64) int {
	uv := uint64(v)
	n := 1
	for uv&^uint64(segmentBits) != 0 {
		uv >>= 7
		n++
	}
	return n
}

// ReadVarLong is the 64-bit equivalent of ReadVarInt.
func ReadVarLong(r io.ByteReader) (int64, error) {
	var result uint64
	for i := 0; i < varLongMaxBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, Wrap(ErrEOF, "varlong")
		}
		result |= uint64(b&segmentBits) << (7 * i)
		if b&continueBit == 0 {
			return int64(result), nil
		}
	}
	return 0, Wrap(ErrTooLarge, "varlong")
}

// PeekVarInt reads a VarInt starting at the head of buf without requiring an
// io.ByteReader. It returns ok=false with err=nil when buf simply doesn't
// hold enough bytes yet (the frame pipeline's "wait for more data" case), and
// a non-nil err wrapping ErrTooLarge when a 5th byte still carries the
// continuation bit.
func PeekVarInt(buf []byte) (v int32, n int, ok bool, err error) {
	var result uint32
	for i := 0; i < varIntMaxBytes; i++ {
		if i >= len(buf) {
			return 0, 0, false, nil
		}
		b := buf[i]
		result |= uint32(b&segmentBits) << (7 * i)
		if b&continueBit == 0 {
			return int32(result), i + 1, true, nil
		}
	}
	return 0, 0, false, Wrap(ErrTooLarge, "varint")
}
