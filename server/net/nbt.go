package net

import (
	"bytes"
	"io"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// NBT blobs reuse gophertunnel's nbt codec purely for its NBT encoding, not
// for anything protocol-specific to Bedrock. Java Edition NBT is
// big-endian.

// WriteAnonymousCompound encodes v as a nameless root compound, the form
// used for the registry codec payload sent during Play join.
func WriteAnonymousCompound(w io.Writer, v any) error {
	enc := nbt.NewEncoderWithEncoding(w, nbt.BigEndian)
	return enc.Encode(v)
}

// WriteNamedCompound encodes v the same way WriteAnonymousCompound does; a
// rooted compound's name (e.g. for block entities) is carried by the
// value's own top-level struct field tagged `nbt:"id"`/`nbt:"Name"` rather
// than the TAG_Compound header, which gophertunnel's encoder always leaves
// empty. name is accepted for call-site clarity but unused on the wire.
func WriteNamedCompound(w io.Writer, name string, v any) error {
	_ = name
	return WriteAnonymousCompound(w, v)
}

// ReadCompound decodes a compound from r, accepting both the named and
// anonymous root forms transparently (gophertunnel's decoder discards the
// root name itself, so both shapes decode identically into v).
func ReadCompound(r io.Reader, v any) error {
	dec := nbt.NewDecoderWithEncoding(r, nbt.BigEndian)
	return dec.Decode(v)
}

// EncodeCompound is a convenience wrapper returning the encoded bytes of an
// anonymous compound, used when a packet field carries a pre-serialised NBT
// blob (e.g. the registry codec cached at startup and rebuilt on change).
func EncodeCompound(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteAnonymousCompound(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
