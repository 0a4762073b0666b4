package net

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// MaxPacketSize is the largest a single packet body (id + fields) may be:
// 2^21 - 1 bytes.
const MaxPacketSize = 1<<21 - 1

// cautiousCapacity caps a pre-allocation to the number of bytes actually
// remaining in the reader, so a malicious or truncated length field cannot
// force a huge allocation ahead of the data backing it.
func cautiousCapacity(n, remaining, elemSize int) int {
	if elemSize <= 0 {
		elemSize = 1
	}
	max := remaining / elemSize
	if n > max {
		return max
	}
	if n < 0 {
		return 0
	}
	return n
}

// remainingHint reports how many bytes are still available to r when it
// exposes a Len method (as a bytes.Reader does), for cautious-capacity
// calculations. Readers that don't expose a length are treated as unbounded.
func remainingHint(r io.Reader) int {
	type lenner interface{ Len() int }
	if l, ok := r.(lenner); ok {
		return l.Len()
	}
	return 1 << 30
}

// WriteString writes a VarInt-length-prefixed UTF-8 string.
func WriteString(w io.Writer, s string) error {
	bw, ok := w.(io.ByteWriter)
	if !ok {
		bw = byteWriterAdapter{w}
	}
	if err := WriteVarInt(bw, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ReadString reads a VarInt-length-prefixed UTF-8 string with no upper
// bound beyond the protocol's packet size. Use ReadBoundedString to enforce
// a caller-chosen MAX.
func ReadString(r io.Reader) (string, error) {
	return ReadBoundedString(r, MaxPacketSize)
}

// ReadBoundedString reads a VarInt-length-prefixed UTF-8 string and rejects
// lengths above max.
func ReadBoundedString(r io.Reader, max int) (string, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = byteReaderAdapter{r}
	}
	n, err := ReadVarInt(br)
	if err != nil {
		return "", Wrap(err, "string/length")
	}
	if n < 0 || int(n) > max {
		return "", Wrap(ErrBoundExceeded, "string/length")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", Wrap(ErrEOF, "string/bytes")
	}
	if !utf8.Valid(buf) {
		return "", Wrap(ErrBadUTF8, "string/bytes")
	}
	return string(buf), nil
}

// Identifier is a namespaced string of the form "namespace:path", used for
// block/item/entity/dimension/biome keys throughout the protocol.
type Identifier struct {
	Namespace, Path string
}

func (id Identifier) String() string {
	if id.Namespace == "" {
		return "minecraft:" + id.Path
	}
	return id.Namespace + ":" + id.Path
}

func isIdentChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.'
}

func isPathChar(r rune) bool {
	return isIdentChar(r) || r == '/'
}

// WriteIdentifier writes id in "namespace:path" form.
func WriteIdentifier(w io.Writer, id Identifier) error {
	return WriteString(w, id.String())
}

// ReadIdentifier reads and validates a namespaced identifier, rejecting
// strings whose namespace or path contain characters outside the protocol's
// allowed class.
func ReadIdentifier(r io.Reader) (Identifier, error) {
	s, err := ReadBoundedString(r, 32767)
	if err != nil {
		return Identifier{}, Wrap(err, "identifier")
	}
	ns, path, found := cut(s, ':')
	if !found {
		ns, path = "minecraft", s
	}
	for _, c := range ns {
		if !isIdentChar(c) {
			return Identifier{}, Wrap(ErrMalformed, "identifier/namespace")
		}
	}
	for _, c := range path {
		if !isPathChar(c) {
			return Identifier{}, Wrap(ErrMalformed, "identifier/path")
		}
	}
	return Identifier{Namespace: ns, Path: path}, nil
}

func cut(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// WriteBool writes a single-byte bool.
func WriteBool(w io.Writer, v bool) error {
	var b byte
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

// ReadBool reads a single-byte bool.
func ReadBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, Wrap(ErrEOF, "bool")
	}
	return b[0] != 0, nil
}

// WriteOptional writes present followed by enc(value) when present is true,
// implementing an Option<T>-shaped field.
func WriteOptional[T any](w io.Writer, value T, present bool, enc func(io.Writer, T) error) error {
	if err := WriteBool(w, present); err != nil {
		return err
	}
	if !present {
		return nil
	}
	return enc(w, value)
}

// ReadOptional reads an Option<T>, returning the zero value and ok=false
// when the leading bool is false.
func ReadOptional[T any](r io.Reader, dec func(io.Reader) (T, error)) (value T, ok bool, err error) {
	present, err := ReadBool(r)
	if err != nil {
		return value, false, Wrap(err, "optional")
	}
	if !present {
		return value, false, nil
	}
	value, err = dec(r)
	if err != nil {
		return value, false, Wrap(err, "optional/value")
	}
	return value, true, nil
}

// WriteByteArray writes a fixed-length byte array with no length prefix.
func WriteByteArray(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	return err
}

// ReadByteArray reads exactly n bytes with no length prefix.
func ReadByteArray(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, Wrap(ErrEOF, "bytearray")
	}
	return buf, nil
}

// WriteVarIntSlice writes a VarInt length followed by elements encoded by
// enc.
func WriteVarIntSlice[T any](w io.Writer, s []T, enc func(io.Writer, T) error) error {
	bw, ok := w.(io.ByteWriter)
	if !ok {
		bw = byteWriterAdapter{w}
	}
	if err := WriteVarInt(bw, int32(len(s))); err != nil {
		return err
	}
	for _, v := range s {
		if err := enc(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadVarIntSlice reads a VarInt length then that many elements decoded by
// dec, pre-allocating with a cautious capacity capped at the bytes actually
// remaining in r (assuming elemSize bytes per element at minimum).
func ReadVarIntSlice[T any](r io.Reader, elemSize int, dec func(io.Reader) (T, error)) ([]T, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = byteReaderAdapter{r}
	}
	n, err := ReadVarInt(br)
	if err != nil {
		return nil, Wrap(err, "slice/length")
	}
	if n < 0 {
		return nil, Wrap(ErrMalformed, "slice/length")
	}
	cap := cautiousCapacity(int(n), remainingHint(r), elemSize)
	out := make([]T, 0, cap)
	for i := int32(0); i < n; i++ {
		v, err := dec(r)
		if err != nil {
			return nil, Wrap(err, fmt.Sprintf("slice/element[%d]", i))
		}
		out = append(out, v)
	}
	return out, nil
}

// Bounded wraps a slice or string length so that, in addition to the normal
// VarInt length prefix, a caller-chosen element/byte-count MAX is enforced.
type Bounded[T any] struct {
	Value T
	Max   int
}

// ReadBoundedSlice is ReadVarIntSlice with an extra MAX check on the element
// count.
func ReadBoundedSlice[T any](r io.Reader, max, elemSize int, dec func(io.Reader) (T, error)) ([]T, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = byteReaderAdapter{r}
	}
	n, err := ReadVarInt(br)
	if err != nil {
		return nil, Wrap(err, "bounded-slice/length")
	}
	if n < 0 || int(n) > max {
		return nil, Wrap(ErrBoundExceeded, "bounded-slice/length")
	}
	cap := cautiousCapacity(int(n), remainingHint(r), elemSize)
	out := make([]T, 0, cap)
	for i := int32(0); i < n; i++ {
		v, err := dec(r)
		if err != nil {
			return nil, Wrap(err, fmt.Sprintf("bounded-slice/element[%d]", i))
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteUint8/WriteInt16/... are thin binary.Write-style scalar helpers kept
// separate from the generic containers above so packet field encoders read
// as a flat list of wire types, matching the teacher's per-field layout.
func WriteUint8(w io.Writer, v uint8) error  { _, err := w.Write([]byte{v}); return err }
func WriteInt8(w io.Writer, v int8) error    { return WriteUint8(w, uint8(v)) }
func WriteBool8(w io.Writer, v bool) error   { return WriteBool(w, v) }
func WriteUint16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}
func WriteInt16(w io.Writer, v int16) error { return WriteUint16(w, uint16(v)) }
func WriteUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}
func WriteInt32(w io.Writer, v int32) error { return WriteUint32(w, uint32(v)) }
func WriteUint64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}
func WriteInt64(w io.Writer, v int64) error     { return WriteUint64(w, uint64(v)) }
func WriteFloat32(w io.Writer, v float32) error { return WriteUint32(w, math.Float32bits(v)) }
func WriteFloat64(w io.Writer, v float64) error { return WriteUint64(w, math.Float64bits(v)) }

func ReadUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, Wrap(ErrEOF, "u8")
	}
	return b[0], nil
}
func ReadInt8(r io.Reader) (int8, error) {
	v, err := ReadUint8(r)
	return int8(v), err
}
func ReadUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, Wrap(ErrEOF, "u16")
	}
	return binary.BigEndian.Uint16(b[:]), nil
}
func ReadInt16(r io.Reader) (int16, error) {
	v, err := ReadUint16(r)
	return int16(v), err
}
func ReadUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, Wrap(ErrEOF, "u32")
	}
	return binary.BigEndian.Uint32(b[:]), nil
}
func ReadInt32(r io.Reader) (int32, error) {
	v, err := ReadUint32(r)
	return int32(v), err
}
func ReadUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, Wrap(ErrEOF, "u64")
	}
	return binary.BigEndian.Uint64(b[:]), nil
}
func ReadInt64(r io.Reader) (int64, error) {
	v, err := ReadUint64(r)
	return int64(v), err
}
func ReadFloat32(r io.Reader) (float32, error) {
	v, err := ReadUint32(r)
	return math.Float32frombits(v), err
}
func ReadFloat64(r io.Reader) (float64, error) {
	v, err := ReadUint64(r)
	return math.Float64frombits(v), err
}

// byteWriterAdapter/byteReaderAdapter let WriteVarInt/ReadVarInt (which need
// io.ByteWriter/io.ByteReader) operate over a plain io.Writer/io.Reader such
// as the bytes.Buffer-backed scratch space used by the frame encoder.
type byteWriterAdapter struct{ io.Writer }

func (a byteWriterAdapter) WriteByte(b byte) error {
	_, err := a.Writer.Write([]byte{b})
	return err
}

type byteReaderAdapter struct{ io.Reader }

func (a byteReaderAdapter) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(a.Reader, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}
