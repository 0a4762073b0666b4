package net

import (
	"bytes"

	"github.com/klauspost/compress/zlib"
)

// Frame is one decoded protocol packet as it comes off the wire: an id and
// its (possibly decompressed) body, with the outer length/compression
// envelope already stripped.
type Frame struct {
	ID   int32
	Body []byte
}

// disabledThreshold is the sentinel value meaning "compression never
// configured for this connection".
const disabledThreshold = -1

// Decoder splits a byte stream into Frames, undoing length-prefixing,
// optional zlib inflation and optional AES-CFB8 decryption. It is
// single-owner: only one goroutine may call its methods at a time.
type Decoder struct {
	buf []byte

	threshold int32
	active    bool

	cipher *streamCipher

	scratch bytes.Buffer
}

// NewDecoder returns a Decoder with compression and encryption both
// disabled.
func NewDecoder() *Decoder {
	return &Decoder{threshold: disabledThreshold}
}

// Feed appends newly-read bytes from the socket to the decoder's internal
// buffer, decrypting them first if a cipher has been installed. data is
// copied; the caller may reuse its backing array afterwards.
func (d *Decoder) Feed(data []byte) {
	start := len(d.buf)
	d.buf = append(d.buf, data...)
	if d.cipher != nil {
		d.cipher.transform(d.buf[start:], d.buf[start:])
	}
}

// EnableCompression arms the decoder to expect the compressed frame layout
// starting with the very next frame parsed: the decoder starts expecting
// compressed frames on the frame immediately after parsing SetCompression.
// threshold must be >= 0.
func (d *Decoder) EnableCompression(threshold int32) {
	d.threshold = threshold
	d.active = true
}

// EnableDecryption installs an AES-128-CFB8 cipher keyed (and IV'd, per the
// Notchian quirk) by key, and immediately re-decrypts any bytes that are
// already buffered but have not yet been parsed into a Frame.
func (d *Decoder) EnableDecryption(key []byte) error {
	c, err := newDecryptCipher(key)
	if err != nil {
		return err
	}
	d.cipher = c
	d.cipher.transform(d.buf, d.buf)
	return nil
}

// TryNextFrame attempts to extract one complete Frame from the buffered
// bytes. It returns (nil, nil) when more data is needed, and a non-nil error
// for any framing violation.
func (d *Decoder) TryNextFrame() (*Frame, error) {
	packetLen, lenSize, ok, err := PeekVarInt(d.buf)
	if err != nil {
		return nil, Wrap(err, "frame/length")
	}
	if !ok {
		return nil, nil
	}
	if packetLen < 0 || int(packetLen) > MaxPacketSize {
		return nil, Wrap(ErrMalformed, "frame/length")
	}
	total := lenSize + int(packetLen)
	if len(d.buf) < total {
		return nil, nil
	}
	body := make([]byte, packetLen)
	copy(body, d.buf[lenSize:total])
	d.buf = d.buf[total:]

	payload := body
	if d.active {
		payload, err = d.undoCompression(body)
		if err != nil {
			return nil, err
		}
	}

	id, idSize, ok, err := PeekVarInt(payload)
	if err != nil {
		return nil, Wrap(err, "frame/id")
	}
	if !ok {
		return nil, Wrap(ErrEOF, "frame/id")
	}
	return &Frame{ID: id, Body: payload[idSize:]}, nil
}

// undoCompression reads the inner data_len VarInt and either treats the
// remainder as uncompressed (data_len == 0) or zlib-inflates it (data_len >
// threshold); any data_len strictly between 0 and threshold is a protocol
// violation.
func (d *Decoder) undoCompression(body []byte) ([]byte, error) {
	dataLen, n, ok, err := PeekVarInt(body)
	if err != nil {
		return nil, Wrap(err, "frame/data-length")
	}
	if !ok {
		return nil, Wrap(ErrEOF, "frame/data-length")
	}
	rest := body[n:]
	switch {
	case dataLen == 0:
		if int32(len(rest)) > d.threshold {
			return nil, Wrap(ErrMalformed, "frame/uncompressed-body")
		}
		return rest, nil
	case dataLen > d.threshold:
		d.scratch.Reset()
		if err := inflate(&d.scratch, rest, int(dataLen)); err != nil {
			return nil, Wrap(err, "frame/compressed-body")
		}
		out := make([]byte, d.scratch.Len())
		copy(out, d.scratch.Bytes())
		return out, nil
	default:
		return nil, Wrap(ErrMalformed, "frame/compression-boundary")
	}
}

// Encoder builds the length-prefixed, optionally compressed and encrypted
// frame stream a connection writes to the wire. It is single-owner like
// Decoder.
type Encoder struct {
	threshold int32
	active    bool

	cipher *streamCipher
	zw     *zlib.Writer

	frame   bytes.Buffer
	payload bytes.Buffer
}

// NewEncoder returns an Encoder with compression and encryption both
// disabled.
func NewEncoder() *Encoder {
	return &Encoder{threshold: disabledThreshold}
}

// EnableCompression arms compression starting with the next packet
// appended: the encoder starts compressing the packet immediately after it
// emits the SetCompression packet, so callers must call EnableCompression
// only after AppendPacket has already written SetCompression itself.
func (e *Encoder) EnableCompression(threshold int32) {
	e.threshold = threshold
	e.active = true
	if e.zw == nil {
		e.zw = zlib.NewWriter(&bytes.Buffer{})
	}
}

// EnableEncryption installs the AES-128-CFB8 cipher for all subsequently
// appended bytes. Bytes already written to dst by prior AppendPacket calls
// are untouched — only traffic from this point on is encrypted.
func (e *Encoder) EnableEncryption(key []byte) error {
	c, err := newEncryptCipher(key)
	if err != nil {
		return err
	}
	e.cipher = c
	return nil
}

// AppendPacket encodes id and body into the wire frame format and appends
// the resulting bytes to dst. It never allocates more than the frame itself
// requires beyond the encoder's reusable scratch buffers.
func (e *Encoder) AppendPacket(dst *bytes.Buffer, id int32, body []byte) error {
	e.payload.Reset()
	if err := WriteVarInt(&e.payload, id); err != nil {
		return err
	}
	e.payload.Write(body)
	return e.appendPayload(dst, e.payload.Bytes())
}

// AppendRaw frames payload exactly as AppendPacket would, except payload
// already holds the VarInt packet id followed by its body concatenated
// together (the shape packet.EncodeTo produces). Collaborators that encode
// a packet once up front and queue the result for later per-connection
// framing (e.g. the outbound row-change buffers) use this instead of
// re-splitting id and body back apart.
func (e *Encoder) AppendRaw(dst *bytes.Buffer, payload []byte) error {
	return e.appendPayload(dst, payload)
}

func (e *Encoder) appendPayload(dst *bytes.Buffer, payload []byte) error {
	e.frame.Reset()
	if e.active {
		if err := e.writeCompressedFrame(&e.frame, payload); err != nil {
			return err
		}
	} else {
		e.frame.Write(payload)
	}
	if e.frame.Len() > MaxPacketSize {
		return Wrap(ErrBoundExceeded, "frame/body")
	}

	lenPrefix := e.frame.Len()
	var head [5]byte
	hw := bytes.NewBuffer(head[:0])
	if err := WriteVarInt(hw, int32(lenPrefix)); err != nil {
		return err
	}

	if e.cipher != nil {
		h := append([]byte(nil), hw.Bytes()...)
		b := append([]byte(nil), e.frame.Bytes()...)
		e.cipher.transform(h, h)
		e.cipher.transform(b, b)
		dst.Write(h)
		dst.Write(b)
		return nil
	}
	dst.Write(hw.Bytes())
	dst.Write(e.frame.Bytes())
	return nil
}

// writeCompressedFrame implements the compression-boundary rule: data_len=0
// below threshold, actual uncompressed length above it.
func (e *Encoder) writeCompressedFrame(dst *bytes.Buffer, payload []byte) error {
	if int32(len(payload)) <= e.threshold {
		if err := WriteVarInt(dst, 0); err != nil {
			return err
		}
		dst.Write(payload)
		return nil
	}
	if err := WriteVarInt(dst, int32(len(payload))); err != nil {
		return err
	}
	return deflate(dst, payload, e.zw)
}
