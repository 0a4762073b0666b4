package net

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// deflate zlib-compresses src into dst, reusing a pooled *zlib.Writer owned
// by the caller's Encoder to avoid reallocating the compressor every packet.
func deflate(dst *bytes.Buffer, src []byte, w *zlib.Writer) error {
	if w == nil {
		return errNilCompressor
	}
	w.Reset(dst)
	if _, err := w.Write(src); err != nil {
		return err
	}
	return w.Close()
}

// inflate zlib-decompresses src into dst, requiring the result to be exactly
// wantLen bytes: an inflated size smaller or larger than the advertised
// data_len is an error.
func inflate(dst *bytes.Buffer, src []byte, wantLen int) error {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return Wrap(ErrMalformed, "frame/compressed-body")
	}
	defer r.Close()
	dst.Reset()
	dst.Grow(wantLen)
	n, err := io.CopyN(dst, r, int64(wantLen)+1)
	if err != nil && err != io.EOF {
		return Wrap(ErrMalformed, "frame/compressed-body")
	}
	if n != int64(wantLen) {
		return Wrap(ErrMalformed, "frame/compressed-body")
	}
	return nil
}

var errNilCompressor = &DecodeError{Kind: KindMalformed, chain: []string{"frame/compressor-not-installed"}}
