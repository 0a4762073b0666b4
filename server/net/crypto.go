package net

import (
	"crypto/aes"
	"crypto/cipher"
)

// streamCipher is a CFB-8 stream transform applied byte-wise over the entire
// connection, installed the instant encryption is enabled. There is no
// third-party CFB-8 implementation in the example corpus and Go's standard
// crypto/cipher.NewCFBEncrypter/NewCFBDecrypter over an crypto/aes.NewCipher
// block is the correct, idiomatic primitive for it — see DESIGN.md for why
// this one concern is built on the standard library rather than an
// ecosystem package.
type streamCipher struct {
	stream cipher.Stream
}

// newEncryptCipher and newDecryptCipher both take the Notchian key-as-IV
// convention: the 16-byte key is reused verbatim as the IV. This is a known
// vanilla quirk, preserved deliberately rather than "fixed".
func newEncryptCipher(key []byte) (*streamCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &streamCipher{stream: cipher.NewCFBEncrypter(block, key)}, nil
}

func newDecryptCipher(key []byte) (*streamCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &streamCipher{stream: cipher.NewCFBDecrypter(block, key)}, nil
}

// transform runs the stream cipher over src in place, writing into dst. dst
// and src may alias (both XORKeyStream callers and our own usage pass the
// same slice for in-place transforms).
func (c *streamCipher) transform(dst, src []byte) {
	c.stream.XORKeyStream(dst, src)
}
