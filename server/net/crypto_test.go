package net

import (
	"bytes"
	"testing"
)

func TestStreamCipherSymmetry(t *testing.T) {
	key := bytes.Repeat([]byte{0x7a}, 16)
	plain := []byte("the quick brown fox jumps over the lazy dog, repeated for length")

	enc, err := newEncryptCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	cipherText := make([]byte, len(plain))
	enc.transform(cipherText, plain)
	if bytes.Equal(cipherText, plain) {
		t.Fatal("ciphertext should differ from plaintext")
	}

	dec, err := newDecryptCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	roundTripped := make([]byte, len(cipherText))
	dec.transform(roundTripped, cipherText)
	if !bytes.Equal(roundTripped, plain) {
		t.Fatalf("round trip mismatch: want %q got %q", plain, roundTripped)
	}
}

func TestStreamCipherByteAtATime(t *testing.T) {
	// CFB-8 must tolerate being fed one byte at a time without losing
	// synchronisation, since the frame pipeline decrypts incrementally as
	// bytes arrive off the socket.
	key := bytes.Repeat([]byte{0x11}, 16)
	plain := []byte("streamed-one-byte-per-call")

	enc, _ := newEncryptCipher(key)
	cipherText := make([]byte, len(plain))
	for i := range plain {
		enc.transform(cipherText[i:i+1], plain[i:i+1])
	}

	dec, _ := newDecryptCipher(key)
	out := make([]byte, len(cipherText))
	for i := range cipherText {
		dec.transform(out[i:i+1], cipherText[i:i+1])
	}
	if !bytes.Equal(out, plain) {
		t.Fatalf("want %q got %q", plain, out)
	}
}
