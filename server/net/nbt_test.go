package net

import (
	"bytes"
	"testing"
)

type nbtTestPayload struct {
	Name  string `nbt:"name"`
	Count int32  `nbt:"count"`
}

func TestNBTCompoundRoundTrip(t *testing.T) {
	want := nbtTestPayload{Name: "diamond_pickaxe", Count: 3}

	var buf bytes.Buffer
	if err := WriteAnonymousCompound(&buf, want); err != nil {
		t.Fatal(err)
	}

	var got nbtTestPayload
	if err := ReadCompound(&buf, &got); err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("want %+v got %+v", want, got)
	}
}

func TestEncodeCompoundMatchesWriteAnonymousCompound(t *testing.T) {
	payload := nbtTestPayload{Name: "netherite_sword", Count: 1}

	encoded, err := EncodeCompound(payload)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteAnonymousCompound(&buf, payload); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(encoded, buf.Bytes()) {
		t.Fatalf("EncodeCompound diverged from WriteAnonymousCompound: % x vs % x", encoded, buf.Bytes())
	}
}
