package net

import (
	"bytes"
	"errors"
	"testing"
)

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteString(&buf, "hello, minecraft"); err != nil {
		t.Fatal(err)
	}
	got, err := ReadString(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello, minecraft" {
		t.Fatalf("want %q got %q", "hello, minecraft", got)
	}
}

func TestReadBoundedStringRejectsOverlong(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteString(&buf, "this string is too long"); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadBoundedString(&buf, 4); !errors.Is(err, ErrBoundExceeded) {
		t.Fatalf("expected ErrBoundExceeded, got %v", err)
	}
}

func TestReadStringRejectsBadUTF8(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVarInt(&buf, 2); err != nil {
		t.Fatal(err)
	}
	buf.Write([]byte{0xff, 0xfe})
	if _, err := ReadString(&buf); !errors.Is(err, ErrBadUTF8) {
		t.Fatalf("expected ErrBadUTF8, got %v", err)
	}
}

func TestIdentifierRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	id := Identifier{Namespace: "minecraft", Path: "overworld"}
	if err := WriteIdentifier(&buf, id); err != nil {
		t.Fatal(err)
	}
	got, err := ReadIdentifier(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Fatalf("want %+v got %+v", id, got)
	}
}

func TestIdentifierRejectsBadCharacterClass(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteString(&buf, "Minecraft:Overworld"); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadIdentifier(&buf); err == nil {
		t.Fatal("expected an error for uppercase identifier characters")
	}
}

func TestOptionalRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOptional(&buf, int32(42), true, WriteInt32); err != nil {
		t.Fatal(err)
	}
	v, ok, err := ReadOptional(&buf, ReadInt32)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != 42 {
		t.Fatalf("want (42, true), got (%d, %v)", v, ok)
	}

	buf.Reset()
	if err := WriteOptional(&buf, int32(0), false, WriteInt32); err != nil {
		t.Fatal(err)
	}
	_, ok, err = ReadOptional(&buf, ReadInt32)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected ok=false for an absent optional")
	}
}

func TestVarIntSliceRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	values := []int32{1, 2, 3, 4, 5}
	if err := WriteVarIntSlice(&buf, values, WriteInt32); err != nil {
		t.Fatal(err)
	}
	got, err := ReadVarIntSlice(&buf, 4, ReadInt32)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(values) {
		t.Fatalf("want %d elements got %d", len(values), len(got))
	}
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("element %d: want %d got %d", i, values[i], got[i])
		}
	}
}

func TestBoundedSliceRejectsOverCount(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVarIntSlice(&buf, []int32{1, 2, 3}, WriteInt32); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadBoundedSlice(&buf, 2, 4, ReadInt32); !errors.Is(err, ErrBoundExceeded) {
		t.Fatalf("expected ErrBoundExceeded, got %v", err)
	}
}

func TestScalarRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFloat64(&buf, 3.14159); err != nil {
		t.Fatal(err)
	}
	if err := WriteInt16(&buf, -42); err != nil {
		t.Fatal(err)
	}
	if err := WriteUint8(&buf, 255); err != nil {
		t.Fatal(err)
	}
	f, err := ReadFloat64(&buf)
	if err != nil || f != 3.14159 {
		t.Fatalf("float64: %v %v", f, err)
	}
	i16, err := ReadInt16(&buf)
	if err != nil || i16 != -42 {
		t.Fatalf("int16: %v %v", i16, err)
	}
	u8, err := ReadUint8(&buf)
	if err != nil || u8 != 255 {
		t.Fatalf("uint8: %v %v", u8, err)
	}
}
