package mysqlcore

import (
	"bytes"
	"testing"
)

func TestFieldReaderNormalModeRoundTrip(t *testing.T) {
	pkt := LogicalPacket{Buffers: [][]byte{[]byte("abcdef")}}
	released := false
	r := NewFieldReader(pkt, func() { released = true })
	if r.Large() {
		t.Fatal("expected Normal mode for a small packet")
	}

	b, err := r.ReadFixed(3)
	if err != nil {
		t.Fatalf("ReadFixed: %v", err)
	}
	if !bytes.Equal(b, []byte("abc")) {
		t.Fatalf("got %q", b)
	}

	fv, err := r.ReadSizeFixedField(3)
	if err != nil {
		t.Fatalf("ReadSizeFixedField: %v", err)
	}
	if !bytes.Equal(fv.Bytes(), []byte("def")) {
		t.Fatalf("got %q", fv.Bytes())
	}
	fv.Release()
	r.Release()
	if !released {
		t.Fatal("release callback never fired")
	}
}

func TestFieldReaderMultiBufferComposite(t *testing.T) {
	pkt := LogicalPacket{Buffers: [][]byte{[]byte("foo"), []byte("bar")}}
	r := NewFieldReader(pkt, func() {})
	b, err := r.ReadFixed(6)
	if err != nil {
		t.Fatalf("ReadFixed: %v", err)
	}
	if string(b) != "foobar" {
		t.Fatalf("got %q", b)
	}
}

func TestFieldReaderNullTerminatedString(t *testing.T) {
	pkt := LogicalPacket{Buffers: [][]byte{[]byte("hello\x00rest")}}
	r := NewFieldReader(pkt, func() {})
	s, err := r.ReadNullTerminatedString()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if s != "hello" {
		t.Fatalf("got %q", s)
	}
	rest := r.ReadRest()
	if !bytes.Equal(rest.Bytes(), []byte("rest")) {
		t.Fatalf("rest = %q", rest.Bytes())
	}
}

func TestFieldReaderReadLengthEncodedField(t *testing.T) {
	var buf []byte
	buf = appendLengthEncodedString(buf, []byte("value"))
	buf = append(buf, 0xfb) // a following NULL field
	pkt := LogicalPacket{Buffers: [][]byte{buf}}
	r := NewFieldReader(pkt, func() {})

	v, err := r.ReadLengthEncodedField()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if v.IsNull() || !bytes.Equal(v.Bytes(), []byte("value")) {
		t.Fatalf("got %+v", v)
	}

	v2, err := r.ReadLengthEncodedField()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !v2.IsNull() {
		t.Fatal("expected null field")
	}
}

func TestFieldReaderRefCountSharedAcrossValues(t *testing.T) {
	released := 0
	pkt := LogicalPacket{Buffers: [][]byte{[]byte("abcdefgh")}}
	r := NewFieldReader(pkt, func() { released++ })

	a, _ := r.ReadSizeFixedField(4)
	b, _ := r.ReadSizeFixedField(4)
	retained := a.Retain()

	r.Release() // drop the reader's own reference
	a.Release()
	b.Release()
	if released != 0 {
		t.Fatalf("released too early: %d", released)
	}
	retained.Release()
	if released != 1 {
		t.Fatalf("released = %d, want exactly 1", released)
	}
}

// TestFieldReaderLargeMode exercises Large-mode reads directly against a
// hand-built reader rather than via NewFieldReader: triggering Large mode
// through NewFieldReader's own total>int32Max selection would require
// materializing a multi-gigabyte packet, which a unit test has no
// business doing.
func TestFieldReaderLargeMode(t *testing.T) {
	spans := [][]byte{[]byte("hello "), []byte("world")}
	r := &FieldReader{large: true, spans: spans, ref: newRefCounter(func() {})}

	if _, err := r.ReadFixed(1); err != ErrFieldTooLarge {
		t.Fatalf("ReadFixed in Large mode: got %v, want ErrFieldTooLarge", err)
	}

	v, err := r.ReadSizeFixedField(11)
	if err != nil {
		t.Fatalf("ReadSizeFixedField: %v", err)
	}
	if v.Len() != 11 || !bytes.Equal(v.Bytes(), []byte("hello world")) {
		t.Fatalf("got %q (len %d)", v.Bytes(), v.Len())
	}
}

func TestFieldReaderNewFieldReaderSelectsNormalModeForSmallPackets(t *testing.T) {
	pkt := LogicalPacket{Buffers: [][]byte{[]byte("small")}}
	r := NewFieldReader(pkt, func() {})
	if r.Large() {
		t.Fatal("a small packet must select Normal mode")
	}
}

func TestFieldReaderSkip(t *testing.T) {
	pkt := LogicalPacket{Buffers: [][]byte{[]byte("0123456789")}}
	r := NewFieldReader(pkt, func() {})
	r.Skip(4)
	b, err := r.ReadFixed(2)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if string(b) != "45" {
		t.Fatalf("got %q", b)
	}
	r.Skip(1000) // clamps instead of panicking
	if _, ok := r.PeekByte(); ok {
		t.Fatal("expected no bytes remaining after an oversized skip")
	}
}
