package mysqlcore

import "testing"

func TestLittleEndianHelpers(t *testing.T) {
	if got := le16([]byte{0x34, 0x12}); got != 0x1234 {
		t.Fatalf("le16 = %#x, want 0x1234", got)
	}
	if got := le32([]byte{0x78, 0x56, 0x34, 0x12}); got != 0x12345678 {
		t.Fatalf("le32 = %#x, want 0x12345678", got)
	}
	if got := le64([]byte{8, 7, 6, 5, 4, 3, 2, 1}); got != 0x0102030405060708 {
		t.Fatalf("le64 = %#x, want 0x0102030405060708", got)
	}
}

func TestReadLenEncStrReadsAndReleases(t *testing.T) {
	payload := appendLengthEncodedString(nil, []byte("information_schema"))
	pkt := LogicalPacket{Buffers: [][]byte{payload}}
	r := NewFieldReader(pkt, func() {})

	got, err := readLenEncStr(r)
	if err != nil {
		t.Fatalf("readLenEncStr: %v", err)
	}
	if got != "information_schema" {
		t.Fatalf("got %q, want information_schema", got)
	}
}

func TestReadLenEncStrNull(t *testing.T) {
	pkt := LogicalPacket{Buffers: [][]byte{{0xfb}}}
	r := NewFieldReader(pkt, func() {})

	got, err := readLenEncStr(r)
	if err != nil {
		t.Fatalf("readLenEncStr: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty string for a NULL field", got)
	}
}
