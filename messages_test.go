package mysqlcore

import (
	"bytes"
	"testing"
)

func TestSimpleCommandEncodesSingleByte(t *testing.T) {
	seq := byte(0)
	wire := PingMessage().Encode(nil, &seq)
	want := []byte{1, 0, 0, 0, comPing}
	if !bytes.Equal(wire, want) {
		t.Fatalf("got %v, want %v", wire, want)
	}
	if seq != 1 {
		t.Fatalf("seq after Encode = %d, want 1", seq)
	}
}

func TestStringCommandEncodesCommandAndArg(t *testing.T) {
	seq := byte(0)
	wire := QueryMessage("SELECT 1").Encode(nil, &seq)
	payload := wire[4:]
	if payload[0] != comQuery {
		t.Fatalf("first byte = %#x, want comQuery", payload[0])
	}
	if string(payload[1:]) != "SELECT 1" {
		t.Fatalf("arg = %q, want SELECT 1", payload[1:])
	}
}

func TestExecuteMessageEncodesStmtIDAndFlags(t *testing.T) {
	m := &ExecuteMessage{StmtID: 0x01020304, Flags: 0, Params: []byte{0xAA, 0xBB}}
	seq := byte(0)
	wire := m.Encode(nil, &seq)
	payload := wire[4:]
	if payload[0] != comStmtExecute {
		t.Fatalf("command byte = %#x, want comStmtExecute", payload[0])
	}
	gotID := le32(payload[1:5])
	if gotID != m.StmtID {
		t.Fatalf("stmt id = %#x, want %#x", gotID, m.StmtID)
	}
	if !bytes.Equal(payload[10:], m.Params) {
		t.Fatalf("params = %v, want %v", payload[10:], m.Params)
	}
	if !m.Disposable() {
		t.Fatal("ExecuteMessage with non-empty Params must be Disposable")
	}
	m.Dispose()
	if m.Params != nil {
		t.Fatal("Dispose must clear Params")
	}
}

func TestCloseStatementMessageEncodesStmtID(t *testing.T) {
	m := &CloseStatementMessage{StmtID: 7}
	seq := byte(0)
	wire := m.Encode(nil, &seq)
	payload := wire[4:]
	if payload[0] != comStmtClose {
		t.Fatalf("command byte = %#x, want comStmtClose", payload[0])
	}
	if le32(payload[1:]) != 7 {
		t.Fatalf("stmt id = %d, want 7", le32(payload[1:]))
	}
}

func TestLocalInfileReplyEmptyDataIsNotDisposable(t *testing.T) {
	m := &LocalInfileReply{}
	if m.Disposable() {
		t.Fatal("an empty LocalInfileReply has nothing to dispose")
	}
	seq := byte(0)
	wire := m.Encode(nil, &seq)
	if len(wire) != 4 {
		t.Fatalf("len(wire) = %d, want 4 (header only, zero-length payload)", len(wire))
	}
}

func TestLocalInfileReplyWithDataIsDisposable(t *testing.T) {
	m := &LocalInfileReply{Data: []byte("file contents")}
	if !m.Disposable() {
		t.Fatal("expected Disposable true for non-empty Data")
	}
	m.Dispose()
	if m.Data != nil {
		t.Fatal("Dispose must clear Data")
	}
}

func TestRawCommandEncodesOpaquePayload(t *testing.T) {
	m := rawCommand{payload: []byte{1, 2, 3}}
	seq := byte(5)
	wire := m.Encode(nil, &seq)
	if !bytes.Equal(wire[4:], []byte{1, 2, 3}) {
		t.Fatalf("payload = %v, want [1 2 3]", wire[4:])
	}
	if wire[3] != 5 {
		t.Fatalf("sequence byte = %d, want 5", wire[3])
	}
}
