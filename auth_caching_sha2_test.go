package mysqlcore

import "testing"

func TestCachingSha2FastAuthSuccess(t *testing.T) {
	p := &cachingSha2Plugin{}
	res, err := p.Continue("pw", []byte("01234567890123456789"), []byte{0x03}, false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.action != authActionNone {
		t.Fatalf("action = %v, want authActionNone", res.action)
	}
}

func TestCachingSha2FullAuthOverTLSSendsCleartext(t *testing.T) {
	p := &cachingSha2Plugin{}
	res, err := p.Continue("pw", []byte("01234567890123456789"), []byte{0x04}, true)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.action != authActionReply {
		t.Fatalf("action = %v, want authActionReply", res.action)
	}
	if string(res.reply) != "pw\x00" {
		t.Fatalf("reply = %q, want NUL-terminated cleartext password", res.reply)
	}
}

func TestCachingSha2FullAuthWithoutTLSRequestsPubKey(t *testing.T) {
	p := &cachingSha2Plugin{}
	res, err := p.Continue("pw", []byte("01234567890123456789"), []byte{0x04}, false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.action != authActionRequestPubKey {
		t.Fatalf("action = %v, want authActionRequestPubKey", res.action)
	}
	if !p.awaitingPubKey {
		t.Fatal("plugin should now be awaiting the server's public key")
	}
}

func TestCachingSha2UnrecognizedStatusByte(t *testing.T) {
	p := &cachingSha2Plugin{}
	_, err := p.Continue("pw", []byte("01234567890123456789"), []byte{0x99}, false)
	if err == nil {
		t.Fatal("expected a protocol error for an unrecognized status byte")
	}
}

func TestCachingSha2EmptyAuthMoreDataIsAnError(t *testing.T) {
	p := &cachingSha2Plugin{}
	_, err := p.Continue("pw", []byte("01234567890123456789"), nil, false)
	if err == nil {
		t.Fatal("expected a protocol error for empty AuthMoreData")
	}
}

func TestScrambleSHA256EmptyPasswordYieldsNoResponse(t *testing.T) {
	p := &cachingSha2Plugin{}
	got, err := p.Start("", []byte("01234567890123456789"), false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestScrambleSHA256Deterministic(t *testing.T) {
	a := scrambleSHA256("pw", []byte("01234567890123456789"))
	b := scrambleSHA256("pw", []byte("01234567890123456789"))
	if len(a) != len(b) {
		t.Fatalf("len mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("scrambleSHA256 is not deterministic")
		}
	}
}

func TestParseRSAPublicKeyPEMRejectsGarbage(t *testing.T) {
	_, err := parseRSAPublicKeyPEM([]byte("not a pem block"))
	if err == nil {
		t.Fatal("expected an error for non-PEM input")
	}
}
