package mysqlcore

import (
	"context"
	"io"
	"net"
	"testing"
)

// newBareClient builds a Client with just enough wiring for readLoop/
// teardown/classifyReadError to run against a net.Pipe conn, without
// going through Connect's full handshake.
func newBareClient(conn net.Conn) *Client {
	cfg := NewConfig()
	c := &Client{
		cfg:       cfg,
		conn:      conn,
		codec:     NewMessageDuplexCodec(&ConnectionContext{}),
		lifecycle: newLifecycle(),
	}
	c.queue = NewRequestQueue(func(t *RequestTask) error {
		c.codec.BeginExchange(t.Kind)
		return nil
	})
	c.lifecycle.Advance(PhaseCommand)
	return c
}

func TestClassifyReadErrorExpectedDuringDisconnecting(t *testing.T) {
	client, _ := net.Pipe()
	defer client.Close()
	c := newBareClient(client)
	c.lifecycle.BeginClosing(nil)

	if err := c.classifyReadError(io.EOF); err != nil {
		t.Fatalf("classifyReadError = %v, want nil once closing has begun", err)
	}
}

func TestClassifyReadErrorUnexpectedWhileInCommand(t *testing.T) {
	client, _ := net.Pipe()
	defer client.Close()
	c := newBareClient(client)

	err := c.classifyReadError(io.ErrClosedPipe)
	if err == nil {
		t.Fatal("expected a non-nil error for an unexpected close outside teardown")
	}
}

func TestTeardownRunsExactlyOnceAndDrainsQueue(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	c := newBareClient(client)

	ex, task := NewExchange(ExchangeKindGeneric, &fakeClientMessage{}, func(ServerMessage) bool { return true })
	if err := c.queue.Submit(task); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	c.teardown(io.ErrUnexpectedEOF)
	if c.lifecycle.Current() != PhaseClosed {
		t.Fatalf("phase = %v, want PhaseClosed", c.lifecycle.Current())
	}
	if _, ok, err := ex.Next(context.Background()); ok || err == nil {
		t.Fatalf("queued exchange must observe the teardown error, got ok=%v err=%v", ok, err)
	}

	// A second teardown call must be a no-op: BeginClosing only returns
	// true once, so calling queue.DisposeAll/conn.Close again here would
	// indicate the once-only guard broke.
	c.teardown(io.ErrUnexpectedEOF)
	if c.lifecycle.Current() != PhaseClosed {
		t.Fatal("second teardown call must not change phase")
	}
}

func TestReadLoopDispatchesDecodedMessagesThenTearsDownOnClose(t *testing.T) {
	client, server := net.Pipe()
	c := newBareClient(client)

	ex, task := NewExchange(ExchangeKindGeneric, &fakeClientMessage{}, func(m ServerMessage) bool {
		_, isOK := m.(OKMessage)
		return isOK
	})
	if err := c.queue.Submit(task); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	done := make(chan struct{})
	go func() {
		c.readLoop()
		close(done)
	}()

	seq := byte(0)
	wire := encodeEnvelopes(&seq, []byte{iOK, 0, 0, 2, 0, 0, 0})
	if _, err := server.Write(wire); err != nil {
		t.Fatalf("write: %v", err)
	}

	msg, ok, err := ex.Next(context.Background())
	if err != nil || !ok {
		t.Fatalf("Next: msg=%v ok=%v err=%v", msg, ok, err)
	}
	if _, isOK := msg.(OKMessage); !isOK {
		t.Fatalf("got %T, want OKMessage", msg)
	}

	server.Close()
	<-done
	if c.lifecycle.Current() != PhaseClosed {
		t.Fatalf("phase = %v, want PhaseClosed after peer close", c.lifecycle.Current())
	}
}
