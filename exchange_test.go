package mysqlcore

import (
	"context"
	"testing"
	"time"
)

func TestExchangeNextDeliversMessagesThenDrains(t *testing.T) {
	isTerminal := func(m ServerMessage) bool {
		_, ok := m.(EOFMessage)
		return ok
	}
	ex, task := NewExchange(ExchangeKindGeneric, QueryMessage("select 1"), isTerminal)
	task.done = make(chan error, 1)

	go func() {
		task.Handler(ColumnCount{Count: 1})
		task.Handler(RowMessage{})
		done, _ := task.Handler(EOFMessage{})
		if done {
			task.done <- nil
		}
	}()

	ctx := context.Background()
	msg, ok, err := ex.Next(ctx)
	if err != nil || !ok {
		t.Fatalf("1st Next: msg=%v ok=%v err=%v", msg, ok, err)
	}
	if _, isCol := msg.(ColumnCount); !isCol {
		t.Fatalf("1st message = %T, want ColumnCount", msg)
	}

	msg, ok, err = ex.Next(ctx)
	if err != nil || !ok {
		t.Fatalf("2nd Next: msg=%v ok=%v err=%v", msg, ok, err)
	}
	if _, isRow := msg.(RowMessage); !isRow {
		t.Fatalf("2nd message = %T, want RowMessage", msg)
	}

	msg, ok, err = ex.Next(ctx)
	if err != nil || !ok {
		t.Fatalf("3rd Next: msg=%v ok=%v err=%v", msg, ok, err)
	}
	if _, isEOF := msg.(EOFMessage); !isEOF {
		t.Fatalf("3rd message = %T, want EOFMessage", msg)
	}

	_, ok, err = ex.Next(ctx)
	if ok || err != nil {
		t.Fatalf("4th Next: ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}

func TestExchangeNextSurfacesTaskError(t *testing.T) {
	ex, task := NewExchange(ExchangeKindGeneric, QueryMessage("select 1"), func(ServerMessage) bool { return false })
	task.done = make(chan error, 1)
	wantErr := protocolViolation("boom", nil)
	task.done <- wantErr
	close(task.done)

	_, ok, err := ex.Next(context.Background())
	if ok {
		t.Fatal("expected ok=false")
	}
	if err != wantErr {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestExchangeNextRespectsContextCancellation(t *testing.T) {
	ex, _ := NewExchange(ExchangeKindGeneric, QueryMessage("select 1"), func(ServerMessage) bool { return false })
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok, err := ex.Next(ctx)
	if ok || err == nil {
		t.Fatalf("expected ctx deadline error, got ok=%v err=%v", ok, err)
	}
}

func TestExchangeCancelDoesNotBlockHandlerOnFullBuffer(t *testing.T) {
	ex, task := NewExchange(ExchangeKindGeneric, QueryMessage("select 1"), func(ServerMessage) bool { return false })
	task.done = make(chan error, 1)

	// Fill the 8-slot buffer without ever calling Next, mimicking a caller
	// that stopped pulling mid-result.
	for i := 0; i < 8; i++ {
		task.Handler(RowMessage{})
	}

	ex.Cancel()
	ex.Cancel() // must be idempotent, no panic on the closed channel

	released := make(chan struct{})
	ref := newRefCounter(func() { close(released) })
	fv := fieldValue(ref, false, [][]byte{[]byte("x")})
	ref.decrement() // drop the constructor's implicit retain; fv now holds the only one

	done := make(chan struct{})
	go func() {
		task.Handler(RowMessage{Fields: []FieldValue{fv}})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Handler blocked on a full buffer after Cancel instead of discarding")
	}

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("cancelled RowMessage's FieldValue was never released")
	}
}

func TestExchangeNextAfterContextCancelDoesNotBlockHandler(t *testing.T) {
	ex, task := NewExchange(ExchangeKindGeneric, QueryMessage("select 1"), func(ServerMessage) bool { return false })
	task.done = make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok, err := ex.Next(ctx); ok || err == nil {
		t.Fatalf("Next after cancel: ok=%v err=%v", ok, err)
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			task.Handler(RowMessage{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Handler blocked sending undelivered rows after ctx cancellation reached Next")
	}
}

func TestExchangeIDIsStable(t *testing.T) {
	ex, task := NewExchange(ExchangeKindGeneric, QueryMessage("select 1"), func(ServerMessage) bool { return true })
	if ex.ID() != task.ID {
		t.Fatal("Exchange.ID() must match the underlying RequestTask.ID")
	}
}
