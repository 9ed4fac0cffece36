package mysqlcore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// RequestTask is one admitted unit of work for the RequestQueue: the
// message to send once activated, and the Handler that interprets every
// ServerMessage decoded while it is the active exchange.
type RequestTask struct {
	ID      uuid.UUID
	Kind    ExchangeKind
	Message ClientMessage
	Handler func(msg ServerMessage) (done bool, err error)

	done chan error
}

// Exchange is the Go-idiom stand-in for the original design's
// lazy/asynchronous reactive-streams publisher (spec §9): a pull cursor
// over one request/response round trip, driven by context.Context
// instead of subscriber demand signals. Client owns the RequestQueue that
// feeds it; Exchange itself holds no socket or lock beyond its own
// buffering channel.
type Exchange struct {
	task    *RequestTask
	msgs    chan ServerMessage
	drained bool
	err     error

	cancelOnce sync.Once
	cancelCh   chan struct{}
}

// NewExchange builds an Exchange and the RequestTask that feeds it.
// isTerminal decides, for each decoded ServerMessage, whether this
// exchange is now complete (its last row, its OK, its Error). Once
// Cancel has fired, the Handler stops blocking on msgs — a caller that
// stopped calling Next must never wedge the single I/O goroutine — and
// instead releases each subsequent ServerMessage's buffers itself (spec
// §4.5 cancellation semantics: delivery is severed immediately, but the
// wire keeps draining internally until the terminator, so sequence ids
// never desync and the next queued exchange is still admitted).
func NewExchange(kind ExchangeKind, message ClientMessage, isTerminal func(ServerMessage) bool) (*Exchange, *RequestTask) {
	msgs := make(chan ServerMessage, 8)
	cancelCh := make(chan struct{})
	task := &RequestTask{ID: uuid.New(), Kind: kind, Message: message}
	task.Handler = func(msg ServerMessage) (bool, error) {
		term := isTerminal(msg)
		select {
		case msgs <- msg:
		case <-cancelCh:
			discardServerMessage(msg)
		}
		if term {
			close(msgs)
		}
		return term, nil
	}
	return &Exchange{task: task, msgs: msgs, cancelCh: cancelCh}, task
}

// ID returns this exchange's correlation id. It carries no wire meaning,
// and nothing in this package logs or otherwise reads it.
func (e *Exchange) ID() uuid.UUID { return e.task.ID }

// Cancel severs delivery to this Exchange immediately: the Handler stops
// attempting to hand messages to Next and instead discards them,
// releasing any FieldValue buffers they own, while the queue keeps
// draining the wire in the background until the terminator arrives and
// the next queued exchange is admitted. Safe to call more than once or
// concurrently with Next; a no-op once the exchange has already drained.
func (e *Exchange) Cancel() {
	e.cancelOnce.Do(func() {
		close(e.cancelCh)
		go e.drainDiscarded()
	})
}

// drainDiscarded keeps taking whatever the Handler still delivers on
// msgs after Cancel and releases it, so a message that the Handler's
// select happened to send before observing cancelCh closed is never
// left sitting unreleased in the channel buffer.
func (e *Exchange) drainDiscarded() {
	for msg := range e.msgs {
		discardServerMessage(msg)
	}
}

// discardServerMessage releases any buffers msg owns without delivering
// it anywhere. Only RowMessage carries reference-counted FieldValues;
// every other ServerMessage variant is plain copied data.
func discardServerMessage(msg ServerMessage) {
	if row, ok := msg.(RowMessage); ok {
		for _, f := range row.Fields {
			f.Release()
		}
	}
}

// Next returns the next ServerMessage. ok is false once the exchange has
// completed; err is nil on a clean completion (the final message itself
// — OK, the last EOF, or an ErrorMessage — was already returned by a
// prior call). Next also cancels the exchange once ctx is cancelled,
// without otherwise disturbing the exchange: the wire keeps draining in
// the background via the RequestQueue, so sequence ids never desync
// (spec §4.5 cancellation semantics).
func (e *Exchange) Next(ctx context.Context) (ServerMessage, bool, error) {
	if e.drained {
		return nil, false, e.err
	}
	// A message already buffered is delivered before the completion
	// signal, even when both channels are ready.
	select {
	case msg, ok := <-e.msgs:
		if ok {
			return msg, true, nil
		}
		e.drained = true
		e.err = e.waitDone()
		return nil, false, e.err
	default:
	}
	select {
	case msg, ok := <-e.msgs:
		if ok {
			return msg, true, nil
		}
		e.drained = true
		e.err = e.waitDone()
		return nil, false, e.err
	case err, ok := <-e.task.done:
		e.drained = true
		if ok {
			e.err = err
		}
		return nil, false, e.err
	case <-ctx.Done():
		e.Cancel()
		return nil, false, ctx.Err()
	}
}

// waitDone blocks briefly for the queue's authoritative completion error
// once msgs has already closed; by the time the handler closed msgs it
// has already returned, so the queue's complete() call — and therefore
// the send on task.done — has either already happened or is about to,
// single-threaded on the I/O goroutine.
func (e *Exchange) waitDone() error {
	return <-e.task.done
}
