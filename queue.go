package mysqlcore

import "sync"

// RequestQueue (C5, spec §4.5): FIFO admission with a single active
// in-flight slot. Grounded on connection_go18.go's watchCancel/chCtx
// pattern generalized from "one pending cancellable query" to an
// arbitrary backlog, and on the teacher's single-statement-at-a-time
// wire discipline (MySQL has no request pipelining).
type RequestQueue struct {
	mu      sync.Mutex
	pending []*RequestTask
	active  *RequestTask
	closed  bool

	// activate encodes and writes a task's ClientMessage and calls
	// BeginExchange on the codec; supplied by Client so the queue stays
	// free of any I/O or codec dependency.
	activate func(*RequestTask) error
}

// NewRequestQueue builds a queue that calls activate exactly once per
// task, right before that task becomes the active one.
func NewRequestQueue(activate func(*RequestTask) error) *RequestQueue {
	return &RequestQueue{activate: activate}
}

// Submit admits t. If no exchange is active, t is activated immediately;
// otherwise it joins the FIFO backlog (Invariant: submission order is
// preserved). Returns exchangeClosedError if the queue has already been
// disposed.
func (q *RequestQueue) Submit(t *RequestTask) error {
	t.done = make(chan error, 1)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return exchangeClosedError()
	}
	startNow := q.active == nil
	if startNow {
		q.active = t
	} else {
		q.pending = append(q.pending, t)
	}
	q.mu.Unlock()

	if startNow {
		if err := q.activate(t); err != nil {
			q.complete(t, err)
		}
	}
	return nil
}

// Dispatch routes one decoded ServerMessage to the active task's
// Handler, driven by the I/O goroutine's read loop. A stray message with
// no active task (possible after Exit, which expects no reply) is
// dropped.
func (q *RequestQueue) Dispatch(msg ServerMessage) {
	q.mu.Lock()
	t := q.active
	q.mu.Unlock()
	if t == nil {
		return
	}
	done, err := t.Handler(msg)
	if done {
		q.complete(t, err)
	}
}

// complete finalizes t, signals its done channel, and activates the next
// queued task if any. Safe to call even if t is no longer active (e.g. a
// duplicate completion from a racing cancellation), in which case it is
// a no-op beyond the done signal already sent.
func (q *RequestQueue) complete(t *RequestTask, err error) {
	q.mu.Lock()
	if q.active != t {
		q.mu.Unlock()
		return
	}
	var next *RequestTask
	if len(q.pending) > 0 {
		next = q.pending[0]
		q.pending = q.pending[1:]
	}
	q.active = next
	q.mu.Unlock()

	t.done <- err
	close(t.done)

	if next != nil {
		if aerr := q.activate(next); aerr != nil {
			q.complete(next, aerr)
		}
	}
}

// DisposeAll fails every pending and the active task with err and
// refuses further submissions (spec Invariant 4: draining on close/error
// leaves no task without a terminal signal). Called once, when the
// client moves out of COMMAND phase.
func (q *RequestQueue) DisposeAll(err error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	active := q.active
	pending := q.pending
	q.active = nil
	q.pending = nil
	q.mu.Unlock()

	for _, t := range pending {
		t.Message.Dispose()
		t.done <- err
		close(t.done)
	}
	if active != nil {
		active.Message.Dispose()
		active.done <- err
		close(active.done)
	}
}
