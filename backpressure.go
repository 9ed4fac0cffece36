package mysqlcore

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// BackpressureGate bounds how many RequestTasks may be outstanding
// (submitted to the RequestQueue but not yet completed) at once. Without
// it a caller that submits faster than the server replies grows the
// queue's backlog without limit; TryAcquire instead surfaces
// KindBackpressureOverflow so the caller can shed load. Grounded on the
// pack's golang.org/x/sync/semaphore admission-control idiom.
type BackpressureGate struct {
	sem *semaphore.Weighted
}

// NewBackpressureGate builds a gate admitting at most limit concurrent
// outstanding exchanges.
func NewBackpressureGate(limit int64) *BackpressureGate {
	return &BackpressureGate{sem: semaphore.NewWeighted(limit)}
}

// Acquire reserves one slot, blocking until one is free or ctx is done.
func (g *BackpressureGate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// TryAcquire reserves one slot without blocking.
func (g *BackpressureGate) TryAcquire() error {
	if g.sem.TryAcquire(1) {
		return nil
	}
	return backpressureOverflowError()
}

// Release returns one slot, called once a submitted task's done channel
// fires.
func (g *BackpressureGate) Release() { g.sem.Release(1) }
