package mysqlcore

import "sync/atomic"

// Phase (C8, spec §4.8) is the connection's position in its own
// lifecycle. Grounded on atomic_bool_go118.go's noCopy/atomicBool shim —
// collapsed here to stdlib atomic.Int32 since this module targets Go
// 1.22+ — generalized from a single closed bit to the full phase
// sequence connection_go18.go's cleanup/canceled dance only implies.
type Phase int32

const (
	PhaseConnecting Phase = iota
	PhaseHandshake
	PhaseSSL
	PhaseAuth
	PhaseCommand
	PhaseDisconnecting
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseHandshake:
		return "handshake"
	case PhaseSSL:
		return "ssl"
	case PhaseAuth:
		return "auth"
	case PhaseCommand:
		return "command"
	case PhaseDisconnecting:
		return "disconnecting"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Lifecycle tracks the current Phase and, once closing begins, the
// single error that explains why (spec Invariant 4: every exchange still
// in flight when closing begins observes this same error).
type Lifecycle struct {
	phase    atomic.Int32
	drainErr atomic.Pointer[error]
}

func newLifecycle() *Lifecycle {
	l := &Lifecycle{}
	l.phase.Store(int32(PhaseConnecting))
	return l
}

// Current reports the lifecycle's current phase.
func (l *Lifecycle) Current() Phase { return Phase(l.phase.Load()) }

// Advance moves to the next phase in the scripted forward sequence
// (Connecting -> Handshake -> SSL -> Auth -> Command). The handshake
// orchestrator calls this; it never needs to move backward.
func (l *Lifecycle) Advance(to Phase) { l.phase.Store(int32(to)) }

// BeginClosing transitions to Disconnecting exactly once, recording err
// as the drain error every exchange still in flight will observe. A nil
// err (a graceful Exit/Close) records no error — callers see the
// ExpectedClosed error rather than a wrapped cause. Returns false if the
// connection was already disconnecting or closed.
func (l *Lifecycle) BeginClosing(err error) bool {
	for {
		cur := Phase(l.phase.Load())
		if cur == PhaseDisconnecting || cur == PhaseClosed {
			return false
		}
		if l.phase.CompareAndSwap(int32(cur), int32(PhaseDisconnecting)) {
			if err != nil {
				l.drainErr.Store(&err)
			}
			return true
		}
	}
}

// MarkClosed transitions to Closed, the terminal phase.
func (l *Lifecycle) MarkClosed() { l.phase.Store(int32(PhaseClosed)) }

// DrainError returns the error recorded by BeginClosing, or nil for a
// graceful close.
func (l *Lifecycle) DrainError() error {
	p := l.drainErr.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Closed reports whether the lifecycle has reached its terminal phase.
func (l *Lifecycle) Closed() bool { return l.Current() == PhaseClosed }
