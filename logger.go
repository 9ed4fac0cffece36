package mysqlcore

import "log"

// Logger is the diagnostics contract this module consumes (spec §6). It
// has no levels: every diagnostic goes through one Print call, and
// callers cannot filter by severity. It deliberately mirrors the teacher's own logging shape: a single
// Print method satisfied directly by *log.Logger, rather than pulling in a
// structured logging library that neither the teacher nor any other
// MySQL-protocol file in the example pack uses (see DESIGN.md).
type Logger interface {
	Print(v ...any)
}

// nopLogger discards everything; NewConfig installs it as the default so a
// caller that never wires a Logger still gets a connection that works.
type nopLogger struct{}

func (nopLogger) Print(v ...any) {}

// StdLogger adapts the standard library's *log.Logger to Logger.
func StdLogger(l *log.Logger) Logger { return stdLoggerAdapter{l} }

type stdLoggerAdapter struct{ l *log.Logger }

func (a stdLoggerAdapter) Print(v ...any) { a.l.Print(v...) }
