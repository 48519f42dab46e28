// Package logging defines the logger sink interface used throughout the
// engine. The core algorithm packages (labelconfig through engine) never
// talk to a concrete logging library; they depend only on this interface,
// so the core algorithm carries no process-wide logging state. The
// zap-backed ZapLogger in this package is what cmd/multiplex injects.
package logging

// Logger is the minimal sink the engine writes diagnostics through.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Nop discards everything. It is the default for library consumers and
// tests that don't care about diagnostic output.
type Nop struct{}

func (Nop) Debugf(string, ...any) {}
func (Nop) Infof(string, ...any)  {}
func (Nop) Warnf(string, ...any)  {}
func (Nop) Errorf(string, ...any) {}
