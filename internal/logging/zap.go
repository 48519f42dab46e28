package logging

import "go.uber.org/zap"

// ZapLogger adapts a *zap.SugaredLogger to the Logger interface, used by
// cmd/multiplex.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps a configured zap logger.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{s: l.Sugar()}
}

func (z *ZapLogger) Debugf(format string, args ...any) { z.s.Debugf(format, args...) }
func (z *ZapLogger) Infof(format string, args ...any)  { z.s.Infof(format, args...) }
func (z *ZapLogger) Warnf(format string, args ...any)  { z.s.Warnf(format, args...) }
func (z *ZapLogger) Errorf(format string, args ...any) { z.s.Errorf(format, args...) }
