package staircase

import "log"

type nopLogger struct{}

func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warnf(string, ...any) {}

type stdLogger struct {
	l *log.Logger
}

// NewStdLogger adapts a *log.Logger, prefixing each message with its level.
// A nil l uses the standard logger.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}
	return stdLogger{l: l}
}

func (s stdLogger) Infof(format string, args ...any) {
	s.l.Printf("INFO "+format, args...)
}

func (s stdLogger) Warnf(format string, args ...any) {
	s.l.Printf("WARN "+format, args...)
}
