package engine

import (
	"context"

	"github.com/fluxionhq/fluxion/internal/ports"
)

// recordingLogger is a minimal ports.Logger used across engine tests to
// assert on log call counts without pulling in a real sink.
type recordingLogger struct {
	entries []string
}

func (l *recordingLogger) Debug(_ context.Context, msg string, _ ...interface{}) {
	l.entries = append(l.entries, "debug:"+msg)
}

func (l *recordingLogger) Info(_ context.Context, msg string, _ ...interface{}) {
	l.entries = append(l.entries, "info:"+msg)
}

func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...interface{}) {
	l.entries = append(l.entries, "warn:"+msg)
}

func (l *recordingLogger) Error(_ context.Context, msg string, _ ...interface{}) {
	l.entries = append(l.entries, "error:"+msg)
}

func (l *recordingLogger) With(_ ...interface{}) ports.Logger {
	return l
}
