package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// colorLogger implements stego.Logger, prefixing every line with a
// run-scoped correlation id so interleaved --verbose output from
// separate jpegsteg invocations (e.g. piped in a shell script) can be
// told apart in a shared log.
type colorLogger struct {
	runID string
}

func newColorLogger() *colorLogger {
	return &colorLogger{runID: uuid.NewString()[:8]}
}

func (l *colorLogger) Logf(format string, args ...interface{}) {
	prefix := color.New(color.FgCyan).Sprintf("[%s]", l.runID)
	fmt.Printf("%s %s\n", prefix, fmt.Sprintf(format, args...))
}
