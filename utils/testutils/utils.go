// Package testutils provides helpers to inspect the warnings
// emitted during tests.
package testutils

import (
	"testing"

	"github.com/benoitkugler/webstyle/logger"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Capturer records the messages logged at warning level or above.
type Capturer struct {
	logs *observer.ObservedLogs
}

// CaptureLogs redirects the loggers until the end of the test.
func CaptureLogs(t testing.TB) *Capturer {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	logger.SetCore(core)
	t.Cleanup(logger.Discard)
	return &Capturer{logs: logs}
}

// Logs returns the messages logged so far.
func (c *Capturer) Logs() []string {
	entries := c.logs.All()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func (c *Capturer) AssertNoLogs(t testing.TB) {
	t.Helper()
	if logs := c.Logs(); len(logs) != 0 {
		t.Fatalf("expected no logs, got (%d): \n%v", len(logs), logs)
	}
}
