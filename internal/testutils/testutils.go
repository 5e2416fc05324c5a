package testutils

import (
	"bytes"
	"log/slog"
)

// SetupTestLogger creates a slog.Logger writing to a bytes.Buffer at DEBUG
// level, so tests can assert on emitted log lines. Returns the logger and
// the buffer.
func SetupTestLogger() (*slog.Logger, *bytes.Buffer) {
	var logBuf bytes.Buffer
	handler := slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), &logBuf
}
