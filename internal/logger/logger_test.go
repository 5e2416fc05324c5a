package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level      string
		debugOn    bool
		warnOnlyOn bool
	}{
		{level: "DEBUG", debugOn: true},
		{level: "debug", debugOn: true},
		{level: "INFO"},
		{level: "WARN", warnOnlyOn: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, closeFn, err := New("", tt.level)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer closeFn()

			ctx := context.Background()
			if got := log.Enabled(ctx, slog.LevelDebug); got != tt.debugOn {
				t.Errorf("debug enabled: got %t, want %t", got, tt.debugOn)
			}
			if tt.warnOnlyOn && log.Enabled(ctx, slog.LevelInfo) {
				t.Error("info must be disabled at WARN level")
			}
		})
	}
}

func TestNewInvalidLevelWarnsAndDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	log, closeFn, err := New("", "LOUD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()

	if !strings.Contains(buf.String(), "Invalid log level") {
		t.Errorf("expected a warning about the invalid level, got: %s", buf.String())
	}
	ctx := context.Background()
	if log.Enabled(ctx, slog.LevelDebug) || !log.Enabled(ctx, slog.LevelInfo) {
		t.Error("invalid level must default to INFO")
	}
}
