package pinger

import (
	"errors"
	"strings"
	"testing"
	"time"

	"tsbeacon/internal/testutils"
)

func TestPreflightReachable(t *testing.T) {
	original := pingFunc
	defer func() { pingFunc = original }()
	pingFunc = func(addr string, timeout time.Duration) (time.Duration, error) {
		return 3 * time.Millisecond, nil
	}

	log, logBuf := testutils.SetupTestLogger()
	Preflight("192.168.1.1", time.Second, log)

	if !strings.Contains(logBuf.String(), "answered echo request") {
		t.Errorf("expected reachable log line, got: %s", logBuf.String())
	}
}

func TestPreflightUnreachableIsNotFatal(t *testing.T) {
	original := pingFunc
	defer func() { pingFunc = original }()
	pingFunc = func(addr string, timeout time.Duration) (time.Duration, error) {
		return 0, errors.New("no reply within 1s")
	}

	log, logBuf := testutils.SetupTestLogger()
	// Must return normally; a silent destination is expected for broadcast.
	Preflight("255.255.255.255", time.Second, log)

	if !strings.Contains(logBuf.String(), "did not answer") {
		t.Errorf("expected unreachable log line, got: %s", logBuf.String())
	}
	if !strings.Contains(logBuf.String(), "level=WARN") {
		t.Errorf("unreachable must log at WARN, got: %s", logBuf.String())
	}
}
