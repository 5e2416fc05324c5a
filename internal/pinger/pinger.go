package pinger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-ping/ping"
)

// pingFunc is a package-level variable that defaults to the real pingOnce,
// swapped out in tests.
var pingFunc = pingOnce

// Preflight sends a single unprivileged echo request to the destination and
// logs the outcome. Broadcast and multicast destinations routinely stay
// silent, so an unreachable result is informational, never fatal.
func Preflight(addr string, timeout time.Duration, parentLogger *slog.Logger) {
	log := parentLogger.With(slog.String("component", "preflight"))
	rtt, err := pingFunc(addr, timeout)
	if err != nil {
		log.Warn("Destination did not answer echo request.", "addr", addr, "error", err)
		return
	}
	log.Info("Destination answered echo request.", "addr", addr, "rtt", rtt)
}

func pingOnce(addr string, timeout time.Duration) (time.Duration, error) {
	p, err := ping.NewPinger(addr)
	if err != nil {
		return 0, err
	}
	p.Count = 1
	p.Timeout = timeout
	p.SetPrivileged(false)
	if err := p.Run(); err != nil {
		return 0, err
	}
	stats := p.Statistics()
	if stats.PacketsRecv == 0 {
		return 0, fmt.Errorf("no reply within %s", timeout)
	}
	return stats.AvgRtt, nil
}
