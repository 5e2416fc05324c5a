package beacon

import (
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"tsbeacon/internal/config"
	"tsbeacon/internal/models"
)

// packetConn is the subset of *net.UDPConn the send loop needs.
type packetConn interface {
	WriteToUDP(b []byte, addr *net.UDPAddr) (int, error)
	Close() error
}

// Beacon owns the broadcast socket for the entire life of the process and
// sends one timestamp datagram per interval to a fixed destination.
type Beacon struct {
	conn     packetConn
	dest     *net.UDPAddr
	interval time.Duration
	log      *slog.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

// Open binds an ephemeral UDP socket on the unspecified address of the
// destination's family and enables broadcast on it. Either failure is fatal
// to the caller; no datagram is ever sent on a half-set-up socket.
func Open(cfg *config.Config, parentLogger *slog.Logger) (*Beacon, error) {
	network, bind := bindAddr(cfg.Addr)
	conn, err := net.ListenUDP(network, bind)
	if err != nil {
		return nil, fmt.Errorf("bind UDP socket on %s: %w", bind, err)
	}
	if err := enableBroadcast(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable broadcast: %w", err)
	}
	return &Beacon{
		conn:     conn,
		dest:     net.UDPAddrFromAddrPort(netip.AddrPortFrom(cfg.Addr, cfg.Port)),
		interval: cfg.Interval,
		log:      parentLogger.With(slog.String("component", "beacon")),
		now:      time.Now,
		sleep:    time.Sleep,
	}, nil
}

// bindAddr picks the local bind address matching the destination's family.
// The local port is always ephemeral; the beacon never needs to know it.
func bindAddr(dst netip.Addr) (string, *net.UDPAddr) {
	if dst.Is4() || dst.Is4In6() {
		return "udp4", &net.UDPAddr{IP: net.IPv4zero}
	}
	return "udp6", &net.UDPAddr{IP: net.IPv6unspecified}
}

// Run executes the send loop without bound. A send failure is logged and the
// loop continues unchanged; only a fatal clock condition makes Run return.
// There is no internal stop condition on the success path.
func (b *Beacon) Run() error {
	for {
		ms, err := models.EpochMillis(b.now())
		if err != nil {
			return err
		}
		payload := models.EncodeTimestamp(ms)
		if _, err := b.conn.WriteToUDP(payload[:], b.dest); err != nil {
			b.log.Error("Send failed.", "dest", b.dest.String(), "error", err)
		} else {
			b.log.Info("Sent broadcast.", "dest", b.dest.String(), "ts_ms", ms)
		}
		b.sleep(b.interval)
	}
}

// Close releases the socket. Normal operation never calls it; the socket is
// released implicitly on process exit.
func (b *Beacon) Close() error {
	return b.conn.Close()
}
