package models

import (
	"encoding/binary"
	"fmt"
	"time"
)

// PayloadSize is the exact size of one beacon datagram: an unsigned 64-bit
// millisecond-epoch timestamp in network byte order.
const PayloadSize = 8

var epoch = time.Unix(0, 0).UTC()

// EpochMillis returns the number of whole milliseconds between the Unix epoch
// and t. A clock before the epoch or a millisecond count that does not fit in
// 64 bits is an error, never a truncated value.
func EpochMillis(t time.Time) (uint64, error) {
	ms := t.UnixMilli()
	if ms < 0 {
		if t.Before(epoch) {
			return 0, fmt.Errorf("system clock reports %s, before the Unix epoch", t.UTC().Format(time.RFC3339))
		}
		return 0, fmt.Errorf("timestamp overflow: %s exceeds 64 bits of milliseconds", t.UTC().Format(time.RFC3339))
	}
	return uint64(ms), nil
}

// EncodeTimestamp serializes ms as exactly PayloadSize bytes, big-endian.
func EncodeTimestamp(ms uint64) [PayloadSize]byte {
	var buf [PayloadSize]byte
	binary.BigEndian.PutUint64(buf[:], ms)
	return buf
}

// DecodeTimestamp is the inverse of EncodeTimestamp. The payload must be
// exactly PayloadSize bytes.
func DecodeTimestamp(p []byte) (uint64, error) {
	if len(p) != PayloadSize {
		return 0, fmt.Errorf("payload must be exactly %d bytes, got %d", PayloadSize, len(p))
	}
	return binary.BigEndian.Uint64(p), nil
}
