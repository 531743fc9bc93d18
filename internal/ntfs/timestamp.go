package ntfs

import "time"

// ntfsEpoch is 1601-01-01 00:00:00 UTC, the origin of NTFS's 100-nanosecond
// tick timestamps.
var ntfsEpoch = time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)

// Ticks is a raw NTFS timestamp: 100-nanosecond intervals since
// 1601-01-01 UTC. Per the design decision in SPEC_FULL.md §6, no field
// silently converts to calendar time; Time() does so on demand.
type Ticks uint64

// Time converts the raw tick count to a time.Time.
func (t Ticks) Time() time.Time {
	// Split into seconds first: t*100 ns overflows time.Duration after ~1893.
	secs := int64(t / 10_000_000)
	nsec := int64(t%10_000_000) * 100
	return time.Unix(ntfsEpoch.Unix()+secs, nsec).UTC()
}
