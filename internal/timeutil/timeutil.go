package timeutil

import "time"

// AtOffset renders an epoch instant in a fixed zone given as seconds east of
// UTC, the form schedule providers declare airport offsets in. A calendar-day
// comparison done in this zone matches the departure board at that airport,
// not the host machine's clock.
func AtOffset(epoch int64, offsetSec int64) time.Time {
	return time.Unix(epoch, 0).In(time.FixedZone("", int(offsetSec)))
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SliceHHMM pulls the HH:MM display text out of a fixed-format
// "YYYY-MM-DD HH:MM[:SS]" timestamp. Returns "" when the string is too short
// to hold one.
func SliceHHMM(ts string) string {
	if len(ts) < 16 {
		return ""
	}
	return ts[11:16]
}
