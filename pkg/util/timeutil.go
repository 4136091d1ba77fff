package util

import "time"

// NowUTC is the clock used when a component is not handed its own.
func NowUTC() time.Time {
	return time.Now().UTC()
}
