package helper

import (
	"time"
)

func TimeRightNow() time.Time {
	return time.Now().UTC()
}

// DurationMS converts a duration to whole milliseconds for JSON payloads.
func DurationMS(d time.Duration) int64 {
	return d.Milliseconds()
}
