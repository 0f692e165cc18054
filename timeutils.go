package journeyplanner

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SecondsSinceMidnight converts a wall-clock instant to the dataset's time
// base: seconds since local midnight.
func SecondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// FormatClock renders seconds-since-midnight as HH:MM:SS. Hours past 24 are
// kept as-is ("25:30:00"): post-midnight service times stay on the service
// day they belong to.
func FormatClock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec/60)%60, sec%60)
}

// ParseClock converts "HH:MM" or "HH:MM:SS" to seconds since midnight,
// accepting hours past 23. Returns -1 when unparsable.
func ParseClock(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return -1
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || m < 0 || m > 59 {
		return -1
	}
	sec := 0
	if len(parts) == 3 {
		var err3 error
		sec, err3 = strconv.Atoi(parts[2])
		if err3 != nil || sec < 0 || sec > 59 {
			return -1
		}
	}
	return h*3600 + m*60 + sec
}
