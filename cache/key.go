package cache

import (
	"sort"
	"strconv"
	"strings"
)

// Departure-time bucket widths. Peak service is dense enough that 5-minute
// buckets still align with real headways; off-peak benefits from coarser
// buckets through better reuse.
const (
	peakBucketSeconds    = 5 * 60
	offPeakBucketSeconds = 15 * 60
)

// RoundDeparture floors a departure time (seconds since local midnight) to
// its cache bucket. Flooring, never rounding up: a cached journey must not
// depart later than the caller asked for. Peak hours are 07:00-09:59 and
// 17:00-19:59; times past 24:00 wrap for peak detection only.
func RoundDeparture(sec int) int {
	hour := (sec / 3600) % 24
	bucket := offPeakBucketSeconds
	if (hour >= 7 && hour < 10) || (hour >= 17 && hour < 20) {
		bucket = peakBucketSeconds
	}
	return sec - sec%bucket
}

// Key builds the canonical cache key for a routing query. Both id lists are
// sorted ascending first so that permuted inputs share an entry. The
// departure time is expected to be pre-rounded via RoundDeparture.
func Key(originIDs, destinationIDs []int, departure int) string {
	var b strings.Builder
	writeSorted(&b, originIDs)
	b.WriteByte('|')
	writeSorted(&b, destinationIDs)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(departure))
	return b.String()
}

func writeSorted(b *strings.Builder, ids []int) {
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Ints(sorted)
	for i, id := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
}
