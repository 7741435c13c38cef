// utils/timeutils.go
package utils

import (
	"strconv"
	"strings"
)

// ToMinutes converts an "HH:MM" wall-clock string to a minute offset from
// midnight. A malformed or non-numeric component parses as 0 rather than
// erroring; callers validate the format upstream (see ValidateTime).
func ToMinutes(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes := 0
	if len(parts) > 1 {
		minutes, _ = strconv.Atoi(parts[1])
	}
	return hours*60 + minutes
}

// IntervalsOverlap reports whether the half-open intervals [aStart, aEnd)
// and [bStart, bEnd) overlap. An appointment ending exactly when another
// starts does not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
