package sep

import "time"

// DaysBetween returns the number of whole days from a to b. Fractional
// days truncate: 47 hours is 1 day. Negative spans clamp to 0 so a
// skewed clock never produces a negative staleness count.
func DaysBetween(a, b time.Time) int {
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
