package history

import (
	"fmt"
	"time"
)

// RelativeTime buckets a record timestamp against now for display:
// under a minute "just now", then minutes, hours and days, and past a week
// the calendar date.
func RelativeTime(ts, now time.Time) string {
	diff := now.Sub(ts)

	mins := int(diff.Minutes())
	if mins < 1 {
		return "just now"
	}

	if mins < 60 {
		return fmt.Sprintf("%d min ago", mins)
	}

	hours := int(diff.Hours())
	if hours < 24 {
		return fmt.Sprintf("%d %s ago", hours, plural("hour", hours))
	}

	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%d %s ago", days, plural("day", days))
	}

	return ts.Format("1/2/2006")
}

func plural(unit string, n int) string {
	if n > 1 {
		return unit + "s"
	}

	return unit
}
