package flow

import (
	"fmt"
	"time"
)

// Frequency selects the bucket length used to group items into periods.
type Frequency string

const (
	Daily   Frequency = "day"
	Weekly  Frequency = "week"
	Monthly Frequency = "month"
)

// ParseFrequency maps a configuration string to a Frequency. An empty string
// defaults to Monthly, matching the upstream tool's resample default.
func ParseFrequency(s string) (Frequency, error) {
	switch s {
	case "":
		return Monthly, nil
	case "day", "daily":
		return Daily, nil
	case "week", "weekly":
		return Weekly, nil
	case "month", "monthly":
		return Monthly, nil
	}
	return "", fmt.Errorf("unknown frequency %q (want day, week or month)", s)
}

// PeriodEnd returns the bucket identifier for a timestamp: the last calendar
// day of its period, at midnight. Months end on their last day, weeks run
// Monday through Sunday, days are their own bucket.
func PeriodEnd(t time.Time, f Frequency) time.Time {
	switch f {
	case Monthly:
		firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
		return firstOfNext.AddDate(0, 0, -1)
	case Weekly:
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday
		}
		return time.Date(t.Year(), t.Month(), t.Day()+(7-weekday), 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}
