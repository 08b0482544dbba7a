package validation

import (
	"fmt"
	"time"
)

// dueDateLayouts are the ISO-8601 shapes accepted for dueDate.
// Zone-less layouts are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDueDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range dueDateLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q", s)
}

// startOfDay normalizes t to 00:00:00 of its calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay normalizes t to 23:59:59.999999999 of its calendar day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999999, t.Location())
}

// highPriorityDeadline is the latest due date allowed for a high priority
// task: the end of the 7th day after now.
func highPriorityDeadline(now time.Time) time.Time {
	return endOfDay(now.AddDate(0, 0, 7))
}
