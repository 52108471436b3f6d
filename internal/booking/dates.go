package booking

import (
	"fmt"
	"time"
)

// dateLayout is the calendar-day format used on the CMS wire.
const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar day in UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

// FormatDate renders a calendar day to the wire format.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Overlaps reports whether two inclusive day ranges share at least one
// day: aStart <= bEnd && aEnd >= bStart.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// Nights is the number of nights between check-in and check-out.
func Nights(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
