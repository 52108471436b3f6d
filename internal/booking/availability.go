package booking

import (
	"time"

	"casabook/server/internal/models"
)

// BlockingStatuses are the stored statuses whose date ranges make a
// property unavailable. Pending reservations block too: they already
// carry a captured payment and letting a second request through would
// double-book the dates while the first waits out the payout hold.
var BlockingStatuses = []string{string(StatusPending), string(StatusConfirmed)}

// ValidateRange checks a candidate (start, end) pair against the
// property's availability window. Zero-night stays are rejected, and
// each side of the window violation gets its own error.
func ValidateRange(property *models.PropertyAttributes, start, end time.Time) error {
	if !end.After(start) {
		return ErrEndNotAfterStart
	}
	if property.AvailableFrom != "" {
		from, err := ParseDate(property.AvailableFrom)
		if err == nil && start.Before(from) {
			return ErrBeforeAvailable
		}
	}
	if property.AvailableUntil != "" {
		until, err := ParseDate(property.AvailableUntil)
		if err == nil && end.After(until) {
			return ErrAfterAvailable
		}
	}
	return nil
}

// RangeFree reports whether the candidate range avoids every existing
// blocking reservation, using inclusive day boundaries.
func RangeFree(existing []models.ReservationEntry, start, end time.Time) bool {
	for i := range existing {
		exStart, err := ParseDate(existing[i].Attributes.StartDate)
		if err != nil {
			continue
		}
		exEnd, err := ParseDate(existing[i].Attributes.EndDate)
		if err != nil {
			continue
		}
		if Overlaps(start, end, exStart, exEnd) {
			return false
		}
	}
	return true
}
