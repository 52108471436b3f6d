package booking

import "time"

// Status is the lifecycle state of a reservation. The first three are
// stored in the CMS; StatusCompleted is derived from the end date and
// never written back.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusConfirmed Status = "confirmada"
	StatusCancelled Status = "cancelada"
	StatusCompleted Status = "completada"
)

// Valid reports whether s is a status an API caller may request.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a stored reservation may move from one
// status to another. Completed is terminal and nothing re-enters pending.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	}
	return false
}

// EffectiveStatus maps a stored status and end date to the status shown
// to users: a confirmed stay whose end date has passed reads as completed.
func EffectiveStatus(stored Status, endDate string, now time.Time) Status {
	if stored != StatusConfirmed {
		return stored
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return stored
	}
	if end.Before(truncateToDay(now)) {
		return StatusCompleted
	}
	return stored
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
