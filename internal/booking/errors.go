package booking

import "errors"

// Business-rule violations. These surface to the user as inline
// validation messages, never as server failures.
var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrEndNotAfterStart  = errors.New("end date must be after start date")
	ErrBeforeAvailable   = errors.New("start date is before the property's availability window")
	ErrAfterAvailable    = errors.New("end date is after the property's availability window")
	ErrDatesUnavailable  = errors.New("the selected dates are not available")
	ErrOwnProperty       = errors.New("owners cannot book their own property")
	ErrInvalidStatus     = errors.New("invalid reservation status")
	ErrInvalidTransition = errors.New("reservation status transition not allowed")
	ErrNotAllowed        = errors.New("not allowed to modify this reservation")
)

// IsValidation reports whether err is a business-rule violation rather
// than an upstream or transport failure.
func IsValidation(err error) bool {
	for _, candidate := range []error{
		ErrInvalidDate,
		ErrEndNotAfterStart,
		ErrBeforeAvailable,
		ErrAfterAvailable,
		ErrDatesUnavailable,
		ErrOwnProperty,
		ErrInvalidStatus,
		ErrInvalidTransition,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
