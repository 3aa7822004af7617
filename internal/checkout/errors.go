package checkout

import (
	"errors"
	"fmt"
)

// Precondition failures. No store call has been made when one of these is returned.
var (
	ErrMissingSelection = errors.New("pickup location and time slot must be selected")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrUnavailableDay   = errors.New("orders are not accepted on sundays")
	ErrInvalidTime      = errors.New("pickup time could not be determined")
	ErrSlotUnavailable  = errors.New("time slot is not offered on that day")
	ErrTooSoon          = errors.New("pickup must be at least 2 hours from now")
)

// Placement failures.
var (
	ErrCreateFailed        = errors.New("order could not be created")
	ErrItemsFailed         = errors.New("order items could not be saved")
	ErrCompensationFailed  = errors.New("order rollback failed")
	ErrDuplicateSubmission = errors.New("an order is already being placed")
)

// OrderError pairs one of the sentinel kinds above with its cause. Both match
// errors.Is.
type OrderError struct {
	Kind error
	Err  error
}

func (e *OrderError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *OrderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newOrderError(kind, cause error) *OrderError {
	return &OrderError{Kind: kind, Err: cause}
}

// IsPrecondition reports whether err was raised before any write happened.
func IsPrecondition(err error) bool {
	for _, kind := range []error{
		ErrMissingSelection,
		ErrEmptyCart,
		ErrUnavailableDay,
		ErrInvalidTime,
		ErrSlotUnavailable,
		ErrTooSoon,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// Code is the stable machine-readable name of an order error kind, used in
// API responses.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrMissingSelection):
		return "missing_selection"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrUnavailableDay):
		return "unavailable_day"
	case errors.Is(err, ErrInvalidTime):
		return "invalid_time"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, ErrTooSoon):
		return "too_soon"
	case errors.Is(err, ErrCompensationFailed):
		return "compensation_failed"
	case errors.Is(err, ErrCreateFailed):
		return "create_failed"
	case errors.Is(err, ErrItemsFailed):
		return "items_failed"
	case errors.Is(err, ErrDuplicateSubmission):
		return "duplicate_submission"
	default:
		return ""
	}
}
