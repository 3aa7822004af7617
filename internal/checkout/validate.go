package checkout

import (
	"time"

	"campus-preorder/internal/cart"
	"campus-preorder/internal/model"
)

// Draft is everything the student picked at checkout. It is never stored.
type Draft struct {
	Cart          cart.Cart
	Location      *model.PickupLocation
	Slot          *model.TimeSlot
	Day           Day
	Notes         string
	PaymentMethod model.PaymentMethod
	PaymentNonce  string
}

// Validate runs the placement preconditions against now and returns the
// pickup instant. now must be read at submission time, not reused from when
// the slot list was shown.
func Validate(d Draft, now time.Time) (time.Time, error) {
	if d.Location == nil || d.Slot == nil {
		return time.Time{}, newOrderError(ErrMissingSelection, nil)
	}
	if d.Cart.IsEmpty() {
		return time.Time{}, newOrderError(ErrEmptyCart, nil)
	}

	weekday := TargetDate(now, d.Day).Weekday()
	if weekday == time.Sunday {
		return time.Time{}, newOrderError(ErrUnavailableDay, nil)
	}

	label, ok := StartLabel(*d.Slot)
	if !ok {
		return time.Time{}, newOrderError(ErrInvalidTime, nil)
	}
	if !SlotOffered(weekday, label) {
		return time.Time{}, newOrderError(ErrSlotUnavailable, nil)
	}

	pickupAt, err := PickupTime(*d.Slot, now, d.Day)
	if err != nil {
		return time.Time{}, newOrderError(ErrInvalidTime, err)
	}
	if pickupAt.Sub(now) < MinLeadTime {
		return time.Time{}, newOrderError(ErrTooSoon, nil)
	}
	return pickupAt, nil
}

// Quote is the price breakdown shown before placing an order.
type Quote struct {
	Subtotal   int64 `json:"subtotal"`
	ServiceFee int64 `json:"service_fee"`
	Total      int64 `json:"total"`
}

func NewQuote(c cart.Cart, location *model.PickupLocation) Quote {
	subtotal := c.Subtotal()
	fee := ServiceFee(location)
	return Quote{
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      subtotal + fee,
	}
}
