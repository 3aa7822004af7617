package model

type OrderStatus string

const (
	StatusScheduled OrderStatus = "scheduled"
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
	StatusMissed    OrderStatus = "missed"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusScheduled: {StatusConfirmed: true, StatusCancelled: true, StatusMissed: true},
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true, StatusMissed: true},
	StatusConfirmed: {StatusPreparing: true, StatusCancelled: true, StatusMissed: true},
	StatusPreparing: {StatusReady: true, StatusCancelled: true, StatusMissed: true},
	StatusReady:     {StatusCompleted: true, StatusCancelled: true, StatusMissed: true},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusMissed:    {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(validNext[s]) == 0
}

// StudentCancellable reports whether the student may still cancel: only
// before the vendor has confirmed.
func (s OrderStatus) StudentCancellable() bool {
	return s == StatusScheduled || s == StatusPending
}
