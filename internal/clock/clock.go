// Package clock provides the time source used by slot filtering and order
// validation, so both can be pinned to a fixed instant in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// Real reads the system clock in a fixed location. The campus timezone decides
// which calendar day "today" is.
type Real struct {
	Location *time.Location
}

func (r Real) Now() time.Time {
	if r.Location == nil {
		return time.Now()
	}
	return time.Now().In(r.Location)
}

type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}
