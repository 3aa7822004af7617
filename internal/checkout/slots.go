package checkout

import (
	"fmt"
	"strings"
	"time"

	"campus-preorder/internal/model"
)

// MinLeadTime is how far ahead of pickup an order has to be placed. A slot
// exactly MinLeadTime away is still offered.
const MinLeadTime = 2 * time.Hour

type Day string

const (
	Today    Day = "today"
	Tomorrow Day = "tomorrow"
)

// ParseDay accepts "today" and "tomorrow"; empty means today.
func ParseDay(s string) (Day, error) {
	switch Day(strings.ToLower(strings.TrimSpace(s))) {
	case "", Today:
		return Today, nil
	case Tomorrow:
		return Tomorrow, nil
	default:
		return "", fmt.Errorf("unknown pickup day %q", s)
	}
}

var (
	weekdayStarts  = map[string]bool{"09:00": true, "11:00": true, "13:00": true, "15:00": true, "17:00": true}
	saturdayStarts = map[string]bool{"09:00": true, "11:00": true, "13:00": true}
)

// TargetDate is midnight of the pickup day in now's location.
func TargetDate(now time.Time, day Day) time.Time {
	y, m, d := now.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if day == Tomorrow {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// StartLabel returns the normalised "HH:MM" start of a slot, taken from the
// range label and falling back to StartTime.
func StartLabel(slot model.TimeSlot) (string, bool) {
	raw := slot.TimeRangeLabel
	if i := strings.Index(raw, "-"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = strings.TrimSpace(slot.StartTime)
	}

	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04"), true
		}
	}
	return "", false
}

// SlotOffered reports whether slots starting at label are sold on weekday.
func SlotOffered(weekday time.Weekday, label string) bool {
	switch weekday {
	case time.Sunday:
		return false
	case time.Saturday:
		return saturdayStarts[label]
	default:
		return weekdayStarts[label]
	}
}

// PickupTime is the absolute start of slot on the chosen day.
func PickupTime(slot model.TimeSlot, now time.Time, day Day) (time.Time, error) {
	label, ok := StartLabel(slot)
	if !ok {
		return time.Time{}, ErrInvalidTime
	}
	start, _ := time.Parse("15:04", label)

	date := TargetDate(now, day)
	return time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, date.Location()), nil
}

// AvailableSlots filters slots down to the ones a student can still pick for
// day, keeping input order. Sundays have none.
func AvailableSlots(slots []model.TimeSlot, now time.Time, day Day) []model.TimeSlot {
	weekday := TargetDate(now, day).Weekday()
	if weekday == time.Sunday {
		return []model.TimeSlot{}
	}

	out := make([]model.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		label, ok := StartLabel(slot)
		if !ok || !SlotOffered(weekday, label) {
			continue
		}
		at, err := PickupTime(slot, now, day)
		if err != nil {
			continue
		}
		if at.Sub(now) >= MinLeadTime {
			out = append(out, slot)
		}
	}
	return out
}
