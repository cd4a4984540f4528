package shared

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// NormalizeDate drops the clock part and pins the date to UTC midnight
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewValidationError("INVALID_DATE", "Date must be in YYYY-MM-DD format")
	}
	return t, nil
}

// IntervalsOverlap reports whether the closed intervals [aStart, aEnd] and [bStart, bEnd] intersect.
// A nil end means the interval is open-ended.
func IntervalsOverlap(aStart time.Time, aEnd *time.Time, bStart, bEnd time.Time) bool {
	if aStart.After(bEnd) {
		return false
	}
	if aEnd != nil && aEnd.Before(bStart) {
		return false
	}
	return true
}

// ParseOptionalID parses an optional UUID filter value; "" yields nil
func ParseOptionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, NewValidationError("INVALID_ID", "Invalid identifier: "+s)
	}
	return &id, nil
}
