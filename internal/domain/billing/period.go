package billing

import (
	"fmt"
	"time"

	"github.com/adspace/backoffice/internal/domain/shared"
)

// Period is a calendar month
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewPeriod creates a validated period
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, shared.NewValidationError("INVALID_PERIOD", "Month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return Period{}, shared.NewValidationError("INVALID_PERIOD", "Year must be between 2000 and 2100")
	}
	return Period{Year: year, Month: month}, nil
}

// ParsePeriod parses a "YYYY-MM" string
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, shared.NewValidationError("INVALID_PERIOD", "Period must be in YYYY-MM format")
	}
	return NewPeriod(t.Year(), int(t.Month()))
}

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Start returns the first day of the month
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the month
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// Contains reports whether the date falls into the month
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

// String returns the period as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
