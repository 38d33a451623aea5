// Package daycount converts date spans into year fractions.
package daycount

import (
	"fmt"
	"time"

	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/numeric"
)

const (
	// BusinessDaysPerYear is the ANBIMA year basis.
	BusinessDaysPerYear = 252
	// FractionDigits is where ANBIMA truncates the year fraction.
	FractionDigits = 14
)

// DayCount computes the fraction of a year between two dates.
type DayCount[T numeric.Number[T]] interface {
	YearFraction(start, end time.Time) (T, error)
}

// Business252 is the Brazilian business-day convention: business days in
// [start, end) over 252, truncated to 14 decimals.
type Business252[T numeric.Number[T]] struct {
	cal calendar.Calendar
}

var (
	_ DayCount[numeric.Float]   = Business252[numeric.Float]{}
	_ DayCount[numeric.Decimal] = Business252[numeric.Decimal]{}
)

// NewBusiness252 binds the convention to a calendar.
func NewBusiness252[T numeric.Number[T]](cal calendar.Calendar) (Business252[T], error) {
	if cal == nil {
		return Business252[T]{}, fmt.Errorf("%w: nil calendar", calendar.ErrUnavailable)
	}
	return Business252[T]{cal: cal}, nil
}

// BusinessDays counts business days in [start, end). It is 0 when end is not
// after start.
func (b Business252[T]) BusinessDays(start, end time.Time) (int, error) {
	if b.cal == nil {
		return 0, fmt.Errorf("%w: nil calendar", calendar.ErrUnavailable)
	}
	start, end = calendar.Normalize(start), calendar.Normalize(end)
	if !end.After(start) {
		return 0, nil
	}
	return b.cal.CountBusinessDays(start, end.AddDate(0, 0, -1))
}

func (b Business252[T]) YearFraction(start, end time.Time) (T, error) {
	var zero T
	n, err := b.BusinessDays(start, end)
	if err != nil {
		return zero, err
	}
	yf := numeric.Int[T](int64(n)).Div(numeric.Int[T](BusinessDaysPerYear))
	return yf.Truncate(FractionDigits)
}
