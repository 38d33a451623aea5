// Package schedule generates the unadjusted quasi-coupon dates of a bond.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/b3yield/internal/calendar"
)

var (
	// ErrIrregularPeriod is returned when the issue-to-maturity span is not a
	// whole number of coupon periods and no stub is allowed.
	ErrIrregularPeriod = errors.New("span is not a whole number of coupon periods")
	// ErrInvalidSpan is returned for a maturity not after issue or an
	// unsupported frequency.
	ErrInvalidSpan = errors.New("invalid schedule span")
)

// Frequency is the number of coupon periods per year.
type Frequency int

const (
	Annual     Frequency = 1
	SemiAnnual Frequency = 2
	Quarterly  Frequency = 4
	Bimonthly  Frequency = 6
	Monthly    Frequency = 12
)

// PeriodsPerYear returns f as an int.
func (f Frequency) PeriodsPerYear() int { return int(f) }

// Months is the period length. It is 0 for frequencies that do not divide a year.
func (f Frequency) Months() int {
	if f <= 0 || 12%int(f) != 0 {
		return 0
	}
	return 12 / int(f)
}

// Valid reports whether the frequency has a whole-month period.
func (f Frequency) Valid() bool { return f.Months() > 0 }

func (f Frequency) String() string {
	switch f {
	case Annual:
		return "annual"
	case SemiAnnual:
		return "semiannual"
	case Quarterly:
		return "quarterly"
	case Bimonthly:
		return "bimonthly"
	case Monthly:
		return "monthly"
	}
	return "frequency(" + strconv.Itoa(int(f)) + ")"
}

// ParseFrequency accepts a name ("semiannual") or a periods-per-year count ("2").
func ParseFrequency(s string) (Frequency, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "annual", "yearly", "a":
		return Annual, nil
	case "semiannual", "semi-annual", "s":
		return SemiAnnual, nil
	case "quarterly", "q":
		return Quarterly, nil
	case "bimonthly", "b":
		return Bimonthly, nil
	case "monthly", "m":
		return Monthly, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: unknown frequency %q", ErrInvalidSpan, s)
	}
	f := Frequency(n)
	if !f.Valid() {
		return 0, fmt.Errorf("%w: %d periods per year does not divide 12 months", ErrInvalidSpan, n)
	}
	return f, nil
}

// StubPolicy says where an irregular period goes when the span is not a
// whole number of periods.
type StubPolicy int

const (
	// StubNone rejects irregular spans.
	StubNone StubPolicy = iota
	// StubShortFront rolls back from maturity; the first period is short.
	StubShortFront
	// StubLongFront rolls back from maturity; the first period absorbs the remainder.
	StubLongFront
	// StubShortBack rolls forward from issue; the last period is short.
	StubShortBack
	// StubLongBack rolls forward from issue; the last period absorbs the remainder.
	StubLongBack
)

var stubNames = map[StubPolicy]string{
	StubNone:       "none",
	StubShortFront: "short_front",
	StubLongFront:  "long_front",
	StubShortBack:  "short_back",
	StubLongBack:   "long_back",
}

func (p StubPolicy) String() string {
	if n, ok := stubNames[p]; ok {
		return n
	}
	return "stub(" + strconv.Itoa(int(p)) + ")"
}

// ParseStubPolicy maps names such as "short_front" or "short-front". Empty is StubNone.
func ParseStubPolicy(s string) (StubPolicy, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if s == "" {
		return StubNone, nil
	}
	for p, n := range stubNames {
		if n == s {
			return p, nil
		}
	}
	return StubNone, fmt.Errorf("unknown stub policy %q", s)
}

// Schedule is a strictly increasing list of unadjusted dates, issue first and
// maturity last.
type Schedule struct {
	dates []time.Time
}

// Dates returns a copy of the schedule dates.
func (s Schedule) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

func (s Schedule) Len() int { return len(s.dates) }

func (s Schedule) Start() time.Time {
	if len(s.dates) == 0 {
		return time.Time{}
	}
	return s.dates[0]
}

func (s Schedule) End() time.Time {
	if len(s.dates) == 0 {
		return time.Time{}
	}
	return s.dates[len(s.dates)-1]
}

// Generate lays out the coupon dates between issue and maturity. Each date is
// computed from the anchor directly, clamped to month end, so long schedules
// do not drift.
func Generate(issue, maturity time.Time, freq Frequency, stub StubPolicy) (Schedule, error) {
	issue, maturity = calendar.Normalize(issue), calendar.Normalize(maturity)
	if !maturity.After(issue) {
		return Schedule{}, fmt.Errorf("%w: maturity %s not after issue %s",
			ErrInvalidSpan, maturity.Format("2006-01-02"), issue.Format("2006-01-02"))
	}
	step := freq.Months()
	if step == 0 {
		return Schedule{}, fmt.Errorf("%w: unsupported frequency %d", ErrInvalidSpan, int(freq))
	}

	var dates []time.Time
	switch stub {
	case StubNone, StubShortBack, StubLongBack:
		dates = rollForward(issue, maturity, step, stub == StubLongBack)
	case StubShortFront, StubLongFront:
		dates = rollBackward(issue, maturity, step, stub == StubLongFront)
	default:
		return Schedule{}, fmt.Errorf("unknown stub policy %d", int(stub))
	}

	if stub == StubNone && !regular(dates, step) {
		return Schedule{}, fmt.Errorf("%w: %s to %s every %d months",
			ErrIrregularPeriod, issue.Format("2006-01-02"), maturity.Format("2006-01-02"), step)
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return Schedule{}, fmt.Errorf("%w: dates not increasing at %s", ErrInvalidSpan, dates[i].Format("2006-01-02"))
		}
	}
	return Schedule{dates: dates}, nil
}

// rollForward returns issue, issue+k*step (< maturity), maturity. With long
// set, an irregular final period is merged into the one before it.
func rollForward(issue, maturity time.Time, step int, long bool) []time.Time {
	dates := []time.Time{issue}
	exact := false
	for k := 1; ; k++ {
		d := AddMonths(issue, k*step)
		if !d.Before(maturity) {
			exact = d.Equal(maturity)
			break
		}
		dates = append(dates, d)
	}
	if long && !exact && len(dates) > 1 {
		dates = dates[:len(dates)-1]
	}
	return append(dates, maturity)
}

// rollBackward mirrors rollForward from maturity towards issue.
func rollBackward(issue, maturity time.Time, step int, long bool) []time.Time {
	rev := []time.Time{maturity}
	exact := false
	for k := 1; ; k++ {
		d := AddMonths(maturity, -k*step)
		if !d.After(issue) {
			exact = d.Equal(issue)
			break
		}
		rev = append(rev, d)
	}
	if long && !exact && len(rev) > 1 {
		rev = rev[:len(rev)-1]
	}
	rev = append(rev, issue)

	dates := make([]time.Time, len(rev))
	for i, d := range rev {
		dates[len(rev)-1-i] = d
	}
	return dates
}

// regular reports whether every consecutive pair is exactly one period apart
// when measured from the first date.
func regular(dates []time.Time, step int) bool {
	for k := 1; k < len(dates); k++ {
		if !AddMonths(dates[0], k*step).Equal(dates[k]) {
			return false
		}
	}
	return true
}

// AddMonths shifts t by n months, clamping the day to the target month's end
// (31 Jan + 1 month = 28/29 Feb).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	ty := y + floorDiv(total, 12)
	tm := time.Month(total - floorDiv(total, 12)*12 + 1)
	if last := daysIn(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
