package calendar

import (
	"fmt"
	"sort"
	"time"
)

// ANBIMA is the name of the Brazilian national-holiday calendar used for
// federal bond settlement.
const ANBIMA = "ANBIMA"

const (
	anbimaFirstYear = 1950
	anbimaLastYear  = 2199
)

// Rule yields the holidays of a given year.
type Rule func(year int) []time.Time

// Fixed is a holiday on the same month/day every year.
func Fixed(month time.Month, day int) Rule {
	return FixedSince(0, month, day)
}

// FixedSince is a fixed holiday observed from the given year onwards.
func FixedSince(since int, month time.Month, day int) Rule {
	return func(year int) []time.Time {
		if year < since {
			return nil
		}
		return []time.Time{Date(year, month, day)}
	}
}

// EasterOffset is a movable feast at a fixed distance from Easter Sunday.
func EasterOffset(days int) Rule {
	return func(year int) []time.Time {
		return []time.Time{EasterSunday(year).AddDate(0, 0, days)}
	}
}

// anbimaRules are the national holidays observed by ANBIMA.
var anbimaRules = []Rule{
	Fixed(time.January, 1),              // Confraternização Universal
	EasterOffset(-48),                   // Carnival Monday
	EasterOffset(-47),                   // Carnival Tuesday
	EasterOffset(-2),                    // Good Friday
	Fixed(time.April, 21),               // Tiradentes
	Fixed(time.May, 1),                  // Labour Day
	EasterOffset(60),                    // Corpus Christi
	Fixed(time.September, 7),            // Independence Day
	Fixed(time.October, 12),             // Nossa Senhora Aparecida
	Fixed(time.November, 2),             // All Souls' Day
	Fixed(time.November, 15),            // Proclamation of the Republic
	FixedSince(2024, time.November, 20), // Black Consciousness Day (Lei 14.759/2023)
	Fixed(time.December, 25),            // Christmas
}

// HolidayCalendar is a weekend + holiday-list calendar over a bounded range of
// years. All holidays are materialised at construction; queries only read.
type HolidayCalendar struct {
	name      string
	firstYear int
	lastYear  int
	holidays  map[time.Time]struct{}
	// weekday holidays, sorted, for range counting
	weekdayHolidays []time.Time
}

var _ Calendar = (*HolidayCalendar)(nil)

// NewHolidayCalendar expands rules over [firstYear, lastYear] and adds the
// extra dates (ad-hoc closures).
func NewHolidayCalendar(name string, firstYear, lastYear int, rules []Rule, extra ...time.Time) (*HolidayCalendar, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty calendar name", ErrUnavailable)
	}
	if lastYear < firstYear {
		return nil, fmt.Errorf("%w: %s covers no years (%d..%d)", ErrUnavailable, name, firstYear, lastYear)
	}

	c := &HolidayCalendar{
		name:      name,
		firstYear: firstYear,
		lastYear:  lastYear,
		holidays:  make(map[time.Time]struct{}, (lastYear-firstYear+1)*len(rules)),
	}
	add := func(d time.Time) {
		d = Normalize(d)
		if _, dup := c.holidays[d]; dup {
			return
		}
		c.holidays[d] = struct{}{}
		if !isWeekend(d) {
			c.weekdayHolidays = append(c.weekdayHolidays, d)
		}
	}
	for y := firstYear; y <= lastYear; y++ {
		for _, r := range rules {
			for _, d := range r(y) {
				add(d)
			}
		}
	}
	for _, d := range extra {
		add(d)
	}
	sort.Slice(c.weekdayHolidays, func(i, j int) bool {
		return c.weekdayHolidays[i].Before(c.weekdayHolidays[j])
	})
	return c, nil
}

// NewANBIMA builds the ANBIMA calendar, merged with extra closures.
func NewANBIMA(extra ...time.Time) *HolidayCalendar {
	c, err := NewHolidayCalendar(ANBIMA, anbimaFirstYear, anbimaLastYear, anbimaRules, extra...)
	if err != nil {
		// static arguments; cannot fail
		panic(err)
	}
	return c
}

func (c *HolidayCalendar) Name() string { return c.name }

// Covers reports the range of years the calendar answers for.
func (c *HolidayCalendar) Covers() (first, last int) { return c.firstYear, c.lastYear }

func (c *HolidayCalendar) check(d time.Time) error {
	if y := d.Year(); y < c.firstYear || y > c.lastYear {
		return fmt.Errorf("%w: %s does not cover %s (years %d..%d)", ErrUnavailable, c.name, d.Format("2006-01-02"), c.firstYear, c.lastYear)
	}
	return nil
}

// IsHoliday reports whether d is a listed holiday, regardless of weekday.
func (c *HolidayCalendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays[Normalize(d)]
	return ok
}

func (c *HolidayCalendar) IsBusinessDay(d time.Time) (bool, error) {
	d = Normalize(d)
	if err := c.check(d); err != nil {
		return false, err
	}
	if isWeekend(d) {
		return false, nil
	}
	return !c.IsHoliday(d), nil
}

func (c *HolidayCalendar) CountBusinessDays(start, end time.Time) (int, error) {
	start, end = Normalize(start), Normalize(end)
	if end.Before(start) {
		return 0, nil
	}
	if err := c.check(start); err != nil {
		return 0, err
	}
	if err := c.check(end); err != nil {
		return 0, err
	}

	n := weekdaysBetween(start, end)

	lo := sort.Search(len(c.weekdayHolidays), func(i int) bool {
		return !c.weekdayHolidays[i].Before(start)
	})
	hi := sort.Search(len(c.weekdayHolidays), func(i int) bool {
		return c.weekdayHolidays[i].After(end)
	})
	return n - (hi - lo), nil
}

func (c *HolidayCalendar) AdjustFollowing(d time.Time) (time.Time, error) {
	d = Normalize(d)
	for {
		ok, err := c.IsBusinessDay(d)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			return d, nil
		}
		d = d.AddDate(0, 0, 1)
	}
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// weekdaysBetween counts Monday-Friday dates in [start, end].
func weekdaysBetween(start, end time.Time) int {
	days := int(end.Sub(start).Hours()/24) + 1
	n := (days / 7) * 5
	d := start.AddDate(0, 0, (days/7)*7)
	for ; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !isWeekend(d) {
			n++
		}
	}
	return n
}

// EasterSunday returns Easter Sunday of the Gregorian year
// (Meeus/Jones/Butcher algorithm).
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return Date(year, time.Month(month), day)
}
