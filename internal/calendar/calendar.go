// Package calendar provides holiday-aware business-day calendars.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrUnavailable reports a calendar that is unknown, unset, or does not cover
// the requested dates.
var ErrUnavailable = errors.New("calendar unavailable")

// Calendar answers business-day queries. Implementations must be safe for
// concurrent use and must not mutate on query.
type Calendar interface {
	Name() string
	IsBusinessDay(d time.Time) (bool, error)
	// CountBusinessDays counts business days in [start, end], both inclusive.
	// It returns 0 when end is before start.
	CountBusinessDays(start, end time.Time) (int, error)
	// AdjustFollowing rolls a non-business day forward to the next business day.
	AdjustFollowing(d time.Time) (time.Time, error)
}

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize strips the clock and location, keeping the wall-clock date.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Registry resolves calendars by name. It is read-only after construction.
type Registry struct {
	byName map[string]Calendar
}

// NewRegistry indexes the given calendars by upper-cased name.
func NewRegistry(cals ...Calendar) *Registry {
	r := &Registry{byName: make(map[string]Calendar, len(cals))}
	for _, c := range cals {
		if c == nil {
			continue
		}
		r.byName[strings.ToUpper(c.Name())] = c
	}
	return r
}

// Get returns the named calendar or ErrUnavailable.
func (r *Registry) Get(name string) (Calendar, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no registry", ErrUnavailable)
	}
	c, ok := r.byName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnavailable, name)
	}
	return c, nil
}

// Names lists registered calendar names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// LastNBusinessDays returns the last n business days on or before from, most
// recent first.
func LastNBusinessDays(cal Calendar, n int, from time.Time) ([]time.Time, error) {
	if cal == nil {
		return nil, fmt.Errorf("%w: nil calendar", ErrUnavailable)
	}
	out := make([]time.Time, 0, n)
	d := Normalize(from)
	for len(out) < n {
		ok, err := cal.IsBusinessDay(d)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	return out, nil
}

// AddBusinessDays moves n business days from t; n may be negative.
func AddBusinessDays(cal Calendar, t time.Time, n int) (time.Time, error) {
	if cal == nil {
		return time.Time{}, fmt.Errorf("%w: nil calendar", ErrUnavailable)
	}
	step := 1
	if n < 0 {
		step = -1
	}
	d := Normalize(t)
	for n != 0 {
		d = d.AddDate(0, 0, step)
		ok, err := cal.IsBusinessDay(d)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			n -= step
		}
	}
	return d, nil
}
