package daycount

import (
	"errors"
	"testing"
	"time"

	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/numeric"
)

func TestBusinessDays_HalfOpen(t *testing.T) {
	dc, err := NewBusiness252[numeric.Float](calendar.NewANBIMA())
	if err != nil {
		t.Fatalf("NewBusiness252: %v", err)
	}
	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"LTN settlement to maturity", calendar.Date(2008, 5, 21), calendar.Date(2010, 7, 1), 532},
		{"first NTN-F coupon", calendar.Date(2008, 5, 21), calendar.Date(2008, 7, 1), 28},
		{"last NTN-F coupon", calendar.Date(2008, 5, 21), calendar.Date(2014, 1, 2), 1415},
		{"same day", calendar.Date(2008, 5, 21), calendar.Date(2008, 5, 21), 0},
		{"reversed", calendar.Date(2008, 5, 22), calendar.Date(2008, 5, 21), 0},
		{"next business day", calendar.Date(2008, 5, 21), calendar.Date(2008, 5, 23), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := dc.BusinessDays(tc.start, tc.end)
			if err != nil {
				t.Fatalf("BusinessDays: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestYearFraction_SameAcrossKinds(t *testing.T) {
	cal := calendar.NewANBIMA()
	start, end := calendar.Date(2008, 5, 21), calendar.Date(2010, 7, 1)

	f, _ := NewBusiness252[numeric.Float](cal)
	d, _ := NewBusiness252[numeric.Decimal](cal)

	yf, err := f.YearFraction(start, end)
	if err != nil {
		t.Fatalf("float YearFraction: %v", err)
	}
	yd, err := d.YearFraction(start, end)
	if err != nil {
		t.Fatalf("decimal YearFraction: %v", err)
	}
	// 532/252 = 2.111111...
	if yd.String() != "2.11111111111111" {
		t.Fatalf("decimal yf=%s", yd)
	}
	if float64(yf) != 2.11111111111111 {
		t.Fatalf("float yf=%v", yf)
	}
}

func TestYearFraction_NilCalendar(t *testing.T) {
	if _, err := NewBusiness252[numeric.Decimal](nil); !errors.Is(err, calendar.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
	var zero Business252[numeric.Decimal]
	if _, err := zero.YearFraction(calendar.Date(2008, 5, 21), calendar.Date(2009, 5, 21)); !errors.Is(err, calendar.ErrUnavailable) {
		t.Fatalf("zero value: want ErrUnavailable, got %v", err)
	}
}
