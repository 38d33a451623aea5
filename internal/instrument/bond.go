package instrument

import (
	"fmt"
	"time"

	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/numeric"
	"github.com/guttosm/b3yield/internal/schedule"
)

// BondTerms are the inputs of NewBond. CouponRate is an annual effective rate
// in percent (10 means 10% a year).
type BondTerms[T numeric.Number[T]] struct {
	IssueDate    time.Time
	MaturityDate time.Time
	Frequency    schedule.Frequency
	CouponRate   T
	Calendar     calendar.Calendar
	Face         T
	// RoundingDigits rounds the coupon amount half away from zero; nil keeps
	// full precision.
	RoundingDigits *int
	Stub           schedule.StubPolicy
}

// Bond pays a level coupon each period and face at maturity (NTN-F).
type Bond[T numeric.Number[T]] struct {
	terms    BondTerms[T]
	schedule schedule.Schedule
	coupon   T
}

var _ Instrument[numeric.Decimal] = (*Bond[numeric.Decimal])(nil)

// NewBond validates the terms, lays out the coupon schedule and computes the
// coupon amount once.
func NewBond[T numeric.Number[T]](terms BondTerms[T]) (*Bond[T], error) {
	terms.IssueDate = calendar.Normalize(terms.IssueDate)
	terms.MaturityDate = calendar.Normalize(terms.MaturityDate)
	if err := checkCommon(terms.IssueDate, terms.MaturityDate, terms.Calendar, terms.Face); err != nil {
		return nil, err
	}
	if !terms.Frequency.Valid() {
		return nil, fmt.Errorf("%w: %w: frequency %d", ErrInvalidTerms, schedule.ErrInvalidSpan, int(terms.Frequency))
	}
	if !terms.CouponRate.IsFinite() || terms.CouponRate.Sign() < 0 {
		return nil, fmt.Errorf("%w: coupon rate %s must be non-negative", ErrInvalidTerms, terms.CouponRate)
	}
	if terms.RoundingDigits != nil {
		if err := numeric.CheckDigits[T](*terms.RoundingDigits); err != nil {
			return nil, fmt.Errorf("%w: rounding digits: %w", ErrInvalidTerms, err)
		}
		d := *terms.RoundingDigits
		terms.RoundingDigits = &d
	}

	sched, err := schedule.Generate(terms.IssueDate, terms.MaturityDate, terms.Frequency, terms.Stub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTerms, err)
	}
	coupon, err := couponAmount(terms)
	if err != nil {
		return nil, fmt.Errorf("%w: coupon: %w", ErrInvalidTerms, err)
	}
	return &Bond[T]{terms: terms, schedule: sched, coupon: coupon}, nil
}

// couponAmount is face*((1+rate/100)^(1/ppy) - 1).
func couponAmount[T numeric.Number[T]](terms BondTerms[T]) (T, error) {
	var zero T
	one := numeric.Int[T](1)
	rate := terms.CouponRate.Div(numeric.Int[T](100))
	exp := one.Div(numeric.Int[T](int64(terms.Frequency.PeriodsPerYear())))
	factor, err := one.Add(rate).Pow(exp)
	if err != nil {
		return zero, err
	}
	amount := terms.Face.Mul(factor.Sub(one))
	if terms.RoundingDigits != nil {
		return amount.Round(*terms.RoundingDigits)
	}
	return amount, nil
}

func (b *Bond[T]) Kind() Kind                    { return KindBond }
func (b *Bond[T]) IssueDate() time.Time          { return b.terms.IssueDate }
func (b *Bond[T]) MaturityDate() time.Time       { return b.terms.MaturityDate }
func (b *Bond[T]) Calendar() calendar.Calendar   { return b.terms.Calendar }
func (b *Bond[T]) Face() T                       { return b.terms.Face }
func (b *Bond[T]) Frequency() schedule.Frequency { return b.terms.Frequency }
func (b *Bond[T]) CouponRate() T                 { return b.terms.CouponRate }
func (b *Bond[T]) Stub() schedule.StubPolicy     { return b.terms.Stub }
func (*Bond[T]) sealed()                         {}

// CouponSchedule is the unadjusted schedule, issue date included.
func (b *Bond[T]) CouponSchedule() schedule.Schedule { return b.schedule }

// RoundingDigits reports the coupon rounding position, if any.
func (b *Bond[T]) RoundingDigits() (int, bool) {
	if b.terms.RoundingDigits == nil {
		return 0, false
	}
	return *b.terms.RoundingDigits, true
}

// CouponAmount is the level coupon paid every period.
func (b *Bond[T]) CouponAmount() T { return b.coupon }

// CashFlows returns one coupon per schedule date after issue, adjusted to the
// following business day, then the principal at adjusted maturity. On the
// last date the coupon and principal are two separate entries.
func (b *Bond[T]) CashFlows() ([]CashFlow[T], error) {
	dates := b.schedule.Dates()[1:]
	out := make([]CashFlow[T], 0, len(dates)+1)
	for _, d := range dates {
		pay, err := b.terms.Calendar.AdjustFollowing(d)
		if err != nil {
			return nil, fmt.Errorf("adjust coupon date %s: %w", d.Format("2006-01-02"), err)
		}
		out = append(out, CashFlow[T]{PaymentDate: pay, Amount: b.coupon, Kind: FlowCoupon})
	}
	last := out[len(out)-1].PaymentDate
	return append(out, CashFlow[T]{PaymentDate: last, Amount: b.terms.Face, Kind: FlowPrincipal}), nil
}
