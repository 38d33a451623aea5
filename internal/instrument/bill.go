package instrument

import (
	"fmt"
	"time"

	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/numeric"
)

// Bill is a zero-coupon instrument paying face at maturity (LTN).
type Bill[T numeric.Number[T]] struct {
	issue    time.Time
	maturity time.Time
	cal      calendar.Calendar
	face     T
}

var _ Instrument[numeric.Decimal] = (*Bill[numeric.Decimal])(nil)

// NewBill validates the terms: maturity after issue, positive face, non-nil calendar.
func NewBill[T numeric.Number[T]](issue, maturity time.Time, cal calendar.Calendar, face T) (*Bill[T], error) {
	issue, maturity = calendar.Normalize(issue), calendar.Normalize(maturity)
	if err := checkCommon(issue, maturity, cal, face); err != nil {
		return nil, err
	}
	return &Bill[T]{issue: issue, maturity: maturity, cal: cal, face: face}, nil
}

func (b *Bill[T]) Kind() Kind                  { return KindBill }
func (b *Bill[T]) IssueDate() time.Time        { return b.issue }
func (b *Bill[T]) MaturityDate() time.Time     { return b.maturity }
func (b *Bill[T]) Calendar() calendar.Calendar { return b.cal }
func (b *Bill[T]) Face() T                     { return b.face }
func (*Bill[T]) sealed()                       {}

// CashFlow is the single principal payment at following-adjusted maturity.
func (b *Bill[T]) CashFlow() (CashFlow[T], error) {
	pay, err := b.cal.AdjustFollowing(b.maturity)
	if err != nil {
		return CashFlow[T]{}, fmt.Errorf("adjust bill maturity: %w", err)
	}
	return CashFlow[T]{PaymentDate: pay, Amount: b.face, Kind: FlowPrincipal}, nil
}

func (b *Bill[T]) CashFlows() ([]CashFlow[T], error) {
	cf, err := b.CashFlow()
	if err != nil {
		return nil, err
	}
	return []CashFlow[T]{cf}, nil
}

func checkCommon[T numeric.Number[T]](issue, maturity time.Time, cal calendar.Calendar, face T) error {
	if cal == nil {
		return fmt.Errorf("%w: %w: calendar is required", ErrInvalidTerms, calendar.ErrUnavailable)
	}
	if !maturity.After(issue) {
		return fmt.Errorf("%w: maturity %s not after issue %s",
			ErrInvalidTerms, maturity.Format("2006-01-02"), issue.Format("2006-01-02"))
	}
	if !face.IsFinite() || face.Sign() <= 0 {
		return fmt.Errorf("%w: face %s must be positive", ErrInvalidTerms, face)
	}
	return nil
}
