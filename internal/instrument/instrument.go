// Package instrument models the fixed-income instruments that can be priced:
// zero-coupon bills and level-coupon bonds.
package instrument

import (
	"errors"
	"time"

	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/numeric"
)

// ErrInvalidTerms is returned by constructors for inconsistent instrument terms.
var ErrInvalidTerms = errors.New("invalid instrument terms")

// Kind discriminates the instrument variants.
type Kind string

const (
	KindBill Kind = "bill"
	KindBond Kind = "bond"
)

// FlowKind tags a cash flow so same-date coupon and principal stay distinct.
type FlowKind string

const (
	FlowCoupon    FlowKind = "coupon"
	FlowPrincipal FlowKind = "principal"
)

// CashFlow is an amount paid on a business-day-adjusted date.
type CashFlow[T numeric.Number[T]] struct {
	PaymentDate time.Time
	Amount      T
	Kind        FlowKind
}

// Instrument is the closed set {*Bill[T], *Bond[T]}; the unexported method
// keeps other packages from adding variants.
type Instrument[T numeric.Number[T]] interface {
	Kind() Kind
	IssueDate() time.Time
	MaturityDate() time.Time
	Calendar() calendar.Calendar
	Face() T
	CashFlows() ([]CashFlow[T], error)
	sealed()
}
