package models

import (
	"time"

	"github.com/guttosm/b3yield/internal/instrument"
	"github.com/guttosm/b3yield/internal/numeric"
	"github.com/guttosm/b3yield/internal/schedule"
)

// InstrumentSpec describes a bill or bond with amounts as decimal strings so
// the same request can be built in either numeric representation.
type InstrumentSpec struct {
	Kind           instrument.Kind
	Calendar       string // empty selects the configured default
	IssueDate      time.Time
	MaturityDate   time.Time
	Face           string
	CouponRate     string // bonds only, percent a year
	Frequency      schedule.Frequency
	RoundingDigits *int
	Stub           schedule.StubPolicy
}

// PriceRequest asks for the settlement price at a yield.
type PriceRequest struct {
	Instrument InstrumentSpec
	Settlement time.Time
	Yield      string // decimal fraction
	Truncation *int
	Numeric    numeric.Kind
}

// PriceResult is the outcome of a PriceRequest.
type PriceResult struct {
	Price       string
	Numeric     numeric.Kind
	Methodology string
	Truncation  string // policy applied to bonds
}

// YieldRequest asks for the yield implied by an observed price.
type YieldRequest struct {
	Instrument InstrumentSpec
	Settlement time.Time
	Price      string
	Face       string // empty uses the instrument face
	Numeric    numeric.Kind
}

// YieldResult is the outcome of a YieldRequest.
type YieldResult struct {
	Yield       string
	Numeric     numeric.Kind
	Methodology string
}

// CashFlow is one payment rendered for output.
type CashFlow struct {
	PaymentDate time.Time
	Amount      string
	Kind        instrument.FlowKind
}

// CashFlowSchedule is the materialised payment plan of an instrument.
type CashFlowSchedule struct {
	Kind         instrument.Kind
	Numeric      numeric.Kind
	CouponAmount string // empty for bills
	Schedule     []time.Time
	Flows        []CashFlow
}

// SweepRequest compares binary and decimal bill prices over a yield range
// given in percent.
type SweepRequest struct {
	Instrument InstrumentSpec
	Settlement time.Time
	From       string
	To         string
	Step       string
	Truncation *int
}

// SweepPoint is a yield at which the binary/decimal gap reached a new maximum.
type SweepPoint struct {
	YieldPercent string
	Decimal      string
	Binary       string
	AbsDiff      string
}

// SweepResult summarises a precision sweep.
type SweepResult struct {
	Points       int
	MaxAbsDiff   string
	MaxAtPercent string
	Records      []SweepPoint
}
