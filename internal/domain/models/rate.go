package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateRecord represents a single row in the daily ANBIMA rate file.
// Each field matches one column in the .txt file.
//
// Column order:
//  1. Code
//  2. Kind
//  3. IssueDate
//  4. MaturityDate
//  5. CouponRate
//  6. Frequency
//  7. Face
//  8. SettlementDate
//  9. Yield
//  10. Truncation
type RateRecord struct {
	Code           string
	Kind           string          // "bill" or "bond"
	IssueDate      time.Time
	MaturityDate   time.Time
	CouponRate     decimal.Decimal // percent a year; zero for bills
	Frequency      int             // periods per year; zero for bills
	Face           decimal.Decimal
	SettlementDate time.Time
	Yield          decimal.Decimal // decimal fraction (0.1436 = 14.36%)
	Truncation     *int
}

// Quotation is a rate record priced under a methodology, as persisted in the
// quotations table.
//
// swagger:model Quotation
type Quotation struct {
	ID            uuid.UUID
	ReferenceDate time.Time
	RateRecord
	Price       decimal.Decimal
	Methodology string
	NumericKind string
	CreatedAt   time.Time
}
