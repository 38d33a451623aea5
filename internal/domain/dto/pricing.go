package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/b3yield/internal/domain/models"
	"github.com/guttosm/b3yield/internal/instrument"
	"github.com/guttosm/b3yield/internal/numeric"
	"github.com/guttosm/b3yield/internal/schedule"
)

// DateLayout is the wire format of every date field.
const DateLayout = "2006-01-02"

// InstrumentRequest describes a bill or bond. Amounts are decimal strings so
// no precision is lost before the numeric kind is chosen.
type InstrumentRequest struct {
	Kind           string `json:"kind,omitempty" example:"bond" enums:"bill,bond"`
	Calendar       string `json:"calendar,omitempty" example:"ANBIMA"`
	IssueDate      string `json:"issue_date" binding:"required" example:"2008-01-01"`
	MaturityDate   string `json:"maturity_date" binding:"required" example:"2014-01-01"`
	Face           string `json:"face" binding:"required" example:"1000"`
	CouponRate     string `json:"coupon_rate,omitempty" example:"10"`
	Frequency      string `json:"frequency,omitempty" example:"semiannual"`
	RoundingDigits *int   `json:"rounding_digits,omitempty" example:"5"`
	Stub           string `json:"stub,omitempty" example:"none" enums:"none,short_front,long_front,short_back,long_back"`
}

// ToSpec validates the wire fields and converts them to the domain spec.
func (r InstrumentRequest) ToSpec() (models.InstrumentSpec, error) {
	var spec models.InstrumentSpec
	kind := instrument.Kind(strings.ToLower(strings.TrimSpace(r.Kind)))
	if kind != instrument.KindBill && kind != instrument.KindBond {
		return spec, fmt.Errorf("kind must be bill or bond, got %q", r.Kind)
	}
	issue, err := ParseDate("issue_date", r.IssueDate)
	if err != nil {
		return spec, err
	}
	maturity, err := ParseDate("maturity_date", r.MaturityDate)
	if err != nil {
		return spec, err
	}
	spec = models.InstrumentSpec{
		Kind:           kind,
		Calendar:       r.Calendar,
		IssueDate:      issue,
		MaturityDate:   maturity,
		Face:           r.Face,
		CouponRate:     r.CouponRate,
		RoundingDigits: r.RoundingDigits,
	}
	if kind == instrument.KindBond {
		if spec.Frequency, err = schedule.ParseFrequency(r.Frequency); err != nil {
			return spec, err
		}
		if spec.Stub, err = schedule.ParseStubPolicy(r.Stub); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

// ParseDate reads a YYYY-MM-DD field.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s, expected YYYY-MM-DD: %w", field, err)
	}
	return d, nil
}

// PriceRequest is the body of the price endpoints.
type PriceRequest struct {
	Instrument     InstrumentRequest `json:"instrument" binding:"required"`
	SettlementDate string            `json:"settlement_date" binding:"required" example:"2008-05-21"`
	Yield          string            `json:"yield" binding:"required" example:"0.1436"`
	Truncation     *int              `json:"truncation,omitempty" example:"6"`
	Numeric        string            `json:"numeric,omitempty" example:"decimal" enums:"decimal,float64"`
}

// ToModel converts the request into a service call.
func (r PriceRequest) ToModel() (models.PriceRequest, error) {
	var out models.PriceRequest
	spec, err := r.Instrument.ToSpec()
	if err != nil {
		return out, err
	}
	settle, err := ParseDate("settlement_date", r.SettlementDate)
	if err != nil {
		return out, err
	}
	kind, err := numeric.ParseKind(r.Numeric)
	if err != nil {
		return out, err
	}
	return models.PriceRequest{
		Instrument: spec,
		Settlement: settle,
		Yield:      r.Yield,
		Truncation: r.Truncation,
		Numeric:    kind,
	}, nil
}

// PriceResponse is a computed settlement price.
type PriceResponse struct {
	Price            string `json:"price" example:"753.315323"`
	PriceDisplay     string `json:"price_display" example:"R$753,31"`
	Numeric          string `json:"numeric" example:"decimal"`
	Methodology      string `json:"methodology" example:"ANBIMA"`
	TruncationPolicy string `json:"truncation_policy,omitempty" example:"total"`
}

// NewPriceResponse renders a service result.
func NewPriceResponse(r models.PriceResult) PriceResponse {
	return PriceResponse{
		Price:            r.Price,
		PriceDisplay:     FormatBRL(r.Price),
		Numeric:          string(r.Numeric),
		Methodology:      r.Methodology,
		TruncationPolicy: r.Truncation,
	}
}

// BatchPriceRequest prices many instruments in one call.
type BatchPriceRequest struct {
	Items []PriceRequest `json:"items" binding:"required,min=1"`
}

// BatchPriceResponse keeps the order of BatchPriceRequest.Items.
type BatchPriceResponse struct {
	Results []PriceResponse `json:"results"`
}

// YieldRequest is the body of the yield endpoint.
type YieldRequest struct {
	Instrument     InstrumentRequest `json:"instrument" binding:"required"`
	SettlementDate string            `json:"settlement_date" binding:"required" example:"2008-05-21"`
	Price          string            `json:"price" binding:"required" example:"753.315323"`
	Face           string            `json:"face,omitempty" example:"1000"`
	Numeric        string            `json:"numeric,omitempty" example:"decimal" enums:"decimal,float64"`
}

// ToModel converts the request into a service call.
func (r YieldRequest) ToModel() (models.YieldRequest, error) {
	var out models.YieldRequest
	spec, err := r.Instrument.ToSpec()
	if err != nil {
		return out, err
	}
	settle, err := ParseDate("settlement_date", r.SettlementDate)
	if err != nil {
		return out, err
	}
	kind, err := numeric.ParseKind(r.Numeric)
	if err != nil {
		return out, err
	}
	return models.YieldRequest{
		Instrument: spec,
		Settlement: settle,
		Price:      r.Price,
		Face:       r.Face,
		Numeric:    kind,
	}, nil
}

// YieldResponse is the yield implied by a price.
type YieldResponse struct {
	Yield       string `json:"yield" example:"0.1436"`
	Numeric     string `json:"numeric" example:"decimal"`
	Methodology string `json:"methodology" example:"ANBIMA"`
}

// CashFlowsRequest asks for the payment plan of an instrument.
type CashFlowsRequest struct {
	Instrument InstrumentRequest `json:"instrument" binding:"required"`
	Numeric    string            `json:"numeric,omitempty" example:"decimal" enums:"decimal,float64"`
}

// CashFlowItem is one payment.
type CashFlowItem struct {
	PaymentDate string `json:"payment_date" example:"2008-07-01"`
	Amount      string `json:"amount" example:"48.80885"`
	Kind        string `json:"kind" example:"coupon" enums:"coupon,principal"`
}

// CashFlowsResponse is the materialised payment plan.
type CashFlowsResponse struct {
	Kind         string         `json:"kind" example:"bond"`
	Numeric      string         `json:"numeric" example:"decimal"`
	CouponAmount string         `json:"coupon_amount,omitempty" example:"48.80885"`
	Schedule     []string       `json:"schedule"`
	Flows        []CashFlowItem `json:"flows"`
}

// NewCashFlowsResponse renders a service schedule.
func NewCashFlowsResponse(s models.CashFlowSchedule) CashFlowsResponse {
	out := CashFlowsResponse{
		Kind:         string(s.Kind),
		Numeric:      string(s.Numeric),
		CouponAmount: s.CouponAmount,
		Schedule:     make([]string, 0, len(s.Schedule)),
		Flows:        make([]CashFlowItem, 0, len(s.Flows)),
	}
	for _, d := range s.Schedule {
		out.Schedule = append(out.Schedule, d.Format(DateLayout))
	}
	for _, f := range s.Flows {
		out.Flows = append(out.Flows, CashFlowItem{
			PaymentDate: f.PaymentDate.Format(DateLayout),
			Amount:      f.Amount,
			Kind:        string(f.Kind),
		})
	}
	return out
}

// QuotationResponse is a stored priced rate record.
type QuotationResponse struct {
	ID             string  `json:"id" example:"3f1c2d7e-8a4b-4c1e-9f65-0d2a9b7c5e11"`
	ReferenceDate  string  `json:"reference_date" example:"2008-05-21"`
	Code           string  `json:"code" example:"LTN-20100701"`
	Kind           string  `json:"kind" example:"bill"`
	IssueDate      string  `json:"issue_date" example:"2007-07-01"`
	MaturityDate   string  `json:"maturity_date" example:"2010-07-01"`
	CouponRate     string  `json:"coupon_rate,omitempty" example:"0"`
	Frequency      int     `json:"frequency,omitempty" example:"0"`
	Face           string  `json:"face" example:"1000"`
	SettlementDate string  `json:"settlement_date" example:"2008-05-21"`
	Yield          string  `json:"yield" example:"0.1436"`
	Truncation     *int    `json:"truncation,omitempty" example:"6"`
	Price          string  `json:"price" example:"753.315323"`
	PriceDisplay   string  `json:"price_display" example:"R$753,31"`
	Methodology    string  `json:"methodology" example:"ANBIMA"`
	NumericKind    string  `json:"numeric_kind" example:"decimal"`
	CreatedAt      *string `json:"created_at,omitempty"`
}

// NewQuotationResponse renders a stored quotation.
func NewQuotationResponse(q models.Quotation) QuotationResponse {
	out := QuotationResponse{
		ID:             q.ID.String(),
		ReferenceDate:  q.ReferenceDate.Format(DateLayout),
		Code:           q.Code,
		Kind:           q.Kind,
		IssueDate:      q.IssueDate.Format(DateLayout),
		MaturityDate:   q.MaturityDate.Format(DateLayout),
		Frequency:      q.Frequency,
		Face:           q.Face.String(),
		SettlementDate: q.SettlementDate.Format(DateLayout),
		Yield:          q.Yield.String(),
		Truncation:     q.Truncation,
		Price:          q.Price.String(),
		PriceDisplay:   FormatBRL(q.Price.String()),
		Methodology:    q.Methodology,
		NumericKind:    q.NumericKind,
	}
	if !q.CouponRate.IsZero() {
		out.CouponRate = q.CouponRate.String()
	}
	if !q.CreatedAt.IsZero() {
		s := q.CreatedAt.UTC().Format(time.RFC3339)
		out.CreatedAt = &s
	}
	return out
}

// SweepRequest compares binary and decimal bill prices over a yield range in percent.
type SweepRequest struct {
	Instrument     InstrumentRequest `json:"instrument" binding:"required"`
	SettlementDate string            `json:"settlement_date" binding:"required" example:"2008-05-21"`
	From           string            `json:"from" binding:"required" example:"5"`
	To             string            `json:"to" binding:"required" example:"15"`
	Step           string            `json:"step" binding:"required" example:"0.0001"`
	Truncation     *int              `json:"truncation,omitempty" example:"6"`
}

// ToModel converts the request into a service call.
func (r SweepRequest) ToModel() (models.SweepRequest, error) {
	var out models.SweepRequest
	spec, err := r.Instrument.ToSpec()
	if err != nil {
		return out, err
	}
	settle, err := ParseDate("settlement_date", r.SettlementDate)
	if err != nil {
		return out, err
	}
	return models.SweepRequest{
		Instrument: spec,
		Settlement: settle,
		From:       r.From,
		To:         r.To,
		Step:       r.Step,
		Truncation: r.Truncation,
	}, nil
}

// SweepPoint is a yield where the binary/decimal gap reached a new maximum.
type SweepPoint struct {
	YieldPercent string `json:"yield_percent" example:"14.36"`
	Decimal      string `json:"decimal" example:"753.315323"`
	Binary       string `json:"binary" example:"753.315323"`
	AbsDiff      string `json:"abs_diff" example:"0.000001"`
}

// SweepResponse summarises a precision sweep.
type SweepResponse struct {
	Points       int          `json:"points" example:"100001"`
	MaxAbsDiff   string       `json:"max_abs_diff" example:"0.000001"`
	MaxAtPercent string       `json:"max_at_percent,omitempty" example:"9.1234"`
	Records      []SweepPoint `json:"records"`
}

// NewSweepResponse renders a sweep result.
func NewSweepResponse(r models.SweepResult) SweepResponse {
	out := SweepResponse{
		Points:       r.Points,
		MaxAbsDiff:   r.MaxAbsDiff,
		MaxAtPercent: r.MaxAtPercent,
		Records:      make([]SweepPoint, 0, len(r.Records)),
	}
	for _, p := range r.Records {
		out.Records = append(out.Records, SweepPoint(p))
	}
	return out
}
