package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/domain/models"
	"github.com/guttosm/b3yield/internal/instrument"
	"github.com/guttosm/b3yield/internal/logger"
	"github.com/guttosm/b3yield/internal/numeric"
	"github.com/guttosm/b3yield/internal/quote"
	"github.com/guttosm/b3yield/internal/schedule"
	"github.com/guttosm/b3yield/internal/storage"
	"github.com/guttosm/b3yield/internal/yield"
)

var (
	// ErrInvalidRequest marks malformed input: missing fields, unparsable
	// numbers, unknown kinds.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound is returned when a stored quotation does not exist.
	ErrNotFound = errors.New("not found")
)

const (
	// MaxBatchSize bounds PriceBatch.
	MaxBatchSize = 1000
	// DefaultMaxSweepPoints bounds Sweep when Options leaves it unset.
	DefaultMaxSweepPoints = 200_000
	// recordCouponDigits is the rounding ANBIMA publishes bond coupons at.
	recordCouponDigits = 5
)

// Options tunes a PricingService.
type Options struct {
	DefaultCalendar string
	BondTruncation  yield.TruncationPolicy
	Parallel        int // 0 selects runtime.NumCPU()
	MaxSweepPoints  int
}

// PricingService orchestrates instrument construction and pricing for
// request-driven callers (HTTP, CLI, ingestion). The numeric representation
// is picked per request.
type PricingService interface {
	Price(ctx context.Context, req models.PriceRequest) (*models.PriceResult, error)
	Yield(ctx context.Context, req models.YieldRequest) (*models.YieldResult, error)
	CashFlows(ctx context.Context, spec models.InstrumentSpec, kind numeric.Kind) (*models.CashFlowSchedule, error)
	PriceBatch(ctx context.Context, reqs []models.PriceRequest) ([]models.PriceResult, error)
	Sweep(ctx context.Context, req models.SweepRequest) (*models.SweepResult, error)
	PriceRecord(ctx context.Context, rec models.RateRecord) (*models.Quotation, error)
	GetQuotation(ctx context.Context, code string, date time.Time) (*models.Quotation, error)
	ListQuotations(ctx context.Context, date time.Time) ([]models.Quotation, error)
}

type pricingService struct {
	repo storage.QuotationsRepository
	cals *calendar.Registry
	opts Options
}

// NewPricingService wires a service. repo may be nil for offline use; the
// quotation lookups then fail.
func NewPricingService(repo storage.QuotationsRepository, cals *calendar.Registry, opts Options) PricingService {
	if opts.DefaultCalendar == "" {
		opts.DefaultCalendar = calendar.ANBIMA
	}
	if opts.Parallel <= 0 {
		opts.Parallel = runtime.NumCPU()
	}
	if opts.MaxSweepPoints <= 0 {
		opts.MaxSweepPoints = DefaultMaxSweepPoints
	}
	return &pricingService{repo: repo, cals: cals, opts: opts}
}

func (s *pricingService) calendarFor(spec models.InstrumentSpec) (calendar.Calendar, error) {
	name := spec.Calendar
	if strings.TrimSpace(name) == "" {
		name = s.opts.DefaultCalendar
	}
	return s.cals.Get(name)
}

func (s *pricingService) methodName() string {
	return yield.NewANBIMA[numeric.Decimal](s.opts.BondTruncation).Name()
}

func (s *pricingService) Price(ctx context.Context, req models.PriceRequest) (*models.PriceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kind, err := resolveKind(req.Numeric)
	if err != nil {
		return nil, err
	}
	cal, err := s.calendarFor(req.Instrument)
	if err != nil {
		return nil, err
	}

	var out string
	switch kind {
	case numeric.KindFloat:
		p, err := priceAs[numeric.Float](req, cal, s.opts.BondTruncation)
		if err != nil {
			return nil, err
		}
		out = p.String()
	default:
		p, err := priceAs[numeric.Decimal](req, cal, s.opts.BondTruncation)
		if err != nil {
			return nil, err
		}
		out = p.String()
	}

	res := &models.PriceResult{Price: out, Numeric: kind, Methodology: s.methodName()}
	if req.Instrument.Kind == instrument.KindBond {
		res.Truncation = s.opts.BondTruncation.String()
	}
	return res, nil
}

func (s *pricingService) Yield(ctx context.Context, req models.YieldRequest) (*models.YieldResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kind, err := resolveKind(req.Numeric)
	if err != nil {
		return nil, err
	}
	cal, err := s.calendarFor(req.Instrument)
	if err != nil {
		return nil, err
	}

	var out string
	switch kind {
	case numeric.KindFloat:
		y, err := yieldAs[numeric.Float](req, cal, s.opts.BondTruncation)
		if err != nil {
			return nil, err
		}
		out = y.String()
	default:
		y, err := yieldAs[numeric.Decimal](req, cal, s.opts.BondTruncation)
		if err != nil {
			return nil, err
		}
		out = y.String()
	}
	return &models.YieldResult{Yield: out, Numeric: kind, Methodology: s.methodName()}, nil
}

func (s *pricingService) CashFlows(ctx context.Context, spec models.InstrumentSpec, kind numeric.Kind) (*models.CashFlowSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kind, err := resolveKind(kind)
	if err != nil {
		return nil, err
	}
	cal, err := s.calendarFor(spec)
	if err != nil {
		return nil, err
	}
	if kind == numeric.KindFloat {
		return cashFlowsAs[numeric.Float](spec, cal)
	}
	return cashFlowsAs[numeric.Decimal](spec, cal)
}

// PriceBatch prices every request with at most Options.Parallel in flight.
// Results keep the request order; the first failure cancels the rest.
func (s *pricingService) PriceBatch(ctx context.Context, reqs []models.PriceRequest) ([]models.PriceResult, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidRequest)
	}
	if len(reqs) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch of %d exceeds %d", ErrInvalidRequest, len(reqs), MaxBatchSize)
	}

	start := time.Now()
	out := make([]models.PriceResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallel)

	for i := range reqs {
		i := i
		g.Go(func() error {
			res, err := s.Price(gctx, reqs[i])
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			out[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Component("pricing").Warn().Int("size", len(reqs)).Err(err).Msg("batch failed")
		return nil, err
	}

	logger.Component("pricing").Debug().Int("size", len(reqs)).Int("parallel", s.opts.Parallel).Dur("elapsed", time.Since(start)).Msg("batch priced")
	return out, nil
}

// PriceRecord prices one row of the daily rate file in decimal.
func (s *pricingService) PriceRecord(ctx context.Context, rec models.RateRecord) (*models.Quotation, error) {
	spec := models.InstrumentSpec{
		Kind:         instrument.Kind(strings.ToLower(strings.TrimSpace(rec.Kind))),
		IssueDate:    rec.IssueDate,
		MaturityDate: rec.MaturityDate,
		Face:         rec.Face.String(),
	}
	if spec.Kind == instrument.KindBond {
		digits := recordCouponDigits
		spec.CouponRate = rec.CouponRate.String()
		spec.Frequency = schedule.Frequency(rec.Frequency)
		spec.RoundingDigits = &digits
	}

	req := models.PriceRequest{
		Instrument: spec,
		Settlement: rec.SettlementDate,
		Yield:      rec.Yield.String(),
		Truncation: rec.Truncation,
		Numeric:    numeric.KindDecimal,
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cal, err := s.calendarFor(spec)
	if err != nil {
		return nil, err
	}
	p, err := priceAs[numeric.Decimal](req, cal, s.opts.BondTruncation)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rec.Code, err)
	}

	return &models.Quotation{
		ReferenceDate: rec.SettlementDate,
		RateRecord:    rec,
		Price:         p.Decimal(),
		Methodology:   s.methodName(),
		NumericKind:   string(numeric.KindDecimal),
	}, nil
}

func (s *pricingService) GetQuotation(ctx context.Context, code string, date time.Time) (*models.Quotation, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidRequest)
	}
	if s.repo == nil {
		return nil, fmt.Errorf("%w: no quotation store configured", ErrNotFound)
	}
	q, err := s.repo.GetQuotation(code, calendar.Normalize(date))
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("%w: quotation %s on %s", ErrNotFound, code, date.Format("2006-01-02"))
	}
	return q, nil
}

func (s *pricingService) ListQuotations(ctx context.Context, date time.Time) ([]models.Quotation, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("%w: no quotation store configured", ErrNotFound)
	}
	return s.repo.ListQuotations(calendar.Normalize(date))
}

func resolveKind(k numeric.Kind) (numeric.Kind, error) {
	switch k {
	case "":
		return numeric.KindDecimal, nil
	case numeric.KindFloat, numeric.KindDecimal:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown numeric kind %q", ErrInvalidRequest, k)
}

func priceAs[T numeric.Number[T]](req models.PriceRequest, cal calendar.Calendar, policy yield.TruncationPolicy) (T, error) {
	var zero T
	inst, err := buildInstrument[T](req.Instrument, cal)
	if err != nil {
		return zero, err
	}
	y, err := parseField[T]("yield", req.Yield)
	if err != nil {
		return zero, err
	}
	q, err := newQuote(req.Settlement, inst.Face(), req.Truncation)
	if err != nil {
		return zero, err
	}
	return yield.NewANBIMA[T](policy).Price(y, inst, q)
}

func yieldAs[T numeric.Number[T]](req models.YieldRequest, cal calendar.Calendar, policy yield.TruncationPolicy) (T, error) {
	var zero T
	inst, err := buildInstrument[T](req.Instrument, cal)
	if err != nil {
		return zero, err
	}
	price, err := parseField[T]("price", req.Price)
	if err != nil {
		return zero, err
	}
	face := inst.Face()
	if strings.TrimSpace(req.Face) != "" {
		if face, err = parseField[T]("face", req.Face); err != nil {
			return zero, err
		}
	}
	p, err := quote.NewPrice(req.Settlement, price, face)
	if err != nil {
		return zero, err
	}
	return yield.NewANBIMA[T](policy).Yield(p, inst)
}

func cashFlowsAs[T numeric.Number[T]](spec models.InstrumentSpec, cal calendar.Calendar) (*models.CashFlowSchedule, error) {
	inst, err := buildInstrument[T](spec, cal)
	if err != nil {
		return nil, err
	}
	flows, err := inst.CashFlows()
	if err != nil {
		return nil, err
	}

	out := &models.CashFlowSchedule{Kind: inst.Kind(), Numeric: numeric.KindOf[T]()}
	if b, ok := inst.(*instrument.Bond[T]); ok {
		out.CouponAmount = b.CouponAmount().String()
		out.Schedule = b.CouponSchedule().Dates()
	} else {
		out.Schedule = []time.Time{inst.IssueDate(), inst.MaturityDate()}
	}
	out.Flows = make([]models.CashFlow, 0, len(flows))
	for _, cf := range flows {
		out.Flows = append(out.Flows, models.CashFlow{
			PaymentDate: cf.PaymentDate,
			Amount:      cf.Amount.String(),
			Kind:        cf.Kind,
		})
	}
	return out, nil
}

func buildInstrument[T numeric.Number[T]](spec models.InstrumentSpec, cal calendar.Calendar) (instrument.Instrument[T], error) {
	face, err := parseField[T]("face", spec.Face)
	if err != nil {
		return nil, err
	}
	switch spec.Kind {
	case instrument.KindBill:
		b, err := instrument.NewBill(spec.IssueDate, spec.MaturityDate, cal, face)
		if err != nil {
			return nil, err
		}
		return b, nil
	case instrument.KindBond:
		c, err := parseField[T]("coupon_rate", spec.CouponRate)
		if err != nil {
			return nil, err
		}
		b, err := instrument.NewBond(instrument.BondTerms[T]{
			IssueDate:      spec.IssueDate,
			MaturityDate:   spec.MaturityDate,
			Frequency:      spec.Frequency,
			CouponRate:     c,
			Calendar:       cal,
			Face:           face,
			RoundingDigits: spec.RoundingDigits,
			Stub:           spec.Stub,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: unknown instrument kind %q", ErrInvalidRequest, spec.Kind)
}

func newQuote[T numeric.Number[T]](settlement time.Time, face T, truncation *int) (quote.Quote[T], error) {
	if truncation == nil {
		return quote.NewQuote(settlement, face)
	}
	return quote.NewTruncatedQuote(settlement, face, *truncation)
}

func parseField[T numeric.Number[T]](name, s string) (T, error) {
	var zero T
	s = strings.TrimSpace(s)
	if s == "" {
		return zero, fmt.Errorf("%w: %s is required", ErrInvalidRequest, name)
	}
	v, err := numeric.Parse[T](s)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrInvalidRequest, name, err)
	}
	return v, nil
}
