package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/b3yield/internal/domain/models"
	"github.com/guttosm/b3yield/internal/instrument"
	"github.com/guttosm/b3yield/internal/logger"
	"github.com/guttosm/b3yield/internal/numeric"
	"github.com/guttosm/b3yield/internal/yield"
)

// sweepYieldDigits is the precision yields are quoted at, in percent.
const sweepYieldDigits = 4

// Sweep prices a bill at every yield from From to To (percent, inclusive) in
// both numeric kinds and records each yield where the absolute gap between
// them reaches a new maximum.
func (s *pricingService) Sweep(ctx context.Context, req models.SweepRequest) (*models.SweepResult, error) {
	if req.Instrument.Kind != instrument.KindBill {
		return nil, fmt.Errorf("%w: sweep supports bills only", ErrInvalidRequest)
	}
	from, err := parseField[numeric.Decimal]("from", req.From)
	if err != nil {
		return nil, err
	}
	to, err := parseField[numeric.Decimal]("to", req.To)
	if err != nil {
		return nil, err
	}
	step, err := parseField[numeric.Decimal]("step", req.Step)
	if err != nil {
		return nil, err
	}
	if step.Sign() <= 0 {
		return nil, fmt.Errorf("%w: step must be positive", ErrInvalidRequest)
	}
	if to.Cmp(from) < 0 {
		return nil, fmt.Errorf("%w: to %s is below from %s", ErrInvalidRequest, to, from)
	}
	span := to.Decimal().Sub(from.Decimal()).Div(step.Decimal()).Floor()
	if span.GreaterThanOrEqual(decimal.NewFromInt(int64(s.opts.MaxSweepPoints))) {
		return nil, fmt.Errorf("%w: sweep of %s points exceeds %d", ErrInvalidRequest, span.Add(decimal.NewFromInt(1)), s.opts.MaxSweepPoints)
	}
	points := int(span.IntPart()) + 1

	cal, err := s.calendarFor(req.Instrument)
	if err != nil {
		return nil, err
	}
	fb, err := buildInstrument[numeric.Float](req.Instrument, cal)
	if err != nil {
		return nil, err
	}
	db, err := buildInstrument[numeric.Decimal](req.Instrument, cal)
	if err != nil {
		return nil, err
	}
	fq, err := newQuote(req.Settlement, fb.Face(), req.Truncation)
	if err != nil {
		return nil, err
	}
	dq, err := newQuote(req.Settlement, db.Face(), req.Truncation)
	if err != nil {
		return nil, err
	}
	fm := yield.NewANBIMA[numeric.Float](s.opts.BondTruncation)
	dm := yield.NewANBIMA[numeric.Decimal](s.opts.BondTruncation)
	hundredF := numeric.Int[numeric.Float](100)
	hundredD := numeric.Int[numeric.Decimal](100)

	start := time.Now()
	res := &models.SweepResult{Points: points, MaxAbsDiff: "0"}
	maxDiff := decimal.Zero

	for i := 0; i < points; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		pct, err := from.Add(step.Mul(numeric.Int[numeric.Decimal](int64(i)))).Truncate(sweepYieldDigits)
		if err != nil {
			return nil, err
		}
		pctF, err := numeric.Parse[numeric.Float](pct.String())
		if err != nil {
			return nil, err
		}

		pd, err := dm.Price(pct.Div(hundredD), db, dq)
		if err != nil {
			return nil, fmt.Errorf("decimal at %s%%: %w", pct, err)
		}
		pf, err := fm.Price(pctF.Div(hundredF), fb, fq)
		if err != nil {
			return nil, fmt.Errorf("float64 at %s%%: %w", pct, err)
		}
		pfd, err := numeric.Parse[numeric.Decimal](pf.String())
		if err != nil {
			return nil, err
		}

		diff := pd.Decimal().Sub(pfd.Decimal()).Abs()
		if diff.GreaterThan(maxDiff) {
			maxDiff = diff
			res.MaxAbsDiff = diff.String()
			res.MaxAtPercent = pct.String()
			res.Records = append(res.Records, models.SweepPoint{
				YieldPercent: pct.String(),
				Decimal:      pd.String(),
				Binary:       pf.String(),
				AbsDiff:      diff.String(),
			})
		}
	}

	logger.Component("pricing").Info().
		Int("points", points).
		Str("max_abs_diff", res.MaxAbsDiff).
		Str("at_percent", res.MaxAtPercent).
		Dur("elapsed", time.Since(start)).
		Msg("sweep done")
	return res, nil
}
