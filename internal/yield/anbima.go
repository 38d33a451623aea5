package yield

import (
	"fmt"
	"time"

	"github.com/guttosm/b3yield/internal/daycount"
	"github.com/guttosm/b3yield/internal/instrument"
	"github.com/guttosm/b3yield/internal/numeric"
	"github.com/guttosm/b3yield/internal/quote"
)

const (
	solverLow      = "-0.99"
	solverHigh     = "10"
	solverTol      = "0.0000000000001"
	solverMaxSteps = 200
)

// ANBIMA discounts each cash flow at (1+y)^(business days/252), the
// convention for Brazilian federal bonds.
type ANBIMA[T numeric.Number[T]] struct {
	policy TruncationPolicy
}

var (
	_ Methodology[numeric.Float]   = ANBIMA[numeric.Float]{}
	_ Methodology[numeric.Decimal] = ANBIMA[numeric.Decimal]{}
)

// NewANBIMA returns the methodology with the given bond truncation policy.
func NewANBIMA[T numeric.Number[T]](policy TruncationPolicy) ANBIMA[T] {
	return ANBIMA[T]{policy: policy}
}

func (ANBIMA[T]) Name() string { return "ANBIMA" }

// Policy returns the bond truncation policy.
func (m ANBIMA[T]) Policy() TruncationPolicy { return m.policy }

// term is one discountable flow: amount paid yf years after settlement.
type term[T numeric.Number[T]] struct {
	amount T
	yf     T
}

// Price returns the settlement price of inst at yield y. Bills are priced off
// the quote's face; bonds off their own cash-flow amounts.
func (m ANBIMA[T]) Price(y T, inst instrument.Instrument[T], q quote.Quote[T]) (T, error) {
	var zero T
	if err := ValidateYield(y); err != nil {
		return zero, err
	}
	if inst == nil {
		return zero, fmt.Errorf("%w: nil instrument", instrument.ErrInvalidTerms)
	}
	terms, err := m.terms(inst, q.SettlementDate(), q.Face())
	if err != nil {
		return zero, err
	}

	_, truncating := q.Truncation()
	perFlow := truncating && m.policy == TruncateEachFlow && inst.Kind() == instrument.KindBond

	base := numeric.Int[T](1).Add(y)
	total := numeric.Int[T](0)
	for _, tm := range terms {
		pv, err := discount(base, tm)
		if err != nil {
			return zero, err
		}
		if perFlow {
			if pv, err = q.Apply(pv); err != nil {
				return zero, err
			}
		}
		total = total.Add(pv)
	}
	return q.Apply(total)
}

// Yield recovers the yield that prices inst at p. Bills invert the discount
// factor directly; bonds are solved by bisection on the untruncated price,
// which falls as the yield rises.
func (m ANBIMA[T]) Yield(p quote.Price[T], inst instrument.Instrument[T]) (T, error) {
	var zero T
	if inst == nil {
		return zero, fmt.Errorf("%w: nil instrument", instrument.ErrInvalidTerms)
	}
	terms, err := m.terms(inst, p.SettlementDate(), p.Face())
	if err != nil {
		return zero, err
	}
	target := p.SettlementPrice()
	one := numeric.Int[T](1)

	if inst.Kind() == instrument.KindBill {
		tm := terms[0]
		if tm.yf.Sign() == 0 {
			return zero, fmt.Errorf("%w: no business day left to discount over", ErrSettlement)
		}
		ratio := tm.amount.Div(target)
		g, err := ratio.Pow(one.Div(tm.yf))
		if err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalidYield, err)
		}
		return g.Sub(one), nil
	}

	price := func(y T) (T, error) {
		base := one.Add(y)
		sum := numeric.Int[T](0)
		for _, tm := range terms {
			pv, err := discount(base, tm)
			if err != nil {
				return zero, err
			}
			sum = sum.Add(pv)
		}
		return sum, nil
	}
	return bisect(price, target)
}

// terms materialises the flows paid after settlement with their year
// fractions. A bill pays the quote face.
func (m ANBIMA[T]) terms(inst instrument.Instrument[T], settlement time.Time, face T) ([]term[T], error) {
	dc, err := daycount.NewBusiness252[T](inst.Calendar())
	if err != nil {
		return nil, err
	}

	var flows []instrument.CashFlow[T]
	switch in := inst.(type) {
	case *instrument.Bill[T]:
		cf, err := in.CashFlow()
		if err != nil {
			return nil, err
		}
		cf.Amount = face
		flows = []instrument.CashFlow[T]{cf}
	case *instrument.Bond[T]:
		if flows, err = in.CashFlows(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unsupported instrument %T", instrument.ErrInvalidTerms, inst)
	}

	out := make([]term[T], 0, len(flows))
	for _, cf := range flows {
		if !cf.PaymentDate.After(settlement) {
			continue
		}
		yf, err := dc.YearFraction(settlement, cf.PaymentDate)
		if err != nil {
			return nil, err
		}
		out = append(out, term[T]{amount: cf.Amount, yf: yf})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: settlement %s, last payment %s", ErrSettlement,
			settlement.Format("2006-01-02"), flows[len(flows)-1].PaymentDate.Format("2006-01-02"))
	}
	return out, nil
}

func discount[T numeric.Number[T]](base T, tm term[T]) (T, error) {
	f, err := base.Pow(tm.yf)
	if err != nil {
		return f, fmt.Errorf("%w: discount factor: %w", ErrInvalidYield, err)
	}
	return tm.amount.Div(f), nil
}

// bisect finds y in [solverLow, solverHigh] with price(y) == target.
func bisect[T numeric.Number[T]](price func(T) (T, error), target T) (T, error) {
	var zero T
	lo := numeric.MustParse[T](solverLow)
	hi := numeric.MustParse[T](solverHigh)
	tol := numeric.MustParse[T](solverTol)
	two := numeric.Int[T](2)

	pLo, err := price(lo)
	if err != nil {
		return zero, err
	}
	pHi, err := price(hi)
	if err != nil {
		return zero, err
	}
	if target.Cmp(pLo) > 0 || target.Cmp(pHi) < 0 {
		return zero, fmt.Errorf("%w: price %s outside [%s, %s]", ErrInvalidYield, target, pHi, pLo)
	}

	for i := 0; i < solverMaxSteps && hi.Sub(lo).Cmp(tol) > 0; i++ {
		mid := lo.Add(hi).Div(two)
		p, err := price(mid)
		if err != nil {
			return zero, err
		}
		switch p.Cmp(target) {
		case 0:
			return mid, nil
		case 1:
			lo = mid
		default:
			hi = mid
		}
	}
	return lo.Add(hi).Div(two), nil
}
