package numeric

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DecimalPrecision is the number of fractional digits kept by Decimal division
// and power. It is set once at start-up (PRICING_DECIMAL_PRECISION) and read
// concurrently afterwards.
var DecimalPrecision int32 = 40

// guardDigits are extra digits carried through ln/exp before the final rounding.
const guardDigits = 10

// Decimal is the arbitrary-precision representation backed by shopspring/decimal.
type Decimal struct {
	v decimal.Decimal
}

var _ Number[Decimal] = Decimal{}

// NewDecimal wraps a shopspring decimal.
func NewDecimal(d decimal.Decimal) Decimal { return Decimal{v: d} }

// Decimal exposes the underlying value.
func (d Decimal) Decimal() decimal.Decimal { return d.v }

func (d Decimal) Add(e Decimal) Decimal { return Decimal{v: d.v.Add(e.v)} }
func (d Decimal) Sub(e Decimal) Decimal { return Decimal{v: d.v.Sub(e.v)} }
func (d Decimal) Mul(e Decimal) Decimal { return Decimal{v: d.v.Mul(e.v)} }
func (d Decimal) Div(e Decimal) Decimal { return Decimal{v: d.v.DivRound(e.v, DecimalPrecision)} }

// Pow computes d^e as exp(e*ln d) for a positive base, which covers the real
// exponents used in discounting. A zero base is accepted for positive exponents.
func (d Decimal) Pow(e Decimal) (Decimal, error) {
	switch d.v.Sign() {
	case 0:
		if e.v.Sign() > 0 {
			return Decimal{}, nil
		}
		return Decimal{}, fmt.Errorf("0 ** %s is undefined", e.v)
	case -1:
		return Decimal{}, fmt.Errorf("negative base %s is not supported", d.v)
	}
	if e.v.IsZero() {
		return Decimal{v: decimal.NewFromInt(1)}, nil
	}
	work := DecimalPrecision + guardDigits
	ln, err := d.v.Ln(work)
	if err != nil {
		return Decimal{}, fmt.Errorf("ln %s: %w", d.v, err)
	}
	r, err := ln.Mul(e.v).ExpTaylor(work)
	if err != nil {
		return Decimal{}, fmt.Errorf("exp(%s * ln %s): %w", e.v, d.v, err)
	}
	return Decimal{v: r.Round(DecimalPrecision)}, nil
}

func (d Decimal) Truncate(digits int) (Decimal, error) {
	if err := checkDigits(digits, int(DecimalPrecision)); err != nil {
		return Decimal{}, err
	}
	return Decimal{v: d.v.Truncate(int32(digits))}, nil
}

func (d Decimal) Round(digits int) (Decimal, error) {
	if err := checkDigits(digits, int(DecimalPrecision)); err != nil {
		return Decimal{}, err
	}
	return Decimal{v: d.v.Round(int32(digits))}, nil
}

func (d Decimal) Cmp(e Decimal) int { return d.v.Cmp(e.v) }
func (d Decimal) Sign() int         { return d.v.Sign() }
func (Decimal) IsFinite() bool      { return true }
func (d Decimal) Float64() float64  { return d.v.InexactFloat64() }
func (d Decimal) String() string    { return d.v.String() }

func (Decimal) FromInt(n int64) Decimal { return Decimal{v: decimal.NewFromInt(n)} }

func (Decimal) FromString(s string) (Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return Decimal{v: v}, nil
}

func (Decimal) MaxDigits() int { return int(DecimalPrecision) }

func (Decimal) Kind() Kind { return KindDecimal }
