// Package yield converts between a quoted yield and a settlement price.
package yield

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guttosm/b3yield/internal/instrument"
	"github.com/guttosm/b3yield/internal/numeric"
	"github.com/guttosm/b3yield/internal/quote"
)

var (
	// ErrInvalidYield is returned for a yield that is not finite or not above -1,
	// and when no yield reproduces a given price.
	ErrInvalidYield = errors.New("invalid yield")
	// ErrSettlement is returned when nothing is left to pay after settlement.
	ErrSettlement = errors.New("settlement on or after last payment")
)

// TruncationPolicy says where a bond price is truncated.
type TruncationPolicy int

const (
	// TruncateTotal truncates the summed present value once.
	TruncateTotal TruncationPolicy = iota
	// TruncateEachFlow truncates every discounted flow, then the sum.
	TruncateEachFlow
)

func (p TruncationPolicy) String() string {
	if p == TruncateEachFlow {
		return "flow"
	}
	return "total"
}

// ParseTruncationPolicy accepts "total" (also empty) and "flow".
func ParseTruncationPolicy(s string) (TruncationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "total", "sum":
		return TruncateTotal, nil
	case "flow", "each_flow", "each-flow", "per_flow":
		return TruncateEachFlow, nil
	}
	return TruncateTotal, fmt.Errorf("unknown truncation policy %q", s)
}

// Methodology prices instruments from a yield and recovers the yield from a
// price under one market convention.
type Methodology[T numeric.Number[T]] interface {
	Name() string
	Price(y T, inst instrument.Instrument[T], q quote.Quote[T]) (T, error)
	Yield(p quote.Price[T], inst instrument.Instrument[T]) (T, error)
}

// ValidateYield checks y is finite and greater than -1.
func ValidateYield[T numeric.Number[T]](y T) error {
	if !y.IsFinite() {
		return fmt.Errorf("%w: %s is not finite", ErrInvalidYield, y)
	}
	if y.Cmp(numeric.Int[T](-1)) <= 0 {
		return fmt.Errorf("%w: %s must be greater than -1", ErrInvalidYield, y)
	}
	return nil
}
