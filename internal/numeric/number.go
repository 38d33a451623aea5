// Package numeric defines the arithmetic the pricing pipeline relies on and the
// two representations it runs over: binary floating point (Float) and
// arbitrary-precision decimal (Decimal).
//
// Pipeline code is written once against Number[T] and instantiated with either
// type, so the same instrument can be priced at machine precision and at
// decimal precision and the results compared.
package numeric

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDigitsOverflow is returned when a truncation or rounding position is
// beyond what the representation can hold.
var ErrDigitsOverflow = errors.New("digits exceed representable precision")

// Kind names a numeric representation.
type Kind string

const (
	KindFloat   Kind = "float64"
	KindDecimal Kind = "decimal"
)

// ParseKind maps user input to a Kind. Empty input selects KindDecimal.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "decimal", "dec":
		return KindDecimal, nil
	case "float64", "float", "binary", "bin":
		return KindFloat, nil
	default:
		return "", fmt.Errorf("unknown numeric kind %q", s)
	}
}

// Number is the capability set required by the pricing pipeline. T is the
// implementing type itself, so operations stay closed over one representation.
//
// FromInt and FromString ignore their receiver; they are called on the zero
// value to construct new values generically (see Int and Parse).
type Number[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	// Div panics on a zero divisor for Decimal; callers guarantee non-zero.
	Div(T) T
	Pow(T) (T, error)
	// Truncate drops digits after the given decimal position, toward zero.
	Truncate(digits int) (T, error)
	// Round rounds half away from zero at the given decimal position.
	Round(digits int) (T, error)
	Cmp(T) int
	Sign() int
	IsFinite() bool
	Float64() float64
	String() string
	FromInt(int64) T
	FromString(string) (T, error)
	// MaxDigits is the largest accepted Truncate/Round position.
	MaxDigits() int
	Kind() Kind
}

// Int returns n in representation T.
func Int[T Number[T]](n int64) T {
	var zero T
	return zero.FromInt(n)
}

// Parse reads a plain decimal string into representation T.
func Parse[T Number[T]](s string) (T, error) {
	var zero T
	return zero.FromString(s)
}

// MustParse is Parse for constants known to be valid. It panics otherwise.
func MustParse[T Number[T]](s string) T {
	v, err := Parse[T](s)
	if err != nil {
		panic(err)
	}
	return v
}

// KindOf reports the representation of T.
func KindOf[T Number[T]]() Kind {
	var zero T
	return zero.Kind()
}

// CheckDigits validates a truncation/rounding position for T.
func CheckDigits[T Number[T]](digits int) error {
	var zero T
	return checkDigits(digits, zero.MaxDigits())
}

func checkDigits(digits, max int) error {
	if digits < 0 {
		return fmt.Errorf("%w: negative digit position %d", ErrDigitsOverflow, digits)
	}
	if digits > max {
		return fmt.Errorf("%w: %d > %d", ErrDigitsOverflow, digits, max)
	}
	return nil
}
