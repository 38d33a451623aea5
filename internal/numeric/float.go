package numeric

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// floatMaxDigits keeps x*10^digits inside the 53-bit mantissa for the
// magnitudes prices take.
const floatMaxDigits = 15

// Float is the binary floating-point representation.
type Float float64

var _ Number[Float] = Float(0)

func (f Float) Add(g Float) Float { return f + g }
func (f Float) Sub(g Float) Float { return f - g }
func (f Float) Mul(g Float) Float { return f * g }
func (f Float) Div(g Float) Float { return f / g }

func (f Float) Pow(e Float) (Float, error) {
	r := math.Pow(float64(f), float64(e))
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("%v ** %v is not finite", float64(f), float64(e))
	}
	return Float(r), nil
}

func (f Float) Truncate(digits int) (Float, error) {
	if err := checkDigits(digits, floatMaxDigits); err != nil {
		return 0, err
	}
	p := math.Pow(10, float64(digits))
	return Float(math.Trunc(float64(f)*p) / p), nil
}

func (f Float) Round(digits int) (Float, error) {
	if err := checkDigits(digits, floatMaxDigits); err != nil {
		return 0, err
	}
	p := math.Pow(10, float64(digits))
	return Float(math.Round(float64(f)*p) / p), nil
}

func (f Float) Cmp(g Float) int {
	switch {
	case f < g:
		return -1
	case f > g:
		return 1
	default:
		return 0
	}
}

func (f Float) Sign() int { return f.Cmp(0) }

func (f Float) IsFinite() bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

func (f Float) Float64() float64 { return float64(f) }

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'f', -1, 64) }

func (Float) FromInt(n int64) Float { return Float(n) }

func (Float) FromString(s string) (Float, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse float %q: %w", s, err)
	}
	return Float(v), nil
}

func (Float) MaxDigits() int { return floatMaxDigits }

func (Float) Kind() Kind { return KindFloat }
