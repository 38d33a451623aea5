// Package quote holds the market context a price is computed in.
package quote

import (
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/numeric"
)

// ErrInvalidContext is returned for a quote or price with unusable fields.
var ErrInvalidContext = errors.New("invalid quote context")

// Quote is the pricing context: settlement date, the face the price refers
// to, and optionally the decimal position the published price is truncated at.
type Quote[T numeric.Number[T]] struct {
	settlement time.Time
	face       T
	truncation *int
}

// NewQuote builds an untruncated quote.
func NewQuote[T numeric.Number[T]](settlement time.Time, face T) (Quote[T], error) {
	if settlement.IsZero() {
		return Quote[T]{}, fmt.Errorf("%w: settlement date is required", ErrInvalidContext)
	}
	if !face.IsFinite() || face.Sign() <= 0 {
		return Quote[T]{}, fmt.Errorf("%w: face %s must be positive", ErrInvalidContext, face)
	}
	return Quote[T]{settlement: calendar.Normalize(settlement), face: face}, nil
}

// NewTruncatedQuote builds a quote whose prices are truncated at digits.
func NewTruncatedQuote[T numeric.Number[T]](settlement time.Time, face T, digits int) (Quote[T], error) {
	if err := numeric.CheckDigits[T](digits); err != nil {
		return Quote[T]{}, fmt.Errorf("truncation: %w", err)
	}
	q, err := NewQuote(settlement, face)
	if err != nil {
		return Quote[T]{}, err
	}
	q.truncation = &digits
	return q, nil
}

func (q Quote[T]) SettlementDate() time.Time { return q.settlement }
func (q Quote[T]) Face() T                   { return q.face }

// Truncation reports the truncation position, if any.
func (q Quote[T]) Truncation() (int, bool) {
	if q.truncation == nil {
		return 0, false
	}
	return *q.truncation, true
}

// Apply truncates v when the quote carries a truncation position.
func (q Quote[T]) Apply(v T) (T, error) {
	if q.truncation == nil {
		return v, nil
	}
	return v.Truncate(*q.truncation)
}

// Price is an observed settlement price.
type Price[T numeric.Number[T]] struct {
	settlement time.Time
	price      T
	face       T
}

// NewPrice validates a positive price against a positive face.
func NewPrice[T numeric.Number[T]](settlement time.Time, price, face T) (Price[T], error) {
	if settlement.IsZero() {
		return Price[T]{}, fmt.Errorf("%w: settlement date is required", ErrInvalidContext)
	}
	if !price.IsFinite() || price.Sign() <= 0 {
		return Price[T]{}, fmt.Errorf("%w: price %s must be positive", ErrInvalidContext, price)
	}
	if !face.IsFinite() || face.Sign() <= 0 {
		return Price[T]{}, fmt.Errorf("%w: face %s must be positive", ErrInvalidContext, face)
	}
	return Price[T]{settlement: calendar.Normalize(settlement), price: price, face: face}, nil
}

func (p Price[T]) SettlementDate() time.Time { return p.settlement }
func (p Price[T]) SettlementPrice() T        { return p.price }
func (p Price[T]) Face() T                   { return p.face }
