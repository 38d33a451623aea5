package dto

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatBRL renders a decimal amount as Brazilian reais ("R$1.048,80"),
// truncating to centavos. It returns "" for input that does not parse.
func FormatBRL(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return ""
	}
	cur := money.GetCurrency(money.BRL)
	if cur == nil {
		return ""
	}
	return money.New(d.Shift(int32(cur.Fraction)).IntPart(), money.BRL).Display()
}
