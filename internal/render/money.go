package render

import (
	"sync"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const quoteFraction = 2

var currencyMu sync.Mutex

// currency returns the go-money currency for a quote code, registering
// non-ISO codes such as USDC with the code itself as the grapheme.
func currency(code string) *money.Currency {
	currencyMu.Lock()
	defer currencyMu.Unlock()

	if c := money.GetCurrency(code); c != nil {
		return c
	}
	return money.AddCurrency(code, code, "1 $", ".", ",", quoteFraction)
}

// formatMoney renders v in the quote currency, rounded to its minor unit.
func formatMoney(v decimal.Decimal, code string) string {
	cur := currency(code)
	minor := v.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
