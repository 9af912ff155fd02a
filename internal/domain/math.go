package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const stellarPrecision = 7

// ParseAmount parses a Horizon amount string. Unlike a lenient parse, empty or
// invalid input is an error so schema problems surface.
func ParseAmount(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	return d, nil
}

// FormatAmount rounds to Stellar precision (7 decimal places) and strips trailing zeros.
func FormatAmount(d decimal.Decimal) string {
	return formatStellar(d)
}

// formatStellar rounds to 7 decimal places and strips trailing zeros.
func formatStellar(d decimal.Decimal) string {
	rounded := d.Round(stellarPrecision)
	s := rounded.StringFixed(stellarPrecision)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
