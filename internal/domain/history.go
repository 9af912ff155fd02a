package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuePoint is the total portfolio value at one bucket timestamp.
type ValuePoint struct {
	Timestamp int64           `json:"timestamp"`
	Value     decimal.Decimal `json:"value"`
}

// Date returns the calendar day of the point in UTC.
func (p ValuePoint) Date() time.Time {
	return time.UnixMilli(p.Timestamp).UTC()
}

// SkippedHolding records a holding that contributed nothing to the series.
type SkippedHolding struct {
	Asset   AssetInfo       `json:"asset"`
	Balance decimal.Decimal `json:"balance"`
	Reason  string          `json:"reason"`
}

// History is the reconstructed value series of an account's current holdings,
// plus the metadata a renderer needs.
type History struct {
	Account  string           `json:"account"`
	Quote    AssetInfo        `json:"quote"`
	From     time.Time        `json:"from"`
	To       time.Time        `json:"to"`
	Baseline decimal.Decimal  `json:"baseline"`
	Points   []ValuePoint     `json:"points"`
	Skipped  []SkippedHolding `json:"skipped,omitempty"`
}
