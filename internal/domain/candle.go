package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resolution is the fixed daily candle bucket.
const Resolution = 24 * time.Hour

// Candle is an OHLC summary of one asset pair over one daily bucket.
type Candle struct {
	Timestamp     int64           `json:"timestamp"` // bucket start, epoch millis
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Close         decimal.Decimal `json:"close"`
	Avg           decimal.Decimal `json:"avg"`
	BaseVolume    decimal.Decimal `json:"baseVolume"`
	CounterVolume decimal.Decimal `json:"counterVolume"`
	TradeCount    int64           `json:"tradeCount"`
}

// Time returns the bucket start in UTC.
func (c Candle) Time() time.Time {
	return time.UnixMilli(c.Timestamp).UTC()
}
