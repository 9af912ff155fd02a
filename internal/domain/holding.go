package domain

import "github.com/shopspring/decimal"

// Holding is an owned quantity of one asset on the analyzed account.
// The native asset carries no issuer; every credit asset carries one.
type Holding struct {
	Asset   AssetInfo       `json:"asset"`
	Balance decimal.Decimal `json:"balance"`
}

// IsNative reports whether the holding is denominated in XLM.
func (h Holding) IsNative() bool {
	return h.Asset.IsNative()
}

// AssetPair is the key for one candle fetch: Base priced in Counter.
type AssetPair struct {
	Base    AssetInfo `json:"base"`
	Counter AssetInfo `json:"counter"`
}

// String returns "BASE/COUNTER" using the short asset form.
func (p AssetPair) String() string {
	return p.Base.String() + "/" + p.Counter.String()
}
