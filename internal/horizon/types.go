package horizon

import (
	"bytes"
	"fmt"
	"strconv"
)

// HorizonAccount represents the JSON response from GET /accounts/{id}.
type HorizonAccount struct {
	ID       string           `json:"id"`
	Balances []HorizonBalance `json:"balances"`
}

// HorizonBalance represents a single balance entry in an account response.
// Which fields are populated depends on AssetType.
type HorizonBalance struct {
	AssetType       string `json:"asset_type"`
	AssetCode       string `json:"asset_code,omitempty"`
	AssetIssuer     string `json:"asset_issuer,omitempty"`
	Balance         string `json:"balance"`
	Limit           string `json:"limit,omitempty"`
	LiquidityPoolID string `json:"liquidity_pool_id,omitempty"`
}

// TradeAggregationsResponse wraps the embedded records of GET /trade_aggregations.
type TradeAggregationsResponse struct {
	Embedded struct {
		Records []TradeAggregation `json:"records"`
	} `json:"_embedded"`
}

// TradeAggregation is one OHLC bucket as Horizon serializes it.
// Prices and volumes are decimal strings.
type TradeAggregation struct {
	Timestamp     Int64String `json:"timestamp"`
	TradeCount    Int64String `json:"trade_count"`
	BaseVolume    string      `json:"base_volume"`
	CounterVolume string      `json:"counter_volume"`
	Avg           string      `json:"avg"`
	High          string      `json:"high"`
	Low           string      `json:"low"`
	Open          string      `json:"open"`
	Close         string      `json:"close"`
}

// Int64String decodes an integer Horizon may send either quoted or bare.
type Int64String int64

func (n *Int64String) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("decoding integer %s: %w", data, err)
	}
	*n = Int64String(v)
	return nil
}
