package horizon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mtlprog/hindsight/internal/domain"
)

// MaxPageLimit is the largest page Horizon serves for collection endpoints.
const MaxPageLimit = 200

// TradeAggregationsRequest selects one page of candles for a pair.
// StartTime and EndTime are epoch milliseconds.
type TradeAggregationsRequest struct {
	Base       domain.AssetInfo
	Counter    domain.AssetInfo
	Resolution time.Duration
	StartTime  int64
	EndTime    int64
	Limit      int
}

func (r TradeAggregationsRequest) query() url.Values {
	params := url.Values{}
	setAssetParams(params, "base", r.Base)
	setAssetParams(params, "counter", r.Counter)
	params.Set("resolution", strconv.FormatInt(r.Resolution.Milliseconds(), 10))
	params.Set("start_time", strconv.FormatInt(r.StartTime, 10))
	params.Set("end_time", strconv.FormatInt(r.EndTime, 10))
	if r.Limit > 0 {
		params.Set("limit", strconv.Itoa(min(r.Limit, MaxPageLimit)))
	}
	params.Set("order", "asc")
	return params
}

// FetchTradeAggregations retrieves one page of OHLC buckets, oldest first.
func (c *Client) FetchTradeAggregations(ctx context.Context, req TradeAggregationsRequest) ([]TradeAggregation, error) {
	var resp TradeAggregationsResponse
	if err := c.getJSON(ctx, "/trade_aggregations?"+req.query().Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetching trade aggregations %s/%s: %w", req.Base.Code, req.Counter.Code, err)
	}
	return resp.Embedded.Records, nil
}

func setAssetParams(params url.Values, prefix string, asset domain.AssetInfo) {
	if asset.IsNative() {
		params.Set(prefix+"_asset_type", "native")
		return
	}
	params.Set(prefix+"_asset_type", string(asset.Type))
	params.Set(prefix+"_asset_code", asset.Code)
	params.Set(prefix+"_asset_issuer", asset.Issuer)
}
