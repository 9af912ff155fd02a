package portfolio

import (
	"errors"
	"fmt"

	"github.com/mtlprog/hindsight/internal/domain"
	"github.com/mtlprog/hindsight/internal/horizon"
)

// ErrPoolShares marks a liquidity pool share balance, which has no price series.
var ErrPoolShares = errors.New("liquidity pool shares are not priceable")

// MalformedHoldingError reports a balance record missing a field its asset type requires.
type MalformedHoldingError struct {
	Index     int
	AssetType string
	Field     string
	Err       error
}

func (e *MalformedHoldingError) Error() string {
	msg := fmt.Sprintf("malformed balance #%d (asset_type %q): field %s", e.Index, e.AssetType, e.Field)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg + " is missing"
}

func (e *MalformedHoldingError) Unwrap() error { return e.Err }

// Classify converts the index-th raw balance record into a Holding.
func Classify(index int, b horizon.HorizonBalance) (domain.Holding, error) {
	malformed := func(field string, err error) error {
		return &MalformedHoldingError{Index: index, AssetType: b.AssetType, Field: field, Err: err}
	}

	var asset domain.AssetInfo
	switch domain.AssetType(b.AssetType) {
	case domain.AssetTypeNative:
		asset = domain.XLMAsset()
	case domain.AssetTypeCreditAlphanum4, domain.AssetTypeCreditAlphanum12:
		if b.AssetCode == "" {
			return domain.Holding{}, malformed("asset_code", nil)
		}
		if b.AssetIssuer == "" {
			return domain.Holding{}, malformed("asset_issuer", nil)
		}
		asset = domain.AssetInfo{
			Code:   b.AssetCode,
			Issuer: b.AssetIssuer,
			Type:   domain.AssetType(b.AssetType),
		}
	case "liquidity_pool_shares":
		return domain.Holding{}, ErrPoolShares
	case "":
		return domain.Holding{}, malformed("asset_type", nil)
	default:
		return domain.Holding{}, malformed("asset_type", fmt.Errorf("unknown asset type"))
	}

	if b.Balance == "" {
		return domain.Holding{}, malformed("balance", nil)
	}
	balance, err := domain.ParseAmount(b.Balance)
	if err != nil {
		return domain.Holding{}, malformed("balance", err)
	}

	return domain.Holding{Asset: asset, Balance: balance}, nil
}
