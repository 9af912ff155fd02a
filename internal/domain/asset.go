package domain

import (
	"fmt"
	"strings"
)

// AssetType represents the Stellar asset type classification.
type AssetType string

const (
	AssetTypeNative           AssetType = "native"
	AssetTypeCreditAlphanum4  AssetType = "credit_alphanum4"
	AssetTypeCreditAlphanum12 AssetType = "credit_alphanum12"
)

// AssetInfo describes a Stellar asset.
type AssetInfo struct {
	Code   string    `json:"code"`
	Issuer string    `json:"issuer,omitempty"`
	Type   AssetType `json:"type"`
}

// IsNative returns true if this asset is the native XLM.
func (a AssetInfo) IsNative() bool {
	return a.Type == AssetTypeNative
}

// Canonical returns a canonical string representation: "native" for XLM, "CODE:ISSUER" for credits.
func (a AssetInfo) Canonical() string {
	if a.IsNative() {
		return "native"
	}
	return fmt.Sprintf("%s:%s", a.Code, a.Issuer)
}

// Equal reports whether two assets share code and issuer.
func (a AssetInfo) Equal(b AssetInfo) bool {
	if a.IsNative() || b.IsNative() {
		return a.IsNative() && b.IsNative()
	}
	return a.Code == b.Code && a.Issuer == b.Issuer
}

// String returns "XLM" for the native asset and "CODE:GABCDEF" (issuer truncated) otherwise.
func (a AssetInfo) String() string {
	if a.IsNative() {
		return nativeCode
	}
	issuer := a.Issuer
	if len(issuer) > 7 {
		issuer = issuer[:7]
	}
	return a.Code + ":" + issuer
}

// AssetTypeFromCode determines the Stellar asset type from the code string.
func AssetTypeFromCode(code string) AssetType {
	if code == nativeCode || code == "native" {
		return AssetTypeNative
	}
	return creditType(code)
}

// NewAssetInfo creates an AssetInfo with the correct type inferred from the code.
// Only an issuer-less XLM or native code yields the native asset; an issued
// asset keeps its issuer whatever its code.
func NewAssetInfo(code, issuer string) AssetInfo {
	if issuer == "" && AssetTypeFromCode(code) == AssetTypeNative {
		return xlmAsset
	}
	return AssetInfo{
		Code:   code,
		Issuer: issuer,
		Type:   creditType(code),
	}
}

func creditType(code string) AssetType {
	if len(code) <= 4 {
		return AssetTypeCreditAlphanum4
	}
	return AssetTypeCreditAlphanum12
}

// ParseAsset parses "native", "XLM" or "CODE:ISSUER".
func ParseAsset(s string) (AssetInfo, error) {
	s = strings.TrimSpace(s)
	if s == "native" || s == nativeCode {
		return xlmAsset, nil
	}
	code, issuer, ok := strings.Cut(s, ":")
	if !ok || code == "" || issuer == "" {
		return AssetInfo{}, fmt.Errorf("invalid asset %q: want CODE:ISSUER or native", s)
	}
	if len(code) > 12 {
		return AssetInfo{}, fmt.Errorf("invalid asset %q: code longer than 12 characters", s)
	}
	if !IsValidAccountID(issuer) {
		return AssetInfo{}, fmt.Errorf("invalid asset %q: malformed issuer", s)
	}
	return NewAssetInfo(code, issuer), nil
}

const nativeCode = "XLM"

// USDCIssuer is the Stellar address of Circle's USDC issuer.
const USDCIssuer = "GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN"

// xlmAsset and usdcAsset are unexported to prevent external mutation.
var (
	xlmAsset = AssetInfo{
		Code: nativeCode,
		Type: AssetTypeNative,
	}
	usdcAsset = AssetInfo{
		Code:   "USDC",
		Issuer: USDCIssuer,
		Type:   AssetTypeCreditAlphanum4,
	}
)

// XLMAsset returns the Stellar native asset info.
func XLMAsset() AssetInfo { return xlmAsset }

// USDCAsset returns the default quote asset.
func USDCAsset() AssetInfo { return usdcAsset }
