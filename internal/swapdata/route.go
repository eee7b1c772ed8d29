// Package swapdata defines the normalized swap-route descriptor handed to the
// flash-mint contracts, its "no swap" sentinel and the shape rules every route
// must satisfy before it is encoded into call data.
package swapdata

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Exchange mirrors the on-chain DEX adapter enum; ordinals are part of the
// contract ABI.
type Exchange uint8

const (
	ExchangeNone Exchange = iota
	ExchangeQuickswap
	ExchangeSushiswap
	ExchangeUniV3
	ExchangeCurve
	ExchangeBalancerV2
)

var exchangeNames = map[Exchange]string{
	ExchangeNone:       "none",
	ExchangeQuickswap:  "quickswap",
	ExchangeSushiswap:  "sushiswap",
	ExchangeUniV3:      "uniswap_v3",
	ExchangeCurve:      "curve",
	ExchangeBalancerV2: "balancer_v2",
}

func (e Exchange) String() string {
	if name, ok := exchangeNames[e]; ok {
		return name
	}
	return fmt.Sprintf("exchange(%d)", uint8(e))
}

func (e Exchange) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Exchange) UnmarshalText(text []byte) error {
	parsed, ok := ParseExchange(string(text))
	if !ok {
		return fmt.Errorf("unknown exchange %q", string(text))
	}
	*e = parsed
	return nil
}

// ParseExchange maps aggregator source names onto the adapter enum. Matching
// ignores case and separators so "Uniswap_V3", "uniswap-v3" and "uniswapv3"
// are equivalent.
func ParseExchange(source string) (Exchange, bool) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(source)))
	switch norm {
	case "none":
		return ExchangeNone, true
	case "quickswap":
		return ExchangeQuickswap, true
	case "sushiswap", "sushi":
		return ExchangeSushiswap, true
	case "uniswapv3", "univ3", "uniswap":
		return ExchangeUniV3, true
	case "curve", "curvev2":
		return ExchangeCurve, true
	case "balancerv2", "balancer":
		return ExchangeBalancerV2, true
	default:
		return ExchangeNone, false
	}
}

// Route is one swap leg. Fees are Uniswap V3 fee tiers in hundredths of a bip.
type Route struct {
	Exchange Exchange         `json:"exchange"`
	Path     []common.Address `json:"path"`
	Fees     []uint32         `json:"fees"`
	Pool     common.Address   `json:"pool"`
	PoolIDs  []common.Hash    `json:"pool_ids,omitempty"`
}

// NoSwap returns a new sentinel route telling the contract to skip a leg.
// Callers own the returned value.
func NoSwap() Route {
	return Route{
		Exchange: ExchangeNone,
		Path:     []common.Address{{}, {}},
		Fees:     []uint32{},
	}
}

// IsNoSwap reports whether r is the skip-this-leg sentinel.
func (r Route) IsNoSwap() bool {
	return r.Exchange == ExchangeNone &&
		len(r.Path) == 2 &&
		r.Path[0] == (common.Address{}) &&
		r.Path[1] == (common.Address{}) &&
		len(r.Fees) == 0 &&
		r.Pool == (common.Address{}) &&
		len(r.PoolIDs) == 0
}
