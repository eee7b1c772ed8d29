package swapdata

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
)

// Validate checks that the route's path, fee, pool and pool-id shape matches
// its exchange. A failing route must never reach call-data encoding.
func Validate(r Route) error {
	switch r.Exchange {
	case ExchangeNone:
		if !r.IsNoSwap() {
			return malformed(r, "exchange none requires the zero-address path sentinel and no fees")
		}
		return nil
	case ExchangeUniV3:
		if err := requireHops(r); err != nil {
			return err
		}
		if len(r.Fees) != len(r.Path)-1 {
			return malformed(r, fmt.Sprintf("expected %d fee tiers for %d hops, got %d", len(r.Path)-1, len(r.Path), len(r.Fees)))
		}
		for _, fee := range r.Fees {
			if fee == 0 || fee >= 1_000_000 {
				return malformed(r, fmt.Sprintf("invalid fee tier %d", fee))
			}
		}
		return nil
	case ExchangeSushiswap, ExchangeQuickswap:
		if err := requireHops(r); err != nil {
			return err
		}
		return requireNoFees(r)
	case ExchangeCurve:
		if err := requireHops(r); err != nil {
			return err
		}
		if r.Pool == (common.Address{}) {
			return malformed(r, "curve route requires a pool address")
		}
		return requireNoFees(r)
	case ExchangeBalancerV2:
		if err := requireHops(r); err != nil {
			return err
		}
		if len(r.PoolIDs) != len(r.Path)-1 {
			return malformed(r, fmt.Sprintf("expected %d pool ids for %d hops, got %d", len(r.Path)-1, len(r.Path), len(r.PoolIDs)))
		}
		for _, poolID := range r.PoolIDs {
			if poolID == (common.Hash{}) {
				return malformed(r, "balancer route has an empty pool id")
			}
		}
		return requireNoFees(r)
	default:
		return malformed(r, "unknown exchange")
	}
}

// ValidateAll validates routes in order and reports the first failure.
func ValidateAll(routes ...Route) error {
	for i, r := range routes {
		if err := Validate(r); err != nil {
			return clierr.Wrap(clierr.CodeMalformedRoute, fmt.Sprintf("swap route %d", i), err)
		}
	}
	return nil
}

func requireHops(r Route) error {
	if len(r.Path) < 2 {
		return malformed(r, "path needs at least two hops")
	}
	for i, hop := range r.Path {
		if hop == (common.Address{}) {
			return malformed(r, fmt.Sprintf("path hop %d is the zero address", i))
		}
	}
	return nil
}

func requireNoFees(r Route) error {
	if len(r.Fees) != 0 {
		return malformed(r, "fees are only valid for uniswap_v3 routes")
	}
	return nil
}

func malformed(r Route, reason string) error {
	return clierr.New(clierr.CodeMalformedRoute, fmt.Sprintf("malformed %s route: %s", r.Exchange, reason))
}
