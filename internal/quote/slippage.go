package quote

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// SlippageAdjusted widens a funding amount against the caller: minting rounds
// amount*(1+slippage) up, redeeming rounds amount*(1-slippage) down.
func SlippageAdjusted(amount *big.Int, slippage float64, isMinting bool) *big.Int {
	if amount == nil {
		return nil
	}
	value := decimal.NewFromBigInt(amount, 0)
	s := decimal.NewFromFloat(slippage)
	if isMinting {
		return value.Mul(decimal.NewFromInt(1).Add(s)).Ceil().BigInt()
	}
	return value.Mul(decimal.NewFromInt(1).Sub(s)).Floor().BigInt()
}
