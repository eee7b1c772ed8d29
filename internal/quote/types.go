// Package quote computes flash-mint quotes: how much of a payment token a mint
// costs or a redeem returns, and the swap routes the flash-mint contract needs
// to get there.
package quote

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/id"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

type Token struct {
	Symbol   string
	Address  common.Address
	Decimals int
}

// IsNative reports whether the token is addressed by the native sentinel.
func (t Token) IsNative() bool {
	return strings.EqualFold(t.Address.Hex(), registry.NativeSentinel)
}

// Request asks for a mint (InputToken pays, OutputToken is the index) or a
// redeem (InputToken is the index, OutputToken is received).
// IndexTokenAmount is exact and never slippage adjusted, except that an
// ExactInput mint spends exactly the quoted input and treats IndexTokenAmount
// as the minimum minted.
type Request struct {
	IsMinting        bool
	InputToken       Token
	OutputToken      Token
	IndexTokenAmount *big.Int
	Slippage         float64
	ExactInput       bool
}

func (r Request) IndexToken() Token {
	if r.IsMinting {
		return r.OutputToken
	}
	return r.InputToken
}

// PaymentToken is the token the caller supplies when minting or receives when
// redeeming.
func (r Request) PaymentToken() Token {
	if r.IsMinting {
		return r.InputToken
	}
	return r.OutputToken
}

func (r Request) Validate() error {
	if r.IndexTokenAmount == nil || r.IndexTokenAmount.Sign() <= 0 {
		return clierr.New(clierr.CodeUsage, "index token amount must be positive")
	}
	if r.InputToken.Address == (common.Address{}) || r.OutputToken.Address == (common.Address{}) {
		return clierr.New(clierr.CodeUsage, "input and output token addresses are required")
	}
	if r.IndexToken().Symbol == "" {
		return clierr.New(clierr.CodeUsage, "index token symbol is required")
	}
	if r.InputToken.Address == r.OutputToken.Address {
		return clierr.New(clierr.CodeUsage, "input and output tokens must differ")
	}
	if r.Slippage < 0 || r.Slippage >= 1 {
		return clierr.New(clierr.CodeUsage, "slippage must be a fraction in [0, 1)")
	}
	if r.ExactInput && !r.IsMinting {
		return clierr.New(clierr.CodeUsage, "exact input only applies to mints")
	}
	return nil
}

// Quote is a priced leveraged mint or redeem. InputTokenAmount and
// OutputTokenAmount are only set by engines with symmetric sides; index-pinned
// engines report the single InputOutputTokenAmount.
type Quote struct {
	InputTokenAmount       *big.Int
	OutputTokenAmount      *big.Int
	IndexTokenAmount       *big.Int
	InputOutputTokenAmount *big.Int
	SwapDataDebtCollateral swapdata.Route
	SwapDataPaymentToken   swapdata.Route
}

// wrappedNative returns the chain's wrapped native token address.
func wrappedNative(chainID int64) (common.Address, error) {
	token, ok := id.WrappedNative(chainID)
	if !ok {
		return common.Address{}, clierr.New(clierr.CodeUnsupported, "no wrapped native token on this chain")
	}
	return common.HexToAddress(token.Address), nil
}
