package builder

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
)

var zeroExABI = mustABI(registry.FlashMintZeroExABI)

// SwapBasketRequest builds a mint or redeem of a basket token whose
// components are bought or sold with aggregator calldata. ComponentQuotes
// follows the issuance module's component order; an empty entry marks a
// component that is the payment token itself.
type SwapBasketRequest struct {
	ChainID                int64
	IsMinting              bool
	IndexToken             common.Address
	IndexTokenSymbol       string
	IndexTokenAmount       *big.Int
	InputOutputToken       common.Address
	InputOutputTokenSymbol string
	InputOutputTokenAmount *big.Int
	ComponentQuotes        [][]byte
	IssuanceModule         registry.IssuanceModule
}

type SwapBasket struct{}

func NewSwapBasket() *SwapBasket {
	return &SwapBasket{}
}

func (b *SwapBasket) Build(_ context.Context, req SwapBasketRequest) (Transaction, error) {
	contract, ok := registry.FlashMintContract(registry.FamilyZeroEx, req.IndexTokenSymbol, req.ChainID)
	if !ok {
		return Transaction{}, clierr.New(clierr.CodeUnsupported, "no swap basket flash mint contract on this chain")
	}
	if err := requireAddress("an index token", req.IndexToken); err != nil {
		return Transaction{}, err
	}
	if err := requireAddress("an input/output token", req.InputOutputToken); err != nil {
		return Transaction{}, err
	}
	if err := requireAddress("an issuance module", req.IssuanceModule.Address); err != nil {
		return Transaction{}, err
	}
	if err := requireAmount("index token amount", req.IndexTokenAmount); err != nil {
		return Transaction{}, err
	}
	if err := requireAmount("input/output token amount", req.InputOutputTokenAmount); err != nil {
		return Transaction{}, err
	}
	if len(req.ComponentQuotes) == 0 {
		return Transaction{}, clierr.New(clierr.CodeUsage, "build request requires at least one component quote")
	}
	quotes := make([][]byte, len(req.ComponentQuotes))
	for i, q := range req.ComponentQuotes {
		quotes[i] = append([]byte{}, q...)
	}
	module, isDebt := req.IssuanceModule.Address, req.IssuanceModule.IsDebt

	if isNative(req.InputOutputToken, req.InputOutputTokenSymbol) {
		if req.IsMinting {
			return pack(zeroExABI, contract, req.InputOutputTokenAmount, "issueExactSetFromETH",
				req.IndexToken, req.IndexTokenAmount, quotes, module, isDebt)
		}
		return pack(zeroExABI, contract, nil, "redeemExactSetForETH",
			req.IndexToken, req.IndexTokenAmount, req.InputOutputTokenAmount, quotes, module, isDebt)
	}
	if req.IsMinting {
		return pack(zeroExABI, contract, nil, "issueExactSetFromToken",
			req.IndexToken, req.InputOutputToken, req.IndexTokenAmount, req.InputOutputTokenAmount, quotes, module, isDebt)
	}
	return pack(zeroExABI, contract, nil, "redeemExactSetForToken",
		req.IndexToken, req.InputOutputToken, req.IndexTokenAmount, req.InputOutputTokenAmount, quotes, module, isDebt)
}
