package builder

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

var hyEthABI = mustABI(registry.FlashMintHyEthABI)

const ethPaymentTokenFee = 500

// ComponentBasketRequest builds a mint or redeem of a basket token whose
// components the contract swaps from and to ETH internally.
type ComponentBasketRequest struct {
	ChainID                int64
	IsMinting              bool
	IndexToken             common.Address
	IndexTokenSymbol       string
	IndexTokenAmount       *big.Int
	InputOutputToken       common.Address
	InputOutputTokenSymbol string
	InputOutputTokenAmount *big.Int
	ComponentCount         int
}

type ComponentBasket struct{}

func NewComponentBasket() *ComponentBasket {
	return &ComponentBasket{}
}

func (b *ComponentBasket) Build(_ context.Context, req ComponentBasketRequest) (Transaction, error) {
	contract, ok := registry.FlashMintContract(registry.FamilyComponentBasket, req.IndexTokenSymbol, req.ChainID)
	if !ok {
		return Transaction{}, clierr.New(clierr.CodeUnsupported, "no basket flash mint contract on this chain")
	}
	if err := requireAddress("an index token", req.IndexToken); err != nil {
		return Transaction{}, err
	}
	if err := requireAddress("an input/output token", req.InputOutputToken); err != nil {
		return Transaction{}, err
	}
	if err := requireAmount("index token amount", req.IndexTokenAmount); err != nil {
		return Transaction{}, err
	}
	if err := requireAmount("input/output token amount", req.InputOutputTokenAmount); err != nil {
		return Transaction{}, err
	}
	if req.ComponentCount <= 0 {
		return Transaction{}, clierr.New(clierr.CodeUsage, "build request requires at least one component")
	}

	components := make([]swapdata.TupleV2, 0, req.ComponentCount)
	for i := 0; i < req.ComponentCount; i++ {
		components = append(components, swapdata.NoSwap().V2())
	}

	if isNative(req.InputOutputToken, req.InputOutputTokenSymbol) {
		if req.IsMinting {
			return pack(hyEthABI, contract, req.InputOutputTokenAmount, "issueExactSetFromETH",
				req.IndexToken, req.IndexTokenAmount, components)
		}
		return pack(hyEthABI, contract, nil, "redeemExactSetForETH",
			req.IndexToken, req.IndexTokenAmount, req.InputOutputTokenAmount, components)
	}

	// WETH legs use the zero-address no-swap route, not an [ETH, WETH] path.
	toEth := PaymentTokenToEth(req.InputOutputToken, req.InputOutputTokenSymbol)
	fromEth := EthToPaymentToken(req.InputOutputToken, req.InputOutputTokenSymbol)
	if err := swapdata.ValidateAll(toEth, fromEth); err != nil {
		return Transaction{}, err
	}
	if req.IsMinting {
		return pack(hyEthABI, contract, nil, "issueExactSetFromERC20",
			req.IndexToken, req.IndexTokenAmount, req.InputOutputToken, req.InputOutputTokenAmount,
			toEth.V2(), fromEth.V2(), components)
	}
	return pack(hyEthABI, contract, nil, "redeemExactSetForERC20",
		req.IndexToken, req.IndexTokenAmount, req.InputOutputToken, req.InputOutputTokenAmount,
		fromEth.V2(), components)
}

// EthToPaymentToken routes the basket's ETH into an ERC20 payment token. WETH
// needs no swap.
func EthToPaymentToken(token common.Address, symbol string) swapdata.Route {
	if symbol == registry.SymbolWETH || token == common.HexToAddress(registry.WETHMainnetAddress) {
		return swapdata.NoSwap()
	}
	return swapdata.Route{
		Exchange: swapdata.ExchangeUniV3,
		Path:     []common.Address{common.HexToAddress(registry.WETHMainnetAddress), token},
		Fees:     []uint32{ethPaymentTokenFee},
	}
}

// PaymentTokenToEth routes an ERC20 payment token into ETH. WETH needs no swap.
func PaymentTokenToEth(token common.Address, symbol string) swapdata.Route {
	if symbol == registry.SymbolWETH || token == common.HexToAddress(registry.WETHMainnetAddress) {
		return swapdata.NoSwap()
	}
	return swapdata.Route{
		Exchange: swapdata.ExchangeUniV3,
		Path:     []common.Address{token, common.HexToAddress(registry.WETHMainnetAddress)},
		Fees:     []uint32{ethPaymentTokenFee},
	}
}
