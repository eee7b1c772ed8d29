package builder

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

var leveragedABI = mustABI(registry.FlashMintLeveragedABI)

// LeveragedRequest builds a mint or redeem against the single-chain leveraged
// contracts. The index token is always one side of the trade.
type LeveragedRequest struct {
	ChainID                int64
	IsMinting              bool
	IndexToken             common.Address
	IndexTokenSymbol       string
	IndexTokenAmount       *big.Int
	InputOutputToken       common.Address
	InputOutputTokenSymbol string
	InputOutputTokenAmount *big.Int
	SwapDataDebtCollateral swapdata.Route
	SwapDataPaymentToken   swapdata.Route
}

type Leveraged struct{}

func NewLeveraged() *Leveraged {
	return &Leveraged{}
}

func (b *Leveraged) Build(_ context.Context, req LeveragedRequest) (Transaction, error) {
	contract, ok := registry.FlashMintContract(registry.FamilyLeveraged, req.IndexTokenSymbol, req.ChainID)
	if !ok {
		return Transaction{}, clierr.New(clierr.CodeUnsupported, "no leveraged flash mint contract for "+req.IndexTokenSymbol)
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
	if err := swapdata.ValidateAll(req.SwapDataDebtCollateral, req.SwapDataPaymentToken); err != nil {
		return Transaction{}, err
	}

	debtCollateral := req.SwapDataDebtCollateral.V1()
	payment := req.SwapDataPaymentToken.V1()
	native := isNative(req.InputOutputToken, req.InputOutputTokenSymbol)
	switch {
	case req.IsMinting && native:
		return pack(leveragedABI, contract, req.InputOutputTokenAmount, "issueExactSetFromETH",
			req.IndexToken, req.IndexTokenAmount, debtCollateral, payment)
	case req.IsMinting:
		return pack(leveragedABI, contract, nil, "issueExactSetFromERC20",
			req.IndexToken, req.IndexTokenAmount, req.InputOutputToken, req.InputOutputTokenAmount, debtCollateral, payment)
	case native:
		return pack(leveragedABI, contract, nil, "redeemExactSetForETH",
			req.IndexToken, req.IndexTokenAmount, req.InputOutputTokenAmount, debtCollateral, payment)
	default:
		return pack(leveragedABI, contract, nil, "redeemExactSetForERC20",
			req.IndexToken, req.IndexTokenAmount, req.InputOutputToken, req.InputOutputTokenAmount, debtCollateral, payment)
	}
}
