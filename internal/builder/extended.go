package builder

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

var leveragedExtendedABI = mustABI(registry.FlashMintLeveragedExtendedABI)

// LeveragedExtendedRequest builds a mint or redeem against the extended
// leveraged contracts. When minting, OutputToken is the index token; when
// redeeming, InputToken is.
type LeveragedExtendedRequest struct {
	ChainID                  int64
	IsMinting                bool
	InputToken               common.Address
	InputTokenSymbol         string
	OutputToken              common.Address
	OutputTokenSymbol        string
	InputTokenAmount         *big.Int
	OutputTokenAmount        *big.Int
	SwapDataDebtCollateral   swapdata.Route
	SwapDataInputOutputToken swapdata.Route
	// SwapDataInputTokenForETH is only needed by the exact-input ERC20 entry
	// point and is nil until a quote engine can produce it.
	SwapDataInputTokenForETH *swapdata.Route
	PriceEstimateInflator    *big.Int
	MaxDust                  *big.Int
	// ExactInput mints as much index token as the fixed input buys, with
	// OutputTokenAmount as the minimum.
	ExactInput bool
}

type LeveragedExtended struct{}

func NewLeveragedExtended() *LeveragedExtended {
	return &LeveragedExtended{}
}

func (b *LeveragedExtended) Build(_ context.Context, req LeveragedExtendedRequest) (Transaction, error) {
	indexSymbol := req.OutputTokenSymbol
	if !req.IsMinting {
		indexSymbol = req.InputTokenSymbol
	}
	contract, ok := registry.FlashMintContract(registry.FamilyLeveragedExtended, indexSymbol, req.ChainID)
	if !ok {
		return Transaction{}, clierr.New(clierr.CodeUnsupported, "no extended flash mint contract on this chain")
	}
	if err := requireAddress("an input token", req.InputToken); err != nil {
		return Transaction{}, err
	}
	if err := requireAddress("an output token", req.OutputToken); err != nil {
		return Transaction{}, err
	}
	if err := requireAmount("input token amount", req.InputTokenAmount); err != nil {
		return Transaction{}, err
	}
	if err := requireAmount("output token amount", req.OutputTokenAmount); err != nil {
		return Transaction{}, err
	}
	if err := swapdata.ValidateAll(req.SwapDataDebtCollateral, req.SwapDataInputOutputToken); err != nil {
		return Transaction{}, err
	}

	debtCollateral := req.SwapDataDebtCollateral.V2()
	inputOutput := req.SwapDataInputOutputToken.V2()
	if !req.IsMinting {
		if isNative(req.OutputToken, req.OutputTokenSymbol) {
			return pack(leveragedExtendedABI, contract, nil, "redeemExactSetForETH",
				req.InputToken, req.InputTokenAmount, req.OutputTokenAmount, debtCollateral, inputOutput)
		}
		return pack(leveragedExtendedABI, contract, nil, "redeemExactSetForERC20",
			req.InputToken, req.InputTokenAmount, req.OutputToken, req.OutputTokenAmount, debtCollateral, inputOutput)
	}

	nativeInput := isNative(req.InputToken, req.InputTokenSymbol)
	if !req.ExactInput {
		if nativeInput {
			return pack(leveragedExtendedABI, contract, req.InputTokenAmount, "issueExactSetFromETH",
				req.OutputToken, req.OutputTokenAmount, debtCollateral, inputOutput)
		}
		return pack(leveragedExtendedABI, contract, nil, "issueExactSetFromERC20",
			req.OutputToken, req.OutputTokenAmount, req.InputToken, req.InputTokenAmount, debtCollateral, inputOutput)
	}

	if err := requireAmount("price estimate inflator", req.PriceEstimateInflator); err != nil {
		return Transaction{}, err
	}
	if req.MaxDust == nil || req.MaxDust.Sign() < 0 {
		return Transaction{}, clierr.New(clierr.CodeUsage, "build request requires a non-negative max dust")
	}
	if nativeInput {
		return pack(leveragedExtendedABI, contract, req.InputTokenAmount, "issueSetFromExactETH",
			req.OutputToken, req.OutputTokenAmount, debtCollateral, inputOutput, req.PriceEstimateInflator, req.MaxDust)
	}
	if req.SwapDataInputTokenForETH == nil {
		return Transaction{}, clierr.Wrap(clierr.CodeUnsupported, "issue from exact erc20", ErrInputTokenForETHUnresolved)
	}
	if err := swapdata.ValidateAll(*req.SwapDataInputTokenForETH); err != nil {
		return Transaction{}, err
	}
	return pack(leveragedExtendedABI, contract, nil, "issueSetFromExactERC20",
		req.OutputToken, req.OutputTokenAmount, req.InputToken, req.InputTokenAmount,
		debtCollateral, inputOutput, req.SwapDataInputTokenForETH.V2(), req.PriceEstimateInflator, req.MaxDust)
}
