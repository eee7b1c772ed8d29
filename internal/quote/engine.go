package quote

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/flashmint-cli/internal/chain"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/id"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
	"go.uber.org/zap"
)

// Sides says whether a quote reports a single funding amount next to the
// index token or explicit input and output amounts.
type Sides int

const (
	SidesIndexPinned Sides = iota
	SidesSymmetric
)

// NativeStrategy says how a native payment token is routed through the
// aggregators.
type NativeStrategy int

const (
	// NativeWrappedSubstitute routes the native sentinel address as the chain's
	// wrapped native token.
	NativeWrappedSubstitute NativeStrategy = iota
	// NativeSymbolSentinel routes any payment token whose symbol is ETH as the
	// native sentinel address.
	NativeSymbolSentinel
)

type Capabilities struct {
	Sides   Sides
	Native  NativeStrategy
	Sources []swapdata.Exchange
}

// LeveragedCapabilities describes the single-chain leveraged family.
func LeveragedCapabilities(chainID int64) Capabilities {
	sources := []swapdata.Exchange{swapdata.ExchangeUniV3, swapdata.ExchangeSushiswap, swapdata.ExchangeCurve, swapdata.ExchangeBalancerV2}
	if chainID == registry.ChainPolygon {
		sources = []swapdata.Exchange{swapdata.ExchangeQuickswap, swapdata.ExchangeUniV3}
	}
	return Capabilities{Sides: SidesIndexPinned, Native: NativeWrappedSubstitute, Sources: sources}
}

// LeveragedExtendedCapabilities describes the multi-chain extended family.
func LeveragedExtendedCapabilities() Capabilities {
	return Capabilities{
		Sides:   SidesSymmetric,
		Native:  NativeSymbolSentinel,
		Sources: []swapdata.Exchange{swapdata.ExchangeSushiswap, swapdata.ExchangeUniV3},
	}
}

// Engine quotes leveraged index tokens. It is stateless; every call reads
// fresh position data.
type Engine struct {
	reader chain.Reader
	swaps  providers.SwapRouteProvider
	caps   Capabilities
	log    *zap.Logger
}

func NewEngine(reader chain.Reader, swaps providers.SwapRouteProvider, caps Capabilities, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{reader: reader, swaps: swaps, caps: caps, log: log}
}

// Quote prices req against the leveraged position held by contract on chainID.
func (e *Engine) Quote(ctx context.Context, chainID int64, contract common.Address, req Request) (Quote, error) {
	if err := req.Validate(); err != nil {
		return Quote{}, err
	}
	indexToken := req.IndexToken()
	data, err := e.reader.LeveragedTokenData(ctx, contract, indexToken.Address, req.IndexTokenAmount, req.IsMinting)
	if err != nil {
		return Quote{}, clierr.Wrap(clierr.CodeUnavailable, "read leveraged token data", err)
	}
	if data.CollateralAmount == nil || data.DebtAmount == nil {
		return Quote{}, clierr.New(clierr.CodeUnavailable, "leveraged token data missing amounts")
	}
	e.log.Debug("leveraged token data",
		zap.String("index", indexToken.Symbol),
		zap.String("collateral", data.CollateralToken.Hex()),
		zap.String("collateral_amount", data.CollateralAmount.String()),
		zap.String("debt", data.DebtToken.Hex()),
		zap.String("debt_amount", data.DebtAmount.String()),
	)

	debtCollateral, collateralMoved, err := e.debtCollateralSwap(ctx, chainID, data, req)
	if err != nil {
		return Quote{}, err
	}
	if static, ok := registry.StaticDebtCollateralRoute(indexToken.Symbol, req.IsMinting); ok {
		debtCollateral = static
	}

	// Minting: collateral still to be bought with the payment token.
	// Redeeming: collateral left over after repaying debt.
	remaining := new(big.Int).Sub(data.CollateralAmount, collateralMoved)
	if remaining.Sign() < 0 {
		return Quote{}, clierr.New(clierr.CodeUnavailable, "debt swap moves more collateral than the position holds")
	}

	payment, paymentAmount, err := e.paymentSwap(ctx, chainID, data.CollateralToken, remaining, req)
	if err != nil {
		return Quote{}, err
	}

	adjusted := SlippageAdjusted(paymentAmount, req.Slippage, req.IsMinting)
	out := Quote{
		IndexTokenAmount:       new(big.Int).Set(req.IndexTokenAmount),
		InputOutputTokenAmount: adjusted,
		SwapDataDebtCollateral: debtCollateral,
		SwapDataPaymentToken:   payment,
	}
	if e.caps.Sides == SidesSymmetric {
		if req.IsMinting {
			out.InputTokenAmount, out.OutputTokenAmount = new(big.Int).Set(adjusted), new(big.Int).Set(req.IndexTokenAmount)
		} else {
			out.InputTokenAmount, out.OutputTokenAmount = new(big.Int).Set(req.IndexTokenAmount), new(big.Int).Set(adjusted)
		}
	}
	return out, nil
}

// debtCollateralSwap quotes the leg that trades debt for collateral. Minting
// sells exactly the borrowed debt; redeeming buys exactly the debt to repay.
// It returns the collateral obtained or sold.
func (e *Engine) debtCollateralSwap(ctx context.Context, chainID int64, data chain.LeveragedTokenData, req Request) (swapdata.Route, *big.Int, error) {
	if data.DebtAmount.Sign() == 0 {
		return swapdata.NoSwap(), big.NewInt(0), nil
	}
	swapReq := providers.SwapQuoteRequest{
		ChainID:  chainID,
		Slippage: req.Slippage,
		Sources:  e.caps.Sources,
	}
	if req.IsMinting {
		swapReq.InputToken, swapReq.OutputToken = data.DebtToken, data.CollateralToken
		swapReq.InputAmount = new(big.Int).Set(data.DebtAmount)
	} else {
		swapReq.InputToken, swapReq.OutputToken = data.CollateralToken, data.DebtToken
		swapReq.OutputAmount = new(big.Int).Set(data.DebtAmount)
	}
	result, err := e.swaps.SwapQuote(ctx, swapReq)
	if err != nil {
		return swapdata.Route{}, nil, clierr.Wrap(clierr.CodeUnavailable, "quote debt/collateral swap", err)
	}
	if req.IsMinting {
		return result.Route, result.OutputAmount, nil
	}
	return result.Route, result.InputAmount, nil
}

// paymentSwap quotes the leg between the payment token and collateral and
// returns the payment token amount before slippage.
func (e *Engine) paymentSwap(ctx context.Context, chainID int64, collateral common.Address, remaining *big.Int, req Request) (swapdata.Route, *big.Int, error) {
	indexSymbol := req.IndexToken().Symbol
	payment := req.PaymentToken()
	if registry.FundsInCollateral(indexSymbol) {
		if static, ok := registry.StaticPaymentRoute(indexSymbol, payment.Symbol, req.IsMinting); ok {
			return static, remaining, nil
		}
		return swapdata.NoSwap(), remaining, nil
	}

	paymentAddress, err := e.routingAddress(chainID, payment)
	if err != nil {
		return swapdata.Route{}, nil, err
	}
	if paymentAddress == collateral || remaining.Sign() == 0 {
		return swapdata.NoSwap(), remaining, nil
	}
	// The contract wraps and unwraps ETH itself.
	if paymentAddress == common.HexToAddress(registry.NativeSentinel) {
		if weth, err := wrappedNative(chainID); err == nil && weth == collateral {
			return swapdata.NoSwap(), remaining, nil
		}
	}

	swapReq := providers.SwapQuoteRequest{
		ChainID:  chainID,
		Slippage: req.Slippage,
		Sources:  e.caps.Sources,
	}
	if req.IsMinting {
		swapReq.InputToken, swapReq.OutputToken = paymentAddress, collateral
		swapReq.OutputAmount = new(big.Int).Set(remaining)
	} else {
		swapReq.InputToken, swapReq.OutputToken = collateral, paymentAddress
		swapReq.InputAmount = new(big.Int).Set(remaining)
	}
	result, err := e.swaps.SwapQuote(ctx, swapReq)
	if err != nil {
		return swapdata.Route{}, nil, clierr.Wrap(clierr.CodeUnavailable, "quote payment token swap", err)
	}
	if req.IsMinting {
		return result.Route, result.InputAmount, nil
	}
	return result.Route, result.OutputAmount, nil
}

func (e *Engine) routingAddress(chainID int64, token Token) (common.Address, error) {
	switch e.caps.Native {
	case NativeSymbolSentinel:
		if token.Symbol == id.NativeSymbol {
			return common.HexToAddress(registry.NativeSentinel), nil
		}
	default:
		if token.IsNative() {
			return wrappedNative(chainID)
		}
	}
	return token.Address, nil
}
