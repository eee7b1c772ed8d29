package quote

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/flashmint-cli/internal/builder"
	"github.com/ggonzalez94/flashmint-cli/internal/chain"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
	"go.uber.org/zap"
)

// State is a step of a single orchestration pass. There is no retry state.
type State int

const (
	StateResolving State = iota
	StateQuoting
	StateBuilding
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateQuoting:
		return "quoting"
	case StateBuilding:
		return "building"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Extended contract tuning carried on every extended build request.
var (
	priceEstimateInflator = big.NewInt(900_000_000_000_000_000)
	maxDust               = big.NewInt(10_000_000_000_000)
)

type LeveragedBuilder interface {
	Build(ctx context.Context, req builder.LeveragedRequest) (builder.Transaction, error)
}

type LeveragedExtendedBuilder interface {
	Build(ctx context.Context, req builder.LeveragedExtendedRequest) (builder.Transaction, error)
}

type ComponentBasketBuilder interface {
	Build(ctx context.Context, req builder.ComponentBasketRequest) (builder.Transaction, error)
}

type SwapBasketBuilder interface {
	Build(ctx context.Context, req builder.SwapBasketRequest) (builder.Transaction, error)
}

type Builders struct {
	Leveraged         LeveragedBuilder
	LeveragedExtended LeveragedExtendedBuilder
	ComponentBasket   ComponentBasketBuilder
	SwapBasket        SwapBasketBuilder
}

func DefaultBuilders() Builders {
	return Builders{
		Leveraged:         builder.NewLeveraged(),
		LeveragedExtended: builder.NewLeveragedExtended(),
		ComponentBasket:   builder.NewComponentBasket(),
		SwapBasket:        builder.NewSwapBasket(),
	}
}

// Leg names a swap route in a result.
type Leg struct {
	Name  string
	Route swapdata.Route
}

// Result is a priced flash mint or redeem with its transaction.
type Result struct {
	ChainID           int64
	Family            registry.Family
	Contract          common.Address
	IsMinting         bool
	InputToken        Token
	OutputToken       Token
	IndexTokenAmount  *big.Int
	InputOutputAmount *big.Int
	Slippage          float64
	ExactInput        bool
	Legs              []Leg
	ComponentSwaps    int
	Tx                builder.Transaction
}

// InputAmount is the amount of InputToken the transaction spends at most.
func (r Result) InputAmount() *big.Int {
	if r.IsMinting {
		return r.InputOutputAmount
	}
	return r.IndexTokenAmount
}

// OutputAmount is the amount of OutputToken the transaction returns at least.
func (r Result) OutputAmount() *big.Int {
	if r.IsMinting {
		return r.IndexTokenAmount
	}
	return r.InputOutputAmount
}

// Orchestrator resolves the contract family of an index token, quotes it with
// the matching engine and builds the flash-mint transaction.
type Orchestrator struct {
	reader   chain.Reader
	swaps    providers.SwapRouteProvider
	builders Builders
	log      *zap.Logger
}

func NewOrchestrator(reader chain.Reader, swaps providers.SwapRouteProvider, builders Builders, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{reader: reader, swaps: swaps, builders: builders, log: log}
}

type pass struct {
	log   *zap.Logger
	state State
}

func (p *pass) enter(state State, fields ...zap.Field) {
	p.state = state
	p.log.Debug("flash mint state", append([]zap.Field{zap.Stringer("state", state)}, fields...)...)
}

func (p *pass) fail(err error) error {
	p.log.Debug("flash mint state",
		zap.Stringer("state", StateFailed),
		zap.Stringer("from", p.state),
		zap.Error(err),
	)
	p.state = StateFailed
	return err
}

func (o *Orchestrator) Quote(ctx context.Context, req Request) (Result, error) {
	p := &pass{log: o.log.With(zap.String("index", req.IndexToken().Symbol), zap.Bool("minting", req.IsMinting))}
	p.enter(StateResolving)
	if err := req.Validate(); err != nil {
		return Result{}, p.fail(err)
	}
	chainID, err := o.reader.ChainID(ctx)
	if err != nil {
		return Result{}, p.fail(clierr.Wrap(clierr.CodeUnavailable, "identify network", err))
	}
	indexSymbol := req.IndexToken().Symbol
	family, ok := registry.ResolveContractFamily(indexSymbol, chainID)
	if !ok {
		return Result{}, p.fail(clierr.New(clierr.CodeUnsupported, "index token not supported: "+indexSymbol))
	}
	contract, ok := registry.FlashMintContract(family, indexSymbol, chainID)
	if !ok {
		return Result{}, p.fail(clierr.New(clierr.CodeUnsupported, "no flash mint contract for "+indexSymbol))
	}
	if req.ExactInput && family != registry.FamilyLeveragedExtended {
		return Result{}, p.fail(clierr.New(clierr.CodeUnsupported, fmt.Sprintf("exact input mints are not available for %s tokens", family)))
	}

	result := Result{
		ChainID:          chainID,
		Family:           family,
		IsMinting:        req.IsMinting,
		InputToken:       req.InputToken,
		OutputToken:      req.OutputToken,
		IndexTokenAmount: new(big.Int).Set(req.IndexTokenAmount),
		Slippage:         req.Slippage,
		ExactInput:       req.ExactInput,
	}
	p.enter(StateQuoting, zap.Int64("chain_id", chainID), zap.String("family", string(family)))
	switch family {
	case registry.FamilyLeveraged:
		err = o.leveraged(ctx, p, contract, req, &result)
	case registry.FamilyLeveragedExtended:
		err = o.leveragedExtended(ctx, p, contract, req, &result)
	case registry.FamilyComponentBasket:
		err = o.componentBasket(ctx, p, req, &result)
	case registry.FamilyZeroEx:
		err = o.swapBasket(ctx, p, req, &result)
	default:
		err = clierr.New(clierr.CodeUnsupported, "unknown contract family")
	}
	if err != nil {
		return Result{}, p.fail(err)
	}
	result.Contract = result.Tx.To
	p.enter(StateDone, zap.String("contract", result.Contract.Hex()))
	return result, nil
}

func (o *Orchestrator) leveraged(ctx context.Context, p *pass, contract common.Address, req Request, result *Result) error {
	engine := NewEngine(o.reader, o.swaps, LeveragedCapabilities(result.ChainID), p.log)
	q, err := engine.Quote(ctx, result.ChainID, contract, req)
	if err != nil {
		return err
	}
	p.enter(StateBuilding, zap.String("input_output_amount", q.InputOutputTokenAmount.String()))
	index, payment := req.IndexToken(), req.PaymentToken()
	tx, err := o.builders.Leveraged.Build(ctx, builder.LeveragedRequest{
		ChainID:                result.ChainID,
		IsMinting:              req.IsMinting,
		IndexToken:             index.Address,
		IndexTokenSymbol:       index.Symbol,
		IndexTokenAmount:       req.IndexTokenAmount,
		InputOutputToken:       payment.Address,
		InputOutputTokenSymbol: payment.Symbol,
		InputOutputTokenAmount: q.InputOutputTokenAmount,
		SwapDataDebtCollateral: q.SwapDataDebtCollateral,
		SwapDataPaymentToken:   q.SwapDataPaymentToken,
	})
	if err != nil {
		return err
	}
	result.InputOutputAmount = q.InputOutputTokenAmount
	result.Legs = quoteLegs(q)
	result.Tx = tx
	return nil
}

func (o *Orchestrator) leveragedExtended(ctx context.Context, p *pass, contract common.Address, req Request, result *Result) error {
	engine := NewEngine(o.reader, o.swaps, LeveragedExtendedCapabilities(), p.log)
	q, err := engine.Quote(ctx, result.ChainID, contract, req)
	if err != nil {
		return err
	}
	p.enter(StateBuilding, zap.String("input_output_amount", q.InputOutputTokenAmount.String()))
	tx, err := o.builders.LeveragedExtended.Build(ctx, builder.LeveragedExtendedRequest{
		ChainID:                  result.ChainID,
		IsMinting:                req.IsMinting,
		InputToken:               req.InputToken.Address,
		InputTokenSymbol:         req.InputToken.Symbol,
		OutputToken:              req.OutputToken.Address,
		OutputTokenSymbol:        req.OutputToken.Symbol,
		InputTokenAmount:         q.InputTokenAmount,
		OutputTokenAmount:        q.OutputTokenAmount,
		SwapDataDebtCollateral:   q.SwapDataDebtCollateral,
		SwapDataInputOutputToken: q.SwapDataPaymentToken,
		PriceEstimateInflator:    new(big.Int).Set(priceEstimateInflator),
		MaxDust:                  new(big.Int).Set(maxDust),
		ExactInput:               req.ExactInput,
	})
	if err != nil {
		return err
	}
	result.InputOutputAmount = q.InputOutputTokenAmount
	result.Legs = quoteLegs(q)
	result.Tx = tx
	return nil
}

func (o *Orchestrator) componentBasket(ctx context.Context, p *pass, req Request, result *Result) error {
	index, payment := req.IndexToken(), req.PaymentToken()
	module := registry.IssuanceModuleFor(index.Symbol, result.ChainID)
	units, err := o.reader.RequiredComponents(ctx, module, index.Address, req.IndexTokenAmount, req.IsMinting)
	if err != nil {
		return clierr.Wrap(clierr.CodeUnavailable, "read component units", err)
	}
	aggregator := NewAggregator(o.reader, o.swaps, p.log)
	total, err := aggregator.Quote(ctx, ComponentRequest{
		ChainID:     result.ChainID,
		IsMinting:   req.IsMinting,
		InputToken:  req.InputToken,
		OutputToken: req.OutputToken,
		Components:  units.Components,
		Positions:   units.EquityUnits,
		Slippage:    req.Slippage,
	})
	if err != nil {
		return err
	}
	adjusted := SlippageAdjusted(total, req.Slippage, req.IsMinting)
	p.enter(StateBuilding, zap.String("input_output_amount", adjusted.String()), zap.Int("components", len(units.Components)))
	tx, err := o.builders.ComponentBasket.Build(ctx, builder.ComponentBasketRequest{
		ChainID:                result.ChainID,
		IsMinting:              req.IsMinting,
		IndexToken:             index.Address,
		IndexTokenSymbol:       index.Symbol,
		IndexTokenAmount:       req.IndexTokenAmount,
		InputOutputToken:       payment.Address,
		InputOutputTokenSymbol: payment.Symbol,
		InputOutputTokenAmount: adjusted,
		ComponentCount:         len(units.Components),
	})
	if err != nil {
		return err
	}
	result.InputOutputAmount = adjusted
	if !payment.IsNative() && payment.Symbol != registry.SymbolETH {
		result.Legs = []Leg{
			{Name: "payment_token_to_eth", Route: builder.PaymentTokenToEth(payment.Address, payment.Symbol)},
			{Name: "eth_to_payment_token", Route: builder.EthToPaymentToken(payment.Address, payment.Symbol)},
		}
	}
	result.Tx = tx
	return nil
}

func (o *Orchestrator) swapBasket(ctx context.Context, p *pass, req Request, result *Result) error {
	swaps, err := swapCallData(o.swaps)
	if err != nil {
		return err
	}
	index, payment := req.IndexToken(), req.PaymentToken()
	module := registry.IssuanceModuleFor(index.Symbol, result.ChainID)
	units, err := o.reader.RequiredComponents(ctx, module, index.Address, req.IndexTokenAmount, req.IsMinting)
	if err != nil {
		return clierr.Wrap(clierr.CodeUnavailable, "read component units", err)
	}
	q, err := NewSwapBasketAggregator(swaps, p.log).Quote(ctx, ComponentRequest{
		ChainID:     result.ChainID,
		IsMinting:   req.IsMinting,
		InputToken:  req.InputToken,
		OutputToken: req.OutputToken,
		Components:  units.Components,
		Positions:   units.EquityUnits,
		Slippage:    req.Slippage,
	})
	if err != nil {
		return err
	}
	adjusted := SlippageAdjusted(q.Total, req.Slippage, req.IsMinting)
	p.enter(StateBuilding, zap.String("input_output_amount", adjusted.String()), zap.Int("component_swaps", q.Swaps))
	tx, err := o.builders.SwapBasket.Build(ctx, builder.SwapBasketRequest{
		ChainID:                result.ChainID,
		IsMinting:              req.IsMinting,
		IndexToken:             index.Address,
		IndexTokenSymbol:       index.Symbol,
		IndexTokenAmount:       req.IndexTokenAmount,
		InputOutputToken:       payment.Address,
		InputOutputTokenSymbol: payment.Symbol,
		InputOutputTokenAmount: adjusted,
		ComponentQuotes:        q.ComponentQuotes,
		IssuanceModule:         module,
	})
	if err != nil {
		return err
	}
	result.InputOutputAmount = adjusted
	result.ComponentSwaps = q.Swaps
	result.Tx = tx
	return nil
}

func quoteLegs(q Quote) []Leg {
	return []Leg{
		{Name: "debt_collateral", Route: q.SwapDataDebtCollateral},
		{Name: "payment_token", Route: q.SwapDataPaymentToken},
	}
}
