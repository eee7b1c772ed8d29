package quote

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/flashmint-cli/internal/chain"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/id"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var exchangeRateScale = big.NewInt(1_000_000_000_000_000_000)

// ComponentRequest asks for the payment token amount needed to mint, or
// returned by redeeming, the given component positions.
type ComponentRequest struct {
	ChainID     int64
	IsMinting   bool
	InputToken  Token
	OutputToken Token
	Components  []common.Address
	Positions   []*big.Int
	Slippage    float64
}

func (r ComponentRequest) Validate() error {
	if len(r.Components) == 0 || len(r.Positions) == 0 {
		return clierr.New(clierr.CodeUsage, "component quote requires components and positions")
	}
	if len(r.Components) != len(r.Positions) {
		return clierr.New(clierr.CodeUsage, fmt.Sprintf("component quote got %d components and %d positions", len(r.Components), len(r.Positions)))
	}
	for i, position := range r.Positions {
		if position == nil || position.Sign() < 0 {
			return clierr.New(clierr.CodeUsage, fmt.Sprintf("component %d has an invalid position", i))
		}
	}
	return nil
}

// Aggregator fans out one sub-quote per wrapped component and sums them.
type Aggregator struct {
	reader chain.Reader
	swaps  providers.SwapRouteProvider
	log    *zap.Logger
}

func NewAggregator(reader chain.Reader, swaps providers.SwapRouteProvider, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{reader: reader, swaps: swaps, log: log}
}

// Quote issues every sub-quote concurrently and waits for all of them. The
// result is the sum of all sub-quotes; any failed sub-quote fails the whole
// aggregation.
func (a *Aggregator) Quote(ctx context.Context, req ComponentRequest) (*big.Int, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	weth, err := wrappedNative(req.ChainID)
	if err != nil {
		return nil, err
	}
	funding := fundingAddress(req.InputToken, weth)
	if !req.IsMinting {
		funding = fundingAddress(req.OutputToken, weth)
	}

	type subQuote struct {
		component common.Address
		class     registry.ComponentClass
		position  *big.Int
	}
	var pending []subQuote
	for i, component := range req.Components {
		class := registry.ClassifyComponent(component)
		if class == registry.ComponentUnclassified {
			continue
		}
		pending = append(pending, subQuote{component: component, class: class, position: req.Positions[i]})
	}
	if len(pending) == 0 {
		return nil, clierr.New(clierr.CodeUnavailable, "no component requires a funding quote")
	}

	results := make([]*big.Int, len(pending))
	var g errgroup.Group
	for i, sq := range pending {
		g.Go(func() error {
			amount, err := a.quoteComponent(ctx, req, funding, weth, sq.component, sq.class, sq.position)
			if err != nil {
				a.log.Debug("component quote failed",
					zap.String("component", sq.component.Hex()),
					zap.Stringer("class", sq.class),
					zap.Error(err),
				)
				return fmt.Errorf("%s component %s: %w", sq.class, sq.component.Hex(), err)
			}
			results[i] = amount
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, clierr.Wrap(clierr.CodeUnavailable, "component quotes incomplete", err)
	}

	total := new(big.Int)
	for _, amount := range results {
		total.Add(total, amount)
	}
	return total, nil
}

func (a *Aggregator) quoteComponent(ctx context.Context, req ComponentRequest, funding, weth, component common.Address, class registry.ComponentClass, position *big.Int) (*big.Int, error) {
	switch class {
	case registry.ComponentBridge:
		rate, err := a.reader.AcrossExchangeRate(ctx, weth)
		if err != nil {
			return nil, err
		}
		return a.fundingSwap(ctx, req, funding, weth, lpUnderlying(position, rate, req.IsMinting))
	case registry.ComponentLendingWrapper:
		var (
			underlying *big.Int
			err        error
		)
		if req.IsMinting {
			underlying, err = a.reader.PreviewMint(ctx, component, position)
		} else {
			underlying, err = a.reader.PreviewRedeem(ctx, component, position)
		}
		if err != nil {
			return nil, err
		}
		return a.fundingSwap(ctx, req, funding, common.HexToAddress(registry.STETHMainnetAddress), underlying)
	case registry.ComponentYieldWrapper:
		return a.fundingSwap(ctx, req, funding, component, position)
	default:
		return nil, clierr.New(clierr.CodeInternal, "unclassified component")
	}
}

// fundingSwap prices amount of underlying in the funding token: the input
// needed to buy it when minting, the output from selling it when redeeming.
func (a *Aggregator) fundingSwap(ctx context.Context, req ComponentRequest, funding, underlying common.Address, amount *big.Int) (*big.Int, error) {
	if funding == underlying {
		return new(big.Int).Set(amount), nil
	}
	if amount.Sign() == 0 {
		return big.NewInt(0), nil
	}
	swapReq := providers.SwapQuoteRequest{ChainID: req.ChainID, Slippage: req.Slippage}
	if req.IsMinting {
		swapReq.InputToken, swapReq.OutputToken = funding, underlying
		swapReq.OutputAmount = new(big.Int).Set(amount)
	} else {
		swapReq.InputToken, swapReq.OutputToken = underlying, funding
		swapReq.InputAmount = new(big.Int).Set(amount)
	}
	result, err := a.swaps.SwapQuote(ctx, swapReq)
	if err != nil {
		return nil, err
	}
	if req.IsMinting {
		return result.InputAmount, nil
	}
	return result.OutputAmount, nil
}

// lpUnderlying converts LP units to WETH at an 18-decimal exchange rate,
// rounding against the caller: up when minting, down when redeeming.
func lpUnderlying(position, rate *big.Int, isMinting bool) *big.Int {
	product := new(big.Int).Mul(position, rate)
	underlying, rem := new(big.Int).QuoRem(product, exchangeRateScale, new(big.Int))
	if isMinting && rem.Sign() != 0 {
		underlying.Add(underlying, big.NewInt(1))
	}
	return underlying
}

// ETH funding is quoted as WETH.
func fundingAddress(token Token, weth common.Address) common.Address {
	if token.Symbol == id.NativeSymbol || token.IsNative() {
		return weth
	}
	return token.Address
}
