package quote

import (
	"context"
	"fmt"
	"math/big"

	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SwapBasketQuote is the summed funding amount of a swap basket and the
// exchange calldata for each component, in component order.
type SwapBasketQuote struct {
	Total           *big.Int
	ComponentQuotes [][]byte
	Swaps           int
}

// SwapBasketAggregator quotes every basket component directly against the
// payment token through an aggregator that returns executable calldata.
type SwapBasketAggregator struct {
	swaps providers.SwapCallDataProvider
	log   *zap.Logger
}

func NewSwapBasketAggregator(swaps providers.SwapCallDataProvider, log *zap.Logger) *SwapBasketAggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &SwapBasketAggregator{swaps: swaps, log: log}
}

// Quote waits for every component quote. Any failed quote fails the basket.
func (a *SwapBasketAggregator) Quote(ctx context.Context, req ComponentRequest) (SwapBasketQuote, error) {
	if err := req.Validate(); err != nil {
		return SwapBasketQuote{}, err
	}
	weth, err := wrappedNative(req.ChainID)
	if err != nil {
		return SwapBasketQuote{}, err
	}
	funding := fundingAddress(req.InputToken, weth)
	if !req.IsMinting {
		funding = fundingAddress(req.OutputToken, weth)
	}

	amounts := make([]*big.Int, len(req.Components))
	quotes := make([][]byte, len(req.Components))
	swaps := 0
	var g errgroup.Group
	for i, component := range req.Components {
		position := req.Positions[i]
		if component == funding || position.Sign() == 0 {
			amounts[i], quotes[i] = new(big.Int).Set(position), []byte{}
			continue
		}
		swaps++
		g.Go(func() error {
			swapReq := providers.SwapQuoteRequest{ChainID: req.ChainID, Slippage: req.Slippage}
			if req.IsMinting {
				swapReq.InputToken, swapReq.OutputToken = funding, component
				swapReq.OutputAmount = new(big.Int).Set(position)
			} else {
				swapReq.InputToken, swapReq.OutputToken = component, funding
				swapReq.InputAmount = new(big.Int).Set(position)
			}
			call, err := a.swaps.SwapCallData(ctx, swapReq)
			if err != nil {
				a.log.Debug("component swap quote failed", zap.String("component", component.Hex()), zap.Error(err))
				return fmt.Errorf("component %s: %w", component.Hex(), err)
			}
			if req.IsMinting {
				amounts[i] = call.InputAmount
			} else {
				amounts[i] = call.OutputAmount
			}
			quotes[i] = call.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SwapBasketQuote{}, clierr.Wrap(clierr.CodeUnavailable, "component swap quotes incomplete", err)
	}

	total := new(big.Int)
	for _, amount := range amounts {
		total.Add(total, amount)
	}
	if total.Sign() == 0 {
		return SwapBasketQuote{}, clierr.New(clierr.CodeUnavailable, "component swap quotes sum to zero")
	}
	return SwapBasketQuote{Total: total, ComponentQuotes: quotes, Swaps: swaps}, nil
}

// swapCallData returns the calldata-capable view of a swap provider.
func swapCallData(swaps providers.SwapRouteProvider) (providers.SwapCallDataProvider, error) {
	if p, ok := swaps.(providers.SwapCallDataProvider); ok {
		return p, nil
	}
	return nil, clierr.New(clierr.CodeUnsupported, fmt.Sprintf("swap provider %s does not return executable swap calldata", swaps.Info().Name))
}

