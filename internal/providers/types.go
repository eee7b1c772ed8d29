package providers

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/model"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

type Provider interface {
	Info() model.ProviderInfo
}

// SwapRouteProvider returns a priced swap and a routable swap-data descriptor
// from exactly one upstream source.
type SwapRouteProvider interface {
	Provider
	SwapQuote(ctx context.Context, req SwapQuoteRequest) (SwapQuote, error)
}

// SwapCallDataProvider returns aggregator calldata that a flash-mint contract
// forwards to the aggregator's exchange as is, without a normalized route.
type SwapCallDataProvider interface {
	Provider
	SwapCallData(ctx context.Context, req SwapQuoteRequest) (SwapCallData, error)
}

// SwapQuoteRequest asks for a fixed-input or fixed-output quote. Exactly one of
// InputAmount and OutputAmount is set; the provider fills in the other.
type SwapQuoteRequest struct {
	ChainID      int64
	InputToken   common.Address
	OutputToken  common.Address
	InputAmount  *big.Int
	OutputAmount *big.Int
	Slippage     float64
	Sources      []swapdata.Exchange
}

// ExactOutput reports whether the request fixes the output amount.
func (r SwapQuoteRequest) ExactOutput() bool {
	return r.OutputAmount != nil
}

// Amount returns the fixed side of the request.
func (r SwapQuoteRequest) Amount() *big.Int {
	if r.OutputAmount != nil {
		return r.OutputAmount
	}
	return r.InputAmount
}

// Allows reports whether the exchange is in the request's source allow-list.
// An empty list allows every source.
func (r SwapQuoteRequest) Allows(exchange swapdata.Exchange) bool {
	if len(r.Sources) == 0 {
		return true
	}
	for _, source := range r.Sources {
		if source == exchange {
			return true
		}
	}
	return false
}

func (r SwapQuoteRequest) Validate() error {
	if r.ChainID <= 0 {
		return clierr.New(clierr.CodeUsage, "swap quote requires a chain id")
	}
	if r.InputToken == (common.Address{}) || r.OutputToken == (common.Address{}) {
		return clierr.New(clierr.CodeUsage, "swap quote requires input and output tokens")
	}
	if r.InputToken == r.OutputToken {
		return clierr.New(clierr.CodeUsage, "swap quote input and output tokens must differ")
	}
	if (r.InputAmount == nil) == (r.OutputAmount == nil) {
		return clierr.New(clierr.CodeUsage, "swap quote requires exactly one of input amount or output amount")
	}
	if r.Amount().Sign() <= 0 {
		return clierr.New(clierr.CodeUsage, "swap quote amount must be positive")
	}
	if r.Slippage < 0 || r.Slippage >= 1 {
		return clierr.New(clierr.CodeUsage, "swap quote slippage must be a fraction in [0, 1)")
	}
	return nil
}

type SwapQuote struct {
	InputAmount  *big.Int
	OutputAmount *big.Int
	Route        swapdata.Route
}

// Check rejects incomplete provider results so callers never see a partially
// populated quote.
func (q SwapQuote) Check(req SwapQuoteRequest) (SwapQuote, error) {
	if q.InputAmount == nil || q.OutputAmount == nil || q.InputAmount.Sign() <= 0 || q.OutputAmount.Sign() <= 0 {
		return SwapQuote{}, clierr.New(clierr.CodeUnavailable, "swap quote missing amounts")
	}
	if !req.Allows(q.Route.Exchange) {
		return SwapQuote{}, clierr.New(clierr.CodeUnavailable, "swap quote routed through a source outside the allow-list: "+q.Route.Exchange.String())
	}
	if err := swapdata.Validate(q.Route); err != nil {
		return SwapQuote{}, err
	}
	return q, nil
}

type SwapCallData struct {
	InputAmount  *big.Int
	OutputAmount *big.Int
	To           common.Address
	Data         []byte
}

func (q SwapCallData) Check() (SwapCallData, error) {
	if q.InputAmount == nil || q.OutputAmount == nil || q.InputAmount.Sign() <= 0 || q.OutputAmount.Sign() <= 0 {
		return SwapCallData{}, clierr.New(clierr.CodeUnavailable, "swap calldata missing amounts")
	}
	if q.To == (common.Address{}) || len(q.Data) < 4 {
		return SwapCallData{}, clierr.New(clierr.CodeUnavailable, "swap calldata missing target or data")
	}
	return q, nil
}
