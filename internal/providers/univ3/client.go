// Package univ3 quotes swaps directly against the Uniswap V3 QuoterV2
// contract. It tries every standard fee tier on the direct pool and falls back
// to two hops through the wrapped native token.
package univ3

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/id"
	"github.com/ggonzalez94/flashmint-cli/internal/model"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

var (
	feeTiers    = []uint32{100, 500, 3000, 10000}
	hopFeeTiers = []uint32{500, 3000}

	quoterABI = mustABI(registry.UniswapV3QuoterV2ABI)
)

// ContractCaller is the subset of an RPC client the quoter needs.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type Client struct {
	caller ContractCaller
}

func New(caller ContractCaller) *Client {
	return &Client{caller: caller}
}

func (c *Client) Info() model.ProviderInfo {
	return model.ProviderInfo{
		Name:        "univ3",
		Type:        "swap",
		RequiresKey: false,
		Capabilities: []string{
			"swap.quote",
			"swap.route",
		},
	}
}

type quoteExactInputSingleParams struct {
	TokenIn           common.Address `abi:"tokenIn"`
	TokenOut          common.Address `abi:"tokenOut"`
	AmountIn          *big.Int       `abi:"amountIn"`
	Fee               *big.Int       `abi:"fee"`
	SqrtPriceLimitX96 *big.Int       `abi:"sqrtPriceLimitX96"`
}

type quoteExactOutputSingleParams struct {
	TokenIn           common.Address `abi:"tokenIn"`
	TokenOut          common.Address `abi:"tokenOut"`
	Amount            *big.Int       `abi:"amount"`
	Fee               *big.Int       `abi:"fee"`
	SqrtPriceLimitX96 *big.Int       `abi:"sqrtPriceLimitX96"`
}

func (c *Client) SwapQuote(ctx context.Context, req providers.SwapQuoteRequest) (providers.SwapQuote, error) {
	if err := req.Validate(); err != nil {
		return providers.SwapQuote{}, err
	}
	if !req.Allows(swapdata.ExchangeUniV3) {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnavailable, "univ3 only routes through uniswap v3 pools")
	}
	quoter, ok := registry.UniswapV3QuoterV2(req.ChainID)
	if !ok {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnsupported, "no uniswap v3 quoter on this chain")
	}
	tokenIn, err := poolToken(req.ChainID, req.InputToken)
	if err != nil {
		return providers.SwapQuote{}, err
	}
	tokenOut, err := poolToken(req.ChainID, req.OutputToken)
	if err != nil {
		return providers.SwapQuote{}, err
	}
	if tokenIn == tokenOut {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnavailable, "univ3 cannot route between native and wrapped native")
	}

	best, route, err := c.quoteBest(ctx, quoter, singleHop(tokenIn, tokenOut), req.Amount(), req.ExactOutput())
	if err != nil {
		hops, ok := viaWrappedNative(req.ChainID, tokenIn, tokenOut)
		if !ok {
			return providers.SwapQuote{}, err
		}
		best, route, err = c.quoteBest(ctx, quoter, hops, req.Amount(), req.ExactOutput())
		if err != nil {
			return providers.SwapQuote{}, err
		}
	}
	quote := providers.SwapQuote{
		InputAmount:  new(big.Int).Set(req.Amount()),
		OutputAmount: best,
		Route:        route,
	}
	if req.ExactOutput() {
		quote.InputAmount, quote.OutputAmount = best, new(big.Int).Set(req.Amount())
	}
	return quote.Check(req)
}

func singleHop(tokenIn, tokenOut common.Address) []swapdata.Route {
	routes := make([]swapdata.Route, 0, len(feeTiers))
	for _, fee := range feeTiers {
		routes = append(routes, swapdata.Route{
			Exchange: swapdata.ExchangeUniV3,
			Path:     []common.Address{tokenIn, tokenOut},
			Fees:     []uint32{fee},
		})
	}
	return routes
}

// viaWrappedNative lists two-hop routes through the wrapped native token for
// pairs without a direct pool.
func viaWrappedNative(chainID int64, tokenIn, tokenOut common.Address) ([]swapdata.Route, bool) {
	wrapped, ok := id.WrappedNative(chainID)
	if !ok {
		return nil, false
	}
	mid := common.HexToAddress(wrapped.Address)
	if tokenIn == mid || tokenOut == mid {
		return nil, false
	}
	var routes []swapdata.Route
	for _, first := range hopFeeTiers {
		for _, second := range hopFeeTiers {
			routes = append(routes, swapdata.Route{
				Exchange: swapdata.ExchangeUniV3,
				Path:     []common.Address{tokenIn, mid, tokenOut},
				Fees:     []uint32{first, second},
			})
		}
	}
	return routes, true
}

// quoteBest returns the best amount across candidate routes: the largest
// output for exact-input requests and the smallest input for exact-output
// requests. Ties go to the cheaper gas estimate.
func (c *Client) quoteBest(ctx context.Context, quoter common.Address, candidates []swapdata.Route, amount *big.Int, exactOutput bool) (*big.Int, swapdata.Route, error) {
	var (
		best      *big.Int
		bestGas   *big.Int
		bestRoute swapdata.Route
	)
	for _, route := range candidates {
		method, callData, err := quoterCall(route, amount, exactOutput)
		if err != nil {
			return nil, swapdata.Route{}, err
		}
		out, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &quoter, Data: callData}, nil)
		if err != nil {
			continue
		}
		decoded, err := quoterABI.Unpack(method, out)
		if err != nil || len(decoded) < 4 {
			continue
		}
		quoted, ok := decoded[0].(*big.Int)
		if !ok || quoted == nil || quoted.Sign() <= 0 {
			continue
		}
		gasEstimate, ok := decoded[3].(*big.Int)
		if !ok || gasEstimate == nil {
			gasEstimate = big.NewInt(0)
		}
		better := best == nil
		if !better {
			cmp := quoted.Cmp(best)
			if exactOutput {
				cmp = -cmp
			}
			better = cmp > 0 || (cmp == 0 && gasEstimate.Cmp(bestGas) < 0)
		}
		if better {
			best = new(big.Int).Set(quoted)
			bestGas = new(big.Int).Set(gasEstimate)
			bestRoute = route
		}
	}
	if best == nil {
		return nil, swapdata.Route{}, clierr.New(clierr.CodeUnavailable, "univ3 quote unavailable for token pair")
	}
	return best, bestRoute, nil
}

// quoterCall packs the QuoterV2 call for route. Multi-hop exact-output paths
// are encoded from the output token back to the input token.
func quoterCall(route swapdata.Route, amount *big.Int, exactOutput bool) (string, []byte, error) {
	var (
		method string
		args   []any
	)
	if len(route.Path) == 2 {
		fee := big.NewInt(int64(route.Fees[0]))
		method = "quoteExactInputSingle"
		var params any = quoteExactInputSingleParams{
			TokenIn: route.Path[0], TokenOut: route.Path[1], AmountIn: amount,
			Fee: fee, SqrtPriceLimitX96: big.NewInt(0),
		}
		if exactOutput {
			method = "quoteExactOutputSingle"
			params = quoteExactOutputSingleParams{
				TokenIn: route.Path[0], TokenOut: route.Path[1], Amount: amount,
				Fee: fee, SqrtPriceLimitX96: big.NewInt(0),
			}
		}
		args = []any{params}
	} else {
		path, fees := route.Path, route.Fees
		method = "quoteExactInput"
		if exactOutput {
			method = "quoteExactOutput"
			path, fees = reversed(path), reversed(fees)
		}
		encoded, err := swapdata.EncodeV3Path(path, fees)
		if err != nil {
			return "", nil, clierr.Wrap(clierr.CodeInternal, "encode v3 path", err)
		}
		args = []any{encoded, amount}
	}
	callData, err := quoterABI.Pack(method, args...)
	if err != nil {
		return "", nil, clierr.Wrap(clierr.CodeInternal, "pack quoter calldata", err)
	}
	return method, callData, nil
}

func reversed[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}

// Pools hold the wrapped native token, never the sentinel.
func poolToken(chainID int64, token common.Address) (common.Address, error) {
	if !strings.EqualFold(token.Hex(), registry.NativeSentinel) {
		return token, nil
	}
	wrapped, ok := id.WrappedNative(chainID)
	if !ok {
		return common.Address{}, clierr.New(clierr.CodeUnsupported, "no wrapped native token on this chain")
	}
	return common.HexToAddress(wrapped.Address), nil
}

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
