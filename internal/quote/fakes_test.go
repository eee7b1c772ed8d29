package quote

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/flashmint-cli/internal/chain"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/model"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

var (
	wethMainnet = common.HexToAddress(registry.WETHMainnetAddress)
	stethAddr   = common.HexToAddress(registry.STETHMainnetAddress)
	usdcMainnet = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	wethArb     = common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")
	usdcArb     = common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	wbtcArb     = common.HexToAddress("0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f")
	nativeAddr  = common.HexToAddress(registry.NativeSentinel)

	eth2xMainnet = Token{Symbol: registry.SymbolETH2x, Address: common.HexToAddress("0x65c4C0517025Ec0843C9146aF266A2C5a2D148A2"), Decimals: 18}
	eth2xArb     = Token{Symbol: registry.SymbolETH2x, Address: common.HexToAddress("0x26d7D3728C6bb762a5043a1d0CeF660988Bca43C"), Decimals: 18}
	icEth        = Token{Symbol: registry.SymbolIcETH, Address: common.HexToAddress("0x7C07F7aBe10CE8e33DC6C5aD68FE033085256A84"), Decimals: 18}
	hyEth        = Token{Symbol: registry.SymbolHyETH, Address: common.HexToAddress("0xc4506022Fb8090774E8A628d5084EED61D9B99Ee"), Decimals: 18}
	usdcToken    = Token{Symbol: "USDC", Address: usdcMainnet, Decimals: 6}
	usdcArbToken = Token{Symbol: "USDC", Address: usdcArb, Decimals: 6}
	ethToken     = Token{Symbol: "ETH", Address: nativeAddr, Decimals: 18}

	acrossLP  = common.HexToAddress("0x28F77208728B0A45cAb24c4868334581Fe86F95B")
	iETHv2    = common.HexToAddress("0xA0D3707c569ff8C87FA923d3823eC5D81c98Be78")
	pendlePT  = common.HexToAddress("0x1c085195437738d73d75DC64bC5A3E098b7f93b1")
	plainComp = common.HexToAddress("0x00000000000000000000000000000000000000C0")
)

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad integer " + s)
	}
	return v
}

type fakeReader struct {
	mu         sync.Mutex
	chainID    int64
	data       chain.LeveragedTokenData
	dataErr    error
	units      chain.ComponentUnits
	rate       *big.Int
	previewOut *big.Int
	calls      []string
}

func (f *fakeReader) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeReader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeReader) ChainID(context.Context) (int64, error) {
	f.record("chainId")
	return f.chainID, nil
}

func (f *fakeReader) LeveragedTokenData(context.Context, common.Address, common.Address, *big.Int, bool) (chain.LeveragedTokenData, error) {
	f.record("getLeveragedTokenData")
	if f.dataErr != nil {
		return chain.LeveragedTokenData{}, f.dataErr
	}
	return f.data, nil
}

func (f *fakeReader) RequiredComponents(_ context.Context, _ registry.IssuanceModule, _ common.Address, _ *big.Int, isIssuance bool) (chain.ComponentUnits, error) {
	if isIssuance {
		f.record("getRequiredComponentIssuanceUnits")
	} else {
		f.record("getRequiredComponentRedemptionUnits")
	}
	return f.units, nil
}

func (f *fakeReader) AcrossExchangeRate(context.Context, common.Address) (*big.Int, error) {
	f.record("exchangeRateCurrent")
	return f.rate, nil
}

func (f *fakeReader) PreviewMint(context.Context, common.Address, *big.Int) (*big.Int, error) {
	f.record("previewMint")
	return f.previewOut, nil
}

func (f *fakeReader) PreviewRedeem(context.Context, common.Address, *big.Int) (*big.Int, error) {
	f.record("previewRedeem")
	return f.previewOut, nil
}

// fakeSwaps answers swap quotes with a caller-supplied function and records
// every request.
type fakeSwaps struct {
	mu       sync.Mutex
	quote    func(req providers.SwapQuoteRequest) (providers.SwapQuote, error)
	requests []providers.SwapQuoteRequest
}

func (f *fakeSwaps) Info() model.ProviderInfo {
	return model.ProviderInfo{Name: "fake", Type: "swap"}
}

func (f *fakeSwaps) SwapQuote(_ context.Context, req providers.SwapQuoteRequest) (providers.SwapQuote, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if err := req.Validate(); err != nil {
		return providers.SwapQuote{}, err
	}
	if f.quote == nil {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnavailable, "no quote")
	}
	return f.quote(req)
}

func (f *fakeSwaps) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func uniV3Route(from, to common.Address) swapdata.Route {
	return swapdata.Route{Exchange: swapdata.ExchangeUniV3, Path: []common.Address{from, to}, Fees: []uint32{500}}
}

// fixedQuote fills the open side of req with other.
func fixedQuote(req providers.SwapQuoteRequest, other *big.Int) providers.SwapQuote {
	q := providers.SwapQuote{Route: uniV3Route(req.InputToken, req.OutputToken)}
	if req.ExactOutput() {
		q.InputAmount, q.OutputAmount = other, req.OutputAmount
	} else {
		q.InputAmount, q.OutputAmount = req.InputAmount, other
	}
	return q
}

// fakeCallDataSwaps also answers calldata quotes; they are recorded with the
// route quotes.
type fakeCallDataSwaps struct {
	*fakeSwaps
	call func(req providers.SwapQuoteRequest) (providers.SwapCallData, error)
}

func (f *fakeCallDataSwaps) SwapCallData(_ context.Context, req providers.SwapQuoteRequest) (providers.SwapCallData, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if err := req.Validate(); err != nil {
		return providers.SwapCallData{}, err
	}
	return f.call(req)
}

// calldataFor answers req with other on its open side and calldata tagged by
// the component's last address byte.
func calldataFor(req providers.SwapQuoteRequest, other *big.Int) providers.SwapCallData {
	component := req.OutputToken
	if !req.ExactOutput() {
		component = req.InputToken
	}
	call := providers.SwapCallData{
		To:   common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF"),
		Data: []byte{0xd9, 0x62, 0x7a, 0xa4, component[19]},
	}
	if req.ExactOutput() {
		call.InputAmount, call.OutputAmount = other, req.OutputAmount
	} else {
		call.InputAmount, call.OutputAmount = req.InputAmount, other
	}
	return call
}
