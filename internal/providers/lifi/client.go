package lifi

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/httpx"
	"github.com/ggonzalez94/flashmint-cli/internal/model"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

const (
	apiKeyEnvVar     = "FLASHMINT_LIFI_API_KEY"
	quoteOnlyAddress = "0x0000000000000000000000000000000000000001"
)

// LI.FI exposes hop tokens but not pool fees or pool ids, so only exchanges
// that route by token path alone can be rebuilt from its steps.
var pathOnlyExchanges = map[swapdata.Exchange]string{
	swapdata.ExchangeSushiswap: "sushiswap",
	swapdata.ExchangeQuickswap: "quickswap",
}

type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
}

func New(httpClient *httpx.Client, apiKey string) *Client {
	return &Client{http: httpClient, baseURL: registry.LiFiBaseURL, apiKey: apiKey}
}

func (c *Client) Info() model.ProviderInfo {
	return model.ProviderInfo{
		Name:          "lifi",
		Type:          "swap",
		RequiresKey:   false,
		KeyEnvVarName: apiKeyEnvVar,
		Capabilities: []string{
			"swap.quote",
			"swap.route",
		},
	}
}

type quoteResponse struct {
	Estimate struct {
		FromAmount string `json:"fromAmount"`
		ToAmount   string `json:"toAmount"`
	} `json:"estimate"`
	Tool          string      `json:"tool"`
	IncludedSteps []quoteStep `json:"includedSteps"`
}

type quoteStep struct {
	Type   string `json:"type"`
	Tool   string `json:"tool"`
	Action struct {
		FromToken struct {
			Address string `json:"address"`
		} `json:"fromToken"`
		ToToken struct {
			Address string `json:"address"`
		} `json:"toToken"`
	} `json:"action"`
}

func (c *Client) SwapQuote(ctx context.Context, req providers.SwapQuoteRequest) (providers.SwapQuote, error) {
	if err := req.Validate(); err != nil {
		return providers.SwapQuote{}, err
	}
	allowed := make([]string, 0, len(pathOnlyExchanges))
	for _, exchange := range []swapdata.Exchange{swapdata.ExchangeQuickswap, swapdata.ExchangeSushiswap} {
		if req.Allows(exchange) {
			allowed = append(allowed, pathOnlyExchanges[exchange])
		}
	}
	if len(allowed) == 0 {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnavailable, "lifi cannot build routes for the requested sources")
	}

	chainID := strconv.FormatInt(req.ChainID, 10)
	vals := url.Values{}
	vals.Set("fromChain", chainID)
	vals.Set("toChain", chainID)
	vals.Set("fromToken", req.InputToken.Hex())
	vals.Set("toToken", req.OutputToken.Hex())
	vals.Set("fromAddress", quoteOnlyAddress)
	for _, exchange := range allowed {
		vals.Add("allowExchanges", exchange)
	}
	if req.Slippage > 0 {
		vals.Set("slippage", strconv.FormatFloat(req.Slippage, 'f', -1, 64))
	}
	path := "/quote"
	if req.ExactOutput() {
		path = "/quote/toAmount"
		vals.Set("toAmount", req.OutputAmount.String())
	} else {
		vals.Set("fromAmount", req.InputAmount.String())
	}

	hReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+vals.Encode(), nil)
	if err != nil {
		return providers.SwapQuote{}, clierr.Wrap(clierr.CodeInternal, "build lifi quote request", err)
	}
	if c.apiKey != "" {
		hReq.Header.Set("x-lifi-api-key", c.apiKey)
	}
	var resp quoteResponse
	if _, err := c.http.DoJSON(ctx, hReq, &resp); err != nil {
		return providers.SwapQuote{}, err
	}

	inputAmount, ok := new(big.Int).SetString(resp.Estimate.FromAmount, 10)
	if !ok {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnavailable, "lifi quote missing input amount")
	}
	outputAmount, ok := new(big.Int).SetString(resp.Estimate.ToAmount, 10)
	if !ok {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnavailable, "lifi quote missing output amount")
	}
	route, err := routeFromSteps(resp.IncludedSteps)
	if err != nil {
		return providers.SwapQuote{}, err
	}
	return providers.SwapQuote{InputAmount: inputAmount, OutputAmount: outputAmount, Route: route}.Check(req)
}

func routeFromSteps(steps []quoteStep) (swapdata.Route, error) {
	route := swapdata.Route{Fees: []uint32{}}
	for _, step := range steps {
		if step.Type != "swap" {
			continue
		}
		exchange, ok := swapdata.ParseExchange(step.Tool)
		if _, pathOnly := pathOnlyExchanges[exchange]; !ok || !pathOnly {
			return swapdata.Route{}, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("lifi route uses unsupported tool %q", step.Tool))
		}
		if route.Exchange != swapdata.ExchangeNone && route.Exchange != exchange {
			return swapdata.Route{}, clierr.New(clierr.CodeUnavailable, "lifi route mixes exchanges")
		}
		route.Exchange = exchange
		from := common.HexToAddress(step.Action.FromToken.Address)
		if len(route.Path) == 0 {
			route.Path = append(route.Path, from)
		} else if route.Path[len(route.Path)-1] != from {
			return swapdata.Route{}, clierr.New(clierr.CodeUnavailable, "lifi route steps are not contiguous")
		}
		route.Path = append(route.Path, common.HexToAddress(step.Action.ToToken.Address))
	}
	if route.Exchange == swapdata.ExchangeNone {
		return swapdata.Route{}, clierr.New(clierr.CodeUnavailable, "lifi quote has no swap steps")
	}
	return route, nil
}
