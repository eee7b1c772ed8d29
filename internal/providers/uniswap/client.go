package uniswap

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/httpx"
	"github.com/ggonzalez94/flashmint-cli/internal/model"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

// quoteOnlySwapper is a deterministic placeholder for quote retrieval flows.
const quoteOnlySwapper = "0x0000000000000000000000000000000000000001"

const apiKeyEnvVar = "FLASHMINT_UNISWAP_API_KEY"

// The trade API addresses native ETH with the zero address.
const uniswapNativeAddress = "0x0000000000000000000000000000000000000000"

type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
}

func New(httpClient *httpx.Client, apiKey string) *Client {
	return &Client{http: httpClient, baseURL: registry.UniswapBaseURL, apiKey: apiKey}
}

func (c *Client) Info() model.ProviderInfo {
	return model.ProviderInfo{
		Name:          "uniswap",
		Type:          "swap",
		RequiresKey:   true,
		KeyEnvVarName: apiKeyEnvVar,
		Capabilities: []string{
			"swap.quote",
			"swap.route",
		},
		CapabilityAuth: []model.ProviderCapabilityAuth{
			{
				Capability: "swap.quote",
				KeyEnvVar:  apiKeyEnvVar,
			},
		},
	}
}

type quoteResponse struct {
	Routing string `json:"routing"`
	Quote   struct {
		Input struct {
			Amount string `json:"amount"`
		} `json:"input"`
		Output struct {
			Amount string `json:"amount"`
		} `json:"output"`
		Route [][]routePool `json:"route"`
	} `json:"quote"`
}

type routePool struct {
	Type    string `json:"type"`
	Address string `json:"address"`
	TokenIn struct {
		Address string `json:"address"`
	} `json:"tokenIn"`
	TokenOut struct {
		Address string `json:"address"`
	} `json:"tokenOut"`
	Fee json.RawMessage `json:"fee"`
}

func (c *Client) SwapQuote(ctx context.Context, req providers.SwapQuoteRequest) (providers.SwapQuote, error) {
	if err := req.Validate(); err != nil {
		return providers.SwapQuote{}, err
	}
	if c.apiKey == "" {
		return providers.SwapQuote{}, clierr.New(clierr.CodeAuth, "missing required API key for uniswap ("+apiKeyEnvVar+")")
	}
	if !req.Allows(swapdata.ExchangeUniV3) {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnavailable, "uniswap only routes through uniswap v3 pools")
	}

	payload := map[string]any{
		"tokenInChainId":  req.ChainID,
		"tokenOutChainId": req.ChainID,
		"tokenIn":         tradeAPIAddress(req.InputToken),
		"tokenOut":        tradeAPIAddress(req.OutputToken),
		"amount":          req.Amount().String(),
		"type":            tradeType(req),
		"swapper":         quoteOnlySwapper,
		"protocols":       []string{"V3"},
		"routingPreference": "CLASSIC",
	}
	if req.Slippage > 0 {
		payload["slippageTolerance"] = req.Slippage * 100
	} else {
		payload["autoSlippage"] = "DEFAULT"
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return providers.SwapQuote{}, clierr.Wrap(clierr.CodeInternal, "marshal uniswap request", err)
	}

	headers := map[string]string{
		"x-api-key": c.apiKey,
	}
	var resp quoteResponse
	if _, err := httpx.DoBodyJSON(ctx, c.http, http.MethodPost, c.baseURL+"/quote", buf, headers, &resp); err != nil {
		return providers.SwapQuote{}, err
	}

	inputAmount, ok := new(big.Int).SetString(resp.Quote.Input.Amount, 10)
	if !ok {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnavailable, "uniswap quote missing input amount")
	}
	outputAmount, ok := new(big.Int).SetString(resp.Quote.Output.Amount, 10)
	if !ok {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnavailable, "uniswap quote missing output amount")
	}
	if len(resp.Quote.Route) != 1 {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("uniswap quote split across %d routes", len(resp.Quote.Route)))
	}
	route, err := routeFromPools(resp.Quote.Route[0])
	if err != nil {
		return providers.SwapQuote{}, err
	}
	return providers.SwapQuote{InputAmount: inputAmount, OutputAmount: outputAmount, Route: route}.Check(req)
}

func routeFromPools(pools []routePool) (swapdata.Route, error) {
	if len(pools) == 0 {
		return swapdata.Route{}, clierr.New(clierr.CodeUnavailable, "uniswap quote has an empty route")
	}
	path := make([]common.Address, 0, len(pools)+1)
	fees := make([]uint32, 0, len(pools))
	for i, pool := range pools {
		if pool.Type != "v3-pool" {
			return swapdata.Route{}, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("uniswap route uses unsupported pool type %q", pool.Type))
		}
		if i == 0 {
			path = append(path, common.HexToAddress(pool.TokenIn.Address))
		}
		path = append(path, common.HexToAddress(pool.TokenOut.Address))
		fee, err := parseFee(pool.Fee)
		if err != nil {
			return swapdata.Route{}, clierr.Wrap(clierr.CodeUnavailable, "decode uniswap pool fee", err)
		}
		fees = append(fees, fee)
	}
	return swapdata.Route{Exchange: swapdata.ExchangeUniV3, Path: path, Fees: fees}, nil
}

func parseFee(raw json.RawMessage) (uint32, error) {
	trimmed := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if trimmed == "" || trimmed == "null" {
		return 0, fmt.Errorf("missing fee")
	}
	value, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(value), nil
}

func tradeAPIAddress(addr common.Address) string {
	if strings.EqualFold(addr.Hex(), registry.NativeSentinel) {
		return uniswapNativeAddress
	}
	return addr.Hex()
}

func tradeType(req providers.SwapQuoteRequest) string {
	if req.ExactOutput() {
		return "EXACT_OUTPUT"
	}
	return "EXACT_INPUT"
}
