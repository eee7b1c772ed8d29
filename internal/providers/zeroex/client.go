package zeroex

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/httpx"
	"github.com/ggonzalez94/flashmint-cli/internal/model"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

const quotePath = "/swap/v1/quote"

const apiKeyEnvVar = "FLASHMINT_ZEROEX_API_KEY"

var sourceNames = map[swapdata.Exchange]string{
	swapdata.ExchangeQuickswap:  "QuickSwap",
	swapdata.ExchangeSushiswap:  "SushiSwap",
	swapdata.ExchangeUniV3:      "Uniswap_V3",
	swapdata.ExchangeCurve:      "Curve",
	swapdata.ExchangeBalancerV2: "Balancer_V2",
}

// Config configures the 0x client. BaseURL replaces the per-chain 0x host,
// e.g. for a proxy that injects its own credentials via Headers.
type Config struct {
	APIKey    string
	BaseURL   string
	Affiliate string
	Headers   map[string]string
}

type Client struct {
	http *httpx.Client
	cfg  Config
}

func New(httpClient *httpx.Client, cfg Config) *Client {
	cfg.BaseURL = registry.NormalizeBaseURL(cfg.BaseURL)
	return &Client{http: httpClient, cfg: cfg}
}

func (c *Client) Info() model.ProviderInfo {
	return model.ProviderInfo{
		Name:          "zeroex",
		Type:          "swap",
		RequiresKey:   true,
		KeyEnvVarName: apiKeyEnvVar,
		Capabilities: []string{
			"swap.quote",
			"swap.route",
			"swap.calldata",
		},
		CapabilityAuth: []model.ProviderCapabilityAuth{
			{
				Capability:  "swap.quote",
				KeyEnvVar:   apiKeyEnvVar,
				Description: "not required when a custom base url authenticates requests",
			},
		},
	}
}

type quoteResponse struct {
	BuyAmount  string  `json:"buyAmount"`
	SellAmount string  `json:"sellAmount"`
	To         string  `json:"to"`
	Data       string  `json:"data"`
	Orders     []order `json:"orders"`
}

type order struct {
	Source     string   `json:"source"`
	MakerToken string   `json:"makerToken"`
	TakerToken string   `json:"takerToken"`
	FillData   fillData `json:"fillData"`
}

type fillData struct {
	TokenAddressPath []string `json:"tokenAddressPath"`
	Path             string   `json:"path"`
	PoolID           string   `json:"poolId"`
	Pool             struct {
		PoolAddress string `json:"poolAddress"`
	} `json:"pool"`
}

func (c *Client) SwapQuote(ctx context.Context, req providers.SwapQuoteRequest) (providers.SwapQuote, error) {
	resp, inputAmount, outputAmount, err := c.fetchQuote(ctx, req)
	if err != nil {
		return providers.SwapQuote{}, err
	}
	if len(resp.Orders) == 0 {
		return providers.SwapQuote{}, clierr.New(clierr.CodeUnavailable, "0x quote has no orders")
	}
	route, err := routeFromOrder(resp.Orders[0], req)
	if err != nil {
		return providers.SwapQuote{}, err
	}
	return providers.SwapQuote{InputAmount: inputAmount, OutputAmount: outputAmount, Route: route}.Check(req)
}

// SwapCallData returns the exchange proxy call the quote settles through.
func (c *Client) SwapCallData(ctx context.Context, req providers.SwapQuoteRequest) (providers.SwapCallData, error) {
	resp, inputAmount, outputAmount, err := c.fetchQuote(ctx, req)
	if err != nil {
		return providers.SwapCallData{}, err
	}
	if !common.IsHexAddress(resp.To) {
		return providers.SwapCallData{}, clierr.New(clierr.CodeUnavailable, "0x quote missing exchange address")
	}
	data, err := hexutil.Decode(resp.Data)
	if err != nil {
		return providers.SwapCallData{}, clierr.Wrap(clierr.CodeUnavailable, "decode 0x quote data", err)
	}
	return providers.SwapCallData{
		InputAmount:  inputAmount,
		OutputAmount: outputAmount,
		To:           common.HexToAddress(resp.To),
		Data:         data,
	}.Check()
}

func (c *Client) fetchQuote(ctx context.Context, req providers.SwapQuoteRequest) (quoteResponse, *big.Int, *big.Int, error) {
	if err := req.Validate(); err != nil {
		return quoteResponse{}, nil, nil, err
	}
	headers := c.authHeaders()
	if len(headers) == 0 {
		return quoteResponse{}, nil, nil, clierr.New(clierr.CodeAuth, "missing required API key for 0x ("+apiKeyEnvVar+")")
	}

	vals := url.Values{}
	if req.ExactOutput() {
		vals.Set("buyAmount", req.OutputAmount.String())
	} else {
		vals.Set("sellAmount", req.InputAmount.String())
	}
	vals.Set("buyToken", req.OutputToken.Hex())
	vals.Set("sellToken", req.InputToken.Hex())
	if sources := includedSources(req.Sources); sources != "" {
		vals.Set("includedSources", sources)
	}
	if req.Slippage > 0 {
		vals.Set("slippagePercentage", strconv.FormatFloat(req.Slippage, 'f', -1, 64))
	}
	endpoint, err := c.buildURL(quotePath, vals.Encode(), req.ChainID)
	if err != nil {
		return quoteResponse{}, nil, nil, err
	}

	hReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return quoteResponse{}, nil, nil, clierr.Wrap(clierr.CodeInternal, "build 0x quote request", err)
	}
	for k, v := range headers {
		hReq.Header.Set(k, v)
	}
	var resp quoteResponse
	if _, err := c.http.DoJSON(ctx, hReq, &resp); err != nil {
		return quoteResponse{}, nil, nil, err
	}

	inputAmount, ok := new(big.Int).SetString(resp.SellAmount, 10)
	if !ok {
		return quoteResponse{}, nil, nil, clierr.New(clierr.CodeUnavailable, "0x quote missing sell amount")
	}
	outputAmount, ok := new(big.Int).SetString(resp.BuyAmount, 10)
	if !ok {
		return quoteResponse{}, nil, nil, clierr.New(clierr.CodeUnavailable, "0x quote missing buy amount")
	}
	return resp, inputAmount, outputAmount, nil
}

// buildURL joins the chain's 0x host (or the configured base url) with path
// and query, appending the affiliate address last.
func (c *Client) buildURL(path, query string, chainID int64) (string, error) {
	base := c.cfg.BaseURL
	if base == "" {
		host, ok := registry.ZeroExBaseURL(chainID)
		if !ok {
			return "", clierr.New(clierr.CodeUnsupported, fmt.Sprintf("0x does not serve chain %d", chainID))
		}
		base = host
	}
	endpoint := base + path + "?" + query
	if affiliate := strings.TrimSpace(c.cfg.Affiliate); affiliate != "" {
		endpoint += "&affiliateAddress=" + url.QueryEscape(affiliate)
	}
	return endpoint, nil
}

func (c *Client) authHeaders() map[string]string {
	headers := map[string]string{}
	for k, v := range c.cfg.Headers {
		headers[k] = v
	}
	if key := strings.TrimSpace(c.cfg.APIKey); key != "" {
		headers["0x-api-key"] = key
	}
	return headers
}

func includedSources(sources []swapdata.Exchange) string {
	names := make([]string, 0, len(sources))
	for _, source := range sources {
		if name, ok := sourceNames[source]; ok {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}

func routeFromOrder(o order, req providers.SwapQuoteRequest) (swapdata.Route, error) {
	exchange, ok := swapdata.ParseExchange(o.Source)
	if !ok || exchange == swapdata.ExchangeNone {
		return swapdata.Route{}, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("0x routed through unsupported source %q", o.Source))
	}
	taker := addressOr(o.TakerToken, req.InputToken)
	maker := addressOr(o.MakerToken, req.OutputToken)

	switch exchange {
	case swapdata.ExchangeUniV3:
		raw, err := hexutil.Decode(o.FillData.Path)
		if err != nil {
			return swapdata.Route{}, clierr.Wrap(clierr.CodeUnavailable, "decode 0x uniswap v3 path", err)
		}
		path, fees, err := swapdata.DecodeV3Path(raw)
		if err != nil {
			return swapdata.Route{}, clierr.Wrap(clierr.CodeUnavailable, "decode 0x uniswap v3 path", err)
		}
		return swapdata.Route{Exchange: exchange, Path: path, Fees: fees}, nil
	case swapdata.ExchangeSushiswap, swapdata.ExchangeQuickswap:
		path := make([]common.Address, 0, len(o.FillData.TokenAddressPath))
		for _, hop := range o.FillData.TokenAddressPath {
			if !common.IsHexAddress(hop) {
				return swapdata.Route{}, clierr.New(clierr.CodeUnavailable, "0x order has an invalid token path")
			}
			path = append(path, common.HexToAddress(hop))
		}
		if len(path) == 0 {
			path = []common.Address{taker, maker}
		}
		return swapdata.Route{Exchange: exchange, Path: path, Fees: []uint32{}}, nil
	case swapdata.ExchangeCurve:
		return swapdata.Route{
			Exchange: exchange,
			Path:     []common.Address{taker, maker},
			Fees:     []uint32{},
			Pool:     addressOr(o.FillData.Pool.PoolAddress, common.Address{}),
		}, nil
	case swapdata.ExchangeBalancerV2:
		if o.FillData.PoolID == "" {
			return swapdata.Route{}, clierr.New(clierr.CodeUnavailable, "0x balancer order missing pool id")
		}
		return swapdata.Route{
			Exchange: exchange,
			Path:     []common.Address{taker, maker},
			Fees:     []uint32{},
			PoolIDs:  []common.Hash{common.HexToHash(o.FillData.PoolID)},
		}, nil
	}
	return swapdata.Route{}, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("0x routed through unsupported source %q", o.Source))
}

func addressOr(raw string, fallback common.Address) common.Address {
	if common.IsHexAddress(strings.TrimSpace(raw)) {
		return common.HexToAddress(strings.TrimSpace(raw))
	}
	return fallback
}
