package lifi

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/httpx"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

var (
	usdc = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	weth = common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")
	wbtc = common.HexToAddress("0x1BFD67037B42Cf73acF2047067bd4F2C47D9BfD6")
)

func TestSwapQuoteExactOutputUsesToAmountEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote/toAmount" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("toAmount") != "5000" || q.Get("fromAmount") != "" {
			t.Fatalf("unexpected amount params: %s", r.URL.RawQuery)
		}
		if got := q["allowExchanges"]; len(got) != 1 || got[0] != "quickswap" {
			t.Fatalf("unexpected exchange allow-list: %v", got)
		}
		if r.Header.Get("x-lifi-api-key") != "k" {
			t.Fatalf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{
			"estimate": {"fromAmount": "7000", "toAmount": "5000"},
			"includedSteps": [
				{"type":"protocol","tool":"feeCollection","action":{"fromToken":{"address":%q},"toToken":{"address":%q}}},
				{"type":"swap","tool":"quickswap","action":{"fromToken":{"address":%q},"toToken":{"address":%q}}},
				{"type":"swap","tool":"quickswap","action":{"fromToken":{"address":%q},"toToken":{"address":%q}}}
			]
		}`, usdc.Hex(), usdc.Hex(), usdc.Hex(), weth.Hex(), weth.Hex(), wbtc.Hex())
	}))
	defer srv.Close()

	c := New(httpx.New(2*time.Second, 0), "k")
	c.baseURL = srv.URL
	quote, err := c.SwapQuote(context.Background(), providers.SwapQuoteRequest{
		ChainID: 137, InputToken: usdc, OutputToken: wbtc, OutputAmount: big.NewInt(5000),
		Sources: []swapdata.Exchange{swapdata.ExchangeQuickswap, swapdata.ExchangeUniV3},
	})
	if err != nil {
		t.Fatalf("SwapQuote failed: %v", err)
	}
	if quote.InputAmount.Int64() != 7000 {
		t.Fatalf("unexpected input amount: %s", quote.InputAmount)
	}
	if quote.Route.Exchange != swapdata.ExchangeQuickswap || len(quote.Route.Path) != 3 || quote.Route.Path[1] != weth {
		t.Fatalf("unexpected route: %+v", quote.Route)
	}
}

func TestSwapQuoteRejectsToolsWithoutPoolDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{
			"estimate": {"fromAmount": "1000", "toAmount": "900"},
			"includedSteps": [{"type":"swap","tool":"curve","action":{"fromToken":{"address":%q},"toToken":{"address":%q}}}]
		}`, usdc.Hex(), weth.Hex())
	}))
	defer srv.Close()

	c := New(httpx.New(2*time.Second, 0), "")
	c.baseURL = srv.URL
	_, err := c.SwapQuote(context.Background(), providers.SwapQuoteRequest{
		ChainID: 137, InputToken: usdc, OutputToken: weth, InputAmount: big.NewInt(1000),
	})
	if !clierr.Is(err, clierr.CodeUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestSwapQuoteWithoutRoutableSourcesSkipsRequest(t *testing.T) {
	c := New(httpx.New(2*time.Second, 0), "")
	c.baseURL = "http://127.0.0.1:1"
	_, err := c.SwapQuote(context.Background(), providers.SwapQuoteRequest{
		ChainID: 1, InputToken: usdc, OutputToken: weth, InputAmount: big.NewInt(1),
		Sources: []swapdata.Exchange{swapdata.ExchangeCurve},
	})
	if !clierr.Is(err, clierr.CodeUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
