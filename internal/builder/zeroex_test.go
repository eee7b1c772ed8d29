package builder

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
)

var dpi = common.HexToAddress("0x1494CA1F11D487c2bBe4543E90080AeBa4BA3C2b")

func swapBasketRequest(isMinting bool, token common.Address, symbol string) SwapBasketRequest {
	return SwapBasketRequest{
		ChainID:                registry.ChainMainnet,
		IsMinting:              isMinting,
		IndexToken:             dpi,
		IndexTokenSymbol:       registry.SymbolDPI,
		IndexTokenAmount:       big.NewInt(1e18),
		InputOutputToken:       token,
		InputOutputTokenSymbol: symbol,
		InputOutputTokenAmount: big.NewInt(45_000_000_000_000_000),
		ComponentQuotes:        [][]byte{{0xd9, 0x62, 0x7a, 0xa4, 0x01}, {}},
		IssuanceModule:         registry.IssuanceModuleFor(registry.SymbolDPI, registry.ChainMainnet),
	}
}

func TestSwapBasketSelectsEntryPoint(t *testing.T) {
	cases := []struct {
		name      string
		isMinting bool
		token     common.Address
		symbol    string
		method    string
		quotesAt  int
		value     int64
	}{
		{name: "mint from ETH", isMinting: true, token: native, symbol: "ETH", method: "issueExactSetFromETH", quotesAt: 2, value: 45_000_000_000_000_000},
		{name: "redeem for ETH", isMinting: false, token: native, symbol: "ETH", method: "redeemExactSetForETH", quotesAt: 3},
		{name: "mint from USDC", isMinting: true, token: usdc, symbol: "USDC", method: "issueExactSetFromToken", quotesAt: 4},
		{name: "redeem for USDC", isMinting: false, token: usdc, symbol: "USDC", method: "redeemExactSetForToken", quotesAt: 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx, err := NewSwapBasket().Build(context.Background(), swapBasketRequest(tc.isMinting, tc.token, tc.symbol))
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if tx.To != common.HexToAddress(registry.FlashMintZeroExMainnetAddress) {
				t.Fatalf("unexpected contract: %s", tx.To.Hex())
			}
			if tx.Value.Int64() != tc.value {
				t.Fatalf("unexpected value: %s", tx.Value)
			}
			args := unpackArgs(t, zeroExABI, tc.method, tx)
			quotes, ok := args[tc.quotesAt].([][]byte)
			if !ok || len(quotes) != 2 {
				t.Fatalf("unexpected component quotes: %#v", args[tc.quotesAt])
			}
			if !bytes.Equal(quotes[0], []byte{0xd9, 0x62, 0x7a, 0xa4, 0x01}) || len(quotes[1]) != 0 {
				t.Fatalf("component quotes not passed through: %x", quotes)
			}
			if module, _ := args[tc.quotesAt+1].(common.Address); module != common.HexToAddress("0xd8EF3cACe8b4907117a45B0b125c68560532F94D") {
				t.Fatalf("unexpected issuance module: %v", args[tc.quotesAt+1])
			}
			if isDebt, _ := args[tc.quotesAt+2].(bool); isDebt {
				t.Fatal("expected the basic issuance module")
			}
		})
	}
}

func TestSwapBasketRejectsIncompleteRequests(t *testing.T) {
	noQuotes := swapBasketRequest(true, native, "ETH")
	noQuotes.ComponentQuotes = nil
	noModule := swapBasketRequest(true, native, "ETH")
	noModule.IssuanceModule = registry.IssuanceModule{}
	polygon := swapBasketRequest(true, native, "ETH")
	polygon.ChainID = registry.ChainPolygon

	cases := []struct {
		name string
		req  SwapBasketRequest
		code clierr.Code
	}{
		{name: "no quotes", req: noQuotes, code: clierr.CodeUsage},
		{name: "no module", req: noModule, code: clierr.CodeUsage},
		{name: "wrong chain", req: polygon, code: clierr.CodeUnsupported},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSwapBasket().Build(context.Background(), tc.req); !clierr.Is(err, tc.code) {
				t.Fatalf("expected %v error, got %v", tc.code, err)
			}
		})
	}
}
