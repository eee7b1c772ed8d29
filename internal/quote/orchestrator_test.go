package quote

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/flashmint-cli/internal/builder"
	"github.com/ggonzalez94/flashmint-cli/internal/chain"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func states(logs *observer.ObservedLogs) []string {
	var out []string
	for _, entry := range logs.FilterMessage("flash mint state").All() {
		out = append(out, entry.ContextMap()["state"].(string))
	}
	return out
}

func selectorOf(t *testing.T, rawABI, method string) []byte {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		t.Fatalf("parse abi: %v", err)
	}
	return parsed.Methods[method].ID
}

func TestOrchestratorLeveragedMint(t *testing.T) {
	reader := &fakeReader{chainID: 1, data: eth2xPosition()}
	swaps := &fakeSwaps{quote: func(req providers.SwapQuoteRequest) (providers.SwapQuote, error) {
		if req.InputAmount != nil {
			return fixedQuote(req, wei("980000000000000000")), nil
		}
		return fixedQuote(req, wei("1600000000")), nil
	}}
	log, logs := observedLogger()
	o := NewOrchestrator(reader, swaps, DefaultBuilders(), log)

	result, err := o.Quote(context.Background(), Request{
		IsMinting: true, InputToken: usdcToken, OutputToken: eth2xMainnet,
		IndexTokenAmount: wei("1000000000000000000"), Slippage: 0.005,
	})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if result.Family != registry.FamilyLeveraged || result.ChainID != 1 {
		t.Fatalf("unexpected resolution: %s on %d", result.Family, result.ChainID)
	}
	if result.Contract != common.HexToAddress(registry.FlashMintLeveragedAddress) || result.Contract != result.Tx.To {
		t.Fatalf("unexpected contract: %s", result.Contract.Hex())
	}
	if !bytes.Equal(result.Tx.Data[:4], selectorOf(t, registry.FlashMintLeveragedABI, "issueExactSetFromERC20")) {
		t.Fatal("expected issueExactSetFromERC20 call data")
	}
	if result.OutputAmount().Cmp(wei("1000000000000000000")) != 0 || result.InputAmount().Cmp(wei("1608000000")) != 0 {
		t.Fatalf("unexpected amounts: in=%s out=%s", result.InputAmount(), result.OutputAmount())
	}
	if len(result.Legs) != 2 {
		t.Fatalf("expected two route legs, got %d", len(result.Legs))
	}
	got := strings.Join(states(logs), ",")
	if got != "resolving,quoting,building,done" {
		t.Fatalf("unexpected state transitions: %s", got)
	}
}

func TestOrchestratorUnsupportedToken(t *testing.T) {
	reader := &fakeReader{chainID: registry.ChainBase}
	swaps := &fakeSwaps{}
	log, logs := observedLogger()
	o := NewOrchestrator(reader, swaps, DefaultBuilders(), log)
	_, err := o.Quote(context.Background(), Request{
		IsMinting: true, InputToken: usdcToken, OutputToken: icEth,
		IndexTokenAmount: wei("1"), Slippage: 0.005,
	})
	if !clierr.Is(err, clierr.CodeUnsupported) {
		t.Fatalf("expected unsupported token error, got %v", err)
	}
	if swaps.count() != 0 {
		t.Fatalf("expected no swap quotes, got %d", swaps.count())
	}
	if got := strings.Join(states(logs), ","); got != "resolving,failed" {
		t.Fatalf("unexpected state transitions: %s", got)
	}
}

func TestOrchestratorLeveragedExtendedOnArbitrum(t *testing.T) {
	reader := &fakeReader{chainID: registry.ChainArbitrum, data: chain.LeveragedTokenData{
		CollateralToken:  wethArb,
		CollateralAmount: wei("2000000000000000000"),
		DebtToken:        usdcArb,
		DebtAmount:       wei("1500000000"),
	}}
	swaps := &fakeSwaps{quote: func(req providers.SwapQuoteRequest) (providers.SwapQuote, error) {
		if req.OutputToken == usdcArb {
			return fixedQuote(req, wei("800000000000000000")), nil
		}
		return fixedQuote(req, wei("1150000000000000000")), nil
	}}
	o := NewOrchestrator(reader, swaps, DefaultBuilders(), nil)
	result, err := o.Quote(context.Background(), Request{
		InputToken: eth2xArb, OutputToken: ethToken,
		IndexTokenAmount: wei("1000000000000000000"), Slippage: 0.01,
	})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if result.Contract != common.HexToAddress(registry.FlashMintLeveragedExtendedArbitrumAddress) {
		t.Fatalf("unexpected contract: %s", result.Contract.Hex())
	}
	if !bytes.Equal(result.Tx.Data[:4], selectorOf(t, registry.FlashMintLeveragedExtendedABI, "redeemExactSetForETH")) {
		t.Fatal("expected redeemExactSetForETH call data")
	}
	if result.InputAmount().Cmp(wei("1000000000000000000")) != 0 {
		t.Fatalf("redeem input must be the index amount, got %s", result.InputAmount())
	}
	// ETH against WETH collateral needs no payment swap: floor(1.2e18 * 0.99)
	if result.OutputAmount().Cmp(wei("1188000000000000000")) != 0 {
		t.Fatalf("unexpected output amount: %s", result.OutputAmount())
	}
}

func TestOrchestratorComponentBasketMint(t *testing.T) {
	reader := &fakeReader{
		chainID: 1,
		rate:    wei("1000000000000000000"),
		units: chain.ComponentUnits{
			Components:  []common.Address{acrossLP, plainComp},
			EquityUnits: []*big.Int{wei("2000000000000000000"), wei("1")},
			DebtUnits:   []*big.Int{big.NewInt(0), big.NewInt(0)},
		},
	}
	swaps := &fakeSwaps{}
	o := NewOrchestrator(reader, swaps, DefaultBuilders(), nil)
	result, err := o.Quote(context.Background(), Request{
		IsMinting: true, InputToken: ethToken, OutputToken: hyEth,
		IndexTokenAmount: wei("1000000000000000000"), Slippage: 0.01,
	})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if result.Family != registry.FamilyComponentBasket {
		t.Fatalf("unexpected family: %s", result.Family)
	}
	if result.InputOutputAmount.Cmp(wei("2020000000000000000")) != 0 {
		t.Fatalf("unexpected funding amount: %s", result.InputOutputAmount)
	}
	if result.Tx.Value.Cmp(result.InputOutputAmount) != 0 {
		t.Fatalf("expected ETH value to carry the funding amount, got %s", result.Tx.Value)
	}
	if result.Contract != common.HexToAddress(registry.FlashMintHyEthAddress) {
		t.Fatalf("unexpected contract: %s", result.Contract.Hex())
	}
}

type failingBuilder struct{}

func (failingBuilder) Build(context.Context, builder.LeveragedRequest) (builder.Transaction, error) {
	return builder.Transaction{}, clierr.New(clierr.CodeMalformedRoute, "malformed uniswap_v3 route")
}

func TestOrchestratorBuilderFailureFailsPass(t *testing.T) {
	reader := &fakeReader{chainID: 1, data: eth2xPosition()}
	swaps := &fakeSwaps{quote: func(req providers.SwapQuoteRequest) (providers.SwapQuote, error) {
		if req.InputAmount != nil {
			return fixedQuote(req, wei("980000000000000000")), nil
		}
		return fixedQuote(req, wei("1600000000")), nil
	}}
	builders := DefaultBuilders()
	builders.Leveraged = failingBuilder{}
	log, logs := observedLogger()
	o := NewOrchestrator(reader, swaps, builders, log)
	_, err := o.Quote(context.Background(), Request{
		IsMinting: true, InputToken: usdcToken, OutputToken: eth2xMainnet,
		IndexTokenAmount: wei("1000000000000000000"), Slippage: 0.005,
	})
	if !clierr.Is(err, clierr.CodeMalformedRoute) {
		t.Fatalf("expected malformed route error, got %v", err)
	}
	if got := strings.Join(states(logs), ","); got != "resolving,quoting,building,failed" {
		t.Fatalf("unexpected state transitions: %s", got)
	}
}

func arbitrumWETHPosition() chain.LeveragedTokenData {
	return chain.LeveragedTokenData{
		CollateralToken:  wethArb,
		CollateralAmount: wei("2000000000000000000"),
		DebtToken:        usdcArb,
		DebtAmount:       wei("1500000000"),
	}
}

func TestOrchestratorExactInputMintFromETH(t *testing.T) {
	reader := &fakeReader{chainID: registry.ChainArbitrum, data: arbitrumWETHPosition()}
	swaps := &fakeSwaps{quote: func(req providers.SwapQuoteRequest) (providers.SwapQuote, error) {
		return fixedQuote(req, wei("800000000000000000")), nil
	}}
	o := NewOrchestrator(reader, swaps, DefaultBuilders(), nil)
	result, err := o.Quote(context.Background(), Request{
		IsMinting: true, ExactInput: true, InputToken: ethToken, OutputToken: eth2xArb,
		IndexTokenAmount: wei("1000000000000000000"), Slippage: 0.01,
	})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if !result.ExactInput {
		t.Fatal("expected the result to carry exact input")
	}
	if !bytes.Equal(result.Tx.Data[:4], selectorOf(t, registry.FlashMintLeveragedExtendedABI, "issueSetFromExactETH")) {
		t.Fatal("expected issueSetFromExactETH call data")
	}
	// ceil((2e18 - 0.8e18) * 1.01)
	if result.Tx.Value.Cmp(wei("1212000000000000000")) != 0 {
		t.Fatalf("expected the quoted input as value, got %s", result.Tx.Value)
	}
}

func TestOrchestratorExactInputMintFromERC20IsUnresolved(t *testing.T) {
	reader := &fakeReader{chainID: registry.ChainArbitrum, data: arbitrumWETHPosition()}
	swaps := &fakeSwaps{quote: func(req providers.SwapQuoteRequest) (providers.SwapQuote, error) {
		if req.OutputToken == usdcArb {
			return fixedQuote(req, wei("800000000000000000")), nil
		}
		return fixedQuote(req, wei("1500000000")), nil
	}}
	o := NewOrchestrator(reader, swaps, DefaultBuilders(), nil)
	_, err := o.Quote(context.Background(), Request{
		IsMinting: true, ExactInput: true, InputToken: usdcArbToken, OutputToken: eth2xArb,
		IndexTokenAmount: wei("1000000000000000000"), Slippage: 0.01,
	})
	if !clierr.Is(err, clierr.CodeUnsupported) || !errors.Is(err, builder.ErrInputTokenForETHUnresolved) {
		t.Fatalf("expected unresolved input-token-for-ETH error, got %v", err)
	}
}

func TestOrchestratorExactInputOutsideExtendedFamily(t *testing.T) {
	reader := &fakeReader{chainID: 1, data: eth2xPosition()}
	swaps := &fakeSwaps{}
	log, logs := observedLogger()
	o := NewOrchestrator(reader, swaps, DefaultBuilders(), log)
	_, err := o.Quote(context.Background(), Request{
		IsMinting: true, ExactInput: true, InputToken: usdcToken, OutputToken: eth2xMainnet,
		IndexTokenAmount: wei("1000000000000000000"), Slippage: 0.005,
	})
	if !clierr.Is(err, clierr.CodeUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
	if swaps.count() != 0 {
		t.Fatalf("expected no swap quotes, got %d", swaps.count())
	}
	if got := strings.Join(states(logs), ","); got != "resolving,failed" {
		t.Fatalf("unexpected states: %s", got)
	}
}

func TestOrchestratorSwapBasketRedeemForERC20(t *testing.T) {
	reader := &fakeReader{
		chainID: 1,
		units: chain.ComponentUnits{
			Components:  []common.Address{uniMainnet, aaveMainnet},
			EquityUnits: []*big.Int{big.NewInt(1000), big.NewInt(2000)},
			DebtUnits:   []*big.Int{big.NewInt(0), big.NewInt(0)},
		},
	}
	swaps := &fakeCallDataSwaps{fakeSwaps: &fakeSwaps{}, call: func(req providers.SwapQuoteRequest) (providers.SwapCallData, error) {
		return calldataFor(req, new(big.Int).Div(req.InputAmount, big.NewInt(2))), nil
	}}
	log, logs := observedLogger()
	o := NewOrchestrator(reader, swaps, DefaultBuilders(), log)
	result, err := o.Quote(context.Background(), Request{
		IsMinting: false, InputToken: dpiToken, OutputToken: usdcToken,
		IndexTokenAmount: wei("1000000000000000000"), Slippage: 0.01,
	})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if result.Family != registry.FamilyZeroEx || result.Contract != common.HexToAddress(registry.FlashMintZeroExMainnetAddress) {
		t.Fatalf("unexpected family or contract: %s %s", result.Family, result.Contract.Hex())
	}
	// floor((500 + 1000) * 0.99)
	if result.InputOutputAmount.String() != "1485" {
		t.Fatalf("unexpected output amount: %s", result.InputOutputAmount)
	}
	if result.ComponentSwaps != 2 || len(result.Legs) != 0 {
		t.Fatalf("expected two component swaps and no legs, got %d and %d", result.ComponentSwaps, len(result.Legs))
	}
	if !bytes.Equal(result.Tx.Data[:4], selectorOf(t, registry.FlashMintZeroExABI, "redeemExactSetForToken")) {
		t.Fatalf("unexpected selector: %x", result.Tx.Data[:4])
	}
	if got := strings.Join(states(logs), ","); got != "resolving,quoting,building,done" {
		t.Fatalf("unexpected states: %s", got)
	}
}

func TestOrchestratorSwapBasketNeedsCalldataProvider(t *testing.T) {
	reader := &fakeReader{chainID: 1}
	swaps := &fakeSwaps{}
	o := NewOrchestrator(reader, swaps, DefaultBuilders(), nil)
	_, err := o.Quote(context.Background(), Request{
		IsMinting: true, InputToken: ethToken, OutputToken: dpiToken,
		IndexTokenAmount: wei("1000000000000000000"), Slippage: 0.01,
	})
	if !clierr.Is(err, clierr.CodeUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
	if reader.callCount() != 1 || swaps.count() != 0 {
		t.Fatalf("expected only the chain id read, got %d reads and %d swaps", reader.callCount(), swaps.count())
	}
}
