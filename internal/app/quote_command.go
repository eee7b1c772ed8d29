package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/flashmint-cli/internal/chain"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/id"
	"github.com/ggonzalez94/flashmint-cli/internal/model"
	"github.com/ggonzalez94/flashmint-cli/internal/quote"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type resolvedToken struct {
	token   quote.Token
	assetID string
}

func (s *runtimeState) newQuoteCommand() *cobra.Command {
	var chainArg, inputArg, outputArg, inputSymbol, outputSymbol string
	var amountBase, amountDecimal, providerArg string
	var redeem, exactInput bool
	var slippage float64
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a flash mint or redeem and build its transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			s.resetCommandDiagnostics()
			commandPath := trimRootPath(cmd.CommandPath())
			network, err := id.ParseChain(chainArg)
			if err != nil {
				return err
			}
			input, err := resolveToken(inputArg, inputSymbol, "--input-symbol", network)
			if err != nil {
				return err
			}
			output, err := resolveToken(outputArg, outputSymbol, "--output-symbol", network)
			if err != nil {
				return err
			}
			index := output
			if redeem {
				index = input
			}
			base, _, err := id.NormalizeAmount(amountBase, amountDecimal, index.token.Decimals)
			if err != nil {
				return err
			}
			amount, err := id.PositiveBaseUnits(base)
			if err != nil {
				return err
			}
			req := quote.Request{
				IsMinting:        !redeem,
				InputToken:       input.token,
				OutputToken:      output.token,
				IndexTokenAmount: amount,
				Slippage:         slippage,
				ExactInput:       exactInput,
			}
			if err := req.Validate(); err != nil {
				return err
			}

			providerName := providerArg
			if strings.TrimSpace(providerName) == "" {
				providerName = s.settings.SwapProvider
			}
			rpcURL, err := registry.ResolveRPCURL(s.settings.RPCURL, network.EVMChainID)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "resolve rpc url", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), s.settings.Timeout)
			defer cancel()
			client, err := chain.Dial(ctx, rpcURL)
			if err != nil {
				return err
			}
			defer client.Close()

			var reader chain.Reader = client
			cacheStatus := cacheMetaBypass()
			if s.cache != nil {
				reader = chain.WithChainIDCache(client, rpcURL, s.cache, s.log)
				cacheStatus = model.CacheStatus{Status: "chain_id"}
			}
			chainID, err := reader.ChainID(ctx)
			if err != nil {
				return err
			}
			if chainID != network.EVMChainID {
				return clierr.New(clierr.CodeUsage, fmt.Sprintf("rpc endpoint serves chain %d, not %s", chainID, network.CAIP2))
			}

			swaps, err := newSwapProvider(providerName, s.settings, s.http, client)
			if err != nil {
				return err
			}
			orchestrator := quote.NewOrchestrator(reader, swaps, quote.DefaultBuilders(), s.log)
			start := time.Now()
			result, err := orchestrator.Quote(ctx, req)
			statuses := []model.ProviderStatus{{Name: swaps.Info().Name, Status: statusFromErr(err), LatencyMS: time.Since(start).Milliseconds()}}
			s.captureCommandDiagnostics(nil, statuses)
			if err != nil {
				return err
			}
			s.log.Info("flash mint quoted",
				zap.String("family", string(result.Family)),
				zap.String("contract", result.Contract.Hex()),
				zap.String("input_output_amount", result.InputOutputAmount.String()),
			)
			data := flashMintQuoteModel(network, result, input, output, swaps.Info().Name, s.runner.now())
			return s.emitSuccess(commandPath, data, nil, cacheStatus, statuses)
		},
	}
	cmd.Flags().StringVar(&chainArg, "chain", "", "Chain identifier (CAIP-2, chain ID, or slug)")
	cmd.Flags().StringVar(&inputArg, "input-token", "", "Token paid when minting or the index token when redeeming (symbol/address/CAIP-19)")
	cmd.Flags().StringVar(&outputArg, "output-token", "", "Index token when minting or the token received when redeeming (symbol/address/CAIP-19)")
	cmd.Flags().StringVar(&inputSymbol, "input-symbol", "", "Symbol override for an input token given by address")
	cmd.Flags().StringVar(&outputSymbol, "output-symbol", "", "Symbol override for an output token given by address")
	cmd.Flags().StringVar(&amountBase, "amount", "", "Index token amount in base units")
	cmd.Flags().StringVar(&amountDecimal, "amount-decimal", "", "Index token amount in decimal units")
	cmd.Flags().BoolVar(&redeem, "redeem", false, "Redeem the index token instead of minting it")
	cmd.Flags().BoolVar(&exactInput, "exact-input", false, "Spend exactly the quoted input and mint at least --amount (leveraged extended tokens only)")
	cmd.Flags().Float64Var(&slippage, "slippage", 0.005, "Slippage tolerance as a fraction (0.005 = 0.5%)")
	cmd.Flags().StringVar(&providerArg, "provider", "", "Swap route provider (zeroex|uniswap|univ3|lifi; default from config)")
	_ = cmd.MarkFlagRequired("chain")
	_ = cmd.MarkFlagRequired("input-token")
	_ = cmd.MarkFlagRequired("output-token")
	cmd.MarkFlagsMutuallyExclusive("amount", "amount-decimal")
	cmd.MarkFlagsOneRequired("amount", "amount-decimal")
	cmd.MarkFlagsMutuallyExclusive("redeem", "exact-input")
	return cmd
}

// resolveToken looks the token up in the registry. Tokens outside it can be
// passed by address with an explicit symbol; their decimals default to 18.
func resolveToken(input, symbolOverride, overrideFlag string, network id.Chain) (resolvedToken, error) {
	asset, err := id.ParseAsset(input, network)
	if err != nil {
		return resolvedToken{}, err
	}
	symbol := asset.Symbol
	if override := strings.TrimSpace(symbolOverride); override != "" {
		symbol = override
	}
	if symbol == "" {
		return resolvedToken{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("token %s is not in the registry for %s; pass %s", input, network.CAIP2, overrideFlag))
	}
	decimals := asset.Decimals
	if decimals <= 0 {
		decimals = 18
	}
	return resolvedToken{
		token:   quote.Token{Symbol: symbol, Address: common.HexToAddress(asset.Address), Decimals: decimals},
		assetID: asset.AssetID,
	}, nil
}

func flashMintQuoteModel(network id.Chain, r quote.Result, input, output resolvedToken, provider string, at time.Time) model.FlashMintQuote {
	index := output.token
	if !r.IsMinting {
		index = input.token
	}
	routes := make([]model.NamedRoute, 0, len(r.Legs))
	for _, leg := range r.Legs {
		routes = append(routes, model.NamedRoute{Leg: leg.Name, Route: leg.Route})
	}
	return model.FlashMintQuote{
		ChainID:          network.CAIP2,
		Family:           string(r.Family),
		Contract:         r.Contract.Hex(),
		IsMinting:        r.IsMinting,
		ExactInput:       r.ExactInput,
		InputToken:       tokenInfo(input),
		OutputToken:      tokenInfo(output),
		IndexTokenAmount: amountInfo(r.IndexTokenAmount.String(), index.Decimals),
		InputAmount:      amountInfo(r.InputAmount().String(), input.token.Decimals),
		OutputAmount:     amountInfo(r.OutputAmount().String(), output.token.Decimals),
		Slippage:         r.Slippage,
		SwapProvider:     provider,
		Routes:           routes,
		ComponentSwaps:   r.ComponentSwaps,
		Transaction:      r.Tx.Model(),
		FetchedAt:        at.UTC().Format(time.RFC3339),
	}
}

func tokenInfo(t resolvedToken) model.TokenInfo {
	return model.TokenInfo{
		Symbol:   t.token.Symbol,
		Address:  t.token.Address.Hex(),
		AssetID:  t.assetID,
		Decimals: t.token.Decimals,
	}
}

func amountInfo(base string, decimals int) model.AmountInfo {
	return model.AmountInfo{
		AmountBaseUnits: base,
		AmountDecimal:   id.FormatDecimalCompat(base, decimals),
		Decimals:        decimals,
	}
}
