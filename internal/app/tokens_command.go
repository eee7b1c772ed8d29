package app

import (
	"fmt"
	"strings"

	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/id"
	"github.com/ggonzalez94/flashmint-cli/internal/model"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
	"github.com/spf13/cobra"
)

func (s *runtimeState) newTokensCommand() *cobra.Command {
	root := &cobra.Command{Use: "tokens", Short: "Index token registry lookups (no network access)"}

	var listChain string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List index tokens that can be flash minted",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter int64
			if strings.TrimSpace(listChain) != "" {
				network, err := id.ParseChain(listChain)
				if err != nil {
					return err
				}
				filter = network.EVMChainID
			}
			items := []model.IndexTokenInfo{}
			for _, token := range registry.SupportedIndexTokens() {
				if filter != 0 && token.ChainID != filter {
					continue
				}
				items = append(items, indexTokenInfo(id.ChainByID(token.ChainID), token.Symbol, token.Family))
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), items, nil, cacheMetaBypass(), nil)
		},
	}
	listCmd.Flags().StringVar(&listChain, "chain", "", "Only list tokens on this chain")

	var chainArg, symbolArg string
	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve an index token to its contract family, flash mint contract and issuance module",
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := id.ParseChain(chainArg)
			if err != nil {
				return err
			}
			symbol := strings.TrimSpace(symbolArg)
			if symbol == "" {
				return clierr.New(clierr.CodeUsage, "--symbol is required")
			}
			// Accept any casing on input; the registry keys are canonical.
			if asset, err := id.ParseAsset(symbol, network); err == nil && asset.Symbol != "" {
				symbol = asset.Symbol
			}
			family, ok := registry.ResolveContractFamily(symbol, network.EVMChainID)
			if !ok {
				return clierr.New(clierr.CodeUnsupported, fmt.Sprintf("index token not supported: %s on %s", symbol, network.CAIP2))
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), indexTokenInfo(network, symbol, family), nil, cacheMetaBypass(), nil)
		},
	}
	resolveCmd.Flags().StringVar(&chainArg, "chain", "", "Chain identifier (CAIP-2, chain ID, or slug)")
	resolveCmd.Flags().StringVar(&symbolArg, "symbol", "", "Index token symbol (e.g. ETH2X, icETH, hyETH)")
	_ = resolveCmd.MarkFlagRequired("chain")
	_ = resolveCmd.MarkFlagRequired("symbol")

	root.AddCommand(listCmd)
	root.AddCommand(resolveCmd)
	return root
}

func indexTokenInfo(network id.Chain, symbol string, family registry.Family) model.IndexTokenInfo {
	info := model.IndexTokenInfo{
		ChainID: network.CAIP2,
		Symbol:  symbol,
		Family:  string(family),
	}
	if token, ok := id.KnownToken(network.CAIP2, symbol); ok {
		info.Address = token.Address
	}
	if contract, ok := registry.FlashMintContract(family, symbol, network.EVMChainID); ok {
		info.Contract = contract.Hex()
	}
	module := registry.IssuanceModuleFor(symbol, network.EVMChainID)
	info.IssuanceModule = module.Address.Hex()
	info.DebtIssuance = module.IsDebt
	return info
}
