package registry

import "sort"

// Family identifies the flash-mint contract variant that governs an index token.
type Family string

const (
	FamilyLeveraged         Family = "leveraged"
	FamilyLeveragedExtended Family = "leveraged_extended"
	FamilyComponentBasket   Family = "component_basket"
	FamilyZeroEx            Family = "zero_ex"
)

const (
	ChainMainnet  int64 = 1
	ChainOptimism int64 = 10
	ChainPolygon  int64 = 137
	ChainBase     int64 = 8453
	ChainArbitrum int64 = 42161
)

// Index token symbols. Lookups are case sensitive on these canonical forms.
const (
	SymbolBTC2x     = "BTC2X"
	SymbolBTC3x     = "BTC3X"
	SymbolETH2x     = "ETH2X"
	SymbolETH3x     = "ETH3X"
	SymbolIBTC1x    = "iBTC1X"
	SymbolIETH1x    = "iETH1X"
	SymbolBTC2xFLI  = "BTC2x-FLI"
	SymbolETH2xFLI  = "ETH2x-FLI"
	SymbolIcETH     = "icETH"
	SymbolIcRETH    = "icRETH"
	SymbolHyETH     = "hyETH"
	SymbolDPI       = "DPI"
	SymbolMVI       = "MVI"
	SymbolBED       = "BED"
	SymbolCdETI     = "cdETI"
	SymbolDsETH     = "dsETH"
	SymbolGtcETH    = "gtcETH"
	SymbolETH       = "ETH"
	SymbolWETH      = "WETH"
	SymbolSTETH     = "stETH"
	SymbolRETH      = "rETH"
	anyKnownChainID = 0
)

type familyKey struct {
	chainID int64
	symbol  string
}

// Chain-specific entries win over the anyKnownChainID fallbacks.
var familyTable = map[familyKey]Family{
	{ChainArbitrum, SymbolBTC2x}:  FamilyLeveragedExtended,
	{ChainArbitrum, SymbolBTC3x}:  FamilyLeveragedExtended,
	{ChainArbitrum, SymbolETH2x}:  FamilyLeveragedExtended,
	{ChainArbitrum, SymbolETH3x}:  FamilyLeveragedExtended,
	{ChainArbitrum, SymbolIBTC1x}: FamilyLeveragedExtended,
	{ChainArbitrum, SymbolIETH1x}: FamilyLeveragedExtended,

	{ChainBase, SymbolBTC2x}: FamilyLeveragedExtended,
	{ChainBase, SymbolBTC3x}: FamilyLeveragedExtended,
	{ChainBase, SymbolETH2x}: FamilyLeveragedExtended,
	{ChainBase, SymbolETH3x}: FamilyLeveragedExtended,

	{ChainMainnet, SymbolHyETH}: FamilyComponentBasket,

	{ChainMainnet, SymbolDPI}:    FamilyZeroEx,
	{ChainMainnet, SymbolMVI}:    FamilyZeroEx,
	{ChainMainnet, SymbolBED}:    FamilyZeroEx,
	{ChainMainnet, SymbolCdETI}:  FamilyZeroEx,
	{ChainMainnet, SymbolDsETH}:  FamilyZeroEx,
	{ChainMainnet, SymbolGtcETH}: FamilyZeroEx,

	{anyKnownChainID, SymbolBTC2xFLI}: FamilyLeveraged,
	{anyKnownChainID, SymbolETH2xFLI}: FamilyLeveraged,
	{anyKnownChainID, SymbolBTC2x}:    FamilyLeveraged,
	{anyKnownChainID, SymbolETH2x}:    FamilyLeveraged,
	{anyKnownChainID, SymbolIcETH}:    FamilyLeveraged,
	{anyKnownChainID, SymbolIcRETH}:   FamilyLeveraged,
}

// leveragedChains are the chains where the single-chain leveraged contracts
// are deployed.
var leveragedChains = map[int64]bool{ChainMainnet: true, ChainPolygon: true}

// ResolveContractFamily maps an index token symbol on a chain to the contract
// family that can flash mint it. ok is false when the pair is not supported.
func ResolveContractFamily(symbol string, chainID int64) (Family, bool) {
	if family, ok := familyTable[familyKey{chainID, symbol}]; ok {
		return family, true
	}
	if !leveragedChains[chainID] {
		return "", false
	}
	family, ok := familyTable[familyKey{anyKnownChainID, symbol}]
	return family, ok
}

// IndexToken is one supported (chain, symbol) pair.
type IndexToken struct {
	ChainID int64  `json:"chain_id"`
	Symbol  string `json:"symbol"`
	Family  Family `json:"family"`
}

// SupportedIndexTokens lists every supported pair sorted by chain then symbol.
func SupportedIndexTokens() []IndexToken {
	out := make([]IndexToken, 0, len(familyTable))
	for key, family := range familyTable {
		if key.chainID != anyKnownChainID {
			out = append(out, IndexToken{ChainID: key.chainID, Symbol: key.symbol, Family: family})
			continue
		}
		for chainID := range leveragedChains {
			if _, shadowed := familyTable[familyKey{chainID, key.symbol}]; shadowed {
				continue
			}
			out = append(out, IndexToken{ChainID: chainID, Symbol: key.symbol, Family: family})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChainID != out[j].ChainID {
			return out[i].ChainID < out[j].ChainID
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
