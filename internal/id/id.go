package id

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
)

var (
	eip155ChainPattern = regexp.MustCompile(`^eip155:[0-9]+$`)
	evmAddressPattern  = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	eip155AssetPattern = regexp.MustCompile(`^eip155:[0-9]+/erc20:0x[0-9a-fA-F]{40}$`)
)

// NativeAssetAddress is the sentinel address aggregators and flash-mint
// contracts use for the chain's native asset.
const NativeAssetAddress = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

// NativeSymbol is the ticker of the native asset on every supported chain.
const NativeSymbol = "ETH"

type Chain struct {
	Name       string
	Slug       string
	CAIP2      string
	EVMChainID int64
}

type Asset struct {
	ChainID  string
	AssetID  string
	Address  string
	Symbol   string
	Decimals int
}

// IsNative reports whether the asset is addressed by the native sentinel.
func (a Asset) IsNative() bool {
	return strings.EqualFold(a.Address, NativeAssetAddress)
}

type Token struct {
	Symbol   string
	Address  string
	Decimals int
}

var chainBySlug = map[string]Chain{
	"ethereum": {Name: "Ethereum", Slug: "ethereum", CAIP2: "eip155:1", EVMChainID: 1},
	"mainnet":  {Name: "Ethereum", Slug: "ethereum", CAIP2: "eip155:1", EVMChainID: 1},
	"optimism": {Name: "Optimism", Slug: "optimism", CAIP2: "eip155:10", EVMChainID: 10},
	"polygon":  {Name: "Polygon", Slug: "polygon", CAIP2: "eip155:137", EVMChainID: 137},
	"base":     {Name: "Base", Slug: "base", CAIP2: "eip155:8453", EVMChainID: 8453},
	"arbitrum": {Name: "Arbitrum", Slug: "arbitrum", CAIP2: "eip155:42161", EVMChainID: 42161},
}

var chainByID = map[int64]Chain{
	1:     chainBySlug["ethereum"],
	10:    chainBySlug["optimism"],
	137:   chainBySlug["polygon"],
	8453:  chainBySlug["base"],
	42161: chainBySlug["arbitrum"],
}

var nativeToken = Token{Symbol: NativeSymbol, Address: NativeAssetAddress, Decimals: 18}

// Tokens the CLI can resolve by symbol. Index tokens keep their canonical
// casing since contract-family lookups are case sensitive.
var tokenRegistry = map[string][]Token{
	"eip155:1": {
		nativeToken,
		{Symbol: "WETH", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18},
		{Symbol: "USDC", Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Decimals: 6},
		{Symbol: "USDT", Address: "0xdac17f958d2ee523a2206206994597c13d831ec7", Decimals: 6},
		{Symbol: "DAI", Address: "0x6b175474e89094c44da98b954eedeac495271d0f", Decimals: 18},
		{Symbol: "stETH", Address: "0xae7ab96520DE3A18E5e111B5EaAb095312D7fE84", Decimals: 18},
		{Symbol: "rETH", Address: "0xae78736Cd615f374D3085123A210448E74Fc6393", Decimals: 18},
		{Symbol: "ETH2x-FLI", Address: "0xAa6E8127831c9DE45ae56bB1b0d4D4Da6e5665BD", Decimals: 18},
		{Symbol: "BTC2x-FLI", Address: "0x0B498ff89709d3838a063f1dFA463091F9801c2b", Decimals: 18},
		{Symbol: "icETH", Address: "0x7C07F7aBe10CE8e33DC6C5aD68FE033085256A84", Decimals: 18},
		{Symbol: "ETH2X", Address: "0x65c4C0517025Ec0843C9146aF266A2C5a2D148A2", Decimals: 18},
		{Symbol: "BTC2X", Address: "0xD2AC55cA3Bbd2Dd1e9936eC640dCb4b745fDe759", Decimals: 18},
		{Symbol: "hyETH", Address: "0xc4506022Fb8090774E8A628d5084EED61D9B99Ee", Decimals: 18},
		{Symbol: "DPI", Address: "0x1494CA1F11D487c2bBe4543E90080AeBa4BA3C2b", Decimals: 18},
		{Symbol: "MVI", Address: "0x72e364F2ABdC788b7E918bc238B21f109Cd634D7", Decimals: 18},
		{Symbol: "BED", Address: "0x2aF1dF3AB0ab157e1E2Ad8F88A7D04fbea0c7dc6", Decimals: 18},
		{Symbol: "cdETI", Address: "0x55b2CFcfe99110C773f00b023560DD9ef6C8A13B", Decimals: 18},
		{Symbol: "dsETH", Address: "0x341c05c0E9b33C0E38d64de76516b2Ce970bB3BE", Decimals: 18},
		{Symbol: "gtcETH", Address: "0x36c833Eed0D376f75D1ff9dFDeE260191336065e", Decimals: 18},
	},
	"eip155:10": {
		nativeToken,
		{Symbol: "WETH", Address: "0x4200000000000000000000000000000000000006", Decimals: 18},
		{Symbol: "USDC", Address: "0x7F5c764cBc14f9669B88837ca1490cCa17c31607", Decimals: 6},
		{Symbol: "DAI", Address: "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", Decimals: 18},
	},
	"eip155:137": {
		nativeToken,
		{Symbol: "WETH", Address: "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", Decimals: 18},
		{Symbol: "USDC", Address: "0x3c499c542cef5e3811e1192ce70d8cc03d5c3359", Decimals: 6},
		{Symbol: "DAI", Address: "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063", Decimals: 18},
	},
	"eip155:8453": {
		nativeToken,
		{Symbol: "WETH", Address: "0x4200000000000000000000000000000000000006", Decimals: 18},
		{Symbol: "USDC", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6},
		{Symbol: "ETH2X", Address: "0xC884646E6C88d9b172a23051b38B0732Cc3E35a6", Decimals: 18},
		{Symbol: "ETH3X", Address: "0x329f6656792c7d34D0fBB9762FA9A8F852272acb", Decimals: 18},
	},
	"eip155:42161": {
		nativeToken,
		{Symbol: "WETH", Address: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", Decimals: 18},
		{Symbol: "USDC", Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6},
		{Symbol: "USDT", Address: "0xFd086bC7CD5C481DCC9C85ebe478A1C0b69FCbb9", Decimals: 6},
		{Symbol: "ETH2X", Address: "0x26d7D3728C6bb762a5043a1d0CeF660988Bca43C", Decimals: 18},
		{Symbol: "ETH3X", Address: "0xA0A17b2a015c14BE846C5d309D076379cCDfa543", Decimals: 18},
		{Symbol: "BTC2X", Address: "0xeb5bE62e6770137beaA0cC712741165C594F59D7", Decimals: 18},
		{Symbol: "BTC3X", Address: "0x3bDd0d5c0C795b2Bf076F5C8F177c58e42beC0E6", Decimals: 18},
		{Symbol: "iETH1X", Address: "0x749654601a286833aD30357246400D2933b1C89b", Decimals: 18},
		{Symbol: "iBTC1X", Address: "0x80e58AEA88BCCaAE19bCa7f0e420C1387Cc087fC", Decimals: 18},
	},
}

func ParseChain(input string) (Chain, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Chain{}, clierr.New(clierr.CodeUsage, "chain is required")
	}
	norm := strings.ToLower(raw)

	if chain, ok := chainBySlug[norm]; ok {
		return chain, nil
	}

	if eip155ChainPattern.MatchString(norm) {
		parts := strings.Split(norm, ":")
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		return ChainByID(id), nil
	}

	if id, err := strconv.ParseInt(norm, 10, 64); err == nil {
		return ChainByID(id), nil
	}

	return Chain{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("unsupported chain input: %s", input))
}

// ChainByID returns the known chain for id or a generic EVM chain descriptor.
func ChainByID(id int64) Chain {
	if chain, ok := chainByID[id]; ok {
		return chain
	}
	return Chain{Name: fmt.Sprintf("EVM-%d", id), Slug: fmt.Sprintf("evm-%d", id), CAIP2: fmt.Sprintf("eip155:%d", id), EVMChainID: id}
}

func ParseAsset(input string, chain Chain) (Asset, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Asset{}, clierr.New(clierr.CodeUsage, "asset is required")
	}

	if strings.Contains(raw, "/") {
		if !eip155AssetPattern.MatchString(raw) {
			return Asset{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("invalid CAIP-19 asset format: %s", input))
		}
		parts := strings.SplitN(raw, "/", 2)
		if parts[0] != chain.CAIP2 {
			return Asset{}, clierr.New(clierr.CodeUsage, "asset chain does not match --chain")
		}
		address := strings.TrimPrefix(strings.ToLower(parts[1]), "erc20:")
		return assetFromAddress(chain, address), nil
	}

	if evmAddressPattern.MatchString(raw) {
		return assetFromAddress(chain, raw), nil
	}

	matches := findTokensBySymbol(chain.CAIP2, raw)
	if len(matches) == 0 {
		return Asset{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("symbol %s not found in registry for chain %s", input, chain.CAIP2))
	}
	if len(matches) > 1 {
		addresses := make([]string, 0, len(matches))
		for _, m := range matches {
			addresses = append(addresses, m.Address)
		}
		sort.Strings(addresses)
		return Asset{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("symbol %s is ambiguous on chain %s, use address or CAIP-19 (%s)", input, chain.CAIP2, strings.Join(addresses, ", ")))
	}
	t := matches[0]
	return Asset{
		ChainID:  chain.CAIP2,
		AssetID:  canonicalAssetID(chain.CAIP2, t.Address),
		Address:  t.Address,
		Symbol:   t.Symbol,
		Decimals: t.Decimals,
	}, nil
}

func assetFromAddress(chain Chain, address string) Asset {
	addr := normalizeTokenAddress(address)
	token, _ := findTokenByAddress(chain.CAIP2, addr)
	return Asset{ChainID: chain.CAIP2, AssetID: canonicalAssetID(chain.CAIP2, addr), Address: addr, Symbol: token.Symbol, Decimals: token.Decimals}
}

func canonicalAssetID(chainID, address string) string {
	return fmt.Sprintf("%s/erc20:%s", chainID, normalizeTokenAddress(address))
}

func normalizeTokenAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func findTokenByAddress(chainID, address string) (Token, bool) {
	for _, t := range tokenRegistry[chainID] {
		if strings.EqualFold(strings.TrimSpace(t.Address), strings.TrimSpace(address)) {
			return Token{Symbol: t.Symbol, Address: normalizeTokenAddress(t.Address), Decimals: t.Decimals}, true
		}
	}
	return Token{}, false
}

func findTokensBySymbol(chainID, symbol string) []Token {
	matches := []Token{}
	for _, t := range tokenRegistry[chainID] {
		if strings.EqualFold(t.Symbol, symbol) {
			matches = append(matches, Token{Symbol: t.Symbol, Address: normalizeTokenAddress(t.Address), Decimals: t.Decimals})
		}
	}
	return matches
}

func KnownToken(chainID, symbol string) (Token, bool) {
	matches := findTokensBySymbol(chainID, symbol)
	if len(matches) != 1 {
		return Token{}, false
	}
	return matches[0], true
}

func LookupByAddress(chainID, address string) (Token, bool) {
	return findTokenByAddress(chainID, address)
}

// WrappedNative returns the wrapped native token for a chain.
func WrappedNative(chainID int64) (Token, bool) {
	return KnownToken(fmt.Sprintf("eip155:%d", chainID), "WETH")
}
