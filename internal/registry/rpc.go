package registry

import (
	"fmt"
	"strings"
)

// Default EVM RPC endpoints by chain ID, used whenever --rpc-url is not set.
var defaultRPCByChainID = map[int64]string{
	ChainMainnet:  "https://eth.llamarpc.com",
	ChainOptimism: "https://mainnet.optimism.io",
	ChainPolygon:  "https://polygon-rpc.com",
	ChainBase:     "https://mainnet.base.org",
	ChainArbitrum: "https://arb1.arbitrum.io/rpc",
}

func DefaultRPCURL(chainID int64) (string, bool) {
	value, ok := defaultRPCByChainID[chainID]
	return value, ok
}

func ResolveRPCURL(override string, chainID int64) (string, error) {
	if strings.TrimSpace(override) != "" {
		return strings.TrimSpace(override), nil
	}
	if value, ok := DefaultRPCURL(chainID); ok {
		return value, nil
	}
	return "", fmt.Errorf("no default rpc configured for chain id %d; provide --rpc-url", chainID)
}
