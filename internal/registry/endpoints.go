package registry

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const (
	LiFiBaseURL    = "https://li.quest/v1"
	UniswapBaseURL = "https://trade-api.gateway.uniswap.org/v1"
)

var zeroExHostByChainID = map[int64]string{
	ChainMainnet:  "https://api.0x.org",
	ChainOptimism: "https://optimism.api.0x.org",
	ChainPolygon:  "https://polygon.api.0x.org",
	ChainBase:     "https://base.api.0x.org",
	ChainArbitrum: "https://arbitrum.api.0x.org",
}

// ZeroExBaseURL returns the 0x API host serving chainID.
func ZeroExBaseURL(chainID int64) (string, bool) {
	value, ok := zeroExHostByChainID[chainID]
	return value, ok
}

// ValidateProviderBaseURL checks a configured base URL override. Remote hosts
// must use https; loopback hosts may use http for local proxies and tests.
func ValidateProviderBaseURL(endpoint string) error {
	raw := strings.TrimSpace(endpoint)
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if strings.TrimSpace(parsed.Hostname()) == "" {
		return fmt.Errorf("base url %q has no host", raw)
	}
	scheme := strings.ToLower(strings.TrimSpace(parsed.Scheme))
	if isLoopbackHost(parsed.Hostname()) {
		if scheme == "http" || scheme == "https" {
			return nil
		}
		return fmt.Errorf("base url %q must use http or https", raw)
	}
	if scheme != "https" {
		return fmt.Errorf("base url %q must use https", raw)
	}
	return nil
}

// NormalizeBaseURL trims whitespace and trailing slashes so paths can be
// appended directly.
func NormalizeBaseURL(endpoint string) string {
	return strings.TrimRight(strings.TrimSpace(endpoint), "/")
}

func isLoopbackHost(host string) bool {
	h := strings.TrimSpace(strings.ToLower(host))
	if h == "localhost" {
		return true
	}
	ip := net.ParseIP(h)
	return ip != nil && ip.IsLoopback()
}
