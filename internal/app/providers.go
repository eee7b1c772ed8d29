package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ggonzalez94/flashmint-cli/internal/config"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/httpx"
	"github.com/ggonzalez94/flashmint-cli/internal/model"
	"github.com/ggonzalez94/flashmint-cli/internal/providers"
	"github.com/ggonzalez94/flashmint-cli/internal/providers/lifi"
	"github.com/ggonzalez94/flashmint-cli/internal/providers/uniswap"
	"github.com/ggonzalez94/flashmint-cli/internal/providers/univ3"
	"github.com/ggonzalez94/flashmint-cli/internal/providers/zeroex"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
)

var swapProviderNames = []string{"zeroex", "uniswap", "univ3", "lifi"}

// newSwapProvider builds the named aggregator. The on-chain quoter shares the
// quote's RPC connection through caller.
func newSwapProvider(name string, settings config.Settings, httpClient *httpx.Client, caller univ3.ContractCaller) (providers.SwapRouteProvider, error) {
	switch normalizeProviderName(name) {
	case "zeroex":
		if err := registry.ValidateProviderBaseURL(settings.ZeroExBaseURL); err != nil {
			return nil, clierr.Wrap(clierr.CodeUsage, "invalid 0x base url", err)
		}
		return zeroex.New(httpClient, zeroex.Config{
			APIKey:    settings.ZeroExAPIKey,
			BaseURL:   settings.ZeroExBaseURL,
			Affiliate: settings.ZeroExAffiliate,
		}), nil
	case "uniswap":
		return uniswap.New(httpClient, settings.UniswapAPIKey), nil
	case "univ3":
		return univ3.New(caller), nil
	case "lifi":
		return lifi.New(httpClient, settings.LiFiAPIKey), nil
	}
	return nil, clierr.New(clierr.CodeUsage, fmt.Sprintf("unsupported swap provider %q (use %s)", name, strings.Join(swapProviderNames, "|")))
}

func normalizeProviderName(name string) string {
	switch norm := strings.ToLower(strings.TrimSpace(name)); norm {
	case "0x", "zero-ex":
		return "zeroex"
	case "uniswap-v3", "uniswapv3", "quoter":
		return "univ3"
	case "li.fi":
		return "lifi"
	default:
		return norm
	}
}

func providerInfos() []model.ProviderInfo {
	infos := []model.ProviderInfo{
		zeroex.New(nil, zeroex.Config{}).Info(),
		uniswap.New(nil, "").Info(),
		univ3.New(nil).Info(),
		lifi.New(nil, "").Info(),
	}
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
