package model

import (
	"time"

	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

const EnvelopeVersion = "v1"

type Envelope struct {
	Version  string       `json:"version"`
	Success  bool         `json:"success"`
	Data     any          `json:"data,omitempty"`
	Error    *ErrorBody   `json:"error"`
	Warnings []string     `json:"warnings,omitempty"`
	Meta     EnvelopeMeta `json:"meta"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type EnvelopeMeta struct {
	RequestID string           `json:"request_id"`
	Timestamp time.Time        `json:"timestamp"`
	Command   string           `json:"command"`
	Providers []ProviderStatus `json:"providers,omitempty"`
	Cache     CacheStatus      `json:"cache"`
}

type ProviderStatus struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

type CacheStatus struct {
	Status string `json:"status"`
}

type ProviderInfo struct {
	Name           string                   `json:"name"`
	Type           string                   `json:"type"`
	RequiresKey    bool                     `json:"requires_key"`
	Capabilities   []string                 `json:"capabilities"`
	KeyEnvVarName  string                   `json:"key_env_var,omitempty"`
	CapabilityAuth []ProviderCapabilityAuth `json:"capability_auth,omitempty"`
}

type ProviderCapabilityAuth struct {
	Capability  string `json:"capability"`
	KeyEnvVar   string `json:"key_env_var"`
	Description string `json:"description,omitempty"`
}

type AmountInfo struct {
	AmountBaseUnits string `json:"amount_base_units"`
	AmountDecimal   string `json:"amount_decimal"`
	Decimals        int    `json:"decimals"`
}

type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	AssetID  string `json:"asset_id"`
	Decimals int    `json:"decimals"`
}

type Transaction struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

type NamedRoute struct {
	Leg   string         `json:"leg"`
	Route swapdata.Route `json:"route"`
}

// FlashMintQuote is the quote command's result: a priced flash mint or redeem
// and the transaction that executes it.
type FlashMintQuote struct {
	ChainID          string       `json:"chain_id"`
	Family           string       `json:"family"`
	Contract         string       `json:"contract"`
	IsMinting        bool         `json:"is_minting"`
	ExactInput       bool         `json:"exact_input,omitempty"`
	InputToken       TokenInfo    `json:"input_token"`
	OutputToken      TokenInfo    `json:"output_token"`
	IndexTokenAmount AmountInfo   `json:"index_token_amount"`
	InputAmount      AmountInfo   `json:"input_amount"`
	OutputAmount     AmountInfo   `json:"output_amount"`
	Slippage         float64      `json:"slippage"`
	SwapProvider     string       `json:"swap_provider"`
	Routes           []NamedRoute `json:"routes"`
	ComponentSwaps   int          `json:"component_swaps,omitempty"`
	Transaction      Transaction  `json:"transaction"`
	FetchedAt        string       `json:"fetched_at"`
}

type IndexTokenInfo struct {
	ChainID        string `json:"chain_id"`
	Symbol         string `json:"symbol"`
	Address        string `json:"address,omitempty"`
	Family         string `json:"family"`
	Contract       string `json:"contract"`
	IssuanceModule string `json:"issuance_module"`
	DebtIssuance   bool   `json:"debt_issuance"`
}
