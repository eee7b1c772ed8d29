package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadPrecedenceFlagsOverEnvOverFile(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(configPath, []byte("output: plain\nretries: 1\nlog_level: info\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("FLASHMINT_OUTPUT", "json")
	t.Setenv("FLASHMINT_LOG_LEVEL", "error")
	flags := GlobalFlags{ConfigPath: configPath, Plain: true, Retries: 5, RateLimit: -1, LogLevel: "debug"}
	settings, err := Load(flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.OutputMode != "plain" {
		t.Fatalf("expected flag to win, got output=%s", settings.OutputMode)
	}
	if settings.Retries != 5 {
		t.Fatalf("expected retries from flags, got %d", settings.Retries)
	}
	if settings.LogLevel != "debug" {
		t.Fatalf("expected log level from flags, got %s", settings.LogLevel)
	}
}

func TestLoadProviderKeysFromFileAndEnv(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config.yaml")
	body := `
providers:
  default: univ3
  zeroex:
    api_key_env: MY_ZEROEX_KEY
    base_url: https://api.index.example
    affiliate: "0xaffiliate"
  uniswap:
    api_key: file-uniswap
cache:
  chain_id_ttl: 1h
`
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MY_ZEROEX_KEY", "zx-from-env")
	t.Setenv("FLASHMINT_UNISWAP_API_KEY", "env-uniswap")

	settings, err := Load(GlobalFlags{ConfigPath: configPath, Retries: -1, RateLimit: -1})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.ZeroExAPIKey != "zx-from-env" {
		t.Fatalf("expected api_key_env indirection, got %q", settings.ZeroExAPIKey)
	}
	if settings.ZeroExBaseURL != "https://api.index.example" || settings.ZeroExAffiliate != "0xaffiliate" {
		t.Fatalf("unexpected zeroex settings: %+v", settings)
	}
	if settings.UniswapAPIKey != "env-uniswap" {
		t.Fatalf("expected env to override file key, got %q", settings.UniswapAPIKey)
	}
	if settings.SwapProvider != "univ3" {
		t.Fatalf("expected default provider from file, got %q", settings.SwapProvider)
	}
	if settings.ChainIDCacheTTL != time.Hour {
		t.Fatalf("expected chain id ttl 1h, got %s", settings.ChainIDCacheTTL)
	}
	if settings.Retries != 0 {
		t.Fatalf("expected no retries by default, got %d", settings.Retries)
	}
	if settings.RateLimit != 5 {
		t.Fatalf("expected default rate limit, got %v", settings.RateLimit)
	}
}

func TestLoadMutuallyExclusiveOutputFlags(t *testing.T) {
	_, err := Load(GlobalFlags{JSON: true, Plain: true})
	if err == nil {
		t.Fatal("expected error with --json and --plain")
	}
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	_, err := Load(GlobalFlags{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"), LogLevel: "chatty", Retries: -1, RateLimit: -1})
	if err == nil {
		t.Fatal("expected error for unknown log level")
	}
}
