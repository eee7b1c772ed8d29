package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type GlobalFlags struct {
	ConfigPath     string
	JSON           bool
	Plain          bool
	Select         string
	ResultsOnly    bool
	EnableCommands string
	Timeout        string
	Retries        int
	RateLimit      float64
	LogLevel       string
	RPCURL         string
	NoCache        bool
}

type Settings struct {
	OutputMode      string
	SelectFields    []string
	ResultsOnly     bool
	EnableCommands  []string
	Timeout         time.Duration
	Retries         int
	RateLimit       float64
	RateBurst       int
	LogLevel        string
	RPCURL          string
	SwapProvider    string
	CacheEnabled    bool
	CachePath       string
	CacheLockPath   string
	ChainIDCacheTTL time.Duration
	ZeroExAPIKey    string
	ZeroExBaseURL   string
	ZeroExAffiliate string
	UniswapAPIKey   string
	LiFiAPIKey      string
}

type fileConfig struct {
	Output    string   `yaml:"output"`
	Timeout   string   `yaml:"timeout"`
	Retries   *int     `yaml:"retries"`
	RateLimit *float64 `yaml:"rate_limit"`
	RateBurst *int     `yaml:"rate_burst"`
	LogLevel  string   `yaml:"log_level"`
	RPCURL    string   `yaml:"rpc_url"`
	Cache     struct {
		Enabled    *bool  `yaml:"enabled"`
		Path       string `yaml:"path"`
		LockPath   string `yaml:"lock_path"`
		ChainIDTTL string `yaml:"chain_id_ttl"`
	} `yaml:"cache"`
	Providers struct {
		Default string `yaml:"default"`
		ZeroEx  struct {
			APIKey       string `yaml:"api_key"`
			APIKeyEnv    string `yaml:"api_key_env"`
			BaseURL      string `yaml:"base_url"`
			Affiliate    string `yaml:"affiliate"`
			AffiliateEnv string `yaml:"affiliate_env"`
		} `yaml:"zeroex"`
		Uniswap struct {
			APIKey    string `yaml:"api_key"`
			APIKeyEnv string `yaml:"api_key_env"`
		} `yaml:"uniswap"`
		LiFi struct {
			APIKey    string `yaml:"api_key"`
			APIKeyEnv string `yaml:"api_key_env"`
		} `yaml:"lifi"`
	} `yaml:"providers"`
}

func Load(flags GlobalFlags) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}

	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}

	applyEnv(&settings)

	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}

	if settings.OutputMode == "" {
		settings.OutputMode = "json"
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 15 * time.Second
	}
	if settings.Retries < 0 {
		settings.Retries = 0
	}
	if settings.RateBurst < 1 {
		settings.RateBurst = 1
	}
	if settings.ChainIDCacheTTL <= 0 {
		settings.ChainIDCacheTTL = 24 * time.Hour
	}
	if settings.LogLevel == "" {
		settings.LogLevel = "warn"
	}
	if settings.SwapProvider == "" {
		settings.SwapProvider = "zeroex"
	}

	return settings, nil
}

func defaultSettings() (Settings, error) {
	cachePath, lockPath, err := defaultCachePaths()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		OutputMode:      "json",
		Timeout:         15 * time.Second,
		Retries:         0,
		RateLimit:       5,
		RateBurst:       4,
		LogLevel:        "warn",
		SwapProvider:    "zeroex",
		CacheEnabled:    true,
		CachePath:       cachePath,
		CacheLockPath:   lockPath,
		ChainIDCacheTTL: 24 * time.Hour,
	}, nil
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "flashmint", "config.yaml"), nil
}

func defaultCachePaths() (string, string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "flashmint")
	return filepath.Join(dir, "cache.db"), filepath.Join(dir, "cache.lock"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.Output != "" {
		settings.OutputMode = strings.ToLower(cfg.Output)
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		settings.Timeout = d
	}
	if cfg.Retries != nil {
		settings.Retries = *cfg.Retries
	}
	if cfg.RateLimit != nil {
		settings.RateLimit = *cfg.RateLimit
	}
	if cfg.RateBurst != nil {
		settings.RateBurst = *cfg.RateBurst
	}
	if cfg.LogLevel != "" {
		settings.LogLevel = strings.ToLower(cfg.LogLevel)
	}
	if cfg.RPCURL != "" {
		settings.RPCURL = cfg.RPCURL
	}
	if cfg.Cache.Enabled != nil {
		settings.CacheEnabled = *cfg.Cache.Enabled
	}
	if cfg.Cache.Path != "" {
		settings.CachePath = cfg.Cache.Path
	}
	if cfg.Cache.LockPath != "" {
		settings.CacheLockPath = cfg.Cache.LockPath
	}
	if cfg.Cache.ChainIDTTL != "" {
		d, err := time.ParseDuration(cfg.Cache.ChainIDTTL)
		if err != nil {
			return fmt.Errorf("config cache.chain_id_ttl: %w", err)
		}
		settings.ChainIDCacheTTL = d
	}
	if cfg.Providers.Default != "" {
		settings.SwapProvider = strings.ToLower(cfg.Providers.Default)
	}
	if cfg.Providers.ZeroEx.APIKey != "" {
		settings.ZeroExAPIKey = cfg.Providers.ZeroEx.APIKey
	}
	if cfg.Providers.ZeroEx.APIKeyEnv != "" {
		settings.ZeroExAPIKey = os.Getenv(cfg.Providers.ZeroEx.APIKeyEnv)
	}
	if cfg.Providers.ZeroEx.BaseURL != "" {
		settings.ZeroExBaseURL = cfg.Providers.ZeroEx.BaseURL
	}
	if cfg.Providers.ZeroEx.Affiliate != "" {
		settings.ZeroExAffiliate = cfg.Providers.ZeroEx.Affiliate
	}
	if cfg.Providers.ZeroEx.AffiliateEnv != "" {
		settings.ZeroExAffiliate = os.Getenv(cfg.Providers.ZeroEx.AffiliateEnv)
	}
	if cfg.Providers.Uniswap.APIKey != "" {
		settings.UniswapAPIKey = cfg.Providers.Uniswap.APIKey
	}
	if cfg.Providers.Uniswap.APIKeyEnv != "" {
		settings.UniswapAPIKey = os.Getenv(cfg.Providers.Uniswap.APIKeyEnv)
	}
	if cfg.Providers.LiFi.APIKey != "" {
		settings.LiFiAPIKey = cfg.Providers.LiFi.APIKey
	}
	if cfg.Providers.LiFi.APIKeyEnv != "" {
		settings.LiFiAPIKey = os.Getenv(cfg.Providers.LiFi.APIKeyEnv)
	}

	return nil
}

func applyEnv(settings *Settings) {
	if v := os.Getenv("FLASHMINT_OUTPUT"); v != "" {
		settings.OutputMode = strings.ToLower(v)
	}
	if v := os.Getenv("FLASHMINT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			settings.Timeout = d
		}
	}
	if v := os.Getenv("FLASHMINT_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.Retries = n
		}
	}
	if v := os.Getenv("FLASHMINT_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			settings.RateLimit = f
		}
	}
	if v := os.Getenv("FLASHMINT_LOG_LEVEL"); v != "" {
		settings.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("FLASHMINT_RPC_URL"); v != "" {
		settings.RPCURL = v
	}
	if v := os.Getenv("FLASHMINT_SWAP_PROVIDER"); v != "" {
		settings.SwapProvider = strings.ToLower(v)
	}
	if v := os.Getenv("FLASHMINT_NO_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			settings.CacheEnabled = !b
		}
	}
	if v := os.Getenv("FLASHMINT_CACHE_PATH"); v != "" {
		settings.CachePath = v
	}
	if v := os.Getenv("FLASHMINT_CACHE_LOCK_PATH"); v != "" {
		settings.CacheLockPath = v
	}
	if v := os.Getenv("FLASHMINT_ZEROEX_API_KEY"); v != "" {
		settings.ZeroExAPIKey = v
	}
	if v := os.Getenv("FLASHMINT_ZEROEX_BASE_URL"); v != "" {
		settings.ZeroExBaseURL = v
	}
	if v := os.Getenv("FLASHMINT_ZEROEX_AFFILIATE"); v != "" {
		settings.ZeroExAffiliate = v
	}
	if v := os.Getenv("FLASHMINT_UNISWAP_API_KEY"); v != "" {
		settings.UniswapAPIKey = v
	}
	if v := os.Getenv("FLASHMINT_LIFI_API_KEY"); v != "" {
		settings.LiFiAPIKey = v
	}
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if flags.JSON && flags.Plain {
		return fmt.Errorf("cannot use --json and --plain together")
	}
	if flags.JSON {
		settings.OutputMode = "json"
	}
	if flags.Plain {
		settings.OutputMode = "plain"
	}
	if fields := splitList(flags.Select); len(fields) > 0 {
		settings.SelectFields = fields
	}
	settings.ResultsOnly = flags.ResultsOnly

	if allowed := splitList(flags.EnableCommands); len(allowed) > 0 {
		settings.EnableCommands = allowed
	}

	if flags.Timeout != "" {
		d, err := time.ParseDuration(flags.Timeout)
		if err != nil {
			return fmt.Errorf("parse --timeout: %w", err)
		}
		settings.Timeout = d
	}
	if flags.Retries >= 0 {
		settings.Retries = flags.Retries
	}
	if flags.RateLimit >= 0 {
		settings.RateLimit = flags.RateLimit
	}
	if flags.LogLevel != "" {
		settings.LogLevel = strings.ToLower(flags.LogLevel)
	}
	if strings.TrimSpace(flags.RPCURL) != "" {
		settings.RPCURL = strings.TrimSpace(flags.RPCURL)
	}
	if flags.NoCache {
		settings.CacheEnabled = false
	}

	if settings.OutputMode != "json" && settings.OutputMode != "plain" {
		return fmt.Errorf("output must be json or plain")
	}
	switch settings.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error")
	}

	return nil
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if f := strings.TrimSpace(part); f != "" {
			out = append(out, f)
		}
	}
	return out
}
