package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Alchemy    AlchemyConfig    `yaml:"alchemy"`
	CoinGecko  CoinGeckoConfig  `yaml:"coinGecko"`
	Blockscout BlockscoutConfig `yaml:"blockscout"`
	TokenList  TokenListConfig  `yaml:"tokenList"`
	Rpc        RpcConfig        `yaml:"rpc"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// AlchemyConfig holds the configuration for the Alchemy indexing API.
type AlchemyConfig struct {
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	TopTokenLimit        int    `yaml:"topTokenLimit"`
	MetadataConcurrency  int    `yaml:"metadataConcurrency"`
	MetadataRatePerSec   int    `yaml:"metadataRatePerSec"`
}

// CoinGeckoConfig holds the configuration for the CoinGecko quote client.
type CoinGeckoConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	CacheTTLSeconds      int    `yaml:"cacheTTLSeconds"`
}

// BlockscoutConfig holds the configuration for the block-explorer client.
type BlockscoutConfig struct {
	RequestTimeoutMillis int64 `yaml:"requestTimeoutMillis"`
	CacheTTLSeconds      int   `yaml:"cacheTTLSeconds"`
}

// TokenListConfig holds the configuration for the public token list.
type TokenListConfig struct {
	URL                  string `yaml:"url"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	CacheTTLSeconds      int    `yaml:"cacheTTLSeconds"`
	FailureTTLSeconds    int    `yaml:"failureTTLSeconds"`
}

// RpcConfig holds configuration for JSON-RPC clients.
type RpcConfig struct {
	ConnectTimeoutMillis int64 `yaml:"connectTimeoutMillis"`
	CallTimeoutMillis    int64 `yaml:"callTimeoutMillis"`
	MaxCallsPerBatch     int   `yaml:"maxCallsPerBatch"`
}

// PipelineConfig holds configuration for the aggregation pipeline.
type PipelineConfig struct {
	MaxConcurrentWallets int    `yaml:"maxConcurrentWallets"`
	DustThresholdUSD     string `yaml:"dustThresholdUSD"`
	// ScamSymbols extends the built-in block-list of symbols that must
	// never resolve to a price identifier.
	ScamSymbols []string `yaml:"scamSymbols"`
}

// LoadConfig loads configuration from a YAML file and applies defaults for
// unset fields.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	cfg.ApplyDefaults()

	if cfg.Alchemy.APIKey == "" {
		logrus.Warn("Alchemy API key is not set; the indexing-API source will be disabled and token discovery will rely on the block explorer and the direct-contract fallback.")
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// ApplyDefaults fills every unset field with its default value.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Alchemy.RequestTimeoutMillis == 0 {
		cfg.Alchemy.RequestTimeoutMillis = 5000 // bound on the indexing-API attempt before falling back
	}
	if cfg.Alchemy.TopTokenLimit == 0 {
		cfg.Alchemy.TopTokenLimit = 500
	}
	if cfg.Alchemy.MetadataConcurrency == 0 {
		cfg.Alchemy.MetadataConcurrency = 5
	}
	if cfg.Alchemy.MetadataRatePerSec == 0 {
		cfg.Alchemy.MetadataRatePerSec = 10
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.CoinGecko.RequestTimeoutMillis == 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}
	if cfg.CoinGecko.CacheTTLSeconds == 0 {
		cfg.CoinGecko.CacheTTLSeconds = 60
	}

	if cfg.Blockscout.RequestTimeoutMillis == 0 {
		cfg.Blockscout.RequestTimeoutMillis = 10000
	}
	if cfg.Blockscout.CacheTTLSeconds == 0 {
		cfg.Blockscout.CacheTTLSeconds = 60
	}

	if cfg.TokenList.URL == "" {
		cfg.TokenList.URL = "https://ethereum-optimism.github.io/optimism.tokenlist.json"
	}
	if cfg.TokenList.RequestTimeoutMillis == 0 {
		cfg.TokenList.RequestTimeoutMillis = 15000
	}
	if cfg.TokenList.CacheTTLSeconds == 0 {
		cfg.TokenList.CacheTTLSeconds = 3600
	}
	if cfg.TokenList.FailureTTLSeconds == 0 {
		cfg.TokenList.FailureTTLSeconds = 300
	}

	if cfg.Rpc.ConnectTimeoutMillis == 0 {
		cfg.Rpc.ConnectTimeoutMillis = 10000
	}
	if cfg.Rpc.CallTimeoutMillis == 0 {
		cfg.Rpc.CallTimeoutMillis = 10000
	}
	if cfg.Rpc.MaxCallsPerBatch <= 0 {
		cfg.Rpc.MaxCallsPerBatch = 20
	}

	if cfg.Pipeline.MaxConcurrentWallets <= 0 {
		cfg.Pipeline.MaxConcurrentWallets = 4
	}
	if cfg.Pipeline.DustThresholdUSD == "" {
		cfg.Pipeline.DustThresholdUSD = "0.01"
	}
}
