package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/screwyprof/graphmetrics/aggregator"
	"github.com/screwyprof/graphmetrics/pkg/graphql"
)

// Sentinel errors for configuration
var (
	ErrMissingAPIKey = errors.New("GRAPH_API_KEY is not set")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds all configuration loaded from the environment.
// The default subgraph is the Graph Network subgraph on Arbitrum One.
type Config struct {
	APIKey                   string               `env:"GRAPH_API_KEY"`
	GatewayURL               string               `env:"GRAPH_GATEWAY_URL" envDefault:"https://gateway.thegraph.com/api"`
	NetworkSubgraphID        string               `env:"GRAPH_NETWORK_SUBGRAPH_ID" envDefault:"DZz4kDTdmzWLWsV373w2bSmoar3umKKH9y82SUKr5qmp"`
	RewardSubgraphs          map[string]string    `env:"GRAPH_REWARD_SUBGRAPHS" envKeyValSeparator:":" envDefault:"arbitrum-one:DZz4kDTdmzWLWsV373w2bSmoar3umKKH9y82SUKr5qmp"`
	HTTPTimeout              time.Duration        `env:"GRAPH_HTTP_TIMEOUT" envDefault:"30s"`
	PageSize                 int                  `env:"GRAPH_PAGE_SIZE" envDefault:"1000"`
	AllocationsPerDeployment int                  `env:"GRAPH_ALLOCATIONS_PER_DEPLOYMENT" envDefault:"1000"`
	DelegationSampleSize     int                  `env:"GRAPH_DELEGATION_SAMPLE_SIZE" envDefault:"1000"`
	TopNetworks              int                  `env:"GRAPH_TOP_NETWORKS" envDefault:"20"`
	Quarters                 []aggregator.Quarter `env:"GRAPH_QUARTERS" envDefault:"2026-Q3,2026-Q2,2026-Q1,2025-Q4"`
	FallbackFile             string               `env:"GRAPH_FALLBACK_FILE"`
	OutputPath               string               `env:"OUTPUT_PATH" envDefault:"protocol_metrics.json"`
	MetricsTextfile          string               `env:"METRICS_TEXTFILE"`
	LogLevel                 string               `env:"LOG_LEVEL" envDefault:"info"`
	LogHumanFriendly         bool                 `env:"LOG_HUMAN_FRIENDLY" envDefault:"false"`
}

// Load reads .env from the working directory when present, then the environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: .env: %w", ErrInvalidConfig, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks the preconditions a run cannot start without
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if _, err := aggregator.ParsePageSize(c.PageSize); err != nil {
		return fmt.Errorf("%w: GRAPH_PAGE_SIZE: %w", ErrInvalidConfig, err)
	}
	return nil
}

// NetworkEndpoint is the gateway URL of the network subgraph
func (c Config) NetworkEndpoint() string {
	return graphql.SubgraphURL(c.GatewayURL, c.APIKey, c.NetworkSubgraphID)
}

// RewardEndpoints maps each reward network to its gateway URL
func (c Config) RewardEndpoints() map[string]string {
	out := make(map[string]string, len(c.RewardSubgraphs))
	for network, id := range c.RewardSubgraphs {
		out[network] = graphql.SubgraphURL(c.GatewayURL, c.APIKey, id)
	}
	return out
}

// ToAggregatorConfig builds the run configuration, loading the fallback table
func (c Config) ToAggregatorConfig() (aggregator.Config, error) {
	pageSize, err := aggregator.ParsePageSize(c.PageSize)
	if err != nil {
		return aggregator.Config{}, fmt.Errorf("%w: GRAPH_PAGE_SIZE: %w", ErrInvalidConfig, err)
	}

	fallback, err := aggregator.LoadFallback(c.FallbackFile)
	if err != nil {
		return aggregator.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := aggregator.DefaultConfig()
	cfg.PageSize = pageSize
	cfg.AllocationsPerDeployment = c.AllocationsPerDeployment
	cfg.DelegationSampleSize = c.DelegationSampleSize
	cfg.TopNetworks = c.TopNetworks
	cfg.Quarters = c.Quarters
	cfg.Fallback = fallback
	return cfg, nil
}
