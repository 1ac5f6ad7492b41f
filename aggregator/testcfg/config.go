package testcfg

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds test-specific configuration for aggregator acceptance tests
type Config struct {
	APIKey          string        `env:"GRAPH_API_KEY,required,notEmpty"`
	GatewayURL      string        `env:"GRAPH_TEST_GATEWAY_URL" envDefault:"https://gateway.thegraph.com/api"`
	NetworkSubgraph string        `env:"GRAPH_TEST_SUBGRAPH_ID" envDefault:"DZz4kDTdmzWLWsV373w2bSmoar3umKKH9y82SUKr5qmp"`
	PageSize        int           `env:"GRAPH_TEST_PAGE_SIZE" envDefault:"100"`
	SampleSize      int           `env:"GRAPH_TEST_SAMPLE_SIZE" envDefault:"50"`
	HTTPTimeout     time.Duration `env:"GRAPH_TEST_HTTP_TIMEOUT" envDefault:"60s"`
	RunTimeout      time.Duration `env:"GRAPH_TEST_RUN_TIMEOUT" envDefault:"5m"`
}

// parseConfig wraps env.Parse to return (Config, error) for use with env.Must
func parseConfig() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}

// New loads test configuration from environment variables
func New() Config {
	return env.Must(parseConfig())
}
