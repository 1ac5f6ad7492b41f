package testcfg

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds test-specific configuration for graphql client acceptance tests
type Config struct {
	APIKey      string        `env:"GRAPH_API_KEY,required,notEmpty"`
	GatewayURL  string        `env:"GRAPH_TEST_GATEWAY_URL" envDefault:"https://gateway.thegraph.com/api"`
	SubgraphID  string        `env:"GRAPH_TEST_SUBGRAPH_ID" envDefault:"DZz4kDTdmzWLWsV373w2bSmoar3umKKH9y82SUKr5qmp"`
	Limit       int           `env:"GRAPH_TEST_LIMIT" envDefault:"5"`
	HTTPTimeout time.Duration `env:"GRAPH_TEST_HTTP_TIMEOUT" envDefault:"30s"`
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
