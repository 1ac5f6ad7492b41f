// Package aggregator turns paginated subgraph data into protocol-level metrics.
package aggregator

import (
	"context"
	"errors"
	"time"

	"github.com/screwyprof/graphmetrics/pkg/graphql"
)

// Sentinel errors for failure cases
var (
	ErrPageFetchFailed  = errors.New("page fetch failed")
	ErrNetworksFailed   = errors.New("network aggregation failed")
	ErrNoNetworks       = errors.New("no network data retrieved")
	ErrDelegationFailed = errors.New("delegation aggregation failed")
	ErrSnapshotFailed   = errors.New("reward snapshot failed")
	ErrParticipants     = errors.New("active participant count failed")
	ErrDailyDataFailed  = errors.New("daily data fetch failed")
)

// Default configuration values
const (
	DefaultAllocationsPerDeployment = 1000
	DefaultDelegationSampleSize     = 1000
	DefaultTopNetworks              = 20
)

// DefaultGenesis is the protocol launch day that daily data numbering starts from
var DefaultGenesis = time.Unix(1608163200, 0).UTC()

// Querier executes a GraphQL request against one subgraph
// --------------------------------------------------------
type Querier interface {
	Do(ctx context.Context, req graphql.Request, out any) error
}

// Clock abstracts time for production and testing
// ------------------------------------------------
type Clock interface {
	Now() time.Time
}

// Config is the immutable run configuration handed to every aggregator
// --------------------------------------------------------------------
type Config struct {
	PageSize                 PageSize
	AllocationsPerDeployment int
	DelegationSampleSize     int
	TopNetworks              int
	Quarters                 []Quarter
	Genesis                  time.Time
	Fallback                 FallbackTable
}

// DefaultConfig returns the configuration used when nothing is overridden.
// Quarters are left empty; the quarterly stage then has nothing to do.
func DefaultConfig() Config {
	return Config{
		PageSize:                 DefaultPageSize,
		AllocationsPerDeployment: DefaultAllocationsPerDeployment,
		DelegationSampleSize:     DefaultDelegationSampleSize,
		TopNetworks:              DefaultTopNetworks,
		Genesis:                  DefaultGenesis,
	}
}

func (c Config) pageSize() PageSize {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

func (c Config) allocations() int {
	if c.AllocationsPerDeployment <= 0 {
		return DefaultAllocationsPerDeployment
	}
	return c.AllocationsPerDeployment
}

func (c Config) sampleSize() int {
	if c.DelegationSampleSize <= 0 {
		return DefaultDelegationSampleSize
	}
	return c.DelegationSampleSize
}

func (c Config) topNetworks() int {
	if c.TopNetworks <= 0 {
		return DefaultTopNetworks
	}
	return c.TopNetworks
}

func (c Config) genesis() time.Time {
	if c.Genesis.IsZero() {
		return DefaultGenesis
	}
	return c.Genesis
}
