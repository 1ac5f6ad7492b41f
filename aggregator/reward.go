package aggregator

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/screwyprof/graphmetrics/pkg/graphql"
	"github.com/screwyprof/graphmetrics/pkg/grt"
)

// RewardSnapshot is the cumulative reward state of one network in display units
type RewardSnapshot struct {
	Total                int64
	IndexerShare         int64
	DelegatorShare       int64
	DelegatorCount       int
	ActiveDelegatorCount int
}

// RewardShares is the split of Total between indexers and delegators in percent
type RewardShares struct {
	IndexerPercentage   float64
	DelegatorPercentage float64
}

// NetworkRewards is the reward view of one network.
// Snapshot.ActiveDelegatorCount is the counter kept by the subgraph;
// ActiveDelegators is the live count of delegators with stake.
type NetworkRewards struct {
	Network          string
	Snapshot         RewardSnapshot
	Shares           RewardShares
	ActiveDelegators int
}

// DeriveRewardShares computes the indexer and delegator percentages of Total, zero when Total is zero
func DeriveRewardShares(s RewardSnapshot) RewardShares {
	if s.Total == 0 {
		return RewardShares{}
	}
	total := float64(s.Total)
	return RewardShares{
		IndexerPercentage:   float64(s.IndexerShare) / total * 100,
		DelegatorPercentage: float64(s.DelegatorShare) / total * 100,
	}
}

// SnapshotFromRecord converts the wire record. A nil record yields the zero snapshot.
func SnapshotFromRecord(r *GraphNetworkRecord) RewardSnapshot {
	if r == nil {
		return RewardSnapshot{}
	}
	return RewardSnapshot{
		Total:                grt.ToDisplay(r.TotalIndexingRewards.Int),
		IndexerShare:         grt.ToDisplay(r.TotalIndexingIndexerRewards.Int),
		DelegatorShare:       grt.ToDisplay(r.TotalIndexingDelegatorRewards.Int),
		DelegatorCount:       r.DelegatorCount,
		ActiveDelegatorCount: r.ActiveDelegatorCount,
	}
}

// FetchRewardSnapshot reads the protocol singleton of one network
func FetchRewardSnapshot(ctx context.Context, q Querier) (RewardSnapshot, error) {
	var out struct {
		GraphNetwork *GraphNetworkRecord `json:"graphNetwork"`
	}
	err := q.Do(ctx, graphql.Request{
		Query:         graphNetworkQuery,
		OperationName: OpGraphNetwork,
	}, &out)
	if err != nil {
		return RewardSnapshot{}, fmt.Errorf("%w: %w", ErrSnapshotFailed, err)
	}
	return SnapshotFromRecord(out.GraphNetwork), nil
}

// AggregateRewards snapshots every network, ordered by network name.
// A failing network keeps whatever it produced and the others still run.
func AggregateRewards(ctx context.Context, queriers map[string]Querier, cfg Config) ([]NetworkRewards, error) {
	networks := slices.Sorted(maps.Keys(queriers))
	rewards := make([]NetworkRewards, 0, len(networks))

	var errs []error
	for _, network := range networks {
		q := queriers[network]

		snapshot, err := FetchRewardSnapshot(ctx, q)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", network, err))
		}

		active, err := CountActiveDelegators(ctx, q, cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", network, err))
		}

		rewards = append(rewards, NetworkRewards{
			Network:          network,
			Snapshot:         snapshot,
			Shares:           DeriveRewardShares(snapshot),
			ActiveDelegators: active,
		})
	}

	return rewards, errors.Join(errs...)
}
