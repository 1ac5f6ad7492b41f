package aggregator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/screwyprof/graphmetrics/pkg/graphql"
	"github.com/screwyprof/graphmetrics/pkg/grt"
)

// RollupSource tells where a quarter's values came from
type RollupSource string

const (
	SourceLive        RollupSource = "live"
	SourceFallback    RollupSource = "fallback"
	SourceUnavailable RollupSource = "unavailable"
)

// QuarterlyRollup is the reward accrued within one quarter in display units.
// Anomalous marks a negative delta, which is kept as is.
type QuarterlyRollup struct {
	Quarter           Quarter
	Label             string
	PeriodDescription string
	TotalRewards      int64
	IndexerRewards    int64
	DelegatorRewards  int64
	Source            RollupSource
	Anomalous         bool
}

// UnavailableRollup is the placeholder for a quarter with no data
func UnavailableRollup(q Quarter) QuarterlyRollup {
	return QuarterlyRollup{
		Quarter:           q,
		Label:             q.Label(),
		PeriodDescription: q.PeriodDescription(),
		Source:            SourceUnavailable,
	}
}

// RollupFromSnapshots subtracts the start snapshot from the end snapshot per
// field on raw values, then converts the deltas to display units.
func RollupFromSnapshots(q Quarter, start, end DailyDataRecord) QuarterlyRollup {
	total := delta(start.TotalIndexingRewards, end.TotalIndexingRewards)
	indexer := delta(start.TotalIndexingIndexerRewards, end.TotalIndexingIndexerRewards)
	delegator := delta(start.TotalIndexingDelegatorRewards, end.TotalIndexingDelegatorRewards)

	rollup := UnavailableRollup(q)
	rollup.TotalRewards = grt.ToDisplay(total)
	rollup.IndexerRewards = grt.ToDisplay(indexer)
	rollup.DelegatorRewards = grt.ToDisplay(delegator)
	rollup.Source = SourceLive
	rollup.Anomalous = total.Sign() < 0 || indexer.Sign() < 0 || delegator.Sign() < 0
	return rollup
}

func delta(start, end graphql.BigInt) *big.Int {
	return new(big.Int).Sub(grt.Sum(end.Int), grt.Sum(start.Int))
}

// MergeFallback fills quarters that have no live values from the fallback
// table. Live values always win; quarters in neither stay unavailable.
func MergeFallback(rollups []QuarterlyRollup, fallback FallbackTable) []QuarterlyRollup {
	merged := make([]QuarterlyRollup, len(rollups))
	for i, r := range rollups {
		merged[i] = r
		if r.Source == SourceLive {
			continue
		}

		entry, ok := fallback[r.Label]
		if !ok {
			merged[i] = UnavailableRollup(r.Quarter)
			continue
		}

		merged[i].TotalRewards = entry.TotalRewards
		merged[i].IndexerRewards = entry.IndexerRewards
		merged[i].DelegatorRewards = entry.DelegatorRewards
		merged[i].Source = SourceFallback
		merged[i].Anomalous = false
	}
	return merged
}

// FetchDailyData returns the snapshot for a day, nil when the subgraph has none
func FetchDailyData(ctx context.Context, q Querier, day int64) (*DailyDataRecord, error) {
	var out struct {
		Days []DailyDataRecord `json:"graphNetworkDailyDatas"`
	}
	err := q.Do(ctx, graphql.Request{
		Query:         dailyDataQuery,
		Variables:     map[string]any{"day": day},
		OperationName: OpDailyData,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("%w: day %d: %w", ErrDailyDataFailed, day, err)
	}
	if len(out.Days) == 0 {
		return nil, nil
	}
	return &out.Days[0], nil
}

// CalculateQuarterly computes live rollups for the configured quarters. A
// quarter whose start or end snapshot is missing or failed is unavailable.
func CalculateQuarterly(ctx context.Context, q Querier, cfg Config) ([]QuarterlyRollup, error) {
	genesis := cfg.genesis()
	rollups := make([]QuarterlyRollup, 0, len(cfg.Quarters))

	var errs []error
	for _, quarter := range cfg.Quarters {
		start, errStart := FetchDailyData(ctx, q, DayIndex(quarter.Start(), genesis))
		end, errEnd := FetchDailyData(ctx, q, DayIndex(quarter.End(), genesis))
		if err := errors.Join(errStart, errEnd); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", quarter, err))
		}

		if start == nil || end == nil {
			rollups = append(rollups, UnavailableRollup(quarter))
			continue
		}
		rollups = append(rollups, RollupFromSnapshots(quarter, *start, *end))
	}

	return rollups, errors.Join(errs...)
}

// RollupQuarters computes live rollups, fills gaps from cfg.Fallback and
// orders the result newest quarter first.
func RollupQuarters(ctx context.Context, q Querier, cfg Config) ([]QuarterlyRollup, error) {
	live, err := CalculateQuarterly(ctx, q, cfg)

	merged := MergeFallback(live, cfg.Fallback)
	slices.SortStableFunc(merged, func(a, b QuarterlyRollup) int {
		return b.Quarter.Compare(a.Quarter)
	})
	return merged, err
}
