package aggregator

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/screwyprof/graphmetrics/pkg/graphql"
	"github.com/screwyprof/graphmetrics/pkg/grt"
)

// EventKind distinguishes delegations from undelegations
type EventKind string

const (
	Delegation   EventKind = "delegation"
	Undelegation EventKind = "undelegation"
)

// DelegationEvent is a single stake movement in display units
type DelegationEvent struct {
	Kind      EventKind
	Amount    int64
	Delegator string
	Indexer   string
	Timestamp int64
	TxHash    string
}

// DelegationSummary covers the most recent SampleSize events of each kind.
// It is a sampling window, not a full history.
type DelegationSummary struct {
	Events           []DelegationEvent
	TotalDelegated   int64
	TotalUndelegated int64
	Net              int64
	SampleSize       int
}

// SummarizeDelegations merges both streams newest first and totals them.
// Totals are the truncated display value of the raw sum, so they can exceed
// the sum of the per-event truncated amounts. Incomplete records are skipped.
func SummarizeDelegations(delegations, undelegations []StakeEventRecord) DelegationSummary {
	events := make([]DelegationEvent, 0, len(delegations)+len(undelegations))

	delegated, events := collectEvents(Delegation, delegations, events)
	undelegated, events := collectEvents(Undelegation, undelegations, events)

	slices.SortStableFunc(events, func(a, b DelegationEvent) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})

	summary := DelegationSummary{
		Events:           events,
		TotalDelegated:   grt.ToDisplay(delegated),
		TotalUndelegated: grt.ToDisplay(undelegated),
	}
	summary.Net = summary.TotalDelegated - summary.TotalUndelegated
	return summary
}

func collectEvents(kind EventKind, records []StakeEventRecord, events []DelegationEvent) (*big.Int, []DelegationEvent) {
	total := new(big.Int)
	for _, r := range records {
		if !r.complete() {
			continue
		}
		total.Add(total, r.Tokens.Int)
		events = append(events, DelegationEvent{
			Kind:      kind,
			Amount:    grt.ToDisplay(r.Tokens.Int),
			Delegator: NormalizeID(r.Delegator),
			Indexer:   NormalizeID(r.Indexer),
			Timestamp: r.BlockTimestamp.Int.Int64(),
			TxHash:    r.TransactionHash,
		})
	}
	return total, events
}

// AggregateDelegations fetches the newest delegation and undelegation events,
// each stream bounded by the configured sample size. A failing stream leaves
// the other one intact.
func AggregateDelegations(ctx context.Context, q Querier, cfg Config) (DelegationSummary, error) {
	sample := cfg.sampleSize()

	delegations, errDelegated := FetchAll(ctx, stakeEvents(q, stakeDelegatedQuery, OpStakeDelegated), cfg.pageSize(), sample)
	undelegations, errUndelegated := FetchAll(ctx, stakeEvents(q, stakeUndelegatedQuery, OpStakeUndelegated), cfg.pageSize(), sample)

	summary := SummarizeDelegations(delegations, undelegations)
	summary.SampleSize = sample

	if err := errors.Join(errDelegated, errUndelegated); err != nil {
		return summary, fmt.Errorf("%w: %w", ErrDelegationFailed, err)
	}
	return summary, nil
}

func stakeEvents(q Querier, query, operation string) PageFunc[StakeEventRecord] {
	return func(ctx context.Context, p Page) ([]StakeEventRecord, error) {
		var out struct {
			Events []StakeEventRecord `json:"events"`
		}
		err := q.Do(ctx, graphql.Request{
			Query:         query,
			Variables:     p.Variables(),
			OperationName: operation,
		}, &out)
		return out.Events, err
	}
}
