package aggregator

import (
	"context"
	"fmt"

	"github.com/screwyprof/graphmetrics/pkg/graphql"
)

// CountActiveDelegators counts delegators holding stake above ActiveStakeThreshold.
// Ids are deduplicated, so an unstable page order cannot inflate the count.
func CountActiveDelegators(ctx context.Context, q Querier, cfg Config) (int, error) {
	fetch := func(ctx context.Context, p Page) ([]EntityRef, error) {
		vars := p.Variables()
		vars["threshold"] = ActiveStakeThreshold

		var out struct {
			Delegators []EntityRef `json:"delegators"`
		}
		err := q.Do(ctx, graphql.Request{
			Query:         activeDelegatorsQuery,
			Variables:     vars,
			OperationName: OpActiveDelegators,
		}, &out)
		return out.Delegators, err
	}

	count, err := CountDistinct(ctx, fetch, cfg.pageSize(), func(d EntityRef) string {
		return NormalizeID(d.ID)
	})
	if err != nil {
		return count, fmt.Errorf("%w: %w", ErrParticipants, err)
	}
	return count, nil
}
