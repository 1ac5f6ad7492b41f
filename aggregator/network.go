package aggregator

import (
	"context"
	"fmt"

	"github.com/axiomhq/hyperloglog"

	"github.com/screwyprof/graphmetrics/pkg/graphql"
)

// NetworkMetric is the per-network subgraph and indexer tally
type NetworkMetric struct {
	Network            string
	SubgraphCount      int
	UniqueIndexerCount int
}

// NetworkAggregation holds the per-network metrics in first-seen order.
// EstimatedDistinctIndexers is an approximate count of indexers across all networks.
type NetworkAggregation struct {
	Metrics                   []NetworkMetric
	EstimatedDistinctIndexers uint64
	SubgraphsScanned          int
}

// BuildNetworkMetrics groups records by manifest network.
// Records without a network are skipped.
func BuildNetworkMetrics(records []SubgraphRecord) NetworkAggregation {
	b := newNetworkBuilder()
	for _, r := range records {
		b.add(r)
	}
	return b.result()
}

// AggregateNetworks pages through every subgraph with a current version and
// tallies subgraphs and distinct allocating indexers per network. On failure
// the tally of the pages fetched so far is returned together with the error.
func AggregateNetworks(ctx context.Context, q Querier, cfg Config) (NetworkAggregation, error) {
	allocations := cfg.allocations()
	fetch := func(ctx context.Context, p Page) ([]SubgraphRecord, error) {
		vars := p.Variables()
		vars["allocations"] = allocations

		var out struct {
			Subgraphs []SubgraphRecord `json:"subgraphs"`
		}
		err := q.Do(ctx, graphql.Request{
			Query:         subgraphsQuery,
			Variables:     vars,
			OperationName: OpSubgraphs,
		}, &out)
		return out.Subgraphs, err
	}

	b := newNetworkBuilder()
	_, err := Walk(ctx, fetch, cfg.pageSize(), 0, func(batch []SubgraphRecord) {
		for _, r := range batch {
			b.add(r)
		}
	})
	if err != nil {
		return b.result(), fmt.Errorf("%w: %w", ErrNetworksFailed, err)
	}
	return b.result(), nil
}

type networkBuilder struct {
	order    []string
	counts   map[string]int
	indexers map[string]map[string]struct{}
	sketch   *hyperloglog.Sketch
	scanned  int
}

func newNetworkBuilder() *networkBuilder {
	return &networkBuilder{
		counts:   make(map[string]int),
		indexers: make(map[string]map[string]struct{}),
		sketch:   hyperloglog.New14(),
	}
}

func (b *networkBuilder) add(r SubgraphRecord) {
	b.scanned++

	network, ok := b.networkOf(r)
	if !ok {
		return
	}
	b.counts[network]++

	set := b.indexers[network]
	for _, id := range r.IndexerIDs() {
		set[id] = struct{}{}
		b.sketch.Insert([]byte(id))
	}
}

func (b *networkBuilder) networkOf(r SubgraphRecord) (string, bool) {
	network, ok := r.Network()
	if !ok {
		return "", false
	}
	if _, seen := b.counts[network]; !seen {
		b.order = append(b.order, network)
		b.indexers[network] = make(map[string]struct{})
	}
	return network, true
}

func (b *networkBuilder) result() NetworkAggregation {
	metrics := make([]NetworkMetric, len(b.order))
	for i, network := range b.order {
		metrics[i] = NetworkMetric{
			Network:            network,
			SubgraphCount:      b.counts[network],
			UniqueIndexerCount: len(b.indexers[network]),
		}
	}
	return NetworkAggregation{
		Metrics:                   metrics,
		EstimatedDistinctIndexers: b.sketch.Estimate(),
		SubgraphsScanned:          b.scanned,
	}
}
