package aggregator

import (
	"cmp"
	"slices"
)

// NetworkRanking is the top-N view over network metrics
type NetworkRanking struct {
	Top        []NetworkMetric
	TopTotal   int
	GrandTotal int
	Percentage float64 // share of GrandTotal covered by Top, 0 when GrandTotal is 0
}

// RankNetworks orders metrics by subgraph count descending, ties keeping their
// input order, and keeps the first topN. The input is not modified.
func RankNetworks(metrics []NetworkMetric, topN int) NetworkRanking {
	sorted := slices.Clone(metrics)
	slices.SortStableFunc(sorted, func(a, b NetworkMetric) int {
		return cmp.Compare(b.SubgraphCount, a.SubgraphCount)
	})

	top := sorted
	if topN >= 0 && topN < len(sorted) {
		top = sorted[:topN]
	}

	ranking := NetworkRanking{
		Top:        top,
		TopTotal:   sumSubgraphs(top),
		GrandTotal: sumSubgraphs(metrics),
	}
	if ranking.GrandTotal > 0 {
		ranking.Percentage = float64(ranking.TopTotal) / float64(ranking.GrandTotal) * 100
	}
	return ranking
}

func sumSubgraphs(metrics []NetworkMetric) int {
	var total int
	for _, m := range metrics {
		total += m.SubgraphCount
	}
	return total
}
