package report

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/screwyprof/graphmetrics/aggregator"
)

// ExplorerURL is the explorer page listing subgraphs of one network
const ExplorerURL = "https://thegraph.com/explorer"

// Networks whose display name is not their title-cased identifier
var displayNames = map[string]string{
	"mainnet": "Ethereum (Mainnet)",
	"matic":   "Polygon (Matic)",
}

// DisplayName returns the human readable name of a network identifier
func DisplayName(network string) string {
	if name, ok := displayNames[strings.ToLower(network)]; ok {
		return name
	}
	return cases.Title(language.English).String(network)
}

// NetworkExplorerURL links the explorer filtered to network, ordered by query count
func NetworkExplorerURL(network string) string {
	q := url.Values{}
	q.Set("indexedNetwork", network)
	q.Set("orderBy", "Query Count")
	q.Set("orderDirection", "desc")
	return ExplorerURL + "?" + q.Encode()
}

// Bind converts a completed run into the report document
func Bind(run aggregator.RunCompleted, version string) Document {
	r := run.Report

	degraded := make([]string, len(run.Degraded))
	for i, s := range run.Degraded {
		degraded[i] = string(s)
	}

	return Document{
		Version:     version,
		GeneratedAt: r.GeneratedAt.UTC().Format(time.RFC3339),
		DurationMS:  run.Duration.Milliseconds(),
		Degraded:    degraded,
		Networks:    bindNetworks(r.Networks, r.Ranking),
		Delegations: bindDelegations(r.Delegations),
		Rewards:     bindRewards(r.Rewards),
		Quarters:    bindQuarters(r.Quarters),
	}
}

func bindNetworks(agg aggregator.NetworkAggregation, ranking aggregator.NetworkRanking) Networks {
	top := make([]Network, len(ranking.Top))
	for i, m := range ranking.Top {
		top[i] = Network{
			Network:            m.Network,
			DisplayName:        DisplayName(m.Network),
			ExplorerURL:        NetworkExplorerURL(m.Network),
			SubgraphCount:      m.SubgraphCount,
			UniqueIndexerCount: m.UniqueIndexerCount,
		}
	}

	return Networks{
		Top:                       top,
		TopTotal:                  ranking.TopTotal,
		GrandTotal:                ranking.GrandTotal,
		Percentage:                ranking.Percentage,
		NetworkCount:              len(agg.Metrics),
		SubgraphsScanned:          agg.SubgraphsScanned,
		EstimatedDistinctIndexers: agg.EstimatedDistinctIndexers,
	}
}

func bindDelegations(s aggregator.DelegationSummary) Delegations {
	events := make([]Delegation, len(s.Events))
	for i, e := range s.Events {
		events[i] = Delegation{
			Kind:      string(e.Kind),
			Amount:    strconv.FormatInt(e.Amount, 10),
			Delegator: e.Delegator,
			Indexer:   e.Indexer,
			Timestamp: time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339),
			TxHash:    e.TxHash,
		}
	}

	return Delegations{
		SampleSize:       s.SampleSize,
		TotalDelegated:   strconv.FormatInt(s.TotalDelegated, 10),
		TotalUndelegated: strconv.FormatInt(s.TotalUndelegated, 10),
		Net:              strconv.FormatInt(s.Net, 10),
		Events:           events,
	}
}

func bindRewards(rewards []aggregator.NetworkRewards) []Rewards {
	out := make([]Rewards, len(rewards))
	for i, r := range rewards {
		out[i] = Rewards{
			Network:              r.Network,
			DisplayName:          DisplayName(r.Network),
			TotalRewards:         strconv.FormatInt(r.Snapshot.Total, 10),
			IndexerRewards:       strconv.FormatInt(r.Snapshot.IndexerShare, 10),
			DelegatorRewards:     strconv.FormatInt(r.Snapshot.DelegatorShare, 10),
			IndexerPercentage:    r.Shares.IndexerPercentage,
			DelegatorPercentage:  r.Shares.DelegatorPercentage,
			DelegatorCount:       r.Snapshot.DelegatorCount,
			ActiveDelegatorCount: r.Snapshot.ActiveDelegatorCount,
			ActiveDelegators:     r.ActiveDelegators,
		}
	}
	return out
}

func bindQuarters(quarters []aggregator.QuarterlyRollup) []Quarter {
	out := make([]Quarter, len(quarters))
	for i, q := range quarters {
		out[i] = Quarter{
			Quarter:          q.Quarter.String(),
			Label:            q.Label,
			Period:           q.PeriodDescription,
			TotalRewards:     strconv.FormatInt(q.TotalRewards, 10),
			IndexerRewards:   strconv.FormatInt(q.IndexerRewards, 10),
			DelegatorRewards: strconv.FormatInt(q.DelegatorRewards, 10),
			Source:           string(q.Source),
			Anomalous:        q.Anomalous,
		}
	}
	return out
}
