package aggregator

import "time"

// Report is the finalized output of one run. It holds plain values only.
type Report struct {
	GeneratedAt time.Time
	Networks    NetworkAggregation
	Ranking     NetworkRanking
	Delegations DelegationSummary
	Rewards     []NetworkRewards
	Quarters    []QuarterlyRollup
}
