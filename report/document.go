// Package report binds an aggregation run to the JSON document handed to renderers
package report

// Document is the top-level report document
type Document struct {
	Version     string      `json:"version"`
	GeneratedAt string      `json:"generated_at"`
	DurationMS  int64       `json:"duration_ms"`
	Degraded    []string    `json:"degraded_stages"`
	Networks    Networks    `json:"networks"`
	Delegations Delegations `json:"delegations"`
	Rewards     []Rewards   `json:"rewards"`
	Quarters    []Quarter   `json:"quarters"`
}

// Network is one row of the network table
type Network struct {
	Network            string `json:"network"`
	DisplayName        string `json:"display_name"`
	ExplorerURL        string `json:"explorer_url"`
	SubgraphCount      int    `json:"subgraph_count"`
	UniqueIndexerCount int    `json:"unique_indexer_count"`
}

// Networks holds the ranked networks and the totals they are measured against
type Networks struct {
	Top                       []Network `json:"top"`
	TopTotal                  int       `json:"top_total"`
	GrandTotal                int       `json:"grand_total"`
	Percentage                float64   `json:"percentage"`
	NetworkCount              int       `json:"network_count"`
	SubgraphsScanned          int       `json:"subgraphs_scanned"`
	EstimatedDistinctIndexers uint64    `json:"estimated_distinct_indexers"`
}

// Delegation is a single stake event; amounts are whole GRT
type Delegation struct {
	Kind      string `json:"kind"`
	Amount    string `json:"amount"`
	Delegator string `json:"delegator"`
	Indexer   string `json:"indexer"`
	Timestamp string `json:"timestamp"`
	TxHash    string `json:"tx_hash"`
}

// Delegations is the recent delegation window
type Delegations struct {
	SampleSize       int          `json:"sample_size"`
	TotalDelegated   string       `json:"total_delegated"`
	TotalUndelegated string       `json:"total_undelegated"`
	Net              string       `json:"net"`
	Events           []Delegation `json:"events"`
}

// Rewards is the reward snapshot of one network
type Rewards struct {
	Network              string  `json:"network"`
	DisplayName          string  `json:"display_name"`
	TotalRewards         string  `json:"total_rewards"`
	IndexerRewards       string  `json:"indexer_rewards"`
	DelegatorRewards     string  `json:"delegator_rewards"`
	IndexerPercentage    float64 `json:"indexer_percentage"`
	DelegatorPercentage  float64 `json:"delegator_percentage"`
	DelegatorCount       int     `json:"delegator_count"`
	ActiveDelegatorCount int     `json:"active_delegator_count"`
	ActiveDelegators     int     `json:"active_delegators"`
}

// Quarter is one quarterly reward rollup
type Quarter struct {
	Quarter          string `json:"quarter"`
	Label            string `json:"label"`
	Period           string `json:"period"`
	TotalRewards     string `json:"total_rewards"`
	IndexerRewards   string `json:"indexer_rewards"`
	DelegatorRewards string `json:"delegator_rewards"`
	Source           string `json:"source"`
	Anomalous        bool   `json:"anomalous"`
}
