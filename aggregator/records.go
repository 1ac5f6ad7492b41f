package aggregator

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/screwyprof/graphmetrics/pkg/graphql"
)

// Wire records mirror the subgraph schema. Pointers mark fields the subgraph may return as null.

// EntityRef is a reference to another entity by id
type EntityRef struct {
	ID string `json:"id"`
}

// ManifestRecord is the deployment manifest
type ManifestRecord struct {
	Network *string `json:"network"`
}

// AllocationRecord is an active indexer allocation on a deployment
type AllocationRecord struct {
	Indexer *EntityRef `json:"indexer"`
}

// DeploymentRecord is the deployment behind a subgraph version
type DeploymentRecord struct {
	Manifest           *ManifestRecord    `json:"manifest"`
	IndexerAllocations []AllocationRecord `json:"indexerAllocations"`
}

// VersionRecord is a subgraph version
type VersionRecord struct {
	SubgraphDeployment *DeploymentRecord `json:"subgraphDeployment"`
}

// SubgraphRecord is one row of the subgraphs listing
type SubgraphRecord struct {
	ID             string         `json:"id"`
	CurrentVersion *VersionRecord `json:"currentVersion"`
}

// Network returns the manifest network, false when any link of the chain is missing
func (r SubgraphRecord) Network() (string, bool) {
	if r.CurrentVersion == nil ||
		r.CurrentVersion.SubgraphDeployment == nil ||
		r.CurrentVersion.SubgraphDeployment.Manifest == nil ||
		r.CurrentVersion.SubgraphDeployment.Manifest.Network == nil {
		return "", false
	}
	network := *r.CurrentVersion.SubgraphDeployment.Manifest.Network
	return network, network != ""
}

// IndexerIDs returns the normalized ids of the allocating indexers
func (r SubgraphRecord) IndexerIDs() []string {
	if r.CurrentVersion == nil || r.CurrentVersion.SubgraphDeployment == nil {
		return nil
	}
	allocations := r.CurrentVersion.SubgraphDeployment.IndexerAllocations
	ids := make([]string, 0, len(allocations))
	for _, a := range allocations {
		if a.Indexer == nil || a.Indexer.ID == "" {
			continue
		}
		ids = append(ids, NormalizeID(a.Indexer.ID))
	}
	return ids
}

// StakeEventRecord is a delegation or undelegation event
type StakeEventRecord struct {
	ID              string         `json:"id"`
	Indexer         string         `json:"indexer"`
	Delegator       string         `json:"delegator"`
	Tokens          graphql.BigInt `json:"tokens"`
	BlockTimestamp  graphql.BigInt `json:"blockTimestamp"`
	TransactionHash string         `json:"transactionHash"`
}

// complete reports whether every field an event needs is present
func (r StakeEventRecord) complete() bool {
	return r.Indexer != "" && r.Delegator != "" && r.Tokens.Valid() && r.BlockTimestamp.Valid()
}

// GraphNetworkRecord is the protocol-wide singleton
type GraphNetworkRecord struct {
	TotalIndexingRewards          graphql.BigInt `json:"totalIndexingRewards"`
	TotalIndexingIndexerRewards   graphql.BigInt `json:"totalIndexingIndexerRewards"`
	TotalIndexingDelegatorRewards graphql.BigInt `json:"totalIndexingDelegatorRewards"`
	DelegatorCount                int            `json:"delegatorCount"`
	ActiveDelegatorCount          int            `json:"activeDelegatorCount"`
}

// DailyDataRecord is a cumulative per-day snapshot
type DailyDataRecord struct {
	DayNumber                     int            `json:"dayNumber"`
	TotalIndexingRewards          graphql.BigInt `json:"totalIndexingRewards"`
	TotalIndexingIndexerRewards   graphql.BigInt `json:"totalIndexingIndexerRewards"`
	TotalIndexingDelegatorRewards graphql.BigInt `json:"totalIndexingDelegatorRewards"`
}

// NormalizeID lower-cases hex addresses so checksum variants compare equal.
// Other ids are returned unchanged.
func NormalizeID(id string) string {
	if common.IsHexAddress(id) {
		return strings.ToLower(id)
	}
	return id
}
