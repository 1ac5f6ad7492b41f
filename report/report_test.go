package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/graphmetrics/aggregator"
	"github.com/screwyprof/graphmetrics/report"
)

func TestDisplayName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		network  string
		expected string
	}{
		{network: "mainnet", expected: "Ethereum (Mainnet)"},
		{network: "MATIC", expected: "Polygon (Matic)"},
		{network: "arbitrum-one", expected: "Arbitrum-One"},
		{network: "base", expected: "Base"},
	}

	for _, tc := range testCases {
		t.Run(tc.network, func(t *testing.T) {
			t.Parallel()

			// Act & Assert
			assert.Equal(t, tc.expected, report.DisplayName(tc.network))
		})
	}
}

func TestNetworkExplorerURL(t *testing.T) {
	t.Parallel()

	// Act
	link := report.NetworkExplorerURL("arbitrum-one")

	// Assert
	assert.Equal(t, "https://thegraph.com/explorer?indexedNetwork=arbitrum-one&orderBy=Query+Count&orderDirection=desc", link)
}

func TestBind(t *testing.T) {
	t.Parallel()

	t.Run("it binds every section of the report", func(t *testing.T) {
		t.Parallel()

		// Arrange
		run := sampleRun()

		// Act
		doc := report.Bind(run, "0.0.1")

		// Assert
		assert.Equal(t, "0.0.1", doc.Version)
		assert.Equal(t, "2025-10-01T12:00:00Z", doc.GeneratedAt)
		assert.Equal(t, int64(1500), doc.DurationMS)
		assert.Equal(t, []string{"rewards"}, doc.Degraded)

		require.Len(t, doc.Networks.Top, 1)
		assert.Equal(t, "Ethereum (Mainnet)", doc.Networks.Top[0].DisplayName)
		assert.Equal(t, 2, doc.Networks.NetworkCount)
		assert.Equal(t, 3, doc.Networks.GrandTotal)
		assert.Equal(t, uint64(2), doc.Networks.EstimatedDistinctIndexers)

		assert.Equal(t, "-500", doc.Delegations.Net)
		require.Len(t, doc.Delegations.Events, 1)
		assert.Equal(t, "1970-01-01T00:03:20Z", doc.Delegations.Events[0].Timestamp)
		assert.Equal(t, "undelegation", doc.Delegations.Events[0].Kind)

		require.Len(t, doc.Rewards, 1)
		assert.Equal(t, "400", doc.Rewards[0].TotalRewards)
		assert.Equal(t, 40, doc.Rewards[0].ActiveDelegatorCount)
		assert.Equal(t, 3, doc.Rewards[0].ActiveDelegators)

		require.Len(t, doc.Quarters, 1)
		assert.Equal(t, "2025-Q1", doc.Quarters[0].Quarter)
		assert.Equal(t, "fallback", doc.Quarters[0].Source)
	})

	t.Run("it emits empty lists rather than null for an empty run", func(t *testing.T) {
		t.Parallel()

		// Act
		data, err := report.Encode(report.Bind(aggregator.RunCompleted{}, "dev"))

		// Assert
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, []any{}, decoded["rewards"])
		assert.Equal(t, []any{}, decoded["quarters"])
		assert.Equal(t, []any{}, decoded["degraded_stages"])
	})
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("it writes the document and leaves no temporary files", func(t *testing.T) {
		t.Parallel()

		// Arrange
		dir := filepath.Join(t.TempDir(), "out")
		path := filepath.Join(dir, "metrics.json")
		doc := report.Bind(sampleRun(), "0.0.1")

		// Act
		err := report.WriteFile(path, doc)

		// Assert
		require.NoError(t, err)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded report.Document
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, doc, decoded)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "Only the report should remain")
	})

	t.Run("it replaces an existing document", func(t *testing.T) {
		t.Parallel()

		// Arrange
		path := filepath.Join(t.TempDir(), "metrics.json")
		require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

		// Act
		err := report.WriteFile(path, report.Bind(sampleRun(), "0.0.2"))

		// Assert
		require.NoError(t, err)
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"version": "0.0.2"`)
	})

	t.Run("it fails when the directory cannot be created", func(t *testing.T) {
		t.Parallel()

		// Arrange
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o600))

		// Act
		err := report.WriteFile(filepath.Join(blocker, "metrics.json"), report.Document{})

		// Assert
		assert.ErrorIs(t, err, report.ErrWriteFailed)
	})
}

func sampleRun() aggregator.RunCompleted {
	mainnet := aggregator.NetworkMetric{Network: "mainnet", SubgraphCount: 2, UniqueIndexerCount: 1}
	base := aggregator.NetworkMetric{Network: "base", SubgraphCount: 1, UniqueIndexerCount: 1}

	return aggregator.RunCompleted{
		Duration: 1500 * time.Millisecond,
		Degraded: []aggregator.Stage{aggregator.StageRewards},
		Report: aggregator.Report{
			GeneratedAt: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
			Networks: aggregator.NetworkAggregation{
				Metrics:                   []aggregator.NetworkMetric{mainnet, base},
				EstimatedDistinctIndexers: 2,
				SubgraphsScanned:          4,
			},
			Ranking: aggregator.RankNetworks([]aggregator.NetworkMetric{mainnet, base}, 1),
			Delegations: aggregator.DelegationSummary{
				Events: []aggregator.DelegationEvent{
					{Kind: aggregator.Undelegation, Amount: 500, Delegator: "0xd", Indexer: "0xi", Timestamp: 200, TxHash: "0xt"},
				},
				TotalUndelegated: 500,
				Net:              -500,
				SampleSize:       1000,
			},
			Rewards: []aggregator.NetworkRewards{{
				Network:          "arbitrum-one",
				Snapshot:         aggregator.RewardSnapshot{Total: 400, IndexerShare: 300, DelegatorShare: 100, DelegatorCount: 50, ActiveDelegatorCount: 40},
				Shares:           aggregator.RewardShares{IndexerPercentage: 75, DelegatorPercentage: 25},
				ActiveDelegators: 3,
			}},
			Quarters: []aggregator.QuarterlyRollup{{
				Quarter:           aggregator.Quarter{Year: 2025, Number: 1},
				Label:             "Q1 2025",
				PeriodDescription: "Jan 1 - Mar 31, 2025",
				TotalRewards:      70,
				Source:            aggregator.SourceFallback,
			}},
		},
	}
}
