//go:build acceptance

package graphql_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/graphmetrics/pkg/graphql"
	"github.com/screwyprof/graphmetrics/pkg/graphql/testcfg"
)

func TestClientRealGateway(t *testing.T) {
	t.Parallel()

	// Load test configuration from environment
	testCfg := testcfg.New()

	// Arrange
	client := graphql.NewClient(&http.Client{
		Timeout: testCfg.HTTPTimeout,
	}, graphql.SubgraphURL(testCfg.GatewayURL, testCfg.APIKey, testCfg.SubgraphID))

	var out struct {
		Subgraphs []struct {
			ID string `json:"id"`
		} `json:"subgraphs"`
	}

	// Act
	err := client.Do(t.Context(), graphql.Request{
		Query:         `query Subgraphs($first: Int!) { subgraphs(first: $first) { id } }`,
		Variables:     map[string]any{"first": testCfg.Limit},
		OperationName: "Subgraphs",
	}, &out)

	// Assert
	require.NoError(t, err)
	assert.Len(t, out.Subgraphs, testCfg.Limit, "Expected exactly %d subgraphs with first=%d", testCfg.Limit, testCfg.Limit)
	for i, s := range out.Subgraphs {
		assert.NotEmpty(t, s.ID, "Subgraph %d should have an id", i)
	}
}
