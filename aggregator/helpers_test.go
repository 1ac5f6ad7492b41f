package aggregator_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/screwyprof/graphmetrics/pkg/graphql"
)

// Fake subgraph

// subgraphHandler answers a decoded GraphQL request with a JSON body
type subgraphHandler func(req graphql.Request) string

// fakeSubgraph serves GraphQL requests and records the ones it received
type fakeSubgraph struct {
	*httptest.Server

	mu       sync.Mutex
	requests []graphql.Request
}

func newFakeSubgraph(t *testing.T, handler subgraphHandler) *fakeSubgraph {
	t.Helper()

	f := &fakeSubgraph{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphql.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		body := handler(req)
		if body == "" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "server error"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)

	return f
}

func (f *fakeSubgraph) client() *graphql.Client {
	return graphql.NewClient(f.Server.Client(), f.URL)
}

func (f *fakeSubgraph) received(operation string) []graphql.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []graphql.Request
	for _, r := range f.requests {
		if r.OperationName == operation {
			out = append(out, r)
		}
	}
	return out
}

// intVar reads a numeric variable; JSON numbers decode as float64
func intVar(req graphql.Request, name string) int {
	v, _ := req.Variables[name].(float64)
	return int(v)
}

// pageOf returns the first/skip window of items, like the gateway does
func pageOf[T any](items []T, req graphql.Request) []T {
	first, skip := intVar(req, "first"), intVar(req, "skip")
	if skip >= len(items) {
		return nil
	}
	return items[skip:min(len(items), skip+first)]
}

func dataJSON(t *testing.T, field string, value any) string {
	t.Helper()

	raw, err := json.Marshal(map[string]any{"data": map[string]any{field: value}})
	require.NoError(t, err)
	return string(raw)
}

// Test data builders

type subgraphRow struct {
	ID             string `json:"id"`
	CurrentVersion any    `json:"currentVersion"`
}

func subgraphOn(id, network string, indexers ...string) subgraphRow {
	allocations := make([]map[string]any, len(indexers))
	for i, indexer := range indexers {
		allocations[i] = map[string]any{"indexer": map[string]any{"id": indexer}}
	}
	return subgraphRow{
		ID: id,
		CurrentVersion: map[string]any{
			"subgraphDeployment": map[string]any{
				"manifest":           map[string]any{"network": network},
				"indexerAllocations": allocations,
			},
		},
	}
}

func subgraphWithoutManifest(id string) subgraphRow {
	return subgraphRow{
		ID:             id,
		CurrentVersion: map[string]any{"subgraphDeployment": map[string]any{"manifest": nil}},
	}
}

type stakeRow struct {
	ID              string `json:"id"`
	Indexer         string `json:"indexer"`
	Delegator       string `json:"delegator"`
	Tokens          string `json:"tokens"`
	BlockTimestamp  string `json:"blockTimestamp"`
	TransactionHash string `json:"transactionHash"`
}

func stake(grt int64, timestamp int64) stakeRow {
	return stakeRow{
		ID:              fmt.Sprintf("ev-%d", timestamp),
		Indexer:         "0x00000000000000000000000000000000000000aa",
		Delegator:       fmt.Sprintf("0x%040d", timestamp),
		Tokens:          fmt.Sprintf("%d%s", grt, strings.Repeat("0", 18)),
		BlockTimestamp:  fmt.Sprintf("%d", timestamp),
		TransactionHash: fmt.Sprintf("0xtx%d", timestamp),
	}
}

// grtRaw renders whole tokens as a raw 18-decimal amount
func grtRaw(tokens int64) string {
	if tokens == 0 {
		return "0"
	}
	return fmt.Sprintf("%d%s", tokens, strings.Repeat("0", 18))
}
