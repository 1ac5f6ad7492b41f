// Package graphql is a minimal client for subgraphs served over The Graph gateway.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultGatewayURL is the public gateway base used when none is configured.
const DefaultGatewayURL = "https://gateway.thegraph.com/api"

// Sentinel errors for failure cases
var (
	ErrEncodeFailed     = errors.New("encoding request failed")
	ErrRequestFailed    = errors.New("request failed")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrDecodeFailed     = errors.New("decoding response failed")
	ErrQueryFailed      = errors.New("query returned errors")
)

// Request is the POST body understood by a GraphQL endpoint
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Error is a single entry of the response errors array
type Error struct {
	Message string `json:"message"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors"`
}

// Observer is notified once per request with its operation, outcome and latency
type Observer func(operation string, err error, elapsed time.Duration)

// Option configures the Client
type Option func(*Client)

// WithObserver registers a request observer
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// Client executes queries against a single subgraph endpoint
type Client struct {
	httpClient *http.Client
	endpoint   string
	observer   Observer
}

// NewClient creates a client bound to the given endpoint
func NewClient(httpClient *http.Client, endpoint string, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		observer:   func(string, error, time.Duration) {}, // nop by default
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubgraphURL builds a gateway endpoint for the subgraph. The API key travels in the path.
func SubgraphURL(gatewayURL, apiKey, subgraphID string) string {
	return fmt.Sprintf("%s/%s/subgraphs/id/%s", strings.TrimRight(gatewayURL, "/"), apiKey, subgraphID)
}

// Endpoint returns the URL the client posts to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Do posts the request and decodes the data member of the response into out.
// A non-2xx status and a non-empty errors array are both failures.
func (c *Client) Do(ctx context.Context, req Request, out any) (err error) {
	start := time.Now()
	defer func() { c.observer(req.OperationName, err, time.Since(start)) }()

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// url.Error embeds the endpoint, which carries the API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	if len(payload.Errors) > 0 {
		return fmt.Errorf("%w: %s", ErrQueryFailed, joinMessages(payload.Errors))
	}

	if out == nil || len(payload.Data) == 0 || string(payload.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(payload.Data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	return nil
}

func joinMessages(errs []Error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}
