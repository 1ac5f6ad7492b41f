package aggregator

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var defaultFallbackYAML []byte

// ErrInvalidFallback is returned for an unreadable fallback table
var ErrInvalidFallback = errors.New("invalid fallback table")

// FallbackEntry holds the reward totals of one quarter in display units
type FallbackEntry struct {
	TotalRewards     int64
	IndexerRewards   int64
	DelegatorRewards int64
}

// FallbackTable maps a quarter label ("Q3 2025") to its totals
type FallbackTable map[string]FallbackEntry

type fallbackDocument struct {
	Quarters []struct {
		Quarter          string `yaml:"quarter"`
		TotalRewards     int64  `yaml:"total_rewards"`
		IndexerRewards   int64  `yaml:"indexer_rewards"`
		DelegatorRewards int64  `yaml:"delegator_rewards"`
	} `yaml:"quarters"`
}

// ParseFallback decodes a YAML fallback table
func ParseFallback(data []byte) (FallbackTable, error) {
	var doc fallbackDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFallback, err)
	}

	table := make(FallbackTable, len(doc.Quarters))
	for _, entry := range doc.Quarters {
		q, err := ParseQuarter(entry.Quarter)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFallback, err)
		}
		if _, dup := table[q.Label()]; dup {
			return nil, fmt.Errorf("%w: duplicate quarter %s", ErrInvalidFallback, q)
		}
		table[q.Label()] = FallbackEntry{
			TotalRewards:     entry.TotalRewards,
			IndexerRewards:   entry.IndexerRewards,
			DelegatorRewards: entry.DelegatorRewards,
		}
	}
	return table, nil
}

// LoadFallback reads a fallback table from a file. An empty path yields the built-in table.
func LoadFallback(path string) (FallbackTable, error) {
	if path == "" {
		return ParseFallback(defaultFallbackYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFallback, err)
	}
	return ParseFallback(data)
}

// DefaultFallback returns the built-in table
func DefaultFallback() FallbackTable {
	table, err := ParseFallback(defaultFallbackYAML)
	if err != nil {
		panic(err)
	}
	return table
}
