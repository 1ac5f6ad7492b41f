// Package grt converts raw GRT token amounts (18 decimals) to display units.
package grt

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	ethmath "github.com/ethereum/go-ethereum/common/math"
)

// Decimals is the fixed-point scale of the GRT token
const Decimals = 18

// ErrInvalidAmount is returned for values that are not base-10 or 0x integers
var ErrInvalidAmount = errors.New("invalid token amount")

var unit = ethmath.BigPow(10, Decimals)

// Unit returns 10^18 as a fresh value
func Unit() *big.Int {
	return new(big.Int).Set(unit)
}

// Parse reads a raw on-chain amount
func Parse(raw string) (*big.Int, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	v, ok := ethmath.ParseBig256(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return v, nil
}

// ToDisplay converts a raw amount to whole tokens, truncating toward zero.
// A nil amount converts to 0. Results beyond int64 saturate.
func ToDisplay(raw *big.Int) int64 {
	if raw == nil {
		return 0
	}
	whole := new(big.Int).Quo(raw, unit)
	if whole.IsInt64() {
		return whole.Int64()
	}
	if whole.Sign() < 0 {
		return math.MinInt64
	}
	return math.MaxInt64
}

// FromDisplay returns tokens * 10^18
func FromDisplay(tokens int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(tokens), unit)
}

// Sum adds amounts, skipping nil entries
func Sum(amounts ...*big.Int) *big.Int {
	total := new(big.Int)
	for _, a := range amounts {
		if a != nil {
			total.Add(total, a)
		}
	}
	return total
}
