package graphql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

// BigInt is the subgraph BigInt scalar. It decodes from a JSON string or number.
// A null or missing value leaves Int nil.
type BigInt struct {
	Int *big.Int
}

// NewBigInt wraps x
func NewBigInt(x int64) BigInt {
	return BigInt{Int: big.NewInt(x)}
}

// Valid reports whether a value was present
func (b BigInt) Valid() bool {
	return b.Int != nil
}

// UnmarshalJSON implements json.Unmarshaler
func (b *BigInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		b.Int = nil
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	v, ok := math.ParseBig256(raw)
	if !ok {
		return fmt.Errorf("invalid BigInt %q", raw)
	}
	b.Int = v
	return nil
}

// MarshalJSON implements json.Marshaler
func (b BigInt) MarshalJSON() ([]byte, error) {
	if b.Int == nil {
		return []byte("null"), nil
	}
	return json.Marshal(b.Int.String())
}
