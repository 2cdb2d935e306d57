// Package orderbuilder converts human trade intents (token, side, price,
// size) into the exact integer amounts the CTF exchange contract settles on.
// All arithmetic is exact decimal; the rounding behavior mirrors the upstream
// CLOB client so that signed amounts match what the matching engine expects.
package orderbuilder

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned when order-book depth cannot satisfy a market fill.
var ErrNoMatch = errors.New("orderbuilder: no match")

// ErrUnsupportedTickSize is returned for tick sizes absent from the rounding
// table.
var ErrUnsupportedTickSize = errors.New("orderbuilder: unsupported tick size")

// RoundConfig fixes the decimal-place ceilings for price, size and amount at
// a given tick size.
type RoundConfig struct {
	Price  int32
	Size   int32
	Amount int32
}

// roundingConfigs maps each supported tick-size string to its rounding
// configuration:
//
//	| Tick   | Price | Size | Amount |
//	|--------|-------|------|--------|
//	| 0.1    | 1     | 2    | 3      |
//	| 0.01   | 2     | 2    | 4      |
//	| 0.001  | 3     | 2    | 5      |
//	| 0.0001 | 4     | 2    | 6      |
var roundingConfigs = map[string]RoundConfig{
	"0.1":    {Price: 1, Size: 2, Amount: 3},
	"0.01":   {Price: 2, Size: 2, Amount: 4},
	"0.001":  {Price: 3, Size: 2, Amount: 5},
	"0.0001": {Price: 4, Size: 2, Amount: 6},
}

// GetRoundConfig returns the rounding configuration for a tick-size string.
// Unknown tick sizes are a caller error.
func GetRoundConfig(tickSize string) (RoundConfig, error) {
	rc, ok := roundingConfigs[tickSize]
	if !ok {
		return RoundConfig{}, fmt.Errorf("%w: %q", ErrUnsupportedTickSize, tickSize)
	}
	return rc, nil
}

// SupportedTickSizes lists the tick sizes present in the rounding table.
func SupportedTickSizes() []string {
	return []string{"0.1", "0.01", "0.001", "0.0001"}
}
