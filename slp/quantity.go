package slp

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimals parses a decimals field. An empty string means 0.
func ParseDecimals(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil || v > MaxDecimals {
		return 0, fmt.Errorf("%w: %q (must be 0-%d)", ErrInvalidDecimals, s, MaxDecimals)
	}
	return uint8(v), nil
}

// ParseQuantity converts a display quantity such as "12.5" into base units
// by scaling with 10^decimals. The result must be a whole, non-negative
// number that fits in 64 bits.
func ParseQuantity(s string, decimals uint8) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidQuantity)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidQuantity, s)
	}

	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidQuantity, s, decimals)
	}
	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("%w: %q overflows 64 bits", ErrInvalidQuantity, s)
	}
	return bi.Uint64(), nil
}

// FormatQuantity renders base units as a display quantity.
func FormatQuantity(base uint64, decimals uint8) string {
	return ScaleQuantity(new(big.Int).SetUint64(base), decimals).String()
}

// ScaleQuantity divides a base-unit amount by 10^decimals.
func ScaleQuantity(base *big.Int, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(base, -int32(decimals))
}
