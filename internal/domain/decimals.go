package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToDecimal scales a raw on-chain amount by 10^decimals.
// A nil raw value is treated as zero.
func ToDecimal(raw *big.Int, decimals int) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)) //nolint:gosec,G115 // decimals is bounded by uint8 on chain
}

// RawDecimal wraps a raw integer amount without scaling so it can be stored in a numeric column
func RawDecimal(raw *big.Int) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, 0)
}

// RawBigInt converts a stored raw amount back to an integer
func RawBigInt(d decimal.Decimal) *big.Int {
	return d.BigInt()
}
