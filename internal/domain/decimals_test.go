package domain

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToDecimal(t *testing.T) {
	wei, _ := new(big.Int).SetString("1500000000000000000", 10)
	huge, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)

	tests := []struct {
		name     string
		raw      *big.Int
		decimals int
		expected string
	}{
		{name: "18 decimals", raw: wei, decimals: 18, expected: "1.5"},
		{name: "6 decimals", raw: big.NewInt(2500000), decimals: 6, expected: "2.5"},
		{name: "0 decimals", raw: big.NewInt(12345), decimals: 0, expected: "12345"},
		{name: "sub unit", raw: big.NewInt(1), decimals: 18, expected: "0.000000000000000001"},
		{name: "negative", raw: big.NewInt(-40), decimals: 1, expected: "-4"},
		{name: "nil", raw: nil, decimals: 18, expected: "0"},
		{
			name:     "uint256 max",
			raw:      huge,
			decimals: 18,
			expected: "115792089237316195423570985008687907853269984665640564039457.584007913129639935",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := decimal.RequireFromString(tt.expected)
			got := ToDecimal(tt.raw, tt.decimals)
			assert.True(t, expected.Equal(got), "expected %s, got %s", expected, got)
		})
	}
}

func TestToDecimalMatchesDivision(t *testing.T) {
	raw := big.NewInt(123456789)
	for _, d := range []int{0, 6, 18} {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d)), nil)
		expected := decimal.NewFromBigInt(raw, 0).DivRound(decimal.NewFromBigInt(scale, 0), int32(d))
		assert.True(t, expected.Equal(ToDecimal(raw, d)), "decimals %d", d)
	}
}

func TestRawDecimalRoundTrip(t *testing.T) {
	raw, _ := new(big.Int).SetString("987654321987654321987654321", 10)
	assert.Equal(t, 0, raw.Cmp(RawBigInt(RawDecimal(raw))))
	assert.True(t, RawDecimal(nil).IsZero())
}
