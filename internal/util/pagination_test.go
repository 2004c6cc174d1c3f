package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIntDefault(t *testing.T) {
	require.Equal(t, 7, ParseIntDefault("", 7))
	require.Equal(t, 7, ParseIntDefault("abc", 7))
	require.Equal(t, 3, ParseIntDefault("3", 7))
	require.Equal(t, -2, ParseIntDefault("-2", 7))
}

func TestCalculate(t *testing.T) {
	cases := []struct {
		name          string
		page, size    int
		offset, limit int
	}{
		{"first page", 0, 5, 0, 5},
		{"third page", 2, 5, 10, 5},
		{"negative page", -1, 5, 0, 5},
		{"zero size", 1, 0, 5, 5},
		{"size capped", 1, 500, 100, 100},
		{"huge page", math.MaxInt, 10, math.MaxInt32 / 10 * 10, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offset, limit := Calculate(tc.page, tc.size)
			require.Equal(t, tc.offset, offset)
			require.Equal(t, tc.limit, limit)
		})
	}
}

func TestNormalizeKeepsOffsetPositive(t *testing.T) {
	page, size := Normalize(math.MaxInt, MaxPageSize)
	require.Equal(t, MaxPageSize, size)
	require.Equal(t, math.MaxInt32/MaxPageSize, page)
	require.Positive(t, page*size)
}
