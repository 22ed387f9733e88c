package coverage

import (
	"testing"

	"github.com/multimediallc/hunkowners/pkg/attribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(author string, start, end int) attribution.BlameItem {
	return attribution.BlameItem{Author: author, Timestamp: "1700000000", LineStart: start, LineEnd: end, FilePathHash: "h"}
}

func TestCalculate(t *testing.T) {
	tt := []struct {
		name     string
		items    []attribution.BlameItem
		aliases  map[string]string
		expected map[string]string
	}{
		{
			name:     "quarter and three quarters",
			items:    []attribution.BlameItem{item("x", 1, 10), item("y", 11, 40)},
			expected: map[string]string{"x": "25.00", "y": "75.00"},
		},
		{
			name:     "same author across hunks sums",
			items:    []attribution.BlameItem{item("x", 1, 5), item("y", 6, 10), item("x", 20, 24)},
			expected: map[string]string{"x": "66.67", "y": "33.33"},
		},
		{
			name:     "single author",
			items:    []attribution.BlameItem{item("x", 3, 3)},
			expected: map[string]string{"x": "100.00"},
		},
		{
			name:     "aliases merge identities",
			items:    []attribution.BlameItem{item("x@corp.com", 1, 10), item("x@home.com", 11, 20), item("y", 21, 40)},
			aliases:  map[string]string{"x@corp.com": "@x", "x@home.com": "@x"},
			expected: map[string]string{"@x": "50.00", "y": "50.00"},
		},
		{
			name:     "no items",
			items:    nil,
			expected: nil,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := Calculate(attribution.NewPrHunkItem("1", "author", tc.items), tc.aliases)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestPercentagesSumToHundred(t *testing.T) {
	shares := Percentages([]attribution.BlameItem{item("a", 1, 3), item("b", 4, 10), item("c", 11, 11)}, nil)
	require.Len(t, shares, 3)
	total := 0.0
	for _, v := range shares {
		total += v
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestRanked(t *testing.T) {
	ranked := Ranked(map[string]float64{"b": 40, "a": 40, "c": 20})
	assert.Equal(t, []Share{{"a", 40}, {"b", 40}, {"c", 20}}, ranked)
}

func TestSuggestReviewers(t *testing.T) {
	shares := map[string]float64{"author": 50, "x": 30, "y": 15, "z": 5}
	tt := []struct {
		name     string
		max      int
		expected []string
	}{
		{name: "limit", max: 2, expected: []string{"x", "y"}},
		{name: "no limit", max: 0, expected: []string{"x", "y", "z"}},
		{name: "limit above count", max: 10, expected: []string{"x", "y", "z"}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SuggestReviewers(shares, "author", tc.max))
		})
	}
	assert.Empty(t, SuggestReviewers(nil, "author", 3))
}
