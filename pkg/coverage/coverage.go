package coverage

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/multimediallc/hunkowners/pkg/attribution"
	f "github.com/multimediallc/hunkowners/pkg/functional"
)

// Percentages returns each author's share of the attributed lines in the range 0-100.
// It returns nil when there are no attributed lines.
func Percentages(items []attribution.BlameItem, aliases map[string]string) map[string]float64 {
	resolver := newAliasMap(aliases)
	lines := make(map[string]int)
	// first spelling seen is the one displayed
	display := make(map[string]string)
	total := 0
	for _, item := range items {
		n := item.Lines()
		if n <= 0 {
			continue
		}
		id := resolver.resolve(item.Author)
		if _, ok := display[id.Normalized()]; !ok {
			display[id.Normalized()] = id.Original()
		}
		lines[id.Normalized()] += n
		total += n
	}
	if total == 0 {
		return nil
	}
	shares := make(map[string]float64, len(lines))
	for key, n := range lines {
		shares[display[key]] = float64(n) / float64(total) * 100
	}
	return shares
}

// Calculate formats Percentages to two decimal places
func Calculate(hunk attribution.PrHunkItem, aliases map[string]string) map[string]string {
	shares := Percentages(hunk.BlameItems, aliases)
	if shares == nil {
		return nil
	}
	return f.MapMap(shares, func(v float64) string { return fmt.Sprintf("%.2f", v) })
}

type Share struct {
	Author  string  `json:"author"`
	Percent float64 `json:"percent"`
}

// Ranked orders shares by descending percentage, then by author
func Ranked(shares map[string]float64) []Share {
	ranked := f.Map(slices.Sorted(maps.Keys(shares)), func(a string) Share {
		return Share{Author: a, Percent: shares[a]}
	})
	slices.SortStableFunc(ranked, func(a, b Share) int {
		return cmp.Compare(b.Percent, a.Percent)
	})
	return ranked
}

// SuggestReviewers picks the top authors by coverage, excluding the PR author.
// A max of 0 or less means no limit.
func SuggestReviewers(shares map[string]float64, prAuthor string, max int) []string {
	author := NewIdentity(prAuthor)
	ranked := f.Filtered(Ranked(shares), func(s Share) bool {
		return !author.EqualsString(s.Author) && s.Author != ""
	})
	names := f.Map(ranked, func(s Share) string { return s.Author })
	if max > 0 && len(names) > max {
		names = names[:max]
	}
	return names
}
