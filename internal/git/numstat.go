package git

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/multimediallc/hunkowners/pkg/attribution"
	f "github.com/multimediallc/hunkowners/pkg/functional"
)

const DefaultLineThreshold = 500

// DiffStat returns the numstat rows for base..head
func (r *Repository) DiffStat(ctx context.Context, base, head string, warn io.Writer) ([]attribution.StatItem, error) {
	output, err := r.run(ctx, "diff", "--numstat", "--no-renames", base, head)
	if err != nil {
		return nil, fmt.Errorf("diff stat %s..%s: %w", base, head, err)
	}
	return ParseNumstat(output, warn), nil
}

// ParseNumstat parses `additions\tdeletions\tpath` lines. Lines with fewer than
// three fields are dropped; counts that are not integers (binary files) become 0.
func ParseNumstat(output string, warn io.Writer) []attribution.StatItem {
	if warn == nil {
		warn = io.Discard
	}
	items := make([]attribution.StatItem, 0)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		items = append(items, attribution.StatItem{
			FilePath:  fields[2],
			Additions: parseCount(fields[0], "additions", fields[2], warn),
			Deletions: parseCount(fields[1], "deletions", fields[2], warn),
		})
	}
	return items
}

func parseCount(value, field, path string, warn io.Writer) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		_, _ = fmt.Fprintf(warn, "WARNING: Unable to parse %s for %s: %q\n", field, path, value)
		return 0
	}
	return n
}

// Partition splits stat items into files too large to attribute and the rest
func Partition(items []attribution.StatItem, threshold int) (big []attribution.StatItem, small []attribution.StatItem) {
	return f.Partition(items, func(s attribution.StatItem) bool {
		return s.Additions > threshold || s.Deletions > threshold || s.Total() > threshold
	})
}
