package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/multimediallc/hunkowners/pkg/attribution"
	"github.com/sourcegraph/go-diff/diff"
)

const hunkDelimiter = "@@"

// FileDiff returns the zero-context diff of a single file between two refs
func (r *Repository) FileDiff(ctx context.Context, base, head, path string) (string, error) {
	path = r.NormalizePath(path)
	output, err := r.run(ctx, "diff", fmt.Sprintf("%s:%s", base, path), fmt.Sprintf("%s:%s", head, path), "-U0")
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return output, nil
}

// Regions returns the base-side line ranges replaced between base and head
func (r *Repository) Regions(ctx context.Context, base, head, path string) ([]attribution.LineRange, error) {
	output, err := r.FileDiff(ctx, base, head, path)
	if err != nil {
		return nil, err
	}
	return ParseRegions(r.NormalizePath(path), output), nil
}

// ParseRegions extracts the deleted/modified line ranges of a -U0 diff.
// Pure additions carry nothing to blame and are skipped.
func ParseRegions(path string, raw string) []attribution.LineRange {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fileDiff, err := diff.ParseFileDiff([]byte(raw))
	if err != nil {
		return scanHunkHeaders(path, raw)
	}
	ranges := make([]attribution.LineRange, 0, len(fileDiff.Hunks))
	for _, hunk := range fileDiff.Hunks {
		if hunk.OrigLines <= 0 || hunk.OrigStartLine <= 0 {
			continue
		}
		ranges = append(ranges, attribution.LineRange{
			FilePath: path,
			Start:    int(hunk.OrigStartLine),
			End:      int(hunk.OrigStartLine + hunk.OrigLines - 1),
		})
	}
	return ranges
}

// scanHunkHeaders reads the text between successive "@@" delimiters. Only
// bodies of the canonical " -l,n +l,n " shape are used; anything else,
// combined-diff headers included, is skipped.
func scanHunkHeaders(path string, raw string) []attribution.LineRange {
	positions := make([]int, 0)
	for offset := 0; ; {
		idx := strings.Index(raw[offset:], hunkDelimiter)
		if idx < 0 {
			break
		}
		positions = append(positions, offset+idx)
		offset += idx + len(hunkDelimiter)
	}

	ranges := make([]attribution.LineRange, 0)
	for i := 0; i+1 < len(positions); i++ {
		body := raw[positions[i]+len(hunkDelimiter) : positions[i+1]]
		tokens := strings.Split(body, " ")
		if strings.Contains(body, "\n") || len(tokens) != 4 {
			continue
		}
		if lr, ok := deletionRange(path, tokens[1]); ok {
			ranges = append(ranges, lr)
		}
	}
	return ranges
}

// deletionRange converts "-l,n" to the inclusive range l..l+n-1 and "-l" to l..l
func deletionRange(path string, token string) (attribution.LineRange, bool) {
	if !strings.HasPrefix(token, "-") {
		return attribution.LineRange{}, false
	}
	startStr, countStr, hasCount := strings.Cut(token[1:], ",")
	start, err := strconv.Atoi(startStr)
	if err != nil || start <= 0 {
		return attribution.LineRange{}, false
	}
	count := 1
	if hasCount {
		count, err = strconv.Atoi(countStr)
		if err != nil || count <= 0 {
			return attribution.LineRange{}, false
		}
	}
	return attribution.LineRange{FilePath: path, Start: start, End: start + count - 1}, true
}
