package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/multimediallc/hunkowners/pkg/attribution"
)

var authorReplacer = strings.NewReplacer("(", "", "<", "", ">", "")

// Blame returns the author of every line in lr at ref. Lines past the end of
// the file are simply absent from the map.
func (r *Repository) Blame(ctx context.Context, ref string, lr attribution.LineRange) (attribution.LineMap, error) {
	path := r.NormalizePath(lr.FilePath)
	output, err := r.run(ctx, "blame", ref, "-L", lr.Token(), "-e", "--date=unix", "--", path)
	if err != nil {
		return nil, fmt.Errorf("blame %s:%s: %w", path, lr.Token(), err)
	}
	return ParseBlame(lr.Start, output), nil
}

// ParseBlame keys each blame output line by start plus its offset in the output
func ParseBlame(start int, output string) attribution.LineMap {
	lines := make(attribution.LineMap)
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return lines
	}
	for offset, line := range strings.Split(output, "\n") {
		author, timestamp, ok := parseBlameLine(line)
		if !ok {
			continue
		}
		lines[start+offset] = attribution.LineAttribution{
			Line:      start + offset,
			Author:    author,
			Timestamp: timestamp,
		}
	}
	return lines
}

// parseBlameLine reads `<commit> [file] (<author> <timestamp> ...) <content>`.
// Short author names are padded with spaces, so empty tokens are skipped.
func parseBlameLine(line string) (author string, timestamp string, ok bool) {
	tokens := strings.Split(line, " ")
	authorIdx := -1
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == "" {
			continue
		}
		if authorIdx < 0 {
			authorIdx = i
		}
		if strings.HasPrefix(tokens[i], "(") {
			authorIdx = i
			break
		}
	}
	if authorIdx < 0 {
		return "", "", false
	}
	for i := authorIdx + 1; i < len(tokens); i++ {
		if tokens[i] != "" {
			timestamp = tokens[i]
			break
		}
	}
	return authorReplacer.Replace(tokens[authorIdx]), timestamp, true
}
