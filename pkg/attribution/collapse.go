package attribution

import (
	"maps"
	"slices"
)

// Collapse run-length encodes the blamed lines of one file into BlameItems.
// Only lines present in the map are walked; a gap in line numbers or a change
// of author closes the current hunk.
func Collapse(path string, lines LineMap) []BlameItem {
	if len(lines) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(lines))
	hash := HashPath(path)

	items := make([]BlameItem, 0)
	first, last := keys[0], keys[0]
	for _, line := range keys[1:] {
		if lines[line].Author == lines[first].Author && line == last+1 {
			last = line
			continue
		}
		items = append(items, newBlameItem(lines[first], first, last, hash))
		first, last = line, line
	}
	return append(items, newBlameItem(lines[first], first, last, hash))
}

// The hunk carries the timestamp of its first line.
func newBlameItem(head LineAttribution, start, end int, hash string) BlameItem {
	return BlameItem{
		Author:       head.Author,
		Timestamp:    head.Timestamp,
		LineStart:    start,
		LineEnd:      end,
		FilePathHash: hash,
	}
}
