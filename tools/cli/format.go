package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/multimediallc/hunkowners/internal/engine"
	"github.com/multimediallc/hunkowners/pkg/attribution"
	"github.com/multimediallc/hunkowners/pkg/coverage"
	f "github.com/multimediallc/hunkowners/pkg/functional"
)

type OutputFormat string

const (
	FormatDefault OutputFormat = "default"
	FormatOneLine OutputFormat = "one-line"
	FormatJSON    OutputFormat = "json"
)

var allowedFormats = []string{string(FormatDefault), string(FormatOneLine), string(FormatJSON)}

func validateFormat(format string) (OutputFormat, error) {
	if !slices.Contains(allowedFormats, format) {
		return "", fmt.Errorf("invalid format %s. Must be one of %s", format, strings.Join(allowedFormats, ", "))
	}
	return OutputFormat(format), nil
}

type statGroup struct {
	name  string
	items []attribution.StatItem
}

type statOutput struct {
	Attributable []attribution.StatItem `json:"attributable"`
	Large        []attribution.StatItem `json:"large"`
	Ignored      []attribution.StatItem `json:"ignored"`
}

func nonNil[T any](ts []T) []T {
	if ts == nil {
		return []T{}
	}
	return ts
}

func printStat(w io.Writer, result *engine.Result, format OutputFormat) error {
	if format == FormatJSON {
		return json.NewEncoder(w).Encode(statOutput{
			Attributable: nonNil(result.Small),
			Large:        nonNil(result.Big),
			Ignored:      nonNil(result.Ignored),
		})
	}

	groups := f.Filtered([]statGroup{
		{name: "Attributable", items: result.Small},
		{name: "Large", items: result.Big},
		{name: "Ignored", items: result.Ignored},
	}, func(g statGroup) bool { return len(g.items) > 0 })

	for i, group := range groups {
		if format == FormatOneLine {
			names := f.Map(group.items, func(s attribution.StatItem) string { return s.FilePath })
			_, _ = fmt.Fprintf(w, "%s: %s\n", group.name, strings.Join(names, ", "))
			continue
		}
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "%s:\n", group.name)
		for _, s := range group.items {
			_, _ = fmt.Fprintf(w, "%s +%d -%d\n", s.FilePath, s.Additions, s.Deletions)
		}
	}
	return nil
}

// printHunks resolves each item's hashed file identity back to one of paths
func printHunks(w io.Writer, items []attribution.BlameItem, paths []string, format OutputFormat) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		for _, item := range items {
			if err := enc.Encode(item); err != nil {
				return err
			}
		}
		return nil
	}

	byHash := make(map[string]string, len(paths))
	for _, path := range paths {
		byHash[attribution.HashPath(path)] = path
	}
	hunkStr := func(item attribution.BlameItem) string {
		path, ok := byHash[item.FilePathHash]
		if !ok {
			path = item.FilePathHash
		}
		return fmt.Sprintf("%s:%d-%d %s %s", path, item.LineStart, item.LineEnd, item.Author, item.Timestamp)
	}

	if format == FormatOneLine {
		_, _ = fmt.Fprintln(w, strings.Join(f.Map(items, hunkStr), ", "))
		return nil
	}
	for _, item := range items {
		_, _ = fmt.Fprintln(w, hunkStr(item))
	}
	return nil
}

func printCoverage(w io.Writer, shares map[string]float64, format OutputFormat) error {
	ranked := coverage.Ranked(shares)
	switch format {
	case FormatJSON:
		return json.NewEncoder(w).Encode(nonNil(ranked))
	case FormatOneLine:
		shareStrs := f.Map(ranked, func(s coverage.Share) string {
			return fmt.Sprintf("%s (%.2f%%)", s.Author, s.Percent)
		})
		_, _ = fmt.Fprintln(w, strings.Join(shareStrs, ", "))
	default:
		for _, s := range ranked {
			_, _ = fmt.Fprintf(w, "%s: %.2f%%\n", s.Author, s.Percent)
		}
	}
	return nil
}
