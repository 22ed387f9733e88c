package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	f "github.com/multimediallc/hunkowners/pkg/functional"
)

// isStdinPiped checks if stdin is being piped to the program
func isStdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// cleanTarget turns a user supplied path into the repo-relative slash form
// that numstat reports
func cleanTarget(target string) string {
	target = filepath.ToSlash(filepath.Clean(strings.TrimSpace(target)))
	return strings.TrimPrefix(target, "./")
}

// cleanTargets normalizes file paths and drops blanks and duplicates, keeping order
func cleanTargets(targets []string) []string {
	cleaned := f.Map(f.Filtered(targets, func(t string) bool {
		return strings.TrimSpace(t) != ""
	}), cleanTarget)
	return f.RemoveDuplicates(cleaned)
}

// scanStdin reads one file path per line from stdin
func scanStdin() ([]string, error) {
	scanner := bufio.NewScanner(os.Stdin)
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from stdin: %w", err)
	}
	return cleanTargets(lines), nil
}
